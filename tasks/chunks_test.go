package tasks

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskStatus(t *testing.T) {
	for _, status := range []TaskStatus{TaskStatusCompletedSuccess, TaskStatusCompletedFailure, TaskStatusCanceled} {
		assert.True(t, status.Complete(), status)
		assert.False(t, status.Submitted(), status)
	}
	for _, status := range []TaskStatus{TaskStatusSubmitted, TaskStatusStarted, TaskStatusProcessing} {
		assert.True(t, status.Submitted(), status)
		assert.False(t, status.Complete(), status)
	}
	assert.False(t, TaskStatusFailed.Complete())
	assert.False(t, TaskStatusFailed.Submitted())
}

func TestChunkTaskReadsTaggerStatus(t *testing.T) {
	raw := `{
		"document_id": "doc",
		"job_id": "job",
		"text_file_key": "processed/documents/doc/chunks/c1.txt",
		"task_statuses": {
			"pos_tagger": {"status": "started", "attempts": 2, "error_messages": ["boom"]},
			"other": {"status": "completed - success"}
		}
	}`
	var task ChunkTask
	require.NoError(t, json.Unmarshal([]byte(raw), &task))

	assert.Equal(t, "doc", task.DocID)
	assert.Equal(t, "job", task.JobID)
	assert.Equal(t, TaskStatusStarted, task.TaskStatuses.Tagger.Status)
	assert.Equal(t, 2, task.TaskStatuses.Tagger.Attempts)
	assert.Equal(t, []string{"boom"}, task.TaskStatuses.Tagger.ErrorMessages)
}

func TestCachedPropertiesKey(t *testing.T) {
	assert.Equal(t, "doc-1-cached-properties", cachedPropertiesKey("doc-1"))
}
