package worker

import (
	"fmt"
	"path"
	"time"
)

// resultsFileKey is where the tags of a chunk are stored, next to the chunk itself.
func resultsFileKey(task *Task) string {
	return path.Join(
		"processed",
		"documents",
		task.chunkTask.DocID,
		"chunks",
		task.redisKey,
		fmt.Sprintf("%s.pos_tags.json", task.redisKey),
	)
}

const RFC3339Micro = "2006-01-02T15:04:05.000000-07:00"

func formattedNow() *string {
	now := time.Now().UTC().Format(RFC3339Micro)
	return &now
}
