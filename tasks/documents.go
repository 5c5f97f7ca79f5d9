package tasks

import (
	"text2phenotype.com/postag/redis"
)

const DocumentsDB redis.DB = 0

type DocumentTask struct {
	FailedTasks  []string            `json:"failed_tasks"`
	FailedChunks map[string][]string `json:"failed_chunks"`
}

// DocumentTaskCached is the subset of document properties mirrored under the
// "-cached-properties" key.
type DocumentTaskCached struct {
	FailedTasks []string `json:"failed_tasks"`
	JobID       string   `json:"job_id"`
	WorkType    string   `json:"work_type"`
}

type DocumentTasks struct {
	client redis.Client
}

func (tasks DocumentTasks) GetCached(redisKey string) (*DocumentTaskCached, error) {
	var task DocumentTaskCached
	if err := tasks.client.GetDocument(cachedPropertiesKey(redisKey), &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// Update applies updateFunc to the document and mirrors the failed tasks into the
// cached properties, both under the document's lock.
func (tasks DocumentTasks) Update(redisKey string, updateFunc func(task *DocumentTask)) (err error) {
	releaseLock, err := tasks.client.Lock(redisKey)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = releaseLock()
			return
		}
		err = releaseLock()
	}()

	var task DocumentTask
	err = tasks.client.MergeDocument(redisKey, &task, func() {
		if task.FailedChunks == nil {
			task.FailedChunks = make(map[string][]string)
		}
		updateFunc(&task)
	})
	if err != nil {
		return err
	}

	var cached DocumentTaskCached
	return tasks.client.MergeDocument(cachedPropertiesKey(redisKey), &cached, func() {
		cached.FailedTasks = task.FailedTasks
	})
}
