package worker

import (
	"fmt"

	"text2phenotype.com/postag/tasks"
)

type redisTransactions interface {
	loadChunk(redisKey string) (*tasks.ChunkTask, error)
	loadJob(task *Task) (*tasks.JobTask, error)
	loadDocument(task *Task) (*tasks.DocumentTaskCached, error)
	markStarted(task *Task) error
	markCanceled(task *Task, reasons ...string) error
	markExhausted(task *Task, maxRetries int) error
	markFailed(task *Task, err error) error
	markDone(task *Task) error
	close()
}

type redisClientWrapper struct {
	tasksClient *tasks.Client
}

func (wrapper *redisClientWrapper) close() {
	wrapper.tasksClient.Close()
}

func (wrapper *redisClientWrapper) loadChunk(redisKey string) (*tasks.ChunkTask, error) {
	return wrapper.tasksClient.Chunks.Get(redisKey)
}

func (wrapper *redisClientWrapper) loadJob(task *Task) (*tasks.JobTask, error) {
	return wrapper.tasksClient.Jobs.GetCached(task.chunkTask.JobID)
}

func (wrapper *redisClientWrapper) loadDocument(task *Task) (*tasks.DocumentTaskCached, error) {
	return wrapper.tasksClient.Documents.GetCached(task.chunkTask.DocID)
}

func (wrapper *redisClientWrapper) updateInfo(task *Task, update func(info *tasks.ChunkTaskInfo)) error {
	return wrapper.tasksClient.Chunks.Update(task.redisKey, func(chunkTask *tasks.ChunkTask) {
		update(&chunkTask.TaskStatuses.Tagger)
	})
}

func (wrapper *redisClientWrapper) markStarted(task *Task) error {
	return wrapper.updateInfo(task, func(info *tasks.ChunkTaskInfo) {
		info.Status = tasks.TaskStatusStarted
		info.Attempts++
		info.StartedAt = formattedNow()
		info.CompletedAt = nil
	})
}

func (wrapper *redisClientWrapper) markCanceled(task *Task, reasons ...string) error {
	return wrapper.updateInfo(task, func(info *tasks.ChunkTaskInfo) {
		info.Status = tasks.TaskStatusCanceled
		info.StartedAt = formattedNow()
		info.CompletedAt = info.StartedAt
		info.Attempts++
		info.ErrorMessages = append(info.ErrorMessages, reasons...)
	})
}

// markExhausted records the tagger as failed on the document before closing the chunk,
// so the other workers of the document can stop early.
func (wrapper *redisClientWrapper) markExhausted(task *Task, maxRetries int) error {
	err := wrapper.tasksClient.Documents.Update(task.chunkTask.DocID, func(docTask *tasks.DocumentTask) {
		docTask.FailedTasks = append(docTask.FailedTasks, tasks.TaskName)
		docTask.FailedChunks[task.redisKey] = append(docTask.FailedChunks[task.redisKey], tasks.TaskName)
	})
	if err != nil {
		return err
	}
	return wrapper.updateInfo(task, func(info *tasks.ChunkTaskInfo) {
		info.Status = tasks.TaskStatusCompletedFailure
		info.StartedAt = formattedNow()
		info.CompletedAt = info.StartedAt
		info.Attempts++
		info.ErrorMessages = append(info.ErrorMessages, fmt.Sprintf(
			"Task has exceeded retries. (Attempts: %d, max retries: %d )",
			info.Attempts,
			maxRetries,
		))
	})
}

func (wrapper *redisClientWrapper) markFailed(task *Task, err error) error {
	return wrapper.updateInfo(task, func(info *tasks.ChunkTaskInfo) {
		info.Status = tasks.TaskStatusFailed
		info.CompletedAt = formattedNow()
		info.ErrorMessages = append(info.ErrorMessages, err.Error())
	})
}

func (wrapper *redisClientWrapper) markDone(task *Task) error {
	return wrapper.updateInfo(task, func(info *tasks.ChunkTaskInfo) {
		if !info.Status.Complete() {
			info.Status = tasks.TaskStatusCompletedSuccess
		}
		info.CompletedAt = formattedNow()
		info.ResultsFileKey = resultsFileKey(task)
	})
}
