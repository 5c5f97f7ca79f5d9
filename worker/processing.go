package worker

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/streadway/amqp"

	"text2phenotype.com/postag/pipeline"
	"text2phenotype.com/postag/tasks"
	"text2phenotype.com/postag/utils"
)

type Message struct {
	WorkType string `json:"work_type"`
	RedisKey string `json:"redis_key"`
	Sender   string `json:"sender"`
	Version  string `json:"version"`
}

type Task struct {
	delivery  *amqp.Delivery
	chunkTask *tasks.ChunkTask
	message   *Message
	redisKey  string
	fdlLogger *zerolog.Logger
}

type decision int

const (
	decisionRun decision = iota
	// the task needs no work but the sequencer still has to hear back
	decisionSkip
	decisionCancel
	decisionExhausted
)

// processMessage handles one delivery end to end. The delivery is acknowledged only
// after the task state is stored and the sequencer is notified; any failure before
// that rejects it.
func (worker *Worker) processMessage(delivery *amqp.Delivery) {
	rejectLogger := worker.fdlLogger.With().Str("message_id", delivery.MessageId).Logger()

	task, err := worker.createTask(delivery)
	if err != nil {
		rejectLogger.Err(err).
			Str("tid", string(delivery.Body)).
			Msg("Failed to create task for delivery")
		worker.rmq.reject(delivery, &rejectLogger)
		return
	}

	if err = worker.processTask(task); err != nil {
		worker.rmq.reject(delivery, &rejectLogger)
		return
	}
	if err = worker.rmq.notifySequencer(task); err != nil {
		task.fdlLogger.Err(err).Msg("Got error while sending message to sequencer queue")
		worker.rmq.reject(delivery, &rejectLogger)
		return
	}
	if err = worker.rmq.ack(delivery); err != nil {
		task.fdlLogger.Err(err).Msg("Failed to acknowledge delivery")
	}
	task.fdlLogger.Info().Msg("Finished processing RMQ message")
}

func (worker *Worker) createTask(delivery *amqp.Delivery) (*Task, error) {
	var message Message
	if err := json.Unmarshal(delivery.Body, &message); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message: %w", err)
	}
	chunkTask, err := worker.redis.loadChunk(message.RedisKey)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunk task for message: %w", err)
	}

	taskLogger := worker.fdlLogger.With().Str("tid", message.RedisKey).Logger()
	return &Task{
		delivery:  delivery,
		chunkTask: chunkTask,
		redisKey:  message.RedisKey,
		message:   &message,
		fdlLogger: &taskLogger,
	}, nil
}

// processTask returns an error only when the task state could not be stored; a
// failed tagging run is recorded on the task and is not an error here.
func (worker *Worker) processTask(task *Task) error {
	next, reason, err := worker.decide(task)
	if err != nil {
		task.fdlLogger.Err(err).Msg("Got error while trying to decide whether to run task")
		return err
	}

	switch next {
	case decisionSkip:
		return nil
	case decisionCancel:
		if reason == "" {
			return worker.redis.markCanceled(task)
		}
		return worker.redis.markCanceled(task, reason)
	case decisionExhausted:
		return worker.redis.markExhausted(task, worker.config.TaskMaxRetries)
	}

	if err = worker.redis.markStarted(task); err != nil {
		task.fdlLogger.Err(err).Msg("Failed to update task info")
		return fmt.Errorf("failed to update task info: %w", err)
	}

	if err = worker.tagChunk(task); err != nil {
		task.fdlLogger.Err(err).Msg("Got error while running pipeline")
		return worker.redis.markFailed(task, err)
	}

	task.fdlLogger.Info().Msg("Saved results, marking task as complete")
	if err = worker.redis.markDone(task); err != nil {
		task.fdlLogger.Err(err).Msg("Got error while trying to mark task as complete")
		return err
	}
	return nil
}

func (worker *Worker) tagChunk(task *Task) (err error) {
	defer utils.RecoverWithError(&err)
	task.fdlLogger.Info().Msgf("Processing message from RMQ, attempt # %d", task.chunkTask.TaskStatuses.Tagger.Attempts)

	data, err := worker.s3.fetchText(task)
	if err != nil {
		task.fdlLogger.Err(err).Caller().Msg("Could not fetch text data from s3")
		return fmt.Errorf("failed fetch data from s3: %w", err)
	}

	result, ok := <-worker.ppln(pipeline.Request{
		Tid:  task.redisKey,
		Text: string(data),
	})
	if !ok {
		return errors.New("pipeline channel was closed before returning anything")
	}

	task.fdlLogger.Info().Msg("Finished pipeline, saving results to s3")
	if err = worker.s3.storeTags(task, result); err != nil {
		task.fdlLogger.Err(err).Msg("Got error while trying to save results")
		return err
	}
	return nil
}

// decide inspects the chunk, its job and, when the job stops documents on failure,
// its document to tell whether the tagger should run.
func (worker *Worker) decide(task *Task) (decision, string, error) {
	info := task.chunkTask.TaskStatuses.Tagger
	taskLogger := task.fdlLogger

	if info.Status.Complete() {
		taskLogger.Info().Msg("Task is already done. (might indicate issue acking message with RMQ). Sending back to Sequencer.")
		return decisionSkip, "", nil
	}

	job, err := worker.redis.loadJob(task)
	if err != nil {
		return decisionSkip, "", fmt.Errorf("failed to query job task: %w", err)
	}
	if job.UserCanceled {
		taskLogger.Info().Msg("Job was canceled, no need to perform this task. Sending back to Sequencer.")
		return decisionCancel, "", nil
	}

	if job.StopDocumentsOnFailure {
		doc, err := worker.redis.loadDocument(task)
		if err != nil {
			return decisionSkip, "", fmt.Errorf("failed to query document task: %w", err)
		}
		if doc == nil {
			return decisionSkip, "", errors.New("document task not found")
		}
		if len(doc.FailedTasks) > 0 {
			failedTask := doc.FailedTasks[0]
			taskLogger.Info().Msgf("Task is not required because %q already completed with failure. Sending back to Sequencer.", failedTask)
			return decisionCancel, fmt.Sprintf(
				"Task was marked as %q because the document has failed in the %q worker and won't be processed successfully.",
				tasks.TaskStatusCanceled,
				failedTask,
			), nil
		}
	}

	if info.Attempts >= worker.config.TaskMaxRetries {
		taskLogger.Info().Msg("Tagging task has exceeded retries. Sending back to Sequencer.")
		return decisionExhausted, "", nil
	}
	return decisionRun, "", nil
}
