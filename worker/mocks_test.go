package worker

import (
	"errors"

	"github.com/rs/zerolog"
	"github.com/streadway/amqp"

	"text2phenotype.com/postag/pipeline"
	"text2phenotype.com/postag/tasks"
)

type failingMethod struct {
	fail bool
}

type withValue struct {
	fail          bool
	returnedValue interface{}
}

type pipelineMock struct {
	ppln     pipeline.Pipeline
	config   pipelineMockConfig
	calls    pipelineCall
	requests []pipeline.Request
}

type pipelineMockConfig struct {
	fail   bool
	result string
}

type pipelineCall struct {
	pipeline bool
}

type redisMock struct {
	config  redisMockConfig
	calls   redisMockCalls
	reasons []string
}

type redisMockConfig struct {
	loadChunk     withValue
	loadJob       withValue
	loadDocument  withValue
	markStarted   failingMethod
	markCanceled  failingMethod
	markExhausted failingMethod
	markFailed    failingMethod
	markDone      failingMethod
}

type redisMockCalls struct {
	loadChunk     bool
	loadJob       bool
	loadDocument  bool
	markStarted   bool
	markCanceled  bool
	markExhausted bool
	markFailed    bool
	markDone      bool
}

type rmqMock struct {
	config     rmqMockConfig
	calls      rmqMockCalls
	deliveryCh chan amqp.Delivery
}

type rmqMockConfig struct {
	notifySequencer failingMethod
	ack             failingMethod
}

type rmqMockCalls struct {
	notifySequencer bool
	ack             bool
	reject          bool
}

type s3Mock struct {
	config s3MockConfig
	calls  s3MockCalls
	stored string
}

type s3MockConfig struct {
	fetchText withValue
	storeTags failingMethod
}

type s3MockCalls struct {
	fetchText bool
	storeTags bool
}

func (mock *s3Mock) close() {}

func (mock *rmqMock) close() {}

func (mock *redisMock) close() {}

func newPipelineMock(config pipelineMockConfig) *pipelineMock {
	mock := pipelineMock{config: config}
	mock.ppln = func(request pipeline.Request) <-chan string {
		mock.calls.pipeline = true
		mock.requests = append(mock.requests, request)
		ch := make(chan string, 1)
		if !mock.config.fail {
			ch <- mock.config.result
		}
		close(ch)
		return ch
	}
	return &mock
}

func (mock *redisMock) loadChunk(redisKey string) (*tasks.ChunkTask, error) {
	mock.calls.loadChunk = true
	if mock.config.loadChunk.fail {
		return nil, errors.New("failed to get chunk task")
	}
	if task, ok := mock.config.loadChunk.returnedValue.(tasks.ChunkTask); ok {
		return &task, nil
	}
	return &tasks.ChunkTask{}, nil
}

func (mock *redisMock) loadJob(task *Task) (*tasks.JobTask, error) {
	mock.calls.loadJob = true
	if mock.config.loadJob.fail {
		return nil, errors.New("failed to get job task")
	}
	if job, ok := mock.config.loadJob.returnedValue.(tasks.JobTask); ok {
		return &job, nil
	}
	return &tasks.JobTask{}, nil
}

func (mock *redisMock) loadDocument(task *Task) (*tasks.DocumentTaskCached, error) {
	mock.calls.loadDocument = true
	if mock.config.loadDocument.fail {
		return nil, errors.New("failed to get doc task")
	}
	if doc, ok := mock.config.loadDocument.returnedValue.(tasks.DocumentTaskCached); ok {
		return &doc, nil
	}
	return &tasks.DocumentTaskCached{}, nil
}

func (mock *redisMock) markStarted(task *Task) error {
	mock.calls.markStarted = true
	if mock.config.markStarted.fail {
		return errors.New("failed to update chunk task on start")
	}
	return nil
}

func (mock *redisMock) markCanceled(task *Task, reasons ...string) error {
	mock.calls.markCanceled = true
	mock.reasons = append(mock.reasons, reasons...)
	if mock.config.markCanceled.fail {
		return errors.New("failed to update chunk task on cancel")
	}
	return nil
}

func (mock *redisMock) markExhausted(task *Task, maxRetries int) error {
	mock.calls.markExhausted = true
	if mock.config.markExhausted.fail {
		return errors.New("failed to update chunk task on exceeded retries")
	}
	return nil
}

func (mock *redisMock) markFailed(task *Task, err error) error {
	mock.calls.markFailed = true
	mock.reasons = append(mock.reasons, err.Error())
	if mock.config.markFailed.fail {
		return errors.New("failed to update chunk task on fail with error")
	}
	return nil
}

func (mock *redisMock) markDone(task *Task) error {
	mock.calls.markDone = true
	if mock.config.markDone.fail {
		return errors.New("failed to update chunk task on complete")
	}
	return nil
}

func (mock *rmqMock) reject(delivery *amqp.Delivery, fdlLogger *zerolog.Logger) {
	mock.calls.reject = true
}

func (mock *rmqMock) deliveries() <-chan amqp.Delivery {
	return mock.deliveryCh
}

func (mock *rmqMock) reqErrors() <-chan *amqp.Error {
	return nil
}

func (mock *rmqMock) respErrors() <-chan *amqp.Error {
	return nil
}

func (mock *rmqMock) notifySequencer(task *Task) error {
	mock.calls.notifySequencer = true
	if mock.config.notifySequencer.fail {
		return errors.New("failed to ping sequencer")
	}
	return nil
}

func (mock *rmqMock) ack(delivery *amqp.Delivery) error {
	mock.calls.ack = true
	if mock.config.ack.fail {
		return errors.New("failed to acknowledge delivery")
	}
	return nil
}

func (mock *s3Mock) fetchText(task *Task) ([]byte, error) {
	mock.calls.fetchText = true
	if mock.config.fetchText.fail {
		return nil, errors.New("mock: failed to load from s3")
	}
	if data, ok := mock.config.fetchText.returnedValue.([]byte); ok {
		return data, nil
	}
	return []byte("the dog runs"), nil
}

func (mock *s3Mock) storeTags(task *Task, result string) error {
	mock.calls.storeTags = true
	if mock.config.storeTags.fail {
		return errors.New("failed to upload results")
	}
	mock.stored = result
	return nil
}
