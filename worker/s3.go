package worker

import (
	"text2phenotype.com/postag/s3client"
)

type s3Transactions interface {
	fetchText(task *Task) ([]byte, error)
	storeTags(task *Task, result string) error
	close()
}

type s3ClientWrapper struct {
	s3Client *s3client.Client
}

func (wrapper *s3ClientWrapper) close() {
	wrapper.s3Client.Close()
}

func (wrapper *s3ClientWrapper) fetchText(task *Task) ([]byte, error) {
	return wrapper.s3Client.Download(task.chunkTask.TextFileKey)
}

func (wrapper *s3ClientWrapper) storeTags(task *Task, result string) error {
	return wrapper.s3Client.Upload([]byte(result), resultsFileKey(task))
}
