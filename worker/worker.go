package worker

import (
	"context"
	"fmt"
	"sync"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"

	"text2phenotype.com/postag/logger"
	"text2phenotype.com/postag/pipeline"
	"text2phenotype.com/postag/rmq"
	"text2phenotype.com/postag/s3client"
	"text2phenotype.com/postag/tasks"
)

type Config struct {
	TaskMaxRetries int `envconfig:"POSTAG_RETRY_TASK_COUNT_MAX" default:"3"`
}

// Worker consumes chunk tagging tasks from RabbitMQ, tags the chunk text stored in S3
// and tracks the task state in Redis.
type Worker struct {
	config    Config
	redis     redisTransactions
	s3        s3Transactions
	rmq       rmqTransactions
	fdlLogger *zerolog.Logger
	ppln      pipeline.Pipeline
	inFlight  sync.WaitGroup
}

func New(ppln pipeline.Pipeline) (*Worker, error) {
	fdlLogger := logger.NewLogger("Worker")
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		fdlLogger.Error().Err(err).Msg("Could not read config")
		return nil, err
	}

	worker := Worker{
		config:    config,
		fdlLogger: &fdlLogger,
		ppln:      ppln,
	}
	if err := worker.refreshRMQClient(); err != nil {
		return nil, err
	}
	if err := worker.refreshS3Client(); err != nil {
		worker.rmq.close()
		return nil, err
	}
	if err := worker.refreshRedisClients(); err != nil {
		worker.rmq.close()
		worker.s3.close()
		return nil, err
	}
	return &worker, nil
}

// Run handles deliveries until ctx is canceled or the RMQ client cannot be restored.
// Messages already being processed are finished before Run returns.
func (worker *Worker) Run(ctx context.Context) error {
	defer worker.Close()
	for {
		select {
		case <-ctx.Done():
			worker.fdlLogger.Info().Msg("Stopping worker, waiting for messages in flight")
			worker.inFlight.Wait()
			return nil
		case delivery, ok := <-worker.rmq.deliveries():
			if ok {
				worker.inFlight.Add(1)
				go func() {
					defer worker.inFlight.Done()
					worker.processMessage(&delivery)
				}()
				continue
			}
			if err := worker.recoverRMQ("deliveries channel has been closed", nil); err != nil {
				return err
			}
		case rmqErr := <-worker.rmq.respErrors():
			if rmqErr == nil {
				continue
			}
			if err := worker.recoverRMQ("response connection received error", rmqErr); err != nil {
				return err
			}
		case rmqErr := <-worker.rmq.reqErrors():
			if rmqErr == nil {
				continue
			}
			if err := worker.recoverRMQ("request connection received error", rmqErr); err != nil {
				return err
			}
		}
	}
}

func (worker *Worker) recoverRMQ(reason string, cause error) error {
	worker.fdlLogger.Err(cause).Msgf("RMQ %s, trying to refresh RMQ client", reason)
	worker.inFlight.Wait()
	if err := worker.refreshRMQClient(); err != nil {
		return fmt.Errorf("rmq %s and refresh failed with: %w", reason, err)
	}
	return nil
}

func (worker *Worker) Close() {
	worker.redis.close()
	worker.s3.close()
	worker.rmq.close()
}

func (worker *Worker) refreshRedisClients() error {
	worker.fdlLogger.Info().Msg("Refreshing Redis client")
	tasksClient, err := tasks.NewClient()
	if err != nil {
		worker.fdlLogger.Err(err).Msg("Failed to refresh Redis client")
		return err
	}
	if oldClient := worker.redis; oldClient != nil {
		oldClient.close()
	}
	worker.redis = &redisClientWrapper{&tasksClient}
	return nil
}

func (worker *Worker) refreshRMQClient() error {
	worker.fdlLogger.Info().Msg("Refreshing RMQ client")
	rmqClient, err := rmq.NewClient()
	if err != nil {
		worker.fdlLogger.Err(err).Msg("Failed to refresh RMQ client")
		return err
	}
	if oldClient := worker.rmq; oldClient != nil {
		oldClient.close()
	}
	worker.rmq = &rmqClientWrapper{rmqClient}
	return nil
}

func (worker *Worker) refreshS3Client() error {
	worker.fdlLogger.Info().Msg("Refreshing S3 client")
	s3Client, err := s3client.New()
	if err != nil {
		worker.fdlLogger.Err(err).Msg("Failed to refresh S3 client")
		return err
	}
	if oldClient := worker.s3; oldClient != nil {
		oldClient.close()
	}
	worker.s3 = &s3ClientWrapper{s3Client}
	return nil
}
