package worker

import (
	"encoding/json"

	"github.com/rs/zerolog"
	"github.com/streadway/amqp"

	"text2phenotype.com/postag/rmq"
	"text2phenotype.com/postag/tasks"
)

type rmqTransactions interface {
	notifySequencer(task *Task) error
	ack(delivery *amqp.Delivery) error
	reject(delivery *amqp.Delivery, fdlLogger *zerolog.Logger)
	deliveries() <-chan amqp.Delivery
	reqErrors() <-chan *amqp.Error
	respErrors() <-chan *amqp.Error
	close()
}

type rmqClientWrapper struct {
	rmqClient *rmq.Client
}

func (wrapper *rmqClientWrapper) close() {
	wrapper.rmqClient.Close()
}

func (wrapper *rmqClientWrapper) deliveries() <-chan amqp.Delivery {
	return wrapper.rmqClient.Deliveries
}

func (wrapper *rmqClientWrapper) reqErrors() <-chan *amqp.Error {
	return wrapper.rmqClient.ReqChanErrors
}

func (wrapper *rmqClientWrapper) respErrors() <-chan *amqp.Error {
	return wrapper.rmqClient.RespChanErrors
}

// notifySequencer echoes the task message back with the tagger as sender.
func (wrapper *rmqClientWrapper) notifySequencer(task *Task) error {
	message := *task.message
	message.Sender = tasks.TaskName
	b, err := json.Marshal(message)
	if err != nil {
		return err
	}
	return wrapper.rmqClient.SendMessageToSequencer(amqp.Publishing{
		ContentType: task.delivery.ContentType,
		Body:        b,
	})
}

func (wrapper *rmqClientWrapper) ack(delivery *amqp.Delivery) error {
	return delivery.Ack(false)
}

// reject requeues a delivery once; a redelivered message is dropped.
func (wrapper *rmqClientWrapper) reject(delivery *amqp.Delivery, fdlLogger *zerolog.Logger) {
	requeue := !delivery.Redelivered
	if requeue {
		fdlLogger.Info().Msg("Requeuing delivery as it has not been redelivered yet")
	} else {
		fdlLogger.Info().Msg("Rejecting delivery as it already has been redelivered")
	}
	if err := delivery.Reject(requeue); err != nil {
		fdlLogger.Err(err).Bool("requeue", requeue).Msg("Failed to reject delivery")
	}
}
