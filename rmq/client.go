package rmq

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"github.com/streadway/amqp"

	"text2phenotype.com/postag/logger"
)

type Config struct {
	Host                    string `envconfig:"POSTAG_RMQ_HOST" required:"true"`
	Port                    string `envconfig:"POSTAG_RMQ_PORT" required:"true"`
	Username                string `envconfig:"POSTAG_RMQ_USERNAME" required:"true"`
	Password                string `envconfig:"POSTAG_RMQ_PASSWORD" required:"true"`
	Exchange                string `envconfig:"POSTAG_RMQ_EXCHANGE" default:"text2phenotype-default-exchange"`
	MaxParallelRequestCount int    `envconfig:"POSTAG_RMQ_MAX_PARALLEL_REQUESTS" default:"5"`
	TaggerTaskQueue         string `envconfig:"POSTAG_TASK_QUEUE" required:"true"`
	SequencerTaskQueue      string `envconfig:"POSTAG_SEQUENCER_TASK_QUEUE" required:"true"`
}

// URL is the AMQP connection string of the configured broker.
func (cfg Config) URL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s", cfg.Username, cfg.Password, cfg.Host, cfg.Port)
}

// Client consumes tagging tasks on one connection and publishes to the sequencer on
// another, so a blocked publisher never stalls deliveries.
type Client struct {
	Deliveries     <-chan amqp.Delivery
	ReqChanErrors  <-chan *amqp.Error
	RespChanErrors <-chan *amqp.Error
	config         Config
	reqConn        *amqp.Connection
	respConn       *amqp.Connection
	respChannel    *amqp.Channel
	fdlLogger      zerolog.Logger
}

func NewClient() (*Client, error) {
	fdlLogger := logger.NewLogger("RMQ client")

	var config Config
	if err := envconfig.Process("", &config); err != nil {
		fdlLogger.Error().Err(err).Msg("Could not read env config")
		return nil, err
	}

	respConn, respChannel, err := dial(config.URL())
	if err != nil {
		return nil, fmt.Errorf("failed connection: %w", err)
	}
	reqConn, reqChannel, err := dial(config.URL())
	if err != nil {
		_ = respConn.Close()
		return nil, fmt.Errorf("failed connection: %w", err)
	}

	deliveries, err := consume(reqChannel, config)
	if err != nil {
		_ = respConn.Close()
		_ = reqConn.Close()
		return nil, err
	}
	fdlLogger.Info().Str("queue", config.TaggerTaskQueue).Msg("Consuming tagging tasks")

	return &Client{
		Deliveries:     deliveries,
		ReqChanErrors:  reqChannel.NotifyClose(make(chan *amqp.Error)),
		RespChanErrors: respChannel.NotifyClose(make(chan *amqp.Error)),
		config:         config,
		reqConn:        reqConn,
		respConn:       respConn,
		respChannel:    respChannel,
		fdlLogger:      fdlLogger,
	}, nil
}

func (c *Client) SendMessageToSequencer(msg amqp.Publishing) error {
	c.fdlLogger.Debug().Str("queue", c.config.SequencerTaskQueue).Msg("Publishing to sequencer")
	return c.respChannel.Publish(
		c.config.Exchange,
		c.config.SequencerTaskQueue,
		false,
		false,
		msg)
}

func (c *Client) Close() {
	_ = c.reqConn.Close()
	_ = c.respConn.Close()
}

func dial(url string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	return conn, ch, nil
}

// consume binds the existing task queue to the exchange and starts a manual-ack
// consumer limited to MaxParallelRequestCount unacknowledged deliveries.
func consume(ch *amqp.Channel, config Config) (<-chan amqp.Delivery, error) {
	q, err := ch.QueueDeclarePassive(
		config.TaggerTaskQueue, // name
		true,                   // durable
		false,                  // delete when unused
		false,                  // exclusive
		false,                  // no-wait
		nil,                    // arguments
	)
	if err != nil {
		return nil, fmt.Errorf("declare queue %s: %w", config.TaggerTaskQueue, err)
	}
	if err := ch.QueueBind(q.Name, q.Name, config.Exchange, false, nil); err != nil {
		return nil, fmt.Errorf("bind queue %s: %w", q.Name, err)
	}
	if err := ch.Qos(config.MaxParallelRequestCount, 0, false); err != nil {
		return nil, fmt.Errorf("qos: %w", err)
	}

	deliveries, err := ch.Consume(q.Name, "", false, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("consume deliveries: %w", err)
	}
	return deliveries, nil
}
