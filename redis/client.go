package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/go-redis/redis/v8"
	"github.com/kelseyhightower/envconfig"
)

type DB int
type ReleaseLock func() error

var ErrNotFound = errors.New("redis: key not found")

type Client struct {
	client         redis.UniversalClient
	lockExpiration time.Duration
}

var ctx = context.Background()

type Config struct {
	LockExpirationSeconds   int     `envconfig:"POSTAG_REDIS_LOCK_EXPIRATION" default:"3"`
	Host                    string  `envconfig:"POSTAG_REDIS_HOST" required:"true"`
	Port                    string  `envconfig:"POSTAG_REDIS_PORT" required:"true"`
	HASentinelPort          string  `envconfig:"POSTAG_REDIS_HA_SENTINEL_PORT" default:"26379"`
	HASentinelMasterName    string  `envconfig:"POSTAG_REDIS_HA_MASTER_NAME" default:"mymaster"`
	Password                string  `envconfig:"POSTAG_REDIS_AUTH_PASSWORD" default:""`
	AuthRequired            bool    `envconfig:"POSTAG_REDIS_AUTH_REQUIRED" default:"false"`
	HAMode                  bool    `envconfig:"POSTAG_REDIS_HA_MODE" default:"false"`
	HASentinelSocketTimeout float32 `envconfig:"POSTAG_REDIS_SOCKET_TIMEOUT" default:"0.5"`
}

func NewClient(db DB) (Client, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Client{}, err
	}

	var client redis.UniversalClient
	if cfg.HAMode {
		client = newFailoverClient(cfg, db)
	} else {
		client = newClient(cfg, db)
	}
	return Client{
		client:         client,
		lockExpiration: time.Duration(cfg.LockExpirationSeconds) * time.Second,
	}, nil
}

func newFailoverClient(cfg Config, db DB) *redis.ClusterClient {
	timeout := time.Duration(float64(cfg.HASentinelSocketTimeout) * float64(time.Second))
	options := redis.FailoverOptions{
		SentinelAddrs: []string{fmt.Sprintf("%s:%s", cfg.Host, cfg.HASentinelPort)},
		ReadTimeout:   timeout,
		WriteTimeout:  timeout,
		MaxRetries:    6,
		DB:            int(db),
		MasterName:    cfg.HASentinelMasterName,
	}
	if cfg.AuthRequired {
		options.Password = cfg.Password
	}
	return redis.NewFailoverClusterClient(&options)
}

func newClient(cfg Config, db DB) *redis.Client {
	options := redis.Options{
		Addr:       fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		MaxRetries: 6,
		DB:         int(db),
	}
	if cfg.AuthRequired {
		options.Password = cfg.Password
	}
	return redis.NewClient(&options)
}

// Get returns the raw value stored under key, or ErrNotFound.
func (client Client) Get(key string) ([]byte, error) {
	b, err := client.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return b, err
}

func (client Client) Set(key string, value []byte) error {
	return client.client.Set(ctx, key, value, 0).Err()
}

// GetDocument decodes the JSON document stored under key into doc.
func (client Client) GetDocument(key string, doc interface{}) error {
	raw, err := client.Get(key)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, doc)
}

// UpdateDocument runs MergeDocument while holding the key's lock.
func (client Client) UpdateDocument(key string, doc interface{}, apply func()) (err error) {
	releaseLock, err := client.Lock(key)
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := releaseLock(); err == nil {
			err = releaseErr
		}
	}()
	return client.MergeDocument(key, doc, apply)
}

// MergeDocument loads the document under key into doc, calls apply and writes back
// only the fields apply changed. Fields of the stored document unknown to doc are
// preserved. The caller is responsible for locking.
func (client Client) MergeDocument(key string, doc interface{}, apply func()) error {
	raw, err := client.Get(key)
	if err != nil {
		return err
	}
	merged, err := mergeDocument(raw, doc, apply)
	if err != nil {
		return fmt.Errorf("failed to update document %s: %w", key, err)
	}
	return client.Set(key, merged)
}

func (client Client) Lock(key string) (ReleaseLock, error) {
	locker := redislock.New(client.client)
	strategy := redislock.LimitRetry(redislock.LinearBackoff(time.Second), 20)
	lock, err := locker.Obtain(ctx, fmt.Sprintf("lock:%s", key), client.lockExpiration, &redislock.Options{RetryStrategy: strategy})
	if err != nil {
		return nil, err
	}
	return func() error {
		return lock.Release(ctx)
	}, nil
}

func (client Client) Close() error {
	return client.client.Close()
}
