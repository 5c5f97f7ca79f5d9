package s3client

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/aws/aws-sdk-go/service/sts"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"

	"text2phenotype.com/postag/logger"
)

type EnvironmentConfig struct {
	BucketName  string `envconfig:"POSTAG_STORAGE_CONTAINER_NAME" required:"true"`
	Env         string `envconfig:"POSTAG_ENV" default:"prod"`
	Region      string `envconfig:"POSTAG_AWS_REGION_NAME" required:"true"`
	AwsEndpoint string `envconfig:"POSTAG_AWS_ENDPOINT_URL" default:""`
	AccessKeyID string `envconfig:"POSTAG_AWS_ACCESS_ID" default:""`
	AccessKey   string `envconfig:"POSTAG_AWS_ACCESS_KEY" default:""`
}

// Client reads and writes objects of the configured bucket. The AWS session is
// created from the instance role when available, otherwise from env credentials, and
// is recreated once when a request fails.
type Client struct {
	env EnvironmentConfig

	mu   sync.Mutex
	sess *session.Session
}

var clientLogger = logger.NewLogger("S3Client")
var sdkLogger = logger.NewLogger("S3-SDK")

func New() (*Client, error) {
	var env EnvironmentConfig
	if err := envconfig.Process("", &env); err != nil {
		clientLogger.Err(err).Msg("Failed to get proper variables from environment")
		return nil, err
	}

	client := Client{env: env}
	if _, err := client.refresh(nil); err != nil {
		return nil, err
	}
	return &client, nil
}

// Upload stores data under key in the configured bucket.
func (client *Client) Upload(data []byte, key string) error {
	return client.withSession(func(sess *session.Session) error {
		return upload(sess, &s3manager.UploadInput{
			Bucket: aws.String(client.env.BucketName),
			Key:    aws.String(key),
			Body:   bytes.NewReader(data),
		})
	})
}

// Download reads key from the configured bucket.
func (client *Client) Download(key string) ([]byte, error) {
	return client.DownloadObject(client.env.BucketName, key)
}

func (client *Client) DownloadObject(bucket string, key string) ([]byte, error) {
	var res []byte
	err := client.withSession(func(sess *session.Session) error {
		var err error
		res, err = download(sess, &s3.GetObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
		})
		return err
	})
	return res, err
}

func (client *Client) Close() {
	client.mu.Lock()
	defer client.mu.Unlock()
	client.sess = nil
	clientLogger.Info().Msg("Closing client")
}

func (client *Client) withSession(do func(sess *session.Session) error) error {
	client.mu.Lock()
	sess := client.sess
	client.mu.Unlock()
	if sess == nil {
		return errors.New("could not get session")
	}

	err := do(sess)
	if err == nil {
		return nil
	}
	clientLogger.Error().Err(err).Msg("Caught error while using S3 session, trying to refresh it")
	if sess, err = client.refresh(sess); err != nil {
		return err
	}
	return do(sess)
}

// refresh replaces failed with a new session unless another goroutine already did.
func (client *Client) refresh(failed *session.Session) (*session.Session, error) {
	client.mu.Lock()
	defer client.mu.Unlock()
	if client.sess != nil && client.sess != failed {
		return client.sess, nil
	}

	sess, err := client.acquireSession()
	if err != nil {
		client.sess = nil
		return nil, err
	}
	client.sess = sess
	return sess, nil
}

func (client *Client) acquireSession() (*session.Session, error) {
	sess, err := session.NewSession(&aws.Config{
		Region:     aws.String(client.env.Region),
		MaxRetries: aws.Int(4),
		LogLevel:   aws.LogLevel(aws.LogDebug),
	})
	if err == nil {
		if _, err = sts.New(sess).GetCallerIdentity(&sts.GetCallerIdentityInput{}); err == nil {
			clientLogger.Info().Msg("S3 session successfully initialized using EC2")
			return sess, nil
		}
	}
	clientLogger.Info().Msg("Could not initialize S3 session using EC2, trying env credentials")

	cfg, err := client.envConfig()
	if err != nil {
		return nil, err
	}
	sess, err = session.NewSession(cfg)
	if err != nil {
		clientLogger.Error().Err(err).Msg("Could not initialize S3 session")
		return nil, err
	}
	if _, err = sts.New(sess).GetCallerIdentity(&sts.GetCallerIdentityInput{}); err != nil {
		clientLogger.Error().Err(err).Msg("Could not initialize S3 session")
		return nil, fmt.Errorf("could not initialize S3 session: %w", err)
	}
	clientLogger.Info().Msg("S3 session successfully initialized using env credentials")
	return sess, nil
}

func (client *Client) envConfig() (*aws.Config, error) {
	creds := credentials.NewStaticCredentials(client.env.AccessKeyID, client.env.AccessKey, "")
	if _, err := creds.Get(); err != nil {
		clientLogger.Error().Err(err).Msg("Error with credentials from environment")
		return nil, err
	}
	cfg := aws.NewConfig().
		WithRegion(client.env.Region).
		WithMaxRetries(4).
		WithCredentials(creds).
		WithLogLevel(aws.LogDebug)

	if client.env.Env == "dev" && len(client.env.AwsEndpoint) > 0 {
		cfg = cfg.WithEndpoint(client.env.AwsEndpoint).WithS3ForcePathStyle(true)
	}
	return cfg, nil
}

func upload(sess *session.Session, params *s3manager.UploadInput) error {
	objLogger := clientLogger.With().Str("key", *params.Key).Str("bucket", *params.Bucket).Logger()
	uploader := s3manager.NewUploader(sess.Copy(&aws.Config{Logger: newSDKLogger(*params.Bucket, *params.Key)}))

	objLogger.Debug().Msg("Uploading the file")
	_, err := uploader.Upload(params)
	return err
}

func download(sess *session.Session, params *s3.GetObjectInput) ([]byte, error) {
	objLogger := clientLogger.With().Str("key", *params.Key).Str("bucket", *params.Bucket).Logger()
	downloader := s3manager.NewDownloader(sess.Copy(&aws.Config{Logger: newSDKLogger(*params.Bucket, *params.Key)}))

	objLogger.Debug().Msg("Downloading file")
	buf := aws.NewWriteAtBuffer([]byte{})
	size, err := downloader.Download(buf, params)
	if err != nil {
		objLogger.Error().Err(err).Msg("Failed to download file")
		return nil, err
	}
	objLogger.Debug().Msgf("Downloaded %v bytes", size)
	return buf.Bytes(), nil
}

// sdkLog forwards aws-sdk-go log lines to zerolog at debug level.
type sdkLog struct {
	fdlLogger zerolog.Logger
}

func newSDKLogger(bucket string, key string) *sdkLog {
	return &sdkLog{sdkLogger.With().Str("bucket", bucket).Str("key", key).Logger()}
}

func (l *sdkLog) Log(v ...interface{}) {
	l.fdlLogger.Debug().Msg(fmt.Sprint(v...))
}
