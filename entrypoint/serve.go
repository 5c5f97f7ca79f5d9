package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"

	"text2phenotype.com/postag/api"
	"text2phenotype.com/postag/logger"
	"text2phenotype.com/postag/pipeline"
	"text2phenotype.com/postag/worker"
)

type Config struct {
	ConfigPath    string `envconfig:"POSTAG_CONFIG_PATH" required:"true"`
	ModelCache    bool   `envconfig:"POSTAG_MODEL_CACHE" default:"false"`
	RestAPIActive bool   `envconfig:"POSTAG_REST_API_ACTIVE" default:"false"`
	RestAPIPort   string `envconfig:"POSTAG_REST_API_PORT" default:"10000"`
	WorkerActive  bool   `envconfig:"POSTAG_WORKER_ACTIVE" default:"true"`
}

const (
	pipelineStartMaxRetries = 5
	retryDelay              = 5 * time.Second
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Train the configured taggers and serve them over RabbitMQ and REST",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var config Config
			if err := envconfig.Process("", &config); err != nil {
				return fmt.Errorf("failed to read environment: %w", err)
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, config)
		},
	}
}

func serve(ctx context.Context, config Config) error {
	fdlLogger := logger.NewLogger("Main")

	ppln, closeModels, err := loadPipeline(ctx, config)
	if err != nil {
		return err
	}
	defer closeModels()

	if config.RestAPIActive {
		server := &http.Server{
			Addr:    fmt.Sprintf(":%s", config.RestAPIPort),
			Handler: (&api.Request{Pipeline: ppln}).Routes(),
		}
		go func() {
			fdlLogger.Info().Msgf("REST API on %s", server.Addr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				fdlLogger.Error().Err(err).Msg("REST API stopped with error")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), retryDelay)
			defer cancel()
			_ = server.Shutdown(shutdownCtx)
		}()
	}

	if !config.WorkerActive {
		<-ctx.Done()
		return nil
	}

	fdlLogger.Info().Msg("Start POS tagging worker")
	for {
		rmqWorker, err := worker.New(ppln)
		if err != nil {
			return fmt.Errorf("could not initialize RMQ worker: %w", err)
		}
		err = rmqWorker.Run(ctx)
		rmqWorker.Close()
		if ctx.Err() != nil {
			return nil
		}
		fdlLogger.Err(err).Msgf("Worker returned, launching new in %s", retryDelay)
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(retryDelay):
		}
	}
}

// loadPipeline retries pipeline construction since corpora may live on storage that
// is not reachable yet when the service starts.
func loadPipeline(ctx context.Context, config Config) (pipeline.Pipeline, func(), error) {
	fdlLogger := logger.NewLogger("Main")

	var lastErr error
	for retry := 0; retry < pipelineStartMaxRetries; retry++ {
		ppln, closeModels, err := buildPipeline(config.ConfigPath, config.ModelCache)
		if err == nil {
			fdlLogger.Info().Msg("Pipelines loaded")
			return ppln, closeModels, nil
		}
		lastErr = err
		fdlLogger.Err(err).Msgf("Failed to start POS tagging pipeline. Retrying in %s", retryDelay)
		select {
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		case <-time.After(retryDelay):
		}
	}
	return nil, nil, fmt.Errorf("could not start pipelines after %d retries: %w", pipelineStartMaxRetries, lastErr)
}
