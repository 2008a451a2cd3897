package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/your-org/hlsflow/internal/completion"
	"github.com/your-org/hlsflow/internal/gateway"
	"github.com/your-org/hlsflow/internal/jobspec"
	"github.com/your-org/hlsflow/internal/transcode"
	"github.com/your-org/hlsflow/internal/upload"
	"github.com/your-org/hlsflow/pkg/config"
	"github.com/your-org/hlsflow/pkg/kafka"
	"github.com/your-org/hlsflow/pkg/logger"
	"github.com/your-org/hlsflow/pkg/storage/objectstore"
	"github.com/your-org/hlsflow/pkg/tracing"
)

const maxEventBytes = 6 << 20

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logr, err := logger.New(cfg.App.LogLevel, "gateway")
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	traceShutdown, err := tracing.Init(ctx, tracing.Config{
		Endpoint:    cfg.Tracing.Endpoint,
		Insecure:    cfg.Tracing.Insecure,
		SampleRatio: cfg.Tracing.SampleRatio,
		Attributes:  tracing.ParseAttributes(cfg.Tracing.ResourceAttr),
		ServiceName: cfg.App.Name,
	})
	if err != nil {
		logr.Fatal("init tracing", zap.Error(err))
	}
	defer traceShutdown(context.Background()) //nolint:errcheck

	// Each stage runs only when its configuration is complete.
	var (
		uploads     *upload.Dispatcher
		completions *completion.Dispatcher
		uploadH     gateway.UploadHandler
		completionH gateway.CompletionHandler
	)
	if err := cfg.ValidateUpload(); err == nil {
		client, err := transcode.NewClient(ctx, transcode.ClientConfig{
			Region:   cfg.MediaConvert.Region,
			Endpoint: cfg.MediaConvert.Endpoint,
		})
		if err != nil {
			logr.Fatal("init mediaconvert client", zap.Error(err))
		}
		uploads = upload.NewDispatcher(upload.Params{
			Builder:   &jobspec.Builder{Role: cfg.MediaConvert.RoleARN},
			Submitter: transcode.NewSubmitter(client, logr),
			Logger:    logr.Named("upload"),
		})
		uploadH = uploads
	} else {
		logr.Warn("upload stage disabled", zap.Error(err))
	}
	if err := cfg.ValidateCompletion(); err == nil {
		notifier := completion.NewNotifier(completion.NotifierConfig{
			BaseURL:      cfg.Backend.URL,
			Secret:       cfg.Backend.Secret,
			PlaylistName: cfg.Backend.PlaylistName,
			Logger:       logr.Named("completion"),
		})
		completions = completion.NewDispatcher(notifier, logr.Named("completion"))
		completionH = completions
	} else {
		logr.Warn("completion stage disabled", zap.Error(err))
	}

	handler := gateway.NewHTTPHandler(uploadH, completionH, logr, maxEventBytes)
	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      handler.Router(),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	if uploads != nil && cfg.Kafka.UploadTopic != "" {
		consumer := newConsumer(cfg, cfg.Kafka.UploadTopic, logr)
		g.Go(func() error {
			defer consumer.Close() //nolint:errcheck
			return consumer.Run(gctx, gateway.UploadMessages(uploads, logr))
		})
	}
	if completions != nil && cfg.Kafka.CompletionTopic != "" {
		consumer := newConsumer(cfg, cfg.Kafka.CompletionTopic, logr)
		g.Go(func() error {
			defer consumer.Close() //nolint:errcheck
			return consumer.Run(gctx, gateway.CompletionMessages(completions, logr))
		})
	}
	if uploads != nil && cfg.StorageEnabled() {
		listener, err := objectstore.New(objectstore.Config{
			Endpoint:  cfg.Storage.Endpoint,
			Region:    cfg.Storage.Region,
			Bucket:    cfg.Storage.Bucket,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			UseSSL:    cfg.Storage.UseSSL,
		})
		if err != nil {
			logr.Fatal("init object store", zap.Error(err))
		}
		g.Go(func() error {
			return gateway.ListenBucket(gctx, listener, uploads, logr)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		logr.Info("gateway starting", zap.String("addr", cfg.HTTP.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logr.Fatal("gateway stopped", zap.Error(err))
	}
}

func newConsumer(cfg *config.Config, topic string, logr *zap.Logger) *kafka.Consumer {
	return kafka.NewConsumer(kafka.ConsumerConfig{
		Brokers: cfg.Kafka.Brokers,
		GroupID: cfg.Kafka.GroupID,
		Topic:   topic,
	}, logr.Named("kafka"))
}
