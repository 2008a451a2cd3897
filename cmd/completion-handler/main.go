package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/your-org/hlsflow/internal/completion"
	"github.com/your-org/hlsflow/pkg/config"
	"github.com/your-org/hlsflow/pkg/logger"
	"github.com/your-org/hlsflow/pkg/tracing"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.ValidateCompletion(); err != nil {
		log.Fatalf("validate config: %v", err)
	}

	logr, err := logger.New(cfg.App.LogLevel, "completion")
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	traceShutdown, err := tracing.Init(ctx, tracing.Config{
		Endpoint:    cfg.Tracing.Endpoint,
		Insecure:    cfg.Tracing.Insecure,
		SampleRatio: cfg.Tracing.SampleRatio,
		Attributes:  tracing.ParseAttributes(cfg.Tracing.ResourceAttr),
		ServiceName: cfg.App.Name + "-completion",
	})
	if err != nil {
		logr.Fatal("init tracing", zap.Error(err))
	}
	defer traceShutdown(context.Background()) //nolint:errcheck

	notifier := completion.NewNotifier(completion.NotifierConfig{
		BaseURL:      cfg.Backend.URL,
		Secret:       cfg.Backend.Secret,
		PlaylistName: cfg.Backend.PlaylistName,
		Logger:       logr,
	})
	dispatcher := completion.NewDispatcher(notifier, logr)

	logr.Info("completion handler starting", zap.String("playlist_name", cfg.Backend.PlaylistName))
	lambda.Start(dispatcher.HandleEvent)
}
