package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/your-org/hlsflow/internal/jobspec"
	"github.com/your-org/hlsflow/internal/transcode"
	"github.com/your-org/hlsflow/internal/upload"
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
	if err := cfg.ValidateUpload(); err != nil {
		log.Fatalf("validate config: %v", err)
	}

	logr, err := logger.New(cfg.App.LogLevel, "upload")
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	traceShutdown, err := tracing.Init(ctx, tracing.Config{
		Endpoint:    cfg.Tracing.Endpoint,
		Insecure:    cfg.Tracing.Insecure,
		SampleRatio: cfg.Tracing.SampleRatio,
		Attributes:  tracing.ParseAttributes(cfg.Tracing.ResourceAttr),
		ServiceName: cfg.App.Name + "-upload",
	})
	if err != nil {
		logr.Fatal("init tracing", zap.Error(err))
	}
	defer traceShutdown(context.Background()) //nolint:errcheck

	client, err := transcode.NewClient(ctx, transcode.ClientConfig{
		Region:   cfg.MediaConvert.Region,
		Endpoint: cfg.MediaConvert.Endpoint,
	})
	if err != nil {
		logr.Fatal("init mediaconvert client", zap.Error(err))
	}

	dispatcher := upload.NewDispatcher(upload.Params{
		Builder:   &jobspec.Builder{Role: cfg.MediaConvert.RoleARN},
		Submitter: transcode.NewSubmitter(client, logr),
		Logger:    logr,
	})

	logr.Info("upload handler starting", zap.String("region", cfg.MediaConvert.Region))
	lambda.Start(dispatcher.HandleS3Event)
}
