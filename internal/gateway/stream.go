package gateway

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/your-org/hlsflow/internal/completion"
	"github.com/your-org/hlsflow/internal/invocation"
	"github.com/your-org/hlsflow/internal/upload"
	"github.com/your-org/hlsflow/pkg/kafka"
	"github.com/your-org/hlsflow/pkg/storage/objectstore"
)

// UploadMessages adapts upload events published to Kafka in the S3 event
// schema (the MinIO Kafka target format). Undecodable messages are skipped.
func UploadMessages(h UploadHandler, logger *zap.Logger) kafka.Handler {
	return func(ctx context.Context, msg kafkago.Message) error {
		var ev events.S3Event
		if err := json.Unmarshal(msg.Value, &ev); err != nil {
			logger.Warn("skipping undecodable upload message", zap.Int64("offset", msg.Offset), zap.Error(err))
			return nil
		}
		_, err := h.HandleS3Event(messageContext(ctx, msg), ev)
		return err
	}
}

// CompletionMessages adapts job state change events published to Kafka.
func CompletionMessages(h CompletionHandler, logger *zap.Logger) kafka.Handler {
	return func(ctx context.Context, msg kafkago.Message) error {
		var ev completion.Event
		if err := json.Unmarshal(msg.Value, &ev); err != nil {
			logger.Warn("skipping undecodable completion message", zap.Int64("offset", msg.Offset), zap.Error(err))
			return nil
		}
		_, err := h.HandleEvent(messageContext(ctx, msg), ev)
		return err
	}
}

func messageContext(ctx context.Context, msg kafkago.Message) context.Context {
	return invocation.WithID(ctx, fmt.Sprintf("%s/%d/%d", msg.Topic, msg.Partition, msg.Offset))
}

// ListenBucket feeds the bucket's object-created notifications to the upload
// dispatcher until ctx ends or a dispatch fails.
func ListenBucket(ctx context.Context, l objectstore.Listener, d *upload.Dispatcher, logger *zap.Logger) error {
	log := logger.With(zap.String("bucket", l.Bucket()))
	log.Info("bucket listener started")
	for info := range l.Listen(ctx, "") {
		if info.Err != nil {
			return fmt.Errorf("bucket notification: %w", info.Err)
		}
		if _, err := d.Dispatch(ctx, upload.FromMinioInfo(info)); err != nil {
			return err
		}
	}
	log.Info("bucket listener stopped")
	return nil
}
