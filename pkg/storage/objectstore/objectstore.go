package objectstore

import (
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/minio/minio-go/v7/pkg/notification"
)

// ObjectCreatedEvents is the notification filter for new uploads.
var ObjectCreatedEvents = []string{"s3:ObjectCreated:*"}

// Config contains the information required to talk to an object store.
type Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

// Listener streams bucket notifications for newly created objects.
type Listener interface {
	Listen(ctx context.Context, suffix string) <-chan notification.Info
	Bucket() string
}

// New creates a MinIO-backed listener for cfg.Bucket.
func New(cfg Config) (Listener, error) {
	cl, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio client: %w", err)
	}

	return &minioListener{client: cl, bucket: cfg.Bucket}, nil
}

type minioListener struct {
	client *minio.Client
	bucket string
}

func (m *minioListener) Listen(ctx context.Context, suffix string) <-chan notification.Info {
	return m.client.ListenBucketNotification(ctx, m.bucket, "", suffix, ObjectCreatedEvents)
}

func (m *minioListener) Bucket() string {
	return m.bucket
}
