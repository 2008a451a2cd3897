package upload

import (
	"github.com/aws/aws-lambda-go/events"
	"github.com/minio/minio-go/v7/pkg/notification"
)

// Notification describes one newly stored object. Key is still URL-encoded,
// exactly as the storage platform delivered it.
type Notification struct {
	Bucket string
	Key    string
}

// FromS3Event flattens a Lambda S3 event into notifications, in record order.
func FromS3Event(ev events.S3Event) []Notification {
	out := make([]Notification, 0, len(ev.Records))
	for _, rec := range ev.Records {
		out = append(out, Notification{Bucket: rec.S3.Bucket.Name, Key: rec.S3.Object.Key})
	}
	return out
}

// FromMinioInfo flattens a MinIO bucket notification batch.
func FromMinioInfo(info notification.Info) []Notification {
	out := make([]Notification, 0, len(info.Records))
	for _, rec := range info.Records {
		out = append(out, Notification{Bucket: rec.S3.Bucket.Name, Key: rec.S3.Object.Key})
	}
	return out
}
