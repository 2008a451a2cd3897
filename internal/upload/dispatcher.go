package upload

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"github.com/your-org/hlsflow/internal/invocation"
	"github.com/your-org/hlsflow/internal/jobspec"
	"github.com/your-org/hlsflow/internal/transcode"
)

// JobSubmitter submits one built job request.
type JobSubmitter interface {
	Submit(ctx context.Context, req *jobspec.Request) (*transcode.Handle, error)
}

// Result summarises one dispatched batch.
type Result struct {
	Started int
}

// Response renders r for the invoking platform.
func (r Result) Response() invocation.Response {
	return invocation.Response{
		StatusCode: http.StatusOK,
		Body:       fmt.Sprintf("Started %d MediaConvert job(s)", r.Started),
	}
}

// Dispatcher turns upload notifications into transcoding jobs.
type Dispatcher struct {
	builder   *jobspec.Builder
	submitter JobSubmitter
	logger    *zap.Logger
}

// Params holds the Dispatcher dependencies.
type Params struct {
	Builder   *jobspec.Builder
	Submitter JobSubmitter
	Logger    *zap.Logger
}

// NewDispatcher constructs a Dispatcher.
func NewDispatcher(p Params) *Dispatcher {
	return &Dispatcher{
		builder:   p.Builder,
		submitter: p.Submitter,
		logger:    p.Logger,
	}
}

// Dispatch submits a job for every .mp4 notification, in order, one at a
// time. The first submission failure aborts the batch; jobs already created
// stay created. Duplicate keys produce duplicate jobs.
func (d *Dispatcher) Dispatch(ctx context.Context, batch []Notification) (Result, error) {
	log := d.logger.With(zap.String("invocation_id", invocation.ID(ctx)))
	log.Info("upload batch received", zap.Int("records", len(batch)))

	var res Result
	for _, n := range batch {
		req, err := d.builder.Build(n.Bucket, n.Key)
		switch {
		case errors.Is(err, jobspec.ErrUnsupportedExtension):
			log.Debug("skipping non-video object", zap.String("bucket", n.Bucket), zap.String("key", n.Key))
			continue
		case errors.Is(err, jobspec.ErrMalformedKey):
			log.Warn("skipping undecodable key", zap.String("bucket", n.Bucket), zap.String("key", n.Key))
			continue
		case err != nil:
			return res, err
		}

		if _, err := d.submitter.Submit(ctx, req); err != nil {
			log.Error("job submission failed",
				zap.String("key", req.Metadata.OriginalKey),
				zap.Int("started", res.Started),
				zap.Error(err),
			)
			return res, err
		}
		res.Started++
	}

	log.Info("upload batch dispatched", zap.Int("started", res.Started))
	return res, nil
}

// HandleS3Event is the Lambda entry point for S3 upload events.
func (d *Dispatcher) HandleS3Event(ctx context.Context, ev events.S3Event) (invocation.Response, error) {
	if ce := d.logger.Check(zap.DebugLevel, "received s3 event"); ce != nil {
		ce.Write(zap.Any("event", ev))
	}
	res, err := d.Dispatch(ctx, FromS3Event(ev))
	if err != nil {
		return invocation.Response{}, err
	}
	return res.Response(), nil
}
