package transcode

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/mediaconvert"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/your-org/hlsflow/internal/jobspec"
	"github.com/your-org/hlsflow/pkg/tracing"
)

// JobCreator is the slice of the MediaConvert API the submitter needs.
type JobCreator interface {
	CreateJob(ctx context.Context, params *mediaconvert.CreateJobInput, optFns ...func(*mediaconvert.Options)) (*mediaconvert.CreateJobOutput, error)
}

// Handle is the service acknowledgement for a created job.
type Handle struct {
	JobID  string
	Arn    string
	Status string
}

// Submitter creates one MediaConvert job per request. It never retries;
// redelivery belongs to whatever invoked the pipeline.
type Submitter struct {
	client JobCreator
	logger *zap.Logger
}

// NewSubmitter constructs a Submitter.
func NewSubmitter(client JobCreator, logger *zap.Logger) *Submitter {
	return &Submitter{client: client, logger: logger}
}

// Submit creates the job described by req and waits for the acknowledgement.
func (s *Submitter) Submit(ctx context.Context, req *jobspec.Request) (*Handle, error) {
	ctx, span := tracing.Tracer().Start(ctx, "mediaconvert.CreateJob")
	defer span.End()
	span.SetAttributes(
		attribute.String("media.original_key", req.Metadata.OriginalKey),
		attribute.String("media.destination", req.OutputDestination),
	)

	s.logger.Info("creating mediaconvert job",
		zap.String("key", req.Metadata.OriginalKey),
		zap.String("destination", req.OutputDestination),
	)

	out, err := s.client.CreateJob(ctx, req.CreateJobInput())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "create job failed")
		return nil, fmt.Errorf("create mediaconvert job for %q: %w", req.Metadata.OriginalKey, err)
	}

	h := &Handle{}
	if out != nil && out.Job != nil {
		h.JobID = aws.ToString(out.Job.Id)
		h.Arn = aws.ToString(out.Job.Arn)
		h.Status = string(out.Job.Status)
	}
	span.SetAttributes(attribute.String("mediaconvert.job_id", h.JobID))
	s.logger.Info("mediaconvert job created",
		zap.String("key", req.Metadata.OriginalKey),
		zap.String("job_id", h.JobID),
		zap.String("status", h.Status),
	)
	return h, nil
}
