package jobspec

import (
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/mediaconvert"
	"github.com/aws/aws-sdk-go-v2/service/mediaconvert/types"
)

// User metadata keys echoed back by MediaConvert on job state changes.
const (
	MetadataOriginalKey = "originalKey"
	MetadataOutPrefix   = "outPrefix"
)

// Metadata correlates a completion event with the upload that caused it.
type Metadata struct {
	OriginalKey string
	OutPrefix   string
}

// UserMetadata renders m in the shape MediaConvert passes through.
func (m Metadata) UserMetadata() map[string]string {
	return map[string]string{
		MetadataOriginalKey: m.OriginalKey,
		MetadataOutPrefix:   m.OutPrefix,
	}
}

// Request is everything needed to create one transcoding job.
type Request struct {
	InputLocation     string
	OutputPrefix      string
	OutputDestination string
	Role              string
	Settings          *types.JobSettings
	Metadata          Metadata
}

// CreateJobInput converts r into the MediaConvert API input.
func (r *Request) CreateJobInput() *mediaconvert.CreateJobInput {
	return &mediaconvert.CreateJobInput{
		Role:         aws.String(r.Role),
		Settings:     r.Settings,
		UserMetadata: r.Metadata.UserMetadata(),
	}
}

// Builder turns uploaded objects into job requests. It performs no I/O.
type Builder struct {
	// Role is the IAM role ARN MediaConvert assumes to read and write the bucket.
	Role string
}

// Build returns the job request for rawKey in bucket. Keys that do not end in
// SupportedExtension yield ErrUnsupportedExtension.
func (b *Builder) Build(bucket, rawKey string) (*Request, error) {
	key, err := DecodeKey(rawKey)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(key, SupportedExtension) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedExtension, key)
	}

	outPrefix := OutputPrefix(BaseName(key))
	input := fmt.Sprintf("s3://%s/%s", bucket, key)
	dest := fmt.Sprintf("s3://%s/%s", bucket, outPrefix)

	return &Request{
		InputLocation:     input,
		OutputPrefix:      outPrefix,
		OutputDestination: dest,
		Role:              b.Role,
		Settings:          hlsProfile(input, dest),
		Metadata: Metadata{
			OriginalKey: key,
			OutPrefix:   outPrefix,
		},
	}, nil
}
