package transcode

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/mediaconvert"
	"github.com/aws/aws-sdk-go-v2/service/mediaconvert/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/your-org/hlsflow/internal/jobspec"
)

type fakeCreator struct {
	inputs []*mediaconvert.CreateJobInput
	err    error
}

func (f *fakeCreator) CreateJob(_ context.Context, in *mediaconvert.CreateJobInput, _ ...func(*mediaconvert.Options)) (*mediaconvert.CreateJobOutput, error) {
	f.inputs = append(f.inputs, in)
	if f.err != nil {
		return nil, f.err
	}
	return &mediaconvert.CreateJobOutput{Job: &types.Job{
		Id:     aws.String("1700000000000-abc123"),
		Arn:    aws.String("arn:aws:mediaconvert:ap-southeast-2:123456789012:jobs/1700000000000-abc123"),
		Status: types.JobStatus("SUBMITTED"),
	}}, nil
}

func buildRequest(t *testing.T) *jobspec.Request {
	t.Helper()
	req, err := (&jobspec.Builder{Role: "arn:aws:iam::123456789012:role/mc"}).Build("clips", "myvideo.mp4")
	require.NoError(t, err)
	return req
}

func TestSubmit(t *testing.T) {
	fake := &fakeCreator{}
	s := NewSubmitter(fake, zaptest.NewLogger(t))

	h, err := s.Submit(context.Background(), buildRequest(t))
	require.NoError(t, err)
	assert.Equal(t, "1700000000000-abc123", h.JobID)
	assert.Equal(t, "SUBMITTED", h.Status)

	require.Len(t, fake.inputs, 1)
	assert.Equal(t, "arn:aws:iam::123456789012:role/mc", aws.ToString(fake.inputs[0].Role))
	assert.Equal(t, "processed/myvideo/", fake.inputs[0].UserMetadata["outPrefix"])
}

func TestSubmitPropagatesErrors(t *testing.T) {
	boom := errors.New("AccessDeniedException")
	fake := &fakeCreator{err: boom}
	s := NewSubmitter(fake, zaptest.NewLogger(t))

	_, err := s.Submit(context.Background(), buildRequest(t))
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), `"myvideo.mp4"`)
	assert.Len(t, fake.inputs, 1, "no retry")
}
