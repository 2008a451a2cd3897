package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/your-org/hlsflow/internal/completion"
	"github.com/your-org/hlsflow/internal/invocation"
	"github.com/your-org/hlsflow/internal/jobspec"
	"github.com/your-org/hlsflow/internal/transcode"
	"github.com/your-org/hlsflow/internal/upload"
)

type countingSubmitter struct {
	calls       int
	err         error
	hadDeadline bool
}

func (c *countingSubmitter) Submit(ctx context.Context, _ *jobspec.Request) (*transcode.Handle, error) {
	c.calls++
	if _, ok := ctx.Deadline(); ok {
		c.hadDeadline = true
	}
	return &transcode.Handle{}, c.err
}

type stubCompletion struct {
	got []completion.Event
	ids []string
}

func (s *stubCompletion) HandleEvent(ctx context.Context, ev completion.Event) (invocation.Response, error) {
	s.got = append(s.got, ev)
	s.ids = append(s.ids, invocation.ID(ctx))
	return invocation.Response{StatusCode: http.StatusOK, Body: "Backend updated"}, nil
}

func newUploadDispatcher(t *testing.T, sub upload.JobSubmitter) *upload.Dispatcher {
	return upload.NewDispatcher(upload.Params{
		Builder:   &jobspec.Builder{Role: "role"},
		Submitter: sub,
		Logger:    zaptest.NewLogger(t),
	})
}

func post(t *testing.T, h http.Handler, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, strings.NewReader(body)))
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return rec, out
}

const s3Body = `{"Records":[
	{"eventName":"ObjectCreated:Put","s3":{"bucket":{"name":"clips"},"object":{"key":"image.png"}}},
	{"eventName":"ObjectCreated:Put","s3":{"bucket":{"name":"clips"},"object":{"key":"myvideo.mp4"}}}
]}`

func TestUploadRoute(t *testing.T) {
	sub := &countingSubmitter{}
	h := NewHTTPHandler(newUploadDispatcher(t, sub), nil, zaptest.NewLogger(t), 1<<20)

	rec, out := post(t, h.Router(), "/events/upload", s3Body)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Started 1 MediaConvert job(s)", out["body"])
	assert.EqualValues(t, 200, out["statusCode"])
	assert.Equal(t, 1, sub.calls)
	assert.False(t, sub.hadDeadline, "dispatch context must not carry a deadline")
}

func TestUploadRouteSubmissionFailure(t *testing.T) {
	sub := &countingSubmitter{err: errors.New("throttled")}
	h := NewHTTPHandler(newUploadDispatcher(t, sub), nil, zaptest.NewLogger(t), 1<<20)

	rec, out := post(t, h.Router(), "/events/upload", s3Body)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "upload dispatch failed", out["error"])
}

func TestUploadRouteBadBody(t *testing.T) {
	h := NewHTTPHandler(newUploadDispatcher(t, &countingSubmitter{}), nil, zaptest.NewLogger(t), 16)

	rec, _ := post(t, h.Router(), "/events/upload", s3Body)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "body exceeds limit")
}

func TestCompletionRoute(t *testing.T) {
	stub := &stubCompletion{}
	h := NewHTTPHandler(nil, stub, zaptest.NewLogger(t), 1<<20)

	rec, out := post(t, h.Router(), "/events/completion",
		`{"detail":{"status":"COMPLETE","userMetadata":{"originalKey":"a.mp4","outPrefix":"processed/a/"}}}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Backend updated", out["body"])
	require.Len(t, stub.got, 1)
	assert.Len(t, stub.got[0].Details(), 1)
	assert.NotEmpty(t, stub.ids[0])

	rec = httptest.NewRecorder()
	h.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/events/upload", strings.NewReader(s3Body)))
	assert.Equal(t, http.StatusNotFound, rec.Code, "upload stage not configured")
}

func TestHealth(t *testing.T) {
	h := NewHTTPHandler(nil, nil, zaptest.NewLogger(t), 1<<20)
	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

var _ UploadHandler = (*upload.Dispatcher)(nil)
var _ CompletionHandler = (*completion.Dispatcher)(nil)
