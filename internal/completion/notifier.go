package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/your-org/hlsflow/internal/jobspec"
	"github.com/your-org/hlsflow/pkg/tracing"
)

// TranscodedPath is the backend route that receives finished playlists.
const TranscodedPath = "/api/media/transcoded"

// SecretHeader carries the shared secret the backend authenticates with.
const SecretHeader = "secret"

// BackendNotification is the JSON body posted to the backend.
type BackendNotification struct {
	OriginalKey  string `json:"originalKey"`
	PlaylistPath string `json:"playlistPath"`
}

// StatusError reports a non-2xx backend response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend responded with status %d", e.StatusCode)
}

// NotifierConfig configures the backend endpoint, credentials and playlist naming.
type NotifierConfig struct {
	BaseURL      string
	Secret       string
	PlaylistName string
	// HTTPClient defaults to a traced client without a timeout.
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Notifier tells the backend where a finished job's playlist lives.
type Notifier struct {
	endpoint     string
	secret       string
	playlistName string
	client       *http.Client
	logger       *zap.Logger
}

// NewNotifier constructs a Notifier.
func NewNotifier(cfg NotifierConfig) *Notifier {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	return &Notifier{
		endpoint:     strings.TrimRight(cfg.BaseURL, "/") + TranscodedPath,
		secret:       cfg.Secret,
		playlistName: cfg.PlaylistName,
		client:       client,
		logger:       cfg.Logger,
	}
}

// Notify posts one notification for a COMPLETE job and reports whether it did.
// Other statuses and events missing correlation metadata are skipped. There is
// no retry.
func (n *Notifier) Notify(ctx context.Context, d JobDetail) (bool, error) {
	if d.Status != StatusComplete {
		level := zap.DebugLevel
		if d.Status == StatusFailed {
			level = zap.WarnLevel
		}
		n.logger.Log(level, "job not complete, backend not notified",
			zap.String("job_id", d.JobID),
			zap.String("status", d.Status),
			zap.Int("error_code", d.ErrorCode),
			zap.String("error_message", d.ErrorMessage),
		)
		return false, nil
	}

	originalKey := d.UserMetadata[jobspec.MetadataOriginalKey]
	outPrefix := d.UserMetadata[jobspec.MetadataOutPrefix]
	if originalKey == "" || outPrefix == "" {
		n.logger.Warn("completion event without correlation metadata", zap.String("job_id", d.JobID))
		return false, nil
	}

	body := BackendNotification{
		OriginalKey:  originalKey,
		PlaylistPath: outPrefix + n.playlistName,
	}
	if err := n.post(ctx, body); err != nil {
		return false, fmt.Errorf("notify backend for %q: %w", originalKey, err)
	}
	return true, nil
}

func (n *Notifier) post(ctx context.Context, body BackendNotification) error {
	ctx, span := tracing.Tracer().Start(ctx, "backend.NotifyTranscoded")
	defer span.End()
	span.SetAttributes(
		attribute.String("media.original_key", body.OriginalKey),
		attribute.String("media.playlist_path", body.PlaylistPath),
	)

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SecretHeader, n.secret)

	resp, err := n.client.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		span.SetStatus(codes.Error, resp.Status)
		return &StatusError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if json.Valid(respBody) {
		n.logger.Info("backend notified",
			zap.String("playlist_path", body.PlaylistPath),
			zap.Any("response", json.RawMessage(respBody)),
		)
	} else {
		n.logger.Warn("backend notified, response is not json",
			zap.String("playlist_path", body.PlaylistPath),
			zap.ByteString("response", respBody),
		)
	}
	return nil
}
