package gateway

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/your-org/hlsflow/internal/completion"
	"github.com/your-org/hlsflow/internal/invocation"
)

// UploadHandler handles S3 upload events.
type UploadHandler interface {
	HandleS3Event(ctx context.Context, ev events.S3Event) (invocation.Response, error)
}

// CompletionHandler handles MediaConvert job state change events.
type CompletionHandler interface {
	HandleEvent(ctx context.Context, ev completion.Event) (invocation.Response, error)
}

// HTTPHandler exposes both pipeline stages over HTTP for deployments that do
// not run on Lambda. Either stage may be nil, in which case its route is absent.
// Dispatches run on the request context without a deadline; a batch runs to
// completion or to its first failure.
type HTTPHandler struct {
	upload     UploadHandler
	completion CompletionHandler
	logger     *zap.Logger
	maxBody    int64
	router     chi.Router
}

// NewHTTPHandler constructs the HTTP handler and wires routes.
func NewHTTPHandler(upload UploadHandler, completion CompletionHandler, logger *zap.Logger, maxBodyBytes int64) *HTTPHandler {
	h := &HTTPHandler{
		upload:     upload,
		completion: completion,
		logger:     logger,
		maxBody:    maxBodyBytes,
	}
	h.buildRouter()
	return h
}

func (h *HTTPHandler) buildRouter() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.handleHealth)
	if h.upload != nil {
		r.Post("/events/upload", h.handleUpload)
	}
	if h.completion != nil {
		r.Post("/events/completion", h.handleCompletion)
	}

	h.router = r
}

// Router exposes the configured chi router.
func (h *HTTPHandler) Router() http.Handler {
	return h.router
}

func (h *HTTPHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

func (h *HTTPHandler) handleUpload(w http.ResponseWriter, r *http.Request) {
	var ev events.S3Event
	if !h.decode(w, r, &ev) {
		return
	}
	resp, err := h.upload.HandleS3Event(h.invocationContext(r), ev)
	h.respond(w, resp, err, "upload dispatch failed")
}

func (h *HTTPHandler) handleCompletion(w http.ResponseWriter, r *http.Request) {
	var ev completion.Event
	if !h.decode(w, r, &ev) {
		return
	}
	resp, err := h.completion.HandleEvent(h.invocationContext(r), ev)
	h.respond(w, resp, err, "completion dispatch failed")
}

func (h *HTTPHandler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	body := http.MaxBytesReader(w, r.Body, h.maxBody)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid event body")
		return false
	}
	return true
}

func (h *HTTPHandler) invocationContext(r *http.Request) context.Context {
	ctx := r.Context()
	if id := middleware.GetReqID(ctx); id != "" {
		ctx = invocation.WithID(ctx, id)
	}
	return ctx
}

func (h *HTTPHandler) respond(w http.ResponseWriter, resp invocation.Response, err error, msg string) {
	if err != nil {
		h.logger.Error(msg, zap.Error(err))
		writeError(w, http.StatusBadGateway, msg)
		return
	}
	writeJSON(w, resp.StatusCode, resp)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{
		"error": msg,
	})
}
