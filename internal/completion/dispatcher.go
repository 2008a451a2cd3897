package completion

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/your-org/hlsflow/internal/invocation"
)

// BackendNotifier sends at most one notification per job detail.
type BackendNotifier interface {
	Notify(ctx context.Context, d JobDetail) (bool, error)
}

// Result summarises one dispatched completion invocation.
type Result struct {
	Notified int
}

// Response renders r for the invoking platform.
func (r Result) Response() invocation.Response {
	return invocation.Response{StatusCode: http.StatusOK, Body: "Backend updated"}
}

// Dispatcher feeds job state change events to the notifier.
type Dispatcher struct {
	notifier BackendNotifier
	logger   *zap.Logger
}

// NewDispatcher constructs a Dispatcher.
func NewDispatcher(notifier BackendNotifier, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{notifier: notifier, logger: logger}
}

// Dispatch notifies for each detail in ev sequentially and stops at the first
// failure. Notifications already sent are not undone.
func (d *Dispatcher) Dispatch(ctx context.Context, ev Event) (Result, error) {
	log := d.logger.With(zap.String("invocation_id", invocation.ID(ctx)))
	details := ev.Details()
	log.Info("completion batch received", zap.Int("events", len(details)))

	var res Result
	for _, raw := range details {
		var detail JobDetail
		if err := json.Unmarshal(raw, &detail); err != nil {
			log.Warn("skipping undecodable job detail", zap.Error(err))
			continue
		}
		notified, err := d.notifier.Notify(ctx, detail)
		if err != nil {
			log.Error("backend notification failed",
				zap.String("job_id", detail.JobID),
				zap.Int("notified", res.Notified),
				zap.Error(err),
			)
			return res, err
		}
		if notified {
			res.Notified++
		}
	}

	log.Info("completion batch dispatched", zap.Int("notified", res.Notified))
	return res, nil
}

// HandleEvent is the Lambda entry point for MediaConvert state change events.
func (d *Dispatcher) HandleEvent(ctx context.Context, ev Event) (invocation.Response, error) {
	if ce := d.logger.Check(zap.DebugLevel, "received mediaconvert event"); ce != nil {
		ce.Write(zap.Any("event", ev))
	}
	res, err := d.Dispatch(ctx, ev)
	if err != nil {
		return invocation.Response{}, err
	}
	return res.Response(), nil
}
