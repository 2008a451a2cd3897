package completion

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type recordingNotifier struct {
	details []JobDetail
	err     error
}

func (r *recordingNotifier) Notify(_ context.Context, d JobDetail) (bool, error) {
	r.details = append(r.details, d)
	if r.err != nil {
		return false, r.err
	}
	return d.Status == StatusComplete, nil
}

func decodeEvent(t *testing.T, raw string) Event {
	t.Helper()
	var ev Event
	require.NoError(t, json.Unmarshal([]byte(raw), &ev))
	return ev
}

func TestDispatchBatch(t *testing.T) {
	rn := &recordingNotifier{}
	d := NewDispatcher(rn, zaptest.NewLogger(t))

	res, err := d.Dispatch(context.Background(), decodeEvent(t, `{"Records":[
		{"detail":{"jobId":"1","status":"COMPLETE","userMetadata":{"originalKey":"a.mp4","outPrefix":"processed/a/"}}},
		{"detail":{"jobId":"2","status":"ERROR","userMetadata":{"originalKey":"b.mp4","outPrefix":"processed/b/"}}},
		{"detail":"not an object"},
		{"detail":{"jobId":"3","status":"COMPLETE","userMetadata":{"originalKey":"c.mp4","outPrefix":"processed/c/"}}}
	]}`))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Notified)
	require.Len(t, rn.details, 3)
	assert.Equal(t, "a.mp4", rn.details[0].UserMetadata["originalKey"])
	assert.Equal(t, "3", rn.details[2].JobID)
}

func TestHandleSingleEvent(t *testing.T) {
	rn := &recordingNotifier{}
	d := NewDispatcher(rn, zaptest.NewLogger(t))

	resp, err := d.HandleEvent(context.Background(), decodeEvent(t,
		`{"source":"aws.mediaconvert","detail":{"jobId":"1","status":"COMPLETE","userMetadata":{"originalKey":"a.mp4","outPrefix":"processed/a/"}}}`))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "Backend updated", resp.Body)
	assert.Len(t, rn.details, 1)
}

func TestDispatchStopsAtFirstFailure(t *testing.T) {
	boom := errors.New("backend down")
	rn := &recordingNotifier{err: boom}
	d := NewDispatcher(rn, zaptest.NewLogger(t))

	_, err := d.HandleEvent(context.Background(), decodeEvent(t, `{"Records":[
		{"detail":{"jobId":"1","status":"COMPLETE"}},
		{"detail":{"jobId":"2","status":"COMPLETE"}}
	]}`))
	require.ErrorIs(t, err, boom)
	assert.Len(t, rn.details, 1)
}
