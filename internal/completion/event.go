package completion

import (
	"bytes"
	"encoding/json"

	"github.com/aws/aws-lambda-go/events"
)

// Terminal MediaConvert job statuses. Only StatusComplete triggers a backend
// notification.
const (
	StatusComplete = "COMPLETE"
	StatusFailed   = "ERROR"
)

// JobDetail is the detail payload of a MediaConvert Job State Change event.
type JobDetail struct {
	JobID        string            `json:"jobId"`
	Status       string            `json:"status"`
	Queue        string            `json:"queue,omitempty"`
	ErrorCode    int               `json:"errorCode,omitempty"`
	ErrorMessage string            `json:"errorMessage,omitempty"`
	UserMetadata map[string]string `json:"userMetadata"`
}

// Event accepts both delivery shapes: a single EventBridge event, or a batch
// wrapping several of them under Records.
type Event struct {
	events.CloudWatchEvent
	Records []events.CloudWatchEvent `json:"Records,omitempty"`
}

// Details normalises e to its ordered detail payloads. A record without a
// detail inherits the top-level one; events with no detail at all are dropped.
func (e Event) Details() []json.RawMessage {
	if len(e.Records) == 0 {
		if isEmpty(e.Detail) {
			return nil
		}
		return []json.RawMessage{e.Detail}
	}

	out := make([]json.RawMessage, 0, len(e.Records))
	for _, rec := range e.Records {
		detail := rec.Detail
		if isEmpty(detail) {
			detail = e.Detail
		}
		if isEmpty(detail) {
			continue
		}
		out = append(out, detail)
	}
	return out
}

func isEmpty(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
