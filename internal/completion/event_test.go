package completion

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventDetails(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "single eventbridge event",
			raw:  `{"source":"aws.mediaconvert","detail-type":"MediaConvert Job State Change","detail":{"status":"COMPLETE"}}`,
			want: []string{`{"status":"COMPLETE"}`},
		},
		{
			name: "batch of records",
			raw:  `{"Records":[{"detail":{"jobId":"1"}},{"detail":{"jobId":"2"}}]}`,
			want: []string{`{"jobId":"1"}`, `{"jobId":"2"}`},
		},
		{
			name: "record falls back to top level detail",
			raw:  `{"detail":{"jobId":"top"},"Records":[{"source":"aws.mediaconvert"},{"detail":{"jobId":"own"}}]}`,
			want: []string{`{"jobId":"top"}`, `{"jobId":"own"}`},
		},
		{
			name: "no detail anywhere",
			raw:  `{"Records":[{"source":"aws.mediaconvert"}],"detail":null}`,
			want: nil,
		},
		{
			name: "empty event",
			raw:  `{}`,
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ev Event
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &ev))

			var got []string
			for _, d := range ev.Details() {
				got = append(got, string(d))
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
