package publishers

import (
	"time"

	"github.com/google/uuid"
	"github.com/samvad-hq/universal-http/pkg/universalhttp"
)

// Event is the alert published when a request fails.
type Event struct {
	ID         string    `json:"id"`
	RequestID  string    `json:"request_id"`
	Method     string    `json:"method"`
	URL        string    `json:"url"`
	Kind       string    `json:"kind"`
	StatusCode *int      `json:"status_code,omitempty"`
	Error      string    `json:"error,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewEvent constructs an Event for a failed request. err may be nil when only
// the fact of failure is known.
func NewEvent(requestID, method, url string, status *int, err error) Event {
	evt := Event{
		ID:         uuid.NewString(),
		RequestID:  requestID,
		Method:     method,
		URL:        url,
		Kind:       universalhttp.KindOf(err).String(),
		StatusCode: status,
		OccurredAt: time.Now().UTC(),
	}
	if err != nil {
		evt.Error = err.Error()
	}
	return evt
}

// attributes are attached to queue messages for routing/filtering.
func (e Event) attributes() map[string]string {
	return map[string]string{
		"event_id":   e.ID,
		"request_id": e.RequestID,
		"kind":       e.Kind,
	}
}
