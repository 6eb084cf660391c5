package ws

import (
	"encoding/json"
	"sync/atomic"
	"time"

	"careerpilot/internal/usecase"
)

type RefreshOutcomeEvent struct {
	Industry string `json:"industry"`
	Status   string `json:"status"`
	Error    string `json:"error,omitempty"`
}

type RefreshCompletedEvent struct {
	Type      string                `json:"type"`
	Outcomes  []RefreshOutcomeEvent `json:"outcomes"`
	Timestamp string                `json:"timestamp"`
}

var defaultHub atomic.Pointer[Hub]

func SetDefaultHub(h *Hub) {
	defaultHub.Store(h)
}

// NotifyRefreshCompleted broadcasts the per-key outcome list of a
// finished refresh run. A nil default hub (refresher running without the
// server) makes this a no-op.
func NotifyRefreshCompleted(outcomes []usecase.RefreshOutcome) {
	h := defaultHub.Load()
	if h == nil {
		return
	}

	events := make([]RefreshOutcomeEvent, 0, len(outcomes))
	for _, o := range outcomes {
		e := RefreshOutcomeEvent{Industry: o.Industry, Status: "refreshed"}
		if o.Err != nil {
			e.Status = "failed"
			e.Error = o.Err.Error()
		}
		events = append(events, e)
	}

	evt := RefreshCompletedEvent{
		Type:      "insights_refreshed",
		Outcomes:  events,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}
	h.Broadcast(b)
}
