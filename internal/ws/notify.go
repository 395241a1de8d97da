package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"skill-gap/internal/domain/analysis"
)

type AnalysisCompletedEvent struct {
	Type         string `json:"type"`
	AnalysisID   string `json:"analysis_id"`
	BatchID      string `json:"batch_id,omitempty"`
	Source       string `json:"source"`
	OverallScore int    `json:"overall_score"`
	Readiness    string `json:"readiness"`
	Timestamp    string `json:"timestamp"`
}

type BatchCompletedEvent struct {
	Type      string `json:"type"`
	BatchID   string `json:"batch_id"`
	Total     int    `json:"total"`
	Succeeded int    `json:"succeeded"`
	Failed    int    `json:"failed"`
	Timestamp string `json:"timestamp"`
}

// Notifier publishes analysis events on a hub. A nil hub discards them.
type Notifier struct {
	hub *Hub
	now func() time.Time
}

func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub, now: time.Now}
}

func (n *Notifier) AnalysisCompleted(a analysis.Analysis) {
	if n == nil || n.hub == nil {
		return
	}
	evt := AnalysisCompletedEvent{
		Type:         "analysis_completed",
		AnalysisID:   a.ID.String(),
		Source:       string(a.Source),
		OverallScore: a.Report.OverallScore,
		Readiness:    string(a.Report.Readiness()),
		Timestamp:    n.now().UTC().Format(time.RFC3339),
	}
	if a.BatchID != nil {
		evt.BatchID = a.BatchID.String()
	}
	n.publish(a.UserID, evt)
}

func (n *Notifier) BatchCompleted(userID string, batchID uuid.UUID, total, succeeded, failed int) {
	if n == nil || n.hub == nil {
		return
	}
	n.publish(userID, BatchCompletedEvent{
		Type:      "batch_completed",
		BatchID:   batchID.String(),
		Total:     total,
		Succeeded: succeeded,
		Failed:    failed,
		Timestamp: n.now().UTC().Format(time.RFC3339),
	})
}

func (n *Notifier) publish(userID string, evt any) {
	b, err := json.Marshal(evt)
	if err != nil {
		n.hub.log.Error().Err(err).Msg("ws event marshal failed")
		return
	}
	n.hub.Publish(userID, b)
}
