package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"greenjobs/internal/domain/measures"
	"greenjobs/internal/pipeline"
)

type runStartedEvent struct {
	Type      string `json:"type"`
	RunID     string `json:"run_id"`
	Adverts   int    `json:"adverts"`
	Chunks    int    `json:"chunks"`
	Timestamp string `json:"timestamp"`
}

type batchFinishedEvent struct {
	Type       string `json:"type"`
	RunID      string `json:"run_id"`
	Chunk      int    `json:"chunk"`
	Size       int    `json:"size"`
	DurationMS int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
	Timestamp  string `json:"timestamp"`
}

type runFinishedEvent struct {
	Type         string              `json:"type"`
	RunID        string              `json:"run_id"`
	FailedChunks int                 `json:"failed_chunks"`
	Nulls        measures.NullCounts `json:"nulls"`
	Timestamp    string              `json:"timestamp"`
}

// ProgressNotifier pushes pipeline lifecycle events to the hub. A nil
// receiver or nil hub is a no-op so callers can wire it unconditionally.
type ProgressNotifier struct {
	hub *Hub
}

func NewProgressNotifier(hub *Hub) *ProgressNotifier {
	return &ProgressNotifier{hub: hub}
}

func (n *ProgressNotifier) RunStarted(runID uuid.UUID, adverts, chunks int) {
	n.emit(runStartedEvent{
		Type:      "run_started",
		RunID:     runID.String(),
		Adverts:   adverts,
		Chunks:    chunks,
		Timestamp: timestamp(),
	})
}

func (n *ProgressNotifier) BatchFinished(runID uuid.UUID, res pipeline.BatchResult) {
	evt := batchFinishedEvent{
		Type:       "batch_finished",
		RunID:      runID.String(),
		Chunk:      res.Index,
		Size:       res.Size,
		DurationMS: res.Duration.Milliseconds(),
		Timestamp:  timestamp(),
	}
	if res.Err != nil {
		evt.Error = res.Err.Error()
	}
	n.emit(evt)
}

func (n *ProgressNotifier) RunFinished(runID uuid.UUID, nulls measures.NullCounts, failed int) {
	n.emit(runFinishedEvent{
		Type:         "run_finished",
		RunID:        runID.String(),
		FailedChunks: failed,
		Nulls:        nulls,
		Timestamp:    timestamp(),
	})
}

func (n *ProgressNotifier) emit(evt any) {
	if n == nil || n.hub == nil {
		return
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}
	n.hub.Broadcast(b)
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
