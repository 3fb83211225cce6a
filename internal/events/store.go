package events

import (
    "sync"
    "time"

    "github.com/google/uuid"
)

// Event is one entry in the orchestrator journal. RunID ties it to the
// session activation it happened under; lifecycle events outside any
// session carry an empty RunID.
type Event struct {
    ID      string         `json:"id"`
    RunID   string         `json:"run_id,omitempty"`
    Type    string         `json:"type"`
    Ts      time.Time      `json:"timestamp"`
    Payload map[string]any `json:"payload,omitempty"`
}

// Journal is an append-only in-memory event log. Delivery is best-effort
// observability, not durable messaging.
type Journal struct {
    mu     sync.RWMutex
    events []Event
    max    int
}

func NewJournal() *Journal {
    return &Journal{max: 500}
}

func (j *Journal) Append(runID, typ string, payload map[string]any) Event {
    evt := Event{
        ID:      uuid.New().String(),
        RunID:   runID,
        Type:    typ,
        Ts:      time.Now().UTC(),
        Payload: payload,
    }
    j.mu.Lock()
    defer j.mu.Unlock()
    j.events = append(j.events, evt)
    // Cap total events to avoid unbounded growth
    if l := len(j.events); l > j.max {
        keep := j.max - 1
        dropped := l - keep
        j.events = append([]Event(nil), j.events[l-keep:]...)
        warn := Event{
            ID:      uuid.New().String(),
            Type:    "events_truncated",
            Ts:      time.Now().UTC(),
            Payload: map[string]any{"dropped": dropped, "kept": keep},
        }
        j.events = append(j.events, warn)
    }
    return evt
}

func (j *Journal) List() []Event {
    j.mu.RLock()
    defer j.mu.RUnlock()
    out := make([]Event, len(j.events))
    copy(out, j.events)
    return out
}

// ListRun returns only the events recorded under one session run.
func (j *Journal) ListRun(runID string) []Event {
    j.mu.RLock()
    defer j.mu.RUnlock()
    var out []Event
    for _, e := range j.events {
        if e.RunID == runID {
            out = append(out, e)
        }
    }
    return out
}
