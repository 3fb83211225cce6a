package session

import (
    "context"
    "log"
    "time"

    "alira/assistant/internal/events"
    "alira/assistant/internal/vision"

    evbus "github.com/asaskevich/EventBus"
)

// Observer bus topics for session transitions.
const (
    TopicActivated   = "session.activated"
    TopicDeactivated = "session.deactivated"
)

// Starter consumes the face channel and is the only component allowed to
// open a session.
type Starter struct {
    state    *State
    faces    <-chan vision.FaceEvent
    faceWait time.Duration
    journal  *events.Journal
    bus      evbus.Bus
}

func NewStarter(st *State, faces <-chan vision.FaceEvent, faceWait time.Duration, jr *events.Journal, bus evbus.Bus) *Starter {
    if faceWait <= 0 {
        faceWait = time.Second
    }
    return &Starter{state: st, faces: faces, faceWait: faceWait, journal: jr, bus: bus}
}

// Run blocks until ctx is done. Waiting out the face-wait window without an
// event is a normal retry, not an error.
func (s *Starter) Run(ctx context.Context) {
    timer := time.NewTimer(s.faceWait)
    defer timer.Stop()
    for {
        select {
        case <-ctx.Done():
            return
        case ev := <-s.faces:
            s.handleFace(ev)
        case <-timer.C:
            // periodic re-check; nothing to do
        }
        if !timer.Stop() {
            select {
            case <-timer.C:
            default:
            }
        }
        timer.Reset(s.faceWait)
    }
}

func (s *Starter) handleFace(ev vision.FaceEvent) {
    if ev.Name != s.state.Target() {
        return
    }
    now := time.Now()
    if runID, changed := s.state.Activate(now); changed {
        metricActivations.Inc()
        metricSessionActive.Set(1)
        log.Printf("[starter] session activated run=%s similarity=%.2f", runID, ev.Similarity)
        if s.journal != nil {
            s.journal.Append(runID, "session_activated", map[string]any{
                "name": ev.Name, "similarity": ev.Similarity,
            })
        }
        if s.bus != nil {
            s.bus.Publish(TopicActivated, runID)
        }
        return
    }
    s.state.Refresh(now)
    metricRefreshes.Inc()
}
