package session

import (
    "context"
    "log"
    "time"

    "alira/assistant/internal/events"

    evbus "github.com/asaskevich/EventBus"
)

// Watchdog closes idle sessions and is the only component allowed to do so.
type Watchdog struct {
    state   *State
    tick    time.Duration
    journal *events.Journal
    bus     evbus.Bus

    now func() time.Time // injectable for tests
}

func NewWatchdog(st *State, tick time.Duration, jr *events.Journal, bus evbus.Bus) *Watchdog {
    if tick <= 0 {
        tick = 500 * time.Millisecond
    }
    return &Watchdog{state: st, tick: tick, journal: jr, bus: bus, now: time.Now}
}

// Run blocks until ctx is done.
func (w *Watchdog) Run(ctx context.Context) {
    ticker := time.NewTicker(w.tick)
    defer ticker.Stop()
    for {
        select {
        case <-ctx.Done():
            return
        case <-ticker.C:
            w.Check()
        }
    }
}

// Check performs one idle evaluation.
func (w *Watchdog) Check() {
    if !w.state.TimedOut(w.now()) {
        return
    }
    runID, changed := w.state.Deactivate()
    if !changed {
        return
    }
    metricTimeouts.Inc()
    metricSessionActive.Set(0)
    log.Printf("[watchdog] session ended (timeout) run=%s", runID)
    if w.journal != nil {
        w.journal.Append(runID, "session_timeout", nil)
    }
    if w.bus != nil {
        w.bus.Publish(TopicDeactivated, runID)
    }
}
