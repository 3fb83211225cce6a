// Package loop runs the interaction cycle: wait for an active session,
// then repeatedly capture an utterance, route it, and execute the winning
// intent until the session ends.
package loop

import (
    "context"
    "log"
    "time"

    evbus "github.com/asaskevich/EventBus"

    "alira/assistant/internal/capture"
    "alira/assistant/internal/events"
    "alira/assistant/internal/intent"
    "alira/assistant/internal/session"
)

// TopicDecision carries (Decision, Outcome) pairs to observers.
const TopicDecision = "intent.decision"

// Runner owns the capture→decide→execute cycle. It runs unattended: an
// iteration error is logged and skipped, a panic restarts the cycle after
// a short backoff.
type Runner struct {
    state   *session.State
    cap     capture.Client
    router  *intent.Router
    exec    *Dispatcher
    journal *events.Journal
    bus     evbus.Bus

    captureMaxWait time.Duration
    idleDelay      time.Duration
    crashBackoff   time.Duration
}

func NewRunner(st *session.State, cap capture.Client, rt *intent.Router, exec *Dispatcher,
    jr *events.Journal, bus evbus.Bus, captureMaxWait, idleDelay, crashBackoff time.Duration) *Runner {
    return &Runner{
        state: st, cap: cap, router: rt, exec: exec, journal: jr, bus: bus,
        captureMaxWait: captureMaxWait, idleDelay: idleDelay, crashBackoff: crashBackoff,
    }
}

// Run blocks until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) {
    for ctx.Err() == nil {
        if err := r.state.WaitActive(ctx); err != nil {
            return
        }
        log.Printf("[loop] session active, engaging")
        r.engage(ctx)
        log.Printf("[loop] session cleared, back to waiting")
    }
}

// engage drives one active session. The recover keeps a broken executor
// or detector path from killing the process.
func (r *Runner) engage(ctx context.Context) {
    defer func() {
        if rec := recover(); rec != nil {
            metricCrashes.Inc()
            log.Printf("[loop] cycle panic: %v", rec)
            sleepCtx(ctx, r.crashBackoff)
        }
    }()

    for r.state.Active() && ctx.Err() == nil {
        metricIterations.Inc()
        r.step(ctx)
        sleepCtx(ctx, r.idleDelay)
    }
}

func (r *Runner) step(ctx context.Context) {
    text, err := r.cap.Capture(ctx, r.captureMaxWait)
    if err != nil {
        metricCaptureErrors.Inc()
        log.Printf("[loop] capture: %v", err)
        return
    }
    if text == "" {
        return
    }
    metricUtterances.Inc()

    dec := r.router.Decide(text)
    out := r.exec.Dispatch(dec)
    if out.Err != "" {
        log.Printf("[loop] %s: %s", dec.Label, out.Err)
    }

    snap := r.state.Snapshot()
    r.journal.Append(snap.RunID, "intent_decision", map[string]any{
        "text":   dec.Text,
        "label":  dec.Label,
        "scores": dec.Scores,
        "say":    out.Say,
        "error":  out.Err,
    })
    r.bus.Publish(TopicDecision, dec, out)
}

func sleepCtx(ctx context.Context, d time.Duration) {
    if d <= 0 {
        return
    }
    t := time.NewTimer(d)
    defer t.Stop()
    select {
    case <-ctx.Done():
    case <-t.C:
    }
}
