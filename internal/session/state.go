package session

import (
    "context"
    "sync"
    "time"

    "github.com/google/uuid"
)

// Snapshot is a consistent read of the session record.
type Snapshot struct {
    Active         bool          `json:"active"`
    RunID          string        `json:"run_id,omitempty"`
    LastSeenAt     time.Time     `json:"last_seen_at"`
    TargetIdentity string        `json:"target_identity"`
    IdleTimeout    time.Duration `json:"idle_timeout"`
}

// State is the single process-wide session record. All mutation goes
// through Activate, Refresh and Deactivate; LastSeenAt is meaningful only
// while active.
type State struct {
    mu       sync.Mutex
    active   bool
    runID    string
    lastSeen time.Time
    target   string
    timeout  time.Duration
    activeCh chan struct{} // closed on activation, replaced on deactivation
}

func NewState(targetIdentity string, idleTimeout time.Duration) *State {
    return &State{
        target:   targetIdentity,
        timeout:  idleTimeout,
        activeCh: make(chan struct{}),
    }
}

// Target returns the identity whose presence opens a session.
func (s *State) Target() string { return s.target }

// Activate opens a session and returns its run id. Activating an active
// session is a no-op and returns the current run id.
func (s *State) Activate(now time.Time) (runID string, changed bool) {
    s.mu.Lock()
    defer s.mu.Unlock()
    if s.active {
        return s.runID, false
    }
    s.active = true
    s.runID = uuid.New().String()
    s.lastSeen = now
    close(s.activeCh)
    return s.runID, true
}

// Refresh pushes the last-seen timestamp forward. It never moves it
// backwards and does nothing while inactive.
func (s *State) Refresh(now time.Time) {
    s.mu.Lock()
    defer s.mu.Unlock()
    if !s.active {
        return
    }
    if now.After(s.lastSeen) {
        s.lastSeen = now
    }
}

// Deactivate closes the session. Deactivating an inactive session is a
// no-op.
func (s *State) Deactivate() (runID string, changed bool) {
    s.mu.Lock()
    defer s.mu.Unlock()
    if !s.active {
        return "", false
    }
    runID = s.runID
    s.active = false
    s.activeCh = make(chan struct{})
    return runID, true
}

func (s *State) Active() bool {
    s.mu.Lock()
    defer s.mu.Unlock()
    return s.active
}

// TimedOut reports whether the active session has been idle past its
// timeout. Always false while inactive.
func (s *State) TimedOut(now time.Time) bool {
    s.mu.Lock()
    defer s.mu.Unlock()
    return s.active && now.Sub(s.lastSeen) > s.timeout
}

func (s *State) Snapshot() Snapshot {
    s.mu.Lock()
    defer s.mu.Unlock()
    snap := Snapshot{
        Active:         s.active,
        LastSeenAt:     s.lastSeen,
        TargetIdentity: s.target,
        IdleTimeout:    s.timeout,
    }
    if s.active {
        snap.RunID = s.runID
    }
    return snap
}

// WaitActive suspends until the session becomes active or the context is
// done. Returns immediately when already active; no polling.
func (s *State) WaitActive(ctx context.Context) error {
    s.mu.Lock()
    ch := s.activeCh
    active := s.active
    s.mu.Unlock()
    if active {
        return nil
    }
    select {
    case <-ch:
        return nil
    case <-ctx.Done():
        return ctx.Err()
    }
}
