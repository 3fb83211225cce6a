package session

import (
    "context"
    "testing"
    "time"
)

func TestActivateIsIdempotent(t *testing.T) {
    st := NewState("Rommel", time.Hour)
    t0 := time.Now()

    run1, changed := st.Activate(t0)
    if !changed || run1 == "" {
        t.Fatalf("first activation should change state")
    }
    run2, changed := st.Activate(t0.Add(time.Second))
    if changed {
        t.Fatalf("re-activation while active must be a no-op")
    }
    if run2 != run1 {
        t.Fatalf("run id must be stable across redundant activations")
    }
    if !st.Active() {
        t.Fatalf("expected active")
    }
}

func TestRefreshIsMonotonic(t *testing.T) {
    st := NewState("Rommel", time.Hour)
    t0 := time.Now()
    st.Activate(t0)

    st.Refresh(t0.Add(2 * time.Second))
    st.Refresh(t0.Add(time.Second)) // older timestamp must not win
    if got := st.Snapshot().LastSeenAt; !got.Equal(t0.Add(2 * time.Second)) {
        t.Fatalf("last seen moved backwards: %v", got)
    }
}

func TestRefreshWhileInactiveIsNoOp(t *testing.T) {
    st := NewState("Rommel", time.Hour)
    st.Refresh(time.Now())
    if st.Active() {
        t.Fatalf("refresh must not activate")
    }
}

func TestDeactivateIsIdempotent(t *testing.T) {
    st := NewState("Rommel", time.Hour)
    if _, changed := st.Deactivate(); changed {
        t.Fatalf("deactivating inactive session must be a no-op")
    }
    st.Activate(time.Now())
    if _, changed := st.Deactivate(); !changed {
        t.Fatalf("expected deactivation")
    }
    if _, changed := st.Deactivate(); changed {
        t.Fatalf("second deactivation must be a no-op")
    }
}

func TestTimedOut(t *testing.T) {
    st := NewState("Rommel", 10*time.Second)
    t0 := time.Now()

    if st.TimedOut(t0) {
        t.Fatalf("inactive session never times out")
    }
    st.Activate(t0)
    if st.TimedOut(t0.Add(10 * time.Second)) {
        t.Fatalf("elapsed == timeout is not yet a timeout")
    }
    if !st.TimedOut(t0.Add(10*time.Second + time.Millisecond)) {
        t.Fatalf("expected timeout past the threshold")
    }
}

func TestWaitActiveWakesOnActivation(t *testing.T) {
    st := NewState("Rommel", time.Hour)
    done := make(chan error, 1)
    go func() {
        ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
        defer cancel()
        done <- st.WaitActive(ctx)
    }()

    time.Sleep(20 * time.Millisecond)
    st.Activate(time.Now())

    if err := <-done; err != nil {
        t.Fatalf("wait: %v", err)
    }
}

func TestWaitActiveReturnsImmediatelyWhenActive(t *testing.T) {
    st := NewState("Rommel", time.Hour)
    st.Activate(time.Now())
    ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
    defer cancel()
    if err := st.WaitActive(ctx); err != nil {
        t.Fatalf("wait on active session: %v", err)
    }
}

func TestWaitActiveHonorsContext(t *testing.T) {
    st := NewState("Rommel", time.Hour)
    ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
    defer cancel()
    if err := st.WaitActive(ctx); err == nil {
        t.Fatalf("expected context error while inactive")
    }
}
