package events

import "testing"

func TestAppendAndList(t *testing.T) {
    j := NewJournal()
    j.Append("run1", "session_activated", map[string]any{"name": "Rommel"})
    j.Append("run1", "utterance_routed", nil)
    j.Append("", "ingress_connected", nil)

    all := j.List()
    if len(all) != 3 {
        t.Fatalf("expected 3 events, got %d", len(all))
    }
    run := j.ListRun("run1")
    if len(run) != 2 {
        t.Fatalf("expected 2 run events, got %d", len(run))
    }
    if run[0].Type != "session_activated" || run[0].ID == "" {
        t.Fatalf("unexpected first event: %+v", run[0])
    }
}

func TestCapAppendsTruncationMarker(t *testing.T) {
    j := NewJournal()
    for i := 0; i < j.max+10; i++ {
        j.Append("r", "tick", map[string]any{"i": i})
    }
    all := j.List()
    if len(all) != j.max {
        t.Fatalf("expected journal capped at %d, got %d", j.max, len(all))
    }
    last := all[len(all)-1]
    if last.Type != "events_truncated" {
        t.Fatalf("expected truncation marker last, got %q", last.Type)
    }
    if last.Payload["kept"] != j.max-1 {
        t.Fatalf("unexpected truncation payload: %v", last.Payload)
    }
}

func TestListReturnsCopy(t *testing.T) {
    j := NewJournal()
    j.Append("", "a", nil)
    out := j.List()
    out[0].Type = "mutated"
    if j.List()[0].Type != "a" {
        t.Fatalf("journal mutated through List copy")
    }
}
