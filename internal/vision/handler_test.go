package vision

import (
    "encoding/json"
    "fmt"
    "testing"
)

type fakeGate struct{ active bool }

func (g *fakeGate) Active() bool { return g.active }

func newTestServer(active bool) (*Server, *Bus, *fakeGate) {
    bus := NewBus(64)
    gate := &fakeGate{active: active}
    srv := NewServer(bus, gate, StridePolicy{N: 3}, 0.50, nil)
    return srv, bus, gate
}

func faceFrame(name string, sim float64) []byte {
    b, _ := json.Marshal(map[string]any{
        "type":   "face_recognized",
        "device": "cam",
        "vision": map[string]any{"face": map[string]any{"name": name, "similarity": sim}},
    })
    return b
}

func objectFrame(label string, score float64) []byte {
    b, _ := json.Marshal(map[string]any{
        "type":   "object_seen:" + label,
        "device": "cam",
        "vision": map[string]any{"object": map[string]any{"score": score}},
    })
    return b
}

func TestStrideSamplingPublishesCeilNOver3(t *testing.T) {
    srv, bus, _ := newTestServer(false)
    c := &conn{srv: srv}

    const n = 10
    for i := 0; i < n; i++ {
        c.handleFrame(faceFrame(fmt.Sprintf("p%d", i), 0.9))
    }
    // positions 0,3,6,9 of 10 events
    if got, want := len(bus.Faces), 4; got != want {
        t.Fatalf("expected %d published of %d, got %d", want, n, got)
    }
    first := <-bus.Faces
    if first.Name != "p0" {
        t.Fatalf("expected stride position 0 first, got %q", first.Name)
    }
}

func TestFacePublishedIndependentOfSession(t *testing.T) {
    srv, bus, _ := newTestServer(false)
    c := &conn{srv: srv}
    c.handleFrame(faceFrame("Rommel", 0.95))
    if len(bus.Faces) != 1 {
        t.Fatalf("face event should publish while session inactive")
    }
    ev := <-bus.Faces
    if ev.Name != "Rommel" || ev.Similarity != 0.95 || ev.Kind != "face_recognized" {
        t.Fatalf("unexpected event %+v", ev)
    }
}

func TestUnknownFaceGetsSentinelName(t *testing.T) {
    srv, bus, _ := newTestServer(false)
    c := &conn{srv: srv}
    b, _ := json.Marshal(map[string]any{
        "type":   "face_unknown",
        "vision": map[string]any{"face": map[string]any{"name": "ignored", "similarity": 0.2}},
    })
    c.handleFrame(b)
    ev := <-bus.Faces
    if ev.Name != UnknownName {
        t.Fatalf("expected sentinel name, got %q", ev.Name)
    }
}

func TestObjectGating(t *testing.T) {
    cases := []struct {
        score   float64
        active  bool
        publish bool
    }{
        {0.50, true, false},  // at threshold: not published
        {0.51, false, false}, // above threshold, session inactive
        {0.51, true, true},   // above threshold, session active
    }
    for _, tc := range cases {
        srv, bus, _ := newTestServer(tc.active)
        c := &conn{srv: srv}
        c.handleFrame(objectFrame("cup", tc.score))
        if got := len(bus.Objects) == 1; got != tc.publish {
            t.Fatalf("score=%v active=%v: published=%v, want %v", tc.score, tc.active, got, tc.publish)
        }
    }
}

func TestObjectLabelFromDiscriminator(t *testing.T) {
    srv, bus, _ := newTestServer(true)
    c := &conn{srv: srv}
    c.handleFrame(objectFrame("coffee mug", 0.9))
    ev := <-bus.Objects
    if ev.Label != "coffee mug" || ev.Score != 0.9 {
        t.Fatalf("unexpected object event %+v", ev)
    }
}

func TestMalformedFrameDroppedWithoutAdvancingStride(t *testing.T) {
    srv, bus, _ := newTestServer(false)
    c := &conn{srv: srv}

    c.handleFrame([]byte("{not json"))
    if c.index != 0 {
        t.Fatalf("malformed frame must not advance the counter")
    }
    c.handleFrame(faceFrame("a", 0.9)) // position 0, published
    c.handleFrame(faceFrame("b", 0.9)) // position 1, sampled out
    if len(bus.Faces) != 1 {
        t.Fatalf("expected 1 published event, got %d", len(bus.Faces))
    }
}

func TestPublishNeverBlocks(t *testing.T) {
    bus := NewBus(1)
    srv := NewServer(bus, &fakeGate{}, StridePolicy{N: 1}, 0.50, nil)
    c := &conn{srv: srv}
    c.handleFrame(faceFrame("a", 0.9))
    // channel full: next publish is dropped, handler does not stall
    c.handleFrame(faceFrame("b", 0.9))
    if len(bus.Faces) != 1 {
        t.Fatalf("expected overflow drop, got %d buffered", len(bus.Faces))
    }
}
