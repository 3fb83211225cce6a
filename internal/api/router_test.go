package api

import (
    "bytes"
    "encoding/json"
    "net/http"
    "net/http/httptest"
    "path/filepath"
    "testing"
    "time"

    "alira/assistant/internal/config"
    "alira/assistant/internal/events"
    "alira/assistant/internal/intent"
    "alira/assistant/internal/knowledge"
    "alira/assistant/internal/relay"
    "alira/assistant/internal/session"
)

func testServer(t *testing.T) (*httptest.Server, *session.State, *events.Journal) {
    t.Helper()
    cfg := config.Load()
    st := session.NewState("Rommel", time.Hour)
    jr := events.NewJournal()

    kb, err := knowledge.Open(filepath.Join(t.TempDir(), "kb.db"))
    if err != nil {
        t.Fatalf("kb: %v", err)
    }
    items, err := kb.All()
    if err != nil {
        t.Fatalf("kb items: %v", err)
    }
    rt := intent.NewRouter(
        intent.NewDeviceDetector(relay.KnownDevices()),
        intent.NewKnowledgeDetector(items),
        intent.NewMacroDetector(relay.PresetNames()),
        intent.FallbackDetector{},
    )

    srv := httptest.NewServer(NewRouter(NewHandlers(cfg, st, jr, rt, kb)))
    t.Cleanup(srv.Close)
    return srv, st, jr
}

func TestHealthzAlwaysOK(t *testing.T) {
    srv, _, _ := testServer(t)
    resp, err := http.Get(srv.URL + "/healthz")
    if err != nil {
        t.Fatalf("request: %v", err)
    }
    if resp.StatusCode != http.StatusOK {
        t.Fatalf("expected 200, got %d", resp.StatusCode)
    }
}

func TestStateReflectsSession(t *testing.T) {
    srv, st, _ := testServer(t)

    resp, err := http.Get(srv.URL + "/state")
    if err != nil {
        t.Fatalf("request: %v", err)
    }
    var snap session.Snapshot
    if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
        t.Fatalf("decode: %v", err)
    }
    if snap.Active {
        t.Fatalf("fresh state reported active")
    }

    st.Activate(time.Now())
    resp, err = http.Get(srv.URL + "/state")
    if err != nil {
        t.Fatalf("request: %v", err)
    }
    if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
        t.Fatalf("decode: %v", err)
    }
    if !snap.Active || snap.RunID == "" {
        t.Fatalf("active state missing run id: %+v", snap)
    }
}

func TestEventsFilterByRun(t *testing.T) {
    srv, _, jr := testServer(t)
    jr.Append("run-a", "session_activated", nil)
    jr.Append("run-b", "session_timeout", nil)

    resp, err := http.Get(srv.URL + "/events?run_id=run-a")
    if err != nil {
        t.Fatalf("request: %v", err)
    }
    var body struct {
        Events []events.Event `json:"events"`
    }
    if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
        t.Fatalf("decode: %v", err)
    }
    if len(body.Events) != 1 || body.Events[0].Type != "session_activated" {
        t.Fatalf("events: %+v", body.Events)
    }
}

func TestDecideDebugEndpoint(t *testing.T) {
    srv, _, _ := testServer(t)

    resp, err := http.Post(srv.URL+"/decide", "application/json",
        bytes.NewBufferString(`{"text":"turn on the light and turn off the fan"}`))
    if err != nil {
        t.Fatalf("request: %v", err)
    }
    var dec intent.Decision
    if err := json.NewDecoder(resp.Body).Decode(&dec); err != nil {
        t.Fatalf("decode: %v", err)
    }
    if dec.Label != intent.LabelDevice {
        t.Fatalf("label: %s", dec.Label)
    }
    if len(dec.Scores) != 4 {
        t.Fatalf("scores: %v", dec.Scores)
    }

    resp, err = http.Post(srv.URL+"/decide", "application/json", bytes.NewBufferString(`{}`))
    if err != nil {
        t.Fatalf("request: %v", err)
    }
    if resp.StatusCode != http.StatusBadRequest {
        t.Fatalf("empty text must 400, got %d", resp.StatusCode)
    }
}

func TestKBListAndAdd(t *testing.T) {
    srv, _, _ := testServer(t)

    resp, err := http.Post(srv.URL+"/kb", "application/json",
        bytes.NewBufferString(`{"question":"espresso dose","answer":"18 grams"}`))
    if err != nil {
        t.Fatalf("request: %v", err)
    }
    if resp.StatusCode != http.StatusCreated {
        t.Fatalf("expected 201, got %d", resp.StatusCode)
    }

    resp, err = http.Get(srv.URL + "/kb")
    if err != nil {
        t.Fatalf("request: %v", err)
    }
    var body struct {
        Items []intent.QA `json:"items"`
    }
    if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
        t.Fatalf("decode: %v", err)
    }
    found := false
    for _, it := range body.Items {
        if it.Question == "espresso dose" && it.Answer == "18 grams" {
            found = true
        }
    }
    if !found {
        t.Fatalf("added item missing from list: %+v", body.Items)
    }
}

func TestMethodGuards(t *testing.T) {
    srv, _, _ := testServer(t)

    resp, err := http.Post(srv.URL+"/state", "application/json", nil)
    if err != nil {
        t.Fatalf("request: %v", err)
    }
    if resp.StatusCode != http.StatusMethodNotAllowed {
        t.Fatalf("expected 405, got %d", resp.StatusCode)
    }

    resp, err = http.Get(srv.URL + "/decide")
    if err != nil {
        t.Fatalf("request: %v", err)
    }
    if resp.StatusCode != http.StatusMethodNotAllowed {
        t.Fatalf("expected 405, got %d", resp.StatusCode)
    }
}
