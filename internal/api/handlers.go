package api

import (
    "context"
    "encoding/json"
    "net/http"
    "time"

    "alira/assistant/internal/config"
    "alira/assistant/internal/events"
    "alira/assistant/internal/health"
    "alira/assistant/internal/intent"
    "alira/assistant/internal/knowledge"
    "alira/assistant/internal/session"
)

type Handlers struct {
    cfg     config.Config
    state   *session.State
    journal *events.Journal
    router  *intent.Router
    kb      *knowledge.Store
}

func NewHandlers(cfg config.Config, st *session.State, jr *events.Journal, rt *intent.Router, kb *knowledge.Store) *Handlers {
    return &Handlers{cfg: cfg, state: st, journal: jr, router: rt, kb: kb}
}

func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
    ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
    defer cancel()
    status := health.CheckAll(ctx, h.cfg)

    w.Header().Set("Content-Type", "application/json")
    if !status.OK {
        w.WriteHeader(http.StatusServiceUnavailable)
    }
    _ = json.NewEncoder(w).Encode(status)
}

func (h *Handlers) HandleState(w http.ResponseWriter, r *http.Request) {
    snap := h.state.Snapshot()
    w.Header().Set("Content-Type", "application/json")
    _ = json.NewEncoder(w).Encode(snap)
}

func (h *Handlers) HandleListEvents(w http.ResponseWriter, r *http.Request) {
    runID := r.URL.Query().Get("run_id")
    var evs []events.Event
    if runID != "" {
        evs = h.journal.ListRun(runID)
    } else {
        evs = h.journal.List()
    }
    w.Header().Set("Content-Type", "application/json")
    _ = json.NewEncoder(w).Encode(map[string]any{
        "run_id": runID,
        "events": evs,
    })
}

// HandleDecide runs the router on a supplied utterance without executing
// anything. Debug aid for tuning detectors.
func (h *Handlers) HandleDecide(w http.ResponseWriter, r *http.Request) {
    var req struct {
        Text string `json:"text"`
    }
    if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == "" {
        http.Error(w, "body must be {\"text\": ...}", http.StatusBadRequest)
        return
    }
    dec := h.router.Decide(req.Text)
    w.Header().Set("Content-Type", "application/json")
    _ = json.NewEncoder(w).Encode(dec)
}

func (h *Handlers) HandleListKB(w http.ResponseWriter, r *http.Request) {
    items, err := h.kb.All()
    if err != nil {
        http.Error(w, err.Error(), http.StatusInternalServerError)
        return
    }
    w.Header().Set("Content-Type", "application/json")
    _ = json.NewEncoder(w).Encode(map[string]any{"items": items})
}

// HandleAddKB inserts a catalogue entry. The router picks it up on the
// next restart; the detector index is built once at startup.
func (h *Handlers) HandleAddKB(w http.ResponseWriter, r *http.Request) {
    var req struct {
        Question string `json:"question"`
        Answer   string `json:"answer"`
    }
    if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
        http.Error(w, "invalid body", http.StatusBadRequest)
        return
    }
    it, err := h.kb.Add(req.Question, req.Answer)
    if err != nil {
        http.Error(w, err.Error(), http.StatusBadRequest)
        return
    }
    w.Header().Set("Content-Type", "application/json")
    w.WriteHeader(http.StatusCreated)
    _ = json.NewEncoder(w).Encode(it)
}
