package intent

import (
    "log"
    "regexp"
    "strings"
)

// Detector labels, also used to pick the executor downstream.
const (
    LabelDevice    = "device_control"
    LabelKnowledge = "knowledge"
    LabelMacro     = "macro"
    LabelFallback  = "fallback"
)

// Candidate is one detector's independent opinion about an utterance.
type Candidate struct {
    Confidence float64
    Payload    any
}

// Detector scores normalized text. Implementations must be pure; a panic is
// treated as zero confidence by the router.
type Detector interface {
    Detect(text string) Candidate
}

// route pairs a detector with its own fixed acceptance threshold. Order in
// the route list is the routing contract.
type route struct {
    label     string
    det       Detector
    threshold float64
}

// Decision is the terminal result for one utterance. Scores always carries
// every detector's confidence for observability, regardless of which route
// won.
type Decision struct {
    Text    string             `json:"text"`
    Label   string             `json:"label"`
    Payload any                `json:"payload"`
    Scores  map[string]float64 `json:"scores"`
}

// Router walks an ordered list of (detector, threshold) pairs and returns
// the first whose confidence clears its threshold — priority-gated, not
// global argmax: an earlier detector pre-empts later ones that scored
// higher. The fallback route is returned unconditionally when nothing
// clears.
type Router struct {
    routes   []route
    fallback route
}

func NewRouter(device, knowledge, macro, fallback Detector) *Router {
    return &Router{
        routes: []route{
            {LabelDevice, device, 0.85},
            {LabelKnowledge, knowledge, 0.50},
            {LabelMacro, macro, 0.75},
        },
        fallback: route{LabelFallback, fallback, 0},
    }
}

func (r *Router) Decide(text string) Decision {
    t := Normalize(text)

    scores := make(map[string]float64, len(r.routes)+1)
    candidates := make(map[string]Candidate, len(r.routes)+1)
    for _, rt := range r.routes {
        c := safeDetect(rt.label, rt.det, t)
        scores[rt.label] = c.Confidence
        candidates[rt.label] = c
    }
    fb := safeDetect(r.fallback.label, r.fallback.det, t)
    scores[r.fallback.label] = fb.Confidence

    for _, rt := range r.routes {
        if c := candidates[rt.label]; c.Confidence >= rt.threshold {
            metricDecisions.WithLabelValues(rt.label).Inc()
            return Decision{Text: t, Label: rt.label, Payload: c.Payload, Scores: scores}
        }
    }
    metricDecisions.WithLabelValues(r.fallback.label).Inc()
    return Decision{Text: t, Label: r.fallback.label, Payload: fb.Payload, Scores: scores}
}

// safeDetect isolates detector failures: one broken detector reports zero
// confidence instead of breaking routing.
func safeDetect(label string, d Detector, text string) (c Candidate) {
    defer func() {
        if rec := recover(); rec != nil {
            log.Printf("[intent] detector %s panicked: %v", label, rec)
            metricDetectorPanics.WithLabelValues(label).Inc()
            c = Candidate{}
        }
    }()
    return d.Detect(text)
}

var spaceRe = regexp.MustCompile(`\s+`)

// Normalize collapses whitespace runs, trims, and lowercases.
func Normalize(s string) string {
    return spaceRe.ReplaceAllString(strings.TrimSpace(strings.ToLower(s)), " ")
}
