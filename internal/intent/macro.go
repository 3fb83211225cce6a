package intent

import "strings"

// MacroPayload names the preset to apply.
type MacroPayload struct {
    Name string `json:"macro"`
}

// MacroDetector triggers on exact keyword presence for a small fixed set of
// named presets.
type MacroDetector struct {
    keywords []string // checked in order; first hit wins
}

func NewMacroDetector(keywords []string) *MacroDetector {
    return &MacroDetector{keywords: keywords}
}

func (d *MacroDetector) Detect(text string) Candidate {
    for _, kw := range d.keywords {
        if strings.Contains(text, kw) {
            return Candidate{Confidence: 0.90, Payload: MacroPayload{Name: kw}}
        }
    }
    return Candidate{Confidence: 0.10, Payload: MacroPayload{}}
}
