package intent

import "strings"

// FallbackPayload is the fixed shape of the conversational decision. Reason
// is always populated.
type FallbackPayload struct {
    Reason string `json:"reason"`
}

// abstractPhrases signal the utterance needs open-ended handling rather
// than a canned route.
var abstractPhrases = []string{"make it better", "plan my", "explain", "summarize", "comfortable"}

// FallbackDetector is the conversational catch-all. It never scores zero:
// when no other route clears, its decision is returned unconditionally.
type FallbackDetector struct{}

func (FallbackDetector) Detect(text string) Candidate {
    for _, p := range abstractPhrases {
        if strings.Contains(text, p) {
            return Candidate{Confidence: 0.80, Payload: FallbackPayload{Reason: "abstract"}}
        }
    }
    return Candidate{Confidence: 0.20, Payload: FallbackPayload{Reason: "chat"}}
}
