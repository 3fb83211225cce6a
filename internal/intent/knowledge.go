package intent

import (
    "math"
    "strings"
    "unicode"
)

// QA is one catalogue entry the knowledge detector scores against.
type QA struct {
    Question string
    Answer   string
}

// KnowledgePayload carries the best catalogue answer.
type KnowledgePayload struct {
    Answer          string `json:"answer"`
    MatchedQuestion string `json:"matched_question"`
}

// KnowledgeDetector computes bag-of-terms tf-idf cosine similarity between
// the query and the catalogue questions; the best similarity is the
// confidence.
type KnowledgeDetector struct {
    items []QA
    idf   map[string]float64
    vecs  []map[string]float64 // l2-normalized, parallel to items
}

func NewKnowledgeDetector(items []QA) *KnowledgeDetector {
    d := &KnowledgeDetector{items: items, idf: make(map[string]float64)}

    df := make(map[string]int)
    tokenized := make([][]string, len(items))
    for i, it := range items {
        toks := terms(it.Question)
        tokenized[i] = toks
        seen := make(map[string]bool)
        for _, t := range toks {
            if !seen[t] {
                seen[t] = true
                df[t]++
            }
        }
    }
    n := float64(len(items))
    for t, f := range df {
        // smoothed idf, never zero
        d.idf[t] = math.Log((1+n)/(1+float64(f))) + 1
    }
    d.vecs = make([]map[string]float64, len(items))
    for i, toks := range tokenized {
        d.vecs[i] = d.vectorize(toks)
    }
    return d
}

func (d *KnowledgeDetector) Detect(text string) Candidate {
    if len(d.items) == 0 {
        return Candidate{Confidence: 0, Payload: KnowledgePayload{}}
    }
    q := d.vectorize(terms(text))

    best, bestSim := -1, 0.0
    for i, v := range d.vecs {
        if sim := dot(q, v); sim > bestSim {
            bestSim = sim
            best = i
        }
    }
    if best < 0 {
        return Candidate{Confidence: 0, Payload: KnowledgePayload{}}
    }
    return Candidate{
        Confidence: bestSim,
        Payload: KnowledgePayload{
            Answer:          d.items[best].Answer,
            MatchedQuestion: d.items[best].Question,
        },
    }
}

// vectorize builds an l2-normalized tf-idf vector. Terms outside the
// catalogue vocabulary contribute nothing.
func (d *KnowledgeDetector) vectorize(toks []string) map[string]float64 {
    v := make(map[string]float64)
    for _, t := range toks {
        if idf, ok := d.idf[t]; ok {
            v[t] += idf
        }
    }
    var norm float64
    for _, w := range v {
        norm += w * w
    }
    if norm > 0 {
        norm = math.Sqrt(norm)
        for t := range v {
            v[t] /= norm
        }
    }
    return v
}

func dot(a, b map[string]float64) float64 {
    if len(b) < len(a) {
        a, b = b, a
    }
    var s float64
    for t, w := range a {
        s += w * b[t]
    }
    return s
}

// terms tokenizes into lowercase word terms of two or more characters.
func terms(s string) []string {
    var out []string
    var b strings.Builder
    flush := func() {
        if b.Len() >= 2 {
            out = append(out, b.String())
        }
        b.Reset()
    }
    for _, r := range s {
        if unicode.IsLetter(r) || unicode.IsDigit(r) {
            b.WriteRune(unicode.ToLower(r))
        } else {
            flush()
        }
    }
    flush()
    return out
}
