package intent

import (
    "regexp"
    "sort"
    "strconv"
    "strings"
)

// DeviceIntent is one device+action pair extracted from an utterance.
type DeviceIntent struct {
    Device string `json:"device"`
    Action string `json:"action"`
    Level  *int   `json:"level,omitempty"`
}

// DevicePayload always carries intents as a list, single or multi; the
// executor does not need to distinguish the two shapes.
type DevicePayload struct {
    Intents []DeviceIntent `json:"intents"`
}

var (
    andSplitRe = regexp.MustCompile(`\band\b`)
    offRe      = regexp.MustCompile(`\b(?:turn off|switch off|off)\b`)
    onRe       = regexp.MustCompile(`\b(?:turn on|switch on|on)\b`)
    levelRe    = regexp.MustCompile(`(\d{1,3})\s*%?`)
)

// fallbackActions are generic action words checked after the explicit
// on/off phrases.
var fallbackActions = []string{"set", "increase", "decrease", "toggle", "turn", "switch"}

// DeviceDetector parses clause-structured device commands. Confidence is
// near-certain for multi-clause commands or one clean pair, low-but-nonzero
// for a device with an ambiguous action.
type DeviceDetector struct {
    devices   []string // longest-first
    devicesRe *regexp.Regexp
}

// NewDeviceDetector builds a detector over a known device vocabulary.
// Names are matched longest-first so compound names win over substrings.
func NewDeviceDetector(devices []string) *DeviceDetector {
    sorted := append([]string(nil), devices...)
    sort.Slice(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })
    parts := make([]string, len(sorted))
    for i, d := range sorted {
        parts[i] = regexp.QuoteMeta(d)
    }
    return &DeviceDetector{
        devices:   sorted,
        devicesRe: regexp.MustCompile("(?:" + strings.Join(parts, "|") + ")"),
    }
}

func (d *DeviceDetector) Detect(text string) Candidate {
    intents := d.parseClauses(text)

    if len(intents) >= 2 {
        // multi-clause structure is a strong signal
        return Candidate{Confidence: 0.95, Payload: DevicePayload{Intents: intents}}
    }
    if len(intents) == 1 {
        return Candidate{Confidence: 0.95, Payload: DevicePayload{Intents: intents}}
    }

    // No actionable clause. A bare device mention still hints at device
    // control, just not strongly enough on its own.
    if dev := d.firstDevice(text); dev != "" {
        return Candidate{Confidence: 0.60, Payload: DevicePayload{Intents: []DeviceIntent{{Device: dev}}}}
    }
    return Candidate{Confidence: 0.10, Payload: DevicePayload{}}
}

// parseClauses splits on the conjunction "and" and extracts device+action
// pairs. A clause carrying only an action updates the inherited action
// applied to later device-bearing clauses; intents without any action are
// discarded.
func (d *DeviceDetector) parseClauses(text string) []DeviceIntent {
    level, hasLevel := findLevel(text)

    var intents []DeviceIntent
    var lastAction string
    for _, clause := range andSplitRe.Split(text, -1) {
        clause = strings.TrimSpace(clause)
        if clause == "" {
            continue
        }
        act := detectAction(clause)
        devs := d.findDevices(clause)

        if act != "" && len(devs) == 0 {
            lastAction = act
            continue
        }
        if len(devs) == 0 {
            continue
        }
        if act == "" {
            act = lastAction
        } else {
            lastAction = act
        }
        if act == "" {
            continue
        }
        for _, dev := range devs {
            in := DeviceIntent{Device: dev, Action: act}
            if act == "set" && hasLevel {
                l := level
                in.Level = &l
            }
            intents = append(intents, in)
        }
    }
    return intents
}

// detectAction checks explicit off/on phrases before the generic word list;
// "turn off the light" must read as off, not turn.
func detectAction(clause string) string {
    if offRe.MatchString(clause) {
        return "off"
    }
    if onRe.MatchString(clause) {
        return "on"
    }
    for _, a := range fallbackActions {
        if containsWord(clause, a) {
            return a
        }
    }
    return ""
}

func (d *DeviceDetector) findDevices(clause string) []string {
    matches := d.devicesRe.FindAllString(clause, -1)
    seen := make(map[string]bool, len(matches))
    var out []string
    for _, m := range matches {
        if !seen[m] {
            seen[m] = true
            out = append(out, m)
        }
    }
    return out
}

func (d *DeviceDetector) firstDevice(text string) string {
    return d.devicesRe.FindString(text)
}

// findLevel extracts a 0-100 numeric/percent value from anywhere in the
// text.
func findLevel(text string) (int, bool) {
    m := levelRe.FindStringSubmatch(text)
    if m == nil {
        return 0, false
    }
    v, err := strconv.Atoi(m[1])
    if err != nil || v < 0 || v > 100 {
        return 0, false
    }
    return v, true
}

func containsWord(s, w string) bool {
    idx := 0
    for {
        i := strings.Index(s[idx:], w)
        if i < 0 {
            return false
        }
        start := idx + i
        end := start + len(w)
        leftOK := start == 0 || !isWordChar(s[start-1])
        rightOK := end == len(s) || !isWordChar(s[end])
        if leftOK && rightOK {
            return true
        }
        idx = start + 1
    }
}

func isWordChar(b byte) bool {
    return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
