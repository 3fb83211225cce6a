package relay

import (
    "fmt"
    "io"
    "net/http"
    "net/url"
    "sort"
    "strconv"
    "strings"
    "time"

    "alira/assistant/internal/intent"
)

// relayCount is the number of relays on the box.
const relayCount = 4

// deviceToRelay maps spoken device names (with synonyms) to relay indexes.
var deviceToRelay = map[string]int{
    "switch1":    0,
    "lamp":       0,
    "bulb":       1,
    "light":      2,
    "desk light": 2,
    "switch2":    3,
    "fan":        3,
}

var validActions = map[string]bool{
    "on": true, "off": true, "toggle": true, "switch": true, "set": true,
    "status": true, "all_on": true, "all_off": true,
}

// KnownDevices returns the spoken vocabulary, for the device detector.
func KnownDevices() []string {
    out := make([]string, 0, len(deviceToRelay))
    for d := range deviceToRelay {
        out = append(out, d)
    }
    sort.Strings(out)
    return out
}

// Status is the relay box state decoded from its bitmask reply.
type Status struct {
    Bitmask int          `json:"bitmask"`
    Relays  map[int]bool `json:"relays"`
}

// ItemResult reports one executed intent.
type ItemResult struct {
    Device     string  `json:"device,omitempty"`
    Action     string  `json:"action"`
    Level      *int    `json:"level,omitempty"`
    HTTPStatus int     `json:"http,omitempty"`
    Status     *Status `json:"status,omitempty"`
    Err        string  `json:"error,omitempty"`
}

// Result is the per-utterance execution report. OK is false when any item
// failed; successful items still report their outcome.
type Result struct {
    OK            bool         `json:"ok"`
    Results       []ItemResult `json:"results"`
    StatusReadErr string       `json:"status_read_error,omitempty"`
}

// Client drives the relay box firmware API: GET <base>/api?action=...
type Client struct {
    http *http.Client
    base string
}

func NewClient(baseURL string) *Client {
    return &Client{
        http: &http.Client{Timeout: 1500 * time.Millisecond},
        base: strings.TrimSuffix(baseURL, "/"),
    }
}

func (c *Client) api(params url.Values) (*http.Response, error) {
    return c.http.Get(c.base + "/api?" + params.Encode())
}

// GetStatus reads the relay bitmask and expands per-relay booleans.
func (c *Client) GetStatus() (Status, error) {
    resp, err := c.api(url.Values{"action": {"status"}})
    if err != nil {
        return Status{}, err
    }
    defer resp.Body.Close()
    if resp.StatusCode/100 != 2 {
        return Status{}, fmt.Errorf("relay status: %s", resp.Status)
    }
    raw, err := io.ReadAll(io.LimitReader(resp.Body, 64))
    if err != nil {
        return Status{}, err
    }
    mask, err := parseBitmask(string(raw))
    if err != nil {
        return Status{}, err
    }
    st := Status{Bitmask: mask, Relays: make(map[int]bool, relayCount)}
    for i := 0; i < relayCount; i++ {
        st.Relays[i] = mask>>i&1 == 1
    }
    return st, nil
}

// parseBitmask tolerates firmware replies with stray non-digit noise.
func parseBitmask(s string) (int, error) {
    s = strings.TrimSpace(s)
    if v, err := strconv.Atoi(s); err == nil {
        return v, nil
    }
    var digits strings.Builder
    for _, r := range s {
        if r >= '0' && r <= '9' {
            digits.WriteRune(r)
        }
    }
    if digits.Len() == 0 {
        return 0, fmt.Errorf("relay status: unparseable reply %q", s)
    }
    return strconv.Atoi(digits.String())
}

func (c *Client) setRelay(relay int, state string) (int, error) {
    return c.do(url.Values{"action": {"set"}, "relay": {strconv.Itoa(relay)}, "state": {state}})
}

func (c *Client) setRelayLevel(relay, level int) (int, error) {
    return c.do(url.Values{
        "action": {"set"}, "relay": {strconv.Itoa(relay)},
        "state": {"on"}, "level": {strconv.Itoa(level)},
    })
}

func (c *Client) toggleRelay(relay int) (int, error) {
    return c.do(url.Values{"action": {"toggle"}, "relay": {strconv.Itoa(relay)}})
}

func (c *Client) setScene(state string) (int, error) {
    return c.do(url.Values{"action": {"scene"}, "state": {state}})
}

func (c *Client) do(params url.Values) (int, error) {
    resp, err := c.api(params)
    if err != nil {
        return 0, err
    }
    io.Copy(io.Discard, io.LimitReader(resp.Body, 64))
    resp.Body.Close()
    return resp.StatusCode, nil
}

// Apply executes every intent in the payload and reports per-item results.
// Validation failures mark the whole result not-OK but never abort the
// remaining items.
func (c *Client) Apply(p intent.DevicePayload) Result {
    out := Result{OK: true}
    if len(p.Intents) == 0 {
        out.OK = false
        out.Results = append(out.Results, ItemResult{Err: "no intents provided"})
        return out
    }

    // Pre-read so the report shows the state we acted from; a failed read
    // is noted, not fatal.
    if _, err := c.GetStatus(); err != nil {
        out.StatusReadErr = err.Error()
    }

    for _, in := range p.Intents {
        action := strings.TrimSpace(strings.ToLower(in.Action))
        res := ItemResult{Device: in.Device, Action: action, Level: in.Level}

        // Global actions take no device.
        if in.Device == "" && (action == "status" || action == "all_on" || action == "all_off") {
            c.applyGlobal(action, &res, &out)
            out.Results = append(out.Results, res)
            continue
        }

        if !validActions[action] {
            out.OK = false
            res.Err = fmt.Sprintf("unknown action %q", action)
            out.Results = append(out.Results, res)
            continue
        }
        if in.Device == "" {
            out.OK = false
            res.Err = "missing device"
            out.Results = append(out.Results, res)
            continue
        }
        relayIdx, ok := deviceToRelay[strings.TrimSpace(strings.ToLower(in.Device))]
        if !ok {
            out.OK = false
            res.Err = fmt.Sprintf("unknown device %q", in.Device)
            out.Results = append(out.Results, res)
            continue
        }

        var code int
        var err error
        switch action {
        case "on", "off":
            code, err = c.setRelay(relayIdx, action)
        case "set":
            if in.Level != nil {
                code, err = c.setRelayLevel(relayIdx, *in.Level)
            } else {
                code, err = c.setRelay(relayIdx, "on")
            }
        case "toggle", "switch":
            code, err = c.toggleRelay(relayIdx)
        case "status":
            st, serr := c.GetStatus()
            if serr != nil {
                err = serr
            } else {
                res.Status = &st
            }
        }
        if err != nil {
            out.OK = false
            res.Err = err.Error()
        } else {
            res.HTTPStatus = code
        }
        out.Results = append(out.Results, res)
    }
    return out
}

func (c *Client) applyGlobal(action string, res *ItemResult, out *Result) {
    switch action {
    case "status":
        st, err := c.GetStatus()
        if err != nil {
            out.OK = false
            res.Err = err.Error()
            return
        }
        res.Status = &st
    case "all_on":
        code, err := c.setScene("on")
        if err != nil {
            out.OK = false
            res.Err = err.Error()
            return
        }
        res.HTTPStatus = code
    case "all_off":
        code, err := c.setScene("off")
        if err != nil {
            out.OK = false
            res.Err = err.Error()
            return
        }
        res.HTTPStatus = code
    }
}
