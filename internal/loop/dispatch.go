package loop

import (
    "fmt"
    "strings"

    "alira/assistant/internal/creds"
    "alira/assistant/internal/intent"
    "alira/assistant/internal/relay"
)

// RelayExec is the slice of the relay client the dispatcher needs.
type RelayExec interface {
    Apply(p intent.DevicePayload) relay.Result
    ApplyPreset(name string) (relay.Result, error)
}

// CredsLookup answers credential questions. Nil-able; a dispatcher without
// a vault simply never resolves them.
type CredsLookup interface {
    Find(query string) (creds.Entry, bool)
}

// Outcome is what one routed utterance produced. Say is the spoken reply
// observers render; Detail carries the raw execution report.
type Outcome struct {
    Label  string `json:"label"`
    Say    string `json:"say"`
    Detail any    `json:"detail,omitempty"`
    Err    string `json:"error,omitempty"`
}

// Dispatcher maps router decisions to their executors.
type Dispatcher struct {
    Relay RelayExec
    Vault CredsLookup
}

// Dispatch executes the winning route. It never returns an error: failures
// are folded into the outcome so the loop keeps running.
func (d *Dispatcher) Dispatch(dec intent.Decision) Outcome {
    out := Outcome{Label: dec.Label}

    switch dec.Label {
    case intent.LabelDevice:
        p, ok := dec.Payload.(intent.DevicePayload)
        if !ok {
            out.Err = "device decision without device payload"
            return out
        }
        res := d.Relay.Apply(p)
        out.Detail = res
        if res.OK {
            out.Say = fmt.Sprintf("Done, %d device command(s) applied.", len(res.Results))
        } else {
            out.Say = "Some device commands did not go through."
            out.Err = firstItemErr(res)
        }

    case intent.LabelKnowledge:
        p, ok := dec.Payload.(intent.KnowledgePayload)
        if !ok {
            out.Err = "knowledge decision without answer payload"
            return out
        }
        out.Say = p.Answer
        out.Detail = p

    case intent.LabelMacro:
        p, ok := dec.Payload.(intent.MacroPayload)
        if !ok {
            out.Err = "macro decision without macro payload"
            return out
        }
        res, err := d.Relay.ApplyPreset(p.Name)
        out.Detail = res
        if err != nil {
            out.Err = err.Error()
            out.Say = fmt.Sprintf("I don't know the %s preset.", p.Name)
        } else if res.OK {
            out.Say = fmt.Sprintf("%s mode is on.", p.Name)
        } else {
            out.Say = fmt.Sprintf("%s mode partially applied.", p.Name)
            out.Err = firstItemErr(res)
        }

    case intent.LabelFallback:
        out = d.dispatchFallback(dec)

    default:
        out.Err = fmt.Sprintf("no executor for label %q", dec.Label)
    }
    return out
}

// dispatchFallback tries the credential vault before giving the canned
// reply: "what is my X password" routes here because no detector owns it.
func (d *Dispatcher) dispatchFallback(dec intent.Decision) Outcome {
    out := Outcome{Label: dec.Label}
    p, _ := dec.Payload.(intent.FallbackPayload)
    out.Detail = p

    if d.Vault != nil && wantsCredential(dec.Text) {
        if e, ok := d.Vault.Find(dec.Text); ok {
            out.Say = fmt.Sprintf("%s: username %s, password %s.", e.Name, e.Username, e.Password)
            out.Detail = map[string]string{"account": e.Name, "username": e.Username}
            return out
        }
    }

    if p.Reason == "abstract" {
        out.Say = "That needs more thought than I can give right now."
    } else {
        out.Say = "Noted."
    }
    return out
}

func wantsCredential(text string) bool {
    t := strings.ToLower(text)
    return strings.Contains(t, "password") || strings.Contains(t, "login") ||
        strings.Contains(t, "credentials")
}

func firstItemErr(res relay.Result) string {
    for _, r := range res.Results {
        if r.Err != "" {
            return r.Err
        }
    }
    return res.StatusReadErr
}
