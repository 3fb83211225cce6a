package relay

import (
    "fmt"

    "alira/assistant/internal/intent"
)

// presets are the named macros, expanded to relay command sequences.
var presets = map[string][]intent.DeviceIntent{
    "focus": {
        {Device: "desk light", Action: "set", Level: level(30)},
        {Device: "fan", Action: "set", Level: level(30)},
    },
    "security": {
        {Action: "all_off"},
    },
}

func level(v int) *int { return &v }

// PresetNames returns the macro trigger keywords.
func PresetNames() []string {
    names := make([]string, 0, len(presets))
    // fixed order keeps detection deterministic
    for _, n := range []string{"focus", "security"} {
        if _, ok := presets[n]; ok {
            names = append(names, n)
        }
    }
    return names
}

// ApplyPreset runs the named preset through the relay.
func (c *Client) ApplyPreset(name string) (Result, error) {
    items, ok := presets[name]
    if !ok {
        return Result{}, fmt.Errorf("unknown preset %q", name)
    }
    return c.Apply(intent.DevicePayload{Intents: items}), nil
}
