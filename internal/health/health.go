package health

import (
    "context"
    "fmt"
    "io"
    "net/http"
    "time"

    "alira/assistant/internal/config"
)

type CheckResult struct {
    Name    string        `json:"name"`
    OK      bool          `json:"ok"`
    Latency time.Duration `json:"latency_ms"`
    Error   string        `json:"error,omitempty"`
}

type HealthStatus struct {
    OK        bool          `json:"ok"`
    Checks    []CheckResult `json:"checks"`
    CheckedAt time.Time     `json:"checked_at"`
}

func (h HealthStatus) String() string {
    status := "OK"
    if !h.OK {
        status = "FAIL"
    }
    s := fmt.Sprintf("Health: %s\n", status)
    for _, c := range h.Checks {
        mark := "✓"
        if !c.OK {
            mark = "✗"
        }
        s += fmt.Sprintf("  %s %s (%dms)", mark, c.Name, c.Latency.Milliseconds())
        if c.Error != "" {
            s += fmt.Sprintf(" - %s", c.Error)
        }
        s += "\n"
    }
    return s
}

// CheckAll probes the external dependencies: the relay box firmware and
// the speech capture sidecar.
func CheckAll(ctx context.Context, cfg config.Config) HealthStatus {
    checks := []CheckResult{
        checkRelay(ctx, cfg),
        checkCapture(ctx, cfg),
    }

    allOK := true
    for _, c := range checks {
        if !c.OK {
            allOK = false
        }
    }

    return HealthStatus{
        OK:        allOK,
        Checks:    checks,
        CheckedAt: time.Now().UTC(),
    }
}

// checkRelay asks the box for its relay bitmask, the cheapest call the
// firmware exposes.
func checkRelay(ctx context.Context, cfg config.Config) CheckResult {
    start := time.Now()
    result := CheckResult{Name: "relay"}

    if cfg.Relay.URL == "" {
        result.Error = "RELAY_URL not set"
        result.Latency = time.Since(start)
        return result
    }

    req, err := http.NewRequestWithContext(ctx, "GET", cfg.Relay.URL+"/api?action=status", nil)
    if err != nil {
        result.Error = fmt.Sprintf("request build failed: %v", err)
        result.Latency = time.Since(start)
        return result
    }

    resp, err := http.DefaultClient.Do(req)
    if err != nil {
        result.Error = fmt.Sprintf("request failed: %v", err)
        result.Latency = time.Since(start)
        return result
    }
    defer resp.Body.Close()

    result.Latency = time.Since(start)

    if resp.StatusCode != 200 {
        body, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
        result.Error = fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body))
        return result
    }

    io.Copy(io.Discard, io.LimitReader(resp.Body, 64))
    result.OK = true
    return result
}

// checkCapture probes the sidecar's liveness endpoint; a capture sidecar
// that serves /healthz is ready to take /listen requests.
func checkCapture(ctx context.Context, cfg config.Config) CheckResult {
    start := time.Now()
    result := CheckResult{Name: "capture"}

    if cfg.Capture.URL == "" {
        result.Error = "CAPTURE_URL not set"
        result.Latency = time.Since(start)
        return result
    }

    req, err := http.NewRequestWithContext(ctx, "GET", cfg.Capture.URL+"/healthz", nil)
    if err != nil {
        result.Error = fmt.Sprintf("request build failed: %v", err)
        result.Latency = time.Since(start)
        return result
    }

    resp, err := http.DefaultClient.Do(req)
    if err != nil {
        result.Error = fmt.Sprintf("request failed: %v", err)
        result.Latency = time.Since(start)
        return result
    }
    defer resp.Body.Close()

    result.Latency = time.Since(start)

    if resp.StatusCode != 200 {
        body, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
        result.Error = fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body))
        return result
    }

    result.OK = true
    return result
}
