package capture

import (
    "bytes"
    "context"
    "encoding/json"
    "fmt"
    "io"
    "net/http"
    "time"
)

// Client acquires one utterance. An empty text with a nil error means
// nothing was heard inside the wait window — a normal outcome, not an
// error.
type Client interface {
    Capture(ctx context.Context, maxWait time.Duration) (string, error)
}

// HTTPClient talks to the speech-capture sidecar, which owns the actual
// microphone/browser machinery and blocks up to max_wait_sec per listen.
type HTTPClient struct {
    http *http.Client
    base string
}

func NewClient(baseURL string) *HTTPClient {
    return &HTTPClient{
        // Sidecar blocks up to the wait window; leave headroom beyond it.
        http: &http.Client{Timeout: 30 * time.Second},
        base: baseURL,
    }
}

func (c *HTTPClient) Capture(ctx context.Context, maxWait time.Duration) (string, error) {
    body := map[string]any{
        "max_wait_sec": maxWait.Seconds(),
    }
    var out bytes.Buffer
    if err := json.NewEncoder(&out).Encode(body); err != nil {
        return "", err
    }
    req, err := http.NewRequestWithContext(ctx, "POST", c.base+"/listen", &out)
    if err != nil {
        return "", err
    }
    req.Header.Set("Content-Type", "application/json")
    resp, err := c.http.Do(req)
    if err != nil {
        return "", err
    }
    defer resp.Body.Close()

    if resp.StatusCode == http.StatusNoContent {
        return "", nil
    }
    if resp.StatusCode/100 != 2 {
        b, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
        return "", fmt.Errorf("capture listen: %s: %s", resp.Status, string(b))
    }
    var parsed struct {
        Text string `json:"text"`
    }
    if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
        return "", err
    }
    return parsed.Text, nil
}
