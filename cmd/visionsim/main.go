// visionsim emulates a vision device: it connects to the assistant's
// ingress socket and streams synthetic recognition frames, so the session
// pipeline can be exercised without a camera.
package main

import (
    "context"
    "encoding/json"
    "flag"
    "fmt"
    "log"
    "net/http"
    "time"

    ws "nhooyr.io/websocket"

    "alira/assistant/internal/auth"
)

func main() {
    addr := flag.String("addr", "ws://127.0.0.1:8080/ws/vision", "Ingress websocket URL")
    device := flag.String("device", "visionsim", "Device name")
    name := flag.String("name", "Rommel", "Recognized face name ('unknown' sends face_unknown)")
    similarity := flag.Float64("similarity", 0.95, "Face similarity score")
    object := flag.String("object", "", "Send object_seen:<label> frames instead of faces")
    score := flag.Float64("score", 0.80, "Object score")
    count := flag.Int("count", 10, "Frames to send")
    interval := flag.Duration("interval", 200*time.Millisecond, "Delay between frames")
    secret := flag.String("secret", "", "Ingress token secret (empty skips auth)")
    flag.Parse()

    ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
    defer cancel()

    opts := &ws.DialOptions{}
    if *secret != "" {
        token := auth.GenerateIngressToken(*secret, *device, time.Now().Add(5*time.Minute).Unix())
        opts.HTTPHeader = http.Header{"Authorization": {"Bearer " + token}}
    }

    url := fmt.Sprintf("%s?device=%s", *addr, *device)
    c, _, err := ws.Dial(ctx, url, opts)
    if err != nil {
        log.Fatalf("dial %s: %v", url, err)
    }
    defer c.Close(ws.StatusNormalClosure, "done")
    log.Printf("connected to %s", url)

    for i := 0; i < *count; i++ {
        frame := buildFrame(*device, *name, *similarity, *object, *score)
        data, err := json.Marshal(frame)
        if err != nil {
            log.Fatalf("marshal: %v", err)
        }
        if err := c.Write(ctx, ws.MessageText, data); err != nil {
            log.Fatalf("write: %v", err)
        }
        log.Printf("sent %s", frame["type"])
        time.Sleep(*interval)
    }
}

func buildFrame(device, name string, similarity float64, object string, score float64) map[string]any {
    if object != "" {
        return map[string]any{
            "type":   "object_seen:" + object,
            "device": device,
            "vision": map[string]any{"object": map[string]any{"score": score}},
        }
    }
    typ := "face_recognized"
    if name == "unknown" {
        typ = "face_unknown"
        name = ""
    }
    return map[string]any{
        "type":   typ,
        "device": device,
        "vision": map[string]any{"face": map[string]any{"name": name, "similarity": similarity}},
    }
}
