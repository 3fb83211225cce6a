package vision

import (
    "log"
    "net/http"
    "strings"
    "time"

    "alira/assistant/internal/auth"
    "alira/assistant/internal/events"

    ws "nhooyr.io/websocket"
)

// SessionGate exposes the one bit of session state ingress needs. The read
// is intentionally racy with respect to activation: eventual consistency is
// accepted for the object gate.
type SessionGate interface {
    Active() bool
}

// Server accepts vision-device connections and publishes classified
// recognition events. Ingestion is fire-and-forget; nothing is ever sent
// back to the device.
type Server struct {
    Bus            *Bus
    Gate           SessionGate
    Policy         SamplePolicy
    ObjectScoreMin float64
    Journal        *events.Journal

    // Optional HMAC bearer auth; empty secret disables it.
    TokenSecret   string
    TokenSkewSecs int
}

func NewServer(bus *Bus, gate SessionGate, policy SamplePolicy, objectScoreMin float64, jr *events.Journal) *Server {
    return &Server{Bus: bus, Gate: gate, Policy: policy, ObjectScoreMin: objectScoreMin, Journal: jr}
}

// HandleVisionWS owns one device connection: decode, classify, sample,
// publish, in strict arrival order.
func (s *Server) HandleVisionWS(w http.ResponseWriter, r *http.Request) {
    device := r.URL.Query().Get("device")

    if s.TokenSecret != "" {
        authz := r.Header.Get("Authorization")
        if !strings.HasPrefix(authz, "Bearer ") {
            http.Error(w, "missing bearer token", http.StatusUnauthorized)
            return
        }
        token := strings.TrimPrefix(authz, "Bearer ")
        if _, _, err := auth.ValidateIngressToken(s.TokenSecret, token, device, time.Now(), s.TokenSkewSecs); err != nil {
            http.Error(w, "invalid token", http.StatusUnauthorized)
            return
        }
    }

    c, err := ws.Accept(w, r, nil)
    if err != nil {
        log.Printf("[ingress] ws accept: %v", err)
        return
    }
    log.Printf("[ingress] device connected device=%q", device)
    s.journal("vision_connected", map[string]any{"device": device})

    cc := &conn{srv: s}
    ctx := r.Context()
    for {
        typ, data, err := c.Read(ctx)
        if err != nil {
            break
        }
        if typ != ws.MessageText && typ != ws.MessageBinary {
            continue
        }
        cc.handleFrame(data)
    }
    _ = c.Close(ws.StatusNormalClosure, "done")
    log.Printf("[ingress] device disconnected device=%q frames=%d", device, cc.index)
    s.journal("vision_disconnected", map[string]any{"device": device, "frames": cc.index})
}

func (s *Server) journal(typ string, payload map[string]any) {
    if s.Journal != nil {
        s.Journal.Append("", typ, payload)
    }
}

// conn holds per-connection ingress state. The stride counter advances for
// every decoded frame, in arrival order.
type conn struct {
    srv   *Server
    index int
}

func (c *conn) handleFrame(data []byte) {
    f, ok := DecodeFrame(data)
    if !ok {
        metricFramesMalformed.Inc()
        return
    }
    idx := c.index
    c.index++
    metricFrames.Inc()

    if fe, ok := FaceEventFrom(f); ok {
        if !c.srv.Policy.Keep(idx) {
            metricSampledOut.Inc()
            return
        }
        if c.srv.Bus.publishFace(fe) {
            metricPublished.WithLabelValues("face").Inc()
        } else {
            metricPublishDrops.WithLabelValues("face").Inc()
        }
        return
    }

    if oe, ok := ObjectEventFrom(f); ok {
        if !c.srv.Policy.Keep(idx) {
            metricSampledOut.Inc()
            return
        }
        // Low-score sightings and sightings outside a session are noise.
        if oe.Score <= c.srv.ObjectScoreMin || !c.srv.Gate.Active() {
            return
        }
        if c.srv.Bus.publishObject(oe) {
            metricPublished.WithLabelValues("object").Inc()
        } else {
            metricPublishDrops.WithLabelValues("object").Inc()
        }
    }
}
