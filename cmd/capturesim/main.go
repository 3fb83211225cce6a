// capturesim stands in for the speech capture sidecar: it serves the
// /listen contract with scripted utterances so the interaction loop can be
// exercised without a microphone.
package main

import (
    "context"
    "encoding/json"
    "flag"
    "log"
    "net/http"
    "os"
    "os/signal"
    "strings"
    "sync"
    "syscall"
    "time"
)

var (
    addr    = flag.String("addr", ":8090", "listen address")
    script  = flag.String("script", "turn on the light|wifi password|focus", "utterances to play back, pipe-separated (empty entry = no speech)")
    repeat  = flag.Bool("repeat", false, "loop the script instead of going silent at the end")
    latency = flag.Duration("latency", 300*time.Millisecond, "simulated recognition delay")
)

type player struct {
    mu    sync.Mutex
    lines []string
    pos   int
    loop  bool
}

func (p *player) next() (string, bool) {
    p.mu.Lock()
    defer p.mu.Unlock()
    if p.pos >= len(p.lines) {
        if !p.loop {
            return "", false
        }
        p.pos = 0
    }
    line := p.lines[p.pos]
    p.pos++
    if line == "" {
        return "", false
    }
    return line, true
}

func main() {
    flag.Parse()

    p := &player{lines: strings.Split(*script, "|"), loop: *repeat}

    mux := http.NewServeMux()
    mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte("ok\n")) })
    mux.HandleFunc("/listen", func(w http.ResponseWriter, r *http.Request) {
        if r.Method != http.MethodPost {
            http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
            return
        }
        time.Sleep(*latency)
        text, ok := p.next()
        if !ok {
            w.WriteHeader(http.StatusNoContent)
            return
        }
        log.Printf("heard: %s", text)
        w.Header().Set("Content-Type", "application/json")
        _ = json.NewEncoder(w).Encode(map[string]string{"text": text})
    })

    srv := &http.Server{Addr: *addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

    stopCh := make(chan os.Signal, 1)
    signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)
    go func() {
        <-stopCh
        log.Printf("shutdown signal received, draining...")
        ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
        defer cancel()
        _ = srv.Shutdown(ctx)
    }()

    log.Printf("capture sidecar stub on %s (%d scripted lines)", *addr, len(p.lines))
    if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
        log.Fatalf("serve: %v", err)
    }
}
