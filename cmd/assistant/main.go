package main

import (
    "context"
    "log"
    "net/http"
    "os"
    "os/signal"
    "syscall"
    "time"

    evbus "github.com/asaskevich/EventBus"
    "github.com/joho/godotenv"

    "alira/assistant/internal/api"
    "alira/assistant/internal/capture"
    "alira/assistant/internal/config"
    "alira/assistant/internal/creds"
    "alira/assistant/internal/events"
    "alira/assistant/internal/intent"
    "alira/assistant/internal/knowledge"
    "alira/assistant/internal/loop"
    "alira/assistant/internal/relay"
    "alira/assistant/internal/session"
    "alira/assistant/internal/vision"
)

func main() {
    // Load .env file if present (ignored if missing)
    _ = godotenv.Load()

    cfg := config.Load()

    journal := events.NewJournal()
    bus := evbus.New()
    state := session.NewState(cfg.Session.TargetIdentity, cfg.Session.IdleTimeout)

    // Vision ingress
    vbus := vision.NewBus(64)
    vsrv := vision.NewServer(vbus, state,
        vision.StridePolicy{N: cfg.Ingress.SampleStride},
        cfg.Ingress.ObjectScoreMin, journal)
    vsrv.TokenSecret = cfg.Ingress.TokenSecret
    vsrv.TokenSkewSecs = cfg.Ingress.TokenSkewSecs

    // Intent routing
    kb, err := knowledge.Open(cfg.Knowledge.DBPath)
    if err != nil {
        log.Fatalf("knowledge store: %v", err)
    }
    items, err := kb.All()
    if err != nil {
        log.Fatalf("knowledge items: %v", err)
    }
    router := intent.NewRouter(
        intent.NewDeviceDetector(relay.KnownDevices()),
        intent.NewKnowledgeDetector(items),
        intent.NewMacroDetector(relay.PresetNames()),
        intent.FallbackDetector{},
    )

    // Executors
    relayClient := relay.NewClient(cfg.Relay.URL)
    disp := &loop.Dispatcher{Relay: relayClient}
    if cfg.Creds.CSVPath != "" {
        vault, err := creds.Load(cfg.Creds.CSVPath)
        if err != nil {
            log.Printf("[main] credential vault unavailable: %v", err)
        } else {
            disp.Vault = vault
            log.Printf("[main] credential vault loaded: %d entries", vault.Len())
        }
    }

    runner := loop.NewRunner(state, capture.NewClient(cfg.Capture.URL), router, disp,
        journal, bus, cfg.Capture.MaxWait, cfg.Loop.IdleDelay, cfg.Loop.CrashBackoff)

    ctx, cancel := context.WithCancel(context.Background())
    defer cancel()

    go session.NewStarter(state, vbus.Faces, cfg.Session.FaceWait, journal, bus).Run(ctx)
    go session.NewWatchdog(state, cfg.Session.WatchdogTick, journal, bus).Run(ctx)
    go runner.Run(ctx)
    go drainObjects(ctx, vbus.Objects, state, journal)

    // Spoken replies go to observers; the default observer just logs.
    _ = bus.Subscribe(loop.TopicDecision, func(dec intent.Decision, out loop.Outcome) {
        log.Printf("[say] %s", out.Say)
    })

    h := api.NewHandlers(cfg, state, journal, router, kb)
    mux := http.NewServeMux()
    mux.Handle("/", api.NewRouter(h))
    mux.HandleFunc("/ws/vision", vsrv.HandleVisionWS)

    addr := ":" + cfg.Server.Port
    srv := &http.Server{
        Addr:              addr,
        Handler:           logMiddleware(mux),
        ReadHeaderTimeout: 5 * time.Second,
    }

    // Graceful shutdown on SIGINT/SIGTERM
    sigc := make(chan os.Signal, 1)
    signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
    go func() {
        <-sigc
        log.Printf("shutdown signal received; stopping server...")
        cancel()
        sctx, scancel := context.WithTimeout(context.Background(), 5*time.Second)
        defer scancel()
        _ = srv.Shutdown(sctx)
    }()

    log.Printf("assistant starting on %s (target=%s)", addr, state.Target())
    if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
        log.Println("server error:", err)
        os.Exit(1)
    }
}

// drainObjects journals object sightings while a session is active. No
// executor consumes them yet; the journal is the consumer of record.
func drainObjects(ctx context.Context, objects <-chan vision.ObjectEvent, st *session.State, jr *events.Journal) {
    for {
        select {
        case <-ctx.Done():
            return
        case ev := <-objects:
            snap := st.Snapshot()
            jr.Append(snap.RunID, "object_seen", map[string]any{
                "label": ev.Label,
                "score": ev.Score,
            })
        }
    }
}

func logMiddleware(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        start := time.Now()
        next.ServeHTTP(w, r)
        log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
    })
}
