package config

import (
    "fmt"
    "log"
    "strings"
    "time"

    "github.com/spf13/viper"
)

type Config struct {
    Server struct {
        Port     string
        LogLevel string
    }
    Session struct {
        TargetIdentity string
        IdleTimeout    time.Duration
        FaceWait       time.Duration
        WatchdogTick   time.Duration
    }
    Ingress struct {
        SampleStride   int
        ObjectScoreMin float64
        TokenSecret    string
        TokenSkewSecs  int
    }
    Capture struct {
        URL     string
        MaxWait time.Duration
    }
    Relay struct {
        URL string
    }
    Knowledge struct {
        DBPath string
    }
    Creds struct {
        CSVPath string
    }
    Loop struct {
        IdleDelay    time.Duration
        CrashBackoff time.Duration
    }
}

func Load() Config {
    v := viper.New()
    v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
    v.AutomaticEnv()

    // Defaults
    v.SetDefault("server.port", 8080)
    v.SetDefault("server.log_level", "info")

    v.SetDefault("session.target_identity", "Rommel")
    // Deliberately large "still present" grace window, not a debounce.
    v.SetDefault("session.idle_timeout_sec", 3000)
    v.SetDefault("session.face_wait_sec", 1)
    v.SetDefault("session.watchdog_interval_ms", 500)

    v.SetDefault("ingress.sample_stride", 3)
    v.SetDefault("ingress.object_score_min", 0.50)
    v.SetDefault("ingress.token_skew_secs", 60)

    v.SetDefault("capture.url", "http://127.0.0.1:8090")
    v.SetDefault("capture.max_wait_sec", 7)

    v.SetDefault("relay.url", "http://192.168.10.100")

    v.SetDefault("knowledge.db_path", "knowledge.db")

    v.SetDefault("loop.idle_delay_ms", 100)
    v.SetDefault("loop.crash_backoff_ms", 200)

    // Map envs
    v.BindEnv("server.port", "PORT")
    v.BindEnv("server.log_level", "LOG_LEVEL")

    v.BindEnv("session.target_identity", "TARGET_IDENTITY")
    v.BindEnv("session.idle_timeout_sec", "SESSION_IDLE_TIMEOUT_SEC")
    v.BindEnv("session.face_wait_sec", "FACE_WAIT_SEC")
    v.BindEnv("session.watchdog_interval_ms", "WATCHDOG_INTERVAL_MS")

    v.BindEnv("ingress.sample_stride", "INGRESS_SAMPLE_STRIDE")
    v.BindEnv("ingress.object_score_min", "OBJECT_SCORE_THRESHOLD")
    v.BindEnv("ingress.token_secret", "INGRESS_TOKEN_SECRET")
    v.BindEnv("ingress.token_skew_secs", "INGRESS_TOKEN_SKEW_SECS")

    v.BindEnv("capture.url", "CAPTURE_URL")
    v.BindEnv("capture.max_wait_sec", "CAPTURE_MAX_WAIT_SEC")

    v.BindEnv("relay.url", "RELAY_URL")

    v.BindEnv("knowledge.db_path", "KNOWLEDGE_DB_PATH")
    v.BindEnv("creds.csv_path", "CREDS_CSV_PATH")

    v.BindEnv("loop.idle_delay_ms", "LOOP_IDLE_DELAY_MS")
    v.BindEnv("loop.crash_backoff_ms", "LOOP_CRASH_BACKOFF_MS")

    var c Config
    c.Server.Port = toString(v.Get("server.port"))
    c.Server.LogLevel = v.GetString("server.log_level")

    c.Session.TargetIdentity = v.GetString("session.target_identity")
    c.Session.IdleTimeout = time.Duration(v.GetInt("session.idle_timeout_sec")) * time.Second
    c.Session.FaceWait = time.Duration(v.GetInt("session.face_wait_sec")) * time.Second
    c.Session.WatchdogTick = time.Duration(v.GetInt("session.watchdog_interval_ms")) * time.Millisecond

    c.Ingress.SampleStride = v.GetInt("ingress.sample_stride")
    c.Ingress.ObjectScoreMin = v.GetFloat64("ingress.object_score_min")
    c.Ingress.TokenSecret = v.GetString("ingress.token_secret")
    c.Ingress.TokenSkewSecs = v.GetInt("ingress.token_skew_secs")

    c.Capture.URL = v.GetString("capture.url")
    c.Capture.MaxWait = time.Duration(v.GetInt("capture.max_wait_sec")) * time.Second

    c.Relay.URL = v.GetString("relay.url")

    c.Knowledge.DBPath = v.GetString("knowledge.db_path")
    c.Creds.CSVPath = v.GetString("creds.csv_path")

    c.Loop.IdleDelay = time.Duration(v.GetInt("loop.idle_delay_ms")) * time.Millisecond
    c.Loop.CrashBackoff = time.Duration(v.GetInt("loop.crash_backoff_ms")) * time.Millisecond

    log.Printf("config loaded: port=%s target=%s idle_timeout=%s stride=%d",
        c.Server.Port, c.Session.TargetIdentity, c.Session.IdleTimeout, c.Ingress.SampleStride)
    return c
}

func toString(v any) string { return fmt.Sprint(v) }
