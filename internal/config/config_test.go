package config

import (
    "os"
    "testing"
    "time"
)

func TestLoadDefaults(t *testing.T) {
    // Clear relevant envs
    os.Unsetenv("PORT")
    os.Unsetenv("TARGET_IDENTITY")
    os.Unsetenv("SESSION_IDLE_TIMEOUT_SEC")
    os.Unsetenv("INGRESS_SAMPLE_STRIDE")
    os.Unsetenv("OBJECT_SCORE_THRESHOLD")

    c := Load()

    if c.Server.Port != "8080" {
        t.Fatalf("expected default port 8080, got %q", c.Server.Port)
    }
    if c.Session.TargetIdentity != "Rommel" {
        t.Fatalf("expected default target identity, got %q", c.Session.TargetIdentity)
    }
    if c.Session.IdleTimeout != 3000*time.Second {
        t.Fatalf("expected default idle timeout 3000s, got %s", c.Session.IdleTimeout)
    }
    if c.Ingress.SampleStride != 3 {
        t.Fatalf("expected default stride 3, got %d", c.Ingress.SampleStride)
    }
    if c.Ingress.ObjectScoreMin != 0.50 {
        t.Fatalf("expected default object threshold 0.50, got %v", c.Ingress.ObjectScoreMin)
    }
}

func TestLoadEnvOverrides(t *testing.T) {
    os.Setenv("TARGET_IDENTITY", "Ada")
    os.Setenv("SESSION_IDLE_TIMEOUT_SEC", "5")
    os.Setenv("INGRESS_SAMPLE_STRIDE", "4")
    defer func() {
        os.Unsetenv("TARGET_IDENTITY")
        os.Unsetenv("SESSION_IDLE_TIMEOUT_SEC")
        os.Unsetenv("INGRESS_SAMPLE_STRIDE")
    }()

    c := Load()

    if c.Session.TargetIdentity != "Ada" {
        t.Fatalf("expected target Ada, got %q", c.Session.TargetIdentity)
    }
    if c.Session.IdleTimeout != 5*time.Second {
        t.Fatalf("expected idle timeout 5s, got %s", c.Session.IdleTimeout)
    }
    if c.Ingress.SampleStride != 4 {
        t.Fatalf("expected stride 4, got %d", c.Ingress.SampleStride)
    }
}
