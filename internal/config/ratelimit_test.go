package config

import (
	"testing"
	"time"
)

func TestLoadRateLimitConfig_Defaults(t *testing.T) {
	cfg := LoadRateLimitConfig()
	if !cfg.Enabled {
		t.Fatalf("expected limiter enabled by default")
	}
	if cfg.MaxRequests != 100 {
		t.Fatalf("default max: got %d want 100", cfg.MaxRequests)
	}
	if cfg.Window != 15*time.Minute {
		t.Fatalf("default window: got %v want 15m", cfg.Window)
	}
}

func TestLoadRateLimitConfig_Overrides(t *testing.T) {
	t.Setenv("RATE_LIMIT_MAX", "10")
	t.Setenv("RATE_LIMIT_WINDOW", "30s")
	t.Setenv("RATE_LIMIT_ENABLED", "false")

	cfg := LoadRateLimitConfig()
	if cfg.Enabled {
		t.Fatalf("expected limiter disabled")
	}
	if cfg.MaxRequests != 10 {
		t.Fatalf("max: got %d want 10", cfg.MaxRequests)
	}
	if cfg.Window != 30*time.Second {
		t.Fatalf("window: got %v want 30s", cfg.Window)
	}
}

func TestLoadRateLimitConfig_ClampsBadValues(t *testing.T) {
	t.Setenv("RATE_LIMIT_MAX", "0")
	t.Setenv("RATE_LIMIT_WINDOW", "-5m")

	cfg := LoadRateLimitConfig()
	if cfg.MaxRequests < 1 {
		t.Fatalf("max must be clamped to >=1, got %d", cfg.MaxRequests)
	}
	if cfg.Window <= 0 {
		t.Fatalf("window must be clamped positive, got %v", cfg.Window)
	}
}
