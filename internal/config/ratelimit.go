package config

import (
    "os"
    "strconv"
    "time"
)

// RateLimitConfig controls the fixed-window per-user request limiter.
// The window is a discrete bucket: the counter key expires at window
// end and the count implicitly resets to zero, so a burst can straddle
// a window boundary. That approximation is accepted.
type RateLimitConfig struct {
    Enabled     bool
    MaxRequests int
    Window      time.Duration
    Prefix      string
}

// LoadRateLimitConfig reads limiter settings from the environment,
// defaulting to 100 requests per 15 minutes.
func LoadRateLimitConfig() RateLimitConfig {
    cfg := RateLimitConfig{
        Enabled:     envBool("RATE_LIMIT_ENABLED", true),
        MaxRequests: envInt("RATE_LIMIT_MAX", 100),
        Window:      envDur("RATE_LIMIT_WINDOW", 15*time.Minute),
        Prefix:      envStr("RATE_LIMIT_PREFIX", "rl"),
    }
    if cfg.MaxRequests < 1 { cfg.MaxRequests = 1 }
    if cfg.Window <= 0 { cfg.Window = 15 * time.Minute }
    return cfg
}

func envStr(k, d string) string { if v := os.Getenv(k); v != "" { return v }; return d }
func envBool(k string, d bool) bool {
    v := os.Getenv(k)
    if v == "" { return d }
    switch v {
    case "1","true","TRUE","True","yes","YES","on","ON": return true
    case "0","false","FALSE","False","no","NO","off","OFF": return false
    }
    return d
}
func envInt(k string, d int) int {
    v := os.Getenv(k); if v == "" { return d }
    if n, err := strconv.Atoi(v); err == nil { return n }
    return d
}
func envDur(k string, d time.Duration) time.Duration {
    v := os.Getenv(k); if v == "" { return d }
    if dur, err := time.ParseDuration(v); err == nil { return dur }
    return d
}
