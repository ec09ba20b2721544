package middleware

import (
    "fmt"
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/arashnm/gym-portal/internal/audit"
    "github.com/arashnm/gym-portal/internal/config"
)

// RateLimit returns a fixed-window per-user request limiter backed by
// the shared token store. Unauthenticated requests pass through
// untouched; the guard only meters callers that RequireAuth or
// OptionalAuth identified. When the pre-increment count has already
// reached the configured maximum, the request is rejected with 429 and
// a retry_after hint equal to the window length. The window is a
// counter key that expires at window end, so a burst can straddle a
// window boundary; that approximation is accepted.
//
// A store failure degrades to unlimited when failOpen is set, and is
// always recorded as a security event.
func RateLimit(cfg config.RateLimitConfig, store TokenStore, failOpen bool, aud *audit.Logger) echo.MiddlewareFunc {
    if !cfg.Enabled {
        return func(next echo.HandlerFunc) echo.HandlerFunc { return func(c echo.Context) error { return next(c) } }
    }
    windowSecs := int(cfg.Window.Seconds())

    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            u := CurrentUser(c)
            if u == nil {
                return next(c)
            }

            count, err := store.IncrementCounter(c.Request().Context(), u.ID, cfg.Window)
            if err != nil {
                aud.Record(securityEvent(c, "store_degraded", "rate limit skipped: "+err.Error()))
                if failOpen {
                    return next(c)
                }
                return reject(c, http.StatusInternalServerError, msgInternal, nil)
            }

            remaining := int64(cfg.MaxRequests) - count
            if remaining < 0 {
                remaining = 0
            }
            c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.MaxRequests))
            c.Response().Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

            // count is post-increment: count > max means the caller had
            // already used up the window before this request.
            if count > int64(cfg.MaxRequests) {
                c.Response().Header().Set("Retry-After", strconv.Itoa(windowSecs))
                aud.Record(securityEvent(c, "rate_limited",
                    fmt.Sprintf("request %d over limit %d", count, cfg.MaxRequests)))
                return reject(c, http.StatusTooManyRequests, "Too many requests, please slow down.", echo.Map{
                    "retry_after": windowSecs,
                })
            }
            return next(c)
        }
    }
}
