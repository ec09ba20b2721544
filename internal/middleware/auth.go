package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "log"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/arashnm/gym-portal/internal/audit"
    "github.com/arashnm/gym-portal/internal/config"
    "github.com/arashnm/gym-portal/internal/model"
    "github.com/arashnm/gym-portal/internal/queue"
    "github.com/arashnm/gym-portal/internal/utils"
)

// Rejection messages returned by the authentication guard. Exported
// only through response bodies; kept as constants so handlers and
// tests agree on the exact wording.
const (
    msgNoToken         = "Authentication token is required."
    msgRevoked         = "Token has been invalidated."
    msgInvalidToken    = "Invalid authentication token."
    msgExpired         = "Token has expired, please login again."
    msgUserGone        = "User no longer exists or is inactive."
    msgPasswordChanged = "Password was changed recently, please login again."
    msgInternal        = "Internal server error."
)

// RequireAuth returns an Echo middleware that authenticates a Bearer
// access token and attaches the caller's user record plus the raw token
// to the request context. The checks run in a fixed order:
//
//	no token            -> 401
//	denylisted token    -> 401 (checked strictly before verification,
//	                            so logout stays authoritative even for
//	                            tokens that would still verify)
//	bad signature       -> 401
//	past lifetime       -> 401
//	user gone/inactive  -> 401
//	issued before the   -> 401
//	  last password change
//
// Every rejection is recorded as a security event with the caller's
// network address and user agent. Directory or store failures that
// cannot be degraded produce a generic 500 and are logged separately
// from security rejections.
func RequireAuth(cfg config.Config, dir UserDirectory, store TokenStore, aud *audit.Logger) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            user, raw, rejection, err := authenticate(c, cfg, dir, store, aud)
            if err != nil {
                // Unexpected infrastructure failure. Not a security
                // rejection: log with the cause, answer generically.
                log.Printf("auth: internal error on %s %s: %v", c.Request().Method, c.Path(), err)
                return reject(c, http.StatusInternalServerError, msgInternal, nil)
            }
            if rejection != "" {
                aud.Record(securityEvent(c, "auth_rejected", rejection))
                return reject(c, http.StatusUnauthorized, rejection, nil)
            }
            c.Set(userKey, user)
            c.Set(tokenKey, raw)
            return next(c)
        }
    }
}

// OptionalAuth runs the same checks as RequireAuth but any failure
// silently continues the pipeline with no attached identity. Used for
// endpoints that personalize behavior without requiring login.
func OptionalAuth(cfg config.Config, dir UserDirectory, store TokenStore, aud *audit.Logger) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            user, raw, rejection, err := authenticate(c, cfg, dir, store, aud)
            if err != nil || rejection != "" {
                return next(c)
            }
            c.Set(userKey, user)
            c.Set(tokenKey, raw)
            return next(c)
        }
    }
}

// authenticate walks the verification states for one request. It
// returns either an authenticated user with the raw token, a rejection
// message for a 401, or an error for conditions that must surface as a
// generic 500. Exactly one of the three outcomes is set.
func authenticate(c echo.Context, cfg config.Config, dir UserDirectory, store TokenStore, aud *audit.Logger) (*model.User, string, string, error) {
    raw, ok := bearerToken(c)
    if !ok {
        return nil, "", msgNoToken, nil
    }

    // Revocation first. A revoked token must never reach the
    // verification success path, and a denylist hit must not be
    // distinguishable by timing from a signature failure.
    revoked, err := store.IsRevoked(c.Request().Context(), raw)
    if err != nil {
        if !cfg.StoreFailOpen {
            return nil, "", "", err
        }
        // Degraded: treat as not revoked, but make the gap visible.
        aud.Record(securityEvent(c, "store_degraded", "revocation check skipped: "+err.Error()))
    } else if revoked {
        return nil, "", msgRevoked, nil
    }

    claims, err := utils.VerifyAccessToken(cfg.JWTSecret, raw, time.Duration(cfg.AccessTTLMin)*time.Minute)
    if err == utils.ErrTokenExpired {
        return nil, "", msgExpired, nil
    }
    if err != nil {
        return nil, "", msgInvalidToken, nil
    }

    user, err := dir.FindByID(c.Request().Context(), claims.UserID)
    if err != nil {
        // Directory failures fail closed: no identity, generic 500.
        return nil, "", "", err
    }
    if user == nil || !user.IsActive {
        return nil, "", msgUserGone, nil
    }
    if user.PasswordChangedAt != nil && claims.IssuedAt.Before(*user.PasswordChangedAt) {
        return nil, "", msgPasswordChanged, nil
    }
    return user, raw, "", nil
}

// bearerToken extracts the token from the Authorization header. A
// valid header is "Bearer " followed by the serialized token.
func bearerToken(c echo.Context) (string, bool) {
    auth := c.Request().Header.Get("Authorization")
    if !strings.HasPrefix(auth, "Bearer ") {
        return "", false
    }
    raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
    return raw, raw != ""
}

// securityEvent fills a SecurityEvent with request metadata and, when
// an identity is already attached, the caller's id and role.
func securityEvent(c echo.Context, kind, reason string) queue.SecurityEvent {
    ev := queue.SecurityEvent{
        Kind:      kind,
        Reason:    reason,
        Method:    c.Request().Method,
        Path:      c.Path(),
        RemoteIP:  c.RealIP(),
        UserAgent: c.Request().UserAgent(),
    }
    if u := CurrentUser(c); u != nil {
        ev.UserID = u.ID
        ev.Role = u.Role
    }
    return ev
}
