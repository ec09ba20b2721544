package middleware

// context.go defines the contracts the guards depend on, the context keys
// they communicate through, and the shared JSON error envelope. Guards get
// their collaborators injected so tests can swap in fakes for the user
// directory and the revocation store.

import (
    "context"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/arashnm/gym-portal/internal/model"
)

// Context keys under which guards attach request-scoped values.
const (
    userKey     = "auth_user"
    tokenKey    = "auth_token"
    resourceKey = "auth_resource"
)

// UserDirectory is the guards' view of the user store. FindByID
// returns (nil, nil) when no such user exists; a non-nil error means
// the lookup itself failed and the request must not be authenticated.
type UserDirectory interface {
    FindByID(ctx context.Context, id uint64) (*model.User, error)
}

// TokenStore is the guards' view of the denylist and the per-user
// request counters. Implementations signal an unreachable backend
// with repository.ErrStoreUnavailable; the guards decide whether the
// pipeline fails open or closed.
type TokenStore interface {
    IsRevoked(ctx context.Context, token string) (bool, error)
    IncrementCounter(ctx context.Context, userID uint64, window time.Duration) (int64, error)
}

// CurrentUser returns the user attached by RequireAuth or OptionalAuth,
// or nil when the request is unauthenticated.
func CurrentUser(c echo.Context) *model.User {
    if u, ok := c.Get(userKey).(*model.User); ok {
        return u
    }
    return nil
}

// CurrentToken returns the raw bearer token the request authenticated
// with, or "" when unauthenticated. Logout revokes exactly this string.
func CurrentToken(c echo.Context) string {
    if t, ok := c.Get(tokenKey).(string); ok {
        return t
    }
    return ""
}

// CurrentResource returns the resource loaded by RequireOwnership, or
// nil. Handlers downstream of the guard type-assert to the concrete
// model instead of looking the row up again.
func CurrentResource(c echo.Context) Resource {
    if r, ok := c.Get(resourceKey).(Resource); ok {
        return r
    }
    return nil
}

// reject terminates the request with the shared error envelope:
// {"success": false, "error": {"message": ..., extra...}}.
func reject(c echo.Context, status int, msg string, extra echo.Map) error {
    body := echo.Map{"message": msg}
    for k, v := range extra {
        body[k] = v
    }
    return c.JSON(status, echo.Map{"success": false, "error": body})
}
