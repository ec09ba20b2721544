package middleware // middleware provides shared request processing for handlers

import (
    "net/http" // http package defines standard HTTP status codes

    "github.com/labstack/echo/v4" // echo provides middleware chaining and context

    "github.com/arashnm/gym-portal/internal/audit"
)

// RequireRole returns a middleware function that enforces that the
// authenticated user has one of the specified roles. The roles
// accepted should correspond to the constants in the model package.
// It assumes RequireAuth has already attached the caller; a request
// with no identity is rejected with 401. A caller whose role is not
// in the allowed set is rejected with 403, and the response body
// surfaces both the caller's role and the allowed set so API clients
// can explain the denial. Forbidden outcomes are recorded as security
// events.
func RequireRole(aud *audit.Logger, roles ...string) echo.MiddlewareFunc {
    // Build a set of allowed roles for constant-time lookups. The map
    // value is a boolean and is always true when present.
    allowed := make(map[string]bool, len(roles))
    for _, r := range roles {
        allowed[r] = true
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            u := CurrentUser(c)
            if u == nil {
                return reject(c, http.StatusUnauthorized, msgNoToken, nil)
            }
            if !allowed[u.Role] {
                ev := securityEvent(c, "forbidden", "role not permitted")
                ev.RequiredRoles = roles
                aud.Record(ev)
                return reject(c, http.StatusForbidden, "You do not have permission to perform this action.", echo.Map{
                    "role":           u.Role,
                    "required_roles": roles,
                })
            }
            // Otherwise call the next handler in the chain
            return next(c)
        }
    }
}
