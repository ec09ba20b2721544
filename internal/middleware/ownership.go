package middleware

import (
    "context"
    "log"
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/arashnm/gym-portal/internal/audit"
)

// Resource is implemented by any entity the ownership guard can
// protect. OwnerIDs is the declared list of owner fields for the
// entity type; which user ids grant access is decided by the model,
// not inferred from field names at the call site.
type Resource interface {
    ResourceID() uint64
    ResourceType() string
    OwnerIDs() []uint64
}

// ResourceLookup loads a resource by id. It returns (nil, nil) when
// the resource does not exist.
type ResourceLookup func(ctx context.Context, id uint64) (Resource, error)

// RequireOwnership returns a middleware that restricts a route to the
// owners of the addressed resource. The resource id is read from the
// named path parameter. Administrative roles bypass the check without
// loading the resource. For everyone else the resource is loaded, and
// access is granted when the resource id equals the caller's id or any
// declared owner id equals the caller's id. On success the loaded
// resource is attached to the context so the handler does not repeat
// the lookup. Denials are recorded as security events.
func RequireOwnership(param string, lookup ResourceLookup, aud *audit.Logger) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            u := CurrentUser(c)
            if u == nil {
                return reject(c, http.StatusUnauthorized, msgNoToken, nil)
            }
            if u.IsAdmin() {
                return next(c)
            }

            id, err := strconv.ParseUint(c.Param(param), 10, 64)
            if err != nil {
                // A non-numeric id cannot address an existing resource.
                return reject(c, http.StatusNotFound, "Resource not found.", nil)
            }
            res, err := lookup(c.Request().Context(), id)
            if err != nil {
                log.Printf("ownership: lookup %s=%d failed on %s %s: %v", param, id, c.Request().Method, c.Path(), err)
                return reject(c, http.StatusInternalServerError, msgInternal, nil)
            }
            if res == nil {
                return reject(c, http.StatusNotFound, "Resource not found.", nil)
            }

            if !ownedBy(res, u.ID) {
                ev := securityEvent(c, "ownership_denied", "caller does not own resource")
                ev.ResourceType = res.ResourceType()
                ev.ResourceID = res.ResourceID()
                aud.Record(ev)
                return reject(c, http.StatusForbidden, "You do not have access to this resource.", nil)
            }

            c.Set(resourceKey, res)
            return next(c)
        }
    }
}

// ownedBy reports whether userID matches the resource's own id or any
// of its declared owner fields.
func ownedBy(res Resource, userID uint64) bool {
    if res.ResourceID() == userID {
        return true
    }
    for _, owner := range res.OwnerIDs() {
        if owner == userID {
            return true
        }
    }
    return false
}
