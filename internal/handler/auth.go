package handler

import (
    "context"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/arashnm/gym-portal/internal/audit"
    "github.com/arashnm/gym-portal/internal/config"
    "github.com/arashnm/gym-portal/internal/middleware"
    "github.com/arashnm/gym-portal/internal/model"
    "github.com/arashnm/gym-portal/internal/queue"
    "github.com/arashnm/gym-portal/internal/repository"
    "github.com/arashnm/gym-portal/internal/utils"
)

// UserDirectory is the handler's view of the user store. Both lookups
// return (nil, nil) when no matching user exists.
type UserDirectory interface {
    FindByID(ctx context.Context, id uint64) (*model.User, error)
    FindByEmail(ctx context.Context, email string) (*model.User, error)
}

// TokenRevoker invalidates access tokens for their remaining lifetime.
type TokenRevoker interface {
    Revoke(ctx context.Context, token string, ttl time.Duration) error
}

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
    Cfg    config.Config
    Users  UserDirectory
    Tokens TokenRevoker
    Audit  *audit.Logger
}

func NewAuthHandler(cfg config.Config, u UserDirectory, t TokenRevoker, a *audit.Logger) *AuthHandler {
    return &AuthHandler{Cfg: cfg, Users: u, Tokens: t, Audit: a}
}

// ----- DTOs -----

type loginReq struct {
    Email    string `json:"email"`
    Password string `json:"password"`
}

type tokenPart struct {
    Token     string    `json:"token"`
    IssuedAt  time.Time `json:"issued_at"`
    ExpiresIn int       `json:"expires_in"` // seconds
}
type userPart struct {
    ID    uint64 `json:"id"`
    Email string `json:"email"`
    Role  string `json:"role"`
}

// Login verifies credentials and returns a fresh access token. Failed
// attempts answer an identical 401 whether the account is unknown or
// the password is wrong, and are recorded as security events.
func (h *AuthHandler) Login(c echo.Context) error {
    var req loginReq
    if err := c.Bind(&req); err != nil {
        return fail(c, http.StatusBadRequest, "Invalid request body.", nil)
    }
    req.Email = strings.ToLower(strings.TrimSpace(req.Email))
    if req.Email == "" || req.Password == "" {
        return fail(c, http.StatusBadRequest, "Email and password are required.", nil)
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    u, err := h.Users.FindByEmail(ctx, req.Email)
    if err != nil {
        return fail(c, http.StatusInternalServerError, "Internal server error.", nil)
    }
    if u == nil || !utils.VerifyPassword(u.PasswordHash, req.Password) {
        h.Audit.Record(queue.SecurityEvent{
            Kind:      "auth_rejected",
            Reason:    "invalid credentials",
            Method:    c.Request().Method,
            Path:      c.Path(),
            RemoteIP:  c.RealIP(),
            UserAgent: c.Request().UserAgent(),
        })
        return fail(c, http.StatusUnauthorized, "Invalid email or password.", nil)
    }
    if !u.IsActive {
        return fail(c, http.StatusUnauthorized, "Account is inactive.", nil)
    }

    access, err := utils.IssueAccessToken(h.Cfg.JWTSecret, u.ID)
    if err != nil {
        return fail(c, http.StatusInternalServerError, "Internal server error.", nil)
    }
    return c.JSON(http.StatusOK, echo.Map{
        "success": true,
        "data": echo.Map{
            "user": userPart{ID: u.ID, Email: u.Email, Role: u.Role},
            "access": tokenPart{
                Token:     access.Token,
                IssuedAt:  access.IssuedAt,
                ExpiresIn: h.Cfg.AccessTTLMin * 60,
            },
        },
    })
}

// Logout denylists the bearer token the request authenticated with.
// The TTL conservatively equals the full configured session length so
// the entry cannot underlive the token. Runs behind RequireAuth.
func (h *AuthHandler) Logout(c echo.Context) error {
    raw := middleware.CurrentToken(c)
    if raw == "" {
        return fail(c, http.StatusUnauthorized, "Authentication token is required.", nil)
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    ttl := time.Duration(h.Cfg.AccessTTLMin) * time.Minute
    if err := h.Tokens.Revoke(ctx, raw, ttl); err != nil {
        ev := queue.SecurityEvent{
            Kind:      "store_degraded",
            Reason:    "logout could not revoke token: " + err.Error(),
            Method:    c.Request().Method,
            Path:      c.Path(),
            RemoteIP:  c.RealIP(),
            UserAgent: c.Request().UserAgent(),
        }
        if u := middleware.CurrentUser(c); u != nil {
            ev.UserID = u.ID
            ev.Role = u.Role
        }
        h.Audit.Record(ev)
        // Without a reachable store the revocation cannot take effect;
        // the token simply ages out. Honor the configured tradeoff.
        if !h.Cfg.StoreFailOpen {
            return fail(c, http.StatusInternalServerError, "Internal server error.", nil)
        }
    }
    return c.NoContent(http.StatusNoContent)
}

// Me returns the authenticated caller's identity.
func (h *AuthHandler) Me(c echo.Context) error {
    u := middleware.CurrentUser(c)
    if u == nil {
        return fail(c, http.StatusUnauthorized, "Authentication token is required.", nil)
    }
    return c.JSON(http.StatusOK, echo.Map{
        "success": true,
        "data":    userPart{ID: u.ID, Email: u.Email, Role: u.Role},
    })
}

// fail writes the shared error envelope used across the API.
func fail(c echo.Context, status int, msg string, extra echo.Map) error {
    body := echo.Map{"message": msg}
    for k, v := range extra {
        body[k] = v
    }
    return c.JSON(status, echo.Map{"success": false, "error": body})
}

// Compile-time checks that the repositories satisfy the handler contracts.
var (
    _ UserDirectory = (*repository.UserRepo)(nil)
    _ TokenRevoker  = (*repository.RevocationRepo)(nil)
)
