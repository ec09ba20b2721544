package router // package router defines how HTTP routes are registered for the API

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/arashnm/gym-portal/internal/audit"
	"github.com/arashnm/gym-portal/internal/config"
	"github.com/arashnm/gym-portal/internal/handler"
	"github.com/arashnm/gym-portal/internal/middleware"
	"github.com/arashnm/gym-portal/internal/model"
	"github.com/arashnm/gym-portal/internal/repository"
)

// Deps carries everything the routes need. Repositories are concrete
// here; the guards and handlers consume them through narrow interfaces.
type Deps struct {
	Cfg      config.Config
	RateCfg  config.RateLimitConfig
	Users    *repository.UserRepo
	Tokens   *repository.RevocationRepo
	Subs     *repository.SubscriptionRepo
	Sessions *repository.SessionRepo
	Audit    *audit.Logger
}

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance. Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Used by load balancers and monitoring to verify the service is up.
	e.GET("/healthz", handler.Health)
}

// RegisterAPI wires the guard pipeline and all /v1 endpoints. Protected
// routes run RequireAuth then the rate limiter; role- and resource-
// scoped routes add their guard per route. Each guard short-circuits:
// a failure terminates the request, success passes the enriched
// context onward.
func RegisterAPI(e *echo.Echo, d Deps) {
	// Stray errors and panics become the generic 500 envelope; guard
	// rejections never travel this path because guards fully resolve
	// their own responses.
	e.HTTPErrorHandler = errorHandler

	authH := handler.NewAuthHandler(d.Cfg, d.Users, d.Tokens, d.Audit)
	memberH := handler.NewMemberHandler(d.Users, d.Subs, d.Sessions)
	adminH := handler.NewAdminHandler(d.Users)

	requireAuth := middleware.RequireAuth(d.Cfg, d.Users, d.Tokens, d.Audit)
	optionalAuth := middleware.OptionalAuth(d.Cfg, d.Users, d.Tokens, d.Audit)
	rateLimit := middleware.RateLimit(d.RateCfg, d.Tokens, d.Cfg.StoreFailOpen, d.Audit)

	// Unauthenticated operations.
	e.POST("/v1/auth/login", authH.Login)
	// Personalizes when a valid token is present, never rejects.
	e.GET("/v1/timetable", memberH.Timetable, optionalAuth)

	// Everything below requires a valid access token and is metered
	// per user.
	v1 := e.Group("/v1", requireAuth, rateLimit)
	v1.POST("/auth/logout", authH.Logout)
	v1.GET("/me", authH.Me)

	// Resource-scoped routes: the ownership guard loads the row and
	// attaches it to the context for the handler.
	v1.GET("/subscriptions/:id", memberH.GetSubscription,
		middleware.RequireOwnership("id", subscriptionLookup(d.Subs), d.Audit))
	v1.GET("/sessions/:id", memberH.GetSession,
		middleware.RequireOwnership("id", sessionLookup(d.Sessions), d.Audit))
	v1.GET("/users/:id", memberH.GetProfile,
		middleware.RequireOwnership("id", profileLookup(d.Users), d.Audit))

	// Back-office routes for administrative roles only.
	admin := v1.Group("/admin", middleware.RequireRole(d.Audit, model.RoleAdmin, model.RoleSuperAdmin))
	admin.GET("/users", adminH.ListUsers)
}

// The lookup adapters return a nil interface, not a typed nil, when the
// row is absent so the guard's nil check behaves.

func subscriptionLookup(repo *repository.SubscriptionRepo) middleware.ResourceLookup {
	return func(ctx context.Context, id uint64) (middleware.Resource, error) {
		s, err := repo.FindByID(ctx, id)
		if s == nil || err != nil {
			return nil, err
		}
		return s, nil
	}
}

func sessionLookup(repo *repository.SessionRepo) middleware.ResourceLookup {
	return func(ctx context.Context, id uint64) (middleware.Resource, error) {
		s, err := repo.FindByID(ctx, id)
		if s == nil || err != nil {
			return nil, err
		}
		return s, nil
	}
}

func profileLookup(repo *repository.UserRepo) middleware.ResourceLookup {
	return func(ctx context.Context, id uint64) (middleware.Resource, error) {
		u, err := repo.FindByID(ctx, id)
		if u == nil || err != nil {
			return nil, err
		}
		return u, nil
	}
}

// errorHandler converts any error that escapes a handler into the
// shared envelope. Echo's own errors keep their status; everything
// else is a generic 500 with no internal detail leaked.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	status := http.StatusInternalServerError
	msg := "Internal server error."
	if he, ok := err.(*echo.HTTPError); ok {
		status = he.Code
		if s, ok := he.Message.(string); ok {
			msg = s
		}
	}
	_ = c.JSON(status, echo.Map{"success": false, "error": echo.Map{"message": msg}})
}
