package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/arashnm/gym-portal/internal/middleware"
	"github.com/arashnm/gym-portal/internal/model"
)

// SubscriptionLookup and SessionLookup are the member handlers' view of
// the resource repositories. Both return (nil, nil) when absent.
type SubscriptionLookup interface {
	FindByID(ctx context.Context, id uint64) (*model.Subscription, error)
}
type SessionLookup interface {
	FindByID(ctx context.Context, id uint64) (*model.TrainingSession, error)
}

// MemberHandler serves resource endpoints sitting behind the ownership
// guard. For non-admin callers the guard has already loaded the row
// and attached it to the context; administrative callers bypass the
// guard, so each handler falls back to its repository.
type MemberHandler struct {
	Users    UserDirectory
	Subs     SubscriptionLookup
	Sessions SessionLookup
}

func NewMemberHandler(users UserDirectory, subs SubscriptionLookup, sessions SessionLookup) *MemberHandler {
	return &MemberHandler{Users: users, Subs: subs, Sessions: sessions}
}

func pathID(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	return id, err == nil
}

// GetSubscription returns one subscription. Students only ever see
// their own; admins reach any.
func (h *MemberHandler) GetSubscription(c echo.Context) error {
	if s, ok := middleware.CurrentResource(c).(*model.Subscription); ok {
		return c.JSON(http.StatusOK, echo.Map{"success": true, "data": s})
	}
	id, ok := pathID(c)
	if !ok {
		return fail(c, http.StatusNotFound, "Resource not found.", nil)
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	s, err := h.Subs.FindByID(ctx, id)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Internal server error.", nil)
	}
	if s == nil {
		return fail(c, http.StatusNotFound, "Resource not found.", nil)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": s})
}

// GetSession returns one training session. Reachable by the booked
// student, the assigned trainer, or an admin.
func (h *MemberHandler) GetSession(c echo.Context) error {
	if s, ok := middleware.CurrentResource(c).(*model.TrainingSession); ok {
		return c.JSON(http.StatusOK, echo.Map{"success": true, "data": s})
	}
	id, ok := pathID(c)
	if !ok {
		return fail(c, http.StatusNotFound, "Resource not found.", nil)
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	s, err := h.Sessions.FindByID(ctx, id)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Internal server error.", nil)
	}
	if s == nil {
		return fail(c, http.StatusNotFound, "Resource not found.", nil)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": s})
}

type profilePart struct {
	ID        uint64    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// GetProfile returns a user profile; the ownership guard restricts it
// to the profile owner, admins excepted.
func (h *MemberHandler) GetProfile(c echo.Context) error {
	if u, ok := middleware.CurrentResource(c).(*model.User); ok {
		return c.JSON(http.StatusOK, echo.Map{"success": true,
			"data": profilePart{ID: u.ID, Email: u.Email, Role: u.Role, IsActive: u.IsActive, CreatedAt: u.CreatedAt}})
	}
	id, ok := pathID(c)
	if !ok {
		return fail(c, http.StatusNotFound, "Resource not found.", nil)
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	u, err := h.Users.FindByID(ctx, id)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Internal server error.", nil)
	}
	if u == nil {
		return fail(c, http.StatusNotFound, "Resource not found.", nil)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true,
		"data": profilePart{ID: u.ID, Email: u.Email, Role: u.Role, IsActive: u.IsActive, CreatedAt: u.CreatedAt}})
}

// Timetable is a public endpoint that personalizes its greeting when a
// token is present (OptionalAuth); guests get the plain schedule.
func (h *MemberHandler) Timetable(c echo.Context) error {
	// Opening hours are static content maintained by the front office.
	hours := []echo.Map{
		{"day": "mon-fri", "open": "06:00", "close": "23:00"},
		{"day": "sat", "open": "08:00", "close": "22:00"},
		{"day": "sun", "open": "08:00", "close": "20:00"},
	}
	data := echo.Map{"opening_hours": hours, "personalized": false}
	if u := middleware.CurrentUser(c); u != nil {
		data["personalized"] = true
		data["member"] = userPart{ID: u.ID, Email: u.Email, Role: u.Role}
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": data})
}
