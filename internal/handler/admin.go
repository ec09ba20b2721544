package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/arashnm/gym-portal/internal/model"
)

// UserLister pages through the user directory for back-office screens.
type UserLister interface {
	List(ctx context.Context, limit, offset int) ([]model.User, error)
}

// AdminHandler serves back-office endpoints restricted to
// administrative roles by the role guard.
type AdminHandler struct {
	Users UserLister
}

func NewAdminHandler(users UserLister) *AdminHandler { return &AdminHandler{Users: users} }

// ListUsers returns a page of member accounts. Password hashes never
// leave the handler.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	limit := 50
	if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil && v > 0 && v <= 200 {
		limit = v
	}
	offset := 0
	if v, err := strconv.Atoi(c.QueryParam("offset")); err == nil && v > 0 {
		offset = v
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	users, err := h.Users.List(ctx, limit, offset)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Internal server error.", nil)
	}

	out := make([]profilePart, 0, len(users))
	for _, u := range users {
		out = append(out, profilePart{ID: u.ID, Email: u.Email, Role: u.Role, IsActive: u.IsActive, CreatedAt: u.CreatedAt})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": out})
}
