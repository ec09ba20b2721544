package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/arashnm/gym-portal/internal/model"
	"github.com/arashnm/gym-portal/internal/utils"
)

// UserRepo is the user directory: read-mostly access to the 'users'
// table. The authentication guard reloads users through it on every
// request, so both lookups are single-row primary/unique key queries.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,email,password_hash,role,is_active,password_changed_at,created_at,updated_at"

func scanUser(row *sql.Row) (*model.User, error) {
	var (
		u       model.User
		changed sql.NullTime
	)
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive,
		&changed, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if changed.Valid {
		t := changed.Time
		u.PasswordChangedAt = &t
	}
	return &u, nil
}

// FindByID fetches a user by id. Returns (nil, nil) when no such user
// exists so callers can distinguish "absent" from "lookup failed".
func (r *UserRepo) FindByID(ctx context.Context, id uint64) (*model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// FindByEmail fetches a user by normalized email. Returns (nil, nil)
// when absent.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
}

// List returns a page of users ordered by id, for back-office screens.
func (r *UserRepo) List(ctx context.Context, limit, offset int) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY id LIMIT ? OFFSET ?", limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.User
	for rows.Next() {
		var (
			u       model.User
			changed sql.NullTime
		)
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive,
			&changed, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		if changed.Valid {
			t := changed.Time
			u.PasswordChangedAt = &t
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// UpdatePassword stores a new bcrypt hash and stamps
// password_changed_at, which invalidates every access token issued
// before this moment.
func (r *UserRepo) UpdatePassword(ctx context.Context, id uint64, plain string, cost int) error {
	hash, err := utils.HashPassword(plain, cost)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx,
		"UPDATE users SET password_hash=?, password_changed_at=NOW() WHERE id=?",
		hash, id)
	return err
}
