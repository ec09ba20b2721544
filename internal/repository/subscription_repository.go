package repository

import (
	"context"
	"database/sql"

	"github.com/arashnm/gym-portal/internal/model"
)

// SubscriptionRepo reads rows from the 'subscriptions' table. The
// ownership guard only needs single-row lookups by id.
type SubscriptionRepo struct{ DB *sql.DB }

func NewSubscriptionRepo(db *sql.DB) *SubscriptionRepo { return &SubscriptionRepo{DB: db} }

// FindByID fetches a subscription by id. Returns (nil, nil) when absent.
func (r *SubscriptionRepo) FindByID(ctx context.Context, id uint64) (*model.Subscription, error) {
	var s model.Subscription
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,student_id,plan_name,starts_at,expires_at,created_at FROM subscriptions WHERE id=? LIMIT 1",
		id).Scan(&s.ID, &s.StudentID, &s.PlanName, &s.StartsAt, &s.ExpiresAt, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}
