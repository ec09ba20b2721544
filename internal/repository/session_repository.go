package repository

import (
	"context"
	"database/sql"

	"github.com/arashnm/gym-portal/internal/model"
)

// SessionRepo reads rows from the 'training_sessions' table.
type SessionRepo struct{ DB *sql.DB }

func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{DB: db} }

// FindByID fetches a training session by id. Returns (nil, nil) when absent.
func (r *SessionRepo) FindByID(ctx context.Context, id uint64) (*model.TrainingSession, error) {
	var t model.TrainingSession
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,student_id,trainer_id,title,starts_at,ends_at,created_at FROM training_sessions WHERE id=? LIMIT 1",
		id).Scan(&t.ID, &t.StudentID, &t.TrainerID, &t.Title, &t.StartsAt, &t.EndsAt, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}
