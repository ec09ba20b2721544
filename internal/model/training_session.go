package model

import "time"

// TrainingSession mirrors the `training_sessions` table. A session is
// jointly owned: both the booked student and the assigned trainer may
// act on it.
//
// Fields:
//  ID        – primary key identifier.
//  StudentID – booked student (users.id).
//  TrainerID – assigned trainer (users.id).
//  Title     – short description shown in schedules.
//  StartsAt  – scheduled start.
//  EndsAt    – scheduled end.
//  CreatedAt – timestamp of creation.
type TrainingSession struct {
    ID        uint64    `json:"id"`
    StudentID uint64    `json:"student_id"`
    TrainerID uint64    `json:"trainer_id"`
    Title     string    `json:"title"`
    StartsAt  time.Time `json:"starts_at"`
    EndsAt    time.Time `json:"ends_at"`
    CreatedAt time.Time `json:"created_at"`
}

func (t *TrainingSession) ResourceID() uint64   { return t.ID }
func (t *TrainingSession) ResourceType() string { return "training_session" }

// OwnerIDs declares both owner fields; either grants access.
func (t *TrainingSession) OwnerIDs() []uint64 { return []uint64{t.StudentID, t.TrainerID} }
