package model

import "time"

// Subscription mirrors the `subscriptions` table. A subscription is
// owned by exactly one student; trainers and other students may not
// read it.
//
// Fields:
//  ID        – primary key identifier.
//  StudentID – owning student (users.id).
//  PlanName  – commercial plan label (e.g. "monthly", "annual").
//  StartsAt  – first day of validity.
//  ExpiresAt – last day of validity.
//  CreatedAt – timestamp of creation.
type Subscription struct {
    ID        uint64    `json:"id"`
    StudentID uint64    `json:"student_id"`
    PlanName  string    `json:"plan_name"`
    StartsAt  time.Time `json:"starts_at"`
    ExpiresAt time.Time `json:"expires_at"`
    CreatedAt time.Time `json:"created_at"`
}

func (s *Subscription) ResourceID() uint64   { return s.ID }
func (s *Subscription) ResourceType() string { return "subscription" }

// OwnerIDs declares the owner fields checked by the ownership guard.
func (s *Subscription) OwnerIDs() []uint64 { return []uint64{s.StudentID} }
