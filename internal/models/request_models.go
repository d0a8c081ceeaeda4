package models

import "time"

// Change request statuses. Approved and rejected are terminal; a request never
// transitions out of them.
const (
	RequestStatusPending  = "pending"
	RequestStatusApproved = "approved"
	RequestStatusRejected = "rejected"
)

// Change request types.
const (
	RequestTypeGymRename = "gym_rename"
)

// ChangeRequest is a cross-tenant request that requires super-admin action,
// e.g. renaming a gym.
type ChangeRequest struct {
	ID              string     `json:"id" db:"id"`
	RequestType     string     `json:"request_type" db:"request_type"`
	FromUserID      int64      `json:"from_user_id" db:"from_user_id"`
	FromGymID       int64      `json:"from_gym_id" db:"from_gym_id"`
	FromGymName     string     `json:"from_gym_name" db:"from_gym_name"`
	OldName         string     `json:"old_name" db:"old_name"`
	NewName         string     `json:"new_name" db:"new_name"`
	Reason          *string    `json:"reason,omitempty" db:"reason"`
	Status          string     `json:"status" db:"status"`
	RejectionReason *string    `json:"rejection_reason,omitempty" db:"rejection_reason"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	ProcessedAt     *time.Time `json:"processed_at,omitempty" db:"processed_at"`
}
