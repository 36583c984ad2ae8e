package models

import "time"

// Collaboration request statuses. Transitions are one-way out of pending.
const (
	CollaborationPending  = "pending"
	CollaborationAccepted = "accepted"
	CollaborationRejected = "rejected"
)

// CollaborationRequest represents a user asking to contribute to a memorial.
// The composite unique index allows at most one request per (memorial, user).
type CollaborationRequest struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	MemorialID  uint      `json:"memorial_id" gorm:"index;uniqueIndex:idx_memorial_requester"`
	RequesterID uint      `json:"requester_id" gorm:"index;uniqueIndex:idx_memorial_requester"`
	Status      string    `json:"status" gorm:"type:varchar(20);default:'pending'"`
	Message     string    `json:"message,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateCollaborationRequest defines the request body for requesting access
type CreateCollaborationRequest struct {
	Message string `json:"message,omitempty" validate:"omitempty,max=500"`
}

// UpdateCollaborationRequest defines the request body for accepting/rejecting a request
type UpdateCollaborationRequest struct {
	Status string `json:"status" validate:"required,oneof=accepted rejected"`
}
