package models

import "time"

// Reaction target kinds. A reaction points at exactly one of these.
const (
	ReactionTargetMemorial = "memorial"
	ReactionTargetItem     = "item"
	ReactionTargetComment  = "comment"
)

// Reaction types
const (
	ReactionLike = "like"
	ReactionLove = "love"
	ReactionSad  = "sad"
	ReactionWow  = "wow"
)

// Reaction represents a user's single reaction on a target. The composite
// unique index backs the at-most-one-reaction-per-(user, target) invariant;
// the toggle logic in the repository relies on it for upserts.
type Reaction struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     uint      `json:"user_id" gorm:"index;uniqueIndex:idx_reaction_user_target"`
	TargetType string    `json:"target_type" gorm:"size:10;uniqueIndex:idx_reaction_user_target"`
	TargetID   string    `json:"target_id" gorm:"index;uniqueIndex:idx_reaction_user_target"` // memorial/comment IDs as decimal strings, item IDs as Mongo hex
	Type       string    `json:"type" gorm:"size:10"`
	CreatedAt  time.Time `json:"created_at"`
}

// ToggleReactionRequest defines the request body for the reaction toggle
type ToggleReactionRequest struct {
	TargetType string `json:"target_type" validate:"required,oneof=memorial item comment"`
	TargetID   string `json:"target_id" validate:"required"`
	Type       string `json:"type" validate:"required,oneof=like love sad wow"`
}
