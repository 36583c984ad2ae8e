package models

import "gorm.io/gorm"

// Comment represents a comment on a memorial item. Comments are append-only.
type Comment struct {
	gorm.Model
	ItemID  string `json:"item_id" gorm:"index"` // ID of the memorial item (MongoDB ObjectID as string)
	UserID  uint   `json:"user_id" gorm:"index"` // ID of the user who made the comment
	Content string `json:"content" validate:"required,min=1,max=500"`
}

// CreateCommentRequest defines the request body for creating a new comment
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=500"`
}
