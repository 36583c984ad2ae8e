package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Memorial item moderation statuses
const (
	ItemStatusPending  = "pending"
	ItemStatusApproved = "approved"
	ItemStatusRejected = "rejected"
)

// Memorial item content types
const (
	ItemTypeText  = "text"
	ItemTypeImage = "image"
	ItemTypeVideo = "video"
)

// MemorialItem represents a contribution to a memorial stored in MongoDB.
// Items are created pending and stay out of the public view until approved.
type MemorialItem struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	MemorialID uint               `json:"memorial_id" bson:"memorial_id"`
	AuthorID   uint               `json:"author_id" bson:"author_id"`
	Type       string             `json:"type" bson:"type"`       // "text", "image" or "video"
	Content    string             `json:"content" bson:"content"` // text body, or media URL for image/video
	Status     string             `json:"status" bson:"status"`   // "pending", "approved" or "rejected"
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at" bson:"updated_at"`
}

// CreateItemRequest defines the text-only request body for submitting a memory.
// Media submissions go through the multipart form path instead.
type CreateItemRequest struct {
	Content string `json:"content" validate:"required,min=1,max=2000"`
}

// ModerateItemRequest defines the request body for approving or rejecting an item
type ModerateItemRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
}

// ItemStatusCounts holds per-status totals for a memorial's moderation view.
// The three buckets always sum to Total.
type ItemStatusCounts struct {
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
	Total    int64 `json:"total"`
}
