package models

import "time"

// Memorial visibility values
const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

// Memorial represents a memorial page owned by a single user
type Memorial struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	OwnerID     uint       `json:"owner_id" gorm:"index"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Visibility  string     `json:"visibility" gorm:"type:varchar(10);default:'private'"`
	CoverURL    string     `json:"cover_url,omitempty"`
	PortraitURL string     `json:"portrait_url,omitempty"`
	BirthDate   *time.Time `json:"birth_date,omitempty"`
	DeathDate   *time.Time `json:"death_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// CreateMemorialRequest defines the request body for creating a memorial
type CreateMemorialRequest struct {
	Title       string     `json:"title" validate:"required,min=1,max=120"`
	Description string     `json:"description,omitempty" validate:"omitempty,max=2000"`
	Visibility  string     `json:"visibility" validate:"required,oneof=public private"`
	CoverURL    string     `json:"cover_url,omitempty" validate:"omitempty,url"`
	PortraitURL string     `json:"portrait_url,omitempty" validate:"omitempty,url"`
	BirthDate   *time.Time `json:"birth_date,omitempty"`
	DeathDate   *time.Time `json:"death_date,omitempty"`
}

// UpdateMemorialRequest defines the request body for updating a memorial (owner only)
type UpdateMemorialRequest struct {
	Title       string     `json:"title,omitempty" validate:"omitempty,min=1,max=120"`
	Description string     `json:"description,omitempty" validate:"omitempty,max=2000"`
	Visibility  string     `json:"visibility,omitempty" validate:"omitempty,oneof=public private"`
	CoverURL    string     `json:"cover_url,omitempty" validate:"omitempty,url"`
	PortraitURL string     `json:"portrait_url,omitempty" validate:"omitempty,url"`
	BirthDate   *time.Time `json:"birth_date,omitempty"`
	DeathDate   *time.Time `json:"death_date,omitempty"`
}

// ShareMemorialRequest defines the request body for sharing a memorial by email
type ShareMemorialRequest struct {
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message,omitempty" validate:"omitempty,max=500"`
}
