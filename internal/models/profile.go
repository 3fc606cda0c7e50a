package models

import (
	"time"
)

// Profile holds the personal details of exactly one user
type Profile struct {
	ID        int64      `json:"id" db:"id"`
	UserID    int64      `json:"user_id" db:"user_id"`
	FirstName string     `json:"first_name" db:"first_name"`
	LastName  string     `json:"last_name" db:"last_name"`
	Biography *string    `json:"biography" db:"biography"`
	AvatarURL *string    `json:"avatar_url" db:"avatar_url"`
	BirthDate *time.Time `json:"birth_date" db:"birth_date"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}

// AvatarUpload is a presigned upload target for a profile picture
type AvatarUpload struct {
	UploadURL string    `json:"upload_url"`
	AvatarURL string    `json:"avatar_url"`
	Method    string    `json:"method"`
	ExpiresAt time.Time `json:"expires_at"`
}
