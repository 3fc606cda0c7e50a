package models

import (
	"time"
)

// ArticleStatus is the publication state of an article
type ArticleStatus string

const (
	StatusPublished ArticleStatus = "published"
	StatusArchived  ArticleStatus = "archived"
)

// ValidStatuses defines allowed article statuses
var ValidStatuses = map[ArticleStatus]bool{
	StatusPublished: true,
	StatusArchived:  true,
}

// Article represents an article in the system
type Article struct {
	ID        int64         `json:"id" db:"id"`
	Title     string        `json:"title" db:"title"`
	Content   string        `json:"content" db:"content"`
	Excerpt   *string       `json:"excerpt" db:"excerpt"`
	Status    ArticleStatus `json:"status" db:"status"`
	UserID    int64         `json:"user_id" db:"user_id"`
	CreatedAt time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt time.Time     `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time    `json:"-" db:"deleted_at"`

	Author *UserSummary `json:"author,omitempty" db:"-"`
	Tags   []*Tag       `json:"tags" db:"-"`
}

// OwnerID returns the id of the authoring user
func (a *Article) OwnerID() int64 {
	return a.UserID
}
