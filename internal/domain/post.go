package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	PostStatusDraft     = "draft"
	PostStatusScheduled = "scheduled"
	PostStatusPublished = "published"
)

const MaxPostTags = 10

type Post struct {
	ID            uuid.UUID  `json:"id"`
	AuthorID      uuid.UUID  `json:"author_id"`
	Title         string     `json:"title"`
	Content       string     `json:"content"`
	Status        string     `json:"status"`
	Tags          []string   `json:"tags"`
	Category      *string    `json:"category,omitempty"`
	FeaturedImage *string    `json:"featured_image,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	PublishedAt   *time.Time `json:"published_at,omitempty"`
	ScheduledFor  *time.Time `json:"scheduled_for,omitempty"`
	ViewCount     int64      `json:"view_count"`
	LikeCount     int64      `json:"like_count"`
	// Joined fields
	AuthorUsername    *string `json:"author_username,omitempty"`
	AuthorDisplayName string  `json:"author_display_name,omitempty"`
}

// ValidPostStatus reports whether s is one of the three post states.
func ValidPostStatus(s string) bool {
	return s == PostStatusDraft || s == PostStatusScheduled || s == PostStatusPublished
}
