package domain

import (
	"time"

	"github.com/google/uuid"
)

// Like is a row in the (post, user) membership set behind the toggle
// operation. At most one row may exist per pair.
type Like struct {
	ID        uuid.UUID `json:"id"`
	PostID    uuid.UUID `json:"post_id"`
	UserID    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
