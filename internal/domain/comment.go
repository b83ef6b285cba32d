package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	CommentStatusApproved = "approved"
	CommentStatusPending  = "pending"
	CommentStatusRejected = "rejected"
)

type Comment struct {
	ID          uuid.UUID  `json:"id"`
	PostID      uuid.UUID  `json:"post_id"`
	AuthorID    *uuid.UUID `json:"author_id,omitempty"`
	AuthorName  string     `json:"author_name"`
	AuthorEmail *string    `json:"author_email,omitempty"`
	Content     string     `json:"content"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
}

func ValidCommentStatus(s string) bool {
	return s == CommentStatusApproved || s == CommentStatusPending || s == CommentStatusRejected
}
