package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/tkucar/inkwell/internal/domain"
)

// ErrConflict is returned when a write loses a race on a unique index
// (username claim, like insert). Callers treat it as the authoritative
// "already taken" signal instead of re-reading.
var ErrConflict = errors.New("unique constraint violated")

type UserRepository interface {
	// Upsert inserts the user or, if a row with the same token identifier
	// exists, refreshes display_name and last_active_at. Returns the id of
	// the surviving row.
	Upsert(ctx context.Context, user *domain.User) (uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByToken(ctx context.Context, tokenIdentifier string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	// ClaimUsername is a conditional write: it fails with ErrConflict if
	// another user already holds the name.
	ClaimUsername(ctx context.Context, id uuid.UUID, username string, now time.Time) error
	Search(ctx context.Context, query string, limit int) ([]domain.User, error)
}

type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error)
	Update(ctx context.Context, post *domain.Post) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByAuthor(ctx context.Context, authorID uuid.UUID, status string) ([]domain.Post, error)
	ListPublished(ctx context.Context, limit, offset int) ([]domain.Post, error)
	SearchPublished(ctx context.Context, query string, limit int) ([]domain.Post, error)
	// IncrementView bumps view_count atomically. Returns false if no such
	// post exists.
	IncrementView(ctx context.Context, id uuid.UUID) (bool, error)
	// PublishDue flips every scheduled post with scheduled_for <= now to
	// published, stamping published_at = scheduled_for. Returns the number
	// of posts flipped.
	PublishDue(ctx context.Context, now time.Time) (int64, error)
}

type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error)
	ListByPost(ctx context.Context, postID uuid.UUID, status string) ([]domain.Comment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type LikeRepository interface {
	// Toggle flips membership of (postID, userID) in the like set and
	// adjusts the post's like_count in the same atomic unit. Returns the
	// resulting membership state and counter value.
	Toggle(ctx context.Context, postID, userID uuid.UUID, now time.Time) (liked bool, likeCount int64, err error)
	Exists(ctx context.Context, postID, userID uuid.UUID) (bool, error)
}

type FollowRepository interface {
	// Create inserts the edge if absent; inserting an existing edge is a
	// no-op, not an error.
	Create(ctx context.Context, follow *domain.Follow) error
	Delete(ctx context.Context, followerID, followingID uuid.UUID) error
	Exists(ctx context.Context, followerID, followingID uuid.UUID) (bool, error)
	ListFollowers(ctx context.Context, userID uuid.UUID) ([]domain.Follow, error)
	ListFollowing(ctx context.Context, userID uuid.UUID) ([]domain.Follow, error)
	Counts(ctx context.Context, userID uuid.UUID) (followers, following int64, err error)
}

type StatsRepository interface {
	// RecordView bumps the (postID, date) rollup by one, creating the row
	// with views=1 if absent. A pure counter bump, never a full-row rewrite.
	RecordView(ctx context.Context, postID uuid.UUID, date string, now time.Time) error
	GetRange(ctx context.Context, postID uuid.UUID, fromDate, toDate string) ([]domain.DailyStat, error)
	TotalViews(ctx context.Context, postID uuid.UUID) (int64, error)
}
