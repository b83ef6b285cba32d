package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tkucar/inkwell/internal/repository"
)

type LikeService struct {
	likeRepo repository.LikeRepository
	postRepo repository.PostRepository
}

func NewLikeService(likeRepo repository.LikeRepository, postRepo repository.PostRepository) *LikeService {
	return &LikeService{
		likeRepo: likeRepo,
		postRepo: postRepo,
	}
}

type ToggleResult struct {
	Liked     bool  `json:"liked"`
	LikeCount int64 `json:"like_count"`
}

// Toggle flips the caller's like on a post. The membership flip and the
// counter adjustment happen in one atomic unit inside the store, so two
// concurrent toggles for the same pair can never double-insert or strand
// the counter.
func (s *LikeService) Toggle(ctx context.Context, postID, userID uuid.UUID) (*ToggleResult, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	liked, likeCount, err := s.likeRepo.Toggle(ctx, postID, userID, time.Now())
	if err != nil {
		return nil, fmt.Errorf("toggling like: %w", err)
	}
	return &ToggleResult{Liked: liked, LikeCount: likeCount}, nil
}

func (s *LikeService) HasLiked(ctx context.Context, postID, userID uuid.UUID) (bool, error) {
	return s.likeRepo.Exists(ctx, postID, userID)
}
