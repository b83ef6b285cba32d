package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tkucar/inkwell/internal/domain"
	"github.com/tkucar/inkwell/internal/repository"
)

var ErrSelfFollow = errors.New("cannot follow yourself")

type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository) *FollowService {
	return &FollowService{
		followRepo: followRepo,
		userRepo:   userRepo,
	}
}

// Follow inserts the directed edge. Following someone you already follow
// is idempotent: one row, no error.
func (s *FollowService) Follow(ctx context.Context, followerID, followingID uuid.UUID) error {
	if followerID == followingID {
		return ErrSelfFollow
	}

	target, err := s.userRepo.GetByID(ctx, followingID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrUserNotFound
	}

	follow := &domain.Follow{
		ID:          uuid.New(),
		FollowerID:  followerID,
		FollowingID: followingID,
		CreatedAt:   time.Now(),
	}
	if err := s.followRepo.Create(ctx, follow); err != nil {
		return fmt.Errorf("creating follow: %w", err)
	}
	return nil
}

func (s *FollowService) Unfollow(ctx context.Context, followerID, followingID uuid.UUID) error {
	if followerID == followingID {
		return ErrSelfFollow
	}
	return s.followRepo.Delete(ctx, followerID, followingID)
}

func (s *FollowService) IsFollowing(ctx context.Context, followerID, followingID uuid.UUID) (bool, error) {
	return s.followRepo.Exists(ctx, followerID, followingID)
}

func (s *FollowService) ListFollowers(ctx context.Context, userID uuid.UUID) ([]domain.Follow, error) {
	follows, err := s.followRepo.ListFollowers(ctx, userID)
	if err != nil {
		return nil, err
	}
	if follows == nil {
		follows = []domain.Follow{}
	}
	return follows, nil
}

func (s *FollowService) ListFollowing(ctx context.Context, userID uuid.UUID) ([]domain.Follow, error) {
	follows, err := s.followRepo.ListFollowing(ctx, userID)
	if err != nil {
		return nil, err
	}
	if follows == nil {
		follows = []domain.Follow{}
	}
	return follows, nil
}

type FollowCounts struct {
	Followers int64 `json:"followers"`
	Following int64 `json:"following"`
}

func (s *FollowService) Counts(ctx context.Context, userID uuid.UUID) (*FollowCounts, error) {
	followers, following, err := s.followRepo.Counts(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &FollowCounts{Followers: followers, Following: following}, nil
}
