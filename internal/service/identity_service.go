package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tkucar/inkwell/internal/domain"
	"github.com/tkucar/inkwell/internal/repository"
	"github.com/tkucar/inkwell/pkg/validator"
)

var (
	ErrUnauthenticated = errors.New("no identity presented")
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidUsername = errors.New("username must be 3-20 characters of letters, numbers, _ and -")
	ErrUsernameTaken   = errors.New("username already taken")
)

// anonymousName is used when the identity provider supplies no display name.
const anonymousName = "Anonymous"

type IdentityService struct {
	userRepo repository.UserRepository
}

func NewIdentityService(userRepo repository.UserRepository) *IdentityService {
	return &IdentityService{userRepo: userRepo}
}

// StoreOrRefresh maps an external identity onto the internal user row,
// creating it on first contact. Repeated calls converge to one row because
// the write is an upsert keyed on the token_identifier unique index, not a
// read followed by an insert.
func (s *IdentityService) StoreOrRefresh(ctx context.Context, identity domain.Identity) (uuid.UUID, error) {
	if identity.TokenIdentifier == "" {
		return uuid.Nil, ErrUnauthenticated
	}

	displayName := identity.DisplayName
	if displayName == "" {
		displayName = anonymousName
	}

	now := time.Now()
	user := &domain.User{
		ID:              uuid.New(),
		DisplayName:     displayName,
		Email:           identity.Email,
		AvatarURL:       identity.AvatarURL,
		TokenIdentifier: identity.TokenIdentifier,
		CreatedAt:       now,
		LastActiveAt:    now,
	}

	id, err := s.userRepo.Upsert(ctx, user)
	if err != nil {
		return uuid.Nil, fmt.Errorf("storing user: %w", err)
	}
	return id, nil
}

// ClaimUsername sets the user's username. The availability check is the
// unique index itself: a concurrent claim of the same candidate surfaces as
// a conflict on write, and exactly one caller wins.
func (s *IdentityService) ClaimUsername(ctx context.Context, userID uuid.UUID, candidate string) (uuid.UUID, error) {
	if !validator.ValidUsername(candidate) {
		return uuid.Nil, ErrInvalidUsername
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return uuid.Nil, err
	}
	if user == nil {
		return uuid.Nil, ErrUserNotFound
	}

	// Re-claiming your own username is a no-op success.
	if user.Username != nil && *user.Username == candidate {
		return user.ID, nil
	}

	err = s.userRepo.ClaimUsername(ctx, userID, candidate, time.Now())
	if errors.Is(err, repository.ErrConflict) {
		return uuid.Nil, ErrUsernameTaken
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("claiming username: %w", err)
	}
	return user.ID, nil
}

// GetByUsername returns the public profile projection, or nil if no user
// holds the name.
func (s *IdentityService) GetByUsername(ctx context.Context, username string) (*domain.Profile, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	profile := user.Profile()
	return &profile, nil
}

// GetCurrent returns the full user record for the presented identity, or
// nil if the identity has never contacted the core.
func (s *IdentityService) GetCurrent(ctx context.Context, identity domain.Identity) (*domain.User, error) {
	if identity.TokenIdentifier == "" {
		return nil, nil
	}
	return s.userRepo.GetByToken(ctx, identity.TokenIdentifier)
}

// SearchUsers is a best-effort substring match on display name or email.
func (s *IdentityService) SearchUsers(ctx context.Context, query string, limit int) ([]domain.Profile, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}

	users, err := s.userRepo.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	profiles := make([]domain.Profile, 0, len(users))
	for i := range users {
		profiles = append(profiles, users[i].Profile())
	}
	return profiles, nil
}
