package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tkucar/inkwell/internal/domain"
	"github.com/tkucar/inkwell/internal/repository"
)

var (
	ErrPostNotFound      = errors.New("post not found")
	ErrNotPostAuthor     = errors.New("only the post author can perform this action")
	ErrEmptyTitle        = errors.New("title must not be empty")
	ErrEmptyContent      = errors.New("content must not be empty")
	ErrTooManyTags       = errors.New("a post can carry at most 10 tags")
	ErrInvalidStatus     = errors.New("status must be draft, scheduled, or published")
	ErrScheduleRequired  = errors.New("a scheduled post needs a future scheduled_for time")
	ErrPublishedTerminal = errors.New("a published post cannot go back to draft or scheduled")
)

type PostService struct {
	postRepo  repository.PostRepository
	userRepo  repository.UserRepository
	statsRepo repository.StatsRepository
}

func NewPostService(
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	statsRepo repository.StatsRepository,
) *PostService {
	return &PostService{
		postRepo:  postRepo,
		userRepo:  userRepo,
		statsRepo: statsRepo,
	}
}

type PostInput struct {
	Title         string     `json:"title"`
	Content       string     `json:"content"`
	Status        string     `json:"status"`
	Tags          []string   `json:"tags"`
	Category      *string    `json:"category,omitempty"`
	FeaturedImage *string    `json:"featured_image,omitempty"`
	ScheduledFor  *time.Time `json:"scheduled_for,omitempty"`
}

func (s *PostService) Create(ctx context.Context, authorID uuid.UUID, input PostInput) (*domain.Post, error) {
	if input.Status == "" {
		input.Status = domain.PostStatusDraft
	}
	if err := validatePostInput(input); err != nil {
		return nil, err
	}

	now := time.Now()
	post := &domain.Post{
		ID:            uuid.New(),
		AuthorID:      authorID,
		Title:         strings.TrimSpace(input.Title),
		Content:       input.Content,
		Status:        input.Status,
		Tags:          input.Tags,
		Category:      input.Category,
		FeaturedImage: input.FeaturedImage,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}

	switch input.Status {
	case domain.PostStatusScheduled:
		if input.ScheduledFor == nil || !input.ScheduledFor.After(now) {
			return nil, ErrScheduleRequired
		}
		post.ScheduledFor = input.ScheduledFor
	case domain.PostStatusPublished:
		publishedAt := now
		post.PublishedAt = &publishedAt
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("creating post: %w", err)
	}
	return post, nil
}

func (s *PostService) Update(ctx context.Context, postID, callerID uuid.UUID, input PostInput) (*domain.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	if post.AuthorID != callerID {
		return nil, ErrNotPostAuthor
	}

	if input.Status == "" {
		input.Status = post.Status
	}
	if err := validatePostInput(input); err != nil {
		return nil, err
	}

	now := time.Now()
	if input.Status != post.Status {
		if err := s.applyTransition(post, input, now); err != nil {
			return nil, err
		}
	} else if post.Status == domain.PostStatusScheduled && input.ScheduledFor != nil {
		// Rescheduling before the sweep fires is allowed, same future rule.
		if !input.ScheduledFor.After(now) {
			return nil, ErrScheduleRequired
		}
		post.ScheduledFor = input.ScheduledFor
	}

	post.Title = strings.TrimSpace(input.Title)
	post.Content = input.Content
	post.Tags = input.Tags
	if post.Tags == nil {
		post.Tags = []string{}
	}
	post.Category = input.Category
	post.FeaturedImage = input.FeaturedImage
	post.UpdatedAt = now

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("updating post: %w", err)
	}
	return post, nil
}

// applyTransition enforces the status machine: draft can go anywhere,
// scheduled can fire early or fall back to draft, published is terminal.
func (s *PostService) applyTransition(post *domain.Post, input PostInput, now time.Time) error {
	if post.Status == domain.PostStatusPublished {
		return ErrPublishedTerminal
	}

	switch input.Status {
	case domain.PostStatusDraft:
		post.Status = domain.PostStatusDraft
		post.ScheduledFor = nil
	case domain.PostStatusScheduled:
		if input.ScheduledFor == nil || !input.ScheduledFor.After(now) {
			return ErrScheduleRequired
		}
		post.Status = domain.PostStatusScheduled
		post.ScheduledFor = input.ScheduledFor
	case domain.PostStatusPublished:
		post.Status = domain.PostStatusPublished
		if post.PublishedAt == nil {
			publishedAt := now
			post.PublishedAt = &publishedAt
		}
		post.ScheduledFor = nil
	}
	return nil
}

// Get returns a post for its author's edit view. Unpublished posts are
// visible to their author only.
func (s *PostService) Get(ctx context.Context, postID, callerID uuid.UUID) (*domain.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	if post.Status != domain.PostStatusPublished && post.AuthorID != callerID {
		return nil, ErrPostNotFound
	}
	return post, nil
}

// GetPublished is the public read path: the post must exist, belong to the
// user holding the username, and be published.
func (s *PostService) GetPublished(ctx context.Context, username string, postID uuid.UUID) (*domain.Post, error) {
	owner, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, ErrPostNotFound
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil || post.AuthorID != owner.ID || post.Status != domain.PostStatusPublished {
		return nil, ErrPostNotFound
	}
	return post, nil
}

func (s *PostService) ListByAuthor(ctx context.Context, authorID uuid.UUID, status string) ([]domain.Post, error) {
	if status != "" && !domain.ValidPostStatus(status) {
		return nil, ErrInvalidStatus
	}
	posts, err := s.postRepo.ListByAuthor(ctx, authorID, status)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []domain.Post{}
	}
	return posts, nil
}

func (s *PostService) ListPublished(ctx context.Context, limit, offset int) ([]domain.Post, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	posts, err := s.postRepo.ListPublished(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []domain.Post{}
	}
	return posts, nil
}

// SearchPublished is a best-effort title substring match, no ranking.
func (s *PostService) SearchPublished(ctx context.Context, query string, limit int) ([]domain.Post, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	posts, err := s.postRepo.SearchPublished(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []domain.Post{}
	}
	return posts, nil
}

func (s *PostService) Delete(ctx context.Context, postID, callerID uuid.UUID) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrPostNotFound
	}
	if post.AuthorID != callerID {
		return ErrNotPostAuthor
	}
	return s.postRepo.Delete(ctx, postID)
}

// IncrementView bumps the running counter and feeds the daily rollup.
// Views are never deduplicated: every page load counts. The two bumps are
// individually atomic; brief divergence between them is tolerated.
func (s *PostService) IncrementView(ctx context.Context, postID uuid.UUID) error {
	found, err := s.postRepo.IncrementView(ctx, postID)
	if err != nil {
		return fmt.Errorf("incrementing view count: %w", err)
	}
	if !found {
		return ErrPostNotFound
	}

	now := time.Now().UTC()
	if err := s.statsRepo.RecordView(ctx, postID, now.Format(domain.DayKey), now); err != nil {
		return fmt.Errorf("recording daily view: %w", err)
	}
	return nil
}

// PublishDue flips every scheduled post whose time has come. Invoked by an
// external time trigger; repeat invocations are harmless since published
// posts no longer match the scan.
func (s *PostService) PublishDue(ctx context.Context, now time.Time) (int64, error) {
	count, err := s.postRepo.PublishDue(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("publishing due posts: %w", err)
	}
	return count, nil
}

func validatePostInput(input PostInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return ErrEmptyTitle
	}
	if strings.TrimSpace(input.Content) == "" {
		return ErrEmptyContent
	}
	if !domain.ValidPostStatus(input.Status) {
		return ErrInvalidStatus
	}
	if len(input.Tags) > domain.MaxPostTags {
		return ErrTooManyTags
	}
	return nil
}
