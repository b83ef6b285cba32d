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
	ErrCommentNotFound      = errors.New("comment not found")
	ErrEmptyComment         = errors.New("comment content must not be empty")
	ErrInvalidCommentStatus = errors.New("comment status must be approved, pending, or rejected")
	ErrNotCommentOwner      = errors.New("only the comment author or the post author can delete a comment")
)

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
	}
}

// CommentAuthor carries whoever wrote the comment: an authenticated user
// (UserID set) or an anonymous guest (name and optional email only).
type CommentAuthor struct {
	UserID *uuid.UUID
	Name   string
	Email  *string
}

func (s *CommentService) Add(ctx context.Context, postID uuid.UUID, author CommentAuthor, content string) (*domain.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyComment
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	name := strings.TrimSpace(author.Name)
	if name == "" {
		name = anonymousName
	}

	comment := &domain.Comment{
		ID:          uuid.New(),
		PostID:      postID,
		AuthorID:    author.UserID,
		AuthorName:  name,
		AuthorEmail: author.Email,
		Content:     content,
		// No moderation queue by default policy; the status field exists
		// for forward compatibility.
		Status:    domain.CommentStatusApproved,
		CreatedAt: time.Now(),
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("creating comment: %w", err)
	}
	return comment, nil
}

// List returns a post's comments ordered by creation time, oldest first.
// An empty statusFilter means approved.
func (s *CommentService) List(ctx context.Context, postID uuid.UUID, statusFilter string) ([]domain.Comment, error) {
	if statusFilter == "" {
		statusFilter = domain.CommentStatusApproved
	}
	if !domain.ValidCommentStatus(statusFilter) {
		return nil, ErrInvalidCommentStatus
	}

	comments, err := s.commentRepo.ListByPost(ctx, postID, statusFilter)
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []domain.Comment{}
	}
	return comments, nil
}

// Delete removes a comment. Only the comment's author or the author of the
// hosting post may do so; the check lives here, not in any UI.
func (s *CommentService) Delete(ctx context.Context, commentID, callerID uuid.UUID) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return ErrCommentNotFound
	}

	allowed := comment.AuthorID != nil && *comment.AuthorID == callerID
	if !allowed {
		post, err := s.postRepo.GetByID(ctx, comment.PostID)
		if err != nil {
			return err
		}
		allowed = post != nil && post.AuthorID == callerID
	}
	if !allowed {
		return ErrNotCommentOwner
	}

	return s.commentRepo.Delete(ctx, commentID)
}
