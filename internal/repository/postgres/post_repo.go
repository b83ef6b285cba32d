package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tkucar/inkwell/internal/domain"
)

type PostRepo struct {
	pool *pgxpool.Pool
}

func NewPostRepo(pool *pgxpool.Pool) *PostRepo {
	return &PostRepo{pool: pool}
}

func (r *PostRepo) Create(ctx context.Context, post *domain.Post) error {
	query := `
		INSERT INTO posts (id, author_id, title, content, status, tags, category, featured_image,
			created_at, updated_at, published_at, scheduled_for, view_count, like_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := r.pool.Exec(ctx, query,
		post.ID, post.AuthorID, post.Title, post.Content, post.Status,
		post.Tags, post.Category, post.FeaturedImage,
		post.CreatedAt, post.UpdatedAt, post.PublishedAt, post.ScheduledFor,
		post.ViewCount, post.LikeCount,
	)
	return err
}

const selectPost = `
	SELECT p.id, p.author_id, p.title, p.content, p.status, p.tags, p.category, p.featured_image,
		p.created_at, p.updated_at, p.published_at, p.scheduled_for, p.view_count, p.like_count,
		u.username, u.display_name
	FROM posts p
	JOIN users u ON p.author_id = u.id`

func (r *PostRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	var p domain.Post
	err := scanPostRow(r.pool.QueryRow(ctx, selectPost+" WHERE p.id = $1", id), &p)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostRepo) Update(ctx context.Context, post *domain.Post) error {
	query := `
		UPDATE posts SET title = $2, content = $3, status = $4, tags = $5, category = $6,
			featured_image = $7, updated_at = $8, published_at = $9, scheduled_for = $10
		WHERE id = $1`

	_, err := r.pool.Exec(ctx, query,
		post.ID, post.Title, post.Content, post.Status, post.Tags, post.Category,
		post.FeaturedImage, post.UpdatedAt, post.PublishedAt, post.ScheduledFor,
	)
	return err
}

func (r *PostRepo) Delete(ctx context.Context, id uuid.UUID) error {
	// Comments, likes and daily stats go with it via FK cascades.
	_, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	return err
}

func (r *PostRepo) ListByAuthor(ctx context.Context, authorID uuid.UUID, status string) ([]domain.Post, error) {
	query := selectPost + ` WHERE p.author_id = $1`
	args := []any{authorID}
	if status != "" {
		query += ` AND p.status = $2`
		args = append(args, status)
	}
	query += ` ORDER BY p.created_at DESC`

	return r.listPosts(ctx, query, args...)
}

func (r *PostRepo) ListPublished(ctx context.Context, limit, offset int) ([]domain.Post, error) {
	query := selectPost + `
		WHERE p.status = 'published'
		ORDER BY p.published_at DESC
		LIMIT $1 OFFSET $2`

	return r.listPosts(ctx, query, limit, offset)
}

func (r *PostRepo) SearchPublished(ctx context.Context, search string, limit int) ([]domain.Post, error) {
	query := selectPost + `
		WHERE p.status = 'published' AND p.title ILIKE '%' || $1 || '%'
		ORDER BY p.published_at DESC
		LIMIT $2`

	return r.listPosts(ctx, query, search, limit)
}

func (r *PostRepo) IncrementView(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE posts SET view_count = view_count + 1 WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *PostRepo) PublishDue(ctx context.Context, now time.Time) (int64, error) {
	// published_at takes the scheduled time, not the sweep's wall clock, so
	// reader-facing ordering stays deterministic across late sweeps.
	query := `
		UPDATE posts SET status = 'published', published_at = scheduled_for, updated_at = $1
		WHERE status = 'scheduled' AND scheduled_for <= $1`

	tag, err := r.pool.Exec(ctx, query, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *PostRepo) listPosts(ctx context.Context, query string, args ...any) ([]domain.Post, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []domain.Post
	for rows.Next() {
		var p domain.Post
		if err := scanPostRow(rows, &p); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func scanPostRow(row pgx.Row, p *domain.Post) error {
	return row.Scan(
		&p.ID, &p.AuthorID, &p.Title, &p.Content, &p.Status, &p.Tags, &p.Category, &p.FeaturedImage,
		&p.CreatedAt, &p.UpdatedAt, &p.PublishedAt, &p.ScheduledFor, &p.ViewCount, &p.LikeCount,
		&p.AuthorUsername, &p.AuthorDisplayName,
	)
}
