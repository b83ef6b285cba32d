package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tkucar/inkwell/internal/domain"
)

type FollowRepo struct {
	pool *pgxpool.Pool
}

func NewFollowRepo(pool *pgxpool.Pool) *FollowRepo {
	return &FollowRepo{pool: pool}
}

func (r *FollowRepo) Create(ctx context.Context, follow *domain.Follow) error {
	// Following someone twice is a no-op, not an error.
	query := `
		INSERT INTO follows (id, follower_id, following_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (follower_id, following_id) DO NOTHING`

	_, err := r.pool.Exec(ctx, query, follow.ID, follow.FollowerID, follow.FollowingID, follow.CreatedAt)
	return err
}

func (r *FollowRepo) Delete(ctx context.Context, followerID, followingID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM follows WHERE follower_id = $1 AND following_id = $2`,
		followerID, followingID,
	)
	return err
}

func (r *FollowRepo) Exists(ctx context.Context, followerID, followingID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM follows WHERE follower_id = $1 AND following_id = $2)`,
		followerID, followingID,
	).Scan(&exists)
	return exists, err
}

func (r *FollowRepo) ListFollowers(ctx context.Context, userID uuid.UUID) ([]domain.Follow, error) {
	query := `
		SELECT f.id, f.follower_id, f.following_id, f.created_at,
			u.display_name, u.username, u.avatar_url
		FROM follows f
		JOIN users u ON f.follower_id = u.id
		WHERE f.following_id = $1
		ORDER BY f.created_at DESC`

	return r.listFollows(ctx, query, userID)
}

func (r *FollowRepo) ListFollowing(ctx context.Context, userID uuid.UUID) ([]domain.Follow, error) {
	query := `
		SELECT f.id, f.follower_id, f.following_id, f.created_at,
			u.display_name, u.username, u.avatar_url
		FROM follows f
		JOIN users u ON f.following_id = u.id
		WHERE f.follower_id = $1
		ORDER BY f.created_at DESC`

	return r.listFollows(ctx, query, userID)
}

func (r *FollowRepo) Counts(ctx context.Context, userID uuid.UUID) (int64, int64, error) {
	var followers, following int64
	err := r.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM follows WHERE following_id = $1),
			(SELECT COUNT(*) FROM follows WHERE follower_id = $1)`,
		userID,
	).Scan(&followers, &following)
	return followers, following, err
}

func (r *FollowRepo) listFollows(ctx context.Context, query string, userID uuid.UUID) ([]domain.Follow, error) {
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var follows []domain.Follow
	for rows.Next() {
		var f domain.Follow
		if err := rows.Scan(
			&f.ID, &f.FollowerID, &f.FollowingID, &f.CreatedAt,
			&f.OtherDisplayName, &f.OtherUsername, &f.OtherAvatarURL,
		); err != nil {
			return nil, err
		}
		follows = append(follows, f)
	}
	return follows, rows.Err()
}
