package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type LikeRepo struct {
	pool *pgxpool.Pool
}

func NewLikeRepo(pool *pgxpool.Pool) *LikeRepo {
	return &LikeRepo{pool: pool}
}

// Toggle runs the whole read-decide-write as one transaction keyed on the
// (post_id, user_id) unique index. The conditional insert is the decision
// point: two concurrent togglers cannot both take the insert branch, the
// loser's insert affects zero rows and it flips to the delete branch. The
// delete branch only adjusts the counter when its DELETE removed a row, so
// two togglers racing off the same liked row produce exactly one decrement.
func (r *LikeRepo) Toggle(ctx context.Context, postID, userID uuid.UUID, now time.Time) (bool, int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, 0, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		INSERT INTO likes (id, post_id, user_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (post_id, user_id) DO NOTHING`,
		uuid.New(), postID, userID, now,
	)
	if err != nil {
		return false, 0, err
	}

	liked := tag.RowsAffected() == 1
	var likeCount int64
	if liked {
		err = tx.QueryRow(ctx,
			`UPDATE posts SET like_count = like_count + 1 WHERE id = $1 RETURNING like_count`,
			postID,
		).Scan(&likeCount)
	} else {
		tag, err = tx.Exec(ctx,
			`DELETE FROM likes WHERE post_id = $1 AND user_id = $2`, postID, userID,
		)
		if err != nil {
			return false, 0, err
		}
		if tag.RowsAffected() == 1 {
			err = tx.QueryRow(ctx,
				`UPDATE posts SET like_count = GREATEST(like_count - 1, 0) WHERE id = $1 RETURNING like_count`,
				postID,
			).Scan(&likeCount)
		} else {
			// The row was already gone when the delete ran: a concurrent
			// toggle removed it and adjusted the counter. Decrementing here
			// too would drift the counter below the true row count.
			err = tx.QueryRow(ctx,
				`SELECT like_count FROM posts WHERE id = $1`, postID,
			).Scan(&likeCount)
		}
	}
	if err != nil {
		return false, 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return false, 0, err
	}
	return liked, likeCount, nil
}

func (r *LikeRepo) Exists(ctx context.Context, postID, userID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM likes WHERE post_id = $1 AND user_id = $2)`,
		postID, userID,
	).Scan(&exists)
	return exists, err
}
