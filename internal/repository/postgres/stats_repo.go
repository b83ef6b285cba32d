package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tkucar/inkwell/internal/domain"
)

type StatsRepo struct {
	pool *pgxpool.Pool
}

func NewStatsRepo(pool *pgxpool.Pool) *StatsRepo {
	return &StatsRepo{pool: pool}
}

// RecordView is a counter bump keyed on the (post_id, date) unique index.
// High view rates must not lose updates, so the conflict branch increments
// in place instead of rewriting the row.
func (r *StatsRepo) RecordView(ctx context.Context, postID uuid.UUID, date string, now time.Time) error {
	query := `
		INSERT INTO daily_stats (id, post_id, date, views, created_at, updated_at)
		VALUES ($1, $2, $3, 1, $4, $4)
		ON CONFLICT (post_id, date) DO UPDATE SET
			views = daily_stats.views + 1,
			updated_at = EXCLUDED.updated_at`

	_, err := r.pool.Exec(ctx, query, uuid.New(), postID, date, now)
	return err
}

func (r *StatsRepo) GetRange(ctx context.Context, postID uuid.UUID, fromDate, toDate string) ([]domain.DailyStat, error) {
	query := `
		SELECT id, post_id, date, views, created_at, updated_at
		FROM daily_stats
		WHERE post_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date ASC`

	rows, err := r.pool.Query(ctx, query, postID, fromDate, toDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []domain.DailyStat
	for rows.Next() {
		var s domain.DailyStat
		if err := rows.Scan(&s.ID, &s.PostID, &s.Date, &s.Views, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

func (r *StatsRepo) TotalViews(ctx context.Context, postID uuid.UUID) (int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(views), 0) FROM daily_stats WHERE post_id = $1`,
		postID,
	).Scan(&total)
	return total, err
}
