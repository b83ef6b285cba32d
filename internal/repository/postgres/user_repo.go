package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tkucar/inkwell/internal/domain"
	"github.com/tkucar/inkwell/internal/repository"
)

const uniqueViolation = "23505"

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) Upsert(ctx context.Context, user *domain.User) (uuid.UUID, error) {
	query := `
		INSERT INTO users (id, display_name, email, avatar_url, token_identifier, created_at, last_active_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (token_identifier) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			last_active_at = EXCLUDED.last_active_at
		RETURNING id`

	var id uuid.UUID
	err := r.pool.QueryRow(ctx, query,
		user.ID, user.DisplayName, user.Email, user.AvatarURL,
		user.TokenIdentifier, user.CreatedAt, user.LastActiveAt,
	).Scan(&id)
	return id, err
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.scanUser(ctx, selectUser+" WHERE id = $1", id)
}

func (r *UserRepo) GetByToken(ctx context.Context, tokenIdentifier string) (*domain.User, error) {
	return r.scanUser(ctx, selectUser+" WHERE token_identifier = $1", tokenIdentifier)
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.scanUser(ctx, selectUser+" WHERE username = $1", username)
}

func (r *UserRepo) ClaimUsername(ctx context.Context, id uuid.UUID, username string, now time.Time) error {
	query := `UPDATE users SET username = $2, last_active_at = $3 WHERE id = $1`

	_, err := r.pool.Exec(ctx, query, id, username, now)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return repository.ErrConflict
	}
	return err
}

func (r *UserRepo) Search(ctx context.Context, query string, limit int) ([]domain.User, error) {
	sql := selectUser + `
		WHERE display_name ILIKE '%' || $1 || '%' OR email ILIKE $1 || '%'
		ORDER BY display_name ASC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, sql, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := scanUserRow(rows, &u); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

const selectUser = `SELECT id, display_name, email, avatar_url, username, token_identifier, created_at, last_active_at FROM users`

func (r *UserRepo) scanUser(ctx context.Context, query string, arg any) (*domain.User, error) {
	var u domain.User
	err := scanUserRow(r.pool.QueryRow(ctx, query, arg), &u)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func scanUserRow(row pgx.Row, u *domain.User) error {
	return row.Scan(
		&u.ID, &u.DisplayName, &u.Email, &u.AvatarURL,
		&u.Username, &u.TokenIdentifier, &u.CreatedAt, &u.LastActiveAt,
	)
}
