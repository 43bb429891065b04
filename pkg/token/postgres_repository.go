package token

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL token repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{
		pool: pool,
	}
}

// Save stores a token.
func (r *PostgresRepository) Save(ctx context.Context, token AccessToken) error {
	query := `
		INSERT INTO access_tokens (id, created_at)
		VALUES ($1, NOW())
		ON CONFLICT (id) DO NOTHING
	`

	if _, err := r.pool.Exec(ctx, query, token.ID); err != nil {
		return fmt.Errorf("failed to save access token: %w", err)
	}
	return nil
}

// Get looks up a token by id.
func (r *PostgresRepository) Get(ctx context.Context, id uuid.UUID) (*AccessToken, error) {
	query := `
		SELECT id
		FROM access_tokens
		WHERE id = $1
	`

	token := &AccessToken{}
	err := r.pool.QueryRow(ctx, query, id).Scan(&token.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get access token: %w", err)
	}
	return token, nil
}
