package operators

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PGStore struct {
	pool *pgxpool.Pool
}

func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

func (s *PGStore) GetByUsername(ctx context.Context, username string) (*Operator, error) {
	var op Operator
	err := s.pool.QueryRow(ctx,
		`SELECT id, username, password_hash, created_at FROM operators WHERE username = $1`,
		username).Scan(&op.ID, &op.Username, &op.PasswordHash, &op.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOperatorNotFound
		}
		return nil, fmt.Errorf("query operator: %w", err)
	}
	return &op, nil
}

func (s *PGStore) Create(ctx context.Context, username, passwordHash string) (*Operator, error) {
	var op Operator
	err := s.pool.QueryRow(ctx,
		`INSERT INTO operators (username, password_hash)
		VALUES ($1, $2)
		RETURNING id, username, password_hash, created_at`,
		username, passwordHash).Scan(&op.ID, &op.Username, &op.PasswordHash, &op.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrUsernameExists
		}
		return nil, fmt.Errorf("create operator: %w", err)
	}
	return &op, nil
}
