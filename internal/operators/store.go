package operators

import (
	"context"
	"errors"
)

var (
	ErrOperatorNotFound = errors.New("operator not found")
	ErrUsernameExists   = errors.New("username already exists")
)

type Store interface {
	GetByUsername(ctx context.Context, username string) (*Operator, error)
	Create(ctx context.Context, username, passwordHash string) (*Operator, error)
}
