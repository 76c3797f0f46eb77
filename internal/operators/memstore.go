package operators

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemStore backs the "memory" storage driver for development and tests.
type MemStore struct {
	mu       sync.RWMutex
	accounts map[string]*Operator
}

func NewMemStore() *MemStore {
	return &MemStore{
		accounts: make(map[string]*Operator),
	}
}

func (s *MemStore) GetByUsername(ctx context.Context, username string) (*Operator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	op, ok := s.accounts[username]
	if !ok {
		return nil, ErrOperatorNotFound
	}
	cp := *op
	return &cp, nil
}

func (s *MemStore) Create(ctx context.Context, username, passwordHash string) (*Operator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[username]; ok {
		return nil, ErrUsernameExists
	}

	op := &Operator{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	s.accounts[username] = op

	cp := *op
	return &cp, nil
}
