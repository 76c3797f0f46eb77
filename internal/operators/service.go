package operators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/koronatech/entryhub/internal/auth"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type Service struct {
	store  Store
	config auth.JWTConfig
}

func NewService(store Store, config auth.JWTConfig) *Service {
	return &Service{
		store:  store,
		config: config,
	}
}

// Login verifies operator credentials and returns a signed token.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	op, err := s.store.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrOperatorNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("query operator: %w", err)
	}

	if !CheckPassword(password, op.PasswordHash) {
		return "", ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(s.config, op.ID, op.Username)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return token, nil
}

// SeedAdmin creates the initial operator account if it does not exist
// yet. Like the device roster, the seed never overwrites an existing
// account.
func (s *Service) SeedAdmin(ctx context.Context, username, password string) error {
	if _, err := s.store.GetByUsername(ctx, username); err == nil {
		return nil
	} else if !errors.Is(err, ErrOperatorNotFound) {
		return fmt.Errorf("check admin account: %w", err)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	if _, err := s.store.Create(ctx, username, hash); err != nil {
		if errors.Is(err, ErrUsernameExists) {
			return nil
		}
		return fmt.Errorf("create admin account: %w", err)
	}

	slog.Info("Seeded initial operator account", "username", username)
	return nil
}
