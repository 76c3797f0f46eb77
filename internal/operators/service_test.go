package operators

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koronatech/entryhub/internal/auth"
)

var testJWT = auth.JWTConfig{Secret: "test-secret", TTL: time.Hour}

func TestLogin(t *testing.T) {
	store := NewMemStore()
	svc := NewService(store, testJWT)
	require.NoError(t, svc.SeedAdmin(context.Background(), "admin", "s3cret-pass"))

	token, err := svc.Login(context.Background(), "admin", "s3cret-pass")
	require.NoError(t, err)

	claims, err := auth.ValidateToken(testJWT.Secret, token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)
}

func TestLoginWrongPassword(t *testing.T) {
	store := NewMemStore()
	svc := NewService(store, testJWT)
	require.NoError(t, svc.SeedAdmin(context.Background(), "admin", "s3cret-pass"))

	_, err := svc.Login(context.Background(), "admin", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownUser(t *testing.T) {
	store := NewMemStore()
	svc := NewService(store, testJWT)

	_, err := svc.Login(context.Background(), "ghost", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSeedAdminIsIdempotent(t *testing.T) {
	store := NewMemStore()
	svc := NewService(store, testJWT)

	require.NoError(t, svc.SeedAdmin(context.Background(), "admin", "first-pass"))
	require.NoError(t, svc.SeedAdmin(context.Background(), "admin", "second-pass"))

	// The original password still works; the seed never overwrites.
	_, err := svc.Login(context.Background(), "admin", "first-pass")
	assert.NoError(t, err)
	_, err = svc.Login(context.Background(), "admin", "second-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
