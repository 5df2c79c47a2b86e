package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_RegisterAndLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, "secret", time.Hour)
	ctx := context.Background()

	user, err := svc.Register(ctx, "Ann", " Ann@Example.com ", "password123", "")
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", user.Email)
	assert.Empty(t, user.PasswordHash)

	token, loggedIn, err := svc.Login(ctx, "ann@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "Ann", claims.Name)
	assert.Equal(t, TokenIssuer, claims.Issuer)
}

func TestAuthService_RegisterDuplicate(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo(), "secret", time.Hour)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Ann", "ann@example.com", "password123", "")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "Ann 2", "ann@example.com", "password456", "")
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestAuthService_LoginWrongPassword(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo(), "secret", time.Hour)
	ctx := context.Background()
	_, err := svc.Register(ctx, "Ann", "ann@example.com", "password123", "")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "ann@example.com", "nope-nope")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)

	_, _, err = svc.Login(ctx, "ghost@example.com", "password123")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestAuthService_CurrentUser(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo(), "secret", time.Hour)
	ctx := context.Background()
	user, err := svc.Register(ctx, "Ann", "ann@example.com", "password123", "+1 555")
	require.NoError(t, err)

	got, err := svc.CurrentUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "+1 555", got.Phone)
	assert.Empty(t, got.PasswordHash)

	_, err = svc.CurrentUser(ctx, "unknown")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestNewAuthService_PanicsWithoutSecret(t *testing.T) {
	assert.Panics(t, func() { NewAuthService(newFakeUserRepo(), "", time.Hour) })
}
