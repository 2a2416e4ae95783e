package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"portfolio/internal/config"
	"portfolio/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuth(t *testing.T) *AuthService {
	t.Helper()
	hash, err := utils.HashPassword("secret")
	require.NoError(t, err)
	return NewAuthService(&config.Config{
		AdminUsername:     "admin",
		AdminPasswordHash: hash,
		JWTSecret:         "mysecret",
		AccessTokenTTL:    "15m",
	})
}

func TestLoginSuccess(t *testing.T) {
	svc := newTestAuth(t)

	token, exp, err := svc.Login(context.Background(), " admin ", "secret")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), exp, 5*time.Second)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Subject)
	assert.Equal(t, RoleAdmin, claims.Role)
}

func TestLoginFail(t *testing.T) {
	svc := newTestAuth(t)

	_, _, err := svc.Login(context.Background(), "admin", "wrong")
	assert.True(t, errors.Is(err, ErrInvalidCredentials))

	_, _, err = svc.Login(context.Background(), "root", "secret")
	assert.True(t, errors.Is(err, ErrInvalidCredentials))
}

func TestLoginDisabledWithoutHash(t *testing.T) {
	svc := NewAuthService(&config.Config{AdminUsername: "admin", JWTSecret: "s"})
	_, _, err := svc.Login(context.Background(), "admin", "")
	assert.True(t, errors.Is(err, ErrLoginDisabled))
}

func TestVerifyRejectsForeignToken(t *testing.T) {
	svc := newTestAuth(t)
	foreign, err := utils.GenerateToken("other-secret", "admin", RoleAdmin, time.Minute)
	require.NoError(t, err)

	_, err = svc.Verify(foreign)
	assert.True(t, errors.Is(err, utils.ErrInvalidToken))
}
