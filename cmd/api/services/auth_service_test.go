package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tech-blog/cmd/api/auth"
	"tech-blog/cmd/api/dto"
	"tech-blog/config"
)

func newTestAuthService(t *testing.T, cfg config.AdminConfig) (*AuthService, *auth.JWTManager) {
	t.Helper()
	jwt, err := auth.NewJWTManager("test-secret", "test", time.Hour)
	require.NoError(t, err)
	return NewAuthService(jwt, cfg), jwt
}

func TestAuthServiceLogin(t *testing.T) {
	svc, _ := newTestAuthService(t, config.AdminConfig{Username: "admin", Password: "pw"})

	res, err := svc.Login(dto.LoginRequestDTO{Username: "admin", Password: "pw"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.True(t, res.ExpiresAt.After(time.Now()))

	sub, err := svc.ParseAccessToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin", sub)

	_, err = svc.Login(dto.LoginRequestDTO{Username: "admin", Password: "wrong"})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthServiceRejectsNonAdminRole(t *testing.T) {
	svc, jwt := newTestAuthService(t, config.AdminConfig{Username: "admin", Password: "pw"})

	token, _, err := jwt.Sign("someone", "reader")
	require.NoError(t, err)
	_, err = svc.ParseAccessToken(token)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.ParseAccessToken("garbage")
	assert.Error(t, err)
}

func TestAuthServiceCheckBasic(t *testing.T) {
	svc, _ := newTestAuthService(t, config.AdminConfig{Username: "admin", Password: "pw"})
	assert.True(t, svc.CheckBasic("admin", "pw"))
	assert.False(t, svc.CheckBasic("admin", "pw2"))
	assert.False(t, svc.CheckBasic("Admin", "pw"))

	unconfigured, _ := newTestAuthService(t, config.AdminConfig{})
	assert.False(t, unconfigured.CheckBasic("", ""))
}
