package services

import (
	"crypto/subtle"
	"time"

	"tech-blog/cmd/api/auth"
	"tech-blog/cmd/api/dto"
	"tech-blog/config"
	"tech-blog/internal/logger"
)

// AuthService authenticates the single admin account.
type AuthService struct {
	jwt      *auth.JWTManager
	username string
	password string
}

func NewAuthService(jwt *auth.JWTManager, cfg config.AdminConfig) *AuthService {
	return &AuthService{jwt: jwt, username: cfg.Username, password: cfg.Password}
}

// Login checks the configured pair and issues an admin token.
func (s *AuthService) Login(req dto.LoginRequestDTO) (dto.LoginResponseDTO, error) {
	if !s.CheckBasic(req.Username, req.Password) {
		logger.WarnWithFields("admin login failed", logger.Fields{"username": req.Username})
		return dto.LoginResponseDTO{}, ErrUnauthorized
	}
	token, expiresAt, err := s.jwt.Sign(s.username, auth.RoleAdmin)
	if err != nil {
		return dto.LoginResponseDTO{}, err
	}
	logger.InfoWithFields("admin logged in", logger.Fields{"username": s.username})
	return dto.LoginResponseDTO{Token: token, ExpiresAt: expiresAt.UTC().Truncate(time.Second)}, nil
}

// ParseAccessToken accepts only tokens carrying the admin role.
func (s *AuthService) ParseAccessToken(token string) (string, error) {
	sub, role, err := s.jwt.Parse(token)
	if err != nil {
		return "", err
	}
	if role != auth.RoleAdmin {
		return "", ErrUnauthorized
	}
	return sub, nil
}

// CheckBasic compares credentials in constant time. 계정이 설정되지 않았으면 항상 거부한다.
func (s *AuthService) CheckBasic(username, password string) bool {
	if s.username == "" || s.password == "" {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.password)) == 1
	return userOK && passOK
}
