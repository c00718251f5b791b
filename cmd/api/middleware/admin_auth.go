package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"tech-blog/cmd/api/auth"
	"tech-blog/cmd/api/services"
	"tech-blog/cmd/api/trace"
	"tech-blog/internal/logger"
)

const (
	ctxKeyAdmin    = "admin"
	ctxKeyAdminSub = "admin_sub"
)

var errInvalidCredentials = errors.New("invalid_credentials")

// AdminAuthMiddleware 는 Bearer JWT(role=admin) 또는 Basic 인증을 검증한다.
// 인증에 실패하면 401 을 반환한다.
func AdminAuthMiddleware(authSvc *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		sub, err := authenticate(c, authSvc)
		if err != nil {
			logger.WarnWithFields("admin auth rejected", logger.Fields{
				"path":       c.Request.URL.Path,
				"error":      err.Error(),
				"client_ip":  c.ClientIP(),
				"request_id": c.Request.Header.Get(trace.HeaderRequestID),
			})
			auth.AbortWithUnauthorized(c, err)
			return
		}
		markAdmin(c, sub)
		c.Next()
	}
}

// OptionalAdmin 은 Authorization 헤더가 없으면 익명으로 통과시키고,
// 헤더가 있는데 유효하지 않으면 401 을 반환한다.
func OptionalAdmin(authSvc *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}
		sub, err := authenticate(c, authSvc)
		if err != nil {
			auth.AbortWithUnauthorized(c, err)
			return
		}
		markAdmin(c, sub)
		c.Next()
	}
}

// IsAdmin reports whether an earlier middleware authenticated the request as admin.
func IsAdmin(c *gin.Context) bool {
	return c.GetBool(ctxKeyAdmin)
}

func markAdmin(c *gin.Context, sub string) {
	c.Set(ctxKeyAdmin, true)
	c.Set(ctxKeyAdminSub, sub)
}

func authenticate(c *gin.Context, authSvc *services.AuthService) (string, error) {
	if auth.IsBasic(c) {
		username, password, err := auth.ExtractBasic(c)
		if err != nil {
			return "", err
		}
		if !authSvc.CheckBasic(username, password) {
			return "", errInvalidCredentials
		}
		return username, nil
	}

	token, err := auth.ExtractBearerToken(c)
	if err != nil {
		return "", err
	}
	sub, err := authSvc.ParseAccessToken(token)
	if err != nil {
		return "", errors.New("invalid_token")
	}
	return sub, nil
}
