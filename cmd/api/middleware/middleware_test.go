package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tech-blog/cmd/api/auth"
	"tech-blog/cmd/api/services"
	"tech-blog/config"
)

func newAuthService(t *testing.T) (*services.AuthService, *auth.JWTManager) {
	t.Helper()
	m, err := auth.NewJWTManager("test-secret", "tech-blog", time.Hour)
	require.NoError(t, err)
	return services.NewAuthService(m, config.AdminConfig{Username: "admin", Password: "pw"}), m
}

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"admin": IsAdmin(c)})
	})
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	return r
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAdminAuthMiddleware(t *testing.T) {
	svc, jwtManager := newAuthService(t)
	r := newEngine(AdminAuthMiddleware(svc))

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.SetBasicAuth("admin", "pw")
	w = serve(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"admin":true}`, w.Body.String())

	token, _, err := jwtManager.Sign("admin", auth.RoleAdmin)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusOK, serve(r, req).Code)

	reader, _, err := jwtManager.Sign("someone", "reader")
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+reader)
	assert.Equal(t, http.StatusUnauthorized, serve(r, req).Code)
}

func TestOptionalAdmin(t *testing.T) {
	svc, _ := newAuthService(t)
	r := newEngine(OptionalAdmin(svc))

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"admin":false}`, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.SetBasicAuth("admin", "wrong")
	assert.Equal(t, http.StatusUnauthorized, serve(r, req).Code)
}

func TestCacheControl(t *testing.T) {
	cases := []struct {
		mw   gin.HandlerFunc
		want string
	}{
		{PublicCache(90 * time.Second), "public, max-age=90"},
		{NoStore(), "no-store"},
		{PrivateNoStore(), "private, no-store"},
	}
	for _, tc := range cases {
		w := serve(newEngine(tc.mw), httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, tc.want, w.Header().Get("Cache-Control"))
	}
}

func TestRecoveryLogging(t *testing.T) {
	r := newEngine(RequestTrace(), RecoveryLogging())
	w := serve(r, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal server error")
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
}
