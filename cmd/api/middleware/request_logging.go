package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"tech-blog/cmd/api/dto"
	"tech-blog/cmd/api/trace"
	"tech-blog/internal/logger"
)

// RecoveryLogging 은 핸들러 panic 을 복구해 구조화 로그로 남기고 500 을 반환한다.
func RecoveryLogging() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			logger.ErrorWithFields("panic recovered", logger.Fields{
				"method":     c.Request.Method,
				"path":       c.Request.URL.Path,
				"panic":      fmt.Sprint(rec),
				"stack":      string(debug.Stack()),
				"request_id": c.Request.Header.Get(trace.HeaderRequestID),
			})
			if !c.Writer.Written() {
				c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponseDTO{Error: "internal server error"})
				return
			}
			c.Abort()
		}()
		c.Next()
	}
}
