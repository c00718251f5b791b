package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
)

// PublicCache 는 공개 목록/페이지/피드 응답에 사용한다.
func PublicCache(maxAge time.Duration) gin.HandlerFunc {
	value := fmt.Sprintf("public, max-age=%d", int(maxAge.Seconds()))
	return setCacheControl(value)
}

// NoStore 는 조회수를 올리거나 실시간 값이 필요한 응답에 사용한다.
func NoStore() gin.HandlerFunc {
	return setCacheControl("no-store")
}

// PrivateNoStore is used on every admin route.
func PrivateNoStore() gin.HandlerFunc {
	return setCacheControl("private, no-store")
}

func setCacheControl(value string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", value)
		c.Next()
	}
}
