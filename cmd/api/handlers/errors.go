package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tech-blog/cmd/api/dto"
	"tech-blog/cmd/api/services"
	"tech-blog/internal/logger"
)

// writeServiceError maps service errors onto HTTP status codes.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: err.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponseDTO{Error: "not found"})
	case errors.Is(err, services.ErrSlugConflict):
		c.JSON(http.StatusConflict, dto.ErrorResponseDTO{Error: err.Error()})
	case errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, dto.ErrorResponseDTO{Error: "unauthorized"})
	default:
		logger.ErrorWithFields("request failed", logger.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"error":      err.Error(),
			"request_id": c.Request.Header.Get("X-Request-Id"),
		})
		c.JSON(http.StatusInternalServerError, dto.ErrorResponseDTO{Error: "internal server error"})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: "invalid request body", Details: err.Error()})
}

// queryInt 는 key, 없으면 alias 순으로 읽는다. 숫자가 아니면 0 이다.
func queryInt(c *gin.Context, key string, aliases ...string) int {
	v := c.Query(key)
	for _, alias := range aliases {
		if v != "" {
			break
		}
		v = c.Query(alias)
	}
	n, _ := strconv.Atoi(v)
	return n
}
