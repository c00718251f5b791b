package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tech-blog/cmd/api/dto"
	"tech-blog/cmd/api/services"
	"tech-blog/internal/logger"
)

const (
	viewedPostsCookie = "viewed_posts"
	// 쿠키 크기를 4KB 아래로 유지하기 위해 최근 항목만 남긴다.
	maxViewedPosts = 100
)

// viewedPosts 는 이 브라우저 세션에서 이미 센 post id 목록이다. 오래된 것이 앞에 온다.
type viewedPosts []string

func readViewedPosts(c *gin.Context) viewedPosts {
	raw, err := c.Cookie(viewedPostsCookie)
	if err != nil || raw == "" {
		return nil
	}
	var out viewedPosts
	for _, id := range strings.Split(raw, ".") {
		if id != "" {
			out = append(out, id)
		}
	}
	return out
}

func (v viewedPosts) has(id string) bool {
	for _, seen := range v {
		if seen == id {
			return true
		}
	}
	return false
}

func (v *viewedPosts) add(id string) {
	if v.has(id) {
		return
	}
	*v = append(*v, id)
	if n := len(*v); n > maxViewedPosts {
		*v = (*v)[n-maxViewedPosts:]
	}
}

// writeViewedPosts 는 Max-Age 없는 세션 쿠키로 저장한다.
func writeViewedPosts(c *gin.Context, v viewedPosts) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(viewedPostsCookie, strings.Join(v, "."), 0, "/", "", false, true)
}

// RecordViewHandler godoc
// @Summary      Record a post view
// @Description  Atomically increments the view counter of a published post. A repeated ping in the same browser session returns the current count without counting.
// @Tags         views
// @Param        id   path   string  true  "ObjectID"
// @Produce      json
// @Success      200  {object}  dto.ViewResponseDTO
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /posts/{id}/view [post]
func RecordViewHandler(svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		viewed := readViewedPosts(c)

		if viewed.has(id) {
			current, err := svc.GetViews(c.Request.Context(), id)
			if err != nil {
				writeServiceError(c, err)
				return
			}
			c.JSON(http.StatusOK, dto.ViewResponseDTO{Success: true, Views: current.Views, BlogID: current.BlogID})
			return
		}

		res, err := svc.RecordView(c.Request.Context(), id)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		viewed.add(res.BlogID)
		writeViewedPosts(c, viewed)

		logger.DebugWithFields("post view recorded", logger.Fields{
			"post_id":    res.BlogID,
			"views":      res.Views,
			"client_ip":  c.ClientIP(),
			"user_agent": c.Request.UserAgent(),
		})
		c.JSON(http.StatusOK, res)
	}
}

// GetViewsHandler godoc
// @Summary      Poll post views
// @Description  Returns the current view count without incrementing it. Store failures degrade to views 0.
// @Tags         views
// @Param        id   path   string  true  "ObjectID"
// @Produce      json
// @Success      200  {object}  dto.ViewsDTO
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /posts/{id}/views [get]
func GetViewsHandler(svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		res, err := svc.GetViews(c.Request.Context(), id)
		switch {
		case err == nil:
			c.JSON(http.StatusOK, res)
		case errors.Is(err, services.ErrInvalidInput), errors.Is(err, services.ErrNotFound):
			writeServiceError(c, err)
		default:
			logger.WarnWithFields("views poll degraded", logger.Fields{"post_id": id, "error": err.Error()})
			c.JSON(http.StatusOK, dto.ViewsDTO{Views: 0, BlogID: id})
		}
	}
}
