package handlers

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"tech-blog/cmd/api/services"
	"tech-blog/internal/logger"
)

// RSSHandler serves the 20 most recent published posts as RSS 2.0.
func RSSHandler(svc *services.FeedService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var buf bytes.Buffer
		if err := svc.WriteRSS(c.Request.Context(), &buf); err != nil {
			logger.ErrorWithFields("rss generation failed", logger.Fields{"error": err.Error()})
			c.String(http.StatusInternalServerError, "failed to generate RSS")
			return
		}
		c.Data(http.StatusOK, "application/rss+xml; charset=utf-8", buf.Bytes())
	}
}

func SitemapHandler(svc *services.FeedService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var buf bytes.Buffer
		if err := svc.WriteSitemap(c.Request.Context(), &buf); err != nil {
			logger.ErrorWithFields("sitemap generation failed", logger.Fields{"error": err.Error()})
			c.String(http.StatusInternalServerError, "failed to generate sitemap")
			return
		}
		c.Data(http.StatusOK, "application/xml; charset=utf-8", buf.Bytes())
	}
}

func RobotsHandler(svc *services.FeedService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, svc.RobotsTxt())
	}
}
