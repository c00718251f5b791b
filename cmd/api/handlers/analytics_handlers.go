package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tech-blog/cmd/api/services"
	"tech-blog/internal/logger"
)

// AnalyticsSummaryHandler godoc
// @Summary      Analytics summary
// @Description  Headline counters, most viewed post and per-category stats. Store failures return a zeroed payload.
// @Tags         analytics
// @Produce      json
// @Success      200  {object}  dto.AnalyticsSummaryDTO
// @Router       /analytics/summary [get]
func AnalyticsSummaryHandler(svc *services.AnalyticsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := svc.Summary(c.Request.Context())
		if err != nil {
			logger.WarnWithFields("analytics summary degraded", logger.Fields{"error": err.Error()})
			res = services.EmptyAnalyticsSummary(time.Now().UTC())
		}
		c.JSON(http.StatusOK, res)
	}
}

// AnalyticsViewsHandler godoc
// @Summary      Analytics views
// @Description  Most viewed posts, per-category views, recent activity, 7/30/90-day windows and 12 months of stats.
// @Tags         analytics
// @Produce      json
// @Success      200  {object}  dto.AnalyticsViewsDTO
// @Router       /analytics/views [get]
func AnalyticsViewsHandler(svc *services.AnalyticsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := svc.Views(c.Request.Context())
		if err != nil {
			logger.WarnWithFields("analytics views degraded", logger.Fields{"error": err.Error()})
			res = services.EmptyAnalyticsViews(time.Now().UTC())
		}
		c.JSON(http.StatusOK, res)
	}
}
