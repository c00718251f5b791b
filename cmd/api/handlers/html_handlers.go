package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"tech-blog/cmd/api/dto"
	"tech-blog/cmd/api/services"
	"tech-blog/config"
	"tech-blog/internal/logger"
)

// pageView 는 모든 HTML 템플릿이 받는 데이터다.
type pageView struct {
	Site        config.ServerConfig
	Title       string
	Description string
	Data        any
}

type analyticsPage struct {
	Summary dto.AnalyticsSummaryDTO
	Views   dto.AnalyticsViewsDTO
}

func renderNotFound(c *gin.Context, site config.ServerConfig) {
	c.HTML(http.StatusNotFound, "not_found", pageView{Site: site, Title: "Not found"})
}

func HomeHTMLHandler(svc *services.PageService, site config.ServerConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.HTML(http.StatusOK, "home", pageView{
			Site:        site,
			Description: site.SiteDescription,
			Data:        svc.Home(c.Request.Context()),
		})
	}
}

func CategoryHTMLHandler(svc *services.PageService, site config.ServerConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := svc.CategoryPage(c.Request.Context(), c.Param("category"), c.Query("tag"), queryInt(c, "page"))
		if errors.Is(err, services.ErrNotFound) {
			renderNotFound(c, site)
			return
		}
		if err != nil {
			logger.ErrorWithFields("page render failed", logger.Fields{"path": c.Request.URL.Path, "error": err.Error()})
			c.String(http.StatusInternalServerError, "internal server error")
			return
		}
		c.HTML(http.StatusOK, "category", pageView{Site: site, Title: res.Category.Name, Data: res})
	}
}

// PostHTMLHandler renders /blog/:slug and counts one view per browser session.
func PostHTMLHandler(svc *services.PageService, site config.ServerConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		viewed := readViewedPosts(c)
		res, err := svc.PostPage(c.Request.Context(), c.Param("slug"), viewed.has)
		if errors.Is(err, services.ErrNotFound) {
			renderNotFound(c, site)
			return
		}
		if err != nil {
			logger.ErrorWithFields("page render failed", logger.Fields{"path": c.Request.URL.Path, "error": err.Error()})
			c.String(http.StatusInternalServerError, "internal server error")
			return
		}
		viewed.add(res.Post.ID)
		writeViewedPosts(c, viewed)

		description := res.Post.SEODescription
		if description == "" {
			description = res.Post.Excerpt
		}
		title := res.Post.SEOTitle
		if title == "" {
			title = res.Post.Title
		}
		c.HTML(http.StatusOK, "post", pageView{Site: site, Title: title, Description: description, Data: res})
	}
}

// StaticHTMLHandler renders a template without data (about, privacy).
func StaticHTMLHandler(name, title string, site config.ServerConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.HTML(http.StatusOK, name, pageView{Site: site, Title: title})
	}
}

// AnalyticsHTMLHandler renders the public analytics page. 저장소 오류 시 0 으로 채운다.
func AnalyticsHTMLHandler(svc *services.AnalyticsService, site config.ServerConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		now := time.Now().UTC()
		summary, err := svc.Summary(ctx)
		if err != nil {
			logger.WarnWithFields("analytics page summary degraded", logger.Fields{"error": err.Error()})
			summary = services.EmptyAnalyticsSummary(now)
		}
		views, err := svc.Views(ctx)
		if err != nil {
			logger.WarnWithFields("analytics page views degraded", logger.Fields{"error": err.Error()})
			views = services.EmptyAnalyticsViews(now)
		}
		c.HTML(http.StatusOK, "analytics", pageView{
			Site:  site,
			Title: "Analytics",
			Data:  analyticsPage{Summary: summary, Views: views},
		})
	}
}

// NotFoundHandler 는 /api 아래 경로에는 JSON, 그 밖에는 HTML 404 를 반환한다.
func NotFoundHandler(site config.ServerConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, dto.ErrorResponseDTO{Error: "not found"})
			return
		}
		renderNotFound(c, site)
	}
}
