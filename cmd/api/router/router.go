package router

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"tech-blog/cmd/api/handlers"
	"tech-blog/cmd/api/middleware"
	"tech-blog/cmd/api/services"
	"tech-blog/cmd/api/web"
	"tech-blog/config"
	_ "tech-blog/docs"
)

// Services 는 라우터가 필요로 하는 서비스 묶음이다.
type Services struct {
	Posts     *services.PostService
	Pages     *services.PageService
	Analytics *services.AnalyticsService
	Admin     *services.AdminService
	Auth      *services.AuthService
	Media     *services.MediaService
	Feeds     *services.FeedService
	// Ping 은 /health 에서 호출된다. nil 이면 항상 ok.
	Ping func(context.Context) error
}

func New(cfg config.AppConfig, svc Services) (*gin.Engine, error) {
	r := gin.New()
	r.Use(middleware.RequestTrace(), middleware.RecoveryLogging())
	if len(cfg.Server.CORSOrigins) > 0 {
		r.Use(middleware.CORS(cfg.Server.CORSOrigins))
	}

	tmpl, err := web.Templates()
	if err != nil {
		return nil, err
	}
	r.SetHTMLTemplate(tmpl)

	public := middleware.PublicCache(cfg.Cache.PublicMaxAge)
	noStore := middleware.NoStore()
	site := cfg.Server

	// Swagger
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.Static(uploadsRoute(cfg.Uploads.URLPrefix), cfg.Uploads.Dir)

	// Pages
	r.GET("/", public, handlers.HomeHTMLHandler(svc.Pages, site))
	r.GET("/categories/:category", public, handlers.CategoryHTMLHandler(svc.Pages, site))
	r.GET("/blog/:slug", noStore, handlers.PostHTMLHandler(svc.Pages, site))
	r.GET("/about", public, handlers.StaticHTMLHandler("about", "About", site))
	r.GET("/privacy", public, handlers.StaticHTMLHandler("privacy", "Privacy", site))
	r.GET("/analytics", noStore, handlers.AnalyticsHTMLHandler(svc.Analytics, site))
	r.GET("/rss.xml", public, handlers.RSSHandler(svc.Feeds))
	r.GET("/sitemap.xml", public, handlers.SitemapHandler(svc.Feeds))
	r.GET("/robots.txt", public, handlers.RobotsHandler(svc.Feeds))
	r.NoRoute(handlers.NotFoundHandler(site))

	ping := svc.Ping
	if ping == nil {
		ping = func(context.Context) error { return nil }
	}

	// v1 routes
	api := r.Group("/api/v1")
	{
		api.GET("/health", noStore, handlers.HealthHandler(ping))

		optionalAdmin := middleware.OptionalAdmin(svc.Auth)
		adminOnly := middleware.AdminAuthMiddleware(svc.Auth)

		posts := api.Group("/posts")
		posts.GET("", public, optionalAdmin, handlers.ListPostsHandler(svc.Posts))
		posts.GET("/:id", noStore, optionalAdmin, handlers.GetPostHandler(svc.Posts))
		posts.POST("/:id/view", noStore, handlers.RecordViewHandler(svc.Posts))
		posts.GET("/:id/views", noStore, handlers.GetViewsHandler(svc.Posts))

		writes := posts.Group("", middleware.PrivateNoStore(), adminOnly)
		writes.POST("", handlers.CreatePostHandler(svc.Posts))
		writes.PUT("/:id", handlers.UpdatePostHandler(svc.Posts))
		writes.DELETE("/:id", handlers.DeletePostHandler(svc.Posts))
		writes.POST("/:id/publish", handlers.PublishPostHandler(svc.Posts))
		writes.POST("/:id/unpublish", handlers.UnpublishPostHandler(svc.Posts))

		api.GET("/categories", public, handlers.ListCategoriesHandler(svc.Posts))
		api.GET("/tags", public, handlers.ListTagsHandler(svc.Posts))

		api.GET("/analytics/summary", noStore, handlers.AnalyticsSummaryHandler(svc.Analytics))
		api.GET("/analytics/views", noStore, handlers.AnalyticsViewsHandler(svc.Analytics))

		api.GET("/pages/home", public, handlers.HomePageHandler(svc.Pages))
		api.GET("/pages/categories/:category", public, handlers.CategoryPageHandler(svc.Pages))

		admin := api.Group("/admin", middleware.PrivateNoStore())
		admin.POST("/login", handlers.AdminLoginHandler(svc.Auth))
		admin.Use(adminOnly)
		admin.GET("/posts", handlers.AdminListPostsHandler(svc.Admin))
		admin.GET("/stats", handlers.AdminStatsHandler(svc.Admin))
		admin.POST("/media", handlers.AdminUploadMediaHandler(svc.Media))
		admin.GET("/media", handlers.AdminListMediaHandler(svc.Media))
	}

	return r, nil
}

func uploadsRoute(prefix string) string {
	prefix = "/" + strings.Trim(prefix, "/")
	if prefix == "/" {
		return "/uploads"
	}
	return prefix
}
