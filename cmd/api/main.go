package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"tech-blog/cmd/api/auth"
	"tech-blog/cmd/api/router"
	"tech-blog/cmd/api/services"
	"tech-blog/config"
	"tech-blog/db"
	"tech-blog/eventbus"
	"tech-blog/internal/logger"
	"tech-blog/repositories"
)

const shutdownTimeout = 10 * time.Second

// @title           Tech Blog API
// @version         1.0
// @description     Posts, view tracking, analytics and admin endpoints of the tech blog
// @BasePath        /api/v1
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @securityDefinitions.basic   BasicAuth
func main() {
	config.InitApp()
	cfg := config.GetConfig()
	logger.Init(cfg.Logging.Level)
	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// MongoDB 초기화
	if err := db.Init(ctx, cfg.Mongo); err != nil {
		logger.ErrorWithFields("failed to initialize MongoDB", logger.Fields{"error": err.Error()})
		os.Exit(1)
	}

	bus := newEventBus(ctx, cfg)
	defer bus.Close()

	jwtManager, err := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.Admin.TokenTTL)
	if err != nil {
		logger.ErrorWithFields("failed to initialize JWT manager", logger.Fields{"error": err.Error()})
		os.Exit(1)
	}

	// 서비스 초기화
	database := db.Database()
	postRepo := repositories.NewPostRepository(database)
	analyticsRepo := repositories.NewAnalyticsRepository(database)

	postSvc := services.NewPostService(postRepo, services.NewEventService(bus, cfg.Kafka.Topic), cfg.Content)
	engine, err := router.New(cfg, router.Services{
		Posts:     postSvc,
		Pages:     services.NewPageService(postSvc, postRepo, cfg.Content.CategoryPageSize),
		Analytics: services.NewAnalyticsService(analyticsRepo),
		Admin:     services.NewAdminService(postRepo, analyticsRepo),
		Auth:      services.NewAuthService(jwtManager, cfg.Admin),
		Media:     services.NewMediaService(cfg.Uploads),
		Feeds:     services.NewFeedService(postRepo, cfg.Server),
		Ping:      db.Ping,
	})
	if err != nil {
		logger.ErrorWithFields("failed to build router", logger.Fields{"error": err.Error()})
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.InfoWithFields("starting api server", logger.Fields{"addr": cfg.Server.Addr, "kafka": cfg.KafkaEnabled()})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorWithFields("api server stopped unexpectedly", logger.Fields{"error": err.Error()})
			stop()
		}
	}()

	// 종료 신호 대기
	<-ctx.Done()
	logger.InfoWithFields("received shutdown signal, shutting down api server...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorWithFields("graceful shutdown failed", logger.Fields{"error": err.Error()})
	}
	if err := db.Disconnect(shutdownCtx); err != nil {
		logger.WarnWithFields("mongo disconnect failed", logger.Fields{"error": err.Error()})
	}
	logger.InfoWithFields("api server stopped", nil)
}

// newEventBus 는 Kafka 가 꺼져 있거나 연결에 실패하면 Noop 버스를 돌려준다.
func newEventBus(ctx context.Context, cfg config.AppConfig) eventbus.EventBus {
	if !cfg.KafkaEnabled() {
		return eventbus.NoopEventBus{}
	}
	if err := eventbus.EnsureTopic(ctx, cfg.Kafka.BootstrapServers, cfg.Kafka.Topic, 3); err != nil {
		logger.WarnWithFields("failed to ensure kafka topic", logger.Fields{"topic": cfg.Kafka.Topic, "error": err.Error()})
	}
	bus, err := eventbus.NewKafkaEventBus(eventbus.ProducerConfig{Brokers: cfg.Kafka.BootstrapServers})
	if err != nil {
		logger.WarnWithFields("kafka unavailable, lifecycle events disabled", logger.Fields{"error": err.Error()})
		return eventbus.NoopEventBus{}
	}
	return bus
}
