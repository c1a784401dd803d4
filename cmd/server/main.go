package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/campuslink/alumni-hub-api/api/swagger"
	"github.com/campuslink/alumni-hub-api/internal/handler"
	"github.com/campuslink/alumni-hub-api/internal/middleware"
	"github.com/campuslink/alumni-hub-api/internal/repository"
	"github.com/campuslink/alumni-hub-api/internal/service"
	"github.com/campuslink/alumni-hub-api/pkg/cache"
	"github.com/campuslink/alumni-hub-api/pkg/config"
	"github.com/campuslink/alumni-hub-api/pkg/database"
	"github.com/campuslink/alumni-hub-api/pkg/jobs"
	"github.com/campuslink/alumni-hub-api/pkg/logger"
	corsmiddleware "github.com/campuslink/alumni-hub-api/pkg/middleware/cors"
	reqidmiddleware "github.com/campuslink/alumni-hub-api/pkg/middleware/requestid"
	"github.com/campuslink/alumni-hub-api/pkg/storage"
)

// @title Alumni Hub API
// @version 1.0.0
// @description College alumni community platform
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if redisClient != nil {
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Dashboard.CacheTTL, logr, cfg.Dashboard.CacheEnabled)
	} else {
		cacheSvc = service.NewCacheService(nil, metricsSvc, cfg.Dashboard.CacheTTL, logr, false)
	}

	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	eventRepo := repository.NewEventRepository(db)
	registrationRepo := repository.NewRegistrationRepository(db)
	forumRepo := repository.NewForumRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	jobPostRepo := repository.NewJobPostRepository(db)
	mentorshipRepo := repository.NewMentorshipRepository(db)
	announcementRepo := repository.NewAnnouncementRepository(db)

	exportStore, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare exports storage", "error", err)
	}
	uploadStore, err := storage.NewLocalStorage(cfg.Uploads.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare uploads storage", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)

	authSvc := service.NewAuthService(userRepo, profileRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "alumni-hub-api",
	})

	eventSvc := service.NewEventService(eventRepo, registrationRepo, validate, logr, service.EventConfig{
		PastEventsLimit:  cfg.Events.PastEventsLimit,
		DuplicateOffset:  cfg.Events.DuplicateOffset,
		EndEventBackdate: cfg.Events.EndEventBackdate,
	})

	registrationSvc := service.NewRegistrationService(registrationRepo, validate, logr)

	exportSvc := service.NewExportService(eventRepo, registrationRepo, exportStore, signer, service.ExportConfig{
		APIPrefix: cfg.APIPrefix,
		ResultTTL: cfg.Exports.SignedURLTTL,
	}, logr, nil, nil)

	profileSvc := service.NewProfileService(profileRepo, validate, logr)
	forumSvc := service.NewForumService(forumRepo, validate, logr)
	messageSvc := service.NewMessageService(messageRepo, userRepo, validate, logr)
	jobBoardSvc := service.NewJobBoardService(jobPostRepo, validate, logr)
	mentorshipSvc := service.NewMentorshipService(mentorshipRepo, profileRepo, validate, logr)
	userSvc := service.NewUserService(userRepo, logr)

	dashboardSvc := service.NewDashboardService(userRepo, eventRepo, forumRepo, cacheSvc, logr, service.DashboardConfig{
		CacheTTL:     cfg.Dashboard.CacheTTL,
		PendingLimit: cfg.Events.DashboardLimit,
	})

	// The queue handler needs the notification service, which needs the
	// queue; the closure resolves the cycle.
	var notificationSvc *service.NotificationService
	queue := jobs.NewQueue("notifications", func(ctx context.Context, job jobs.Job) error {
		return notificationSvc.HandleJob(ctx, job)
	}, jobs.QueueConfig{
		Workers:    cfg.Notifications.Workers,
		MaxRetries: cfg.Notifications.MaxRetries,
		RetryDelay: cfg.Notifications.RetryDelay,
		Logger:     logr,
	})
	metricsSvc.RegisterQueueDepth("notifications", queue.Depth)
	notificationSvc = service.NewNotificationService(announcementRepo, eventRepo, forumRepo, registrationRepo, queue, logr, service.NotificationConfig{
		FeedLimit: cfg.Notifications.FeedLimit,
	})

	announcementSvc := service.NewAnnouncementService(announcementRepo, notificationSvc, validate, logr)

	handlers := &handler.Handlers{
		Auth:          handler.NewAuthHandler(authSvc),
		Events:        handler.NewEventHandler(eventSvc),
		Registrations: handler.NewRegistrationHandler(registrationSvc),
		Exports:       handler.NewExportHandler(exportSvc, eventSvc, profileSvc),
		Profiles:      handler.NewProfileHandler(profileSvc, uploadStore, cfg.Uploads),
		Forum:         handler.NewForumHandler(forumSvc),
		Messages:      handler.NewMessageHandler(messageSvc),
		Jobs:          handler.NewJobBoardHandler(jobBoardSvc),
		Mentorship:    handler.NewMentorshipHandler(mentorshipSvc),
		Announcements: handler.NewAnnouncementHandler(announcementSvc),
		Notifications: handler.NewNotificationHandler(notificationSvc),
		Admin:         handler.NewAdminHandler(userSvc, dashboardSvc),
		Metrics:       handler.NewMetricsHandler(metricsSvc),
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr, "/health", "/ready", "/metrics"))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.WithResponseMeta())
	r.Use(middleware.Metrics(metricsSvc))

	r.Static("/uploads", cfg.Uploads.StorageDir)

	r.GET("/health", handlers.Metrics.Health)
	r.GET("/ready", handlers.Metrics.Health)
	r.GET("/metrics", handlers.Metrics.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handlers.Register(r, cfg.APIPrefix, authSvc, middleware.Audit(userRepo, "ADMIN_PANEL", "admin"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	queue.Start(ctx)
	defer queue.Stop()

	go runExportCleanup(ctx, exportSvc, cfg.Exports.CleanupInterval, logr.Sugar())
	go runReminderDispatch(ctx, notificationSvc, logr.Sugar())

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("shutdown error", "error", err)
	}
}

// runExportCleanup deletes generated files past their TTL on a fixed interval.
func runExportCleanup(ctx context.Context, exports *service.ExportService, interval time.Duration, logr *zap.SugaredLogger) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := exports.Cleanup()
			if err != nil {
				logr.Warnw("export cleanup failed", "error", err)
				continue
			}
			if len(deleted) > 0 {
				logr.Infow("export cleanup", "deleted", len(deleted))
			}
		}
	}
}

// runReminderDispatch queues reminders for tomorrow's events once a day.
func runReminderDispatch(ctx context.Context, notifications *service.NotificationService, logr *zap.SugaredLogger) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			queued, err := notifications.DispatchEventReminders(ctx)
			if err != nil {
				logr.Warnw("reminder dispatch failed", "error", err)
				continue
			}
			if queued > 0 {
				logr.Infow("reminders queued", "count", queued)
			}
		}
	}
}
