package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"skillhub/database"
	"skillhub/internal/api/cache"
	"skillhub/internal/api/handler"
	"skillhub/internal/api/middleware"
	"skillhub/internal/api/repository"
	"skillhub/internal/api/service"
	"skillhub/internal/config"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not load config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		logger.Error("could not connect to database", "error", err)
		os.Exit(1)
	}

	// Cache is optional; without redis the API just recomputes completions.
	var completions cache.CompletionCache
	completions, err = cache.NewRedisCompletionCache(cfg.RedisURL, cfg.RedisPassword, cfg.CacheTTL)
	if err != nil {
		logger.Warn("redis unavailable, completion caching disabled", "error", err)
		completions = cache.NoopCompletionCache{}
	}

	var email service.EmailService
	if cfg.SendgridAPIKey != "" {
		email = service.NewSendgridEmailService(cfg.SendgridAPIKey, cfg.FromEmail, cfg.FromName)
	} else {
		logger.Info("no sendgrid key configured, using console email")
		email = service.NewConsoleEmailService(logger)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	lessonRepo := repository.NewLessonRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	certRepo := repository.NewCertificateRepository(db)

	// Services
	authService := service.NewAuthService(userRepo, cfg)
	enrollmentService := service.NewEnrollmentService(enrollmentRepo, courseRepo)
	certificateService := service.NewCertificateService(
		certRepo, courseRepo, userRepo, enrollmentRepo, progressRepo,
		email, cfg.AppBaseURL, cfg.HTTPPort, cfg.PublicPort, logger,
	)

	workerPool := service.NewCertificateWorkerPool(certificateService, cfg.CertificateWorkers, cfg.CertificateQueueSize, logger)
	workerPool.Start()

	progressService := service.NewProgressService(progressRepo, lessonRepo, completions, workerPool, logger)
	accessService := service.NewAccessService(lessonRepo, progressRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentService)
	progressHandler := handler.NewProgressHandler(progressService, accessService)
	certificateHandler := handler.NewCertificateHandler(certificateService)

	if cfg.GoEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.CORS(cfg.CORSOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	public := r.Group("/api")
	authHandler.RegisterRoutes(public)
	certificateHandler.RegisterPublicRoutes(public)

	authenticated := r.Group("/api")
	authenticated.Use(middleware.AuthMiddleware(authService))
	authenticated.Use(middleware.RateLimit(cfg.ProgressRatePerSec, cfg.ProgressRateBurst))
	enrollmentHandler.RegisterRoutes(authenticated)
	progressHandler.RegisterRoutes(authenticated)
	certificateHandler.RegisterRoutes(authenticated)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: r,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}

	// Drain queued certificate re-checks before exiting.
	workerPool.Shutdown()
	logger.Info("stopped")
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	if cfg.GoEnv == "production" {
		return slog.New(slog.NewJSONHandler(os.Stdout, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, handlerOpts))
}
