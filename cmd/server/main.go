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
	"github.com/yukikurage/todo-management-api/internal/auth"
	"github.com/yukikurage/todo-management-api/internal/cache"
	"github.com/yukikurage/todo-management-api/internal/config"
	"github.com/yukikurage/todo-management-api/internal/database"
	"github.com/yukikurage/todo-management-api/internal/handlers"
	"github.com/yukikurage/todo-management-api/internal/logging"
	"github.com/yukikurage/todo-management-api/internal/repository"
	"github.com/yukikurage/todo-management-api/internal/router"
	"github.com/yukikurage/todo-management-api/internal/services"
	"github.com/yukikurage/todo-management-api/internal/validation"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logging.New("error", "text").Fatal("Failed to load configuration", "err", err)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	db, err := database.Open(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", "driver", cfg.DBDriver, "err", err)
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		logger.Fatal("Failed to run migrations", "err", err)
	}

	// Redis only backs token revocation; the API keeps serving without it.
	redisClient := cache.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 3*time.Second)
	if err := redisClient.Ping(pingCtx); err != nil {
		logger.Warn("Redis unavailable, logout will not revoke tokens", "addr", cfg.RedisAddr, "err", err)
	}
	cancelPing()
	defer redisClient.Close()

	// Initialize AI service
	var aiService *services.AIService
	if cfg.OpenAIAPIKey != "" {
		aiService = services.NewAIService(cfg.OpenAIAPIKey)
	} else {
		logger.Info("OPENAI_API_KEY not set, todo suggestions are disabled")
	}

	// Repositories
	todoRepo := repository.NewTodoRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	userRepo := repository.NewUserRepository(db)

	// Services
	authService := services.NewAuthService(
		userRepo,
		auth.NewJWTService(cfg.JWTSecret, cfg.TokenTTL),
		auth.NewTokenStore(redisClient),
	)
	todoService := services.NewTodoService(todoRepo, aiService)
	categoryService := services.NewCategoryService(categoryRepo, todoRepo)
	statsService := services.NewStatsService(todoRepo)

	validation.Register()

	r := router.New(cfg, logger, authService, router.Handlers{
		Auth:     handlers.NewAuthHandler(authService),
		Todo:     handlers.NewTodoHandler(todoService),
		Category: handlers.NewCategoryHandler(categoryService),
		Stats:    handlers.NewStatsHandler(statsService),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "addr", srv.Addr, "mode", cfg.GinMode, "db", cfg.DBDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", "err", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "err", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logger.Info("Server stopped")
}
