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
	"github.com/joho/godotenv"
	"github.com/vladimiradmaev/meal-planner/internal/cache"
	"github.com/vladimiradmaev/meal-planner/internal/config"
	"github.com/vladimiradmaev/meal-planner/internal/database"
	"github.com/vladimiradmaev/meal-planner/internal/httpapi"
	"github.com/vladimiradmaev/meal-planner/internal/logger"
	"github.com/vladimiradmaev/meal-planner/internal/metrics"
	"github.com/vladimiradmaev/meal-planner/internal/services"
)

const shutdownTimeout = 10 * time.Second

func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", "error", err)
	}

	if err := logger.InitWithConfig(logger.Config{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	}); err != nil {
		logger.Fatal("Failed to initialize logger", "error", err)
	}
	if envErr != nil {
		logger.Debug(".env file not loaded", "error", envErr)
	}
	logger.Info("Starting meal planner", "addr", cfg.HTTP.Addr, "db_driver", cfg.DB.Driver)

	db, err := database.Connect(cfg.DB, logger.GetLogger())
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	store, err := cache.New(cfg.Cache, cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to initialize cache", "error", err)
	}
	if store != nil {
		defer store.Close()
		logger.Info("Shopping list cache enabled", "driver", cfg.Cache.Driver, "ttl", cfg.Cache.TTL.String())
	}

	m := metrics.New()
	gin.SetMode(cfg.HTTP.GinMode)
	router := httpapi.NewRouter(httpapi.Dependencies{
		UserService:   services.NewUserService(db, m),
		RecipeSvc:     services.NewRecipeService(db, m),
		PlanSvc:       services.NewPlanService(db, store, cfg.Cache.TTL, m),
		CalorieLogSvc: services.NewCalorieLogService(db, m),
		DB:            db,
		Metrics:       m,
		Logger:        logger.GetLogger(),
		RateLimit:     cfg.RateLimit,
	})

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			logger.Error("HTTP server stopped", "error", err)
		}
	case <-ctx.Done():
		logger.Info("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	logger.Info("Meal planner stopped")
}
