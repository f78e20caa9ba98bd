// Package main runs the society admin HTTP server with graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/society-admin/backend/config"
	"github.com/society-admin/backend/internal/amenities"
	"github.com/society-admin/backend/internal/auth"
	"github.com/society-admin/backend/internal/identity"
	"github.com/society-admin/backend/internal/managers"
	"github.com/society-admin/backend/internal/parking"
	"github.com/society-admin/backend/internal/profiles"
	"github.com/society-admin/backend/internal/roles"
	"github.com/society-admin/backend/pkg/database"
	"github.com/society-admin/backend/pkg/queue"
	"github.com/society-admin/backend/pkg/redis"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool, logger); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)
	jobQueue := queue.NewQueue(rdb.Client, logger)

	// Stores
	credentialRepo := identity.NewRepository(pool)
	profileRepo := profiles.NewRepository(pool)
	resolver := roles.NewResolver(profileRepo)

	// Services
	managerSvc := managers.NewService(credentialRepo, profileRepo, resolver, jobQueue, logger)
	amenitySvc := amenities.NewService(amenities.NewRepository(pool), logger)
	parkingSvc := parking.NewService(parking.NewRepository(pool), logger)

	if cfg.Bootstrap.Enabled() {
		res, err := managerSvc.EnsureSuperadmin(ctx, cfg.Bootstrap.SuperadminEmail, cfg.Bootstrap.SuperadminPassword)
		if err != nil {
			logger.Fatal("bootstrap superadmin", zap.Error(err))
		}
		logger.Info("superadmin ready", zap.String("user_id", res.ID.String()), zap.Bool("created", res.Outcome == managers.OutcomeCreated))
	}

	router := newRouter(routeDeps{
		logger:         logger,
		allowedOrigins: cfg.Server.AllowedOrigins(),
		validate:       jwtService.Validator(),
		roles:          resolver,
		auth:           auth.NewHandler(credentialRepo, resolver, jwtService, logger),
		amenities:      amenities.NewHandler(amenitySvc),
		parking:        parking.NewHandler(parkingSvc),
		managers:       managers.NewHandler(managerSvc, logger),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
