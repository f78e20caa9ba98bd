// Package main runs the background worker that finishes partial manager deletions.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/society-admin/backend/config"
	"github.com/society-admin/backend/internal/identity"
	"github.com/society-admin/backend/internal/managers"
	"github.com/society-admin/backend/internal/profiles"
	"github.com/society-admin/backend/internal/roles"
	"github.com/society-admin/backend/internal/worker"
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

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	jobQueue := queue.NewQueue(rdb.Client, logger)
	profileRepo := profiles.NewRepository(pool)
	managerSvc := managers.NewService(identity.NewRepository(pool), profileRepo, roles.NewResolver(profileRepo), jobQueue, logger)
	processor := worker.NewProfileCleanupProcessor(managerSvc, jobQueue, cfg.Worker.PollTimeout, logger)

	workerCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		processor.Run(workerCtx)
		close(done)
	}()
	logger.Info("worker started", zap.Duration("poll_timeout", cfg.Worker.PollTimeout))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	cancel()
	select {
	case <-done:
	case <-time.After(cfg.Worker.PollTimeout + 2*time.Second):
		logger.Warn("worker did not stop in time")
	}
	logger.Info("worker stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
