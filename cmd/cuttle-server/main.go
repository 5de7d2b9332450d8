package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/cuttle-cards/cuttle/internal/cache"
	"github.com/cuttle-cards/cuttle/internal/config"
	"github.com/cuttle-cards/cuttle/internal/database"
	"github.com/cuttle-cards/cuttle/internal/server"
)

func main() {
	cfg := config.Load()
	logrus.SetLevel(cfg.LogLevel)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Postgres and Redis are both optional. Without them the service still
	// runs games; it just loses resume, archives, and the action stream.
	if cfg.DatabaseURL != "" {
		if err := database.Connect(ctx, cfg.DatabaseURL); err != nil {
			logrus.WithError(err).Fatal("connect to postgres")
		}
		if err := database.Migrate(ctx); err != nil {
			logrus.WithError(err).Fatal("apply schema")
		}
	} else {
		logrus.Warn("DATABASE_URL not set, running without persistence")
	}
	if cfg.RedisURL != "" {
		if err := cache.Connect(ctx, cfg.RedisURL); err != nil {
			logrus.WithError(err).Fatal("connect to redis")
		}
	} else {
		logrus.Warn("REDIS_URL not set, running without the action stream")
	}

	srv := server.NewServer(cfg)
	if err := srv.Run(ctx, fmt.Sprintf(":%d", cfg.Port)); err != nil {
		logrus.WithError(err).Error("server stopped")
		os.Exit(1)
	}
	logrus.Info("shutdown complete")
}
