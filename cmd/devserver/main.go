package main

import (
	"context"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/goustty/storefront/internal/devserver"
	"github.com/goustty/storefront/pkg/config"
	"github.com/goustty/storefront/pkg/logger"
	"github.com/goustty/storefront/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "devserver"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "devserver",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	db, err := devserver.OpenDB(cfg.Devserver)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	var opts []devserver.Option
	if cfg.Devserver.Redis.Enabled() {
		redisClient, err := redis.New(context.Background(), cfg.Devserver.Redis)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		opts = append(opts, devserver.WithRateLimiter(redisClient))
	}

	srv, err := devserver.NewServer(cfg.Devserver, db, logg, opts...)
	if err != nil {
		logg.Error(context.Background(), "failed to create server", err)
		os.Exit(1)
	}

	// The storefront client defaults to a base URL ending in /api, so the
	// whole surface mounts under that prefix.
	root := chi.NewRouter()
	root.Mount("/api", srv.Router())

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Devserver.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting devserver")

	server := &http.Server{
		Addr:    addr,
		Handler: root,
	}
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "devserver stopped unexpectedly", err)
		os.Exit(1)
	}
}
