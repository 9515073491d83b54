package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/apex/log"
	"github.com/oggyb/pagecache/internal/cache/redis"
	"github.com/oggyb/pagecache/internal/config"
	"github.com/oggyb/pagecache/internal/fetch"
	"github.com/oggyb/pagecache/internal/handler"
	applog "github.com/oggyb/pagecache/internal/log"
	routes "github.com/oggyb/pagecache/internal/router"
	"github.com/oggyb/pagecache/internal/scheduler"
	"github.com/oggyb/pagecache/internal/server"
	"github.com/oggyb/pagecache/internal/service"
)

// @title       pagecache API
// @version     1.0
// @description Fetches web pages through a 10 second Redis cache and counts requests per URL.
// @BasePath    /
func main() {
	// Base context for the whole application lifetime.
	rootCtx := context.Background()

	// Load configuration from environment/.env.
	cfg := config.New()
	applog.Init(cfg.App.LogLevel)

	logger := log.WithFields(log.Fields{
		"component": "main",
		"app":       cfg.App.Name,
		"env":       cfg.App.Env,
	})

	// Init cache.
	store := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err := store.Ping(rootCtx); err != nil {
		logger.WithError(err).WithField("addr", cfg.Redis.Addr).Fatal("failed to connect to redis")
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.WithError(err).Warn("redis close failed")
		}
	}()

	// Init fetch client.
	fetcher := fetch.NewHTTPClient(
		cfg.Fetch.Timeout,
		fetch.WithUserAgent(cfg.Fetch.UserAgent),
		fetch.WithMaxBytes(cfg.Fetch.MaxBytes),
		fetch.WithLimiter(fetch.NewHostLimiter(cfg.Fetch.RateLimit, cfg.Fetch.RateBurst)),
	)

	// Services
	pageSvc := service.NewPageService(
		store,
		fetcher,
		service.WithCacheTTL(cfg.Cache.PageTTL),
		service.WithCountTTL(cfg.Cache.CountTTL),
	)
	probe := service.NewHealthProbe(store)

	// Cron
	cron := scheduler.NewSchedulerService(
		"store-health",
		probe,
		cfg.Health.Interval,
		cfg.Health.Timeout,
	)

	// HTTP dependencies & server wiring.
	deps := routes.AppDeps{
		Home:      handler.NewHomeHandler(probe, cron),
		Page:      handler.NewPageHandler(pageSvc),
		Scheduler: handler.NewSchedulerHandler(cron),
	}

	addr := cfg.Addr()
	srv := server.New(addr, deps)

	// Cancelled on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.WithField("addr", addr).Info("HTTP server listening")

		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("HTTP server error")
		}
	}()

	if err := cron.Start(); err != nil {
		logger.WithError(err).Fatal("health scheduler could not start")
	}
	logger.Info("health scheduler started")

	<-ctx.Done()
	logger.Info("shutdown signal received, starting graceful shutdown")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := cron.Stop(); err != nil {
		logger.WithError(err).Warn("health scheduler stop")
	} else {
		logger.Info("health scheduler stopped")
	}

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("HTTP server graceful shutdown failed")
	} else {
		logger.Info("HTTP server stopped")
	}

	logger.Info("shutdown complete")
}
