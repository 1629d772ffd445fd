// Command taskqd runs the job processing daemon: the worker pool, the
// metrics collector, and the HTTP management API, backed by Redis.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	taskq "github.com/kocayazbey/AyazTrade-sub002"
	"github.com/kocayazbey/AyazTrade-sub002/api"
	"github.com/kocayazbey/AyazTrade-sub002/engine"
	"github.com/kocayazbey/AyazTrade-sub002/store/redis"
	"github.com/kocayazbey/AyazTrade-sub002/tasks"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(),
	}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("taskqd exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	addr := getEnv("TASKQ_HTTP_ADDR", ":8080")

	client := goredis.NewClient(&goredis.Options{
		Addr:     getEnv("TASKQ_REDIS_ADDR", "localhost:6379"),
		Password: getEnv("TASKQ_REDIS_PASSWORD", ""),
		DB:       getEnvInt("TASKQ_REDIS_DB", 0),
	})
	s := redis.New(client, redis.WithLogger(logger))

	cfg := taskq.DefaultConfig()
	cfg.Concurrency = getEnvInt("TASKQ_CONCURRENCY", cfg.Concurrency)
	cfg.PollInterval = getEnvDuration("TASKQ_POLL_INTERVAL", cfg.PollInterval)
	cfg.CollectInterval = getEnvDuration("TASKQ_COLLECT_INTERVAL", cfg.CollectInterval)
	cfg.ShutdownTimeout = getEnvDuration("TASKQ_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)

	d, err := taskq.New(
		taskq.WithStore(s),
		taskq.WithLogger(logger),
		taskq.WithConfig(cfg),
	)
	if err != nil {
		return err
	}

	eng, err := engine.Build(d)
	if err != nil {
		return err
	}

	deps := tasks.Dependencies{
		Mailer:   logOnlyMailer{logger},
		SMS:      logOnlySMS{logger},
		Webhooks: tasks.NewHTTPDeliverer(nil),
		Indexer:  logOnlyIndexer{logger},
		Payments: logOnlyGateway{logger},
	}
	if err := tasks.RegisterAll(eng, deps); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	err = s.Ping(pingCtx)
	cancel()
	if err != nil {
		return err
	}

	if err := eng.Start(ctx); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           api.New(eng).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", addr))
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http server shutdown error", slog.String("error", err.Error()))
	}
	if err := eng.Stop(shutdownCtx); err != nil {
		return err
	}

	logger.Info("taskqd stopped")
	return nil
}

func logLevel() slog.Level {
	switch getEnv("TASKQ_LOG_LEVEL", "info") {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
