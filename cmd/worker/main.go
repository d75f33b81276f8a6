package main

import (
	"log/slog"
	"os"

	"github.com/hibiken/asynq"

	"github.com/opsuite/opsuite_backend/internal/mailqueue"
	"github.com/opsuite/opsuite_backend/internal/platform/config"
)

// The worker drains the email queue. It shares configuration with the API
// server and can run as any number of replicas.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if cfg.RedisAddr == "" {
		logger.Error("REDIS_ADDR is required for the worker")
		os.Exit(1)
	}

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		},
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	logger.Info("Email worker starting", slog.String("redis", cfg.RedisAddr))
	if err := srv.Run(mailqueue.NewServeMux(cfg)); err != nil {
		logger.Error("Worker failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
