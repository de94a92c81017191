package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/gestao-facil/gestao-facil/internal/app"
	"github.com/gestao-facil/gestao-facil/internal/auth"
	"github.com/gestao-facil/gestao-facil/internal/backup"
	"github.com/gestao-facil/gestao-facil/internal/clients"
	"github.com/gestao-facil/gestao-facil/internal/lowstock"
	"github.com/gestao-facil/gestao-facil/internal/observability"
	"github.com/gestao-facil/gestao-facil/internal/products"
	"github.com/gestao-facil/gestao-facil/internal/store"
	"github.com/gestao-facil/gestao-facil/internal/transactions"
	"github.com/gestao-facil/gestao-facil/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}

	kv := store.NewRedisStore(redisClient)
	metrics := observability.NewMetrics()

	authService := auth.NewService(auth.NewRepository(kv))
	productRepo := products.NewRepository(kv)
	clientRepo := clients.NewRepository(kv)
	txRepo := transactions.NewRepository(kv)

	monitor := lowstock.NewMonitor(logger, kv, productRepo, metrics)
	backupService := backup.NewService(logger, kv, productRepo, clientRepo, txRepo, cfg.BackupRetention)

	tasks := &jobs.Tasks{
		Logger:  logger,
		Users:   authService,
		Monitor: monitor,
		Backups: backupService,
		Metrics: metrics,
	}

	scanTask, err := jobs.NewLowStockScanTask(time.Now().UTC())
	if err != nil {
		logger.Error("build low stock task", slog.Any("error", err))
		os.Exit(1)
	}
	backupTask, err := jobs.NewBackupCreateTask(time.Now().UTC())
	if err != nil {
		logger.Error("build backup task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts:   asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:      logger,
		Concurrency: cfg.WorkerConcurrency,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskTypeLowStockScan, Handler: tasks.HandleLowStockScan},
			{Type: jobs.TaskTypeBackupCreate, Handler: tasks.HandleBackupCreate},
		},
		Cron: []jobs.CronRegistration{
			{Spec: cfg.LowStockCron, Task: scanTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
			{Spec: cfg.BackupCron, Task: backupTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
