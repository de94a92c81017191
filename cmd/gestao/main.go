package main

import (
	"context"
	"log/slog"
	"net/http"
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
	"github.com/gestao-facil/gestao-facil/internal/finance"
	"github.com/gestao-facil/gestao-facil/internal/lowstock"
	"github.com/gestao-facil/gestao-facil/internal/observability"
	"github.com/gestao-facil/gestao-facil/internal/products"
	"github.com/gestao-facil/gestao-facil/internal/shared"
	"github.com/gestao-facil/gestao-facil/internal/store"
	"github.com/gestao-facil/gestao-facil/internal/taxonomy"
	"github.com/gestao-facil/gestao-facil/internal/transactions"
	"github.com/gestao-facil/gestao-facil/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	kv := store.NewRedisStore(redisClient)

	sessionManager := shared.NewSessionManager(redisClient, "gestao_session", cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	metrics := observability.NewMetrics()

	authRepo := auth.NewRepository(kv)
	authService := auth.NewService(authRepo)
	authHandler := auth.NewHandler(logger, authService, sessionManager, csrfManager)

	productRepo := products.NewRepository(kv)
	monitor := lowstock.NewMonitor(logger, kv, productRepo, metrics)
	productService := products.NewService(productRepo, monitor)
	productHandler := products.NewHandler(logger, productService)

	clientRepo := clients.NewRepository(kv)
	clientService := clients.NewService(clientRepo)
	clientHandler := clients.NewHandler(logger, clientService)

	summaryCache := finance.NewCache(redisClient, 10*time.Minute)

	txRepo := transactions.NewRepository(kv)
	txService := transactions.NewService(logger, txRepo, productRepo, summaryCache, monitor)
	txHandler := transactions.NewHandler(logger, txService)

	taxonomyRepo := taxonomy.NewRepository(kv)
	taxonomyService := taxonomy.NewService(taxonomyRepo, productRepo)
	taxonomyHandler := taxonomy.NewHandler(logger, taxonomyService)

	financeService := finance.NewService(txRepo, summaryCache)
	financeHandler := finance.NewHandler(logger, financeService)

	lowStockHandler := lowstock.NewHandler(logger, monitor)

	backupService := backup.NewService(logger, kv, productRepo, clientRepo, txRepo, cfg.BackupRetention, summaryCache, monitor)
	backupHandler := backup.NewHandler(logger, backupService)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:              logger,
		Config:              cfg,
		SessionManager:      sessionManager,
		CSRFManager:         csrfManager,
		AuthHandler:         authHandler,
		ProductsHandler:     productHandler,
		ClientsHandler:      clientHandler,
		TransactionsHandler: txHandler,
		TaxonomyHandler:     taxonomyHandler,
		FinanceHandler:      financeHandler,
		LowStockHandler:     lowStockHandler,
		BackupHandler:       backupHandler,
		JobHandler:          jobHandler,
		Metrics:             metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
