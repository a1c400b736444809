package main

import (
	"blobvault/internal/adapters/fetch"
	redislock "blobvault/internal/adapters/lock/redis"
	"blobvault/internal/adapters/queue/nats"
	"blobvault/internal/adapters/repository/postgres"
	"blobvault/internal/adapters/storage/minio"
	"blobvault/internal/adapters/webhook"
	"blobvault/internal/config"
	"blobvault/internal/core/port"
	"blobvault/internal/core/service/download"
	"blobvault/internal/core/service/outbox"
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/lib/pq"
)

func main() {

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := initDB(cfg.Database)
	if err != nil {
		logger.Error("failed to init database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	logger.Info("db connection established")

	minioAdapter, err := minio.NewAdapter(ctx, cfg.Minio, logger)
	if err != nil {
		logger.Error("failed to init minio", "error", err)
		os.Exit(1)
	}

	lockAdapter, err := redislock.NewLockAdapter(ctx, cfg.Redis)
	if err != nil {
		logger.Error("failed to init redis lock", "error", err)
		os.Exit(1)
	}
	defer lockAdapter.Close()

	publisher, err := nats.NewPublisher(ctx, cfg.NATS, logger)
	if err != nil {
		logger.Error("failed to init nats publisher", "error", err)
		os.Exit(1)
	}
	defer publisher.Close()

	unitOfWork := postgres.NewUnitOfWork(db)
	fetcher := fetch.NewAdapter(cfg.Download)
	webhookSender := webhook.NewSender(cfg.Outbox.WebhookTimeout)

	downloadService := download.NewDownloadService(unitOfWork, minioAdapter, fetcher, lockAdapter, cfg.Download, logger)

	dispatcher := outbox.NewDispatcher(unitOfWork, cfg.Outbox, logger,
		outbox.NewQueueDispatchHandler(publisher, cfg.NATS.Subject),
		outbox.NewWebhookNotifyHandler(webhookSender),
	)

	//download jobs arrive through JetStream
	consumer, err := nats.NewNATSConsumer(cfg.NATS, logger)
	if err != nil {
		logger.Error("failed to init nats consumer", "error", err)
		os.Exit(1)
	}
	defer consumer.Close()

	messageHandler := download.NewDispatchMessageHandler(downloadService, logger)
	if err := consumer.Subscribe(ctx, messageHandler); err != nil {
		logger.Error("failed to subscribe to download stream", "error", err)
		os.Exit(1)
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		initDispatchTask(ctx, dispatcher, cfg.Outbox.DispatchEvery, logger)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		initReclaimTask(ctx, dispatcher, cfg.Outbox.ReclaimEvery, logger)
	}()

	<-ctx.Done()
	logger.Info("gracefully shutting down worker")

	wg.Wait()
	logger.Info("worker shutdown complete")

}

func initDB(cfg config.DatabaseConfig) (*sql.DB, error) {

	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.SSLMode,
	)
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenCons)
	db.SetMaxIdleConns(cfg.MaxIdleCons)
	db.SetConnMaxLifetime(cfg.ConMaxLifeTime)

	return db, nil
}

func initDispatchTask(ctx context.Context, dispatcher port.OutboxDispatcher, every time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	logger.Info("outbox dispatch task initialized", "interval", every)

	for {
		select {
		case <-ticker.C:
			if err := dispatcher.Dispatch(ctx); err != nil {
				logger.Error("outbox dispatch failed", "error", err)
			}
		case <-ctx.Done():
			logger.Info("outbox dispatch task stopped")
			return
		}
	}
}

func initReclaimTask(ctx context.Context, dispatcher port.OutboxDispatcher, every time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	logger.Info("outbox reclaim task initialized", "interval", every)

	for {
		select {
		case <-ticker.C:
			if err := dispatcher.ReclaimStale(ctx); err != nil {
				logger.Error("outbox reclaim failed", "error", err)
			}
		case <-ctx.Done():
			logger.Info("outbox reclaim task stopped")
			return
		}
	}
}
