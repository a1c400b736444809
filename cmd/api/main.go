package main

import (
	"blobvault/internal/adapters/fetch"
	"blobvault/internal/adapters/handlers/http/chi"
	download2 "blobvault/internal/adapters/handlers/http/chi/v1/download"
	upload2 "blobvault/internal/adapters/handlers/http/chi/v1/upload"
	redislock "blobvault/internal/adapters/lock/redis"
	"blobvault/internal/adapters/repository/postgres"
	"blobvault/internal/adapters/storage/minio"
	"blobvault/internal/config"
	"blobvault/internal/core/port"
	"blobvault/internal/core/service/download"
	"blobvault/internal/core/service/expiry"
	"blobvault/internal/core/service/upload"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
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
	defer func(db *sql.DB) {
		err := db.Close()
		if err != nil {
			logger.Error("failed to close database", "error", err)
			os.Exit(1)
		}
	}(db)
	logger.Info("db connection established")

	//storage
	minioAdapter, err := minio.NewAdapter(ctx, cfg.Minio, logger)
	if err != nil {
		logger.Error("failed to init minio", "error", err)
		os.Exit(1)
	}

	//redis: distributed lock + session expiry tracker
	lockAdapter, err := redislock.NewLockAdapter(ctx, cfg.Redis)
	if err != nil {
		logger.Error("failed to init redis lock", "error", err)
		os.Exit(1)
	}
	defer lockAdapter.Close()

	expiryTracker, err := redislock.NewExpiryAdapter(ctx, cfg.Redis, logger)
	if err != nil {
		logger.Error("failed to init expiry tracker", "error", err)
		os.Exit(1)
	}
	defer expiryTracker.Close()

	unitOfWork := postgres.NewUnitOfWork(db)

	uploadService := upload.NewUploadService(unitOfWork, minioAdapter, expiryTracker, cfg.Upload, logger)
	expiryService := expiry.NewExpiryService(unitOfWork, minioAdapter, lockAdapter, cfg.Upload, logger)
	downloadService := download.NewDownloadService(unitOfWork, minioAdapter, fetch.NewAdapter(cfg.Download), lockAdapter, cfg.Download, logger)

	//http
	uploadHandler := upload2.NewUploadHandlerV1(uploadService, logger)
	downloadHandler := download2.NewDownloadHandlerV1(downloadService, logger)

	router := chi.NewRouter(logger, uploadHandler, downloadHandler, cfg.Env.Env)
	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("starting server", "host", cfg.Server.Host, "port", cfg.Server.Port)
		servErr := server.ListenAndServe()
		if servErr != nil && !errors.Is(servErr, http.ErrServerClosed) {
			logger.Error("failed to start server", "error", servErr)
			stop()
		}
	}()

	//expiry listener: redis key notifications drive session expiration
	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("expiry listener started")
		if subErr := expiryTracker.Subscribe(ctx, expiryService.HandleExpiredKey); subErr != nil && !errors.Is(subErr, context.Canceled) {
			logger.Error("expiry listener stopped", "error", subErr)
		}
	}()

	//fallback sweep for missed notifications
	wg.Add(1)
	go func() {
		defer wg.Done()
		initSweepTask(ctx, expiryService, cfg.Upload.SweepEvery, logger)
	}()

	//wait for context cancel
	<-ctx.Done()
	logger.Info("gracefully shutting down app")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown server", "error", err)
	} else {
		logger.Info("server gracefully shutdown complete")
	}

	wg.Wait()
	logger.Info("app shutdown complete")

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

func initSweepTask(ctx context.Context, service port.ExpiryService, every time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	logger.Info("expiry sweep task initialized", "interval", every)

	for {
		select {
		case <-ticker.C:
			if err := service.SweepExpired(ctx, time.Now()); err != nil {
				logger.Error("failed to sweep expired sessions", "error", err)
			}
		case <-ctx.Done():
			logger.Info("expiry sweep task stopped")
			return
		}
	}

}
