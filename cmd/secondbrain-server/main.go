// Package main provides the REST API server for Second Brain.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/raphaelgruber/secondbrain/internal/auth"
	"github.com/raphaelgruber/secondbrain/internal/config"
	"github.com/raphaelgruber/secondbrain/internal/db"
	"github.com/raphaelgruber/secondbrain/internal/localstore"
	"github.com/raphaelgruber/secondbrain/internal/metrics"
	"github.com/raphaelgruber/secondbrain/internal/server"
	"github.com/raphaelgruber/secondbrain/internal/service"
)

const version = "0.1.0"

// storage is a service.Store that can also be wiped and closed.
type storage struct {
	service.Store
	wipe  func(ctx context.Context) error
	close func(ctx context.Context) error
}

func openStorage(ctx context.Context, cfg config.Config, logger *slog.Logger) (*storage, error) {
	switch cfg.Storage {
	case config.StorageSurrealDB:
		client, err := db.NewClient(ctx, db.Config{
			URL:       cfg.SurrealDBURL,
			Namespace: cfg.SurrealDBNamespace,
			Database:  cfg.SurrealDBDatabase,
			Username:  cfg.SurrealDBUser,
			Password:  cfg.SurrealDBPass,
			AuthLevel: cfg.SurrealDBAuthLevel,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("connect surrealdb: %w", err)
		}
		if err := client.InitSchema(ctx); err != nil {
			_ = client.Close(ctx)
			return nil, fmt.Errorf("init schema: %w", err)
		}
		return &storage{Store: client, wipe: client.WipeData, close: client.Close}, nil

	case config.StorageSQLite:
		store, err := localstore.Open(ctx, cfg.SQLitePath, logger)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		return &storage{Store: store, wipe: store.Wipe, close: store.Close}, nil

	default:
		return nil, fmt.Errorf("unknown storage %q (want %s or %s)", cfg.Storage, config.StorageSurrealDB, config.StorageSQLite)
	}
}

func main() {
	// Parse flags
	wipeDB := flag.Bool("wipe", false, "wipe all data from the store on startup (testing only)")
	flag.Parse()

	cfg := config.Load()

	// Setup logger (dual output: stderr text + file JSON)
	logger, cleanup := config.SetupLogger("secondbrain-server", cfg.LogFile, cfg.LogLevel)
	defer func() { _ = cleanup() }()
	slog.SetDefault(logger)

	logger.Info("starting secondbrain-server", "version", version, "port", cfg.ServerPort, "storage", cfg.Storage)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	store, err := openStorage(ctx, cfg, logger)
	cancel()
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := store.close(context.Background()); err != nil {
			logger.Error("failed to close storage", "error", err)
		}
	}()

	// Wipe store if requested (via flag or env var)
	if *wipeDB || os.Getenv("SECONDBRAIN_WIPE_DB") == "true" {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := store.wipe(ctx)
		cancel()
		if err != nil {
			logger.Error("failed to wipe store", "error", err)
			os.Exit(1)
		}
		logger.Warn("store wiped")
	}

	tokens, err := auth.NewTokenIssuer(auth.TokenConfig{
		Secret: cfg.JWTSecret,
		Issuer: cfg.JWTIssuer,
		TTL:    cfg.TokenTTL,
	})
	if err != nil {
		logger.Error("failed to create token issuer", "error", err)
		os.Exit(1)
	}

	m := metrics.NewCollector()
	srv := server.New(server.Deps{
		Auth:        service.NewAuthService(store, auth.NewPasswordHasher(cfg.BcryptCost), tokens, m, logger),
		Memories:    service.NewMemoryService(store, m, logger),
		Search:      service.NewSearchService(store, m, logger),
		Metrics:     m,
		Logger:      logger,
		CORSOrigins: cfg.CORSOrigins,
	})

	httpServer := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      srv.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		logger.Info("API available", "url", fmt.Sprintf("http://localhost:%s/api", cfg.ServerPort))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for interrupt signal or listener failure
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		logger.Info("shutting down server", "signal", sig)
	case err := <-errCh:
		logger.Error("server error", "error", err)
	}

	// Graceful shutdown with timeout
	ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server stopped")
}
