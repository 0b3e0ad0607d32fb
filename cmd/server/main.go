package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/user/honey-market/config"
	"github.com/user/honey-market/internal/api"
	"github.com/user/honey-market/internal/catalog"
	"github.com/user/honey-market/internal/game"
	"github.com/user/honey-market/internal/store"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "./config/config.json", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Set up logger
	logger := setupLogger(cfg.Server.LogLevel)
	defer logger.Sync()

	ctx := context.Background()

	st, err := openStore(cfg.Store, logger)
	if err != nil {
		logger.Fatal("Failed to open store", zap.Error(err))
	}
	defer st.Close()

	cat, err := catalog.Load(ctx, catalogSource(cfg.Catalog), logger)
	if err != nil {
		logger.Fatal("Failed to load catalog", zap.Error(err))
	}

	gameManager, err := game.NewGameManager(ctx, cfg, st, cat, logger)
	if err != nil {
		logger.Fatal("Failed to start game", zap.Error(err))
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: api.NewRouter(gameManager, logger),
	}

	go func() {
		logger.Info("Starting HTTP server",
			zap.String("port", cfg.Server.Port),
			zap.String("store", cfg.Store.Driver),
			zap.String("catalog", cat.Origin()))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server stopped", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shut down HTTP server", zap.Error(err))
	}
}

func setupLogger(level string) *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if lvl, err := zapcore.ParseLevel(level); err == nil {
		config.Level = zap.NewAtomicLevelAt(lvl)
	}
	logger, _ := config.Build()
	return logger
}

func openStore(cfg config.StoreConfig, logger *zap.Logger) (store.Store, error) {
	if cfg.Driver == store.DriverSQLite {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}
	return store.Open(cfg.Driver, cfg.Path, cfg.CacheSize, logger)
}

// catalogSource returns nil for the embedded catalog
func catalogSource(cfg config.CatalogConfig) catalog.Source {
	switch cfg.Source {
	case "file":
		return catalog.NewDataLoader(cfg.Dir)
	case "http":
		return catalog.NewHTTPSource(cfg.URL, time.Duration(cfg.FetchTimeoutSeconds)*time.Second)
	default:
		return nil
	}
}

func waitForShutdown(logger *zap.Logger) {
	// Set up channel for shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Wait for shutdown signal
	sig := <-sigChan
	logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
}
