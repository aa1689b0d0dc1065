package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"clubledger/internal/amqp"
	"clubledger/internal/config"
	"clubledger/internal/log"
	"clubledger/internal/report"
	"clubledger/internal/sheets"
	gsheet "clubledger/internal/sheets/google"
	mem "clubledger/internal/sheets/memory"
	"clubledger/internal/storage"
	"clubledger/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := log.New(log.Config{
		Level:     slog.LevelInfo,
		Component: log.ComponentWorker,
	})
	log.SetDefault(logger)

	logger.Info("Starting clubledger-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	store, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer store.Close()

	// Mirror backend: Google Sheets when configured, in-memory otherwise.
	var (
		appender  sheets.LedgerAppender
		snapshots sheets.SnapshotWriter
	)
	if cfg.MirrorSpreadsheetID != "" {
		cli, err := gsheet.New(context.Background(), cfg.MirrorSpreadsheetID, cfg.MirrorLedgerSheet, cfg.MirrorReportSheet)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		appender, snapshots = cli, cli
		logger.Info("Google Sheets mirror initialized", "spreadsheet_id", cfg.MirrorSpreadsheetID)
	} else {
		memStore := mem.New()
		appender, snapshots = memStore, memStore
		logger.Info("Google Sheets disabled - mirroring to memory only")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	reports := report.NewService(store)
	mirror := worker.NewMirrorWorker(store, appender, snapshots, reports, cfg.SnapshotSeasonID)

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		handler := func(msg *amqp.LedgerEvent) error {
			return mirror.HandleLedgerEvent(ctx, msg)
		}
		if err := amqpClient.ConsumeLedgerEvents(ctx, handler); err != nil {
			if err != context.Canceled {
				logger.Error("Message consumption failed", "error", err)
			}
			cancel()
		}
	}()

	go func() {
		if err := mirror.RunSnapshotLoop(ctx, cfg.SnapshotInterval); err != nil && err != context.Canceled {
			logger.Error("Snapshot loop failed", "error", err)
		}
	}()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	// Give the worker time to finish current operations
	logger.Info("Shutting down worker...")
	cancel()

	<-time.After(5 * time.Second)
	logger.Info("Worker shutdown complete")
}
