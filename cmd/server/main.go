package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/cmplus/unit-booking-backend/internal/api"
	"github.com/cmplus/unit-booking-backend/internal/autopilot"
	"github.com/cmplus/unit-booking-backend/internal/availability"
	"github.com/cmplus/unit-booking-backend/internal/config"
	"github.com/cmplus/unit-booking-backend/internal/db"
	"github.com/cmplus/unit-booking-backend/internal/ics"
	"github.com/cmplus/unit-booking-backend/internal/logger"
	"github.com/cmplus/unit-booking-backend/internal/quote"
	"github.com/cmplus/unit-booking-backend/internal/unit"
)

func main() {
	// For receiving Ctrl+C / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg.LogLevel, cfg.IsProduction)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	// Document store: Postgres when a DSN is configured, data directory
	// otherwise.
	var repo unit.Repository
	if cfg.DBDSN != "" {
		pool, err := db.NewPool(ctx, cfg.DBDSN)
		if err != nil {
			zlog.Fatal("failed to connect to db", zap.Error(err))
		}
		defer pool.Close()
		repo = unit.NewPgxRepository(pool)
		zlog.Info("using postgres document store")
	} else {
		repo, err = unit.NewFSRepository(cfg.DataRoot)
		if err != nil {
			zlog.Fatal("failed to open data root", zap.Error(err))
		}
		zlog.Info("using file document store", zap.String("root", cfg.DataRoot))
	}

	// Init components
	availService := availability.NewService(repo)
	quoteService := quote.NewService(repo, availService)

	fetcher := ics.NewFetcher(ics.FetchConfig{
		ConnectTimeout: cfg.FetchConnectTimeout,
		TotalTimeout:   cfg.FetchTimeout,
		MaxRedirects:   cfg.FetchMaxRedirects,
	})
	exporter := ics.NewExporter(repo, cfg.FeedDomain)
	importer := ics.NewImporter(repo, fetcher, cfg.FeedDomain)

	// Scheduled feed pulls
	if cfg.AutopilotEnabled {
		pilot := autopilot.New(repo, importer, zlog)
		if err := pilot.Start(cfg.AutopilotSchedule); err != nil {
			zlog.Fatal("failed to start autopilot", zap.Error(err))
		}
		defer pilot.Stop()
	}

	// Gin router
	router := api.NewRouter(cfg, repo, quoteService, availService, exporter, importer)

	// Use http.Server for graceful shutdown
	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	// Run server in separate goroutine
	go func() {
		zlog.Info("server running", zap.String("addr", cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("server error", zap.Error(err))
		}
	}()

	// Wait for Ctrl+C
	<-ctx.Done()
	zlog.Info("shutdown signal received")

	// Create a shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(shutdownCtx); err != nil {
		zlog.Warn("server forced to shutdown", zap.Error(err))
	}

	zlog.Info("server exited gracefully")
}
