package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stockyard/internal/config"
	"stockyard/internal/httpapi"
	"stockyard/internal/store"
	"stockyard/internal/util"
)

func main() {
	cfgPath := "config/stockyard.yaml"
	if p := os.Getenv("STOCKYARD_CONFIG"); p != "" {
		cfgPath = p
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := util.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	util.SetDefault(logger)

	sqlStore, err := store.NewSQLiteStore(cfg.Storage.SQLitePath)
	if err != nil {
		log.Fatalf("failed to open sqlite store: %v", err)
	}
	defer sqlStore.Close()

	wh, err := sqlStore.LoadSnapshot(context.Background())
	if err != nil {
		log.Fatalf("failed to restore warehouse snapshot: %v", err)
	}
	logger.Info("warehouse restored", "products", len(wh.Products()))

	ledger := store.NewParquetLedger(cfg.Storage.DataDir)

	api := httpapi.NewServer(wh, sqlStore, ledger, logger)
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: api.Handler(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("stockyard-server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}

	// Final snapshot so a clean restart resumes exactly where we stopped.
	if err := sqlStore.SaveSnapshot(shutdownCtx, wh); err != nil {
		logger.Error("final snapshot", "error", err)
	}
}
