// cmd/main.go is the application entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/VBRVijay/Event-Management-Web-Application/internal/config"
	"github.com/VBRVijay/Event-Management-Web-Application/internal/database"
	"github.com/VBRVijay/Event-Management-Web-Application/internal/handler"
	"github.com/VBRVijay/Event-Management-Web-Application/internal/repository"
	"github.com/VBRVijay/Event-Management-Web-Application/internal/service"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	log, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config", zap.Error(err))
	}

	// ── 1. Pick the persistence backend ───────────────────────────────────
	var store repository.Store
	switch cfg.Store {
	case "memory":
		store = repository.NewMemoryStore()
		log.Info("using in-memory store")
	default:
		pool, err := database.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal("database", zap.Error(err))
		}
		defer pool.Close()
		if err := database.Migrate(ctx, pool); err != nil {
			log.Fatal("migrate", zap.Error(err))
		}
		store = repository.NewPostgresStore(pool)
		log.Info("connected to PostgreSQL", zap.String("host", cfg.DB.Host))
	}

	// ── 2. Wire up layers ────────────────────────────────────────────────
	svc := service.NewEventService(store)
	h := handler.NewEventHandler(svc, log)
	r := handler.Router(h, log)

	// ── 3. Start server with graceful shutdown ────────────────────────────
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Run in background goroutine so we can listen for shutdown signal.
	go func() {
		log.Info("server listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	// Block until SIGINT or SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("graceful shutdown failed", zap.Error(err))
	}
	log.Info("server stopped")
}
