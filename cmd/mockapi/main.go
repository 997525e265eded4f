// Package main runs the bundled fake backend: the same auth wire contract the
// production office-management service speaks, backed by in-memory stores and
// seeded with demo accounts. Useful for manual testing with cmd/praxis and for
// frontend development without the real backend.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"praxis/internal/mockapi"
	"praxis/internal/platform/config"
	"praxis/internal/platform/logger"
)

func main() {
	cfg := config.MockAPIFromEnv()
	log := logger.New()

	log.Info("initializing mockapi",
		"addr", cfg.Addr,
		"access_token_ttl", cfg.AccessTokenTTL.String(),
	)

	server := mockapi.New(cfg, mockapi.WithLogger(log))
	if err := mockapi.SeedDemoData(server); err != nil {
		log.Error("seeding demo data failed", "error", err)
		os.Exit(1)
	}

	router := server.Router()
	router.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Info("starting http server", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown on SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	log.Info("shutting down server gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
