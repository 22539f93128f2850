// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/danielhkuo/hibah-admin/apiclient"
	"github.com/danielhkuo/hibah-admin/db"
	"github.com/danielhkuo/hibah-admin/router"
	"github.com/danielhkuo/hibah-admin/site"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the back-office HTTP gateway",
	Long: `Run the HTTP gateway in front of the grant API.

The audit schema is migrated to the latest version before the server starts.

Examples:
  # Serve on the default port with a local SQLite audit log
  HIBAH_API_BASE_URL=https://hibah.example.ac.id/api hibahadmin serve

  # Audit to PostgreSQL
  hibahadmin serve --audit-backend postgres --audit-dsn "postgres://..."`,
	PreRunE: loadConfig,
	RunE: func(_ *cobra.Command, _ []string) error {
		return serve(rootCtx)
	},
}

func serve(ctx context.Context) error {
	backend, err := auditBackend()
	if err != nil {
		return err
	}
	if backend != db.NoneBackend {
		res, err := db.Migrate(ctx, backend, cfg.AuditDSN, -1)
		if err != nil {
			return err
		}
		slog.Info("audit schema ready", "backend", backend, "result", res.String())
	}

	store, err := db.Open(ctx, backend, cfg.AuditDSN)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	content, err := site.Load()
	if err != nil {
		return fmt.Errorf("failed to load site content: %w", err)
	}

	api, err := apiclient.New(cfg.APIBaseURL, apiclient.Options{Timeout: cfg.APITimeout, CacheTTL: cfg.CacheTTL})
	if err != nil {
		return err
	}

	mux, err := router.NewRouter(api, store, content, cfg)
	if err != nil {
		return err
	}

	server := http.Server{
		Handler:           router.Wrap(mux, cfg),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctrlc
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("graceful shutdown failed", "error", err)
			_ = server.Close()
		}
	}()

	slog.Info("Listening", "port", cfg.Port, "api", cfg.APIBaseURL, "audit", backend)
	err = server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	slog.Info("Server closed")
	return nil
}
