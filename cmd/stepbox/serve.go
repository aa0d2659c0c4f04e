// ABOUTME: CLI serve command: run the HTTP sync server over the local store.
// ABOUTME: Graceful shutdown on SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/stepbox/stepbox/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the sync server",
	Long: `Run the HTTP sync server against the local store. Other stepBox
installs can push their snapshots to it:

  stepbox serve --addr :8080

Endpoints:
  POST /api/v1/sync                          accept a snapshot
  GET  /api/v1/users/{userId}/challenges     list a user's challenges
  GET  /healthz                              liveness probe
  GET  /metrics                              Prometheus metrics

Set STEPBOX_METRICS_USER and STEPBOX_METRICS_PASS to put /metrics behind
basic auth.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := server.LoadConfig()
		if err != nil {
			return fmt.Errorf("load server config: %w", err)
		}
		if serveAddr != "" {
			cfg.Addr = serveAddr
		}

		srv := server.New(dataStore, cfg, logger)
		httpSrv := &http.Server{
			Addr:              cfg.Addr,
			Handler:           srv.Router(),
			ReadHeaderTimeout: 5 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			logger.Info("sync server listening", "addr", cfg.Addr)
			fmt.Fprintf(os.Stderr, "stepbox sync server on %s\n", cfg.Addr)
			errCh <- httpSrv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)
		case <-ctx.Done():
		}

		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides STEPBOX_ADDR)")
	rootCmd.AddCommand(serveCmd)
}
