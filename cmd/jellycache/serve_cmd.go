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

	"github.com/Nomadcxx/jellycache/internal/api"
	"github.com/Nomadcxx/jellycache/internal/config"
	"github.com/Nomadcxx/jellycache/internal/database"
	"github.com/Nomadcxx/jellycache/internal/logging"
	"github.com/Nomadcxx/jellycache/internal/paths"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the fingerprint API server",
		Long: `Start the HTTP API used by the caching proxy and dashboards.

Endpoints:
  GET    /api/v1/health
  GET    /api/v1/fingerprint?url=<request-url>
  POST   /api/v1/compare          {"a": "<url>", "b": "<url>"}
  GET    /api/v1/variants?limit=N
  GET    /api/v1/variants/{key}
  DELETE /api/v1/variants/{key}
  GET    /metrics

Examples:
  jellycache serve                  # Listen on the configured address
  jellycache serve --addr :9000     # Override the listen address`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "address to listen on (overrides server.addr)")

	return cmd
}

func runServe(ctx context.Context, addr string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}

	logger, err := logging.New(cfg.Logging.LoggerConfig())
	if err != nil {
		return fmt.Errorf("failed to start logger: %w", err)
	}
	defer logger.Close()

	var db *database.VariantDB
	if cfg.Database.RecordVariants {
		db, err = database.OpenPath(cfg.DatabasePath())
		if err != nil {
			return fmt.Errorf("failed to open variant registry: %w", err)
		}
		defer db.Close()
	}

	watchConfig(logger)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           api.NewServer(cfg, db, logger).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serve", "listening", logging.F("addr", cfg.Server.Addr), logging.F("version", version))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("serve", "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// watchConfig applies log level edits without a restart.
func watchConfig(logger *logging.Logger) {
	path := cfgFile
	if path == "" {
		var err error
		if path, err = paths.ConfigPath(); err != nil {
			return
		}
	}

	log := logger.Component("config").With(logging.F("path", path))
	err := config.Watch(path, func(cfg *config.Config, err error) {
		if err != nil {
			log.Warn("ignoring invalid config change", logging.F("error", err))
			return
		}
		level := logging.ParseLevel(cfg.Logging.Level)
		if level != logger.GetLevel() {
			logger.SetLevel(level)
			log.Info("log level changed", logging.F("level", level))
		}
	})
	if err != nil {
		log.Debug("config hot reload disabled", logging.F("reason", err))
	}
}
