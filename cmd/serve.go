package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Therealjustindude/stack-guide/db"
	"github.com/Therealjustindude/stack-guide/internal/api"
	"github.com/Therealjustindude/stack-guide/internal/config"
	"github.com/Therealjustindude/stack-guide/internal/feedback"
	"github.com/Therealjustindude/stack-guide/internal/upload"
)

// Server timeout configuration.
const (
	readHeaderTimeout = 10 * time.Second
	readTimeout       = 60 * time.Second // uploads can be slow on large files
	writeTimeout      = 60 * time.Second
	idleTimeout       = 2 * time.Minute
	shutdownTimeout   = 30 * time.Second
)

// runServe initializes and starts the HTTP API server.
func runServe() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	addr, err := parseServeAddr()
	if err != nil {
		return fmt.Errorf("parsing address: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := slog.Default()
	logger.Info("starting StackGuide backend", "version", Version, "upload_dir", cfg.UploadDir)

	uploads := upload.New(cfg.UploadDir, config.MaxUploadSize, config.AllowedExtensions, logger.With("component", "upload"))

	var (
		pool          *pgxpool.Pool
		feedbackStore *feedback.Store
	)
	if cfg.PostgresEnabled {
		if err := db.Migrate(cfg.PostgresURL()); err != nil {
			return fmt.Errorf("migrating database: %w", err)
		}

		pool, err = pgxpool.New(ctx, cfg.PostgresConnectionString())
		if err != nil {
			return fmt.Errorf("creating database pool: %w", err)
		}
		defer pool.Close()

		if err := pool.Ping(ctx); err != nil {
			return fmt.Errorf("pinging database: %w", err)
		}
		logger.Info("connected to PostgreSQL", "host", cfg.PostgresHost, "database", cfg.PostgresDBName)

		feedbackStore = feedback.New(pool, logger.With("component", "feedback"))
	}

	apiServer, err := api.NewServer(api.ServerConfig{
		Logger:     logger,
		Uploads:    uploads,
		Feedback:   feedbackStore,
		Pool:       pool,
		TrustProxy: cfg.TrustProxy,
		RateBurst:  cfg.RateBurst,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	logger.Info("HTTP server ready",
		"addr", addr,
		"health", "/health, /ready",
		"upload", "/upload",
		"files", "/files",
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down HTTP server")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down server: %w", err)
		}
		<-errCh
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("HTTP server: %w", err)
	}
}
