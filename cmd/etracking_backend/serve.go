package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/SscSPs/etracking_app/internal/core/ports/services"
	"github.com/SscSPs/etracking_app/internal/core/services"
	"github.com/SscSPs/etracking_app/internal/handlers"
	"github.com/SscSPs/etracking_app/internal/middleware"
	"github.com/SscSPs/etracking_app/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 15 * time.Second

var skipMigrations bool

func init() {
	serveCmd.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "Do not apply database migrations on start")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := handleSignals(cmd.Context())
		defer cancel()
		return serve(ctx)
	},
}

func serve(ctx context.Context) error {
	if cfg.StorageDriver == config.StorageDriverPostgres && !skipMigrations {
		if err := runMigrations(cfg, logger); err != nil {
			logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
			return err
		}
	}

	repos, closeRepos, err := openRepositories(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to open storage", slog.String("error", err.Error()))
		return err
	}
	defer closeRepos()

	serviceContainer := services.NewServiceContainer(cfg, repos, logger)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	if err := r.SetTrustedProxies(nil); err != nil {
		return fmt.Errorf("failed to set trusted proxies: %w", err)
	}

	if err := handlers.RegisterRoutes(r, cfg, serviceContainer); err != nil {
		return fmt.Errorf("failed to register routes: %w", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return runServer(ctx, srv, serviceContainer.Tracking, logger)
}

// runServer serves until ctx is cancelled or the listener fails. Either way
// the server is shut down and queued writes are drained before returning.
func runServer(ctx context.Context, srv *http.Server, tracking portssvc.TrackingSvcFacade, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var runErr error
	select {
	case runErr = <-errCh:
		if runErr != nil {
			logger.Error("Server failed to run", slog.String("error", runErr.Error()))
		}
	case <-ctx.Done():
		logger.Info("Shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", slog.String("error", err.Error()))
	}
	// Requests are drained, so no new writes can be queued.
	if err := drainWrites(shutdownCtx, tracking, logger); err != nil {
		return errors.Join(runErr, err)
	}
	if runErr != nil {
		return runErr
	}
	logger.Info("Server stopped")
	return nil
}

// drainWrites waits for queued document writes to reach the store.
func drainWrites(ctx context.Context, tracking portssvc.TrackingSvcFacade, logger *slog.Logger) error {
	if err := tracking.Close(ctx); err != nil {
		logger.Error("Pending document writes were not stored", slog.String("error", err.Error()))
		return err
	}
	logger.Info("Pending document writes stored")
	return nil
}
