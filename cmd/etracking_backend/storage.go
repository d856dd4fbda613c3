package main

import (
	"context"
	"fmt"
	"log/slog"

	portsrepo "github.com/SscSPs/etracking_app/internal/core/ports/repositories"
	"github.com/SscSPs/etracking_app/internal/platform/config"
	"github.com/SscSPs/etracking_app/internal/repositories/database/pgsql"
	"github.com/SscSPs/etracking_app/internal/repositories/localstore"
	"github.com/SscSPs/etracking_app/pkg/database"
)

// openRepositories builds the repository provider for the configured storage
// driver. The returned cleanup releases it.
func openRepositories(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, func(), error) {
	if cfg.StorageDriver == config.StorageDriverLocal {
		repos, err := localstore.NewRepositoryProvider(cfg.LocalStoreDir, logger)
		if err != nil {
			return portsrepo.RepositoryProvider{}, nil, fmt.Errorf("failed to open local store: %w", err)
		}
		logger.Info("Using local file storage", slog.String("dir", cfg.LocalStoreDir))
		return repos, func() {}, nil
	}

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return portsrepo.RepositoryProvider{}, nil, fmt.Errorf("failed to initialize database pool: %w", err)
	}
	logger.Info("Database connection pool established.")
	return pgsql.NewRepositoryProvider(dbPool), func() { database.ClosePgxPool(dbPool) }, nil
}
