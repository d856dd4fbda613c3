package services

import (
	"log/slog"

	portsrepo "github.com/SscSPs/etracking_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/etracking_app/internal/core/ports/services"
	"github.com/SscSPs/etracking_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, logger *slog.Logger) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Reference data first, the tracking shell resolves assignees through it
	container.Reference = NewReferenceService(repos.ReferenceRepo, cfg.ReferenceCacheTTL)

	container.Tracking = NewTrackingService(
		repos.DocumentRepo,
		container.Reference,
		WithKeruingWarehouse(cfg.KeruingWarehouseName),
		WithPersistTimeout(cfg.PersistTimeout),
		WithWorkerLogger(logger),
	)

	container.Auth = NewAuthService(cfg)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.TrackingSvcFacade  = (*trackingService)(nil)
	_ portssvc.ReferenceSvcFacade = (*referenceService)(nil)
	_ portssvc.AuthSvcFacade      = (*authService)(nil)
)
