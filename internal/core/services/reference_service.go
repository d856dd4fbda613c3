package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/etracking_app/internal/apperrors"
	"github.com/SscSPs/etracking_app/internal/core/domain"
	portsrepo "github.com/SscSPs/etracking_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/etracking_app/internal/core/ports/services"
	"github.com/jellydator/ttlcache/v3"
)

const (
	allEmployeesKey = "*"
	warehousesKey   = "warehouses"
)

// referenceService serves employees and warehouses through a TTL cache.
// Employees are cached per position filter.
type referenceService struct {
	BaseService
	repo       portsrepo.ReferenceRepositoryFacade
	employees  *ttlcache.Cache[string, []domain.Employee]
	warehouses *ttlcache.Cache[string, []domain.Warehouse]
}

// NewReferenceService creates a reference data service. Entries expire after ttl.
func NewReferenceService(repo portsrepo.ReferenceRepositoryFacade, ttl time.Duration) portssvc.ReferenceSvcFacade {
	s := &referenceService{
		repo: repo,
		employees: ttlcache.New(
			ttlcache.WithTTL[string, []domain.Employee](ttl),
		),
		warehouses: ttlcache.New(
			ttlcache.WithTTL[string, []domain.Warehouse](ttl),
		),
	}
	go s.employees.Start()
	go s.warehouses.Start()
	return s
}

// cached runs load through cache on a miss. Failed loads are not cached.
func cached[V any](cache *ttlcache.Cache[string, V], key string, load func() (V, error)) (V, error) {
	var loadErr error
	loader := ttlcache.LoaderFunc[string, V](
		func(c *ttlcache.Cache[string, V], key string) *ttlcache.Item[string, V] {
			v, err := load()
			if err != nil {
				loadErr = err
				return nil
			}
			return c.Set(key, v, ttlcache.DefaultTTL)
		},
	)
	item := cache.Get(key, ttlcache.WithLoader(loader))
	if item == nil {
		var zero V
		if loadErr == nil {
			loadErr = fmt.Errorf("reference data %s unavailable", key)
		}
		return zero, loadErr
	}
	return item.Value(), nil
}

func (s *referenceService) ListEmployees(ctx context.Context, position *domain.Position) ([]domain.Employee, error) {
	key := allEmployeesKey
	if position != nil {
		key = string(*position)
	}
	employees, err := cached(s.employees, key, func() ([]domain.Employee, error) {
		return s.repo.ListEmployees(ctx, position)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to list employees", slog.String("position", key))
		return nil, fmt.Errorf("failed to list employees in service: %w", err)
	}
	return employees, nil
}

func (s *referenceService) ListWarehouses(ctx context.Context) ([]domain.Warehouse, error) {
	warehouses, err := cached(s.warehouses, warehousesKey, func() ([]domain.Warehouse, error) {
		return s.repo.ListWarehouses(ctx)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to list warehouses")
		return nil, fmt.Errorf("failed to list warehouses in service: %w", err)
	}
	return warehouses, nil
}

func (s *referenceService) FindEmployee(ctx context.Context, id string) (*domain.Employee, error) {
	employees, err := s.ListEmployees(ctx, nil)
	if err != nil {
		return nil, err
	}
	for _, e := range employees {
		if e.ID == id {
			return &e, nil
		}
	}
	return nil, fmt.Errorf("%w: employee %s", apperrors.ErrNotFound, id)
}

func (s *referenceService) FindWarehouse(ctx context.Context, id string) (*domain.Warehouse, error) {
	warehouses, err := s.ListWarehouses(ctx)
	if err != nil {
		return nil, err
	}
	for _, w := range warehouses {
		if w.ID == id {
			return &w, nil
		}
	}
	return nil, fmt.Errorf("%w: warehouse %s", apperrors.ErrNotFound, id)
}

// Seed stamps and stores the reference data, then drops the cache.
func (s *referenceService) Seed(ctx context.Context, employees []domain.Employee, warehouses []domain.Warehouse, actor string) error {
	now := time.Now().UTC()
	for i := range employees {
		if _, err := domain.ParsePosition(string(employees[i].Position)); err != nil {
			return err
		}
		employees[i].StampCreated(actor, now)
	}
	for i := range warehouses {
		warehouses[i].StampCreated(actor, now)
	}

	if err := s.repo.SeedReference(ctx, employees, warehouses); err != nil {
		s.LogError(ctx, err, "Failed to seed reference data")
		return fmt.Errorf("failed to seed reference data in service: %w", err)
	}
	s.employees.DeleteAll()
	s.warehouses.DeleteAll()

	s.LogInfo(ctx, "Reference data seeded",
		slog.Int("employees", len(employees)),
		slog.Int("warehouses", len(warehouses)))
	return nil
}
