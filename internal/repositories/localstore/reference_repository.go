package localstore

import (
	"context"
	"fmt"
	"sort"

	"github.com/SscSPs/etracking_app/internal/core/domain"
	portsrepo "github.com/SscSPs/etracking_app/internal/core/ports/repositories"
)

// ReferenceRepository reads employees.json and warehouses.json.
type ReferenceRepository struct {
	store *Store
}

var _ portsrepo.ReferenceRepositoryFacade = (*ReferenceRepository)(nil)

func (r *ReferenceRepository) ListEmployees(ctx context.Context, position *domain.Position) ([]domain.Employee, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	all, err := r.employees()
	if err != nil {
		return nil, err
	}
	out := make([]domain.Employee, 0, len(all))
	for _, e := range all {
		if position == nil || e.Position == *position {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *ReferenceRepository) ListWarehouses(ctx context.Context) ([]domain.Warehouse, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	all, err := r.warehouses()
	if err != nil {
		return nil, err
	}
	if all == nil {
		all = []domain.Warehouse{}
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return all, nil
}

// SeedReference upserts by id into both files.
func (r *ReferenceRepository) SeedReference(ctx context.Context, employees []domain.Employee, warehouses []domain.Warehouse) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	currentEmployees, err := r.employees()
	if err != nil {
		return err
	}
	currentWarehouses, err := r.warehouses()
	if err != nil {
		return err
	}

	currentEmployees = upsert(currentEmployees, employees, func(e domain.Employee) string { return e.ID })
	currentWarehouses = upsert(currentWarehouses, warehouses, func(w domain.Warehouse) string { return w.ID })

	if err := r.store.writeJSON(employeesFile, currentEmployees); err != nil {
		return err
	}
	return r.store.writeJSON(warehousesFile, currentWarehouses)
}

func (r *ReferenceRepository) employees() ([]domain.Employee, error) {
	return readJSON(r.store, employeesFile, func(all []domain.Employee) error {
		for i, e := range all {
			if e.ID == "" {
				return fmt.Errorf("employee %d has no id", i)
			}
			if _, err := domain.ParsePosition(string(e.Position)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *ReferenceRepository) warehouses() ([]domain.Warehouse, error) {
	return readJSON(r.store, warehousesFile, func(all []domain.Warehouse) error {
		for i, w := range all {
			if w.ID == "" {
				return fmt.Errorf("warehouse %d has no id", i)
			}
		}
		return nil
	})
}

func upsert[T any](current, incoming []T, key func(T) string) []T {
	pos := make(map[string]int, len(current))
	for i, v := range current {
		pos[key(v)] = i
	}
	for _, v := range incoming {
		if i, ok := pos[key(v)]; ok {
			current[i] = v
			continue
		}
		pos[key(v)] = len(current)
		current = append(current, v)
	}
	return current
}
