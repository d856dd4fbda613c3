package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/etracking_app/internal/core/domain"
	portsrepo "github.com/SscSPs/etracking_app/internal/core/ports/repositories"
	"github.com/SscSPs/etracking_app/internal/models"
	"github.com/SscSPs/etracking_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxReferenceRepository struct {
	BaseRepository
}

// newPgxReferenceRepository creates a new repository for employees and warehouses.
func newPgxReferenceRepository(pool *pgxpool.Pool) portsrepo.ReferenceRepositoryWithTx {
	return &PgxReferenceRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.ReferenceRepositoryWithTx = (*PgxReferenceRepository)(nil)

// ListEmployees retrieves employees ordered by name, optionally for one position.
func (r *PgxReferenceRepository) ListEmployees(ctx context.Context, position *domain.Position) ([]domain.Employee, error) {
	query := `
		SELECT employee_id, name, position, number, created_at, created_by, last_updated_at, last_updated_by
		FROM employees
		WHERE ($1::text IS NULL OR position = $1)
		ORDER BY name;
	`
	var filter *string
	if position != nil {
		filter = domain.Ref(string(*position))
	}

	rows, err := r.Pool.Query(ctx, query, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	modelEmployees, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Employee, error) {
		var e models.Employee
		err := row.Scan(
			&e.EmployeeID,
			&e.Name,
			&e.Position,
			&e.Number,
			&e.CreatedAt,
			&e.CreatedBy,
			&e.LastUpdatedAt,
			&e.LastUpdatedBy,
		)
		return e, err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Employee{}, nil
		}
		return nil, fmt.Errorf("failed to scan employees: %w", err)
	}

	employees := make([]domain.Employee, len(modelEmployees))
	for i, m := range modelEmployees {
		employees[i] = mapping.ToDomainEmployee(m)
	}
	return employees, nil
}

// ListWarehouses retrieves all warehouses ordered by name.
func (r *PgxReferenceRepository) ListWarehouses(ctx context.Context) ([]domain.Warehouse, error) {
	query := `
		SELECT warehouse_id, name, pic_name, created_at, created_by, last_updated_at, last_updated_by
		FROM warehouses
		ORDER BY name;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query warehouses: %w", err)
	}
	defer rows.Close()

	modelWarehouses, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Warehouse, error) {
		var w models.Warehouse
		err := row.Scan(
			&w.WarehouseID,
			&w.Name,
			&w.PICName,
			&w.CreatedAt,
			&w.CreatedBy,
			&w.LastUpdatedAt,
			&w.LastUpdatedBy,
		)
		return w, err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Warehouse{}, nil
		}
		return nil, fmt.Errorf("failed to scan warehouses: %w", err)
	}

	warehouses := make([]domain.Warehouse, len(modelWarehouses))
	for i, m := range modelWarehouses {
		warehouses[i] = mapping.ToDomainWarehouse(m)
	}
	return warehouses, nil
}

// SeedReference upserts employees and warehouses in a single transaction.
func (r *PgxReferenceRepository) SeedReference(ctx context.Context, employees []domain.Employee, warehouses []domain.Warehouse) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	for _, e := range employees {
		m := mapping.ToModelEmployee(e)
		_, err := tx.Exec(ctx, `
			INSERT INTO employees (employee_id, name, position, number, created_at, created_by, last_updated_at, last_updated_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (employee_id) DO UPDATE SET
				name = EXCLUDED.name,
				position = EXCLUDED.position,
				number = EXCLUDED.number,
				last_updated_at = EXCLUDED.last_updated_at,
				last_updated_by = EXCLUDED.last_updated_by;
		`, m.EmployeeID, m.Name, m.Position, m.Number, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
		if err != nil {
			return fmt.Errorf("failed to save employee %s: %w", m.EmployeeID, err)
		}
	}

	for _, w := range warehouses {
		m := mapping.ToModelWarehouse(w)
		_, err := tx.Exec(ctx, `
			INSERT INTO warehouses (warehouse_id, name, pic_name, created_at, created_by, last_updated_at, last_updated_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (warehouse_id) DO UPDATE SET
				name = EXCLUDED.name,
				pic_name = EXCLUDED.pic_name,
				last_updated_at = EXCLUDED.last_updated_at,
				last_updated_by = EXCLUDED.last_updated_by;
		`, m.WarehouseID, m.Name, m.PICName, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
		if err != nil {
			return fmt.Errorf("failed to save warehouse %s: %w", m.WarehouseID, err)
		}
	}

	return r.Commit(ctx, tx)
}
