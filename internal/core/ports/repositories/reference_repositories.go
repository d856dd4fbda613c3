package repositories

import (
	"context"

	"github.com/SscSPs/etracking_app/internal/core/domain"
)

// EmployeeReader defines read operations for assignable employees
type EmployeeReader interface {
	// ListEmployees returns employees, filtered by position when one is given.
	ListEmployees(ctx context.Context, position *domain.Position) ([]domain.Employee, error)
}

// WarehouseReader defines read operations for warehouses
type WarehouseReader interface {
	ListWarehouses(ctx context.Context) ([]domain.Warehouse, error)
}

// ReferenceWriter replaces the reference data set. Used by the seed command.
type ReferenceWriter interface {
	SeedReference(ctx context.Context, employees []domain.Employee, warehouses []domain.Warehouse) error
}

// ReferenceRepositoryFacade combines all reference data repository interfaces
type ReferenceRepositoryFacade interface {
	EmployeeReader
	WarehouseReader
	ReferenceWriter
}

// ReferenceRepositoryWithTx is the PostgreSQL flavour, which seeds inside a transaction.
type ReferenceRepositoryWithTx interface {
	ReferenceRepositoryFacade
	TransactionManager
}
