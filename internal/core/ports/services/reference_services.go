package services

import (
	"context"

	"github.com/SscSPs/etracking_app/internal/core/domain"
)

// ReferenceReaderSvc defines read operations for employees and warehouses
type ReferenceReaderSvc interface {
	ListEmployees(ctx context.Context, position *domain.Position) ([]domain.Employee, error)
	ListWarehouses(ctx context.Context) ([]domain.Warehouse, error)

	// FindEmployee looks an employee up by id, returning apperrors.ErrNotFound when absent.
	FindEmployee(ctx context.Context, id string) (*domain.Employee, error)
	FindWarehouse(ctx context.Context, id string) (*domain.Warehouse, error)
}

// ReferenceWriterSvc loads reference data
type ReferenceWriterSvc interface {
	Seed(ctx context.Context, employees []domain.Employee, warehouses []domain.Warehouse, actor string) error
}

// ReferenceSvcFacade combines all reference data service interfaces
type ReferenceSvcFacade interface {
	ReferenceReaderSvc
	ReferenceWriterSvc
}
