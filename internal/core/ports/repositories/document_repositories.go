package repositories

import (
	"context"

	"github.com/SscSPs/etracking_app/internal/core/domain"
)

// DocumentReader defines read operations for tracked documents
type DocumentReader interface {
	// FetchAll returns every row of a collection in creation order.
	FetchAll(ctx context.Context, kind domain.DocumentKind) ([]domain.Document, error)

	// FindDocumentByID retrieves a single row.
	FindDocumentByID(ctx context.Context, kind domain.DocumentKind, id string) (*domain.Document, error)
}

// DocumentWriter defines write operations for tracked documents
type DocumentWriter interface {
	// Insert creates a row and returns it with its store-generated id.
	Insert(ctx context.Context, doc domain.Document) (*domain.Document, error)

	// Update writes the touched fields of patch and returns the stored row.
	Update(ctx context.Context, kind domain.DocumentKind, id string, patch domain.Patch, actor string) (*domain.Document, error)

	// Delete removes a row.
	Delete(ctx context.Context, kind domain.DocumentKind, id string) error
}

// DocumentRepositoryFacade combines all document-related repository interfaces
type DocumentRepositoryFacade interface {
	DocumentReader
	DocumentWriter
}
