package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/etracking_app/internal/apperrors"
	"github.com/SscSPs/etracking_app/internal/core/domain"
	portsrepo "github.com/SscSPs/etracking_app/internal/core/ports/repositories"
	"github.com/SscSPs/etracking_app/internal/models"
	"github.com/SscSPs/etracking_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const documentColumns = `document_id, kind, document_no, document_date, status,
	assigned_driver_id, assigned_salesman_id, assigned_clerk_id,
	transfer_warehouse_id, hold_warehouse_id, hold_warehouse_type,
	delivery_date, delivery_slot, remark, remark_at_billed, discrepancy,
	created_at, created_by, last_updated_at, last_updated_by`

// patchColumns maps the JSON names reported by domain.Patch.Changes to columns.
var patchColumns = map[string]string{
	"documentNo":          "document_no",
	"documentDate":        "document_date",
	"status":              "status",
	"assignedDriverId":    "assigned_driver_id",
	"assignedSalesmanId":  "assigned_salesman_id",
	"assignedClerkId":     "assigned_clerk_id",
	"transferWarehouseId": "transfer_warehouse_id",
	"holdWarehouseId":     "hold_warehouse_id",
	"holdWarehouseType":   "hold_warehouse_type",
	"deliveryDate":        "delivery_date",
	"deliverySlot":        "delivery_slot",
	"remark":              "remark",
	"remarkAtBilled":      "remark_at_billed",
	"discrepancy":         "discrepancy",
}

type PgxDocumentRepository struct {
	BaseRepository
}

// newPgxDocumentRepository creates a new repository for tracked documents.
func newPgxDocumentRepository(pool *pgxpool.Pool) portsrepo.DocumentRepositoryFacade {
	return &PgxDocumentRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.DocumentRepositoryFacade = (*PgxDocumentRepository)(nil)

func scanDocument(row pgx.Row) (models.Document, error) {
	var m models.Document
	err := row.Scan(
		&m.DocumentID,
		&m.Kind,
		&m.DocumentNo,
		&m.DocumentDate,
		&m.Status,
		&m.AssignedDriverID,
		&m.AssignedSalesmanID,
		&m.AssignedClerkID,
		&m.TransferWarehouseID,
		&m.HoldWarehouseID,
		&m.HoldWarehouseType,
		&m.DeliveryDate,
		&m.DeliverySlot,
		&m.Remark,
		&m.RemarkAtBilled,
		&m.Discrepancy,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// FetchAll retrieves every row of a collection, oldest first.
func (r *PgxDocumentRepository) FetchAll(ctx context.Context, kind domain.DocumentKind) ([]domain.Document, error) {
	query := `SELECT ` + documentColumns + `
		FROM documents
		WHERE kind = $1
		ORDER BY created_at, document_id;`

	rows, err := r.Pool.Query(ctx, query, string(kind))
	if err != nil {
		return nil, fmt.Errorf("failed to query %s documents: %w", kind, err)
	}
	defer rows.Close()

	modelDocs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Document, error) {
		return scanDocument(row)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Document{}, nil
		}
		return nil, fmt.Errorf("failed to scan %s documents: %w", kind, err)
	}

	return mapping.ToDomainDocumentSlice(modelDocs), nil
}

// FindDocumentByID retrieves a single row of a collection.
func (r *PgxDocumentRepository) FindDocumentByID(ctx context.Context, kind domain.DocumentKind, id string) (*domain.Document, error) {
	query := `SELECT ` + documentColumns + `
		FROM documents
		WHERE kind = $1 AND document_id = $2;`

	m, err := scanDocument(r.Pool.QueryRow(ctx, query, string(kind), id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find %s document %s: %w", kind, id, err)
	}
	doc := mapping.ToDomainDocument(m)
	return &doc, nil
}

// Insert creates a row and lets the database assign its id.
func (r *PgxDocumentRepository) Insert(ctx context.Context, doc domain.Document) (*domain.Document, error) {
	m, err := mapping.ToModelDocument(doc)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO documents (kind, document_no, document_date, status,
			assigned_driver_id, assigned_salesman_id, assigned_clerk_id,
			transfer_warehouse_id, hold_warehouse_id, hold_warehouse_type,
			delivery_date, delivery_slot, remark, remark_at_billed, discrepancy,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		RETURNING ` + documentColumns + `;`

	saved, err := scanDocument(r.Pool.QueryRow(ctx, query,
		m.Kind,
		m.DocumentNo,
		m.DocumentDate,
		m.Status,
		m.AssignedDriverID,
		m.AssignedSalesmanID,
		m.AssignedClerkID,
		m.TransferWarehouseID,
		m.HoldWarehouseID,
		m.HoldWarehouseType,
		m.DeliveryDate,
		m.DeliverySlot,
		m.Remark,
		m.RemarkAtBilled,
		m.Discrepancy,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to insert %s document %s: %w", m.Kind, m.DocumentNo, err)
	}
	out := mapping.ToDomainDocument(saved)
	return &out, nil
}

// Update writes only the touched fields of patch.
func (r *PgxDocumentRepository) Update(ctx context.Context, kind domain.DocumentKind, id string, patch domain.Patch, actor string) (*domain.Document, error) {
	sets, args, err := buildPatchSet(patch)
	if err != nil {
		return nil, err
	}
	args = append(args, time.Now().UTC(), actor, string(kind), id)
	n := len(args)
	sets = append(sets,
		fmt.Sprintf("last_updated_at = $%d", n-3),
		fmt.Sprintf("last_updated_by = $%d", n-2),
	)

	query := fmt.Sprintf(`UPDATE documents SET %s
		WHERE kind = $%d AND document_id = $%d
		RETURNING %s;`, strings.Join(sets, ", "), n-1, n, documentColumns)

	m, err := scanDocument(r.Pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update %s document %s: %w", kind, id, err)
	}
	doc := mapping.ToDomainDocument(m)
	return &doc, nil
}

// Delete removes a row.
func (r *PgxDocumentRepository) Delete(ctx context.Context, kind domain.DocumentKind, id string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM documents WHERE kind = $1 AND document_id = $2;`, string(kind), id)
	if err != nil {
		return fmt.Errorf("failed to delete %s document %s: %w", kind, id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// buildPatchSet renders the SET assignments for the touched fields of p,
// numbering placeholders from $1.
func buildPatchSet(p domain.Patch) ([]string, []any, error) {
	changes := p.Changes()
	sets := make([]string, 0, len(changes)+2)
	args := make([]any, 0, len(changes)+4)
	for _, c := range changes {
		col, ok := patchColumns[c.Name]
		if !ok {
			return nil, nil, fmt.Errorf("%w: no column for field %s", apperrors.ErrValidation, c.Name)
		}
		v := c.Value
		if d, ok := v.(domain.Discrepancy); ok {
			raw, err := json.Marshal(d)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to encode discrepancy: %w", err)
			}
			v = raw
		}
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	return sets, args, nil
}
