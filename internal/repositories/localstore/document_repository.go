package localstore

import (
	"context"
	"fmt"

	"github.com/SscSPs/etracking_app/internal/apperrors"
	"github.com/SscSPs/etracking_app/internal/core/domain"
	portsrepo "github.com/SscSPs/etracking_app/internal/core/ports/repositories"
	"github.com/SscSPs/etracking_app/internal/utils"
)

// DocumentRepository stores each collection in <kind>.json.
type DocumentRepository struct {
	store *Store
}

var _ portsrepo.DocumentRepositoryFacade = (*DocumentRepository)(nil)

func fileFor(kind domain.DocumentKind) string {
	return string(kind) + ".json"
}

// validDocuments rejects rows the workflow could not act on.
func validDocuments(docs []domain.Document) error {
	for i, d := range docs {
		if d.ID == "" {
			return fmt.Errorf("row %d has no id", i)
		}
		if !d.Status.IsValid() {
			return fmt.Errorf("row %s has unknown status %q", d.ID, d.Status)
		}
	}
	return nil
}

func (r *DocumentRepository) load(kind domain.DocumentKind) ([]domain.Document, error) {
	docs, err := readJSON(r.store, fileFor(kind), validDocuments)
	if err != nil {
		return nil, err
	}
	for i := range docs {
		docs[i].Kind = kind
	}
	return docs, nil
}

func indexOf(docs []domain.Document, id string) int {
	for i, d := range docs {
		if d.ID == id {
			return i
		}
	}
	return -1
}

// FetchAll returns the rows in file order, which is creation order.
func (r *DocumentRepository) FetchAll(ctx context.Context, kind domain.DocumentKind) ([]domain.Document, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	docs, err := r.load(kind)
	if err != nil {
		return nil, err
	}
	if docs == nil {
		docs = []domain.Document{}
	}
	return docs, nil
}

func (r *DocumentRepository) FindDocumentByID(ctx context.Context, kind domain.DocumentKind, id string) (*domain.Document, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	docs, err := r.load(kind)
	if err != nil {
		return nil, err
	}
	i := indexOf(docs, id)
	if i < 0 {
		return nil, apperrors.ErrNotFound
	}
	return &docs[i], nil
}

// Insert appends the row under a fresh local id.
func (r *DocumentRepository) Insert(ctx context.Context, doc domain.Document) (*domain.Document, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	docs, err := r.load(doc.Kind)
	if err != nil {
		return nil, err
	}
	now := r.store.now()
	id, err := utils.NewLocalID(now)
	if err != nil {
		return nil, fmt.Errorf("failed to generate document id: %w", err)
	}
	doc.ID = id
	if doc.CreatedAt.IsZero() {
		doc.StampCreated(doc.CreatedBy, now)
	}
	docs = append(docs, doc)
	if err := r.store.writeJSON(fileFor(doc.Kind), docs); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *DocumentRepository) Update(ctx context.Context, kind domain.DocumentKind, id string, patch domain.Patch, actor string) (*domain.Document, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	docs, err := r.load(kind)
	if err != nil {
		return nil, err
	}
	i := indexOf(docs, id)
	if i < 0 {
		return nil, apperrors.ErrNotFound
	}
	updated := patch.Apply(docs[i])
	updated.StampUpdated(actor, r.store.now())
	docs[i] = updated
	if err := r.store.writeJSON(fileFor(kind), docs); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *DocumentRepository) Delete(ctx context.Context, kind domain.DocumentKind, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	docs, err := r.load(kind)
	if err != nil {
		return err
	}
	i := indexOf(docs, id)
	if i < 0 {
		return apperrors.ErrNotFound
	}
	docs = append(docs[:i], docs[i+1:]...)
	return r.store.writeJSON(fileFor(kind), docs)
}
