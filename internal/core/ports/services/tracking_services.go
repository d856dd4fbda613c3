package services

import (
	"context"

	"github.com/SscSPs/etracking_app/internal/core/domain"
	"github.com/SscSPs/etracking_app/internal/dto"
)

// TrackingReaderSvc defines read operations on a document board
type TrackingReaderSvc interface {
	// GetBoard returns every row of a collection together with its session.
	GetBoard(ctx context.Context, kind domain.DocumentKind) (*domain.BoardSnapshot, error)

	// GetInteraction returns the dialog currently open on a collection.
	GetInteraction(ctx context.Context, kind domain.DocumentKind) (domain.Interaction, error)
}

// TrackingWorkflowSvc drives the status state machine
type TrackingWorkflowSvc interface {
	RequestTransition(ctx context.Context, kind domain.DocumentKind, id string, req dto.TransitionRequest, actor string) (*domain.StepResult, error)
	Confirm(ctx context.Context, kind domain.DocumentKind, req dto.ConfirmRequest, actor string) (*domain.StepResult, error)
	Select(ctx context.Context, kind domain.DocumentKind, req dto.SelectRequest, actor string) (*domain.StepResult, error)
	Cancel(ctx context.Context, kind domain.DocumentKind, actor string) (*domain.StepResult, error)
}

// TrackingWriterSvc defines direct edits and session changes
type TrackingWriterSvc interface {
	CreateDocuments(ctx context.Context, kind domain.DocumentKind, req dto.CreateDocumentsRequest, actor string) (*domain.StepResult, error)
	DeleteDocument(ctx context.Context, kind domain.DocumentKind, id string, actor string) (*domain.StepResult, error)
	EditRemark(ctx context.Context, kind domain.DocumentKind, id string, req dto.RemarkRequest, actor string) (*domain.StepResult, error)
	ToggleDiscrepancy(ctx context.Context, kind domain.DocumentKind, id string, req dto.DiscrepancyToggleRequest, actor string) (*domain.StepResult, error)
	SetDeliveryDate(ctx context.Context, kind domain.DocumentKind, id string, req dto.DateRequest, actor string) (*domain.StepResult, error)
	SetDocumentDate(ctx context.Context, kind domain.DocumentKind, id string, req dto.DateRequest, actor string) (*domain.StepResult, error)

	// SetSelection replaces the selected row ids. Unknown ids are rejected.
	SetSelection(ctx context.Context, kind domain.DocumentKind, req dto.SelectionRequest) (*domain.BoardSnapshot, error)
	SetTestMode(ctx context.Context, kind domain.DocumentKind, req dto.TestModeRequest) (*domain.BoardSnapshot, error)
}

// TrackingSvcFacade combines all tracking service interfaces
type TrackingSvcFacade interface {
	TrackingReaderSvc
	TrackingWorkflowSvc
	TrackingWriterSvc

	// Close waits for queued writes to be persisted.
	Close(ctx context.Context) error
}
