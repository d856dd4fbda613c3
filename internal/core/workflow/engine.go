// Package workflow is the document status state machine. It is pure: every
// call takes the current row and the open interaction and returns the writes
// to perform and the next interaction. Persistence and session state live
// in the tracking service.
package workflow

import (
	"fmt"
	"time"

	"github.com/SscSPs/etracking_app/internal/apperrors"
	"github.com/SscSPs/etracking_app/internal/core/domain"
	"github.com/SscSPs/etracking_app/internal/utils/datefmt"
)

// DefaultKeruingName is the warehouse that skips the hold type question.
const DefaultKeruingName = "Keruing"

// WriteOp is the kind of persistence command.
type WriteOp string

const (
	WriteInsert WriteOp = "insert"
	WriteUpdate WriteOp = "update"
	WriteDelete WriteOp = "delete"
)

// Write is one persistence command produced by the engine. Document is set
// for inserts, Patch for updates.
type Write struct {
	Op       WriteOp
	Kind     domain.DocumentKind
	RowID    string
	Patch    domain.Patch
	Document *domain.Document
}

// Step is the result of a single engine call.
type Step struct {
	Outcome        domain.Outcome
	Writes         []Write
	Interaction    domain.Interaction
	ClearSelection bool
}

// SelectionContext is the caller-side state a request is evaluated against.
type SelectionContext struct {
	Selected []domain.RowRef
	TestMode bool
}

// bulkFor returns the selection when the acting row is part of a multi-row selection.
func (sc SelectionContext) bulkFor(rowID string) []domain.RowRef {
	if len(sc.Selected) < 2 {
		return nil
	}
	for _, ref := range sc.Selected {
		if ref.ID == rowID {
			out := make([]domain.RowRef, len(sc.Selected))
			copy(out, sc.Selected)
			return out
		}
	}
	return nil
}

// DeliveryMode answers the "salesman or driver" question.
type DeliveryMode string

const (
	ModeSalesman DeliveryMode = "Salesman"
	ModeDriver   DeliveryMode = "Driver"
)

// AttachmentMode answers the invoice attachment question.
type AttachmentMode string

const (
	AttachNone     AttachmentMode = "none"
	AttachOriginal AttachmentMode = "original"
	AttachCopy     AttachmentMode = "copy"
)

// Choice is the answer to a selection dialog. Only the fields read by the
// open selection matter.
type Choice struct {
	Mode        DeliveryMode
	Employee    *domain.Employee
	Warehouse   *domain.Warehouse
	HoldType    string
	Date        string
	Slot        string
	Attachment  AttachmentMode
	Invoice     *domain.Document
	Discrepancy domain.Discrepancy
}

// Engine runs the transition rules for one document type.
type Engine struct {
	docType     domain.DocumentType
	keruingName string
	now         func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithKeruingName overrides the warehouse name that skips the hold type question.
func WithKeruingName(name string) Option {
	return func(e *Engine) {
		if name != "" {
			e.keruingName = name
		}
	}
}

// WithClock overrides the clock used for "today".
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEngine builds the engine for a document type.
func NewEngine(docType domain.DocumentType, opts ...Option) *Engine {
	e := &Engine{
		docType:     docType,
		keruingName: DefaultKeruingName,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// DocumentType returns the descriptor the engine was built for.
func (e *Engine) DocumentType() domain.DocumentType {
	return e.docType
}

func (e *Engine) today() string {
	return datefmt.ISO(e.now())
}

func (e *Engine) update(rowID string, p domain.Patch) Write {
	return Write{Op: WriteUpdate, Kind: e.docType.Kind, RowID: rowID, Patch: p}
}

// step derives the outcome from the interaction the flow ends on.
func step(next domain.Interaction, writes ...Write) Step {
	s := Step{Writes: writes, Interaction: next}
	switch next.State {
	case domain.InteractionConfirming:
		s.Outcome = domain.Outcome{Kind: domain.OutcomeNeedsConfirmation, Dialog: next.Dialog}
	case domain.InteractionSelecting:
		s.Outcome = domain.Outcome{Kind: domain.OutcomeNeedsSelection, Selection: next.Selection}
	default:
		s.Interaction = domain.NoInteraction()
		s.Outcome = domain.Outcome{Kind: domain.OutcomeClosed}
		if len(writes) > 0 {
			s.Outcome.Kind = domain.OutcomeCommitted
		}
	}
	if len(writes) > 0 {
		s.Outcome.Patch = writes[0].Patch
	}
	return s
}

func denied(reason domain.DenialReason) Step {
	return Step{Outcome: domain.Denied(reason), Interaction: domain.NoInteraction()}
}

type opener func(*domain.Resume) domain.Interaction

func selecting(kind domain.SelectionKind) opener {
	return func(r *domain.Resume) domain.Interaction { return domain.Selecting(kind, r) }
}

func confirming(kind domain.DialogKind) opener {
	return func(r *domain.Resume) domain.Interaction { return domain.Confirming(kind, r) }
}

// advance writes p to the acting row and opens the next dialog of the same flow.
func (e *Engine) advance(r domain.Resume, p domain.Patch, open opener) Step {
	var writes []Write
	if !p.IsEmpty() {
		writes = append(writes, e.update(r.RowID, p))
		r.Accumulated = r.Accumulated.Merge(p)
	}
	return step(open(&r), writes...)
}

// complete writes the final patch of a flow. A multi-row selection captured
// at the start of the flow turns into a bulk-apply confirmation carrying the
// whole accumulated patch; then runs after it resolves.
func (e *Engine) complete(r domain.Resume, p domain.Patch, then *domain.Interaction, extra ...Write) Step {
	var writes []Write
	if !p.IsEmpty() {
		writes = append(writes, e.update(r.RowID, p))
	}
	writes = append(writes, extra...)

	next := domain.NoInteraction()
	if then != nil {
		next = *then
	}
	if len(r.Bulk) > 1 {
		next = domain.Confirming(domain.DialogBulkApply, &domain.Resume{
			RowID:       r.RowID,
			Bulk:        r.Bulk,
			BulkPayload: r.Accumulated.Merge(p).WithoutRemarkAtBilled(),
			Then:        then,
		})
	}
	return step(next, writes...)
}

// takeCapture consumes the pending remarkAtBilled snapshot.
func takeCapture(r *domain.Resume) domain.Patch {
	if r.CaptureRemark == nil {
		return domain.Patch{}
	}
	p := domain.Patch{RemarkAtBilled: domain.Set(*r.CaptureRemark)}
	r.CaptureRemark = nil
	return p
}

// entryFor is the dialog a status opens once it has been committed.
func entryFor(target domain.Status) opener {
	switch {
	case target == domain.StatusDeliveryInProgress:
		return selecting(domain.SelectDeliveryMode)
	case target.RequiresSalesman():
		return selecting(domain.SelectSalesman)
	case target.RequiresClerk():
		return selecting(domain.SelectClerk)
	case target == domain.StatusTransfer:
		return selecting(domain.SelectTransferWarehouse)
	case target == domain.StatusHoldWarehouse:
		return selecting(domain.SelectHoldWarehouse)
	case target == domain.StatusChopSignWarehouse:
		return confirming(domain.DialogChopSignDriver)
	}
	return nil
}

// followUp opens the entry dialog of the target after a reset, outside of
// any bulk selection.
func followUp(r domain.Resume) *domain.Interaction {
	open := entryFor(r.TargetStatus)
	if open == nil {
		return nil
	}
	next := open(&domain.Resume{
		RowID:          r.RowID,
		TargetStatus:   r.TargetStatus,
		PreviousStatus: r.PreviousStatus,
	})
	return &next
}

// afterAssignment is the document-type extension that runs once a delivery
// assignment is complete.
func (e *Engine) afterAssignment(rowID string) *domain.Interaction {
	if !e.docType.AttachInvoice {
		return nil
	}
	next := domain.Selecting(domain.SelectAttachment, &domain.Resume{RowID: rowID})
	return &next
}

func (e *Engine) resumeFor(in domain.Interaction, row domain.Document, state domain.InteractionState) (domain.Resume, error) {
	if !in.IsOpen() || in.Resume == nil {
		return domain.Resume{}, apperrors.ErrNoInteraction
	}
	if in.State != state {
		return domain.Resume{}, fmt.Errorf("%w: dialog is %s", apperrors.ErrInteractionMismatch, in.State)
	}
	if in.Resume.RowID != row.ID {
		return domain.Resume{}, fmt.Errorf("%w: dialog is for row %s", apperrors.ErrInteractionMismatch, in.Resume.RowID)
	}
	return *in.Resume, nil
}
