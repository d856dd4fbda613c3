package workflow

import (
	"github.com/SscSPs/etracking_app/internal/core/domain"
	"github.com/SscSPs/etracking_app/internal/utils/datefmt"
)

func locked(row domain.Document, sc SelectionContext) bool {
	return row.Status == domain.StatusCompleted && !sc.TestMode
}

// EditRemark overwrites the free-text remark.
func (e *Engine) EditRemark(row domain.Document, remark string, sc SelectionContext) Step {
	if locked(row, sc) {
		return denied(domain.DeniedPhase4Locked)
	}
	return step(domain.NoInteraction(), e.update(row.ID, domain.Patch{Remark: domain.Set(remark)}))
}

// SetDeliveryDate edits the delivery date in place. Rows that are out for
// delivery are then asked for a slot; hold and chop & sign rows are not.
func (e *Engine) SetDeliveryDate(row domain.Document, raw string, sc SelectionContext) (Step, error) {
	if locked(row, sc) {
		return denied(domain.DeniedPhase4Locked), nil
	}
	date, err := datefmt.Parse(raw)
	if err != nil {
		return Step{}, err
	}
	p := domain.Patch{
		DeliveryDate: domain.Set(date),
		DeliverySlot: domain.Set(domain.SlotUnset),
	}
	if row.Status.IsHoldOrChopSign() {
		return step(domain.NoInteraction(), e.update(row.ID, p)), nil
	}
	r := domain.Resume{RowID: row.ID, TargetStatus: row.Status, PreviousStatus: row.Status}
	return e.advance(r, p, selecting(domain.SelectDeliverySlot)), nil
}

// SetDocumentDate edits the document's own date.
func (e *Engine) SetDocumentDate(row domain.Document, raw string, sc SelectionContext) (Step, error) {
	if locked(row, sc) {
		return denied(domain.DeniedPhase4Locked), nil
	}
	date, err := datefmt.Parse(raw)
	if err != nil {
		return Step{}, err
	}
	return step(domain.NoInteraction(), e.update(row.ID, domain.Patch{DocumentDate: domain.Set(date)})), nil
}

// ToggleDiscrepancy flags or clears a discrepancy. Flagging opens the
// details dialog prefilled with what the row already carries.
func (e *Engine) ToggleDiscrepancy(row domain.Document, checked bool, sc SelectionContext) Step {
	if locked(row, sc) {
		return denied(domain.DeniedPhase4Locked)
	}
	if !checked {
		return step(domain.NoInteraction(), e.update(row.ID, domain.Patch{Discrepancy: domain.Set(domain.Discrepancy{})}))
	}
	d := row.Discrepancy
	d.Checked = true
	r := domain.Resume{RowID: row.ID, TargetStatus: row.Status, PreviousStatus: row.Status, Discrepancy: d}
	return e.advance(r, domain.Patch{Discrepancy: domain.Set(d)}, selecting(domain.SelectDiscrepancy))
}

// Delete removes a row. Only allowed in test mode.
func (e *Engine) Delete(row domain.Document, sc SelectionContext) Step {
	if !sc.TestMode {
		return denied(domain.DeniedTestModeRequired)
	}
	return step(domain.NoInteraction(), Write{Op: WriteDelete, Kind: e.docType.Kind, RowID: row.ID})
}
