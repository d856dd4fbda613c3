package workflow

import (
	"github.com/SscSPs/etracking_app/internal/core/domain"
)

// RequestTransition evaluates a status change on row. The rules are tried in
// order and the first match decides the step.
func (e *Engine) RequestTransition(row domain.Document, target domain.Status, sc SelectionContext) Step {
	current, err := domain.PhaseOf(row.Status)
	if err != nil {
		return denied(domain.DeniedUnknownStatus)
	}
	next, err := domain.PhaseOf(target)
	if err != nil {
		return denied(domain.DeniedUnknownStatus)
	}

	r := domain.Resume{
		RowID:          row.ID,
		TargetStatus:   target,
		PreviousStatus: row.Status,
	}
	if target == row.Status {
		return step(domain.Confirming(domain.DialogSameStatus, &r))
	}

	r.Bulk = sc.bulkFor(row.ID)
	if current == domain.PhaseBilling && next > domain.PhaseBilling {
		r.CaptureRemark = domain.Ref(row.Remark)
	}

	switch {
	case current == domain.PhaseCompleted && next < domain.PhaseCompleted && !sc.TestMode:
		return denied(domain.DeniedPhase4Locked)
	case current == domain.PhasePreparation && target == domain.StatusBilled:
		return step(domain.Confirming(domain.DialogBacktrackToBilled, &r))
	case current == domain.PhaseDelivered && next < domain.PhaseDelivered:
		return step(domain.Confirming(domain.DialogPhase4Backtrack, &r))
	case (current == domain.PhaseInTransit || current == domain.PhaseDelivered) && next == domain.PhasePreparation:
		if target == domain.StatusPreparingDelivery {
			return step(domain.Confirming(domain.DialogRedeliver, &r))
		}
		return step(domain.Confirming(domain.DialogChangeStatus, &r))
	case target == domain.StatusDelivered && !readyForDelivery(row):
		return denied(domain.DeniedDeliveredValidation)
	case target == domain.StatusCompleted:
		return step(domain.Confirming(domain.DialogCompletedLock, &r))
	}
	return e.enter(row, r)
}

// readyForDelivery requires someone assigned and a delivery date.
func readyForDelivery(row domain.Document) bool {
	assigned := nonEmpty(row.AssignedDriverID) || nonEmpty(row.AssignedSalesmanID)
	return assigned && row.DeliveryDate != ""
}

func nonEmpty(id *string) bool {
	return id != nil && *id != ""
}

// enter commits the target status and opens its entry dialog, if it has one.
func (e *Engine) enter(row domain.Document, r domain.Resume) Step {
	target := r.TargetStatus
	if target == domain.StatusChopSignWarehouse {
		return step(domain.Confirming(domain.DialogChopSignDriver, &r))
	}

	p := domain.Patch{Status: domain.Set(target)}
	switch {
	case target == domain.StatusDeliveryInProgress:
		p.AssignedSalesmanID = domain.Null[string]()
		p.AssignedDriverID = domain.Null[string]()
	case target.RequiresSalesman(), target.RequiresClerk(), target == domain.StatusHoldWarehouse:
		p.AssignedDriverID = domain.Null[string]()
	case target == domain.StatusTransfer:
	default:
		p.AssignedSalesmanID = domain.Null[string]()
		p.AssignedClerkID = domain.Null[string]()
		p.TransferWarehouseID = domain.Null[string]()
		if target.IsHoldOrChopSign() {
			p.AssignedDriverID = domain.Null[string]()
		}
	}
	p = domain.NormalizeForStatus(p.Merge(takeCapture(&r)))

	open := entryFor(target)
	if open == nil {
		return e.complete(r, p, nil)
	}
	r.Revert = p.Inverse(row)
	return e.advance(r, p, open)
}

// startOver re-opens the assignment of the status the row already has.
func (e *Engine) startOver(r domain.Resume) Step {
	r.Bulk = nil
	switch s := r.TargetStatus; {
	case s.RequiresSalesman():
		return e.advance(r, domain.Patch{AssignedSalesmanID: domain.Null[string]()}, selecting(domain.SelectSalesman))
	case s.RequiresClerk():
		return e.advance(r, domain.Patch{AssignedClerkID: domain.Null[string]()}, selecting(domain.SelectClerk))
	case s == domain.StatusTransfer:
		return e.advance(r, domain.Patch{TransferWarehouseID: domain.Null[string]()}, selecting(domain.SelectTransferWarehouse))
	case s == domain.StatusHoldWarehouse:
		p := domain.Patch{
			HoldWarehouseID:   domain.Null[string](),
			HoldWarehouseType: domain.Null[domain.HoldType](),
		}
		return e.advance(r, p, selecting(domain.SelectHoldWarehouse))
	case s == domain.StatusChopSignWarehouse:
		return step(domain.Confirming(domain.DialogChopSignDriver, &r))
	case s == domain.StatusDeliveryInProgress:
		p := domain.Patch{
			AssignedSalesmanID: domain.Null[string](),
			AssignedDriverID:   domain.Null[string](),
		}
		return e.advance(r, p, selecting(domain.SelectDeliveryMode))
	}
	return step(domain.NoInteraction())
}
