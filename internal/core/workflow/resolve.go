package workflow

import (
	"fmt"
	"strings"

	"github.com/SscSPs/etracking_app/internal/apperrors"
	"github.com/SscSPs/etracking_app/internal/core/domain"
	"github.com/SscSPs/etracking_app/internal/utils/datefmt"
)

const chopSignRemark = "Chop & Sign"

// Confirm answers the open yes/no dialog for row.
func (e *Engine) Confirm(in domain.Interaction, row domain.Document, yes bool) (Step, error) {
	r, err := e.resumeFor(in, row, domain.InteractionConfirming)
	if err != nil {
		return Step{}, err
	}

	switch in.Dialog {
	case domain.DialogBulkApply:
		return e.resolveBulk(r, yes), nil
	case domain.DialogOverwriteExisting:
		return e.resolveOverwrite(r, yes), nil
	case domain.DialogChopSignDriver:
		if !yes {
			return step(domain.Selecting(domain.SelectChopSignWarehouse, &r)), nil
		}
		p := domain.Patch{
			Status:           domain.Set(domain.StatusChopSignWarehouse),
			AssignedDriverID: domain.Null[string](),
		}
		p = domain.NormalizeForStatus(p.Merge(takeCapture(&r)))
		r.Revert = p.Inverse(row)
		r.FromChopSignWarehouse = true
		return e.advance(r, p, selecting(domain.SelectDriver)), nil
	}

	if !yes {
		return step(domain.NoInteraction()), nil
	}

	switch in.Dialog {
	case domain.DialogSameStatus:
		return e.startOver(r), nil
	case domain.DialogBacktrackToBilled:
		p := domain.ProgressReset().Merge(domain.Patch{
			Status: domain.Set(domain.StatusBilled),
			Remark: domain.Set(row.RemarkAtBilled),
		})
		return e.complete(r, domain.NormalizeForStatus(p), nil), nil
	case domain.DialogPhase4Backtrack:
		p := domain.ProgressReset().Merge(domain.Patch{
			Status: domain.Set(r.TargetStatus),
			Remark: domain.Set(row.RemarkAtBilled),
		})
		return e.complete(r, domain.NormalizeForStatus(p), followUp(r)), nil
	case domain.DialogRedeliver, domain.DialogChangeStatus:
		p := domain.ProgressReset().Merge(domain.Patch{Status: domain.Set(r.TargetStatus)})
		return e.complete(r, domain.NormalizeForStatus(p), followUp(r)), nil
	case domain.DialogCompletedLock:
		p := domain.Patch{Status: domain.Set(domain.StatusCompleted)}.Merge(takeCapture(&r))
		return e.complete(r, p, nil), nil
	}
	return Step{}, fmt.Errorf("%w: unexpected dialog %s", apperrors.ErrInteractionMismatch, in.Dialog)
}

// resolveBulk broadcasts the accumulated patch to the other selected rows.
func (e *Engine) resolveBulk(r domain.Resume, apply bool) Step {
	next := domain.NoInteraction()
	if r.Then != nil {
		next = *r.Then
	}
	if !apply {
		return step(next)
	}
	var writes []Write
	for _, ref := range r.Bulk {
		if ref.ID == r.RowID {
			continue
		}
		writes = append(writes, e.update(ref.ID, r.BulkPayload))
	}
	s := step(next, writes...)
	s.ClearSelection = true
	return s
}

// Select answers the open pick-one dialog for row.
func (e *Engine) Select(in domain.Interaction, row domain.Document, c Choice) (Step, error) {
	r, err := e.resumeFor(in, row, domain.InteractionSelecting)
	if err != nil {
		return Step{}, err
	}

	switch in.Selection {
	case domain.SelectDeliveryMode:
		switch c.Mode {
		case ModeSalesman:
			return e.advance(r, domain.Patch{}, selecting(domain.SelectSalesman)), nil
		case ModeDriver:
			return e.advance(r, domain.Patch{}, selecting(domain.SelectDriver)), nil
		}
		return Step{}, fmt.Errorf("%w: delivery mode must be %s or %s", apperrors.ErrValidation, ModeSalesman, ModeDriver)

	case domain.SelectSalesman, domain.SelectClerk, domain.SelectDriver:
		emp, err := employeeFor(in.Selection, c.Employee)
		if err != nil {
			return Step{}, err
		}
		var p domain.Patch
		switch in.Selection {
		case domain.SelectSalesman:
			p.AssignedSalesmanID = domain.SetRef(emp.ID)
		case domain.SelectClerk:
			p.AssignedClerkID = domain.SetRef(emp.ID)
		case domain.SelectDriver:
			p.AssignedDriverID = domain.SetRef(emp.ID)
			r.FromDriver = true
		}
		r.DefaultDate = e.defaultDate(row)
		return e.advance(r, p, selecting(domain.SelectDeliveryDate)), nil

	case domain.SelectTransferWarehouse:
		w, err := warehouseFor(c.Warehouse)
		if err != nil {
			return Step{}, err
		}
		p := domain.Patch{
			TransferWarehouseID: domain.SetRef(w.ID),
			DeliveryDate:        domain.Set(e.today()),
			DeliverySlot:        domain.Set(domain.SlotUnset),
		}
		return e.complete(r, p, nil), nil

	case domain.SelectHoldWarehouse:
		w, err := warehouseFor(c.Warehouse)
		if err != nil {
			return Step{}, err
		}
		if !w.NameIs(e.keruingName) {
			r.HoldWarehouseID = w.ID
			return e.advance(r, domain.Patch{}, selecting(domain.SelectHoldWarehouseType)), nil
		}
		p := domain.Patch{
			Status:            domain.Set(domain.StatusHoldWarehouse),
			HoldWarehouseID:   domain.SetRef(w.ID),
			HoldWarehouseType: domain.Null[domain.HoldType](),
			AssignedDriverID:  domain.Null[string](),
			DeliveryDate:      domain.Set(e.today()),
			DeliverySlot:      domain.Set(domain.SlotUnset),
		}
		return e.complete(r, domain.NormalizeForStatus(p), nil), nil

	case domain.SelectHoldWarehouseType:
		t, err := domain.ParseHoldType(c.HoldType)
		if err != nil {
			return Step{}, err
		}
		p := domain.Patch{
			Status:            domain.Set(domain.StatusHoldWarehouse),
			HoldWarehouseID:   domain.SetRef(r.HoldWarehouseID),
			HoldWarehouseType: domain.SetRef(t),
			AssignedDriverID:  domain.Null[string](),
			DeliveryDate:      domain.Set(e.today()),
			DeliverySlot:      domain.Set(domain.SlotUnset),
			Remark:            domain.Set(domain.AppendRemark(row.Remark, string(t))),
		}
		return e.complete(r, domain.NormalizeForStatus(p), nil), nil

	case domain.SelectChopSignWarehouse:
		w, err := warehouseFor(c.Warehouse)
		if err != nil {
			return Step{}, err
		}
		r.ChopSignWarehouseID = w.ID
		r.DefaultDate = e.defaultDate(row)
		return e.advance(r, domain.Patch{}, selecting(domain.SelectDeliveryDate)), nil

	case domain.SelectDeliveryDate:
		return e.resolveDate(row, r, c.Date), nil

	case domain.SelectDeliverySlot:
		slot, err := domain.ParseDeliverySlot(c.Slot)
		if err != nil {
			return Step{}, err
		}
		return e.complete(r, domain.Patch{DeliverySlot: domain.Set(slot)}, e.afterAssignment(r.RowID)), nil

	case domain.SelectAttachment:
		return e.resolveAttachment(row, c)

	case domain.SelectDiscrepancy:
		d := domain.Discrepancy{
			Checked:     true,
			Title:       strings.TrimSpace(c.Discrepancy.Title),
			Description: strings.TrimSpace(c.Discrepancy.Description),
		}
		return step(domain.NoInteraction(), e.update(row.ID, domain.Patch{Discrepancy: domain.Set(d)})), nil
	}
	return Step{}, fmt.Errorf("%w: unexpected selection %s", apperrors.ErrInteractionMismatch, in.Selection)
}

func (e *Engine) defaultDate(row domain.Document) string {
	if row.DeliveryDate != "" {
		return row.DeliveryDate
	}
	return e.today()
}

// resolveDate finishes the flow that asked for a delivery date. An empty
// answer takes the dialog default and an unreadable one falls back to today.
func (e *Engine) resolveDate(row domain.Document, r domain.Resume, raw string) Step {
	if strings.TrimSpace(raw) == "" {
		raw = r.DefaultDate
	}
	date := datefmt.ParseOr(raw, e.today())
	scheduled := domain.Patch{
		DeliveryDate: domain.Set(date),
		DeliverySlot: domain.Set(domain.SlotUnset),
	}

	switch {
	case r.ChopSignWarehouseID != "":
		p := scheduled.Merge(domain.Patch{
			Status:            domain.Set(domain.StatusHoldWarehouse),
			HoldWarehouseID:   domain.SetRef(r.ChopSignWarehouseID),
			HoldWarehouseType: domain.Null[domain.HoldType](),
			AssignedDriverID:  domain.Null[string](),
			Remark:            domain.Set(domain.AppendRemark(row.Remark, chopSignRemark)),
		}).Merge(takeCapture(&r))
		return e.complete(r, domain.NormalizeForStatus(p), nil)
	case r.FromChopSignWarehouse:
		p := scheduled.Merge(domain.Patch{
			Status: domain.Set(domain.StatusDeliveryInProgress),
			Remark: domain.Set(domain.AppendRemark(row.Remark, chopSignRemark)),
		})
		return e.complete(r, domain.NormalizeForStatus(p), nil)
	case r.FromDriver:
		return e.advance(r, scheduled, selecting(domain.SelectDeliverySlot))
	}
	return e.complete(r, scheduled, e.afterAssignment(r.RowID))
}

// resolveAttachment links a delivery order to an invoice. The original
// invoice follows the order's progress, a copy is only noted in the remark.
func (e *Engine) resolveAttachment(row domain.Document, c Choice) (Step, error) {
	switch c.Attachment {
	case AttachNone, "":
		return step(domain.NoInteraction()), nil
	case AttachOriginal, AttachCopy:
	default:
		return Step{}, fmt.Errorf("%w: unknown attachment %q", apperrors.ErrValidation, c.Attachment)
	}
	if c.Invoice == nil {
		return Step{}, fmt.Errorf("%w: an invoice must be chosen", apperrors.ErrValidation)
	}
	if c.Invoice.Kind != domain.KindInvoice {
		return Step{}, fmt.Errorf("%w: %s is not an invoice", apperrors.ErrValidation, c.Invoice.ID)
	}

	if c.Attachment == AttachCopy {
		ref := c.Invoice.DocumentNo
		if ref == "" {
			ref = c.Invoice.ID
		}
		p := domain.Patch{Remark: domain.Set(domain.AppendRemark(row.Remark, "Refer Invoice "+ref))}
		return step(domain.NoInteraction(), e.update(row.ID, p)), nil
	}

	p := domain.NormalizeForStatus(domain.Patch{
		Status:             domain.Set(row.Status),
		AssignedDriverID:   domain.Set(row.AssignedDriverID),
		AssignedSalesmanID: domain.Set(row.AssignedSalesmanID),
		AssignedClerkID:    domain.Set(row.AssignedClerkID),
		DeliveryDate:       domain.Set(row.DeliveryDate),
		DeliverySlot:       domain.Set(row.DeliverySlot),
	})
	w := Write{Op: WriteUpdate, Kind: domain.KindInvoice, RowID: c.Invoice.ID, Patch: p}
	return step(domain.NoInteraction(), w), nil
}

// Cancel dismisses the open dialog. Cancelling the first selection of an
// entry flow puts back the status and fields the flow overwrote.
func (e *Engine) Cancel(in domain.Interaction, row domain.Document) (Step, error) {
	r, err := e.resumeFor(in, row, in.State)
	if err != nil {
		return Step{}, err
	}

	if in.State == domain.InteractionConfirming {
		if in.Dialog == domain.DialogBulkApply {
			return e.resolveBulk(r, false), nil
		}
		return step(domain.NoInteraction()), nil
	}

	prev := domain.Patch{Status: domain.Set(r.PreviousStatus)}
	var p domain.Patch
	switch in.Selection {
	case domain.SelectDeliveryMode:
		p = prev
	case domain.SelectSalesman:
		p = prev.Merge(domain.Patch{AssignedSalesmanID: domain.Null[string]()})
	case domain.SelectClerk:
		p = prev.Merge(domain.Patch{AssignedClerkID: domain.Null[string]()})
	case domain.SelectDriver:
		p = prev.Merge(domain.Patch{AssignedDriverID: domain.Null[string]()})
	case domain.SelectTransferWarehouse:
		p = prev.Merge(domain.Patch{TransferWarehouseID: domain.Null[string]()})
	case domain.SelectHoldWarehouse, domain.SelectHoldWarehouseType:
		p = prev.Merge(domain.Patch{AssignedDriverID: domain.Null[string]()})
	case domain.SelectDiscrepancy:
		d := domain.Patch{Discrepancy: domain.Set(domain.Discrepancy{})}
		return step(domain.NoInteraction(), e.update(row.ID, d)), nil
	default:
		return step(domain.NoInteraction()), nil
	}
	return step(domain.NoInteraction(), e.update(row.ID, r.Revert.Merge(p))), nil
}

func employeeFor(kind domain.SelectionKind, emp *domain.Employee) (domain.Employee, error) {
	if emp == nil || emp.ID == "" {
		return domain.Employee{}, fmt.Errorf("%w: an employee must be chosen", apperrors.ErrValidation)
	}
	want, _ := kind.Position()
	if emp.Position != want {
		return domain.Employee{}, fmt.Errorf("%w: %s is a %s, not a %s", apperrors.ErrValidation, emp.Name, emp.Position, want)
	}
	return *emp, nil
}

func warehouseFor(w *domain.Warehouse) (domain.Warehouse, error) {
	if w == nil || w.ID == "" {
		return domain.Warehouse{}, fmt.Errorf("%w: a warehouse must be chosen", apperrors.ErrValidation)
	}
	return *w, nil
}
