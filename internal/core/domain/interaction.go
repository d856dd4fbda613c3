package domain

import (
	"fmt"
	"strings"
)

// DialogKind names a yes/no confirmation.
type DialogKind string

const (
	DialogSameStatus        DialogKind = "same_status"
	DialogBacktrackToBilled DialogKind = "backtrack_to_billed"
	DialogPhase4Backtrack   DialogKind = "phase4_backtrack"
	DialogRedeliver         DialogKind = "redeliver"
	DialogChangeStatus      DialogKind = "change_status"
	DialogCompletedLock     DialogKind = "completed_lock"
	DialogChopSignDriver    DialogKind = "chop_sign_driver_brought_it"
	DialogBulkApply         DialogKind = "bulk_apply"
	DialogOverwriteExisting DialogKind = "overwrite_existing"
)

var dialogPrompts = map[DialogKind]string{
	DialogSameStatus:        "Same status has been selected. Do you want to start over?",
	DialogBacktrackToBilled: "Are you sure you want to backtrack the progress? All progress in current status will be reset.",
	DialogPhase4Backtrack:   "Are you sure you want to backtrack the progress? Everything will be reset.",
	DialogRedeliver:         "Are you trying to redeliver this order?",
	DialogChangeStatus:      "Are you sure you want to change to this status? All progress in current status will be reset.",
	DialogCompletedLock:     "Once confirmed, order will be locked and no further changes can be made.",
	DialogChopSignDriver:    "Does the driver bring this for chop and sign?",
	DialogBulkApply:         "Are you sure you want to apply this to the following?",
}

// SelectionKind names a pick-one dialog.
type SelectionKind string

const (
	SelectDeliveryMode      SelectionKind = "delivery_mode"
	SelectSalesman          SelectionKind = "salesman"
	SelectClerk             SelectionKind = "clerk"
	SelectDriver            SelectionKind = "driver"
	SelectTransferWarehouse SelectionKind = "transfer_warehouse"
	SelectHoldWarehouse     SelectionKind = "hold_warehouse"
	SelectHoldWarehouseType SelectionKind = "hold_warehouse_type"
	SelectChopSignWarehouse SelectionKind = "chop_sign_warehouse"
	SelectDeliveryDate      SelectionKind = "delivery_date"
	SelectDeliverySlot      SelectionKind = "delivery_slot"
	SelectAttachment        SelectionKind = "attachment"
	SelectDiscrepancy       SelectionKind = "discrepancy"
)

// Position returns the employee role a selection is filtered by.
func (k SelectionKind) Position() (Position, bool) {
	switch k {
	case SelectSalesman:
		return PositionSalesman, true
	case SelectClerk:
		return PositionClerk, true
	case SelectDriver:
		return PositionLorryDriver, true
	}
	return "", false
}

// NeedsWarehouse reports whether the answer is a warehouse.
func (k SelectionKind) NeedsWarehouse() bool {
	return k == SelectTransferWarehouse || k == SelectHoldWarehouse || k == SelectChopSignWarehouse
}

// InteractionState discriminates the Interaction union.
type InteractionState string

const (
	InteractionNone       InteractionState = "none"
	InteractionConfirming InteractionState = "confirming"
	InteractionSelecting  InteractionState = "selecting"
)

// Interaction is the single open dialog of a collection, if any. Dialog is
// set while confirming and Selection while selecting.
type Interaction struct {
	State     InteractionState
	Dialog    DialogKind
	Selection SelectionKind
	Resume    *Resume
}

// NoInteraction is the closed state.
func NoInteraction() Interaction {
	return Interaction{State: InteractionNone}
}

// Confirming opens a yes/no dialog.
func Confirming(kind DialogKind, r *Resume) Interaction {
	return Interaction{State: InteractionConfirming, Dialog: kind, Resume: r}
}

// Selecting opens a pick-one dialog.
func Selecting(kind SelectionKind, r *Resume) Interaction {
	return Interaction{State: InteractionSelecting, Selection: kind, Resume: r}
}

// IsOpen reports whether a dialog is showing.
func (i Interaction) IsOpen() bool {
	return i.State == InteractionConfirming || i.State == InteractionSelecting
}

// RowID returns the row the open dialog acts on.
func (i Interaction) RowID() string {
	if i.Resume == nil {
		return ""
	}
	return i.Resume.RowID
}

// Prompt is the question shown for a confirmation.
func (i Interaction) Prompt() string {
	if i.State != InteractionConfirming {
		return ""
	}
	if i.Dialog == DialogOverwriteExisting && i.Resume != nil && i.Resume.Creation != nil {
		plan := i.Resume.Creation
		label := "document"
		if t, err := TypeOf(plan.Kind); err == nil {
			label = strings.ToLower(t.Label)
		}
		return fmt.Sprintf("%s already exists. Do you want to overwrite it? Once overwrite, you may lose the progress of the existing %s.", plan.Current().Entry.DocumentNo, label)
	}
	return dialogPrompts[i.Dialog]
}

// RowRef identifies a row by id and business number.
type RowRef struct {
	ID         string `json:"id"`
	DocumentNo string `json:"documentNo"`
}

// Resume is the continuation carried by an open dialog: what the engine
// needs to finish the flow once the dialog resolves.
type Resume struct {
	RowID          string
	TargetStatus   Status
	PreviousStatus Status

	FromDriver            bool
	FromChopSignWarehouse bool
	ChopSignWarehouseID   string
	HoldWarehouseID       string
	DefaultDate           string
	Discrepancy           Discrepancy

	// CaptureRemark is the remark snapshot still to be written as remarkAtBilled.
	CaptureRemark *string
	// Revert restores the fields the flow's first commit overwrote.
	Revert Patch
	// Accumulated is every patch written to the acting row so far.
	Accumulated Patch

	Bulk        []RowRef
	BulkPayload Patch
	Then        *Interaction

	Creation *CreationPlan
}

// NewEntry is one document typed into the creation form.
type NewEntry struct {
	DocumentNo   string `json:"documentNo"`
	DocumentDate string `json:"documentDate"`
}

// Conflict pairs a typed entry with the existing row holding the same number.
type Conflict struct {
	ExistingID string
	Entry      NewEntry
}

// CreationPlan walks overwrite confirmations one conflict at a time.
type CreationPlan struct {
	Kind      DocumentKind
	Conflicts []Conflict
	Index     int
	Pending   []NewEntry
}

// Current is the conflict being asked about.
func (p *CreationPlan) Current() Conflict {
	return p.Conflicts[p.Index]
}

// Rekey returns a copy of the interaction with every reference to oldID
// replaced by newID. Used once a draft row receives its store id.
func (i Interaction) Rekey(oldID, newID string) Interaction {
	if i.Resume == nil {
		return i
	}
	r := *i.Resume
	if r.RowID == oldID {
		r.RowID = newID
	}
	if len(r.Bulk) > 0 {
		bulk := make([]RowRef, len(r.Bulk))
		for n, ref := range r.Bulk {
			if ref.ID == oldID {
				ref.ID = newID
			}
			bulk[n] = ref
		}
		r.Bulk = bulk
	}
	if r.Then != nil {
		then := r.Then.Rekey(oldID, newID)
		r.Then = &then
	}
	if r.Creation != nil {
		plan := *r.Creation
		plan.Conflicts = make([]Conflict, len(r.Creation.Conflicts))
		for n, c := range r.Creation.Conflicts {
			if c.ExistingID == oldID {
				c.ExistingID = newID
			}
			plan.Conflicts[n] = c
		}
		r.Creation = &plan
	}
	i.Resume = &r
	return i
}
