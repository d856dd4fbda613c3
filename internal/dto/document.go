package dto

import (
	"time"

	"github.com/SscSPs/etracking_app/internal/core/domain"
)

// TransitionRequest asks for a status change. Statuses outside the workflow
// are answered with a denial rather than a binding error.
type TransitionRequest struct {
	Status string `json:"status" binding:"required,max=64"`
}

// ConfirmRequest answers the open yes/no dialog.
type ConfirmRequest struct {
	Yes *bool `json:"yes" binding:"required"`
}

// DiscrepancyRequest carries the discrepancy details.
type DiscrepancyRequest struct {
	Title       string `json:"title" binding:"max=200"`
	Description string `json:"description" binding:"max=2000"`
}

// SelectRequest answers the open pick-one dialog. Only the fields the open
// selection reads are looked at; ids are resolved by the service.
type SelectRequest struct {
	Mode        string              `json:"mode" binding:"omitempty,oneof=Salesman Driver"`
	EmployeeID  string              `json:"employeeId"`
	WarehouseID string              `json:"warehouseId"`
	HoldType    string              `json:"holdType"`
	Date        string              `json:"date"`
	Slot        string              `json:"slot"`
	Attachment  string              `json:"attachment" binding:"omitempty,oneof=none original copy"`
	InvoiceID   string              `json:"invoiceId"`
	Discrepancy *DiscrepancyRequest `json:"discrepancy"`
}

// CreateDocumentsRequest holds the rows typed into the creation form.
type CreateDocumentsRequest struct {
	Entries        []domain.NewEntry `json:"entries" binding:"required,min=1,max=200"`
	ApplyDateToAll bool              `json:"applyDateToAll"`
}

// SelectionRequest replaces the selected row ids.
type SelectionRequest struct {
	IDs []string `json:"ids"`
}

// TestModeRequest turns test mode on or off.
type TestModeRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// RemarkRequest replaces a row's remark.
type RemarkRequest struct {
	Remark string `json:"remark" binding:"max=2000"`
}

// DiscrepancyToggleRequest checks or unchecks the discrepancy box.
type DiscrepancyToggleRequest struct {
	Checked *bool `json:"checked" binding:"required"`
}

// DateRequest carries a date typed as yyyy-mm-dd or dd/mm/yyyy.
type DateRequest struct {
	Date string `json:"date" binding:"required,docdate"`
}

// DocumentResponse defines the data returned for a tracked row.
type DocumentResponse struct {
	ID                  string             `json:"id"`
	Kind                string             `json:"kind"`
	DocumentNo          string             `json:"documentNo"`
	DocumentDate        string             `json:"documentDate"`
	Status              string             `json:"status"`
	Phase               int                `json:"phase"`
	AssignedDriverID    *string            `json:"assignedDriverId"`
	AssignedSalesmanID  *string            `json:"assignedSalesmanId"`
	AssignedClerkID     *string            `json:"assignedClerkId"`
	TransferWarehouseID *string            `json:"transferWarehouseId"`
	HoldWarehouseID     *string            `json:"holdWarehouseId"`
	HoldWarehouseType   *string            `json:"holdWarehouseType"`
	DeliveryDate        string             `json:"deliveryDate"`
	DeliverySlot        string             `json:"deliverySlot"`
	Remark              string             `json:"remark"`
	RemarkAtBilled      string             `json:"remarkAtBilled"`
	Discrepancy         domain.Discrepancy `json:"discrepancy"`
	CreatedAt           time.Time          `json:"createdAt"`
	CreatedBy           string             `json:"createdBy"`
	LastUpdatedAt       time.Time          `json:"lastUpdatedAt"`
	LastUpdatedBy       string             `json:"lastUpdatedBy"`
}

// OutcomeResponse describes how a request resolved. Message is set for denials.
type OutcomeResponse struct {
	Kind      string `json:"kind"`
	Reason    string `json:"reason,omitempty"`
	Message   string `json:"message,omitempty"`
	Dialog    string `json:"dialog,omitempty"`
	Selection string `json:"selection,omitempty"`
}

// InteractionResponse is the open dialog, if any.
type InteractionResponse struct {
	State       string              `json:"state"`
	Dialog      string              `json:"dialog,omitempty"`
	Selection   string              `json:"selection,omitempty"`
	RowID       string              `json:"rowId,omitempty"`
	Prompt      string              `json:"prompt,omitempty"`
	TargetState string              `json:"targetStatus,omitempty"`
	DefaultDate string              `json:"defaultDate,omitempty"`
	Bulk        []domain.RowRef     `json:"bulk,omitempty"`
	Discrepancy *domain.Discrepancy `json:"discrepancy,omitempty"`
}

// StepResponse is returned by every workflow call.
type StepResponse struct {
	Outcome     OutcomeResponse     `json:"outcome"`
	Interaction InteractionResponse `json:"interaction"`
	Documents   []DocumentResponse  `json:"documents"`
	Deleted     []string            `json:"deleted,omitempty"`
}

// BoardResponse is the full state of one collection.
type BoardResponse struct {
	Kind        string              `json:"kind"`
	Documents   []DocumentResponse  `json:"documents"`
	Interaction InteractionResponse `json:"interaction"`
	Selected    []string            `json:"selected"`
	TestMode    bool                `json:"testMode"`
}

// ToDocumentResponse converts a domain.Document to DocumentResponse DTO
func ToDocumentResponse(d domain.Document) DocumentResponse {
	var holdType *string
	if d.HoldWarehouseType != nil {
		holdType = domain.Ref(string(*d.HoldWarehouseType))
	}
	return DocumentResponse{
		ID:                  d.ID,
		Kind:                string(d.Kind),
		DocumentNo:          d.DocumentNo,
		DocumentDate:        d.DocumentDate,
		Status:              string(d.Status),
		Phase:               int(domain.PhaseOrBilled(d.Status)),
		AssignedDriverID:    d.AssignedDriverID,
		AssignedSalesmanID:  d.AssignedSalesmanID,
		AssignedClerkID:     d.AssignedClerkID,
		TransferWarehouseID: d.TransferWarehouseID,
		HoldWarehouseID:     d.HoldWarehouseID,
		HoldWarehouseType:   holdType,
		DeliveryDate:        d.DeliveryDate,
		DeliverySlot:        string(d.DeliverySlot),
		Remark:              d.Remark,
		RemarkAtBilled:      d.RemarkAtBilled,
		Discrepancy:         d.Discrepancy,
		CreatedAt:           d.CreatedAt,
		CreatedBy:           d.CreatedBy,
		LastUpdatedAt:       d.LastUpdatedAt,
		LastUpdatedBy:       d.LastUpdatedBy,
	}
}

// ToListDocumentResponse converts a slice of domain.Document to response DTOs
func ToListDocumentResponse(docs []domain.Document) []DocumentResponse {
	res := make([]DocumentResponse, len(docs))
	for i, d := range docs {
		res[i] = ToDocumentResponse(d)
	}
	return res
}

// ToInteractionResponse exposes the parts of an open dialog a client renders.
func ToInteractionResponse(in domain.Interaction) InteractionResponse {
	res := InteractionResponse{
		State:     string(in.State),
		Dialog:    string(in.Dialog),
		Selection: string(in.Selection),
		RowID:     in.RowID(),
		Prompt:    in.Prompt(),
	}
	if r := in.Resume; r != nil {
		res.TargetState = string(r.TargetStatus)
		res.DefaultDate = r.DefaultDate
		res.Bulk = r.Bulk
		if in.Selection == domain.SelectDiscrepancy {
			d := r.Discrepancy
			res.Discrepancy = &d
		}
	}
	return res
}

// ToOutcomeResponse converts a domain.Outcome, adding the notice for denials.
func ToOutcomeResponse(o domain.Outcome) OutcomeResponse {
	return OutcomeResponse{
		Kind:      string(o.Kind),
		Reason:    string(o.Reason),
		Message:   o.Reason.Message(),
		Dialog:    string(o.Dialog),
		Selection: string(o.Selection),
	}
}

// ToStepResponse converts a domain.StepResult to StepResponse DTO
func ToStepResponse(r *domain.StepResult) StepResponse {
	return StepResponse{
		Outcome:     ToOutcomeResponse(r.Outcome),
		Interaction: ToInteractionResponse(r.Interaction),
		Documents:   ToListDocumentResponse(r.Documents),
		Deleted:     r.Deleted,
	}
}

// ToBoardResponse converts a domain.BoardSnapshot to BoardResponse DTO
func ToBoardResponse(b *domain.BoardSnapshot) BoardResponse {
	selected := b.Selected
	if selected == nil {
		selected = []string{}
	}
	return BoardResponse{
		Kind:        string(b.Kind),
		Documents:   ToListDocumentResponse(b.Documents),
		Interaction: ToInteractionResponse(b.Interaction),
		Selected:    selected,
		TestMode:    b.TestMode,
	}
}
