package domain

import (
	"fmt"
	"strings"

	"github.com/SscSPs/etracking_app/internal/apperrors"
	"github.com/oklog/ulid/v2"
)

// DraftIDPrefix marks rows that exist in memory but were never inserted into a store.
const DraftIDPrefix = "draft_"

// HoldType is the reason a row is parked at a non-Keruing warehouse.
type HoldType string

const (
	HoldTypeKIV         HoldType = "KIV"
	HoldTypeSelfCollect HoldType = "Self Collect"
)

// ParseHoldType validates a hold type answer.
func ParseHoldType(raw string) (HoldType, error) {
	switch t := HoldType(strings.TrimSpace(raw)); t {
	case HoldTypeKIV, HoldTypeSelfCollect:
		return t, nil
	}
	return "", fmt.Errorf("%w: unknown hold type %q", apperrors.ErrValidation, raw)
}

// DeliverySlot is the time of day of a scheduled delivery.
type DeliverySlot string

const (
	SlotUnset   DeliverySlot = ""
	SlotMorning DeliverySlot = "Morning"
	SlotNoon    DeliverySlot = "Noon"
)

// ParseDeliverySlot accepts Morning, Noon and the legacy Afternoon label.
func ParseDeliverySlot(raw string) (DeliverySlot, error) {
	switch strings.TrimSpace(raw) {
	case "Morning":
		return SlotMorning, nil
	case "Noon", "Afternoon":
		return SlotNoon, nil
	}
	return SlotUnset, fmt.Errorf("%w: unknown delivery slot %q", apperrors.ErrValidation, raw)
}

// Discrepancy is the per-row discrepancy flag with its captured details.
type Discrepancy struct {
	Checked     bool   `json:"checked"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Document is one tracked invoice, credit note, delivery order or GRN.
type Document struct {
	ID                  string       `json:"id"`
	Kind                DocumentKind `json:"kind"`
	DocumentNo          string       `json:"documentNo"`
	DocumentDate        string       `json:"documentDate"`
	Status              Status       `json:"status"`
	AssignedDriverID    *string      `json:"assignedDriverId"`
	AssignedSalesmanID  *string      `json:"assignedSalesmanId"`
	AssignedClerkID     *string      `json:"assignedClerkId"`
	TransferWarehouseID *string      `json:"transferWarehouseId"`
	HoldWarehouseID     *string      `json:"holdWarehouseId"`
	HoldWarehouseType   *HoldType    `json:"holdWarehouseType"`
	DeliveryDate        string       `json:"deliveryDate"`
	DeliverySlot        DeliverySlot `json:"deliverySlot"`
	Remark              string       `json:"remark"`
	RemarkAtBilled      string       `json:"remarkAtBilled"`
	Discrepancy         Discrepancy  `json:"discrepancy"`
	AuditFields
}

// NewDraftDocument builds a fresh Billed row with a draft id.
func NewDraftDocument(kind DocumentKind, documentNo, documentDate string) Document {
	return Document{
		ID:           NewDraftID(),
		Kind:         kind,
		DocumentNo:   documentNo,
		DocumentDate: documentDate,
		Status:       StatusBilled,
	}
}

// NewDraftID returns a sortable id that is recognisably not store-generated.
func NewDraftID() string {
	return DraftIDPrefix + ulid.Make().String()
}

// IsPersisted reports whether the row has been durably created by a store.
func (d Document) IsPersisted() bool {
	return d.ID != "" && !IsDraftID(d.ID)
}

// IsDraftID reports whether id was issued in memory by NewDraftID.
func IsDraftID(id string) bool {
	return strings.HasPrefix(id, DraftIDPrefix)
}

// Assignees counts the non-null employee assignments.
func (d Document) Assignees() int {
	n := 0
	for _, id := range []*string{d.AssignedDriverID, d.AssignedSalesmanID, d.AssignedClerkID} {
		if id != nil {
			n++
		}
	}
	return n
}

// Ref returns a pointer to a copy of v.
func Ref[T any](v T) *T {
	return &v
}
