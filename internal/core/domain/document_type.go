package domain

import (
	"fmt"

	"github.com/SscSPs/etracking_app/internal/apperrors"
)

// DocumentKind identifies one of the tracked collections.
type DocumentKind string

const (
	KindInvoice       DocumentKind = "invoice"
	KindCreditNote    DocumentKind = "credit_note"
	KindDeliveryOrder DocumentKind = "delivery_order"
	KindGRN           DocumentKind = "grn"
)

// AllKinds lists the tracked collections.
var AllKinds = []DocumentKind{KindInvoice, KindCreditNote, KindDeliveryOrder, KindGRN}

// DocumentType describes how a collection names its business keys and
// which optional sub-flows it enables.
type DocumentType struct {
	Kind        DocumentKind
	Label       string
	NumberField string
	DateField   string
	// AttachInvoice enables the invoice attachment prompt after a delivery assignment.
	AttachInvoice bool
}

var documentTypes = map[DocumentKind]DocumentType{
	KindInvoice: {
		Kind: KindInvoice, Label: "Invoice",
		NumberField: "invoiceNo", DateField: "dateOfInvoice",
	},
	KindCreditNote: {
		Kind: KindCreditNote, Label: "Credit Note",
		NumberField: "creditNoteNo", DateField: "creditNoteDate",
	},
	KindDeliveryOrder: {
		Kind: KindDeliveryOrder, Label: "Delivery Order",
		NumberField: "deliveryOrderNo", DateField: "deliveryOrderDate",
		AttachInvoice: true,
	},
	KindGRN: {
		Kind: KindGRN, Label: "GRN",
		NumberField: "grnNo", DateField: "grnDate",
	},
}

// TypeOf returns the descriptor of a kind.
func TypeOf(kind DocumentKind) (DocumentType, error) {
	t, ok := documentTypes[kind]
	if !ok {
		return DocumentType{}, fmt.Errorf("%w: unknown document kind %q", apperrors.ErrValidation, string(kind))
	}
	return t, nil
}

// ParseKind validates a raw kind, typically a path segment.
func ParseKind(raw string) (DocumentKind, error) {
	t, err := TypeOf(DocumentKind(raw))
	if err != nil {
		return "", err
	}
	return t.Kind, nil
}
