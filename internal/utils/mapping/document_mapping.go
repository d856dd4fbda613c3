package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/SscSPs/etracking_app/internal/core/domain"
	"github.com/SscSPs/etracking_app/internal/models"
)

// ToModelDocument converts a domain Document to a model Document
func ToModelDocument(d domain.Document) (models.Document, error) {
	discrepancy, err := json.Marshal(d.Discrepancy)
	if err != nil {
		return models.Document{}, fmt.Errorf("failed to encode discrepancy: %w", err)
	}
	var holdType *string
	if d.HoldWarehouseType != nil {
		holdType = domain.Ref(string(*d.HoldWarehouseType))
	}
	return models.Document{
		DocumentID:          d.ID,
		Kind:                string(d.Kind),
		DocumentNo:          d.DocumentNo,
		DocumentDate:        d.DocumentDate,
		Status:              string(d.Status),
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
		Discrepancy:         discrepancy,
		AuditFields:         ToModelAuditFields(d.AuditFields),
	}, nil
}

// ToDomainDocument converts a model Document to a domain Document. An
// unreadable discrepancy column reads as unchecked.
func ToDomainDocument(m models.Document) domain.Document {
	var discrepancy domain.Discrepancy
	if len(m.Discrepancy) > 0 {
		if err := json.Unmarshal(m.Discrepancy, &discrepancy); err != nil {
			discrepancy = domain.Discrepancy{}
		}
	}
	var holdType *domain.HoldType
	if m.HoldWarehouseType != nil && *m.HoldWarehouseType != "" {
		holdType = domain.Ref(domain.HoldType(*m.HoldWarehouseType))
	}
	return domain.Document{
		ID:                  m.DocumentID,
		Kind:                domain.DocumentKind(m.Kind),
		DocumentNo:          m.DocumentNo,
		DocumentDate:        m.DocumentDate,
		Status:              domain.Status(m.Status),
		AssignedDriverID:    m.AssignedDriverID,
		AssignedSalesmanID:  m.AssignedSalesmanID,
		AssignedClerkID:     m.AssignedClerkID,
		TransferWarehouseID: m.TransferWarehouseID,
		HoldWarehouseID:     m.HoldWarehouseID,
		HoldWarehouseType:   holdType,
		DeliveryDate:        m.DeliveryDate,
		DeliverySlot:        domain.DeliverySlot(m.DeliverySlot),
		Remark:              m.Remark,
		RemarkAtBilled:      m.RemarkAtBilled,
		Discrepancy:         discrepancy,
		AuditFields:         ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainDocumentSlice converts a slice of model Documents to a slice of domain Documents
func ToDomainDocumentSlice(ms []models.Document) []domain.Document {
	ds := make([]domain.Document, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainDocument(m)
	}
	return ds
}
