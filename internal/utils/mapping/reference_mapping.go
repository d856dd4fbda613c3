package mapping

import (
	"github.com/SscSPs/etracking_app/internal/core/domain"
	"github.com/SscSPs/etracking_app/internal/models"
)

// ToModelEmployee converts a domain Employee to a model Employee
func ToModelEmployee(d domain.Employee) models.Employee {
	return models.Employee{
		EmployeeID:  d.ID,
		Name:        d.Name,
		Position:    string(d.Position),
		Number:      d.Number,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainEmployee converts a model Employee to a domain Employee
func ToDomainEmployee(m models.Employee) domain.Employee {
	return domain.Employee{
		ID:          m.EmployeeID,
		Name:        m.Name,
		Position:    domain.Position(m.Position),
		Number:      m.Number,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelWarehouse converts a domain Warehouse to a model Warehouse
func ToModelWarehouse(d domain.Warehouse) models.Warehouse {
	return models.Warehouse{
		WarehouseID: d.ID,
		Name:        d.Name,
		PICName:     d.PICName,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainWarehouse converts a model Warehouse to a domain Warehouse
func ToDomainWarehouse(m models.Warehouse) domain.Warehouse {
	return domain.Warehouse{
		ID:          m.WarehouseID,
		Name:        m.Name,
		PICName:     m.PICName,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
