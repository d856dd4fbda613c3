package models

// Document is a row of the documents table. Dates are stored as ISO text so
// that an unscheduled row can hold an empty delivery date.
type Document struct {
	DocumentID          string  `db:"document_id"`
	Kind                string  `db:"kind"`
	DocumentNo          string  `db:"document_no"`
	DocumentDate        string  `db:"document_date"`
	Status              string  `db:"status"`
	AssignedDriverID    *string `db:"assigned_driver_id"`
	AssignedSalesmanID  *string `db:"assigned_salesman_id"`
	AssignedClerkID     *string `db:"assigned_clerk_id"`
	TransferWarehouseID *string `db:"transfer_warehouse_id"`
	HoldWarehouseID     *string `db:"hold_warehouse_id"`
	HoldWarehouseType   *string `db:"hold_warehouse_type"`
	DeliveryDate        string  `db:"delivery_date"`
	DeliverySlot        string  `db:"delivery_slot"`
	Remark              string  `db:"remark"`
	RemarkAtBilled      string  `db:"remark_at_billed"`
	Discrepancy         []byte  `db:"discrepancy"` // jsonb
	AuditFields
}
