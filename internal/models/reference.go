package models

// Employee is a row of the employees table.
type Employee struct {
	EmployeeID string `db:"employee_id"`
	Name       string `db:"name"`
	Position   string `db:"position"`
	Number     string `db:"number"`
	AuditFields
}

// Warehouse is a row of the warehouses table.
type Warehouse struct {
	WarehouseID string `db:"warehouse_id"`
	Name        string `db:"name"`
	PICName     string `db:"pic_name"`
	AuditFields
}
