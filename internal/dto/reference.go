package dto

import "github.com/SscSPs/etracking_app/internal/core/domain"

// ListEmployeesParams defines query parameters for listing employees.
type ListEmployeesParams struct {
	Position string `form:"position" binding:"omitempty,oneof=Salesman 'Lorry Driver' Clerk"`
}

// EmployeeResponse defines the data returned for an employee.
type EmployeeResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Position string `json:"position"`
	Number   string `json:"number"`
}

// WarehouseResponse defines the data returned for a warehouse.
type WarehouseResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	PICName string `json:"picName"`
}

// ToListEmployeeResponse converts a slice of domain.Employee to response DTOs
func ToListEmployeeResponse(employees []domain.Employee) []EmployeeResponse {
	res := make([]EmployeeResponse, len(employees))
	for i, e := range employees {
		res[i] = EmployeeResponse{ID: e.ID, Name: e.Name, Position: string(e.Position), Number: e.Number}
	}
	return res
}

// ToListWarehouseResponse converts a slice of domain.Warehouse to response DTOs
func ToListWarehouseResponse(warehouses []domain.Warehouse) []WarehouseResponse {
	res := make([]WarehouseResponse, len(warehouses))
	for i, w := range warehouses {
		res[i] = WarehouseResponse{ID: w.ID, Name: w.Name, PICName: w.PICName}
	}
	return res
}

// EmployeeRequest is one employee in a seed request.
type EmployeeRequest struct {
	ID       string `json:"id" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Position string `json:"position" binding:"required,oneof=Salesman 'Lorry Driver' Clerk"`
	Number   string `json:"number"`
}

// WarehouseRequest is one warehouse in a seed request.
type WarehouseRequest struct {
	ID      string `json:"id" binding:"required"`
	Name    string `json:"name" binding:"required"`
	PICName string `json:"picName"`
}

// SeedReferenceRequest upserts employees and warehouses.
type SeedReferenceRequest struct {
	Employees  []EmployeeRequest  `json:"employees" binding:"dive"`
	Warehouses []WarehouseRequest `json:"warehouses" binding:"dive"`
}

// ToDomain converts the request rows to domain values.
func (r SeedReferenceRequest) ToDomain() ([]domain.Employee, []domain.Warehouse) {
	employees := make([]domain.Employee, len(r.Employees))
	for i, e := range r.Employees {
		employees[i] = domain.Employee{ID: e.ID, Name: e.Name, Position: domain.Position(e.Position), Number: e.Number}
	}
	warehouses := make([]domain.Warehouse, len(r.Warehouses))
	for i, w := range r.Warehouses {
		warehouses[i] = domain.Warehouse{ID: w.ID, Name: w.Name, PICName: w.PICName}
	}
	return employees, warehouses
}
