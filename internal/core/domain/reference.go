package domain

import (
	"fmt"
	"strings"

	"github.com/SscSPs/etracking_app/internal/apperrors"
)

// Position is an employee's role in the delivery workflow.
type Position string

const (
	PositionSalesman    Position = "Salesman"
	PositionLorryDriver Position = "Lorry Driver"
	PositionClerk       Position = "Clerk"
)

// ParsePosition validates a raw position filter.
func ParsePosition(raw string) (Position, error) {
	switch p := Position(strings.TrimSpace(raw)); p {
	case PositionSalesman, PositionLorryDriver, PositionClerk:
		return p, nil
	}
	return "", fmt.Errorf("%w: unknown position %q", apperrors.ErrValidation, raw)
}

// Employee is an assignable person.
type Employee struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Position Position `json:"position"`
	Number   string   `json:"number"`
	AuditFields
}

// Warehouse is a transfer or hold destination.
type Warehouse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	PICName string `json:"picName"`
	AuditFields
}

// NameIs compares warehouse names case-insensitively.
func (w Warehouse) NameIs(name string) bool {
	return strings.EqualFold(strings.TrimSpace(w.Name), strings.TrimSpace(name))
}
