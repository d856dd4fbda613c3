package domain

import (
	"fmt"
	"strings"

	"github.com/SscSPs/etracking_app/internal/apperrors"
)

// Status is the lifecycle state of a tracked document.
type Status string

const (
	StatusBilled             Status = "Billed"
	StatusPreparingDelivery  Status = "Preparing Delivery"
	StatusDeliveryInProgress Status = "Delivery In Progress"
	StatusDelivered          Status = "Delivered"
	StatusHoldOffice         Status = "Hold - Office"
	StatusHoldWarehouse      Status = "Hold - Warehouse"
	StatusHoldSalesman       Status = "Hold - Salesman"
	StatusChopSignOffice     Status = "Chop & Sign - Office"
	StatusChopSignWarehouse  Status = "Chop & Sign - Warehouse"
	StatusChopSignSalesman   Status = "Chop & Sign - Salesman"
	StatusTransfer           Status = "Transfer"
	StatusCompleted          Status = "Completed"
)

// AllStatuses lists every status in display order.
var AllStatuses = []Status{
	StatusBilled,
	StatusPreparingDelivery,
	StatusDeliveryInProgress,
	StatusDelivered,
	StatusHoldOffice,
	StatusHoldWarehouse,
	StatusHoldSalesman,
	StatusChopSignOffice,
	StatusChopSignWarehouse,
	StatusChopSignSalesman,
	StatusTransfer,
	StatusCompleted,
}

// Phase is the ordinal workflow stage a status belongs to.
type Phase int

const (
	PhaseBilling     Phase = 1
	PhasePreparation Phase = 2
	PhaseInTransit   Phase = 3
	PhaseDelivered   Phase = 4
	PhaseCompleted   Phase = 5
)

var phaseByStatus = map[Status]Phase{
	StatusBilled:             PhaseBilling,
	StatusPreparingDelivery:  PhasePreparation,
	StatusHoldOffice:         PhasePreparation,
	StatusHoldWarehouse:      PhasePreparation,
	StatusHoldSalesman:       PhasePreparation,
	StatusChopSignOffice:     PhasePreparation,
	StatusChopSignWarehouse:  PhasePreparation,
	StatusChopSignSalesman:   PhasePreparation,
	StatusTransfer:           PhasePreparation,
	StatusDeliveryInProgress: PhaseInTransit,
	StatusDelivered:          PhaseDelivered,
	StatusCompleted:          PhaseCompleted,
}

// PhaseOf classifies a status. Unknown values are reported instead of
// being folded into the billing phase.
func PhaseOf(s Status) (Phase, error) {
	p, ok := phaseByStatus[s]
	if !ok {
		return 0, fmt.Errorf("%w: %q", apperrors.ErrUnknownStatus, string(s))
	}
	return p, nil
}

// PhaseOrBilled is the lenient classifier used for display and sorting.
func PhaseOrBilled(s Status) Phase {
	if p, ok := phaseByStatus[s]; ok {
		return p
	}
	return PhaseBilling
}

// ParseStatus validates a raw status string.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.TrimSpace(raw))
	if _, err := PhaseOf(s); err != nil {
		return "", err
	}
	return s, nil
}

// IsValid reports whether s is one of the tracked statuses.
func (s Status) IsValid() bool {
	_, ok := phaseByStatus[s]
	return ok
}

// RequiresSalesman reports whether entering s asks for a salesman.
func (s Status) RequiresSalesman() bool {
	return s == StatusHoldSalesman || s == StatusChopSignSalesman
}

// RequiresClerk reports whether entering s asks for an office clerk.
func (s Status) RequiresClerk() bool {
	return s == StatusHoldOffice || s == StatusChopSignOffice
}

// IsHoldOrChopSign covers every "Hold - *" and "Chop & Sign - *" status.
func (s Status) IsHoldOrChopSign() bool {
	return strings.HasPrefix(string(s), "Hold -") || strings.HasPrefix(string(s), "Chop & Sign -")
}

// roleSet names the assignment and warehouse fields a status may keep.
type roleSet struct {
	driver, salesman, clerk bool
	transfer, hold          bool
}

func rolesFor(s Status) roleSet {
	switch {
	case s == StatusDeliveryInProgress:
		return roleSet{driver: true, salesman: true}
	case s == StatusDelivered, s == StatusChopSignWarehouse:
		return roleSet{driver: true}
	case s.RequiresSalesman():
		return roleSet{salesman: true}
	case s.RequiresClerk():
		return roleSet{clerk: true}
	case s == StatusTransfer:
		return roleSet{transfer: true}
	case s == StatusHoldWarehouse:
		return roleSet{hold: true}
	}
	return roleSet{}
}
