package domain

import (
	"encoding/json"
	"strings"
)

// Field is a tri-state change: untouched (zero value), set to Value, or,
// for pointer types, cleared when Value is nil.
type Field[T any] struct {
	Touched bool
	Value   T
}

// Set returns a touched field holding v.
func Set[T any](v T) Field[T] {
	return Field[T]{Touched: true, Value: v}
}

// SetRef returns a touched nullable field pointing at v.
func SetRef[T any](v T) Field[*T] {
	return Field[*T]{Touched: true, Value: &v}
}

// Null returns a touched nullable field that clears the column.
func Null[T any]() Field[*T] {
	return Field[*T]{Touched: true}
}

func (f Field[T]) over(prev Field[T]) Field[T] {
	if f.Touched {
		return f
	}
	return prev
}

func (f Field[T]) applyTo(dst *T) {
	if f.Touched {
		*dst = f.Value
	}
}

// Patch is a partial document update. Only touched fields are written.
type Patch struct {
	DocumentNo          Field[string]
	DocumentDate        Field[string]
	Status              Field[Status]
	AssignedDriverID    Field[*string]
	AssignedSalesmanID  Field[*string]
	AssignedClerkID     Field[*string]
	TransferWarehouseID Field[*string]
	HoldWarehouseID     Field[*string]
	HoldWarehouseType   Field[*HoldType]
	DeliveryDate        Field[string]
	DeliverySlot        Field[DeliverySlot]
	Remark              Field[string]
	RemarkAtBilled      Field[string]
	Discrepancy         Field[Discrepancy]
}

// Merge layers next over p; fields touched in next win.
func (p Patch) Merge(next Patch) Patch {
	return Patch{
		DocumentNo:          next.DocumentNo.over(p.DocumentNo),
		DocumentDate:        next.DocumentDate.over(p.DocumentDate),
		Status:              next.Status.over(p.Status),
		AssignedDriverID:    next.AssignedDriverID.over(p.AssignedDriverID),
		AssignedSalesmanID:  next.AssignedSalesmanID.over(p.AssignedSalesmanID),
		AssignedClerkID:     next.AssignedClerkID.over(p.AssignedClerkID),
		TransferWarehouseID: next.TransferWarehouseID.over(p.TransferWarehouseID),
		HoldWarehouseID:     next.HoldWarehouseID.over(p.HoldWarehouseID),
		HoldWarehouseType:   next.HoldWarehouseType.over(p.HoldWarehouseType),
		DeliveryDate:        next.DeliveryDate.over(p.DeliveryDate),
		DeliverySlot:        next.DeliverySlot.over(p.DeliverySlot),
		Remark:              next.Remark.over(p.Remark),
		RemarkAtBilled:      next.RemarkAtBilled.over(p.RemarkAtBilled),
		Discrepancy:         next.Discrepancy.over(p.Discrepancy),
	}
}

// Apply returns d with the touched fields of p written into it.
func (p Patch) Apply(d Document) Document {
	p.DocumentNo.applyTo(&d.DocumentNo)
	p.DocumentDate.applyTo(&d.DocumentDate)
	p.Status.applyTo(&d.Status)
	p.AssignedDriverID.applyTo(&d.AssignedDriverID)
	p.AssignedSalesmanID.applyTo(&d.AssignedSalesmanID)
	p.AssignedClerkID.applyTo(&d.AssignedClerkID)
	p.TransferWarehouseID.applyTo(&d.TransferWarehouseID)
	p.HoldWarehouseID.applyTo(&d.HoldWarehouseID)
	p.HoldWarehouseType.applyTo(&d.HoldWarehouseType)
	p.DeliveryDate.applyTo(&d.DeliveryDate)
	p.DeliverySlot.applyTo(&d.DeliverySlot)
	p.Remark.applyTo(&d.Remark)
	p.RemarkAtBilled.applyTo(&d.RemarkAtBilled)
	p.Discrepancy.applyTo(&d.Discrepancy)
	return d
}

// IsEmpty reports whether p touches nothing.
func (p Patch) IsEmpty() bool {
	return len(p.Changes()) == 0
}

// WithoutRemarkAtBilled drops the row-specific remark snapshot, which must
// never be copied onto another row.
func (p Patch) WithoutRemarkAtBilled() Patch {
	p.RemarkAtBilled = Field[string]{}
	return p
}

// Inverse returns a patch that puts back the values d holds for every
// field p touches.
func (p Patch) Inverse(d Document) Patch {
	return Patch{
		DocumentNo:          restore(p.DocumentNo, d.DocumentNo),
		DocumentDate:        restore(p.DocumentDate, d.DocumentDate),
		Status:              restore(p.Status, d.Status),
		AssignedDriverID:    restore(p.AssignedDriverID, d.AssignedDriverID),
		AssignedSalesmanID:  restore(p.AssignedSalesmanID, d.AssignedSalesmanID),
		AssignedClerkID:     restore(p.AssignedClerkID, d.AssignedClerkID),
		TransferWarehouseID: restore(p.TransferWarehouseID, d.TransferWarehouseID),
		HoldWarehouseID:     restore(p.HoldWarehouseID, d.HoldWarehouseID),
		HoldWarehouseType:   restore(p.HoldWarehouseType, d.HoldWarehouseType),
		DeliveryDate:        restore(p.DeliveryDate, d.DeliveryDate),
		DeliverySlot:        restore(p.DeliverySlot, d.DeliverySlot),
		Remark:              restore(p.Remark, d.Remark),
		RemarkAtBilled:      restore(p.RemarkAtBilled, d.RemarkAtBilled),
		Discrepancy:         restore(p.Discrepancy, d.Discrepancy),
	}
}

func restore[T any](f Field[T], current T) Field[T] {
	if !f.Touched {
		return Field[T]{}
	}
	return Set(current)
}

// FieldChange is one touched field, keyed by its JSON name.
type FieldChange struct {
	Name  string
	Value any
}

// Changes lists the touched fields in a stable order. Cleared nullable
// fields carry a nil Value.
func (p Patch) Changes() []FieldChange {
	var out []FieldChange
	add := func(touched bool, name string, v any) {
		if touched {
			out = append(out, FieldChange{Name: name, Value: v})
		}
	}
	add(p.DocumentNo.Touched, "documentNo", p.DocumentNo.Value)
	add(p.DocumentDate.Touched, "documentDate", p.DocumentDate.Value)
	add(p.Status.Touched, "status", string(p.Status.Value))
	add(p.AssignedDriverID.Touched, "assignedDriverId", nullable(p.AssignedDriverID.Value))
	add(p.AssignedSalesmanID.Touched, "assignedSalesmanId", nullable(p.AssignedSalesmanID.Value))
	add(p.AssignedClerkID.Touched, "assignedClerkId", nullable(p.AssignedClerkID.Value))
	add(p.TransferWarehouseID.Touched, "transferWarehouseId", nullable(p.TransferWarehouseID.Value))
	add(p.HoldWarehouseID.Touched, "holdWarehouseId", nullable(p.HoldWarehouseID.Value))
	add(p.HoldWarehouseType.Touched, "holdWarehouseType", nullable(p.HoldWarehouseType.Value))
	add(p.DeliveryDate.Touched, "deliveryDate", p.DeliveryDate.Value)
	add(p.DeliverySlot.Touched, "deliverySlot", string(p.DeliverySlot.Value))
	add(p.Remark.Touched, "remark", p.Remark.Value)
	add(p.RemarkAtBilled.Touched, "remarkAtBilled", p.RemarkAtBilled.Value)
	add(p.Discrepancy.Touched, "discrepancy", p.Discrepancy.Value)
	return out
}

// MarshalJSON encodes only the touched fields.
func (p Patch) MarshalJSON() ([]byte, error) {
	m := make(map[string]any)
	for _, c := range p.Changes() {
		m[c.Name] = c.Value
	}
	return json.Marshal(m)
}

func nullable[T ~string](v *T) any {
	if v == nil {
		return nil
	}
	return string(*v)
}

// ProgressReset clears every assignment, warehouse and scheduling field.
func ProgressReset() Patch {
	return Patch{
		AssignedDriverID:    Null[string](),
		AssignedSalesmanID:  Null[string](),
		AssignedClerkID:     Null[string](),
		TransferWarehouseID: Null[string](),
		HoldWarehouseID:     Null[string](),
		HoldWarehouseType:   Null[HoldType](),
		DeliveryDate:        Set(""),
		DeliverySlot:        Set(SlotUnset),
	}
}

// NormalizeForStatus clears the assignment and warehouse fields that the
// status set by p does not use. Completed keeps everything.
func NormalizeForStatus(p Patch) Patch {
	if !p.Status.Touched || p.Status.Value == StatusCompleted {
		return p
	}
	roles := rolesFor(p.Status.Value)
	if !roles.driver {
		p.AssignedDriverID = Null[string]()
	}
	if !roles.salesman {
		p.AssignedSalesmanID = Null[string]()
	}
	if !roles.clerk {
		p.AssignedClerkID = Null[string]()
	}
	if !roles.transfer {
		p.TransferWarehouseID = Null[string]()
	}
	if !roles.hold {
		p.HoldWarehouseID = Null[string]()
		p.HoldWarehouseType = Null[HoldType]()
	}
	return p
}

// AppendRemark joins a suffix onto an existing remark with " / ".
func AppendRemark(remark, suffix string) string {
	if r := strings.TrimSpace(remark); r != "" {
		return r + " / " + suffix
	}
	return suffix
}
