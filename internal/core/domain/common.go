package domain

import "time"

// AuditFields holds standard audit information for stored rows.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}

// StampCreated fills every audit field for a new row.
func (a *AuditFields) StampCreated(actor string, now time.Time) {
	a.CreatedAt = now
	a.CreatedBy = actor
	a.LastUpdatedAt = now
	a.LastUpdatedBy = actor
}

// StampUpdated records the latest writer.
func (a *AuditFields) StampUpdated(actor string, now time.Time) {
	a.LastUpdatedAt = now
	a.LastUpdatedBy = actor
}
