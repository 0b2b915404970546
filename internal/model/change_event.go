package model

import "time"

// FieldChange is the before/after pair of a single field.
type FieldChange struct {
	Before any `json:"before"`
	After  any `json:"after"`
}

// ChangeEvent is a normalized, platform neutral record of one detected change.
// It is never mutated after the normalizer emits it.
type ChangeEvent struct {
	ID             string                 `json:"id"`
	OrganizationID string                 `json:"organizationId"`
	AdAccountID    string                 `json:"adAccountId"`
	Platform       Platform               `json:"platform"`
	ChangeType     string                 `json:"changeType"`
	EntityType     EntityType             `json:"entityType"`
	EntityID       string                 `json:"entityId"`
	EntityName     string                 `json:"entityName"`
	Changes        map[string]FieldChange `json:"changes"`
	Metadata       map[string]any         `json:"metadata,omitempty"`
	DetectedAt     time.Time              `json:"detectedAt"`
}

// Change returns the before/after pair for field, if any.
func (e ChangeEvent) Change(field string) (FieldChange, bool) {
	fc, ok := e.Changes[field]
	return fc, ok
}
