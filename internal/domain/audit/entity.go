package audit

import "time"

type EntityType string

const (
	EntityTimeEntry       EntityType = "time_entry"
	EntityLeaveRequest    EntityType = "leave_request"
	EntityOvertimeRequest EntityType = "overtime_request"
	EntityLeaveBalance    EntityType = "leave_balance"
)

// Record is one changed field of one mutation. Records are never updated or deleted.
type Record struct {
	ID         string     `json:"id"`
	TenantID   string     `json:"tenant_id"`
	EntityType EntityType `json:"entity_type"`
	EntityID   string     `json:"entity_id"`
	ChangedBy  string     `json:"changed_by"`
	FieldName  string     `json:"field_name"`
	OldValue   *string    `json:"old_value"`
	NewValue   *string    `json:"new_value"`
	Reason     *string    `json:"reason"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Changes collects field-level differences for a single mutation.
type Changes struct {
	TenantID   string
	EntityType EntityType
	EntityID   string
	ChangedBy  string
	Reason     string

	records []Record
}

// Field records old -> new when they differ. Nil means "no value".
func (c *Changes) Field(name string, oldValue, newValue *string) {
	if equalPtr(oldValue, newValue) {
		return
	}
	c.records = append(c.records, Record{
		TenantID:   c.TenantID,
		EntityType: c.EntityType,
		EntityID:   c.EntityID,
		ChangedBy:  c.ChangedBy,
		FieldName:  name,
		OldValue:   oldValue,
		NewValue:   newValue,
		Reason:     optional(c.Reason),
	})
}

// Set records a change between two plain values.
func (c *Changes) Set(name, oldValue, newValue string) {
	c.Field(name, &oldValue, &newValue)
}

func (c *Changes) Records() []Record {
	return c.records
}

func (c *Changes) Empty() bool {
	return len(c.records) == 0
}

func equalPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
