package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"time"

	"gorm.io/gorm"
)

// AuditAction represents the type of operation performed
type AuditAction string

const (
	AuditActionCreate   AuditAction = "CREATE"
	AuditActionUpdate   AuditAction = "UPDATE"
	AuditActionDelete   AuditAction = "DELETE"
	AuditActionLogin    AuditAction = "LOGIN"
	AuditActionSecurity AuditAction = "SECURITY" // Password reset, role or status change
)

// ErrAuditImmutable is returned by the update and delete hooks
var ErrAuditImmutable = errors.New("audit logs are immutable")

// AuditLog represents an immutable record of a mutation made through the API
type AuditLog struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index:idx_audit_created_at" json:"createdAt"`

	// Actor identification
	UserID   *string `gorm:"type:uuid;index:idx_audit_user" json:"userId,omitempty"`
	UserName string  `gorm:"not null" json:"userName"` // Denormalized for historical accuracy
	UserRole string  `gorm:"not null" json:"userRole"`

	// Target resource
	ResourceType string `gorm:"not null;index:idx_audit_resource" json:"resourceType"` // e.g. "unite", "personnel"
	ResourceID   string `gorm:"not null;index:idx_audit_resource" json:"resourceId"`
	ResourceName string `json:"resourceName,omitempty"` // Human-readable identifier (code, matricule)

	Action      AuditAction `gorm:"not null;index:idx_audit_action" json:"action"`
	Description string      `gorm:"type:text" json:"description,omitempty"`

	OldValues string `gorm:"type:text" json:"oldValues,omitempty"` // JSON encoded
	NewValues string `gorm:"type:text" json:"newValues,omitempty"` // JSON encoded

	IPAddress string `json:"ipAddress,omitempty"`
	UserAgent string `json:"userAgent,omitempty"`
}

// AuditChange represents a single field change
type AuditChange struct {
	Field string      `json:"field"`
	Old   interface{} `json:"old"`
	New   interface{} `json:"new"`
}

// Changes diffs OldValues against NewValues, sorted by field name.
// A stored value that is not a JSON object is reported as an error.
func (a *AuditLog) Changes() ([]AuditChange, error) {
	changes := make([]AuditChange, 0)
	oldMap := make(map[string]interface{})
	newMap := make(map[string]interface{})

	if a.OldValues != "" {
		if err := json.Unmarshal([]byte(a.OldValues), &oldMap); err != nil {
			return nil, fmt.Errorf("failed to decode old values of audit log %s: %w", a.ID, err)
		}
	}
	if a.NewValues != "" {
		if err := json.Unmarshal([]byte(a.NewValues), &newMap); err != nil {
			return nil, fmt.Errorf("failed to decode new values of audit log %s: %w", a.ID, err)
		}
	}

	keys := make(map[string]struct{})
	for k := range oldMap {
		keys[k] = struct{}{}
	}
	for k := range newMap {
		keys[k] = struct{}{}
	}

	for k := range keys {
		o, n := oldMap[k], newMap[k]
		if !reflect.DeepEqual(o, n) {
			changes = append(changes, AuditChange{Field: k, Old: o, New: n})
		}
	}

	sort.Slice(changes, func(i, j int) bool { return changes[i].Field < changes[j].Field })
	return changes, nil
}

// BeforeCreate hook to generate UUID
func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	ensureID(&a.ID)
	return nil
}

// BeforeUpdate keeps audit rows immutable
func (a *AuditLog) BeforeUpdate(tx *gorm.DB) error {
	return ErrAuditImmutable
}

// BeforeDelete keeps audit rows immutable
func (a *AuditLog) BeforeDelete(tx *gorm.DB) error {
	return ErrAuditImmutable
}

// TableName specifies the table name
func (AuditLog) TableName() string {
	return "audit_logs"
}
