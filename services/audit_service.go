package services

import (
	"encoding/json"
	"time"

	"personnel_app_go/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AuditContext contains contextual information for audit logging
type AuditContext struct {
	UserID    string
	UserName  string
	UserRole  string
	IPAddress string
	UserAgent string
}

// LogAuditEvent records an audit entry. Failures are logged, never returned:
// the mutation being audited has already been committed.
func LogAuditEvent(
	db *gorm.DB,
	ctx AuditContext,
	action models.AuditAction,
	resourceType string,
	resourceID string,
	resourceName string,
	description string,
	oldValues interface{},
	newValues interface{},
) {
	auditLog := models.AuditLog{
		UserID:       ptrIfNotEmpty(ctx.UserID),
		UserName:     ctx.UserName,
		UserRole:     ctx.UserRole,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		ResourceName: resourceName,
		Action:       action,
		Description:  description,
		OldValues:    marshalAuditValues(oldValues),
		NewValues:    marshalAuditValues(newValues),
		IPAddress:    ctx.IPAddress,
		UserAgent:    ctx.UserAgent,
	}

	if err := db.Create(&auditLog).Error; err != nil {
		zap.L().Error("Failed to create audit log",
			zap.String("resource_type", resourceType),
			zap.String("resource_id", resourceID),
			zap.Error(err),
		)
	}
}

func marshalAuditValues(v interface{}) string {
	if v == nil {
		return ""
	}
	bytes, err := json.Marshal(v)
	if err != nil {
		zap.L().Warn("Failed to encode audit values", zap.Error(err))
		return ""
	}
	return string(bytes)
}

// ptrIfNotEmpty returns a pointer to the string if not empty, nil otherwise
func ptrIfNotEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// LogSecurityEvent logs security-related events and persists them as SECURITY audit entries
func LogSecurityEvent(db *gorm.DB, eventType, userID, details string) {
	zap.L().Warn("security event",
		zap.String("event", eventType),
		zap.String("user_id", userID),
		zap.String("details", details),
	)

	auditLog := models.AuditLog{
		UserID:       ptrIfNotEmpty(userID),
		UserName:     "system",
		UserRole:     "system",
		Action:       models.AuditActionSecurity,
		ResourceType: "SECURITY_EVENT",
		ResourceID:   eventType,
		Description:  details,
	}
	if err := db.Create(&auditLog).Error; err != nil {
		zap.L().Error("Failed to create security audit log", zap.Error(err))
	}
}

// AuditLogDetail is an audit entry with its field-level diff. ChangesError is
// set instead of Changes when the stored values cannot be decoded.
type AuditLogDetail struct {
	models.AuditLog
	Changes      []models.AuditChange `json:"changes"`
	ChangesError string               `json:"changesError,omitempty"`
}

// GetAuditLogByID returns one audit entry with its diff
func GetAuditLogByID(db *gorm.DB, id string) (*AuditLogDetail, error) {
	var log models.AuditLog
	if err := db.First(&log, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "L'entrée d'audit avec l'ID %s n'existe pas", id)
	}

	detail := &AuditLogDetail{AuditLog: log}
	changes, err := log.Changes()
	if err != nil {
		zap.L().Warn("Corrupt audit values", zap.String("audit_log_id", log.ID), zap.Error(err))
		detail.ChangesError = "Valeurs d'audit illisibles"
		return detail, nil
	}
	detail.Changes = changes
	return detail, nil
}

// GetResourceAuditHistory retrieves the audit history for a specific resource
func GetResourceAuditHistory(db *gorm.DB, resourceType, resourceID string) ([]models.AuditLog, error) {
	logs := make([]models.AuditLog, 0)
	err := db.Where("resource_type = ? AND resource_id = ?", resourceType, resourceID).
		Order("created_at DESC").
		Find(&logs).Error
	return logs, err
}

// AuditLogFilters contains filter options for audit log queries
type AuditLogFilters struct {
	PageQuery
	UserID       string
	ResourceType string
	Action       string
	DateFrom     time.Time
	DateTo       time.Time
	SearchQuery  string
}

// GetAuditLogs retrieves paginated audit logs, newest first
func GetAuditLogs(db *gorm.DB, filters AuditLogFilters) (*Page[models.AuditLog], error) {
	filter := func(query *gorm.DB) *gorm.DB {
		if filters.UserID != "" {
			query = query.Where("user_id = ?", filters.UserID)
		}
		if filters.ResourceType != "" {
			query = query.Where("resource_type = ?", filters.ResourceType)
		}
		if filters.Action != "" {
			query = query.Where("action = ?", filters.Action)
		}
		if !filters.DateFrom.IsZero() {
			query = query.Where("created_at >= ?", filters.DateFrom)
		}
		if !filters.DateTo.IsZero() {
			query = query.Where("created_at <= ?", filters.DateTo)
		}
		if filters.SearchQuery != "" {
			pattern := likePattern(filters.SearchQuery)
			query = query.Where(
				"LOWER(resource_name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(user_name) LIKE ?",
				pattern, pattern, pattern,
			)
		}
		return query
	}

	return paginate[models.AuditLog](db, filters.PageQuery, "created_at DESC", filter)
}
