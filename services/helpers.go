package services

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var textPolicy = bluemonday.StrictPolicy()

// sanitizeText strips all markup from free text and trims it
func sanitizeText(s string) string {
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(s)))
}

// sanitizePtr is sanitizeText for optional input fields
func sanitizePtr(s *string) string {
	if s == nil {
		return ""
	}
	return sanitizeText(*s)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// trimmedPtr returns nil for nil or blank input
func trimmedPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// setText adds column=value to updates when the field was supplied
func setText(updates map[string]interface{}, column string, value *string) {
	if value != nil {
		updates[column] = sanitizeText(*value)
	}
}

// likePattern builds a case-insensitive LIKE argument
func likePattern(search string) string {
	return "%" + strings.ToLower(strings.TrimSpace(search)) + "%"
}

// ParseDate parses a date string in YYYY-MM-DD form, RFC 3339 is accepted too
func ParseDate(dateStr string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", dateStr); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, dateStr); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid date format: expected YYYY-MM-DD")
}

// parseOptionalDate parses an optional date field, naming it in the error
func parseOptionalDate(field string, s *string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	t, err := ParseDate(strings.TrimSpace(*s))
	if err != nil {
		return nil, ValidationError("Date invalide pour %s: attendu AAAA-MM-JJ", field)
	}
	return &t, nil
}

// lockForUpdate adds SELECT ... FOR UPDATE on dialects that support it.
// SQLite serializes writers already.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// exists reports whether a row of model matches id
func exists(tx *gorm.DB, model interface{}, id string) (bool, error) {
	var count int64
	if err := tx.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// countWhere counts rows of model matching query
func countWhere(tx *gorm.DB, model interface{}, query string, args ...interface{}) (int64, error) {
	var count int64
	err := tx.Model(model).Where(query, args...).Count(&count).Error
	return count, err
}
