package services

import (
	"fmt"
	"strings"

	"personnel_app_go/models"

	"gorm.io/gorm"
)

// UserQuery filters the admin user list
type UserQuery struct {
	PageQuery
	Search   string
	Role     string
	IsActive *bool
}

// ListUsers pages through user accounts ordered by last name
func ListUsers(db *gorm.DB, q UserQuery) (*Page[models.User], error) {
	return paginate[models.User](db, q.PageQuery, "last_name ASC, first_name ASC", func(tx *gorm.DB) *gorm.DB {
		if q.Search != "" {
			pattern := likePattern(q.Search)
			tx = tx.Where("LOWER(email) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?", pattern, pattern, pattern)
		}
		if q.Role != "" {
			tx = tx.Where("role = ?", strings.ToUpper(q.Role))
		}
		if q.IsActive != nil {
			tx = tx.Where("is_active = ?", *q.IsActive)
		}
		return tx
	})
}

// SetUserStatus activates or deactivates an account. Admins cannot deactivate themselves.
func SetUserStatus(db *gorm.DB, actorID, userID string, active bool) (*models.User, error) {
	if actorID == userID && !active {
		return nil, ValidationError("Vous ne pouvez pas désactiver votre propre compte")
	}

	user, err := GetUserByID(db, userID)
	if err != nil {
		return nil, err
	}
	if err := db.Model(user).Update("is_active", active).Error; err != nil {
		return nil, fmt.Errorf("failed to update user status: %w", err)
	}
	user.IsActive = active
	return user, nil
}

// SetUserRole changes the role of an account. The last active admin keeps the ADMIN role.
func SetUserRole(db *gorm.DB, actorID, userID, role string) (*models.User, error) {
	role = strings.ToUpper(strings.TrimSpace(role))
	if !models.IsValidRole(role) {
		return nil, ValidationError("Rôle invalide: %s", role)
	}
	if actorID == userID && role != models.RoleAdmin {
		return nil, ValidationError("Vous ne pouvez pas retirer votre propre rôle ADMIN")
	}

	var user *models.User
	err := db.Transaction(func(tx *gorm.DB) error {
		var u models.User
		if err := lockForUpdate(tx).First(&u, "id = ?", userID).Error; err != nil {
			return notFoundOr(err, "L'utilisateur avec l'ID %s n'existe pas", userID)
		}

		if u.Role == models.RoleAdmin && role != models.RoleAdmin {
			admins, err := countWhere(tx, &models.User{}, "role = ? AND is_active = ?", models.RoleAdmin, true)
			if err != nil {
				return fmt.Errorf("failed to count admins: %w", err)
			}
			if admins <= 1 {
				return ValidationError("Impossible de retirer le rôle ADMIN au dernier administrateur actif")
			}
		}

		if err := tx.Model(&u).Update("role", role).Error; err != nil {
			return fmt.Errorf("failed to update user role: %w", err)
		}
		u.Role = role
		user = &u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}
