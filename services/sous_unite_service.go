package services

import (
	"fmt"
	"strings"

	"personnel_app_go/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SousUniteInput is the create/update payload of a sub-unit
type SousUniteInput struct {
	Nom         *string `json:"nom"`
	Code        *string `json:"code"`
	Description *string `json:"description"`
	UniteID     *string `json:"uniteId"`
}

// GetAllSousUnites lists sub-units, optionally restricted to one unit
func GetAllSousUnites(db *gorm.DB, uniteID string) ([]models.SousUnite, error) {
	query := db.Preload("Unite")
	if uniteID != "" {
		query = query.Where("unite_id = ?", uniteID)
	}
	sousUnites := make([]models.SousUnite, 0)
	if err := query.Order("nom ASC").Find(&sousUnites).Error; err != nil {
		return nil, fmt.Errorf("failed to list sous-unites: %w", err)
	}
	return sousUnites, nil
}

// GetSousUniteByID retrieves a sub-unit with its parent
func GetSousUniteByID(db *gorm.DB, id string) (*models.SousUnite, error) {
	var sousUnite models.SousUnite
	if err := db.Preload("Unite").First(&sousUnite, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "La sous-unité avec l'ID %s n'existe pas", id)
	}
	return &sousUnite, nil
}

func ensureUniqueSousUniteCode(tx *gorm.DB, code, excludeID string) error {
	query := tx.Model(&models.SousUnite{}).Where("code = ?", code)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check sous-unite code: %w", err)
	}
	if count > 0 {
		return ConflictError("Une sous-unité avec le code %s existe déjà", code)
	}
	return nil
}

// CreateSousUnite creates a sub-unit under an existing unit
func CreateSousUnite(db *gorm.DB, in SousUniteInput) (*models.SousUnite, error) {
	nom := sanitizePtr(in.Nom)
	code := strings.TrimSpace(deref(in.Code))
	uniteID := strings.TrimSpace(deref(in.UniteID))
	if nom == "" || code == "" || uniteID == "" {
		return nil, ValidationError("Le nom, le code et l'unité de la sous-unité sont requis")
	}

	sousUnite := &models.SousUnite{
		Nom:         nom,
		Code:        code,
		Description: sanitizePtr(in.Description),
		UniteID:     uniteID,
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := ensureUniteExists(tx, uniteID); err != nil {
			return err
		}
		if err := ensureUniqueSousUniteCode(tx, code, ""); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Create(sousUnite).Error; err != nil {
			return conflictOr(err, "Une sous-unité avec le code %s existe déjà", code)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return GetSousUniteByID(db, sousUnite.ID)
}

// UpdateSousUnite updates a sub-unit. A new parent must exist.
func UpdateSousUnite(db *gorm.DB, id string, in SousUniteInput) (*models.SousUnite, error) {
	err := db.Transaction(func(tx *gorm.DB) error {
		var sousUnite models.SousUnite
		if err := lockForUpdate(tx).First(&sousUnite, "id = ?", id).Error; err != nil {
			return notFoundOr(err, "La sous-unité avec l'ID %s n'existe pas", id)
		}

		updates := map[string]interface{}{}
		if in.Nom != nil {
			nom := sanitizeText(*in.Nom)
			if nom == "" {
				return ValidationError("Le nom de la sous-unité ne peut pas être vide")
			}
			updates["nom"] = nom
		}
		if in.Code != nil {
			code := strings.TrimSpace(*in.Code)
			if code == "" {
				return ValidationError("Le code de la sous-unité ne peut pas être vide")
			}
			if err := ensureUniqueSousUniteCode(tx, code, id); err != nil {
				return err
			}
			updates["code"] = code
		}
		setText(updates, "description", in.Description)
		if in.UniteID != nil {
			uniteID := strings.TrimSpace(*in.UniteID)
			if uniteID != sousUnite.UniteID {
				if err := ensureUniteExists(tx, uniteID); err != nil {
					return err
				}
				// Militaires assigned here belong to the old unit
				assigned, err := countWhere(tx, &models.Militaire{}, "sous_unite_id = ?", id)
				if err != nil {
					return fmt.Errorf("failed to count militaires: %w", err)
				}
				if assigned > 0 {
					return DependencyBlockedError(
						"Impossible de changer l'unité de la sous-unité %s: %d militaire(s) y sont affectés", sousUnite.Code, assigned)
				}
				updates["unite_id"] = uniteID
			}
		}

		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&sousUnite).Updates(updates).Error; err != nil {
			return conflictOr(err, "Une sous-unité avec le code %v existe déjà", updates["code"])
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return GetSousUniteByID(db, id)
}

// DeleteSousUnite deletes a sub-unit no militaire is assigned to
func DeleteSousUnite(db *gorm.DB, id string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var sousUnite models.SousUnite
		if err := lockForUpdate(tx).First(&sousUnite, "id = ?", id).Error; err != nil {
			return notFoundOr(err, "La sous-unité avec l'ID %s n'existe pas", id)
		}

		assigned, err := countWhere(tx, &models.Militaire{}, "sous_unite_id = ?", id)
		if err != nil {
			return fmt.Errorf("failed to count militaires: %w", err)
		}
		if assigned > 0 {
			return DependencyBlockedError(
				"Impossible de supprimer la sous-unité %s: %d militaire(s) y sont affectés", sousUnite.Code, assigned)
		}

		return tx.Delete(&sousUnite).Error
	})
}
