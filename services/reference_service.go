package services

import (
	"fmt"
	"strings"

	"personnel_app_go/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ensureUnique fails with conflict when query matches a row other than excludeID
func ensureUnique(query *gorm.DB, excludeID string, conflict *Error) error {
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check uniqueness: %w", err)
	}
	if count > 0 {
		return conflict
	}
	return nil
}

// blockIfReferenced fails with a DependencyBlockedError carrying the number
// of militaires referencing id through column
func blockIfReferenced(tx *gorm.DB, id, column, message string) error {
	refs, err := countWhere(tx, &models.Militaire{}, column+" = ?", id)
	if err != nil {
		return fmt.Errorf("failed to count references: %w", err)
	}
	if refs > 0 {
		return DependencyBlockedError("%s: elle est utilisée par %d militaire(s)", message, refs)
	}
	return nil
}

// FonctionInput is the create/update payload of a Fonction
type FonctionInput struct {
	Titre       *string `json:"titre"`
	Description *string `json:"description"`
}

func GetAllFonctions(db *gorm.DB) ([]models.Fonction, error) {
	fonctions := make([]models.Fonction, 0)
	err := db.Order("titre ASC").Find(&fonctions).Error
	return fonctions, err
}

func GetFonctionByID(db *gorm.DB, id string) (*models.Fonction, error) {
	var fonction models.Fonction
	if err := db.First(&fonction, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "La fonction avec l'ID %s n'existe pas", id)
	}
	return &fonction, nil
}

// CreateFonction creates a Fonction with a unique titre
func CreateFonction(db *gorm.DB, in FonctionInput) (*models.Fonction, error) {
	titre := sanitizePtr(in.Titre)
	if titre == "" {
		return nil, ValidationError("Le titre de la fonction est requis")
	}
	fonction := &models.Fonction{Titre: titre, Description: sanitizePtr(in.Description)}
	err := db.Transaction(func(tx *gorm.DB) error {
		conflict := ConflictError("Une fonction avec le titre %s existe déjà", titre)
		if err := ensureUnique(tx.Model(&models.Fonction{}).Where("titre = ?", titre), "", conflict); err != nil {
			return err
		}
		return conflictOr(tx.Create(fonction).Error, "Une fonction avec le titre %s existe déjà", titre)
	})
	if err != nil {
		return nil, err
	}
	return fonction, nil
}

// UpdateFonction updates a Fonction, re-checking titre uniqueness
func UpdateFonction(db *gorm.DB, id string, in FonctionInput) (*models.Fonction, error) {
	var fonction models.Fonction
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&fonction, "id = ?", id).Error; err != nil {
			return notFoundOr(err, "La fonction avec l'ID %s n'existe pas", id)
		}
		if in.Titre != nil {
			titre := sanitizeText(*in.Titre)
			if titre == "" {
				return ValidationError("Le titre de la fonction ne peut pas être vide")
			}
			conflict := ConflictError("Une fonction avec le titre %s existe déjà", titre)
			if err := ensureUnique(tx.Model(&models.Fonction{}).Where("titre = ?", titre), id, conflict); err != nil {
				return err
			}
			fonction.Titre = titre
		}
		if in.Description != nil {
			fonction.Description = sanitizeText(*in.Description)
		}
		return conflictOr(tx.Save(&fonction).Error, "Une fonction avec le titre %s existe déjà", fonction.Titre)
	})
	if err != nil {
		return nil, err
	}
	return &fonction, nil
}

// DeleteFonction deletes a Fonction no militaire holds
func DeleteFonction(db *gorm.DB, id string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var fonction models.Fonction
		if err := lockForUpdate(tx).First(&fonction, "id = ?", id).Error; err != nil {
			return notFoundOr(err, "La fonction avec l'ID %s n'existe pas", id)
		}
		if err := blockIfReferenced(tx, id, "fonction_id", "Impossible de supprimer la fonction "+fonction.Titre); err != nil {
			return err
		}
		return tx.Delete(&fonction).Error
	})
}

// ArmeInput is the create/update payload of an Arme
type ArmeInput struct {
	Nom         *string `json:"nom"`
	Code        *string `json:"code"`
	Description *string `json:"description"`
}

func GetAllArmes(db *gorm.DB) ([]models.Arme, error) {
	armes := make([]models.Arme, 0)
	err := db.Preload("Specialites", func(tx *gorm.DB) *gorm.DB { return tx.Order("nom ASC") }).
		Order("nom ASC").Find(&armes).Error
	return armes, err
}

func GetArmeByID(db *gorm.DB, id string) (*models.Arme, error) {
	var arme models.Arme
	err := db.Preload("Specialites", func(tx *gorm.DB) *gorm.DB { return tx.Order("nom ASC") }).
		First(&arme, "id = ?", id).Error
	if err != nil {
		return nil, notFoundOr(err, "L'arme avec l'ID %s n'existe pas", id)
	}
	return &arme, nil
}

// CreateArme creates an Arme with a unique nom
func CreateArme(db *gorm.DB, in ArmeInput) (*models.Arme, error) {
	nom := sanitizePtr(in.Nom)
	if nom == "" {
		return nil, ValidationError("Le nom de l'arme est requis")
	}
	arme := &models.Arme{
		Nom:         nom,
		Code:        strings.TrimSpace(deref(in.Code)),
		Description: sanitizePtr(in.Description),
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		conflict := ConflictError("Une arme avec le nom %s existe déjà", nom)
		if err := ensureUnique(tx.Model(&models.Arme{}).Where("nom = ?", nom), "", conflict); err != nil {
			return err
		}
		return conflictOr(tx.Omit(clause.Associations).Create(arme).Error, "Une arme avec le nom %s existe déjà", nom)
	})
	if err != nil {
		return nil, err
	}
	return arme, nil
}

// UpdateArme updates an Arme, re-checking nom uniqueness
func UpdateArme(db *gorm.DB, id string, in ArmeInput) (*models.Arme, error) {
	var arme models.Arme
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&arme, "id = ?", id).Error; err != nil {
			return notFoundOr(err, "L'arme avec l'ID %s n'existe pas", id)
		}
		if in.Nom != nil {
			nom := sanitizeText(*in.Nom)
			if nom == "" {
				return ValidationError("Le nom de l'arme ne peut pas être vide")
			}
			conflict := ConflictError("Une arme avec le nom %s existe déjà", nom)
			if err := ensureUnique(tx.Model(&models.Arme{}).Where("nom = ?", nom), id, conflict); err != nil {
				return err
			}
			arme.Nom = nom
		}
		if in.Code != nil {
			arme.Code = strings.TrimSpace(*in.Code)
		}
		if in.Description != nil {
			arme.Description = sanitizeText(*in.Description)
		}
		return conflictOr(tx.Omit(clause.Associations).Save(&arme).Error, "Une arme avec le nom %s existe déjà", arme.Nom)
	})
	if err != nil {
		return nil, err
	}
	return &arme, nil
}

// DeleteArme deletes an Arme that has no specialites and no militaires
func DeleteArme(db *gorm.DB, id string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var arme models.Arme
		if err := lockForUpdate(tx).First(&arme, "id = ?", id).Error; err != nil {
			return notFoundOr(err, "L'arme avec l'ID %s n'existe pas", id)
		}
		specialites, err := countWhere(tx, &models.Specialite{}, "arme_id = ?", id)
		if err != nil {
			return fmt.Errorf("failed to count specialites: %w", err)
		}
		if specialites > 0 {
			return DependencyBlockedError("Impossible de supprimer l'arme %s: elle contient %d spécialité(s)", arme.Nom, specialites)
		}
		if err := blockIfReferenced(tx, id, "arme_id", "Impossible de supprimer l'arme "+arme.Nom); err != nil {
			return err
		}
		return tx.Delete(&arme).Error
	})
}

// SpecialiteInput is the create/update payload of a Specialite
type SpecialiteInput struct {
	Nom         *string `json:"nom"`
	ArmeID      *string `json:"armeId"`
	Description *string `json:"description"`
}

// GetAllSpecialites lists specialites, optionally of one arme
func GetAllSpecialites(db *gorm.DB, armeID string) ([]models.Specialite, error) {
	query := db.Preload("Arme")
	if armeID != "" {
		query = query.Where("arme_id = ?", armeID)
	}
	specialites := make([]models.Specialite, 0)
	err := query.Order("nom ASC").Find(&specialites).Error
	return specialites, err
}

func GetSpecialiteByID(db *gorm.DB, id string) (*models.Specialite, error) {
	var specialite models.Specialite
	if err := db.Preload("Arme").First(&specialite, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "La spécialité avec l'ID %s n'existe pas", id)
	}
	return &specialite, nil
}

func ensureArmeExists(tx *gorm.DB, armeID string) error {
	ok, err := exists(tx, &models.Arme{}, armeID)
	if err != nil {
		return fmt.Errorf("failed to check arme: %w", err)
	}
	if !ok {
		return NotFoundError("L'arme avec l'ID %s n'existe pas", armeID)
	}
	return nil
}

// CreateSpecialite creates a Specialite whose nom is unique within its arme
func CreateSpecialite(db *gorm.DB, in SpecialiteInput) (*models.Specialite, error) {
	nom := sanitizePtr(in.Nom)
	armeID := strings.TrimSpace(deref(in.ArmeID))
	if nom == "" || armeID == "" {
		return nil, ValidationError("Le nom et l'arme de la spécialité sont requis")
	}
	specialite := &models.Specialite{Nom: nom, ArmeID: armeID, Description: sanitizePtr(in.Description)}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := ensureArmeExists(tx, armeID); err != nil {
			return err
		}
		conflict := ConflictError("La spécialité %s existe déjà pour cette arme", nom)
		if err := ensureUnique(tx.Model(&models.Specialite{}).Where("nom = ? AND arme_id = ?", nom, armeID), "", conflict); err != nil {
			return err
		}
		return conflictOr(tx.Omit(clause.Associations).Create(specialite).Error, "La spécialité %s existe déjà pour cette arme", nom)
	})
	if err != nil {
		return nil, err
	}
	return GetSpecialiteByID(db, specialite.ID)
}

// UpdateSpecialite updates a Specialite, re-checking uniqueness within the (possibly new) arme
func UpdateSpecialite(db *gorm.DB, id string, in SpecialiteInput) (*models.Specialite, error) {
	err := db.Transaction(func(tx *gorm.DB) error {
		var specialite models.Specialite
		if err := lockForUpdate(tx).First(&specialite, "id = ?", id).Error; err != nil {
			return notFoundOr(err, "La spécialité avec l'ID %s n'existe pas", id)
		}
		if in.Nom != nil {
			nom := sanitizeText(*in.Nom)
			if nom == "" {
				return ValidationError("Le nom de la spécialité ne peut pas être vide")
			}
			specialite.Nom = nom
		}
		if in.ArmeID != nil {
			armeID := strings.TrimSpace(*in.ArmeID)
			if armeID != specialite.ArmeID {
				if err := ensureArmeExists(tx, armeID); err != nil {
					return err
				}
				specialite.ArmeID = armeID
			}
		}
		if in.Description != nil {
			specialite.Description = sanitizeText(*in.Description)
		}

		conflict := ConflictError("La spécialité %s existe déjà pour cette arme", specialite.Nom)
		if err := ensureUnique(tx.Model(&models.Specialite{}).Where("nom = ? AND arme_id = ?", specialite.Nom, specialite.ArmeID), id, conflict); err != nil {
			return err
		}
		return conflictOr(tx.Omit(clause.Associations).Save(&specialite).Error, "La spécialité %s existe déjà pour cette arme", specialite.Nom)
	})
	if err != nil {
		return nil, err
	}
	return GetSpecialiteByID(db, id)
}

// DeleteSpecialite deletes a Specialite no militaire holds
func DeleteSpecialite(db *gorm.DB, id string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var specialite models.Specialite
		if err := lockForUpdate(tx).First(&specialite, "id = ?", id).Error; err != nil {
			return notFoundOr(err, "La spécialité avec l'ID %s n'existe pas", id)
		}
		if err := blockIfReferenced(tx, id, "specialite_id", "Impossible de supprimer la spécialité "+specialite.Nom); err != nil {
			return err
		}
		return tx.Delete(&specialite).Error
	})
}

// PositionInput is the create/update payload of a Position
type PositionInput struct {
	Nom         *string `json:"nom"`
	Description *string `json:"description"`
}

func GetAllPositions(db *gorm.DB) ([]models.Position, error) {
	positions := make([]models.Position, 0)
	err := db.Order("nom ASC").Find(&positions).Error
	return positions, err
}

func GetPositionByID(db *gorm.DB, id string) (*models.Position, error) {
	var position models.Position
	if err := db.First(&position, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "La position avec l'ID %s n'existe pas", id)
	}
	return &position, nil
}

// CreatePosition creates a Position with a unique nom
func CreatePosition(db *gorm.DB, in PositionInput) (*models.Position, error) {
	nom := sanitizePtr(in.Nom)
	if nom == "" {
		return nil, ValidationError("Le nom de la position est requis")
	}
	position := &models.Position{Nom: nom, Description: sanitizePtr(in.Description)}
	err := db.Transaction(func(tx *gorm.DB) error {
		conflict := ConflictError("Une position avec le nom %s existe déjà", nom)
		if err := ensureUnique(tx.Model(&models.Position{}).Where("nom = ?", nom), "", conflict); err != nil {
			return err
		}
		return conflictOr(tx.Create(position).Error, "Une position avec le nom %s existe déjà", nom)
	})
	if err != nil {
		return nil, err
	}
	return position, nil
}

// UpdatePosition updates a Position, re-checking nom uniqueness
func UpdatePosition(db *gorm.DB, id string, in PositionInput) (*models.Position, error) {
	var position models.Position
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&position, "id = ?", id).Error; err != nil {
			return notFoundOr(err, "La position avec l'ID %s n'existe pas", id)
		}
		if in.Nom != nil {
			nom := sanitizeText(*in.Nom)
			if nom == "" {
				return ValidationError("Le nom de la position ne peut pas être vide")
			}
			conflict := ConflictError("Une position avec le nom %s existe déjà", nom)
			if err := ensureUnique(tx.Model(&models.Position{}).Where("nom = ?", nom), id, conflict); err != nil {
				return err
			}
			position.Nom = nom
		}
		if in.Description != nil {
			position.Description = sanitizeText(*in.Description)
		}
		return conflictOr(tx.Save(&position).Error, "Une position avec le nom %s existe déjà", position.Nom)
	})
	if err != nil {
		return nil, err
	}
	return &position, nil
}

// DeletePosition deletes a Position no militaire holds
func DeletePosition(db *gorm.DB, id string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var position models.Position
		if err := lockForUpdate(tx).First(&position, "id = ?", id).Error; err != nil {
			return notFoundOr(err, "La position avec l'ID %s n'existe pas", id)
		}
		if err := blockIfReferenced(tx, id, "position_id", "Impossible de supprimer la position "+position.Nom); err != nil {
			return err
		}
		return tx.Delete(&position).Error
	})
}
