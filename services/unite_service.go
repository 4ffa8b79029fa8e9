package services

import (
	"fmt"
	"strings"

	"personnel_app_go/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UniteDetailInput carries the type-specific fields of a unit. Only the fields
// of the unit's own type are used; the others are ignored.
type UniteDetailInput struct {
	// INSTITUT
	Emplacement *string `json:"emplacement"`
	AnneeEtude  *string `json:"anneeEtude"`
	Specialite  *string `json:"specialite"`
	// DCT
	Domaine *string `json:"domaine"`
	// DCT and PC
	Niveau *string `json:"niveau"`
	// PC
	TypePC        *string `json:"typePC"`
	ZoneOperation *string `json:"zoneOperation"`
}

// UniteInput is the create/update payload of a unit. Nil fields are left unchanged on update.
type UniteInput struct {
	Nom         *string `json:"nom"`
	Code        *string `json:"code"`
	Description *string `json:"description"`
	Type        *string `json:"type"`
	DirecteurID *string `json:"directeurId"`
	UniteDetailInput
}

// UniteFilters holds filter options for listing units
type UniteFilters struct {
	Type   string
	Search string
}

// uniteBranch is the per-type behaviour of a unit's detail record
type uniteBranch struct {
	build   func(in UniteDetailInput) models.UniteDetail
	updates func(in UniteDetailInput) map[string]interface{}
	model   func() models.UniteDetail
}

var uniteBranches = map[models.UniteType]uniteBranch{
	models.UniteTypeInstitut: {
		build: func(in UniteDetailInput) models.UniteDetail {
			return &models.Institut{
				Emplacement: sanitizePtr(in.Emplacement),
				AnneeEtude:  sanitizePtr(in.AnneeEtude),
				Specialite:  sanitizePtr(in.Specialite),
			}
		},
		updates: func(in UniteDetailInput) map[string]interface{} {
			m := map[string]interface{}{}
			setText(m, "emplacement", in.Emplacement)
			setText(m, "annee_etude", in.AnneeEtude)
			setText(m, "specialite", in.Specialite)
			return m
		},
		model: func() models.UniteDetail { return &models.Institut{} },
	},
	models.UniteTypeDCT: {
		build: func(in UniteDetailInput) models.UniteDetail {
			return &models.DCT{
				Domaine: sanitizePtr(in.Domaine),
				Niveau:  sanitizePtr(in.Niveau),
			}
		},
		updates: func(in UniteDetailInput) map[string]interface{} {
			m := map[string]interface{}{}
			setText(m, "domaine", in.Domaine)
			setText(m, "niveau", in.Niveau)
			return m
		},
		model: func() models.UniteDetail { return &models.DCT{} },
	},
	models.UniteTypePC: {
		build: func(in UniteDetailInput) models.UniteDetail {
			return &models.PC{
				TypePC:        sanitizePtr(in.TypePC),
				ZoneOperation: sanitizePtr(in.ZoneOperation),
				Niveau:        sanitizePtr(in.Niveau),
			}
		},
		updates: func(in UniteDetailInput) map[string]interface{} {
			m := map[string]interface{}{}
			setText(m, "type_pc", in.TypePC)
			setText(m, "zone_operation", in.ZoneOperation)
			setText(m, "niveau", in.Niveau)
			return m
		},
		model: func() models.UniteDetail { return &models.PC{} },
	},
}

func branchForUnite(t models.UniteType) (uniteBranch, error) {
	b, ok := uniteBranches[t]
	if !ok {
		return uniteBranch{}, ValidationError("Type d'unité invalide: %q (attendu: INSTITUT, DCT ou PC)", string(t))
	}
	return b, nil
}

func preloadUnite(db *gorm.DB) *gorm.DB {
	return db.Preload("Institut").Preload("DCT").Preload("PC").Preload("Directeur")
}

// GetAllUnites lists units ordered by name with their detail and director
func GetAllUnites(db *gorm.DB, filters UniteFilters) ([]models.Unite, error) {
	query := preloadUnite(db.Model(&models.Unite{}))

	if filters.Type != "" {
		t := models.UniteType(strings.ToUpper(filters.Type))
		if !t.IsValid() {
			return nil, ValidationError("Type d'unité invalide: %q", filters.Type)
		}
		query = query.Where("type = ?", t)
	}
	if filters.Search != "" {
		pattern := likePattern(filters.Search)
		query = query.Where("LOWER(nom) LIKE ? OR LOWER(code) LIKE ?", pattern, pattern)
	}

	unites := make([]models.Unite, 0)
	if err := query.Order("nom ASC").Find(&unites).Error; err != nil {
		return nil, fmt.Errorf("failed to list unites: %w", err)
	}
	return unites, nil
}

// GetUniteByID retrieves a unit with its detail relations loaded
func GetUniteByID(db *gorm.DB, id string) (*models.Unite, error) {
	var unite models.Unite
	if err := preloadUnite(db).First(&unite, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "L'unité avec l'ID %s n'existe pas", id)
	}
	return &unite, nil
}

// GetUniteByCode retrieves a unit by its unique code
func GetUniteByCode(db *gorm.DB, code string) (*models.Unite, error) {
	var unite models.Unite
	if err := preloadUnite(db).First(&unite, "code = ?", code).Error; err != nil {
		return nil, notFoundOr(err, "L'unité avec le code %s n'existe pas", code)
	}
	return &unite, nil
}

func ensureUniqueUniteCode(tx *gorm.DB, code, excludeID string) error {
	query := tx.Model(&models.Unite{}).Where("code = ?", code)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check unite code: %w", err)
	}
	if count > 0 {
		return ConflictError("Une unité avec le code %s existe déjà", code)
	}
	return nil
}

func validateDirecteur(tx *gorm.DB, directeurID *string) error {
	if directeurID == nil {
		return nil
	}
	ok, err := exists(tx, &models.User{}, *directeurID)
	if err != nil {
		return fmt.Errorf("failed to check directeur: %w", err)
	}
	if !ok {
		return ValidationError("Le directeur avec l'ID %s n'existe pas", *directeurID)
	}
	return nil
}

// CreateUnite creates a unit and the detail record matching its type in one transaction
func CreateUnite(db *gorm.DB, in UniteInput) (*models.Unite, error) {
	nom := sanitizePtr(in.Nom)
	code := strings.TrimSpace(deref(in.Code))
	if nom == "" || code == "" {
		return nil, ValidationError("Le nom et le code de l'unité sont requis")
	}

	uniteType := models.UniteType(strings.ToUpper(strings.TrimSpace(deref(in.Type))))
	branch, err := branchForUnite(uniteType)
	if err != nil {
		return nil, err
	}

	directeurID := trimmedPtr(in.DirecteurID)

	var uniteID string
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := ensureUniqueUniteCode(tx, code, ""); err != nil {
			return err
		}
		if err := validateDirecteur(tx, directeurID); err != nil {
			return err
		}

		unite := models.Unite{
			Nom:         nom,
			Code:        code,
			Description: sanitizePtr(in.Description),
			Type:        uniteType,
			DirecteurID: directeurID,
		}
		if err := tx.Omit(clause.Associations).Create(&unite).Error; err != nil {
			return conflictOr(err, "Une unité avec le code %s existe déjà", code)
		}

		detail := branch.build(in.UniteDetailInput)
		detail.SetUniteID(unite.ID)
		if err := tx.Create(detail).Error; err != nil {
			return fmt.Errorf("failed to create %s detail: %w", uniteType, err)
		}

		uniteID = unite.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("Unite created", zap.String("unite_id", uniteID), zap.String("code", code), zap.String("type", string(uniteType)))
	return GetUniteByID(db, uniteID)
}

// UpdateUnite updates the base fields of a unit and the detail of its stored type.
// The type itself is immutable and detail fields of other types are ignored.
func UpdateUnite(db *gorm.DB, id string, in UniteInput) (*models.Unite, error) {
	err := db.Transaction(func(tx *gorm.DB) error {
		var unite models.Unite
		if err := lockForUpdate(tx).First(&unite, "id = ?", id).Error; err != nil {
			return notFoundOr(err, "L'unité avec l'ID %s n'existe pas", id)
		}

		if in.Type != nil && !strings.EqualFold(strings.TrimSpace(*in.Type), string(unite.Type)) {
			return ValidationError("Le type d'une unité ne peut pas être modifié")
		}

		updates := map[string]interface{}{}
		if in.Nom != nil {
			nom := sanitizeText(*in.Nom)
			if nom == "" {
				return ValidationError("Le nom de l'unité ne peut pas être vide")
			}
			updates["nom"] = nom
		}
		if in.Code != nil {
			code := strings.TrimSpace(*in.Code)
			if code == "" {
				return ValidationError("Le code de l'unité ne peut pas être vide")
			}
			if err := ensureUniqueUniteCode(tx, code, id); err != nil {
				return err
			}
			updates["code"] = code
		}
		setText(updates, "description", in.Description)
		if in.DirecteurID != nil {
			directeurID := trimmedPtr(in.DirecteurID)
			if err := validateDirecteur(tx, directeurID); err != nil {
				return err
			}
			updates["directeur_id"] = directeurID
		}

		if len(updates) > 0 {
			if err := tx.Model(&unite).Updates(updates).Error; err != nil {
				return conflictOr(err, "Une unité avec le code %v existe déjà", updates["code"])
			}
		}

		branch, err := branchForUnite(unite.Type)
		if err != nil {
			return err
		}
		detailUpdates := branch.updates(in.UniteDetailInput)
		if len(detailUpdates) == 0 {
			return nil
		}

		result := tx.Model(branch.model()).Where("unite_id = ?", id).Updates(detailUpdates)
		if result.Error != nil {
			return fmt.Errorf("failed to update %s detail: %w", unite.Type, result.Error)
		}
		if result.RowsAffected == 0 {
			// Repair a unit whose detail row is missing
			detail := branch.build(in.UniteDetailInput)
			detail.SetUniteID(id)
			if err := tx.Create(detail).Error; err != nil {
				return fmt.Errorf("failed to create %s detail: %w", unite.Type, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return GetUniteByID(db, id)
}

// DeleteUnite deletes a unit with its detail record and snapshots.
// Refused while sub-units or personnel are attached to it.
func DeleteUnite(db *gorm.DB, id string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var unite models.Unite
		if err := lockForUpdate(tx).First(&unite, "id = ?", id).Error; err != nil {
			return notFoundOr(err, "L'unité avec l'ID %s n'existe pas", id)
		}

		sousUnites, err := countWhere(tx, &models.SousUnite{}, "unite_id = ?", id)
		if err != nil {
			return fmt.Errorf("failed to count sous-unites: %w", err)
		}
		personnels, err := countWhere(tx, &models.Personnel{}, "unite_id = ?", id)
		if err != nil {
			return fmt.Errorf("failed to count personnel: %w", err)
		}
		if sousUnites > 0 || personnels > 0 {
			return DependencyBlockedError(
				"Impossible de supprimer l'unité %s: %d sous-unité(s) et %d personnel(s) y sont rattachés",
				unite.Code, sousUnites, personnels,
			)
		}

		branch, err := branchForUnite(unite.Type)
		if err != nil {
			return err
		}
		if err := tx.Where("unite_id = ?", id).Delete(branch.model()).Error; err != nil {
			return fmt.Errorf("failed to delete %s detail: %w", unite.Type, err)
		}
		if err := tx.Where("unite_id = ?", id).Delete(&models.DailySituation{}).Error; err != nil {
			return fmt.Errorf("failed to delete daily situations: %w", err)
		}
		if err := tx.Delete(&unite).Error; err != nil {
			return fmt.Errorf("failed to delete unite: %w", err)
		}

		zap.L().Info("Unite deleted", zap.String("unite_id", id), zap.String("code", unite.Code))
		return nil
	})
}

// UnitePersonnelQuery holds the listing options of a unit's personnel
type UnitePersonnelQuery struct {
	PageQuery
	UniteID       string
	Search        string
	TypePersonnel string
}

// GetUnitePersonnel returns one page of the personnel of a unit, each with its detail
func GetUnitePersonnel(db *gorm.DB, q UnitePersonnelQuery) (*Page[models.Personnel], error) {
	if ok, err := exists(db, &models.Unite{}, q.UniteID); err != nil {
		return nil, fmt.Errorf("failed to check unite: %w", err)
	} else if !ok {
		return nil, NotFoundError("L'unité avec l'ID %s n'existe pas", q.UniteID)
	}

	var typePersonnel models.TypePersonnel
	if q.TypePersonnel != "" {
		typePersonnel = models.TypePersonnel(strings.ToUpper(q.TypePersonnel))
		if !typePersonnel.IsValid() {
			return nil, ValidationError("Type de personnel invalide: %q", q.TypePersonnel)
		}
	}

	filter := func(tx *gorm.DB) *gorm.DB {
		tx = tx.Where("personnels.unite_id = ?", q.UniteID)
		if typePersonnel != "" {
			tx = tx.Where("personnels.type_personnel = ?", typePersonnel)
		}
		if q.Search != "" {
			tx = searchPersonnel(tx, q.Search)
		}
		return tx
	}

	return paginate[models.Personnel](db, q.PageQuery, "personnels.nom ASC, personnels.prenom ASC", filter, preloadPersonnelDetail)
}

// TypeCounts maps every personnel type to its headcount
type TypeCounts map[models.TypePersonnel]int64

// UniteStats is the summary block of a unit
type UniteStats struct {
	UniteID           string                 `json:"uniteId"`
	Code              string                 `json:"code"`
	Type              models.UniteType       `json:"type"`
	Total             int64                  `json:"total"`
	ParType           TypeCounts             `json:"parType"`
	SousUnites        int64                  `json:"sousUnites"`
	DerniereSituation *models.DailySituation `json:"derniereSituation"`
	Detail            models.UniteDetail     `json:"detail"`
}

// countPersonnelByType counts personnel of a unit per type, every type present
func countPersonnelByType(db *gorm.DB, uniteID string) (TypeCounts, int64, error) {
	var rows []struct {
		TypePersonnel models.TypePersonnel
		Count         int64
	}
	err := db.Model(&models.Personnel{}).
		Select("type_personnel, COUNT(*) AS count").
		Where("unite_id = ?", uniteID).
		Group("type_personnel").
		Scan(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count personnel: %w", err)
	}

	counts := TypeCounts{}
	for _, t := range models.TypesPersonnel {
		counts[t] = 0
	}
	var total int64
	for _, r := range rows {
		counts[r.TypePersonnel] = r.Count
		total += r.Count
	}
	return counts, total, nil
}

// GetUniteStats returns headcounts per personnel type, the latest daily situation
// and the type-specific detail of a unit
func GetUniteStats(db *gorm.DB, id string) (*UniteStats, error) {
	unite, err := GetUniteByID(db, id)
	if err != nil {
		return nil, err
	}

	counts, total, err := countPersonnelByType(db, id)
	if err != nil {
		return nil, err
	}

	sousUnites, err := countWhere(db, &models.SousUnite{}, "unite_id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("failed to count sous-unites: %w", err)
	}

	stats := &UniteStats{
		UniteID:    unite.ID,
		Code:       unite.Code,
		Type:       unite.Type,
		Total:      total,
		ParType:    counts,
		SousUnites: sousUnites,
		Detail:     unite.Detail(),
	}

	var latest models.DailySituation
	err = db.Where("unite_id = ?", id).Order("date DESC").Limit(1).Find(&latest).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load daily situation: %w", err)
	}
	if latest.ID != "" {
		stats.DerniereSituation = &latest
	}

	return stats, nil
}

// GetSousUnitesByUnite lists the sub-units of an existing unit
func GetSousUnitesByUnite(db *gorm.DB, uniteID string) ([]models.SousUnite, error) {
	if ok, err := exists(db, &models.Unite{}, uniteID); err != nil {
		return nil, fmt.Errorf("failed to check unite: %w", err)
	} else if !ok {
		return nil, NotFoundError("L'unité avec l'ID %s n'existe pas", uniteID)
	}

	sousUnites := make([]models.SousUnite, 0)
	if err := db.Where("unite_id = ?", uniteID).Order("nom ASC").Find(&sousUnites).Error; err != nil {
		return nil, fmt.Errorf("failed to list sous-unites: %w", err)
	}
	return sousUnites, nil
}
