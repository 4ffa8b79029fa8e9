package services

import (
	"errors"
	"fmt"
	"time"

	"personnel_app_go/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// computeSituation counts the personnel of a unit for a snapshot row
func computeSituation(tx *gorm.DB, uniteID string) (*models.DailySituation, error) {
	counts, total, err := countPersonnelByType(tx, uniteID)
	if err != nil {
		return nil, err
	}

	var rows []struct {
		Situation models.Situation
		Count     int64
	}
	err = tx.Model(&models.Militaire{}).
		Select("militaires.situation AS situation, COUNT(*) AS count").
		Joins("JOIN personnels ON personnels.id = militaires.personnel_id").
		Where("personnels.unite_id = ?", uniteID).
		Group("militaires.situation").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count situations: %w", err)
	}

	militaires := counts[models.TypeMilitaire]
	s := &models.DailySituation{
		UniteID:       uniteID,
		EffectifTotal: int(total),
		Militaires:    int(militaires),
		Civils:        int(total - militaires),
	}
	for _, r := range rows {
		switch r.Situation {
		case models.SituationPresent:
			s.Presents += int(r.Count)
		case models.SituationMission:
			s.EnMission += int(r.Count)
		case models.SituationConge, models.SituationPermission:
			s.EnConge += int(r.Count)
		default:
			s.Autres += int(r.Count)
		}
	}
	// Civil staff have no situation tracking and count as present
	s.Presents += s.Civils
	return s, nil
}

// SnapshotDailySituation computes the headcount of a unit and upserts the
// (unite, date) row. Observations of an existing row are kept unless new ones are given.
func SnapshotDailySituation(db *gorm.DB, uniteID string, date time.Time, observations string) (*models.DailySituation, error) {
	day := models.SnapshotDate(date)

	var snapshot *models.DailySituation
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := ensureUniteExists(tx, uniteID); err != nil {
			return err
		}

		s, err := computeSituation(tx, uniteID)
		if err != nil {
			return err
		}
		s.Date = day
		s.Observations = sanitizeText(observations)

		columns := []string{"effectif_total", "militaires", "civils", "presents", "en_mission", "en_conge", "autres", "updated_at"}
		if s.Observations != "" {
			columns = append(columns, "observations")
		}
		err = tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "unite_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns(columns),
		}).Create(s).Error
		if err != nil {
			return fmt.Errorf("failed to upsert daily situation: %w", err)
		}

		snapshot = &models.DailySituation{}
		return tx.Where("unite_id = ? AND date = ?", uniteID, day).First(snapshot).Error
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

// RecordAllDailySituations snapshots every unit for the given day. A failing
// unit is logged and skipped, and all failures are joined into the returned error.
func RecordAllDailySituations(db *gorm.DB, date time.Time) (int, error) {
	var uniteIDs []string
	if err := db.Model(&models.Unite{}).Order("code ASC").Pluck("id", &uniteIDs).Error; err != nil {
		return 0, fmt.Errorf("failed to list unites: %w", err)
	}

	recorded := 0
	var errs []error
	for _, id := range uniteIDs {
		if _, err := SnapshotDailySituation(db, id, date, ""); err != nil {
			zap.L().Error("Failed to snapshot daily situation", zap.String("unite_id", id), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		recorded++
	}

	zap.L().Info("Daily situations recorded",
		zap.Int("recorded", recorded),
		zap.Int("failed", len(errs)),
		zap.Time("date", models.SnapshotDate(date)),
	)
	return recorded, errors.Join(errs...)
}

// GetDailySituations pages through the snapshots of a unit, newest first
func GetDailySituations(db *gorm.DB, uniteID string, q PageQuery) (*Page[models.DailySituation], error) {
	if err := ensureUniteExists(db, uniteID); err != nil {
		return nil, err
	}
	return paginate[models.DailySituation](db, q, "date DESC", func(tx *gorm.DB) *gorm.DB {
		return tx.Where("unite_id = ?", uniteID)
	})
}
