package services

import (
	"testing"
	"time"

	"personnel_app_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotDailySituation(t *testing.T) {
	db := setupTestDB(t)
	unite := createTestUnite(t, db, "EMIA", models.UniteTypeInstitut)

	createTestMilitaire(t, db, unite.ID, "3000000001", "S-1", models.GradeSergent)
	mission := createTestMilitaire(t, db, unite.ID, "3000000002", "S-2", models.GradeCaporal)
	conge := createTestMilitaire(t, db, unite.ID, "3000000003", "S-3", models.GradeLieutenant)
	malade := createTestMilitaire(t, db, unite.ID, "3000000004", "S-4", models.GradeAdjudant)
	createTestEmploye(t, db, unite.ID, "3000000005")

	for id, situation := range map[string]string{
		mission.Militaire.ID: "MISSION",
		conge.Militaire.ID:   "PERMISSION",
		malade.Militaire.ID:  "MALADIE",
	} {
		_, err := ChangeSituation(db, id, SituationChangeInput{Situation: situation})
		require.NoError(t, err)
	}

	day := time.Date(2025, 6, 1, 14, 30, 0, 0, time.UTC)
	s, err := SnapshotDailySituation(db, unite.ID, day, "Inspection <b>générale</b>")
	require.NoError(t, err)
	assert.Equal(t, models.SnapshotDate(day), s.Date.UTC())
	assert.Equal(t, 5, s.EffectifTotal)
	assert.Equal(t, 4, s.Militaires)
	assert.Equal(t, 1, s.Civils)
	assert.Equal(t, 2, s.Presents)
	assert.Equal(t, 1, s.EnMission)
	assert.Equal(t, 1, s.EnConge)
	assert.Equal(t, 1, s.Autres)
	assert.Equal(t, "Inspection générale", s.Observations)

	t.Run("same day is upserted", func(t *testing.T) {
		_, err := ChangeSituation(db, mission.Militaire.ID, SituationChangeInput{Situation: "PRESENT"})
		require.NoError(t, err)

		again, err := SnapshotDailySituation(db, unite.ID, day.Add(3*time.Hour), "")
		require.NoError(t, err)
		assert.Equal(t, s.ID, again.ID)
		assert.Equal(t, 3, again.Presents)
		assert.Equal(t, 0, again.EnMission)
		assert.Equal(t, "Inspection générale", again.Observations)

		var count int64
		db.Model(&models.DailySituation{}).Where("unite_id = ?", unite.ID).Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("same calendar day from another zone is upserted", func(t *testing.T) {
		other := createTestUnite(t, db, "DCT-Z", models.UniteTypeDCT)
		paris := time.FixedZone("Europe/Paris", 2*3600)

		first, err := SnapshotDailySituation(db, other.ID, time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC), "")
		require.NoError(t, err)
		second, err := SnapshotDailySituation(db, other.ID, time.Date(2026, 10, 19, 10, 0, 0, 0, paris), "")
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)

		var count int64
		db.Model(&models.DailySituation{}).Where("unite_id = ?", other.ID).Count(&count)
		assert.Equal(t, int64(1), count)

		// 00:30 in Paris is still the 18th in UTC, the local day is kept
		early, err := SnapshotDailySituation(db, other.ID, time.Date(2026, 10, 18, 0, 30, 0, 0, paris), "")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC), early.Date.UTC())
	})

	t.Run("unknown unit", func(t *testing.T) {
		_, err := SnapshotDailySituation(db, "missing", day, "")
		assertKind(t, err, KindNotFound)
	})
}

func TestRecordAllDailySituations(t *testing.T) {
	db := setupTestDB(t)
	a := createTestUnite(t, db, "EMIA", models.UniteTypeInstitut)
	createTestUnite(t, db, "DCL", models.UniteTypeDCT)
	createTestEmploye(t, db, a.ID, "4000000001")

	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	recorded, err := RecordAllDailySituations(db, day)
	require.NoError(t, err)
	assert.Equal(t, 2, recorded)

	_, err = RecordAllDailySituations(db, day.AddDate(0, 0, 1))
	require.NoError(t, err)

	page, err := GetDailySituations(db, a.ID, PageQuery{})
	require.NoError(t, err)
	require.Len(t, page.Data, 2)
	assert.True(t, page.Data[0].Date.After(page.Data[1].Date))
	assert.Equal(t, 1, page.Data[0].EffectifTotal)

	_, err = GetDailySituations(db, "missing", PageQuery{})
	assertKind(t, err, KindNotFound)
}
