package services

import (
	"testing"

	"personnel_app_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSousUniteCRUD(t *testing.T) {
	db := setupTestDB(t)
	unite := createTestUnite(t, db, "EMIA", models.UniteTypeInstitut)
	other := createTestUnite(t, db, "DCL", models.UniteTypeDCT)

	s := createTestSousUnite(t, db, unite.ID, "EMIA-1")
	require.NotNil(t, s.Unite)
	assert.Equal(t, "EMIA", s.Unite.Code)

	_, err := CreateSousUnite(db, SousUniteInput{Nom: ptr("Doublon"), Code: ptr("EMIA-1"), UniteID: ptr(unite.ID)})
	assertKind(t, err, KindConflict)
	_, err = CreateSousUnite(db, SousUniteInput{Nom: ptr("Orpheline"), Code: ptr("X-1"), UniteID: ptr("missing")})
	assertKind(t, err, KindNotFound)
	_, err = CreateSousUnite(db, SousUniteInput{Code: ptr("X-2"), UniteID: ptr(unite.ID)})
	assertKind(t, err, KindValidation)

	createTestSousUnite(t, db, other.ID, "DCL-1")
	all, err := GetAllSousUnites(db, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
	ofUnite, err := GetAllSousUnites(db, unite.ID)
	require.NoError(t, err)
	assert.Len(t, ofUnite, 1)

	updated, err := UpdateSousUnite(db, s.ID, SousUniteInput{Nom: ptr("Compagnie d'instruction")})
	require.NoError(t, err)
	assert.Equal(t, "Compagnie d'instruction", updated.Nom)

	_, err = UpdateSousUnite(db, s.ID, SousUniteInput{Code: ptr("DCL-1")})
	assertKind(t, err, KindConflict)

	p := createTestMilitaire(t, db, unite.ID, "9100000001", "SU-1", models.GradeSergentChef)
	_, err = UpdatePersonnel(db, p.ID, PersonnelInput{Militaire: &MilitaireInput{SousUniteID: ptr(s.ID)}})
	require.NoError(t, err)

	t.Run("assigned militaires block a move and a delete", func(t *testing.T) {
		_, err := UpdateSousUnite(db, s.ID, SousUniteInput{UniteID: ptr(other.ID)})
		assertKind(t, err, KindDependencyBlocked)

		err = DeleteSousUnite(db, s.ID)
		assertKind(t, err, KindDependencyBlocked)
		assert.Contains(t, err.Error(), "1 militaire(s)")
	})

	t.Run("delete once free", func(t *testing.T) {
		_, err := UpdatePersonnel(db, p.ID, PersonnelInput{Militaire: &MilitaireInput{SousUniteID: ptr("")}})
		require.NoError(t, err)

		moved, err := UpdateSousUnite(db, s.ID, SousUniteInput{UniteID: ptr(other.ID)})
		require.NoError(t, err)
		assert.Equal(t, other.ID, moved.UniteID)

		require.NoError(t, DeleteSousUnite(db, s.ID))
		_, err = GetSousUniteByID(db, s.ID)
		assertKind(t, err, KindNotFound)
	})
}
