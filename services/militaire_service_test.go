package services

import (
	"testing"

	"personnel_app_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetMilitaires(t *testing.T) {
	db := setupTestDB(t)
	unite := createTestUnite(t, db, "EMIA", models.UniteTypeInstitut)
	other := createTestUnite(t, db, "DCL", models.UniteTypeDCT)

	createTestMilitaire(t, db, unite.ID, "7000000001", "B-002", models.GradeCapitaine)
	createTestMilitaire(t, db, unite.ID, "7000000002", "A-001", models.GradeSergent)
	createTestMilitaire(t, db, other.ID, "7000000003", "C-003", models.GradeCaporal)
	createTestEmploye(t, db, unite.ID, "7000000004")

	page, err := GetMilitaires(db, MilitaireQuery{})
	require.NoError(t, err)
	require.Len(t, page.Data, 3)
	assert.Equal(t, "A-001", page.Data[0].Matricule)
	require.NotNil(t, page.Data[0].Personnel)
	require.NotNil(t, page.Data[0].Personnel.Unite)

	tests := []struct {
		name  string
		query MilitaireQuery
		want  int64
	}{
		{"by categorie", MilitaireQuery{Categorie: "officier"}, 1},
		{"by grade", MilitaireQuery{Grade: "CAPORAL"}, 1},
		{"by unite", MilitaireQuery{UniteID: unite.ID}, 2},
		{"by situation", MilitaireQuery{Situation: "PRESENT"}, 3},
		{"by matricule search", MilitaireQuery{Search: "c-00"}, 1},
		{"by nni search", MilitaireQuery{Search: "7000000002"}, 1},
		{"unite and search", MilitaireQuery{UniteID: other.ID, Search: "a-001"}, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			page, err := GetMilitaires(db, tc.query)
			require.NoError(t, err)
			assert.Equal(t, tc.want, page.Pagination.Total)
		})
	}

	for _, q := range []MilitaireQuery{{Grade: "AMIRAL"}, {Categorie: "CIVIL"}, {Situation: "VACANCES"}} {
		_, err := GetMilitaires(db, q)
		assertKind(t, err, KindValidation)
	}

	_, err = GetMilitaireByID(db, "missing")
	assertKind(t, err, KindNotFound)
}

func TestMilitaireRecords(t *testing.T) {
	db := setupTestDB(t)
	unite := createTestUnite(t, db, "EMIA", models.UniteTypeInstitut)
	p := createTestMilitaire(t, db, unite.ID, "8000000001", "MAT-500", models.GradeAdjudant)
	militaireID := p.Militaire.ID

	t.Run("decorations", func(t *testing.T) {
		d, err := AddDecoration(db, militaireID, DecorationInput{Nom: "Médaille militaire", DateObtention: ptr("2024-11-28"), Autorite: "Ministre"})
		require.NoError(t, err)
		assert.Equal(t, militaireID, d.MilitaireID)

		_, err = AddDecoration(db, militaireID, DecorationInput{Nom: " "})
		assertKind(t, err, KindValidation)
		_, err = AddDecoration(db, "missing", DecorationInput{Nom: "X"})
		assertKind(t, err, KindNotFound)

		list, err := GetDecorations(db, militaireID)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("notations", func(t *testing.T) {
		_, err := AddNotation(db, militaireID, NotationInput{Annee: 2024, Note: 15.5, Notateur: "Chef de corps"})
		require.NoError(t, err)
		_, err = AddNotation(db, militaireID, NotationInput{Annee: 2025, Note: 17})
		require.NoError(t, err)

		_, err = AddNotation(db, militaireID, NotationInput{Annee: 2025, Note: 21})
		assertKind(t, err, KindValidation)
		_, err = AddNotation(db, militaireID, NotationInput{Annee: 25, Note: 10})
		assertKind(t, err, KindValidation)

		list, err := GetNotations(db, militaireID)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, 2025, list[0].Annee)
	})

	t.Run("stages", func(t *testing.T) {
		_, err := AddStageMilitaire(db, militaireID, StageInput{Intitule: "Cours de chef de section", DateDebut: ptr("2025-01-10"), DateFin: ptr("2025-03-10")})
		require.NoError(t, err)

		_, err = AddStageMilitaire(db, militaireID, StageInput{Intitule: "Inversé", DateDebut: ptr("2025-03-10"), DateFin: ptr("2025-01-10")})
		assertKind(t, err, KindValidation)

		list, err := GetStagesMilitaires(db, militaireID)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("situation changes", func(t *testing.T) {
		entry, err := ChangeSituation(db, militaireID, SituationChangeInput{Situation: "stage", Motif: "Cours"})
		require.NoError(t, err)
		assert.Equal(t, models.SituationPresent, entry.AncienneSituation)
		assert.Equal(t, models.SituationStage, entry.NouvelleSituation)
		assert.NotNil(t, entry.DateDebut)

		_, err = ChangeSituation(db, militaireID, SituationChangeInput{Situation: "STAGE"})
		assertKind(t, err, KindValidation)
		_, err = ChangeSituation(db, militaireID, SituationChangeInput{Situation: "INCONNUE"})
		assertKind(t, err, KindValidation)
		_, err = ChangeSituation(db, "missing", SituationChangeInput{Situation: "PRESENT"})
		assertKind(t, err, KindNotFound)

		_, err = ChangeSituation(db, militaireID, SituationChangeInput{Situation: "PRESENT", DateDebut: ptr("2025-04-01")})
		require.NoError(t, err)

		m, err := GetMilitaireByID(db, militaireID)
		require.NoError(t, err)
		assert.Equal(t, models.SituationPresent, m.Situation)
		assert.Len(t, m.SituationHistorique, 2)
		assert.Len(t, m.Decorations, 1)
		assert.Len(t, m.Notations, 2)
		assert.Len(t, m.StagesMilitaires, 1)
	})

	t.Run("diplomes and documents", func(t *testing.T) {
		_, err := AddDiplome(db, p.ID, DiplomeInput{Intitule: "Licence", Annee: 2010, Niveau: "BAC+3"})
		require.NoError(t, err)
		_, err = AddDiplome(db, p.ID, DiplomeInput{Intitule: "Master", Annee: 3000})
		assertKind(t, err, KindValidation)
		_, err = AddDiplome(db, "missing", DiplomeInput{Intitule: "X"})
		assertKind(t, err, KindNotFound)

		_, err = AddDocument(db, p.ID, DocumentInput{Titre: "Décision d'affectation", DateDocument: ptr("2025-02-01")})
		require.NoError(t, err)
		_, err = AddDocument(db, p.ID, DocumentInput{Titre: "Note", DateDocument: ptr("hier")})
		assertKind(t, err, KindValidation)

		diplomes, err := GetDiplomes(db, p.ID)
		require.NoError(t, err)
		assert.Len(t, diplomes, 1)
		documents, err := GetDocuments(db, p.ID)
		require.NoError(t, err)
		assert.Len(t, documents, 1)

		_, err = GetDocuments(db, "missing")
		assertKind(t, err, KindNotFound)
	})
}
