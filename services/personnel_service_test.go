package services

import (
	"testing"

	"personnel_app_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePersonnel(t *testing.T) {
	db := setupTestDB(t)
	unite := createTestUnite(t, db, "EMIA", models.UniteTypeInstitut)
	other := createTestUnite(t, db, "DCL", models.UniteTypeDCT)

	arme, err := CreateArme(db, ArmeInput{Nom: ptr("Infanterie"), Code: ptr("INF")})
	require.NoError(t, err)
	specialite, err := CreateSpecialite(db, SpecialiteInput{Nom: ptr("Mortier"), ArmeID: ptr(arme.ID)})
	require.NoError(t, err)
	autreArme, err := CreateArme(db, ArmeInput{Nom: ptr("Génie")})
	require.NoError(t, err)
	sousUnite := createTestSousUnite(t, db, unite.ID, "EMIA-1")
	autreSousUnite := createTestSousUnite(t, db, other.ID, "DCL-1")

	t.Run("militaire with derived categorie", func(t *testing.T) {
		p, err := CreatePersonnel(db, PersonnelInput{
			Nom:           ptr("Ould Ahmed"),
			Prenom:        ptr("Sidi"),
			NNI:           ptr("3000000001"),
			TypePersonnel: ptr("MILITAIRE"),
			UniteID:       ptr(unite.ID),
			DateNaissance: ptr("1985-04-12"),
			Militaire: &MilitaireInput{
				Matricule:    ptr("MAT-100"),
				Grade:        ptr("commandant"),
				ArmeID:       ptr(arme.ID),
				SpecialiteID: ptr(specialite.ID),
				SousUniteID:  ptr(sousUnite.ID),
			},
		})
		require.NoError(t, err)
		require.NotNil(t, p.Militaire)
		assert.Equal(t, models.GradeCommandant, p.Militaire.Grade)
		assert.Equal(t, models.CategorieOfficier, p.Militaire.Categorie)
		assert.Equal(t, models.SousCategorieOfficierSuperieur, p.Militaire.SousCategorie)
		assert.Equal(t, models.SituationPresent, p.Militaire.Situation)
		require.NotNil(t, p.DateNaissance)
		assert.Equal(t, 1985, p.DateNaissance.Year())
		assert.Nil(t, p.Professeur)
		assert.Nil(t, p.Employe)
		assert.Nil(t, p.Etudiant)
		require.NotNil(t, p.Unite)
		assert.Equal(t, "EMIA", p.Unite.Code)
	})

	t.Run("categorie contradicting the grade", func(t *testing.T) {
		_, err := CreatePersonnel(db, PersonnelInput{
			Nom: ptr("A"), Prenom: ptr("B"), NNI: ptr("3000000002"),
			TypePersonnel: ptr("MILITAIRE"), UniteID: ptr(unite.ID),
			Militaire: &MilitaireInput{Matricule: ptr("MAT-101"), Grade: ptr("SERGENT"), Categorie: ptr("OFFICIER")},
		})
		assertKind(t, err, KindValidation)
		assert.Contains(t, err.Error(), "SOUS_OFFICIER")

		var count int64
		db.Model(&models.Personnel{}).Where("nni = ?", "3000000002").Count(&count)
		assert.Zero(t, count, "person row must be rolled back with its detail")
	})

	t.Run("professeur", func(t *testing.T) {
		p, err := CreatePersonnel(db, PersonnelInput{
			Nom: ptr("Ba"), Prenom: ptr("Oumar"), NNI: ptr("3000000003"),
			TypePersonnel: ptr("CIVIL_PROFESSEUR"), UniteID: ptr(unite.ID),
			Professeur: &ProfesseurInput{GradeAcademique: ptr("Maître de conférences"), Specialite: ptr("Physique")},
			Militaire:  &MilitaireInput{Matricule: ptr("IGNORED")},
		})
		require.NoError(t, err)
		require.NotNil(t, p.Professeur)
		assert.Equal(t, "Physique", p.Professeur.Specialite)
		assert.Nil(t, p.Militaire)
		assert.IsType(t, &models.Professeur{}, p.Detail())
	})

	t.Run("etudiant without detail object", func(t *testing.T) {
		p, err := CreatePersonnel(db, PersonnelInput{
			Nom: ptr("Sy"), Prenom: ptr("Awa"), NNI: ptr("3000000004"),
			TypePersonnel: ptr("CIVIL_ETUDIANT"), UniteID: ptr(unite.ID),
		})
		require.NoError(t, err)
		assert.NotNil(t, p.Etudiant)
	})

	cases := []struct {
		name string
		in   PersonnelInput
		kind ErrorKind
	}{
		{"invalid type", PersonnelInput{Nom: ptr("A"), Prenom: ptr("B"), NNI: ptr("3000000010"), TypePersonnel: ptr("CIVIL"), UniteID: ptr(unite.ID)}, KindValidation},
		{"missing nni", PersonnelInput{Nom: ptr("A"), Prenom: ptr("B"), TypePersonnel: ptr("CIVIL_EMPLOYE"), UniteID: ptr(unite.ID)}, KindValidation},
		{"unknown unite", PersonnelInput{Nom: ptr("A"), Prenom: ptr("B"), NNI: ptr("3000000011"), TypePersonnel: ptr("CIVIL_EMPLOYE"), UniteID: ptr("missing")}, KindNotFound},
		{"duplicate nni", PersonnelInput{Nom: ptr("A"), Prenom: ptr("B"), NNI: ptr("3000000001"), TypePersonnel: ptr("CIVIL_EMPLOYE"), UniteID: ptr(unite.ID)}, KindConflict},
		{"bad date", PersonnelInput{Nom: ptr("A"), Prenom: ptr("B"), NNI: ptr("3000000012"), TypePersonnel: ptr("CIVIL_EMPLOYE"), UniteID: ptr(unite.ID), DateNaissance: ptr("12/04/1985")}, KindValidation},
		{"militaire without detail", PersonnelInput{Nom: ptr("A"), Prenom: ptr("B"), NNI: ptr("3000000013"), TypePersonnel: ptr("MILITAIRE"), UniteID: ptr(unite.ID)}, KindValidation},
		{"duplicate matricule", PersonnelInput{Nom: ptr("A"), Prenom: ptr("B"), NNI: ptr("3000000014"), TypePersonnel: ptr("MILITAIRE"), UniteID: ptr(unite.ID),
			Militaire: &MilitaireInput{Matricule: ptr("MAT-100"), Grade: ptr("CAPORAL")}}, KindConflict},
		{"invalid grade", PersonnelInput{Nom: ptr("A"), Prenom: ptr("B"), NNI: ptr("3000000015"), TypePersonnel: ptr("MILITAIRE"), UniteID: ptr(unite.ID),
			Militaire: &MilitaireInput{Matricule: ptr("MAT-102"), Grade: ptr("MARECHAL")}}, KindValidation},
		{"specialite of another arme", PersonnelInput{Nom: ptr("A"), Prenom: ptr("B"), NNI: ptr("3000000016"), TypePersonnel: ptr("MILITAIRE"), UniteID: ptr(unite.ID),
			Militaire: &MilitaireInput{Matricule: ptr("MAT-103"), Grade: ptr("CAPORAL"), ArmeID: ptr(autreArme.ID), SpecialiteID: ptr(specialite.ID)}}, KindValidation},
		{"sous-unite of another unite", PersonnelInput{Nom: ptr("A"), Prenom: ptr("B"), NNI: ptr("3000000017"), TypePersonnel: ptr("MILITAIRE"), UniteID: ptr(unite.ID),
			Militaire: &MilitaireInput{Matricule: ptr("MAT-104"), Grade: ptr("CAPORAL"), SousUniteID: ptr(autreSousUnite.ID)}}, KindValidation},
		{"unknown fonction", PersonnelInput{Nom: ptr("A"), Prenom: ptr("B"), NNI: ptr("3000000018"), TypePersonnel: ptr("MILITAIRE"), UniteID: ptr(unite.ID),
			Militaire: &MilitaireInput{Matricule: ptr("MAT-105"), Grade: ptr("CAPORAL"), FonctionID: ptr("missing")}}, KindValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := CreatePersonnel(db, tc.in)
			assertKind(t, err, tc.kind)
		})
	}
}

func TestUpdatePersonnel(t *testing.T) {
	db := setupTestDB(t)
	unite := createTestUnite(t, db, "EMIA", models.UniteTypeInstitut)
	other := createTestUnite(t, db, "DCL", models.UniteTypeDCT)
	sousUnite := createTestSousUnite(t, db, unite.ID, "EMIA-1")

	militaire := createTestMilitaire(t, db, unite.ID, "4000000001", "MAT-200", models.GradeLieutenant)
	employe := createTestEmploye(t, db, unite.ID, "4000000002")

	t.Run("promotion re-derives the categorie", func(t *testing.T) {
		p, err := UpdatePersonnel(db, militaire.ID, PersonnelInput{
			Militaire: &MilitaireInput{Grade: ptr("COLONEL"), DateDernierePromotion: ptr("2026-01-01")},
		})
		require.NoError(t, err)
		assert.Equal(t, models.GradeColonel, p.Militaire.Grade)
		assert.Equal(t, models.SousCategorieOfficierSuperieur, p.Militaire.SousCategorie)
		require.NotNil(t, p.Militaire.DateDernierePromotion)
	})

	t.Run("situation change is recorded", func(t *testing.T) {
		p, err := UpdatePersonnel(db, militaire.ID, PersonnelInput{
			Militaire: &MilitaireInput{Situation: ptr("MISSION"), MotifSituation: ptr("Opération Nord")},
		})
		require.NoError(t, err)
		assert.Equal(t, models.SituationMission, p.Militaire.Situation)

		history, err := GetSituationHistorique(db, p.Militaire.ID)
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, models.SituationPresent, history[0].AncienneSituation)
		assert.Equal(t, models.SituationMission, history[0].NouvelleSituation)
		assert.Equal(t, "Opération Nord", history[0].Motif)
	})

	t.Run("base fields and other-type detail ignored", func(t *testing.T) {
		p, err := UpdatePersonnel(db, employe.ID, PersonnelInput{
			Telephone: ptr("+222 45 00 00 00"),
			Employe:   &EmployeInput{Poste: ptr("Chef de service")},
			Etudiant:  &EtudiantInput{Niveau: ptr("L3")},
		})
		require.NoError(t, err)
		assert.Equal(t, "+222 45 00 00 00", p.Telephone)
		assert.Equal(t, "Chef de service", p.Employe.Poste)
		assert.Equal(t, "Courrier", p.Employe.Service)

		var etudiants int64
		db.Model(&models.Etudiant{}).Count(&etudiants)
		assert.Zero(t, etudiants)
	})

	t.Run("type is immutable", func(t *testing.T) {
		_, err := UpdatePersonnel(db, employe.ID, PersonnelInput{TypePersonnel: ptr("MILITAIRE")})
		assertKind(t, err, KindValidation)
	})

	t.Run("moving a militaire away from its sous-unite", func(t *testing.T) {
		_, err := UpdatePersonnel(db, militaire.ID, PersonnelInput{Militaire: &MilitaireInput{SousUniteID: ptr(sousUnite.ID)}})
		require.NoError(t, err)

		_, err = UpdatePersonnel(db, militaire.ID, PersonnelInput{UniteID: ptr(other.ID)})
		assertKind(t, err, KindValidation)

		p, err := UpdatePersonnel(db, militaire.ID, PersonnelInput{
			UniteID:   ptr(other.ID),
			Militaire: &MilitaireInput{SousUniteID: ptr("")},
		})
		require.NoError(t, err)
		assert.Equal(t, other.ID, p.UniteID)
		assert.Nil(t, p.Militaire.SousUniteID)
	})

	t.Run("nni conflict", func(t *testing.T) {
		_, err := UpdatePersonnel(db, employe.ID, PersonnelInput{NNI: ptr("4000000001")})
		assertKind(t, err, KindConflict)
	})

	t.Run("empty nom", func(t *testing.T) {
		_, err := UpdatePersonnel(db, employe.ID, PersonnelInput{Nom: ptr("   ")})
		assertKind(t, err, KindValidation)
	})

	t.Run("unknown personnel", func(t *testing.T) {
		_, err := UpdatePersonnel(db, "missing", PersonnelInput{Nom: ptr("X")})
		assertKind(t, err, KindNotFound)
	})
}

func TestDeletePersonnel(t *testing.T) {
	db := setupTestDB(t)
	unite := createTestUnite(t, db, "EMIA", models.UniteTypeInstitut)
	p := createTestMilitaire(t, db, unite.ID, "5000000001", "MAT-300", models.GradeCaporal)
	militaireID := p.Militaire.ID

	_, err := AddDecoration(db, militaireID, DecorationInput{Nom: "Médaille d'honneur"})
	require.NoError(t, err)
	_, err = AddNotation(db, militaireID, NotationInput{Annee: 2025, Note: 16})
	require.NoError(t, err)
	_, err = ChangeSituation(db, militaireID, SituationChangeInput{Situation: "CONGE"})
	require.NoError(t, err)
	_, err = AddDocument(db, p.ID, DocumentInput{Titre: "Acte de naissance"})
	require.NoError(t, err)
	_, err = AddDiplome(db, p.ID, DiplomeInput{Intitule: "Baccalauréat", Annee: 2005})
	require.NoError(t, err)

	require.NoError(t, DeletePersonnel(db, p.ID))

	for _, model := range []interface{}{
		&models.Personnel{}, &models.Militaire{}, &models.Decoration{}, &models.Notation{},
		&models.SituationHistorique{}, &models.Document{}, &models.Diplome{},
	} {
		var count int64
		require.NoError(t, db.Model(model).Count(&count).Error)
		assert.Zero(t, count, "%T rows left behind", model)
	}

	assertKind(t, DeletePersonnel(db, p.ID), KindNotFound)
}

func TestGetPersonnels(t *testing.T) {
	db := setupTestDB(t)
	unite := createTestUnite(t, db, "EMIA", models.UniteTypeInstitut)
	other := createTestUnite(t, db, "DCL", models.UniteTypeDCT)

	createTestMilitaire(t, db, unite.ID, "6000000001", "MAT-400", models.GradeSergent)
	createTestEmploye(t, db, unite.ID, "6000000002")
	createTestEmploye(t, db, other.ID, "6000000003")

	page, err := GetPersonnels(db, PersonnelQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Pagination.Total)
	assert.Equal(t, 1, page.Pagination.Page)
	assert.Equal(t, 10, page.Pagination.Limit)
	for _, p := range page.Data {
		assert.NotNil(t, p.Unite)
		assert.NotNil(t, p.Detail())
	}

	byUnite, err := GetPersonnels(db, PersonnelQuery{UniteID: other.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), byUnite.Pagination.Total)

	byType, err := GetPersonnels(db, PersonnelQuery{TypePersonnel: "CIVIL_EMPLOYE"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), byType.Pagination.Total)

	byNNI, err := GetPersonnels(db, PersonnelQuery{Search: "6000000003"})
	require.NoError(t, err)
	require.Len(t, byNNI.Data, 1)
	assert.Equal(t, other.ID, byNNI.Data[0].UniteID)

	_, err = GetPersonnels(db, PersonnelQuery{TypePersonnel: "CIVIL"})
	assertKind(t, err, KindValidation)

	_, err = GetPersonnelByID(db, "missing")
	assertKind(t, err, KindNotFound)
}
