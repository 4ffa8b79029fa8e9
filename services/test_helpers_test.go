package services

import (
	"testing"
	"time"

	"personnel_app_go/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a fresh in-memory SQLite database with every table migrated
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:mem_" + uuid.New().String() + "?mode=memory&cache=shared&_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func ptr(s string) *string { return &s }

// assertKind checks that err is a service error of the given kind
func assertKind(t *testing.T, err error, kind ErrorKind) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, kind, KindOf(err), "unexpected error: %v", err)
}

func createTestUnite(t *testing.T, db *gorm.DB, code string, uniteType models.UniteType) *models.Unite {
	t.Helper()
	unite, err := CreateUnite(db, UniteInput{
		Nom:  ptr("Unité " + code),
		Code: ptr(code),
		Type: ptr(string(uniteType)),
	})
	require.NoError(t, err)
	return unite
}

func createTestSousUnite(t *testing.T, db *gorm.DB, uniteID, code string) *models.SousUnite {
	t.Helper()
	sousUnite, err := CreateSousUnite(db, SousUniteInput{
		Nom:     ptr("Section " + code),
		Code:    ptr(code),
		UniteID: ptr(uniteID),
	})
	require.NoError(t, err)
	return sousUnite
}

func createTestMilitaire(t *testing.T, db *gorm.DB, uniteID, nni, matricule string, grade models.Grade) *models.Personnel {
	t.Helper()
	p, err := CreatePersonnel(db, PersonnelInput{
		Nom:           ptr("Ould " + nni),
		Prenom:        ptr("Mohamed"),
		NNI:           ptr(nni),
		TypePersonnel: ptr(string(models.TypeMilitaire)),
		UniteID:       ptr(uniteID),
		Militaire: &MilitaireInput{
			Matricule: ptr(matricule),
			Grade:     ptr(string(grade)),
		},
	})
	require.NoError(t, err)
	require.NotNil(t, p.Militaire)
	return p
}

func createTestEmploye(t *testing.T, db *gorm.DB, uniteID, nni string) *models.Personnel {
	t.Helper()
	p, err := CreatePersonnel(db, PersonnelInput{
		Nom:           ptr("Mint " + nni),
		Prenom:        ptr("Aicha"),
		NNI:           ptr(nni),
		TypePersonnel: ptr(string(models.TypeCivilEmploye)),
		UniteID:       ptr(uniteID),
		Employe:       &EmployeInput{Poste: ptr("Secrétaire"), Service: ptr("Courrier")},
	})
	require.NoError(t, err)
	return p
}

const testPassword = "Sup3r-Secret-Pass"

func createTestUser(t *testing.T, db *gorm.DB, email, role string) *models.User {
	t.Helper()
	hashed, err := HashPassword(testPassword)
	require.NoError(t, err)
	user := &models.User{
		Email:     email,
		Password:  hashed,
		FirstName: "Test",
		LastName:  "User",
		Role:      role,
		Language:  models.LanguageFrench,
		IsActive:  true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func newTestTokens(t *testing.T) *TokenService {
	t.Helper()
	tokens, err := NewTokenService("0123456789abcdef0123456789abcdef", time.Hour, 15*time.Minute)
	require.NoError(t, err)
	return tokens
}
