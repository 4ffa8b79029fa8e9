package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniteDetail(t *testing.T) {
	u := &Unite{Type: UniteTypeDCT, DCT: &DCT{Domaine: "IT"}}
	d := u.Detail()
	if assert.NotNil(t, d) {
		assert.Equal(t, UniteTypeDCT, d.UniteType())
	}

	// Detail follows Type, not whichever relation happens to be set
	u = &Unite{Type: UniteTypeInstitut, DCT: &DCT{}}
	assert.Nil(t, u.Detail())
}

func TestPersonnelDetail(t *testing.T) {
	p := &Personnel{TypePersonnel: TypeCivilEtudiant, Etudiant: &Etudiant{}}
	d := p.Detail()
	if assert.NotNil(t, d) {
		assert.Equal(t, TypeCivilEtudiant, d.TypePersonnel())
		d.SetPersonnelID("p1")
		assert.Equal(t, "p1", p.Etudiant.PersonnelID)
	}

	p = &Personnel{TypePersonnel: TypeMilitaire}
	assert.Nil(t, p.Detail())
}

func TestTypeValidity(t *testing.T) {
	for _, ut := range UniteTypes {
		assert.True(t, ut.IsValid())
	}
	assert.False(t, UniteType("BATAILLON").IsValid())

	for _, tp := range TypesPersonnel {
		assert.True(t, tp.IsValid())
	}
	assert.False(t, TypePersonnel("CIVIL").IsValid())

	assert.True(t, IsValidRole(RoleAdmin))
	assert.False(t, IsValidRole("ROOT"))
	assert.True(t, IsValidLanguage(LanguageArabic))
	assert.False(t, IsValidLanguage("SPANISH"))
}

func TestAuditLogChanges(t *testing.T) {
	a := &AuditLog{
		OldValues: `{"nom":"A","code":"X"}`,
		NewValues: `{"nom":"B","code":"X","description":"d"}`,
	}
	changes, err := a.Changes()
	require.NoError(t, err)
	assert.Len(t, changes, 2)
	assert.Equal(t, "description", changes[0].Field)
	assert.Equal(t, "nom", changes[1].Field)
	assert.Equal(t, "A", changes[1].Old)
	assert.Equal(t, "B", changes[1].New)

	t.Run("CorruptValues", func(t *testing.T) {
		corrupt := &AuditLog{ID: "a-1", OldValues: `{"nom":`, NewValues: `{"nom":"B"}`}
		changes, err := corrupt.Changes()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "a-1")
		assert.Nil(t, changes)

		corrupt = &AuditLog{ID: "a-2", NewValues: `["pas","un","objet"]`}
		_, err = corrupt.Changes()
		assert.Error(t, err)
	})
}

func TestSnapshotDate(t *testing.T) {
	loc := time.FixedZone("test", 3600)
	in := time.Date(2024, 3, 5, 17, 45, 12, 99, loc)
	out := SnapshotDate(in)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), out)

	// 23:30 in UTC-5 is already the next day in UTC, the local calendar day wins
	late := time.Date(2024, 3, 5, 23, 30, 0, 0, time.FixedZone("west", -5*3600))
	assert.Equal(t, out, SnapshotDate(late))
}

func TestUserFullName(t *testing.T) {
	assert.Equal(t, "Ali Ould", (&User{FirstName: "Ali", LastName: "Ould"}).FullName())
	assert.Equal(t, "Ali", (&User{FirstName: "Ali"}).FullName())
}
