package services

import (
	"testing"

	"personnel_app_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListUsers(t *testing.T) {
	db := setupTestDB(t)
	createTestUser(t, db, "admin@armee.mr", models.RoleAdmin)
	createTestUser(t, db, "agent1@armee.mr", models.RoleUser)
	inactive := createTestUser(t, db, "agent2@armee.mr", models.RoleUser)
	require.NoError(t, db.Model(inactive).Update("is_active", false).Error)

	active := true
	tests := []struct {
		name  string
		query UserQuery
		want  int64
	}{
		{"all", UserQuery{}, 3},
		{"by role", UserQuery{Role: "user"}, 2},
		{"by status", UserQuery{IsActive: &active}, 2},
		{"by search", UserQuery{Search: "AGENT"}, 2},
		{"role and status", UserQuery{Role: "USER", IsActive: &active}, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			page, err := ListUsers(db, tc.query)
			require.NoError(t, err)
			assert.Equal(t, tc.want, page.Pagination.Total)
		})
	}
}

func TestSetUserStatus(t *testing.T) {
	db := setupTestDB(t)
	admin := createTestUser(t, db, "admin@armee.mr", models.RoleAdmin)
	agent := createTestUser(t, db, "agent@armee.mr", models.RoleUser)

	updated, err := SetUserStatus(db, admin.ID, agent.ID, false)
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	stored, err := GetUserByID(db, agent.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)

	_, err = SetUserStatus(db, admin.ID, admin.ID, false)
	assertKind(t, err, KindValidation)

	_, err = SetUserStatus(db, admin.ID, "missing", true)
	assertKind(t, err, KindNotFound)
}

func TestSetUserRole(t *testing.T) {
	db := setupTestDB(t)
	admin := createTestUser(t, db, "admin@armee.mr", models.RoleAdmin)
	agent := createTestUser(t, db, "agent@armee.mr", models.RoleUser)

	_, err := SetUserRole(db, admin.ID, agent.ID, "SUPERUSER")
	assertKind(t, err, KindValidation)

	_, err = SetUserRole(db, admin.ID, admin.ID, "user")
	assertKind(t, err, KindValidation)
	assert.Equal(t, "Vous ne pouvez pas retirer votre propre rôle ADMIN", err.(*Error).Message)

	promoted, err := SetUserRole(db, admin.ID, agent.ID, "admin")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, promoted.Role)

	demoted, err := SetUserRole(db, agent.ID, admin.ID, models.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, demoted.Role)

	t.Run("last active admin keeps the role", func(t *testing.T) {
		other := createTestUser(t, db, "other@armee.mr", models.RoleUser)
		_, err := SetUserRole(db, other.ID, agent.ID, models.RoleUser)
		assertKind(t, err, KindValidation)
	})
}
