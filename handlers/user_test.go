package handlers

import (
	"net/http"
	"testing"

	"personnel_app_go/models"
	"personnel_app_go/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserAdministration(t *testing.T) {
	s := newTestServer(t)
	admin := s.createUser(t, "chef@armee.mr", models.RoleAdmin)
	adminToken := s.tokenFor(t, admin)
	member := s.createUser(t, "membre@armee.mr", models.RoleUser)
	memberToken := s.tokenFor(t, member)

	t.Run("List", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/users?role=USER", adminToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var page services.Page[models.User]
		decode(t, rec, &page)
		assert.EqualValues(t, 1, page.Pagination.Total)
		assert.Equal(t, member.ID, page.Data[0].ID)
	})

	t.Run("InvalidBoolFilter", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/users?isActive=peut-etre", adminToken, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("UserForbidden", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/users", memberToken, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("PromoteAndDemote", func(t *testing.T) {
		rec := s.do(t, http.MethodPut, "/api/users/"+member.ID+"/role", adminToken, map[string]string{"role": "admin"})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var updated models.User
		decode(t, rec, &updated)
		assert.Equal(t, models.RoleAdmin, updated.Role)

		rec = s.do(t, http.MethodPut, "/api/users/"+member.ID+"/role", adminToken, map[string]string{"role": "GENERAL"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = s.do(t, http.MethodPut, "/api/users/"+admin.ID+"/role", adminToken, map[string]string{"role": "USER"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = s.do(t, http.MethodPut, "/api/users/"+member.ID+"/role", adminToken, map[string]string{"role": "USER"})
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("DeactivateBlocksAccess", func(t *testing.T) {
		rec := s.do(t, http.MethodPut, "/api/users/"+member.ID+"/status", adminToken, map[string]bool{"isActive": false})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		rec = s.do(t, http.MethodGet, "/api/unites", memberToken, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, services.MsgAccountDisabled, errorMessage(t, rec))

		var logs []models.AuditLog
		require.NoError(t, s.db.Where("resource_id = ? AND action = ?", member.ID, models.AuditActionSecurity).Find(&logs).Error)
		assert.NotEmpty(t, logs)
	})

	t.Run("StatusRequired", func(t *testing.T) {
		rec := s.do(t, http.MethodPut, "/api/users/"+member.ID+"/status", adminToken, map[string]string{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("CannotDeactivateSelf", func(t *testing.T) {
		rec := s.do(t, http.MethodPut, "/api/users/"+admin.ID+"/status", adminToken, map[string]bool{"isActive": false})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetAuditLogs(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken(t)
	s.createUnite(t, admin, map[string]interface{}{"nom": "Institut", "code": "INS-A", "type": "INSTITUT"})

	rec := s.do(t, http.MethodGet, "/api/audit-logs?resourceType=unite", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var page services.Page[models.AuditLog]
	decode(t, rec, &page)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "INS-A", page.Data[0].ResourceName)
	assert.Equal(t, models.AuditActionCreate, page.Data[0].Action)

	t.Run("Detail", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/audit-logs/"+page.Data[0].ID, admin, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var detail services.AuditLogDetail
		decode(t, rec, &detail)
		assert.Equal(t, page.Data[0].ID, detail.ID)
		assert.NotEmpty(t, detail.Changes)

		rec = s.do(t, http.MethodGet, "/api/audit-logs/absent", admin, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("ResourceHistory", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/audit-logs/resource/unite/"+page.Data[0].ResourceID, admin, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var history []models.AuditLog
		decode(t, rec, &history)
		assert.Len(t, history, 1)
	})

	rec = s.do(t, http.MethodGet, "/api/audit-logs?dateFrom=hier", admin, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/audit-logs", s.userToken(t), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGetSecurityAlerts(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken(t)

	for i := 0; i < services.FailedLoginThreshold; i++ {
		s.monitor.TrackFailedLogin("192.0.2.10", "cible@armee.mr")
	}

	rec := s.do(t, http.MethodGet, "/api/security-alerts", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var alerts []services.SecurityAlert
	decode(t, rec, &alerts)
	require.Len(t, alerts, 1)
	assert.Equal(t, "192.0.2.10", alerts[0].IP)

	rec = s.do(t, http.MethodGet, "/api/security-alerts", s.userToken(t), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
