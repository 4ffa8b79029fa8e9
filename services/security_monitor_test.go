package services

import (
	"testing"
	"time"

	"personnel_app_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecurityMonitor(t *testing.T) {
	db := setupTestDB(t)
	m := NewSecurityMonitor(db, nil)
	t.Cleanup(m.Stop)

	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	ip := "10.0.0.7"

	t.Run("BelowThreshold", func(t *testing.T) {
		for i := 0; i < FailedLoginThreshold-1; i++ {
			m.TrackFailedLogin(ip, "cible@armee.mr")
		}
		assert.Empty(t, m.RecentAlerts())
	})

	t.Run("ThresholdReached", func(t *testing.T) {
		m.TrackFailedLogin(ip, "cible@armee.mr")

		alerts := m.RecentAlerts()
		require.Len(t, alerts, 1)
		assert.Equal(t, ip, alerts[0].IP)
		assert.Equal(t, "cible@armee.mr", alerts[0].Email)
		assert.Contains(t, alerts[0].Reason, "5 échecs")

		var logs []models.AuditLog
		require.NoError(t, db.Where("resource_id = ?", "BRUTE_FORCE_SUSPECTED").Find(&logs).Error)
		require.Len(t, logs, 1)
		assert.Equal(t, models.AuditActionSecurity, logs[0].Action)
	})

	t.Run("CooldownSuppressesDuplicates", func(t *testing.T) {
		m.TrackFailedLogin(ip, "cible@armee.mr")
		assert.Len(t, m.RecentAlerts(), 1)
	})

	t.Run("OldFailuresLeaveWindow", func(t *testing.T) {
		other := "10.0.0.8"
		for i := 0; i < FailedLoginThreshold-1; i++ {
			m.TrackFailedLogin(other, "")
		}
		now = now.Add(FailedLoginWindow + time.Minute)
		m.TrackFailedLogin(other, "")
		for _, a := range m.RecentAlerts() {
			assert.NotEqual(t, other, a.IP)
		}
	})

	t.Run("AlertAgainAfterCooldown", func(t *testing.T) {
		now = now.Add(alertCooldown)
		for i := 0; i < FailedLoginThreshold; i++ {
			m.TrackFailedLogin(ip, "cible@armee.mr")
		}
		assert.Len(t, m.RecentAlerts(), 2)
	})

	t.Run("PruneForgetsStaleState", func(t *testing.T) {
		now = now.Add(2 * alertCooldown)
		m.prune()
		m.mu.Lock()
		defer m.mu.Unlock()
		assert.Empty(t, m.failedLogins)
		assert.Empty(t, m.alertedIPs)
	})
}

func TestSecurityMonitorStopIsIdempotent(t *testing.T) {
	m := NewSecurityMonitor(nil, nil)
	m.Stop()
	assert.NotPanics(t, m.Stop)
}
