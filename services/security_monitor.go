package services

import (
	"fmt"
	"sync"
	"time"

	"personnel_app_go/config"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Failed login thresholds of the security monitor
const (
	FailedLoginWindow    = 10 * time.Minute
	FailedLoginThreshold = 5
	alertCooldown        = time.Hour
	maxAlerts            = 100
)

// SecurityAlert is a triggered alert, kept in memory for the admin API
type SecurityAlert struct {
	Timestamp time.Time `json:"timestamp"`
	IP        string    `json:"ip"`
	Email     string    `json:"email,omitempty"`
	Reason    string    `json:"reason"`
}

// SecurityMonitor counts failed logins per client IP and raises an alert
// once FailedLoginThreshold failures fall inside FailedLoginWindow.
// An IP is alerted at most once per hour.
type SecurityMonitor struct {
	db  *gorm.DB
	cfg *config.Config

	mu           sync.Mutex
	failedLogins map[string][]time.Time
	alertedIPs   map[string]time.Time
	alerts       []SecurityAlert

	now      func() time.Time
	done     chan struct{}
	stopOnce sync.Once
}

// NewSecurityMonitor starts a monitor and its cleanup goroutine. Alerts are
// written to the audit log and mailed to cfg.AdminEmail when set.
func NewSecurityMonitor(db *gorm.DB, cfg *config.Config) *SecurityMonitor {
	m := &SecurityMonitor{
		db:           db,
		cfg:          cfg,
		failedLogins: make(map[string][]time.Time),
		alertedIPs:   make(map[string]time.Time),
		alerts:       make([]SecurityAlert, 0),
		now:          time.Now,
		done:         make(chan struct{}),
	}
	go m.cleanup()
	return m
}

// TrackFailedLogin records a failed login from ip for email
func (m *SecurityMonitor) TrackFailedLogin(ip, email string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	windowStart := now.Add(-FailedLoginWindow)

	recent := m.failedLogins[ip][:0]
	for _, t := range m.failedLogins[ip] {
		if t.After(windowStart) {
			recent = append(recent, t)
		}
	}
	recent = append(recent, now)
	m.failedLogins[ip] = recent

	if len(recent) >= FailedLoginThreshold {
		m.alertLocked(ip, email, fmt.Sprintf("%d échecs de connexion en %s", len(recent), FailedLoginWindow))
	}
}

func (m *SecurityMonitor) alertLocked(ip, email, reason string) {
	now := m.now()
	if last, ok := m.alertedIPs[ip]; ok && now.Sub(last) < alertCooldown {
		return
	}
	m.alertedIPs[ip] = now

	alert := SecurityAlert{Timestamp: now, IP: ip, Email: email, Reason: reason}
	m.alerts = append([]SecurityAlert{alert}, m.alerts...)
	if len(m.alerts) > maxAlerts {
		m.alerts = m.alerts[:maxAlerts]
	}

	zap.L().Error("[SECURITY ALERT] Possible brute force",
		zap.String("event", "BRUTE_FORCE_SUSPECTED"),
		zap.String("ip", ip),
		zap.String("email", email),
		zap.String("reason", reason),
	)
	if m.db != nil {
		LogSecurityEvent(m.db, "BRUTE_FORCE_SUSPECTED", "", fmt.Sprintf("ip=%s email=%s: %s", ip, email, reason))
	}

	if m.cfg != nil && m.cfg.AdminEmail != "" {
		SendEmailAsync(m.cfg, &Email{
			To:      []string{m.cfg.AdminEmail},
			Subject: "Alerte de sécurité: tentatives de connexion suspectes",
			TextBody: fmt.Sprintf("Événement de sécurité détecté.\n\nMotif: %s\nAdresse IP: %s\nCompte visé: %s\nDate: %s\n",
				reason, ip, email, now.Format(time.RFC1123)),
		})
	}
}

// RecentAlerts returns a copy of the alerts, newest first
func (m *SecurityMonitor) RecentAlerts() []SecurityAlert {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SecurityAlert, len(m.alerts))
	copy(out, m.alerts)
	return out
}

// Stop ends the cleanup goroutine. Safe to call more than once.
func (m *SecurityMonitor) Stop() {
	m.stopOnce.Do(func() { close(m.done) })
}

func (m *SecurityMonitor) cleanup() {
	ticker := time.NewTicker(alertCooldown)
	defer ticker.Stop()
	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.prune()
		}
	}
}

// prune drops IPs without recent failures and expired alert cooldowns
func (m *SecurityMonitor) prune() {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for ip, attempts := range m.failedLogins {
		if len(attempts) == 0 || now.Sub(attempts[len(attempts)-1]) > FailedLoginWindow {
			delete(m.failedLogins, ip)
		}
	}
	for ip, last := range m.alertedIPs {
		if now.Sub(last) > alertCooldown {
			delete(m.alertedIPs, ip)
		}
	}
}
