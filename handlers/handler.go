package handlers

import (
	"personnel_app_go/config"
	"personnel_app_go/metrics"
	"personnel_app_go/middleware"
	"personnel_app_go/models"
	"personnel_app_go/services"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// Handler holds the dependencies shared by every HTTP handler
type Handler struct {
	DB      *gorm.DB
	Config  *config.Config
	Tokens  *services.TokenService
	Metrics *metrics.Metrics
	// Monitor is optional; nil disables brute-force tracking
	Monitor *services.SecurityMonitor
}

// New builds a Handler. m may be nil when metrics are not collected.
func New(database *gorm.DB, cfg *config.Config, tokens *services.TokenService, m *metrics.Metrics) *Handler {
	return &Handler{DB: database, Config: cfg, Tokens: tokens, Metrics: m}
}

// audit records a mutation made by the current user
func (h *Handler) audit(c echo.Context, action models.AuditAction, resourceType, resourceID, resourceName, description string, oldValues, newValues interface{}) {
	services.LogAuditEvent(h.DB, middleware.GetAuditContext(c), action, resourceType, resourceID, resourceName, description, oldValues, newValues)
}

func (h *Handler) trackFailedLogin(c echo.Context, email string) {
	if h.Monitor != nil {
		h.Monitor.TrackFailedLogin(c.RealIP(), email)
	}
}

func (h *Handler) loginAttempt(result string) {
	if h.Metrics != nil {
		h.Metrics.LoginAttempt(result)
	}
}
