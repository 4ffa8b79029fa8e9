package handlers

import (
	"net/http"
	"time"

	"personnel_app_go/services"

	"github.com/labstack/echo/v4"
)

// GetAuditLogs handles GET /api/audit-logs. Dates are YYYY-MM-DD, dateTo is inclusive.
func (h *Handler) GetAuditLogs(c echo.Context) error {
	filters := services.AuditLogFilters{
		PageQuery:    pageQuery(c),
		UserID:       c.QueryParam("userId"),
		ResourceType: c.QueryParam("resourceType"),
		Action:       c.QueryParam("action"),
		SearchQuery:  c.QueryParam("search"),
	}

	if dateFrom := c.QueryParam("dateFrom"); dateFrom != "" {
		t, err := time.Parse("2006-01-02", dateFrom)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Paramètre dateFrom invalide")
		}
		filters.DateFrom = t
	}
	if dateTo := c.QueryParam("dateTo"); dateTo != "" {
		t, err := time.Parse("2006-01-02", dateTo)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Paramètre dateTo invalide")
		}
		filters.DateTo = t.Add(24*time.Hour - time.Second) // End of day
	}

	page, err := services.GetAuditLogs(h.DB, filters)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

// GetAuditLog handles GET /api/audit-logs/:id
func (h *Handler) GetAuditLog(c echo.Context) error {
	detail, err := services.GetAuditLogByID(h.DB, c.Param("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, detail)
}

// GetResourceAuditHistory handles GET /api/audit-logs/resource/:type/:id
func (h *Handler) GetResourceAuditHistory(c echo.Context) error {
	logs, err := services.GetResourceAuditHistory(h.DB, c.Param("type"), c.Param("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, logs)
}

// GetSecurityAlerts handles GET /api/security-alerts
func (h *Handler) GetSecurityAlerts(c echo.Context) error {
	if h.Monitor == nil {
		return c.JSON(http.StatusOK, []services.SecurityAlert{})
	}
	return c.JSON(http.StatusOK, h.Monitor.RecentAlerts())
}
