package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"personnel_app_go/models"
	"personnel_app_go/services"

	"github.com/labstack/echo/v4"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type snapshotRequest struct {
	Date         string `json:"date"`
	Observations string `json:"observations"`
}

// GetUnites handles GET /api/unites
func (h *Handler) GetUnites(c echo.Context) error {
	unites, err := services.GetAllUnites(h.DB, services.UniteFilters{
		Type:   c.QueryParam("type"),
		Search: c.QueryParam("search"),
	})
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, unites)
}

// GetUnite handles GET /api/unites/:id
func (h *Handler) GetUnite(c echo.Context) error {
	unite, err := services.GetUniteByID(h.DB, c.Param("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, unite)
}

// GetUniteByCode handles GET /api/unites/code/:code
func (h *Handler) GetUniteByCode(c echo.Context) error {
	unite, err := services.GetUniteByCode(h.DB, c.Param("code"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, unite)
}

// CreateUnite handles POST /api/unites
func (h *Handler) CreateUnite(c echo.Context) error {
	var req services.UniteInput
	if err := bind(c, &req); err != nil {
		return err
	}

	unite, err := services.CreateUnite(h.DB, req)
	if err != nil {
		return serviceError(c, err)
	}

	h.audit(c, models.AuditActionCreate, "unite", unite.ID, unite.Code,
		fmt.Sprintf("Création de l'unité %s (%s)", unite.Nom, unite.Type), nil, unite)
	return c.JSON(http.StatusCreated, unite)
}

// UpdateUnite handles PUT /api/unites/:id
func (h *Handler) UpdateUnite(c echo.Context) error {
	var req services.UniteInput
	if err := bind(c, &req); err != nil {
		return err
	}

	before, err := services.GetUniteByID(h.DB, c.Param("id"))
	if err != nil {
		return serviceError(c, err)
	}

	unite, err := services.UpdateUnite(h.DB, before.ID, req)
	if err != nil {
		return serviceError(c, err)
	}

	h.audit(c, models.AuditActionUpdate, "unite", unite.ID, unite.Code, "Modification de l'unité "+unite.Nom, before, unite)
	return c.JSON(http.StatusOK, unite)
}

// DeleteUnite handles DELETE /api/unites/:id
func (h *Handler) DeleteUnite(c echo.Context) error {
	unite, err := services.GetUniteByID(h.DB, c.Param("id"))
	if err != nil {
		return serviceError(c, err)
	}

	if err := services.DeleteUnite(h.DB, unite.ID); err != nil {
		return serviceError(c, err)
	}

	h.audit(c, models.AuditActionDelete, "unite", unite.ID, unite.Code, "Suppression de l'unité "+unite.Nom, unite, nil)
	return c.JSON(http.StatusOK, messageResponse{Message: "Unité supprimée avec succès"})
}

// GetUnitePersonnel handles GET /api/unites/:id/personnel
func (h *Handler) GetUnitePersonnel(c echo.Context) error {
	page, err := services.GetUnitePersonnel(h.DB, services.UnitePersonnelQuery{
		PageQuery:     pageQuery(c),
		UniteID:       c.Param("id"),
		Search:        c.QueryParam("search"),
		TypePersonnel: c.QueryParam("typePersonnel"),
	})
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

// GetUniteStats handles GET /api/unites/:id/stats
func (h *Handler) GetUniteStats(c echo.Context) error {
	stats, err := services.GetUniteStats(h.DB, c.Param("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}

// GetUniteSousUnites handles GET /api/unites/:id/sous-unites
func (h *Handler) GetUniteSousUnites(c echo.Context) error {
	sousUnites, err := services.GetSousUnitesByUnite(h.DB, c.Param("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, sousUnites)
}

// GetUniteSituations handles GET /api/unites/:id/situations
func (h *Handler) GetUniteSituations(c echo.Context) error {
	page, err := services.GetDailySituations(h.DB, c.Param("id"), pageQuery(c))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

// SnapshotUniteSituation handles POST /api/unites/:id/situations/snapshot.
// The date defaults to today.
func (h *Handler) SnapshotUniteSituation(c echo.Context) error {
	var req snapshotRequest
	if c.Request().ContentLength != 0 {
		if err := bind(c, &req); err != nil {
			return err
		}
	}

	date := time.Now()
	if strings.TrimSpace(req.Date) != "" {
		d, err := services.ParseDate(strings.TrimSpace(req.Date))
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Date invalide: attendu AAAA-MM-JJ")
		}
		date = d
	}

	snapshot, err := services.SnapshotDailySituation(h.DB, c.Param("id"), date, req.Observations)
	if err != nil {
		return serviceError(c, err)
	}

	h.audit(c, models.AuditActionCreate, "daily_situation", snapshot.ID, snapshot.Date.Format("2006-01-02"),
		"Situation journalière enregistrée", nil, snapshot)
	return c.JSON(http.StatusOK, snapshot)
}

// ExportUnitePersonnel handles GET /api/unites/:id/personnel/export
func (h *Handler) ExportUnitePersonnel(c echo.Context) error {
	buf, filename, err := services.ExportUnitePersonnel(h.DB, c.Param("id"))
	if err != nil {
		return serviceError(c, err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}
