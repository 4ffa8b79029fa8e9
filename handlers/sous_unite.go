package handlers

import (
	"net/http"

	"personnel_app_go/models"
	"personnel_app_go/services"

	"github.com/labstack/echo/v4"
)

// GetSousUnites handles GET /api/sous-unites?uniteId=
func (h *Handler) GetSousUnites(c echo.Context) error {
	sousUnites, err := services.GetAllSousUnites(h.DB, c.QueryParam("uniteId"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, sousUnites)
}

// GetSousUnite handles GET /api/sous-unites/:id
func (h *Handler) GetSousUnite(c echo.Context) error {
	sousUnite, err := services.GetSousUniteByID(h.DB, c.Param("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, sousUnite)
}

// CreateSousUnite handles POST /api/sous-unites
func (h *Handler) CreateSousUnite(c echo.Context) error {
	var req services.SousUniteInput
	if err := bind(c, &req); err != nil {
		return err
	}

	sousUnite, err := services.CreateSousUnite(h.DB, req)
	if err != nil {
		return serviceError(c, err)
	}

	h.audit(c, models.AuditActionCreate, "sous_unite", sousUnite.ID, sousUnite.Code, "Création de la sous-unité "+sousUnite.Nom, nil, sousUnite)
	return c.JSON(http.StatusCreated, sousUnite)
}

// UpdateSousUnite handles PUT /api/sous-unites/:id
func (h *Handler) UpdateSousUnite(c echo.Context) error {
	var req services.SousUniteInput
	if err := bind(c, &req); err != nil {
		return err
	}

	before, err := services.GetSousUniteByID(h.DB, c.Param("id"))
	if err != nil {
		return serviceError(c, err)
	}

	sousUnite, err := services.UpdateSousUnite(h.DB, before.ID, req)
	if err != nil {
		return serviceError(c, err)
	}

	h.audit(c, models.AuditActionUpdate, "sous_unite", sousUnite.ID, sousUnite.Code, "Modification de la sous-unité "+sousUnite.Nom, before, sousUnite)
	return c.JSON(http.StatusOK, sousUnite)
}

// DeleteSousUnite handles DELETE /api/sous-unites/:id
func (h *Handler) DeleteSousUnite(c echo.Context) error {
	sousUnite, err := services.GetSousUniteByID(h.DB, c.Param("id"))
	if err != nil {
		return serviceError(c, err)
	}

	if err := services.DeleteSousUnite(h.DB, sousUnite.ID); err != nil {
		return serviceError(c, err)
	}

	h.audit(c, models.AuditActionDelete, "sous_unite", sousUnite.ID, sousUnite.Code, "Suppression de la sous-unité "+sousUnite.Nom, sousUnite, nil)
	return c.JSON(http.StatusOK, messageResponse{Message: "Sous-unité supprimée avec succès"})
}
