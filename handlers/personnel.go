package handlers

import (
	"net/http"

	"personnel_app_go/models"
	"personnel_app_go/services"

	"github.com/labstack/echo/v4"
)

// GetPersonnels handles GET /api/personnels
func (h *Handler) GetPersonnels(c echo.Context) error {
	page, err := services.GetPersonnels(h.DB, services.PersonnelQuery{
		PageQuery:     pageQuery(c),
		Search:        c.QueryParam("search"),
		TypePersonnel: c.QueryParam("typePersonnel"),
		UniteID:       c.QueryParam("uniteId"),
	})
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

// GetPersonnel handles GET /api/personnels/:id
func (h *Handler) GetPersonnel(c echo.Context) error {
	personnel, err := services.GetPersonnelByID(h.DB, c.Param("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, personnel)
}

// CreatePersonnel handles POST /api/personnels
func (h *Handler) CreatePersonnel(c echo.Context) error {
	var req services.PersonnelInput
	if err := bind(c, &req); err != nil {
		return err
	}

	personnel, err := services.CreatePersonnel(h.DB, req)
	if err != nil {
		return serviceError(c, err)
	}

	h.audit(c, models.AuditActionCreate, "personnel", personnel.ID, personnel.NomComplet(),
		"Création du personnel "+string(personnel.TypePersonnel), nil, personnel)
	return c.JSON(http.StatusCreated, personnel)
}

// UpdatePersonnel handles PUT /api/personnels/:id
func (h *Handler) UpdatePersonnel(c echo.Context) error {
	var req services.PersonnelInput
	if err := bind(c, &req); err != nil {
		return err
	}

	before, err := services.GetPersonnelByID(h.DB, c.Param("id"))
	if err != nil {
		return serviceError(c, err)
	}

	personnel, err := services.UpdatePersonnel(h.DB, before.ID, req)
	if err != nil {
		return serviceError(c, err)
	}

	h.audit(c, models.AuditActionUpdate, "personnel", personnel.ID, personnel.NomComplet(), "Modification du personnel", before, personnel)
	return c.JSON(http.StatusOK, personnel)
}

// DeletePersonnel handles DELETE /api/personnels/:id
func (h *Handler) DeletePersonnel(c echo.Context) error {
	personnel, err := services.GetPersonnelByID(h.DB, c.Param("id"))
	if err != nil {
		return serviceError(c, err)
	}

	if err := services.DeletePersonnel(h.DB, personnel.ID); err != nil {
		return serviceError(c, err)
	}

	h.audit(c, models.AuditActionDelete, "personnel", personnel.ID, personnel.NomComplet(), "Suppression du personnel", personnel, nil)
	return c.JSON(http.StatusOK, messageResponse{Message: "Personnel supprimé avec succès"})
}

// GetDocuments handles GET /api/personnels/:id/documents
func (h *Handler) GetDocuments(c echo.Context) error {
	documents, err := services.GetDocuments(h.DB, c.Param("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, documents)
}

// AddDocument handles POST /api/personnels/:id/documents
func (h *Handler) AddDocument(c echo.Context) error {
	var req services.DocumentInput
	if err := bind(c, &req); err != nil {
		return err
	}

	document, err := services.AddDocument(h.DB, c.Param("id"), req)
	if err != nil {
		return serviceError(c, err)
	}

	h.audit(c, models.AuditActionCreate, "document", document.ID, document.Titre, "Ajout d'un document", nil, document)
	return c.JSON(http.StatusCreated, document)
}

// GetDiplomes handles GET /api/personnels/:id/diplomes
func (h *Handler) GetDiplomes(c echo.Context) error {
	diplomes, err := services.GetDiplomes(h.DB, c.Param("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, diplomes)
}

// AddDiplome handles POST /api/personnels/:id/diplomes
func (h *Handler) AddDiplome(c echo.Context) error {
	var req services.DiplomeInput
	if err := bind(c, &req); err != nil {
		return err
	}

	diplome, err := services.AddDiplome(h.DB, c.Param("id"), req)
	if err != nil {
		return serviceError(c, err)
	}

	h.audit(c, models.AuditActionCreate, "diplome", diplome.ID, diplome.Intitule, "Ajout d'un diplôme", nil, diplome)
	return c.JSON(http.StatusCreated, diplome)
}
