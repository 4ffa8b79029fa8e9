package handlers

import (
	"net/http"

	"personnel_app_go/models"
	"personnel_app_go/services"

	"github.com/labstack/echo/v4"
)

// GetMilitaires handles GET /api/militaires
func (h *Handler) GetMilitaires(c echo.Context) error {
	page, err := services.GetMilitaires(h.DB, services.MilitaireQuery{
		PageQuery:   pageQuery(c),
		Search:      c.QueryParam("search"),
		Grade:       c.QueryParam("grade"),
		Categorie:   c.QueryParam("categorie"),
		Situation:   c.QueryParam("situation"),
		UniteID:     c.QueryParam("uniteId"),
		SousUniteID: c.QueryParam("sousUniteId"),
	})
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

// GetMilitaire handles GET /api/militaires/:id
func (h *Handler) GetMilitaire(c echo.Context) error {
	militaire, err := services.GetMilitaireByID(h.DB, c.Param("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, militaire)
}

// CreateMilitaire handles POST /api/militaires. The payload is a personnel
// payload whose type is forced to MILITAIRE.
func (h *Handler) CreateMilitaire(c echo.Context) error {
	var req services.PersonnelInput
	if err := bind(c, &req); err != nil {
		return err
	}
	typePersonnel := string(models.TypeMilitaire)
	req.TypePersonnel = &typePersonnel

	personnel, err := services.CreatePersonnel(h.DB, req)
	if err != nil {
		return serviceError(c, err)
	}

	h.audit(c, models.AuditActionCreate, "personnel", personnel.ID, personnel.NomComplet(), "Création d'un militaire", nil, personnel)
	return c.JSON(http.StatusCreated, personnel)
}

// GetGrades handles GET /api/militaires/grades
func (h *Handler) GetGrades(c echo.Context) error {
	return c.JSON(http.StatusOK, models.GradeTable())
}

// GetDecorations handles GET /api/militaires/:id/decorations
func (h *Handler) GetDecorations(c echo.Context) error {
	decorations, err := services.GetDecorations(h.DB, c.Param("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, decorations)
}

// AddDecoration handles POST /api/militaires/:id/decorations
func (h *Handler) AddDecoration(c echo.Context) error {
	var req services.DecorationInput
	if err := bind(c, &req); err != nil {
		return err
	}

	decoration, err := services.AddDecoration(h.DB, c.Param("id"), req)
	if err != nil {
		return serviceError(c, err)
	}

	h.audit(c, models.AuditActionCreate, "decoration", decoration.ID, decoration.Nom, "Attribution d'une décoration", nil, decoration)
	return c.JSON(http.StatusCreated, decoration)
}

// GetNotations handles GET /api/militaires/:id/notations
func (h *Handler) GetNotations(c echo.Context) error {
	notations, err := services.GetNotations(h.DB, c.Param("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, notations)
}

// AddNotation handles POST /api/militaires/:id/notations
func (h *Handler) AddNotation(c echo.Context) error {
	var req services.NotationInput
	if err := bind(c, &req); err != nil {
		return err
	}

	notation, err := services.AddNotation(h.DB, c.Param("id"), req)
	if err != nil {
		return serviceError(c, err)
	}

	h.audit(c, models.AuditActionCreate, "notation", notation.ID, notation.MilitaireID, "Ajout d'une notation", nil, notation)
	return c.JSON(http.StatusCreated, notation)
}

// GetStages handles GET /api/militaires/:id/stages
func (h *Handler) GetStages(c echo.Context) error {
	stages, err := services.GetStagesMilitaires(h.DB, c.Param("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, stages)
}

// AddStage handles POST /api/militaires/:id/stages
func (h *Handler) AddStage(c echo.Context) error {
	var req services.StageInput
	if err := bind(c, &req); err != nil {
		return err
	}

	stage, err := services.AddStageMilitaire(h.DB, c.Param("id"), req)
	if err != nil {
		return serviceError(c, err)
	}

	h.audit(c, models.AuditActionCreate, "stage_militaire", stage.ID, stage.Intitule, "Ajout d'un stage", nil, stage)
	return c.JSON(http.StatusCreated, stage)
}

// GetSituations handles GET /api/militaires/:id/situations
func (h *Handler) GetSituations(c echo.Context) error {
	history, err := services.GetSituationHistorique(h.DB, c.Param("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, history)
}

// ChangeSituation handles POST /api/militaires/:id/situations
func (h *Handler) ChangeSituation(c echo.Context) error {
	var req services.SituationChangeInput
	if err := bind(c, &req); err != nil {
		return err
	}

	entry, err := services.ChangeSituation(h.DB, c.Param("id"), req)
	if err != nil {
		return serviceError(c, err)
	}

	h.audit(c, models.AuditActionUpdate, "militaire", entry.MilitaireID, string(entry.NouvelleSituation),
		"Changement de situation", map[string]string{"situation": string(entry.AncienneSituation)},
		map[string]string{"situation": string(entry.NouvelleSituation)})
	return c.JSON(http.StatusCreated, entry)
}
