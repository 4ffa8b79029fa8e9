package handlers

import (
	"net/http"

	"personnel_app_go/models"
	"personnel_app_go/services"

	"github.com/labstack/echo/v4"
)

// Fonctions

func (h *Handler) GetFonctions(c echo.Context) error {
	fonctions, err := services.GetAllFonctions(h.DB)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, fonctions)
}

func (h *Handler) GetFonction(c echo.Context) error {
	fonction, err := services.GetFonctionByID(h.DB, c.Param("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, fonction)
}

func (h *Handler) CreateFonction(c echo.Context) error {
	var req services.FonctionInput
	if err := bind(c, &req); err != nil {
		return err
	}
	fonction, err := services.CreateFonction(h.DB, req)
	if err != nil {
		return serviceError(c, err)
	}
	h.audit(c, models.AuditActionCreate, "fonction", fonction.ID, fonction.Titre, "Création de la fonction "+fonction.Titre, nil, fonction)
	return c.JSON(http.StatusCreated, fonction)
}

func (h *Handler) UpdateFonction(c echo.Context) error {
	var req services.FonctionInput
	if err := bind(c, &req); err != nil {
		return err
	}
	fonction, err := services.UpdateFonction(h.DB, c.Param("id"), req)
	if err != nil {
		return serviceError(c, err)
	}
	h.audit(c, models.AuditActionUpdate, "fonction", fonction.ID, fonction.Titre, "Modification de la fonction "+fonction.Titre, nil, fonction)
	return c.JSON(http.StatusOK, fonction)
}

func (h *Handler) DeleteFonction(c echo.Context) error {
	id := c.Param("id")
	if err := services.DeleteFonction(h.DB, id); err != nil {
		return serviceError(c, err)
	}
	h.audit(c, models.AuditActionDelete, "fonction", id, "", "Suppression d'une fonction", nil, nil)
	return c.JSON(http.StatusOK, messageResponse{Message: "Fonction supprimée avec succès"})
}

// Armes

func (h *Handler) GetArmes(c echo.Context) error {
	armes, err := services.GetAllArmes(h.DB)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, armes)
}

func (h *Handler) GetArme(c echo.Context) error {
	arme, err := services.GetArmeByID(h.DB, c.Param("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, arme)
}

func (h *Handler) CreateArme(c echo.Context) error {
	var req services.ArmeInput
	if err := bind(c, &req); err != nil {
		return err
	}
	arme, err := services.CreateArme(h.DB, req)
	if err != nil {
		return serviceError(c, err)
	}
	h.audit(c, models.AuditActionCreate, "arme", arme.ID, arme.Nom, "Création de l'arme "+arme.Nom, nil, arme)
	return c.JSON(http.StatusCreated, arme)
}

func (h *Handler) UpdateArme(c echo.Context) error {
	var req services.ArmeInput
	if err := bind(c, &req); err != nil {
		return err
	}
	arme, err := services.UpdateArme(h.DB, c.Param("id"), req)
	if err != nil {
		return serviceError(c, err)
	}
	h.audit(c, models.AuditActionUpdate, "arme", arme.ID, arme.Nom, "Modification de l'arme "+arme.Nom, nil, arme)
	return c.JSON(http.StatusOK, arme)
}

func (h *Handler) DeleteArme(c echo.Context) error {
	id := c.Param("id")
	if err := services.DeleteArme(h.DB, id); err != nil {
		return serviceError(c, err)
	}
	h.audit(c, models.AuditActionDelete, "arme", id, "", "Suppression d'une arme", nil, nil)
	return c.JSON(http.StatusOK, messageResponse{Message: "Arme supprimée avec succès"})
}

// Specialites

// GetSpecialites handles GET /api/specialites?armeId=
func (h *Handler) GetSpecialites(c echo.Context) error {
	specialites, err := services.GetAllSpecialites(h.DB, c.QueryParam("armeId"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, specialites)
}

func (h *Handler) GetSpecialite(c echo.Context) error {
	specialite, err := services.GetSpecialiteByID(h.DB, c.Param("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, specialite)
}

func (h *Handler) CreateSpecialite(c echo.Context) error {
	var req services.SpecialiteInput
	if err := bind(c, &req); err != nil {
		return err
	}
	specialite, err := services.CreateSpecialite(h.DB, req)
	if err != nil {
		return serviceError(c, err)
	}
	h.audit(c, models.AuditActionCreate, "specialite", specialite.ID, specialite.Nom, "Création de la spécialité "+specialite.Nom, nil, specialite)
	return c.JSON(http.StatusCreated, specialite)
}

func (h *Handler) UpdateSpecialite(c echo.Context) error {
	var req services.SpecialiteInput
	if err := bind(c, &req); err != nil {
		return err
	}
	specialite, err := services.UpdateSpecialite(h.DB, c.Param("id"), req)
	if err != nil {
		return serviceError(c, err)
	}
	h.audit(c, models.AuditActionUpdate, "specialite", specialite.ID, specialite.Nom, "Modification de la spécialité "+specialite.Nom, nil, specialite)
	return c.JSON(http.StatusOK, specialite)
}

func (h *Handler) DeleteSpecialite(c echo.Context) error {
	id := c.Param("id")
	if err := services.DeleteSpecialite(h.DB, id); err != nil {
		return serviceError(c, err)
	}
	h.audit(c, models.AuditActionDelete, "specialite", id, "", "Suppression d'une spécialité", nil, nil)
	return c.JSON(http.StatusOK, messageResponse{Message: "Spécialité supprimée avec succès"})
}

// Positions

func (h *Handler) GetPositions(c echo.Context) error {
	positions, err := services.GetAllPositions(h.DB)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, positions)
}

func (h *Handler) GetPosition(c echo.Context) error {
	position, err := services.GetPositionByID(h.DB, c.Param("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, position)
}

func (h *Handler) CreatePosition(c echo.Context) error {
	var req services.PositionInput
	if err := bind(c, &req); err != nil {
		return err
	}
	position, err := services.CreatePosition(h.DB, req)
	if err != nil {
		return serviceError(c, err)
	}
	h.audit(c, models.AuditActionCreate, "position", position.ID, position.Nom, "Création de la position "+position.Nom, nil, position)
	return c.JSON(http.StatusCreated, position)
}

func (h *Handler) UpdatePosition(c echo.Context) error {
	var req services.PositionInput
	if err := bind(c, &req); err != nil {
		return err
	}
	position, err := services.UpdatePosition(h.DB, c.Param("id"), req)
	if err != nil {
		return serviceError(c, err)
	}
	h.audit(c, models.AuditActionUpdate, "position", position.ID, position.Nom, "Modification de la position "+position.Nom, nil, position)
	return c.JSON(http.StatusOK, position)
}

func (h *Handler) DeletePosition(c echo.Context) error {
	id := c.Param("id")
	if err := services.DeletePosition(h.DB, id); err != nil {
		return serviceError(c, err)
	}
	h.audit(c, models.AuditActionDelete, "position", id, "", "Suppression d'une position", nil, nil)
	return c.JSON(http.StatusOK, messageResponse{Message: "Position supprimée avec succès"})
}
