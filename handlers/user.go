package handlers

import (
	"net/http"

	"personnel_app_go/middleware"
	"personnel_app_go/models"
	"personnel_app_go/services"

	"github.com/labstack/echo/v4"
)

type userStatusRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

type userRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

// GetUsers handles GET /api/users
func (h *Handler) GetUsers(c echo.Context) error {
	isActive, err := queryBool(c, "isActive")
	if err != nil {
		return err
	}

	page, err := services.ListUsers(h.DB, services.UserQuery{
		PageQuery: pageQuery(c),
		Search:    c.QueryParam("search"),
		Role:      c.QueryParam("role"),
		IsActive:  isActive,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

// SetUserStatus handles PUT /api/users/:id/status
func (h *Handler) SetUserStatus(c echo.Context) error {
	var req userStatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	actor := middleware.GetCurrentUser(c)
	user, err := services.SetUserStatus(h.DB, actor.ID, c.Param("id"), *req.IsActive)
	if err != nil {
		return serviceError(c, err)
	}

	description := "Compte réactivé"
	if !user.IsActive {
		description = "Compte désactivé"
	}
	h.audit(c, models.AuditActionSecurity, "user", user.ID, user.Email, description, nil, map[string]bool{"isActive": user.IsActive})
	return c.JSON(http.StatusOK, user)
}

// SetUserRole handles PUT /api/users/:id/role
func (h *Handler) SetUserRole(c echo.Context) error {
	var req userRoleRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	actor := middleware.GetCurrentUser(c)
	user, err := services.SetUserRole(h.DB, actor.ID, c.Param("id"), req.Role)
	if err != nil {
		return serviceError(c, err)
	}

	h.audit(c, models.AuditActionSecurity, "user", user.ID, user.Email, "Changement de rôle", nil, map[string]string{"role": user.Role})
	return c.JSON(http.StatusOK, user)
}
