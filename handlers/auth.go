package handlers

import (
	"net/http"

	"personnel_app_go/metrics"
	"personnel_app_go/middleware"
	"personnel_app_go/models"
	"personnel_app_go/services"

	"github.com/labstack/echo/v4"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Login handles POST /api/auth/login
func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	result, err := services.Login(h.DB, h.Tokens, req.Email, req.Password)
	if err != nil {
		if services.KindOf(err) == services.KindAuthentication {
			h.loginAttempt(metrics.LoginFailure)
			h.trackFailedLogin(c, req.Email)
		}
		return serviceError(c, err)
	}
	h.loginAttempt(metrics.LoginSuccess)

	// No user in context yet: the audit actor is the account that just logged in
	services.LogAuditEvent(h.DB, services.AuditContext{
		UserID:    result.User.ID,
		UserName:  result.User.FullName(),
		UserRole:  result.User.Role,
		IPAddress: c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	}, models.AuditActionLogin, "user", result.User.ID, result.User.Email, "Connexion", nil, nil)

	return c.JSON(http.StatusOK, result)
}

// Register handles POST /api/auth/register
func (h *Handler) Register(c echo.Context) error {
	var req services.RegisterInput
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := services.Register(h.DB, req)
	if err != nil {
		return serviceError(c, err)
	}

	h.audit(c, models.AuditActionCreate, "user", user.ID, user.Email, "Inscription d'un utilisateur", nil, user)
	return c.JSON(http.StatusCreated, user)
}

// ForgotPassword handles POST /api/auth/forgot-password. The answer is the
// same whether or not the email belongs to an active account.
func (h *Handler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	if _, err := services.RequestPasswordReset(h.DB, h.Config, h.Tokens, req.Email); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, messageResponse{Message: services.MsgResetRequested})
}

// ResetPassword handles POST /api/auth/reset-password
func (h *Handler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	if err := services.ResetPassword(h.DB, h.Tokens, req.Token, req.NewPassword); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Mot de passe réinitialisé avec succès"})
}

// Me handles GET /api/auth/me
func (h *Handler) Me(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, middleware.MsgNotAuthenticated)
	}
	return c.JSON(http.StatusOK, user)
}

// ChangePassword handles POST /api/auth/change-password
func (h *Handler) ChangePassword(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, middleware.MsgNotAuthenticated)
	}

	var req changePasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	if err := services.ChangePassword(h.DB, user.ID, req.CurrentPassword, req.NewPassword); err != nil {
		return serviceError(c, err)
	}

	h.audit(c, models.AuditActionSecurity, "user", user.ID, user.Email, "Changement de mot de passe", nil, nil)
	return c.JSON(http.StatusOK, messageResponse{Message: "Mot de passe modifié avec succès"})
}
