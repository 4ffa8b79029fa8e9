package middleware

import (
	"errors"
	"net/http"
	"strings"

	"personnel_app_go/models"
	"personnel_app_go/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	// ContextKeyUser is the context key for the authenticated user
	ContextKeyUser = "user"
	// ContextKeyClaims is the context key for the validated token claims
	ContextKeyClaims = "claims"
)

// Authentication messages
const (
	MsgMissingToken     = "Token d'authentification manquant"
	MsgInvalidToken     = "Token invalide ou expiré"
	MsgInsufficientRole = "Permissions insuffisantes"
	MsgNotAuthenticated = "Non authentifié"
	bearerPrefix        = "bearer "
)

// bearerToken extracts the token of an "Authorization: Bearer <token>" header
func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(header[len(bearerPrefix):])
}

// RequireAuth validates the bearer access token and loads the user it was
// issued for. Deactivated or deleted accounts are refused even with a valid token.
func RequireAuth(tokens *services.TokenService, database *gorm.DB) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := bearerToken(c)
			if raw == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, MsgMissingToken)
			}

			claims, err := tokens.ParseToken(raw, services.TokenTypeAccess)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, MsgInvalidToken)
			}

			var user models.User
			if err := database.First(&user, "id = ?", claims.UserID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return echo.NewHTTPError(http.StatusUnauthorized, MsgInvalidToken)
				}
				zap.L().Error("Failed to load authenticated user", zap.String("user_id", claims.UserID), zap.Error(err))
				return echo.NewHTTPError(http.StatusInternalServerError, "Erreur interne du serveur")
			}
			if !user.IsActive {
				return echo.NewHTTPError(http.StatusUnauthorized, services.MsgAccountDisabled)
			}

			c.Set(ContextKeyUser, &user)
			c.Set(ContextKeyClaims, claims)
			return next(c)
		}
	}
}

// RequireRole is middleware that requires specific roles. It must run after RequireAuth.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := GetCurrentUser(c)
			if user == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, MsgNotAuthenticated)
			}

			// Check if user has one of the required roles
			for _, role := range roles {
				if user.Role == role {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, MsgInsufficientRole)
		}
	}
}

// RequireAdmin is RequireRole(models.RoleAdmin)
func RequireAdmin() echo.MiddlewareFunc {
	return RequireRole(models.RoleAdmin)
}

// GetCurrentUser retrieves the current user from context
func GetCurrentUser(c echo.Context) *models.User {
	user, ok := c.Get(ContextKeyUser).(*models.User)
	if !ok {
		return nil
	}
	return user
}

// GetClaims retrieves the validated token claims from context
func GetClaims(c echo.Context) *services.Claims {
	claims, ok := c.Get(ContextKeyClaims).(*services.Claims)
	if !ok {
		return nil
	}
	return claims
}
