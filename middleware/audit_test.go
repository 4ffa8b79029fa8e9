package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"personnel_app_go/models"
	"personnel_app_go/services"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestAuditContext(t *testing.T) {
	e := echo.New()

	t.Run("FullContext", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("User-Agent", "test-agent")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		user := &models.User{ID: "user-123", FirstName: "Test", LastName: "User", Role: models.RoleAdmin}
		c.Set(ContextKeyUser, user)

		handler := AuditContext()(func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		})

		err := handler(c)
		assert.NoError(t, err)

		auditCtx := GetAuditContext(c)
		assert.Equal(t, "user-123", auditCtx.UserID)
		assert.Equal(t, "Test User", auditCtx.UserName)
		assert.Equal(t, models.RoleAdmin, auditCtx.UserRole)
		assert.Equal(t, "test-agent", auditCtx.UserAgent)
		assert.NotEmpty(t, auditCtx.IPAddress)
	})

	t.Run("NoAuth", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		handler := AuditContext()(func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		})

		err := handler(c)
		assert.NoError(t, err)

		auditCtx := GetAuditContext(c)
		assert.Empty(t, auditCtx.UserID)
	})
}

func TestGetAuditContext(t *testing.T) {
	e := echo.New()

	t.Run("Exists", func(t *testing.T) {
		c := e.NewContext(nil, nil)
		expected := services.AuditContext{UserID: "123"}
		c.Set(ContextKeyAuditContext, expected)

		result := GetAuditContext(c)
		assert.Equal(t, expected, result)
	})

	t.Run("NotExists", func(t *testing.T) {
		c := e.NewContext(nil, nil)
		result := GetAuditContext(c)
		assert.Equal(t, services.AuditContext{}, result)
	})

	t.Run("BuiltOnTheFly", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("User-Agent", "curl")
		c := e.NewContext(req, httptest.NewRecorder())
		c.Set(ContextKeyUser, &models.User{ID: "u-1", FirstName: "Solo"})

		result := GetAuditContext(c)
		assert.Equal(t, "u-1", result.UserID)
		assert.Equal(t, "Solo", result.UserName)
		assert.Equal(t, "curl", result.UserAgent)
	})
}
