package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"personnel_app_go/config"
	"personnel_app_go/metrics"
	"personnel_app_go/models"
	"personnel_app_go/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testPassword = "Motdepasse#2024"

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:mem_" + uuid.New().String() + "?mode=memory&cache=shared&_busy_timeout=5000"
	testDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, testDB.AutoMigrate(models.All()...))
	return testDB
}

// testServer is a fully routed echo instance over an in-memory database
type testServer struct {
	e       *echo.Echo
	db      *gorm.DB
	tokens  *services.TokenService
	metrics *metrics.Metrics
	monitor *services.SecurityMonitor
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	testDB := setupTestDB(t)
	tokens, err := services.NewTokenService("0123456789abcdef0123456789abcdef", time.Hour, time.Hour)
	require.NoError(t, err)

	cfg := &config.Config{
		Environment:   "test",
		EmailTestMode: true,
		AppURL:        "http://localhost:3000",
	}
	m := metrics.New("test")

	limiters := NewRateLimiters()
	t.Cleanup(limiters.Stop)

	monitor := services.NewSecurityMonitor(testDB, cfg)
	t.Cleanup(monitor.Stop)

	h := New(testDB, cfg, tokens, m)
	h.Monitor = monitor

	e := NewEcho()
	e.Use(m.Middleware())
	RegisterRoutes(e, h, limiters)

	return &testServer{e: e, db: testDB, tokens: tokens, metrics: m, monitor: monitor}
}

// createUser stores an active account with testPassword
func (s *testServer) createUser(t *testing.T, email, role string) *models.User {
	t.Helper()
	hashed, err := services.HashPassword(testPassword)
	require.NoError(t, err)
	user := &models.User{
		Email:     email,
		Password:  hashed,
		FirstName: "Test",
		LastName:  role,
		Role:      role,
		Language:  models.LanguageFrench,
		IsActive:  true,
	}
	require.NoError(t, s.db.Create(user).Error)
	return user
}

func (s *testServer) tokenFor(t *testing.T, user *models.User) string {
	t.Helper()
	token, _, err := s.tokens.GenerateAccessToken(user)
	require.NoError(t, err)
	return token
}

// adminToken creates an admin account and returns its access token
func (s *testServer) adminToken(t *testing.T) string {
	t.Helper()
	return s.tokenFor(t, s.createUser(t, "admin-"+uuid.NewString()[:8]+"@armee.mr", models.RoleAdmin))
}

func (s *testServer) userToken(t *testing.T) string {
	t.Helper()
	return s.tokenFor(t, s.createUser(t, "user-"+uuid.NewString()[:8]+"@armee.mr", models.RoleUser))
}

// do sends a request through the router. body is JSON-encoded when not nil.
func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), "body: %s", rec.Body.String())
}

// errorMessage returns the "error" field of a {error} envelope
func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]interface{}
	decode(t, rec, &body)
	msg, _ := body["error"].(string)
	return msg
}

// createUnite posts a unit as admin and returns its id
func (s *testServer) createUnite(t *testing.T, token string, payload map[string]interface{}) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/unites", token, payload)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var unite map[string]interface{}
	decode(t, rec, &unite)
	return unite["id"].(string)
}
