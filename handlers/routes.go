package handlers

import (
	"personnel_app_go/middleware"

	"github.com/labstack/echo/v4"
)

// RateLimiters are the limiters guarding the public auth endpoints
type RateLimiters struct {
	Login          *middleware.RateLimiter
	Register       *middleware.RateLimiter
	ForgotPassword *middleware.RateLimiter
	ResetPassword  *middleware.RateLimiter
}

// NewRateLimiters builds the default auth limiters
func NewRateLimiters() *RateLimiters {
	return &RateLimiters{
		Login:          middleware.NewLoginRateLimiter(),
		Register:       middleware.NewRegisterRateLimiter(),
		ForgotPassword: middleware.NewPasswordResetRateLimiter(),
		ResetPassword:  middleware.NewPasswordResetRateLimiter(),
	}
}

// Stop stops the cleanup goroutines of every limiter
func (r *RateLimiters) Stop() {
	r.Login.Stop()
	r.Register.Stop()
	r.ForgotPassword.Stop()
	r.ResetPassword.Stop()
}

// NewEcho returns an echo instance with the JSON error handler and the validator installed
func NewEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = HTTPErrorHandler
	e.Validator = NewValidator()
	return e
}

// routeGroup attaches its middleware to each route rather than to the echo
// group. An echo group with middleware also answers unknown paths under its
// prefix through that middleware, which would turn a 404 into a 401.
type routeGroup struct {
	g  *echo.Group
	mw []echo.MiddlewareFunc
}

func withMiddleware(g *echo.Group, mw ...echo.MiddlewareFunc) routeGroup {
	return routeGroup{g: g, mw: mw}
}

func (r routeGroup) chain(extra []echo.MiddlewareFunc) []echo.MiddlewareFunc {
	m := make([]echo.MiddlewareFunc, 0, len(r.mw)+len(extra))
	return append(append(m, r.mw...), extra...)
}

func (r routeGroup) Group(prefix string, mw ...echo.MiddlewareFunc) routeGroup {
	return routeGroup{g: r.g.Group(prefix), mw: r.chain(mw)}
}

func (r routeGroup) GET(path string, h echo.HandlerFunc, mw ...echo.MiddlewareFunc) {
	r.g.GET(path, h, r.chain(mw)...)
}

func (r routeGroup) POST(path string, h echo.HandlerFunc, mw ...echo.MiddlewareFunc) {
	r.g.POST(path, h, r.chain(mw)...)
}

func (r routeGroup) PUT(path string, h echo.HandlerFunc, mw ...echo.MiddlewareFunc) {
	r.g.PUT(path, h, r.chain(mw)...)
}

func (r routeGroup) DELETE(path string, h echo.HandlerFunc, mw ...echo.MiddlewareFunc) {
	r.g.DELETE(path, h, r.chain(mw)...)
}

// RegisterRoutes mounts every API route on e
func RegisterRoutes(e *echo.Echo, h *Handler, limiters *RateLimiters) {
	e.GET("/health", h.Health)
	if h.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(h.Metrics.Handler()))
	}

	api := e.Group("/api")

	// Public auth routes
	auth := api.Group("/auth")
	{
		auth.POST("/login", h.Login, limiters.Login.Middleware())
		auth.POST("/register", h.Register, limiters.Register.Middleware())
		auth.POST("/forgot-password", h.ForgotPassword, limiters.ForgotPassword.Middleware())
		auth.POST("/reset-password", h.ResetPassword, limiters.ResetPassword.Middleware())
	}

	requireAuth := middleware.RequireAuth(h.Tokens, h.DB)
	adminOnly := middleware.RequireAdmin()

	me := withMiddleware(auth, requireAuth, middleware.AuditContext())
	{
		me.GET("/me", h.Me)
		me.POST("/change-password", h.ChangePassword)
	}

	protected := withMiddleware(api, requireAuth, middleware.AuditContext())

	users := protected.Group("/users", adminOnly)
	{
		users.GET("", h.GetUsers)
		users.PUT("/:id/status", h.SetUserStatus)
		users.PUT("/:id/role", h.SetUserRole)
	}

	unites := protected.Group("/unites")
	{
		unites.GET("", h.GetUnites)
		unites.GET("/code/:code", h.GetUniteByCode)
		unites.GET("/:id", h.GetUnite)
		unites.GET("/:id/personnel", h.GetUnitePersonnel)
		unites.GET("/:id/personnel/export", h.ExportUnitePersonnel)
		unites.GET("/:id/stats", h.GetUniteStats)
		unites.GET("/:id/sous-unites", h.GetUniteSousUnites)
		unites.GET("/:id/situations", h.GetUniteSituations)
		unites.POST("/:id/situations/snapshot", h.SnapshotUniteSituation, adminOnly)
		unites.POST("", h.CreateUnite, adminOnly)
		unites.PUT("/:id", h.UpdateUnite, adminOnly)
		unites.DELETE("/:id", h.DeleteUnite, adminOnly)
	}

	sousUnites := protected.Group("/sous-unites")
	{
		sousUnites.GET("", h.GetSousUnites)
		sousUnites.GET("/:id", h.GetSousUnite)
		sousUnites.POST("", h.CreateSousUnite, adminOnly)
		sousUnites.PUT("/:id", h.UpdateSousUnite, adminOnly)
		sousUnites.DELETE("/:id", h.DeleteSousUnite, adminOnly)
	}

	personnels := protected.Group("/personnels")
	{
		personnels.GET("", h.GetPersonnels)
		personnels.GET("/:id", h.GetPersonnel)
		personnels.POST("", h.CreatePersonnel, adminOnly)
		personnels.PUT("/:id", h.UpdatePersonnel, adminOnly)
		personnels.DELETE("/:id", h.DeletePersonnel, adminOnly)
		personnels.GET("/:id/documents", h.GetDocuments)
		personnels.POST("/:id/documents", h.AddDocument, adminOnly)
		personnels.GET("/:id/diplomes", h.GetDiplomes)
		personnels.POST("/:id/diplomes", h.AddDiplome, adminOnly)
	}

	militaires := protected.Group("/militaires")
	{
		militaires.GET("", h.GetMilitaires)
		militaires.GET("/grades", h.GetGrades)
		militaires.GET("/:id", h.GetMilitaire)
		militaires.POST("", h.CreateMilitaire, adminOnly)
		militaires.GET("/:id/decorations", h.GetDecorations)
		militaires.POST("/:id/decorations", h.AddDecoration, adminOnly)
		militaires.GET("/:id/notations", h.GetNotations)
		militaires.POST("/:id/notations", h.AddNotation, adminOnly)
		militaires.GET("/:id/stages", h.GetStages)
		militaires.POST("/:id/stages", h.AddStage, adminOnly)
		militaires.GET("/:id/situations", h.GetSituations)
		militaires.POST("/:id/situations", h.ChangeSituation, adminOnly)
	}

	fonctions := protected.Group("/fonctions")
	{
		fonctions.GET("", h.GetFonctions)
		fonctions.GET("/:id", h.GetFonction)
		fonctions.POST("", h.CreateFonction, adminOnly)
		fonctions.PUT("/:id", h.UpdateFonction, adminOnly)
		fonctions.DELETE("/:id", h.DeleteFonction, adminOnly)
	}

	armes := protected.Group("/armes")
	{
		armes.GET("", h.GetArmes)
		armes.GET("/:id", h.GetArme)
		armes.POST("", h.CreateArme, adminOnly)
		armes.PUT("/:id", h.UpdateArme, adminOnly)
		armes.DELETE("/:id", h.DeleteArme, adminOnly)
	}

	specialites := protected.Group("/specialites")
	{
		specialites.GET("", h.GetSpecialites)
		specialites.GET("/:id", h.GetSpecialite)
		specialites.POST("", h.CreateSpecialite, adminOnly)
		specialites.PUT("/:id", h.UpdateSpecialite, adminOnly)
		specialites.DELETE("/:id", h.DeleteSpecialite, adminOnly)
	}

	positions := protected.Group("/positions")
	{
		positions.GET("", h.GetPositions)
		positions.GET("/:id", h.GetPosition)
		positions.POST("", h.CreatePosition, adminOnly)
		positions.PUT("/:id", h.UpdatePosition, adminOnly)
		positions.DELETE("/:id", h.DeletePosition, adminOnly)
	}

	protected.GET("/audit-logs", h.GetAuditLogs, adminOnly)
	protected.GET("/audit-logs/resource/:type/:id", h.GetResourceAuditHistory, adminOnly)
	protected.GET("/audit-logs/:id", h.GetAuditLog, adminOnly)
	protected.GET("/security-alerts", h.GetSecurityAlerts, adminOnly)
}
