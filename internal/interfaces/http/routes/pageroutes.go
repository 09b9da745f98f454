package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"helpdesk/internal/domain/permission"
	"helpdesk/internal/interfaces/http/handlers"
	dashboardHandlers "helpdesk/internal/interfaces/http/handlers/dashboard"
	"helpdesk/internal/interfaces/http/middleware"
	"helpdesk/internal/shared/constants"
)

type PageRouteConfig struct {
	AuthHandler          *handlers.AuthHandler
	DashboardHandler     *dashboardHandlers.Handler
	AuthMiddleware       *middleware.AuthMiddleware
	PermissionMiddleware *middleware.PermissionMiddleware
	LoginLimiter         *middleware.RateLimiter
	// Session loads the flash cookie store; it runs before CSRF.
	Session       gin.HandlerFunc
	SecureCookies bool
}

// SetupPageRoutes registers the server-rendered pages and their form actions.
func SetupPageRoutes(engine *gin.Engine, config *PageRouteConfig) {
	pages := engine.Group("")
	pages.Use(config.Session, middleware.CSRF(config.SecureCookies))

	engine.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, constants.PathDashboard)
	})

	auth := pages.Group("/auth")
	{
		auth.GET("/login",
			config.AuthMiddleware.RedirectIfAuthenticated(),
			config.AuthHandler.LoginPage)
		auth.POST("/login",
			config.LoginLimiter.Limit(),
			config.AuthHandler.LoginForm)
		auth.POST("/logout",
			config.AuthMiddleware.OptionalAuth(),
			config.AuthHandler.LogoutForm)
	}

	perm := config.PermissionMiddleware
	h := config.DashboardHandler

	dashboard := pages.Group("/dashboard")
	dashboard.Use(config.AuthMiddleware.RequirePageAuth())
	{
		dashboard.GET("", h.Dashboard)
		dashboard.GET("/problems", h.ListProblems)
		dashboard.POST("/problems",
			perm.RequirePagePermission(permission.ResourceProblem, permission.ActionCreate),
			h.CreateProblem)

		// "new" must come BEFORE /:id to avoid conflicts
		dashboard.GET("/problems/new",
			perm.RequirePagePermission(permission.ResourceProblem, permission.ActionCreate),
			h.NewProblem)

		dashboard.GET("/problems/:id", h.ShowProblem)
		dashboard.POST("/problems/:id/status", h.ChangeStatus)
		dashboard.POST("/problems/:id/assign", h.AssignProblem)
		dashboard.POST("/problems/:id/delete", h.DeleteProblem)
	}
}
