package routes

import (
	"github.com/gin-gonic/gin"

	"helpdesk/internal/domain/permission"
	"helpdesk/internal/interfaces/http/handlers"
	problemHandlers "helpdesk/internal/interfaces/http/handlers/problem"
	"helpdesk/internal/interfaces/http/middleware"
)

type APIRouteConfig struct {
	AuthHandler          *handlers.AuthHandler
	StaffHandler         *handlers.StaffHandler
	ProblemHandler       *problemHandlers.Handler
	AuthMiddleware       *middleware.AuthMiddleware
	PermissionMiddleware *middleware.PermissionMiddleware
	LoginLimiter         *middleware.RateLimiter
}

// SetupAPIRoutes registers the JSON surface under /api.
func SetupAPIRoutes(engine *gin.Engine, config *APIRouteConfig) {
	api := engine.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/login", config.LoginLimiter.Limit(), config.AuthHandler.Login)
		auth.POST("/logout", config.AuthMiddleware.OptionalAuth(), config.AuthHandler.Logout)
	}

	perm := config.PermissionMiddleware

	problems := api.Group("/problems")
	problems.Use(config.AuthMiddleware.RequireAuth())
	{
		// Collection operations (no ID parameter)
		problems.GET("",
			perm.RequirePermission(permission.ResourceProblem, permission.ActionRead),
			config.ProblemHandler.ListProblems)
		problems.POST("",
			perm.RequirePermission(permission.ResourceProblem, permission.ActionCreate),
			config.ProblemHandler.CreateProblem)

		// Specific action endpoints (must come BEFORE /:id to avoid conflicts)
		problems.PATCH("/:id/status",
			perm.RequirePermission(permission.ResourceProblem, permission.ActionUpdate),
			config.ProblemHandler.ChangeStatus)
		problems.POST("/:id/assign",
			perm.RequirePermission(permission.ResourceProblem, permission.ActionAssign),
			config.ProblemHandler.AssignProblem)

		problems.GET("/:id",
			perm.RequirePermission(permission.ResourceProblem, permission.ActionRead),
			config.ProblemHandler.GetProblem)
		problems.DELETE("/:id",
			perm.RequirePermission(permission.ResourceProblem, permission.ActionDelete),
			config.ProblemHandler.DeleteProblem)
	}

	api.GET("/staff",
		config.AuthMiddleware.RequireAuth(),
		perm.RequirePermission(permission.ResourceUser, permission.ActionRead),
		config.StaffHandler.ListStaff)
	api.POST("/staff",
		config.AuthMiddleware.RequireAuth(),
		perm.RequirePermission(permission.ResourceUser, permission.ActionCreate),
		config.StaffHandler.CreateStaff)
}
