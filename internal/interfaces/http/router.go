package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"helpdesk/internal/infrastructure/config"
	"helpdesk/internal/interfaces/http/middleware"
	"helpdesk/internal/interfaces/http/routes"
	"helpdesk/internal/interfaces/http/web"
	"helpdesk/internal/shared/logger"
)

const flashMaxAgeSeconds = 600

// Router represents the HTTP router configuration
type Router struct {
	*Container
}

// NewRouter builds the container and registers every route on its engine.
func NewRouter(ctx context.Context, db *gorm.DB, cfg *config.Config, log logger.Interface) (*Router, error) {
	container, err := NewContainer(ctx, db, cfg, log)
	if err != nil {
		return nil, err
	}

	r := &Router{Container: container}
	if err := r.SetupRoutes(); err != nil {
		container.Shutdown()
		return nil, err
	}
	return r, nil
}

// SetupRoutes configures all HTTP routes
func (r *Router) SetupRoutes() error {
	tmpl, err := web.Templates()
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}
	r.engine.SetHTMLTemplate(tmpl)

	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.RequestID())
	r.engine.Use(middleware.Logger(r.log))
	r.engine.Use(middleware.SecurityHeaders())
	r.engine.Use(middleware.Metrics(r.metrics))

	r.engine.GET("/healthz", r.healthCheck)
	if r.prometheus != nil {
		r.engine.GET(r.cfg.Metrics.Path, gin.WrapH(r.prometheus.Handler()))
	}

	routes.SetupAPIRoutes(r.engine, &routes.APIRouteConfig{
		AuthHandler:          r.hdlrs.authHandler,
		StaffHandler:         r.hdlrs.staffHandler,
		ProblemHandler:       r.hdlrs.problemHandler,
		AuthMiddleware:       r.authMiddleware,
		PermissionMiddleware: r.permissionMiddleware,
		LoginLimiter:         r.loginLimiter,
	})

	routes.SetupPageRoutes(r.engine, &routes.PageRouteConfig{
		AuthHandler:          r.hdlrs.authHandler,
		DashboardHandler:     r.hdlrs.dashboardHandler,
		AuthMiddleware:       r.authMiddleware,
		PermissionMiddleware: r.permissionMiddleware,
		LoginLimiter:         r.loginLimiter,
		Session:              r.flashSession(),
		SecureCookies:        r.cfg.Auth.Cookie.Secure,
	})

	return nil
}

func (r *Router) flashSession() gin.HandlerFunc {
	flash := r.cfg.Auth.Flash
	store := cookie.NewStore([]byte(flash.Secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   flashMaxAgeSeconds,
		Secure:   r.cfg.Auth.Cookie.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sessions.Sessions(flash.CookieName, store)
}

// healthCheck handles GET /healthz
func (r *Router) healthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	sqlDB, err := r.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		r.log.Warnw("health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetEngine returns the Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

// Run starts the HTTP server
func (r *Router) Run(addr string) error {
	return r.engine.Run(addr)
}
