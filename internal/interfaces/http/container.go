package http

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	apppermission "helpdesk/internal/application/permission"
	problemUsecases "helpdesk/internal/application/problem/usecases"
	"helpdesk/internal/infrastructure/auth"
	"helpdesk/internal/infrastructure/cache"
	"helpdesk/internal/infrastructure/config"
	"helpdesk/internal/infrastructure/metrics"
	infrapermission "helpdesk/internal/infrastructure/permission"
	"helpdesk/internal/infrastructure/scheduler"
	"helpdesk/internal/interfaces/http/middleware"
	"helpdesk/internal/shared/db"
	"helpdesk/internal/shared/logger"
	"helpdesk/internal/shared/services/markdown"
)

// metricsRecorder is satisfied by both the prometheus recorder and metrics.Noop.
type metricsRecorder interface {
	problemUsecases.MetricsRecorder
	middleware.HTTPObserver
}

// Container holds all infrastructure components, repositories, use cases,
// handlers and background jobs. It wires everything together and offers
// Shutdown for graceful termination.
type Container struct {
	// Core infrastructure
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	log    logger.Interface
	redis  *redis.Client

	// Repositories
	repos *repositories

	// Use cases
	ucs *allUseCases

	// Handlers
	hdlrs *allHandlers

	// Middlewares
	authMiddleware       *middleware.AuthMiddleware
	permissionMiddleware *middleware.PermissionMiddleware
	loginLimiter         *middleware.RateLimiter

	// Shared services
	txManager     *db.TransactionManager
	jwtSvc        *auth.JWTService
	hasher        *auth.BcryptPasswordHasher
	permissionSvc *apppermission.Service
	viewCache     problemUsecases.ViewCache
	metrics       metricsRecorder
	prometheus    *metrics.Recorder
	renderer      markdown.Renderer

	schedulerManager *scheduler.SchedulerManager
}

// NewContainer creates a Container with all dependencies wired together.
// Redis is optional; without it the view cache and the login limiter are off.
func NewContainer(ctx context.Context, gdb *gorm.DB, cfg *config.Config, log logger.Interface) (*Container, error) {
	c := &Container{
		engine: gin.New(),
		db:     gdb,
		cfg:    cfg,
		log:    log,
	}

	// Section 1: Infrastructure - Redis, caches, metrics, auth services
	if err := c.initInfrastructure(ctx); err != nil {
		return nil, err
	}

	// Section 2: Repositories and the casbin-backed authorizer
	c.repos = newRepositories(gdb, log)
	if err := c.initPermissions(ctx); err != nil {
		c.closeRedis()
		return nil, err
	}

	// Section 3: Use cases and handlers
	c.ucs = c.newUseCases()
	c.hdlrs = c.newHandlers()
	c.initMiddlewares()

	// Section 4: Background jobs
	if err := c.initScheduler(); err != nil {
		c.closeRedis()
		return nil, err
	}

	return c, nil
}

func (c *Container) initInfrastructure(ctx context.Context) error {
	cfg := c.cfg

	c.viewCache = cache.NoopViewCache{}
	if cfg.Redis.Enabled {
		client, err := cache.NewRedisClient(ctx, &cfg.Redis)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		c.redis = client
		c.viewCache = cache.NewRedisViewCache(client, cfg.Cache.ViewTTL(), c.log)
		c.log.Infow("redis connection established", "addr", cfg.Redis.GetAddr())
	}

	c.metrics = metrics.Noop{}
	if cfg.Metrics.Enabled {
		c.prometheus = metrics.NewRecorder()
		c.metrics = c.prometheus
	}

	c.txManager = db.NewTransactionManager(c.db)
	c.jwtSvc = auth.NewJWTService(cfg.Auth.JWT.Secret, cfg.Auth.JWT.SessionTTL())
	c.hasher = auth.NewBcryptPasswordHasher(cfg.Auth.Password.BcryptCost)
	c.renderer = markdown.NewRenderer()
	return nil
}

// initPermissions loads role policies from the database into casbin.
func (c *Container) initPermissions(ctx context.Context) error {
	enforcer, err := infrapermission.NewEnforcer(c.db, c.log)
	if err != nil {
		return fmt.Errorf("failed to create permission enforcer: %w", err)
	}

	syncer := infrapermission.NewPermissionSync(c.db, c.log)
	c.permissionSvc = apppermission.NewService(c.repos.roleRepo, enforcer, syncer, c.log)
	if err := c.permissionSvc.SyncPolicies(ctx); err != nil {
		return fmt.Errorf("failed to sync permission policies: %w", err)
	}
	return nil
}

func (c *Container) initMiddlewares() {
	cfg := c.cfg
	c.authMiddleware = middleware.NewAuthMiddleware(c.jwtSvc, cfg.Auth.Cookie.Name, c.log)
	c.permissionMiddleware = middleware.NewPermissionMiddleware(c.permissionSvc, c.log)

	if c.redis != nil && cfg.Auth.LoginAttemptsPerMinute > 0 {
		c.loginLimiter = middleware.NewRateLimiter(c.redis, "login", cfg.Auth.LoginAttemptsPerMinute, time.Minute, c.log)
	}
}

func (c *Container) initScheduler() error {
	manager, err := scheduler.NewSchedulerManager(c.log)
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}
	if err := manager.RegisterSLASweepJob(c.ucs.markSLABreachesUC, c.cfg.SLA.SweepInterval()); err != nil {
		_ = manager.Stop()
		return fmt.Errorf("failed to register sla sweep: %w", err)
	}
	c.schedulerManager = manager
	return nil
}

// MarkSLABreaches exposes the sweep for one-off runs from the CLI.
func (c *Container) MarkSLABreaches() problemUsecases.MarkSLABreachesExecutor {
	return c.ucs.markSLABreachesUC
}

// StartBackground starts scheduled jobs. The server calls it once it listens.
func (c *Container) StartBackground() {
	c.schedulerManager.Start()
}

// Shutdown stops background jobs and releases the redis connection. The
// database is owned by the caller.
func (c *Container) Shutdown() {
	if c.schedulerManager != nil {
		if err := c.schedulerManager.Stop(); err != nil {
			c.log.Warnw("failed to stop scheduler", "error", err)
		}
	}
	c.closeRedis()
}

func (c *Container) closeRedis() {
	if c.redis == nil {
		return
	}
	if err := c.redis.Close(); err != nil {
		c.log.Warnw("failed to close redis client", "error", err)
	}
	c.redis = nil
}
