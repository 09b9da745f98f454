// Package bootstrap prepares the process-wide state every command needs.
package bootstrap

import (
	"fmt"

	"helpdesk/internal/infrastructure/config"
	"helpdesk/internal/infrastructure/database"
	"helpdesk/internal/shared/biztime"
	"helpdesk/internal/shared/logger"
)

// Init loads configuration, then sets up the logger, the business timezone
// and the database connection. Callers close the database with database.Close.
func Init(env string) (*config.Config, logger.Interface, error) {
	cfg, err := config.Load(GinMode(env))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger, cfg.Server.Mode); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger()

	// Initialize business timezone for the yearly numbering boundary
	if err := biztime.Init(cfg.Server.Timezone); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize business timezone: %w", err)
	}

	if err := database.Init(&cfg.Database); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return cfg, log, nil
}

// GinMode maps an environment name to a gin mode. Unknown names map to ""
// so the configured server.mode stays in effect.
func GinMode(environment string) string {
	switch environment {
	case "production", "prod", "release":
		return "release"
	case "development", "dev", "debug":
		return "debug"
	case "test", "testing":
		return "test"
	default:
		return ""
	}
}
