package sla

import (
	"fmt"

	"github.com/spf13/cobra"

	"helpdesk/internal/application/problem/usecases"
	"helpdesk/internal/infrastructure/cache"
	"helpdesk/internal/infrastructure/database"
	"helpdesk/internal/infrastructure/metrics"
	"helpdesk/internal/infrastructure/repository"
	"helpdesk/internal/interfaces/cli/bootstrap"
	"helpdesk/internal/shared/db"
)

var env string

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sla",
		Short: "SLA maintenance",
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")

	cmd.AddCommand(&cobra.Command{
		Use:   "sweep",
		Short: "Flag open problems past their resolution deadline",
		Long:  `Run the SLA breach sweep once, the same pass the server schedules periodically.`,
		RunE:  runSweep,
	})

	return cmd
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, log, err := bootstrap.Init(env)
	if err != nil {
		return err
	}
	defer database.Close()

	ctx := cmd.Context()

	var viewCache usecases.ViewCache = cache.NoopViewCache{}
	if cfg.Redis.Enabled {
		client, err := cache.NewRedisClient(ctx, &cfg.Redis)
		if err != nil {
			// Stale pages expire on their own TTL
			log.Warnw("redis unavailable, cached views will not be invalidated", "error", err)
		} else {
			defer client.Close()
			viewCache = cache.NewRedisViewCache(client, cfg.Cache.ViewTTL(), log)
		}
	}

	gdb := database.Get()
	uc := usecases.NewMarkSLABreachesUseCase(
		db.NewTransactionManager(gdb),
		repository.NewProblemRepository(gdb, log),
		repository.NewAuditRepository(gdb),
		viewCache,
		metrics.Noop{},
		log,
	)

	result, err := uc.Execute(ctx, usecases.MarkSLABreachesCommand{})
	if err != nil {
		return fmt.Errorf("sla sweep failed: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Flagged %d problem(s), %d failed\n", result.Flagged, result.Failed)
	return nil
}
