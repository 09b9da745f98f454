package usecases

import (
	"context"
	"time"

	"helpdesk/internal/domain/audit"
	"helpdesk/internal/domain/problem"
	"helpdesk/internal/shared/biztime"
	"helpdesk/internal/shared/logger"
)

type MarkSLABreachesCommand struct {
	// Now defaults to the current time.
	Now time.Time
}

type MarkSLABreachesResult struct {
	Flagged    int
	Failed     int
	ProblemIDs []uint
}

// MarkSLABreachesUseCase flags open problems whose resolution deadline has
// passed. It runs as the system, so audit entries carry no user.
type MarkSLABreachesUseCase struct {
	txRunner    TxRunner
	problemRepo problem.ProblemRepository
	auditRepo   audit.Repository
	viewCache   ViewCache
	metrics     MetricsRecorder
	logger      logger.Interface
	now         func() time.Time
}

func NewMarkSLABreachesUseCase(
	txRunner TxRunner,
	problemRepo problem.ProblemRepository,
	auditRepo audit.Repository,
	viewCache ViewCache,
	metrics MetricsRecorder,
	logger logger.Interface,
) *MarkSLABreachesUseCase {
	return &MarkSLABreachesUseCase{
		txRunner:    txRunner,
		problemRepo: problemRepo,
		auditRepo:   auditRepo,
		viewCache:   viewCache,
		metrics:     metrics,
		logger:      logger,
		now:         biztime.NowUTC,
	}
}

// Execute flags each overdue problem in its own transaction so one bad row
// does not hold back the rest.
func (uc *MarkSLABreachesUseCase) Execute(ctx context.Context, cmd MarkSLABreachesCommand) (*MarkSLABreachesResult, error) {
	now := cmd.Now
	if now.IsZero() {
		now = uc.now()
	}

	overdue, err := uc.problemRepo.ListOverdue(ctx, now)
	if err != nil {
		uc.logger.Errorw("failed to list overdue problems", "error", err)
		return nil, err
	}

	result := &MarkSLABreachesResult{ProblemIDs: make([]uint, 0, len(overdue))}
	paths := make([]string, 0)
	for _, candidate := range overdue {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}

		flagged, err := uc.flag(ctx, candidate.ID(), now)
		if err != nil {
			result.Failed++
			uc.logger.Errorw("failed to flag SLA breach", "problem_id", candidate.ID(), "error", err)
			continue
		}
		if flagged {
			result.Flagged++
			result.ProblemIDs = append(result.ProblemIDs, candidate.ID())
			paths = append(paths, problemPath(candidate.ID()))
		}
	}

	if result.Flagged > 0 {
		uc.viewCache.Invalidate(ctx, append(mutationPaths(0), paths...)...)
		uc.metrics.SLABreached(result.Flagged)
	}

	uc.logger.Infow("SLA sweep finished",
		"candidates", len(overdue),
		"flagged", result.Flagged,
		"failed", result.Failed,
	)
	return result, nil
}

// flag re-reads the problem inside the transaction; it may have been resolved
// since the candidate list was taken.
func (uc *MarkSLABreachesUseCase) flag(ctx context.Context, problemID uint, now time.Time) (bool, error) {
	flagged := false
	err := uc.txRunner.RunInTransaction(ctx, func(txCtx context.Context) error {
		p, err := uc.problemRepo.GetByID(txCtx, problemID)
		if err != nil || p == nil {
			return err
		}
		if !p.MarkSLABreached(now) {
			return nil
		}
		if err := uc.problemRepo.Update(txCtx, p); err != nil {
			return err
		}
		if err := appendAudit(txCtx, uc.auditRepo, p.ID(), audit.ActionUpdate, nil, audit.Changes{
			"slaBreached": audit.Change{From: false, To: true},
		}, now); err != nil {
			return err
		}
		flagged = true
		return nil
	})
	return flagged, err
}
