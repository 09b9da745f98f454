package usecases

import (
	"context"
	"strings"
	"time"

	"helpdesk/internal/domain/audit"
	"helpdesk/internal/domain/permission"
	"helpdesk/internal/domain/problem"
	vo "helpdesk/internal/domain/problem/valueobjects"
	"helpdesk/internal/shared/biztime"
	"helpdesk/internal/shared/errors"
	"helpdesk/internal/shared/logger"
)

type ChangeStatusCommand struct {
	Principal *permission.Principal
	ProblemID uint
	NewStatus string
	// Reason defaults to "Status changed to {status}".
	Reason string
}

type ChangeStatusResult struct {
	ProblemID uint
	OldStatus string
	NewStatus string
	UpdatedAt time.Time
}

type ChangeStatusUseCase struct {
	authorizer  permission.Authorizer
	txRunner    TxRunner
	problemRepo problem.ProblemRepository
	historyRepo problem.StatusHistoryRepository
	auditRepo   audit.Repository
	viewCache   ViewCache
	metrics     MetricsRecorder
	logger      logger.Interface
	now         func() time.Time
}

func NewChangeStatusUseCase(
	authorizer permission.Authorizer,
	txRunner TxRunner,
	problemRepo problem.ProblemRepository,
	historyRepo problem.StatusHistoryRepository,
	auditRepo audit.Repository,
	viewCache ViewCache,
	metrics MetricsRecorder,
	logger logger.Interface,
) *ChangeStatusUseCase {
	return &ChangeStatusUseCase{
		authorizer:  authorizer,
		txRunner:    txRunner,
		problemRepo: problemRepo,
		historyRepo: historyRepo,
		auditRepo:   auditRepo,
		viewCache:   viewCache,
		metrics:     metrics,
		logger:      logger,
		now:         biztime.NowUTC,
	}
}

func (uc *ChangeStatusUseCase) Execute(ctx context.Context, cmd ChangeStatusCommand) (*ChangeStatusResult, error) {
	if err := uc.authorizer.Authorize(ctx, cmd.Principal, permission.ResourceProblem, permission.ActionUpdate); err != nil {
		return nil, err
	}

	uc.logger.Infow("executing change status use case", "problem_id", cmd.ProblemID, "new_status", cmd.NewStatus)

	if cmd.ProblemID == 0 {
		return nil, errors.NewValidationError("Problem ID is required")
	}
	next, err := vo.NewStatus(cmd.NewStatus)
	if err != nil {
		return nil, errors.NewValidationError("Invalid status", cmd.NewStatus)
	}

	reason := strings.TrimSpace(cmd.Reason)
	if reason == "" {
		reason = problem.DefaultStatusReason(next)
	}

	actorID := principalID(cmd.Principal)
	now := uc.now()

	var (
		prev    vo.Status
		updated *problem.Problem
	)
	err = uc.txRunner.RunInTransaction(ctx, func(txCtx context.Context) error {
		p, err := loadLiveProblem(txCtx, uc.problemRepo, cmd.ProblemID)
		if err != nil {
			return err
		}
		if prev, err = p.ChangeStatus(next, now); err != nil {
			return err
		}
		if err := uc.problemRepo.Update(txCtx, p); err != nil {
			return err
		}
		if err := appendHistory(txCtx, uc.historyRepo, p.ID(), &prev, next, actorID, reason, now); err != nil {
			return err
		}
		updated = p
		return appendAudit(txCtx, uc.auditRepo, p.ID(), audit.ActionUpdate, &actorID, audit.Changes{
			"status": audit.Change{From: prev.String(), To: next.String()},
		}, now)
	})
	if err != nil {
		uc.logger.Errorw("failed to change problem status", "problem_id", cmd.ProblemID, "error", err)
		return nil, persistenceError(err, "Failed to update problem status. Please try again.")
	}

	uc.viewCache.Invalidate(ctx, mutationPaths(updated.ID())...)
	uc.metrics.StatusChanged(prev.String(), next.String())

	uc.logger.Infow("problem status changed successfully",
		"problem_id", updated.ID(),
		"old_status", prev,
		"new_status", next,
	)

	return &ChangeStatusResult{
		ProblemID: updated.ID(),
		OldStatus: prev.String(),
		NewStatus: updated.Status().String(),
		UpdatedAt: updated.UpdatedAt(),
	}, nil
}
