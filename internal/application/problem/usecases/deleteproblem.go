package usecases

import (
	"context"
	"time"

	"helpdesk/internal/domain/audit"
	"helpdesk/internal/domain/permission"
	"helpdesk/internal/domain/problem"
	"helpdesk/internal/shared/biztime"
	"helpdesk/internal/shared/errors"
	"helpdesk/internal/shared/logger"
)

type DeleteProblemCommand struct {
	Principal *permission.Principal
	ProblemID uint
}

type DeleteProblemResult struct {
	ProblemID uint
	DeletedAt time.Time
}

// DeleteProblemUseCase soft-deletes a problem. The status and history stay
// as they were; only the deletion marker and an audit entry are written.
type DeleteProblemUseCase struct {
	authorizer  permission.Authorizer
	txRunner    TxRunner
	problemRepo problem.ProblemRepository
	auditRepo   audit.Repository
	viewCache   ViewCache
	metrics     MetricsRecorder
	logger      logger.Interface
	now         func() time.Time
}

func NewDeleteProblemUseCase(
	authorizer permission.Authorizer,
	txRunner TxRunner,
	problemRepo problem.ProblemRepository,
	auditRepo audit.Repository,
	viewCache ViewCache,
	metrics MetricsRecorder,
	logger logger.Interface,
) *DeleteProblemUseCase {
	return &DeleteProblemUseCase{
		authorizer:  authorizer,
		txRunner:    txRunner,
		problemRepo: problemRepo,
		auditRepo:   auditRepo,
		viewCache:   viewCache,
		metrics:     metrics,
		logger:      logger,
		now:         biztime.NowUTC,
	}
}

func (uc *DeleteProblemUseCase) Execute(ctx context.Context, cmd DeleteProblemCommand) (*DeleteProblemResult, error) {
	if err := uc.authorizer.Authorize(ctx, cmd.Principal, permission.ResourceProblem, permission.ActionDelete); err != nil {
		return nil, err
	}

	uc.logger.Infow("executing delete problem use case", "problem_id", cmd.ProblemID)

	if cmd.ProblemID == 0 {
		return nil, errors.NewValidationError("Problem ID is required")
	}

	actorID := principalID(cmd.Principal)
	now := uc.now()

	err := uc.txRunner.RunInTransaction(ctx, func(txCtx context.Context) error {
		p, err := loadLiveProblem(txCtx, uc.problemRepo, cmd.ProblemID)
		if err != nil {
			return err
		}
		if err := p.SoftDelete(actorID, now); err != nil {
			return err
		}
		if err := uc.problemRepo.Update(txCtx, p); err != nil {
			return err
		}
		return appendAudit(txCtx, uc.auditRepo, p.ID(), audit.ActionDelete, &actorID, audit.Changes{
			"deletedAt": p.DeletedAt().Format(time.RFC3339),
		}, now)
	})
	if err != nil {
		uc.logger.Errorw("failed to delete problem", "problem_id", cmd.ProblemID, "error", err)
		return nil, persistenceError(err, "Failed to delete problem. Please try again.")
	}

	uc.viewCache.Invalidate(ctx, mutationPaths(cmd.ProblemID)...)
	uc.metrics.ProblemDeleted()

	uc.logger.Infow("problem deleted successfully", "problem_id", cmd.ProblemID, "deleted_by", actorID)

	return &DeleteProblemResult{
		ProblemID: cmd.ProblemID,
		DeletedAt: now.UTC(),
	}, nil
}
