package usecases

import (
	"context"
	"time"

	"helpdesk/internal/domain/audit"
	"helpdesk/internal/domain/permission"
	"helpdesk/internal/domain/problem"
	vo "helpdesk/internal/domain/problem/valueobjects"
	"helpdesk/internal/domain/user"
	"helpdesk/internal/shared/biztime"
	"helpdesk/internal/shared/errors"
	"helpdesk/internal/shared/logger"
)

type AssignProblemCommand struct {
	Principal    *permission.Principal
	ProblemID    uint
	SpecialistID uint
}

type AssignProblemResult struct {
	ProblemID    uint
	SpecialistID uint
	OldStatus    string
	NewStatus    string
}

type AssignProblemUseCase struct {
	authorizer  permission.Authorizer
	txRunner    TxRunner
	problemRepo problem.ProblemRepository
	historyRepo problem.StatusHistoryRepository
	auditRepo   audit.Repository
	userRepo    user.Repository
	viewCache   ViewCache
	metrics     MetricsRecorder
	logger      logger.Interface
	now         func() time.Time
}

func NewAssignProblemUseCase(
	authorizer permission.Authorizer,
	txRunner TxRunner,
	problemRepo problem.ProblemRepository,
	historyRepo problem.StatusHistoryRepository,
	auditRepo audit.Repository,
	userRepo user.Repository,
	viewCache ViewCache,
	metrics MetricsRecorder,
	logger logger.Interface,
) *AssignProblemUseCase {
	return &AssignProblemUseCase{
		authorizer:  authorizer,
		txRunner:    txRunner,
		problemRepo: problemRepo,
		historyRepo: historyRepo,
		auditRepo:   auditRepo,
		userRepo:    userRepo,
		viewCache:   viewCache,
		metrics:     metrics,
		logger:      logger,
		now:         biztime.NowUTC,
	}
}

func (uc *AssignProblemUseCase) Execute(ctx context.Context, cmd AssignProblemCommand) (*AssignProblemResult, error) {
	if err := uc.authorizer.Authorize(ctx, cmd.Principal, permission.ResourceProblem, permission.ActionAssign); err != nil {
		return nil, err
	}

	uc.logger.Infow("executing assign problem use case", "problem_id", cmd.ProblemID, "specialist_id", cmd.SpecialistID)

	if cmd.ProblemID == 0 {
		return nil, errors.NewValidationError("Problem ID is required")
	}
	if cmd.SpecialistID == 0 {
		return nil, errors.NewValidationError("Specialist is required")
	}

	specialist, err := uc.userRepo.GetByID(ctx, cmd.SpecialistID)
	if err != nil {
		uc.logger.Errorw("failed to load specialist", "specialist_id", cmd.SpecialistID, "error", err)
		return nil, errors.NewPersistenceError("Failed to assign problem. Please try again.")
	}
	if specialist == nil {
		return nil, errors.NewNotFoundError("Specialist not found")
	}
	if !specialist.IsAssignableSpecialist() {
		return nil, errors.NewValidationError("User is not an active specialist")
	}

	actorID := principalID(cmd.Principal)
	now := uc.now()

	var (
		prevStatus     vo.Status
		prevSpecialist *uint
	)
	err = uc.txRunner.RunInTransaction(ctx, func(txCtx context.Context) error {
		p, err := loadLiveProblem(txCtx, uc.problemRepo, cmd.ProblemID)
		if err != nil {
			return err
		}
		prevSpecialist = p.AssignedSpecialistID()
		if prevStatus, err = p.AssignTo(specialist.ID(), now); err != nil {
			return err
		}
		if err := uc.problemRepo.Update(txCtx, p); err != nil {
			return err
		}
		if err := appendHistory(txCtx, uc.historyRepo, p.ID(), &prevStatus, p.Status(), actorID, problem.ReasonAssigned, now); err != nil {
			return err
		}

		var from any
		if prevSpecialist != nil {
			from = *prevSpecialist
		}
		return appendAudit(txCtx, uc.auditRepo, p.ID(), audit.ActionUpdate, &actorID, audit.Changes{
			"assignedSpecialistId": audit.Change{From: from, To: specialist.ID()},
			"status":               audit.Change{From: prevStatus.String(), To: p.Status().String()},
		}, now)
	})
	if err != nil {
		uc.logger.Errorw("failed to assign problem", "problem_id", cmd.ProblemID, "error", err)
		return nil, persistenceError(err, "Failed to assign problem. Please try again.")
	}

	uc.viewCache.Invalidate(ctx, mutationPaths(cmd.ProblemID)...)
	uc.metrics.ProblemAssigned()
	uc.metrics.StatusChanged(prevStatus.String(), vo.StatusAssigned.String())

	uc.logger.Infow("problem assigned successfully",
		"problem_id", cmd.ProblemID,
		"specialist_id", specialist.ID(),
		"old_status", prevStatus,
	)

	return &AssignProblemResult{
		ProblemID:    cmd.ProblemID,
		SpecialistID: specialist.ID(),
		OldStatus:    prevStatus.String(),
		NewStatus:    vo.StatusAssigned.String(),
	}, nil
}
