package usecases

import (
	"context"
	"time"

	"helpdesk/internal/domain/audit"
	"helpdesk/internal/domain/equipment"
	"helpdesk/internal/domain/permission"
	"helpdesk/internal/domain/problem"
	vo "helpdesk/internal/domain/problem/valueobjects"
	"helpdesk/internal/domain/problemtype"
	"helpdesk/internal/domain/user"
	"helpdesk/internal/shared/biztime"
	"helpdesk/internal/shared/errors"
	"helpdesk/internal/shared/logger"
)

// maxCreateAttempts bounds retries when a concurrent create took the same number.
const maxCreateAttempts = 3

const createFailedMessage = "Failed to create problem. Please try again."

type CreateProblemCommand struct {
	Principal     *permission.Principal
	Title         string
	Description   string
	Priority      string
	ProblemTypeID uint
	EquipmentID   *uint
	// ReporterID defaults to the principal.
	ReporterID uint
}

type CreateProblemResult struct {
	ProblemID uint
	Number    string
	Status    string
	CreatedAt time.Time
}

type CreateProblemUseCase struct {
	authorizer      permission.Authorizer
	txRunner        TxRunner
	problemRepo     problem.ProblemRepository
	historyRepo     problem.StatusHistoryRepository
	auditRepo       audit.Repository
	problemTypeRepo problemtype.Repository
	equipmentRepo   equipment.Repository
	userRepo        user.Repository
	numberGenerator problem.NumberGenerator
	viewCache       ViewCache
	metrics         MetricsRecorder
	logger          logger.Interface
	now             func() time.Time
}

func NewCreateProblemUseCase(
	authorizer permission.Authorizer,
	txRunner TxRunner,
	problemRepo problem.ProblemRepository,
	historyRepo problem.StatusHistoryRepository,
	auditRepo audit.Repository,
	problemTypeRepo problemtype.Repository,
	equipmentRepo equipment.Repository,
	userRepo user.Repository,
	numberGenerator problem.NumberGenerator,
	viewCache ViewCache,
	metrics MetricsRecorder,
	logger logger.Interface,
) *CreateProblemUseCase {
	return &CreateProblemUseCase{
		authorizer:      authorizer,
		txRunner:        txRunner,
		problemRepo:     problemRepo,
		historyRepo:     historyRepo,
		auditRepo:       auditRepo,
		problemTypeRepo: problemTypeRepo,
		equipmentRepo:   equipmentRepo,
		userRepo:        userRepo,
		numberGenerator: numberGenerator,
		viewCache:       viewCache,
		metrics:         metrics,
		logger:          logger,
		now:             biztime.NowUTC,
	}
}

func (uc *CreateProblemUseCase) Execute(ctx context.Context, cmd CreateProblemCommand) (*CreateProblemResult, error) {
	if err := uc.authorizer.Authorize(ctx, cmd.Principal, permission.ResourceProblem, permission.ActionCreate); err != nil {
		return nil, err
	}
	if cmd.ReporterID == 0 {
		cmd.ReporterID = principalID(cmd.Principal)
	}

	uc.logger.Infow("executing create problem use case",
		"title", cmd.Title,
		"reporter_id", cmd.ReporterID,
		"problem_type_id", cmd.ProblemTypeID,
	)

	now := uc.now()
	priority := vo.Priority(cmd.Priority)

	// validates the report before any lookups
	if _, err := problem.NewProblem(cmd.Title, cmd.Description, priority, cmd.ReporterID, cmd.ProblemTypeID, cmd.EquipmentID, problem.SLA{}, now); err != nil {
		uc.logger.Warnw("invalid create problem command", "error", err)
		return nil, err
	}

	sla, err := uc.resolveReferences(ctx, cmd)
	if err != nil {
		return nil, err
	}

	var created *problem.Problem
	for attempt := 1; attempt <= maxCreateAttempts; attempt++ {
		created, err = uc.createOnce(ctx, cmd, priority, sla, now)
		if err == nil {
			break
		}
		if errors.IsDuplicateError(err) && attempt < maxCreateAttempts {
			uc.logger.Warnw("problem number collision, retrying", "attempt", attempt, "error", err)
			continue
		}
		uc.logger.Errorw("failed to create problem", "attempt", attempt, "error", err)
		return nil, persistenceError(err, createFailedMessage)
	}

	uc.viewCache.Invalidate(ctx, mutationPaths(0)...)
	uc.metrics.ProblemCreated(created.Priority().String())

	uc.logger.Infow("problem created successfully",
		"problem_id", created.ID(),
		"number", created.Number(),
	)

	return &CreateProblemResult{
		ProblemID: created.ID(),
		Number:    created.Number(),
		Status:    created.Status().String(),
		CreatedAt: created.CreatedAt(),
	}, nil
}

func (uc *CreateProblemUseCase) resolveReferences(ctx context.Context, cmd CreateProblemCommand) (problem.SLA, error) {
	pt, err := uc.problemTypeRepo.GetByID(ctx, cmd.ProblemTypeID)
	if err != nil {
		uc.logger.Errorw("failed to load problem type", "problem_type_id", cmd.ProblemTypeID, "error", err)
		return problem.SLA{}, errors.NewPersistenceError(createFailedMessage)
	}
	if pt == nil || !pt.IsUsable() {
		return problem.SLA{}, errors.NewNotFoundError("Problem type not found")
	}

	if cmd.EquipmentID != nil && *cmd.EquipmentID != 0 {
		eq, err := uc.equipmentRepo.GetByID(ctx, *cmd.EquipmentID)
		if err != nil {
			uc.logger.Errorw("failed to load equipment", "equipment_id", *cmd.EquipmentID, "error", err)
			return problem.SLA{}, errors.NewPersistenceError(createFailedMessage)
		}
		if eq == nil {
			return problem.SLA{}, errors.NewNotFoundError("Equipment not found")
		}
	}

	reporter, err := uc.userRepo.GetByID(ctx, cmd.ReporterID)
	if err != nil {
		uc.logger.Errorw("failed to load reporter", "reporter_id", cmd.ReporterID, "error", err)
		return problem.SLA{}, errors.NewPersistenceError(createFailedMessage)
	}
	if reporter == nil {
		return problem.SLA{}, errors.NewNotFoundError("Reporter not found")
	}

	return problem.SLA{
		ResponseMinutes:   pt.SLAResponseMinutes(),
		ResolutionMinutes: pt.SLAResolutionMinutes(),
	}, nil
}

// createOnce numbers and persists a fresh problem with its first history row
// and audit entry in one transaction.
func (uc *CreateProblemUseCase) createOnce(ctx context.Context, cmd CreateProblemCommand, priority vo.Priority, sla problem.SLA, now time.Time) (*problem.Problem, error) {
	p, err := problem.NewProblem(cmd.Title, cmd.Description, priority, cmd.ReporterID, cmd.ProblemTypeID, cmd.EquipmentID, sla, now)
	if err != nil {
		return nil, err
	}

	err = uc.txRunner.RunInTransaction(ctx, func(txCtx context.Context) error {
		number, err := uc.numberGenerator.Generate(txCtx, biztime.Year(now))
		if err != nil {
			return err
		}
		if err := p.SetNumber(number); err != nil {
			return err
		}
		if err := uc.problemRepo.Create(txCtx, p); err != nil {
			return err
		}
		if err := appendHistory(txCtx, uc.historyRepo, p.ID(), nil, p.Status(), cmd.ReporterID, problem.ReasonReported, now); err != nil {
			return err
		}
		reporterID := cmd.ReporterID
		return appendAudit(txCtx, uc.auditRepo, p.ID(), audit.ActionCreate, &reporterID, audit.Changes{
			"title":    p.Title(),
			"priority": p.Priority().String(),
			"status":   p.Status().String(),
		}, now)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}
