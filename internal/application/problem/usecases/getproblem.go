package usecases

import (
	"context"
	"time"

	"helpdesk/internal/application/problem/dto"
	"helpdesk/internal/domain/equipment"
	"helpdesk/internal/domain/permission"
	"helpdesk/internal/domain/problem"
	"helpdesk/internal/domain/problemtype"
	"helpdesk/internal/domain/user"
	"helpdesk/internal/shared/biztime"
	"helpdesk/internal/shared/constants"
	"helpdesk/internal/shared/errors"
	"helpdesk/internal/shared/logger"
)

type GetProblemQuery struct {
	Principal *permission.Principal
	ProblemID uint
}

// GetProblemUseCase loads one problem by ID. Soft-deleted problems are
// returned too so that links from audit trails keep working.
type GetProblemUseCase struct {
	authorizer      permission.Authorizer
	problemRepo     problem.ProblemRepository
	historyRepo     problem.StatusHistoryRepository
	userRepo        user.Repository
	equipmentRepo   equipment.Repository
	problemTypeRepo problemtype.Repository
	renderer        DescriptionRenderer
	logger          logger.Interface
	now             func() time.Time
}

func NewGetProblemUseCase(
	authorizer permission.Authorizer,
	problemRepo problem.ProblemRepository,
	historyRepo problem.StatusHistoryRepository,
	userRepo user.Repository,
	equipmentRepo equipment.Repository,
	problemTypeRepo problemtype.Repository,
	renderer DescriptionRenderer,
	logger logger.Interface,
) *GetProblemUseCase {
	return &GetProblemUseCase{
		authorizer:      authorizer,
		problemRepo:     problemRepo,
		historyRepo:     historyRepo,
		userRepo:        userRepo,
		equipmentRepo:   equipmentRepo,
		problemTypeRepo: problemTypeRepo,
		renderer:        renderer,
		logger:          logger,
		now:             biztime.NowUTC,
	}
}

func (uc *GetProblemUseCase) Execute(ctx context.Context, query GetProblemQuery) (*dto.ProblemDTO, error) {
	if err := uc.authorizer.Authorize(ctx, query.Principal, permission.ResourceProblem, permission.ActionRead); err != nil {
		return nil, err
	}
	if query.ProblemID == 0 {
		return nil, errors.NewValidationError("Problem ID is required")
	}

	p, err := uc.problemRepo.GetByID(ctx, query.ProblemID)
	if err != nil {
		uc.logger.Errorw("failed to get problem", "problem_id", query.ProblemID, "error", err)
		return nil, errors.NewPersistenceError("Failed to load problem.")
	}
	if p == nil {
		return nil, errors.NewNotFoundError("Problem not found")
	}

	history, err := uc.historyRepo.ListByProblem(ctx, p.ID(), constants.RecentHistoryLimit)
	if err != nil {
		uc.logger.Errorw("failed to get problem history", "problem_id", p.ID(), "error", err)
		return nil, errors.NewPersistenceError("Failed to load problem.")
	}

	reporterID := p.ReporterID()
	userIDs := []*uint{&reporterID, p.AssignedSpecialistID()}
	for _, h := range history {
		changedBy := h.ChangedBy()
		userIDs = append(userIDs, &changedBy)
	}
	users, err := loadUsers(ctx, uc.userRepo, userIDs...)
	if err != nil {
		uc.logger.Errorw("failed to load problem users", "problem_id", p.ID(), "error", err)
		return nil, errors.NewPersistenceError("Failed to load problem.")
	}

	var eq *equipment.Equipment
	if id := p.EquipmentID(); id != nil {
		if eq, err = uc.equipmentRepo.GetByID(ctx, *id); err != nil {
			uc.logger.Warnw("failed to load problem equipment", "problem_id", p.ID(), "error", err)
		}
	}

	var pt *problemtype.ProblemType
	if id := p.ProblemTypeID(); id != nil {
		if pt, err = uc.problemTypeRepo.GetByID(ctx, *id); err != nil {
			uc.logger.Warnw("failed to load problem type", "problem_id", p.ID(), "error", err)
		}
	}

	html, err := uc.renderer.Render(p.Description())
	if err != nil {
		uc.logger.Warnw("failed to render problem description", "problem_id", p.ID(), "error", err)
		html = ""
	}

	return dto.ToProblemDTO(p, dto.NewUserIndex(users), eq, pt, history, html, uc.now()), nil
}
