package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"helpdesk/internal/application/problem/dto"
	"helpdesk/internal/domain/permission"
	"helpdesk/internal/domain/problem"
	vo "helpdesk/internal/domain/problem/valueobjects"
	"helpdesk/internal/domain/problemtype"
	"helpdesk/internal/domain/user"
	"helpdesk/internal/shared/biztime"
	"helpdesk/internal/shared/constants"
	"helpdesk/internal/shared/errors"
	"helpdesk/internal/shared/logger"
	"helpdesk/internal/shared/utils"
)

type ListProblemsQuery struct {
	Principal *permission.Principal
	// Status filters when non-empty.
	Status string
	// Limit defaults to 50 and is capped at 200.
	Limit int
}

type ListProblemsResult struct {
	Problems []dto.ProblemListItemDTO `json:"problems"`
	Count    int                      `json:"count"`
}

type ListProblemsUseCase struct {
	authorizer      permission.Authorizer
	problemRepo     problem.ProblemRepository
	userRepo        user.Repository
	problemTypeRepo problemtype.Repository
	viewCache       ViewCache
	logger          logger.Interface
	now             func() time.Time
}

func NewListProblemsUseCase(
	authorizer permission.Authorizer,
	problemRepo problem.ProblemRepository,
	userRepo user.Repository,
	problemTypeRepo problemtype.Repository,
	viewCache ViewCache,
	logger logger.Interface,
) *ListProblemsUseCase {
	return &ListProblemsUseCase{
		authorizer:      authorizer,
		problemRepo:     problemRepo,
		userRepo:        userRepo,
		problemTypeRepo: problemTypeRepo,
		viewCache:       viewCache,
		logger:          logger,
		now:             biztime.NowUTC,
	}
}

func (uc *ListProblemsUseCase) Execute(ctx context.Context, query ListProblemsQuery) (*ListProblemsResult, error) {
	if err := uc.authorizer.Authorize(ctx, query.Principal, permission.ResourceProblem, permission.ActionRead); err != nil {
		return nil, err
	}

	filter := problem.ProblemFilter{
		Limit: utils.NormalizeLimit(query.Limit, constants.DefaultProblemListLimit, constants.MaxProblemListLimit),
	}
	if query.Status != "" {
		status, err := vo.NewStatus(query.Status)
		if err != nil {
			return nil, errors.NewValidationError("Invalid status", query.Status)
		}
		filter.Statuses = []vo.Status{status}
	}

	variant := fmt.Sprintf("status=%s&limit=%d", query.Status, filter.Limit)
	data, cacheKey, ok := uc.viewCache.Get(ctx, constants.PathProblemsList, variant)
	if ok {
		var cached ListProblemsResult
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
		uc.logger.Warnw("discarding unreadable cached problem list", "variant", variant)
	}

	problems, err := uc.problemRepo.List(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to list problems", "error", err)
		return nil, errors.NewPersistenceError("Failed to load problems.")
	}

	items, err := buildListItems(ctx, uc.userRepo, uc.problemTypeRepo, problems, uc.now())
	if err != nil {
		uc.logger.Errorw("failed to load problem list references", "error", err)
		return nil, errors.NewPersistenceError("Failed to load problems.")
	}

	result := &ListProblemsResult{Problems: items, Count: len(items)}
	if data, err := json.Marshal(result); err == nil {
		uc.viewCache.Set(ctx, cacheKey, data)
	}
	return result, nil
}

func buildListItems(ctx context.Context, userRepo user.Repository, typeRepo problemtype.Repository, problems []*problem.Problem, now time.Time) ([]dto.ProblemListItemDTO, error) {
	ids := make([]*uint, 0, 2*len(problems))
	for _, p := range problems {
		reporterID := p.ReporterID()
		ids = append(ids, &reporterID, p.AssignedSpecialistID())
	}
	users, err := loadUsers(ctx, userRepo, ids...)
	if err != nil {
		return nil, err
	}
	typeNames, err := loadTypeNames(ctx, typeRepo, problems)
	if err != nil {
		return nil, err
	}

	index := dto.NewUserIndex(users)
	items := make([]dto.ProblemListItemDTO, len(problems))
	for i, p := range problems {
		items[i] = dto.ToProblemListItemDTO(p, index, typeNames, now)
	}
	return items, nil
}
