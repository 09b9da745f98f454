package usecases

import (
	"context"
	"encoding/json"
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
)

const dashboardStatsVariant = "stats"

type GetDashboardStatsQuery struct {
	Principal *permission.Principal
}

type GetDashboardStatsUseCase struct {
	authorizer      permission.Authorizer
	problemRepo     problem.ProblemRepository
	userRepo        user.Repository
	problemTypeRepo problemtype.Repository
	viewCache       ViewCache
	logger          logger.Interface
	now             func() time.Time
}

func NewGetDashboardStatsUseCase(
	authorizer permission.Authorizer,
	problemRepo problem.ProblemRepository,
	userRepo user.Repository,
	problemTypeRepo problemtype.Repository,
	viewCache ViewCache,
	logger logger.Interface,
) *GetDashboardStatsUseCase {
	return &GetDashboardStatsUseCase{
		authorizer:      authorizer,
		problemRepo:     problemRepo,
		userRepo:        userRepo,
		problemTypeRepo: problemTypeRepo,
		viewCache:       viewCache,
		logger:          logger,
		now:             biztime.NowUTC,
	}
}

func (uc *GetDashboardStatsUseCase) Execute(ctx context.Context, query GetDashboardStatsQuery) (*dto.DashboardStatsDTO, error) {
	if err := uc.authorizer.Authorize(ctx, query.Principal, permission.ResourceProblem, permission.ActionRead); err != nil {
		return nil, err
	}

	data, cacheKey, ok := uc.viewCache.Get(ctx, constants.PathDashboard, dashboardStatsVariant)
	if ok {
		var cached dto.DashboardStatsDTO
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
		uc.logger.Warnw("discarding unreadable cached dashboard stats")
	}

	stats, err := uc.load(ctx)
	if err != nil {
		uc.logger.Errorw("failed to load dashboard stats", "error", err)
		return nil, errors.NewPersistenceError("Failed to load dashboard.")
	}

	if data, err := json.Marshal(stats); err == nil {
		uc.viewCache.Set(ctx, cacheKey, data)
	}
	return stats, nil
}

func (uc *GetDashboardStatsUseCase) load(ctx context.Context) (*dto.DashboardStatsDTO, error) {
	finished := []vo.Status{vo.StatusResolved, vo.StatusClosed, vo.StatusCancelled}
	counts := []struct {
		target *int64
		filter problem.ProblemFilter
	}{
		{filter: problem.ProblemFilter{}},
		{filter: problem.ProblemFilter{Statuses: []vo.Status{vo.StatusOpen}}},
		{filter: problem.ProblemFilter{Statuses: []vo.Status{vo.StatusInProgress}}},
		{filter: problem.ProblemFilter{Statuses: []vo.Status{vo.StatusResolved}}},
		{filter: problem.ProblemFilter{Priorities: []vo.Priority{vo.PriorityCritical}, ExcludeStatuses: finished}},
	}

	stats := &dto.DashboardStatsDTO{}
	counts[0].target = &stats.Total
	counts[1].target = &stats.Open
	counts[2].target = &stats.InProgress
	counts[3].target = &stats.Resolved
	counts[4].target = &stats.Urgent

	for _, c := range counts {
		n, err := uc.problemRepo.Count(ctx, c.filter)
		if err != nil {
			return nil, err
		}
		*c.target = n
	}

	activeUsers, err := uc.userRepo.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	stats.ActiveUsers = activeUsers

	recent, err := uc.problemRepo.List(ctx, problem.ProblemFilter{Limit: constants.RecentProblemsLimit})
	if err != nil {
		return nil, err
	}
	if stats.RecentProblems, err = buildListItems(ctx, uc.userRepo, uc.problemTypeRepo, recent, uc.now()); err != nil {
		return nil, err
	}

	specialists, err := uc.userRepo.ListActive(ctx, user.ListFilter{Role: constants.RoleSpecialist})
	if err != nil {
		return nil, err
	}
	stats.Specialists = make([]dto.UserSummaryDTO, 0, len(specialists))
	for _, s := range specialists {
		stats.Specialists = append(stats.Specialists, *dto.ToUserSummaryDTO(s))
	}

	return stats, nil
}
