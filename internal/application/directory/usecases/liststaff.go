package usecases

import (
	"context"
	"slices"
	"strings"

	"helpdesk/internal/application/directory/dto"
	"helpdesk/internal/domain/permission"
	"helpdesk/internal/domain/user"
	"helpdesk/internal/shared/constants"
	"helpdesk/internal/shared/errors"
	"helpdesk/internal/shared/logger"
)

var knownRoles = []string{
	constants.RoleAdmin,
	constants.RoleOperator,
	constants.RoleSpecialist,
	constants.RoleUser,
}

type ListStaffQuery struct {
	Principal *permission.Principal
	// Role filters by role slug when non-empty.
	Role string
}

type ListStaffResult struct {
	Staff []dto.StaffDTO `json:"staff"`
	Count int            `json:"count"`
}

type ListStaffUseCase struct {
	authorizer permission.Authorizer
	userRepo   user.Repository
	logger     logger.Interface
}

func NewListStaffUseCase(authorizer permission.Authorizer, userRepo user.Repository, logger logger.Interface) *ListStaffUseCase {
	return &ListStaffUseCase{
		authorizer: authorizer,
		userRepo:   userRepo,
		logger:     logger,
	}
}

func (uc *ListStaffUseCase) Execute(ctx context.Context, query ListStaffQuery) (*ListStaffResult, error) {
	if err := uc.authorizer.Authorize(ctx, query.Principal, permission.ResourceUser, permission.ActionRead); err != nil {
		return nil, err
	}

	role := strings.ToLower(strings.TrimSpace(query.Role))
	if role != "" && !slices.Contains(knownRoles, role) {
		return nil, errors.NewValidationError("Invalid role", query.Role)
	}

	users, err := uc.userRepo.ListActive(ctx, user.ListFilter{Role: role})
	if err != nil {
		uc.logger.Errorw("failed to list staff", "role", role, "error", err)
		return nil, errors.NewPersistenceError("Failed to load staff.")
	}

	staff := dto.ToStaffDTOs(users)
	return &ListStaffResult{Staff: staff, Count: len(staff)}, nil
}
