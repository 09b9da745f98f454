package usecases

import (
	"context"

	"helpdesk/internal/application/directory/dto"
	"helpdesk/internal/domain/permission"
	"helpdesk/internal/domain/user"
	"helpdesk/internal/shared/constants"
	"helpdesk/internal/shared/errors"
	"helpdesk/internal/shared/logger"
)

type ListSpecialistsQuery struct {
	Principal *permission.Principal
}

// ListSpecialistsUseCase returns the users a problem can be assigned to.
// Anyone allowed to assign may see them, even without the staff directory.
type ListSpecialistsUseCase struct {
	authorizer permission.Authorizer
	userRepo   user.Repository
	logger     logger.Interface
}

func NewListSpecialistsUseCase(authorizer permission.Authorizer, userRepo user.Repository, logger logger.Interface) *ListSpecialistsUseCase {
	return &ListSpecialistsUseCase{
		authorizer: authorizer,
		userRepo:   userRepo,
		logger:     logger,
	}
}

func (uc *ListSpecialistsUseCase) Execute(ctx context.Context, query ListSpecialistsQuery) ([]dto.StaffDTO, error) {
	if err := uc.authorizer.Authorize(ctx, query.Principal, permission.ResourceProblem, permission.ActionAssign); err != nil {
		return nil, err
	}

	users, err := uc.userRepo.ListActive(ctx, user.ListFilter{Role: constants.RoleSpecialist})
	if err != nil {
		uc.logger.Errorw("failed to list specialists", "error", err)
		return nil, errors.NewPersistenceError("Failed to load specialists.")
	}

	specialists := make([]*user.User, 0, len(users))
	for _, u := range users {
		if u.IsAssignableSpecialist() {
			specialists = append(specialists, u)
		}
	}
	return dto.ToStaffDTOs(specialists), nil
}
