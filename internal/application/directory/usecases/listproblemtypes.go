package usecases

import (
	"context"

	"helpdesk/internal/application/directory/dto"
	"helpdesk/internal/domain/permission"
	"helpdesk/internal/domain/problemtype"
	"helpdesk/internal/shared/errors"
	"helpdesk/internal/shared/logger"
)

type ListProblemTypesQuery struct {
	Principal *permission.Principal
}

type ListProblemTypesUseCase struct {
	authorizer      permission.Authorizer
	problemTypeRepo problemtype.Repository
	logger          logger.Interface
}

func NewListProblemTypesUseCase(authorizer permission.Authorizer, problemTypeRepo problemtype.Repository, logger logger.Interface) *ListProblemTypesUseCase {
	return &ListProblemTypesUseCase{
		authorizer:      authorizer,
		problemTypeRepo: problemTypeRepo,
		logger:          logger,
	}
}

func (uc *ListProblemTypesUseCase) Execute(ctx context.Context, query ListProblemTypesQuery) ([]dto.ProblemTypeDTO, error) {
	if err := uc.authorizer.Authorize(ctx, query.Principal, permission.ResourceProblem, permission.ActionRead); err != nil {
		return nil, err
	}

	types, err := uc.problemTypeRepo.ListActive(ctx)
	if err != nil {
		uc.logger.Errorw("failed to list problem types", "error", err)
		return nil, errors.NewPersistenceError("Failed to load problem types.")
	}
	return dto.ToProblemTypeDTOs(types), nil
}
