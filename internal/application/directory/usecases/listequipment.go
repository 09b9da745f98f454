package usecases

import (
	"context"

	"helpdesk/internal/application/directory/dto"
	"helpdesk/internal/domain/equipment"
	"helpdesk/internal/domain/permission"
	"helpdesk/internal/shared/errors"
	"helpdesk/internal/shared/logger"
)

type ListEquipmentQuery struct {
	Principal *permission.Principal
	// AssignedUserID limits the list to one user's equipment.
	AssignedUserID *uint
}

// ListEquipmentUseCase lists equipment. Reporters without equipment:read
// still see the items assigned to them so they can reference one when
// reporting a problem.
type ListEquipmentUseCase struct {
	authorizer    permission.Authorizer
	equipmentRepo equipment.Repository
	logger        logger.Interface
}

func NewListEquipmentUseCase(authorizer permission.Authorizer, equipmentRepo equipment.Repository, logger logger.Interface) *ListEquipmentUseCase {
	return &ListEquipmentUseCase{
		authorizer:    authorizer,
		equipmentRepo: equipmentRepo,
		logger:        logger,
	}
}

func (uc *ListEquipmentUseCase) Execute(ctx context.Context, query ListEquipmentQuery) ([]dto.EquipmentDTO, error) {
	assignedTo := query.AssignedUserID

	err := uc.authorizer.Authorize(ctx, query.Principal, permission.ResourceEquipment, permission.ActionRead)
	if errors.IsForbiddenError(err) {
		if err := uc.authorizer.Authorize(ctx, query.Principal, permission.ResourceProblem, permission.ActionCreate); err != nil {
			return nil, err
		}
		own := query.Principal.UserID
		assignedTo = &own
	} else if err != nil {
		return nil, err
	}

	items, err := uc.equipmentRepo.List(ctx, assignedTo)
	if err != nil {
		uc.logger.Errorw("failed to list equipment", "error", err)
		return nil, errors.NewPersistenceError("Failed to load equipment.")
	}
	return dto.ToEquipmentDTOs(items), nil
}
