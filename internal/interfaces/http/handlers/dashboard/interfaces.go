package dashboard

import (
	"context"

	"helpdesk/internal/application/directory/dto"
	"helpdesk/internal/application/directory/usecases"
	"helpdesk/internal/domain/permission"
)

// PermissionChecker is the authorizer the use cases enforce with, asked
// quietly so pages only offer actions that would succeed.
type PermissionChecker interface {
	Can(ctx context.Context, principal *permission.Principal, resource, action string) bool
}

type ListSpecialistsExecutor interface {
	Execute(ctx context.Context, query usecases.ListSpecialistsQuery) ([]dto.StaffDTO, error)
}

type ListEquipmentExecutor interface {
	Execute(ctx context.Context, query usecases.ListEquipmentQuery) ([]dto.EquipmentDTO, error)
}

type ListProblemTypesExecutor interface {
	Execute(ctx context.Context, query usecases.ListProblemTypesQuery) ([]dto.ProblemTypeDTO, error)
}
