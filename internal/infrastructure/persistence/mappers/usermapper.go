package mappers

import (
	"fmt"

	"helpdesk/internal/domain/permission"
	"helpdesk/internal/domain/user"
	"helpdesk/internal/infrastructure/persistence/models"
)

// UserMapper handles the conversion between User domain entities and persistence models.
type UserMapper interface {
	ToModel(u *user.User) *models.UserModel
	// ToDomain needs the role slugs and department name, which live in other tables.
	ToDomain(model *models.UserModel, roles []string, departmentName string) (*user.User, error)
}

type UserMapperImpl struct{}

func NewUserMapper() UserMapper {
	return &UserMapperImpl{}
}

func (m *UserMapperImpl) ToModel(u *user.User) *models.UserModel {
	return &models.UserModel{
		ID:           u.ID(),
		FirstName:    u.FirstName(),
		LastName:     u.LastName(),
		Email:        u.Email(),
		PasswordHash: u.PasswordHash(),
		JobTitle:     u.JobTitle(),
		DepartmentID: u.DepartmentID(),
		IsActive:     u.IsActive(),
		CreatedAt:    u.CreatedAt(),
		UpdatedAt:    u.UpdatedAt(),
		DeletedAt:    u.DeletedAt(),
	}
}

func (m *UserMapperImpl) ToDomain(model *models.UserModel, roles []string, departmentName string) (*user.User, error) {
	u, err := user.ReconstructUser(
		model.ID,
		model.FirstName,
		model.LastName,
		model.Email,
		model.PasswordHash,
		model.JobTitle,
		model.DepartmentID,
		departmentName,
		model.IsActive,
		roles,
		model.CreatedAt.UTC(),
		model.UpdatedAt.UTC(),
		utcPtr(model.DeletedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct user %d: %w", model.ID, err)
	}
	return u, nil
}

// RoleToDomain converts a role row.
func RoleToDomain(model *models.RoleModel) *permission.Role {
	return permission.ReconstructRole(model.ID, model.Name, model.Slug, model.Description, model.IsSystem)
}

// PermissionToDomain converts a permission row.
func PermissionToDomain(model *models.PermissionModel) *permission.Permission {
	return permission.ReconstructPermission(model.ID, model.Resource, model.Action, model.Description)
}
