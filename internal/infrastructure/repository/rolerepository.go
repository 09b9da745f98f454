package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"helpdesk/internal/domain/permission"
	"helpdesk/internal/infrastructure/persistence/mappers"
	"helpdesk/internal/infrastructure/persistence/models"
	"helpdesk/internal/shared/constants"
	"helpdesk/internal/shared/db"
)

type RoleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) permission.RoleRepository {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) Create(ctx context.Context, role *permission.Role) error {
	model := &models.RoleModel{
		Name:        role.Name(),
		Slug:        role.Slug(),
		Description: role.Description(),
		IsSystem:    role.IsSystem(),
	}
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create role: %w", err)
	}
	role.SetID(model.ID)
	return nil
}

func (r *RoleRepository) GetBySlug(ctx context.Context, slug string) (*permission.Role, error) {
	var model models.RoleModel
	if err := db.GetTxFromContext(ctx, r.db).Where("slug = ?", slug).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get role: %w", err)
	}
	return mappers.RoleToDomain(&model), nil
}

func (r *RoleRepository) List(ctx context.Context) ([]*permission.Role, error) {
	var rows []models.RoleModel
	if err := db.GetTxFromContext(ctx, r.db).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	roles := make([]*permission.Role, len(rows))
	for i := range rows {
		roles[i] = mappers.RoleToDomain(&rows[i])
	}
	return roles, nil
}

// AssignPermissions grants permissions to a role; existing grants are kept.
func (r *RoleRepository) AssignPermissions(ctx context.Context, roleID uint, permissionIDs []uint) error {
	if len(permissionIDs) == 0 {
		return nil
	}
	rows := make([]models.RolePermissionModel, len(permissionIDs))
	for i, pid := range permissionIDs {
		rows[i] = models.RolePermissionModel{RoleID: roleID, PermissionID: pid}
	}
	err := db.GetTxFromContext(ctx, r.db).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
	if err != nil {
		return fmt.Errorf("failed to assign permissions to role %d: %w", roleID, err)
	}
	return nil
}

func (r *RoleRepository) AssignToUser(ctx context.Context, userID uint, roleIDs []uint) error {
	if len(roleIDs) == 0 {
		return nil
	}
	rows := make([]models.UserRoleModel, len(roleIDs))
	for i, rid := range roleIDs {
		rows[i] = models.UserRoleModel{UserID: userID, RoleID: rid}
	}
	err := db.GetTxFromContext(ctx, r.db).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
	if err != nil {
		return fmt.Errorf("failed to assign roles to user %d: %w", userID, err)
	}
	return nil
}

func (r *RoleRepository) GetUserRoles(ctx context.Context, userID uint) ([]*permission.Role, error) {
	var rows []models.RoleModel
	err := db.GetTxFromContext(ctx, r.db).
		Table(constants.TableRoles+" r").
		Select("r.*").
		Joins("JOIN "+constants.TableUserRoles+" ur ON ur.role_id = r.id").
		Where("ur.user_id = ?", userID).
		Order("r.slug ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get user roles: %w", err)
	}
	roles := make([]*permission.Role, len(rows))
	for i := range rows {
		roles[i] = mappers.RoleToDomain(&rows[i])
	}
	return roles, nil
}

func (r *RoleRepository) GetUserPermissions(ctx context.Context, userID uint) ([]string, error) {
	var rows []models.PermissionModel
	err := db.GetTxFromContext(ctx, r.db).
		Table(constants.TablePermissions+" p").
		Distinct("p.id", "p.resource", "p.action").
		Joins("JOIN "+constants.TableRolePermissions+" rp ON rp.permission_id = p.id").
		Joins("JOIN "+constants.TableUserRoles+" ur ON ur.role_id = rp.role_id").
		Where("ur.user_id = ?", userID).
		Order("p.resource ASC").
		Order("p.action ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get user permissions: %w", err)
	}
	names := make([]string, len(rows))
	for i, row := range rows {
		names[i] = permission.Name(row.Resource, row.Action)
	}
	return names, nil
}

type rolePermissionRow struct {
	Slug     string
	Resource string
	Action   string
}

func (r *RoleRepository) ListRolePermissions(ctx context.Context) ([][3]string, error) {
	var rows []rolePermissionRow
	err := db.GetTxFromContext(ctx, r.db).
		Table(constants.TableRolePermissions+" rp").
		Select("r.slug, p.resource, p.action").
		Joins("JOIN "+constants.TableRoles+" r ON r.id = rp.role_id").
		Joins("JOIN "+constants.TablePermissions+" p ON p.id = rp.permission_id").
		Order("r.slug ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list role permissions: %w", err)
	}
	out := make([][3]string, len(rows))
	for i, row := range rows {
		out[i] = [3]string{row.Slug, row.Resource, row.Action}
	}
	return out, nil
}

type PermissionRepository struct {
	db *gorm.DB
}

func NewPermissionRepository(db *gorm.DB) permission.PermissionRepository {
	return &PermissionRepository{db: db}
}

func (r *PermissionRepository) Create(ctx context.Context, p *permission.Permission) error {
	model := &models.PermissionModel{
		Resource:    p.Resource(),
		Action:      p.Action(),
		Description: p.Description(),
	}
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create permission: %w", err)
	}
	p.SetID(model.ID)
	return nil
}

func (r *PermissionRepository) GetByName(ctx context.Context, resource, action string) (*permission.Permission, error) {
	var model models.PermissionModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("resource = ? AND action = ?", resource, action).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get permission: %w", err)
	}
	return mappers.PermissionToDomain(&model), nil
}

func (r *PermissionRepository) List(ctx context.Context) ([]*permission.Permission, error) {
	var rows []models.PermissionModel
	err := db.GetTxFromContext(ctx, r.db).
		Order("resource ASC").
		Order("action ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list permissions: %w", err)
	}
	out := make([]*permission.Permission, len(rows))
	for i := range rows {
		out[i] = mappers.PermissionToDomain(&rows[i])
	}
	return out, nil
}
