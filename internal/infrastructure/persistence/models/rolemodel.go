package models

import (
	"time"

	"helpdesk/internal/shared/constants"
)

type RoleModel struct {
	ID          uint   `gorm:"primarykey"`
	Name        string `gorm:"not null;size:50"`
	Slug        string `gorm:"uniqueIndex;not null;size:50"`
	Description string `gorm:"type:text"`
	IsSystem    bool   `gorm:"default:false"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (RoleModel) TableName() string {
	return constants.TableRoles
}

type PermissionModel struct {
	ID          uint   `gorm:"primarykey"`
	Resource    string `gorm:"not null;size:50;uniqueIndex:idx_permission_name"`
	Action      string `gorm:"not null;size:50;uniqueIndex:idx_permission_name"`
	Description string `gorm:"size:255"`
	CreatedAt   time.Time
}

func (PermissionModel) TableName() string {
	return constants.TablePermissions
}

type RolePermissionModel struct {
	ID           uint `gorm:"primarykey"`
	RoleID       uint `gorm:"not null;uniqueIndex:idx_role_permission"`
	PermissionID uint `gorm:"not null;uniqueIndex:idx_role_permission"`
	CreatedAt    time.Time
}

func (RolePermissionModel) TableName() string {
	return constants.TableRolePermissions
}

type UserRoleModel struct {
	ID        uint `gorm:"primarykey"`
	UserID    uint `gorm:"not null;uniqueIndex:idx_user_role"`
	RoleID    uint `gorm:"not null;uniqueIndex:idx_user_role"`
	CreatedAt time.Time
}

func (UserRoleModel) TableName() string {
	return constants.TableUserRoles
}
