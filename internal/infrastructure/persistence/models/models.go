// Package models holds the gorm row types. Relationships are plain ID columns;
// nothing here declares gorm associations.
package models

// All lists every model, in dependency order, for AutoMigrate in tests and tooling.
func All() []any {
	return []any{
		&DepartmentModel{},
		&UserModel{},
		&RoleModel{},
		&PermissionModel{},
		&RolePermissionModel{},
		&UserRoleModel{},
		&EquipmentModel{},
		&ProblemTypeModel{},
		&ProblemModel{},
		&ProblemStatusHistoryModel{},
		&ProblemSequenceModel{},
		&AuditLogModel{},
	}
}
