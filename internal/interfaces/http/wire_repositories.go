package http

import (
	"gorm.io/gorm"

	"helpdesk/internal/domain/audit"
	"helpdesk/internal/domain/equipment"
	"helpdesk/internal/domain/permission"
	"helpdesk/internal/domain/problem"
	"helpdesk/internal/domain/problemtype"
	"helpdesk/internal/domain/user"
	"helpdesk/internal/infrastructure/repository"
	"helpdesk/internal/infrastructure/services"
	"helpdesk/internal/shared/logger"
)

// repositories holds all repository instances used across the container.
type repositories struct {
	userRepo        user.Repository
	departmentRepo  user.DepartmentRepository
	roleRepo        permission.RoleRepository
	problemRepo     problem.ProblemRepository
	historyRepo     problem.StatusHistoryRepository
	auditRepo       audit.Repository
	problemTypeRepo problemtype.Repository
	equipmentRepo   equipment.Repository
	numberGenerator problem.NumberGenerator
}

// newRepositories creates all repository instances from the database connection.
func newRepositories(db *gorm.DB, log logger.Interface) *repositories {
	return &repositories{
		userRepo:        repository.NewUserRepository(db, log),
		departmentRepo:  repository.NewDepartmentRepository(db),
		roleRepo:        repository.NewRoleRepository(db),
		problemRepo:     repository.NewProblemRepository(db, log),
		historyRepo:     repository.NewStatusHistoryRepository(db),
		auditRepo:       repository.NewAuditRepository(db),
		problemTypeRepo: repository.NewProblemTypeRepository(db),
		equipmentRepo:   repository.NewEquipmentRepository(db),
		numberGenerator: services.NewProblemNumberGenerator(db, log),
	}
}
