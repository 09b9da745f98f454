package usecases

import (
	"context"
	"slices"
	"strings"
	"time"

	"helpdesk/internal/application/directory/dto"
	"helpdesk/internal/domain/audit"
	"helpdesk/internal/domain/permission"
	"helpdesk/internal/domain/user"
	"helpdesk/internal/shared/biztime"
	"helpdesk/internal/shared/constants"
	"helpdesk/internal/shared/errors"
	"helpdesk/internal/shared/logger"
)

const (
	createStaffFailedMessage = "Failed to create staff member. Please try again."
	duplicateEmailMessage    = "A staff member with this email already exists"
)

type TxRunner interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type CreateStaffCommand struct {
	Principal    *permission.Principal
	FirstName    string
	LastName     string
	Email        string
	JobTitle     string
	DepartmentID *uint
	// Role is a role slug; empty means plain staff.
	Role string
}

type CreateStaffResult struct {
	Staff dto.StaffDTO `json:"staff"`
}

type CreateStaffUseCase struct {
	authorizer permission.Authorizer
	txRunner   TxRunner
	userRepo   user.Repository
	deptRepo   user.DepartmentRepository
	roleRepo   permission.RoleRepository
	auditRepo  audit.Repository
	logger     logger.Interface
	now        func() time.Time
}

func NewCreateStaffUseCase(
	authorizer permission.Authorizer,
	txRunner TxRunner,
	userRepo user.Repository,
	deptRepo user.DepartmentRepository,
	roleRepo permission.RoleRepository,
	auditRepo audit.Repository,
	logger logger.Interface,
) *CreateStaffUseCase {
	return &CreateStaffUseCase{
		authorizer: authorizer,
		txRunner:   txRunner,
		userRepo:   userRepo,
		deptRepo:   deptRepo,
		roleRepo:   roleRepo,
		auditRepo:  auditRepo,
		logger:     logger,
		now:        biztime.NowUTC,
	}
}

func (uc *CreateStaffUseCase) Execute(ctx context.Context, cmd CreateStaffCommand) (*CreateStaffResult, error) {
	if err := uc.authorizer.Authorize(ctx, cmd.Principal, permission.ResourceUser, permission.ActionCreate); err != nil {
		return nil, err
	}

	roleSlug := strings.ToLower(strings.TrimSpace(cmd.Role))
	if roleSlug == "" {
		roleSlug = constants.RoleUser
	}
	if !slices.Contains(knownRoles, roleSlug) {
		return nil, errors.NewValidationError("Invalid role", cmd.Role)
	}

	departmentID := cmd.DepartmentID
	if departmentID != nil && *departmentID == 0 {
		departmentID = nil
	}

	staff, err := user.NewUser(cmd.FirstName, cmd.LastName, cmd.Email, strings.TrimSpace(cmd.JobTitle), departmentID)
	if err != nil {
		return nil, err
	}

	uc.logger.Infow("executing create staff use case", "email", staff.Email(), "role", roleSlug)

	existing, err := uc.userRepo.GetByEmail(ctx, staff.Email())
	if err != nil {
		uc.logger.Errorw("failed to check staff email", "email", staff.Email(), "error", err)
		return nil, errors.NewPersistenceError(createStaffFailedMessage)
	}
	if existing != nil {
		uc.logger.Warnw("staff member with email already exists", "email", staff.Email())
		return nil, errors.NewConflictError(duplicateEmailMessage, staff.Email())
	}

	role, err := uc.resolveReferences(ctx, departmentID, roleSlug)
	if err != nil {
		return nil, err
	}

	actorID := cmd.Principal.UserID
	err = uc.txRunner.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.userRepo.Create(txCtx, staff); err != nil {
			return err
		}
		if err := uc.roleRepo.AssignToUser(txCtx, staff.ID(), []uint{role.ID()}); err != nil {
			return err
		}
		entry, err := audit.NewEntry(constants.TableUsers, staff.ID(), audit.ActionCreate, &actorID, audit.Changes{
			"email": staff.Email(),
			"role":  roleSlug,
		}, uc.now())
		if err != nil {
			return err
		}
		return uc.auditRepo.Append(txCtx, entry)
	})
	if err != nil {
		if errors.IsDuplicateError(err) {
			return nil, errors.NewConflictError(duplicateEmailMessage, staff.Email())
		}
		uc.logger.Errorw("failed to create staff member", "email", staff.Email(), "error", err)
		return nil, errors.NewPersistenceError(createStaffFailedMessage)
	}

	created, err := uc.userRepo.GetByID(ctx, staff.ID())
	if err != nil || created == nil {
		uc.logger.Warnw("failed to reload created staff member", "user_id", staff.ID(), "error", err)
		created = staff
	}

	uc.logger.Infow("staff member created", "user_id", staff.ID(), "role", roleSlug)
	return &CreateStaffResult{Staff: dto.ToStaffDTO(created)}, nil
}

func (uc *CreateStaffUseCase) resolveReferences(ctx context.Context, departmentID *uint, roleSlug string) (*permission.Role, error) {
	if departmentID != nil {
		dept, err := uc.deptRepo.GetByID(ctx, *departmentID)
		if err != nil {
			uc.logger.Errorw("failed to load department", "department_id", *departmentID, "error", err)
			return nil, errors.NewPersistenceError(createStaffFailedMessage)
		}
		if dept == nil {
			return nil, errors.NewNotFoundError("Department not found")
		}
	}

	role, err := uc.roleRepo.GetBySlug(ctx, roleSlug)
	if err != nil {
		uc.logger.Errorw("failed to load role", "role", roleSlug, "error", err)
		return nil, errors.NewPersistenceError(createStaffFailedMessage)
	}
	if role == nil {
		return nil, errors.NewValidationError("Invalid role", roleSlug)
	}
	return role, nil
}
