package permission

import (
	"context"

	"helpdesk/internal/domain/permission"
	"helpdesk/internal/shared/errors"
	"helpdesk/internal/shared/logger"
)

var _ permission.Authorizer = (*Service)(nil)

// PolicySyncer mirrors relational grants into the enforcer's store.
type PolicySyncer interface {
	SyncToCasbin(ctx context.Context) error
}

// Service answers authorization questions for the use cases.
type Service struct {
	roleRepo permission.RoleRepository
	enforcer permission.PermissionEnforcer
	syncer   PolicySyncer
	logger   logger.Interface
}

func NewService(
	roleRepo permission.RoleRepository,
	enforcer permission.PermissionEnforcer,
	syncer PolicySyncer,
	logger logger.Interface,
) *Service {
	return &Service{
		roleRepo: roleRepo,
		enforcer: enforcer,
		syncer:   syncer,
		logger:   logger,
	}
}

// Authorize allows the call when any of the principal's roles holds the policy.
func (s *Service) Authorize(ctx context.Context, principal *permission.Principal, resource, action string) error {
	if principal == nil || principal.UserID == 0 {
		return errors.NewUnauthorizedError("Authentication required")
	}

	allowed, err := s.enforce(principal, resource, action)
	if err != nil {
		return errors.NewInternalError("Permission check failed")
	}
	if allowed {
		return nil
	}

	s.logger.Warnw("permission denied",
		"user_id", principal.UserID,
		"roles", principal.Roles,
		"permission", permission.Name(resource, action),
	)
	return errors.NewForbiddenError("You do not have permission to perform this action")
}

// Can answers the same question as Authorize without logging a denial.
// Pages use it to decide which actions to offer.
func (s *Service) Can(ctx context.Context, principal *permission.Principal, resource, action string) bool {
	if principal == nil || principal.UserID == 0 {
		return false
	}
	allowed, err := s.enforce(principal, resource, action)
	return err == nil && allowed
}

func (s *Service) enforce(principal *permission.Principal, resource, action string) (bool, error) {
	for _, role := range principal.Roles {
		allowed, err := s.enforcer.Enforce(role, resource, action)
		if err != nil {
			s.logger.Errorw("permission check failed",
				"user_id", principal.UserID,
				"role", role,
				"error", err,
			)
			return false, err
		}
		if allowed {
			return true, nil
		}
	}
	return false, nil
}

// GetUserPermissions returns the permission names granted through the user's roles.
func (s *Service) GetUserPermissions(ctx context.Context, userID uint) ([]string, error) {
	return s.roleRepo.GetUserPermissions(ctx, userID)
}

// SyncPolicies refreshes the enforcer from role_permissions.
func (s *Service) SyncPolicies(ctx context.Context) error {
	if err := s.syncer.SyncToCasbin(ctx); err != nil {
		s.logger.Errorw("failed to sync permission policies", "error", err)
		return err
	}
	return s.enforcer.LoadPolicy()
}
