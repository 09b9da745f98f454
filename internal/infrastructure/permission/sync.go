package permission

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"helpdesk/internal/shared/logger"
)

// PermissionSync copies role_permissions into casbin_rule so that the
// enforcer reflects the relational grants. Stale policies are removed.
type PermissionSync struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewPermissionSync(db *gorm.DB, logger logger.Interface) *PermissionSync {
	return &PermissionSync{
		db:     db,
		logger: logger,
	}
}

func (s *PermissionSync) SyncToCasbin(ctx context.Context) error {
	s.logger.Info("syncing permissions to Casbin...")

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.syncRolePermissions(tx); err != nil {
			return err
		}
		return s.removeStalePolicies(tx)
	})
	if err != nil {
		return fmt.Errorf("failed to sync role permissions: %w", err)
	}

	s.logger.Info("permissions synced to Casbin successfully")
	return nil
}

func (s *PermissionSync) syncRolePermissions(tx *gorm.DB) error {
	query := `
		INSERT INTO casbin_rule (ptype, v0, v1, v2, v3, v4, v5)
		SELECT DISTINCT
			'p',
			r.slug,
			p.resource,
			p.action,
			'', '', ''
		FROM role_permissions rp
		JOIN roles r ON rp.role_id = r.id
		JOIN permissions p ON rp.permission_id = p.id
		WHERE NOT EXISTS (
			SELECT 1 FROM casbin_rule cr
			WHERE cr.ptype = 'p'
			AND cr.v0 = r.slug
			AND cr.v1 = p.resource
			AND cr.v2 = p.action
		)
	`

	result := tx.Exec(query)
	if result.Error != nil {
		return fmt.Errorf("failed to sync role permissions: %w", result.Error)
	}

	if result.RowsAffected > 0 {
		s.logger.Infow("synced role permissions to Casbin", "count", result.RowsAffected)
	}

	return nil
}

func (s *PermissionSync) removeStalePolicies(tx *gorm.DB) error {
	query := `
		DELETE FROM casbin_rule
		WHERE ptype = 'p'
		AND NOT EXISTS (
			SELECT 1 FROM role_permissions rp
			JOIN roles r ON rp.role_id = r.id
			JOIN permissions p ON rp.permission_id = p.id
			WHERE r.slug = casbin_rule.v0
			AND p.resource = casbin_rule.v1
			AND p.action = casbin_rule.v2
		)
	`

	result := tx.Exec(query)
	if result.Error != nil {
		return fmt.Errorf("failed to remove stale policies: %w", result.Error)
	}

	if result.RowsAffected > 0 {
		s.logger.Infow("removed stale Casbin policies", "count", result.RowsAffected)
	}

	return nil
}
