package permission

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"helpdesk/internal/infrastructure/persistence/models"
	"helpdesk/internal/infrastructure/persistence/testdb"
	"helpdesk/internal/shared/logger"
)

func TestEnforcer_AddAndRemovePolicy(t *testing.T) {
	db := testdb.New(t)
	enforcer, err := NewEnforcer(db, logger.NewLogger())
	require.NoError(t, err)

	allowed, err := enforcer.Enforce("operator", "problem", "assign")
	require.NoError(t, err)
	assert.False(t, allowed)

	require.NoError(t, enforcer.AddPolicy("operator", "problem", "assign"))

	allowed, err = enforcer.Enforce("operator", "problem", "assign")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = enforcer.Enforce("user", "problem", "assign")
	require.NoError(t, err)
	assert.False(t, allowed)

	policies, err := enforcer.GetPolicies()
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"operator", "problem", "assign"}}, policies)

	require.NoError(t, enforcer.RemovePolicy("operator", "problem", "assign"))
	allowed, err = enforcer.Enforce("operator", "problem", "assign")
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestNewEnforcer_UsesMigratedCasbinTable(t *testing.T) {
	db := testdb.New(t)
	log := logger.NewLogger()

	first, err := NewEnforcer(db, log)
	require.NoError(t, err)
	require.NoError(t, first.AddPolicy("admin", "problem", "delete"))

	// a restart builds a second enforcer on the same schema
	second, err := NewEnforcer(db, log)
	require.NoError(t, err)
	allowed, err := second.Enforce("admin", "problem", "delete")
	require.NoError(t, err)
	assert.True(t, allowed)

	assert.Equal(t, int64(1), countPolicies(t, db))
}

func TestPermissionSync_MirrorsRolePermissions(t *testing.T) {
	db := testdb.New(t)
	log := logger.NewLogger()

	enforcer, err := NewEnforcer(db, log)
	require.NoError(t, err)

	testdb.GrantPermission(t, db, "specialist", "problem", "update")
	testdb.GrantPermission(t, db, "specialist", "problem", "read")
	require.NoError(t, enforcer.AddPolicy("specialist", "problem", "delete"))

	sync := NewPermissionSync(db, log)
	require.NoError(t, sync.SyncToCasbin(context.Background()))
	// second run inserts nothing new
	require.NoError(t, sync.SyncToCasbin(context.Background()))
	require.NoError(t, enforcer.LoadPolicy())

	allowed, err := enforcer.Enforce("specialist", "problem", "update")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = enforcer.Enforce("specialist", "problem", "delete")
	require.NoError(t, err)
	assert.False(t, allowed, "policy without a role_permissions row is removed")

	assert.Equal(t, int64(2), countPolicies(t, db))
}

func TestPermissionSync_RevokedGrantDisappears(t *testing.T) {
	db := testdb.New(t)
	log := logger.NewLogger()

	enforcer, err := NewEnforcer(db, log)
	require.NoError(t, err)
	testdb.GrantPermission(t, db, "operator", "problem", "assign")

	sync := NewPermissionSync(db, log)
	require.NoError(t, sync.SyncToCasbin(context.Background()))

	require.NoError(t, db.Where("1 = 1").Delete(&models.RolePermissionModel{}).Error)
	require.NoError(t, sync.SyncToCasbin(context.Background()))
	require.NoError(t, enforcer.LoadPolicy())

	allowed, err := enforcer.Enforce("operator", "problem", "assign")
	require.NoError(t, err)
	assert.False(t, allowed)
}

func countPolicies(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Table("casbin_rule").Where("ptype = ?", "p").Count(&n).Error)
	return n
}
