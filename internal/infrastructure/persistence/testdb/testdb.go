// Package testdb opens migrated in-memory sqlite databases for tests.
package testdb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"helpdesk/internal/infrastructure/database"
	"helpdesk/internal/infrastructure/migration"
	"helpdesk/internal/infrastructure/persistence/models"
	"helpdesk/internal/shared/config"
)

// New returns a fresh database with the goose sqlite scripts applied.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Open(&config.DatabaseConfig{Driver: "sqlite", Database: ":memory:"})
	require.NoError(t, err)

	strategy, err := migration.NewGooseStrategy("sqlite")
	require.NoError(t, err)
	require.NoError(t, strategy.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// CreateRole inserts a role row and returns its ID, reusing an existing slug.
func CreateRole(t testing.TB, db *gorm.DB, slug string) uint {
	t.Helper()

	var role models.RoleModel
	err := db.Where(models.RoleModel{Slug: slug}).
		Attrs(models.RoleModel{Name: slug}).
		FirstOrCreate(&role).Error
	require.NoError(t, err)
	return role.ID
}

// GrantPermission gives role slug the resource:action permission.
func GrantPermission(t testing.TB, db *gorm.DB, slug, resource, action string) {
	t.Helper()

	roleID := CreateRole(t, db, slug)
	var perm models.PermissionModel
	err := db.Where(models.PermissionModel{Resource: resource, Action: action}).
		FirstOrCreate(&perm).Error
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.RolePermissionModel{RoleID: roleID, PermissionID: perm.ID}).Error)
}

// CreateUser inserts an active user holding the given role slugs.
func CreateUser(t testing.TB, db *gorm.DB, email string, roles ...string) uint {
	t.Helper()

	u := models.UserModel{
		FirstName: "Test",
		LastName:  email,
		Email:     email,
		IsActive:  true,
	}
	require.NoError(t, db.Create(&u).Error)

	for _, slug := range roles {
		roleID := CreateRole(t, db, slug)
		require.NoError(t, db.Create(&models.UserRoleModel{UserID: u.ID, RoleID: roleID}).Error)
	}
	return u.ID
}

// CreateProblemType inserts an active problem type with optional SLA minutes.
func CreateProblemType(t testing.TB, db *gorm.DB, name string, responseMinutes, resolutionMinutes *int) uint {
	t.Helper()

	pt := models.ProblemTypeModel{
		Name:                 name,
		SLAResponseMinutes:   responseMinutes,
		SLAResolutionMinutes: resolutionMinutes,
		IsActive:             true,
		CreatedAt:            time.Now().UTC(),
	}
	require.NoError(t, db.Create(&pt).Error)
	return pt.ID
}

// CreateEquipment inserts an active equipment row.
func CreateEquipment(t testing.TB, db *gorm.DB, serial string) uint {
	t.Helper()

	eq := models.EquipmentModel{
		SerialNumber:  serial,
		Make:          "Dell",
		Model:         "Latitude",
		EquipmentType: "laptop",
		Status:        "active",
	}
	require.NoError(t, db.Create(&eq).Error)
	return eq.ID
}
