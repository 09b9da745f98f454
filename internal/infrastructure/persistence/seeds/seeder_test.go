package seeds

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"helpdesk/internal/domain/user"
	"helpdesk/internal/infrastructure/auth"
	infraPermission "helpdesk/internal/infrastructure/permission"
	"helpdesk/internal/infrastructure/persistence/models"
	"helpdesk/internal/infrastructure/persistence/testdb"
	"helpdesk/internal/infrastructure/repository"
	"helpdesk/internal/shared/db"
	"helpdesk/internal/shared/logger"
)

func newTestSeeder(gdb *gorm.DB) (*Seeder, user.Repository) {
	log := logger.NewLogger()
	userRepo := repository.NewUserRepository(gdb, log)
	return NewSeeder(
		db.NewTransactionManager(gdb),
		repository.NewRoleRepository(gdb),
		repository.NewPermissionRepository(gdb),
		repository.NewDepartmentRepository(gdb),
		userRepo,
		repository.NewProblemTypeRepository(gdb),
		repository.NewEquipmentRepository(gdb),
		auth.NewBcryptPasswordHasher(bcrypt.MinCost),
		infraPermission.NewPermissionSync(gdb, log),
		log,
	), userRepo
}

func TestDefaultFixtures_Parse(t *testing.T) {
	f, err := DefaultFixtures()
	require.NoError(t, err)

	assert.NotEmpty(t, f.Permissions)
	slugs := make([]string, 0, len(f.Roles))
	for _, r := range f.Roles {
		slugs = append(slugs, r.Slug)
	}
	assert.ElementsMatch(t, []string{"admin", "operator", "specialist", "user"}, slugs)

	var printer *ProblemTypeFixture
	for i := range f.ProblemTypes {
		if f.ProblemTypes[i].Name == "Printer" {
			printer = &f.ProblemTypes[i]
		}
	}
	require.NotNil(t, printer)
	assert.Equal(t, "Hardware", printer.Parent)
	require.NotNil(t, printer.ResponseMinutes)
	assert.Equal(t, 120, *printer.ResponseMinutes)
}

func TestParseFixtures_Invalid(t *testing.T) {
	_, err := ParseFixtures([]byte("roles: [unterminated"))
	assert.Error(t, err)
}

func TestSeeder_Seed(t *testing.T) {
	gdb := testdb.New(t)
	seeder, userRepo := newTestSeeder(gdb)
	ctx := context.Background()

	f, err := DefaultFixtures()
	require.NoError(t, err)
	require.NoError(t, seeder.Seed(ctx, f, "password123"))

	admin, err := userRepo.GetByEmail(ctx, "admin@helpdesk.local")
	require.NoError(t, err)
	require.NotNil(t, admin)
	assert.True(t, admin.HasRole("admin"))
	assert.Equal(t, "IT Services", admin.DepartmentName())
	require.NotNil(t, admin.PasswordHash())
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*admin.PasswordHash()), []byte("password123")))

	specialists, err := userRepo.ListActive(ctx, user.ListFilter{Role: "specialist"})
	require.NoError(t, err)
	assert.Len(t, specialists, 2)

	var policyCount int64
	require.NoError(t, gdb.Table("casbin_rule").Where("ptype = ?", "p").Count(&policyCount).Error)
	var grantCount int
	for _, r := range f.Roles {
		grantCount += len(r.Permissions)
	}
	assert.Equal(t, int64(grantCount), policyCount)

	var laptop models.EquipmentModel
	require.NoError(t, gdb.Where("serial_number = ?", "DL-5520-0001").First(&laptop).Error)
	require.NotNil(t, laptop.AssignedUserID)

	var printer, hardware models.ProblemTypeModel
	require.NoError(t, gdb.Where("name = ?", "Printer").First(&printer).Error)
	require.NoError(t, gdb.Where("name = ?", "Hardware").First(&hardware).Error)
	require.NotNil(t, printer.ParentID)
	assert.Equal(t, hardware.ID, *printer.ParentID)
}

func TestSeeder_SeedIsIdempotent(t *testing.T) {
	gdb := testdb.New(t)
	seeder, _ := newTestSeeder(gdb)
	ctx := context.Background()

	f, err := DefaultFixtures()
	require.NoError(t, err)
	require.NoError(t, seeder.Seed(ctx, f, "password123"))
	require.NoError(t, seeder.Seed(ctx, f, "password123"))

	var users, equipment, roleGrants int64
	require.NoError(t, gdb.Model(&models.UserModel{}).Count(&users).Error)
	require.NoError(t, gdb.Model(&models.EquipmentModel{}).Count(&equipment).Error)
	require.NoError(t, gdb.Model(&models.RolePermissionModel{}).Count(&roleGrants).Error)

	assert.Equal(t, int64(len(f.Users)), users)
	assert.Equal(t, int64(len(f.Equipment)), equipment)

	var grantCount int
	for _, r := range f.Roles {
		grantCount += len(r.Permissions)
	}
	assert.Equal(t, int64(grantCount), roleGrants)
}

func TestSeeder_UnknownReferenceRollsBack(t *testing.T) {
	gdb := testdb.New(t)
	seeder, _ := newTestSeeder(gdb)

	f := &Fixtures{
		Roles: []RoleFixture{{Name: "Staff", Slug: "user", Permissions: []string{"problem:fly"}}},
	}
	err := seeder.Seed(context.Background(), f, "password123")
	require.Error(t, err)

	var roles int64
	require.NoError(t, gdb.Model(&models.RoleModel{}).Count(&roles).Error)
	assert.Zero(t, roles)
}

func TestSeeder_RequiresPassword(t *testing.T) {
	gdb := testdb.New(t)
	seeder, _ := newTestSeeder(gdb)

	err := seeder.Seed(context.Background(), &Fixtures{}, "")
	assert.Error(t, err)
}
