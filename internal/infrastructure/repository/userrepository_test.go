package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helpdesk/internal/domain/permission"
	"helpdesk/internal/domain/user"
	"helpdesk/internal/infrastructure/persistence/testdb"
	"helpdesk/internal/shared/constants"
	"helpdesk/internal/shared/logger"
)

func TestUserRepository(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()
	users := NewUserRepository(db, logger.NewLogger())
	depts := NewDepartmentRepository(db)
	roles := NewRoleRepository(db)

	it := &user.Department{Name: "IT", Location: "HQ", IsActive: true}
	require.NoError(t, depts.Create(ctx, it))

	specialistRole, err := permission.NewRole("Specialist", constants.RoleSpecialist, "", true)
	require.NoError(t, err)
	require.NoError(t, roles.Create(ctx, specialistRole))

	newUser := func(first, last, email string) *user.User {
		u, err := user.NewUser(first, last, email, "Engineer", &it.ID)
		require.NoError(t, err)
		u.SetPasswordHash("hash")
		require.NoError(t, users.Create(ctx, u))
		return u
	}

	alice := newUser("Alice", "Zimmer", "Alice@Example.com")
	bob := newUser("Bob", "Adams", "bob@example.com")
	carol := newUser("Carol", "Baker", "carol@example.com")
	require.NoError(t, roles.AssignToUser(ctx, alice.ID(), []uint{specialistRole.ID()}))
	require.NoError(t, roles.AssignToUser(ctx, carol.ID(), []uint{specialistRole.ID()}))

	carol.Deactivate()
	require.NoError(t, users.Update(ctx, carol))

	t.Run("get by email loads roles and department", func(t *testing.T) {
		found, err := users.GetByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, alice.ID(), found.ID())
		assert.Equal(t, []string{constants.RoleSpecialist}, found.Roles())
		assert.Equal(t, "IT", found.DepartmentName())
		assert.True(t, found.CanLogin())
	})

	t.Run("unknown email", func(t *testing.T) {
		found, err := users.GetByEmail(ctx, "nobody@example.com")
		assert.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("update persists inactive flag", func(t *testing.T) {
		found, err := users.GetByID(ctx, carol.ID())
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.False(t, found.IsActive())
		assert.False(t, found.IsAssignableSpecialist())
	})

	t.Run("list active by role", func(t *testing.T) {
		specialists, err := users.ListActive(ctx, user.ListFilter{Role: constants.RoleSpecialist})
		require.NoError(t, err)
		require.Len(t, specialists, 1)
		assert.Equal(t, alice.ID(), specialists[0].ID())
		assert.True(t, specialists[0].IsAssignableSpecialist())
	})

	t.Run("list active ordered by last name", func(t *testing.T) {
		all, err := users.ListActive(ctx, user.ListFilter{})
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, bob.ID(), all[0].ID())
		assert.Equal(t, alice.ID(), all[1].ID())
	})

	t.Run("get by ids skips unknown", func(t *testing.T) {
		found, err := users.GetByIDs(ctx, []uint{alice.ID(), bob.ID(), 999})
		require.NoError(t, err)
		assert.Len(t, found, 2)
	})

	t.Run("count active", func(t *testing.T) {
		count, err := users.CountActive(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 2, count)
	})
}

func TestRoleRepository_Permissions(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()
	roles := NewRoleRepository(db)
	perms := NewPermissionRepository(db)

	operator, err := permission.NewRole("Operator", constants.RoleOperator, "", true)
	require.NoError(t, err)
	require.NoError(t, roles.Create(ctx, operator))

	var ids []uint
	for _, action := range []string{permission.ActionRead, permission.ActionAssign} {
		p, err := permission.NewPermission(permission.ResourceProblem, action, "")
		require.NoError(t, err)
		require.NoError(t, perms.Create(ctx, p))
		ids = append(ids, p.ID())
	}
	require.NoError(t, roles.AssignPermissions(ctx, operator.ID(), ids))
	// granting twice keeps a single row
	require.NoError(t, roles.AssignPermissions(ctx, operator.ID(), ids[:1]))

	userID := testdb.CreateUser(t, db, "op@example.com")
	require.NoError(t, roles.AssignToUser(ctx, userID, []uint{operator.ID()}))

	names, err := roles.GetUserPermissions(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, []string{"problem:assign", "problem:read"}, names)

	userRoles, err := roles.GetUserRoles(ctx, userID)
	require.NoError(t, err)
	require.Len(t, userRoles, 1)
	assert.Equal(t, constants.RoleOperator, userRoles[0].Slug())

	triples, err := roles.ListRolePermissions(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, [][3]string{
		{constants.RoleOperator, "problem", "read"},
		{constants.RoleOperator, "problem", "assign"},
	}, triples)

	found, err := perms.GetByName(ctx, "problem", "assign")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "problem:assign", found.Name())

	missing, err := roles.GetBySlug(ctx, "ghost")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}
