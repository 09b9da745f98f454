package usecases

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helpdesk/internal/domain/audit"
	"helpdesk/internal/domain/permission"
	"helpdesk/internal/domain/user"
	"helpdesk/internal/shared/errors"
	"helpdesk/internal/shared/logger"
)

type mockTxRunner struct {
	calls int
}

func (m *mockTxRunner) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

type mockDepartmentRepository struct {
	departments []*user.Department
}

func (m *mockDepartmentRepository) Create(ctx context.Context, dept *user.Department) error {
	return nil
}

func (m *mockDepartmentRepository) GetByID(ctx context.Context, id uint) (*user.Department, error) {
	for _, d := range m.departments {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, nil
}

func (m *mockDepartmentRepository) GetByName(ctx context.Context, name string) (*user.Department, error) {
	return nil, nil
}

func (m *mockDepartmentRepository) List(ctx context.Context) ([]*user.Department, error) {
	return m.departments, nil
}

type mockRoleRepository struct {
	assigned map[uint][]uint
}

func (m *mockRoleRepository) Create(ctx context.Context, role *permission.Role) error { return nil }
func (m *mockRoleRepository) List(ctx context.Context) ([]*permission.Role, error)    { return nil, nil }

func (m *mockRoleRepository) GetBySlug(ctx context.Context, slug string) (*permission.Role, error) {
	for i, s := range knownRoles {
		if s == slug {
			return permission.ReconstructRole(uint(i+1), slug, slug, "", true), nil
		}
	}
	return nil, nil
}

func (m *mockRoleRepository) AssignPermissions(ctx context.Context, roleID uint, permissionIDs []uint) error {
	return nil
}

func (m *mockRoleRepository) AssignToUser(ctx context.Context, userID uint, roleIDs []uint) error {
	if m.assigned == nil {
		m.assigned = map[uint][]uint{}
	}
	m.assigned[userID] = roleIDs
	return nil
}

func (m *mockRoleRepository) GetUserRoles(ctx context.Context, userID uint) ([]*permission.Role, error) {
	return nil, nil
}

func (m *mockRoleRepository) GetUserPermissions(ctx context.Context, userID uint) ([]string, error) {
	return nil, nil
}

func (m *mockRoleRepository) ListRolePermissions(ctx context.Context) ([][3]string, error) {
	return nil, nil
}

type mockAuditRepository struct {
	appended []*audit.Entry
}

func (m *mockAuditRepository) Append(ctx context.Context, entry *audit.Entry) error {
	m.appended = append(m.appended, entry)
	return nil
}

func (m *mockAuditRepository) ListByRecord(ctx context.Context, tableName string, recordID uint) ([]*audit.Entry, error) {
	return nil, nil
}

type createStaffFixture struct {
	users  *mockUserRepository
	roles  *mockRoleRepository
	audits *mockAuditRepository
	tx     *mockTxRunner
	uc     *CreateStaffUseCase
}

func newCreateStaffFixture(t *testing.T, allowed ...string) *createStaffFixture {
	f := &createStaffFixture{
		users:  staffFixture(t),
		roles:  &mockRoleRepository{},
		audits: &mockAuditRepository{},
		tx:     &mockTxRunner{},
	}
	depts := &mockDepartmentRepository{departments: []*user.Department{{ID: 3, Name: "Finance", IsActive: true}}}
	f.uc = NewCreateStaffUseCase(&mockAuthorizer{allowed: allowed}, f.tx, f.users, depts, f.roles, f.audits, logger.NewLogger())
	f.uc.now = func() time.Time { return testNow }
	return f
}

func TestCreateStaffUseCase_Execute(t *testing.T) {
	f := newCreateStaffFixture(t, "user:create")
	dept := uint(3)

	result, err := f.uc.Execute(context.Background(), CreateStaffCommand{
		Principal:    principal(1),
		FirstName:    " Grace ",
		LastName:     "Hopper",
		Email:        "Grace.Hopper@Example.com",
		JobTitle:     "Payroll Clerk",
		DepartmentID: &dept,
		Role:         "Specialist",
	})
	require.NoError(t, err)

	staff := result.Staff
	assert.NotZero(t, staff.ID)
	assert.Equal(t, "Grace Hopper", staff.Name)
	assert.Equal(t, "grace.hopper@example.com", staff.Email)
	assert.Equal(t, "Payroll Clerk", staff.JobTitle)
	assert.Equal(t, 1, f.tx.calls)

	assert.Equal(t, []uint{3}, f.roles.assigned[staff.ID], "specialist role")

	require.Len(t, f.audits.appended, 1)
	entry := f.audits.appended[0]
	assert.Equal(t, "users", entry.TableName())
	assert.Equal(t, staff.ID, entry.RecordID())
	assert.Equal(t, audit.ActionCreate, entry.Action())
	require.NotNil(t, entry.UserID())
	assert.Equal(t, uint(1), *entry.UserID())
	assert.Equal(t, "specialist", entry.Changes()["role"])
	assert.Equal(t, testNow, entry.CreatedAt())
}

func TestCreateStaffUseCase_Execute_DefaultsToStaffRole(t *testing.T) {
	f := newCreateStaffFixture(t, "user:create")

	result, err := f.uc.Execute(context.Background(), CreateStaffCommand{
		Principal: principal(1),
		FirstName: "Linus",
		LastName:  "Lee",
		Email:     "linus@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, []uint{4}, f.roles.assigned[result.Staff.ID])
}

func TestCreateStaffUseCase_Execute_Errors(t *testing.T) {
	missingDept := uint(99)

	tests := []struct {
		name    string
		allowed []string
		cmd     CreateStaffCommand
		check   func(error) bool
	}{
		{"forbidden", []string{"user:read"},
			CreateStaffCommand{Principal: principal(1), FirstName: "A", LastName: "B", Email: "a@example.com"}, errors.IsForbiddenError},
		{"duplicate email ignores case", []string{"user:create"},
			CreateStaffCommand{Principal: principal(1), FirstName: "Sam", LastName: "Again", Email: "SAM@example.com"}, errors.IsConflictError},
		{"invalid email", []string{"user:create"},
			CreateStaffCommand{Principal: principal(1), FirstName: "A", LastName: "B", Email: "not-an-email"}, errors.IsValidationError},
		{"missing name", []string{"user:create"},
			CreateStaffCommand{Principal: principal(1), FirstName: " ", LastName: "B", Email: "a@example.com"}, errors.IsValidationError},
		{"unknown role", []string{"user:create"},
			CreateStaffCommand{Principal: principal(1), FirstName: "A", LastName: "B", Email: "a@example.com", Role: "manager"}, errors.IsValidationError},
		{"unknown department", []string{"user:create"},
			CreateStaffCommand{Principal: principal(1), FirstName: "A", LastName: "B", Email: "a@example.com", DepartmentID: &missingDept}, errors.IsNotFoundError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCreateStaffFixture(t, tt.allowed...)

			_, err := f.uc.Execute(context.Background(), tt.cmd)
			require.Error(t, err)
			assert.True(t, tt.check(err), "got %v", err)
			assert.Zero(t, f.tx.calls)
			assert.Empty(t, f.audits.appended)
		})
	}
}

func TestCreateStaffUseCase_Execute_StorageErrors(t *testing.T) {
	t.Run("unique index race", func(t *testing.T) {
		f := newCreateStaffFixture(t, "user:create")
		f.users.createErr = stderrors.New("UNIQUE constraint failed: users.email")

		_, err := f.uc.Execute(context.Background(), CreateStaffCommand{
			Principal: principal(1), FirstName: "A", LastName: "B", Email: "a@example.com",
		})
		assert.True(t, errors.IsConflictError(err), "got %v", err)
		assert.Empty(t, f.audits.appended)
	})

	t.Run("other failure", func(t *testing.T) {
		f := newCreateStaffFixture(t, "user:create")
		f.users.createErr = stderrors.New("connection reset")

		_, err := f.uc.Execute(context.Background(), CreateStaffCommand{
			Principal: principal(1), FirstName: "A", LastName: "B", Email: "a@example.com",
		})
		assert.True(t, errors.IsPersistenceError(err), "got %v", err)
	})
}
