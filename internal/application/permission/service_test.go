package permission

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helpdesk/internal/domain/permission"
	apperrors "helpdesk/internal/shared/errors"
	"helpdesk/internal/shared/logger"
)

type mockEnforcer struct {
	policies map[[3]string]bool
	err      error
	loaded   int
}

func (m *mockEnforcer) Enforce(role, resource, action string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return m.policies[[3]string{role, resource, action}], nil
}

func (m *mockEnforcer) AddPolicy(role, resource, action string) error {
	m.policies[[3]string{role, resource, action}] = true
	return nil
}

func (m *mockEnforcer) RemovePolicy(role, resource, action string) error {
	delete(m.policies, [3]string{role, resource, action})
	return nil
}

func (m *mockEnforcer) GetPolicies() ([][]string, error) { return nil, nil }

func (m *mockEnforcer) LoadPolicy() error {
	m.loaded++
	return nil
}

type mockSyncer struct {
	err   error
	calls int
}

func (m *mockSyncer) SyncToCasbin(ctx context.Context) error {
	m.calls++
	return m.err
}

func newTestService(enforcer *mockEnforcer, syncer *mockSyncer) *Service {
	return NewService(nil, enforcer, syncer, logger.NewLogger())
}

func TestService_Authorize(t *testing.T) {
	enforcer := &mockEnforcer{policies: map[[3]string]bool{
		{"operator", "problem", "assign"}: true,
	}}
	svc := newTestService(enforcer, &mockSyncer{})
	ctx := context.Background()

	t.Run("nil principal", func(t *testing.T) {
		err := svc.Authorize(ctx, nil, "problem", "read")
		require.Error(t, err)
		assert.Equal(t, 401, apperrors.GetAppError(err).Code)
	})

	t.Run("any role grants", func(t *testing.T) {
		p := &permission.Principal{UserID: 1, Roles: []string{"user", "operator"}}
		assert.NoError(t, svc.Authorize(ctx, p, "problem", "assign"))
	})

	t.Run("no role grants", func(t *testing.T) {
		p := &permission.Principal{UserID: 2, Roles: []string{"specialist"}}
		err := svc.Authorize(ctx, p, "problem", "assign")
		require.Error(t, err)
		assert.True(t, apperrors.IsForbiddenError(err))
	})

	t.Run("principal without roles", func(t *testing.T) {
		p := &permission.Principal{UserID: 3}
		assert.True(t, apperrors.IsForbiddenError(svc.Authorize(ctx, p, "problem", "read")))
	})

	t.Run("enforcer failure is internal", func(t *testing.T) {
		broken := newTestService(&mockEnforcer{err: errors.New("boom")}, &mockSyncer{})
		p := &permission.Principal{UserID: 1, Roles: []string{"admin"}}
		err := broken.Authorize(ctx, p, "problem", "read")
		require.Error(t, err)
		assert.Equal(t, 500, apperrors.GetAppError(err).Code)
	})
}

func TestService_SyncPolicies(t *testing.T) {
	enforcer := &mockEnforcer{policies: map[[3]string]bool{}}
	syncer := &mockSyncer{}
	svc := newTestService(enforcer, syncer)

	require.NoError(t, svc.SyncPolicies(context.Background()))
	assert.Equal(t, 1, syncer.calls)
	assert.Equal(t, 1, enforcer.loaded)

	syncer.err = errors.New("db down")
	require.Error(t, svc.SyncPolicies(context.Background()))
	assert.Equal(t, 1, enforcer.loaded)
}

func TestService_Can(t *testing.T) {
	enforcer := &mockEnforcer{policies: map[[3]string]bool{
		{"admin", "problem", "delete"}: true,
	}}
	svc := newTestService(enforcer, &mockSyncer{})
	ctx := context.Background()

	admin := &permission.Principal{UserID: 1, Roles: []string{"admin"}}
	assert.True(t, svc.Can(ctx, admin, "problem", "delete"))

	// a permission name captured in the session does not grant the action
	stale := &permission.Principal{UserID: 2, Roles: []string{"user"}, Permissions: []string{"problem:delete"}}
	assert.False(t, svc.Can(ctx, stale, "problem", "delete"))
	assert.False(t, svc.Can(ctx, nil, "problem", "delete"))

	enforcer.err = errors.New("adapter closed")
	assert.False(t, svc.Can(ctx, admin, "problem", "delete"))
}
