package usecases

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helpdesk/internal/domain/audit"
	"helpdesk/internal/domain/problem"
	vo "helpdesk/internal/domain/problem/valueobjects"
	"helpdesk/internal/shared/errors"
)

func newChangeStatusFixture(t *testing.T, current *problem.Problem) (*ChangeStatusUseCase, *mockProblemRepository, *mockHistoryRepository, *mockAuditRepository, *mockViewCache, *mockMetrics) {
	t.Helper()
	problems := &mockProblemRepository{
		GetByIDFunc: func(ctx context.Context, id uint) (*problem.Problem, error) {
			if current != nil && current.ID() == id {
				return current, nil
			}
			return nil, nil
		},
	}
	history := &mockHistoryRepository{}
	audits := &mockAuditRepository{}
	cache := newMockViewCache()
	metrics := &mockMetrics{}

	uc := NewChangeStatusUseCase(allowAll(), &mockTxRunner{}, problems, history, audits, cache, metrics, newNopLogger())
	uc.now = func() time.Time { return testNow }
	return uc, problems, history, audits, cache, metrics
}

func TestChangeStatusUseCase_Execute_Success(t *testing.T) {
	tests := []struct {
		name      string
		oldStatus vo.Status
		newStatus vo.Status
	}{
		{"open to assigned", vo.StatusOpen, vo.StatusAssigned},
		{"assigned to in_progress", vo.StatusAssigned, vo.StatusInProgress},
		{"in_progress to resolved", vo.StatusInProgress, vo.StatusResolved},
		{"resolved to closed", vo.StatusResolved, vo.StatusClosed},
		{"awaiting_user to in_progress", vo.StatusAwaitingUser, vo.StatusInProgress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestProblem(t, 1, tt.oldStatus)
			uc, problems, history, audits, cache, metrics := newChangeStatusFixture(t, p)

			result, err := uc.Execute(context.Background(), ChangeStatusCommand{
				Principal: testPrincipal(5),
				ProblemID: 1,
				NewStatus: tt.newStatus.String(),
			})
			require.NoError(t, err)

			assert.Equal(t, tt.oldStatus.String(), result.OldStatus)
			assert.Equal(t, tt.newStatus.String(), result.NewStatus)
			require.Len(t, problems.updated, 1)

			require.Len(t, history.appended, 1)
			entry := history.appended[0]
			require.NotNil(t, entry.OldStatus())
			assert.Equal(t, tt.oldStatus, *entry.OldStatus())
			assert.Equal(t, tt.newStatus, entry.NewStatus())
			assert.Equal(t, uint(5), entry.ChangedBy())
			assert.Equal(t, "Status changed to "+tt.newStatus.String(), entry.Reason())

			require.Len(t, audits.appended, 1)
			assert.Equal(t, audit.ActionUpdate, audits.appended[0].Action())
			assert.Equal(t, audit.Changes{
				"status": audit.Change{From: tt.oldStatus.String(), To: tt.newStatus.String()},
			}, audits.appended[0].Changes())

			assert.ElementsMatch(t, []string{"/dashboard", "/dashboard/problems", "/dashboard/problems/1"}, cache.invalidated)
			assert.Equal(t, [][2]string{{tt.oldStatus.String(), tt.newStatus.String()}}, metrics.statusChanges)
		})
	}
}

func TestChangeStatusUseCase_Execute_KeepsGivenReason(t *testing.T) {
	p := newTestProblem(t, 1, vo.StatusInProgress)
	uc, _, history, _, _, _ := newChangeStatusFixture(t, p)

	_, err := uc.Execute(context.Background(), ChangeStatusCommand{
		Principal: testPrincipal(5),
		ProblemID: 1,
		NewStatus: "awaiting_user",
		Reason:    "  Waiting for the user to reboot  ",
	})
	require.NoError(t, err)
	assert.Equal(t, "Waiting for the user to reboot", history.appended[0].Reason())
}

func TestChangeStatusUseCase_Execute_SameStatusIsRecorded(t *testing.T) {
	p := newTestProblem(t, 1, vo.StatusInProgress)
	uc, _, history, audits, _, _ := newChangeStatusFixture(t, p)

	cmd := ChangeStatusCommand{Principal: testPrincipal(5), ProblemID: 1, NewStatus: "in_progress"}
	_, err := uc.Execute(context.Background(), cmd)
	require.NoError(t, err)
	_, err = uc.Execute(context.Background(), cmd)
	require.NoError(t, err)

	assert.Len(t, history.appended, 2)
	assert.Len(t, audits.appended, 2)
}

func TestChangeStatusUseCase_Execute_SetsAndClearsResolvedAt(t *testing.T) {
	p := newTestProblem(t, 1, vo.StatusInProgress)
	uc, _, _, _, _, _ := newChangeStatusFixture(t, p)

	_, err := uc.Execute(context.Background(), ChangeStatusCommand{Principal: testPrincipal(5), ProblemID: 1, NewStatus: "resolved"})
	require.NoError(t, err)
	require.NotNil(t, p.ResolvedAt())
	assert.Equal(t, testNow, *p.ResolvedAt())

	_, err = uc.Execute(context.Background(), ChangeStatusCommand{Principal: testPrincipal(5), ProblemID: 1, NewStatus: "in_progress"})
	require.NoError(t, err)
	assert.Nil(t, p.ResolvedAt())
}

func TestChangeStatusUseCase_Execute_InvalidTransition(t *testing.T) {
	tests := []struct {
		from vo.Status
		to   string
	}{
		{vo.StatusClosed, "open"},
		{vo.StatusCancelled, "in_progress"},
		{vo.StatusOpen, "resolved"},
		{vo.StatusResolved, "open"},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+tt.to, func(t *testing.T) {
			p := newTestProblem(t, 1, tt.from)
			uc, problems, history, audits, cache, _ := newChangeStatusFixture(t, p)

			_, err := uc.Execute(context.Background(), ChangeStatusCommand{Principal: testPrincipal(5), ProblemID: 1, NewStatus: tt.to})
			require.Error(t, err)
			assert.True(t, errors.IsInvalidTransitionError(err), "got %v", err)
			assert.Equal(t, 409, errors.GetAppError(err).Code)

			assert.Empty(t, problems.updated)
			assert.Empty(t, history.appended)
			assert.Empty(t, audits.appended)
			assert.Empty(t, cache.invalidated)
			assert.Equal(t, tt.from, p.Status())
		})
	}
}

func TestChangeStatusUseCase_Execute_Errors(t *testing.T) {
	deleted := newTestProblem(t, 2, vo.StatusOpen)
	require.NoError(t, deleted.SoftDelete(9, testNow))

	tests := []struct {
		name    string
		current *problem.Problem
		cmd     ChangeStatusCommand
		check   func(error) bool
	}{
		{
			name:  "unknown status",
			cmd:   ChangeStatusCommand{Principal: testPrincipal(5), ProblemID: 1, NewStatus: "escalated"},
			check: errors.IsValidationError,
		},
		{
			name:  "missing problem id",
			cmd:   ChangeStatusCommand{Principal: testPrincipal(5), NewStatus: "assigned"},
			check: errors.IsValidationError,
		},
		{
			name:  "missing problem",
			cmd:   ChangeStatusCommand{Principal: testPrincipal(5), ProblemID: 1, NewStatus: "assigned"},
			check: errors.IsNotFoundError,
		},
		{
			name:    "soft-deleted problem",
			current: deleted,
			cmd:     ChangeStatusCommand{Principal: testPrincipal(5), ProblemID: 2, NewStatus: "assigned"},
			check:   errors.IsNotFoundError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, _, history, _, _, _ := newChangeStatusFixture(t, tt.current)

			_, err := uc.Execute(context.Background(), tt.cmd)
			require.Error(t, err)
			assert.True(t, tt.check(err), "got %v", err)
			assert.Empty(t, history.appended)
		})
	}
}

func TestChangeStatusUseCase_Execute_RequiresUpdatePermission(t *testing.T) {
	p := newTestProblem(t, 1, vo.StatusOpen)
	uc, _, history, _, _, _ := newChangeStatusFixture(t, p)
	uc.authorizer = &mockAuthorizer{Allowed: []string{"problem:read"}}

	_, err := uc.Execute(context.Background(), ChangeStatusCommand{Principal: testPrincipal(5), ProblemID: 1, NewStatus: "cancelled"})
	require.Error(t, err)
	assert.True(t, errors.IsForbiddenError(err))
	assert.Empty(t, history.appended)
}

func TestChangeStatusUseCase_Execute_HidesStorageErrors(t *testing.T) {
	p := newTestProblem(t, 1, vo.StatusOpen)
	uc, problems, _, _, cache, _ := newChangeStatusFixture(t, p)
	problems.UpdateFunc = func(ctx context.Context, p *problem.Problem) error {
		return stderrors.New("database is locked")
	}

	_, err := uc.Execute(context.Background(), ChangeStatusCommand{Principal: testPrincipal(5), ProblemID: 1, NewStatus: "cancelled"})
	require.Error(t, err)
	assert.True(t, errors.IsPersistenceError(err))
	assert.NotContains(t, err.Error(), "locked")
	assert.Empty(t, cache.invalidated)
}
