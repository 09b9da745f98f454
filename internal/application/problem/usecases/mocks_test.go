package usecases

import (
	"context"
	"fmt"
	"html/template"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"helpdesk/internal/domain/audit"
	"helpdesk/internal/domain/equipment"
	"helpdesk/internal/domain/permission"
	"helpdesk/internal/domain/problem"
	vo "helpdesk/internal/domain/problem/valueobjects"
	"helpdesk/internal/domain/problemtype"
	"helpdesk/internal/domain/user"
	"helpdesk/internal/shared/errors"
	"helpdesk/internal/shared/logger"
)

// nopLogger is a no-op logger for testing.
type nopLogger struct{}

func newNopLogger() logger.Interface { return &nopLogger{} }

func (l *nopLogger) Debug(msg string, args ...any)           {}
func (l *nopLogger) Info(msg string, args ...any)            {}
func (l *nopLogger) Warn(msg string, args ...any)            {}
func (l *nopLogger) Error(msg string, args ...any)           {}
func (l *nopLogger) With(args ...any) logger.Interface       { return l }
func (l *nopLogger) Named(name string) logger.Interface      { return l }
func (l *nopLogger) Debugw(msg string, keysAndValues ...any) {}
func (l *nopLogger) Infow(msg string, keysAndValues ...any)  {}
func (l *nopLogger) Warnw(msg string, keysAndValues ...any)  {}
func (l *nopLogger) Errorw(msg string, keysAndValues ...any) {}

// mockAuthorizer grants exactly the permission names in Allowed.
type mockAuthorizer struct {
	Allowed []string
}

func allowAll() *mockAuthorizer {
	return &mockAuthorizer{Allowed: []string{
		"problem:create", "problem:read", "problem:update", "problem:assign", "problem:delete",
	}}
}

func (m *mockAuthorizer) Authorize(ctx context.Context, p *permission.Principal, resource, action string) error {
	if p == nil {
		return errors.NewUnauthorizedError("Authentication required")
	}
	name := permission.Name(resource, action)
	for _, allowed := range m.Allowed {
		if allowed == name {
			return nil
		}
	}
	return errors.NewForbiddenError("You do not have permission to perform this action")
}

type mockTxRunner struct {
	calls int
}

func (m *mockTxRunner) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

type mockProblemRepository struct {
	CreateFunc      func(ctx context.Context, p *problem.Problem) error
	UpdateFunc      func(ctx context.Context, p *problem.Problem) error
	GetByIDFunc     func(ctx context.Context, id uint) (*problem.Problem, error)
	GetByNumberFunc func(ctx context.Context, number string) (*problem.Problem, error)
	ListFunc        func(ctx context.Context, filter problem.ProblemFilter) ([]*problem.Problem, error)
	CountFunc       func(ctx context.Context, filter problem.ProblemFilter) (int64, error)
	ListOverdueFunc func(ctx context.Context, now time.Time) ([]*problem.Problem, error)

	updated []*problem.Problem
}

func (m *mockProblemRepository) Create(ctx context.Context, p *problem.Problem) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, p)
	}
	return p.SetID(1)
}

func (m *mockProblemRepository) Update(ctx context.Context, p *problem.Problem) error {
	m.updated = append(m.updated, p)
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, p)
	}
	return nil
}

func (m *mockProblemRepository) GetByID(ctx context.Context, id uint) (*problem.Problem, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockProblemRepository) GetByNumber(ctx context.Context, number string) (*problem.Problem, error) {
	if m.GetByNumberFunc != nil {
		return m.GetByNumberFunc(ctx, number)
	}
	return nil, nil
}

func (m *mockProblemRepository) List(ctx context.Context, filter problem.ProblemFilter) ([]*problem.Problem, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, nil
}

func (m *mockProblemRepository) Count(ctx context.Context, filter problem.ProblemFilter) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx, filter)
	}
	return 0, nil
}

func (m *mockProblemRepository) ListOverdue(ctx context.Context, now time.Time) ([]*problem.Problem, error) {
	if m.ListOverdueFunc != nil {
		return m.ListOverdueFunc(ctx, now)
	}
	return nil, nil
}

type mockHistoryRepository struct {
	AppendFunc        func(ctx context.Context, entry *problem.StatusHistoryEntry) error
	ListByProblemFunc func(ctx context.Context, problemID uint, limit int) ([]*problem.StatusHistoryEntry, error)

	appended []*problem.StatusHistoryEntry
}

func (m *mockHistoryRepository) Append(ctx context.Context, entry *problem.StatusHistoryEntry) error {
	if m.AppendFunc != nil {
		if err := m.AppendFunc(ctx, entry); err != nil {
			return err
		}
	}
	m.appended = append(m.appended, entry)
	return nil
}

func (m *mockHistoryRepository) ListByProblem(ctx context.Context, problemID uint, limit int) ([]*problem.StatusHistoryEntry, error) {
	if m.ListByProblemFunc != nil {
		return m.ListByProblemFunc(ctx, problemID, limit)
	}
	return nil, nil
}

type mockAuditRepository struct {
	AppendFunc func(ctx context.Context, entry *audit.Entry) error

	appended []*audit.Entry
}

func (m *mockAuditRepository) Append(ctx context.Context, entry *audit.Entry) error {
	if m.AppendFunc != nil {
		if err := m.AppendFunc(ctx, entry); err != nil {
			return err
		}
	}
	m.appended = append(m.appended, entry)
	return nil
}

func (m *mockAuditRepository) ListByRecord(ctx context.Context, tableName string, recordID uint) ([]*audit.Entry, error) {
	return nil, nil
}

type mockUserRepository struct {
	users            map[uint]*user.User
	GetByIDFunc      func(ctx context.Context, id uint) (*user.User, error)
	ListActiveFunc   func(ctx context.Context, filter user.ListFilter) ([]*user.User, error)
	CountActiveFunc  func(ctx context.Context) (int64, error)
	getByIDsRequests [][]uint
}

func (m *mockUserRepository) Create(ctx context.Context, u *user.User) error { return nil }

func (m *mockUserRepository) GetByID(ctx context.Context, id uint) (*user.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return m.users[id], nil
}

func (m *mockUserRepository) GetByIDs(ctx context.Context, ids []uint) ([]*user.User, error) {
	m.getByIDsRequests = append(m.getByIDsRequests, ids)
	out := make([]*user.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return nil, nil
}

func (m *mockUserRepository) Update(ctx context.Context, u *user.User) error { return nil }

func (m *mockUserRepository) ListActive(ctx context.Context, filter user.ListFilter) ([]*user.User, error) {
	if m.ListActiveFunc != nil {
		return m.ListActiveFunc(ctx, filter)
	}
	return nil, nil
}

func (m *mockUserRepository) CountActive(ctx context.Context) (int64, error) {
	if m.CountActiveFunc != nil {
		return m.CountActiveFunc(ctx)
	}
	return int64(len(m.users)), nil
}

type mockProblemTypeRepository struct {
	types map[uint]*problemtype.ProblemType
	err   error
}

func (m *mockProblemTypeRepository) Create(ctx context.Context, pt *problemtype.ProblemType) error {
	return nil
}

func (m *mockProblemTypeRepository) GetByID(ctx context.Context, id uint) (*problemtype.ProblemType, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.types[id], nil
}

func (m *mockProblemTypeRepository) GetByName(ctx context.Context, name string) (*problemtype.ProblemType, error) {
	return nil, nil
}

func (m *mockProblemTypeRepository) GetByIDs(ctx context.Context, ids []uint) ([]*problemtype.ProblemType, error) {
	out := make([]*problemtype.ProblemType, 0, len(ids))
	for _, id := range ids {
		if pt, ok := m.types[id]; ok {
			out = append(out, pt)
		}
	}
	return out, nil
}

func (m *mockProblemTypeRepository) ListActive(ctx context.Context) ([]*problemtype.ProblemType, error) {
	return nil, nil
}

type mockEquipmentRepository struct {
	items map[uint]*equipment.Equipment
}

func (m *mockEquipmentRepository) Create(ctx context.Context, eq *equipment.Equipment) error {
	return nil
}

func (m *mockEquipmentRepository) GetByID(ctx context.Context, id uint) (*equipment.Equipment, error) {
	return m.items[id], nil
}

func (m *mockEquipmentRepository) GetByIDs(ctx context.Context, ids []uint) ([]*equipment.Equipment, error) {
	return nil, nil
}

func (m *mockEquipmentRepository) GetBySerialNumber(ctx context.Context, serial string) (*equipment.Equipment, error) {
	return nil, nil
}

func (m *mockEquipmentRepository) List(ctx context.Context, assignedUserID *uint) ([]*equipment.Equipment, error) {
	return nil, nil
}

type mockNumberGenerator struct {
	GenerateFunc func(ctx context.Context, year int) (string, error)
	calls        int
}

func (m *mockNumberGenerator) Generate(ctx context.Context, year int) (string, error) {
	m.calls++
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, year)
	}
	return problem.FormatNumber(year, int64(m.calls)), nil
}

// mockViewCache is an in-memory cache that records invalidated paths.
// Keys carry a generation bumped by every invalidation.
type mockViewCache struct {
	mu          sync.Mutex
	entries     map[string][]byte
	generation  int
	invalidated []string
	hits        int
}

func newMockViewCache() *mockViewCache {
	return &mockViewCache{entries: make(map[string][]byte)}
}

func (m *mockViewCache) Get(ctx context.Context, path, variant string) ([]byte, string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := fmt.Sprintf("%d|%s|%s", m.generation, path, variant)
	data, ok := m.entries[key]
	if ok {
		m.hits++
	}
	return data, key, ok
}

func (m *mockViewCache) Set(ctx context.Context, key string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = data
}

func (m *mockViewCache) Invalidate(ctx context.Context, paths ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invalidated = append(m.invalidated, paths...)
	m.generation++
}

type mockMetrics struct {
	mu            sync.Mutex
	created       []string
	statusChanges [][2]string
	assigned      int
	deleted       int
	breached      int
}

func (m *mockMetrics) ProblemCreated(priority string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created = append(m.created, priority)
}

func (m *mockMetrics) StatusChanged(from, to string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statusChanges = append(m.statusChanges, [2]string{from, to})
}

func (m *mockMetrics) ProblemAssigned() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assigned++
}

func (m *mockMetrics) ProblemDeleted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted++
}

func (m *mockMetrics) SLABreached(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.breached += count
}

type mockRenderer struct{}

func (mockRenderer) Render(source string) (template.HTML, error) {
	return template.HTML("<p>" + template.HTMLEscapeString(source) + "</p>"), nil
}

var testNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func testPrincipal(id uint) *permission.Principal {
	return &permission.Principal{UserID: id, Roles: []string{"operator"}}
}

func ptrUint(v uint) *uint { return &v }
func ptrInt(v int) *int    { return &v }

func newTestProblem(t *testing.T, id uint, status vo.Status) *problem.Problem {
	t.Helper()
	p, err := problem.ReconstructProblem(
		id,
		problem.FormatNumber(2025, int64(id)),
		"Printer jammed",
		"Paper stuck in tray 2",
		vo.PriorityMedium,
		status,
		10,
		nil,
		ptrUint(3),
		nil,
		nil,
		nil,
		false,
		nil,
		testNow.Add(-2*time.Hour),
		testNow.Add(-2*time.Hour),
		nil,
		nil,
	)
	require.NoError(t, err)
	return p
}

func newTestUser(t *testing.T, id uint, email string, roles ...string) *user.User {
	t.Helper()
	u, err := user.ReconstructUser(id, "Test", email, email, nil, "", nil, "", true, roles, testNow, testNow, nil)
	require.NoError(t, err)
	return u
}
