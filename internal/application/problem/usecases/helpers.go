package usecases

import (
	"context"
	"fmt"
	"time"

	"helpdesk/internal/domain/audit"
	"helpdesk/internal/domain/permission"
	"helpdesk/internal/domain/problem"
	vo "helpdesk/internal/domain/problem/valueobjects"
	"helpdesk/internal/domain/problemtype"
	"helpdesk/internal/domain/user"
	"helpdesk/internal/shared/constants"
	"helpdesk/internal/shared/errors"
)

// mutationPaths lists the cached views a change to problem id makes stale.
func mutationPaths(id uint) []string {
	paths := []string{constants.PathDashboard, constants.PathProblemsList}
	if id != 0 {
		paths = append(paths, problemPath(id))
	}
	return paths
}

func problemPath(id uint) string {
	return fmt.Sprintf(constants.PathProblemFmt, id)
}

func principalID(p *permission.Principal) uint {
	if p == nil {
		return 0
	}
	return p.UserID
}

// persistenceError keeps domain and authorization errors raised inside a
// transaction and hides everything else behind message.
func persistenceError(err error, message string) error {
	if errors.IsAppError(err) {
		return err
	}
	return errors.NewPersistenceError(message)
}

func loadLiveProblem(ctx context.Context, repo problem.ProblemRepository, id uint) (*problem.Problem, error) {
	p, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil || p.IsDeleted() {
		return nil, errors.NewNotFoundError("Problem not found")
	}
	return p, nil
}

func appendHistory(ctx context.Context, repo problem.StatusHistoryRepository, problemID uint, old *vo.Status, next vo.Status, actorID uint, reason string, at time.Time) error {
	entry, err := problem.NewStatusHistoryEntry(problemID, old, next, actorID, reason, at)
	if err != nil {
		return err
	}
	if err := repo.Append(ctx, entry); err != nil {
		return fmt.Errorf("failed to append status history: %w", err)
	}
	return nil
}

func appendAudit(ctx context.Context, repo audit.Repository, problemID uint, action audit.Action, actorID *uint, changes audit.Changes, at time.Time) error {
	entry, err := audit.NewEntry(constants.TableProblems, problemID, action, actorID, changes, at)
	if err != nil {
		return err
	}
	if err := repo.Append(ctx, entry); err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}
	return nil
}

// loadUsers batch-loads the given user IDs, skipping nils and duplicates.
func loadUsers(ctx context.Context, repo user.Repository, ids ...*uint) ([]*user.User, error) {
	seen := make(map[uint]struct{}, len(ids))
	unique := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == nil || *id == 0 {
			continue
		}
		if _, ok := seen[*id]; ok {
			continue
		}
		seen[*id] = struct{}{}
		unique = append(unique, *id)
	}
	if len(unique) == 0 {
		return nil, nil
	}
	return repo.GetByIDs(ctx, unique)
}

func loadTypeNames(ctx context.Context, repo problemtype.Repository, problems []*problem.Problem) (map[uint]string, error) {
	seen := make(map[uint]struct{})
	ids := make([]uint, 0)
	for _, p := range problems {
		if id := p.ProblemTypeID(); id != nil {
			if _, ok := seen[*id]; !ok {
				seen[*id] = struct{}{}
				ids = append(ids, *id)
			}
		}
	}
	names := make(map[uint]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	types, err := repo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, pt := range types {
		names[pt.ID()] = pt.Name()
	}
	return names, nil
}
