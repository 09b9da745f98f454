package problem

import (
	"context"
	"time"

	vo "helpdesk/internal/domain/problem/valueobjects"
)

type ProblemRepository interface {
	Create(ctx context.Context, problem *Problem) error
	Update(ctx context.Context, problem *Problem) error
	// GetByID returns soft-deleted problems too.
	GetByID(ctx context.Context, id uint) (*Problem, error)
	GetByNumber(ctx context.Context, number string) (*Problem, error)
	// List excludes soft-deleted problems and orders newest first.
	List(ctx context.Context, filter ProblemFilter) ([]*Problem, error)
	Count(ctx context.Context, filter ProblemFilter) (int64, error)
	ListOverdue(ctx context.Context, now time.Time) ([]*Problem, error)
}

type ProblemFilter struct {
	Statuses   []vo.Status
	Priorities []vo.Priority
	// ExcludeStatuses drops rows in any of these statuses.
	ExcludeStatuses []vo.Status
	ReporterID      *uint
	SpecialistID    *uint
	Limit           int
	Offset          int
}

type StatusHistoryRepository interface {
	Append(ctx context.Context, entry *StatusHistoryEntry) error
	// ListByProblem returns entries newest first; limit <= 0 means all.
	ListByProblem(ctx context.Context, problemID uint, limit int) ([]*StatusHistoryEntry, error)
}
