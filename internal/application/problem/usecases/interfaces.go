package usecases

import (
	"context"
	"html/template"

	"helpdesk/internal/application/problem/dto"
)

type TxRunner interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ViewCache holds serialized views keyed by page path. Failures are the
// implementation's concern; a miss is always safe. Set takes the key
// returned by the Get that missed.
type ViewCache interface {
	Get(ctx context.Context, path, variant string) (data []byte, key string, ok bool)
	Set(ctx context.Context, key string, data []byte)
	Invalidate(ctx context.Context, paths ...string)
}

type MetricsRecorder interface {
	ProblemCreated(priority string)
	StatusChanged(from, to string)
	ProblemAssigned()
	ProblemDeleted()
	SLABreached(count int)
}

type DescriptionRenderer interface {
	Render(source string) (template.HTML, error)
}

type CreateProblemExecutor interface {
	Execute(ctx context.Context, cmd CreateProblemCommand) (*CreateProblemResult, error)
}

type ChangeStatusExecutor interface {
	Execute(ctx context.Context, cmd ChangeStatusCommand) (*ChangeStatusResult, error)
}

type AssignProblemExecutor interface {
	Execute(ctx context.Context, cmd AssignProblemCommand) (*AssignProblemResult, error)
}

type DeleteProblemExecutor interface {
	Execute(ctx context.Context, cmd DeleteProblemCommand) (*DeleteProblemResult, error)
}

type GetProblemExecutor interface {
	Execute(ctx context.Context, query GetProblemQuery) (*dto.ProblemDTO, error)
}

type ListProblemsExecutor interface {
	Execute(ctx context.Context, query ListProblemsQuery) (*ListProblemsResult, error)
}

type GetDashboardStatsExecutor interface {
	Execute(ctx context.Context, query GetDashboardStatsQuery) (*dto.DashboardStatsDTO, error)
}

type MarkSLABreachesExecutor interface {
	Execute(ctx context.Context, cmd MarkSLABreachesCommand) (*MarkSLABreachesResult, error)
}
