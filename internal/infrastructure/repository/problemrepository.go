package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"helpdesk/internal/domain/problem"
	vo "helpdesk/internal/domain/problem/valueobjects"
	"helpdesk/internal/infrastructure/persistence/mappers"
	"helpdesk/internal/infrastructure/persistence/models"
	"helpdesk/internal/shared/db"
	"helpdesk/internal/shared/logger"
)

// ProblemRepository persists problems with gorm. Every method joins the
// transaction carried by ctx when there is one.
type ProblemRepository struct {
	db     *gorm.DB
	mapper mappers.ProblemMapper
	logger logger.Interface
}

func NewProblemRepository(db *gorm.DB, logger logger.Interface) problem.ProblemRepository {
	return &ProblemRepository{
		db:     db,
		mapper: mappers.NewProblemMapper(),
		logger: logger,
	}
}

func (r *ProblemRepository) Create(ctx context.Context, p *problem.Problem) error {
	model := r.mapper.ToModel(p)
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to create problem: %w", err)
	}

	return p.SetID(model.ID)
}

func (r *ProblemRepository) Update(ctx context.Context, p *problem.Problem) error {
	model := r.mapper.ToModel(p)
	tx := db.GetTxFromContext(ctx, r.db)

	// Select("*") so cleared pointers and false flags are written too
	result := tx.
		Model(&models.ProblemModel{ID: model.ID}).
		Select("*").
		Omit("id", "number", "created_at").
		Updates(model)
	if result.Error != nil {
		return fmt.Errorf("failed to update problem: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("failed to update problem %d: no such row", model.ID)
	}

	return nil
}

func (r *ProblemRepository) GetByID(ctx context.Context, id uint) (*problem.Problem, error) {
	var model models.ProblemModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get problem by ID", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get problem: %w", err)
	}

	return r.mapper.ToDomain(&model)
}

func (r *ProblemRepository) GetByNumber(ctx context.Context, number string) (*problem.Problem, error) {
	var model models.ProblemModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Where("number = ?", number).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get problem by number: %w", err)
	}

	return r.mapper.ToDomain(&model)
}

func (r *ProblemRepository) List(ctx context.Context, filter problem.ProblemFilter) ([]*problem.Problem, error) {
	var rows []*models.ProblemModel
	tx := db.GetTxFromContext(ctx, r.db)

	err := tx.
		Scopes(db.NotDeleted(), problemFilterScope(filter), db.Paginate(filter.Limit, filter.Offset)).
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		r.logger.Errorw("failed to list problems", "error", err)
		return nil, fmt.Errorf("failed to list problems: %w", err)
	}

	return r.mapper.ToDomainList(rows)
}

func (r *ProblemRepository) Count(ctx context.Context, filter problem.ProblemFilter) (int64, error) {
	var count int64
	tx := db.GetTxFromContext(ctx, r.db)

	err := tx.
		Model(&models.ProblemModel{}).
		Scopes(db.NotDeleted(), problemFilterScope(filter)).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count problems: %w", err)
	}

	return count, nil
}

func (r *ProblemRepository) ListOverdue(ctx context.Context, now time.Time) ([]*problem.Problem, error) {
	var rows []*models.ProblemModel
	tx := db.GetTxFromContext(ctx, r.db)

	err := tx.
		Scopes(db.NotDeleted()).
		Where("sla_breached = ?", false).
		Where("sla_resolution_due IS NOT NULL AND sla_resolution_due < ?", now.UTC()).
		Where("status NOT IN ?", statusStrings(finishedStatuses)).
		Order("sla_resolution_due ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue problems: %w", err)
	}

	return r.mapper.ToDomainList(rows)
}

var finishedStatuses = []vo.Status{vo.StatusResolved, vo.StatusClosed, vo.StatusCancelled}

func problemFilterScope(filter problem.ProblemFilter) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		if len(filter.Statuses) > 0 {
			q = q.Where("status IN ?", statusStrings(filter.Statuses))
		}
		if len(filter.ExcludeStatuses) > 0 {
			q = q.Where("status NOT IN ?", statusStrings(filter.ExcludeStatuses))
		}
		if len(filter.Priorities) > 0 {
			priorities := make([]string, len(filter.Priorities))
			for i, p := range filter.Priorities {
				priorities[i] = p.String()
			}
			q = q.Where("priority IN ?", priorities)
		}
		if filter.ReporterID != nil {
			q = q.Where("reporter_id = ?", *filter.ReporterID)
		}
		if filter.SpecialistID != nil {
			q = q.Where("assigned_specialist_id = ?", *filter.SpecialistID)
		}
		return q
	}
}

func statusStrings(statuses []vo.Status) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = s.String()
	}
	return out
}

// StatusHistoryRepository appends and reads problem status history rows.
type StatusHistoryRepository struct {
	db     *gorm.DB
	mapper mappers.ProblemMapper
}

func NewStatusHistoryRepository(db *gorm.DB) problem.StatusHistoryRepository {
	return &StatusHistoryRepository{
		db:     db,
		mapper: mappers.NewProblemMapper(),
	}
}

func (r *StatusHistoryRepository) Append(ctx context.Context, entry *problem.StatusHistoryEntry) error {
	model := r.mapper.HistoryToModel(entry)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to append status history: %w", err)
	}
	entry.SetID(model.ID)
	return nil
}

func (r *StatusHistoryRepository) ListByProblem(ctx context.Context, problemID uint, limit int) ([]*problem.StatusHistoryEntry, error) {
	var rows []*models.ProblemStatusHistoryModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("problem_id = ?", problemID).
		Order("changed_at DESC").
		Order("id DESC").
		Scopes(db.Paginate(limit, 0)).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list status history: %w", err)
	}

	entries := make([]*problem.StatusHistoryEntry, len(rows))
	for i, row := range rows {
		entries[i] = r.mapper.HistoryToDomain(row)
	}
	return entries, nil
}
