package mappers

import (
	"fmt"

	"helpdesk/internal/domain/problem"
	vo "helpdesk/internal/domain/problem/valueobjects"
	"helpdesk/internal/infrastructure/persistence/models"
)

// ProblemMapper handles the conversion between Problem domain entities and persistence models.
type ProblemMapper interface {
	// ToModel converts a problem domain entity to a persistence model.
	ToModel(p *problem.Problem) *models.ProblemModel

	// ToDomain converts a problem persistence model to a domain entity.
	ToDomain(model *models.ProblemModel) (*problem.Problem, error)

	// ToDomainList converts a slice of models, failing on the first bad row.
	ToDomainList(rows []*models.ProblemModel) ([]*problem.Problem, error)

	// HistoryToModel converts a status history entry to a persistence model.
	HistoryToModel(e *problem.StatusHistoryEntry) *models.ProblemStatusHistoryModel

	// HistoryToDomain converts a status history row to a domain entry.
	HistoryToDomain(model *models.ProblemStatusHistoryModel) *problem.StatusHistoryEntry
}

// ProblemMapperImpl is the concrete implementation of ProblemMapper.
type ProblemMapperImpl struct{}

// NewProblemMapper creates a new ProblemMapper.
func NewProblemMapper() ProblemMapper {
	return &ProblemMapperImpl{}
}

func (m *ProblemMapperImpl) ToModel(p *problem.Problem) *models.ProblemModel {
	model := &models.ProblemModel{
		ID:                   p.ID(),
		Number:               p.Number(),
		Title:                p.Title(),
		Priority:             p.Priority().String(),
		Status:               p.Status().String(),
		ReporterID:           p.ReporterID(),
		EquipmentID:          p.EquipmentID(),
		ProblemTypeID:        p.ProblemTypeID(),
		AssignedSpecialistID: p.AssignedSpecialistID(),
		SLAResponseDue:       p.SLAResponseDue(),
		SLAResolutionDue:     p.SLAResolutionDue(),
		SLABreached:          p.SLABreached(),
		ResolvedAt:           p.ResolvedAt(),
		CreatedAt:            p.CreatedAt(),
		UpdatedAt:            p.UpdatedAt(),
		DeletedAt:            p.DeletedAt(),
		DeletedByID:          p.DeletedByID(),
	}

	if desc := p.Description(); desc != "" {
		model.Description = &desc
	}

	return model
}

func (m *ProblemMapperImpl) ToDomain(model *models.ProblemModel) (*problem.Problem, error) {
	if model == nil {
		return nil, nil
	}

	description := ""
	if model.Description != nil {
		description = *model.Description
	}

	p, err := problem.ReconstructProblem(
		model.ID,
		model.Number,
		model.Title,
		description,
		vo.Priority(model.Priority),
		vo.Status(model.Status),
		model.ReporterID,
		model.EquipmentID,
		model.ProblemTypeID,
		model.AssignedSpecialistID,
		utcPtr(model.SLAResponseDue),
		utcPtr(model.SLAResolutionDue),
		model.SLABreached,
		utcPtr(model.ResolvedAt),
		model.CreatedAt.UTC(),
		model.UpdatedAt.UTC(),
		utcPtr(model.DeletedAt),
		model.DeletedByID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct problem %d: %w", model.ID, err)
	}
	return p, nil
}

func (m *ProblemMapperImpl) ToDomainList(rows []*models.ProblemModel) ([]*problem.Problem, error) {
	out := make([]*problem.Problem, 0, len(rows))
	for _, row := range rows {
		p, err := m.ToDomain(row)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (m *ProblemMapperImpl) HistoryToModel(e *problem.StatusHistoryEntry) *models.ProblemStatusHistoryModel {
	model := &models.ProblemStatusHistoryModel{
		ID:        e.ID(),
		ProblemID: e.ProblemID(),
		NewStatus: e.NewStatus().String(),
		ChangedBy: e.ChangedBy(),
		Reason:    e.Reason(),
		ChangedAt: e.ChangedAt(),
	}
	if old := e.OldStatus(); old != nil {
		s := old.String()
		model.OldStatus = &s
	}
	return model
}

func (m *ProblemMapperImpl) HistoryToDomain(model *models.ProblemStatusHistoryModel) *problem.StatusHistoryEntry {
	var old *vo.Status
	if model.OldStatus != nil {
		s := vo.Status(*model.OldStatus)
		old = &s
	}
	return problem.ReconstructStatusHistoryEntry(
		model.ID,
		model.ProblemID,
		old,
		vo.Status(model.NewStatus),
		model.ChangedBy,
		model.Reason,
		model.ChangedAt.UTC(),
	)
}
