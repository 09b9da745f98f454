package problem

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	vo "helpdesk/internal/domain/problem/valueobjects"
	"helpdesk/internal/shared/errors"
)

const (
	MaxTitleLength = 200

	ReasonReported           = "Problem reported"
	ReasonAssigned           = "Assigned to specialist"
	reasonStatusChangeFormat = "Status changed to %s"
)

// DefaultStatusReason is the history reason used when the actor gives none.
func DefaultStatusReason(status vo.Status) string {
	return fmt.Sprintf(reasonStatusChangeFormat, status)
}

// SLA holds the targets copied from the problem type at creation time.
// A nil field means no target of that kind.
type SLA struct {
	ResponseMinutes   *int
	ResolutionMinutes *int
}

type Problem struct {
	id                   uint
	number               string
	title                string
	description          string
	priority             vo.Priority
	status               vo.Status
	reporterID           uint
	equipmentID          *uint
	problemTypeID        *uint
	assignedSpecialistID *uint
	slaResponseDue       *time.Time
	slaResolutionDue     *time.Time
	slaBreached          bool
	resolvedAt           *time.Time
	createdAt            time.Time
	updatedAt            time.Time
	deletedAt            *time.Time
	deletedByID          *uint
}

// NewProblem validates the report and returns an open, unnumbered problem
// whose SLA deadlines are measured from now.
func NewProblem(
	title string,
	description string,
	priority vo.Priority,
	reporterID uint,
	problemTypeID uint,
	equipmentID *uint,
	sla SLA,
	now time.Time,
) (*Problem, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.NewValidationError("Title is required")
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return nil, errors.NewValidationError(fmt.Sprintf("Title must be at most %d characters", MaxTitleLength))
	}
	if priority == "" {
		return nil, errors.NewValidationError("Priority is required")
	}
	if !priority.IsValid() {
		return nil, errors.NewValidationError("Invalid priority", string(priority))
	}
	if reporterID == 0 {
		return nil, errors.NewValidationError("Reporter is required")
	}
	if problemTypeID == 0 {
		return nil, errors.NewValidationError("Problem type is required")
	}
	if equipmentID != nil && *equipmentID == 0 {
		equipmentID = nil
	}

	now = now.UTC()
	p := &Problem{
		title:         title,
		description:   strings.TrimSpace(description),
		priority:      priority,
		status:        vo.StatusOpen,
		reporterID:    reporterID,
		equipmentID:   equipmentID,
		problemTypeID: &problemTypeID,
		createdAt:     now,
		updatedAt:     now,
	}

	// a zero-minute target means the type has no SLA
	if sla.ResponseMinutes != nil && *sla.ResponseMinutes > 0 {
		due := now.Add(time.Duration(*sla.ResponseMinutes) * time.Minute)
		p.slaResponseDue = &due
	}
	if sla.ResolutionMinutes != nil && *sla.ResolutionMinutes > 0 {
		due := now.Add(time.Duration(*sla.ResolutionMinutes) * time.Minute)
		p.slaResolutionDue = &due
	}

	return p, nil
}

// ReconstructProblem rebuilds a problem from storage.
func ReconstructProblem(
	id uint,
	number string,
	title string,
	description string,
	priority vo.Priority,
	status vo.Status,
	reporterID uint,
	equipmentID *uint,
	problemTypeID *uint,
	assignedSpecialistID *uint,
	slaResponseDue *time.Time,
	slaResolutionDue *time.Time,
	slaBreached bool,
	resolvedAt *time.Time,
	createdAt, updatedAt time.Time,
	deletedAt *time.Time,
	deletedByID *uint,
) (*Problem, error) {
	if id == 0 {
		return nil, fmt.Errorf("problem ID cannot be zero")
	}
	if number == "" {
		return nil, fmt.Errorf("problem number is required")
	}
	if !priority.IsValid() {
		return nil, fmt.Errorf("invalid priority: %s", priority)
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid status: %s", status)
	}

	return &Problem{
		id:                   id,
		number:               number,
		title:                title,
		description:          description,
		priority:             priority,
		status:               status,
		reporterID:           reporterID,
		equipmentID:          equipmentID,
		problemTypeID:        problemTypeID,
		assignedSpecialistID: assignedSpecialistID,
		slaResponseDue:       slaResponseDue,
		slaResolutionDue:     slaResolutionDue,
		slaBreached:          slaBreached,
		resolvedAt:           resolvedAt,
		createdAt:            createdAt,
		updatedAt:            updatedAt,
		deletedAt:            deletedAt,
		deletedByID:          deletedByID,
	}, nil
}

func (p *Problem) ID() uint                     { return p.id }
func (p *Problem) Number() string               { return p.number }
func (p *Problem) Title() string                { return p.title }
func (p *Problem) Description() string          { return p.description }
func (p *Problem) Priority() vo.Priority        { return p.priority }
func (p *Problem) Status() vo.Status            { return p.status }
func (p *Problem) ReporterID() uint             { return p.reporterID }
func (p *Problem) EquipmentID() *uint           { return p.equipmentID }
func (p *Problem) ProblemTypeID() *uint         { return p.problemTypeID }
func (p *Problem) AssignedSpecialistID() *uint  { return p.assignedSpecialistID }
func (p *Problem) SLAResponseDue() *time.Time   { return p.slaResponseDue }
func (p *Problem) SLAResolutionDue() *time.Time { return p.slaResolutionDue }
func (p *Problem) SLABreached() bool            { return p.slaBreached }
func (p *Problem) ResolvedAt() *time.Time       { return p.resolvedAt }
func (p *Problem) CreatedAt() time.Time         { return p.createdAt }
func (p *Problem) UpdatedAt() time.Time         { return p.updatedAt }
func (p *Problem) DeletedAt() *time.Time        { return p.deletedAt }
func (p *Problem) DeletedByID() *uint           { return p.deletedByID }

func (p *Problem) IsDeleted() bool {
	return p.deletedAt != nil
}

func (p *Problem) SetID(id uint) error {
	if p.id != 0 {
		return fmt.Errorf("problem ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("problem ID cannot be zero")
	}
	p.id = id
	return nil
}

// SetNumber assigns the ticket number. Numbers never change once set.
func (p *Problem) SetNumber(number string) error {
	if p.number != "" {
		return fmt.Errorf("problem number is already set")
	}
	if number == "" {
		return fmt.Errorf("problem number cannot be empty")
	}
	p.number = number
	return nil
}

// ChangeStatus moves the problem to next and returns the previous status.
// Re-applying the current status is accepted so that the caller still records it.
func (p *Problem) ChangeStatus(next vo.Status, now time.Time) (vo.Status, error) {
	if !next.IsValid() {
		return "", errors.NewValidationError("Invalid status", string(next))
	}
	if p.IsDeleted() {
		return "", errors.NewNotFoundError("Problem not found")
	}
	if !p.status.CanTransitionTo(next) {
		return "", errors.NewInvalidTransitionError(p.status.String(), next.String())
	}

	prev := p.status
	p.status = next
	p.updatedAt = now.UTC()

	switch {
	case next.IsResolved() && p.resolvedAt == nil:
		resolved := p.updatedAt
		p.resolvedAt = &resolved
	case prev.IsResolved() && next == vo.StatusInProgress:
		p.resolvedAt = nil
	}

	return prev, nil
}

// AssignTo hands the problem to a specialist and moves it to assigned,
// returning the status it had before.
func (p *Problem) AssignTo(specialistID uint, now time.Time) (vo.Status, error) {
	if specialistID == 0 {
		return "", errors.NewValidationError("Specialist is required")
	}
	prev, err := p.ChangeStatus(vo.StatusAssigned, now)
	if err != nil {
		return "", err
	}
	p.assignedSpecialistID = &specialistID
	return prev, nil
}

// SoftDelete hides the problem from lists. Status and history are untouched.
func (p *Problem) SoftDelete(actorID uint, now time.Time) error {
	if p.IsDeleted() {
		return errors.NewNotFoundError("Problem not found")
	}
	deletedAt := now.UTC()
	p.deletedAt = &deletedAt
	p.deletedByID = &actorID
	p.updatedAt = deletedAt
	return nil
}

// IsOverdue reports whether the resolution deadline passed while work was still open.
func (p *Problem) IsOverdue(now time.Time) bool {
	if p.slaResolutionDue == nil || p.status.IsFinished() || p.IsDeleted() {
		return false
	}
	return now.After(*p.slaResolutionDue)
}

// MarkSLABreached flags an overdue problem. It returns false when nothing changed.
func (p *Problem) MarkSLABreached(now time.Time) bool {
	if p.slaBreached || !p.IsOverdue(now) {
		return false
	}
	p.slaBreached = true
	p.updatedAt = now.UTC()
	return true
}

// IsUrgent reports a critical problem that still needs attention.
func (p *Problem) IsUrgent() bool {
	return p.priority.IsCritical() && !p.status.IsFinished()
}
