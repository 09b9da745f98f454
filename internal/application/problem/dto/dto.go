package dto

import (
	"html/template"
	"time"

	"helpdesk/internal/domain/equipment"
	"helpdesk/internal/domain/problem"
	"helpdesk/internal/domain/problemtype"
	"helpdesk/internal/domain/user"
)

type UserSummaryDTO struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type EquipmentSummaryDTO struct {
	ID           uint   `json:"id"`
	Label        string `json:"label"`
	SerialNumber string `json:"serialNumber"`
}

type ProblemTypeSummaryDTO struct {
	ID                   uint   `json:"id"`
	Name                 string `json:"name"`
	SLAResponseMinutes   *int   `json:"slaResponseMinutes,omitempty"`
	SLAResolutionMinutes *int   `json:"slaResolutionMinutes,omitempty"`
}

type StatusHistoryDTO struct {
	ID        uint            `json:"id"`
	OldStatus *string         `json:"oldStatus"`
	NewStatus string          `json:"newStatus"`
	ChangedBy *UserSummaryDTO `json:"changedBy"`
	Reason    string          `json:"reason"`
	ChangedAt time.Time       `json:"changedAt"`
}

// ProblemDTO is the full detail view of one problem.
type ProblemDTO struct {
	ID                 uint                   `json:"id"`
	Number             string                 `json:"number"`
	Title              string                 `json:"title"`
	Description        string                 `json:"description"`
	DescriptionHTML    template.HTML          `json:"-"`
	Priority           string                 `json:"priority"`
	Status             string                 `json:"status"`
	Reporter           *UserSummaryDTO        `json:"reporter"`
	AssignedSpecialist *UserSummaryDTO        `json:"assignedSpecialist"`
	Equipment          *EquipmentSummaryDTO   `json:"equipment"`
	ProblemType        *ProblemTypeSummaryDTO `json:"problemType"`
	SLAResponseDue     *time.Time             `json:"slaResponseDue"`
	SLAResolutionDue   *time.Time             `json:"slaResolutionDue"`
	SLABreached        bool                   `json:"slaBreached"`
	IsOverdue          bool                   `json:"isOverdue"`
	ResolvedAt         *time.Time             `json:"resolvedAt"`
	CreatedAt          time.Time              `json:"createdAt"`
	UpdatedAt          time.Time              `json:"updatedAt"`
	DeletedAt          *time.Time             `json:"deletedAt,omitempty"`
	AllowedTransitions []string               `json:"allowedTransitions"`
	History            []StatusHistoryDTO     `json:"history"`
}

type ProblemListItemDTO struct {
	ID                 uint            `json:"id"`
	Number             string          `json:"number"`
	Title              string          `json:"title"`
	Priority           string          `json:"priority"`
	Status             string          `json:"status"`
	ProblemType        string          `json:"problemType,omitempty"`
	Reporter           *UserSummaryDTO `json:"reporter"`
	AssignedSpecialist *UserSummaryDTO `json:"assignedSpecialist"`
	SLAResolutionDue   *time.Time      `json:"slaResolutionDue"`
	SLABreached        bool            `json:"slaBreached"`
	IsOverdue          bool            `json:"isOverdue"`
	CreatedAt          time.Time       `json:"createdAt"`
}

type DashboardStatsDTO struct {
	Total          int64                `json:"total"`
	Open           int64                `json:"open"`
	InProgress     int64                `json:"inProgress"`
	Resolved       int64                `json:"resolved"`
	Urgent         int64                `json:"urgent"`
	ActiveUsers    int64                `json:"activeUsers"`
	RecentProblems []ProblemListItemDTO `json:"recentProblems"`
	Specialists    []UserSummaryDTO     `json:"specialists"`
}

func ToUserSummaryDTO(u *user.User) *UserSummaryDTO {
	if u == nil {
		return nil
	}
	return &UserSummaryDTO{
		ID:    u.ID(),
		Name:  u.FullName(),
		Email: u.Email(),
	}
}

func ToEquipmentSummaryDTO(e *equipment.Equipment) *EquipmentSummaryDTO {
	if e == nil {
		return nil
	}
	return &EquipmentSummaryDTO{
		ID:           e.ID(),
		Label:        e.Label(),
		SerialNumber: e.SerialNumber(),
	}
}

func ToProblemTypeSummaryDTO(pt *problemtype.ProblemType) *ProblemTypeSummaryDTO {
	if pt == nil {
		return nil
	}
	return &ProblemTypeSummaryDTO{
		ID:                   pt.ID(),
		Name:                 pt.Name(),
		SLAResponseMinutes:   pt.SLAResponseMinutes(),
		SLAResolutionMinutes: pt.SLAResolutionMinutes(),
	}
}

// UserIndex resolves user IDs loaded in one batch.
type UserIndex map[uint]*user.User

func NewUserIndex(users []*user.User) UserIndex {
	idx := make(UserIndex, len(users))
	for _, u := range users {
		idx[u.ID()] = u
	}
	return idx
}

func (idx UserIndex) Summary(id *uint) *UserSummaryDTO {
	if id == nil {
		return nil
	}
	return ToUserSummaryDTO(idx[*id])
}

func ToStatusHistoryDTO(e *problem.StatusHistoryEntry, users UserIndex) StatusHistoryDTO {
	var old *string
	if e.OldStatus() != nil {
		s := e.OldStatus().String()
		old = &s
	}
	changedBy := e.ChangedBy()
	return StatusHistoryDTO{
		ID:        e.ID(),
		OldStatus: old,
		NewStatus: e.NewStatus().String(),
		ChangedBy: users.Summary(&changedBy),
		Reason:    e.Reason(),
		ChangedAt: e.ChangedAt(),
	}
}

// ToProblemDTO builds the detail view. Summaries are nil when the related
// row could not be loaded.
func ToProblemDTO(
	p *problem.Problem,
	users UserIndex,
	eq *equipment.Equipment,
	pt *problemtype.ProblemType,
	history []*problem.StatusHistoryEntry,
	descriptionHTML template.HTML,
	now time.Time,
) *ProblemDTO {
	reporterID := p.ReporterID()

	allowed := p.Status().AllowedTransitions()
	transitions := make([]string, len(allowed))
	for i, s := range allowed {
		transitions[i] = s.String()
	}

	entries := make([]StatusHistoryDTO, len(history))
	for i, h := range history {
		entries[i] = ToStatusHistoryDTO(h, users)
	}

	return &ProblemDTO{
		ID:                 p.ID(),
		Number:             p.Number(),
		Title:              p.Title(),
		Description:        p.Description(),
		DescriptionHTML:    descriptionHTML,
		Priority:           p.Priority().String(),
		Status:             p.Status().String(),
		Reporter:           users.Summary(&reporterID),
		AssignedSpecialist: users.Summary(p.AssignedSpecialistID()),
		Equipment:          ToEquipmentSummaryDTO(eq),
		ProblemType:        ToProblemTypeSummaryDTO(pt),
		SLAResponseDue:     p.SLAResponseDue(),
		SLAResolutionDue:   p.SLAResolutionDue(),
		SLABreached:        p.SLABreached(),
		IsOverdue:          p.IsOverdue(now),
		ResolvedAt:         p.ResolvedAt(),
		CreatedAt:          p.CreatedAt(),
		UpdatedAt:          p.UpdatedAt(),
		DeletedAt:          p.DeletedAt(),
		AllowedTransitions: transitions,
		History:            entries,
	}
}

func ToProblemListItemDTO(p *problem.Problem, users UserIndex, typeNames map[uint]string, now time.Time) ProblemListItemDTO {
	reporterID := p.ReporterID()
	item := ProblemListItemDTO{
		ID:                 p.ID(),
		Number:             p.Number(),
		Title:              p.Title(),
		Priority:           p.Priority().String(),
		Status:             p.Status().String(),
		Reporter:           users.Summary(&reporterID),
		AssignedSpecialist: users.Summary(p.AssignedSpecialistID()),
		SLAResolutionDue:   p.SLAResolutionDue(),
		SLABreached:        p.SLABreached(),
		IsOverdue:          p.IsOverdue(now),
		CreatedAt:          p.CreatedAt(),
	}
	if p.ProblemTypeID() != nil {
		item.ProblemType = typeNames[*p.ProblemTypeID()]
	}
	return item
}
