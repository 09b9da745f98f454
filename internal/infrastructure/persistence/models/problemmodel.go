package models

import (
	"time"

	"helpdesk/internal/shared/constants"
)

type ProblemModel struct {
	ID                   uint       `gorm:"primaryKey"`
	Number               string     `gorm:"uniqueIndex;size:32;not null"`
	Title                string     `gorm:"size:200;not null"`
	Description          *string    `gorm:"type:text"`
	Priority             string     `gorm:"size:16;not null;index"`
	Status               string     `gorm:"size:32;not null;index"`
	ReporterID           uint       `gorm:"not null;index"`
	EquipmentID          *uint      `gorm:"index"`
	ProblemTypeID        *uint      `gorm:"index"`
	AssignedSpecialistID *uint      `gorm:"index"`
	SLAResponseDue       *time.Time `gorm:"column:sla_response_due"`
	SLAResolutionDue     *time.Time `gorm:"column:sla_resolution_due;index"`
	SLABreached          bool       `gorm:"column:sla_breached;not null;default:false"`
	ResolvedAt           *time.Time
	CreatedAt            time.Time  `gorm:"not null;index"`
	UpdatedAt            time.Time  `gorm:"not null"`
	DeletedAt            *time.Time `gorm:"index"`
	DeletedByID          *uint

	// No foreign key associations; related rows are loaded by the repositories.
}

func (ProblemModel) TableName() string {
	return constants.TableProblems
}

type ProblemStatusHistoryModel struct {
	ID        uint      `gorm:"primaryKey"`
	ProblemID uint      `gorm:"not null;index:idx_history_problem_changed,priority:1"`
	OldStatus *string   `gorm:"size:32"`
	NewStatus string    `gorm:"size:32;not null"`
	ChangedBy uint      `gorm:"not null"`
	Reason    string    `gorm:"size:500"`
	ChangedAt time.Time `gorm:"not null;index:idx_history_problem_changed,priority:2"`
}

func (ProblemStatusHistoryModel) TableName() string {
	return constants.TableProblemStatusHistory
}

// ProblemSequenceModel holds the last issued ticket number suffix.
type ProblemSequenceModel struct {
	Name  string `gorm:"primaryKey;size:32"`
	Value int64  `gorm:"not null;default:0"`
}

func (ProblemSequenceModel) TableName() string {
	return constants.TableProblemSequences
}
