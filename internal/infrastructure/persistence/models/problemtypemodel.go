package models

import (
	"time"

	"helpdesk/internal/shared/constants"
)

type ProblemTypeModel struct {
	ID                   uint   `gorm:"primaryKey"`
	Name                 string `gorm:"uniqueIndex;size:100;not null"`
	Description          string `gorm:"type:text"`
	ParentID             *uint  `gorm:"index"`
	SLAResponseMinutes   *int   `gorm:"column:sla_response_minutes"`
	SLAResolutionMinutes *int   `gorm:"column:sla_resolution_minutes"`
	IsActive             bool   `gorm:"not null"`
	CreatedAt            time.Time
	DeletedAt            *time.Time `gorm:"index"`
}

func (ProblemTypeModel) TableName() string {
	return constants.TableProblemTypes
}
