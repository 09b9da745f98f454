package models

import (
	"time"

	"gorm.io/datatypes"

	"helpdesk/internal/shared/constants"
)

type AuditLogModel struct {
	ID          uint           `gorm:"primaryKey"`
	RecordTable string         `gorm:"column:table_name;size:64;not null;index:idx_audit_record,priority:1"`
	RecordID    uint           `gorm:"not null;index:idx_audit_record,priority:2"`
	Action      string         `gorm:"size:16;not null"`
	UserID      *uint          `gorm:"index"`
	Changes     datatypes.JSON `gorm:"type:json"`
	CreatedAt   time.Time      `gorm:"not null;index"`
}

func (AuditLogModel) TableName() string {
	return constants.TableAuditLogs
}
