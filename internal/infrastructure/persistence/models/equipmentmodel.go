package models

import (
	"time"

	"helpdesk/internal/shared/constants"
)

type EquipmentModel struct {
	ID             uint   `gorm:"primarykey"`
	SerialNumber   string `gorm:"uniqueIndex;size:100;not null"`
	AssetTag       string `gorm:"size:50"`
	Make           string `gorm:"size:100"`
	Model          string `gorm:"size:100"`
	EquipmentType  string `gorm:"size:50;not null"`
	Status         string `gorm:"size:20;not null;default:active"`
	AssignedUserID *uint  `gorm:"index"`
	PurchaseDate   *time.Time
	WarrantyExpiry *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      *time.Time `gorm:"index"`
}

func (EquipmentModel) TableName() string {
	return constants.TableEquipment
}
