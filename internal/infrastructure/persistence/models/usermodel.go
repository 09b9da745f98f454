package models

import (
	"time"

	"helpdesk/internal/shared/constants"
)

type UserModel struct {
	ID           uint    `gorm:"primarykey"`
	FirstName    string  `gorm:"size:100;not null"`
	LastName     string  `gorm:"size:100;not null;index"`
	Email        string  `gorm:"uniqueIndex;size:255;not null"`
	PasswordHash *string `gorm:"size:255"`
	JobTitle     string  `gorm:"size:100"`
	DepartmentID *uint   `gorm:"index"`
	IsActive     bool    `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time `gorm:"index"`
	DeletedByID  *uint
}

func (UserModel) TableName() string {
	return constants.TableUsers
}

type DepartmentModel struct {
	ID        uint   `gorm:"primarykey"`
	Name      string `gorm:"uniqueIndex;size:100;not null"`
	Location  string `gorm:"size:100"`
	IsActive  bool   `gorm:"not null"`
	CreatedAt time.Time
}

func (DepartmentModel) TableName() string {
	return constants.TableDepartments
}
