package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"helpdesk/internal/domain/equipment"
	"helpdesk/internal/domain/problemtype"
	"helpdesk/internal/infrastructure/persistence/mappers"
	"helpdesk/internal/infrastructure/persistence/models"
	"helpdesk/internal/shared/db"
)

type ProblemTypeRepository struct {
	db *gorm.DB
}

func NewProblemTypeRepository(db *gorm.DB) problemtype.Repository {
	return &ProblemTypeRepository{db: db}
}

func (r *ProblemTypeRepository) Create(ctx context.Context, pt *problemtype.ProblemType) error {
	model := mappers.ProblemTypeToModel(pt)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create problem type: %w", err)
	}
	pt.SetID(model.ID)
	return nil
}

// GetByID includes inactive and deleted types so callers can report why one is unusable.
func (r *ProblemTypeRepository) GetByID(ctx context.Context, id uint) (*problemtype.ProblemType, error) {
	var model models.ProblemTypeModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get problem type: %w", err)
	}
	return mappers.ProblemTypeToDomain(&model), nil
}

func (r *ProblemTypeRepository) GetByName(ctx context.Context, name string) (*problemtype.ProblemType, error) {
	var model models.ProblemTypeModel
	err := db.GetTxFromContext(ctx, r.db).
		Scopes(db.NotDeleted()).
		Where("name = ?", name).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get problem type by name: %w", err)
	}
	return mappers.ProblemTypeToDomain(&model), nil
}

func (r *ProblemTypeRepository) GetByIDs(ctx context.Context, ids []uint) ([]*problemtype.ProblemType, error) {
	if len(ids) == 0 {
		return []*problemtype.ProblemType{}, nil
	}
	var rows []models.ProblemTypeModel
	if err := db.GetTxFromContext(ctx, r.db).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get problem types: %w", err)
	}
	return problemTypesToDomain(rows), nil
}

func (r *ProblemTypeRepository) ListActive(ctx context.Context) ([]*problemtype.ProblemType, error) {
	var rows []models.ProblemTypeModel
	err := db.GetTxFromContext(ctx, r.db).
		Scopes(db.NotDeleted()).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list problem types: %w", err)
	}
	return problemTypesToDomain(rows), nil
}

func problemTypesToDomain(rows []models.ProblemTypeModel) []*problemtype.ProblemType {
	out := make([]*problemtype.ProblemType, len(rows))
	for i := range rows {
		out[i] = mappers.ProblemTypeToDomain(&rows[i])
	}
	return out
}

type EquipmentRepository struct {
	db *gorm.DB
}

func NewEquipmentRepository(db *gorm.DB) equipment.Repository {
	return &EquipmentRepository{db: db}
}

func (r *EquipmentRepository) Create(ctx context.Context, eq *equipment.Equipment) error {
	model := mappers.EquipmentToModel(eq)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create equipment: %w", err)
	}
	eq.SetID(model.ID)
	return nil
}

func (r *EquipmentRepository) GetByID(ctx context.Context, id uint) (*equipment.Equipment, error) {
	var model models.EquipmentModel
	if err := db.GetTxFromContext(ctx, r.db).Scopes(db.NotDeleted()).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get equipment: %w", err)
	}
	return mappers.EquipmentToDomain(&model), nil
}

func (r *EquipmentRepository) GetByIDs(ctx context.Context, ids []uint) ([]*equipment.Equipment, error) {
	if len(ids) == 0 {
		return []*equipment.Equipment{}, nil
	}
	var rows []models.EquipmentModel
	if err := db.GetTxFromContext(ctx, r.db).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get equipment: %w", err)
	}
	return equipmentToDomain(rows), nil
}

func (r *EquipmentRepository) GetBySerialNumber(ctx context.Context, serial string) (*equipment.Equipment, error) {
	var model models.EquipmentModel
	err := db.GetTxFromContext(ctx, r.db).
		Scopes(db.NotDeleted()).
		Where("serial_number = ?", serial).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get equipment by serial: %w", err)
	}
	return mappers.EquipmentToDomain(&model), nil
}

func (r *EquipmentRepository) List(ctx context.Context, assignedUserID *uint) ([]*equipment.Equipment, error) {
	var rows []models.EquipmentModel
	query := db.GetTxFromContext(ctx, r.db).Scopes(db.NotDeleted())
	if assignedUserID != nil {
		query = query.Where("assigned_user_id = ?", *assignedUserID)
	}
	if err := query.Order("equipment_type ASC").Order("serial_number ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list equipment: %w", err)
	}
	return equipmentToDomain(rows), nil
}

func equipmentToDomain(rows []models.EquipmentModel) []*equipment.Equipment {
	out := make([]*equipment.Equipment, len(rows))
	for i := range rows {
		out[i] = mappers.EquipmentToDomain(&rows[i])
	}
	return out
}
