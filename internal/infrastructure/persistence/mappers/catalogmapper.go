package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"helpdesk/internal/domain/audit"
	"helpdesk/internal/domain/equipment"
	"helpdesk/internal/domain/problemtype"
	"helpdesk/internal/infrastructure/persistence/models"
)

func ProblemTypeToModel(pt *problemtype.ProblemType) *models.ProblemTypeModel {
	return &models.ProblemTypeModel{
		ID:                   pt.ID(),
		Name:                 pt.Name(),
		Description:          pt.Description(),
		ParentID:             pt.ParentID(),
		SLAResponseMinutes:   pt.SLAResponseMinutes(),
		SLAResolutionMinutes: pt.SLAResolutionMinutes(),
		IsActive:             pt.IsActive(),
		CreatedAt:            pt.CreatedAt(),
		DeletedAt:            pt.DeletedAt(),
	}
}

func ProblemTypeToDomain(model *models.ProblemTypeModel) *problemtype.ProblemType {
	return problemtype.ReconstructProblemType(
		model.ID,
		model.Name,
		model.Description,
		model.ParentID,
		model.SLAResponseMinutes,
		model.SLAResolutionMinutes,
		model.IsActive,
		model.CreatedAt.UTC(),
		utcPtr(model.DeletedAt),
	)
}

func EquipmentToModel(eq *equipment.Equipment) *models.EquipmentModel {
	return &models.EquipmentModel{
		ID:             eq.ID(),
		SerialNumber:   eq.SerialNumber(),
		AssetTag:       eq.AssetTag(),
		Make:           eq.Manufacturer(),
		Model:          eq.Model(),
		EquipmentType:  eq.EquipmentType(),
		Status:         string(eq.Status()),
		AssignedUserID: eq.AssignedUserID(),
		PurchaseDate:   eq.PurchaseDate(),
		WarrantyExpiry: eq.WarrantyExpiry(),
		CreatedAt:      eq.CreatedAt(),
		DeletedAt:      eq.DeletedAt(),
	}
}

func EquipmentToDomain(model *models.EquipmentModel) *equipment.Equipment {
	return equipment.ReconstructEquipment(
		model.ID,
		model.SerialNumber,
		model.AssetTag,
		model.Make,
		model.Model,
		model.EquipmentType,
		equipment.Status(model.Status),
		model.AssignedUserID,
		utcPtr(model.PurchaseDate),
		utcPtr(model.WarrantyExpiry),
		model.CreatedAt.UTC(),
		utcPtr(model.DeletedAt),
	)
}

func AuditEntryToModel(e *audit.Entry) (*models.AuditLogModel, error) {
	payload, err := json.Marshal(e.Changes())
	if err != nil {
		return nil, fmt.Errorf("failed to encode audit changes: %w", err)
	}
	return &models.AuditLogModel{
		ID:          e.ID(),
		RecordTable: e.TableName(),
		RecordID:    e.RecordID(),
		Action:      string(e.Action()),
		UserID:      e.UserID(),
		Changes:     datatypes.JSON(payload),
		CreatedAt:   e.CreatedAt(),
	}, nil
}

func AuditEntryToDomain(model *models.AuditLogModel) (*audit.Entry, error) {
	changes := audit.Changes{}
	if len(model.Changes) > 0 {
		if err := json.Unmarshal(model.Changes, &changes); err != nil {
			return nil, fmt.Errorf("failed to decode audit changes for entry %d: %w", model.ID, err)
		}
	}
	return audit.ReconstructEntry(
		model.ID,
		model.RecordTable,
		model.RecordID,
		audit.Action(model.Action),
		model.UserID,
		changes,
		model.CreatedAt.UTC(),
	), nil
}
