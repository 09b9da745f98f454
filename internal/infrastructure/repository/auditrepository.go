package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"helpdesk/internal/domain/audit"
	"helpdesk/internal/infrastructure/persistence/mappers"
	"helpdesk/internal/infrastructure/persistence/models"
	"helpdesk/internal/shared/db"
)

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) audit.Repository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Append(ctx context.Context, entry *audit.Entry) error {
	model, err := mappers.AuditEntryToModel(entry)
	if err != nil {
		return err
	}
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to append audit log: %w", err)
	}
	entry.SetID(model.ID)
	return nil
}

func (r *AuditRepository) ListByRecord(ctx context.Context, tableName string, recordID uint) ([]*audit.Entry, error) {
	var rows []*models.AuditLogModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("table_name = ? AND record_id = ?", tableName, recordID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list audit log: %w", err)
	}

	entries := make([]*audit.Entry, 0, len(rows))
	for _, row := range rows {
		e, err := mappers.AuditEntryToDomain(row)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}
