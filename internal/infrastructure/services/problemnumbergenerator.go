package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"helpdesk/internal/domain/problem"
	"helpdesk/internal/infrastructure/persistence/models"
	"helpdesk/internal/shared/constants"
	"helpdesk/internal/shared/db"
	"helpdesk/internal/shared/logger"
)

// ProblemNumberGenerator issues PRB-{year}-{seq} numbers from the
// problem_sequences row. It must run inside the caller's transaction so the
// row lock is held until the problem row is written.
type ProblemNumberGenerator struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewProblemNumberGenerator(db *gorm.DB, logger logger.Interface) problem.NumberGenerator {
	return &ProblemNumberGenerator{
		db:     db,
		logger: logger,
	}
}

func (g *ProblemNumberGenerator) Generate(ctx context.Context, year int) (string, error) {
	tx := db.GetTxFromContext(ctx, g.db)

	seq, err := g.nextSequence(tx)
	if err != nil {
		return "", err
	}

	return problem.FormatNumber(year, seq), nil
}

func (g *ProblemNumberGenerator) nextSequence(tx *gorm.DB) (int64, error) {
	bumped, err := g.increment(tx)
	if err != nil {
		return 0, err
	}

	if !bumped {
		if err := g.bootstrap(tx); err != nil {
			return 0, err
		}
		if bumped, err = g.increment(tx); err != nil {
			return 0, err
		}
		if !bumped {
			return 0, fmt.Errorf("problem sequence row %q missing after bootstrap", constants.ProblemSequenceName)
		}
	}

	var row models.ProblemSequenceModel
	err = tx.Where("name = ?", constants.ProblemSequenceName).First(&row).Error
	if err != nil {
		return 0, fmt.Errorf("failed to read problem sequence: %w", err)
	}
	return row.Value, nil
}

// increment takes the row lock. It reports false when the row does not exist.
func (g *ProblemNumberGenerator) increment(tx *gorm.DB) (bool, error) {
	result := tx.Model(&models.ProblemSequenceModel{}).
		Where("name = ?", constants.ProblemSequenceName).
		UpdateColumn("value", gorm.Expr("value + ?", 1))
	if result.Error != nil {
		return false, fmt.Errorf("failed to increment problem sequence: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// bootstrap seeds the sequence from the newest problem number so databases
// that predate the sequence table continue where they left off.
func (g *ProblemNumberGenerator) bootstrap(tx *gorm.DB) error {
	var last models.ProblemModel
	var start int64

	err := tx.Select("number").
		Order("created_at DESC").
		Order("id DESC").
		First(&last).Error
	switch {
	case err == nil:
		if seq, ok := problem.ParseSequence(last.Number); ok {
			start = seq
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		return fmt.Errorf("failed to read last problem number: %w", err)
	}

	// A concurrent bootstrap may win the insert; its row is equally valid.
	err = tx.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.ProblemSequenceModel{Name: constants.ProblemSequenceName, Value: start}).Error
	if err != nil {
		return fmt.Errorf("failed to create problem sequence: %w", err)
	}

	g.logger.Infow("problem sequence bootstrapped", "start", start)
	return nil
}
