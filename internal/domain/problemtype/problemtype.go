package problemtype

import (
	"context"
	"fmt"
	"time"
)

// ProblemType classifies problems and carries the SLA targets applied to them.
// Types form a tree through parentID.
type ProblemType struct {
	id                   uint
	name                 string
	description          string
	parentID             *uint
	slaResponseMinutes   *int
	slaResolutionMinutes *int
	isActive             bool
	createdAt            time.Time
	deletedAt            *time.Time
}

func NewProblemType(name, description string, parentID *uint, responseMinutes, resolutionMinutes *int) (*ProblemType, error) {
	if name == "" {
		return nil, fmt.Errorf("problem type name is required")
	}
	if responseMinutes != nil && *responseMinutes < 0 {
		return nil, fmt.Errorf("SLA response minutes cannot be negative")
	}
	if resolutionMinutes != nil && *resolutionMinutes < 0 {
		return nil, fmt.Errorf("SLA resolution minutes cannot be negative")
	}
	return &ProblemType{
		name:                 name,
		description:          description,
		parentID:             parentID,
		slaResponseMinutes:   responseMinutes,
		slaResolutionMinutes: resolutionMinutes,
		isActive:             true,
		createdAt:            time.Now().UTC(),
	}, nil
}

func ReconstructProblemType(id uint, name, description string, parentID *uint, responseMinutes, resolutionMinutes *int, isActive bool, createdAt time.Time, deletedAt *time.Time) *ProblemType {
	return &ProblemType{
		id:                   id,
		name:                 name,
		description:          description,
		parentID:             parentID,
		slaResponseMinutes:   responseMinutes,
		slaResolutionMinutes: resolutionMinutes,
		isActive:             isActive,
		createdAt:            createdAt,
		deletedAt:            deletedAt,
	}
}

func (t *ProblemType) ID() uint                   { return t.id }
func (t *ProblemType) Name() string               { return t.name }
func (t *ProblemType) Description() string        { return t.description }
func (t *ProblemType) ParentID() *uint            { return t.parentID }
func (t *ProblemType) SLAResponseMinutes() *int   { return t.slaResponseMinutes }
func (t *ProblemType) SLAResolutionMinutes() *int { return t.slaResolutionMinutes }
func (t *ProblemType) IsActive() bool             { return t.isActive }
func (t *ProblemType) CreatedAt() time.Time       { return t.createdAt }
func (t *ProblemType) DeletedAt() *time.Time      { return t.deletedAt }

func (t *ProblemType) SetID(id uint) {
	t.id = id
}

// IsUsable reports whether new problems may be filed under this type.
func (t *ProblemType) IsUsable() bool {
	return t.isActive && t.deletedAt == nil
}

type Repository interface {
	Create(ctx context.Context, pt *ProblemType) error
	GetByID(ctx context.Context, id uint) (*ProblemType, error)
	GetByName(ctx context.Context, name string) (*ProblemType, error)
	GetByIDs(ctx context.Context, ids []uint) ([]*ProblemType, error)
	ListActive(ctx context.Context) ([]*ProblemType, error)
}
