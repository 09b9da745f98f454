package equipment

import (
	"context"
	"fmt"
	"strings"
	"time"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInRepair Status = "in_repair"
	StatusRetired  Status = "retired"
)

func (s Status) IsValid() bool {
	return s == StatusActive || s == StatusInRepair || s == StatusRetired
}

// Equipment is an asset a problem can be reported against.
type Equipment struct {
	id             uint
	serialNumber   string
	assetTag       string
	manufacturer   string
	model          string
	equipmentType  string
	status         Status
	assignedUserID *uint
	purchaseDate   *time.Time
	warrantyExpiry *time.Time
	createdAt      time.Time
	deletedAt      *time.Time
}

func NewEquipment(serialNumber, assetTag, manufacturer, model, equipmentType string, assignedUserID *uint) (*Equipment, error) {
	serialNumber = strings.TrimSpace(serialNumber)
	if serialNumber == "" {
		return nil, fmt.Errorf("serial number is required")
	}
	if equipmentType == "" {
		return nil, fmt.Errorf("equipment type is required")
	}
	return &Equipment{
		serialNumber:   serialNumber,
		assetTag:       assetTag,
		manufacturer:   manufacturer,
		model:          model,
		equipmentType:  equipmentType,
		status:         StatusActive,
		assignedUserID: assignedUserID,
		createdAt:      time.Now().UTC(),
	}, nil
}

func ReconstructEquipment(
	id uint,
	serialNumber, assetTag, manufacturer, model, equipmentType string,
	status Status,
	assignedUserID *uint,
	purchaseDate, warrantyExpiry *time.Time,
	createdAt time.Time,
	deletedAt *time.Time,
) *Equipment {
	return &Equipment{
		id:             id,
		serialNumber:   serialNumber,
		assetTag:       assetTag,
		manufacturer:   manufacturer,
		model:          model,
		equipmentType:  equipmentType,
		status:         status,
		assignedUserID: assignedUserID,
		purchaseDate:   purchaseDate,
		warrantyExpiry: warrantyExpiry,
		createdAt:      createdAt,
		deletedAt:      deletedAt,
	}
}

func (e *Equipment) ID() uint                   { return e.id }
func (e *Equipment) SerialNumber() string       { return e.serialNumber }
func (e *Equipment) AssetTag() string           { return e.assetTag }
func (e *Equipment) Manufacturer() string       { return e.manufacturer }
func (e *Equipment) Model() string              { return e.model }
func (e *Equipment) EquipmentType() string      { return e.equipmentType }
func (e *Equipment) Status() Status             { return e.status }
func (e *Equipment) AssignedUserID() *uint      { return e.assignedUserID }
func (e *Equipment) PurchaseDate() *time.Time   { return e.purchaseDate }
func (e *Equipment) WarrantyExpiry() *time.Time { return e.warrantyExpiry }
func (e *Equipment) CreatedAt() time.Time       { return e.createdAt }
func (e *Equipment) DeletedAt() *time.Time      { return e.deletedAt }

func (e *Equipment) SetID(id uint) {
	e.id = id
}

// Label is the short human name shown next to problems, e.g. "Dell P2419H (SN123)".
func (e *Equipment) Label() string {
	name := strings.TrimSpace(e.manufacturer + " " + e.model)
	if name == "" {
		name = e.equipmentType
	}
	return fmt.Sprintf("%s (%s)", name, e.serialNumber)
}

// IsUnderWarranty reports whether the warranty covers the given moment.
func (e *Equipment) IsUnderWarranty(at time.Time) bool {
	return e.warrantyExpiry != nil && at.Before(*e.warrantyExpiry)
}

type Repository interface {
	Create(ctx context.Context, eq *Equipment) error
	GetByID(ctx context.Context, id uint) (*Equipment, error)
	GetByIDs(ctx context.Context, ids []uint) ([]*Equipment, error)
	GetBySerialNumber(ctx context.Context, serial string) (*Equipment, error)
	// List returns non-deleted equipment, optionally only items assigned to a user.
	List(ctx context.Context, assignedUserID *uint) ([]*Equipment, error)
}
