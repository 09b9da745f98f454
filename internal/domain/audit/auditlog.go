// Package audit records who changed what. Entries are append-only.
package audit

import (
	"context"
	"fmt"
	"time"
)

type Action string

const (
	ActionCreate Action = "CREATE"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
)

func (a Action) IsValid() bool {
	return a == ActionCreate || a == ActionUpdate || a == ActionDelete
}

// Changes is the JSON payload stored with an entry. Field diffs use
// Change values: {"status": {"from": "open", "to": "assigned"}}.
type Changes map[string]any

// Change is a from/to pair inside Changes.
type Change struct {
	From any `json:"from"`
	To   any `json:"to"`
}

type Entry struct {
	id        uint
	tableName string
	recordID  uint
	action    Action
	userID    *uint
	changes   Changes
	createdAt time.Time
}

// NewEntry builds an audit entry. A nil userID marks a system action.
func NewEntry(tableName string, recordID uint, action Action, userID *uint, changes Changes, at time.Time) (*Entry, error) {
	if tableName == "" {
		return nil, fmt.Errorf("audit table name is required")
	}
	if recordID == 0 {
		return nil, fmt.Errorf("audit record ID is required")
	}
	if !action.IsValid() {
		return nil, fmt.Errorf("invalid audit action: %s", action)
	}
	if changes == nil {
		changes = Changes{}
	}
	return &Entry{
		tableName: tableName,
		recordID:  recordID,
		action:    action,
		userID:    userID,
		changes:   changes,
		createdAt: at.UTC(),
	}, nil
}

func ReconstructEntry(id uint, tableName string, recordID uint, action Action, userID *uint, changes Changes, createdAt time.Time) *Entry {
	return &Entry{
		id:        id,
		tableName: tableName,
		recordID:  recordID,
		action:    action,
		userID:    userID,
		changes:   changes,
		createdAt: createdAt,
	}
}

func (e *Entry) ID() uint             { return e.id }
func (e *Entry) TableName() string    { return e.tableName }
func (e *Entry) RecordID() uint       { return e.recordID }
func (e *Entry) Action() Action       { return e.action }
func (e *Entry) UserID() *uint        { return e.userID }
func (e *Entry) Changes() Changes     { return e.changes }
func (e *Entry) CreatedAt() time.Time { return e.createdAt }

func (e *Entry) SetID(id uint) {
	e.id = id
}

type Repository interface {
	Append(ctx context.Context, entry *Entry) error
	// ListByRecord returns entries for one row, oldest first.
	ListByRecord(ctx context.Context, tableName string, recordID uint) ([]*Entry, error)
}
