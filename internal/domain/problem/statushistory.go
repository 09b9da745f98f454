package problem

import (
	"fmt"
	"time"

	vo "helpdesk/internal/domain/problem/valueobjects"
)

// StatusHistoryEntry is one immutable row of a problem's status trail.
// OldStatus is nil only for the entry written when the problem was reported.
type StatusHistoryEntry struct {
	id        uint
	problemID uint
	oldStatus *vo.Status
	newStatus vo.Status
	changedBy uint
	reason    string
	changedAt time.Time
}

func NewStatusHistoryEntry(problemID uint, oldStatus *vo.Status, newStatus vo.Status, changedBy uint, reason string, changedAt time.Time) (*StatusHistoryEntry, error) {
	if problemID == 0 {
		return nil, fmt.Errorf("problem ID is required")
	}
	if !newStatus.IsValid() {
		return nil, fmt.Errorf("invalid status: %s", newStatus)
	}
	if changedBy == 0 {
		return nil, fmt.Errorf("actor is required")
	}
	return &StatusHistoryEntry{
		problemID: problemID,
		oldStatus: oldStatus,
		newStatus: newStatus,
		changedBy: changedBy,
		reason:    reason,
		changedAt: changedAt.UTC(),
	}, nil
}

func ReconstructStatusHistoryEntry(id, problemID uint, oldStatus *vo.Status, newStatus vo.Status, changedBy uint, reason string, changedAt time.Time) *StatusHistoryEntry {
	return &StatusHistoryEntry{
		id:        id,
		problemID: problemID,
		oldStatus: oldStatus,
		newStatus: newStatus,
		changedBy: changedBy,
		reason:    reason,
		changedAt: changedAt,
	}
}

func (e *StatusHistoryEntry) ID() uint              { return e.id }
func (e *StatusHistoryEntry) ProblemID() uint       { return e.problemID }
func (e *StatusHistoryEntry) OldStatus() *vo.Status { return e.oldStatus }
func (e *StatusHistoryEntry) NewStatus() vo.Status  { return e.newStatus }
func (e *StatusHistoryEntry) ChangedBy() uint       { return e.changedBy }
func (e *StatusHistoryEntry) Reason() string        { return e.reason }
func (e *StatusHistoryEntry) ChangedAt() time.Time  { return e.changedAt }

func (e *StatusHistoryEntry) SetID(id uint) {
	e.id = id
}
