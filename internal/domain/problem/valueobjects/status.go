package valueobjects

import "fmt"

type Status string

const (
	StatusOpen         Status = "open"
	StatusAssigned     Status = "assigned"
	StatusInProgress   Status = "in_progress"
	StatusAwaitingUser Status = "awaiting_user"
	StatusResolved     Status = "resolved"
	StatusClosed       Status = "closed"
	StatusCancelled    Status = "cancelled"
)

var validStatuses = map[Status]bool{
	StatusOpen:         true,
	StatusAssigned:     true,
	StatusInProgress:   true,
	StatusAwaitingUser: true,
	StatusResolved:     true,
	StatusClosed:       true,
	StatusCancelled:    true,
}

var statusTransitions = map[Status][]Status{
	StatusOpen: {
		StatusAssigned,
		StatusCancelled,
	},
	StatusAssigned: {
		StatusInProgress,
		StatusAwaitingUser,
		StatusOpen,
		StatusCancelled,
	},
	StatusInProgress: {
		StatusAwaitingUser,
		StatusResolved,
		StatusAssigned,
		StatusCancelled,
	},
	StatusAwaitingUser: {
		StatusInProgress,
		StatusResolved,
		StatusCancelled,
	},
	StatusResolved: {
		StatusClosed,
		StatusInProgress,
	},
	StatusClosed:    {},
	StatusCancelled: {},
}

// AllStatuses lists statuses in workflow order, for filters and select boxes.
func AllStatuses() []Status {
	return []Status{
		StatusOpen,
		StatusAssigned,
		StatusInProgress,
		StatusAwaitingUser,
		StatusResolved,
		StatusClosed,
		StatusCancelled,
	}
}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	return validStatuses[s]
}

// CanTransitionTo reports whether the workflow allows moving to next.
// Staying in the same status is always allowed.
func (s Status) CanTransitionTo(next Status) bool {
	if !next.IsValid() {
		return false
	}
	if s == next {
		return true
	}
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// AllowedTransitions returns the statuses reachable from s in one step.
func (s Status) AllowedTransitions() []Status {
	allowed := statusTransitions[s]
	out := make([]Status, len(allowed))
	copy(out, allowed)
	return out
}

// IsTerminal reports whether no further transitions exist.
func (s Status) IsTerminal() bool {
	return s.IsValid() && len(statusTransitions[s]) == 0
}

// IsFinished reports whether work on the problem is over, which stops the SLA clock.
func (s Status) IsFinished() bool {
	return s == StatusResolved || s == StatusClosed || s == StatusCancelled
}

func (s Status) IsResolved() bool {
	return s == StatusResolved
}

func NewStatus(s string) (Status, error) {
	st := Status(s)
	if !st.IsValid() {
		return "", fmt.Errorf("invalid problem status: %s", s)
	}
	return st, nil
}
