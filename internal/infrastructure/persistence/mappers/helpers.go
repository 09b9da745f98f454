package mappers

import "time"

// utcPtr normalises driver-returned times; sqlite and mysql hand back
// different locations for the same instant.
func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
