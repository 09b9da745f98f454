package audit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEntry(t *testing.T) {
	actor := uint(3)
	e, err := NewEntry("problems", 10, ActionUpdate, &actor, Changes{"status": Change{From: "open", To: "assigned"}}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, ActionUpdate, e.Action())
	assert.Equal(t, uint(3), *e.UserID())
}

func TestNewEntry_SystemActor(t *testing.T) {
	e, err := NewEntry("problems", 10, ActionUpdate, nil, nil, time.Now())
	require.NoError(t, err)
	assert.Nil(t, e.UserID())
	assert.NotNil(t, e.Changes())
}

func TestNewEntry_Invalid(t *testing.T) {
	_, err := NewEntry("", 1, ActionCreate, nil, nil, time.Now())
	assert.Error(t, err)
	_, err = NewEntry("problems", 0, ActionCreate, nil, nil, time.Now())
	assert.Error(t, err)
	_, err = NewEntry("problems", 1, Action("PATCH"), nil, nil, time.Now())
	assert.Error(t, err)
}
