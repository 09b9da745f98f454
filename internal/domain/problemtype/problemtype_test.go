package problemtype

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProblemType(t *testing.T) {
	resp, res := 30, 240
	pt, err := NewProblemType("Hardware", "Physical devices", nil, &resp, &res)
	require.NoError(t, err)
	assert.True(t, pt.IsUsable())
	assert.Equal(t, 30, *pt.SLAResponseMinutes())

	_, err = NewProblemType("", "", nil, nil, nil)
	assert.Error(t, err)

	neg := -1
	_, err = NewProblemType("x", "", nil, &neg, nil)
	assert.Error(t, err)
}

func TestIsUsable(t *testing.T) {
	deleted := time.Now()
	assert.False(t, ReconstructProblemType(1, "x", "", nil, nil, nil, false, time.Now(), nil).IsUsable())
	assert.False(t, ReconstructProblemType(1, "x", "", nil, nil, nil, true, time.Now(), &deleted).IsUsable())
}
