package maputils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoolVal(t *testing.T) {
	m := map[string]any{
		"enabled":  true,
		"disabled": false,
		"str":      "false",
	}

	val, found, err := BoolVal(m, "enabled")
	require.NoError(t, err)
	assert.True(t, found)
	assert.True(t, val)

	val, found, err = BoolVal(m, "disabled")
	require.NoError(t, err)
	assert.True(t, found)
	assert.False(t, val)

	_, found, err = BoolVal(m, "missing")
	require.NoError(t, err)
	assert.False(t, found)

	_, found, err = BoolVal(m, "str")
	assert.Error(t, err)
	assert.True(t, found)
}
