package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnterExit(t *testing.T) {
	var g Guard
	require.NoError(t, g.Enter())
	assert.ErrorIs(t, g.Enter(), ErrReentrancy)
	g.Exit()
	assert.NoError(t, g.Enter())
}
