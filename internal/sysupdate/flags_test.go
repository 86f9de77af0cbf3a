package sysupdate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOfflineFlags(t *testing.T) {
	offline, err := ParseOfflineFlags(FlagOffline)
	require.NoError(t, err)
	assert.True(t, offline)

	offline, err = ParseOfflineFlags(0)
	require.NoError(t, err)
	assert.False(t, offline)

	_, err = ParseOfflineFlags(1 << 3)
	assert.ErrorIs(t, err, ErrInvalidArgs)
}

func TestRequireZeroFlags(t *testing.T) {
	assert.NoError(t, RequireZeroFlags(0))
	assert.ErrorIs(t, RequireZeroFlags(1), ErrInvalidArgs)
}
