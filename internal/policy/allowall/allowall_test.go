package allowall

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreupdate/sysupdated/internal/policy"
)

func TestClientAlwaysAllows(t *testing.T) {
	res, err := Client{}.CheckAuthorization(context.Background(), ":1.23", ".update", policy.Details{
		Class: "host",
	})
	require.NoError(t, err)
	assert.Equal(t, policy.Allow, res)
}
