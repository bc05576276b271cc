package logging

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	dev, err := New(true)
	require.NoError(t, err)
	require.NotNil(t, dev)
	require.True(t, dev.Core().Enabled(-1)) // debug enabled in development

	prod, err := New(false)
	require.NoError(t, err)
	require.NotNil(t, prod)
	require.False(t, prod.Core().Enabled(-1))
}
