package facade

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartNewThenGraphNameInUse(t *testing.T) {
	f := New(DefaultConfig(), nil, nil)
	require.NoError(t, f.StartNew("g1"))

	err := f.StartNew("g2")
	require.Error(t, err)
	var inUse *GraphNameInUse
	assert.ErrorAs(t, err, &inUse)
}

func TestShutdownAllowsRestart(t *testing.T) {
	f := New(DefaultConfig(), nil, nil)
	require.NoError(t, f.StartNew("g1"))
	f.Shutdown()
	assert.NoError(t, f.StartNew("g1"))
}

func TestOperationsRequireActiveGraph(t *testing.T) {
	f := New(DefaultConfig(), nil, nil)

	assert.Error(t, f.Connect("A", "x", "B", "x"))
	assert.Error(t, f.Build())
	assert.Error(t, f.LoadPlugin("nope.plg"))
}
