package wire

import (
	"bytes"
	"testing"

	"github.com/coreframe/trnx/port"
	"github.com/coreframe/trnx/region"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotReadsCurrentRegionContents(t *testing.T) {
	desc, err := port.New([]int{2}, port.F64)
	require.NoError(t, err)

	r, err := region.Create("WireTestAlpha", desc)
	require.NoError(t, err)
	defer r.Unlink()

	require.NoError(t, r.Write(port.TensorFromFloat64s([]int{2}, []float64{1.5, 2.5})))

	var buf bytes.Buffer
	require.NoError(t, Snapshot(&buf, "WireTestAlpha", []int{2}, port.F64))

	fr := NewFrameReader(&buf)
	f, err := fr.ReadFrame()
	require.NoError(t, err)
	assert.Equal(t, FrameTypeSnapshot, f.FrameType)
	assert.Equal(t, "WireTestAlpha", f.Region)

	got := port.Tensor{Shape: f.Shape, Elem: port.F64, Data: f.Data}
	vals, err := got.Float64s()
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5, 2.5}, vals)
}

func TestSnapshotEmitsErrOnBadDescriptor(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Snapshot(&buf, "WireTestBad", nil, port.F64))

	fr := NewFrameReader(&buf)
	f, err := fr.ReadFrame()
	require.NoError(t, err)
	assert.True(t, f.IsErr())
	assert.Equal(t, "bad_descriptor", f.Code)
}
