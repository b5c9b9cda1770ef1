package region

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreframe/trnx/port"
)

func desc(t *testing.T, shape []int, e port.ElemType) port.Descriptor {
	t.Helper()
	d, err := port.New(shape, e)
	require.NoError(t, err)
	return d
}

func TestCreateZeroInitializes(t *testing.T) {
	d := desc(t, []int{2, 3}, port.F64)
	r, err := Create("test_zero_init", d)
	require.NoError(t, err)
	defer r.Unlink()

	got := r.Read()
	vals, err := got.Float64s()
	require.NoError(t, err)
	for _, v := range vals {
		assert.Equal(t, 0.0, v)
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	d := desc(t, []int{3}, port.F64)
	r, err := Create("test_roundtrip", d)
	require.NoError(t, err)
	defer r.Unlink()

	tensor := port.TensorFromFloat64s([]int{3}, []float64{1.5, 2.5, 3.5})
	require.NoError(t, r.Write(tensor))

	got := r.Read()
	vals, err := got.Float64s()
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5, 2.5, 3.5}, vals)
}

func TestWriteShapeMismatch(t *testing.T) {
	d := desc(t, []int{3}, port.F64)
	r, err := Create("test_shape_mismatch", d)
	require.NoError(t, err)
	defer r.Unlink()

	bad := port.TensorFromFloat64s([]int{2}, []float64{1, 2})
	err = r.Write(bad)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestAttachToExisting(t *testing.T) {
	d := desc(t, []int{2}, port.F64)
	r1, err := Create("test_attach", d)
	require.NoError(t, err)
	defer r1.Unlink()

	require.NoError(t, r1.Write(port.TensorFromFloat64s([]int{2}, []float64{9, 10})))

	r2, err := Create("test_attach", d)
	require.NoError(t, err)
	defer r2.Close()

	vals, err := r2.Read().Float64s()
	require.NoError(t, err)
	assert.Equal(t, []float64{9, 10}, vals)
}

func TestUnlinkIdempotent(t *testing.T) {
	d := desc(t, []int{1}, port.F64)
	r, err := Create("test_unlink_idempotent", d)
	require.NoError(t, err)

	assert.NoError(t, r.Unlink())
	assert.NoError(t, r.Unlink())
}

func TestReaderNeverSeesPartialWrite(t *testing.T) {
	d := desc(t, []int{100}, port.F64)
	r, err := Create("test_no_tearing", d)
	require.NoError(t, err)
	defer r.Unlink()

	vals := make([]float64, 100)
	for i := range vals {
		vals[i] = 7.0
	}
	require.NoError(t, r.Write(port.TensorFromFloat64s([]int{100}, vals)))

	got, err := r.Read().Float64s()
	require.NoError(t, err)
	for _, v := range got {
		assert.Equal(t, 7.0, v)
	}
}
