package port

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Tensor is a shaped, typed buffer of raw bytes. It is the value passed
// across a write()/read() boundary on a region: the byte slice is the
// single source of truth, and the typed accessors below decode fresh
// copies out of it, mirroring how a numpy ndarray is a typed view over
// a shared-memory buffer in the original implementation, but safe to
// hold onto after the backing Data is overwritten by a later Write.
type Tensor struct {
	Shape []int
	Elem  ElemType
	Data  []byte
}

// NewTensor allocates a zeroed tensor matching the given descriptor.
func NewTensor(d Descriptor) Tensor {
	return Tensor{Shape: d.Shape, Elem: d.Elem, Data: make([]byte, d.NumBytes())}
}

// Descriptor returns the (shape, elem type) pair describing this tensor.
func (t Tensor) Descriptor() Descriptor {
	return Descriptor{Shape: t.Shape, Elem: t.Elem}
}

// Clone returns a deep copy so callers can mutate without affecting the
// original backing slice.
func (t Tensor) Clone() Tensor {
	cp := make([]byte, len(t.Data))
	copy(cp, t.Data)
	shape := make([]int, len(t.Shape))
	copy(shape, t.Shape)
	return Tensor{Shape: shape, Elem: t.Elem, Data: cp}
}

func (t Tensor) requireElem(want ElemType) error {
	if t.Elem != want {
		return fmt.Errorf("port: tensor element type is %s, not %s", t.Elem, want)
	}
	return nil
}

// Float64s returns a decoded copy of the tensor's elements.
func (t Tensor) Float64s() ([]float64, error) {
	if err := t.requireElem(F64); err != nil {
		return nil, err
	}
	out := make([]float64, len(t.Data)/8)
	for i := range out {
		out[i] = math.Float64frombits(binary.LittleEndian.Uint64(t.Data[i*8:]))
	}
	return out, nil
}

// Float32s returns a decoded copy of the tensor's elements.
func (t Tensor) Float32s() ([]float32, error) {
	if err := t.requireElem(F32); err != nil {
		return nil, err
	}
	out := make([]float32, len(t.Data)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(t.Data[i*4:]))
	}
	return out, nil
}

// Int32s returns a decoded copy of the tensor's elements.
func (t Tensor) Int32s() ([]int32, error) {
	if err := t.requireElem(I32); err != nil {
		return nil, err
	}
	out := make([]int32, len(t.Data)/4)
	for i := range out {
		out[i] = int32(binary.LittleEndian.Uint32(t.Data[i*4:]))
	}
	return out, nil
}

// Int64s returns a decoded copy of the tensor's elements.
func (t Tensor) Int64s() ([]int64, error) {
	if err := t.requireElem(I64); err != nil {
		return nil, err
	}
	out := make([]int64, len(t.Data)/8)
	for i := range out {
		out[i] = int64(binary.LittleEndian.Uint64(t.Data[i*8:]))
	}
	return out, nil
}

// Uint8s returns a copy of the tensor's elements.
func (t Tensor) Uint8s() ([]byte, error) {
	if err := t.requireElem(U8); err != nil {
		return nil, err
	}
	out := make([]byte, len(t.Data))
	copy(out, t.Data)
	return out, nil
}

// TensorFromFloat64s packs a []float64 slice into a Tensor of the given shape.
func TensorFromFloat64s(shape []int, vals []float64) Tensor {
	data := make([]byte, len(vals)*8)
	for i, v := range vals {
		binary.LittleEndian.PutUint64(data[i*8:], math.Float64bits(v))
	}
	return Tensor{Shape: shape, Elem: F64, Data: data}
}
