package wire

import (
	"fmt"
	"io"

	"github.com/coreframe/trnx/port"
	"github.com/coreframe/trnx/region"
)

// Snapshot attaches to the named shared region with the given shape
// and element type, reads its current contents under the region's own
// mutex, and writes a single SNAPSHOT frame (or an ERR frame on
// failure) to w. It never writes tensor data to the region, and the
// graph that owns the region is never made aware its output was
// inspected. Attaching goes through region.Create: if no region of that
// name exists, a zero-filled one is created and left in place, and its
// zeros are what the SNAPSHOT frame carries; a missing region is not
// reported as an ERR frame.
func Snapshot(w io.Writer, name string, shape []int, elem port.ElemType) error {
	fw := NewFrameWriter(w)

	desc, err := port.New(shape, elem)
	if err != nil {
		return fw.WriteFrame(NewErr("bad_descriptor", err.Error()))
	}

	r, err := region.Create(name, desc)
	if err != nil {
		return fw.WriteFrame(NewErr("attach_failed", fmt.Sprintf("attach region %q: %v", name, err)))
	}
	defer r.Close()

	t := r.Read()
	return fw.WriteFrame(NewSnapshot(name, t.Shape, t.Elem.String(), t.Data))
}
