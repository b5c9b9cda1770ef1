// Package region implements the shared-memory backing for a single wired
// edge: a named, fixed-size, fixed-shape region with mutex-guarded
// read/write of a rectangular tensor. Exactly one producer writes a
// region; any number of consumers may read it. There is no queueing —
// a region always holds only the most recent write.
package region

import (
	"errors"
	"fmt"
	"regexp"
	"sync"

	"github.com/coreframe/trnx/port"
)

// ErrShapeMismatch is returned by Write when the supplied tensor's shape
// or element type does not match the region's descriptor.
var ErrShapeMismatch = errors.New("region: shape mismatch")

// namePattern is the ASCII naming rule required of region names on
// platforms that expose them as OS object names (spec §6).
var namePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// backend is the OS-specific half of a Region: how its bytes are
// obtained, resized, and released. Implementations live in
// region_linux.go (real POSIX-style shared memory) and
// region_fallback.go (in-process registry, same interface, no
// cross-process sharing).
type backend interface {
	bytes() []byte
	unlink() error
	close() error
}

// Region is a named shared-memory object plus a logical (shape, elem
// type) view over it.
type Region struct {
	Name string
	Desc port.Descriptor

	mu      sync.Mutex
	b       backend
	unlinks sync.Once
}

// Create acquires (creating if necessary, attaching if the name already
// exists) a shared region of exactly Desc.NumBytes() bytes. A freshly
// created region is zero-initialized; an attached one keeps its current
// contents, matching the original's try-attach-then-create ordering.
func Create(name string, desc port.Descriptor) (*Region, error) {
	if !namePattern.MatchString(name) {
		return nil, fmt.Errorf("region: name %q must match %s", name, namePattern.String())
	}
	b, err := openBackend(name, desc.NumBytes())
	if err != nil {
		return nil, fmt.Errorf("region: allocate %q: %w", name, err)
	}
	return &Region{Name: name, Desc: desc, b: b}, nil
}

// Write copies tensor into the region under the region's mutex. It
// fails with ErrShapeMismatch without touching the region if the
// tensor's shape or element type disagrees with the region's
// descriptor.
func (r *Region) Write(t port.Tensor) error {
	if !port.Compatible(r.Desc, t.Descriptor()) {
		return fmt.Errorf("%w: region %s wants %v/%s, got %v/%s",
			ErrShapeMismatch, r.Name, r.Desc.Shape, r.Desc.Elem, t.Shape, t.Elem)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	copy(r.b.bytes(), t.Data)
	return nil
}

// Read returns a freshly allocated copy of the region's current
// contents under the region's mutex, so a reader never observes a torn
// write.
func (r *Region) Read() port.Tensor {
	r.mu.Lock()
	defer r.mu.Unlock()
	data := make([]byte, len(r.b.bytes()))
	copy(data, r.b.bytes())
	shape := make([]int, len(r.Desc.Shape))
	copy(shape, r.Desc.Shape)
	return port.Tensor{Shape: shape, Elem: r.Desc.Elem, Data: data}
}

// Close detaches the region from this process without removing the
// underlying OS object. Safe to call more than once.
func (r *Region) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.b.close()
}

// Unlink removes the OS-level name backing this region. Idempotent:
// repeated calls are no-ops after the first.
func (r *Region) Unlink() error {
	var err error
	r.unlinks.Do(func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		err = r.b.unlink()
	})
	return err
}
