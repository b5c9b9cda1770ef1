package graph

import (
	"errors"
	"fmt"
	"strings"
)

// IllegalState is returned when an operation is attempted from a
// state that does not permit it (e.g. Connect after Build, Build
// twice).
type IllegalState struct {
	State string
	Op    string
}

func (e *IllegalState) Error() string {
	return fmt.Sprintf("graph: operation %q illegal in state %q", e.Op, e.State)
}

// DuplicatePlugin is returned by Load when a plugin with the same
// class name is already loaded into the graph.
type DuplicatePlugin struct {
	Class string
}

func (e *DuplicatePlugin) Error() string {
	return fmt.Sprintf("graph: plugin class %q already loaded", e.Class)
}

// UnknownPlugin is returned by Connect when a producer or consumer
// class name is not loaded into the graph.
type UnknownPlugin struct {
	Class string
}

func (e *UnknownPlugin) Error() string {
	return fmt.Sprintf("graph: unknown plugin class %q", e.Class)
}

// UnknownPort is returned by Connect when a named port is not a key of
// the corresponding plugin's declared port map.
type UnknownPort struct {
	Class string
	Port  string
}

func (e *UnknownPort) Error() string {
	return fmt.Sprintf("graph: plugin %q has no port %q", e.Class, e.Port)
}

// FanInForbidden is returned by Connect when a (consumer, input port)
// pair is already the destination of another edge.
type FanInForbidden struct {
	Consumer string
	Port     string
}

func (e *FanInForbidden) Error() string {
	return fmt.Sprintf("graph: %s.%s already has an incoming edge", e.Consumer, e.Port)
}

// PortTypeMismatch is returned by Connect when the producer output
// descriptor and consumer input descriptor are not compatible.
type PortTypeMismatch struct {
	Producer, OutPort string
	Consumer, InPort  string
}

func (e *PortTypeMismatch) Error() string {
	return fmt.Sprintf("graph: %s.%s is not compatible with %s.%s", e.Producer, e.OutPort, e.Consumer, e.InPort)
}

// CycleDetected is returned by Build when the dependency graph is not
// acyclic. Nodes is the residual non-zero-in-degree set at the point
// Kahn's algorithm stalled: every plugin class name that is part of,
// or downstream only of, a cycle.
type CycleDetected struct {
	Nodes []string
}

func (e *CycleDetected) Error() string {
	return fmt.Sprintf("graph: cycle detected among plugins: %s", strings.Join(e.Nodes, ", "))
}

// BuildFailed wraps a verification error encountered during Build,
// after all partial state created during the attempt has been rolled
// back.
type BuildFailed struct {
	Inner error
}

func (e *BuildFailed) Error() string {
	return fmt.Sprintf("graph: build failed: %s", e.Inner)
}

func (e *BuildFailed) Unwrap() error { return e.Inner }

// ErrRegionAllocationFailed wraps a region.Create failure encountered
// during region materialization in Build.
var ErrRegionAllocationFailed = errors.New("graph: region allocation failed")
