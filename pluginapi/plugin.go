// Package pluginapi defines the contract every loadable plugin must
// satisfy: declaring its typed ports, accepting region bindings for
// them, verifying it is ready to run, and processing one tick.
package pluginapi

import (
	"errors"
	"fmt"

	"github.com/coreframe/trnx/port"
	"github.com/coreframe/trnx/region"
)

// Plugin is the behavior every entry-point factory must produce.
// DeclareInputs and DeclareOutputs must be pure and idempotent: the
// assembler calls each exactly once at load time and caches the
// result, so a plugin must not mutate its declared port set based on
// binding or process-time state.
type Plugin interface {
	DeclareInputs() map[string]port.Descriptor
	DeclareOutputs() map[string]port.Descriptor
	BindInput(name string, r *region.Region) error
	BindOutput(name string, r *region.Region) error
	Verify() error
	Process() error
}

// UnknownPort is returned by BindInput/BindOutput when name is not a
// key of the corresponding declared port map.
type UnknownPort struct {
	Plugin string
	Port   string
}

func (e *UnknownPort) Error() string {
	return fmt.Sprintf("pluginapi: unknown port %q on plugin %q", e.Port, e.Plugin)
}

// UnboundInput is returned by Verify when a declared required input
// has no bound region.
type UnboundInput struct {
	Plugin string
	Port   string
}

func (e *UnboundInput) Error() string {
	return fmt.Sprintf("pluginapi: plugin %q has unbound required input %q", e.Plugin, e.Port)
}

// ErrUnboundInput is a sentinel usable with errors.Is against an
// *UnboundInput wrapped in a build-failure chain.
var ErrUnboundInput = errors.New("pluginapi: unbound input")

func (e *UnboundInput) Unwrap() error { return ErrUnboundInput }
func (e *UnknownPort) Unwrap() error  { return errUnknownPort }

var errUnknownPort = errors.New("pluginapi: unknown port")

// Base is an embeddable helper that implements the binding/verification
// bookkeeping common to every plugin, leaving DeclareInputs,
// DeclareOutputs, and Process to the concrete plugin. It mirrors the
// base-class convenience methods the original runtime gave every
// plugin (bind/verify bookkeeping) without inheriting Python's dynamic
// attribute semantics: every map is allocated up front and every
// lookup is explicit.
type Base struct {
	Name string

	inputs  map[string]port.Descriptor
	outputs map[string]port.Descriptor

	boundInputs  map[string]*region.Region
	boundOutputs map[string]*region.Region
}

// Init must be called once by a concrete plugin's constructor with the
// maps returned by its own DeclareInputs/DeclareOutputs, before the
// plugin is handed to the loader.
func (b *Base) Init(name string, inputs, outputs map[string]port.Descriptor) {
	b.Name = name
	b.inputs = inputs
	b.outputs = outputs
	b.boundInputs = make(map[string]*region.Region)
	b.boundOutputs = make(map[string]*region.Region)
}

// BindInput implements Plugin.BindInput.
func (b *Base) BindInput(name string, r *region.Region) error {
	if _, ok := b.inputs[name]; !ok {
		return &UnknownPort{Plugin: b.Name, Port: name}
	}
	b.boundInputs[name] = r
	return nil
}

// BindOutput implements Plugin.BindOutput.
func (b *Base) BindOutput(name string, r *region.Region) error {
	if _, ok := b.outputs[name]; !ok {
		return &UnknownPort{Plugin: b.Name, Port: name}
	}
	b.boundOutputs[name] = r
	return nil
}

// Verify implements Plugin.Verify: every declared required input must
// be bound.
func (b *Base) Verify() error {
	for name := range b.inputs {
		if _, ok := b.boundInputs[name]; !ok {
			return &UnboundInput{Plugin: b.Name, Port: name}
		}
	}
	return nil
}

// Input returns the region bound to the named input port, or nil if
// unbound. Concrete plugins use this inside Process to read.
func (b *Base) Input(name string) *region.Region {
	return b.boundInputs[name]
}

// Output returns the region bound to the named output port, or nil if
// unbound (an output with no consumer is legal and simply never gets a
// region). Concrete plugins use this inside Process to write.
func (b *Base) Output(name string) *region.Region {
	return b.boundOutputs[name]
}

// InputsSnapshot returns the map passed to Init for required inputs.
// Concrete plugins implement DeclareInputs by returning this, keeping
// the declaration idempotent and pure as the contract requires.
func (b *Base) InputsSnapshot() map[string]port.Descriptor {
	return b.inputs
}

// OutputsSnapshot returns the map passed to Init for provided outputs.
func (b *Base) OutputsSnapshot() map[string]port.Descriptor {
	return b.outputs
}
