// Package graph implements the assembler: the state machine that
// accumulates loaded plugins and declared edges, materializes shared
// regions, computes a topological execution order, verifies every
// plugin is ready, and freezes the result for the runner.
package graph

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/coreframe/trnx/identity"
	"github.com/coreframe/trnx/pluginapi"
	"github.com/coreframe/trnx/pluginpkg"
	"github.com/coreframe/trnx/port"
	"github.com/coreframe/trnx/region"
)

// State is the assembler's lifecycle stage.
type State int

const (
	StateInit State = iota
	StateOpen
	StateBuilt
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateOpen:
		return "open"
	case StateBuilt:
		return "built"
	default:
		return "unknown"
	}
}

// pluginEntry is everything the assembler tracks about one loaded
// plugin.
type pluginEntry struct {
	id      string
	class   string
	plugin  pluginapi.Plugin
	inputs  map[string]port.Descriptor
	outputs map[string]port.Descriptor
	source  string
}

// edge is a declared, not-yet-materialized connection.
type edge struct {
	producer, outPort string
	consumer, inPort  string
}

// Graph is one named, in-progress-or-built execution graph.
type Graph struct {
	Name string

	log      *logrus.Logger
	ids      *identity.Service
	state    State
	loadOrd  []string
	plugins  map[string]*pluginEntry
	edges    []edge
	consumed map[string]bool // "<consumer>.<port>" -> has an incoming edge

	order   []string
	regions map[string]*region.Region
}

// New starts a new graph in state open. This is the Graph Assembler's
// start_new transition; any previously held state belongs to the
// caller to tear down first (see package facade).
func New(name string, ids *identity.Service, log *logrus.Logger) *Graph {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Graph{
		Name:     name,
		log:      log,
		ids:      ids,
		state:    StateOpen,
		plugins:  make(map[string]*pluginEntry),
		consumed: make(map[string]bool),
		regions:  make(map[string]*region.Region),
	}
}

// State returns the current lifecycle stage.
func (g *Graph) State() State { return g.state }

func (g *Graph) requireState(op string, want State) error {
	if g.state != want {
		return &IllegalState{State: g.state.String(), Op: op}
	}
	return nil
}

// LoadPlugin adds loaded to the graph under its class name, calling
// DeclareInputs/DeclareOutputs exactly once and caching the result.
func (g *Graph) LoadPlugin(loaded *pluginpkg.Loaded) error {
	if err := g.requireState("load_plugin", StateOpen); err != nil {
		return err
	}
	class := loaded.ClassName
	if _, exists := g.plugins[class]; exists {
		return &DuplicatePlugin{Class: class}
	}

	id := g.ids.Generate()
	entry := &pluginEntry{
		id:      id,
		class:   class,
		plugin:  loaded.Plugin,
		inputs:  loaded.Plugin.DeclareInputs(),
		outputs: loaded.Plugin.DeclareOutputs(),
		source:  loaded.SourcePath,
	}
	g.plugins[class] = entry
	g.loadOrd = append(g.loadOrd, class)
	return nil
}

// Connect declares an edge from producer's output port to consumer's
// input port.
func (g *Graph) Connect(producer, outPort, consumer, inPort string) error {
	if err := g.requireState("connect", StateOpen); err != nil {
		return err
	}

	p, ok := g.plugins[producer]
	if !ok {
		return &UnknownPlugin{Class: producer}
	}
	c, ok := g.plugins[consumer]
	if !ok {
		return &UnknownPlugin{Class: consumer}
	}

	outDesc, ok := p.outputs[outPort]
	if !ok {
		return &UnknownPort{Class: producer, Port: outPort}
	}
	inDesc, ok := c.inputs[inPort]
	if !ok {
		return &UnknownPort{Class: consumer, Port: inPort}
	}

	key := consumer + "." + inPort
	if g.consumed[key] {
		return &FanInForbidden{Consumer: consumer, Port: inPort}
	}

	if !port.Compatible(outDesc, inDesc) {
		return &PortTypeMismatch{Producer: producer, OutPort: outPort, Consumer: consumer, InPort: inPort}
	}

	g.consumed[key] = true
	g.edges = append(g.edges, edge{producer: producer, outPort: outPort, consumer: consumer, inPort: inPort})
	return nil
}

// regionName derives the deterministic shared-memory name for a
// producer's output port.
func regionName(producerClass, outPort string) string {
	return fmt.Sprintf("%s_%s", producerClass, outPort)
}

// Order returns the frozen topological order. Valid only in state
// built.
func (g *Graph) Order() []string {
	return g.order
}

// Regions returns the frozen region set keyed by name. Valid only in
// state built.
func (g *Graph) Regions() map[string]*region.Region {
	return g.regions
}

// RegionOwner is one materialized region's producer and output port,
// the pair a region's deterministic name is derived from.
type RegionOwner struct {
	Producer string
	OutPort  string
	Name     string
}

// RegionOwners returns each materialized region's owning producer and
// output port, deduplicated, for diagnostics that group regions by
// producer class rather than by the flat region name alone.
func (g *Graph) RegionOwners() []RegionOwner {
	seen := make(map[string]bool, len(g.regions))
	var out []RegionOwner
	for _, e := range g.edges {
		name := regionName(e.producer, e.outPort)
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, RegionOwner{Producer: e.producer, OutPort: e.outPort, Name: name})
	}
	return out
}

// Plugin returns the loaded plugin instance for class, or nil.
func (g *Graph) Plugin(class string) pluginapi.Plugin {
	e, ok := g.plugins[class]
	if !ok {
		return nil
	}
	return e.plugin
}
