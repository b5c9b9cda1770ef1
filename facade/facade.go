// Package facade implements the Control Facade: the single external
// entry point a CLI or any other front-end drives. It holds at most
// one active graph and exposes the six control verbs the rest of the
// system (CLI, future HTTP layer) maps onto 1:1.
package facade

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/coreframe/trnx/graph"
	"github.com/coreframe/trnx/identity"
	"github.com/coreframe/trnx/pluginpkg"
	"github.com/coreframe/trnx/region"
	"github.com/coreframe/trnx/runner"
)

// GraphNameInUse is returned by StartNew when a graph is already
// active; this facade implements the single-graph simplification, so
// a second start_new is always rejected rather than multiplexed by
// name.
type GraphNameInUse struct {
	Name string
}

func (e *GraphNameInUse) Error() string {
	return fmt.Sprintf("facade: a graph is already active (tried to start %q)", e.Name)
}

// Facade is the process-wide control surface. The zero value is not
// usable; construct with New.
type Facade struct {
	Config Config

	log    *logrus.Logger
	reg    prometheus.Registerer
	ids    *identity.Service
	loader *pluginpkg.Loader

	active    *graph.Graph
	runner    *runner.Runner
	runCancel context.CancelFunc
}

// New constructs a Facade with its own identifier service and plugin
// loader, the process-scoped collaborators the assembler and loader
// need, threaded through explicitly rather than held as globals.
func New(cfg Config, log *logrus.Logger, reg prometheus.Registerer) *Facade {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if cfg.RegionRoot != "" {
		region.SetRoot(cfg.RegionRoot)
	}
	return &Facade{
		Config: cfg,
		log:    log,
		reg:    reg,
		ids:    identity.NewService(),
		loader: pluginpkg.NewLoader(log),
	}
}

// StartNew transitions init→open for a freshly named graph, clearing
// any prior state. Fails with GraphNameInUse if a graph is already
// active.
func (f *Facade) StartNew(name string) error {
	if f.active != nil {
		return &GraphNameInUse{Name: name}
	}
	f.active = graph.New(name, f.ids, f.log)
	return nil
}

// LoadPlugin loads the .plg archive at path and adds it to the active
// graph.
func (f *Facade) LoadPlugin(path string) error {
	if err := f.requireActive(); err != nil {
		return err
	}
	loaded, err := f.loader.Load(path)
	if err != nil {
		return err
	}
	return f.active.LoadPlugin(loaded)
}

// Connect declares an edge in the active graph.
func (f *Facade) Connect(producer, outPort, consumer, inPort string) error {
	if err := f.requireActive(); err != nil {
		return err
	}
	return f.active.Connect(producer, outPort, consumer, inPort)
}

// Build materializes regions, sorts, verifies, and freezes the active
// graph.
func (f *Facade) Build() error {
	if err := f.requireActive(); err != nil {
		return err
	}
	return f.active.Build()
}

// Run starts the runner loop over the built, active graph. It blocks
// until ctx is cancelled or Shutdown is called.
func (f *Facade) Run(ctx context.Context) error {
	if err := f.requireActive(); err != nil {
		return err
	}
	runCtx, cancel := context.WithCancel(ctx)
	f.runCancel = cancel

	metrics := runner.NewMetrics(f.reg)
	f.runner = runner.New(f.active.Order(), f.active.Plugin, f.log, metrics, f.Config.TickLogEvery)
	f.runner.Run(runCtx)
	return nil
}

// Shutdown cancels any running runner loop, unlinks every region the
// active graph created, and drops the graph so a new StartNew can
// succeed.
func (f *Facade) Shutdown() {
	if f.runCancel != nil {
		f.runCancel()
		f.runCancel = nil
	}
	if f.active != nil {
		f.active.Shutdown()
		f.active = nil
	}
	f.runner = nil
}

// Order returns the active graph's topological plugin order. Only
// meaningful after Build; returns nil before that.
func (f *Facade) Order() []string {
	if f.active == nil {
		return nil
	}
	return f.active.Order()
}

// RegionOwners returns the active graph's materialized regions grouped
// by owning producer and output port. Only meaningful after Build.
func (f *Facade) RegionOwners() []graph.RegionOwner {
	if f.active == nil {
		return nil
	}
	return f.active.RegionOwners()
}

func (f *Facade) requireActive() error {
	if f.active == nil {
		return &graph.IllegalState{State: "init", Op: "facade"}
	}
	return nil
}

// LoadAllPlugins is a convenience wrapper over the loader's
// per-package-survivable batch load, adding every successfully loaded
// plugin to the active graph. Failures to add (e.g. DuplicatePlugin)
// are likewise logged and skipped, not fatal to the batch.
func (f *Facade) LoadAllPlugins(dir string) {
	if f.active == nil {
		return
	}
	for _, loaded := range f.loader.LoadAll(dir) {
		if err := f.active.LoadPlugin(loaded); err != nil {
			f.log.WithError(err).WithField("class", loaded.ClassName).Warn("facade: failed to add loaded plugin to graph")
		}
	}
}
