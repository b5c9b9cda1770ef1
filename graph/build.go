package graph

import (
	"fmt"

	lvcore "github.com/katalvlaran/lvlath/graph/core"

	"github.com/coreframe/trnx/region"
)

// Build performs the four-step build: region materialization,
// topological sort, verification, commit. It is all-or-nothing: any
// failure rolls back every region created during this attempt and
// leaves the graph in state open.
func (g *Graph) Build() error {
	if err := g.requireState("build", StateOpen); err != nil {
		return err
	}

	created, err := g.materializeRegions()
	if err != nil {
		g.rollback(created)
		return err
	}

	order, err := g.topologicalOrder()
	if err != nil {
		g.rollback(created)
		return err
	}

	if err := g.verifyAll(); err != nil {
		g.rollback(created)
		return &BuildFailed{Inner: err}
	}

	g.order = order
	g.regions = created
	g.state = StateBuilt
	g.log.WithFields(logFields(g.Name, len(order), len(created))).Info("graph: build committed")
	return nil
}

func logFields(name string, plugins, regions int) map[string]interface{} {
	return map[string]interface{}{"graph": name, "plugins": plugins, "regions": regions}
}

// materializeRegions creates a SharedRegion for every producer output
// that is the source of at least one edge, and binds it to the
// producer and every one of its consumers. Outputs with no consumer
// get no region, as the original leaves them silently unbound.
func (g *Graph) materializeRegions() (map[string]*region.Region, error) {
	regions := make(map[string]*region.Region)

	outputsWithEdges := make(map[string]bool) // "<producer>.<outPort>"
	for _, e := range g.edges {
		outputsWithEdges[e.producer+"."+e.outPort] = true
	}

	for _, e := range g.edges {
		name := regionName(e.producer, e.outPort)
		r, ok := regions[name]
		if !ok {
			desc := g.plugins[e.producer].outputs[e.outPort]
			var err error
			r, err = region.Create(name, desc)
			if err != nil {
				return regions, fmt.Errorf("%w: %s: %s", ErrRegionAllocationFailed, name, err)
			}
			regions[name] = r
			if err := g.plugins[e.producer].plugin.BindOutput(e.outPort, r); err != nil {
				return regions, err
			}
		}
		if err := g.plugins[e.consumer].plugin.BindInput(e.inPort, r); err != nil {
			return regions, err
		}
	}

	return regions, nil
}

// topologicalOrder builds the producer→consumer dependency DAG in an
// lvlath graph keyed by plugin class name and runs Kahn's algorithm
// against it, stable-tie-broken on load order.
func (g *Graph) topologicalOrder() ([]string, error) {
	dag := lvcore.NewGraph(true, false)
	for _, class := range g.loadOrd {
		dag.AddVertex(&lvcore.Vertex{ID: class})
	}
	for _, e := range g.edges {
		dag.AddEdge(e.producer, e.consumer, 1)
	}
	return topoSort(dag, g.loadOrd)
}

func (g *Graph) verifyAll() error {
	for _, class := range g.loadOrd {
		if err := g.plugins[class].plugin.Verify(); err != nil {
			return err
		}
	}
	return nil
}

// rollback unlinks every region created during a failed build attempt.
func (g *Graph) rollback(created map[string]*region.Region) {
	for name, r := range created {
		if err := r.Unlink(); err != nil {
			g.log.WithError(err).WithField("region", name).Warn("graph: rollback failed to unlink region")
		}
	}
}

// Shutdown cancels nothing by itself (the runner owns cancellation)
// but unlinks every region the graph created and drops built state,
// matching the facade's shutdown verb: cancel runner, unlink regions,
// drop graph.
func (g *Graph) Shutdown() {
	g.rollback(g.regions)
	g.regions = make(map[string]*region.Region)
	g.order = nil
	g.state = StateOpen
}
