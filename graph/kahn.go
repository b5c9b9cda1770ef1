package graph

import (
	lvcore "github.com/katalvlaran/lvlath/graph/core"
)

// topoSort runs Kahn's algorithm against g, a directed lvlath graph
// whose vertex IDs are plugin class names and whose edges run
// producer→consumer. insertionOrder gives the stable tie-break order
// among equally-ready vertices (the order classes were loaded in).
//
// The library's own dfs.TopologicalSort is DFS-based and offers
// neither a stable tie-break nor a residual-cycle-set on failure, so
// Kahn's algorithm is implemented directly here against Vertices/
// Neighbors; lvlath supplies only the adjacency bookkeeping.
func topoSort(g *lvcore.Graph, insertionOrder []string) ([]string, error) {
	indegree := make(map[string]int, len(insertionOrder))
	for _, v := range g.Vertices() {
		indegree[v.ID] = 0
	}
	for _, v := range g.Vertices() {
		for _, n := range g.Neighbors(v.ID) {
			indegree[n.ID]++
		}
	}

	queue := make([]string, 0, len(insertionOrder))
	inQueue := make(map[string]bool, len(insertionOrder))
	for _, class := range insertionOrder {
		if indegree[class] == 0 {
			queue = append(queue, class)
			inQueue[class] = true
		}
	}

	order := make([]string, 0, len(insertionOrder))
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		order = append(order, node)

		for _, n := range g.Neighbors(node) {
			indegree[n.ID]--
			if indegree[n.ID] == 0 && !inQueue[n.ID] {
				queue = append(queue, n.ID)
				inQueue[n.ID] = true
			}
		}
	}

	if len(order) < len(insertionOrder) {
		var residual []string
		for _, class := range insertionOrder {
			if indegree[class] > 0 {
				residual = append(residual, class)
			}
		}
		return nil, &CycleDetected{Nodes: residual}
	}

	return order, nil
}
