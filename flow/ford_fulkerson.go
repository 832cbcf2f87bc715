package flow

import (
	"math"

	"github.com/netforge/netforge/topo"
)

// FordFulkerson computes the maximum flow from source to target by
// repeated depth-first augmentation. Each attempt carries its own
// visited set; the search stops when no augmenting path with positive
// residual capacity remains.
func FordFulkerson(t *topo.Topology, source, target *topo.Node) (float64, error) {
	if err := validate(t, source, target); err != nil {
		return 0, err
	}
	t.ResetFlow()
	for {
		visited := make(map[*topo.Node]bool)
		if augmentDFS(t, math.Inf(1), source, target, visited) == 0 {
			break
		}
	}
	return outgoing(t, source), nil
}

// augmentDFS pushes up to val units from curr toward target along the
// first augmenting path found, updating flows on the way back up.
func augmentDFS(t *topo.Topology, val float64, curr, target *topo.Node, visited map[*topo.Node]bool) float64 {
	visited[curr] = true
	if curr == target {
		return val
	}
	for _, adj := range t.Adjacent(curr, topo.Physical) {
		residual := residualFrom(adj.Link, curr)
		if residual <= 0 || visited[adj.Neighbor] {
			continue
		}
		pushed := augmentDFS(t, math.Min(val, residual), adj.Neighbor, target, visited)
		if pushed > 0 {
			push(adj.Link, curr, pushed)
			return pushed
		}
	}
	return 0
}
