package flow

import (
	"math"

	"github.com/netforge/netforge/topo"
)

// Dinic computes the maximum flow from source to target by alternating
// level-graph construction (BFS over the residual graph) with blocking
// flows (DFS restricted to edges advancing exactly one level), until the
// target drops out of the level graph.
func Dinic(t *topo.Topology, source, target *topo.Node) (float64, error) {
	if err := validate(t, source, target); err != nil {
		return 0, err
	}
	t.ResetFlow()
	var total float64
	for {
		level := buildLevels(t, source)
		if _, ok := level[target]; !ok {
			return total, nil
		}
		// An upper bound on what one blocking-flow phase can push.
		var limit float64
		for _, adj := range t.Adjacent(source, topo.Physical) {
			limit += adj.Link.CapacityFrom(source)
		}
		total += blockingFlow(t, level, source, target, limit)
	}
}

// buildLevels runs the residual-graph BFS, assigning each reachable node
// its distance in hops from the source.
func buildLevels(t *topo.Topology, source *topo.Node) map[*topo.Node]int {
	level := map[*topo.Node]int{source: 0}
	queue := []*topo.Node{source}
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		for _, adj := range t.Adjacent(curr, topo.Physical) {
			if _, seen := level[adj.Neighbor]; seen {
				continue
			}
			if residualFrom(adj.Link, curr) > 0 {
				level[adj.Neighbor] = level[curr] + 1
				queue = append(queue, adj.Neighbor)
			}
		}
	}
	return level
}

// blockingFlow pushes flow along every level-advancing residual edge
// until curr's outgoing level edges are saturated; a node that can no
// longer forward anything is pruned from the level graph.
func blockingFlow(t *topo.Topology, level map[*topo.Node]int, curr, target *topo.Node, limit float64) float64 {
	if limit <= 0 {
		return 0
	}
	if curr == target {
		return limit
	}
	var val float64
	for _, adj := range t.Adjacent(curr, topo.Physical) {
		lv, ok := level[adj.Neighbor]
		if !ok || lv != level[curr]+1 {
			continue
		}
		residual := residualFrom(adj.Link, curr)
		if residual <= 0 {
			continue
		}
		pushed := blockingFlow(t, level, adj.Neighbor, target, math.Min(limit, residual))
		if pushed > 0 {
			push(adj.Link, curr, pushed)
			val += pushed
			limit -= pushed
		}
	}
	if val == 0 {
		delete(level, curr)
	}
	return val
}
