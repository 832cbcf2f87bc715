package path

import (
	"math"

	"github.com/netforge/netforge/topo"
)

// BellmanFord relaxes every allowed node's adjacency for
// |allowedNodes|+2 rounds, tolerating negative link costs. A relaxation
// that still occurs in the final round signals a negative cycle.
//
// With cycleMode false it returns the shortest node/link sequence from
// source to target (empty when unreachable) and whether a negative
// cycle was seen. With cycleMode true and a negative cycle present, it
// backtracks predecessor pointers from target until a node repeats and
// returns that cycle. The cycle found this way is *a* negative cycle
// reachable by backtracking, not necessarily the one affecting the
// queried pair — callers (the cost-transform disjoint-pair algorithms)
// only need some cycle.
func BellmanFord(t *topo.Topology, source, target *topo.Node, cycleMode bool, opts Options) ([]*topo.Node, []*topo.Link, bool, error) {
	opts.normalize(t)
	if !opts.nodeOK(source) || !opts.nodeOK(target) {
		return nil, nil, false, ErrNodeNotAllowed
	}

	dist := make(map[*topo.Node]float64, opts.allowedNodeCount())
	for n := range opts.AllowedNodes {
		dist[n] = math.Inf(1)
	}
	dist[source] = 0

	precNode := make(map[*topo.Node]*topo.Node)
	precLink := make(map[*topo.Node]*topo.Link)

	// Deterministic relaxation order.
	ordered := make([]*topo.Node, 0, opts.allowedNodeCount())
	for _, n := range t.Nodes() {
		if opts.AllowedNodes[n] {
			ordered = append(ordered, n)
		}
	}

	negative := false
	for round := 0; round < len(ordered)+2; round++ {
		negative = false
		for _, node := range ordered {
			if math.IsInf(dist[node], 1) {
				continue
			}
			for _, adj := range t.Adjacent(node, topo.Physical) {
				if !opts.nodeOK(adj.Neighbor) || !opts.linkOK(adj.Link) {
					continue
				}
				candidate := dist[node] + adj.Link.CostFrom(node)
				if candidate < dist[adj.Neighbor] {
					dist[adj.Neighbor] = candidate
					precNode[adj.Neighbor] = node
					precLink[adj.Neighbor] = adj.Link
					negative = true
				}
			}
		}
	}

	if !cycleMode {
		if math.IsInf(dist[target], 1) {
			return nil, nil, negative, nil
		}
		nodes := []*topo.Node{target}
		var links []*topo.Link
		for curr := target; curr != source; curr = precNode[curr] {
			if len(links) > len(ordered) {
				// Predecessor chain loops: a negative cycle corrupted the
				// path. Report unreachable rather than spin.
				return nil, nil, negative, nil
			}
			links = append(links, precLink[curr])
			nodes = append(nodes, precNode[curr])
		}
		reverseNodes(nodes)
		reverseLinks(links)
		return nodes, links, negative, nil
	}

	if !negative || precNode[target] == nil {
		return nil, nil, negative, nil
	}
	// Walk predecessors from target until a node repeats: that loop is a
	// negative cycle (used by cost-transform algorithms).
	seen := map[*topo.Node]bool{target: true}
	nodes := []*topo.Node{target}
	var links []*topo.Link
	curr := target
	for {
		links = append(links, precLink[curr])
		curr = precNode[curr]
		nodes = append(nodes, curr)
		if seen[curr] {
			break
		}
		seen[curr] = true
	}
	reverseNodes(nodes)
	reverseLinks(links)
	return nodes, links, true, nil
}
