package path

import (
	"container/heap"

	"github.com/netforge/netforge/topo"
)

// AStar is the constrained shortest-path search (CSPF): it finds the
// cheapest path from source to target that visits every waypoint of
// opts.Constraints in order, avoiding excluded links and nodes.
//
// Waypoints are consumed back to front with the target as the implicit
// final constraint. On reaching the current waypoint the visited set and
// the queue are reset and the search continues from there — the result
// is not a concatenation of independent shortest paths, because link and
// node exclusions persist across waypoints.
//
// Despite the name, the cost metric is pure accumulated link cost, with
// no admissible heuristic: the name reflects its CSPF role in the
// engine, not textbook A*.
//
// When no path satisfies the constraints, both returned sequences are
// empty.
func AStar(t *topo.Topology, source, target *topo.Node, opts Options) ([]*topo.Node, []*topo.Link, error) {
	opts.normalize(t)
	if !opts.nodeOK(source) || !opts.nodeOK(target) {
		return nil, nil, ErrNodeNotAllowed
	}

	// Remaining constraints, consumed from the end.
	constraints := make([]*topo.Node, 0, len(opts.Constraints)+1)
	constraints = append(constraints, target)
	for i := len(opts.Constraints) - 1; i >= 0; i-- {
		constraints = append(constraints, opts.Constraints[i])
	}

	visited := make(map[*topo.Node]bool)
	h := &pq{}
	heap.Init(h)
	seq := 0
	heap.Push(h, &pqItem{
		node:        source,
		nodes:       []*topo.Node{source},
		constraints: constraints,
	})

	for h.Len() > 0 {
		item := heap.Pop(h).(*pqItem)
		node := item.node
		if visited[node] {
			continue
		}
		visited[node] = true
		constraints = item.constraints
		if node == constraints[len(constraints)-1] {
			// Waypoint satisfied: restart the search from here, keeping
			// the accumulated path and the persistent exclusions.
			visited = make(map[*topo.Node]bool)
			*h = (*h)[:0]
			constraints = constraints[:len(constraints)-1]
			if len(constraints) == 0 {
				return item.nodes, item.links, nil
			}
		}
		for _, adj := range t.Adjacent(node, topo.Physical) {
			if !opts.nodeOK(adj.Neighbor) || !opts.linkOK(adj.Link) {
				continue
			}
			seq++
			heap.Push(h, &pqItem{
				dist:        item.dist + adj.Link.CostFrom(node),
				seq:         seq,
				node:        adj.Neighbor,
				nodes:       appendNodes(item.nodes, adj.Neighbor),
				links:       appendLinks(item.links, adj.Link),
				constraints: constraints,
			})
		}
	}
	return nil, nil, nil
}

// appendNodes copies-on-append so sibling heap entries never share a
// backing array.
func appendNodes(s []*topo.Node, n *topo.Node) []*topo.Node {
	out := make([]*topo.Node, len(s)+1)
	copy(out, s)
	out[len(s)] = n
	return out
}

func appendLinks(s []*topo.Link, l *topo.Link) []*topo.Link {
	out := make([]*topo.Link, len(s)+1)
	copy(out, s)
	out[len(s)] = l
	return out
}
