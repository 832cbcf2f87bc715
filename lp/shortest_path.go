package lp

import (
	"github.com/netforge/netforge/topo"
)

// ShortestPath states the source→target shortest path as an arc program:
// minimize total arc cost subject to unit net outflow at the source,
// conservation elsewhere and x ≤ 1 per arc. The constraint matrix is
// totally unimodular, so the LP relaxation already lands on a 0/1
// vertex and no integrality branching is needed.
func ShortestPath(t *topo.Topology, source, target *topo.Node, s Solver) ([]*topo.Node, []*topo.Link, float64, error) {
	if source == nil || target == nil || source == target {
		return nil, nil, 0, ErrBadEndpoints
	}
	ix := newArcIndex(t)

	c := make([]float64, len(ix.arcs))
	for i, arc := range ix.arcs {
		c[i] = arc.Link.Cost[arc.Dir]
	}
	g, h := ix.identityUpper(func(Arc) float64 { return 1 })
	a, b := ix.conservation(t, map[*topo.Node]bool{target: true}, func(n *topo.Node) float64 {
		if n == source {
			return 1
		}
		return 0
	})

	x, obj, err := s.Solve(&Problem{C: c, G: g, H: h, A: a, B: b})
	if err != nil {
		return nil, nil, 0, err
	}
	nodes, links := ix.walk(x, source, target)
	return nodes, links, obj, nil
}

// walk reassembles the selected arcs into the node/link sequence from
// source to target.
func (ix *arcIndex) walk(x []float64, source, target *topo.Node) ([]*topo.Node, []*topo.Link) {
	nodes := []*topo.Node{source}
	var links []*topo.Link
	used := make(map[int]bool)
	curr := source
	for curr != target && len(links) <= len(ix.arcs) {
		next := -1
		for _, i := range ix.out[curr] {
			if x[i] > 0.5 && !used[i] {
				next = i
				break
			}
		}
		if next < 0 {
			return nil, nil
		}
		used[next] = true
		links = append(links, ix.arcs[next].Link)
		curr = ix.arcs[next].Head()
		nodes = append(nodes, curr)
	}
	if curr != target {
		return nil, nil
	}
	return nodes, links
}
