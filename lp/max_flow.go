package lp

import (
	"github.com/netforge/netforge/topo"
)

// MaxFlow states the source→target maximum flow as an arc program:
// maximize the net outflow of the source subject to per-arc capacity
// bounds and conservation at every intermediate node. The solved arc
// values are written back to the directional flow fields.
func MaxFlow(t *topo.Topology, source, target *topo.Node, s Solver) (float64, error) {
	if source == nil || target == nil || source == target {
		return 0, ErrBadEndpoints
	}
	ix := newArcIndex(t)

	// Maximization by minimizing the negated source outflow.
	c := make([]float64, len(ix.arcs))
	for _, i := range ix.out[source] {
		c[i] = -1
	}
	for _, i := range ix.in[source] {
		c[i] = 1
	}
	g, h := ix.identityUpper(func(a Arc) float64 { return a.Link.Capacity[a.Dir] })
	a, b := ix.conservation(t, map[*topo.Node]bool{source: true, target: true},
		func(*topo.Node) float64 { return 0 })

	x, obj, err := s.Solve(&Problem{C: c, G: g, H: h, A: a, B: b})
	if err != nil {
		return 0, err
	}
	ix.writeFlows(t, x)
	return -obj, nil
}

// MinCostFlow routes the given amount from source to target at minimum
// total cost, subject to per-arc capacity bounds. It returns the optimal
// routing cost and writes the arc values back to the flow fields;
// ErrInfeasible means the network cannot carry that amount.
func MinCostFlow(t *topo.Topology, source, target *topo.Node, amount float64, s Solver) (float64, error) {
	if source == nil || target == nil || source == target {
		return 0, ErrBadEndpoints
	}
	ix := newArcIndex(t)

	c := make([]float64, len(ix.arcs))
	for i, arc := range ix.arcs {
		c[i] = arc.Link.Cost[arc.Dir]
	}
	g, h := ix.identityUpper(func(a Arc) float64 { return a.Link.Capacity[a.Dir] })
	a, b := ix.conservation(t, map[*topo.Node]bool{target: true}, func(n *topo.Node) float64 {
		if n == source {
			return amount
		}
		return 0
	})

	x, obj, err := s.Solve(&Problem{C: c, G: g, H: h, A: a, B: b})
	if err != nil {
		return 0, err
	}
	ix.writeFlows(t, x)
	return obj, nil
}
