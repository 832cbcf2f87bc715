package lp

import (
	"github.com/netforge/netforge/topo"

	"gonum.org/v1/gonum/mat"
)

// Arc is one direction of a physical link, the unit every network
// formulation assigns a variable to.
type Arc struct {
	Link *topo.Link
	From *topo.Node
	Dir  topo.Direction
}

// Head returns the node the arc points at.
func (a Arc) Head() *topo.Node { return a.Link.OtherEnd(a.From) }

// arcIndex enumerates both directions of every physical link in link-ID
// order and records, per node, which arc variables leave and enter it.
type arcIndex struct {
	arcs []Arc
	out  map[*topo.Node][]int
	in   map[*topo.Node][]int
}

func newArcIndex(t *topo.Topology) *arcIndex {
	ix := &arcIndex{
		out: make(map[*topo.Node][]int),
		in:  make(map[*topo.Node][]int),
	}
	for _, l := range t.Links(topo.Physical) {
		for _, dir := range [2]topo.Direction{topo.SD, topo.DS} {
			from := l.Source
			if dir == topo.DS {
				from = l.Destination
			}
			i := len(ix.arcs)
			ix.arcs = append(ix.arcs, Arc{Link: l, From: from, Dir: dir})
			ix.out[from] = append(ix.out[from], i)
			ix.in[l.OtherEnd(from)] = append(ix.in[l.OtherEnd(from)], i)
		}
	}
	return ix
}

// conservation builds the flow-conservation equality block: one row per
// node, net outflow equal to supply(n). Nodes in skip are omitted; a row
// implied by the others must be skipped to keep the system full rank.
func (ix *arcIndex) conservation(t *topo.Topology, skip map[*topo.Node]bool, supply func(*topo.Node) float64) (*mat.Dense, []float64) {
	var rows []*topo.Node
	for _, n := range t.Nodes() {
		if !skip[n] {
			rows = append(rows, n)
		}
	}
	a := mat.NewDense(len(rows), len(ix.arcs), nil)
	b := make([]float64, len(rows))
	for r, n := range rows {
		for _, i := range ix.out[n] {
			a.Set(r, i, 1)
		}
		for _, i := range ix.in[n] {
			a.Set(r, i, -1)
		}
		b[r] = supply(n)
	}
	return a, b
}

// identityUpper builds the inequality block x[i] ≤ bound(i) over every
// arc variable.
func (ix *arcIndex) identityUpper(bound func(Arc) float64) (*mat.Dense, []float64) {
	n := len(ix.arcs)
	g := mat.NewDense(n, n, nil)
	h := make([]float64, n)
	for i, arc := range ix.arcs {
		g.Set(i, i, 1)
		h[i] = bound(arc)
	}
	return g, h
}

// writeFlows zeroes every physical flow field and installs the solved
// per-arc values.
func (ix *arcIndex) writeFlows(t *topo.Topology, x []float64) {
	t.ResetFlow()
	for i, arc := range ix.arcs {
		arc.Link.Flow[arc.Dir] = x[i]
	}
}
