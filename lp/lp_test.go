package lp_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/netforge/netforge/lp"
	"github.com/netforge/netforge/topo"
)

// LPSuite exercises the program formulations against fixtures with
// known optima, using the default simplex solver.
type LPSuite struct {
	suite.Suite
	solver *lp.SimplexSolver
}

func (s *LPSuite) SetupTest() {
	s.solver = &lp.SimplexSolver{}
}

// trapGraph is the disjoint-pair fixture: shortest s→t path costs 3,
// the cheapest link-disjoint pair costs 10.
func trapGraph() (*topo.Topology, *topo.Node, *topo.Node) {
	t := topo.New()
	src := t.NodeFactory("s", topo.Router)
	a := t.NodeFactory("a", topo.Router)
	b := t.NodeFactory("b", topo.Router)
	dst := t.NodeFactory("t", topo.Router)
	for _, e := range []struct {
		name string
		u, v *topo.Node
		cost float64
	}{
		{"sa", src, a, 1}, {"ab", a, b, 1}, {"bt", b, dst, 1},
		{"sb", src, b, 4}, {"at", a, dst, 4},
	} {
		l, _ := t.LinkFactory(topo.EthernetLink, e.name, e.u, e.v)
		l.Cost = [2]float64{e.cost, e.cost}
	}
	return t, src, dst
}

// flowGraph is the maximum-flow fixture with min cut 19 at the source.
func flowGraph() (*topo.Topology, *topo.Node, *topo.Node) {
	t := topo.New()
	src := t.NodeFactory("s", topo.Router)
	a := t.NodeFactory("a", topo.Router)
	b := t.NodeFactory("b", topo.Router)
	dst := t.NodeFactory("t", topo.Router)
	for _, e := range []struct {
		name string
		u, v *topo.Node
		cap  float64
	}{
		{"sa", src, a, 8}, {"sb", src, b, 11}, {"ab", a, b, 4},
		{"at", a, dst, 10}, {"bt", b, dst, 12},
	} {
		l, _ := t.LinkFactory(topo.EthernetLink, e.name, e.u, e.v)
		l.Capacity = [2]float64{e.cap, e.cap}
	}
	return t, src, dst
}

// TestShortestPath matches the known optimum of the trap graph.
func (s *LPSuite) TestShortestPath() {
	t, src, dst := trapGraph()
	nodes, links, cost, err := lp.ShortestPath(t, src, dst, s.solver)
	require.NoError(s.T(), err)
	require.InDelta(s.T(), 3.0, cost, 1e-6)
	require.Len(s.T(), links, 3)
	require.Equal(s.T(), src, nodes[0])
	require.Equal(s.T(), dst, nodes[len(nodes)-1])
}

// TestMaxFlow matches the augmenting-path algorithms on the 19 fixture.
func (s *LPSuite) TestMaxFlow() {
	t, src, dst := flowGraph()
	val, err := lp.MaxFlow(t, src, dst, s.solver)
	require.NoError(s.T(), err)
	require.InDelta(s.T(), 19.0, val, 1e-6)

	// Solution written back: flow out of the source equals the optimum.
	var out float64
	for _, adj := range t.Adjacent(src, topo.Physical) {
		out += adj.Link.Flow[adj.Link.DirectionFrom(src)]
	}
	require.InDelta(s.T(), 19.0, out, 1e-6)
}

// TestMinCostFlow: routing 5 units over the trap graph takes the cheap
// path only.
func (s *LPSuite) TestMinCostFlow() {
	t, src, dst := trapGraph()
	for _, l := range t.Links(topo.Physical) {
		l.Capacity = [2]float64{5, 5}
	}
	cost, err := lp.MinCostFlow(t, src, dst, 5, s.solver)
	require.NoError(s.T(), err)
	require.InDelta(s.T(), 15.0, cost, 1e-6, "5 units across s-a-b-t at cost 3")
}

// TestMinCostFlowInfeasible: demand above the cut must error, not
// silently under-deliver.
func (s *LPSuite) TestMinCostFlowInfeasible() {
	t, src, dst := trapGraph()
	_, err := lp.MinCostFlow(t, src, dst, 100, s.solver)
	require.ErrorIs(s.T(), err, lp.ErrInfeasible)
}

// TestKDisjoint: the 2-disjoint optimum of the trap graph costs 10 and
// never reuses a link.
func (s *LPSuite) TestKDisjoint() {
	t, src, dst := trapGraph()
	paths, cost, err := lp.KDisjoint(t, src, dst, 2, s.solver)
	require.NoError(s.T(), err)
	require.Len(s.T(), paths, 2)
	require.InDelta(s.T(), 10.0, cost, 1e-6)
	seen := make(map[*topo.Link]bool)
	for _, p := range paths {
		for _, l := range p {
			require.False(s.T(), seen[l], "paths must be link-disjoint")
			seen[l] = true
		}
	}
}

// TestKDisjointInfeasible: three disjoint paths do not exist.
func (s *LPSuite) TestKDisjointInfeasible() {
	t, src, dst := trapGraph()
	_, _, err := lp.KDisjoint(t, src, dst, 3, s.solver)
	require.ErrorIs(s.T(), err, lp.ErrInfeasible)
}

// TestWavelengthAssignment: two conflicting demands need two
// wavelengths, an independent third reuses one.
func (s *LPSuite) TestWavelengthAssignment() {
	t := topo.New()
	a := t.NodeFactory("a", topo.OpticalSwitch)
	b := t.NodeFactory("b", topo.OpticalSwitch)
	c := t.NodeFactory("c", topo.OpticalSwitch)
	shared, _ := t.LinkFactory(topo.OpticalLink, "shared", a, b)
	other, _ := t.LinkFactory(topo.OpticalLink, "other", b, c)

	d1, _ := t.LinkFactory(topo.RoutedTraffic, "d1", a, b)
	d2, _ := t.LinkFactory(topo.RoutedTraffic, "d2", a, b)
	d3, _ := t.LinkFactory(topo.RoutedTraffic, "d3", b, c)
	d1.PathLinks = []*topo.Link{shared}
	d2.PathLinks = []*topo.Link{shared}
	d3.PathLinks = []*topo.Link{other}

	assign, count, err := lp.WavelengthAssignment([]*topo.Link{d1, d2, d3}, s.solver)
	require.NoError(s.T(), err)
	require.Equal(s.T(), 2, count)
	require.NotEqual(s.T(), assign[d1], assign[d2], "conflicting demands must differ")
	require.Len(s.T(), assign, 3)
}

func TestLPSuite(t *testing.T) {
	suite.Run(t, new(LPSuite))
}
