package sim_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/netforge/netforge/routing"
	"github.com/netforge/netforge/sim"
	"github.com/netforge/netforge/topo"
)

// SimSuite drives the engine end to end: table construction, the
// forwarding walk, worst-case dimensioning and the RWA transformation.
type SimSuite struct {
	suite.Suite
	e     *sim.Engine
	nodes map[string]*topo.Node
	links map[string]*topo.Link
}

// SetupTest builds an addressed five-router network where r4 sits
// behind an equal-cost diamond from r1 and r5 hangs off r4, all inside
// one OSPF domain, with a 10-unit demand from r1 to r5.
func (s *SimSuite) SetupTest() {
	t := topo.New()
	s.nodes = make(map[string]*topo.Node)
	for _, name := range []string{"r1", "r2", "r3", "r4", "r5"} {
		s.nodes[name] = t.NodeFactory(name, topo.Router)
	}
	s.links = make(map[string]*topo.Link)
	for _, e := range [][2]string{{"r1", "r2"}, {"r1", "r3"}, {"r2", "r4"}, {"r3", "r4"}, {"r4", "r5"}} {
		l, err := t.LinkFactory(topo.EthernetLink, e[0]+e[1], s.nodes[e[0]], s.nodes[e[1]])
		require.NoError(s.T(), err)
		s.links[l.Name] = l
	}
	demand, err := t.LinkFactory(topo.RoutedTraffic, "d15", s.nodes["r1"], s.nodes["r5"])
	require.NoError(s.T(), err)
	demand.Throughput = 10

	require.NoError(s.T(), t.BuildVirtualConnections())
	t.ConfigureAddressing()
	t.ResolveTrafficIPs()

	set := routing.NewDomainSet()
	d := set.Factory("backbone", routing.OSPF)
	for _, n := range s.nodes {
		d.AddNode(n)
	}
	for _, l := range s.links {
		d.AddLink(l)
	}
	s.e = sim.New(t, set, nil)
}

// TestRouteRecordsPath: the walk records every node and link the demand
// crossed.
func (s *SimSuite) TestRouteRecordsPath() {
	require.NoError(s.T(), s.e.Route())
	demand := s.e.T.Link("d15")
	require.Len(s.T(), demand.PathNodes, 5, "both diamond branches are visited")
	require.Len(s.T(), demand.PathLinks, 5)
	require.Equal(s.T(), s.nodes["r1"], demand.PathNodes[0])
	require.Contains(s.T(), demand.PathLinks, s.links["r4r5"])
}

// TestECMPSplit: the throughput halves over the diamond and merges
// again behind it.
func (s *SimSuite) TestECMPSplit() {
	require.NoError(s.T(), s.e.Route())
	require.Equal(s.T(), 5.0, s.links["r1r2"].Traffic[topo.SD])
	require.Equal(s.T(), 5.0, s.links["r1r3"].Traffic[topo.SD])
	require.Equal(s.T(), 5.0, s.links["r2r4"].Traffic[topo.SD])
	require.Equal(s.T(), 5.0, s.links["r3r4"].Traffic[topo.SD])
	require.Equal(s.T(), 10.0, s.links["r4r5"].Traffic[topo.SD])
	require.Zero(s.T(), s.links["r4r5"].Traffic[topo.DS])
}

// TestFailureReroute: with one branch down the whole demand takes the
// other.
func (s *SimSuite) TestFailureReroute() {
	s.e.T.FailLink(s.links["r1r2"])
	require.NoError(s.T(), s.e.Route())
	require.Zero(s.T(), s.links["r1r2"].Traffic[topo.SD])
	require.Equal(s.T(), 10.0, s.links["r1r3"].Traffic[topo.SD])
	require.Equal(s.T(), 10.0, s.links["r3r4"].Traffic[topo.SD])
}

// TestAllRoutesFailed: a connected entry whose egress link is down
// yields a no-route error instead of forwarding into the failure.
func (s *SimSuite) TestAllRoutesFailed() {
	s.e.T.FailLink(s.links["r4r5"])
	require.NoError(s.T(), s.e.Route(), "unroutable demands are logged, not fatal")
	err := s.e.RFTWalk(s.e.T.Link("d15"))
	require.ErrorIs(s.T(), err, sim.ErrNoRoute)
}

// TestECMPDiamondChain: ten chained equal-cost diamonds fan the walk
// out into over a thousand branches. The walk still terminates, the
// splits remerge into the full demand at every stage, and every node
// and link is recorded exactly once.
func (s *SimSuite) TestECMPDiamondChain() {
	const diamonds = 10
	t := topo.New()
	heads := make([]*topo.Node, diamonds+1)
	for i := range heads {
		heads[i] = t.NodeFactory(fmt.Sprintf("h%d", i), topo.Router)
	}
	links := make(map[string]*topo.Link)
	for i := 0; i < diamonds; i++ {
		up := t.NodeFactory(fmt.Sprintf("u%d", i), topo.Router)
		down := t.NodeFactory(fmt.Sprintf("d%d", i), topo.Router)
		for _, e := range []struct {
			name string
			a, b *topo.Node
		}{
			{fmt.Sprintf("h%du%d", i, i), heads[i], up},
			{fmt.Sprintf("h%dd%d", i, i), heads[i], down},
			{fmt.Sprintf("u%dh%d", i, i+1), up, heads[i+1]},
			{fmt.Sprintf("d%dh%d", i, i+1), down, heads[i+1]},
		} {
			l, err := t.LinkFactory(topo.EthernetLink, e.name, e.a, e.b)
			require.NoError(s.T(), err)
			links[e.name] = l
		}
	}
	demand, err := t.LinkFactory(topo.RoutedTraffic, "dm", heads[0], heads[diamonds])
	require.NoError(s.T(), err)
	demand.Throughput = 10

	require.NoError(s.T(), t.BuildVirtualConnections())
	t.ConfigureAddressing()
	t.ResolveTrafficIPs()

	set := routing.NewDomainSet()
	d := set.Factory("backbone", routing.OSPF)
	for _, n := range t.Nodes() {
		d.AddNode(n)
	}
	for _, l := range links {
		d.AddLink(l)
	}
	e := sim.New(t, set, nil)

	require.NoError(s.T(), e.Route())
	t.ResetTraffic()
	require.NoError(s.T(), e.RFTWalk(demand))
	require.Len(s.T(), demand.PathNodes, 3*diamonds+1)
	require.Len(s.T(), demand.PathLinks, 4*diamonds)
	require.Equal(s.T(), 5.0, links["h0u0"].Traffic[topo.SD])
	require.Equal(s.T(), 5.0, links["h0d0"].Traffic[topo.SD])
	require.Equal(s.T(), 5.0, links["u9h10"].Traffic[topo.SD])
	require.Equal(s.T(), 5.0, links["d9h10"].Traffic[topo.SD])
}

// TestForwardingLoop: routing entries pointing two routers at each
// other make the walk fail with a no-route error instead of spinning.
func (s *SimSuite) TestForwardingLoop() {
	t := topo.New()
	r1 := t.NodeFactory("r1", topo.Router)
	r2 := t.NodeFactory("r2", topo.Router)
	r3 := t.NodeFactory("r3", topo.Router)
	l12, err := t.LinkFactory(topo.EthernetLink, "l12", r1, r2)
	require.NoError(s.T(), err)
	_, err = t.LinkFactory(topo.EthernetLink, "l23", r2, r3)
	require.NoError(s.T(), err)
	demand, err := t.LinkFactory(topo.RoutedTraffic, "d13", r1, r3)
	require.NoError(s.T(), err)
	demand.Throughput = 1

	require.NoError(s.T(), t.BuildVirtualConnections())
	t.ConfigureAddressing()
	t.ResolveTrafficIPs()

	dst := demand.DstIP.Masked()
	r1.RT[dst] = []topo.Route{{OutLink: l12, OutIface: l12.Iface(r1), NextHopIP: l12.IP(r2).Addr(), NextHopNode: r2}}
	r2.RT[dst] = []topo.Route{{OutLink: l12, OutIface: l12.Iface(r2), NextHopIP: l12.IP(r1).Addr(), NextHopNode: r1}}

	e := sim.New(t, nil, nil)
	require.ErrorIs(s.T(), e.RFTWalk(demand), sim.ErrNoRoute)
}

// TestUnresolvedAddress: demands without resolved endpoint IPs cannot
// be walked.
func (s *SimSuite) TestUnresolvedAddress() {
	t := topo.New()
	a := t.NodeFactory("a", topo.Router)
	b := t.NodeFactory("b", topo.Router)
	_, err := t.LinkFactory(topo.EthernetLink, "ab", a, b)
	require.NoError(s.T(), err)
	demand, err := t.LinkFactory(topo.RoutedTraffic, "dab", a, b)
	require.NoError(s.T(), err)

	e := sim.New(t, nil, nil)
	require.ErrorIs(s.T(), e.RFTWalk(demand), sim.ErrUnresolvedAddress)
}

// TestHostDemandShortestPath: demands with a non-router endpoint take
// the direct shortest-path fallback.
func (s *SimSuite) TestHostDemandShortestPath() {
	t := s.e.T
	host := t.NodeFactory("ha", topo.Host)
	_, err := t.LinkFactory(topo.EthernetLink, "ha-r1", host, s.nodes["r1"])
	require.NoError(s.T(), err)
	demand, err := t.LinkFactory(topo.RoutedTraffic, "dh5", host, s.nodes["r5"])
	require.NoError(s.T(), err)

	s.e.PathFinder()
	require.NotEmpty(s.T(), demand.PathNodes)
	require.Equal(s.T(), host, demand.PathNodes[0])
	require.Equal(s.T(), s.nodes["r5"], demand.PathNodes[len(demand.PathNodes)-1])
}

// TestDimensioning: the worst case of the surviving branch is the full
// demand, observed when the other branch fails, and the failure set is
// restored.
func (s *SimSuite) TestDimensioning() {
	require.NoError(s.T(), s.e.Dimensioning())
	require.Equal(s.T(), 10.0, s.links["r1r3"].WCTraffic[topo.SD])
	require.Equal(s.T(), "r1r2", s.links["r1r3"].WCFailure)
	require.Equal(s.T(), 10.0, s.links["r4r5"].WCTraffic[topo.SD])
	require.Empty(s.T(), s.e.T.Failed)
}

// TestDimensioningBaseline: on a single-path network every failure
// severs the demand, so the worst case is the intact baseline itself
// and no failure is blamed for it.
func (s *SimSuite) TestDimensioningBaseline() {
	t := topo.New()
	r1 := t.NodeFactory("r1", topo.Router)
	r2 := t.NodeFactory("r2", topo.Router)
	l, err := t.LinkFactory(topo.EthernetLink, "l12", r1, r2)
	require.NoError(s.T(), err)
	demand, err := t.LinkFactory(topo.RoutedTraffic, "d12", r1, r2)
	require.NoError(s.T(), err)
	demand.Throughput = 10

	require.NoError(s.T(), t.BuildVirtualConnections())
	t.ConfigureAddressing()
	t.ResolveTrafficIPs()

	set := routing.NewDomainSet()
	d := set.Factory("backbone", routing.OSPF)
	d.AddNode(r1)
	d.AddNode(r2)
	d.AddLink(l)
	e := sim.New(t, set, nil)

	require.NoError(s.T(), e.Dimensioning())
	require.Equal(s.T(), 10.0, l.WCTraffic[topo.SD])
	require.Empty(s.T(), l.WCFailure)
	require.Empty(s.T(), t.Failed)
}

// TestTransformRWA: demands sharing a physical link conflict, disjoint
// demands do not, and the greedy coloring needs two wavelengths.
func (s *SimSuite) TestTransformRWA() {
	t := s.e.T
	t.RemoveLink(t.Link("d15"))
	for _, d := range []struct {
		name     string
		src, dst string
	}{
		{"dA", "r2", "r4"}, {"dB", "r2", "r4"}, {"dC", "r3", "r4"},
	} {
		demand, err := t.LinkFactory(topo.RoutedTraffic, d.name, s.nodes[d.src], s.nodes[d.dst])
		require.NoError(s.T(), err)
		demand.Throughput = 1
	}
	t.ResolveTrafficIPs()
	require.NoError(s.T(), s.e.Route())

	conflict, err := s.e.TransformRWA()
	require.NoError(s.T(), err)
	require.Len(s.T(), conflict.NodesOfKind(topo.OpticalSwitch), 3)
	require.Len(s.T(), conflict.Links(topo.Physical), 1, "only the demands sharing r2r4 conflict")
	require.NotNil(s.T(), conflict.Link("dA - dB"))
	require.Equal(s.T(), 2, sim.LargestDegreeFirst(conflict))
}

func TestSimSuite(t *testing.T) {
	suite.Run(t, new(SimSuite))
}
