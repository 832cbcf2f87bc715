package routing_test

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/netforge/netforge/routing"
	"github.com/netforge/netforge/topo"
)

// RoutingSuite exercises domain resolution, forwarding-table
// construction, spanning-tree election and the layer-2 table builders.
type RoutingSuite struct {
	suite.Suite
}

// diamond builds five routers where r4 sits behind an equal-cost
// diamond from r1 (r1-r2-r4 and r1-r3-r4) and r5 hangs off r4, fully
// addressed, with an OSPF domain over everything.
func (s *RoutingSuite) diamond() (*topo.Topology, *routing.Domain, map[string]*topo.Node, map[string]*topo.Link) {
	t := topo.New()
	nodes := make(map[string]*topo.Node)
	for _, name := range []string{"r1", "r2", "r3", "r4", "r5"} {
		nodes[name] = t.NodeFactory(name, topo.Router)
	}
	links := make(map[string]*topo.Link)
	for _, e := range [][2]string{{"r1", "r2"}, {"r1", "r3"}, {"r2", "r4"}, {"r3", "r4"}, {"r4", "r5"}} {
		l, err := t.LinkFactory(topo.EthernetLink, e[0]+e[1], nodes[e[0]], nodes[e[1]])
		require.NoError(s.T(), err)
		links[l.Name] = l
	}
	require.NoError(s.T(), t.BuildVirtualConnections())
	t.ConfigureAddressing()

	set := routing.NewDomainSet()
	d := set.Factory("backbone", routing.OSPF)
	for _, n := range nodes {
		d.AddNode(n)
	}
	for _, l := range links {
		d.AddLink(l)
	}
	return t, d, nodes, links
}

// TestUnresolvedDomain: table builds demand a prior topology resolution.
func (s *RoutingSuite) TestUnresolvedDomain() {
	t, d, _, _ := s.diamond()
	require.ErrorIs(s.T(), d.BuildRFT(t, nil), routing.ErrUnresolved)
	d.ResolveTopology(t)
	require.NoError(s.T(), d.BuildRFT(t, nil))
	require.True(s.T(), d.Built())
}

// TestECMPDiamond: the subnet behind the diamond gets one route per
// equal-cost first hop.
func (s *RoutingSuite) TestECMPDiamond() {
	t, d, nodes, links := s.diamond()
	d.ResolveTopology(t)
	require.NoError(s.T(), d.BuildRFT(t, nil))

	routes := nodes["r1"].RT[links["r4r5"].Subnet]
	require.Len(s.T(), routes, 2)
	var out []*topo.Link
	for _, r := range routes {
		require.Equal(s.T(), topo.OSPFRoute, r.Origin)
		require.Equal(s.T(), 2.0, r.Metric)
		out = append(out, r.OutLink)
	}
	require.ElementsMatch(s.T(), []*topo.Link{links["r1r2"], links["r1r3"]}, out)
}

// TestFailedLinkExcluded: failing one diamond branch collapses the
// entry to a single route.
func (s *RoutingSuite) TestFailedLinkExcluded() {
	t, d, nodes, links := s.diamond()
	d.ResolveTopology(t)
	failed := map[*topo.Link]bool{links["r1r2"]: true}
	require.NoError(s.T(), d.BuildRFT(t, failed))

	routes := nodes["r1"].RT[links["r4r5"].Subnet]
	require.Len(s.T(), routes, 1)
	require.Equal(s.T(), links["r1r3"], routes[0].OutLink)
}

// TestDefaultRoute: every non-exit router points a catch-all entry at
// the exit node.
func (s *RoutingSuite) TestDefaultRoute() {
	t, d, nodes, links := s.diamond()
	d.ExitPoint = nodes["r4"]
	d.ResolveTopology(t)
	require.NoError(s.T(), d.BuildRFT(t, nil))

	routes := nodes["r1"].RT[topo.DefaultRoute]
	require.Len(s.T(), routes, 2, "both diamond branches reach the exit")
	var out []*topo.Link
	for _, r := range routes {
		out = append(out, r.OutLink)
	}
	require.ElementsMatch(s.T(), []*topo.Link{links["r1r2"], links["r1r3"]}, out)
	_, ok := nodes["r4"].RT[topo.DefaultRoute]
	require.False(s.T(), ok, "the exit point keeps no default route")
}

// TestRIPHorizon: subnets beyond 15 hops never make it into a RIP
// table.
func (s *RoutingSuite) TestRIPHorizon() {
	t := topo.New()
	var chain []*topo.Node
	for i := 0; i <= 17; i++ {
		chain = append(chain, t.NodeFactory("", topo.Router))
	}
	var hops []*topo.Link
	for i := 0; i < 17; i++ {
		l, err := t.LinkFactory(topo.EthernetLink, "", chain[i], chain[i+1])
		require.NoError(s.T(), err)
		hops = append(hops, l)
	}
	require.NoError(s.T(), t.BuildVirtualConnections())
	t.ConfigureAddressing()

	d := routing.NewDomainSet().Factory("rip", routing.RIP)
	for _, n := range chain {
		d.AddNode(n)
	}
	for _, l := range hops {
		d.AddLink(l)
	}
	d.ResolveTopology(t)
	require.NoError(s.T(), d.BuildRFT(t, nil))

	first := chain[0]
	within := first.RT[hops[15].Subnet]
	require.Len(s.T(), within, 1)
	require.Equal(s.T(), topo.RIPRoute, within[0].Origin)
	require.Equal(s.T(), 15.0, within[0].Metric, "hop count, not link cost")
	_, beyond := first.RT[hops[16].Subnet]
	require.False(s.T(), beyond, "16 hops exceeds the RIP horizon")
}

// TestConnectedReplacesLearned: directly attached subnets end up as
// connected entries even when the protocol learned them first.
func (s *RoutingSuite) TestConnectedReplacesLearned() {
	t, d, nodes, links := s.diamond()
	d.ResolveTopology(t)
	require.NoError(s.T(), d.BuildRFT(t, nil))
	routing.InstallConnectedAndStatic(t, nodes["r1"])

	routes := nodes["r1"].RT[links["r1r2"].Subnet]
	require.Len(s.T(), routes, 1)
	require.Equal(s.T(), topo.Connected, routes[0].Origin)
	require.Equal(s.T(), nodes["r2"], routes[0].NextHopNode)
	require.Equal(s.T(), links["r1r2"].IP(nodes["r2"]).Addr(), routes[0].NextHopIP)
	require.Equal(s.T(), links["r1r2"].Iface(nodes["r1"]), routes[0].OutIface)
}

// TestStaticRouteInstall: a configured static route becomes a single
// table entry with no resolved egress.
func (s *RoutingSuite) TestStaticRouteInstall() {
	t, _, nodes, _ := s.diamond()
	dst := netip.MustParsePrefix("203.0.113.0/24")
	sr, err := t.LinkFactory(topo.StaticRoute, "to-dmz", nodes["r1"], nodes["r2"])
	require.NoError(s.T(), err)
	sr.DstSubnet = dst
	sr.NextHopIP = netip.MustParseAddr("203.0.113.1")

	routing.InstallConnectedAndStatic(t, nodes["r1"])
	routes := nodes["r1"].RT[dst]
	require.Len(s.T(), routes, 1)
	require.Equal(s.T(), topo.Static, routes[0].Origin)
	require.Equal(s.T(), sr.NextHopIP, routes[0].NextHopIP)
	require.Nil(s.T(), routes[0].OutLink, "static next hops resolve at forwarding time")

	// The route was configured at r1, so r2's table stays clean.
	routing.InstallConnectedAndStatic(t, nodes["r2"])
	_, ok := nodes["r2"].RT[dst]
	require.False(s.T(), ok)
}

// TestSpanningTree: on a switch triangle the lowest base MAC wins the
// election and exactly one link is blocked.
func (s *RoutingSuite) TestSpanningTree() {
	t := topo.New()
	sw1 := t.NodeFactory("sw1", topo.Switch)
	sw2 := t.NodeFactory("sw2", topo.Switch)
	sw3 := t.NodeFactory("sw3", topo.Switch)
	l12, _ := t.LinkFactory(topo.EthernetLink, "sw1sw2", sw1, sw2)
	l13, _ := t.LinkFactory(topo.EthernetLink, "sw1sw3", sw1, sw3)
	l23, _ := t.LinkFactory(topo.EthernetLink, "sw2sw3", sw2, sw3)
	t.AllocateMACs()

	d := routing.NewDomainSet().Factory("stp", routing.STP)
	for _, n := range []*topo.Node{sw1, sw2, sw3} {
		d.AddNode(n)
	}
	for _, l := range []*topo.Link{l12, l13, l23} {
		d.AddLink(l)
	}
	require.ErrorIs(s.T(), d.UpdateSpanningTree(t, nil), routing.ErrUnresolved)
	d.ResolveTopology(t)
	require.NoError(s.T(), d.UpdateSpanningTree(t, nil))

	require.Equal(s.T(), sw1, d.Root, "lowest base MAC wins")
	require.True(s.T(), d.SPTLinks[l12])
	require.True(s.T(), d.SPTLinks[l13])
	blocked := d.BlockedLinks()
	require.Len(s.T(), blocked, 1)
	require.True(s.T(), blocked[l23])
}

// TestSpanningTreeReconverges: failing a tree link moves the blocked
// port.
func (s *RoutingSuite) TestSpanningTreeReconverges() {
	t := topo.New()
	sw1 := t.NodeFactory("sw1", topo.Switch)
	sw2 := t.NodeFactory("sw2", topo.Switch)
	sw3 := t.NodeFactory("sw3", topo.Switch)
	l12, _ := t.LinkFactory(topo.EthernetLink, "sw1sw2", sw1, sw2)
	l13, _ := t.LinkFactory(topo.EthernetLink, "sw1sw3", sw1, sw3)
	l23, _ := t.LinkFactory(topo.EthernetLink, "sw2sw3", sw2, sw3)
	t.AllocateMACs()

	d := routing.NewDomainSet().Factory("stp", routing.STP)
	for _, n := range []*topo.Node{sw1, sw2, sw3} {
		d.AddNode(n)
	}
	for _, l := range []*topo.Link{l12, l13, l23} {
		d.AddLink(l)
	}
	d.ResolveTopology(t)
	require.NoError(s.T(), d.UpdateSpanningTree(t, map[*topo.Link]bool{l12: true}))

	blocked := d.BlockedLinks()
	require.True(s.T(), blocked[l12], "a failed link never joins the tree")
	require.True(s.T(), d.SPTLinks[l13])
	require.True(s.T(), d.SPTLinks[l23], "sw2 is now reached around the failure")
}

// TestSwitchingTable: a switch between two hosts learns each host MAC
// behind the right port.
func (s *RoutingSuite) TestSwitchingTable() {
	t := topo.New()
	ha := t.NodeFactory("ha", topo.Host)
	sw1 := t.NodeFactory("sw1", topo.Switch)
	sw2 := t.NodeFactory("sw2", topo.Switch)
	hb := t.NodeFactory("hb", topo.Host)
	la, _ := t.LinkFactory(topo.EthernetLink, "la", ha, sw1)
	trunk, _ := t.LinkFactory(topo.EthernetLink, "trunk", sw1, sw2)
	lb, _ := t.LinkFactory(topo.EthernetLink, "lb", sw2, hb)
	require.NoError(s.T(), t.BuildVirtualConnections())
	t.ConfigureAddressing()

	routing.BuildSwitchingTable(t, sw1, nil)
	require.Equal(s.T(), la.Iface(sw1), sw1.ST[la.Iface(ha).MAC], "local host behind the access port")
	require.Equal(s.T(), trunk.Iface(sw1), sw1.ST[lb.Iface(hb).MAC], "remote host behind the trunk")
	require.Equal(s.T(), trunk.Iface(sw1), sw1.ST[lb.Iface(sw2).MAC])
}

// TestSwitchingTableExcluded: blocked ports contribute no entries.
func (s *RoutingSuite) TestSwitchingTableExcluded() {
	t := topo.New()
	ha := t.NodeFactory("ha", topo.Host)
	sw := t.NodeFactory("sw", topo.Switch)
	hb := t.NodeFactory("hb", topo.Host)
	la, _ := t.LinkFactory(topo.EthernetLink, "la", ha, sw)
	lb, _ := t.LinkFactory(topo.EthernetLink, "lb", sw, hb)
	require.NoError(s.T(), t.BuildVirtualConnections())
	t.ConfigureAddressing()

	routing.BuildSwitchingTable(t, sw, map[*topo.Link]bool{lb: true})
	require.Equal(s.T(), la.Iface(sw), sw.ST[la.Iface(ha).MAC])
	_, ok := sw.ST[lb.Iface(hb).MAC]
	require.False(s.T(), ok)
}

// TestARPTables: every member of a multi-access segment learns every
// other member's binding, itself included.
func (s *RoutingSuite) TestARPTables() {
	t := topo.New()
	r1 := t.NodeFactory("r1", topo.Router)
	sw := t.NodeFactory("sw", topo.Switch)
	r2 := t.NodeFactory("r2", topo.Router)
	l1, _ := t.LinkFactory(topo.EthernetLink, "l1", r1, sw)
	l2, _ := t.LinkFactory(topo.EthernetLink, "l2", sw, r2)
	require.NoError(s.T(), t.BuildVirtualConnections())
	t.ConfigureAddressing()

	routing.BuildARPTables(t)

	peer := r1.ARP[l2.IP(r2).Addr()]
	require.Equal(s.T(), l2.Iface(r2).MAC, peer.MAC)
	require.Equal(s.T(), l1.Iface(r1), peer.OutIface, "reached through r1's own segment interface")

	self := r1.ARP[l1.IP(r1).Addr()]
	require.Equal(s.T(), l1.Iface(r1).MAC, self.MAC)
	require.Len(s.T(), r1.ARP, 2)
}

func TestRoutingSuite(t *testing.T) {
	suite.Run(t, new(RoutingSuite))
}
