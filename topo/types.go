package topo

import (
	"net/netip"
)

// Direction selects one of the two directional attribute sets of a Link.
type Direction uint8

const (
	// SD is the source→destination direction of a link.
	SD Direction = iota
	// DS is the destination→source direction of a link.
	DS
)

// Reverse returns the opposite direction.
func (d Direction) Reverse() Direction {
	if d == SD {
		return DS
	}
	return SD
}

// String implements fmt.Stringer.
func (d Direction) String() string {
	if d == SD {
		return "SD"
	}
	return "DS"
}

// NodeKind is the device subtype of a Node.
type NodeKind uint8

const (
	Router NodeKind = iota
	Switch
	OpticalSwitch
	Host
)

// Layer returns the OSI layer at which the device operates: 3 for
// routers and hosts, 2 for switches and optical switches.
func (k NodeKind) Layer() int {
	switch k {
	case Router, Host:
		return 3
	default:
		return 2
	}
}

// String implements fmt.Stringer.
func (k NodeKind) String() string {
	switch k {
	case Router:
		return "router"
	case Switch:
		return "switch"
	case OpticalSwitch:
		return "optical switch"
	case Host:
		return "host"
	}
	return "unknown"
}

// LinkKind is the pool category of a Link. The adjacency index is keyed
// by it, so algorithms can traverse one layer at a time.
type LinkKind uint8

const (
	// Physical links (plinks) carry the directional cost/capacity/flow
	// attributes every algorithm operates on.
	Physical LinkKind = iota
	// L2 links are layer-2 logical links (l2vc virtual connections).
	L2
	// L3 links are layer-3 logical links (l3vc virtual connections and
	// static routes).
	L3
	// TrafficDemand links carry a throughput requirement between two
	// endpoints; they are routed, not traversed.
	TrafficDemand

	numLinkKinds
)

// String implements fmt.Stringer.
func (k LinkKind) String() string {
	switch k {
	case Physical:
		return "plink"
	case L2:
		return "l2link"
	case L3:
		return "l3link"
	case TrafficDemand:
		return "traffic"
	}
	return "unknown"
}

// LinkSub refines a LinkKind into the concrete link subtype.
type LinkSub uint8

const (
	EthernetLink LinkSub = iota // Physical
	OpticalLink                 // Physical
	L2VC                        // L2
	L3VC                        // L3
	StaticRoute                 // L3
	RoutedTraffic               // TrafficDemand
)

// Kind returns the pool category a subtype belongs to.
func (s LinkSub) Kind() LinkKind {
	switch s {
	case EthernetLink, OpticalLink:
		return Physical
	case L2VC:
		return L2
	case L3VC, StaticRoute:
		return L3
	default:
		return TrafficDemand
	}
}

// DefaultRoute is the catch-all routing-table key a forwarding lookup
// falls back to when no entry matches the destination subnet.
var DefaultRoute = netip.MustParsePrefix("0.0.0.0/0")

// Origin tags how a routing-table entry was learned.
type Origin uint8

const (
	Connected Origin = iota
	Static
	RIPRoute
	OSPFRoute
	ISISRoute
)

// String returns the single-letter code used in table displays.
func (o Origin) String() string {
	switch o {
	case Connected:
		return "C"
	case Static:
		return "S"
	case RIPRoute:
		return "R"
	case OSPFRoute:
		return "O"
	case ISISRoute:
		return "i"
	}
	return "?"
}

// Route is one equal-cost entry of a router forwarding table, keyed in
// Node.RT by the destination subnet.
type Route struct {
	Origin      Origin
	NextHopIP   netip.Addr
	OutIface    *Interface
	Metric      float64
	NextHopNode *Node
	OutLink     *Link
}

// ARPEntry maps a next-hop IP to the MAC it resolves to and the
// interface the frame leaves through.
type ARPEntry struct {
	MAC      string
	OutIface *Interface
}

// Node is a network device. Routers and hosts own a routing table and an
// ARP table; switches own a switching table. Tables are back-references
// into the link/interface arena, never owning storage.
type Node struct {
	ID   int
	Name string
	Kind NodeKind

	// LoopbackIP is the router's loopback address, set by AllocateIPs.
	LoopbackIP netip.Addr
	// BaseMAC is the hardware MAC of a switch, set by AllocateMACs.
	BaseMAC string

	// RT is the router forwarding table: destination subnet → one or
	// more equal-cost routes.
	RT map[netip.Prefix][]Route
	// ARP maps next-hop IPs to MAC/interface pairs.
	ARP map[netip.Addr]ARPEntry
	// ST is the switching table: destination MAC → egress interface.
	ST map[string]*Interface
}

// Interface is one end of a physical link: it belongs to a
// (link, endpoint) pair and carries the addresses of that side.
type Interface struct {
	Link  *Link
	Owner *Node
	Name  string
	MAC   string
	// Addr is the interface IP with its subnet mask (prefix length).
	Addr netip.Prefix
}

// String implements fmt.Stringer.
func (i *Interface) String() string { return i.Name }

// Link connects an ordered endpoint pair. Directional attributes are
// indexed by Direction: index SD holds the source→destination value.
type Link struct {
	ID   int
	Name string
	Sub  LinkSub

	Source      *Node
	Destination *Node

	Cost      [2]float64
	Capacity  [2]float64
	Flow      [2]float64
	Traffic   [2]float64
	WCTraffic [2]float64
	// WCFailure names the failed link that produced WCTraffic.
	WCFailure string

	// IfaceS and IfaceD exist only on physical links.
	IfaceS *Interface
	IfaceD *Interface
	// Subnet is the layer-3 subnet the physical link belongs to.
	Subnet netip.Prefix

	// VC maps each endpoint of a virtual connection (l2vc/l3vc) to the
	// underlying physical link on that endpoint's side.
	VC map[*Node]*Link

	// Traffic-demand fields.
	Throughput float64
	SrcIP      netip.Prefix
	DstIP      netip.Prefix
	// Path is the set of nodes and links the demand was routed over,
	// filled by the forwarding simulator.
	PathNodes []*Node
	PathLinks []*Link

	// Static-route fields.
	DstSubnet netip.Prefix
	NextHopIP netip.Addr
}

// Kind returns the pool category of the link.
func (l *Link) Kind() LinkKind { return l.Sub.Kind() }

// String implements fmt.Stringer.
func (l *Link) String() string { return l.Name }

// DirectionFrom returns the direction of travel when leaving node n.
// n must be one of the link's endpoints.
func (l *Link) DirectionFrom(n *Node) Direction {
	if n == l.Source {
		return SD
	}
	return DS
}

// OtherEnd returns the endpoint opposite to n.
func (l *Link) OtherEnd(n *Node) *Node {
	if n == l.Source {
		return l.Destination
	}
	return l.Source
}

// CostFrom returns the cost of crossing the link when leaving n.
func (l *Link) CostFrom(n *Node) float64 { return l.Cost[l.DirectionFrom(n)] }

// CapacityFrom returns the capacity in the direction leaving n.
func (l *Link) CapacityFrom(n *Node) float64 { return l.Capacity[l.DirectionFrom(n)] }

// Iface returns the interface of the physical link on n's side.
func (l *Link) Iface(n *Node) *Interface {
	if n == l.Source {
		return l.IfaceS
	}
	return l.IfaceD
}

// IP returns the interface address of the physical link on n's side.
func (l *Link) IP(n *Node) netip.Prefix { return l.Iface(n).Addr }

// Underlay returns the physical link a virtual connection uses on n's
// side. It returns nil for non-VC links.
func (l *Link) Underlay(n *Node) *Link { return l.VC[n] }

// Adjacency is one mirrored entry of the adjacency index: the neighbor
// reached through Link when standing at the indexed node.
type Adjacency struct {
	Neighbor *Node
	Link     *Link
}
