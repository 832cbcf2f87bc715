package routing

import (
	"errors"
	"sort"

	"github.com/netforge/netforge/topo"
)

// Sentinel errors for domain operations.
var (
	// ErrUnresolved indicates a table build on a domain whose topology
	// has not been resolved since the last membership change.
	ErrUnresolved = errors.New("routing: domain topology not resolved")
)

// Protocol is the routing or switching protocol a domain runs.
type Protocol uint8

const (
	RIP Protocol = iota
	OSPF
	ISIS
	BGP
	STP
	VLAN
)

// String implements fmt.Stringer.
func (p Protocol) String() string {
	switch p {
	case RIP:
		return "RIP"
	case OSPF:
		return "OSPF"
	case ISIS:
		return "ISIS"
	case BGP:
		return "BGP"
	case STP:
		return "STP"
	case VLAN:
		return "VLAN"
	}
	return "unknown"
}

// origin maps an IP protocol to the routing-table origin tag its learned
// entries carry.
func (p Protocol) origin() topo.Origin {
	switch p {
	case RIP:
		return topo.RIPRoute
	case ISIS:
		return topo.ISISRoute
	default:
		return topo.OSPFRoute
	}
}

// buildState tracks how far a domain's derived state is from its
// membership: membership mutation resets to unbuilt, ResolveTopology
// advances to resolved, a successful table build to built.
type buildState uint8

const (
	unbuilt buildState = iota
	topologyResolved
	tablesBuilt
)

// Domain is one routing domain (autonomous system): a protocol instance
// over a member node and link set.
type Domain struct {
	ID    int
	Name  string
	Proto Protocol

	Nodes map[*topo.Node]bool
	Links map[*topo.Link]bool

	// Area carries the per-node area number of OSPF domains; absent
	// nodes are in the backbone area 0.
	Area map[*topo.Node]int
	// VLANID is the 802.1Q tag of VLAN domains.
	VLANID int

	// ExitPoint, when set, is the node the domain's other routers point
	// their default route at.
	ExitPoint *topo.Node

	// Edge is the set of member nodes with at least one physical
	// neighbor outside the domain, derived by ResolveTopology.
	Edge map[*topo.Node]bool

	// Root and SPTLinks are the spanning-tree election results of STP
	// domains: the elected root bridge and the tree's link set.
	Root     *topo.Node
	SPTLinks map[*topo.Link]bool

	state buildState
}

// AddNode registers a member node and invalidates derived state.
func (d *Domain) AddNode(n *topo.Node) {
	d.Nodes[n] = true
	d.state = unbuilt
}

// AddLink registers a member link and invalidates derived state.
func (d *Domain) AddLink(l *topo.Link) {
	d.Links[l] = true
	d.state = unbuilt
}

// RemoveNode withdraws a member node and invalidates derived state.
func (d *Domain) RemoveNode(n *topo.Node) {
	delete(d.Nodes, n)
	delete(d.Area, n)
	d.state = unbuilt
}

// RemoveLink withdraws a member link and invalidates derived state.
func (d *Domain) RemoveLink(l *topo.Link) {
	delete(d.Links, l)
	d.state = unbuilt
}

// Built reports whether the domain's tables reflect its membership.
func (d *Domain) Built() bool { return d.state == tablesBuilt }

// ResolveTopology derives the edge node set: member nodes adjacent to a
// node outside the domain through a physical link.
func (d *Domain) ResolveTopology(t *topo.Topology) {
	d.Edge = make(map[*topo.Node]bool)
	for n := range d.Nodes {
		for _, adj := range t.Adjacent(n, topo.Physical) {
			if !d.Nodes[adj.Neighbor] {
				d.Edge[n] = true
				break
			}
		}
	}
	d.state = topologyResolved
}

// Members returns the domain's member nodes of the given kinds, ordered
// by ID.
func (d *Domain) Members(kinds ...topo.NodeKind) []*topo.Node {
	var out []*topo.Node
	for n := range d.Nodes {
		for _, k := range kinds {
			if n.Kind == k {
				out = append(out, n)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// MemberLinks returns the domain's member links ordered by ID.
func (d *Domain) MemberLinks() []*topo.Link {
	out := make([]*topo.Link, 0, len(d.Links))
	for l := range d.Links {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// DomainSet is the pool of routing domains, keyed by name.
type DomainSet struct {
	byName map[string]*Domain
	seq    int
}

// NewDomainSet returns an empty domain pool.
func NewDomainSet() *DomainSet {
	return &DomainSet{byName: make(map[string]*Domain), seq: 1}
}

// Factory creates a domain, or returns the existing domain of that name,
// updating its protocol.
func (s *DomainSet) Factory(name string, proto Protocol) *Domain {
	if d, ok := s.byName[name]; ok {
		d.Proto = proto
		return d
	}
	d := &Domain{
		ID:    s.seq,
		Name:  name,
		Proto: proto,
		Nodes: make(map[*topo.Node]bool),
		Links: make(map[*topo.Link]bool),
		Area:  make(map[*topo.Node]int),
	}
	s.byName[name] = d
	s.seq++
	return d
}

// Domain returns the domain of the given name, or nil.
func (s *DomainSet) Domain(name string) *Domain { return s.byName[name] }

// All returns every domain ordered by ID.
func (s *DomainSet) All() []*Domain {
	out := make([]*Domain, 0, len(s.byName))
	for _, d := range s.byName {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// OfProto returns the domains running one of the given protocols,
// ordered by ID.
func (s *DomainSet) OfProto(protos ...Protocol) []*Domain {
	var out []*Domain
	for _, d := range s.All() {
		for _, p := range protos {
			if d.Proto == p {
				out = append(out, d)
				break
			}
		}
	}
	return out
}

// Membership returns the domains a node belongs to, ordered by ID.
func (s *DomainSet) Membership(n *topo.Node) []*Domain {
	var out []*Domain
	for _, d := range s.All() {
		if d.Nodes[n] {
			out = append(out, d)
		}
	}
	return out
}
