package topo

import (
	"errors"
	"fmt"
	"net/netip"
	"sort"
)

// Sentinel errors for graph-store operations.
var (
	// ErrMissingEndpoint indicates a link factory call without both
	// endpoints for a link that does not exist yet.
	ErrMissingEndpoint = errors.New("topo: link creation requires source and destination")
)

// Topology is the graph store: per-category object pools plus the
// mirrored adjacency index. It exclusively owns adjacency entries; the
// pools own the nodes and links themselves.
type Topology struct {
	nodes    map[int]*Node
	links    [numLinkKinds]map[int]*Link
	nodeName map[string]*Node
	linkName map[string]*Link

	adjacency map[int]*[numLinkKinds][]Adjacency

	// Failed is the set of links currently considered down. It is read
	// by table construction and the forwarding simulator, and driven by
	// worst-case dimensioning.
	Failed map[*Link]bool

	nodeSeq int
	linkSeq int
}

// New returns an empty topology.
func New() *Topology {
	t := &Topology{
		nodes:     make(map[int]*Node),
		nodeName:  make(map[string]*Node),
		linkName:  make(map[string]*Link),
		adjacency: make(map[int]*[numLinkKinds][]Adjacency),
		Failed:    make(map[*Link]bool),
		nodeSeq:   1,
		linkSeq:   1,
	}
	for k := range t.links {
		t.links[k] = make(map[int]*Link)
	}
	return t
}

// NodeFactory creates a node, or returns the existing node of that name,
// updating its kind. An empty name is replaced by a generated one.
func (t *Topology) NodeFactory(name string, kind NodeKind) *Node {
	if name == "" {
		// Skip sequence values whose generated name a caller already
		// claimed, so the existing node keeps its index entry.
		for {
			name = fmt.Sprintf("%s%d", kind, t.nodeSeq)
			if _, taken := t.nodeName[name]; !taken {
				break
			}
			t.nodeSeq++
		}
	} else if n, ok := t.nodeName[name]; ok {
		n.Kind = kind
		return n
	}
	n := &Node{
		ID:   t.nodeSeq,
		Name: name,
		Kind: kind,
		RT:   make(map[netip.Prefix][]Route),
		ARP:  make(map[netip.Addr]ARPEntry),
		ST:   make(map[string]*Interface),
	}
	t.nodes[n.ID] = n
	t.nodeName[name] = n
	t.adjacency[n.ID] = new([numLinkKinds][]Adjacency)
	t.nodeSeq++
	return n
}

// Node returns the node of the given name, or nil.
func (t *Topology) Node(name string) *Node { return t.nodeName[name] }

// LinkFactory creates a link of the given subtype between src and dst,
// or returns the existing link of that name. New physical links get two
// interfaces and unit cost/capacity in both directions.
func (t *Topology) LinkFactory(sub LinkSub, name string, src, dst *Node) (*Link, error) {
	if name != "" {
		if l, ok := t.linkName[name]; ok {
			return l, nil
		}
	}
	if src == nil || dst == nil {
		return nil, ErrMissingEndpoint
	}
	if name == "" {
		for {
			name = fmt.Sprintf("%s%d", sub.Kind(), t.linkSeq)
			if _, taken := t.linkName[name]; !taken {
				break
			}
			t.linkSeq++
		}
	}
	l := &Link{
		ID:          t.linkSeq,
		Name:        name,
		Sub:         sub,
		Source:      src,
		Destination: dst,
		Cost:        [2]float64{1, 1},
		Capacity:    [2]float64{1, 1},
	}
	if sub.Kind() == Physical {
		l.IfaceS = &Interface{Link: l, Owner: src}
		l.IfaceD = &Interface{Link: l, Owner: dst}
	}
	if sub == L2VC || sub == L3VC {
		l.VC = make(map[*Node]*Link, 2)
	}
	t.links[sub.Kind()][l.ID] = l
	t.linkName[name] = l
	t.connect(l)
	t.linkSeq++
	return l, nil
}

// Link returns the link of the given name, or nil.
func (t *Topology) Link(name string) *Link { return t.linkName[name] }

// connect installs the two mirrored adjacency entries of a link.
func (t *Topology) connect(l *Link) {
	k := l.Kind()
	t.adjacency[l.Source.ID][k] = append(t.adjacency[l.Source.ID][k],
		Adjacency{Neighbor: l.Destination, Link: l})
	t.adjacency[l.Destination.ID][k] = append(t.adjacency[l.Destination.ID][k],
		Adjacency{Neighbor: l.Source, Link: l})
}

// disconnect removes both mirrored adjacency entries of a link.
func (t *Topology) disconnect(l *Link) {
	k := l.Kind()
	for _, id := range [2]int{l.Source.ID, l.Destination.ID} {
		adj := t.adjacency[id][k]
		for i := range adj {
			if adj[i].Link == l {
				t.adjacency[id][k] = append(adj[:i:i], adj[i+1:]...)
				break
			}
		}
	}
}

// RemoveLink deletes a link from its pool and from the adjacency index.
func (t *Topology) RemoveLink(l *Link) {
	t.disconnect(l)
	delete(t.links[l.Kind()], l.ID)
	delete(t.linkName, l.Name)
	delete(t.Failed, l)
}

// RemoveNode deletes a node and returns its incident links across all
// categories so the caller can cascade the deletion.
func (t *Topology) RemoveNode(n *Node) []*Link {
	incident := t.AttachedLinks(n)
	delete(t.nodes, n.ID)
	delete(t.nodeName, n.Name)
	delete(t.adjacency, n.ID)
	return incident
}

// Adjacent returns the adjacency entries of n for one link category, in
// insertion order. The returned slice is owned by the topology.
func (t *Topology) Adjacent(n *Node, kind LinkKind) []Adjacency {
	if a := t.adjacency[n.ID]; a != nil {
		return a[kind]
	}
	return nil
}

// Neighbors yields the nodes attached to n through links of the given
// categories.
func (t *Topology) Neighbors(n *Node, kinds ...LinkKind) []*Node {
	var out []*Node
	for _, k := range kinds {
		for _, adj := range t.Adjacent(n, k) {
			out = append(out, adj.Neighbor)
		}
	}
	return out
}

// LinksBetween yields every link of the given category connecting a and b.
func (t *Topology) LinksBetween(a, b *Node, kind LinkKind) []*Link {
	var out []*Link
	for _, adj := range t.Adjacent(a, kind) {
		if adj.Neighbor == b {
			out = append(out, adj.Link)
		}
	}
	return out
}

// IsConnected reports whether a and b share a link of the given category.
func (t *Topology) IsConnected(a, b *Node, kind LinkKind) bool {
	for _, adj := range t.Adjacent(a, kind) {
		if adj.Neighbor == b {
			return true
		}
	}
	return false
}

// AttachedLinks returns every link incident to n, across all categories.
func (t *Topology) AttachedLinks(n *Node) []*Link {
	var out []*Link
	if a := t.adjacency[n.ID]; a != nil {
		for k := range a {
			for _, adj := range a[k] {
				out = append(out, adj.Link)
			}
		}
	}
	return out
}

// Nodes returns all nodes ordered by ID.
func (t *Topology) Nodes() []*Node {
	out := make([]*Node, 0, len(t.nodes))
	for _, n := range t.nodes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// NodesOfKind returns all nodes of the given kinds, ordered by ID.
func (t *Topology) NodesOfKind(kinds ...NodeKind) []*Node {
	var out []*Node
	for _, n := range t.Nodes() {
		for _, k := range kinds {
			if n.Kind == k {
				out = append(out, n)
				break
			}
		}
	}
	return out
}

// Links returns the pool of one link category, ordered by ID.
func (t *Topology) Links(kind LinkKind) []*Link {
	out := make([]*Link, 0, len(t.links[kind]))
	for _, l := range t.links[kind] {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// LinksOfSub returns the links of one subtype, ordered by ID.
func (t *Topology) LinksOfSub(sub LinkSub) []*Link {
	var out []*Link
	for _, l := range t.Links(sub.Kind()) {
		if l.Sub == sub {
			out = append(out, l)
		}
	}
	return out
}

// AllLinks returns every link of every category, ordered by ID.
func (t *Topology) AllLinks() []*Link {
	var out []*Link
	for k := LinkKind(0); k < numLinkKinds; k++ {
		out = append(out, t.Links(k)...)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// PhysicalSet returns the physical links as a set, the shape most path
// algorithms take their allowed-link parameter in.
func (t *Topology) PhysicalSet() map[*Link]bool {
	out := make(map[*Link]bool, len(t.links[Physical]))
	for _, l := range t.links[Physical] {
		out[l] = true
	}
	return out
}

// NodeSet returns all nodes as a set.
func (t *Topology) NodeSet() map[*Node]bool {
	out := make(map[*Node]bool, len(t.nodes))
	for _, n := range t.nodes {
		out[n] = true
	}
	return out
}

// FailLink marks a link as down.
func (t *Topology) FailLink(l *Link) { t.Failed[l] = true }

// ClearFailures empties the failure set.
func (t *Topology) ClearFailures() {
	for l := range t.Failed {
		delete(t.Failed, l)
	}
}

// ResetFlow zeroes both directional flow fields of every physical link.
func (t *Topology) ResetFlow() {
	for _, l := range t.links[Physical] {
		l.Flow[SD], l.Flow[DS] = 0, 0
	}
}

// ResetTraffic zeroes both directional traffic fields of every physical
// link, typically before a forwarding-simulation run.
func (t *Topology) ResetTraffic() {
	for _, l := range t.links[Physical] {
		l.Traffic[SD], l.Traffic[DS] = 0, 0
	}
}
