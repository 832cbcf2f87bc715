package topo

// SegmentMember is one attachment point of a segment: a physical link
// and the boundary node it reaches.
type SegmentMember struct {
	Link *Link
	Node *Node
}

// Segment is a maximal set of mutually adjacent same-layer attachment
// points: layer-n-capable interfaces that can reach each other through
// devices operating strictly below layer n.
type Segment []SegmentMember

// Segments discovers all layer-n segments (n is 2 or 3). Discovery walks
// the physical adjacency from every layer-n device: a neighbor operating
// below layer n is traversed, any other neighbor terminates the segment
// at its attachment link.
//
// Segment and member order is deterministic: nodes are visited in ID
// order and adjacency entries in insertion order.
func (t *Topology) Segments(layer int) []Segment {
	var segments []Segment
	visited := make(map[*Link]bool)

	for _, start := range t.Nodes() {
		if start.Kind.Layer() != layer {
			continue
		}
		for _, adj := range t.Adjacent(start, Physical) {
			if visited[adj.Link] {
				continue
			}
			visited[adj.Link] = true
			segment := Segment{{Link: adj.Link, Node: start}}

			if adj.Neighbor.Kind.Layer() < layer {
				// The neighbor forwards below layer n: flood through all
				// lower-layer devices, collecting boundary attachments.
				stack := []*Node{adj.Neighbor}
				seen := map[*Node]bool{start: true, adj.Neighbor: true}
				for len(stack) > 0 {
					curr := stack[len(stack)-1]
					stack = stack[:len(stack)-1]
					for _, a := range t.Adjacent(curr, Physical) {
						if seen[a.Neighbor] {
							continue
						}
						visited[a.Link] = true
						seen[a.Neighbor] = true
						if a.Neighbor.Kind.Layer() < layer {
							stack = append(stack, a.Neighbor)
						} else {
							segment = append(segment, SegmentMember{Link: a.Link, Node: a.Neighbor})
						}
					}
				}
			} else {
				segment = append(segment, SegmentMember{Link: adj.Link, Node: adj.Neighbor})
			}
			segments = append(segments, segment)
		}
	}
	return segments
}

// BuildVirtualConnections creates the layer-2 and layer-3 virtual
// connections: one l2vc/l3vc per pair of attachment points that share a
// segment of the matching layer. Each VC records the underlying physical
// link on both endpoints' sides.
func (t *Topology) BuildVirtualConnections() error {
	for _, layer := range [2]int{2, 3} {
		sub := L2VC
		if layer == 3 {
			sub = L3VC
		}
		for _, segment := range t.Segments(layer) {
			for _, a := range segment {
				for _, b := range segment {
					if a == b || a.Node == b.Node {
						continue
					}
					if t.IsConnected(a.Node, b.Node, sub.Kind()) {
						continue
					}
					vc, err := t.LinkFactory(sub, "", a.Node, b.Node)
					if err != nil {
						return err
					}
					vc.VC[a.Node] = a.Link
					vc.VC[b.Node] = b.Link
				}
			}
		}
	}
	return nil
}
