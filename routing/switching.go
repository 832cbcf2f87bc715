package routing

import (
	"github.com/netforge/netforge/topo"
)

// BuildSwitchingTable fills the MAC table of one switch by walking the
// layer-2 virtual connections outward from it, skipping the excluded
// physical links (spanning-tree blocked ports). Every MAC discovered
// maps to the interface of the first physical link the walk left the
// switch through:
//
//   - on leaving the switch itself, the remote interface MAC of each
//     adjacent segment;
//   - for every link discovered further out, the MACs of both of its
//     interfaces.
func BuildSwitchingTable(t *topo.Topology, source *topo.Node, excluded map[*topo.Link]bool) {
	type walkItem struct {
		node  *topo.Node
		links []*topo.Link
	}

	visited := make(map[*topo.Node]bool)
	queue := []walkItem{{node: source}}
	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		if n := len(item.links); n > 0 {
			last, egress := item.links[n-1], item.links[0].Iface(source)
			source.ST[last.IfaceS.MAC] = egress
			source.ST[last.IfaceD.MAC] = egress
		}

		if visited[item.node] {
			continue
		}
		visited[item.node] = true
		for _, adj := range t.Adjacent(item.node, topo.L2) {
			if adj.Link.Sub != topo.L2VC {
				continue
			}
			local := adj.Link.Underlay(item.node)
			remote := adj.Link.Underlay(adj.Neighbor)
			if excluded[local] || containsLink(item.links, local) {
				continue
			}
			if item.node == source {
				source.ST[remote.Iface(adj.Neighbor).MAC] = local.Iface(source)
			}
			links := make([]*topo.Link, len(item.links), len(item.links)+1)
			copy(links, item.links)
			queue = append(queue, walkItem{node: adj.Neighbor, links: append(links, local)})
		}
	}
}

func containsLink(links []*topo.Link, l *topo.Link) bool {
	for _, x := range links {
		if x == l {
			return true
		}
	}
	return false
}
