package routing

import (
	"github.com/netforge/netforge/topo"
)

// BuildARPTables rebuilds the ARP table of every layer-3 device by
// cross-joining the members of each layer-3 segment: every device in a
// segment learns the IP→MAC binding of every member interface,
// reachable through its own interface on that segment.
func BuildARPTables(t *topo.Topology) {
	for _, n := range t.NodesOfKind(topo.Router, topo.Host) {
		for ip := range n.ARP {
			delete(n.ARP, ip)
		}
	}
	for _, segment := range t.Segments(3) {
		for _, a := range segment {
			for _, b := range segment {
				a.Node.ARP[b.Link.IP(b.Node).Addr()] = topo.ARPEntry{
					MAC:      b.Link.Iface(b.Node).MAC,
					OutIface: a.Link.Iface(a.Node),
				}
			}
		}
	}
}
