package routing

import (
	"github.com/netforge/netforge/topo"
)

// InstallConnectedAndStatic installs the non-learned entries of one
// router or host: a static entry per configured static route, and a
// connected entry per layer-3 virtual connection for the subnet of the
// attached physical link. Both replace any computed entry under the
// same key, so protocol-learned routes never shadow them.
func InstallConnectedAndStatic(t *topo.Topology, source *topo.Node) {
	for _, adj := range t.Adjacent(source, topo.L3) {
		sr := adj.Link
		if sr.Sub != topo.StaticRoute || sr.Source != source {
			continue
		}
		source.RT[sr.DstSubnet] = []topo.Route{{
			Origin:      topo.Static,
			NextHopIP:   sr.NextHopIP,
			NextHopNode: sr.Destination,
		}}
	}

	for _, adj := range t.Adjacent(source, topo.L3) {
		if adj.Link.Sub != topo.L3VC {
			continue
		}
		local := adj.Link.Underlay(source)
		remote := adj.Link.Underlay(adj.Neighbor)
		source.RT[local.Subnet] = []topo.Route{{
			Origin:      topo.Connected,
			NextHopIP:   remote.IP(adj.Neighbor).Addr(),
			OutIface:    local.Iface(source),
			NextHopNode: adj.Neighbor,
			OutLink:     local,
		}}
	}
}
