package conf

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/netforge/netforge/routing"
	"github.com/netforge/netforge/topo"
)

// netmask renders a prefix length as a dotted-decimal mask.
func netmask(bits int) string {
	v := ^uint32(0) << (32 - bits)
	return fmt.Sprintf("%d.%d.%d.%d", byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

// wildcard renders a prefix length as the inverse mask OSPF network
// statements take.
func wildcard(bits int) string {
	v := ^(^uint32(0) << (32 - bits))
	return fmt.Sprintf("%d.%d.%d.%d", byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

// Router renders the configuration of one router: static routes,
// per-interface addressing with the protocol activation lines that live
// in interface mode, then one routing stanza per IP domain the router
// belongs to.
func Router(t *topo.Topology, domains *routing.DomainSet, node *topo.Node) []string {
	lines := []string{"configure terminal"}

	for _, adj := range t.Adjacent(node, topo.L3) {
		sr := adj.Link
		if sr.Sub != topo.StaticRoute || sr.Source != node {
			continue
		}
		lines = append(lines, fmt.Sprintf("ip route %s %s %s",
			sr.DstSubnet.Addr(), netmask(sr.DstSubnet.Bits()), sr.NextHopIP))
	}

	membership := domains.Membership(node)

	for _, adj := range t.Adjacent(node, topo.Physical) {
		iface := adj.Link.Iface(node)
		lines = append(lines,
			"interface "+iface.Name,
			fmt.Sprintf("ip address %s %s", iface.Addr.Addr(), netmask(iface.Addr.Bits())),
			"no shutdown",
		)
		for _, d := range membership {
			if !d.Links[adj.Link] {
				continue
			}
			switch d.Proto {
			case routing.OSPF:
				if cost := adj.Link.CostFrom(node); cost != 1 {
					lines = append(lines, fmt.Sprintf("ip ospf cost %g", cost))
				}
			case routing.ISIS:
				if !d.Nodes[adj.Neighbor] {
					continue
				}
				lines = append(lines, "ip router isis")
				// Level 2 between areas or inside the backbone, level 1
				// within a non-backbone area.
				circuit := "level-1"
				if d.Area[node] != d.Area[adj.Neighbor] || d.Area[node] == 0 {
					circuit = "level-2"
				}
				lines = append(lines, "isis circuit-type "+circuit)
			}
		}
		lines = append(lines, "exit")
	}

	for _, d := range membership {
		switch d.Proto {
		case routing.RIP:
			lines = append(lines, "router rip")
			lines = append(lines, interfaceStatements(t, node, d, func(iface *topo.Interface) string {
				return "network " + iface.Addr.Addr().String()
			})...)
		case routing.OSPF:
			lines = append(lines, "router ospf 1")
			lines = append(lines, interfaceStatements(t, node, d, func(iface *topo.Interface) string {
				return fmt.Sprintf("network %s %s area %d",
					iface.Addr.Addr(), wildcard(iface.Addr.Bits()), d.Area[node])
			})...)
			if d.ExitPoint == node {
				lines = append(lines, "default-information originate")
			}
		case routing.ISIS:
			level := "level-1"
			if d.Edge[node] {
				level = "level-1-2"
			} else if d.Area[node] == 0 {
				level = "level-2"
			}
			lines = append(lines,
				"router isis",
				"net "+isisNET(d.Area[node], node),
				"is-type "+level,
				"passive-interface Loopback0",
				"exit",
			)
		}
	}
	return lines
}

// interfaceStatements emits one activation line per member interface of
// the domain and a passive-interface line for every other interface.
func interfaceStatements(t *topo.Topology, node *topo.Node, d *routing.Domain, active func(*topo.Interface) string) []string {
	var lines []string
	for _, adj := range t.Adjacent(node, topo.Physical) {
		iface := adj.Link.Iface(node)
		if d.Links[adj.Link] {
			lines = append(lines, active(iface))
		} else {
			lines = append(lines, "passive-interface "+iface.Name)
		}
	}
	return lines
}

// isisNET derives the router's Network Entity Title: the conventional
// AFI 49, the zero-padded area number, a system ID spelled from the
// loopback address octets, and the zero selector byte.
func isisNET(area int, node *topo.Node) string {
	b := node.LoopbackIP.As4()
	sid := fmt.Sprintf("%03d%03d.%03d%03d", b[0], b[1], b[2], b[3])
	// Regroup the 12 digits into the customary xxxx.xxxx.xxxx shape.
	digits := strings.ReplaceAll(sid, ".", "")
	return fmt.Sprintf("49.%04d.%s.%s.%s.00", area, digits[0:4], digits[4:8], digits[8:12])
}

// Switch renders the configuration of one switch: VLAN declarations for
// every VLAN domain it belongs to, then per-interface access or trunk
// assignment depending on how many VLANs the attached link carries.
func Switch(t *topo.Topology, domains *routing.DomainSet, node *topo.Node) []string {
	lines := []string{"enable", "configure terminal"}

	vlans := domains.OfProto(routing.VLAN)
	for _, d := range vlans {
		if d.Nodes[node] {
			lines = append(lines,
				"vlan "+strconv.Itoa(d.VLANID),
				"name "+d.Name,
				"exit",
			)
		}
	}

	for _, adj := range t.Adjacent(node, topo.Physical) {
		var ids []string
		for _, d := range vlans {
			if d.Links[adj.Link] {
				ids = append(ids, strconv.Itoa(d.VLANID))
			}
		}
		if len(ids) == 0 {
			continue
		}
		lines = append(lines, "interface "+adj.Link.Iface(node).Name)
		if len(ids) == 1 {
			lines = append(lines,
				"switchport mode access",
				"switchport access vlan "+ids[0],
			)
		} else {
			lines = append(lines,
				"switchport mode trunk",
				"switchport trunk allowed vlan add "+strings.Join(ids, ","),
			)
		}
	}
	return append(lines, "end")
}
