package topo

import (
	"encoding/binary"
	"fmt"
	"math"
	"net/netip"
	"sort"
)

// Private MAC ranges used for allocation: x2/x6 for the two interfaces
// of a physical link, xA for switch hardware addresses.
const (
	macBaseIfaceS uint64 = 0x020000000000
	macBaseIfaceD uint64 = 0x060000000000
	macBaseSwitch uint64 = 0x0A0000000000
)

func formatMAC(v uint64) string {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x", b[2], b[3], b[4], b[5], b[6], b[7])
}

func addrAdd(a netip.Addr, n uint32) netip.Addr {
	v := binary.BigEndian.Uint32(a.AsSlice())
	var out [4]byte
	binary.BigEndian.PutUint32(out[:], v+n)
	return netip.AddrFrom4(out)
}

// AllocateMACs assigns interface MACs to every physical link and a base
// hardware MAC to every switch, from the private x2/x6/xA ranges.
func (t *Topology) AllocateMACs() {
	for i, l := range t.Links(Physical) {
		l.IfaceS.MAC = formatMAC(macBaseIfaceS + uint64(i) + 1)
		l.IfaceD.MAC = formatMAC(macBaseIfaceD + uint64(i) + 1)
	}
	for i, sw := range t.NodesOfKind(Switch) {
		sw.BaseMAC = formatMAC(macBaseSwitch + uint64(i) + 1)
	}
}

// AllocateIPs performs VLSM addressing of every layer-3 segment out of
// the 10.0.0.0/8 pool: segments are processed largest first, each gets
// the smallest subnet that fits its attachment count plus network and
// broadcast addresses. Router loopbacks come from 192.168.0.0/16.
func (t *Topology) AllocateIPs() {
	segments := t.Segments(3)
	// Largest segment first, so consecutive blocks stay aligned.
	sort.SliceStable(segments, func(i, j int) bool { return len(segments[i]) > len(segments[j]) })

	base := netip.MustParseAddr("10.0.0.0")
	for _, segment := range segments {
		bits := int(math.Ceil(math.Log2(float64(len(segment) + 2))))
		prefixLen := 32 - bits
		for idx, member := range segment {
			addr := netip.PrefixFrom(addrAdd(base, uint32(idx)+1), prefixLen)
			member.Link.Iface(member.Node).Addr = addr
			member.Link.Subnet = addr.Masked()
		}
		base = addrAdd(base, 1<<bits)
	}

	for i, router := range t.NodesOfKind(Router) {
		idx := i + 1
		router.LoopbackIP = netip.AddrFrom4([4]byte{192, 168, byte(idx / 255), byte(idx % 255)})
	}
}

// AllocateInterfaceNames names every physical interface after its
// position in the owner's adjacency (FastEthernet0/i).
func (t *Topology) AllocateInterfaceNames() {
	for _, n := range t.Nodes() {
		for i, adj := range t.Adjacent(n, Physical) {
			adj.Link.Iface(n).Name = fmt.Sprintf("FastEthernet0/%d", i)
		}
	}
}

// ConfigureAddressing runs the full allocation pass: MACs, IPs and
// interface names. Virtual connections must exist beforehand for the
// layer-3 segments to be complete.
func (t *Topology) ConfigureAddressing() {
	t.AllocateMACs()
	t.AllocateIPs()
	t.AllocateInterfaceNames()
}

// UpdateSubnets re-derives every physical link's subnet from the
// interface addresses, after manual address edits.
func (t *Topology) UpdateSubnets() {
	for _, l := range t.Links(Physical) {
		for _, iface := range [2]*Interface{l.IfaceS, l.IfaceD} {
			if iface.Addr.IsValid() {
				l.Subnet = iface.Addr.Masked()
			}
		}
	}
}

// ResolveTrafficIPs fills the source/destination IP of every traffic
// demand from the first addressed interface of each endpoint. Demands
// whose endpoints carry no addressed interface keep invalid IPs and are
// skipped by the forwarding simulator.
func (t *Topology) ResolveTrafficIPs() {
	for _, demand := range t.Links(TrafficDemand) {
		demand.SrcIP = t.firstInterfaceIP(demand.Source)
		demand.DstIP = t.firstInterfaceIP(demand.Destination)
	}
}

func (t *Topology) firstInterfaceIP(n *Node) netip.Prefix {
	for _, adj := range t.Adjacent(n, Physical) {
		if ip := adj.Link.Iface(n).Addr; ip.IsValid() {
			return ip
		}
	}
	return netip.Prefix{}
}
