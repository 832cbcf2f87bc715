package topoyaml

import (
	"fmt"
	"net/netip"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/netforge/netforge/routing"
	"github.com/netforge/netforge/sim"
	"github.com/netforge/netforge/topo"
)

// Document is the YAML shape of a topology fixture.
type Document struct {
	// Addressing runs virtual-connection discovery and MAC/IP/interface
	// allocation after the objects are created.
	Addressing bool         `yaml:"addressing"`
	Nodes      []NodeDoc    `yaml:"nodes"`
	Links      []LinkDoc    `yaml:"links"`
	Domains    []DomainDoc  `yaml:"domains"`
	Traffic    []TrafficDoc `yaml:"traffic"`
}

// NodeDoc declares one device.
type NodeDoc struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"`
}

// LinkDoc declares one physical or logical link. Omitted costs and
// capacities keep the factory default of 1.
type LinkDoc struct {
	Name        string  `yaml:"name"`
	Type        string  `yaml:"type"`
	Source      string  `yaml:"source"`
	Destination string  `yaml:"destination"`
	CostSD      float64 `yaml:"cost_sd"`
	CostDS      float64 `yaml:"cost_ds"`
	CapacitySD  float64 `yaml:"capacity_sd"`
	CapacityDS  float64 `yaml:"capacity_ds"`
	DstSubnet   string  `yaml:"dst_subnet"`
	NextHop     string  `yaml:"next_hop"`
}

// DomainDoc declares one routing domain and its membership.
type DomainDoc struct {
	Name      string         `yaml:"name"`
	Protocol  string         `yaml:"protocol"`
	ExitPoint string         `yaml:"exit_point"`
	VLANID    int            `yaml:"vlan_id"`
	Nodes     []string       `yaml:"nodes"`
	Links     []string       `yaml:"links"`
	Areas     map[string]int `yaml:"areas"`
}

// TrafficDoc declares one traffic demand.
type TrafficDoc struct {
	Name        string  `yaml:"name"`
	Source      string  `yaml:"source"`
	Destination string  `yaml:"destination"`
	Throughput  float64 `yaml:"throughput"`
}

var nodeKinds = map[string]topo.NodeKind{
	"router":         topo.Router,
	"switch":         topo.Switch,
	"optical switch": topo.OpticalSwitch,
	"host":           topo.Host,
}

var linkSubs = map[string]topo.LinkSub{
	"ethernet":     topo.EthernetLink,
	"optical":      topo.OpticalLink,
	"l2vc":         topo.L2VC,
	"l3vc":         topo.L3VC,
	"static route": topo.StaticRoute,
}

var protocols = map[string]routing.Protocol{
	"RIP":  routing.RIP,
	"OSPF": routing.OSPF,
	"ISIS": routing.ISIS,
	"BGP":  routing.BGP,
	"STP":  routing.STP,
	"VLAN": routing.VLAN,
}

// Load decodes a topology document and returns an engine over it.
func Load(data []byte, log *zap.Logger) (*sim.Engine, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("topoyaml: decode: %w", err)
	}

	t := topo.New()
	for _, nd := range doc.Nodes {
		kind, ok := nodeKinds[nd.Kind]
		if !ok {
			return nil, fmt.Errorf("topoyaml: node %q: unknown kind %q", nd.Name, nd.Kind)
		}
		t.NodeFactory(nd.Name, kind)
	}

	for _, ld := range doc.Links {
		sub, ok := linkSubs[ld.Type]
		if !ok {
			return nil, fmt.Errorf("topoyaml: link %q: unknown type %q", ld.Name, ld.Type)
		}
		src, dst := t.Node(ld.Source), t.Node(ld.Destination)
		l, err := t.LinkFactory(sub, ld.Name, src, dst)
		if err != nil {
			return nil, fmt.Errorf("topoyaml: link %q: %w", ld.Name, err)
		}
		setIfPositive(&l.Cost[topo.SD], ld.CostSD)
		setIfPositive(&l.Cost[topo.DS], ld.CostDS)
		setIfPositive(&l.Capacity[topo.SD], ld.CapacitySD)
		setIfPositive(&l.Capacity[topo.DS], ld.CapacityDS)
		if sub == topo.StaticRoute {
			if l.DstSubnet, err = netip.ParsePrefix(ld.DstSubnet); err != nil {
				return nil, fmt.Errorf("topoyaml: link %q: dst_subnet: %w", ld.Name, err)
			}
			if l.NextHopIP, err = netip.ParseAddr(ld.NextHop); err != nil {
				return nil, fmt.Errorf("topoyaml: link %q: next_hop: %w", ld.Name, err)
			}
		}
	}

	for _, td := range doc.Traffic {
		demand, err := t.LinkFactory(topo.RoutedTraffic, td.Name, t.Node(td.Source), t.Node(td.Destination))
		if err != nil {
			return nil, fmt.Errorf("topoyaml: traffic %q: %w", td.Name, err)
		}
		demand.Throughput = td.Throughput
	}

	if doc.Addressing {
		if err := t.BuildVirtualConnections(); err != nil {
			return nil, fmt.Errorf("topoyaml: virtual connections: %w", err)
		}
		t.ConfigureAddressing()
		t.ResolveTrafficIPs()
	}

	domains := routing.NewDomainSet()
	for _, dd := range doc.Domains {
		proto, ok := protocols[dd.Protocol]
		if !ok {
			return nil, fmt.Errorf("topoyaml: domain %q: unknown protocol %q", dd.Name, dd.Protocol)
		}
		d := domains.Factory(dd.Name, proto)
		d.VLANID = dd.VLANID
		for _, name := range dd.Nodes {
			n := t.Node(name)
			if n == nil {
				return nil, fmt.Errorf("topoyaml: domain %q: unknown node %q", dd.Name, name)
			}
			d.AddNode(n)
		}
		for _, name := range dd.Links {
			l := t.Link(name)
			if l == nil {
				return nil, fmt.Errorf("topoyaml: domain %q: unknown link %q", dd.Name, name)
			}
			d.AddLink(l)
		}
		for name, area := range dd.Areas {
			if n := t.Node(name); n != nil {
				d.Area[n] = area
			}
		}
		if dd.ExitPoint != "" {
			d.ExitPoint = t.Node(dd.ExitPoint)
		}
	}

	return sim.New(t, domains, log), nil
}

func setIfPositive(dst *float64, v float64) {
	if v > 0 {
		*dst = v
	}
}
