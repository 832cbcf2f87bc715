package sim

import (
	"go.uber.org/zap"

	"github.com/netforge/netforge/routing"
	"github.com/netforge/netforge/topo"
)

// Engine composes a topology with its routing domains and runs the
// table-construction and forwarding passes over them.
type Engine struct {
	T       *topo.Topology
	Domains *routing.DomainSet
	Log     *zap.Logger
}

// New returns an engine over the given topology and domains. A nil
// logger is replaced by a no-op one.
func New(t *topo.Topology, domains *routing.DomainSet, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	if domains == nil {
		domains = routing.NewDomainSet()
	}
	return &Engine{T: t, Domains: domains, Log: log}
}

// Route rebuilds every table and re-runs the forwarding simulation; it
// is the entry point the surrounding tooling calls after any topology,
// membership or cost change.
func (e *Engine) Route() error {
	if err := e.BuildRoutingTables(); err != nil {
		return err
	}
	if err := e.BuildSwitchingTables(); err != nil {
		return err
	}
	e.PathFinder()
	return nil
}

// BuildRoutingTables rebuilds the forwarding table of every router and
// host: protocol-learned entries per IP domain first, then connected
// and static entries, which replace computed entries under the same
// key. Links in the failure set never contribute learned routes.
func (e *Engine) BuildRoutingTables() error {
	e.T.UpdateSubnets()
	for _, n := range e.T.NodesOfKind(topo.Router, topo.Host) {
		for subnet := range n.RT {
			delete(n.RT, subnet)
		}
	}
	for _, d := range e.Domains.OfProto(routing.RIP, routing.ISIS, routing.OSPF) {
		d.ResolveTopology(e.T)
		if err := d.BuildRFT(e.T, e.T.Failed); err != nil {
			return err
		}
	}
	for _, n := range e.T.NodesOfKind(topo.Router, topo.Host) {
		routing.InstallConnectedAndStatic(e.T, n)
	}
	return nil
}

// BuildSwitchingTables rebuilds the ARP tables, re-runs the spanning
// tree of every STP domain, and fills the MAC table of every switch.
// Switches outside any STP domain get a table without spanning-tree
// exclusions; failed links are excluded everywhere.
func (e *Engine) BuildSwitchingTables() error {
	routing.BuildARPTables(e.T)

	for _, sw := range e.T.NodesOfKind(topo.Switch, topo.OpticalSwitch) {
		for mac := range sw.ST {
			delete(sw.ST, mac)
		}
	}
	for _, d := range e.Domains.OfProto(routing.STP) {
		d.ResolveTopology(e.T)
		if err := d.UpdateSpanningTree(e.T, e.T.Failed); err != nil {
			return err
		}
		excluded := d.BlockedLinks()
		for l := range e.T.Failed {
			excluded[l] = true
		}
		for _, sw := range d.Members(topo.Switch, topo.OpticalSwitch) {
			routing.BuildSwitchingTable(e.T, sw, excluded)
		}
	}
	for _, sw := range e.T.NodesOfKind(topo.Switch, topo.OpticalSwitch) {
		if len(sw.ST) == 0 {
			routing.BuildSwitchingTable(e.T, sw, e.T.Failed)
		}
	}
	return nil
}
