package routing

import (
	"github.com/netforge/netforge/path"
	"github.com/netforge/netforge/topo"
)

// UpdateSpanningTree runs the spanning-tree computation of an STP
// domain: root election followed by the shortest-path tree from the
// root over the member links, minus the links in failed. Member links
// outside the resulting tree are the blocked ports the switching-table
// builder must exclude.
func (d *Domain) UpdateSpanningTree(t *topo.Topology, failed map[*topo.Link]bool) error {
	if d.state == unbuilt {
		return ErrUnresolved
	}
	d.electRoot()
	if d.Root == nil {
		return nil
	}
	res, err := path.Dijkstra(t, d.Root, d.Root, path.Options{
		Allowed:      d.Links,
		AllowedNodes: d.Nodes,
		Excluded:     failed,
	})
	if err != nil {
		return err
	}
	d.SPTLinks = make(map[*topo.Link]bool, len(res.Tree))
	for _, l := range res.Tree {
		d.SPTLinks[l] = true
	}
	return nil
}

// electRoot picks the root bridge: the member switch with the lowest
// base MAC, node ID breaking ties.
func (d *Domain) electRoot() {
	d.Root = nil
	for _, sw := range d.Members(topo.Switch, topo.OpticalSwitch) {
		if d.Root == nil || sw.BaseMAC < d.Root.BaseMAC {
			d.Root = sw
		}
	}
}

// BlockedLinks returns the member links pruned by the spanning tree.
func (d *Domain) BlockedLinks() map[*topo.Link]bool {
	blocked := make(map[*topo.Link]bool)
	for l := range d.Links {
		if !d.SPTLinks[l] {
			blocked[l] = true
		}
	}
	return blocked
}
