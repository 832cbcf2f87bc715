package sim

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/netforge/netforge/path"
	"github.com/netforge/netforge/topo"
)

// dataflow carries the frame headers of one forwarding branch: the MAC
// pair is rewritten at every router, the throughput divided at every
// ECMP split.
type dataflow struct {
	srcMAC     string
	dstMAC     string
	throughput float64
}

// PathFinder routes every traffic demand. Demands between two routers
// go through the table-driven RFT walk; anything else falls back to a
// direct shortest-path search. Per-link traffic is reset first and
// accumulated as demands are placed; demands that cannot be routed are
// logged and left without a path.
func (e *Engine) PathFinder() {
	e.T.ResetTraffic()
	for _, demand := range e.T.Links(topo.TrafficDemand) {
		src, dst := demand.Source, demand.Destination
		if src.Kind == topo.Router && dst.Kind == topo.Router {
			if err := e.RFTWalk(demand); err != nil {
				e.Log.Warn("demand not routed",
					zap.String("demand", demand.Name), zap.Error(err))
			}
			continue
		}
		nodes, links, err := path.AStar(e.T, src, dst, path.Options{Excluded: e.T.Failed})
		if err != nil || len(nodes) == 0 {
			e.Log.Warn("no path for demand", zap.String("demand", demand.Name))
			demand.PathNodes, demand.PathLinks = nil, nil
			continue
		}
		demand.PathNodes, demand.PathLinks = nodes, links
	}
}

// RFTWalk replays one router-to-router demand hop by hop through the
// forwarding tables. At a router the destination subnet is looked up
// (falling back to the default route), the throughput split evenly over
// the non-failed equal-cost routes, and the next-hop MAC resolved
// through ARP; at a switch the frame follows the switching table
// unsplit. Every link crossed accumulates the branch throughput on its
// directional traffic field, and the demand records the union of nodes
// and links visited.
func (e *Engine) RFTWalk(demand *topo.Link) error {
	if !demand.SrcIP.IsValid() || !demand.DstIP.IsValid() {
		return fmt.Errorf("%w: %s", ErrUnresolvedAddress, demand.Name)
	}
	dstSubnet := demand.DstIP.Masked()

	type walkEntry struct {
		node *topo.Node
		flow dataflow
		hops int
	}
	stack := []walkEntry{{node: demand.Source, flow: dataflow{throughput: demand.Throughput}}}

	var pathNodes []*topo.Node
	var pathLinks []*topo.Link
	seenNode := make(map[*topo.Node]bool)
	seenLink := make(map[*topo.Link]bool)
	recordNode := func(n *topo.Node) {
		if !seenNode[n] {
			seenNode[n] = true
			pathNodes = append(pathNodes, n)
		}
	}
	recordLink := func(l *topo.Link) {
		if !seenLink[l] {
			seenLink[l] = true
			pathLinks = append(pathLinks, l)
		}
	}

	// Consistent tables never send a branch through the same router
	// twice, so a branch longer than the node count is stuck in a
	// forwarding loop left by inconsistent tables. The bound is per
	// branch: equal-cost fanout can pop far more entries in total.
	maxHops := len(e.T.Nodes())

	for len(stack) > 0 {
		entry := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		recordNode(entry.node)
		if entry.node == demand.Destination {
			continue
		}
		if entry.hops >= maxHops {
			return fmt.Errorf("%w: forwarding loop for %s", ErrNoRoute, demand.Name)
		}

		switch entry.node.Kind {
		case topo.Router:
			routes, ok := entry.node.RT[dstSubnet]
			if !ok {
				routes, ok = entry.node.RT[topo.DefaultRoute]
			}
			if !ok {
				return fmt.Errorf("%w: %s has no entry for %s", ErrNoRoute, entry.node.Name, dstSubnet)
			}
			var live []topo.Route
			for _, r := range routes {
				if r.OutLink == nil || !e.T.Failed[r.OutLink] {
					live = append(live, r)
				}
			}
			if len(live) == 0 {
				return fmt.Errorf("%w: every route of %s toward %s is failed", ErrNoRoute, entry.node.Name, dstSubnet)
			}
			share := entry.flow.throughput / float64(len(live))
			for _, r := range live {
				flow := dataflow{throughput: share}
				if r.OutLink == nil {
					// Static entry without an egress link: hand the
					// branch straight to the next-hop node.
					stack = append(stack, walkEntry{node: r.NextHopNode, flow: flow, hops: entry.hops + 1})
					continue
				}
				flow.srcMAC = r.OutIface.MAC
				flow.dstMAC = entry.node.ARP[r.NextHopIP].MAC
				r.OutLink.Traffic[r.OutLink.DirectionFrom(entry.node)] += share
				recordLink(r.OutLink)
				stack = append(stack, walkEntry{node: r.OutLink.OtherEnd(entry.node), flow: flow, hops: entry.hops + 1})
			}

		case topo.Switch, topo.OpticalSwitch:
			iface := entry.node.ST[entry.flow.dstMAC]
			if iface == nil {
				return fmt.Errorf("%w: %s has no switching entry for %s", ErrNoRoute, entry.node.Name, entry.flow.dstMAC)
			}
			l := iface.Link
			l.Traffic[l.DirectionFrom(entry.node)] += entry.flow.throughput
			recordLink(l)
			stack = append(stack, walkEntry{node: l.OtherEnd(entry.node), flow: entry.flow, hops: entry.hops + 1})

		default:
			return fmt.Errorf("%w: %s cannot forward through %s", ErrNoRoute, demand.Name, entry.node.Name)
		}
	}

	demand.PathNodes, demand.PathLinks = pathNodes, pathLinks
	return nil
}
