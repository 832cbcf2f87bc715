package routing

import (
	"container/heap"
	"math"
	"sort"

	"github.com/netforge/netforge/topo"
)

// ripMaxMetric is the RIP hop-count horizon: subnets farther than this
// are unreachable through RIP.
const ripMaxMetric = 15

// BuildRFT fills the forwarding table of every member router of an IP
// domain (RIP, OSPF or IS-IS). For each router it runs a shortest-path
// computation restricted to the domain's node and link sets, minus the
// links in failed, then installs one entry per member subnet with every
// equal-cost first hop merged under the same key. RIP measures hop
// count and drops subnets beyond its metric horizon; OSPF and IS-IS use
// the directional link costs.
//
// When the domain has an exit point, every other router also gets a
// default route pointing at it.
func (d *Domain) BuildRFT(t *topo.Topology, failed map[*topo.Link]bool) error {
	if d.state == unbuilt {
		return ErrUnresolved
	}
	for _, router := range d.Members(topo.Router) {
		d.buildRouterRFT(t, router, failed)
	}
	d.state = tablesBuilt
	return nil
}

func (d *Domain) buildRouterRFT(t *topo.Topology, source *topo.Node, failed map[*topo.Link]bool) {
	dist, hops := d.ecmpShortestPaths(t, source, failed)

	for _, l := range d.MemberLinks() {
		if l.Kind() != topo.Physical || !l.Subnet.IsValid() {
			continue
		}
		metric := math.Min(dist[l.Source], dist[l.Destination])
		if math.IsInf(metric, 1) || metric == 0 {
			// Unreachable, or the source's own subnet: connected
			// entries cover the latter.
			continue
		}
		if d.Proto == RIP && metric > ripMaxMetric {
			continue
		}
		var routes []topo.Route
		for _, end := range [2]*topo.Node{l.Source, l.Destination} {
			if dist[end] != metric {
				continue
			}
			routes = mergeRoutes(routes, hops[end], d.Proto.origin(), metric)
		}
		source.RT[l.Subnet] = routes
	}

	if d.ExitPoint != nil && d.ExitPoint != source {
		if m := dist[d.ExitPoint]; !math.IsInf(m, 1) {
			source.RT[topo.DefaultRoute] = mergeRoutes(nil, hops[d.ExitPoint], d.Proto.origin(), m)
		}
	}
}

// mergeRoutes appends one route per first hop, skipping first hops whose
// egress link is already present under the key.
func mergeRoutes(routes []topo.Route, hops []topo.Adjacency, origin topo.Origin, metric float64) []topo.Route {
	for _, fh := range hops {
		dup := false
		for _, r := range routes {
			if r.OutLink == fh.Link {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		routes = append(routes, topo.Route{
			Origin:      origin,
			NextHopIP:   fh.Link.IP(fh.Neighbor).Addr(),
			OutIface:    fh.Link.Iface(fh.Link.OtherEnd(fh.Neighbor)),
			Metric:      metric,
			NextHopNode: fh.Neighbor,
			OutLink:     fh.Link,
		})
	}
	return routes
}

// weight returns the cost of crossing l when leaving n under the
// domain's protocol.
func (d *Domain) weight(l *topo.Link, n *topo.Node) float64 {
	if d.Proto == RIP {
		return 1
	}
	return l.CostFrom(n)
}

// rftItem is one priority-queue entry of the per-router shortest-path
// pass, ordered by (distance, insertion sequence).
type rftItem struct {
	dist float64
	seq  int
	node *topo.Node
}

type rftPQ []rftItem

func (h rftPQ) Len() int { return len(h) }
func (h rftPQ) Less(i, j int) bool {
	if h[i].dist != h[j].dist {
		return h[i].dist < h[j].dist
	}
	return h[i].seq < h[j].seq
}
func (h rftPQ) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *rftPQ) Push(x interface{}) { *h = append(*h, x.(rftItem)) }
func (h *rftPQ) Pop() interface{} {
	old := *h
	n := len(old)
	it := old[n-1]
	*h = old[:n-1]
	return it
}

// ecmpShortestPaths computes, within the domain minus the failed links,
// the distance from source to every member node and the set of
// first-hop adjacencies (egress link and neighbor at the source) of
// every minimum-cost path. Distances come from a plain shortest-path
// pass; first hops from a second pass over the nodes in distance order,
// so equal-cost hops discovered late still propagate downstream.
func (d *Domain) ecmpShortestPaths(t *topo.Topology, source *topo.Node, failed map[*topo.Link]bool) (map[*topo.Node]float64, map[*topo.Node][]topo.Adjacency) {
	dist := make(map[*topo.Node]float64, len(d.Nodes))
	for n := range d.Nodes {
		dist[n] = math.Inf(1)
	}
	dist[source] = 0

	usable := func(adj topo.Adjacency) bool {
		return d.Links[adj.Link] && d.Nodes[adj.Neighbor] && !failed[adj.Link]
	}

	h := &rftPQ{{node: source}}
	seq := 1
	visited := make(map[*topo.Node]bool)
	for h.Len() > 0 {
		item := heap.Pop(h).(rftItem)
		if visited[item.node] {
			continue
		}
		visited[item.node] = true
		for _, adj := range t.Adjacent(item.node, topo.Physical) {
			if !usable(adj) {
				continue
			}
			if cand := item.dist + d.weight(adj.Link, item.node); cand < dist[adj.Neighbor] {
				dist[adj.Neighbor] = cand
				heap.Push(h, rftItem{dist: cand, seq: seq, node: adj.Neighbor})
				seq++
			}
		}
	}

	// Nodes in distance order, ID-ordered within a distance level.
	var ordered []*topo.Node
	for n := range d.Nodes {
		if n != source && !math.IsInf(dist[n], 1) {
			ordered = append(ordered, n)
		}
	}
	sort.Slice(ordered, func(i, j int) bool {
		if dist[ordered[i]] != dist[ordered[j]] {
			return dist[ordered[i]] < dist[ordered[j]]
		}
		return ordered[i].ID < ordered[j].ID
	})

	hops := make(map[*topo.Node][]topo.Adjacency, len(ordered))
	for _, n := range ordered {
		for _, adj := range t.Adjacent(n, topo.Physical) {
			if !usable(adj) || dist[adj.Neighbor]+d.weight(adj.Link, adj.Neighbor) != dist[n] {
				continue
			}
			if adj.Neighbor == source {
				// Direct neighbor of the source: the first hop is this
				// very adjacency, seen from the source's side.
				hops[n] = appendHop(hops[n], topo.Adjacency{Neighbor: n, Link: adj.Link})
				continue
			}
			for _, fh := range hops[adj.Neighbor] {
				hops[n] = appendHop(hops[n], fh)
			}
		}
	}
	return dist, hops
}

// appendHop adds fh unless a hop with the same egress link is present.
func appendHop(hops []topo.Adjacency, fh topo.Adjacency) []topo.Adjacency {
	for _, h := range hops {
		if h.Link == fh.Link {
			return hops
		}
	}
	return append(hops, fh)
}
