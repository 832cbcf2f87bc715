package disjoint

import (
	"container/heap"
	"strconv"
	"strings"

	"github.com/netforge/netforge/path"
	"github.com/netforge/netforge/topo"
)

// pairItem is a priority-queue entry of the shortest-pair search. Unlike
// a plain Dijkstra entry it carries the whole walk so far plus the link
// set excluded once the target was reached.
type pairItem struct {
	dist     float64
	seq      int
	node     *topo.Node
	links    []*topo.Link
	excluded map[*topo.Link]bool
	firstLen int
}

type pairPQ []*pairItem

func (h pairPQ) Len() int { return len(h) }
func (h pairPQ) Less(i, j int) bool {
	if h[i].dist != h[j].dist {
		return h[i].dist < h[j].dist
	}
	return h[i].seq < h[j].seq
}
func (h pairPQ) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *pairPQ) Push(x interface{}) { *h = append(*h, x.(*pairItem)) }
func (h *pairPQ) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// ShortestPair finds a link-disjoint shortest pair by a single
// constrained search: it looks for the cheapest walk from source back to
// source with target as waypoint. Once the walk reaches the target,
// every link already used becomes excluded, so the return leg is
// link-disjoint from the outbound leg by construction.
//
// It returns the outbound and return link sequences; both are empty when
// no pair exists. The search memoizes on (node, walk) pairs and is
// exponential in the worst case — intended for small topologies, with
// Bhandari and Suurbale as the scalable alternatives.
func ShortestPair(t *topo.Topology, source, target *topo.Node, opts path.Options) ([]*topo.Link, []*topo.Link, error) {
	if opts.Allowed == nil {
		opts.Allowed = t.PhysicalSet()
	}
	if opts.AllowedNodes == nil {
		opts.AllowedNodes = t.NodeSet()
	}
	if !opts.AllowedNodes[source] || !opts.AllowedNodes[target] {
		return nil, nil, path.ErrNodeNotAllowed
	}

	visited := make(map[string]bool)
	h := &pairPQ{}
	heap.Init(h)
	seq := 0
	heap.Push(h, &pairItem{node: source})

	for h.Len() > 0 {
		item := heap.Pop(h).(*pairItem)
		key := walkKey(item.node, item.links)
		if visited[key] {
			continue
		}
		visited[key] = true

		excluded, firstLen := item.excluded, item.firstLen
		if item.node == target && excluded == nil {
			excluded = make(map[*topo.Link]bool, len(item.links))
			for _, l := range item.links {
				excluded[l] = true
			}
			firstLen = len(item.links)
		}
		if item.node == source && excluded != nil {
			return item.links[:firstLen], item.links[firstLen:], nil
		}

		for _, adj := range t.Adjacent(item.node, topo.Physical) {
			if !opts.AllowedNodes[adj.Neighbor] || opts.ExcludedNodes[adj.Neighbor] ||
				!opts.Allowed[adj.Link] || opts.Excluded[adj.Link] || excluded[adj.Link] {
				continue
			}
			// A minimum-cost walk never pays for the same link twice, so
			// forbidding reuse loses no solution and bounds the search.
			if walkContains(item.links, adj.Link) {
				continue
			}
			seq++
			links := make([]*topo.Link, len(item.links)+1)
			copy(links, item.links)
			links[len(item.links)] = adj.Link
			heap.Push(h, &pairItem{
				dist:     item.dist + adj.Link.CostFrom(item.node),
				seq:      seq,
				node:     adj.Neighbor,
				links:    links,
				excluded: excluded,
				firstLen: firstLen,
			})
		}
	}
	return nil, nil, nil
}

func walkContains(links []*topo.Link, l *topo.Link) bool {
	for _, x := range links {
		if x == l {
			return true
		}
	}
	return false
}

func walkKey(n *topo.Node, links []*topo.Link) string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(n.ID))
	for _, l := range links {
		b.WriteByte('/')
		b.WriteString(strconv.Itoa(l.ID))
	}
	return b.String()
}
