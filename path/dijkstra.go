package path

import (
	"container/heap"
	"math"

	"github.com/netforge/netforge/topo"
)

// DijkstraResult carries the three artifacts of a Dijkstra run; the
// disjoint-pair algorithms (Suurbale) need all of them.
type DijkstraResult struct {
	// Dist maps every allowed node to its distance from the source
	// (+Inf when unreachable).
	Dist map[*topo.Node]float64
	// Path is the shortest link sequence from source to target, empty
	// when the target is unreachable.
	Path []*topo.Link
	// Tree is the edge set of the shortest-path tree rooted at source.
	Tree []*topo.Link
}

// Dijkstra computes shortest paths from source over the allowed
// physical links, reading each link's cost in the direction of travel.
//
// The priority queue is keyed by accumulated cost; ties break by
// insertion order (see pqItem). Costs must be non-negative; use
// BellmanFord for graphs with negative costs.
//
// Complexity: O((V + E) log V) time, O(V + E) space.
func Dijkstra(t *topo.Topology, source, target *topo.Node, opts Options) (DijkstraResult, error) {
	opts.normalize(t)
	if !opts.nodeOK(source) || !opts.nodeOK(target) {
		return DijkstraResult{}, ErrNodeNotAllowed
	}

	dist := make(map[*topo.Node]float64, len(opts.AllowedNodes))
	for n := range opts.AllowedNodes {
		dist[n] = math.Inf(1)
	}
	dist[source] = 0

	precNode := make(map[*topo.Node]*topo.Node, len(opts.AllowedNodes))
	precLink := make(map[*topo.Node]*topo.Link, len(opts.AllowedNodes))
	visited := make(map[*topo.Node]bool, len(opts.AllowedNodes))

	h := &pq{}
	heap.Init(h)
	seq := 0
	heap.Push(h, &pqItem{dist: 0, node: source})

	for h.Len() > 0 {
		item := heap.Pop(h).(*pqItem)
		node := item.node
		if visited[node] {
			continue
		}
		visited[node] = true
		for _, adj := range t.Adjacent(node, topo.Physical) {
			if !opts.nodeOK(adj.Neighbor) || !opts.linkOK(adj.Link) {
				continue
			}
			candidate := item.dist + adj.Link.CostFrom(node)
			if candidate < dist[adj.Neighbor] {
				dist[adj.Neighbor] = candidate
				precNode[adj.Neighbor] = node
				precLink[adj.Neighbor] = adj.Link
				seq++
				heap.Push(h, &pqItem{dist: candidate, seq: seq, node: adj.Neighbor})
			}
		}
	}

	res := DijkstraResult{Dist: dist}
	for _, l := range precLink {
		res.Tree = append(res.Tree, l)
	}

	if math.IsInf(dist[target], 1) {
		return res, nil
	}
	// Trace the path back from target to source.
	for curr := target; curr != source; curr = precNode[curr] {
		res.Path = append(res.Path, precLink[curr])
	}
	reverseLinks(res.Path)
	return res, nil
}

func reverseLinks(s []*topo.Link) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

func reverseNodes(s []*topo.Node) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
