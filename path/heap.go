package path

import "github.com/netforge/netforge/topo"

// pqItem is one priority-queue entry. seq is a monotonically increasing
// insertion counter: ties on dist break by insertion order, which keeps
// the search deterministic (Suurbale relies on the shortest-path tree
// being consistent between runs, not on a specific tie-break).
type pqItem struct {
	dist float64
	seq  int
	node *topo.Node

	// A* carries its partial path and remaining waypoints in the entry.
	nodes       []*topo.Node
	links       []*topo.Link
	constraints []*topo.Node
}

// pq is a min-heap of pqItem ordered by (dist, seq).
type pq []*pqItem

func (h pq) Len() int { return len(h) }
func (h pq) Less(i, j int) bool {
	if h[i].dist != h[j].dist {
		return h[i].dist < h[j].dist
	}
	return h[i].seq < h[j].seq
}
func (h pq) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *pq) Push(x interface{}) { *h = append(*h, x.(*pqItem)) }
func (h *pq) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
