package mst

import (
	"sort"

	"github.com/netforge/netforge/topo"
)

// Kruskal computes a minimum spanning forest over the given node subset:
// every physical link with both endpoints in the subset is considered,
// ascending by source→destination cost, and accepted when its endpoints
// are still in different union-find components. Equal-cost ties keep
// collection order (stable sort), so results are deterministic.
//
// The returned links span each connected component of the subset; a
// disconnected subset yields a spanning forest rather than a tree.
func Kruskal(t *topo.Topology, nodes map[*topo.Node]bool) []*topo.Link {
	uf := newUnionFind()

	// Collect candidate links in deterministic order, each once.
	var candidates []*topo.Link
	seen := make(map[*topo.Link]bool)
	for _, n := range t.Nodes() {
		if !nodes[n] {
			continue
		}
		for _, adj := range t.Adjacent(n, topo.Physical) {
			if !nodes[adj.Neighbor] || seen[adj.Link] {
				continue
			}
			seen[adj.Link] = true
			candidates = append(candidates, adj.Link)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Cost[topo.SD] < candidates[j].Cost[topo.SD]
	})

	var accepted []*topo.Link
	for _, l := range candidates {
		if uf.union(l.Source.ID, l.Destination.ID) {
			accepted = append(accepted, l)
		}
	}
	return accepted
}

// unionFind is a disjoint-set forest over node IDs with path compression
// and union by rank.
type unionFind struct {
	parent map[int]int
	rank   map[int]int
}

func newUnionFind() *unionFind {
	return &unionFind{parent: make(map[int]int), rank: make(map[int]int)}
}

func (u *unionFind) find(x int) int {
	if _, ok := u.parent[x]; !ok {
		u.parent[x] = x
	}
	for u.parent[x] != x {
		u.parent[x] = u.parent[u.parent[x]]
		x = u.parent[x]
	}
	return x
}

// union merges the components of a and b, reporting whether they were
// distinct (i.e. whether the edge joining them belongs to the forest).
func (u *unionFind) union(a, b int) bool {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return false
	}
	if u.rank[ra] < u.rank[rb] {
		ra, rb = rb, ra
	}
	u.parent[rb] = ra
	if u.rank[ra] == u.rank[rb] {
		u.rank[ra]++
	}
	return true
}
