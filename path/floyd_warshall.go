package path

import (
	"errors"
	"math"

	"github.com/netforge/netforge/topo"
)

// ErrNegativeCycle is returned when an all-pairs computation detects a
// negative self-distance, which invalidates shortest-path semantics.
// It is deliberately distinct from an unreachable pair (+Inf distance).
var ErrNegativeCycle = errors.New("path: negative cycle detected")

// FloydWarshall computes the dense all-pairs shortest distances over the
// full node set, seeding each pair from the source→destination cost of
// the first physical link between them.
//
// Complexity: O(V³) time, O(V²) space — intended for the all-pairs
// consistency checks and small topologies.
func FloydWarshall(t *topo.Topology) (map[*topo.Node]map[*topo.Node]float64, error) {
	nodes := t.Nodes()
	n := len(nodes)
	w := make([][]float64, n)
	index := make(map[*topo.Node]int, n)
	for i, node := range nodes {
		index[node] = i
	}
	for i, a := range nodes {
		w[i] = make([]float64, n)
		for j, b := range nodes {
			if i == j {
				continue
			}
			w[i][j] = math.Inf(1)
			for _, adj := range t.Adjacent(a, topo.Physical) {
				if adj.Neighbor == b {
					w[i][j] = adj.Link.Cost[topo.SD]
					break
				}
			}
		}
	}

	for k := 0; k < n; k++ {
		for u := 0; u < n; u++ {
			for v := 0; v < n; v++ {
				if via := w[u][k] + w[k][v]; via < w[u][v] {
					w[u][v] = via
				}
			}
		}
	}

	for v := 0; v < n; v++ {
		if w[v][v] < 0 {
			return nil, ErrNegativeCycle
		}
	}

	out := make(map[*topo.Node]map[*topo.Node]float64, n)
	for i, a := range nodes {
		out[a] = make(map[*topo.Node]float64, n)
		for j, b := range nodes {
			out[a][b] = w[i][j]
		}
	}
	return out, nil
}
