package flow

import (
	"math"

	"github.com/netforge/netforge/topo"
)

// EdmondsKarp computes the maximum flow from source to target by
// repeated breadth-first augmentation: each iteration finds the
// shortest augmenting path, computes its bottleneck (minimum residual
// capacity along the path) and pushes that increment along the parent
// pointers.
func EdmondsKarp(t *topo.Topology, source, target *topo.Node) (float64, error) {
	if err := validate(t, source, target); err != nil {
		return 0, err
	}
	t.ResetFlow()
	for {
		parentNode, parentLink, bottleneck := augmentBFS(t, source, target)
		if bottleneck == 0 {
			break
		}
		for curr := target; curr != source; curr = parentNode[curr] {
			push(parentLink[curr], parentNode[curr], bottleneck)
		}
	}
	return outgoing(t, source), nil
}

// augmentBFS searches the residual graph breadth-first, recording parent
// pointers and the bottleneck residual capacity reaching the target.
func augmentBFS(t *topo.Topology, source, target *topo.Node) (map[*topo.Node]*topo.Node, map[*topo.Node]*topo.Link, float64) {
	parentNode := map[*topo.Node]*topo.Node{source: source}
	parentLink := make(map[*topo.Node]*topo.Link)
	reach := map[*topo.Node]float64{source: math.Inf(1)}

	queue := []*topo.Node{source}
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		for _, adj := range t.Adjacent(curr, topo.Physical) {
			residual := residualFrom(adj.Link, curr)
			if residual <= 0 || parentNode[adj.Neighbor] != nil {
				continue
			}
			parentNode[adj.Neighbor] = curr
			parentLink[adj.Neighbor] = adj.Link
			reach[adj.Neighbor] = math.Min(reach[curr], residual)
			if adj.Neighbor == target {
				return parentNode, parentLink, reach[target]
			}
			queue = append(queue, adj.Neighbor)
		}
	}
	return parentNode, parentLink, 0
}
