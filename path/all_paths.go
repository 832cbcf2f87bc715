package path

import "github.com/netforge/netforge/topo"

// AllPaths enumerates every simple (loop-free) path from source to
// target over physical links. A nil target enumerates all maximal
// loop-free paths instead (paths ending at a dead end).
//
// Enumeration is exponential by nature; callers are responsible for
// keeping the topology small.
func AllPaths(t *topo.Topology, source, target *topo.Node) [][]*topo.Node {
	var out [][]*topo.Node
	current := []*topo.Node{source}
	seen := map[*topo.Node]bool{source: true}

	var walk func()
	walk = func() {
		node := current[len(current)-1]
		if target != nil && node == target {
			out = append(out, append([]*topo.Node(nil), current...))
			return
		}
		deadEnd := true
		for _, adj := range t.Adjacent(node, topo.Physical) {
			if seen[adj.Neighbor] {
				continue
			}
			deadEnd = false
			seen[adj.Neighbor] = true
			current = append(current, adj.Neighbor)
			walk()
			current = current[:len(current)-1]
			delete(seen, adj.Neighbor)
		}
		if target == nil && deadEnd {
			out = append(out, append([]*topo.Node(nil), current...))
		}
	}
	walk()
	return out
}
