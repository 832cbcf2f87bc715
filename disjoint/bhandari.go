package disjoint

import (
	"math"

	"github.com/netforge/netforge/path"
	"github.com/netforge/netforge/topo"
)

// Bhandari computes a link-disjoint shortest pair between source and
// target:
//
//  1. find the shortest path with A*;
//  2. for every link on it, set the forward cost to +Inf and the
//     reverse cost to −1 (the standard disjoint-pair transformation);
//  3. find the second path with Bellman-Ford, which tolerates the
//     negative costs;
//  4. restore the original costs;
//  5. return the symmetric difference of the two link sets — canceling
//     overlap leaves the pair's edges.
//
// When fewer than two disjoint paths exist the result contains fewer
// than two paths' worth of links (possibly only the primary path, or
// nothing when the target is unreachable).
func Bhandari(t *topo.Topology, source, target *topo.Node, opts path.Options) ([]*topo.Link, error) {
	if opts.Allowed == nil {
		opts.Allowed = t.PhysicalSet()
	}
	restore := snapshotCosts(opts.Allowed)
	defer restore()

	_, first, err := path.AStar(t, source, target, opts)
	if err != nil {
		return nil, err
	}
	if len(first) == 0 {
		return nil, nil
	}

	flipAlong(source, first, func(l *topo.Link, dir topo.Direction) {
		l.Cost[dir] = math.Inf(1)
		l.Cost[dir.Reverse()] = -1
	})

	_, second, _, err := path.BellmanFord(t, source, target, false, opts)
	if err != nil {
		return nil, err
	}
	return symmetricDifference(first, second), nil
}
