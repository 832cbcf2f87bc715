package disjoint

import (
	"math"

	"github.com/netforge/netforge/path"
	"github.com/netforge/netforge/topo"
)

// Suurbale computes a link-disjoint shortest pair between source and
// target:
//
//  1. run Dijkstra from source for the distance map and the
//     shortest-path tree;
//  2. re-cost every tree edge (a,b) as cost(a,b) − dist(b) + dist(a),
//     which zeroes tree edges and keeps every cost non-negative, so the
//     second search needs no negative-cost tolerance;
//  3. exclude the primary path by setting its forward costs to +Inf;
//  4. run A* for the second path;
//  5. restore costs and return the symmetric difference of the two
//     link sets.
func Suurbale(t *topo.Topology, source, target *topo.Node, opts path.Options) ([]*topo.Link, error) {
	if opts.Allowed == nil {
		opts.Allowed = t.PhysicalSet()
	}
	restore := snapshotCosts(opts.Allowed)
	defer restore()

	res, err := path.Dijkstra(t, source, target, opts)
	if err != nil {
		return nil, err
	}
	if len(res.Path) == 0 {
		return nil, nil
	}

	for _, l := range res.Tree {
		src, dst := l.Source, l.Destination
		l.Cost[topo.SD] += res.Dist[src] - res.Dist[dst]
		l.Cost[topo.DS] += res.Dist[dst] - res.Dist[src]
	}
	flipAlong(source, res.Path, func(l *topo.Link, dir topo.Direction) {
		l.Cost[dir] = math.Inf(1)
	})

	_, second, err := path.AStar(t, source, target, opts)
	if err != nil {
		return nil, err
	}
	return symmetricDifference(res.Path, second), nil
}
