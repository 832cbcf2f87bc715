package disjoint

import (
	"github.com/netforge/netforge/topo"
)

// snapshotCosts records both directional costs of every link in the set
// and returns the restore function. Callers defer the restore so the
// shared cost model is rebuilt on every exit path, including failures.
func snapshotCosts(links map[*topo.Link]bool) func() {
	saved := make(map[*topo.Link][2]float64, len(links))
	for l := range links {
		saved[l] = l.Cost
	}
	return func() {
		for l, costs := range saved {
			l.Cost = costs
		}
	}
}

// symmetricDifference removes the links shared by both paths: overlap
// between the primary and the transformed-graph secondary path cancels
// out, leaving the two disjoint paths' edge set.
func symmetricDifference(a, b []*topo.Link) []*topo.Link {
	inA := make(map[*topo.Link]bool, len(a))
	for _, l := range a {
		inA[l] = true
	}
	inB := make(map[*topo.Link]bool, len(b))
	for _, l := range b {
		inB[l] = true
	}
	var out []*topo.Link
	for _, l := range a {
		if !inB[l] {
			out = append(out, l)
		}
	}
	for _, l := range b {
		if !inA[l] {
			out = append(out, l)
		}
	}
	return out
}

// flipAlong walks a path from source, applying fn to every link with
// its direction of travel.
func flipAlong(source *topo.Node, links []*topo.Link, fn func(l *topo.Link, dir topo.Direction)) {
	current := source
	for _, l := range links {
		dir := l.DirectionFrom(current)
		fn(l, dir)
		current = l.OtherEnd(current)
	}
}
