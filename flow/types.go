package flow

import (
	"errors"

	"github.com/netforge/netforge/topo"
)

// ErrNodeNotFound is returned when the source or target is nil or
// unknown to the topology.
var ErrNodeNotFound = errors.New("flow: source or target not found")

// ErrSameEndpoints is returned when source and target are the same
// node: the residual search would augment forever otherwise.
var ErrSameEndpoints = errors.New("flow: source and target must differ")

func validate(t *topo.Topology, source, target *topo.Node) error {
	if source == nil || target == nil ||
		t.Node(source.Name) != source || t.Node(target.Name) != target {
		return ErrNodeNotFound
	}
	if source == target {
		return ErrSameEndpoints
	}
	return nil
}

// residualFrom returns the residual capacity of l in the direction
// leaving n.
func residualFrom(l *topo.Link, n *topo.Node) float64 {
	dir := l.DirectionFrom(n)
	return l.Capacity[dir] - l.Flow[dir]
}

// push sends f units across l leaving n: the forward flow grows and the
// mirrored reverse flow shrinks by the same amount.
func push(l *topo.Link, n *topo.Node, f float64) {
	dir := l.DirectionFrom(n)
	l.Flow[dir] += f
	l.Flow[dir.Reverse()] -= f
}

// outgoing sums the flow leaving the source: the maximum-flow value in
// the final state of any of the algorithms.
func outgoing(t *topo.Topology, source *topo.Node) float64 {
	var total float64
	for _, adj := range t.Adjacent(source, topo.Physical) {
		total += adj.Link.Flow[adj.Link.DirectionFrom(source)]
	}
	return total
}
