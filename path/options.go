package path

import (
	"errors"

	"github.com/netforge/netforge/topo"
)

// Sentinel errors for path searches.
var (
	// ErrNodeNotAllowed indicates a source or target outside the allowed
	// node set: a contract violation, unlike a merely unreachable target.
	ErrNodeNotAllowed = errors.New("path: source or target not in allowed node set")
)

// Options bounds the search scope of every algorithm in this package.
// The zero value searches the whole topology.
type Options struct {
	// Allowed restricts the search to these physical links. Nil means
	// every physical link of the topology.
	Allowed map[*topo.Link]bool
	// AllowedNodes restricts the search to these nodes. Nil means every
	// node of the topology.
	AllowedNodes map[*topo.Node]bool
	// Excluded removes links from the allowed set.
	Excluded map[*topo.Link]bool
	// ExcludedNodes removes nodes from the allowed node set.
	ExcludedNodes map[*topo.Node]bool
	// Constraints is the ordered waypoint sequence A* must visit before
	// the target. Ignored by the other algorithms.
	Constraints []*topo.Node
}

// normalize fills the nil allowed sets from the topology.
func (o *Options) normalize(t *topo.Topology) {
	if o.Allowed == nil {
		o.Allowed = t.PhysicalSet()
	}
	if o.AllowedNodes == nil {
		o.AllowedNodes = t.NodeSet()
	}
}

func (o *Options) linkOK(l *topo.Link) bool {
	return o.Allowed[l] && !o.Excluded[l]
}

func (o *Options) nodeOK(n *topo.Node) bool {
	return o.AllowedNodes[n] && !o.ExcludedNodes[n]
}

// allowedNodeCount is the |allowedNodes| bound of Bellman-Ford's
// relaxation rounds.
func (o *Options) allowedNodeCount() int { return len(o.AllowedNodes) }
