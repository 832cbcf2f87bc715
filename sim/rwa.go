package sim

import (
	"fmt"
	"sort"

	"github.com/netforge/netforge/topo"
)

// TransformRWA routes every demand, then builds the wavelength-conflict
// graph: one optical-switch node per traffic demand, and one link per
// pair of demands whose physical paths intersect. Two demands joined in
// the conflict graph cannot share a wavelength, so any proper coloring
// of it is a valid wavelength assignment.
func (e *Engine) TransformRWA() (*topo.Topology, error) {
	e.PathFinder()

	conflict := topo.New()
	traffics := e.T.Links(topo.TrafficDemand)
	for _, demand := range traffics {
		conflict.NodeFactory(demand.Name, topo.OpticalSwitch)
	}
	for i, a := range traffics {
		onPath := make(map[*topo.Link]bool, len(a.PathLinks))
		for _, l := range a.PathLinks {
			onPath[l] = true
		}
		for _, b := range traffics[i+1:] {
			shared := false
			for _, l := range b.PathLinks {
				if onPath[l] {
					shared = true
					break
				}
			}
			if !shared {
				continue
			}
			name := fmt.Sprintf("%s - %s", a.Name, b.Name)
			if _, err := conflict.LinkFactory(topo.OpticalLink, name,
				conflict.Node(a.Name), conflict.Node(b.Name)); err != nil {
				return nil, err
			}
		}
	}
	return conflict, nil
}

// LargestDegreeFirst colors a conflict graph greedily, highest-degree
// node first, assigning each node the lowest color absent from its
// neighbors. It returns the number of colors used: an upper bound on
// the wavelengths the demand set needs.
func LargestDegreeFirst(t *topo.Topology) int {
	nodes := t.NodesOfKind(topo.OpticalSwitch)
	sort.SliceStable(nodes, func(i, j int) bool {
		return len(t.Adjacent(nodes[i], topo.Physical)) < len(t.Adjacent(nodes[j], topo.Physical))
	})

	colors := make(map[*topo.Node]int, len(nodes))
	maxColor := -1
	for i := len(nodes) - 1; i >= 0; i-- {
		n := nodes[i]
		used := make(map[int]bool)
		for _, adj := range t.Adjacent(n, topo.Physical) {
			if c, ok := colors[adj.Neighbor]; ok {
				used[c] = true
			}
		}
		c := 0
		for used[c] {
			c++
		}
		colors[n] = c
		if c > maxColor {
			maxColor = c
		}
	}
	return maxColor + 1
}
