package wsp

import (
	"github.com/netforge/netforge/topo"
)

// Congestion is the most loaded (link, direction) of a link set and its
// traffic/capacity ratio.
type Congestion struct {
	Ratio float64
	Index int
	Link  *topo.Link
	Dir   topo.Direction
}

// NetworkCongestionRatio scans the links for the highest directional
// traffic/capacity ratio. A zero-ratio result with a nil link means no
// link carries traffic.
func NetworkCongestionRatio(links []*topo.Link) Congestion {
	best := Congestion{Index: -1}
	for i, l := range links {
		for _, dir := range [2]topo.Direction{topo.SD, topo.DS} {
			if ratio := l.Traffic[dir] / l.Capacity[dir]; ratio > best.Ratio {
				best = Congestion{Ratio: ratio, Index: i, Link: l, Dir: dir}
			}
		}
	}
	return best
}
