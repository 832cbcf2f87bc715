package wsp

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"go.uber.org/zap"

	"github.com/netforge/netforge/routing"
	"github.com/netforge/netforge/sim"
	"github.com/netforge/netforge/topo"
)

// Options tunes the tabu search. The zero value selects the defaults.
type Options struct {
	// Generation is the number of random assignments drawn initially
	// (default 10); Keep of them survive into the tabu phase (default 5).
	Generation int
	Keep       int
	// MaxStale stops a candidate after this many non-improving
	// iterations (default 10).
	MaxStale int
	// Rand drives the random assignments; nil selects a fixed seed, so
	// runs are reproducible by default.
	Rand *rand.Rand
}

func (o *Options) normalize() {
	if o.Generation == 0 {
		o.Generation = 10
	}
	if o.Keep == 0 {
		o.Keep = 5
	}
	if o.MaxStale == 0 {
		o.MaxStale = 10
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewSource(1))
	}
}

// Assignment is a candidate cost vector: one integral cost per link and
// direction, indexed 2·link+direction over the domain's link order.
type Assignment []int

func (a Assignment) clone() Assignment {
	out := make(Assignment, len(a))
	copy(out, a)
	return out
}

func (a Assignment) key() string { return fmt.Sprint([]int(a)) }

// apply writes the assignment onto the links' directional costs.
func (a Assignment) apply(links []*topo.Link) {
	for i, cost := range a {
		links[i/2].Cost[topo.Direction(i%2)] = float64(cost)
	}
}

// TabuSearch looks for the cost assignment of the domain's links that
// minimizes the maximum congestion ratio under the engine's demand set.
// It draws a random generation, keeps the best few, and improves each
// by raising the cost of the most congested link/direction (in steps of
// n/5, five tries) until at least one demand reroutes away from it,
// stopping a candidate after MaxStale non-improving rounds. Visited
// assignments go to a tabu list and are never re-evaluated.
//
// The links' original costs are restored before returning; the winning
// assignment and its congestion ratio are returned for the caller to
// apply. Tests should check the improvement trend, not a specific
// optimum.
func TabuSearch(e *sim.Engine, d *routing.Domain, opts Options) (Assignment, float64, error) {
	opts.normalize()
	links := d.MemberLinks()
	n := 2 * len(links)
	if n == 0 {
		return nil, 0, nil
	}

	original := make([][2]float64, len(links))
	for i, l := range links {
		original[i] = l.Cost
	}
	defer func() {
		for i, l := range links {
			l.Cost = original[i]
		}
	}()

	evaluate := func(a Assignment) (Congestion, error) {
		a.apply(links)
		if err := e.Route(); err != nil {
			return Congestion{}, err
		}
		return NetworkCongestionRatio(links), nil
	}

	type candidate struct {
		ncr      float64
		solution Assignment
	}
	var generation []candidate
	for i := 0; i < opts.Generation; i++ {
		solution := make(Assignment, n)
		for j := range solution {
			solution[j] = opts.Rand.Intn(n) + 1
		}
		c, err := evaluate(solution)
		if err != nil {
			return nil, 0, err
		}
		generation = append(generation, candidate{ncr: c.Ratio, solution: solution})
	}
	sort.SliceStable(generation, func(i, j int) bool { return generation[i].ncr < generation[j].ncr })
	if len(generation) > opts.Keep {
		generation = generation[:opts.Keep]
	}

	tabu := make(map[string]bool)
	bestNCR := math.Inf(1)
	var bestSolution Assignment

	for _, cand := range generation {
		solution := cand.solution
		if tabu[solution.key()] {
			continue
		}
		tabu[solution.key()] = true

		stale := 0
		localBest := math.Inf(1)
		for {
			c, err := evaluate(solution)
			if err != nil {
				return nil, 0, err
			}
			if c.Ratio < localBest {
				stale = 0
				localBest = c.Ratio
				if c.Ratio < bestNCR {
					bestNCR = c.Ratio
					bestSolution = solution.clone()
					e.Log.Debug("congestion improved",
						zap.Float64("ncr", bestNCR))
				}
			} else {
				if stale++; stale == opts.MaxStale {
					break
				}
			}
			if c.Link == nil {
				// No traffic anywhere: nothing left to improve.
				break
			}

			// Raise the congested direction's cost until a demand
			// reroutes away from it.
			initial := c.Link.Traffic[c.Dir]
			rerouted := false
			for k := 0; k < 5; k++ {
				solution[2*c.Index+int(c.Dir)] += n / 5
				tabu[solution.key()] = true
				if _, err := evaluate(solution); err != nil {
					return nil, 0, err
				}
				if c.Link.Traffic[c.Dir] != initial {
					rerouted = true
					break
				}
			}
			if !rerouted {
				stale = opts.MaxStale - 1
			}
		}
	}
	return bestSolution, bestNCR, nil
}
