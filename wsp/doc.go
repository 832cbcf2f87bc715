// Package wsp searches for link-cost assignments that minimize the
// maximum link-congestion ratio of a routing domain (weight setting).
// The tabu search is a best-effort heuristic: it keeps the best few of
// a random generation, then repeatedly raises the cost of the most
// congested link until a demand reroutes, remembering every assignment
// visited so no solution is evaluated twice.
package wsp
