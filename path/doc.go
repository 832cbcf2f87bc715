// Package path implements the shortest-path algorithms of the routing
// engine: Dijkstra, constrained A* (CSPF), Bellman-Ford with
// negative-cycle detection, Floyd-Warshall, and exhaustive loop-free
// path enumeration.
//
// All algorithms traverse the physical-link adjacency of a
// topo.Topology and read the directional cost of each link in the
// direction of travel. Search scope is controlled by Options: allowed
// and excluded link/node sets, plus ordered waypoint constraints for A*.
//
// Unreachable targets are a routine outcome, not an error: distance is
// +Inf and the returned path is empty. Negative cycles, which invalidate
// shortest-path semantics, are reported distinctly (Bellman-Ford's
// negative flag, Floyd-Warshall's ErrNegativeCycle).
package path
