// Package flow implements maximum-flow computation over the directional
// capacity/flow fields of physical links: Ford-Fulkerson (DFS
// augmentation), Edmonds-Karp (BFS augmentation) and Dinic (level graph
// + blocking flow).
//
// All three algorithms reset every link's flow on entry and share the
// same accounting: pushing f units across a link in one direction adds f
// to that direction's flow and subtracts f from the mirrored reverse
// flow, so residual capacity is always capacity − flow in the direction
// of travel. The maximum flow equals the total flow leaving the source
// in the final state, and the three algorithms agree on it for any
// topology.
package flow
