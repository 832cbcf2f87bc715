// Package disjoint implements link-disjoint shortest-pair algorithms:
// a constrained-A* pair search, Bhandari (cost flip + Bellman-Ford) and
// Suurbale (Dijkstra-tree cost transform + A*).
//
// Bhandari and Suurbale transform the shared directional cost fields of
// the topology mid-computation. The mutation is a scoped critical
// section: original costs are snapshotted up front and restored on every
// exit path via defer. No other reader of the cost fields may run
// concurrently with these algorithms.
package disjoint
