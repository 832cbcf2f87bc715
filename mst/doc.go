// Package mst computes minimum spanning trees over a node subset of the
// topology with Kruskal's algorithm and a union-find over node IDs.
package mst
