// Package topo holds the in-memory network model: nodes, links,
// interfaces, and the undirected multigraph connecting them.
//
// The model is an arena of nodes and links owned by per-category pools
// (physical, layer-2 logical, layer-3 logical, traffic demands), with an
// adjacency index keyed by node ID and link category. Every link present
// in a pool has exactly two mirrored adjacency entries, one per endpoint.
//
// Every link attribute that depends on the direction of travel — cost,
// capacity, flow, traffic, worst-case traffic — is stored twice, once per
// Direction (SD for source→destination, DS for the reverse). Algorithms
// must always read and write through DirectionFrom so the two sets are
// never conflated.
//
// Object creation goes through idempotent factories: creating a node or
// link whose name already exists returns the existing object (updating
// the supplied attributes) instead of duplicating it. Removing a node
// yields its incident links so the caller can cascade the deletion.
//
// Mutation is single-threaded by contract: no Topology method takes a
// lock, and no algorithm in this module may run concurrently with a
// mutation of the same Topology.
package topo
