// Package routing builds the forwarding state of the topology's routing
// domains: per-router forwarding tables from domain-restricted
// shortest-path computation with equal-cost route merging, per-switch
// switching tables under spanning-tree link exclusions, and per-router
// ARP tables from the IP/MAC bindings of each layer-3 segment.
//
// A Domain moves through three build states: unbuilt, topology-resolved
// (edge nodes derived from membership) and tables-built. Membership
// mutation drops it back to unbuilt; path algorithms never create or
// mutate domains.
package routing
