// Package sim drives the engine end to end: it rebuilds the routing,
// switching and ARP tables of every domain, replays each traffic demand
// hop by hop through those tables (the RFT walk, splitting throughput
// across equal-cost routes), and dimensions the physical links against
// every single-link failure scenario.
//
// The Engine is single-threaded: a call runs to completion before the
// topology may be touched again.
package sim
