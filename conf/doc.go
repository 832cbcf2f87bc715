// Package conf renders the forwarding state of a device as Cisco-style
// configuration lines: interface addressing, static routes and the
// RIP/OSPF/IS-IS stanzas of a router, VLAN access/trunk assignment of a
// switch. It is an outbound surface: it only reads tables and domain
// membership, never mutates them.
package conf
