// Package topoyaml decodes a YAML topology document (nodes, links with
// per-direction cost and capacity, routing domains, traffic demands)
// into a ready simulation engine. It exists for fixtures and inbound
// tooling; it is not a persistence layer.
package topoyaml
