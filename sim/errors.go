package sim

import "errors"

// Sentinel errors of the forwarding simulator.
var (
	// ErrNoRoute indicates a forwarding lookup found neither a specific
	// nor a default entry, or every matching route is failed: a
	// table-construction gap, distinct from plain graph disconnection.
	ErrNoRoute = errors.New("sim: no route to destination")
	// ErrUnresolvedAddress indicates a demand whose endpoints carry no
	// resolved IP addresses.
	ErrUnresolvedAddress = errors.New("sim: demand endpoints carry no resolved addresses")
)
