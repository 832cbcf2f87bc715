package lp

import "errors"

// Sentinel errors reported by solvers.
var (
	// ErrInfeasible indicates no point satisfies the constraints.
	ErrInfeasible = errors.New("lp: problem is infeasible")
	// ErrUnbounded indicates the objective decreases without limit.
	ErrUnbounded = errors.New("lp: problem is unbounded")
	// ErrBadEndpoints indicates a formulation called with nil or equal
	// source and target nodes.
	ErrBadEndpoints = errors.New("lp: formulation requires two distinct endpoints")
)
