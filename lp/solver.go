package lp

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	convexlp "gonum.org/v1/gonum/optimize/convex/lp"
)

// Problem is one mixed-integer linear program in general form:
//
//	minimize  C·x
//	s.t.      G·x ≤ H
//	          A·x = B
//	          x   ≥ 0
//
// G and A may be nil when the corresponding constraint block is empty.
// Integer lists the indices of variables restricted to integral values.
type Problem struct {
	C       []float64
	G       *mat.Dense
	H       []float64
	A       *mat.Dense
	B       []float64
	Integer []int
}

// Solver is the optimization backend a formulation hands its Problem to.
// Solve returns the optimal point and objective value, or ErrInfeasible /
// ErrUnbounded when the problem has no optimum.
type Solver interface {
	Solve(p *Problem) (x []float64, obj float64, err error)
}

// SimplexSolver solves the LP relaxation with gonum's simplex method and
// enforces integrality by depth-first branch and bound: it branches on
// the first fractional integer variable, adding a floor bound on one
// side and a ceiling bound on the other, and prunes subtrees whose
// relaxation cannot beat the incumbent.
type SimplexSolver struct {
	// Tol is the simplex tolerance; zero selects gonum's default.
	Tol float64
	// IntTol decides when a value counts as integral; zero means 1e-6.
	IntTol float64
}

// Solve implements Solver.
func (s *SimplexSolver) Solve(p *Problem) ([]float64, float64, error) {
	if len(p.Integer) == 0 {
		return s.relax(p)
	}
	intTol := s.IntTol
	if intTol == 0 {
		intTol = 1e-6
	}
	best := math.Inf(1)
	var bestX []float64
	if err := s.branch(p, intTol, &bestX, &best); err != nil {
		return nil, 0, err
	}
	if bestX == nil {
		return nil, 0, ErrInfeasible
	}
	return bestX, best, nil
}

// branch explores one branch-and-bound subtree rooted at p.
func (s *SimplexSolver) branch(p *Problem, intTol float64, bestX *[]float64, best *float64) error {
	x, obj, err := s.relax(p)
	switch {
	case errors.Is(err, ErrInfeasible):
		return nil
	case err != nil:
		return err
	}
	if obj >= *best-intTol {
		return nil
	}
	frac := -1
	for _, i := range p.Integer {
		if math.Abs(x[i]-math.Round(x[i])) > intTol {
			frac = i
			break
		}
	}
	if frac < 0 {
		*best = obj
		*bestX = x
		return nil
	}
	down := withBound(p, frac, 1, math.Floor(x[frac]))
	if err := s.branch(down, intTol, bestX, best); err != nil {
		return err
	}
	up := withBound(p, frac, -1, -math.Ceil(x[frac]))
	return s.branch(up, intTol, bestX, best)
}

// withBound returns a copy of p with one inequality row appended:
// coef·x[i] ≤ rhs.
func withBound(p *Problem, i int, coef, rhs float64) *Problem {
	nVar := len(p.C)
	nIneq := len(p.H)
	g := mat.NewDense(nIneq+1, nVar, nil)
	for r := 0; r < nIneq; r++ {
		for c := 0; c < nVar; c++ {
			g.Set(r, c, p.G.At(r, c))
		}
	}
	g.Set(nIneq, i, coef)
	h := make([]float64, nIneq+1)
	copy(h, p.H)
	h[nIneq] = rhs
	return &Problem{C: p.C, G: g, H: h, A: p.A, B: p.B, Integer: p.Integer}
}

// relax solves the LP relaxation of p, ignoring integrality.
func (s *SimplexSolver) relax(p *Problem) ([]float64, float64, error) {
	c, a, b := standardForm(p)
	obj, x, err := convexlp.Simplex(c, a, b, s.Tol, nil)
	switch {
	case errors.Is(err, convexlp.ErrInfeasible):
		return nil, 0, ErrInfeasible
	case errors.Is(err, convexlp.ErrUnbounded):
		return nil, 0, ErrUnbounded
	case err != nil:
		return nil, 0, fmt.Errorf("lp: simplex: %w", err)
	}
	return x[:len(p.C)], obj, nil
}

// standardForm converts p to equality standard form by adding one slack
// variable per inequality row:
//
//	minimize [C 0]·y   s.t.  [G I; A 0]·y = [H; B],  y ≥ 0
func standardForm(p *Problem) (c []float64, a *mat.Dense, b []float64) {
	nVar := len(p.C)
	nIneq := len(p.H)
	nEq := len(p.B)

	c = make([]float64, nVar+nIneq)
	copy(c, p.C)

	a = mat.NewDense(nIneq+nEq, nVar+nIneq, nil)
	for r := 0; r < nIneq; r++ {
		for j := 0; j < nVar; j++ {
			a.Set(r, j, p.G.At(r, j))
		}
		a.Set(r, nVar+r, 1)
	}
	for r := 0; r < nEq; r++ {
		for j := 0; j < nVar; j++ {
			a.Set(nIneq+r, j, p.A.At(r, j))
		}
	}

	b = make([]float64, 0, nIneq+nEq)
	b = append(b, p.H...)
	b = append(b, p.B...)
	return c, a, b
}
