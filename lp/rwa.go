package lp

import (
	"gonum.org/v1/gonum/mat"

	"github.com/netforge/netforge/topo"
)

// WavelengthAssignment assigns one wavelength index to each routed
// traffic demand so that demands sharing a fiber never share a
// wavelength, minimizing the number of distinct wavelengths in use. The
// demands must already carry their physical path in PathLinks. It
// returns the per-demand assignment and the wavelength count.
//
// Variables: a(p,λ) selects wavelength λ for demand p, y(λ) marks a
// wavelength as used. Each demand picks exactly one wavelength,
// conflicting demands exclude each other per wavelength, and a(p,λ) is
// dominated by y(λ). All variables are binary.
func WavelengthAssignment(traffics []*topo.Link, s Solver) (map[*topo.Link]int, int, error) {
	nP := len(traffics)
	if nP == 0 {
		return map[*topo.Link]int{}, 0, nil
	}
	nL := nP // worst case, one wavelength per demand
	nVar := nP*nL + nL
	aVar := func(p, l int) int { return p*nL + l }
	yVar := func(l int) int { return nP*nL + l }

	c := make([]float64, nVar)
	for l := 0; l < nL; l++ {
		c[yVar(l)] = 1
	}

	// Demands conflict when their physical paths intersect.
	var conflicts [][2]int
	for p := 0; p < nP; p++ {
		onPath := make(map[*topo.Link]bool, len(traffics[p].PathLinks))
		for _, pl := range traffics[p].PathLinks {
			onPath[pl] = true
		}
		for q := p + 1; q < nP; q++ {
			for _, pl := range traffics[q].PathLinks {
				if onPath[pl] {
					conflicts = append(conflicts, [2]int{p, q})
					break
				}
			}
		}
	}

	nIneq := len(conflicts)*nL + nP*nL + nL
	g := mat.NewDense(nIneq, nVar, nil)
	h := make([]float64, nIneq)
	row := 0
	for _, pq := range conflicts {
		for l := 0; l < nL; l++ {
			g.Set(row, aVar(pq[0], l), 1)
			g.Set(row, aVar(pq[1], l), 1)
			h[row] = 1
			row++
		}
	}
	for p := 0; p < nP; p++ {
		for l := 0; l < nL; l++ {
			g.Set(row, aVar(p, l), 1)
			g.Set(row, yVar(l), -1)
			h[row] = 0
			row++
		}
	}
	for l := 0; l < nL; l++ {
		g.Set(row, yVar(l), 1)
		h[row] = 1
		row++
	}

	a := mat.NewDense(nP, nVar, nil)
	b := make([]float64, nP)
	for p := 0; p < nP; p++ {
		for l := 0; l < nL; l++ {
			a.Set(p, aVar(p, l), 1)
		}
		b[p] = 1
	}

	integer := make([]int, nVar)
	for i := range integer {
		integer[i] = i
	}

	x, obj, err := s.Solve(&Problem{C: c, G: g, H: h, A: a, B: b, Integer: integer})
	if err != nil {
		return nil, 0, err
	}
	assign := make(map[*topo.Link]int, nP)
	for p := 0; p < nP; p++ {
		for l := 0; l < nL; l++ {
			if x[aVar(p, l)] > 0.5 {
				assign[traffics[p]] = l
				break
			}
		}
	}
	return assign, int(obj + 0.5), nil
}
