// Package lp expresses network design problems as mixed-integer linear
// programs and hands them to a Solver.
//
// Formulations enumerate the two directed arcs of every physical link in
// link-ID order, so the variable layout of a given topology is stable
// across runs. The matrices are built with gonum's mat package; the
// default SimplexSolver wraps gonum's simplex method with a small
// branch-and-bound loop for the integral formulations.
package lp
