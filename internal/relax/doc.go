// Package relax implements point relaxation for two-dimensional elliptic
// problems on a uniform square grid.
//
// A single kernel covers Laplace's equation with a fixed border, Poisson's
// equation with an explicit fixed mask and a source term, and the masked
// Laplace problems used for stream functions around obstacles:
//
//   - [Fixed]: predicate selecting positions the sweep must never update
//   - [Config]: relaxation factor, tolerance, sweep cap, traversal, samples
//   - [Solver]: Gauss-Seidel iteration with successive over-relaxation
//   - [History]: per-sweep values at selected sample points
//
// # Example
//
//	psi := relax.NewGrid(25)
//	src := relax.NewGrid(25)
//	src.Set(12, 12, 100)
//	res, err := relax.Solve(psi, relax.BorderMask(25), src, relax.PoissonConfig(25))
//
// # Traversal
//
// Gauss-Seidel reads neighbours that may already have been updated in the
// same sweep, so the visiting order changes the numeric trajectory (not the
// converged field). [Descending] and [Ascending] are sequential; [RedBlack]
// updates a checkerboard colour at a time and spreads each colour across
// goroutines.
//
// The outer ring of the grid is never written, whatever the predicate says.
package relax
