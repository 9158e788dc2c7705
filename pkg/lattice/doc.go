// Package lattice describes the real-space geometry a tight-binding model
// lives on: primitive vectors, basis sites, reciprocal vectors and the
// hopping terms up to an arbitrary neighbour shell.
//
// Hopping terms are discovered geometrically. Given a list of hopping
// amplitudes in ascending-neighbour order, the package enumerates all
// displacement vectors up to the furthest requested shell, groups them by
// radius, discards backtracking hops, and finally groups the surviving
// terms by their total displacement along the first lattice direction.
// That grouping is exactly what a Harper-style Hamiltonian assembly needs:
// each group contributes one cyclic diagonal stripe.
package lattice
