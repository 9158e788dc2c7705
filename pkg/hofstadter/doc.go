// Package hofstadter implements the Hofstadter model
//
//	H = -sum_{<ij>_n} t_n e^{i theta_ij} c_i^dag c_j + h.c.,
//
// a charged particle hopping between nth nearest neighbours of a 2D
// lattice threaded by a uniform magnetic flux. At rational flux density
// nphi = p/q the magnetic unit cell extends q-fold along a1 and the
// Hamiltonian at fixed momentum reduces to a q-by-q Hermitian matrix
// assembled from cyclic diagonal stripes, one per total column
// displacement of the hopping paths.
package hofstadter
