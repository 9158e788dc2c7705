// Package bandstructure computes the band structure of a Hofstadter model
// at fixed flux density: energies and eigenvectors over a discretized
// magnetic Brillouin zone, bands grouped by a gap threshold, the Chern
// number of every band group from the Fukui link-variable curvature, and
// a 2D cut along the high-symmetry path of the zone.
package bandstructure
