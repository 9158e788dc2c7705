// Package spectral holds the numerical kernels shared by the flux and
// band-structure sweeps: a complex Hermitian eigensolver built on the
// real symmetric embedding, the Fukui link-variable Berry curvature, the
// quantum geometric tensor, and the Diophantine gap labelling that
// assigns a Chern number to every spectral gap of a Hofstadter model.
package spectral
