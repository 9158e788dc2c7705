// Package butterfly computes Hofstadter butterfly spectra: for a fixed
// flux denominator q, the energy spectrum of the model is evaluated at
// every coprime flux density p/q and assembled into a cloud of
// (flux, energy) points together with the labelled spectral gaps that
// make up the Wannier diagram. Diagonalizations for different numerators
// are independent, so the sweep fans them out over a worker stage.
package butterfly
