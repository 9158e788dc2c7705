// Package plot renders computed spectra to SVG: the butterfly scatter,
// the Wannier diagram and band-structure cuts. Rendering is template
// driven; scaling, palettes and coloring schemes are resolved in Go and
// the template only serialises ready-made shapes. Files are written
// atomically.
package plot
