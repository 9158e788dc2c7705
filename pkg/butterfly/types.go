package butterfly

import (
	"runtime"

	"github.com/bandflux/butterfly/pkg/lattice"
)

// Point is one energy of the butterfly spectrum at flux density p/q.
// Label is the gap-labelling Chern number of the gap directly above the
// band the energy belongs to, which is what the point coloring schemes
// key on.
type Point struct {
	P, Q   int
	Nphi   float64
	Energy float64
	Label  int
}

// Gap is a labelled spectral gap at flux density p/q: the gap below
// filling R/Bands, of the given width, carrying Chern number Chern.
// The Wannier diagram plots Filling against Nphi with the width as
// marker weight.
type Gap struct {
	P, Q    int
	Nphi    float64
	R       int
	Filling float64
	Width   float64
	E0, E1  float64 // top of the band below, bottom of the band above
	Chern   int
}

// Result is the assembled butterfly data for one sweep.
type Result struct {
	Q       int
	Lattice lattice.Kind
	T       []float64
	Period  int
	Bands   int
	Points  []Point
	Gaps    []Gap
}

// Options configures a butterfly sweep.
type Options struct {
	Q            int
	Cell         *lattice.Cell // defaults to the square lattice
	T            []float64     // defaults to nearest-neighbour hopping 1
	Period       int           // defaults to 1
	KSamples     int           // momentum grid points per direction, defaults to 1 (Gamma only)
	GapThreshold float64       // gaps narrower than this are dropped from the Wannier data
	Workers      int           // diagonalization workers, defaults to GOMAXPROCS
	Measure      bool          // record per-stage timing
}

func (o *Options) defaults() {
	if o.Period < 1 {
		o.Period = 1
	}
	if o.KSamples < 1 {
		o.KSamples = 1
	}
	if o.Workers < 1 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if len(o.T) == 0 {
		o.T = []float64{1}
	}
	if o.GapThreshold < 0 {
		o.GapThreshold = 0
	}
}
