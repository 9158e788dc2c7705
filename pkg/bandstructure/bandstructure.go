package bandstructure

import (
	"context"
	"math"
	"runtime"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/bandflux/butterfly/pkg/hofstadter"
	"github.com/bandflux/butterfly/pkg/lattice"
	"github.com/bandflux/butterfly/pkg/spectral"
)

// ErrTooFewSamples is returned when the momentum grid is too coarse.
var ErrTooFewSamples = errors.New("momentum grid needs at least 3 samples per direction")

// Options configures a band-structure computation.
type Options struct {
	P, Q         int
	Cell         *lattice.Cell // defaults to the square lattice
	T            []float64     // defaults to nearest-neighbour hopping 1
	Period       int           // defaults to 1
	Samples      int           // grid points per direction, defaults to 101
	GapThreshold float64       // bands closer than this anywhere are grouped, defaults to 0.01
	Workers      int           // defaults to GOMAXPROCS
}

// Band summarises one energy band.
type Band struct {
	Index    int
	Min, Max float64
	Width    float64
	GapAbove float64 // energy gap to the next band, 0 for the top band
	Group    int     // index of the touching-band group
}

// Group is a set of touching bands sharing a Chern number.
type Group struct {
	Bands []int
	Chern int
}

// Result holds the computed band structure.
type Result struct {
	P, Q    int
	Samples int
	// Energies[b][ix][iy] is the energy of band b at grid point (ix, iy),
	// with fractional momenta ix/(Samples-1) and iy/(Samples-1). The grid
	// includes both zone edges, so the last row and column repeat the
	// first up to the magnetic gauge.
	Energies [][][]float64
	Bands    []Band
	Groups   []Group

	vectors [][]*mat.CDense
}

func (o *Options) defaults() error {
	if o.Period < 1 {
		o.Period = 1
	}
	if o.Samples == 0 {
		o.Samples = 101
	}
	if o.Samples < 3 {
		return errors.Wrapf(ErrTooFewSamples, "got %d", o.Samples)
	}
	if o.GapThreshold == 0 {
		o.GapThreshold = 0.01
	}
	if o.Workers < 1 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if len(o.T) == 0 {
		o.T = []float64{1}
	}
	if o.Cell == nil {
		cell, err := lattice.New(lattice.Square)
		if err != nil {
			return err
		}
		o.Cell = cell
	}
	return nil
}

// Compute diagonalizes the model over the momentum grid, with grid rows
// spread across workers.
func Compute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.defaults(); err != nil {
		return nil, err
	}

	model, err := hofstadter.NewModel(opts.P, opts.Q,
		hofstadter.WithCell(opts.Cell),
		hofstadter.WithHopping(opts.T...),
		hofstadter.WithPeriod(opts.Period),
	)
	if err != nil {
		return nil, errors.Wrap(err, "unable to build model")
	}

	cell := model.Magnetic()
	bands := model.Bands()
	samples := opts.Samples

	result := &Result{
		P:       opts.P,
		Q:       opts.Q,
		Samples: samples,
		vectors: make([][]*mat.CDense, samples),
	}
	result.Energies = make([][][]float64, bands)
	for b := range result.Energies {
		result.Energies[b] = make([][]float64, samples)
		for ix := range result.Energies[b] {
			result.Energies[b][ix] = make([]float64, samples)
		}
	}
	for ix := range result.vectors {
		result.vectors[ix] = make([]*mat.CDense, samples)
	}

	errGrp, _ := errgroup.WithContext(ctx)
	errGrp.SetLimit(opts.Workers)
	for ix := 0; ix < samples; ix++ {
		ix := ix
		errGrp.Go(func() error {
			for iy := 0; iy < samples; iy++ {
				fx := float64(ix) / float64(samples-1)
				fy := float64(iy) / float64(samples-1)
				k := cell.B1.Scale(fx).Add(cell.B2.Scale(fy))

				vals, vecs, err := model.EnergiesAndVectors(k)
				if err != nil {
					return errors.Wrapf(err, "unable to diagonalize at grid point (%d, %d)", ix, iy)
				}
				for b := 0; b < bands; b++ {
					result.Energies[b][ix][iy] = vals[b]
				}
				result.vectors[ix][iy] = vecs
			}
			return nil
		})
	}
	if err := errGrp.Wait(); err != nil {
		return nil, err
	}

	result.summarise(opts.GapThreshold)
	if err := result.chernNumbers(); err != nil {
		return nil, errors.Wrap(err, "unable to compute Chern numbers")
	}

	return result, nil
}

// summarise extracts band edges and groups touching bands: two adjacent
// bands belong to one group when their separation drops below the gap
// threshold anywhere in the zone.
func (r *Result) summarise(gapThreshold float64) {
	bands := len(r.Energies)
	r.Bands = make([]Band, bands)

	for b := 0; b < bands; b++ {
		min, max := math.Inf(1), math.Inf(-1)
		for ix := range r.Energies[b] {
			for _, e := range r.Energies[b][ix] {
				if e < min {
					min = e
				}
				if e > max {
					max = e
				}
			}
		}
		r.Bands[b] = Band{Index: b, Min: min, Max: max, Width: max - min}
	}

	minSep := func(b int) float64 {
		sep := math.Inf(1)
		for ix := range r.Energies[b] {
			for iy := range r.Energies[b][ix] {
				d := r.Energies[b+1][ix][iy] - r.Energies[b][ix][iy]
				if d < sep {
					sep = d
				}
			}
		}
		return sep
	}

	group := 0
	for b := 0; b < bands; b++ {
		r.Bands[b].Group = group
		if b == bands-1 {
			break
		}
		sep := minSep(b)
		r.Bands[b].GapAbove = math.Max(0, r.Bands[b+1].Min-r.Bands[b].Max)
		if sep >= gapThreshold {
			group++
		}
	}

	r.Groups = make([]Group, group+1)
	for b := 0; b < bands; b++ {
		g := r.Bands[b].Group
		r.Groups[g].Bands = append(r.Groups[g].Bands, b)
	}
}

// chernNumbers sums the Fukui curvature of every band group over the
// zone. The grid includes both zone edges, so the boundary links use the
// diagonalized edge vectors directly; the Bloch gauge is not periodic
// under k -> k+B and wrapping the grid instead would trivialize every
// group.
func (r *Result) chernNumbers() error {
	grid := func(ix, iy int) *mat.CDense {
		return r.vectors[ix][iy]
	}

	for gi := range r.Groups {
		grp := &r.Groups[gi]
		first := grp.Bands[0]
		size := len(grp.Bands)

		sum := 0.0
		for ix := 0; ix < r.Samples-1; ix++ {
			for iy := 0; iy < r.Samples-1; iy++ {
				curv, err := spectral.BerryCurvature(grid, first, ix, iy, size)
				if err != nil {
					return err
				}
				sum += curv
			}
		}
		grp.Chern = int(math.Round(sum / (2 * math.Pi)))
	}

	return nil
}

// BerryCurvatureAt exposes the curvature of a single plaquette, mainly
// for inspecting band geometry. The plaquette corner must leave a margin
// of one grid step to the zone edge.
func (r *Result) BerryCurvatureAt(band, ix, iy, group int) (float64, error) {
	if err := r.checkMargin(ix, iy); err != nil {
		return 0, err
	}
	grid := func(x, y int) *mat.CDense {
		return r.vectors[x][y]
	}
	return spectral.BerryCurvature(grid, band, ix, iy, group)
}

// GeomTensorAt exposes the quantum geometric tensor at a grid point.
func (r *Result) GeomTensorAt(band, ix, iy int) ([2][2]complex128, error) {
	if err := r.checkMargin(ix, iy); err != nil {
		return [2][2]complex128{}, err
	}
	grid := func(x, y int) *mat.CDense {
		return r.vectors[x][y]
	}
	return spectral.GeomTensor(grid, band, ix, iy)
}

func (r *Result) checkMargin(ix, iy int) error {
	if ix < 0 || iy < 0 || ix > r.Samples-2 || iy > r.Samples-2 {
		return errors.Errorf("grid point (%d, %d) leaves no margin on a %d-sample grid", ix, iy, r.Samples)
	}
	return nil
}
