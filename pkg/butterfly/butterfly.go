package butterfly

import (
	"context"
	"sort"

	"github.com/pkg/errors"

	"github.com/bandflux/butterfly/pkg/hofstadter"
	"github.com/bandflux/butterfly/pkg/lattice"
	"github.com/bandflux/butterfly/pkg/spectral"
	"github.com/bandflux/butterfly/pkg/sweep"
)

// ErrFluxRange is returned when q leaves no coprime flux density to sweep.
var ErrFluxRange = errors.New("flux denominator must be at least 2")

// slice holds the spectrum of one flux density: band edges over the
// sampled momenta and every raw energy.
type slice struct {
	p, q     int
	energies []float64 // all samples, sorted
	lower    []float64 // per band, min over momenta
	upper    []float64 // per band, max over momenta
}

// Run sweeps every coprime flux density p/q and assembles the butterfly.
func Run(ctx context.Context, opts Options) (*Result, *sweep.Measure, error) {
	if opts.Q < 2 {
		return nil, nil, errors.Wrapf(ErrFluxRange, "got %d", opts.Q)
	}
	opts.defaults()

	if opts.Cell == nil {
		cell, err := lattice.New(lattice.Square)
		if err != nil {
			return nil, nil, err
		}
		opts.Cell = cell
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var swOpts []sweep.Option
	if opts.Measure {
		swOpts = append(swOpts, sweep.WithMeasure())
	}
	sw := sweep.New(runCtx, swOpts...)

	source, err := sweep.AddSource(sw, "flux source", func(ctx context.Context, out chan<- int) error {
		for p := 1; p < opts.Q; p++ {
			if spectral.Gcd(p, opts.Q) != 1 {
				continue
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case out <- p:
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, errors.Wrap(err, "unable to add flux source")
	}

	diag, err := sweep.AddStage(sw, "diagonalize", source, func(ctx context.Context, p int) (slice, error) {
		return diagonalize(p, opts)
	}, sweep.Concurrency[slice](opts.Workers))
	if err != nil {
		return nil, nil, errors.Wrap(err, "unable to add diagonalization stage")
	}

	result := &Result{
		Q:       opts.Q,
		Lattice: opts.Cell.Kind,
		T:       opts.T,
		Period:  opts.Period,
	}
	err = sweep.AddSink(sw, "collect", diag, func(ctx context.Context, sl slice) error {
		collect(result, sl, opts.GapThreshold)
		return nil
	})
	if err != nil {
		return nil, nil, errors.Wrap(err, "unable to add collecting sink")
	}

	if err := sw.Run(); err != nil {
		return nil, nil, errors.Wrap(err, "butterfly sweep failed")
	}

	// the sink sees slices in completion order; keep the output deterministic
	sort.Slice(result.Points, func(i, j int) bool {
		if result.Points[i].P != result.Points[j].P {
			return result.Points[i].P < result.Points[j].P
		}
		return result.Points[i].Energy < result.Points[j].Energy
	})
	sort.Slice(result.Gaps, func(i, j int) bool {
		if result.Gaps[i].P != result.Gaps[j].P {
			return result.Gaps[i].P < result.Gaps[j].P
		}
		return result.Gaps[i].R < result.Gaps[j].R
	})

	return result, sw.Metrics(), nil
}

// diagonalize computes the spectrum of one flux density over the sampled
// momentum grid and reduces it to per-band edges.
func diagonalize(p int, opts Options) (slice, error) {
	model, err := hofstadter.NewModel(p, opts.Q,
		hofstadter.WithCell(opts.Cell),
		hofstadter.WithHopping(opts.T...),
		hofstadter.WithPeriod(opts.Period),
	)
	if err != nil {
		return slice{}, errors.Wrapf(err, "unable to build model at %d/%d", p, opts.Q)
	}

	cell := model.Magnetic()
	bands := model.Bands()

	sl := slice{
		p:     p,
		q:     opts.Q,
		lower: make([]float64, bands),
		upper: make([]float64, bands),
	}
	first := true
	for ix := 0; ix < opts.KSamples; ix++ {
		for iy := 0; iy < opts.KSamples; iy++ {
			fx := float64(ix) / float64(opts.KSamples)
			fy := float64(iy) / float64(opts.KSamples)
			k := cell.B1.Scale(fx).Add(cell.B2.Scale(fy))

			energies, err := model.Energies(k)
			if err != nil {
				return slice{}, errors.Wrapf(err, "unable to diagonalize at %d/%d", p, opts.Q)
			}
			sl.energies = append(sl.energies, energies...)
			for b, e := range energies {
				if first || e < sl.lower[b] {
					sl.lower[b] = e
				}
				if first || e > sl.upper[b] {
					sl.upper[b] = e
				}
			}
			first = false
		}
	}
	sort.Float64s(sl.energies)

	return sl, nil
}

// collect folds one flux slice into the result: labelled points and the
// Wannier gap entries wider than the threshold.
func collect(result *Result, sl slice, gapThreshold float64) {
	bands := len(sl.lower)
	if result.Bands < bands {
		result.Bands = bands
	}
	nphi := float64(sl.p) / float64(sl.q)

	labels := make([]int, bands+1)
	for r := 1; r < bands; r++ {
		_, t, err := spectral.Diophantine(r, sl.p, sl.q)
		if err == nil {
			labels[r] = t
		}
	}

	samplesPerBand := len(sl.energies) / bands
	for i, e := range sl.energies {
		band := i / samplesPerBand
		result.Points = append(result.Points, Point{
			P:      sl.p,
			Q:      sl.q,
			Nphi:   nphi,
			Energy: e,
			Label:  labels[band+1],
		})
	}

	for r := 1; r < bands; r++ {
		width := sl.lower[r] - sl.upper[r-1]
		if width < gapThreshold || width <= 0 {
			continue
		}
		result.Gaps = append(result.Gaps, Gap{
			P:       sl.p,
			Q:       sl.q,
			Nphi:    nphi,
			R:       r,
			Filling: float64(r) / float64(bands),
			Width:   width,
			E0:      sl.upper[r-1],
			E1:      sl.lower[r],
			Chern:   labels[r],
		})
	}
}
