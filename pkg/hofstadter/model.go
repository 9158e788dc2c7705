package hofstadter

import (
	"github.com/pkg/errors"

	"github.com/bandflux/butterfly/pkg/lattice"
	"github.com/bandflux/butterfly/pkg/spectral"
)

var (
	ErrFluxDenominator = errors.New("flux denominator must be positive")
	ErrNotCoprime      = errors.New("flux fraction p/q must be coprime")
	ErrPeriod          = errors.New("periodicity factor must be positive")
)

// Model is the Hofstadter model at rational flux density p/q.
type Model struct {
	P, Q   int
	Cell   *lattice.Cell
	T      []float64
	Period int

	shells lattice.Shells
	area   float64
}

// Option customises a Model under construction.
type Option func(*Model)

// WithCell selects the lattice cell the model lives on.
func WithCell(cell *lattice.Cell) Option {
	return func(m *Model) { m.Cell = cell }
}

// WithHopping sets the hopping amplitudes in ascending-neighbour order.
func WithHopping(t ...float64) Option {
	return func(m *Model) { m.T = t }
}

// WithPeriod sets the flux periodicity factor. It rescales the Peierls
// phase when the minimal hopping plaquette covers a fraction of the unit
// cell, so the full spectral period is resolved.
func WithPeriod(n int) Option {
	return func(m *Model) { m.Period = n }
}

// NewModel validates the flux fraction and assembles the hopping shells.
func NewModel(p, q int, opts ...Option) (*Model, error) {
	if q < 1 {
		return nil, errors.Wrapf(ErrFluxDenominator, "got %d", q)
	}
	if spectral.Gcd(p, q) != 1 {
		return nil, errors.Wrapf(ErrNotCoprime, "%d/%d", p, q)
	}

	model := &Model{P: p, Q: q, Period: 1}
	for _, opt := range opts {
		opt(model)
	}
	if model.Period < 1 {
		return nil, errors.Wrapf(ErrPeriod, "got %d", model.Period)
	}
	if model.Cell == nil {
		cell, err := lattice.New(lattice.Square)
		if err != nil {
			return nil, err
		}
		model.Cell = cell
	}
	if len(model.T) == 0 {
		model.T = []float64{1}
	}

	shells, err := model.Cell.FindShells(model.T)
	if err != nil {
		return nil, errors.Wrap(err, "unable to find hopping shells")
	}
	model.shells = shells

	area, err := model.Cell.AreaFactor()
	if err != nil {
		return nil, err
	}
	model.area = area

	return model, nil
}

// FluxDensity returns nphi = p/q.
func (m *Model) FluxDensity() float64 {
	return float64(m.P) / float64(m.Q)
}

// Magnetic returns the magnetic unit cell of the model.
func (m *Model) Magnetic() lattice.MagneticCell {
	return m.Cell.Magnetic(m.Q)
}

// Shells exposes the hopping paths the model was assembled from.
func (m *Model) Shells() lattice.Shells {
	return m.shells
}

// Bands returns the number of energy bands.
func (m *Model) Bands() int {
	return m.Q * len(m.Cell.Basis)
}
