package lattice

import (
	"math"

	"github.com/pkg/errors"
)

// Option customises a Cell under construction.
type Option func(*Cell)

// WithConstant sets the lattice constant a0.
func WithConstant(a0 float64) Option {
	return func(c *Cell) { c.A0 = a0 }
}

// WithAnisotropy sets the length ratio |a2|/|a1|.
func WithAnisotropy(alpha float64) Option {
	return func(c *Cell) { c.Alpha = alpha }
}

// WithObliqueness sets the angle between the primitive vectors to
// pi*num/den. It only affects oblique (triangular) cells.
func WithObliqueness(num, den int) Option {
	return func(c *Cell) { c.Theta = math.Pi * float64(num) / float64(den) }
}

// New constructs the primitive cell for the given lattice kind.
func New(kind Kind, opts ...Option) (*Cell, error) {
	cell := &Cell{
		Kind:  kind,
		A0:    1,
		Alpha: 1,
	}
	switch kind {
	case Square:
		cell.Theta = math.Pi / 2
	case Triangular, Honeycomb:
		cell.Theta = math.Pi / 3
	default:
		return nil, errors.Wrapf(ErrUnknownLattice, "%q", kind)
	}
	for _, opt := range opts {
		opt(cell)
	}
	if cell.Theta <= 0 || cell.Theta >= math.Pi {
		return nil, ErrBadAngle
	}

	cell.A1 = Vec{cell.A0, 0}
	cell.A2 = Vec{cell.A0 * cell.Alpha * math.Cos(cell.Theta), cell.A0 * cell.Alpha * math.Sin(cell.Theta)}

	cell.Basis = []Vec{{0, 0}}
	if kind == Honeycomb {
		// second sublattice site at (a1+a2)/3
		cell.Basis = append(cell.Basis, cell.A1.Add(cell.A2).Scale(1.0/3.0))
	}

	return cell, nil
}

// cart returns the Cartesian unit frame used for (m, n) bookkeeping,
// scaled by the lattice constant.
func (c *Cell) cart() (Vec, Vec) {
	return Vec{c.A0, 0}, Vec{0, c.A0 * c.Alpha * math.Sin(c.Theta)}
}

// Magnetic returns the magnetic unit cell at flux denominator q, the
// primitive cell extended q-fold along a1.
func (c *Cell) Magnetic(q int) MagneticCell {
	a1 := c.A1.Scale(float64(q))
	a2 := c.A2

	// general 2D reciprocal vectors: b_i . a_j = 2 pi delta_ij
	det := a1[0]*a2[1] - a1[1]*a2[0]
	b1 := Vec{2 * math.Pi * a2[1] / det, -2 * math.Pi * a2[0] / det}
	b2 := Vec{-2 * math.Pi * a1[1] / det, 2 * math.Pi * a1[0] / det}

	return MagneticCell{
		Bands: q * len(c.Basis),
		A1:    a1,
		A2:    a2,
		B1:    b1,
		B2:    b2,
		SymPoints: map[string]Vec{
			"G": {0, 0},
			"Y": {0, 0.5},
			"S": {0.5, 0.5},
			"X": {0.5, 0},
		},
	}
}

// AreaFactor is the ratio of the unit-cell area to the minimal plaquette
// area enclosed by the shortest hopping loops. It enters the Peierls
// phase denominator. A single-site basis tiles the cell with unit
// plaquettes; the two-site honeycomb basis encloses a third of the cell
// per plaquette pair.
func (c *Cell) AreaFactor() (float64, error) {
	switch len(c.Basis) {
	case 1:
		return 1, nil
	case 2:
		return 3, nil
	default:
		return 0, errors.Errorf("area factor for a %d-site basis is not implemented", len(c.Basis))
	}
}
