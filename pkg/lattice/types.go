package lattice

import "math"

// Kind selects one of the supported lattice geometries.
type Kind string

const (
	Square     Kind = "square"
	Triangular Kind = "triangular"
	Honeycomb  Kind = "honeycomb"
)

// ParseKind maps a command-line lattice name to a Kind.
func ParseKind(name string) (Kind, error) {
	switch Kind(name) {
	case Square, Triangular, Honeycomb:
		return Kind(name), nil
	default:
		return "", ErrUnknownLattice
	}
}

// Vec is a two-component Cartesian vector.
type Vec [2]float64

func (v Vec) Add(w Vec) Vec      { return Vec{v[0] + w[0], v[1] + w[1]} }
func (v Vec) Sub(w Vec) Vec      { return Vec{v[0] - w[0], v[1] - w[1]} }
func (v Vec) Scale(s float64) Vec { return Vec{s * v[0], s * v[1]} }

// Norm returns the Euclidean length of v.
func (v Vec) Norm() float64 { return math.Hypot(v[0], v[1]) }

// Dot returns the scalar product of v and w.
func (v Vec) Dot(w Vec) float64 { return v[0]*w[0] + v[1]*w[1] }

// Cell is a primitive unit cell: two lattice vectors, the Cartesian unit
// frame used for (m, n) bookkeeping, and the basis site offsets.
type Cell struct {
	Kind  Kind
	A0    float64 // lattice constant
	Alpha float64 // anisotropy |a2|/|a1|
	Theta float64 // obliqueness angle between a1 and a2, radians

	A1, A2 Vec   // primitive vectors
	Basis  []Vec // site offsets inside the cell, first is always the origin
}

// MagneticCell is the magnetic unit cell at flux denominator q: the cell
// extended q-fold along a1, together with its reciprocal vectors and the
// high-symmetry points of the magnetic Brillouin zone.
type MagneticCell struct {
	Bands    int // number of bands, q sites per basis site
	A1, A2   Vec
	B1, B2   Vec
	SymPoints map[string]Vec // fractional coordinates in (B1, B2)
}
