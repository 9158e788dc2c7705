package hofstadter

import (
	"math"
	"math/cmplx"
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/bandflux/butterfly/pkg/lattice"
	"github.com/bandflux/butterfly/pkg/spectral"
)

// nphiEff is the flux density entering the Peierls phases, including the
// periodicity correction.
func (m *Model) nphiEff() float64 {
	return float64(m.Period) * float64(m.P) / float64(m.Q)
}

// peierls is the phase factor picked up by a hop (dm, dn) starting in
// column c of the magnetic unit cell, in the Landau-like gauge along a2.
func (m *Model) peierls(dm, dn, c int) complex128 {
	phase := 2 * math.Pi * m.nphiEff() * float64(dn) * (float64(c) + float64(dm)/2) / m.area
	return cmplx.Exp(complex(0, phase))
}

// stripeTerm sums the contributions of one shell group to the matrix
// element ending in column c at momentum k.
func (m *Model) stripeTerm(group *lattice.ShellGroup, k lattice.Vec, c int) complex128 {
	var term complex128
	for _, path := range group.Paths {
		contrib := complex(1, 0)
		for _, hop := range path.Hops {
			amp := m.T[hop.Shell-1]
			col := ((c+hop.M0)%m.Q + m.Q) % m.Q
			contrib *= complex(-amp, 0) * m.peierls(hop.DM, hop.DN, col) *
				cmplx.Exp(complex(0, hop.R.Dot(k)))
		}
		term += contrib
	}
	return term
}

// Hamiltonian builds the q-by-q Hermitian matrix of the model at momentum
// k. For the two-site honeycomb basis it is the effective two-step matrix
// whose eigenvalues feed the closed-form energies.
func (m *Model) Hamiltonian(k lattice.Vec) (*mat.CDense, error) {
	if m.Cell.Kind == lattice.Honeycomb {
		return m.honeycombEffective(), nil
	}

	q := m.Q
	h := mat.NewCDense(q, q, nil)

	for gi := range m.shells.Groups {
		group := &m.shells.Groups[gi]
		stripe := group.MTot
		if stripe < 0 {
			continue // negative stripes are the conjugates of positive ones
		}
		if stripe == 0 {
			for row := 0; row < q; row++ {
				h.Set(row, row, h.At(row, row)+m.stripeTerm(group, k, row))
			}
			continue
		}
		for row := 0; row < q; row++ {
			col := (row + stripe) % q
			v := m.stripeTerm(group, k, col)
			h.Set(row, col, h.At(row, col)+v)
			h.Set(col, row, h.At(col, row)+cmplx.Conj(v))
		}
	}

	return h, nil
}

// honeycombEffective is the q-by-q two-step matrix of the honeycomb
// model: squaring the bipartite Hamiltonian folds the two sublattices
// into one, at the price of a constant shift absorbed in Energies.
func (m *Model) honeycombEffective() *mat.CDense {
	q := m.Q
	nphi := m.nphiEff()
	h := mat.NewCDense(q, q, nil)

	diag := func(c int) complex128 {
		return complex(2*math.Cos(4*math.Pi*nphi*(float64(c)-1.0/3.0)), 0)
	}
	offdiag := func(c int) complex128 {
		mag := 2 * math.Cos(2*math.Pi*nphi*(float64(c)+5.0/3.0))
		return complex(mag, 0) * cmplx.Exp(complex(0, -math.Pi*nphi*0.5*(4*float64(c)+4)))
	}

	for c := 0; c < q; c++ {
		h.Set(c, c, diag(c))
	}
	for c := 0; c < q; c++ {
		col := (c + 2) % q
		v := offdiag(c)
		h.Set(c, col, h.At(c, col)+v)
		h.Set(col, c, h.At(col, c)+cmplx.Conj(v))
	}

	return h
}

// Energies returns the sorted energy spectrum of the model at momentum k.
func (m *Model) Energies(k lattice.Vec) ([]float64, error) {
	h, err := m.Hamiltonian(k)
	if err != nil {
		return nil, err
	}

	vals, err := spectral.HermEig(h)
	if err != nil {
		return nil, errors.Wrap(err, "unable to diagonalize Hamiltonian")
	}

	if m.Cell.Kind != lattice.Honeycomb {
		return vals, nil
	}

	// unfold the squared bipartite spectrum: E = +-|t| sqrt(3 + lambda)
	amp := math.Abs(m.T[0])
	energies := make([]float64, 0, 2*len(vals))
	for _, lam := range vals {
		radicand := 3 + lam
		if radicand < 0 {
			radicand = 0
		}
		root := amp * math.Sqrt(radicand)
		energies = append(energies, root, -root)
	}
	sort.Float64s(energies)

	return energies, nil
}

// EnergiesAndVectors returns the sorted spectrum together with the
// eigenvectors as matrix columns. Only single-site bases carry usable
// eigenvectors; the honeycomb closed form discards them.
func (m *Model) EnergiesAndVectors(k lattice.Vec) ([]float64, *mat.CDense, error) {
	if m.Cell.Kind == lattice.Honeycomb {
		return nil, nil, errors.New("eigenvectors are not available for the honeycomb closed form")
	}

	h, err := m.Hamiltonian(k)
	if err != nil {
		return nil, nil, err
	}

	vals, vecs, err := spectral.HermEigVec(h)
	if err != nil {
		return nil, nil, errors.Wrap(err, "unable to diagonalize Hamiltonian")
	}

	return vals, vecs, nil
}
