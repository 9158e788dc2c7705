package spectral

import (
	"math"
	"math/cmplx"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrNotSquare    = errors.New("matrix must be square")
	ErrNotHermitian = errors.New("matrix must be Hermitian")
	ErrEigFailed    = errors.New("eigendecomposition did not converge")
)

// hermTol bounds the acceptable asymmetry |h_ij - conj(h_ji)|.
const hermTol = 1e-9

// embed maps the n-by-n complex Hermitian matrix H = A + iB onto the
// 2n-by-2n real symmetric matrix [[A, -B], [B, A]]. Every eigenvalue of H
// appears twice in the embedding; an embedded eigenvector (x; y)
// corresponds to the complex eigenvector x + iy.
func embed(h *mat.CDense) (*mat.SymDense, int, error) {
	rows, cols := h.Dims()
	if rows != cols {
		return nil, 0, ErrNotSquare
	}
	n := rows

	sym := mat.NewSymDense(2*n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			v := h.At(i, j)
			if cmplx.Abs(v-cmplx.Conj(h.At(j, i))) > hermTol {
				return nil, 0, errors.Wrapf(ErrNotHermitian, "at (%d, %d)", i, j)
			}
			sym.SetSym(i, j, real(v))
			sym.SetSym(n+i, n+j, real(v))
		}
		for j := 0; j < n; j++ {
			sym.SetSym(i, n+j, -imag(h.At(i, j)))
		}
	}

	return sym, n, nil
}

// HermEig returns the eigenvalues of the complex Hermitian matrix h in
// ascending order.
func HermEig(h *mat.CDense) ([]float64, error) {
	sym, n, err := embed(h)
	if err != nil {
		return nil, err
	}

	var eig mat.EigenSym
	if !eig.Factorize(sym, false) {
		return nil, ErrEigFailed
	}

	doubled := eig.Values(nil)
	vals := make([]float64, n)
	for i := 0; i < n; i++ {
		// the embedding doubles every eigenvalue; average adjacent pairs
		vals[i] = (doubled[2*i] + doubled[2*i+1]) / 2
	}

	return vals, nil
}

// HermEigVec returns the eigenvalues of h in ascending order together
// with the matching eigenvectors as the columns of a complex matrix.
func HermEigVec(h *mat.CDense) ([]float64, *mat.CDense, error) {
	sym, n, err := embed(h)
	if err != nil {
		return nil, nil, err
	}

	var eig mat.EigenSym
	if !eig.Factorize(sym, true) {
		return nil, nil, ErrEigFailed
	}

	doubled := eig.Values(nil)
	var embedded mat.Dense
	eig.VectorsTo(&embedded)

	vals := make([]float64, n)
	vecs := mat.NewCDense(n, n, nil)
	for i := 0; i < n; i++ {
		vals[i] = (doubled[2*i] + doubled[2*i+1]) / 2

		// reassemble the complex eigenvector from one member of the pair
		norm := 0.0
		col := make([]complex128, n)
		for r := 0; r < n; r++ {
			col[r] = complex(embedded.At(r, 2*i), embedded.At(n+r, 2*i))
			norm += real(col[r])*real(col[r]) + imag(col[r])*imag(col[r])
		}
		scale := complex(1/math.Sqrt(norm), 0)
		for r := 0; r < n; r++ {
			vecs.Set(r, i, col[r]*scale)
		}
	}

	return vals, vecs, nil
}
