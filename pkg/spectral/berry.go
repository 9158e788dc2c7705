package spectral

import (
	"math"
	"math/cmplx"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// VectorGrid exposes the eigenvector matrix at a discretized momentum
// point. Column b of the returned matrix is the eigenvector of band b.
type VectorGrid func(ix, iy int) *mat.CDense

// Principal returns the principal branch of z, -pi < Im(z) <= pi.
func Principal(z complex128) complex128 {
	re, im := real(z), imag(z)
	switch {
	case im <= -math.Pi:
		im = math.Pi - math.Mod(math.Abs(im+math.Pi), 2*math.Pi)
	case im > math.Pi:
		im = -math.Pi + math.Mod(math.Abs(im+math.Pi), 2*math.Pi)
	}
	return complex(re, im)
}

// inner is the Hermitian inner product of column a of u with column b of v.
func inner(u *mat.CDense, a int, v *mat.CDense, b int) complex128 {
	rows, _ := u.Dims()
	var sum complex128
	for r := 0; r < rows; r++ {
		sum += cmplx.Conj(u.At(r, a)) * v.At(r, b)
	}
	return sum
}

// linkVar computes the U(1) link variable between the band group at
// (ix, iy) and the same group one grid step along direction dir (1 for x,
// 2 for y): the determinant of the group-size overlap matrix.
func linkVar(grid VectorGrid, dir, band, ix, iy, group int) (complex128, error) {
	here := grid(ix, iy)
	var there *mat.CDense
	switch dir {
	case 1:
		there = grid(ix+1, iy)
	case 2:
		there = grid(ix, iy+1)
	default:
		return 0, errors.Errorf("link variable direction must be 1 or 2, got %d", dir)
	}

	link := make([][]complex128, group)
	for i := 0; i < group; i++ {
		link[i] = make([]complex128, group)
		for j := 0; j < group; j++ {
			link[i][j] = inner(here, band+i, there, band+j)
		}
	}

	return det(link), nil
}

// det computes the determinant by Laplace expansion. Band groups are tiny,
// so the cost is irrelevant.
func det(m [][]complex128) complex128 {
	n := len(m)
	switch n {
	case 1:
		return m[0][0]
	case 2:
		return m[0][0]*m[1][1] - m[0][1]*m[1][0]
	}
	var sum complex128
	sign := complex(1, 0)
	for c := 0; c < n; c++ {
		minor := make([][]complex128, n-1)
		for r := 1; r < n; r++ {
			row := make([]complex128, 0, n-1)
			row = append(row, m[r][:c]...)
			row = append(row, m[r][c+1:]...)
			minor[r-1] = row
		}
		sum += sign * m[0][c] * det(minor)
		sign = -sign
	}
	return sum
}

// BerryCurvature computes the Berry curvature of the band group starting
// at band around the grid plaquette anchored at (ix, iy), using the Fukui
// link-variable formula. The grid must extend at least two steps beyond
// (ix, iy) in both directions.
func BerryCurvature(grid VectorGrid, band, ix, iy, group int) (float64, error) {
	if group < 1 {
		return 0, errors.Errorf("band group size must be positive, got %d", group)
	}

	u1, err := linkVar(grid, 1, band, ix, iy, group)
	if err != nil {
		return 0, err
	}
	u2, err := linkVar(grid, 2, band, ix+1, iy, group)
	if err != nil {
		return 0, err
	}
	u3, err := linkVar(grid, 1, band, ix, iy+1, group)
	if err != nil {
		return 0, err
	}
	u4, err := linkVar(grid, 2, band, ix, iy, group)
	if err != nil {
		return 0, err
	}

	return -imag(cmplx.Log(u1 * u2 / u3 / u4)), nil
}

// GeomTensor computes the quantum geometric tensor of a single band at the
// grid point (ix, iy). The Berry curvature is -2 Im of the off-diagonal
// component, and the real part is the quantum metric.
func GeomTensor(grid VectorGrid, band, ix, iy int) ([2][2]complex128, error) {
	v0 := grid(ix, iy)
	v1 := grid(ix+1, iy)
	v2 := grid(ix, iy+1)
	if v0 == nil || v1 == nil || v2 == nil {
		return [2][2]complex128{}, errors.New("geometric tensor needs a grid margin of one step")
	}

	shifted := [2]*mat.CDense{v1, v2}
	var tensor [2][2]complex128
	for mu := 0; mu < 2; mu++ {
		for nu := 0; nu < 2; nu++ {
			tensor[mu][nu] = inner(shifted[mu], band, shifted[nu], band) -
				inner(shifted[mu], band, v0, band)*inner(v0, band, shifted[nu], band)
		}
	}

	return tensor, nil
}
