package bandstructure

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bandflux/butterfly/pkg/lattice"
)

func TestComputeRejectsCoarseGrid(t *testing.T) {
	t.Parallel()
	_, err := Compute(context.Background(), Options{P: 1, Q: 3, Samples: 2})
	assert.ErrorIs(t, err, ErrTooFewSamples)
}

func TestComputeThirdFlux(t *testing.T) {
	t.Parallel()
	res, err := Compute(context.Background(), Options{P: 1, Q: 3, Samples: 9})
	require.NoError(t, err)

	require.Len(t, res.Bands, 3)
	require.Len(t, res.Energies, 3)
	assert.Equal(t, 9, res.Samples)

	// all three bands of the 1/3 square model are isolated
	require.Len(t, res.Groups, 3)
	for b, band := range res.Bands {
		assert.Equal(t, b, band.Index)
		assert.Equal(t, b, band.Group)
		assert.Greater(t, band.Width, 0.0)
		assert.Equal(t, band.Width, band.Max-band.Min)
	}
	assert.Greater(t, res.Bands[0].GapAbove, 0.0)
	assert.Greater(t, res.Bands[1].GapAbove, 0.0)
	assert.Equal(t, 0.0, res.Bands[2].GapAbove)

	// gap labelling fixes the Chern numbers to 1, -2, 1
	assert.Equal(t, 1, res.Groups[0].Chern)
	assert.Equal(t, -2, res.Groups[1].Chern)
	assert.Equal(t, 1, res.Groups[2].Chern)
}

func TestComputeFifthFluxCherns(t *testing.T) {
	t.Parallel()
	// at flux 2/5 all five bands are isolated and the gap labelling
	// fixes the band Chern numbers to -2, 3, -2, 3, -2
	res, err := Compute(context.Background(), Options{P: 2, Q: 5, Samples: 16})
	require.NoError(t, err)

	require.Len(t, res.Groups, 5)
	want := []int{-2, 3, -2, 3, -2}
	for g, grp := range res.Groups {
		assert.Equal(t, want[g], grp.Chern, "group %d", g)
	}
}

func TestComputeChernSumVanishes(t *testing.T) {
	t.Parallel()
	tcs := map[string]struct {
		p, q      int
		threshold float64
	}{
		"1/3": {p: 1, q: 3},
		"1/4": {p: 1, q: 4, threshold: 0.5},
		"2/5": {p: 2, q: 5},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			res, err := Compute(context.Background(), Options{P: tc.p, Q: tc.q, Samples: 9, GapThreshold: tc.threshold})
			require.NoError(t, err)

			sum := 0
			for _, grp := range res.Groups {
				sum += grp.Chern
			}
			assert.Zero(t, sum)
		})
	}
}

func TestComputeEvenDenominatorGroups(t *testing.T) {
	t.Parallel()
	// at flux 1/4 the two middle bands touch at zero energy and must be
	// grouped together; the threshold is generous so the coarse grid
	// cannot miss the touching points
	res, err := Compute(context.Background(), Options{P: 1, Q: 4, Samples: 12, GapThreshold: 0.5})
	require.NoError(t, err)

	require.Len(t, res.Bands, 4)
	require.Len(t, res.Groups, 3)
	assert.Equal(t, []int{0}, res.Groups[0].Bands)
	assert.Equal(t, []int{1, 2}, res.Groups[1].Bands)
	assert.Equal(t, []int{3}, res.Groups[2].Bands)

	assert.Equal(t, 1, res.Groups[0].Chern)
	assert.Equal(t, -2, res.Groups[1].Chern)
	assert.Equal(t, 1, res.Groups[2].Chern)
}

func TestComputeBandsOrdered(t *testing.T) {
	t.Parallel()
	res, err := Compute(context.Background(), Options{P: 1, Q: 3, Samples: 9})
	require.NoError(t, err)

	for b := 1; b < len(res.Bands); b++ {
		assert.GreaterOrEqual(t, res.Bands[b].Min, res.Bands[b-1].Max)
	}
	// the square NN spectrum lives inside [-4, 4]
	assert.GreaterOrEqual(t, res.Bands[0].Min, -4.0)
	assert.LessOrEqual(t, res.Bands[len(res.Bands)-1].Max, 4.0)
}

func TestComputeGeometry(t *testing.T) {
	t.Parallel()
	res, err := Compute(context.Background(), Options{P: 1, Q: 3, Samples: 9})
	require.NoError(t, err)

	curv, err := res.BerryCurvatureAt(0, 2, 3, 1)
	require.NoError(t, err)
	assert.False(t, curv != curv, "curvature must not be NaN")

	tensor, err := res.GeomTensorAt(0, 2, 3)
	require.NoError(t, err)
	// the diagonal of the quantum geometric tensor is a real metric
	assert.InDelta(t, 0, imag(tensor[0][0]), 1e-9)
	assert.InDelta(t, 0, imag(tensor[1][1]), 1e-9)
	assert.GreaterOrEqual(t, real(tensor[0][0]), 0.0)
	assert.GreaterOrEqual(t, real(tensor[1][1]), 0.0)

	// plaquettes anchored on the zone edge have no neighbour to link to
	_, err = res.BerryCurvatureAt(0, 8, 8, 1)
	assert.Error(t, err)
	_, err = res.GeomTensorAt(0, 0, 8)
	assert.Error(t, err)
}

func TestComputeHoneycombUnsupported(t *testing.T) {
	t.Parallel()
	cell, err := lattice.New(lattice.Honeycomb)
	require.NoError(t, err)

	_, err = Compute(context.Background(), Options{P: 1, Q: 3, Cell: cell, Samples: 5})
	assert.Error(t, err)
}

func TestCut(t *testing.T) {
	t.Parallel()
	points, err := Cut(context.Background(), Options{P: 1, Q: 3}, 10)
	require.NoError(t, err)

	// four legs of ten samples plus the closing point
	require.Len(t, points, 41)
	assert.Equal(t, "G", points[0].Label)
	assert.Equal(t, "Y", points[10].Label)
	assert.Equal(t, "S", points[20].Label)
	assert.Equal(t, "X", points[30].Label)
	assert.Equal(t, "G", points[40].Label)

	for i, pt := range points {
		require.Len(t, pt.Energies, 3)
		if i > 0 {
			assert.Greater(t, pt.Coord, points[i-1].Coord)
		}
		for b := 1; b < len(pt.Energies); b++ {
			assert.LessOrEqual(t, pt.Energies[b-1], pt.Energies[b])
		}
	}

	// the loop closes where it started
	for b := range points[0].Energies {
		assert.InDelta(t, points[0].Energies[b], points[40].Energies[b], 1e-9)
	}
}

func TestCutTooFewPoints(t *testing.T) {
	t.Parallel()
	_, err := Cut(context.Background(), Options{P: 1, Q: 3}, 1)
	assert.Error(t, err)
}
