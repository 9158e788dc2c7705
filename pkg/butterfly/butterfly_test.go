package butterfly

import (
	"context"
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bandflux/butterfly/pkg/lattice"
)

func TestRunRejectsSmallQ(t *testing.T) {
	t.Parallel()
	_, _, err := Run(context.Background(), Options{Q: 1})
	assert.ErrorIs(t, err, ErrFluxRange)
}

func TestRunSquare(t *testing.T) {
	t.Parallel()
	res, metrics, err := Run(context.Background(), Options{Q: 4, Workers: 2})
	require.NoError(t, err)
	assert.Nil(t, metrics)

	assert.Equal(t, 4, res.Q)
	assert.Equal(t, lattice.Square, res.Lattice)
	assert.Equal(t, []float64{1}, res.T)
	assert.Equal(t, 4, res.Bands)

	// coprime numerators of 4 are 1 and 3, with q energies each at the
	// single sampled momentum
	assert.Len(t, res.Points, 2*4)
	ps := map[int]int{}
	for _, pt := range res.Points {
		ps[pt.P]++
		assert.InDelta(t, float64(pt.P)/4, pt.Nphi, 1e-12)
	}
	assert.Equal(t, map[int]int{1: 4, 3: 4}, ps)
}

func TestRunPointsSorted(t *testing.T) {
	t.Parallel()
	res, _, err := Run(context.Background(), Options{Q: 5})
	require.NoError(t, err)

	sorted := sort.SliceIsSorted(res.Points, func(i, j int) bool {
		if res.Points[i].P != res.Points[j].P {
			return res.Points[i].P < res.Points[j].P
		}
		return res.Points[i].Energy < res.Points[j].Energy
	})
	assert.True(t, sorted)
}

func TestRunFluxReflection(t *testing.T) {
	t.Parallel()
	// the square spectrum at nphi and 1 - nphi is identical
	res, _, err := Run(context.Background(), Options{Q: 5})
	require.NoError(t, err)

	byP := map[int][]float64{}
	for _, pt := range res.Points {
		byP[pt.P] = append(byP[pt.P], pt.Energy)
	}
	require.Len(t, byP[1], 5)
	require.Len(t, byP[4], 5)
	for i := range byP[1] {
		assert.InDelta(t, byP[1][i], byP[4][i], 1e-9)
	}
}

func TestRunGaps(t *testing.T) {
	t.Parallel()
	res, _, err := Run(context.Background(), Options{Q: 5, KSamples: 3})
	require.NoError(t, err)
	require.NotEmpty(t, res.Gaps)

	for _, gap := range res.Gaps {
		assert.Greater(t, gap.Filling, 0.0)
		assert.Less(t, gap.Filling, 1.0)
		assert.Greater(t, gap.Width, 0.0)
		assert.InDelta(t, gap.Width, gap.E1-gap.E0, 1e-12)
		assert.NotZero(t, gap.Chern)
		assert.Equal(t, gap.Chern, mustLabel(t, gap.R, gap.P, gap.Q))
	}
}

func TestRunGapThreshold(t *testing.T) {
	t.Parallel()
	loose, _, err := Run(context.Background(), Options{Q: 5})
	require.NoError(t, err)
	tight, _, err := Run(context.Background(), Options{Q: 5, GapThreshold: math.Inf(1)})
	require.NoError(t, err)

	assert.NotEmpty(t, loose.Gaps)
	assert.Empty(t, tight.Gaps)
}

func TestRunMeasure(t *testing.T) {
	t.Parallel()
	_, metrics, err := Run(context.Background(), Options{Q: 3, Measure: true})
	require.NoError(t, err)
	require.NotNil(t, metrics)

	stages := metrics.Stages()
	require.Contains(t, stages, "diagonalize")
	assert.EqualValues(t, 2, stages["diagonalize"].Count())
}

func TestRunCancelled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := Run(ctx, Options{Q: 199})
	assert.Error(t, err)
}

func TestRunHoneycomb(t *testing.T) {
	t.Parallel()
	cell, err := lattice.New(lattice.Honeycomb)
	require.NoError(t, err)

	res, _, err := Run(context.Background(), Options{Q: 4, Cell: cell})
	require.NoError(t, err)

	assert.Equal(t, lattice.Honeycomb, res.Lattice)
	assert.Equal(t, 8, res.Bands)
	assert.Len(t, res.Points, 2*8)
}

func mustLabel(t *testing.T, r, p, q int) int {
	t.Helper()
	inv := 0
	for i := 0; i < q; i++ {
		if (p*i)%q == 1 {
			inv = i
			break
		}
	}
	label := (r * inv) % q
	if label > q/2 {
		label -= q
	}
	return label
}
