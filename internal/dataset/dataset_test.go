package dataset

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bandflux/butterfly/pkg/butterfly"
	"github.com/bandflux/butterfly/pkg/lattice"
)

func TestButterflyStem(t *testing.T) {
	t.Parallel()
	tcs := map[string]struct {
		res     butterfly.Result
		scheme  string
		palette string
		want    string
	}{
		"plain": {
			res:  butterfly.Result{Q: 199, Lattice: lattice.Square, T: []float64{1}, Period: 1},
			want: "butterfly_square_q_199_t_1",
		},
		"colored": {
			res:     butterfly.Result{Q: 93, Lattice: lattice.Honeycomb, T: []float64{1}, Period: 1},
			scheme:  "point",
			palette: "avron",
			want:    "butterfly_honeycomb_q_93_t_1_col_point_avron",
		},
		"period and long range": {
			res:  butterfly.Result{Q: 49, Lattice: lattice.Triangular, T: []float64{1, 0, -0.25}, Period: 2},
			want: "butterfly_triangular_q_49_t_1_0_-0.25_period_2",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, ButterflyStem(&tc.res, tc.scheme, tc.palette))
		})
	}
}

func TestBandStructureStem(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "band_structure_square_nphi_1_4_samp_101", BandStructureStem("square", 1, 4, 101))
}

func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()
	res := &butterfly.Result{
		Q:       3,
		Lattice: lattice.Square,
		T:       []float64{1},
		Period:  1,
		Bands:   3,
		Points: []butterfly.Point{
			{P: 1, Q: 3, Nphi: 1.0 / 3, Energy: -2.5, Label: 1},
		},
		Gaps: []butterfly.Gap{
			{P: 1, Q: 3, Nphi: 1.0 / 3, R: 1, Filling: 1.0 / 3, Width: 1.1, E0: -2, E1: -0.9, Chern: 1},
		},
	}

	path := filepath.Join(t.TempDir(), "butterfly.json")
	require.NoError(t, Save(path, res))

	var got butterfly.Result
	require.NoError(t, Load(path, &got))
	assert.Equal(t, *res, got)
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()
	var got butterfly.Result
	err := Load(filepath.Join(t.TempDir(), "absent.json"), &got)
	assert.Error(t, err)
}
