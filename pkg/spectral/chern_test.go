package spectral_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bandflux/butterfly/pkg/spectral"
)

func TestGcd(t *testing.T) {
	t.Parallel()
	tcs := map[string]struct {
		a, b, want int
	}{
		"coprime":  {a: 3, b: 7, want: 1},
		"common":   {a: 12, b: 18, want: 6},
		"zero":     {a: 0, b: 5, want: 5},
		"negative": {a: -4, b: 6, want: 2},
		"equal":    {a: 9, b: 9, want: 9},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, spectral.Gcd(tc.a, tc.b))
		})
	}
}

func TestDiophantine(t *testing.T) {
	t.Parallel()
	tcs := map[string]struct {
		r, p, q int
		wantS   int
		wantT   int
	}{
		"first gap 1/5":   {r: 1, p: 1, q: 5, wantS: 0, wantT: 1},
		"second gap 1/5":  {r: 2, p: 1, q: 5, wantS: 0, wantT: 2},
		"third gap 1/5":   {r: 3, p: 1, q: 5, wantS: 1, wantT: -2},
		"first gap 4/5":   {r: 1, p: 4, q: 5, wantS: 1, wantT: -1},
		"first gap 2/7":   {r: 1, p: 2, q: 7, wantS: 1, wantT: -3},
		"middle gap even": {r: 2, p: 1, q: 4, wantS: 0, wantT: 2},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			s, tt, err := spectral.Diophantine(tc.r, tc.p, tc.q)
			require.NoError(t, err)
			assert.Equal(t, tc.wantS, s)
			assert.Equal(t, tc.wantT, tt)

			// the gap-labelling identity r = q s + p t must hold exactly
			assert.Equal(t, tc.r, tc.q*s+tc.p*tt)
		})
	}
}

func TestDiophantineHalfBound(t *testing.T) {
	t.Parallel()
	for q := 3; q <= 11; q += 2 {
		for p := 1; p < q; p++ {
			if spectral.Gcd(p, q) != 1 {
				continue
			}
			for r := 1; r < q; r++ {
				s, tt, err := spectral.Diophantine(r, p, q)
				require.NoError(t, err)
				assert.Equal(t, r, q*s+p*tt, "r=%d p=%d q=%d", r, p, q)
				assert.LessOrEqual(t, 2*abs(tt), q, "r=%d p=%d q=%d", r, p, q)
			}
		}
	}
}

func TestDiophantineNotCoprime(t *testing.T) {
	t.Parallel()
	_, _, err := spectral.Diophantine(1, 2, 4)
	assert.ErrorIs(t, err, spectral.ErrNotCoprime)
}

func TestDiophantineBadDenominator(t *testing.T) {
	t.Parallel()
	_, _, err := spectral.Diophantine(1, 1, 0)
	assert.Error(t, err)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
