package plot

import (
	"math"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScheme(t *testing.T) {
	t.Parallel()
	tcs := map[string]struct {
		name    string
		want    Scheme
		wantErr bool
	}{
		"point":   {name: "point", want: SchemePoint},
		"plane":   {name: "plane", want: SchemePlane},
		"unknown": {name: "rainbow", wantErr: true},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			got, err := ParseScheme(tc.name)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrUnknownScheme)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParsePalette(t *testing.T) {
	t.Parallel()
	for _, name := range []string{"avron", "jet", "red-blue"} {
		pal, err := ParsePalette(name)
		require.NoError(t, err)
		assert.Equal(t, name, pal.Name)
	}

	_, err := ParsePalette("viridis")
	assert.ErrorIs(t, err, ErrUnknownPalette)
}

func TestPaletteEnds(t *testing.T) {
	t.Parallel()
	pal, err := ParsePalette("jet")
	require.NoError(t, err)

	assert.Equal(t, "#000080", strings.ToLower(pal.At(0)))
	assert.Equal(t, "#800000", strings.ToLower(pal.At(1)))

	// out-of-range positions clamp to the ends
	assert.Equal(t, pal.At(0), pal.At(-3))
	assert.Equal(t, pal.At(1), pal.At(7))
	assert.Equal(t, pal.At(0), pal.At(math.NaN()))
}

func TestPaletteInterpolates(t *testing.T) {
	t.Parallel()
	pal, err := ParsePalette("red-blue")
	require.NoError(t, err)

	hex := regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
	for _, pos := range []float64{0.1, 0.25, 0.5, 0.75, 0.9} {
		assert.Regexp(t, hex, pal.At(pos))
	}
	// the middle stop of the three-stop ramp sits at position one half
	assert.Equal(t, "#f7f7f7", strings.ToLower(pal.At(0.5)))
}

func TestChernPosition(t *testing.T) {
	t.Parallel()
	assert.InDelta(t, 0.5, chernPosition(0, 3), 1e-12)
	assert.InDelta(t, 0, chernPosition(-3, 3), 1e-12)
	assert.InDelta(t, 1, chernPosition(3, 3), 1e-12)
	assert.InDelta(t, 0.5, chernPosition(0, 0), 1e-12)
}
