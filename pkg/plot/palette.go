package plot

import (
	"math"

	"github.com/pkg/errors"
	colors "gopkg.in/go-playground/colors.v1"
)

var (
	ErrUnknownPalette = errors.New("unknown palette")
	ErrUnknownScheme  = errors.New("unknown coloring scheme")
)

// Scheme selects how spectrum points are colored.
type Scheme string

const (
	// SchemePoint colors every spectrum point by the Chern number of the
	// gap directly above its band.
	SchemePoint Scheme = "point"
	// SchemePlane shades the gap regions of the flux plane instead of the
	// points.
	SchemePlane Scheme = "plane"
)

// ParseScheme maps a command-line scheme name to a Scheme.
func ParseScheme(name string) (Scheme, error) {
	switch Scheme(name) {
	case SchemePoint, SchemePlane:
		return Scheme(name), nil
	default:
		return "", errors.Wrapf(ErrUnknownScheme, "%q", name)
	}
}

// paletteStops are the hex color stops of the built-in palettes.
var paletteStops = map[string][]string{
	"avron":    {"#d73027", "#fc8d59", "#fee090", "#ffffbf", "#e0f3f8", "#91bfdb", "#4575b4"},
	"jet":      {"#000080", "#0000ff", "#00ffff", "#ffff00", "#ff0000", "#800000"},
	"red-blue": {"#b2182b", "#f7f7f7", "#2166ac"},
}

type rgb struct {
	r, g, b float64
}

// Palette is a linear color ramp over [0, 1].
type Palette struct {
	Name  string
	stops []rgb
}

// ParsePalette resolves a built-in palette by name.
func ParsePalette(name string) (*Palette, error) {
	hexes, ok := paletteStops[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownPalette, "%q", name)
	}

	stops := make([]rgb, len(hexes))
	for i, hex := range hexes {
		parsed, err := colors.ParseHEX(hex)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to parse palette stop %q", hex)
		}
		c := parsed.ToRGB()
		stops[i] = rgb{r: float64(c.R), g: float64(c.G), b: float64(c.B)}
	}

	return &Palette{Name: name, stops: stops}, nil
}

// At returns the ramp color at position t in [0, 1] as a hex string.
// Out-of-range positions clamp to the ends.
func (p *Palette) At(t float64) string {
	if math.IsNaN(t) || t <= 0 {
		return toHex(p.stops[0])
	}
	if t >= 1 {
		return toHex(p.stops[len(p.stops)-1])
	}

	scaled := t * float64(len(p.stops)-1)
	lo := int(scaled)
	frac := scaled - float64(lo)
	a, b := p.stops[lo], p.stops[lo+1]

	return toHex(rgb{
		r: a.r + frac*(b.r-a.r),
		g: a.g + frac*(b.g-a.g),
		b: a.b + frac*(b.b-a.b),
	})
}

func toHex(c rgb) string {
	out, err := colors.RGB(uint8(math.Round(c.r)), uint8(math.Round(c.g)), uint8(math.Round(c.b)))
	if err != nil {
		return "#000000"
	}
	return out.ToHEX().String()
}
