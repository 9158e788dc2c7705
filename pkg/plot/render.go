package plot

import (
	"fmt"
	"math"
	"strings"

	"github.com/pkg/errors"

	"github.com/bandflux/butterfly/pkg/bandstructure"
	"github.com/bandflux/butterfly/pkg/butterfly"
)

// Options configures a rendering.
type Options struct {
	Width, Height int
	Palette       *Palette
	Scheme        Scheme
	Art           bool // drop axes, ticks and labels
	Title         string
}

func (o *Options) defaults() error {
	if o.Width == 0 {
		o.Width = 900
	}
	if o.Height == 0 {
		o.Height = 700
	}
	if o.Palette == nil {
		pal, err := ParsePalette("avron")
		if err != nil {
			return err
		}
		o.Palette = pal
	}
	if o.Scheme == "" {
		o.Scheme = SchemePoint
	}
	return nil
}

const margin = 50.0

// viewport maps data coordinates onto the pixel frame.
type viewport struct {
	x0, x1, y0, y1 float64
	width, height  float64
}

func (v viewport) px(x float64) float64 {
	return margin + (x-v.x0)/(v.x1-v.x0)*(v.width-2*margin)
}

func (v viewport) py(y float64) float64 {
	return v.height - margin - (y-v.y0)/(v.y1-v.y0)*(v.height-2*margin)
}

func (v viewport) frame() Rect {
	return Rect{X: margin, Y: margin, W: v.width - 2*margin, H: v.height - 2*margin}
}

// chernPosition maps a signed Chern number onto the palette ramp,
// symmetric around the midpoint.
func chernPosition(chern, maxAbs int) float64 {
	if maxAbs < 1 {
		maxAbs = 1
	}
	return 0.5 + float64(chern)/(2*float64(maxAbs))
}

// Butterfly builds the butterfly scatter scene.
func Butterfly(res *butterfly.Result, opts Options) (*Scene, error) {
	if err := opts.defaults(); err != nil {
		return nil, err
	}
	if len(res.Points) == 0 {
		return nil, errors.New("butterfly result holds no spectrum points")
	}

	minE, maxE := res.Points[0].Energy, res.Points[0].Energy
	maxAbs := 1
	for _, pt := range res.Points {
		minE = math.Min(minE, pt.Energy)
		maxE = math.Max(maxE, pt.Energy)
		if abs := absInt(pt.Label); abs > maxAbs {
			maxAbs = abs
		}
	}
	pad := 0.05 * (maxE - minE)
	vp := viewport{
		x0: 0, x1: 1,
		y0: minE - pad, y1: maxE + pad,
		width: float64(opts.Width), height: float64(opts.Height),
	}

	scene := &Scene{
		Width:  opts.Width,
		Height: opts.Height,
		Axes:   !opts.Art,
		Title:  opts.Title,
		XLabel: "flux density p/q",
		YLabel: "energy",
		Frame:  vp.frame(),
	}

	if opts.Scheme == SchemePlane {
		for _, gap := range res.Gaps {
			halfCol := 0.5 / float64(gap.Q)
			scene.Rects = append(scene.Rects, Rect{
				X:    vp.px(gap.Nphi - halfCol),
				Y:    vp.py(gap.E1),
				W:    vp.px(gap.Nphi+halfCol) - vp.px(gap.Nphi-halfCol),
				H:    vp.py(gap.E0) - vp.py(gap.E1),
				Fill: opts.Palette.At(chernPosition(gap.Chern, maxAbs)),
			})
		}
	}

	for _, pt := range res.Points {
		fill := "black"
		if opts.Scheme == SchemePoint {
			fill = opts.Palette.At(chernPosition(pt.Label, maxAbs))
		}
		scene.Circles = append(scene.Circles, Circle{
			X:    vp.px(pt.Nphi),
			Y:    vp.py(pt.Energy),
			R:    0.8,
			Fill: fill,
		})
	}

	if scene.Axes {
		scene.Ticks = axisTicks(vp)
	}

	return scene, nil
}

// Wannier builds the Wannier diagram scene: one marker per labelled gap,
// weighted by gap width.
func Wannier(res *butterfly.Result, opts Options) (*Scene, error) {
	if err := opts.defaults(); err != nil {
		return nil, err
	}
	if len(res.Gaps) == 0 {
		return nil, errors.New("butterfly result holds no labelled gaps")
	}

	maxWidth := 0.0
	maxAbs := 1
	for _, gap := range res.Gaps {
		maxWidth = math.Max(maxWidth, gap.Width)
		if abs := absInt(gap.Chern); abs > maxAbs {
			maxAbs = abs
		}
	}

	vp := viewport{
		x0: 0, x1: 1, y0: 0, y1: 1,
		width: float64(opts.Width), height: float64(opts.Height),
	}
	scene := &Scene{
		Width:  opts.Width,
		Height: opts.Height,
		Axes:   !opts.Art,
		Title:  opts.Title,
		XLabel: "flux density p/q",
		YLabel: "filling r/bands",
		Frame:  vp.frame(),
	}

	for _, gap := range res.Gaps {
		scene.Circles = append(scene.Circles, Circle{
			X:    vp.px(gap.Nphi),
			Y:    vp.py(gap.Filling),
			R:    0.5 + 4*math.Sqrt(gap.Width/maxWidth),
			Fill: opts.Palette.At(chernPosition(gap.Chern, maxAbs)),
		})
	}

	if scene.Axes {
		scene.Ticks = axisTicks(vp)
	}

	return scene, nil
}

// Cut builds the 2D band-structure scene: one polyline per band along the
// symmetry path, symmetry points marked on the x axis.
func Cut(points []bandstructure.PathPoint, opts Options) (*Scene, error) {
	if err := opts.defaults(); err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, errors.New("band-structure cut holds no points")
	}

	bands := len(points[0].Energies)
	minE, maxE := points[0].Energies[0], points[0].Energies[0]
	for _, pt := range points {
		for _, e := range pt.Energies {
			minE = math.Min(minE, e)
			maxE = math.Max(maxE, e)
		}
	}
	pad := 0.05 * (maxE - minE)
	vp := viewport{
		x0: points[0].Coord, x1: points[len(points)-1].Coord,
		y0: minE - pad, y1: maxE + pad,
		width: float64(opts.Width), height: float64(opts.Height),
	}

	scene := &Scene{
		Width:  opts.Width,
		Height: opts.Height,
		Axes:   !opts.Art,
		Title:  opts.Title,
		YLabel: "energy",
		Frame:  vp.frame(),
	}

	for b := 0; b < bands; b++ {
		var sb strings.Builder
		for i, pt := range points {
			if i > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%.2f,%.2f", vp.px(pt.Coord), vp.py(pt.Energies[b]))
		}
		stroke := opts.Palette.At(float64(b) / math.Max(1, float64(bands-1)))
		scene.Polylines = append(scene.Polylines, Polyline{Points: sb.String(), Stroke: stroke})
	}

	if scene.Axes {
		for _, pt := range points {
			if pt.Label == "" {
				continue
			}
			scene.Ticks = append(scene.Ticks, Tick{
				X:      vp.px(pt.Coord),
				Y:      vp.height - margin + 16,
				Label:  pt.Label,
				Anchor: "middle",
			})
		}
		scene.Ticks = append(scene.Ticks, yTicks(vp)...)
	}

	return scene, nil
}

// axisTicks annotates both axes with their end values.
func axisTicks(vp viewport) []Tick {
	ticks := []Tick{
		{X: vp.px(vp.x0), Y: vp.height - margin + 16, Label: trimFloat(vp.x0), Anchor: "middle"},
		{X: vp.px(vp.x1), Y: vp.height - margin + 16, Label: trimFloat(vp.x1), Anchor: "middle"},
	}
	return append(ticks, yTicks(vp)...)
}

func yTicks(vp viewport) []Tick {
	return []Tick{
		{X: margin - 6, Y: vp.py(vp.y0) + 4, Label: trimFloat(vp.y0), Anchor: "end"},
		{X: margin - 6, Y: vp.py(vp.y1) + 4, Label: trimFloat(vp.y1), Anchor: "end"},
	}
}

func trimFloat(v float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
