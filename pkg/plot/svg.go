package plot

import (
	"text/template"

	"github.com/google/renameio/v2"
	"github.com/pkg/errors"
)

// Scene is a ready-to-serialise SVG drawing: every coordinate is already
// in pixel space.
type Scene struct {
	Width, Height  int
	Title          string
	Axes           bool
	XLabel, YLabel string
	Frame          Rect
	Rects          []Rect
	Circles        []Circle
	Polylines      []Polyline
	Ticks          []Tick
}

// Rect is a filled rectangle.
type Rect struct {
	X, Y, W, H float64
	Fill       string
}

// Circle is a filled circle.
type Circle struct {
	X, Y, R float64
	Fill    string
}

// Polyline is a stroked open path with pre-joined "x,y x,y ..." points.
type Polyline struct {
	Points string
	Stroke string
}

// Tick is an axis annotation.
type Tick struct {
	X, Y   float64
	Label  string
	Anchor string
}

const svgTemplate = `<svg xmlns="http://www.w3.org/2000/svg" width="{{.Width}}" height="{{.Height}}" viewBox="0 0 {{.Width}} {{.Height}}">
<rect x="0" y="0" width="{{.Width}}" height="{{.Height}}" fill="white"/>
{{- range .Rects}}
<rect x="{{printf "%.2f" .X}}" y="{{printf "%.2f" .Y}}" width="{{printf "%.2f" .W}}" height="{{printf "%.2f" .H}}" fill="{{.Fill}}"/>
{{- end}}
{{- range .Circles}}
<circle cx="{{printf "%.2f" .X}}" cy="{{printf "%.2f" .Y}}" r="{{printf "%.2f" .R}}" fill="{{.Fill}}"/>
{{- end}}
{{- range .Polylines}}
<polyline points="{{.Points}}" fill="none" stroke="{{.Stroke}}" stroke-width="1"/>
{{- end}}
{{- if .Axes}}
<rect x="{{printf "%.2f" .Frame.X}}" y="{{printf "%.2f" .Frame.Y}}" width="{{printf "%.2f" .Frame.W}}" height="{{printf "%.2f" .Frame.H}}" fill="none" stroke="black"/>
{{- range .Ticks}}
<text x="{{printf "%.2f" .X}}" y="{{printf "%.2f" .Y}}" font-size="11" text-anchor="{{.Anchor}}">{{.Label}}</text>
{{- end}}
{{- if .Title}}
<text x="{{printf "%.1f" (half .Width)}}" y="16" font-size="14" text-anchor="middle">{{.Title}}</text>
{{- end}}
{{- if .XLabel}}
<text x="{{printf "%.1f" (half .Width)}}" y="{{sub .Height 6}}" font-size="12" text-anchor="middle">{{.XLabel}}</text>
{{- end}}
{{- if .YLabel}}
<text x="14" y="{{printf "%.1f" (half .Height)}}" font-size="12" text-anchor="middle" transform="rotate(-90 14 {{printf "%.1f" (half .Height)}})">{{.YLabel}}</text>
{{- end}}
{{- end}}
</svg>
`

var sceneTemplate = template.Must(template.New("svg").Funcs(template.FuncMap{
	"half": func(v int) float64 { return float64(v) / 2 },
	"sub":  func(a, b int) int { return a - b },
}).Parse(svgTemplate))

// Write renders the scene to w-like pending file and atomically replaces
// path, so a crashed render never leaves a truncated plot behind.
func Write(scene *Scene, path string) error {
	pending, err := renameio.NewPendingFile(path)
	if err != nil {
		return errors.Wrapf(err, "unable to create pending file for %s", path)
	}
	defer func() {
		_ = pending.Cleanup()
	}()

	if err := sceneTemplate.Execute(pending, scene); err != nil {
		return errors.Wrap(err, "unable to render SVG template")
	}

	if err := pending.CloseAtomicallyReplace(); err != nil {
		return errors.Wrapf(err, "unable to atomically replace %s", path)
	}

	return nil
}
