// butterfly computes the Hofstadter butterfly of a lattice model and
// renders it to SVG.
//
// Usage:
//
//	butterfly -lat square -q 199 -t 1 -col point -pal avron
//	butterfly -lat honeycomb -q 93 -theta 1,3 -col point -pal avron -wan
//
// Exit codes:
//   - 0: success
//   - 1: computation or rendering failed
//   - 2: usage error
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/bandflux/butterfly/internal/dataset"
	xlog "github.com/bandflux/butterfly/internal/log"
	"github.com/bandflux/butterfly/pkg/butterfly"
	"github.com/bandflux/butterfly/pkg/lattice"
	"github.com/bandflux/butterfly/pkg/plot"
)

func main() {
	var (
		model    string
		lat      string
		q        int
		tList    string
		alpha    float64
		theta    string
		period   int
		col      string
		pal      string
		wannier  bool
		art      bool
		kSamples int
		gapMin   float64
		workers  int
		outDir   string
		dotFile  bool
		measure  bool
		logLevel string
	)

	flag.StringVar(&model, "mod", "hofstadter", "name of model")
	flag.StringVar(&lat, "lat", "square", "lattice (square, triangular, honeycomb)")
	flag.IntVar(&q, "q", 199, "flux denominator")
	flag.StringVar(&tList, "t", "1", "comma-separated hopping amplitudes in ascending-neighbour order")
	flag.Float64Var(&alpha, "alpha", 1, "lattice anisotropy |a2|/|a1|")
	flag.StringVar(&theta, "theta", "", "obliqueness angle as a fraction of pi, e.g. 1,3")
	flag.IntVar(&period, "period", 1, "flux periodicity factor")
	flag.StringVar(&col, "col", "point", "coloring scheme (point, plane)")
	flag.StringVar(&pal, "pal", "avron", "palette (avron, jet, red-blue)")
	flag.BoolVar(&wannier, "wan", false, "also render the Wannier diagram")
	flag.BoolVar(&art, "art", false, "render without axes and labels")
	flag.IntVar(&kSamples, "ksamp", 1, "momentum samples per direction")
	flag.Float64Var(&gapMin, "bgt", 0.01, "minimum gap width kept in the Wannier data")
	flag.IntVar(&workers, "workers", 0, "diagonalization workers (0 = all CPUs)")
	flag.StringVar(&outDir, "out", ".", "output directory")
	flag.BoolVar(&dotFile, "dot", false, "also write the hopping graph in DOT format")
	flag.BoolVar(&measure, "measure", false, "log per-stage timing and scaling advice")
	flag.StringVar(&logLevel, "log-level", "", "log level (debug, info, ...)")
	flag.Parse()

	xlog.Configure(xlog.Config{Level: logLevel})
	logger := xlog.WithComponent("butterfly")

	if model != "hofstadter" {
		fmt.Fprintf(os.Stderr, "Error: unknown model %q\n", model)
		os.Exit(2)
	}

	kind, err := lattice.ParseKind(lat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: unknown lattice %q\n", lat)
		os.Exit(2)
	}
	amps, err := parseAmplitudes(tList)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	scheme, err := plot.ParseScheme(col)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: unknown coloring scheme %q\n", col)
		os.Exit(2)
	}
	palette, err := plot.ParsePalette(pal)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: unknown palette %q\n", pal)
		os.Exit(2)
	}

	latOpts := []lattice.Option{lattice.WithAnisotropy(alpha)}
	if theta != "" {
		num, den, err := parseFraction(theta)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}
		latOpts = append(latOpts, lattice.WithObliqueness(num, den))
	}
	cell, err := lattice.New(kind, latOpts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info().
		Str("lattice", lat).
		Int("q", q).
		Floats64("t", amps).
		Int("period", period).
		Msg("starting flux sweep")

	res, metrics, err := butterfly.Run(ctx, butterfly.Options{
		Q:            q,
		Cell:         cell,
		T:            amps,
		Period:       period,
		KSamples:     kSamples,
		GapThreshold: gapMin,
		Workers:      workers,
		Measure:      measure,
	})
	if err != nil {
		logger.Error().Err(err).Msg("flux sweep failed")
		os.Exit(1)
	}
	logger.Info().
		Int("points", len(res.Points)).
		Int("gaps", len(res.Gaps)).
		Msg("flux sweep finished")

	if metrics != nil {
		for name, metric := range metrics.Stages() {
			logger.Info().
				Str("stage", name).
				Int64("items", metric.Count()).
				Dur("avg_per_item", metric.AvgDuration()).
				Msg("stage timing")
		}
	}

	stem := dataset.ButterflyStem(res, col, pal)
	dataPath := filepath.Join(outDir, stem+".json")
	if err := dataset.Save(dataPath, res); err != nil {
		logger.Error().Err(err).Msg("unable to save dataset")
		os.Exit(1)
	}
	logger.Info().Str("path", dataPath).Msg("dataset saved")

	renderOpts := plot.Options{
		Palette: palette,
		Scheme:  scheme,
		Art:     art,
		Title:   fmt.Sprintf("n_phi = p/%d, %s lattice", q, lat),
	}
	scene, err := plot.Butterfly(res, renderOpts)
	if err != nil {
		logger.Error().Err(err).Msg("unable to build butterfly scene")
		os.Exit(1)
	}
	svgPath := filepath.Join(outDir, stem+".svg")
	if err := plot.Write(scene, svgPath); err != nil {
		logger.Error().Err(err).Msg("unable to write butterfly SVG")
		os.Exit(1)
	}
	logger.Info().Str("path", svgPath).Msg("butterfly rendered")

	if wannier {
		scene, err := plot.Wannier(res, renderOpts)
		if err != nil {
			logger.Error().Err(err).Msg("unable to build Wannier scene")
			os.Exit(1)
		}
		wanPath := filepath.Join(outDir, strings.Replace(stem, "butterfly_", "wannier_", 1)+".svg")
		if err := plot.Write(scene, wanPath); err != nil {
			logger.Error().Err(err).Msg("unable to write Wannier SVG")
			os.Exit(1)
		}
		logger.Info().Str("path", wanPath).Msg("wannier diagram rendered")
	}

	if dotFile {
		if err := writeHoppingGraph(cell, amps, filepath.Join(outDir, stem+".dot")); err != nil {
			logger.Error().Err(err).Msg("unable to write hopping graph")
			os.Exit(1)
		}
	}
}

func writeHoppingGraph(cell *lattice.Cell, amps []float64, path string) error {
	shells, err := cell.FindShells(amps)
	if err != nil {
		return err
	}
	g, err := cell.Graph(shells)
	if err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return lattice.WriteDOT(g, file)
}

func parseAmplitudes(list string) ([]float64, error) {
	parts := strings.Split(list, ",")
	amps := make([]float64, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid hopping amplitude %q", part)
		}
		amps = append(amps, v)
	}
	return amps, nil
}

func parseFraction(s string) (int, int, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("fraction must be num,den, got %q", s)
	}
	num, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid fraction numerator %q", parts[0])
	}
	den, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid fraction denominator %q", parts[1])
	}
	return num, den, nil
}
