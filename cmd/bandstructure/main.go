// bandstructure computes the magnetic band structure of a lattice model
// at a single flux density and reports band widths, gaps and Chern
// numbers.
//
// Usage:
//
//	bandstructure -lat square -nphi 1,4 -samp 101
//	bandstructure -lat honeycomb -nphi 1,5 -disp 2D
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
	"github.com/bandflux/butterfly/pkg/bandstructure"
	"github.com/bandflux/butterfly/pkg/lattice"
	"github.com/bandflux/butterfly/pkg/plot"
)

func main() {
	var (
		model    string
		lat      string
		nphi     string
		tList    string
		alpha    float64
		theta    string
		period   int
		samples  int
		gapMin   float64
		display  string
		workers  int
		outDir   string
		logLevel string
	)

	flag.StringVar(&model, "mod", "hofstadter", "name of model")
	flag.StringVar(&lat, "lat", "square", "lattice (square, triangular, honeycomb)")
	flag.StringVar(&nphi, "nphi", "1,4", "flux density as p,q")
	flag.StringVar(&tList, "t", "1", "comma-separated hopping amplitudes in ascending-neighbour order")
	flag.Float64Var(&alpha, "alpha", 1, "lattice anisotropy |a2|/|a1|")
	flag.StringVar(&theta, "theta", "", "obliqueness angle as a fraction of pi, e.g. 1,3")
	flag.IntVar(&period, "period", 1, "flux periodicity factor")
	flag.IntVar(&samples, "samp", 101, "momentum samples per direction")
	flag.Float64Var(&gapMin, "bgt", 0.01, "band gap threshold for grouping touching bands")
	flag.StringVar(&display, "disp", "3D", "output (3D = full-grid dataset, 2D = symmetry-path cut)")
	flag.IntVar(&workers, "workers", 0, "diagonalization workers (0 = all CPUs)")
	flag.StringVar(&outDir, "out", ".", "output directory")
	flag.StringVar(&logLevel, "log-level", "", "log level (debug, info, ...)")
	flag.Parse()

	xlog.Configure(xlog.Config{Level: logLevel})
	logger := xlog.WithComponent("bandstructure")

	if model != "hofstadter" {
		fmt.Fprintf(os.Stderr, "Error: unknown model %q\n", model)
		os.Exit(2)
	}
	kind, err := lattice.ParseKind(lat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: unknown lattice %q\n", lat)
		os.Exit(2)
	}
	p, q, err := parseFraction(nphi)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	amps, err := parseAmplitudes(tList)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	display = strings.ToUpper(display)
	if display != "2D" && display != "3D" {
		fmt.Fprintf(os.Stderr, "Error: -disp must be 2D or 3D, got %q\n", display)
		os.Exit(2)
	}
	if kind == lattice.Honeycomb && display == "3D" {
		fmt.Fprintln(os.Stderr, "Error: the honeycomb lattice only supports -disp 2D")
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

	opts := bandstructure.Options{
		P:            p,
		Q:            q,
		Cell:         cell,
		T:            amps,
		Period:       period,
		Samples:      samples,
		GapThreshold: gapMin,
		Workers:      workers,
	}

	logger.Info().
		Str("lattice", lat).
		Str("nphi", fmt.Sprintf("%d/%d", p, q)).
		Int("samples", samples).
		Msg("computing band structure")

	if display == "2D" {
		points, err := bandstructure.Cut(ctx, opts, samples)
		if err != nil {
			logger.Error().Err(err).Msg("band structure cut failed")
			os.Exit(1)
		}
		scene, err := plot.Cut(points, plot.Options{
			Title: fmt.Sprintf("n_phi = %d/%d, %s lattice", p, q, lat),
		})
		if err != nil {
			logger.Error().Err(err).Msg("unable to build cut scene")
			os.Exit(1)
		}
		stem := dataset.BandStructureStem(lat, p, q, samples)
		svgPath := filepath.Join(outDir, stem+".svg")
		if err := plot.Write(scene, svgPath); err != nil {
			logger.Error().Err(err).Msg("unable to write cut SVG")
			os.Exit(1)
		}
		logger.Info().Str("path", svgPath).Msg("band structure cut rendered")
		return
	}

	res, err := bandstructure.Compute(ctx, opts)
	if err != nil {
		logger.Error().Err(err).Msg("band structure computation failed")
		os.Exit(1)
	}

	for _, band := range res.Bands {
		group := res.Groups[band.Group]
		logger.Info().
			Int("band", band.Index).
			Float64("min", band.Min).
			Float64("max", band.Max).
			Float64("width", band.Width).
			Float64("gap_above", band.GapAbove).
			Int("group_chern", group.Chern).
			Msg("band summary")
	}

	stem := dataset.BandStructureStem(lat, p, q, samples)
	dataPath := filepath.Join(outDir, stem+".json")
	if err := dataset.Save(dataPath, res); err != nil {
		logger.Error().Err(err).Msg("unable to save dataset")
		os.Exit(1)
	}
	logger.Info().Str("path", dataPath).Msg("dataset saved")
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
