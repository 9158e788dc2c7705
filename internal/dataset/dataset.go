// Package dataset persists computed spectra as JSON so plots can be
// re-rendered without recomputation. File stems follow the layout of the
// spectrum files the plots are named after, e.g.
// butterfly_square_q_199_t_1_col_point_avron.json.
package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/renameio/v2"
	"github.com/pkg/errors"

	"github.com/bandflux/butterfly/pkg/butterfly"
)

// Save writes v as indented JSON, atomically.
func Save(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "unable to marshal dataset")
	}

	if err := renameio.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "unable to write dataset %s", path)
	}

	return nil
}

// Load reads a dataset written by Save into v.
func Load(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "unable to read dataset %s", path)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return errors.Wrapf(err, "unable to unmarshal dataset %s", path)
	}

	return nil
}

// formatAmplitude renders a hopping amplitude the way it appears in file
// stems: integers without a decimal point.
func formatAmplitude(t float64) string {
	if t == float64(int(t)) {
		return strconv.Itoa(int(t))
	}
	return strconv.FormatFloat(t, 'g', -1, 64)
}

// ButterflyStem builds the file stem of a butterfly dataset.
func ButterflyStem(res *butterfly.Result, scheme, palette string) string {
	parts := make([]string, len(res.T))
	for i, t := range res.T {
		parts[i] = formatAmplitude(t)
	}

	stem := fmt.Sprintf("butterfly_%s_q_%d_t_%s", res.Lattice, res.Q, strings.Join(parts, "_"))
	if res.Period > 1 {
		stem += fmt.Sprintf("_period_%d", res.Period)
	}
	if scheme != "" {
		stem += fmt.Sprintf("_col_%s_%s", scheme, palette)
	}

	return stem
}

// BandStructureStem builds the file stem of a band-structure dataset.
func BandStructureStem(lat string, p, q, samples int) string {
	return fmt.Sprintf("band_structure_%s_nphi_%d_%d_samp_%d", lat, p, q, samples)
}
