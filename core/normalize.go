package core

import (
	"errors"

	"github.com/chromaworks/aircanvas/model"
)

// ErrInvalidBounds indicates a measurement domain with Max <= Min or a
// missing domain entry.
var ErrInvalidBounds = errors.New("invalid measurement bounds")

// Values is a complete set of normalized readings: every known measurement is
// present with a value in [0,1].
type Values map[model.Measurement]float64

// NormStats reports what the normalizer had to repair while producing a
// Values map. Both slices follow the stable model.Measurements order.
type NormStats struct {
	Missing []model.Measurement
	Clamped []model.Measurement
}

// Normalizer maps raw sensor readings into [0,1] using the configured
// per-measurement domains. It holds no mutable state and is safe for
// concurrent use.
type Normalizer struct {
	bounds map[model.Measurement]Bounds
}

// NewNormalizer builds a Normalizer from the configuration. The bounds map is
// copied; the config cannot influence the normalizer after construction.
func NewNormalizer(cfg Config) (*Normalizer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	bounds := make(map[model.Measurement]Bounds, len(cfg.Bounds))
	for m, b := range cfg.Bounds {
		bounds[m] = b
	}
	return &Normalizer{bounds: bounds}, nil
}

// Normalize maps a single raw value into [0,1], clamping to the nearer bound
// when the value falls outside its domain. Unknown measurements normalize to
// the midpoint.
func (n *Normalizer) Normalize(m model.Measurement, v float64) float64 {
	b, ok := n.bounds[m]
	if !ok {
		return 0.5
	}
	if v <= b.Min {
		return 0
	}
	if v >= b.Max {
		return 1
	}
	return (v - b.Min) / (b.Max - b.Min)
}

// NormalizeAll produces a complete Values map for an observation. Missing
// measurements default to 0.5 so downstream generators always have an input;
// out-of-domain readings clamp to 0 or 1. The returned stats list what was
// defaulted and what was clamped.
func (n *Normalizer) NormalizeAll(obs model.Observation) (Values, NormStats) {
	vals := make(Values, len(model.Measurements))
	var stats NormStats
	for _, m := range model.Measurements {
		raw, ok := obs.Value(m)
		if !ok {
			vals[m] = 0.5
			stats.Missing = append(stats.Missing, m)
			continue
		}
		if b, known := n.bounds[m]; known && (raw < b.Min || raw > b.Max) {
			stats.Clamped = append(stats.Clamped, m)
		}
		vals[m] = n.Normalize(m, raw)
	}
	return vals, stats
}

// Denormalize converts a normalized value back into the raw domain. Used to
// recover an approximate PM2.5 concentration for AQI banding when the
// original reading was absent.
func (n *Normalizer) Denormalize(m model.Measurement, v float64) float64 {
	b, ok := n.bounds[m]
	if !ok {
		return v
	}
	return b.Min + v*(b.Max-b.Min)
}
