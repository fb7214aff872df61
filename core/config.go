// core/config.go
package core

import (
	"fmt"

	"github.com/chromaworks/aircanvas/model"
)

// Bounds describes the expected domain of one measurement. Values outside the
// domain are clamped, never rejected.
type Bounds struct {
	Min float64
	Max float64
}

// Config carries everything the mapping pipeline needs: measurement domains,
// the palette set, and the background reference colors. It is passed by value
// into constructors and never mutated afterwards; there is no package-level
// state to configure.
type Config struct {
	Bounds     map[model.Measurement]Bounds
	Palettes   PaletteSet
	Background BackgroundRefs
}

// BackgroundRefs holds the two anchor colors the background is blended
// between as pollution rises.
type BackgroundRefs struct {
	Clean    Color
	Polluted Color
}

// DefaultConfig returns the stock configuration: domain bounds derived from
// the Beijing multi-site dataset extremes and the fixed Kandinsky-styled
// palettes. Callers may adjust the returned copy before constructing the
// pipeline.
func DefaultConfig() Config {
	return Config{
		Bounds: map[model.Measurement]Bounds{
			model.PM25:          {Min: 0, Max: 500},
			model.SO2:           {Min: 0, Max: 300},
			model.NO2:           {Min: 0, Max: 250},
			model.CO:            {Min: 0, Max: 5000},
			model.O3:            {Min: 0, Max: 400},
			model.Temperature:   {Min: -20, Max: 40},
			model.Humidity:      {Min: -40, Max: 30},
			model.WindSpeed:     {Min: 0, Max: 12},
			model.WindDirection: {Min: 0, Max: 360},
		},
		Palettes:   DefaultPalettes(),
		Background: BackgroundRefs{Clean: backgroundClean, Polluted: backgroundPolluted},
	}
}

// Validate checks the configuration for structural problems: degenerate
// bounds, empty palettes, or missing measurement domains.
func (c Config) Validate() error {
	for _, m := range model.Measurements {
		b, ok := c.Bounds[m]
		if !ok {
			return fmt.Errorf("%w: no bounds for %q", ErrInvalidBounds, m)
		}
		if b.Max <= b.Min {
			return fmt.Errorf("%w: %q has min %v, max %v", ErrInvalidBounds, m, b.Min, b.Max)
		}
	}
	if err := c.Palettes.validate(); err != nil {
		return err
	}
	return nil
}
