// core/composer.go
package core

import (
	"github.com/chromaworks/aircanvas/model"
)

// ComposeStats reports what happened while composing one frame: which inputs
// were repaired and the aggregate pollution picture the background was built
// from. It exists so the caller can feed metrics and logs without the
// composer holding any observability dependencies itself.
type ComposeStats struct {
	Missing        []model.Measurement
	Clamped        []model.Measurement
	PollutionIndex float64
	Level          AQILevel
}

// Composer runs the full observation-to-frame mapping: normalize once, pick
// the background from the aggregate pollution index, then run the five
// generators in their fixed order. Composition is deterministic and carries
// no state between ticks; a Composer is safe for concurrent use.
type Composer struct {
	norm       *Normalizer
	colors     *ColorMapper
	generators []Generator
}

// NewComposer builds the pipeline from one immutable configuration.
func NewComposer(cfg Config) (*Composer, error) {
	norm, err := NewNormalizer(cfg)
	if err != nil {
		return nil, err
	}
	colors, err := NewColorMapper(cfg)
	if err != nil {
		return nil, err
	}
	return &Composer{
		norm:   norm,
		colors: colors,
		generators: []Generator{
			CircleGenerator{},
			TriangleGenerator{},
			RectangleGenerator{},
			LineGenerator{},
			PolygonGenerator{},
		},
	}, nil
}

// Compose turns one observation into one frame. The frame always contains
// exactly one shape per generator in the fixed order circle, triangle,
// rectangle, line, polygon, with strictly increasing paint order; missing or
// out-of-domain inputs are repaired by the normalizer, so no input can make
// composition fail.
func (c *Composer) Compose(obs model.Observation, tick int) (Frame, ComposeStats) {
	vals, norm := c.norm.NormalizeAll(obs)

	index := pollutionIndex(vals)
	top := c.colors.BackgroundColor(index)

	frame := Frame{
		Tick: tick,
		Background: Background{
			Top:    top,
			Bottom: shade(top, 0.85),
		},
		Shapes: make([]Shape, 0, len(c.generators)),
	}
	for i, gen := range c.generators {
		shape := gen.Generate(vals, c.colors, tick)
		shape.Z = i
		frame.Shapes = append(frame.Shapes, shape)
	}

	return frame, ComposeStats{
		Missing:        norm.Missing,
		Clamped:        norm.Clamped,
		PollutionIndex: index,
		Level:          AQILevelFor(c.norm.Denormalize(model.PM25, vals[model.PM25])),
	}
}

// pollutionIndex aggregates the four pollutant channels into one [0,1]
// severity. Following the AQI convention the dominant pollutant wins, so a
// single maxed-out channel saturates the background on its own.
func pollutionIndex(vals Values) float64 {
	index := vals[model.PM25]
	for _, m := range []model.Measurement{model.SO2, model.NO2, model.O3} {
		if v := vals[m]; v > index {
			index = v
		}
	}
	return index
}

// shade darkens a color by the given factor, keeping alpha.
func shade(c Color, factor float64) Color {
	return Color{R: c.R * factor, G: c.G * factor, B: c.B * factor, A: c.A}
}
