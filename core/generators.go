package core

import (
	"math"

	"github.com/chromaworks/aircanvas/model"
)

// Generator turns one tick's normalized values into a single shape
// descriptor. Implementations must be pure: the same (values, tick) pair
// always yields the same descriptor, with no state carried between ticks and
// no randomness.
type Generator interface {
	Kind() ShapeKind
	Generate(vals Values, colors *ColorMapper, tick int) Shape
}

// Shape placement: every generator owns a fixed anchor on the unit canvas
// and drifts around it on a slow sinusoidal orbit in tick index. Amplitudes
// are chosen so that anchor + drift + maximum shape extent stays inside the
// canvas for every input.
const driftPeriod = 120.0

func driftX(anchor, amp float64, tick int, phase float64) float64 {
	return anchor + amp*math.Sin(2*math.Pi*float64(tick)/driftPeriod+phase)
}

func driftY(anchor, amp float64, tick int, phase float64) float64 {
	return anchor + amp*math.Cos(2*math.Pi*float64(tick)/driftPeriod+phase)
}

// round half away from zero, matching how vertex counts and ring counts are
// derived from continuous values.
func roundStep(v float64) int { return int(math.Round(v)) }

// CircleGenerator maps PM2.5 to a nested circle: radius and ring count grow
// with particulate load, humidity sets the transparency, and the wind
// direction nudges the centre off its anchor.
type CircleGenerator struct{}

func (CircleGenerator) Kind() ShapeKind { return KindCircle }

func (CircleGenerator) Generate(vals Values, colors *ColorMapper, tick int) Shape {
	pm25 := vals[model.PM25]
	windRad := vals[model.WindDirection] * 2 * math.Pi

	return Shape{
		Kind:  KindCircle,
		X:     driftX(0.35, 0.06, tick, 0) + 0.04*math.Cos(windRad),
		Y:     driftY(0.40, 0.06, tick, 0) + 0.04*math.Sin(windRad),
		Size:  0.04 + pm25*0.14,
		Rings: 1 + roundStep(pm25*2),
		Fill:  colors.ColorAlpha(PalettePrimary, pm25, vals[model.Humidity]),
	}
}

// TriangleGenerator maps SO2 to the side length of an equilateral triangle
// and temperature to its rotation; warm air literally turns the shape.
type TriangleGenerator struct{}

func (TriangleGenerator) Kind() ShapeKind { return KindTriangle }

func (TriangleGenerator) Generate(vals Values, colors *ColorMapper, tick int) Shape {
	so2 := vals[model.SO2]
	temp := vals[model.Temperature]

	return Shape{
		Kind:     KindTriangle,
		X:        driftX(0.68, 0.05, tick, 1.1),
		Y:        driftY(0.30, 0.05, tick, 1.1),
		Size:     (0.05 + so2*0.16) * (0.5 + temp),
		Rotation: math.Mod(temp*360, 360),
		Fill:     colors.ColorAlpha(PaletteSecondary, so2, temp),
	}
}

// RectangleGenerator maps NO2 to the extents of an axis-aligned rectangle;
// humidity drives the transparency.
type RectangleGenerator struct{}

func (RectangleGenerator) Kind() ShapeKind { return KindRectangle }

func (RectangleGenerator) Generate(vals Values, colors *ColorMapper, tick int) Shape {
	no2 := vals[model.NO2]
	halfW := 0.03 + no2*0.10

	return Shape{
		Kind:  KindRectangle,
		X:     driftX(0.32, 0.05, tick, 2.3),
		Y:     driftY(0.72, 0.05, tick, 2.3),
		Size:  halfW,
		Size2: halfW * 0.62,
		Fill:  colors.ColorAlpha(PaletteAccent, no2, vals[model.Humidity]),
	}
}

// LineGenerator maps the wind vector to a stroke: wind direction sets the
// angle, wind speed and CO jointly set the length, and CO alone sets the
// stroke width and color.
type LineGenerator struct{}

func (LineGenerator) Kind() ShapeKind { return KindLine }

func (LineGenerator) Generate(vals Values, colors *ColorMapper, tick int) Shape {
	co := vals[model.CO]
	wind := vals[model.WindSpeed]

	return Shape{
		Kind:     KindLine,
		X:        driftX(0.62, 0.06, tick, 3.7),
		Y:        driftY(0.68, 0.06, tick, 3.7),
		Size:     0.10 + (0.7*wind+0.3*co)*0.25,
		Size2:    0.004 + co*0.016,
		Rotation: vals[model.WindDirection] * 360,
		Fill:     colors.ColorAlpha(PaletteNeutral, co, wind),
	}
}

// PolygonGenerator maps O3 to a regular polygon: the vertex count steps from
// 5 up to 8 as ozone rises, the circumradius grows with it, and the whole
// shape spins slowly with the tick index.
type PolygonGenerator struct{}

func (PolygonGenerator) Kind() ShapeKind { return KindPolygon }

func (PolygonGenerator) Generate(vals Values, colors *ColorMapper, tick int) Shape {
	o3 := vals[model.O3]

	return Shape{
		Kind:     KindPolygon,
		X:        driftX(0.75, 0.05, tick, 5.2),
		Y:        driftY(0.68, 0.05, tick, 5.2),
		Size:     0.05 + o3*0.12,
		Vertices: 5 + roundStep(o3*3),
		Rotation: math.Mod(float64(tick)*3, 360),
		Fill:     colors.ColorAlpha(PalettePrimary, o3, o3),
	}
}
