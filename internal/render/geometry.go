package render

import (
	"image/color"
	"math"

	"github.com/chromaworks/aircanvas/core"
)

// Circle dressing shared by every renderer. The halo is a translucent disc
// behind the body; rings are white circles nested inside it, each shrinking
// by ringShrink.
const (
	haloScale  = 1.3
	haloAlpha  = 0.25
	ringShrink = 0.6
)

// canvas maps unit-square frame coordinates onto a pixel surface. Positions
// scale per axis; lengths scale by the shorter edge so circles stay circular
// on non-square surfaces.
type canvas struct {
	w, h float64
}

func newCanvas(width, height int) canvas {
	return canvas{w: float64(width), h: float64(height)}
}

func (c canvas) point(x, y float64) (px, py float64) {
	return x * c.w, y * c.h
}

func (c canvas) length(v float64) float64 {
	return v * math.Min(c.w, c.h)
}

// trianglePoints returns the corners of an equilateral triangle with side
// Size centered on the shape position, one corner up at zero rotation.
// Rotation is in degrees, clockwise on screen.
func trianglePoints(cv canvas, s core.Shape) [][2]float64 {
	cx, cy := cv.point(s.X, s.Y)
	r := cv.length(s.Size / math.Sqrt(3))
	return regularPoints(cx, cy, r, 3, s.Rotation)
}

// polygonPoints returns the corners of a regular polygon with circumradius
// Size. Fewer than three vertices are drawn as three.
func polygonPoints(cv canvas, s core.Shape) [][2]float64 {
	n := s.Vertices
	if n < 3 {
		n = 3
	}
	cx, cy := cv.point(s.X, s.Y)
	return regularPoints(cx, cy, cv.length(s.Size), n, s.Rotation)
}

// rectanglePoints returns the corners of a rectangle with half-extents Size
// and Size2, rotated about its center.
func rectanglePoints(cv canvas, s core.Shape) [][2]float64 {
	cx, cy := cv.point(s.X, s.Y)
	hw := cv.length(s.Size)
	hh := cv.length(s.Size2)
	sin, cos := math.Sincos(s.Rotation * math.Pi / 180)

	corners := [][2]float64{{-hw, -hh}, {hw, -hh}, {hw, hh}, {-hw, hh}}
	for i, c := range corners {
		corners[i] = [2]float64{
			cx + c[0]*cos - c[1]*sin,
			cy + c[0]*sin + c[1]*cos,
		}
	}
	return corners
}

// lineEndpoints returns the two ends of a stroke of length Size centered on
// the shape position. Rotation 0 points right, 90 points down the screen.
func lineEndpoints(cv canvas, s core.Shape) (x1, y1, x2, y2 float64) {
	cx, cy := cv.point(s.X, s.Y)
	half := cv.length(s.Size) / 2
	sin, cos := math.Sincos(s.Rotation * math.Pi / 180)
	dx, dy := cos*half, sin*half
	return cx - dx, cy - dy, cx + dx, cy + dy
}

// circleRings returns the radii of the nested interior rings, outermost
// first.
func circleRings(cv canvas, s core.Shape) []float64 {
	r := cv.length(s.Size)
	out := make([]float64, 0, s.Rings)
	f := 1.0
	for k := 0; k < s.Rings; k++ {
		f *= ringShrink
		out = append(out, r*f)
	}
	return out
}

func regularPoints(cx, cy, r float64, n int, rotationDeg float64) [][2]float64 {
	rot := rotationDeg * math.Pi / 180
	pts := make([][2]float64, n)
	for i := range pts {
		a := rot + float64(i)*2*math.Pi/float64(n) - math.Pi/2
		sin, cos := math.Sincos(a)
		pts[i] = [2]float64{cx + r*cos, cy + r*sin}
	}
	return pts
}

func toNRGBA(c core.Color) color.NRGBA {
	r, g, b, a := c.RGBA8()
	return color.NRGBA{R: r, G: g, B: b, A: a}
}

func withAlphaScale(c core.Color, f float64) core.Color {
	c.A *= f
	return c
}
