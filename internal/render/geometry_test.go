package render

import (
	"math"
	"testing"

	"github.com/chromaworks/aircanvas/core"
)

func dist(a, b [2]float64) float64 {
	return math.Hypot(a[0]-b[0], a[1]-b[1])
}

func TestCanvasMapping(t *testing.T) {
	cv := newCanvas(200, 100)

	px, py := cv.point(0.5, 0.5)
	if px != 100 || py != 50 {
		t.Fatalf("point(0.5, 0.5) = (%v, %v), want (100, 50)", px, py)
	}
	if got := cv.length(0.1); got != 10 {
		t.Fatalf("length(0.1) = %v, want 10 from the shorter edge", got)
	}
}

func TestTrianglePointsEquilateral(t *testing.T) {
	cv := newCanvas(100, 100)
	s := core.Shape{Kind: core.KindTriangle, X: 0.5, Y: 0.5, Size: 0.3}

	pts := trianglePoints(cv, s)
	if len(pts) != 3 {
		t.Fatalf("len(pts) = %d, want 3", len(pts))
	}
	for i := range pts {
		side := dist(pts[i], pts[(i+1)%3])
		if math.Abs(side-30) > 1e-9 {
			t.Fatalf("side %d = %v, want 30px for Size 0.3", i, side)
		}
	}
	// One corner points up at zero rotation.
	if pts[0][0] != 50 || pts[0][1] >= 50 {
		t.Fatalf("apex = %v, want above center at x=50", pts[0])
	}
	// The centroid sits on the shape position.
	var cx, cy float64
	for _, p := range pts {
		cx += p[0] / 3
		cy += p[1] / 3
	}
	if math.Abs(cx-50) > 1e-9 || math.Abs(cy-50) > 1e-9 {
		t.Fatalf("centroid = (%v, %v), want (50, 50)", cx, cy)
	}
}

func TestTriangleRotationFullTurn(t *testing.T) {
	cv := newCanvas(100, 100)
	base := core.Shape{Kind: core.KindTriangle, X: 0.4, Y: 0.6, Size: 0.2}
	turned := base
	turned.Rotation = 360

	a := trianglePoints(cv, base)
	b := trianglePoints(cv, turned)
	for i := range a {
		if dist(a[i], b[i]) > 1e-9 {
			t.Fatalf("corner %d moved after a full turn: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestPolygonPoints(t *testing.T) {
	cv := newCanvas(100, 100)
	s := core.Shape{Kind: core.KindPolygon, X: 0.5, Y: 0.5, Size: 0.12, Vertices: 8}

	pts := polygonPoints(cv, s)
	if len(pts) != 8 {
		t.Fatalf("len(pts) = %d, want 8", len(pts))
	}
	for i, p := range pts {
		r := dist(p, [2]float64{50, 50})
		if math.Abs(r-12) > 1e-9 {
			t.Fatalf("vertex %d radius = %v, want 12", i, r)
		}
	}

	// Degenerate vertex counts draw as triangles.
	s.Vertices = 0
	if got := len(polygonPoints(cv, s)); got != 3 {
		t.Fatalf("len(pts) = %d for 0 vertices, want 3", got)
	}
}

func TestRectanglePoints(t *testing.T) {
	cv := newCanvas(100, 100)
	s := core.Shape{Kind: core.KindRectangle, X: 0.5, Y: 0.5, Size: 0.2, Size2: 0.1}

	pts := rectanglePoints(cv, s)
	want := [][2]float64{{30, 40}, {70, 40}, {70, 60}, {30, 60}}
	for i := range want {
		if dist(pts[i], want[i]) > 1e-9 {
			t.Fatalf("corner %d = %v, want %v", i, pts[i], want[i])
		}
	}

	// A quarter turn swaps the extents.
	s.Rotation = 90
	pts = rectanglePoints(cv, s)
	if dist(pts[0], [2]float64{60, 30}) > 1e-9 {
		t.Fatalf("rotated corner 0 = %v, want (60, 30)", pts[0])
	}
}

func TestLineEndpoints(t *testing.T) {
	cv := newCanvas(100, 100)
	s := core.Shape{Kind: core.KindLine, X: 0.5, Y: 0.5, Size: 0.4}

	x1, y1, x2, y2 := lineEndpoints(cv, s)
	if math.Abs(y1-50) > 1e-9 || math.Abs(y2-50) > 1e-9 {
		t.Fatalf("horizontal line endpoints y = %v, %v, want 50", y1, y2)
	}
	if math.Abs((x2-x1)-40) > 1e-9 {
		t.Fatalf("length = %v, want 40px for Size 0.4", x2-x1)
	}

	s.Rotation = 90
	x1, y1, x2, y2 = lineEndpoints(cv, s)
	if math.Abs(x1-x2) > 1e-9 {
		t.Fatalf("vertical line endpoints x = %v, %v, want equal", x1, x2)
	}
	if math.Abs((y2-y1)-40) > 1e-9 {
		t.Fatalf("vertical length = %v, want 40px", y2-y1)
	}
}

func TestCircleRings(t *testing.T) {
	cv := newCanvas(100, 100)
	s := core.Shape{Kind: core.KindCircle, X: 0.5, Y: 0.5, Size: 0.1, Rings: 3}

	rings := circleRings(cv, s)
	want := []float64{6, 3.6, 2.16}
	if len(rings) != len(want) {
		t.Fatalf("len(rings) = %d, want %d", len(rings), len(want))
	}
	for i := range want {
		if math.Abs(rings[i]-want[i]) > 1e-9 {
			t.Fatalf("ring %d = %v, want %v", i, rings[i], want[i])
		}
	}

	s.Rings = 0
	if got := circleRings(cv, s); len(got) != 0 {
		t.Fatalf("rings for Rings=0 = %v, want none", got)
	}
}

func TestToNRGBA(t *testing.T) {
	got := toNRGBA(core.Color{R: 1, G: 0.5, B: 0, A: 0.5})
	if got.R != 255 || got.G != 128 || got.B != 0 || got.A != 128 {
		t.Fatalf("toNRGBA = %+v, want {255 128 0 128}", got)
	}
}

func TestWithAlphaScale(t *testing.T) {
	c := withAlphaScale(core.Color{R: 0.2, G: 0.4, B: 0.6, A: 0.8}, haloAlpha)
	if math.Abs(c.A-0.2) > 1e-9 {
		t.Fatalf("scaled alpha = %v, want 0.2", c.A)
	}
	if c.R != 0.2 || c.G != 0.4 || c.B != 0.6 {
		t.Fatalf("color channels changed: %+v", c)
	}
}
