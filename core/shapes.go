package core

// ShapeKind discriminates the shape descriptor variants.
type ShapeKind int

const (
	KindCircle ShapeKind = iota
	KindTriangle
	KindRectangle
	KindLine
	KindPolygon
)

func (k ShapeKind) String() string {
	switch k {
	case KindCircle:
		return "circle"
	case KindTriangle:
		return "triangle"
	case KindRectangle:
		return "rectangle"
	case KindLine:
		return "line"
	case KindPolygon:
		return "polygon"
	default:
		return "unknown"
	}
}

// Shape is a renderer-agnostic drawing instruction. Coordinates live on the
// unit canvas: (0,0) is the top-left corner, (1,1) the bottom-right, and all
// sizes are fractions of the canvas edge. Which fields are meaningful depends
// on Kind:
//
//	circle     Size = radius, Rings = nested inner circles (1..3)
//	triangle   Size = side length of the equilateral, Rotation in degrees
//	rectangle  Size = half-width, Size2 = half-height
//	line       Size = length, Size2 = stroke width, Rotation = direction
//	polygon    Size = circumradius, Vertices = corner count, Rotation spin
//
// Unused fields are zero. Z is the paint order; higher Z paints later.
type Shape struct {
	Kind     ShapeKind
	X        float64
	Y        float64
	Size     float64
	Size2    float64
	Rotation float64
	Vertices int
	Rings    int
	Fill     Color
	Z        int
}

// Background is a vertical gradient pair; renderers may collapse it to a
// solid fill of Top when gradients are unavailable.
type Background struct {
	Top    Color
	Bottom Color
}

// At samples the gradient at t, where 0 is the top edge and 1 the bottom.
func (b Background) At(t float64) Color {
	return lerpColor(b.Top, b.Bottom, clamp01(t))
}

// Frame is one complete composed image: a background plus a fixed-size shape
// list ordered by ascending Z. Frames are plain data and safe to hand across
// goroutines once composed.
type Frame struct {
	Tick       int
	Background Background
	Shapes     []Shape
}
