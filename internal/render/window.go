package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/chromaworks/aircanvas/core"
)

// Default window dimensions when the configuration leaves them unset.
const (
	DefaultWindowWidth  = 800
	DefaultWindowHeight = 800
)

// whiteSubImage is the 1x1 texture used to fill vector paths. The 3x3 parent
// avoids bleeding at the sampled edge.
var (
	whiteImage    = ebiten.NewImage(3, 3)
	whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
)

func init() {
	whiteImage.Fill(color.White)
}

// Window shows frames in an OS window through Ebitengine. Present stores the
// latest frame under a mutex and the draw loop always paints the most recent
// one, so frames arriving faster than the display refresh are dropped rather
// than queued.
type Window struct {
	width  int
	height int
	title  string
	ctx    context.Context

	mu    sync.Mutex
	frame core.Frame
	has   bool
}

// NewWindow builds a window renderer. Run must be called on the main
// goroutine; ctx cancellation closes the window.
func NewWindow(ctx context.Context, width, height int, title string) *Window {
	if width <= 0 {
		width = DefaultWindowWidth
	}
	if height <= 0 {
		height = DefaultWindowHeight
	}
	return &Window{width: width, height: height, title: title, ctx: ctx}
}

// Present replaces the frame shown by the next Draw.
func (w *Window) Present(frame core.Frame) error {
	w.mu.Lock()
	w.frame = frame
	w.has = true
	w.mu.Unlock()
	return nil
}

// Run opens the window and blocks until it is closed or ctx ends.
func (w *Window) Run() error {
	ebiten.SetWindowSize(w.width, w.height)
	ebiten.SetWindowTitle(w.title)
	if err := ebiten.RunGame(w); err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("render: window: %w", err)
	}
	return nil
}

// Update implements ebiten.Game. The window takes no input beyond closing;
// it just watches for cancellation.
func (w *Window) Update() error {
	if w.ctx != nil && w.ctx.Err() != nil {
		return ebiten.Termination
	}
	return nil
}

// Draw implements ebiten.Game.
func (w *Window) Draw(screen *ebiten.Image) {
	w.mu.Lock()
	frame, ok := w.frame, w.has
	w.mu.Unlock()
	if !ok {
		return
	}

	drawBackground(screen, frame.Background, w.width, w.height)
	cv := newCanvas(w.width, w.height)
	for _, s := range frame.Shapes {
		drawShape(screen, cv, s)
	}
}

// Layout implements ebiten.Game with a fixed logical size.
func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	return w.width, w.height
}

func drawBackground(dst *ebiten.Image, b core.Background, width, height int) {
	for y := 0; y < height; y++ {
		c := b.At(float64(y) / float64(height-1))
		vector.DrawFilledRect(dst, 0, float32(y), float32(width), 1, toNRGBA(c), false)
	}
}

func drawShape(dst *ebiten.Image, cv canvas, s core.Shape) {
	switch s.Kind {
	case core.KindCircle:
		cx, cy := cv.point(s.X, s.Y)
		r := cv.length(s.Size)

		halo := toNRGBA(withAlphaScale(s.Fill, haloAlpha))
		vector.DrawFilledCircle(dst, float32(cx), float32(cy), float32(r*haloScale), halo, true)
		vector.DrawFilledCircle(dst, float32(cx), float32(cy), float32(r), toNRGBA(s.Fill), true)

		ring := toNRGBA(core.Color{R: 1, G: 1, B: 1, A: s.Fill.A})
		for _, rr := range circleRings(cv, s) {
			vector.StrokeCircle(dst, float32(cx), float32(cy), float32(rr), float32(ringWidth(r)), ring, true)
		}

	case core.KindTriangle:
		fillPolygon(dst, trianglePoints(cv, s), s.Fill)

	case core.KindRectangle:
		fillPolygon(dst, rectanglePoints(cv, s), s.Fill)

	case core.KindLine:
		x1, y1, x2, y2 := lineEndpoints(cv, s)
		vector.StrokeLine(dst, float32(x1), float32(y1), float32(x2), float32(y2),
			float32(cv.length(s.Size2)), toNRGBA(s.Fill), true)

	case core.KindPolygon:
		fillPolygon(dst, polygonPoints(cv, s), s.Fill)
	}
}

func fillPolygon(dst *ebiten.Image, pts [][2]float64, c core.Color) {
	if len(pts) < 3 {
		return
	}
	var p vector.Path
	p.MoveTo(float32(pts[0][0]), float32(pts[0][1]))
	for _, pt := range pts[1:] {
		p.LineTo(float32(pt[0]), float32(pt[1]))
	}
	p.Close()

	vs, is := p.AppendVerticesAndIndicesForFilling(nil, nil)
	for i := range vs {
		vs[i].SrcX = 1
		vs[i].SrcY = 1
		vs[i].ColorR = float32(c.R)
		vs[i].ColorG = float32(c.G)
		vs[i].ColorB = float32(c.B)
		vs[i].ColorA = float32(c.A)
	}
	op := &ebiten.DrawTrianglesOptions{
		AntiAlias: true,
		FillRule:  ebiten.FillRuleNonZero,
	}
	dst.DrawTriangles(vs, is, whiteSubImage, op)
}
