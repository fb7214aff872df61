package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"

	"github.com/chromaworks/aircanvas/core"
	"github.com/chromaworks/aircanvas/internal/logging"
)

// PNG writes each presented frame to dir as frame_<tick>.png. It is the
// headless renderer used by the exporter binary.
type PNG struct {
	dir    string
	width  int
	height int
	log    logging.Logger
}

// NewPNG creates dir if needed and returns a renderer producing width x
// height images.
func NewPNG(dir string, width, height int, log logging.Logger) (*PNG, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("render: invalid png size %dx%d", width, height)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("render: create output dir: %w", err)
	}
	if log == nil {
		log = logging.Noop()
	}
	return &PNG{dir: dir, width: width, height: height, log: log}, nil
}

// Present rasterizes the frame and writes it to disk. The file is named by
// the frame's tick, so re-presenting a tick overwrites its image.
func (p *PNG) Present(frame core.Frame) error {
	dc := gg.NewContext(p.width, p.height)

	grad := gg.NewLinearGradient(0, 0, 0, float64(p.height))
	grad.AddColorStop(0, toNRGBA(frame.Background.Top))
	grad.AddColorStop(1, toNRGBA(frame.Background.Bottom))
	dc.SetFillStyle(grad)
	dc.DrawRectangle(0, 0, float64(p.width), float64(p.height))
	dc.Fill()

	cv := newCanvas(p.width, p.height)
	for _, s := range frame.Shapes {
		p.drawShape(dc, cv, s)
	}

	path := filepath.Join(p.dir, fmt.Sprintf("frame_%05d.png", frame.Tick))
	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("render: save %s: %w", path, err)
	}
	p.log.Debug(context.Background(), "frame written", logging.String("path", path))
	return nil
}

// Close is a no-op; every frame is flushed on Present.
func (p *PNG) Close() error { return nil }

func (p *PNG) drawShape(dc *gg.Context, cv canvas, s core.Shape) {
	switch s.Kind {
	case core.KindCircle:
		cx, cy := cv.point(s.X, s.Y)
		r := cv.length(s.Size)

		setColor(dc, withAlphaScale(s.Fill, haloAlpha))
		dc.DrawCircle(cx, cy, r*haloScale)
		dc.Fill()

		setColor(dc, s.Fill)
		dc.DrawCircle(cx, cy, r)
		dc.Fill()

		setColor(dc, core.Color{R: 1, G: 1, B: 1, A: s.Fill.A})
		dc.SetLineWidth(ringWidth(r))
		for _, rr := range circleRings(cv, s) {
			dc.DrawCircle(cx, cy, rr)
			dc.Stroke()
		}

	case core.KindTriangle:
		fillPath(dc, trianglePoints(cv, s), s.Fill)

	case core.KindRectangle:
		fillPath(dc, rectanglePoints(cv, s), s.Fill)

	case core.KindLine:
		x1, y1, x2, y2 := lineEndpoints(cv, s)
		setColor(dc, s.Fill)
		dc.SetLineWidth(cv.length(s.Size2))
		dc.DrawLine(x1, y1, x2, y2)
		dc.Stroke()

	case core.KindPolygon:
		fillPath(dc, polygonPoints(cv, s), s.Fill)
	}
}

func fillPath(dc *gg.Context, pts [][2]float64, c core.Color) {
	if len(pts) < 3 {
		return
	}
	setColor(dc, c)
	dc.MoveTo(pts[0][0], pts[0][1])
	for _, pt := range pts[1:] {
		dc.LineTo(pt[0], pt[1])
	}
	dc.ClosePath()
	dc.Fill()
}

func setColor(dc *gg.Context, c core.Color) {
	dc.SetRGBA(c.R, c.G, c.B, c.A)
}

func ringWidth(r float64) float64 {
	w := r * 0.06
	if w < 1 {
		w = 1
	}
	return w
}
