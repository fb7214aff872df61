package render

import (
	"context"
	"errors"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/chromaworks/aircanvas/core"
)

func TestWindowPresentKeepsLatest(t *testing.T) {
	w := NewWindow(context.Background(), 320, 240, "test")

	for tick := 0; tick < 3; tick++ {
		if err := w.Present(core.Frame{Tick: tick}); err != nil {
			t.Fatalf("Present(%d) failed: %v", tick, err)
		}
	}

	w.mu.Lock()
	frame, has := w.frame, w.has
	w.mu.Unlock()
	if !has || frame.Tick != 2 {
		t.Fatalf("latest frame = %+v, has = %v, want tick 2", frame, has)
	}
}

func TestWindowUpdateStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	w := NewWindow(ctx, 320, 240, "test")

	if err := w.Update(); err != nil {
		t.Fatalf("Update before cancel = %v, want nil", err)
	}
	cancel()
	if err := w.Update(); !errors.Is(err, ebiten.Termination) {
		t.Fatalf("Update after cancel = %v, want ebiten.Termination", err)
	}
}

func TestWindowLayoutIsFixed(t *testing.T) {
	w := NewWindow(context.Background(), 320, 240, "test")

	gw, gh := w.Layout(1920, 1080)
	if gw != 320 || gh != 240 {
		t.Fatalf("Layout = (%d, %d), want (320, 240)", gw, gh)
	}
}

func TestNewWindowDefaults(t *testing.T) {
	w := NewWindow(context.Background(), 0, -5, "")

	if w.width != DefaultWindowWidth || w.height != DefaultWindowHeight {
		t.Fatalf("size = %dx%d, want %dx%d defaults",
			w.width, w.height, DefaultWindowWidth, DefaultWindowHeight)
	}
}
