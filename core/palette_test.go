package core

import (
	"math"
	"testing"
)

func newTestMapper(t *testing.T) *ColorMapper {
	t.Helper()
	cm, err := NewColorMapper(DefaultConfig())
	if err != nil {
		t.Fatalf("NewColorMapper: %v", err)
	}
	return cm
}

func TestColorEndpointsReturnPaletteExactly(t *testing.T) {
	cm := newTestMapper(t)

	for _, g := range []PaletteGroup{PalettePrimary, PaletteSecondary, PaletteAccent, PaletteNeutral} {
		pal := DefaultConfig().Palettes.group(g)
		if got := cm.Color(g, 0); got != pal[0] {
			t.Fatalf("Color(%d, 0) = %v, want %v", g, got, pal[0])
		}
		if got := cm.Color(g, 1); got != pal[len(pal)-1] {
			t.Fatalf("Color(%d, 1) = %v, want %v", g, got, pal[len(pal)-1])
		}
	}
}

func TestColorInterpolatesBetweenNeighbours(t *testing.T) {
	cm := newTestMapper(t)
	pal := DefaultConfig().Palettes.Primary

	// With 6 entries, primary=0.1 lands halfway between entries 0 and 1.
	got := cm.Color(PalettePrimary, 0.1)
	want := lerpColor(pal[0], pal[1], 0.5)
	if !colorsClose(got, want) {
		t.Fatalf("Color(primary, 0.1) = %v, want %v", got, want)
	}
}

func TestColorIsDeterministic(t *testing.T) {
	cm := newTestMapper(t)

	for p := 0.0; p <= 1.0; p += 0.05 {
		a := cm.Color(PaletteAccent, p)
		b := cm.Color(PaletteAccent, p)
		if a != b {
			t.Fatalf("Color(accent, %v) not deterministic: %v vs %v", p, a, b)
		}
	}
}

func TestColorAlphaFloor(t *testing.T) {
	cm := newTestMapper(t)

	got := cm.ColorAlpha(PalettePrimary, 0.5, 0)
	if got.A != minAlpha {
		t.Fatalf("ColorAlpha(.., 0).A = %v, want %v", got.A, minAlpha)
	}
	got = cm.ColorAlpha(PalettePrimary, 0.5, 1)
	if got.A != 1 {
		t.Fatalf("ColorAlpha(.., 1).A = %v, want 1", got.A)
	}
}

func TestColorAlphaMonotonicInSecondary(t *testing.T) {
	cm := newTestMapper(t)

	prev := -1.0
	for s := 0.0; s <= 1.0; s += 0.1 {
		a := cm.ColorAlpha(PaletteNeutral, 0.3, s).A
		if a <= prev {
			t.Fatalf("alpha not monotonic at secondary=%v: %v <= %v", s, a, prev)
		}
		if a < minAlpha || a > 1 {
			t.Fatalf("alpha %v outside [%v,1]", a, minAlpha)
		}
		prev = a
	}
}

func TestBackgroundColorEndpoints(t *testing.T) {
	cm := newTestMapper(t)
	refs := DefaultConfig().Background

	if got := cm.BackgroundColor(0); got != refs.Clean {
		t.Fatalf("BackgroundColor(0) = %v, want clean reference %v", got, refs.Clean)
	}
	if got := cm.BackgroundColor(1); got != refs.Polluted {
		t.Fatalf("BackgroundColor(1) = %v, want polluted reference %v", got, refs.Polluted)
	}
	// Out-of-range indices clamp to the references.
	if got := cm.BackgroundColor(1.7); got != refs.Polluted {
		t.Fatalf("BackgroundColor(1.7) = %v, want polluted reference", got)
	}
}

func TestBackgroundColorBlendsMonotonically(t *testing.T) {
	cm := newTestMapper(t)

	// The clean reference is lighter than the polluted one, so the red
	// channel must fall as the index rises.
	prev := math.Inf(1)
	for idx := 0.0; idx <= 1.0; idx += 0.25 {
		r := cm.BackgroundColor(idx).R
		if r > prev {
			t.Fatalf("background red channel rose at index %v: %v > %v", idx, r, prev)
		}
		prev = r
	}
}

func TestRGBA8Conversion(t *testing.T) {
	c := Color{R: 1, G: 0, B: 0.5, A: 1}
	r, g, b, a := c.RGBA8()
	if r != 255 || g != 0 || a != 255 {
		t.Fatalf("RGBA8 = %d,%d,%d,%d, want 255,0,128,255", r, g, b, a)
	}
	if b != 128 {
		t.Fatalf("RGBA8 blue = %d, want 128", b)
	}
}

func TestPaletteValidation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Palettes.Neutral = cfg.Palettes.Neutral[:1]

	if _, err := NewColorMapper(cfg); err == nil {
		t.Fatalf("NewColorMapper accepted a single-color palette, want error")
	}
}

func colorsClose(a, b Color) bool {
	const eps = 1e-9
	return math.Abs(a.R-b.R) < eps && math.Abs(a.G-b.G) < eps &&
		math.Abs(a.B-b.B) < eps && math.Abs(a.A-b.A) < eps
}
