package core

import (
	"fmt"
	"math"
	"strconv"
)

// Color is an RGBA color with channels in [0,1]. Renderers convert to their
// native representation at the edge.
type Color struct {
	R float64
	G float64
	B float64
	A float64
}

// RGBA8 returns the color as 8-bit channels.
func (c Color) RGBA8() (r, g, b, a uint8) {
	return to8(c.R), to8(c.G), to8(c.B), to8(c.A)
}

func to8(v float64) uint8 {
	return uint8(math.Round(clamp01(v) * 255))
}

// PaletteGroup selects one of the four fixed palettes.
type PaletteGroup int

const (
	PalettePrimary PaletteGroup = iota
	PaletteSecondary
	PaletteAccent
	PaletteNeutral
)

// PaletteSet bundles the four palettes the generators draw from.
type PaletteSet struct {
	Primary   []Color
	Secondary []Color
	Accent    []Color
	Neutral   []Color
}

// minAlpha is the transparency floor: a shape may be faint but never
// invisible.
const minAlpha = 0.15

// The stock palettes, Kandinsky-styled. Order matters: position along the
// palette encodes intensity, so entries run from calm to loud hues.
var (
	paletteLoud = []Color{
		mustHex("#FF6B6B"), mustHex("#4ECDC4"), mustHex("#45B7D1"),
		mustHex("#96CEB4"), mustHex("#FFEAA7"), mustHex("#DDA0DD"),
	}
	paletteWarm = []Color{
		mustHex("#FF8E53"), mustHex("#6C5CE7"), mustHex("#A29BFE"),
		mustHex("#FD79A8"), mustHex("#FDCB6E"), mustHex("#6C5CE7"),
	}
	paletteEarth = []Color{
		mustHex("#E17055"), mustHex("#00B894"), mustHex("#0984E3"),
		mustHex("#00CEC9"), mustHex("#FDCB6E"), mustHex("#E84393"),
	}
	paletteMuted = []Color{
		mustHex("#2D3436"), mustHex("#636E72"), mustHex("#74B9FF"),
		mustHex("#81ECEC"), mustHex("#FAB1A0"), mustHex("#FF7675"),
	}

	backgroundClean    = mustHex("#E5DBC3")
	backgroundPolluted = mustHex("#B29B5A")
)

// DefaultPalettes returns copies of the stock palettes so callers can swap
// individual entries without touching package state.
func DefaultPalettes() PaletteSet {
	return PaletteSet{
		Primary:   append([]Color(nil), paletteLoud...),
		Secondary: append([]Color(nil), paletteWarm...),
		Accent:    append([]Color(nil), paletteEarth...),
		Neutral:   append([]Color(nil), paletteMuted...),
	}
}

func (ps PaletteSet) group(g PaletteGroup) []Color {
	switch g {
	case PaletteSecondary:
		return ps.Secondary
	case PaletteAccent:
		return ps.Accent
	case PaletteNeutral:
		return ps.Neutral
	default:
		return ps.Primary
	}
}

func (ps PaletteSet) validate() error {
	for _, pal := range []struct {
		name   string
		colors []Color
	}{
		{"primary", ps.Primary},
		{"secondary", ps.Secondary},
		{"accent", ps.Accent},
		{"neutral", ps.Neutral},
	} {
		if len(pal.colors) < 2 {
			return fmt.Errorf("palette %q needs at least two colors, has %d", pal.name, len(pal.colors))
		}
	}
	return nil
}

// ColorMapper turns normalized values into palette colors. Selection is
// continuous: the primary value picks a position along the palette and the
// two neighbouring entries are interpolated, so nearby inputs yield nearby
// colors.
type ColorMapper struct {
	palettes   PaletteSet
	background BackgroundRefs
}

// NewColorMapper builds a mapper from the configuration.
func NewColorMapper(cfg Config) (*ColorMapper, error) {
	if err := cfg.Palettes.validate(); err != nil {
		return nil, err
	}
	return &ColorMapper{palettes: cfg.Palettes, background: cfg.Background}, nil
}

// Color maps a normalized primary value onto the palette. primary=0 yields
// the first palette entry exactly, primary=1 the last.
func (cm *ColorMapper) Color(g PaletteGroup, primary float64) Color {
	pal := cm.palettes.group(g)
	primary = clamp01(primary)

	pos := primary * float64(len(pal)-1)
	i := int(pos)
	if i >= len(pal)-1 {
		return pal[len(pal)-1]
	}
	return lerpColor(pal[i], pal[i+1], pos-float64(i))
}

// ColorAlpha maps primary onto the palette as Color does, then derives the
// alpha channel from the secondary value: alpha rises monotonically with
// secondary and is floored at minAlpha so shapes never vanish entirely.
func (cm *ColorMapper) ColorAlpha(g PaletteGroup, primary, secondary float64) Color {
	c := cm.Color(g, primary)
	c.A = minAlpha + (1-minAlpha)*clamp01(secondary)
	return c
}

// BackgroundColor blends the clean reference toward the polluted reference by
// the aggregate pollution index. The endpoints return the reference colors
// exactly.
func (cm *ColorMapper) BackgroundColor(index float64) Color {
	index = clamp01(index)
	if index == 0 {
		return cm.background.Clean
	}
	if index == 1 {
		return cm.background.Polluted
	}
	return lerpColor(cm.background.Clean, cm.background.Polluted, index)
}

func lerpColor(a, b Color, t float64) Color {
	return Color{
		R: a.R + (b.R-a.R)*t,
		G: a.G + (b.G-a.G)*t,
		B: a.B + (b.B-a.B)*t,
		A: a.A + (b.A-a.A)*t,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// mustHex parses "#RRGGBB" into a Color with full alpha. It panics on
// malformed literals; it is only used for the compiled-in palettes.
func mustHex(s string) Color {
	if len(s) != 7 || s[0] != '#' {
		panic(fmt.Sprintf("malformed hex color %q", s))
	}
	r, err1 := strconv.ParseUint(s[1:3], 16, 8)
	g, err2 := strconv.ParseUint(s[3:5], 16, 8)
	b, err3 := strconv.ParseUint(s[5:7], 16, 8)
	if err1 != nil || err2 != nil || err3 != nil {
		panic(fmt.Sprintf("malformed hex color %q", s))
	}
	return Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255, A: 1}
}
