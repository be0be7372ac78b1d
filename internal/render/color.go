package render

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is a linear RGBA color with components in 0..1.
type Color struct {
	R, G, B, A float32
}

// Predefined colors.
var (
	White        = Color{1, 1, 1, 1}
	Black        = Color{0, 0, 0, 1}
	Transparent  = Color{}
	Red          = Color{1, 0, 0, 1}
	Green        = Color{0, 1, 0, 1}
	Blue         = Color{0, 0, 1, 1}
	Yellow       = Color{1, 1, 0, 1}
	Orange       = Color{1, 0.55, 0, 1}
	Gray         = Color{0.5, 0.5, 0.5, 1}
	SkyBlue      = Color{0.53, 0.81, 0.92, 1}
	AntiqueWhite = Color{0.98, 0.92, 0.84, 1}
	Charcoal     = Color{0.13, 0.137, 0.137, 1}
)

// Array returns the color as a 4-element array.
func (c Color) Array() [4]float32 {
	return [4]float32{c.R, c.G, c.B, c.A}
}

// WithAlpha returns c with alpha replaced.
func (c Color) WithAlpha(a float32) Color {
	c.A = a
	return c
}

// ParseColor parses "#rrggbb", "#rrggbbaa" or a list of 3 or 4 comma
// separated floats in 0..1.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		return parseHex(s[1:])
	}

	parts := strings.Split(s, ",")
	if len(parts) != 3 && len(parts) != 4 {
		return Color{}, fmt.Errorf("render: color %q: expected 3 or 4 components", s)
	}
	v := [4]float32{0, 0, 0, 1}
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return Color{}, fmt.Errorf("render: color %q: %w", s, err)
		}
		if f < 0 || f > 1 {
			return Color{}, fmt.Errorf("render: color %q: component %d out of range", s, i)
		}
		v[i] = float32(f)
	}
	return Color{v[0], v[1], v[2], v[3]}, nil
}

func parseHex(h string) (Color, error) {
	if len(h) != 6 && len(h) != 8 {
		return Color{}, fmt.Errorf("render: color #%s: expected 6 or 8 hex digits", h)
	}
	n, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("render: color #%s: %w", h, err)
	}
	if len(h) == 6 {
		n = n<<8 | 0xff
	}
	return Color{
		R: float32(n>>24&0xff) / 255,
		G: float32(n>>16&0xff) / 255,
		B: float32(n>>8&0xff) / 255,
		A: float32(n&0xff) / 255,
	}, nil
}
