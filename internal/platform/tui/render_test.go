package tui

import (
	"image"
	"image/color"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func fill(img *image.RGBA, c color.RGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

func plainPresenter() *Presenter {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.Ascii)
	return NewPresenter(r)
}

func TestRenderShape(t *testing.T) {
	p := plainPresenter()

	tests := []struct {
		name      string
		w, h      int
		wantLines int
	}{
		{"even", 5, 4, 2},
		{"odd", 3, 5, 3},
		{"single row", 2, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := p.Render(image.NewRGBA(image.Rect(0, 0, tt.w, tt.h)))
			lines := strings.Split(out, "\n")
			if len(lines) != tt.wantLines {
				t.Fatalf("Render() has %d lines, expected %d", len(lines), tt.wantLines)
			}
			for i, l := range lines {
				if n := strings.Count(l, halfBlock); n != tt.w {
					t.Errorf("line %d has %d cells, expected %d", i, n, tt.w)
				}
			}
		})
	}
}

func TestRenderEmpty(t *testing.T) {
	p := plainPresenter()
	if out := p.Render(image.NewRGBA(image.Rect(0, 0, 0, 0))); out != "" {
		t.Errorf("Render() of empty image = %q, expected empty", out)
	}
}

func TestRenderColors(t *testing.T) {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.TrueColor)
	p := NewPresenter(r)

	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	fill(img, color.RGBA{A: 0xff})
	img.SetRGBA(3, 0, color.RGBA{R: 0xff, A: 0xff})

	out := p.Render(img)
	// Red foreground over a black background for the last cell.
	if !strings.Contains(out, "38;2;255;0;0") {
		t.Errorf("Render() lacks the red foreground: %q", out)
	}
	// Three black cells form a single run.
	if !strings.Contains(out, strings.Repeat(halfBlock, 3)) {
		t.Errorf("Render() did not group equal cells: %q", out)
	}
}

func TestStyleCacheBounded(t *testing.T) {
	p := plainPresenter()
	img := image.NewRGBA(image.Rect(0, 0, 256, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 256; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x), G: uint8(y), A: 0xff})
		}
	}
	p.Render(img)
	if len(p.styles) > maxStyles {
		t.Errorf("style cache holds %d entries, expected at most %d", len(p.styles), maxStyles)
	}
}
