package tui

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// halfBlock shows the upper pixel as foreground and the lower as background.
const halfBlock = "▀"

// maxStyles bounds the style cache; blended edges produce many colors.
const maxStyles = 4096

type cellColors struct {
	top, bottom color.RGBA
}

// Presenter turns a framebuffer into terminal cells, two pixel rows per
// line.
type Presenter struct {
	renderer *lipgloss.Renderer
	styles   map[cellColors]lipgloss.Style
}

// NewPresenter returns a presenter styling through r, or through the default
// renderer when r is nil.
func NewPresenter(r *lipgloss.Renderer) *Presenter {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return &Presenter{
		renderer: r,
		styles:   make(map[cellColors]lipgloss.Style),
	}
}

// Render converts img to a styled string.
// Groups adjacent cells with the same colors to minimize ANSI escape sequences.
func (p *Presenter) Render(img *image.RGBA) string {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return ""
	}

	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(w * (h/2 + 1) * 8)

	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		if y > b.Min.Y {
			sb.WriteRune('\n')
		}

		x := b.Min.X
		for x < b.Max.X {
			start := p.cell(img, x, y)
			n := 0
			for x < b.Max.X && p.cell(img, x, y) == start {
				n++
				x++
			}
			sb.WriteString(p.style(start).Render(strings.Repeat(halfBlock, n)))
		}
	}
	return sb.String()
}

// cell returns the colors of the cell whose upper pixel is (x, y). An odd
// last row repeats its color in the lower half.
func (p *Presenter) cell(img *image.RGBA, x, y int) cellColors {
	c := cellColors{top: img.RGBAAt(x, y)}
	if y+1 < img.Bounds().Max.Y {
		c.bottom = img.RGBAAt(x, y+1)
	} else {
		c.bottom = c.top
	}
	return c
}

func (p *Presenter) style(c cellColors) lipgloss.Style {
	if s, ok := p.styles[c]; ok {
		return s
	}
	s := p.renderer.NewStyle().
		Foreground(lipgloss.Color(hex(c.top))).
		Background(lipgloss.Color(hex(c.bottom)))
	if len(p.styles) >= maxStyles {
		clear(p.styles)
	}
	p.styles[c] = s
	return s
}

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
