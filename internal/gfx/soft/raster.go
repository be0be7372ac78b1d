package soft

import (
	"math"

	"github.com/vovakirdan/tui-stage/internal/gfx"
)

type vertex struct {
	x, y float32 // framebuffer pixels
	u, v float32
}

var (
	identity = [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}
	white    = [4]float32{1, 1, 1, 1}
)

// Draw rasterizes numElements indices starting at base as a triangle list.
// Instancing has no per-instance data here, so numInstances only has to be
// positive for anything to be drawn.
func (d *Device) Draw(base, numElements, numInstances int) {
	if !d.inPass || d.pipe == nil || numInstances <= 0 || base < 0 {
		return
	}
	vb, ok := d.vbufs[d.bind.VertexBuffer]
	if !ok {
		return
	}
	ib, ok := d.ibufs[d.bind.IndexBuffer]
	if !ok {
		return
	}
	end := min(base+numElements, len(ib))

	p := d.pipe
	m := d.uniformBlock(p.shader.transform, identity[:])
	var col [4]float32
	copy(col[:], d.uniformBlock(p.shader.color, white[:]))

	var tex *texture
	if p.shader.sampled {
		tex = d.textures[d.bind.Image]
	}

	d.draws++
	for i := base; i+2 < end; i += 3 {
		var tri [3]vertex
		ok := true
		for j := range tri {
			tri[j], ok = d.fetch(vb, int(ib[i+j]), m)
			if !ok {
				break
			}
		}
		if ok {
			d.triangle(tri, tex, col)
		}
	}
}

func (d *Device) uniformBlock(off int, fallback []float32) []float32 {
	if off < 0 || off+len(fallback) > len(d.uniforms) {
		return fallback
	}
	return d.uniforms[off : off+len(fallback)]
}

// fetch reads one vertex, applies the column-major transform m and maps the
// result from clip space to framebuffer pixels.
func (d *Device) fetch(vb []float32, idx int, m []float32) (vertex, bool) {
	p := d.pipe
	off := idx * p.stride
	if off+p.pos+1 >= len(vb) {
		return vertex{}, false
	}
	x, y := vb[off+p.pos], vb[off+p.pos+1]

	cx := m[0]*x + m[4]*y + m[12]
	cy := m[1]*x + m[5]*y + m[13]
	cw := m[3]*x + m[7]*y + m[15]
	if cw == 0 {
		return vertex{}, false
	}
	cx /= cw
	cy /= cw

	v := vertex{
		x: (cx + 1) * 0.5 * float32(d.width),
		y: (1 - cy) * 0.5 * float32(d.height),
	}
	if p.uv >= 0 && off+p.uv+1 < len(vb) {
		v.u, v.v = vb[off+p.uv], vb[off+p.uv+1]
	}
	return v, true
}

func edge(a, b vertex, px, py float32) float32 {
	return (px-a.x)*(b.y-a.y) - (py-a.y)*(b.x-a.x)
}

// triangle fills pixels whose centers lie inside the triangle, accepting
// either winding.
func (d *Device) triangle(t [3]vertex, tex *texture, col [4]float32) {
	area := edge(t[0], t[1], t[2].x, t[2].y)
	if area == 0 {
		return
	}

	minX := clampInt(int(min(t[0].x, t[1].x, t[2].x)), 0, d.width)
	maxX := clampInt(int(max(t[0].x, t[1].x, t[2].x))+1, 0, d.width)
	minY := clampInt(int(min(t[0].y, t[1].y, t[2].y)), 0, d.height)
	maxY := clampInt(int(max(t[0].y, t[1].y, t[2].y))+1, 0, d.height)
	if minX >= maxX || minY >= maxY {
		return
	}
	d.triangles++

	for y := minY; y < maxY; y++ {
		py := float32(y) + 0.5
		for x := minX; x < maxX; x++ {
			px := float32(x) + 0.5
			w0 := edge(t[1], t[2], px, py) / area
			w1 := edge(t[2], t[0], px, py) / area
			w2 := edge(t[0], t[1], px, py) / area
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}

			c := col
			if tex != nil {
				u := w0*t[0].u + w1*t[1].u + w2*t[2].u
				v := w0*t[0].v + w1*t[1].v + w2*t[2].v
				s := tex.sample(u, v)
				for k := range c {
					c[k] *= s[k]
				}
			}
			d.blend(x, y, c)
		}
	}
}

// blend composites c over the back buffer pixel at (x, y).
func (d *Device) blend(x, y int, c [4]float32) {
	i := d.back.PixOffset(x, y)
	pix := d.back.Pix[i : i+4 : i+4]
	a := clamp01(c[3])
	for k := 0; k < 3; k++ {
		dst := float32(pix[k]) / 255
		pix[k] = to8(c[k]*a + dst*(1-a))
	}
	da := float32(pix[3]) / 255
	pix[3] = to8(a + da*(1-a))
}

func (t *texture) sample(u, v float32) [4]float32 {
	x := t.coord(u, t.w)
	y := t.coord(v, t.h)
	i := (y*t.w + x) * 4
	return [4]float32{
		float32(t.pix[i]) / 255,
		float32(t.pix[i+1]) / 255,
		float32(t.pix[i+2]) / 255,
		float32(t.pix[i+3]) / 255,
	}
}

func (t *texture) coord(f float32, size int) int {
	n := int(math.Floor(float64(f * float32(size))))
	if t.wrap == gfx.WrapRepeat {
		n %= size
		if n < 0 {
			n += size
		}
		return n
	}
	return clampInt(n, 0, size-1)
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

func clamp01(v float32) float32 {
	return max(0, min(v, 1))
}
