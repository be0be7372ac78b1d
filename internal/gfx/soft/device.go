// Package soft implements gfx.Context with a CPU rasterizer.
// It draws indexed triangles into an RGBA framebuffer that a backend presents
// however it likes (the terminal backend turns it into half-block cells).
//
// The device does not execute GLSL. Shader sources are checked for the names
// they declare, and drawing uses a fixed function derived from the shader meta:
// the first Mat4 uniform transforms positions, the first Float4 uniform tints,
// and the first image is sampled (nearest) with the second Float2 attribute.
package soft

import (
	"fmt"
	"image"

	"github.com/vovakirdan/tui-stage/internal/gfx"
)

// Stats describes the last committed frame.
type Stats struct {
	Frames    uint64 // Frames committed since creation
	Draws     int    // Draw calls in the last frame
	Triangles int    // Triangles rasterized in the last frame
}

type shader struct {
	vertex    string
	fragment  string
	meta      gfx.ShaderMeta
	transform int // float offset of the transform uniform, -1 if none
	color     int // float offset of the color uniform, -1 if none
	sampled   bool
}

type pipeline struct {
	shader *shader
	stride int // floats per vertex
	pos    int // float offset of the position attribute
	uv     int // float offset of the texcoord attribute, -1 if none
}

type texture struct {
	w, h int
	pix  []uint8 // RGBA
	wrap gfx.WrapMode
}

// Device is a software gfx.Context.
type Device struct {
	width, height int
	back          *image.RGBA
	front         *image.RGBA

	nextID    uint32
	vbufs     map[gfx.Buffer][]float32
	ibufs     map[gfx.Buffer][]uint16
	shaders   map[gfx.Shader]*shader
	pipelines map[gfx.Pipeline]*pipeline
	textures  map[gfx.Texture]*texture

	inPass   bool
	pipe     *pipeline
	bind     gfx.Bindings
	uniforms []float32

	stats     Stats
	draws     int
	triangles int
}

var _ gfx.Context = (*Device)(nil)

// New creates a device with a framebuffer of the given size.
func New(width, height int) *Device {
	d := &Device{
		vbufs:     make(map[gfx.Buffer][]float32),
		ibufs:     make(map[gfx.Buffer][]uint16),
		shaders:   make(map[gfx.Shader]*shader),
		pipelines: make(map[gfx.Pipeline]*pipeline),
		textures:  make(map[gfx.Texture]*texture),
		uniforms:  make([]float32, 0, 32),
	}
	d.Resize(width, height)
	return d
}

// Resize reallocates the framebuffer. Negative sizes are treated as zero.
func (d *Device) Resize(width, height int) {
	width = max(width, 0)
	height = max(height, 0)
	if d.back != nil && width == d.width && height == d.height {
		return
	}
	d.width = width
	d.height = height
	d.back = image.NewRGBA(image.Rect(0, 0, width, height))
	d.front = image.NewRGBA(image.Rect(0, 0, width, height))
}

// Frame returns the last committed frame. The image is reused by the next
// Commit, so callers must not keep it across frames.
func (d *Device) Frame() *image.RGBA {
	return d.front
}

// Stats returns statistics for the last committed frame.
func (d *Device) Stats() Stats {
	return d.stats
}

// ScreenSize returns the framebuffer size in pixels.
func (d *Device) ScreenSize() (float32, float32) {
	return float32(d.width), float32(d.height)
}

func (d *Device) id() uint32 {
	d.nextID++
	return d.nextID
}

// NewVertexBuffer copies vertices into a new immutable buffer.
func (d *Device) NewVertexBuffer(vertices []float32) (gfx.Buffer, error) {
	b := gfx.Buffer(d.id())
	d.vbufs[b] = append([]float32(nil), vertices...)
	return b, nil
}

// NewIndexBuffer copies indices into a new immutable buffer.
func (d *Device) NewIndexBuffer(indices []uint16) (gfx.Buffer, error) {
	b := gfx.Buffer(d.id())
	d.ibufs[b] = append([]uint16(nil), indices...)
	return b, nil
}

// NewShader checks the sources against meta and records the uniform layout.
func (d *Device) NewShader(vertex, fragment string, meta gfx.ShaderMeta) (gfx.Shader, error) {
	if err := gfx.CheckShaderSource(vertex, fragment, meta, nil); err != nil {
		return 0, err
	}

	sh := &shader{vertex: vertex, fragment: fragment, meta: meta, transform: -1, color: -1}
	off := 0
	for _, u := range meta.Uniforms {
		switch {
		case u.Type == gfx.UniformMat4 && sh.transform < 0:
			sh.transform = off
		case u.Type == gfx.UniformFloat4 && sh.color < 0:
			sh.color = off
		}
		off += u.Type.Floats()
	}
	sh.sampled = len(meta.Images) > 0

	s := gfx.Shader(d.id())
	d.shaders[s] = sh
	return s, nil
}

// NewPipeline binds a vertex layout to a shader.
func (d *Device) NewPipeline(layout gfx.BufferLayout, attrs []gfx.VertexAttribute, s gfx.Shader) (gfx.Pipeline, error) {
	sh, ok := d.shaders[s]
	if !ok {
		return 0, fmt.Errorf("soft: pipeline shader %d: %w", s, gfx.ErrInvalidHandle)
	}
	if err := gfx.CheckShaderSource(sh.vertex, sh.fragment, sh.meta, attrs); err != nil {
		return 0, err
	}

	p := &pipeline{shader: sh, pos: -1, uv: -1}
	off := 0
	for _, a := range attrs {
		if a.Format == gfx.Float2 {
			switch {
			case p.pos < 0:
				p.pos = off
			case p.uv < 0:
				p.uv = off
			}
		}
		off += a.Format.Floats()
	}
	if p.pos < 0 {
		return 0, fmt.Errorf("%w: no Float2 position attribute", gfx.ErrShaderCompile)
	}
	p.stride = off
	if layout.Stride > 0 {
		p.stride = layout.Stride / 4
	}

	h := gfx.Pipeline(d.id())
	d.pipelines[h] = p
	return h, nil
}

// NewTexture copies pixel data into a new texture.
func (d *Device) NewTexture(pixels []byte, params gfx.TextureParams) (gfx.Texture, error) {
	if err := params.Validate(pixels); err != nil {
		return 0, fmt.Errorf("soft: texture %dx%d: %w", params.Width, params.Height, err)
	}

	tex := &texture{w: params.Width, h: params.Height, wrap: params.Wrap}
	if params.Format == gfx.RGB8 {
		tex.pix = make([]uint8, 0, params.Width*params.Height*4)
		for i := 0; i < len(pixels); i += 3 {
			tex.pix = append(tex.pix, pixels[i], pixels[i+1], pixels[i+2], 0xff)
		}
	} else {
		tex.pix = append([]uint8(nil), pixels...)
	}

	t := gfx.Texture(d.id())
	d.textures[t] = tex
	return t, nil
}

// DeleteBuffer releases a vertex or index buffer.
func (d *Device) DeleteBuffer(b gfx.Buffer) {
	delete(d.vbufs, b)
	delete(d.ibufs, b)
}

// DeleteTexture releases a texture.
func (d *Device) DeleteTexture(t gfx.Texture) {
	delete(d.textures, t)
}

// BeginDefaultPass starts drawing into the framebuffer.
func (d *Device) BeginDefaultPass(action gfx.PassAction) {
	d.inPass = true
	d.pipe = nil
	if action.Clear {
		d.clear(action.Color)
	}
}

// EndRenderPass stops accepting draws until the next pass.
func (d *Device) EndRenderPass() {
	d.inPass = false
	d.pipe = nil
}

// ApplyPipeline selects the pipeline for following draws.
// Unknown handles leave no pipeline applied, so draws are skipped.
func (d *Device) ApplyPipeline(p gfx.Pipeline) {
	d.pipe = d.pipelines[p]
}

// ApplyBindings selects buffers and texture for following draws.
func (d *Device) ApplyBindings(b gfx.Bindings) {
	d.bind = b
}

// ApplyUniforms stores the uniform block for following draws.
func (d *Device) ApplyUniforms(values []float32) {
	d.uniforms = append(d.uniforms[:0], values...)
}

// Commit publishes the back buffer as the current frame.
func (d *Device) Commit() {
	copy(d.front.Pix, d.back.Pix)
	d.stats = Stats{
		Frames:    d.stats.Frames + 1,
		Draws:     d.draws,
		Triangles: d.triangles,
	}
	d.draws = 0
	d.triangles = 0
}

func (d *Device) clear(c [4]float32) {
	r, g, b, a := to8(c[0]), to8(c[1]), to8(c[2]), to8(c[3])
	pix := d.back.Pix
	for i := 0; i+3 < len(pix); i += 4 {
		pix[i], pix[i+1], pix[i+2], pix[i+3] = r, g, b, a
	}
}

func to8(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 0xff
	default:
		return uint8(v*255 + 0.5)
	}
}
