package soft

import (
	"errors"
	"image/color"
	"testing"

	"github.com/vovakirdan/tui-stage/internal/gfx"
)

const (
	testVS = `attribute vec2 pos; attribute vec2 uv; uniform mat4 Transform;
void main() { gl_Position = Transform * vec4(pos, 0, 1); }`
	testFS = `uniform vec4 InColor; uniform sampler2D Tex;
void main() { gl_FragColor = InColor * texture2D(Tex, uv); }`
)

var (
	testMeta = gfx.ShaderMeta{
		Uniforms: []gfx.UniformDesc{
			{Name: "Transform", Type: gfx.UniformMat4},
			{Name: "InColor", Type: gfx.UniformFloat4},
		},
		Images: []string{"Tex"},
	}
	testAttrs = []gfx.VertexAttribute{
		{Name: "pos", Format: gfx.Float2},
		{Name: "uv", Format: gfx.Float2},
	}
	// Full-screen quad in clip space.
	quadVerts = []float32{
		-1, -1, 0, 1,
		1, -1, 1, 1,
		1, 1, 1, 0,
		-1, 1, 0, 0,
	}
	quadIdx = []uint16{0, 1, 2, 0, 2, 3}
)

func setup(t *testing.T, d *Device) (gfx.Pipeline, gfx.Bindings) {
	t.Helper()

	sh, err := d.NewShader(testVS, testFS, testMeta)
	if err != nil {
		t.Fatalf("NewShader() error = %v", err)
	}
	pip, err := d.NewPipeline(gfx.BufferLayout{}, testAttrs, sh)
	if err != nil {
		t.Fatalf("NewPipeline() error = %v", err)
	}
	vb, _ := d.NewVertexBuffer(quadVerts)
	ib, _ := d.NewIndexBuffer(quadIdx)
	tex, err := d.NewTexture([]byte{0xff, 0xff, 0xff, 0xff}, gfx.TextureParams{Width: 1, Height: 1})
	if err != nil {
		t.Fatalf("NewTexture() error = %v", err)
	}

	return pip, gfx.Bindings{VertexBuffer: vb, IndexBuffer: ib, Image: tex}
}

func uniforms(c [4]float32) []float32 {
	u := append([]float32(nil), identity[:]...)
	return append(u, c[:]...)
}

func TestClear(t *testing.T) {
	d := New(4, 2)
	d.BeginDefaultPass(gfx.PassAction{Clear: true, Color: [4]float32{1, 0, 0, 1}})
	d.EndRenderPass()
	d.Commit()

	want := color.RGBA{R: 0xff, A: 0xff}
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			if got := d.Frame().RGBAAt(x, y); got != want {
				t.Fatalf("pixel (%d,%d) = %v, expected %v", x, y, got, want)
			}
		}
	}
}

func TestFullScreenQuad(t *testing.T) {
	d := New(8, 8)
	pip, bind := setup(t, d)

	d.BeginDefaultPass(gfx.PassAction{Clear: true, Color: [4]float32{0, 0, 0, 1}})
	d.ApplyPipeline(pip)
	d.ApplyBindings(bind)
	d.ApplyUniforms(uniforms([4]float32{0, 1, 0, 1}))
	d.Draw(0, 6, 1)
	d.EndRenderPass()
	d.Commit()

	want := color.RGBA{G: 0xff, A: 0xff}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if got := d.Frame().RGBAAt(x, y); got != want {
				t.Fatalf("pixel (%d,%d) = %v, expected %v", x, y, got, want)
			}
		}
	}

	st := d.Stats()
	if st.Frames != 1 || st.Draws != 1 || st.Triangles != 2 {
		t.Errorf("Stats() = %+v, expected 1 frame, 1 draw, 2 triangles", st)
	}
}

func TestTransformMovesGeometry(t *testing.T) {
	d := New(8, 8)
	pip, bind := setup(t, d)

	// Scale by half and shift right so only the right half-quad is covered.
	m := identity
	m[0], m[5] = 0.5, 0.5
	m[12] = 0.5
	u := append(m[:], 1, 1, 1, 1)

	d.BeginDefaultPass(gfx.PassAction{Clear: true, Color: [4]float32{0, 0, 0, 1}})
	d.ApplyPipeline(pip)
	d.ApplyBindings(bind)
	d.ApplyUniforms(u)
	d.Draw(0, 6, 1)
	d.EndRenderPass()
	d.Commit()

	black := color.RGBA{A: 0xff}
	if got := d.Frame().RGBAAt(1, 4); got != black {
		t.Errorf("left pixel = %v, expected untouched", got)
	}
	if got := d.Frame().RGBAAt(5, 4); got == black {
		t.Error("right pixel should be covered by the quad")
	}
}

func TestBlendHalfAlpha(t *testing.T) {
	d := New(2, 2)
	pip, bind := setup(t, d)

	d.BeginDefaultPass(gfx.PassAction{Clear: true, Color: [4]float32{0, 0, 0, 1}})
	d.ApplyPipeline(pip)
	d.ApplyBindings(bind)
	d.ApplyUniforms(uniforms([4]float32{1, 1, 1, 0.5}))
	d.Draw(0, 3, 1)
	d.EndRenderPass()
	d.Commit()

	got := d.Frame().RGBAAt(1, 1)
	if got.R < 0x7e || got.R > 0x81 {
		t.Errorf("blended red = %#x, expected ~0x80", got.R)
	}
}

func TestDrawOutsidePassIgnored(t *testing.T) {
	d := New(2, 2)
	pip, bind := setup(t, d)

	d.ApplyPipeline(pip)
	d.ApplyBindings(bind)
	d.ApplyUniforms(uniforms(white))
	d.Draw(0, 6, 1)
	d.Commit()

	if st := d.Stats(); st.Draws != 0 {
		t.Errorf("Stats().Draws = %d, expected 0", st.Draws)
	}
}

func TestShaderErrors(t *testing.T) {
	d := New(1, 1)

	if _, err := d.NewShader("nothing here", testFS, testMeta); !errors.Is(err, gfx.ErrShaderCompile) {
		t.Errorf("NewShader() without main error = %v, expected ErrShaderCompile", err)
	}

	meta := testMeta
	meta.Uniforms = append([]gfx.UniformDesc{{Name: "Missing", Type: gfx.UniformFloat1}}, meta.Uniforms...)
	if _, err := d.NewShader(testVS, testFS, meta); !errors.Is(err, gfx.ErrShaderCompile) {
		t.Errorf("NewShader() with undeclared uniform error = %v, expected ErrShaderCompile", err)
	}

	sh, err := d.NewShader(testVS, testFS, testMeta)
	if err != nil {
		t.Fatalf("NewShader() error = %v", err)
	}
	attrs := []gfx.VertexAttribute{{Name: "normal", Format: gfx.Float3}}
	if _, err := d.NewPipeline(gfx.BufferLayout{}, attrs, sh); !errors.Is(err, gfx.ErrShaderCompile) {
		t.Errorf("NewPipeline() with undeclared attribute error = %v, expected ErrShaderCompile", err)
	}
	if _, err := d.NewPipeline(gfx.BufferLayout{}, testAttrs, sh+100); !errors.Is(err, gfx.ErrInvalidHandle) {
		t.Errorf("NewPipeline() with unknown shader error = %v, expected ErrInvalidHandle", err)
	}
}

func TestTextureValidation(t *testing.T) {
	d := New(1, 1)

	if _, err := d.NewTexture([]byte{1, 2, 3}, gfx.TextureParams{Width: 1, Height: 1}); !errors.Is(err, gfx.ErrTextureSize) {
		t.Errorf("NewTexture() short data error = %v, expected ErrTextureSize", err)
	}
	if _, err := d.NewTexture([]byte{1, 2, 3}, gfx.TextureParams{Format: gfx.RGB8, Width: 1, Height: 1}); err != nil {
		t.Errorf("NewTexture() RGB8 error = %v", err)
	}
}

func TestDeleteBuffer(t *testing.T) {
	d := New(1, 1)
	vb, _ := d.NewVertexBuffer(quadVerts)
	ib, _ := d.NewIndexBuffer(quadIdx)
	if vb == 0 || ib == 0 || vb == ib {
		t.Fatalf("buffer handles = %d, %d; expected distinct non-zero", vb, ib)
	}

	d.DeleteBuffer(vb)
	d.DeleteBuffer(ib)
	if len(d.vbufs) != 0 || len(d.ibufs) != 0 {
		t.Errorf("buffers left after delete: %d vertex, %d index", len(d.vbufs), len(d.ibufs))
	}
}

func TestResize(t *testing.T) {
	d := New(4, 4)
	d.Resize(10, -3)

	if w, h := d.ScreenSize(); w != 10 || h != 0 {
		t.Errorf("ScreenSize() = %v, %v; expected 10, 0", w, h)
	}
	// Drawing into an empty framebuffer must not panic.
	d.BeginDefaultPass(gfx.PassAction{Clear: true})
	d.EndRenderPass()
	d.Commit()
}
