package render

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/vovakirdan/tui-stage/internal/ecs"
	"github.com/vovakirdan/tui-stage/internal/gfx"
	"github.com/vovakirdan/tui-stage/internal/gfx/gfxtest"
	"github.com/vovakirdan/tui-stage/internal/input"
)

var approx = cmpopts.EquateApprox(0, 1e-5)

func newQuadEntity(t *testing.T, w *ecs.World, g gfx.Context) ecs.EntityID {
	t.Helper()
	m, err := NewQuad(g, 1, 1)
	if err != nil {
		t.Fatalf("NewQuad() error = %v", err)
	}
	id := w.Create()
	ecs.Add(w, id, m)
	return id
}

func TestUntintedEntitiesDrawOpaqueWhite(t *testing.T) {
	g := gfxtest.New(1024, 768)
	p, err := NewPipeline(g)
	if err != nil {
		t.Fatalf("NewPipeline() error = %v", err)
	}
	w := ecs.NewWorld()
	newQuadEntity(t, w, g)
	newQuadEntity(t, w, g)

	if n := p.Draw(g, w, input.Window{Width: 1024, Height: 768}); n != 2 {
		t.Fatalf("Draw() = %d, expected 2", n)
	}
	if len(g.Draws) != 2 {
		t.Fatalf("recorded %d draws, expected 2", len(g.Draws))
	}
	for i, d := range g.Draws {
		if diff := cmp.Diff([]float32{1, 1, 1, 1}, d.Uniforms[16:]); diff != "" {
			t.Errorf("draw %d color mismatch (-want +got):\n%s", i, diff)
		}
		if d.Bindings.Image != p.white {
			t.Errorf("draw %d image = %d, expected default %d", i, d.Bindings.Image, p.white)
		}
		if d.Elements != 6 || d.Instances != 1 {
			t.Errorf("draw %d = %d elements x %d instances, expected 6 x 1", i, d.Elements, d.Instances)
		}
	}
}

func TestTintAndTexture(t *testing.T) {
	g := gfxtest.New(100, 100)
	p, err := NewPipeline(g)
	if err != nil {
		t.Fatalf("NewPipeline() error = %v", err)
	}
	tex, err := g.NewTexture(make([]byte, 4*4), gfx.TextureParams{Width: 2, Height: 2})
	if err != nil {
		t.Fatalf("NewTexture() error = %v", err)
	}

	w := ecs.NewWorld()
	newQuadEntity(t, w, g)
	tinted := newQuadEntity(t, w, g)
	ecs.Add(w, tinted, Tint{Color: Red})
	ecs.Add(w, tinted, Texture{Handle: tex})

	p.Draw(g, w, input.Window{Width: 100, Height: 100})

	if got := g.Draws[1].Uniforms[16:]; !cmp.Equal(got, []float32{1, 0, 0, 1}) {
		t.Errorf("tinted color = %v, expected red", got)
	}
	if got := g.Draws[1].Bindings.Image; got != tex {
		t.Errorf("tinted image = %d, expected %d", got, tex)
	}
	if got := g.Draws[0].Bindings.Image; got != p.white {
		t.Errorf("plain image = %d, expected default", got)
	}
}

func TestDrawOrderIsAscendingID(t *testing.T) {
	g := gfxtest.New(10, 10)
	p, _ := NewPipeline(g)
	w := ecs.NewWorld()

	var want []gfx.Buffer
	for i := 0; i < 5; i++ {
		id := newQuadEntity(t, w, g)
		m, _ := ecs.Components[Mesh](w).Get(id)
		want = append(want, m.Vertices)
	}

	p.Draw(g, w, input.Window{Width: 10, Height: 10})

	var got []gfx.Buffer
	for _, d := range g.Draws {
		got = append(got, d.Bindings.VertexBuffer)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("draw order mismatch (-want +got):\n%s", diff)
	}
}

func TestProjectionFromFirstCamera(t *testing.T) {
	g := gfxtest.New(200, 100)
	p, _ := NewPipeline(g)
	w := ecs.NewWorld()

	cam := w.Create()
	ecs.Add(w, cam, Camera2D{Extent: 10})
	other := w.Create()
	ecs.Add(w, other, Camera2D{Extent: 1})
	newQuadEntity(t, w, g)

	win := input.Window{Width: 200, Height: 100}
	p.Draw(g, w, win)

	want := Camera2D{Extent: 10}.Projection(2)
	if diff := cmp.Diff(want[:], g.Draws[0].Uniforms[:16], approx); diff != "" {
		t.Errorf("projection mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultProjection(t *testing.T) {
	g := gfxtest.New(100, 100)
	p, _ := NewPipeline(g)
	w := ecs.NewWorld()
	newQuadEntity(t, w, g)

	p.Draw(g, w, input.Window{Width: 100, Height: 100})

	want := Ortho(-1, 1, -1, 1, -1, 1)
	if diff := cmp.Diff(want[:], g.Draws[0].Uniforms[:16], approx); diff != "" {
		t.Errorf("default projection mismatch (-want +got):\n%s", diff)
	}
}

func TestMeshReleasedOnDestroy(t *testing.T) {
	g := gfxtest.New(10, 10)
	p, _ := NewPipeline(g)
	w := ecs.NewWorld()
	p.Attach(w, g)

	id := newQuadEntity(t, w, g)
	m, _ := ecs.Components[Mesh](w).Get(id)
	vb, ib := m.Vertices, m.Indices

	w.Destroy(id)
	w.FlushDestroyQueue()

	if diff := cmp.Diff([]gfx.Buffer{vb, ib}, g.Deleted); diff != "" {
		t.Errorf("deleted buffers mismatch (-want +got):\n%s", diff)
	}
	if n := p.Draw(g, w, input.Window{Width: 10, Height: 10}); n != 0 {
		t.Errorf("Draw() after destroy = %d, expected 0", n)
	}
}

func TestMeshReleasedOnReplace(t *testing.T) {
	g := gfxtest.New(10, 10)
	p, _ := NewPipeline(g)
	w := ecs.NewWorld()
	p.Attach(w, g)

	id := newQuadEntity(t, w, g)
	old, _ := ecs.Components[Mesh](w).Get(id)
	vb, ib := old.Vertices, old.Indices

	m, err := NewQuad(g, 2, 2)
	if err != nil {
		t.Fatalf("NewQuad() error = %v", err)
	}
	ecs.Add(w, id, m)

	if diff := cmp.Diff([]gfx.Buffer{vb, ib}, g.Deleted); diff != "" {
		t.Errorf("deleted buffers mismatch (-want +got):\n%s", diff)
	}
}

func TestShaderFailureIsReported(t *testing.T) {
	g := gfxtest.New(10, 10)
	g.ShaderErr = gfx.ErrShaderCompile

	if _, err := NewPipeline(g); !errors.Is(err, gfx.ErrShaderCompile) {
		t.Errorf("NewPipeline() error = %v, expected ErrShaderCompile", err)
	}
}

func TestMat4(t *testing.T) {
	m := Translate(2, 3, 0).Mul(Scale(4, 5, 1))
	x, y := m.Apply(1, 1)
	if x != 6 || y != 8 {
		t.Errorf("Apply(1, 1) = %v, %v; expected 6, 8", x, y)
	}
	if got := Identity().Mul(m); got != m {
		t.Errorf("Identity().Mul(m) = %v, expected %v", got, m)
	}

	o := Ortho(0, 10, 0, 20, -1, 1)
	if x, y := o.Apply(10, 20); x != 1 || y != 1 {
		t.Errorf("Ortho corner = %v, %v; expected 1, 1", x, y)
	}
}

func TestScreenToWorld(t *testing.T) {
	cam := Camera2D{Center: input.Vec2{X: 5}, Extent: 2}
	win := input.Window{Width: 200, Height: 100}

	got := cam.ScreenToWorld(input.Vec2{X: 200, Y: 0}, win)
	want := input.Vec2{X: 9, Y: 2}
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("ScreenToWorld() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{"#ff0000", Red, false},
		{"#00000080", Color{0, 0, 0, 128.0 / 255}, false},
		{"0.13, 0.137, 0.137, 1", Charcoal, false},
		{"1,1,1", White, false},
		{"1,2,3", Color{}, true},
		{"#fff", Color{}, true},
		{"nope", Color{}, true},
	}

	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseColor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if diff := cmp.Diff(tt.want, got, approx); diff != "" {
			t.Errorf("ParseColor(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}
