package render

import (
	"fmt"

	"github.com/vovakirdan/tui-stage/internal/gfx"
)

// Mesh is an entity's geometry: interleaved pos/uv vertices and a triangle
// index list. The buffers belong to the entity and are released with it.
type Mesh struct {
	Vertices gfx.Buffer
	Indices  gfx.Buffer
	Elements int
}

// NewMesh uploads vertices (x, y, u, v per vertex) and indices.
func NewMesh(g gfx.Context, vertices []float32, indices []uint16) (Mesh, error) {
	vb, err := g.NewVertexBuffer(vertices)
	if err != nil {
		return Mesh{}, fmt.Errorf("render: cannot create vertex buffer: %w", err)
	}
	ib, err := g.NewIndexBuffer(indices)
	if err != nil {
		g.DeleteBuffer(vb)
		return Mesh{}, fmt.Errorf("render: cannot create index buffer: %w", err)
	}
	return Mesh{Vertices: vb, Indices: ib, Elements: len(indices)}, nil
}

// NewQuad uploads a w by h rectangle centered on the origin.
func NewQuad(g gfx.Context, w, h float32) (Mesh, error) {
	x, y := w/2, h/2
	vertices := []float32{
		-x, -y, 0, 1,
		x, -y, 1, 1,
		x, y, 1, 0,
		-x, y, 0, 0,
	}
	return NewMesh(g, vertices, []uint16{0, 1, 2, 0, 2, 3})
}

// Release frees the mesh buffers.
func (m *Mesh) Release(g gfx.Context) {
	if m.Vertices != 0 {
		g.DeleteBuffer(m.Vertices)
	}
	if m.Indices != 0 {
		g.DeleteBuffer(m.Indices)
	}
	*m = Mesh{}
}
