// Package render draws textured, tinted quads for every entity that has a
// Mesh, using a single shader and an orthographic 2D camera.
package render

import (
	"fmt"

	"github.com/vovakirdan/tui-stage/internal/ecs"
	"github.com/vovakirdan/tui-stage/internal/gfx"
	"github.com/vovakirdan/tui-stage/internal/input"
)

const vertexShader = `#version 100
attribute vec2 pos;
attribute vec2 uv;

uniform mat4 Projection;

varying lowp vec2 texcoord;

void main() {
    gl_Position = Projection * vec4(pos, 0, 1);
    texcoord = uv;
}`

const fragmentShader = `#version 100
varying lowp vec2 texcoord;

uniform sampler2D Tex;
uniform lowp vec4 InColor;

void main() {
    gl_FragColor = InColor * texture2D(Tex, texcoord);
}`

// ShaderMeta describes the quad shader's uniform block and texture slot.
func ShaderMeta() gfx.ShaderMeta {
	return gfx.ShaderMeta{
		Uniforms: []gfx.UniformDesc{
			{Name: "Projection", Type: gfx.UniformMat4},
			{Name: "InColor", Type: gfx.UniformFloat4},
		},
		Images: []string{"Tex"},
	}
}

// VertexAttributes is the vertex layout of every Mesh.
func VertexAttributes() []gfx.VertexAttribute {
	return []gfx.VertexAttribute{
		{Name: "pos", Format: gfx.Float2},
		{Name: "uv", Format: gfx.Float2},
	}
}

// Pipeline holds the GPU objects shared by all quad draws.
type Pipeline struct {
	shader   gfx.Shader
	pipeline gfx.Pipeline
	white    gfx.Texture

	uniforms [20]float32
	drawn    int
}

// NewPipeline compiles the quad shader and creates the default white texture.
func NewPipeline(g gfx.Context) (*Pipeline, error) {
	shader, err := g.NewShader(vertexShader, fragmentShader, ShaderMeta())
	if err != nil {
		return nil, fmt.Errorf("render: cannot compile quad shader: %w", err)
	}
	pip, err := g.NewPipeline(gfx.BufferLayout{}, VertexAttributes(), shader)
	if err != nil {
		return nil, fmt.Errorf("render: cannot create pipeline: %w", err)
	}
	white, err := g.NewTexture([]byte{0xff, 0xff, 0xff, 0xff}, gfx.TextureParams{
		Format: gfx.RGBA8,
		Width:  1,
		Height: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("render: cannot create default texture: %w", err)
	}

	return &Pipeline{shader: shader, pipeline: pip, white: white}, nil
}

// Attach makes w release an entity's Mesh buffers when the mesh is removed
// or replaced. Removal happens when the entity is destroyed.
func (p *Pipeline) Attach(w *ecs.World, g gfx.Context) {
	ecs.Components[Mesh](w).OnRemove = func(_ ecs.EntityID, m *Mesh) {
		m.Release(g)
	}
}

// Camera returns the camera in effect: the Camera2D of the entity with the
// lowest ID, or DefaultCamera.
func Camera(w *ecs.World) Camera2D {
	if _, c, ok := ecs.Components[Camera2D](w).First(); ok {
		return *c
	}
	return DefaultCamera
}

// Draw issues one indexed draw per entity with a Mesh, in ascending entity ID
// order. Entities without a Tint draw opaque white; entities without a
// Texture sample the default white texture. It returns the number of draws.
func (p *Pipeline) Draw(g gfx.Context, w *ecs.World, win input.Window) int {
	proj := Camera(w).Projection(win.Aspect())

	tints := ecs.Components[Tint](w)
	textures := ecs.Components[Texture](w)
	transforms := ecs.Components[Transform](w)

	g.ApplyPipeline(p.pipeline)
	p.drawn = 0
	ecs.Components[Mesh](w).Each(func(id ecs.EntityID, m *Mesh) {
		img := p.white
		if t, ok := textures.Get(id); ok && t.Handle != 0 {
			img = t.Handle
		}
		g.ApplyBindings(gfx.Bindings{
			VertexBuffer: m.Vertices,
			IndexBuffer:  m.Indices,
			Image:        img,
		})

		mvp := proj
		if t, ok := transforms.Get(id); ok {
			mvp = proj.Mul(t.Matrix())
		}
		color := White
		if t, ok := tints.Get(id); ok {
			color = t.Color
		}
		copy(p.uniforms[:16], mvp[:])
		c := color.Array()
		copy(p.uniforms[16:], c[:])
		g.ApplyUniforms(p.uniforms[:])

		g.Draw(0, m.Elements, 1)
		p.drawn++
	})
	return p.drawn
}

// Drawn returns the number of draws issued by the last Draw.
func (p *Pipeline) Drawn() int {
	return p.drawn
}
