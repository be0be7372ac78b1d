// Package gfxtest provides a gfx.Context that records calls for tests.
package gfxtest

import (
	"fmt"

	"github.com/vovakirdan/tui-stage/internal/gfx"
)

// DrawCall is one recorded Draw with the state applied at the time.
type DrawCall struct {
	Pipeline  gfx.Pipeline
	Bindings  gfx.Bindings
	Uniforms  []float32
	Base      int
	Elements  int
	Instances int
}

// Texture is a recorded texture upload.
type Texture struct {
	Pixels []byte
	Params gfx.TextureParams
}

// Recorder implements gfx.Context without drawing anything.
type Recorder struct {
	Width, Height float32

	// ShaderErr, when set, is returned by NewShader.
	ShaderErr error

	Calls    []string
	Draws    []DrawCall
	Passes   []gfx.PassAction
	Commits  int
	Buffers  map[gfx.Buffer][]float32
	Indices  map[gfx.Buffer][]uint16
	Textures map[gfx.Texture]Texture
	Deleted  []gfx.Buffer

	next     uint32
	pipeline gfx.Pipeline
	bindings gfx.Bindings
	uniforms []float32
}

var _ gfx.Context = (*Recorder)(nil)

// New returns a recorder reporting the given screen size.
func New(width, height float32) *Recorder {
	return &Recorder{
		Width:    width,
		Height:   height,
		Buffers:  make(map[gfx.Buffer][]float32),
		Indices:  make(map[gfx.Buffer][]uint16),
		Textures: make(map[gfx.Texture]Texture),
	}
}

func (r *Recorder) id() uint32 {
	r.next++
	return r.next
}

func (r *Recorder) call(format string, args ...any) {
	r.Calls = append(r.Calls, fmt.Sprintf(format, args...))
}

func (r *Recorder) NewVertexBuffer(vertices []float32) (gfx.Buffer, error) {
	b := gfx.Buffer(r.id())
	r.Buffers[b] = append([]float32(nil), vertices...)
	r.call("NewVertexBuffer(%d)", len(vertices))
	return b, nil
}

func (r *Recorder) NewIndexBuffer(indices []uint16) (gfx.Buffer, error) {
	b := gfx.Buffer(r.id())
	r.Indices[b] = append([]uint16(nil), indices...)
	r.call("NewIndexBuffer(%d)", len(indices))
	return b, nil
}

func (r *Recorder) NewShader(vertex, fragment string, meta gfx.ShaderMeta) (gfx.Shader, error) {
	r.call("NewShader")
	if r.ShaderErr != nil {
		return 0, r.ShaderErr
	}
	if err := gfx.CheckShaderSource(vertex, fragment, meta, nil); err != nil {
		return 0, err
	}
	return gfx.Shader(r.id()), nil
}

func (r *Recorder) NewPipeline(layout gfx.BufferLayout, attrs []gfx.VertexAttribute, shader gfx.Shader) (gfx.Pipeline, error) {
	r.call("NewPipeline(%d attrs)", len(attrs))
	if shader == 0 {
		return 0, gfx.ErrInvalidHandle
	}
	return gfx.Pipeline(r.id()), nil
}

func (r *Recorder) NewTexture(pixels []byte, params gfx.TextureParams) (gfx.Texture, error) {
	if err := params.Validate(pixels); err != nil {
		return 0, err
	}
	t := gfx.Texture(r.id())
	r.Textures[t] = Texture{Pixels: append([]byte(nil), pixels...), Params: params}
	r.call("NewTexture(%dx%d)", params.Width, params.Height)
	return t, nil
}

func (r *Recorder) DeleteBuffer(b gfx.Buffer) {
	delete(r.Buffers, b)
	delete(r.Indices, b)
	r.Deleted = append(r.Deleted, b)
	r.call("DeleteBuffer(%d)", b)
}

func (r *Recorder) DeleteTexture(t gfx.Texture) {
	delete(r.Textures, t)
	r.call("DeleteTexture(%d)", t)
}

func (r *Recorder) BeginDefaultPass(action gfx.PassAction) {
	r.Passes = append(r.Passes, action)
	r.call("BeginDefaultPass")
}

func (r *Recorder) EndRenderPass() {
	r.call("EndRenderPass")
}

func (r *Recorder) ApplyPipeline(p gfx.Pipeline) {
	r.pipeline = p
	r.call("ApplyPipeline")
}

func (r *Recorder) ApplyBindings(b gfx.Bindings) {
	r.bindings = b
	r.call("ApplyBindings")
}

func (r *Recorder) ApplyUniforms(values []float32) {
	r.uniforms = append(r.uniforms[:0], values...)
	r.call("ApplyUniforms")
}

func (r *Recorder) Draw(base, numElements, numInstances int) {
	r.Draws = append(r.Draws, DrawCall{
		Pipeline:  r.pipeline,
		Bindings:  r.bindings,
		Uniforms:  append([]float32(nil), r.uniforms...),
		Base:      base,
		Elements:  numElements,
		Instances: numInstances,
	})
	r.call("Draw(%d, %d, %d)", base, numElements, numInstances)
}

func (r *Recorder) Commit() {
	r.Commits++
	r.call("Commit")
}

func (r *Recorder) ScreenSize() (float32, float32) {
	return r.Width, r.Height
}

// Reset forgets recorded calls and draws but keeps resources.
func (r *Recorder) Reset() {
	r.Calls = r.Calls[:0]
	r.Draws = r.Draws[:0]
	r.Passes = r.Passes[:0]
	r.Commits = 0
}
