// Package gfx defines the primitive graphics operations a backend provides
// to the stage and its render pipeline.
// Handles are opaque integers owned by the Context that created them; zero is
// never a valid handle.
package gfx

import "errors"

// Errors reported by Context implementations.
var (
	ErrShaderCompile = errors.New("gfx: shader compile failed")
	ErrInvalidHandle = errors.New("gfx: invalid handle")
	ErrTextureSize   = errors.New("gfx: texture data does not match size")
)

// Buffer is a vertex or index buffer handle.
type Buffer uint32

// Shader is a compiled shader program handle.
type Shader uint32

// Pipeline is a shader plus vertex layout handle.
type Pipeline uint32

// Texture is a 2D texture handle.
type Texture uint32

// VertexFormat is the type of a single vertex attribute.
type VertexFormat uint8

const (
	Float1 VertexFormat = iota + 1
	Float2
	Float3
	Float4
)

// Floats returns the number of float32 components in the format.
func (f VertexFormat) Floats() int {
	return int(f)
}

// VertexAttribute names one attribute of the vertex layout.
type VertexAttribute struct {
	Name   string
	Format VertexFormat
}

// BufferLayout describes how vertices are laid out in the bound vertex buffer.
// A zero Stride means the attributes are tightly packed.
type BufferLayout struct {
	Stride int // bytes per vertex
}

// UniformType is the type of a single uniform.
type UniformType uint8

const (
	UniformFloat1 UniformType = iota + 1
	UniformFloat2
	UniformFloat3
	UniformFloat4
	UniformMat4
)

// Floats returns the number of float32 values the uniform occupies.
func (u UniformType) Floats() int {
	if u == UniformMat4 {
		return 16
	}
	return int(u)
}

// UniformDesc names one uniform of a shader's uniform block.
type UniformDesc struct {
	Name string
	Type UniformType
}

// ShaderMeta describes a shader's uniform block and texture slots.
// Uniform values are passed to ApplyUniforms packed in declaration order.
type ShaderMeta struct {
	Uniforms []UniformDesc
	Images   []string
}

// UniformFloats returns the total number of float32 values in the uniform block.
func (m ShaderMeta) UniformFloats() int {
	n := 0
	for _, u := range m.Uniforms {
		n += u.Type.Floats()
	}
	return n
}

// TextureFormat is the pixel format of texture data.
type TextureFormat uint8

const (
	RGBA8 TextureFormat = iota
	RGB8
)

// BytesPerPixel returns the size of one pixel in the format.
func (f TextureFormat) BytesPerPixel() int {
	if f == RGB8 {
		return 3
	}
	return 4
}

// FilterMode selects texture sampling.
type FilterMode uint8

const (
	FilterNearest FilterMode = iota
	FilterLinear
)

// WrapMode selects texture addressing outside [0, 1].
type WrapMode uint8

const (
	WrapClamp WrapMode = iota
	WrapRepeat
)

// TextureParams describes a texture created from raw pixel bytes.
type TextureParams struct {
	Format TextureFormat
	Width  int
	Height int
	Filter FilterMode
	Wrap   WrapMode
}

// Validate checks that pixels has exactly the size the params describe.
func (p TextureParams) Validate(pixels []byte) error {
	if p.Width <= 0 || p.Height <= 0 || len(pixels) != p.Width*p.Height*p.Format.BytesPerPixel() {
		return ErrTextureSize
	}
	return nil
}

// Bindings are the buffers and texture used by the next Draw.
// A zero Image means no texture is bound.
type Bindings struct {
	VertexBuffer Buffer
	IndexBuffer  Buffer
	Image        Texture
}

// PassAction controls what happens to the framebuffer at the start of a pass.
type PassAction struct {
	Clear bool
	Color [4]float32 // RGBA, 0..1
}

// Context is the set of primitive graphics operations supplied by a backend.
// All methods are called from the backend's single event-loop goroutine.
type Context interface {
	NewVertexBuffer(vertices []float32) (Buffer, error)
	NewIndexBuffer(indices []uint16) (Buffer, error)
	NewShader(vertex, fragment string, meta ShaderMeta) (Shader, error)
	NewPipeline(layout BufferLayout, attrs []VertexAttribute, shader Shader) (Pipeline, error)
	NewTexture(pixels []byte, params TextureParams) (Texture, error)
	DeleteBuffer(b Buffer)
	DeleteTexture(t Texture)

	BeginDefaultPass(action PassAction)
	EndRenderPass()
	ApplyPipeline(p Pipeline)
	ApplyBindings(b Bindings)
	// ApplyUniforms sets the uniform block of the applied pipeline's shader,
	// packed in ShaderMeta order.
	ApplyUniforms(values []float32)
	// Draw issues an indexed draw of numElements indices starting at base.
	Draw(base, numElements, numInstances int)
	// Commit finishes the frame and hands it to the backend for presentation.
	Commit()

	ScreenSize() (width, height float32)
}
