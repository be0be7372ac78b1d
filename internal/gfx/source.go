package gfx

import (
	"fmt"
	"strings"
)

// CheckShaderSource performs the link-time checks shared by backends that do
// not compile GLSL themselves: both stages must define main, every attribute
// must be declared by the vertex stage, and every uniform and image named in
// meta must appear in one of the stages.
func CheckShaderSource(vertex, fragment string, meta ShaderMeta, attrs []VertexAttribute) error {
	if !strings.Contains(vertex, "void main") {
		return fmt.Errorf("%w: vertex stage has no main", ErrShaderCompile)
	}
	if !strings.Contains(fragment, "void main") {
		return fmt.Errorf("%w: fragment stage has no main", ErrShaderCompile)
	}

	for _, a := range attrs {
		if !strings.Contains(vertex, a.Name) {
			return fmt.Errorf("%w: attribute %q not declared", ErrShaderCompile, a.Name)
		}
	}
	for _, u := range meta.Uniforms {
		if !strings.Contains(vertex, u.Name) && !strings.Contains(fragment, u.Name) {
			return fmt.Errorf("%w: uniform %q not declared", ErrShaderCompile, u.Name)
		}
	}
	for _, img := range meta.Images {
		if !strings.Contains(fragment, img) {
			return fmt.Errorf("%w: image %q not declared", ErrShaderCompile, img)
		}
	}
	return nil
}
