package renderer

import (
	"fmt"

	"github.com/spaghettifunk/tessera/engine/assets/loaders"
	"github.com/spaghettifunk/tessera/engine/core"
	"github.com/spaghettifunk/tessera/engine/math"
)

/**
 * @brief A linked shader program. Uniform values live on the handle and are
 * uploaded with every draw that uses it; only SetUniform mutates them.
 */
type Shader struct {
	*resource

	backendID      ShaderID
	vertexSource   string
	fragmentSource string
	vertexPath     string
	fragmentPath   string
	uniforms       map[string]interface{}
	capacity       int
}

// NewShader compiles a program from GLSL sources. An empty source selects the
// default stage.
func NewShader(r *Renderer, vertexSource, fragmentSource string) (*Shader, error) {
	if r.destroyed {
		return nil, core.ErrContextDestroyed
	}
	s := &Shader{uniforms: make(map[string]interface{})}
	if err := s.compile(r, vertexSource, fragmentSource); err != nil {
		return nil, err
	}
	s.resource = r.newResource("shader", func() { r.backend.ShaderDestroy(s.backendID) })
	return s, nil
}

// NewShaderFromFiles compiles a program from two stage files. An empty path
// selects the default stage.
func NewShaderFromFiles(r *Renderer, vertexPath, fragmentPath string) (*Shader, error) {
	vertexSource, vertexFull, err := r.loadShaderSource(vertexPath)
	if err != nil {
		return nil, err
	}
	fragmentSource, fragmentFull, err := r.loadShaderSource(fragmentPath)
	if err != nil {
		return nil, err
	}
	s, err := NewShader(r, vertexSource, fragmentSource)
	if err != nil {
		return nil, err
	}
	s.vertexPath, s.fragmentPath = vertexFull, fragmentFull
	s.watchSources()
	return s, nil
}

// NewShaderFromVertexFile pairs a custom vertex stage with the default fragment stage.
func NewShaderFromVertexFile(r *Renderer, path string) (*Shader, error) {
	return NewShaderFromFiles(r, path, "")
}

// NewShaderFromFragmentFile pairs the default vertex stage with a custom fragment stage.
func NewShaderFromFragmentFile(r *Renderer, path string) (*Shader, error) {
	return NewShaderFromFiles(r, "", path)
}

func (r *Renderer) loadShaderSource(path string) (string, string, error) {
	if path == "" {
		return "", "", nil
	}
	res, err := r.assets.LoadAsset(path, loaders.ResourceTypeShader, nil)
	if err != nil {
		return "", "", err
	}
	return res.Data.(*loaders.ShaderData).Source, res.FullPath, nil
}

func (s *Shader) compile(r *Renderer, vertexSource, fragmentSource string) error {
	vs, fs := vertexSource, fragmentSource
	if vs == "" {
		vs = DefaultVertexShader(r.deviceInstanceCapacity())
	}
	if fs == "" {
		fs = DefaultFragmentShader
	}
	id, err := r.backend.ShaderCreate(vs, fs)
	if err != nil {
		core.LogError("failed to create shader: %s", err)
		return err
	}
	s.backendID = id
	s.vertexSource, s.fragmentSource = vertexSource, fragmentSource
	s.capacity = declaredOffsetCapacity(vs)
	return nil
}

// Paths returns the stage files the shader was built from.
func (s *Shader) Paths() []string {
	var out []string
	for _, p := range []string{s.vertexPath, s.fragmentPath} {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// InstanceCapacity is the declared size of u_offsets, 0 when undeclared.
func (s *Shader) InstanceCapacity() int {
	return s.capacity
}

// SetUniform stores a uniform value for subsequent draws. Supported values are
// float32, int32, int, bool, math.Vec2, math.Color, math.Mat3 and slices of
// float32, math.Vec2 and math.Color.
func (s *Shader) SetUniform(name string, value interface{}) error {
	if err := s.valid(); err != nil {
		return err
	}
	switch v := value.(type) {
	case float32, int32, bool, math.Vec2, math.Color, math.Mat3, []float32, []math.Color:
	case int:
		value = int32(v)
	case float64:
		value = float32(v)
	case []math.Vec2:
		if name == UNIFORM_OFFSETS && s.capacity > 0 && len(v) > s.capacity {
			return &core.InstanceLimitError{Requested: len(v), Capacity: s.capacity}
		}
		value = append([]math.Vec2(nil), v...)
	default:
		return fmt.Errorf("unsupported uniform type %T for '%s'", value, name)
	}
	s.uniforms[name] = value
	return nil
}

func (s *Shader) Uniform(name string) (interface{}, bool) {
	v, ok := s.uniforms[name]
	return v, ok
}

// offsets returns the first count instance offsets, zero filled.
func (s *Shader) offsets(count int) []math.Vec2 {
	out := make([]math.Vec2, count)
	if v, ok := s.uniforms[UNIFORM_OFFSETS].([]math.Vec2); ok {
		copy(out, v)
	}
	return out
}

// watchSources recompiles the shader whenever one of its stage files changes.
func (s *Shader) watchSources() {
	for _, path := range s.Paths() {
		s.onFree(s.renderer.assets.Watch(path, func(string) error { return s.Reload() }))
	}
}

// Reload recompiles the shader from its files. The previous program stays
// active when compilation fails.
func (s *Shader) Reload() error {
	if err := s.valid(); err != nil {
		return err
	}
	r := s.renderer
	vertexSource, _, err := r.loadShaderSource(s.vertexPath)
	if err != nil {
		return err
	}
	fragmentSource, _, err := r.loadShaderSource(s.fragmentPath)
	if err != nil {
		return err
	}
	old := s.backendID
	if err := s.compile(r, vertexSource, fragmentSource); err != nil {
		return err
	}
	r.backend.ShaderDestroy(old)
	return nil
}
