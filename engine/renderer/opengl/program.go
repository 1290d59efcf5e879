package opengl

import (
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/spaghettifunk/tessera/engine/core"
	"github.com/spaghettifunk/tessera/engine/math"
	"github.com/spaghettifunk/tessera/engine/renderer"
)

type program struct {
	id        uint32
	locations map[string]int32
}

func compileStage(source string, stage uint32, name string) (uint32, error) {
	shader := gl.CreateShader(stage)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, &core.ShaderCompileError{Stage: name, Log: strings.TrimRight(log, "\x00")}
	}
	return shader, nil
}

func linkProgram(vertexSource, fragmentSource string) (*program, error) {
	vs, err := compileStage(vertexSource, gl.VERTEX_SHADER, "vertex")
	if err != nil {
		return nil, err
	}
	defer gl.DeleteShader(vs)
	fs, err := compileStage(fragmentSource, gl.FRAGMENT_SHADER, "fragment")
	if err != nil {
		return nil, err
	}
	defer gl.DeleteShader(fs)

	id := gl.CreateProgram()
	gl.AttachShader(id, vs)
	gl.AttachShader(id, fs)
	gl.LinkProgram(id)
	gl.DetachShader(id, vs)
	gl.DetachShader(id, fs)

	var status int32
	gl.GetProgramiv(id, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(id, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(id, logLength, nil, gl.Str(log))
		gl.DeleteProgram(id)
		return nil, &core.ShaderCompileError{Stage: "link", Log: strings.TrimRight(log, "\x00")}
	}
	return &program{id: id, locations: make(map[string]int32)}, nil
}

// location caches uniform lookups; -1 marks uniforms the program does not use.
func (p *program) location(name string) int32 {
	if loc, ok := p.locations[name]; ok {
		return loc
	}
	loc := gl.GetUniformLocation(p.id, gl.Str(name+"\x00"))
	p.locations[name] = loc
	return loc
}

func (p *program) setMat3(name string, m math.Mat3) {
	if loc := p.location(name); loc >= 0 {
		cols := m.Cols()
		gl.UniformMatrix3fv(loc, 1, false, &cols[0])
	}
}

// setUniform uploads one of the value types renderer.Shader.SetUniform accepts.
func (p *program) setUniform(name string, value interface{}) {
	loc := p.location(name)
	if loc < 0 {
		return
	}
	switch v := value.(type) {
	case float32:
		gl.Uniform1f(loc, v)
	case int32:
		gl.Uniform1i(loc, v)
	case bool:
		var i int32
		if v {
			i = 1
		}
		gl.Uniform1i(loc, i)
	case math.Vec2:
		gl.Uniform2f(loc, v.X, v.Y)
	case math.Color:
		gl.Uniform4f(loc, v.R, v.G, v.B, v.A)
	case math.Mat3:
		cols := v.Cols()
		gl.UniformMatrix3fv(loc, 1, false, &cols[0])
	case []float32:
		if len(v) > 0 {
			gl.Uniform1fv(loc, int32(len(v)), &v[0])
		}
	case []math.Vec2:
		if len(v) > 0 {
			gl.Uniform2fv(loc, int32(len(v)), &v[0].X)
		}
	case []math.Color:
		if len(v) > 0 {
			gl.Uniform4fv(loc, int32(len(v)), &v[0].R)
		}
	default:
		core.LogWarn("ignoring uniform '%s' of unsupported type %T", name, value)
	}
}

func (p *program) bind(cmd *renderer.DrawCommand, projection math.Mat3) {
	gl.UseProgram(p.id)
	for name, value := range cmd.Uniforms {
		if name == renderer.UNIFORM_OFFSETS {
			continue
		}
		p.setUniform(name, value)
	}
	p.setMat3(renderer.UNIFORM_PROJECTION, projection)
	p.setMat3(renderer.UNIFORM_MODEL, cmd.Transform)
	p.setUniform(renderer.UNIFORM_COLOR, cmd.Color)
	p.setUniform(renderer.UNIFORM_TEXTURE, int32(0))
	p.setUniform(renderer.UNIFORM_OFFSETS, cmd.Offsets)
}
