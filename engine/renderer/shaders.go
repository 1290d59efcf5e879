package renderer

import (
	"fmt"
	"regexp"
	"strconv"
)

// Uniform names set by the renderer on every draw.
const (
	UNIFORM_PROJECTION = "u_projection"
	UNIFORM_MODEL      = "u_model"
	UNIFORM_COLOR      = "u_color"
	UNIFORM_TEXTURE    = "u_texture"
	UNIFORM_OFFSETS    = "u_offsets"
)

const defaultVertexShaderTemplate = `#version 330 core

layout(location = 0) in vec2 a_position;
layout(location = 1) in vec2 a_uv;
layout(location = 2) in vec4 a_color;

uniform mat3 u_projection;
uniform mat3 u_model;
uniform vec2 u_offsets[%d];

out vec2 v_uv;
out vec4 v_color;

void main() {
    v_uv = a_uv;
    v_color = a_color;
    vec3 p = u_projection * u_model * vec3(a_position + u_offsets[gl_InstanceID], 1.0);
    gl_Position = vec4(p.xy, 0.0, 1.0);
}
`

const DefaultFragmentShader = `#version 330 core

in vec2 v_uv;
in vec4 v_color;

uniform sampler2D u_texture;
uniform vec4 u_color;

out vec4 o_color;

void main() {
    o_color = texture(u_texture, v_uv) * v_color * u_color;
}
`

// DefaultVertexShader is used for every stage a custom shader leaves empty.
// The instance offset array is sized to instanceCapacity.
func DefaultVertexShader(instanceCapacity int) string {
	return fmt.Sprintf(defaultVertexShaderTemplate, instanceCapacity)
}

var offsetsDeclaration = regexp.MustCompile(`uniform\s+vec2\s+` + UNIFORM_OFFSETS + `\s*\[\s*(\d+)\s*\]`)

// declaredOffsetCapacity returns the array size of u_offsets in a vertex shader,
// or 0 when the shader does not declare it.
func declaredOffsetCapacity(vertexSource string) int {
	m := offsetsDeclaration.FindStringSubmatch(vertexSource)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}
