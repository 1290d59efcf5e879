package renderer

import (
	"fmt"

	"github.com/spaghettifunk/tessera/engine/core"
	"github.com/spaghettifunk/tessera/engine/math"
)

/**
 * @brief Retained indexed geometry, optionally textured. Vertex positions are
 * in local space and go through the draw transform.
 */
type Mesh struct {
	*resource

	backendID   MeshID
	texture     *Texture
	vertexCount int
	indexCount  int
}

// NewMesh uploads triangles. indices must hold a multiple of three entries,
// each referring to an existing vertex.
func NewMesh(r *Renderer, vertices []Vertex, indices []uint32) (*Mesh, error) {
	if r.destroyed {
		return nil, core.ErrContextDestroyed
	}
	if len(vertices) == 0 || len(indices) == 0 {
		return nil, fmt.Errorf("mesh needs vertices and indices: %w", errDegenerateShape)
	}
	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("index count %d is not a multiple of 3", len(indices))
	}
	for _, i := range indices {
		if int(i) >= len(vertices) {
			return nil, fmt.Errorf("index %d is out of range for %d vertices", i, len(vertices))
		}
	}

	id, err := r.backend.MeshCreate(vertices, indices)
	if err != nil {
		return nil, err
	}
	m := &Mesh{
		backendID:   id,
		vertexCount: len(vertices),
		indexCount:  len(indices),
	}
	m.resource = r.newResource("mesh", func() {
		r.backend.MeshDestroy(m.backendID)
		if m.texture != nil {
			_ = m.texture.Release()
			m.texture = nil
		}
	})
	return m, nil
}

func NewRectangleMesh(r *Renderer, style ShapeStyle, rect math.Rectangle) (*Mesh, error) {
	b, err := NewGeometryBuilder().Rectangle(style, rect)
	if err != nil {
		return nil, err
	}
	return b.BuildMesh(r)
}

func NewRoundedRectangleMesh(r *Renderer, style ShapeStyle, rect math.Rectangle, radii BorderRadii) (*Mesh, error) {
	b, err := NewGeometryBuilder().RoundedRectangle(style, rect, radii)
	if err != nil {
		return nil, err
	}
	return b.BuildMesh(r)
}

func NewCircleMesh(r *Renderer, style ShapeStyle, center math.Vec2, radius float32) (*Mesh, error) {
	b, err := NewGeometryBuilder().Circle(style, center, radius)
	if err != nil {
		return nil, err
	}
	return b.BuildMesh(r)
}

func NewEllipseMesh(r *Renderer, style ShapeStyle, center, radii math.Vec2) (*Mesh, error) {
	b, err := NewGeometryBuilder().Ellipse(style, center, radii)
	if err != nil {
		return nil, err
	}
	return b.BuildMesh(r)
}

func NewPolygonMesh(r *Renderer, style ShapeStyle, points []math.Vec2) (*Mesh, error) {
	b, err := NewGeometryBuilder().Polygon(style, points)
	if err != nil {
		return nil, err
	}
	return b.BuildMesh(r)
}

func NewPolylineMesh(r *Renderer, width float32, points []math.Vec2) (*Mesh, error) {
	b, err := NewGeometryBuilder().Polyline(width, points)
	if err != nil {
		return nil, err
	}
	return b.BuildMesh(r)
}

func (m *Mesh) VertexCount() int {
	return m.vertexCount
}

func (m *Mesh) IndexCount() int {
	return m.indexCount
}

func (m *Mesh) Texture() *Texture {
	return m.texture
}

// SetTexture samples texture when drawing the mesh. The mesh keeps a reference
// to it until replaced or released; nil removes the texture.
func (m *Mesh) SetTexture(texture *Texture) error {
	if err := m.valid(); err != nil {
		return err
	}
	if texture != nil {
		if err := texture.Retain(); err != nil {
			return err
		}
	}
	if m.texture != nil {
		_ = m.texture.Release()
	}
	m.texture = texture
	return nil
}

func (m *Mesh) Draw(r *Renderer, params DrawParams) error {
	cmd, err := m.command(r, params)
	if err != nil {
		return err
	}
	return r.submit(cmd)
}

// DrawInstanced renders count copies offset by the active shader's u_offsets.
// Counts above r.InstanceCapacity() fail before anything is submitted.
func (m *Mesh) DrawInstanced(r *Renderer, count int, params DrawParams) error {
	cmd, err := m.command(r, params)
	if err != nil {
		return err
	}
	return r.submitInstanced(cmd, count)
}

func (m *Mesh) command(r *Renderer, params DrawParams) (*DrawCommand, error) {
	if err := r.checkHandle(m.resource); err != nil {
		return nil, err
	}
	cmd := &DrawCommand{
		Mesh:      m.backendID,
		Transform: params.Transform(),
		Color:     params.Color,
	}
	if m.texture != nil {
		if err := r.checkHandle(m.texture.resource); err != nil {
			return nil, err
		}
		cmd.Texture = m.texture.backendID
	}
	return cmd, nil
}
