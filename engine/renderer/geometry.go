package renderer

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/spaghettifunk/tessera/engine/math"
)

/** @brief How a shape is turned into triangles. */
type ShapeStyle struct {
	/** @brief Zero means the shape is filled. */
	StrokeWidth float32
}

// Fill fills the interior of a shape.
var Fill = ShapeStyle{}

// Stroke outlines a shape with a line of the given width, centred on the edge.
func Stroke(width float32) ShapeStyle {
	return ShapeStyle{StrokeWidth: width}
}

func (s ShapeStyle) IsStroke() bool {
	return s.StrokeWidth > 0
}

/** @brief Corner radii of a rounded rectangle. */
type BorderRadii struct {
	TopLeft     float32
	TopRight    float32
	BottomRight float32
	BottomLeft  float32
}

func NewBorderRadii(radius float32) BorderRadii {
	return BorderRadii{TopLeft: radius, TopRight: radius, BottomRight: radius, BottomLeft: radius}
}

// Maximum distance between a curve and the polygon approximating it.
const curveTolerance = 0.1

// Miter joins longer than this multiple of the half width are clamped.
const miterLimit = 4

var errDegenerateShape = errors.New("shape has no area")

/**
 * @brief Accumulates shapes into one vertex/index list, so several shapes can
 * be uploaded as a single mesh.
 */
type GeometryBuilder struct {
	vertices []Vertex
	indices  []uint32
	color    math.Color
}

func NewGeometryBuilder() *GeometryBuilder {
	return &GeometryBuilder{color: math.White}
}

// SetColor sets the vertex colour for shapes added afterwards.
func (b *GeometryBuilder) SetColor(color math.Color) *GeometryBuilder {
	b.color = color
	return b
}

func (b *GeometryBuilder) Rectangle(style ShapeStyle, rect math.Rectangle) (*GeometryBuilder, error) {
	if rect.Width <= 0 || rect.Height <= 0 {
		return b, fmt.Errorf("rectangle %v: %w", rect, errDegenerateShape)
	}
	return b, b.path(style, []math.Vec2{
		math.NewVec2(rect.Left(), rect.Top()),
		math.NewVec2(rect.Right(), rect.Top()),
		math.NewVec2(rect.Right(), rect.Bottom()),
		math.NewVec2(rect.Left(), rect.Bottom()),
	}, true)
}

func (b *GeometryBuilder) RoundedRectangle(style ShapeStyle, rect math.Rectangle, radii BorderRadii) (*GeometryBuilder, error) {
	if rect.Width <= 0 || rect.Height <= 0 {
		return b, fmt.Errorf("rounded rectangle %v: %w", rect, errDegenerateShape)
	}
	limit := math32.Min(rect.Width, rect.Height) / 2
	clamp := func(r float32) float32 { return math32.Max(0, math32.Min(r, limit)) }

	var points []math.Vec2
	corner := func(cx, cy, radius, start float32) {
		radius = clamp(radius)
		if radius == 0 {
			points = append(points, math.NewVec2(cx, cy))
			return
		}
		points = append(points, arc(math.NewVec2(cx, cy), radius, radius, start, start+math32.Pi/2)...)
	}
	// corners walk clockwise on screen, starting at the top left
	r := radii
	corner(rect.Left()+clamp(r.TopLeft), rect.Top()+clamp(r.TopLeft), r.TopLeft, math32.Pi)
	corner(rect.Right()-clamp(r.TopRight), rect.Top()+clamp(r.TopRight), r.TopRight, 3*math32.Pi/2)
	corner(rect.Right()-clamp(r.BottomRight), rect.Bottom()-clamp(r.BottomRight), r.BottomRight, 0)
	corner(rect.Left()+clamp(r.BottomLeft), rect.Bottom()-clamp(r.BottomLeft), r.BottomLeft, math32.Pi/2)
	return b, b.path(style, points, true)
}

func (b *GeometryBuilder) Circle(style ShapeStyle, center math.Vec2, radius float32) (*GeometryBuilder, error) {
	return b.Ellipse(style, center, math.Broadcast(radius))
}

func (b *GeometryBuilder) Ellipse(style ShapeStyle, center, radii math.Vec2) (*GeometryBuilder, error) {
	if radii.X <= 0 || radii.Y <= 0 {
		return b, fmt.Errorf("ellipse with radii %v: %w", radii, errDegenerateShape)
	}
	points := arc(center, radii.X, radii.Y, 0, 2*math32.Pi)
	// the full turn repeats the first point
	return b, b.path(style, points[:len(points)-1], true)
}

// Polygon adds a closed shape. Filled polygons must be simple (no self intersections).
func (b *GeometryBuilder) Polygon(style ShapeStyle, points []math.Vec2) (*GeometryBuilder, error) {
	if len(points) < 3 {
		return b, fmt.Errorf("polygon needs at least 3 points, got %d: %w", len(points), errDegenerateShape)
	}
	return b, b.path(style, points, true)
}

// Polyline adds an open line through points.
func (b *GeometryBuilder) Polyline(width float32, points []math.Vec2) (*GeometryBuilder, error) {
	if len(points) < 2 {
		return b, fmt.Errorf("polyline needs at least 2 points, got %d: %w", len(points), errDegenerateShape)
	}
	if width <= 0 {
		return b, fmt.Errorf("invalid line width %v", width)
	}
	return b, b.stroke(points, width, false)
}

func (b *GeometryBuilder) Vertices() []Vertex {
	return b.vertices
}

func (b *GeometryBuilder) Indices() []uint32 {
	return b.indices
}

func (b *GeometryBuilder) Clear() *GeometryBuilder {
	b.vertices = b.vertices[:0]
	b.indices = b.indices[:0]
	return b
}

// BuildMesh uploads the accumulated geometry.
func (b *GeometryBuilder) BuildMesh(r *Renderer) (*Mesh, error) {
	return NewMesh(r, b.vertices, b.indices)
}

func (b *GeometryBuilder) path(style ShapeStyle, points []math.Vec2, closed bool) error {
	if style.IsStroke() {
		return b.stroke(points, style.StrokeWidth, closed)
	}
	return b.fill(points)
}

func (b *GeometryBuilder) addVertex(p math.Vec2) uint32 {
	b.vertices = append(b.vertices, Vertex{Position: p, Color: b.color})
	return uint32(len(b.vertices) - 1)
}

// fill triangulates a simple polygon by ear clipping.
func (b *GeometryBuilder) fill(points []math.Vec2) error {
	n := len(points)
	if n < 3 {
		return errDegenerateShape
	}
	area := signedArea(points)
	if area == 0 {
		return errDegenerateShape
	}

	base := uint32(len(b.vertices))
	for _, p := range points {
		b.addVertex(p)
	}

	remaining := make([]int, n)
	for i := range remaining {
		remaining[i] = i
	}
	// clockwise polygons are walked backwards so every ear is convex in the same sense
	if area < 0 {
		for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
			remaining[i], remaining[j] = remaining[j], remaining[i]
		}
	}

	var tris []uint32
	for len(remaining) > 3 {
		m := len(remaining)
		clipped := false
		for i := 0; i < m; i++ {
			ia, ib, ic := remaining[(i+m-1)%m], remaining[i], remaining[(i+1)%m]
			if cross(points[ia], points[ib], points[ic]) == 0 {
				// collinear vertex, drop it without emitting a triangle
				remaining = append(remaining[:i], remaining[i+1:]...)
				clipped = true
				break
			}
			if !isEar(points, remaining, ia, ib, ic) {
				continue
			}
			tris = append(tris, base+uint32(ia), base+uint32(ib), base+uint32(ic))
			remaining = append(remaining[:i], remaining[i+1:]...)
			clipped = true
			break
		}
		if !clipped {
			b.vertices = b.vertices[:base]
			return errors.New("polygon is self intersecting")
		}
	}
	tris = append(tris, base+uint32(remaining[0]), base+uint32(remaining[1]), base+uint32(remaining[2]))
	b.indices = append(b.indices, tris...)
	return nil
}

func isEar(points []math.Vec2, remaining []int, ia, ib, ic int) bool {
	a, bb, c := points[ia], points[ib], points[ic]
	if cross(a, bb, c) <= 0 {
		return false
	}
	for _, j := range remaining {
		if j == ia || j == ib || j == ic {
			continue
		}
		if pointInTriangle(points[j], a, bb, c) {
			return false
		}
	}
	return true
}

// stroke builds quads along the path with mitered joins.
func (b *GeometryBuilder) stroke(points []math.Vec2, width float32, closed bool) error {
	n := len(points)
	half := width / 2
	base := uint32(len(b.vertices))

	for i := 0; i < n; i++ {
		p := points[i]
		var normal math.Vec2
		scale := half
		switch {
		case !closed && i == 0:
			normal = edgeNormal(p, points[1])
		case !closed && i == n-1:
			normal = edgeNormal(points[n-2], p)
		default:
			n0 := edgeNormal(points[(i+n-1)%n], p)
			n1 := edgeNormal(p, points[(i+1)%n])
			normal = normalize(n0.Add(n1))
			if d := dot(normal, n1); d > 1.0/miterLimit {
				scale = half / d
			} else {
				scale = half * miterLimit
			}
		}
		b.addVertex(p.Add(normal.MulScalar(scale)))
		b.addVertex(p.Sub(normal.MulScalar(scale)))
	}

	segments := n - 1
	if closed {
		segments = n
	}
	for i := 0; i < segments; i++ {
		j := (i + 1) % n
		o0, i0 := base+uint32(2*i), base+uint32(2*i+1)
		o1, i1 := base+uint32(2*j), base+uint32(2*j+1)
		b.indices = append(b.indices, o0, o1, i1, i1, i0, o0)
	}
	return nil
}

// arc samples an elliptical arc from start to end (radians, inclusive).
func arc(center math.Vec2, rx, ry, start, end float32) []math.Vec2 {
	segments := curveSegments(math32.Max(rx, ry), end-start)
	out := make([]math.Vec2, 0, segments+1)
	for i := 0; i <= segments; i++ {
		angle := start + (end-start)*float32(i)/float32(segments)
		s, c := math32.Sincos(angle)
		out = append(out, math.NewVec2(center.X+c*rx, center.Y+s*ry))
	}
	return out
}

// curveSegments picks enough segments to keep the chord error under curveTolerance.
func curveSegments(radius, sweep float32) int {
	if radius <= curveTolerance {
		return 1
	}
	step := 2 * math32.Acos(1-curveTolerance/radius)
	segments := int(math32.Ceil(math32.Abs(sweep) / step))
	if atLeast := int(math32.Ceil(math32.Abs(sweep) / (math32.Pi / 4))); segments < atLeast {
		segments = atLeast
	}
	return segments
}

func edgeNormal(a, b math.Vec2) math.Vec2 {
	d := normalize(b.Sub(a))
	return math.NewVec2(-d.Y, d.X)
}

func normalize(v math.Vec2) math.Vec2 {
	l := math32.Hypot(v.X, v.Y)
	if l == 0 {
		return v
	}
	return v.MulScalar(1 / l)
}

func dot(a, b math.Vec2) float32 {
	return a.X*b.X + a.Y*b.Y
}

func cross(a, b, c math.Vec2) float32 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

func signedArea(points []math.Vec2) float32 {
	var area float32
	for i := range points {
		j := (i + 1) % len(points)
		area += points[i].X*points[j].Y - points[j].X*points[i].Y
	}
	return area / 2
}

func pointInTriangle(p, a, b, c math.Vec2) bool {
	return cross(a, b, p) >= 0 && cross(b, c, p) >= 0 && cross(c, a, p) >= 0
}
