package renderer

import (
	"github.com/chewxy/math32"
	"github.com/spaghettifunk/tessera/engine/math"
)

/**
 * @brief A 2D camera. Position is the world point shown at the centre of the
 * viewport; Zoom scales the world and Rotation turns it around that point.
 * Pass Matrix to Renderer.SetTransformMatrix to draw through the camera.
 */
type Camera struct {
	/**
	 * @brief The world point at the centre of the viewport.
	 * NOTE: Use SetPosition so the matrix is rebuilt when needed.
	 */
	Position math.Vec2
	/** @brief Rotation of the view in radians. */
	Rotation float32
	/** @brief Scale factor, 1 shows the world at its real size. */
	Zoom float32
	/** @brief Size of the area the camera renders to, usually the window. */
	ViewportWidth  float32
	ViewportHeight float32

	isDirty bool
	matrix  math.Mat3
}

func NewCamera(viewportWidth, viewportHeight float32) *Camera {
	c := &Camera{ViewportWidth: viewportWidth, ViewportHeight: viewportHeight}
	c.Reset()
	return c
}

// Reset centres the camera on the middle of the viewport with no zoom or rotation.
func (c *Camera) Reset() {
	c.Position = math.NewVec2(c.ViewportWidth/2, c.ViewportHeight/2)
	c.Rotation = 0
	c.Zoom = 1
	c.isDirty = true
}

func (c *Camera) SetPosition(position math.Vec2) {
	c.Position = position
	c.isDirty = true
}

func (c *Camera) SetRotation(radians float32) {
	c.Rotation = radians
	c.isDirty = true
}

func (c *Camera) Rotate(radians float32) {
	c.Rotation = math32.Mod(c.Rotation+radians, 2*math32.Pi)
	c.isDirty = true
}

// SetZoom changes the scale; non positive values are ignored.
func (c *Camera) SetZoom(zoom float32) {
	if zoom <= 0 {
		return
	}
	c.Zoom = zoom
	c.isDirty = true
}

func (c *Camera) SetViewportSize(width, height float32) {
	c.ViewportWidth, c.ViewportHeight = width, height
	c.isDirty = true
}

// Matrix maps world coordinates to screen coordinates.
func (c *Camera) Matrix() math.Mat3 {
	if c.isDirty {
		m := math.NewMat3Translation(math.NewVec2(-c.Position.X, -c.Position.Y))
		m = math.NewMat3Scale(math.NewVec2(c.Zoom, c.Zoom)).Mul(m)
		if c.Rotation != 0 {
			m = math.NewMat3Rotation(-c.Rotation).Mul(m)
		}
		c.matrix = math.NewMat3Translation(math.NewVec2(c.ViewportWidth/2, c.ViewportHeight/2)).Mul(m)
		c.isDirty = false
	}
	return c.matrix
}

// ProjectPoint converts a world point to screen coordinates.
func (c *Camera) ProjectPoint(world math.Vec2) math.Vec2 {
	return c.Matrix().TransformPoint(world)
}

// UnprojectPoint converts a screen point, such as the mouse position, to world coordinates.
func (c *Camera) UnprojectPoint(screen math.Vec2) math.Vec2 {
	inv, ok := c.Matrix().Inverse()
	if !ok {
		return c.Position
	}
	return inv.TransformPoint(screen)
}

// VisibleRect is the axis aligned world area covered by the viewport.
func (c *Camera) VisibleRect() math.Rectangle {
	corners := [4]math.Vec2{
		c.UnprojectPoint(math.NewVec2(0, 0)),
		c.UnprojectPoint(math.NewVec2(c.ViewportWidth, 0)),
		c.UnprojectPoint(math.NewVec2(0, c.ViewportHeight)),
		c.UnprojectPoint(math.NewVec2(c.ViewportWidth, c.ViewportHeight)),
	}
	minX, minY := corners[0].X, corners[0].Y
	maxX, maxY := minX, minY
	for _, p := range corners[1:] {
		minX, maxX = math32.Min(minX, p.X), math32.Max(maxX, p.X)
		minY, maxY = math32.Min(minY, p.Y), math32.Max(maxY, p.Y)
	}
	return math.NewRectangle(minX, minY, maxX-minX, maxY-minY)
}

func (c *Camera) MoveLeft(amount float32) {
	c.move(math.NewVec2(-amount, 0))
}

func (c *Camera) MoveRight(amount float32) {
	c.move(math.NewVec2(amount, 0))
}

func (c *Camera) MoveUp(amount float32) {
	c.move(math.NewVec2(0, -amount))
}

func (c *Camera) MoveDown(amount float32) {
	c.move(math.NewVec2(0, amount))
}

// move translates the camera along the screen axes, whatever its rotation.
func (c *Camera) move(delta math.Vec2) {
	delta = math.NewMat3Rotation(c.Rotation).TransformPoint(delta)
	c.Position = c.Position.Add(delta.MulScalar(1 / c.Zoom))
	c.isDirty = true
}
