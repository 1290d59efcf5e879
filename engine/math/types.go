package math

// Vec2 represents a 2D vector
type Vec2 struct {
	X, Y float32
}

func NewVec2(x, y float32) Vec2 {
	return Vec2{X: x, Y: y}
}

func NewVec2Zero() Vec2 {
	return Vec2{}
}

func NewVec2One() Vec2 {
	return Vec2{X: 1, Y: 1}
}

// Broadcast returns a vector with both components set to v.
func Broadcast(v float32) Vec2 {
	return Vec2{X: v, Y: v}
}

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Vec2) Mul(o Vec2) Vec2 {
	return Vec2{X: v.X * o.X, Y: v.Y * o.Y}
}

func (v Vec2) MulScalar(s float32) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

/** @brief Represents an axis aligned rectangle, positioned by its top left corner. */
type Rectangle struct {
	X, Y          float32
	Width, Height float32
}

func NewRectangle(x, y, width, height float32) Rectangle {
	return Rectangle{X: x, Y: y, Width: width, Height: height}
}

// RectangleRow returns count rectangles of the given size laid out left to right,
// starting at (x, y). Useful for slicing a row of an atlas into animation frames.
func RectangleRow(x, y, width, height float32, count int) []Rectangle {
	out := make([]Rectangle, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, NewRectangle(x+float32(i)*width, y, width, height))
	}
	return out
}

// RectangleColumn is the vertical counterpart of RectangleRow.
func RectangleColumn(x, y, width, height float32, count int) []Rectangle {
	out := make([]Rectangle, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, NewRectangle(x, y+float32(i)*height, width, height))
	}
	return out
}

func (r Rectangle) Left() float32   { return r.X }
func (r Rectangle) Right() float32  { return r.X + r.Width }
func (r Rectangle) Top() float32    { return r.Y }
func (r Rectangle) Bottom() float32 { return r.Y + r.Height }

// Contains reports whether the point lies inside the rectangle. The right and
// bottom edges are exclusive.
func (r Rectangle) Contains(p Vec2) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

/** @brief An RGBA colour with components in the [0, 1] range. */
type Color struct {
	R, G, B, A float32
}

var (
	White = Color{R: 1, G: 1, B: 1, A: 1}
	Black = Color{R: 0, G: 0, B: 0, A: 1}
	Red   = Color{R: 1, G: 0, B: 0, A: 1}
	Green = Color{R: 0, G: 1, B: 0, A: 1}
	Blue  = Color{R: 0, G: 0, B: 1, A: 1}
)

func RGB(r, g, b float32) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

func RGBA(r, g, b, a float32) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// RGB8 builds a colour from 8-bit channels.
func RGB8(r, g, b uint8) Color {
	return Color{R: float32(r) / 255, G: float32(g) / 255, B: float32(b) / 255, A: 1}
}

// Modulate multiplies the two colours component-wise.
func (c Color) Modulate(o Color) Color {
	return Color{R: c.R * o.R, G: c.G * o.G, B: c.B * o.B, A: c.A * o.A}
}

// Bytes returns the colour as clamped 8-bit RGBA channels.
func (c Color) Bytes() [4]uint8 {
	return [4]uint8{toByte(c.R), toByte(c.G), toByte(c.B), toByte(c.A)}
}

func toByte(f float32) uint8 {
	return uint8(Clamp(f, 0, 1)*255 + 0.5)
}
