package software

import (
	"image"

	"github.com/chewxy/math32"
	"github.com/spaghettifunk/tessera/engine/math"
	"github.com/spaghettifunk/tessera/engine/renderer"
)

// fragment inputs carried by a projected vertex.
type point struct {
	x, y  float32
	u, v  float32
	color [4]float32
}

type rasterizer struct {
	target  *target
	texture *texture
	cmd     *renderer.DrawCommand
	clip    image.Rectangle
}

func (r *rasterizer) project(v renderer.Vertex, offset math.Vec2) point {
	p := r.cmd.Transform.TransformPoint(v.Position.Add(offset))
	c := v.Color.Modulate(r.cmd.Color)
	return point{x: p.X, y: p.Y, u: v.UV.X, v: v.UV.Y, color: [4]float32{c.R, c.G, c.B, c.A}}
}

func edge(a, b point, x, y float32) float32 {
	return (b.x-a.x)*(y-a.y) - (b.y-a.y)*(x-a.x)
}

// topLeft reports whether a->b is a top or left edge of a triangle with a
// positive edge() area. Pixels centred exactly on such edges are covered,
// pixels on the remaining edges are not, so shared edges are drawn once.
func topLeft(a, b point) bool {
	dx, dy := b.x-a.x, b.y-a.y
	return dy < 0 || (dy == 0 && dx > 0)
}

func covered(w float32, isTopLeft bool) bool {
	return w > 0 || (w == 0 && isTopLeft)
}

func (r *rasterizer) triangle(a, b, c point) {
	area := edge(a, b, c.x, c.y)
	if area == 0 {
		return
	}
	if area < 0 {
		b, c = c, b
		area = -area
	}

	minX := int(math32.Floor(math32.Min(a.x, math32.Min(b.x, c.x))))
	maxX := int(math32.Ceil(math32.Max(a.x, math32.Max(b.x, c.x))))
	minY := int(math32.Floor(math32.Min(a.y, math32.Min(b.y, c.y))))
	maxY := int(math32.Ceil(math32.Max(a.y, math32.Max(b.y, c.y))))
	bounds := image.Rect(minX, minY, maxX, maxY).Intersect(r.clip)
	if bounds.Empty() {
		return
	}

	tlA, tlB, tlC := topLeft(b, c), topLeft(c, a), topLeft(a, b)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		py := float32(y) + 0.5
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			px := float32(x) + 0.5
			wa := edge(b, c, px, py)
			wb := edge(c, a, px, py)
			wc := edge(a, b, px, py)
			if !covered(wa, tlA) || !covered(wb, tlB) || !covered(wc, tlC) {
				continue
			}
			wa, wb, wc = wa/area, wb/area, wc/area
			r.fragment(x, y, a, b, c, wa, wb, wc)
		}
	}
}

func (r *rasterizer) fragment(x, y int, a, b, c point, wa, wb, wc float32) {
	t := r.target
	width := t.color.width
	cmd := r.cmd

	if t.stencil != nil && cmd.Stencil.Enabled() {
		s := &t.stencil[y*width+x]
		switch cmd.Stencil.Mode {
		case renderer.STENCIL_MODE_READ:
			if !cmd.Stencil.Test.Passes(cmd.Stencil.Reference, *s) {
				return
			}
		case renderer.STENCIL_MODE_WRITE:
			*s = cmd.Stencil.Action.Apply(cmd.Stencil.Reference, *s)
		}
	}
	if !cmd.ColorMask.Any() {
		return
	}

	u := a.u*wa + b.u*wb + c.u*wc
	v := a.v*wa + b.v*wb + c.v*wc
	src := r.texture.sample(u, v)
	for i := 0; i < 4; i++ {
		src[i] *= a.color[i]*wa + b.color[i]*wb + c.color[i]*wc
	}

	px := t.color.pixels[(y*width+x)*4 : (y*width+x)*4+4]
	var dst [4]float32
	for i := 0; i < 4; i++ {
		dst[i] = float32(px[i]) / 255
	}
	out := blend(cmd.Blend, src, dst)
	var bytes [4]uint8
	for i := 0; i < 4; i++ {
		bytes[i] = uint8(math.Clamp(out[i], 0, 1)*255 + 0.5)
	}
	writeMasked(px, bytes, cmd.ColorMask)
}

// sample reads the texture at normalized coordinates, clamped to the edges.
func (t *texture) sample(u, v float32) [4]float32 {
	fx := u * float32(t.width)
	fy := v * float32(t.height)
	if t.filter == renderer.TextureFilterLinear {
		return t.bilinear(fx-0.5, fy-0.5)
	}
	return t.texel(int(math32.Floor(fx)), int(math32.Floor(fy)))
}

func (t *texture) texel(x, y int) [4]float32 {
	x = math.Clamp(x, 0, t.width-1)
	y = math.Clamp(y, 0, t.height-1)
	i := (y*t.width + x) * 4
	p := t.pixels[i : i+4]
	return [4]float32{float32(p[0]) / 255, float32(p[1]) / 255, float32(p[2]) / 255, float32(p[3]) / 255}
}

func (t *texture) bilinear(fx, fy float32) [4]float32 {
	x0, y0 := math32.Floor(fx), math32.Floor(fy)
	tx, ty := fx-x0, fy-y0
	ix, iy := int(x0), int(y0)
	c00, c10 := t.texel(ix, iy), t.texel(ix+1, iy)
	c01, c11 := t.texel(ix, iy+1), t.texel(ix+1, iy+1)
	var out [4]float32
	for i := 0; i < 4; i++ {
		top := c00[i] + (c10[i]-c00[i])*tx
		bottom := c01[i] + (c11[i]-c01[i])*tx
		out[i] = top + (bottom-top)*ty
	}
	return out
}

func blend(mode renderer.BlendMode, src, dst [4]float32) [4]float32 {
	sa := src[3]
	var out [4]float32
	switch mode {
	case renderer.BlendReplace:
		return src
	case renderer.BlendPremultiplied:
		for i := 0; i < 3; i++ {
			out[i] = src[i] + dst[i]*(1-sa)
		}
		out[3] = sa + dst[3]*(1-sa)
	case renderer.BlendAdd:
		for i := 0; i < 3; i++ {
			out[i] = dst[i] + src[i]*sa
		}
		out[3] = dst[3] + sa
	case renderer.BlendSubtract:
		for i := 0; i < 3; i++ {
			out[i] = dst[i] - src[i]*sa
		}
		out[3] = dst[3]
	case renderer.BlendMultiply:
		for i := 0; i < 4; i++ {
			out[i] = src[i] * dst[i]
		}
	default:
		for i := 0; i < 3; i++ {
			out[i] = src[i]*sa + dst[i]*(1-sa)
		}
		out[3] = sa + dst[3]*(1-sa)
	}
	return out
}
