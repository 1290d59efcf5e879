package renderer

import (
	"github.com/chewxy/math32"
	"github.com/spaghettifunk/tessera/engine/math"
)

/**
 * @brief Splits a texture region into a 3x3 grid. The corners keep their size,
 * the edges stretch along one axis and the centre stretches along both.
 */
type NineSlice struct {
	/** @brief Source region of the texture, in pixels. */
	Region math.Rectangle
	Left   float32
	Right  float32
	Top    float32
	Bottom float32
}

func NewNineSlice(region math.Rectangle, left, right, top, bottom float32) NineSlice {
	return NineSlice{Region: region, Left: left, Right: right, Top: top, Bottom: bottom}
}

// NineSliceWithBorder uses the same border thickness on every side.
func NineSliceWithBorder(region math.Rectangle, border float32) NineSlice {
	return NewNineSlice(region, border, border, border, border)
}

// DrawNineSlice stretches the nine-slice to width x height. Sizes smaller than
// the combined borders are clamped up to them so the grid never inverts.
func (t *Texture) DrawNineSlice(r *Renderer, config NineSlice, width, height float32, params DrawParams) error {
	if err := r.checkHandle(t.resource); err != nil {
		return err
	}
	vertices, indices := t.nineSliceGeometry(config, width, height)
	return r.submit(&DrawCommand{
		Texture:   t.backendID,
		Vertices:  vertices,
		Indices:   indices,
		Transform: params.Transform(),
		Color:     params.Color,
	})
}

func (t *Texture) nineSliceGeometry(config NineSlice, width, height float32) ([]Vertex, []uint32) {
	width = math32.Max(width, config.Left+config.Right)
	height = math32.Max(height, config.Top+config.Bottom)

	src := config.Region
	srcX := [4]float32{src.Left(), src.Left() + config.Left, src.Right() - config.Right, src.Right()}
	srcY := [4]float32{src.Top(), src.Top() + config.Top, src.Bottom() - config.Bottom, src.Bottom()}
	dstX := [4]float32{0, config.Left, width - config.Right, width}
	dstY := [4]float32{0, config.Top, height - config.Bottom, height}

	vertices := make([]Vertex, 0, 9*4)
	indices := make([]uint32, 0, 9*6)
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			dst := math.NewRectangle(dstX[col], dstY[row], dstX[col+1]-dstX[col], dstY[row+1]-dstY[row])
			if dst.Width <= 0 || dst.Height <= 0 {
				continue
			}
			region := math.NewRectangle(srcX[col], srcY[row], srcX[col+1]-srcX[col], srcY[row+1]-srcY[row])
			vertices, indices = appendQuad(vertices, indices, dst, t.uvRect(region), math.White)
		}
	}
	return vertices, indices
}
