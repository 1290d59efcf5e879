package renderer

import (
	"fmt"
	"image"

	"github.com/spaghettifunk/tessera/engine/assets/loaders"
	"github.com/spaghettifunk/tessera/engine/core"
	"github.com/spaghettifunk/tessera/engine/math"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Size of the atlas pages vector glyphs are rasterized into.
const FONT_ATLAS_PAGE_SIZE = 512

/** @brief Placement of one glyph in an atlas page. */
type glyph struct {
	page   int
	region math.Rectangle
	/** @brief From the pen position at the top of the line to the quad's top left. */
	offset  math.Vec2
	advance float32
}

/**
 * @brief A font: atlas pages plus glyph metrics. Bitmap fonts come with their
 * pages; vector fonts rasterize glyphs into pages on first use.
 */
type Font struct {
	*resource

	pages      []*Texture
	glyphs     map[rune]glyph
	kernings   map[loaders.KerningPair]float32
	lineHeight float32

	face   font.Face
	ascent fixed.Int26_6
	packer shelfPacker
}

// NewVectorFont loads a TrueType/OpenType font rasterized at size pixels.
func NewVectorFont(r *Renderer, path string, size float32) (*Font, error) {
	res, err := r.assets.LoadAsset(path, loaders.ResourceTypeVectorFont, &loaders.VectorFontParams{Size: size})
	if err != nil {
		return nil, err
	}
	return NewVectorFontFromFace(r, res.Data.(*loaders.VectorFontData).Face)
}

// NewVectorFontFromFace wraps an existing face. The font closes the face when released.
func NewVectorFontFromFace(r *Renderer, face font.Face) (*Font, error) {
	if r.destroyed {
		return nil, core.ErrContextDestroyed
	}
	metrics := face.Metrics()
	f := &Font{
		glyphs:     make(map[rune]glyph),
		lineHeight: float32(metrics.Height.Ceil()),
		face:       face,
		ascent:     metrics.Ascent,
		packer:     shelfPacker{size: FONT_ATLAS_PAGE_SIZE},
	}
	f.resource = r.newResource("font", f.destroy)
	return f, nil
}

// NewBitmapFont loads an AngelCode BMFont descriptor and its pages.
func NewBitmapFont(r *Renderer, path string) (*Font, error) {
	res, err := r.assets.LoadAsset(path, loaders.ResourceTypeBitmapFont, nil)
	if err != nil {
		return nil, err
	}
	data := res.Data.(*loaders.BitmapFontData)

	f := &Font{
		glyphs:     make(map[rune]glyph, len(data.Glyphs)),
		kernings:   make(map[loaders.KerningPair]float32, len(data.Kernings)),
		lineHeight: float32(data.LineHeight),
	}
	for _, page := range data.Pages {
		t, err := NewTextureFromData(r, page.Width, page.Height, page.Pixels)
		if err != nil {
			f.destroy()
			return nil, err
		}
		f.pages = append(f.pages, t)
	}
	for ch, g := range data.Glyphs {
		f.glyphs[ch] = glyph{
			page:    g.Page,
			region:  math.NewRectangle(float32(g.X), float32(g.Y), float32(g.Width), float32(g.Height)),
			offset:  math.NewVec2(float32(g.XOffset), float32(g.YOffset)),
			advance: float32(g.XAdvance),
		}
	}
	for pair, amount := range data.Kernings {
		f.kernings[pair] = float32(amount)
	}
	f.resource = r.newResource("font", f.destroy)
	return f, nil
}

func (f *Font) LineHeight() float32 {
	return f.lineHeight
}

// Pages returns the atlas textures, mostly useful for debugging.
func (f *Font) Pages() []*Texture {
	return f.pages
}

func (f *Font) destroy() {
	for _, p := range f.pages {
		_ = p.Release()
	}
	f.pages = nil
	if f.face != nil {
		_ = f.face.Close()
		f.face = nil
	}
}

func (f *Font) kerning(prev, next rune) float32 {
	if f.face != nil {
		return float32(f.face.Kern(prev, next)) / 64
	}
	return f.kernings[loaders.KerningPair{First: prev, Second: next}]
}

// glyph returns the placement of ch, rasterizing it first for vector fonts.
func (f *Font) glyph(ch rune) (glyph, bool, error) {
	if g, ok := f.glyphs[ch]; ok {
		return g, true, nil
	}
	if f.face == nil {
		return glyph{}, false, nil
	}

	dr, mask, maskp, advance, ok := f.face.Glyph(fixed.Point26_6{Y: f.ascent}, ch)
	if !ok {
		return glyph{}, false, nil
	}
	g := glyph{
		offset:  math.NewVec2(float32(dr.Min.X), float32(dr.Min.Y)),
		advance: float32(advance) / 64,
	}
	if !dr.Empty() {
		if err := f.rasterize(&g, dr, mask, maskp); err != nil {
			return glyph{}, false, err
		}
	}
	f.glyphs[ch] = g
	return g, true, nil
}

func (f *Font) rasterize(g *glyph, dr image.Rectangle, mask image.Image, maskp image.Point) error {
	w, h := dr.Dx(), dr.Dy()
	if w > FONT_ATLAS_PAGE_SIZE || h > FONT_ATLAS_PAGE_SIZE {
		return fmt.Errorf("glyph of %dx%d does not fit an atlas page", w, h)
	}
	x, y, fits := f.packer.place(w, h)
	if !fits || len(f.pages) == 0 {
		page, err := NewTextureFromData(f.renderer, FONT_ATLAS_PAGE_SIZE, FONT_ATLAS_PAGE_SIZE,
			make([]uint8, FONT_ATLAS_PAGE_SIZE*FONT_ATLAS_PAGE_SIZE*4))
		if err != nil {
			return err
		}
		f.pages = append(f.pages, page)
		f.packer.reset()
		x, y, _ = f.packer.place(w, h)
	}

	// white glyph, coverage in alpha
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.DrawMask(img, img.Bounds(), image.White, image.Point{}, mask, maskp, draw.Src)

	page := f.pages[len(f.pages)-1]
	if err := page.ReplaceData(x, y, w, h, img.Pix); err != nil {
		return err
	}
	g.page = len(f.pages) - 1
	g.region = math.NewRectangle(float32(x), float32(y), float32(w), float32(h))
	return nil
}

// shelfPacker places rectangles left to right in rows of increasing y.
type shelfPacker struct {
	size        int
	x, y        int
	shelfHeight int
}

const glyphPadding = 1

func (p *shelfPacker) place(w, h int) (int, int, bool) {
	if p.x+w > p.size {
		p.x = 0
		p.y += p.shelfHeight + glyphPadding
		p.shelfHeight = 0
	}
	if p.y+h > p.size {
		return 0, 0, false
	}
	x, y := p.x, p.y
	p.x += w + glyphPadding
	if h > p.shelfHeight {
		p.shelfHeight = h
	}
	return x, y, true
}

func (p *shelfPacker) reset() {
	p.x, p.y, p.shelfHeight = 0, 0, 0
}
