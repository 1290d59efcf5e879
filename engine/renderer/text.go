package renderer

import (
	"unicode/utf8"

	"github.com/chewxy/math32"
	"github.com/spaghettifunk/tessera/engine/math"
)

type textBatch struct {
	vertices []Vertex
	indices  []uint32
}

/**
 * @brief A string laid out with a font. Layout is cached and redone lazily
 * after the content or font changes.
 */
type Text struct {
	content string
	font    *Font

	dirty   bool
	batches map[int]*textBatch
	bounds  math.Rectangle
}

func NewText(content string, font *Font) *Text {
	return &Text{content: content, font: font, dirty: true}
}

func (t *Text) Content() string {
	return t.content
}

func (t *Text) SetContent(content string) {
	t.content = content
	t.dirty = true
}

// PushString appends to the content.
func (t *Text) PushString(s string) {
	t.content += s
	t.dirty = true
}

// Pop removes and returns the last character.
func (t *Text) Pop() (rune, bool) {
	if t.content == "" {
		return 0, false
	}
	ch, size := utf8.DecodeLastRuneInString(t.content)
	t.content = t.content[:len(t.content)-size]
	t.dirty = true
	return ch, true
}

func (t *Text) Font() *Font {
	return t.font
}

func (t *Text) SetFont(font *Font) {
	t.font = font
	t.dirty = true
}

// Bounds returns the area covered by the laid out glyphs, in local pixels.
// Empty text has zero bounds.
func (t *Text) Bounds() (math.Rectangle, error) {
	if err := t.layout(); err != nil {
		return math.Rectangle{}, err
	}
	return t.bounds, nil
}

// Draw renders the text with one draw per atlas page.
func (t *Text) Draw(r *Renderer, params DrawParams) error {
	if err := r.checkHandle(t.font.resource); err != nil {
		return err
	}
	if err := t.layout(); err != nil {
		return err
	}
	transform := params.Transform()
	for page := 0; page < len(t.font.pages); page++ {
		batch, ok := t.batches[page]
		if !ok {
			continue
		}
		err := r.submit(&DrawCommand{
			Texture:   t.font.pages[page].backendID,
			Vertices:  batch.vertices,
			Indices:   batch.indices,
			Transform: transform,
			Color:     params.Color,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (t *Text) layout() error {
	if !t.dirty {
		return nil
	}
	if err := t.font.valid(); err != nil {
		return err
	}

	batches := make(map[int]*textBatch)
	var bounds math.Rectangle
	first := true
	var x, lineTop float32
	var prev rune
	hasPrev := false

	for _, ch := range t.content {
		if ch == '\n' {
			x = 0
			lineTop += t.font.lineHeight
			hasPrev = false
			continue
		}
		g, ok, err := t.font.glyph(ch)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if hasPrev {
			x += t.font.kerning(prev, ch)
		}
		prev, hasPrev = ch, true

		if g.region.Width > 0 && g.region.Height > 0 {
			dst := math.NewRectangle(x+g.offset.X, lineTop+g.offset.Y, g.region.Width, g.region.Height)
			batch, ok := batches[g.page]
			if !ok {
				batch = &textBatch{}
				batches[g.page] = batch
			}
			batch.vertices, batch.indices = appendQuad(batch.vertices, batch.indices, dst, t.font.pages[g.page].uvRect(g.region), math.White)
			if first {
				bounds, first = dst, false
			} else {
				bounds = union(bounds, dst)
			}
		}
		x += g.advance
	}

	t.batches = batches
	t.bounds = bounds
	t.dirty = false
	return nil
}

func union(a, b math.Rectangle) math.Rectangle {
	left := math32.Min(a.Left(), b.Left())
	top := math32.Min(a.Top(), b.Top())
	right := math32.Max(a.Right(), b.Right())
	bottom := math32.Max(a.Bottom(), b.Bottom())
	return math.NewRectangle(left, top, right-left, bottom-top)
}
