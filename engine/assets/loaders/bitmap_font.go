package loaders

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fzipp/bmfont"
)

// BitmapFontLoader reads AngelCode BMFont text descriptors (.fnt) and the
// page images they reference.
type BitmapFontLoader struct{}

func (fl *BitmapFontLoader) Load(path string, assetType ResourceType, params interface{}) (*Resource, error) {
	if filepath.Ext(path) != ".fnt" {
		return nil, fmt.Errorf("unable to load bitmap font '%s': only .fnt descriptors are supported", path)
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	font, err := bmfont.Load(path)
	if err != nil {
		return nil, err
	}

	desc := font.Descriptor
	data := &BitmapFontData{
		Face:       desc.Info.Face,
		Size:       desc.Info.Size,
		LineHeight: desc.Common.LineHeight,
		Base:       desc.Common.Base,
		Glyphs:     make(map[rune]GlyphData, len(desc.Chars)),
		Kernings:   make(map[KerningPair]int, len(desc.Kerning)),
		Pages:      make([]*ImageData, len(font.PageSheets)),
	}

	for i, sheet := range font.PageSheets {
		data.Pages[i] = DecodeImage(sheet)
	}

	for _, g := range desc.Chars {
		if g.Page < 0 || g.Page >= len(data.Pages) {
			return nil, fmt.Errorf("glyph %q references missing page %d", g.ID, g.Page)
		}
		data.Glyphs[g.ID] = GlyphData{
			X:        g.X,
			Y:        g.Y,
			Width:    g.Width,
			Height:   g.Height,
			XOffset:  g.XOffset,
			YOffset:  g.YOffset,
			XAdvance: g.XAdvance,
			Page:     g.Page,
		}
	}

	for p, k := range desc.Kerning {
		data.Kernings[KerningPair{First: p.First, Second: p.Second}] = k.Amount
	}

	return &Resource{
		Name:     filepath.Base(path),
		FullPath: path,
		Type:     ResourceTypeBitmapFont,
		DataSize: uint64(info.Size()),
		Data:     data,
	}, nil
}

func (fl *BitmapFontLoader) Unload(resource *Resource) error {
	if data, ok := resource.Data.(*BitmapFontData); ok {
		data.Glyphs = nil
		data.Kernings = nil
		data.Pages = nil
	}
	resource.Data = nil
	resource.DataSize = 0
	return nil
}
