package loaders

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
)

// VectorFontLoader parses TrueType/OpenType files and collections and builds a
// face at the requested pixel size.
type VectorFontLoader struct{}

type VectorFontData struct {
	Face font.Face
	Size float32
}

func (fl *VectorFontLoader) Load(path string, assetType ResourceType, params interface{}) (*Resource, error) {
	p, ok := params.(*VectorFontParams)
	if !ok || p == nil {
		return nil, fmt.Errorf("failed to cast params in vector font loader")
	}
	if p.Size <= 0 {
		return nil, fmt.Errorf("invalid font size %v", p.Size)
	}

	fontBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	collection, err := opentype.ParseCollection(fontBytes)
	if err != nil {
		return nil, err
	}
	if p.Index < 0 || p.Index >= collection.NumFonts() {
		return nil, fmt.Errorf("font index %d out of range, file has %d faces", p.Index, collection.NumFonts())
	}
	f, err := collection.Font(p.Index)
	if err != nil {
		return nil, err
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    float64(p.Size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, err
	}

	return &Resource{
		Name:     filepath.Base(path),
		FullPath: path,
		Type:     ResourceTypeVectorFont,
		DataSize: uint64(len(fontBytes)),
		Data:     &VectorFontData{Face: face, Size: p.Size},
	}, nil
}

func (fl *VectorFontLoader) Unload(resource *Resource) error {
	if data, ok := resource.Data.(*VectorFontData); ok && data.Face != nil {
		if err := data.Face.Close(); err != nil {
			return err
		}
	}
	resource.Data = nil
	resource.DataSize = 0
	return nil
}
