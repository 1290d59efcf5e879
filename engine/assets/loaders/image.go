package loaders

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

type ImageLoader struct{}

func (il *ImageLoader) Load(path string, assetType ResourceType, params interface{}) (*Resource, error) {
	var p ImageParams
	if params != nil {
		typedParams, ok := params.(*ImageParams)
		if !ok {
			return nil, fmt.Errorf("failed to cast params in image loader")
		}
		p = *typedParams
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, err
	}

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, err
	}

	data := DecodeImage(img)
	if p.FlipY {
		flipRows(data)
	}
	if p.Premultiply {
		premultiply(data.Pixels)
	}

	return &Resource{
		Name:     filepath.Base(path),
		FullPath: path,
		Type:     ResourceTypeImage,
		DataSize: uint64(info.Size()),
		Data:     data,
	}, nil
}

func (il *ImageLoader) Unload(resource *Resource) error {
	resource.Data = nil
	resource.DataSize = 0
	return nil
}

// DecodeImage converts any image to straight-alpha RGBA pixels.
func DecodeImage(img image.Image) *ImageData {
	bounds := img.Bounds()
	nrgba, ok := img.(*image.NRGBA)
	if !ok || nrgba.Stride != 4*bounds.Dx() || bounds.Min != (image.Point{}) {
		nrgba = image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(nrgba, nrgba.Bounds(), img, bounds.Min, draw.Src)
	}
	return &ImageData{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Pixels: nrgba.Pix,
	}
}

func flipRows(data *ImageData) {
	stride := data.Width * 4
	row := make([]uint8, stride)
	for top, bottom := 0, data.Height-1; top < bottom; top, bottom = top+1, bottom-1 {
		t := data.Pixels[top*stride : (top+1)*stride]
		b := data.Pixels[bottom*stride : (bottom+1)*stride]
		copy(row, t)
		copy(t, b)
		copy(b, row)
	}
}

func premultiply(pixels []uint8) {
	for i := 0; i+3 < len(pixels); i += 4 {
		a := uint16(pixels[i+3])
		pixels[i] = uint8(uint16(pixels[i]) * a / 255)
		pixels[i+1] = uint8(uint16(pixels[i+1]) * a / 255)
		pixels[i+2] = uint8(uint16(pixels[i+2]) * a / 255)
	}
}
