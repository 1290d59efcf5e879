package loaders

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
)

func writePNG(t *testing.T, path string, w, h int, c color.NRGBA) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestImageLoader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tile.png")
	writePNG(t, path, 4, 2, color.NRGBA{G: 255, A: 128})

	loader := &ImageLoader{}
	res, err := loader.Load(path, ResourceTypeImage, nil)
	require.NoError(t, err)
	assert.Equal(t, ResourceTypeImage, res.Type)
	assert.Equal(t, "tile.png", res.Name)

	data := res.Data.(*ImageData)
	assert.Equal(t, 4, data.Width)
	assert.Equal(t, 2, data.Height)
	assert.Len(t, data.Pixels, 4*2*4)
	assert.Equal(t, []uint8{255, 0, 0, 255}, data.Pixels[0:4])
	assert.Equal(t, []uint8{0, 255, 0, 128}, data.Pixels[4:8])

	res, err = loader.Load(path, ResourceTypeImage, &ImageParams{FlipY: true, Premultiply: true})
	require.NoError(t, err)
	data = res.Data.(*ImageData)
	// the red pixel moved to the bottom row
	assert.Equal(t, []uint8{255, 0, 0, 255}, data.Pixels[4*4*1:4*4*1+4])
	assert.Equal(t, []uint8{0, 128, 0, 128}, data.Pixels[4:8])

	require.NoError(t, loader.Unload(res))
	assert.Nil(t, res.Data)
}

func TestImageLoaderErrors(t *testing.T) {
	loader := &ImageLoader{}
	_, err := loader.Load(filepath.Join(t.TempDir(), "missing.png"), ResourceTypeImage, nil)
	assert.Error(t, err)

	garbage := filepath.Join(t.TempDir(), "garbage.png")
	require.NoError(t, os.WriteFile(garbage, []byte("not an image"), 0o644))
	_, err = loader.Load(garbage, ResourceTypeImage, nil)
	assert.Error(t, err)

	_, err = loader.Load(garbage, ResourceTypeImage, "params")
	assert.Error(t, err)
}

func TestShaderLoader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "disco.frag")
	require.NoError(t, os.WriteFile(path, []byte("void main() {}"), 0o644))

	res, err := (&ShaderLoader{}).Load(path, ResourceTypeShader, nil)
	require.NoError(t, err)
	assert.Equal(t, "void main() {}", res.Data.(*ShaderData).Source)
	assert.Equal(t, uint64(14), res.DataSize)
}

func TestVectorFontLoader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "regular.ttf")
	require.NoError(t, os.WriteFile(path, goregular.TTF, 0o644))

	loader := &VectorFontLoader{}
	res, err := loader.Load(path, ResourceTypeVectorFont, &VectorFontParams{Size: 16})
	require.NoError(t, err)

	data := res.Data.(*VectorFontData)
	assert.Equal(t, float32(16), data.Size)
	adv, ok := data.Face.GlyphAdvance('A')
	assert.True(t, ok)
	assert.Greater(t, adv.Ceil(), 0)
	require.NoError(t, loader.Unload(res))

	_, err = loader.Load(path, ResourceTypeVectorFont, &VectorFontParams{Size: 0})
	assert.Error(t, err)
	_, err = loader.Load(path, ResourceTypeVectorFont, nil)
	assert.Error(t, err)
	_, err = loader.Load(path, ResourceTypeVectorFont, &VectorFontParams{Size: 12, Index: 3})
	assert.Error(t, err)
}

const testFNT = `info face="Test" size=16 bold=0 italic=0 charset="" unicode=1 stretchH=100 smooth=1 aa=1 padding=0,0,0,0 spacing=1,1 outline=0
common lineHeight=18 base=14 scaleW=16 scaleH=16 pages=1 packed=0 alphaChnl=0 redChnl=0 greenChnl=0 blueChnl=0
page id=0 file="page0.png"
chars count=2
char id=65   x=0     y=0     width=8     height=10    xoffset=0     yoffset=4     xadvance=9     page=0  chnl=15
char id=66   x=8     y=0     width=7     height=10    xoffset=1     yoffset=4     xadvance=8     page=0  chnl=15
kernings count=1
kerning first=65  second=66  amount=-1
`

func TestBitmapFontLoader(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "page0.png"), 16, 16, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	path := filepath.Join(dir, "test.fnt")
	require.NoError(t, os.WriteFile(path, []byte(testFNT), 0o644))

	loader := &BitmapFontLoader{}
	res, err := loader.Load(path, ResourceTypeBitmapFont, nil)
	require.NoError(t, err)

	data := res.Data.(*BitmapFontData)
	assert.Equal(t, "Test", data.Face)
	assert.Equal(t, 18, data.LineHeight)
	assert.Equal(t, 14, data.Base)
	require.Len(t, data.Pages, 1)
	assert.Equal(t, 16, data.Pages[0].Width)
	assert.Equal(t, GlyphData{X: 8, Width: 7, Height: 10, XOffset: 1, YOffset: 4, XAdvance: 8}, data.Glyphs['B'])
	assert.Equal(t, -1, data.Kernings[KerningPair{First: 'A', Second: 'B'}])

	_, err = loader.Load(filepath.Join(dir, "test.txt"), ResourceTypeBitmapFont, nil)
	assert.Error(t, err)
}
