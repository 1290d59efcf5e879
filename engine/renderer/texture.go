package renderer

import (
	"errors"
	"fmt"
	"image"

	"github.com/spaghettifunk/tessera/engine/assets/loaders"
	"github.com/spaghettifunk/tessera/engine/core"
	"github.com/spaghettifunk/tessera/engine/math"
)

/**
 * @brief A GPU texture. Textures loaded from a file remember the path so they
 * can be reloaded when the file changes.
 */
type Texture struct {
	*resource

	backendID TextureID
	width     int
	height    int
	filter    TextureFilter
	path      string
}

// NewTexture loads an image file through the renderer's asset manager.
func NewTexture(r *Renderer, path string) (*Texture, error) {
	data, full, err := r.loadImage(path)
	if err != nil {
		return nil, err
	}
	t, err := NewTextureFromData(r, data.Width, data.Height, data.Pixels)
	if err != nil {
		return nil, err
	}
	t.path = full
	t.watchSource()
	return t, nil
}

// NewTextureAsync decodes the image file on a worker goroutine and uploads it
// once the loop hands the result back. done receives the texture or the error.
func NewTextureAsync(r *Renderer, path string, done func(*Texture, error)) error {
	if r.destroyed {
		return core.ErrContextDestroyed
	}
	return r.assets.LoadAssetAsync(path, loaders.ResourceTypeImage, nil, func(res *loaders.Resource, err error) {
		if err != nil {
			done(nil, err)
			return
		}
		data := res.Data.(*loaders.ImageData)
		t, err := NewTextureFromData(r, data.Width, data.Height, data.Pixels)
		if err != nil {
			done(nil, err)
			return
		}
		t.path = res.FullPath
		t.watchSource()
		done(t, nil)
	})
}

// NewTextureFromImage uploads an already decoded image.
func NewTextureFromImage(r *Renderer, img image.Image) (*Texture, error) {
	data := loaders.DecodeImage(img)
	return NewTextureFromData(r, data.Width, data.Height, data.Pixels)
}

// NewTextureFromData uploads straight-alpha RGBA pixels, 4 bytes per pixel,
// row major from the top left.
func NewTextureFromData(r *Renderer, width, height int, pixels []uint8) (*Texture, error) {
	if r.destroyed {
		return nil, core.ErrContextDestroyed
	}
	if err := r.checkTextureSize(width, height); err != nil {
		return nil, err
	}
	if len(pixels) != width*height*4 {
		return nil, fmt.Errorf("expected %d bytes of pixel data for a %dx%d texture, got %d", width*height*4, width, height, len(pixels))
	}

	id, err := r.backend.TextureCreate(width, height, pixels, TextureFilterNearest)
	if err != nil {
		return nil, err
	}
	t := &Texture{
		backendID: id,
		width:     width,
		height:    height,
		filter:    TextureFilterNearest,
	}
	t.resource = r.newResource("texture", func() { r.backend.TextureDestroy(t.backendID) })
	return t, nil
}

func (r *Renderer) checkTextureSize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid texture size %dx%d", width, height)
	}
	if limit := r.limits.MaxTextureSize; limit > 0 && (width > limit || height > limit) {
		return fmt.Errorf("texture size %dx%d exceeds the device limit of %d", width, height, limit)
	}
	return nil
}

func (r *Renderer) loadImage(path string) (*loaders.ImageData, string, error) {
	res, err := r.assets.LoadAsset(path, loaders.ResourceTypeImage, nil)
	if err != nil {
		return nil, "", err
	}
	return res.Data.(*loaders.ImageData), res.FullPath, nil
}

func (t *Texture) Width() int {
	return t.width
}

func (t *Texture) Height() int {
	return t.height
}

func (t *Texture) Size() (int, int) {
	return t.width, t.height
}

// Path is the file the texture was loaded from, empty for generated textures.
func (t *Texture) Path() string {
	return t.path
}

func (t *Texture) Filter() TextureFilter {
	return t.filter
}

func (t *Texture) SetFilter(filter TextureFilter) error {
	if err := t.valid(); err != nil {
		return err
	}
	if err := t.renderer.backend.TextureSetFilter(t.backendID, filter); err != nil {
		return err
	}
	t.filter = filter
	return nil
}

// ReplaceData overwrites a region of the texture with RGBA pixels.
func (t *Texture) ReplaceData(x, y, width, height int, pixels []uint8) error {
	if err := t.valid(); err != nil {
		return err
	}
	if x < 0 || y < 0 || width <= 0 || height <= 0 || x+width > t.width || y+height > t.height {
		return fmt.Errorf("region %d,%d %dx%d is outside the %dx%d texture", x, y, width, height, t.width, t.height)
	}
	if len(pixels) != width*height*4 {
		return fmt.Errorf("expected %d bytes of pixel data, got %d", width*height*4, len(pixels))
	}
	return t.renderer.backend.TextureWriteData(t.backendID, x, y, width, height, pixels)
}

// watchSource reloads the texture whenever its file changes on disk, as long
// as hot reload is enabled on the asset manager.
func (t *Texture) watchSource() {
	t.onFree(t.renderer.assets.Watch(t.path, func(string) error { return t.Reload() }))
}

// Reload decodes the source file again. On failure the old contents are kept.
func (t *Texture) Reload() error {
	if err := t.valid(); err != nil {
		return err
	}
	if t.path == "" {
		return errors.New("texture was not loaded from a file")
	}
	data, _, err := t.renderer.loadImage(t.path)
	if err != nil {
		return err
	}
	if data.Width == t.width && data.Height == t.height {
		return t.renderer.backend.TextureWriteData(t.backendID, 0, 0, t.width, t.height, data.Pixels)
	}
	if err := t.renderer.checkTextureSize(data.Width, data.Height); err != nil {
		return err
	}
	id, err := t.renderer.backend.TextureCreate(data.Width, data.Height, data.Pixels, t.filter)
	if err != nil {
		return err
	}
	t.renderer.backend.TextureDestroy(t.backendID)
	t.backendID = id
	t.width, t.height = data.Width, data.Height
	return nil
}

// Draw renders the texture, or the params.Clip region of it, as one quad.
func (t *Texture) Draw(r *Renderer, params DrawParams) error {
	cmd, err := t.quadCommand(r, params)
	if err != nil {
		return err
	}
	return r.submit(cmd)
}

// DrawInstanced renders count copies offset by the active shader's u_offsets.
func (t *Texture) DrawInstanced(r *Renderer, count int, params DrawParams) error {
	cmd, err := t.quadCommand(r, params)
	if err != nil {
		return err
	}
	return r.submitInstanced(cmd, count)
}

func (t *Texture) quadCommand(r *Renderer, params DrawParams) (*DrawCommand, error) {
	if err := r.checkHandle(t.resource); err != nil {
		return nil, err
	}
	region := math.NewRectangle(0, 0, float32(t.width), float32(t.height))
	if params.Clip != nil {
		region = *params.Clip
	}
	vertices := make([]Vertex, 0, 4)
	indices := make([]uint32, 0, 6)
	vertices, indices = appendQuad(vertices, indices,
		math.NewRectangle(0, 0, region.Width, region.Height), t.uvRect(region), math.White)
	return &DrawCommand{
		Texture:   t.backendID,
		Vertices:  vertices,
		Indices:   indices,
		Transform: params.Transform(),
		Color:     params.Color,
	}, nil
}

// uvRect converts a pixel region to normalized texture coordinates.
func (t *Texture) uvRect(region math.Rectangle) math.Rectangle {
	w, h := float32(t.width), float32(t.height)
	return math.NewRectangle(region.X/w, region.Y/h, region.Width/w, region.Height/h)
}

// appendQuad adds two triangles covering dst and sampling uv.
func appendQuad(vertices []Vertex, indices []uint32, dst, uv math.Rectangle, color math.Color) ([]Vertex, []uint32) {
	base := uint32(len(vertices))
	vertices = append(vertices,
		Vertex{Position: math.NewVec2(dst.Left(), dst.Top()), UV: math.NewVec2(uv.Left(), uv.Top()), Color: color},
		Vertex{Position: math.NewVec2(dst.Right(), dst.Top()), UV: math.NewVec2(uv.Right(), uv.Top()), Color: color},
		Vertex{Position: math.NewVec2(dst.Right(), dst.Bottom()), UV: math.NewVec2(uv.Right(), uv.Bottom()), Color: color},
		Vertex{Position: math.NewVec2(dst.Left(), dst.Bottom()), UV: math.NewVec2(uv.Left(), uv.Bottom()), Color: color},
	)
	indices = append(indices, base, base+1, base+2, base+2, base+3, base)
	return vertices, indices
}
