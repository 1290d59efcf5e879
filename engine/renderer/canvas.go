package renderer

import (
	"image"

	"github.com/spaghettifunk/tessera/engine/core"
)

/**
 * @brief An off-screen render target. Its colour attachment is exposed as a
 * Texture that shares the canvas' lifetime: retaining or releasing either one
 * affects both.
 */
type Canvas struct {
	*resource

	backendID CanvasID
	texture   *Texture
}

// NewCanvas creates a render target of the given size, cleared to transparent
// black. It carries a stencil attachment when the renderer does.
func NewCanvas(r *Renderer, width, height int) (*Canvas, error) {
	if r.destroyed {
		return nil, core.ErrContextDestroyed
	}
	if err := r.checkTextureSize(width, height); err != nil {
		return nil, err
	}
	id, textureID, err := r.backend.CanvasCreate(width, height, r.config.StencilBuffer)
	if err != nil {
		return nil, err
	}

	c := &Canvas{backendID: id}
	c.resource = r.newResource("canvas", func() { r.backend.CanvasDestroy(c.backendID) })
	c.texture = &Texture{
		resource:  c.resource,
		backendID: textureID,
		width:     width,
		height:    height,
		filter:    TextureFilterNearest,
	}
	return c, nil
}

// Texture returns the canvas contents as a drawable texture.
func (c *Canvas) Texture() *Texture {
	return c.texture
}

func (c *Canvas) Width() int {
	return c.texture.width
}

func (c *Canvas) Height() int {
	return c.texture.height
}

func (c *Canvas) Size() (int, int) {
	return c.texture.width, c.texture.height
}

func (c *Canvas) Draw(r *Renderer, params DrawParams) error {
	return c.texture.Draw(r, params)
}

// Pixels reads the canvas contents back, top row first.
func (c *Canvas) Pixels() (*image.RGBA, error) {
	if err := c.valid(); err != nil {
		return nil, err
	}
	return c.renderer.backend.ReadPixels(c.backendID)
}
