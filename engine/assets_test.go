package engine_test

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spaghettifunk/tessera/engine"
	"github.com/spaghettifunk/tessera/engine/renderer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSolidPNG(t *testing.T, path string, width, height int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 255, A: 255})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestHotReloadReachesLoadedTexture(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sprite.png")
	writeSolidPNG(t, path, 4, 4)

	ctx, _ := newContext(t, newBuilder(tick).SetAssetRoot(dir).SetHotReload(true))
	require.True(t, ctx.Assets().HotReloadEnabled())

	var tex *renderer.Texture
	deadline := time.Now().Add(5 * time.Second)
	r := &recorder{}
	r.onDraw = func(ctx *engine.Context) error {
		if tex.Width() == 6 || time.Now().After(deadline) {
			ctx.Quit()
		}
		time.Sleep(time.Millisecond)
		return nil
	}

	err := ctx.Run(func(ctx *engine.Context) (engine.State, error) {
		var err error
		tex, err = renderer.NewTexture(ctx.Renderer(), "sprite.png")
		if err != nil {
			return nil, err
		}
		writeSolidPNG(t, path, 6, 6)
		return r, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 6, tex.Width())
	assert.Equal(t, 6, tex.Height())
	assert.Equal(t, 0, ctx.Assets().Watching("sprite.png"), "teardown drops the watch")
}

func TestAsyncTextureLoadCompletesDuringPump(t *testing.T) {
	dir := t.TempDir()
	writeSolidPNG(t, filepath.Join(dir, "sprite.png"), 3, 2)

	ctx, _ := newContext(t, newBuilder(tick).SetAssetRoot(dir))

	var tex *renderer.Texture
	deadline := time.Now().Add(5 * time.Second)
	r := &recorder{}
	r.onDraw = func(ctx *engine.Context) error {
		if tex != nil || time.Now().After(deadline) {
			ctx.Quit()
		}
		time.Sleep(time.Millisecond)
		return nil
	}

	err := ctx.Run(func(ctx *engine.Context) (engine.State, error) {
		return r, renderer.NewTextureAsync(ctx.Renderer(), "sprite.png", func(loaded *renderer.Texture, err error) {
			require.NoError(t, err)
			tex = loaded
		})
	})
	require.NoError(t, err)
	require.NotNil(t, tex)
	assert.Equal(t, 3, tex.Width())
}
