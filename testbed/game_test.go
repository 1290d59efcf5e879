package testbed_test

import (
	"image/color"
	"path/filepath"
	"testing"
	"time"

	"github.com/spaghettifunk/tessera/engine"
	"github.com/spaghettifunk/tessera/engine/core"
	"github.com/spaghettifunk/tessera/engine/platform"
	"github.com/spaghettifunk/tessera/engine/renderer"
	"github.com/spaghettifunk/tessera/engine/renderer/software"
	"github.com/spaghettifunk/tessera/testbed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// framed stops the loop after a number of frames and grabs the framebuffer.
type framed struct {
	engine.State
	frames  int
	backend *software.Backend
	pixels  func(x, y int) color.RGBA
}

func (f *framed) Draw(ctx *engine.Context) error {
	if err := f.State.Draw(ctx); err != nil {
		return err
	}
	f.frames--
	if f.frames == 0 {
		img, err := f.backend.ReadPixels(renderer.DefaultFramebuffer)
		if err != nil {
			return err
		}
		f.pixels = img.RGBAAt
		ctx.Quit()
	}
	return nil
}

func runTestbed(t *testing.T, stencil bool, signals ...platform.Signal) (*framed, *testbed.Testbed, *platform.Headless) {
	t.Helper()
	window := platform.NewHeadless(platform.WindowConfig{Title: "testbed", Width: 800, Height: 600})
	window.Push(signals...)
	backend := software.New()

	now := time.Unix(0, 0)
	ctx, err := engine.NewContextBuilder("testbed", 800, 600).
		SetStencilBuffer(stencil).
		SetTimeSource(func() time.Time {
			now = now.Add(time.Second / 60)
			return now
		}).
		BuildWith(window, backend)
	require.NoError(t, err)

	f := &framed{frames: 3, backend: backend}
	var tb *testbed.Testbed
	err = ctx.Run(func(ctx *engine.Context) (engine.State, error) {
		state, err := testbed.New(ctx)
		if err != nil {
			return nil, err
		}
		tb = state.(*testbed.Testbed)
		f.State = state
		return f, nil
	})
	require.NoError(t, err)
	return f, tb, window
}

func TestTestbedRendersFrames(t *testing.T) {
	f, _, window := runTestbed(t, true)

	assert.Equal(t, 3, window.Swaps)
	require.NotNil(t, f.pixels)
	assert.Equal(t, color.RGBA{R: 0x1d, G: 0x20, B: 0x2b, A: 0xff}, f.pixels(2, 2))

	// outside the stencil circle the stripes are masked away
	assert.Equal(t, color.RGBA{R: 0x1d, G: 0x20, B: 0x2b, A: 0xff}, f.pixels(465, 75))

	// inside it they are drawn
	stripe := f.pixels(420, 124)
	assert.InDelta(t, 0x61, int(stripe.R), 1)
	assert.InDelta(t, 0xaf, int(stripe.G), 1)
	assert.InDelta(t, 0xef, int(stripe.B), 1)
}

func TestTestbedWithoutStencil(t *testing.T) {
	_, _, window := runTestbed(t, false)
	assert.Equal(t, 3, window.Swaps)
}

func TestTestbedEvents(t *testing.T) {
	_, tb, window := runTestbed(t, true,
		platform.CharSignal{Char: 'o'},
		platform.CharSignal{Char: 'k'},
		platform.KeySignal{Key: core.KEY_BACKSPACE, Action: platform.ACTION_PRESS},
		platform.DropSignal{Paths: []string{"level.toml"}},
	)

	assert.Equal(t, "Type something: o", tb.Text().Content())
	abs, err := filepath.Abs("level.toml")
	require.NoError(t, err)
	assert.Equal(t, "tessera testbed - "+abs, window.Title())
}
