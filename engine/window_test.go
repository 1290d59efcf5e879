package engine_test

import (
	"testing"

	"github.com/spaghettifunk/tessera/engine/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindowPassThroughs(t *testing.T) {
	ctx, window := newContext(t, newBuilder(tick))

	ctx.SetTitle("renamed")
	assert.Equal(t, "renamed", ctx.Title())
	assert.Equal(t, "renamed", window.Title())

	require.NoError(t, ctx.SetSize(100, 50))
	w, h := ctx.Size()
	assert.Equal(t, 100, w)
	assert.Equal(t, 50, h)
	w, h = ctx.Renderer().Size()
	assert.Equal(t, 100, w)
	assert.Equal(t, 50, h)

	window.SetDPIScale(2)
	w, h = ctx.PhysicalSize()
	assert.Equal(t, 200, w)
	assert.Equal(t, 100, h)
	assert.Equal(t, float32(2), ctx.DPIScale())

	require.NoError(t, ctx.SetVSync(false))
	assert.False(t, ctx.IsVSyncEnabled())
	require.NoError(t, ctx.SetFullscreen(true))
	assert.True(t, ctx.IsFullscreen())

	ctx.SetVisible(false)
	assert.False(t, ctx.IsVisible())
	require.NoError(t, ctx.SetMouseVisible(false))
	assert.False(t, ctx.IsMouseVisible())
	ctx.SetMouseGrabbed(true)
	assert.True(t, ctx.IsMouseGrabbed())
	ctx.SetRelativeMouseMode(true)
	assert.True(t, ctx.IsRelativeMouseMode())
	ctx.SetScreenSaverEnabled(true)
	assert.True(t, ctx.IsScreenSaverEnabled())

	require.NoError(t, ctx.SetClipboard("copied"))
	text, err := ctx.Clipboard()
	require.NoError(t, err)
	assert.Equal(t, "copied", text)
}

func TestMonitors(t *testing.T) {
	ctx, _ := newContext(t, newBuilder(tick))

	count, err := ctx.MonitorCount()
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	name, err := ctx.MonitorName(0)
	require.NoError(t, err)
	assert.Equal(t, "Headless", name)

	w, h, err := ctx.MonitorSize(0)
	require.NoError(t, err)
	assert.Equal(t, 1920, w)
	assert.Equal(t, 1080, h)

	current, err := ctx.CurrentMonitor()
	require.NoError(t, err)
	assert.Equal(t, 0, current)

	_, err = ctx.MonitorName(3)
	assert.ErrorIs(t, err, core.ErrPlatform)
}

func TestDisplayModeErrors(t *testing.T) {
	ctx, window := newContext(t, newBuilder(tick))
	window.RejectDisplayModes = true

	assert.ErrorIs(t, ctx.SetSize(10, 10), core.ErrFailedToChangeDisplayMode)
	assert.ErrorIs(t, ctx.SetSize(-1, 10), core.ErrFailedToChangeDisplayMode)
	assert.ErrorIs(t, ctx.SetVSync(false), core.ErrFailedToChangeDisplayMode)
	assert.ErrorIs(t, ctx.SetFullscreen(true), core.ErrFailedToChangeDisplayMode)
	assert.True(t, ctx.IsVSyncEnabled())
	assert.False(t, ctx.IsFullscreen())
}

func TestPlatformErrors(t *testing.T) {
	ctx, window := newContext(t, newBuilder(tick))
	window.PlatformUnavailable = true

	assert.ErrorIs(t, ctx.SetMouseVisible(false), core.ErrPlatform)
	_, err := ctx.Clipboard()
	assert.ErrorIs(t, err, core.ErrPlatform)
	assert.ErrorIs(t, ctx.SetClipboard("x"), core.ErrPlatform)
	_, err = ctx.MonitorCount()
	assert.ErrorIs(t, err, core.ErrPlatform)
	_, err = ctx.CurrentMonitor()
	assert.ErrorIs(t, err, core.ErrPlatform)
}
