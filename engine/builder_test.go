package engine_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spaghettifunk/tessera/engine"
	"github.com/spaghettifunk/tessera/engine/core"
	"github.com/spaghettifunk/tessera/engine/platform"
	"github.com/spaghettifunk/tessera/engine/renderer"
	"github.com/spaghettifunk/tessera/engine/renderer/software"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextBuilderDefaults(t *testing.T) {
	b := engine.NewContextBuilder("demo", 800, 600)

	assert.Equal(t, "demo", b.Title)
	assert.Equal(t, 800, b.Width)
	assert.Equal(t, 600, b.Height)
	assert.True(t, b.VSync)
	assert.True(t, b.Visible)
	assert.False(t, b.Resizable)
	assert.False(t, b.StencilBuffer)
	assert.False(t, b.QuitOnEscape)
	assert.False(t, b.KeyRepeat)
	assert.Equal(t, 60.0, b.TickRate)
	assert.Equal(t, engine.TIMESTEP_FIXED, b.Timestep)
	assert.Equal(t, 5, b.MaxCatchUpTicks)
	assert.Equal(t, renderer.DEFAULT_INSTANCE_CAPACITY, b.InstanceCapacity)
}

func TestContextBuilderSetters(t *testing.T) {
	b := engine.NewContextBuilder("demo", 800, 600).
		SetTitle("other").
		SetSize(320, 240).
		SetResizable(true).
		SetVSync(false).
		SetStencilBuffer(true).
		SetQuitOnEscape(true).
		SetKeyRepeat(true).
		SetBorderless(true).
		SetTickRate(120).
		SetTimestep(engine.TIMESTEP_VARIABLE).
		SetMaxCatchUpTicks(2).
		SetInstanceCapacity(64)

	assert.Equal(t, "other", b.Title)
	assert.Equal(t, 320, b.Width)
	assert.Equal(t, 240, b.Height)
	assert.True(t, b.Resizable)
	assert.False(t, b.VSync)
	assert.True(t, b.StencilBuffer)
	assert.True(t, b.QuitOnEscape)
	assert.True(t, b.KeyRepeat)
	assert.True(t, b.Borderless)
	assert.Equal(t, 120.0, b.TickRate)
	assert.Equal(t, engine.TIMESTEP_VARIABLE, b.Timestep)
	assert.Equal(t, 2, b.MaxCatchUpTicks)
	assert.Equal(t, 64, b.InstanceCapacity)
}

func TestLoadContextBuilder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tessera.toml")
	config := `
title = "from file"
width = 1024
height = 768
stencil_buffer = true
tick_rate = 30.0
timestep = "variable"
log_level = "debug"
`
	require.NoError(t, os.WriteFile(path, []byte(config), 0o644))

	b, err := engine.LoadContextBuilder(path)
	require.NoError(t, err)
	assert.Equal(t, "from file", b.Title)
	assert.Equal(t, 1024, b.Width)
	assert.Equal(t, 768, b.Height)
	assert.True(t, b.StencilBuffer)
	assert.Equal(t, 30.0, b.TickRate)
	assert.Equal(t, engine.TIMESTEP_VARIABLE, b.Timestep)
	assert.Equal(t, "debug", b.LogLevel)
	// untouched keys keep their defaults
	assert.True(t, b.VSync)
	assert.Equal(t, 5, b.MaxCatchUpTicks)
}

func TestLoadContextBuilderErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := engine.LoadContextBuilder(filepath.Join(dir, "missing.toml"))
	assert.ErrorIs(t, err, core.ErrAssetLoad)

	broken := filepath.Join(dir, "broken.toml")
	require.NoError(t, os.WriteFile(broken, []byte("width = [1, 2"), 0o644))
	_, err = engine.LoadContextBuilder(broken)
	assert.ErrorIs(t, err, core.ErrAssetLoad)

	invalid := filepath.Join(dir, "invalid.toml")
	require.NoError(t, os.WriteFile(invalid, []byte(`timestep = "sometimes"`), 0o644))
	_, err = engine.LoadContextBuilder(invalid)
	assert.ErrorContains(t, err, "unknown timestep")
}

func TestBuildWithRejectsInvalidOptions(t *testing.T) {
	window := platform.NewHeadless(platform.WindowConfig{Width: 64, Height: 48})

	_, err := engine.NewContextBuilder("bad", 0, 48).BuildWith(window, software.New())
	assert.Error(t, err)

	_, err = engine.NewContextBuilder("bad", 64, 48).SetTickRate(0).BuildWith(window, software.New())
	assert.Error(t, err)

	_, err = engine.NewContextBuilder("bad", 64, 48).SetLogLevel("loud").BuildWith(window, software.New())
	assert.Error(t, err)
}

func TestBuildWithStencilOnIncapableBackend(t *testing.T) {
	window := platform.NewHeadless(platform.WindowConfig{Width: 64, Height: 48})
	backend := software.New()
	backend.Caps.Stencil = false

	_, err := engine.NewContextBuilder("stencil", 64, 48).SetStencilBuffer(true).BuildWith(window, backend)
	assert.ErrorIs(t, err, core.ErrStencilUnavailable)
}

func TestBuildWithWiresTheRenderer(t *testing.T) {
	ctx, _ := newContext(t, newBuilder(tick).SetStencilBuffer(true).SetInstanceCapacity(16))

	assert.Equal(t, engine.STAGE_INITIALIZED, ctx.Stage())
	assert.True(t, ctx.Renderer().StencilBuffer())
	assert.Equal(t, 16, ctx.Renderer().InstanceCapacity())
	assert.Same(t, ctx.Assets(), ctx.Renderer().Assets())
	w, h := ctx.Renderer().Size()
	assert.Equal(t, 64, w)
	assert.Equal(t, 48, h)
}
