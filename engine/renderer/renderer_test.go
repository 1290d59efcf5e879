package renderer_test

import (
	"errors"
	"image/color"
	"testing"

	"github.com/spaghettifunk/tessera/engine/core"
	"github.com/spaghettifunk/tessera/engine/math"
	"github.com/spaghettifunk/tessera/engine/renderer"
	"github.com/spaghettifunk/tessera/engine/renderer/software"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRenderer(t *testing.T, width, height int, stencil bool) (*renderer.Renderer, *software.Backend) {
	t.Helper()
	backend := software.New()
	r, err := renderer.New(backend, renderer.RendererConfig{Width: width, Height: height, StencilBuffer: stencil})
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Shutdown() })
	return r, backend
}

func solidTexture(t *testing.T, r *renderer.Renderer, width, height int, c [4]uint8) *renderer.Texture {
	t.Helper()
	pixels := make([]uint8, 0, width*height*4)
	for i := 0; i < width*height; i++ {
		pixels = append(pixels, c[:]...)
	}
	tex, err := renderer.NewTextureFromData(r, width, height, pixels)
	require.NoError(t, err)
	return tex
}

func framebufferAt(t *testing.T, backend *software.Backend, x, y int) color.RGBA {
	t.Helper()
	img, err := backend.ReadPixels(renderer.DefaultFramebuffer)
	require.NoError(t, err)
	return img.RGBAAt(x, y)
}

var (
	opaqueRed   = color.RGBA{R: 255, A: 255}
	opaqueBlack = color.RGBA{A: 255}
	opaqueWhite = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

func TestNewAppliesDefaults(t *testing.T) {
	r, _ := newRenderer(t, 64, 32, false)

	w, h := r.Size()
	assert.Equal(t, 64, w)
	assert.Equal(t, 32, h)
	assert.Equal(t, renderer.DEFAULT_INSTANCE_CAPACITY, r.InstanceCapacity())
	assert.Equal(t, renderer.DEFAULT_INSTANCE_CAPACITY, r.DefaultShader().InstanceCapacity())

	state := r.State()
	assert.Nil(t, state.Canvas)
	assert.Nil(t, state.Shader)
	assert.Equal(t, renderer.StencilDisabled(), state.Stencil)
	assert.Equal(t, renderer.ColorMaskAll, state.ColorMask)
	assert.Equal(t, renderer.BlendAlpha, state.Blend)
}

func TestInstanceCapacityIsTheSmallestLimit(t *testing.T) {
	backend := software.New()
	backend.Caps.MaxInstances = 8
	r, err := renderer.New(backend, renderer.RendererConfig{Width: 8, Height: 8, InstanceCapacity: 100})
	require.NoError(t, err)
	defer r.Shutdown()

	assert.Equal(t, 8, r.InstanceCapacity())
	assert.Equal(t, 8, r.DefaultShader().InstanceCapacity(), "default u_offsets is sized to the device")

	shader, err := renderer.NewShader(r, "#version 330 core\nuniform vec2 u_offsets[4];\nvoid main() {}\n", "")
	require.NoError(t, err)
	require.NoError(t, r.SetShader(shader))
	assert.Equal(t, 4, r.InstanceCapacity())
	r.ResetShader()
	assert.Equal(t, 8, r.InstanceCapacity())
}

func TestInstancedDrawWithinCapacity(t *testing.T) {
	r, backend := newRenderer(t, 32, 8, false)
	tex := solidTexture(t, r, 1, 1, [4]uint8{255, 255, 255, 255})

	require.NoError(t, r.DefaultShader().SetUniform(renderer.UNIFORM_OFFSETS, []math.Vec2{
		math.NewVec2(0, 0), math.NewVec2(10, 0), math.NewVec2(20, 4),
	}))
	require.NoError(t, r.BeginFrame())
	require.NoError(t, tex.DrawInstanced(r, 3, renderer.NewDrawParams()))

	assert.Equal(t, renderer.FrameStats{DrawCalls: 1, Instances: 3}, r.Stats())
	assert.Equal(t, 3, backend.Instances)
	assert.Equal(t, opaqueWhite, framebufferAt(t, backend, 0, 0))
	assert.Equal(t, opaqueWhite, framebufferAt(t, backend, 10, 0))
	assert.Equal(t, opaqueWhite, framebufferAt(t, backend, 20, 4))
	assert.Zero(t, framebufferAt(t, backend, 5, 0).A)

	require.NoError(t, tex.DrawInstanced(r, r.InstanceCapacity(), renderer.NewDrawParams()))
	assert.Equal(t, 3+r.InstanceCapacity(), backend.Instances, "missing offsets are zero")
}

func TestInstancedDrawOverCapacitySubmitsNothing(t *testing.T) {
	r, backend := newRenderer(t, 8, 8, false)
	tex := solidTexture(t, r, 1, 1, [4]uint8{255, 255, 255, 255})

	err := tex.DrawInstanced(r, r.InstanceCapacity()+1, renderer.NewDrawParams())
	require.ErrorIs(t, err, core.ErrInstanceLimitExceeded)
	var limitErr *core.InstanceLimitError
	require.True(t, errors.As(err, &limitErr))
	assert.Equal(t, r.InstanceCapacity()+1, limitErr.Requested)
	assert.Equal(t, r.InstanceCapacity(), limitErr.Capacity)
	assert.Zero(t, backend.Draws)
	assert.Zero(t, r.Stats().Instances)

	mesh, err := renderer.NewRectangleMesh(r, renderer.Fill, math.NewRectangle(0, 0, 2, 2))
	require.NoError(t, err)
	assert.ErrorIs(t, mesh.DrawInstanced(r, r.InstanceCapacity()+1, renderer.NewDrawParams()), core.ErrInstanceLimitExceeded)
	assert.Error(t, mesh.DrawInstanced(r, -1, renderer.NewDrawParams()))
	require.NoError(t, mesh.DrawInstanced(r, 0, renderer.NewDrawParams()))
	assert.Zero(t, backend.Draws)
}

func TestCanvasRedirectsDraws(t *testing.T) {
	r, backend := newRenderer(t, 16, 16, false)
	canvas, err := renderer.NewCanvas(r, 8, 8)
	require.NoError(t, err)
	red := solidTexture(t, r, 4, 4, [4]uint8{255, 0, 0, 255})

	require.NoError(t, r.SetCanvas(canvas))
	assert.Same(t, canvas, r.Canvas())
	require.NoError(t, r.Clear(math.Black))
	require.NoError(t, red.Draw(r, renderer.NewDrawParams()))
	r.ResetCanvas()
	assert.Nil(t, r.Canvas())

	pixels, err := canvas.Pixels()
	require.NoError(t, err)
	assert.Equal(t, opaqueRed, pixels.RGBAAt(1, 1))
	assert.Equal(t, opaqueBlack, pixels.RGBAAt(6, 6))
	assert.Zero(t, framebufferAt(t, backend, 1, 1).A, "the framebuffer is untouched")

	require.NoError(t, canvas.Draw(r, renderer.At(math.NewVec2(8, 8))))
	assert.Equal(t, opaqueRed, framebufferAt(t, backend, 9, 9))
	assert.Equal(t, opaqueBlack, framebufferAt(t, backend, 15, 15))
}

func TestRestoringDefaultTargetAndShader(t *testing.T) {
	r, backend := newRenderer(t, 16, 16, false)
	canvas, err := renderer.NewCanvas(r, 8, 8)
	require.NoError(t, err)
	shader, err := renderer.NewShader(r, "", "")
	require.NoError(t, err)
	red := solidTexture(t, r, 2, 2, [4]uint8{255, 0, 0, 255})

	prevCanvas, prevShader := r.Canvas(), r.Shader()
	require.Nil(t, prevCanvas)
	require.Nil(t, prevShader)

	require.NoError(t, r.SetCanvas(canvas))
	require.NoError(t, r.SetShader(shader))
	assert.NotPanics(t, func() {
		require.NoError(t, r.SetCanvas(prevCanvas))
		require.NoError(t, r.SetShader(prevShader))
	})
	assert.Nil(t, r.Canvas())
	assert.Nil(t, r.Shader())

	require.NoError(t, red.Draw(r, renderer.NewDrawParams()))
	assert.Equal(t, opaqueRed, framebufferAt(t, backend, 1, 1))
}

func TestStencilWithoutBuffer(t *testing.T) {
	r, _ := newRenderer(t, 8, 8, false)

	err := r.SetStencilState(renderer.StencilWrite(renderer.StencilActionReplace, 1))
	assert.ErrorIs(t, err, core.ErrStencilUnavailable)
	assert.ErrorIs(t, r.SetStencilState(renderer.StencilRead(renderer.StencilTestEqualTo, 1)), core.ErrStencilUnavailable)
	assert.ErrorIs(t, r.ClearStencil(0), core.ErrStencilUnavailable)
	assert.NoError(t, r.SetStencilState(renderer.StencilDisabled()))
	assert.Equal(t, renderer.StencilDisabled(), r.StencilState())
}

func TestStencilRequestedFromIncapableBackend(t *testing.T) {
	backend := software.New()
	backend.Caps.Stencil = false
	_, err := renderer.New(backend, renderer.RendererConfig{Width: 8, Height: 8, StencilBuffer: true})
	assert.ErrorIs(t, err, core.ErrStencilUnavailable)
}

func TestStencilMasksCircle(t *testing.T) {
	r, backend := newRenderer(t, 800, 600, true)
	require.NoError(t, r.Clear(math.Black))
	require.NoError(t, r.ClearStencil(0))

	circle, err := renderer.NewCircleMesh(r, renderer.Fill, math.NewVec2(400, 300), 150)
	require.NoError(t, err)
	screen, err := renderer.NewRectangleMesh(r, renderer.Fill, math.NewRectangle(0, 0, 800, 600))
	require.NoError(t, err)

	require.NoError(t, r.SetStencilState(renderer.StencilWrite(renderer.StencilActionReplace, 1)))
	r.SetColorMask(false, false, false, false)
	require.NoError(t, circle.Draw(r, renderer.NewDrawParams()))

	r.SetColorMask(true, true, true, true)
	require.NoError(t, r.SetStencilState(renderer.StencilRead(renderer.StencilTestEqualTo, 1)))
	require.NoError(t, screen.Draw(r, renderer.NewDrawParams().WithColor(math.Red)))

	assert.Equal(t, opaqueRed, framebufferAt(t, backend, 400, 300))
	assert.Equal(t, opaqueRed, framebufferAt(t, backend, 540, 300))
	assert.Equal(t, opaqueRed, framebufferAt(t, backend, 400, 161))
	assert.Equal(t, opaqueBlack, framebufferAt(t, backend, 560, 300))
	assert.Equal(t, opaqueBlack, framebufferAt(t, backend, 10, 10))
	assert.Equal(t, opaqueBlack, framebufferAt(t, backend, 799, 599))
	assert.Equal(t, opaqueBlack, framebufferAt(t, backend, 510, 410), "outside the circle, inside its bounding box")
}

func TestColorMaskAppliesToClear(t *testing.T) {
	r, backend := newRenderer(t, 4, 4, false)
	require.NoError(t, r.Clear(math.Black))
	r.SetColorMask(true, false, false, false)
	require.NoError(t, r.Clear(math.White))
	assert.Equal(t, opaqueRed, framebufferAt(t, backend, 0, 0))
	assert.Equal(t, renderer.ColorMask{R: true}, r.ColorMask())
}

func TestBlendModeState(t *testing.T) {
	r, backend := newRenderer(t, 4, 4, false)
	tex := solidTexture(t, r, 4, 4, [4]uint8{255, 0, 0, 128})

	require.NoError(t, r.Clear(math.Black))
	r.SetBlendMode(renderer.BlendReplace)
	assert.Equal(t, renderer.BlendReplace, r.BlendMode())
	require.NoError(t, tex.Draw(r, renderer.NewDrawParams()))
	assert.Equal(t, color.RGBA{R: 255, A: 128}, framebufferAt(t, backend, 1, 1))

	r.ResetBlendMode()
	assert.Equal(t, renderer.BlendAlpha, r.BlendMode())
}

func TestScissorState(t *testing.T) {
	r, backend := newRenderer(t, 8, 8, false)
	tex := solidTexture(t, r, 8, 8, [4]uint8{255, 255, 255, 255})

	r.SetScissor(math.NewRectangle(0, 0, 4, 4))
	require.NoError(t, tex.Draw(r, renderer.NewDrawParams()))
	assert.Equal(t, opaqueWhite, framebufferAt(t, backend, 3, 3))
	assert.Zero(t, framebufferAt(t, backend, 5, 5).A)

	r.ResetScissor()
	require.NoError(t, tex.Draw(r, renderer.NewDrawParams()))
	assert.Equal(t, opaqueWhite, framebufferAt(t, backend, 5, 5))
}

func TestHandleRelease(t *testing.T) {
	r, _ := newRenderer(t, 8, 8, false)
	tex := solidTexture(t, r, 2, 2, [4]uint8{255, 255, 255, 255})

	require.NoError(t, tex.Retain())
	assert.Equal(t, 2, tex.RefCount())
	require.NoError(t, tex.Release())
	require.NoError(t, tex.Draw(r, renderer.NewDrawParams()))
	require.NoError(t, tex.Release())

	assert.ErrorIs(t, tex.Draw(r, renderer.NewDrawParams()), core.ErrHandleReleased)
	assert.ErrorIs(t, tex.Release(), core.ErrHandleReleased)
	assert.ErrorIs(t, tex.Retain(), core.ErrHandleReleased)
}

func TestReleasingActiveCanvasResetsTarget(t *testing.T) {
	r, _ := newRenderer(t, 8, 8, false)
	canvas, err := renderer.NewCanvas(r, 4, 4)
	require.NoError(t, err)

	require.NoError(t, r.SetCanvas(canvas))
	require.NoError(t, canvas.Texture().Release(), "the texture shares the canvas lifetime")
	assert.Nil(t, r.Canvas())
	assert.ErrorIs(t, r.SetCanvas(canvas), core.ErrHandleReleased)
	_, err = canvas.Pixels()
	assert.ErrorIs(t, err, core.ErrHandleReleased)
}

func TestMeshKeepsTextureAlive(t *testing.T) {
	r, _ := newRenderer(t, 8, 8, false)
	tex := solidTexture(t, r, 2, 2, [4]uint8{255, 255, 255, 255})
	mesh, err := renderer.NewRectangleMesh(r, renderer.Fill, math.NewRectangle(0, 0, 2, 2))
	require.NoError(t, err)

	require.NoError(t, mesh.SetTexture(tex))
	require.NoError(t, tex.Release())
	assert.Equal(t, 1, tex.RefCount())
	require.NoError(t, mesh.Draw(r, renderer.NewDrawParams()))

	require.NoError(t, mesh.Release())
	assert.Equal(t, 0, tex.RefCount())
}

func TestShutdownInvalidatesHandles(t *testing.T) {
	backend := software.New()
	r, err := renderer.New(backend, renderer.RendererConfig{Width: 8, Height: 8})
	require.NoError(t, err)
	tex := solidTexture(t, r, 2, 2, [4]uint8{255, 255, 255, 255})
	canvas, err := renderer.NewCanvas(r, 4, 4)
	require.NoError(t, err)

	require.NoError(t, r.Shutdown())
	assert.True(t, r.Destroyed())
	require.NoError(t, r.Shutdown(), "shutdown is idempotent")

	assert.ErrorIs(t, tex.Draw(r, renderer.NewDrawParams()), core.ErrContextDestroyed)
	assert.ErrorIs(t, tex.Release(), core.ErrContextDestroyed)
	assert.ErrorIs(t, r.SetCanvas(canvas), core.ErrContextDestroyed)
	assert.ErrorIs(t, r.Clear(math.Black), core.ErrContextDestroyed)
	assert.ErrorIs(t, r.BeginFrame(), core.ErrContextDestroyed)
	_, err = renderer.NewTextureFromData(r, 1, 1, []uint8{0, 0, 0, 0})
	assert.ErrorIs(t, err, core.ErrContextDestroyed)
}

func TestFrameCounters(t *testing.T) {
	r, backend := newRenderer(t, 8, 8, false)
	tex := solidTexture(t, r, 1, 1, [4]uint8{255, 255, 255, 255})

	require.NoError(t, r.BeginFrame())
	require.NoError(t, tex.Draw(r, renderer.NewDrawParams()))
	require.NoError(t, tex.Draw(r, renderer.NewDrawParams()))
	assert.Equal(t, 2, r.Stats().DrawCalls)
	require.NoError(t, r.EndFrame())

	require.NoError(t, r.BeginFrame())
	assert.Zero(t, r.Stats().DrawCalls)
	assert.Equal(t, uint64(1), r.FrameNumber())
	assert.Equal(t, 1, backend.Frames)
}

func TestTextureValidation(t *testing.T) {
	backend := software.New()
	backend.Caps.MaxTextureSize = 16
	r, err := renderer.New(backend, renderer.RendererConfig{Width: 8, Height: 8})
	require.NoError(t, err)
	defer r.Shutdown()

	_, err = renderer.NewTextureFromData(r, 0, 4, nil)
	assert.Error(t, err)
	_, err = renderer.NewTextureFromData(r, 32, 1, make([]uint8, 32*4))
	assert.Error(t, err)
	_, err = renderer.NewTextureFromData(r, 2, 2, make([]uint8, 3))
	assert.Error(t, err)

	tex := solidTexture(t, r, 4, 4, [4]uint8{0, 0, 0, 255})
	assert.Error(t, tex.ReplaceData(2, 2, 4, 4, make([]uint8, 64)))
	assert.NoError(t, tex.ReplaceData(2, 2, 2, 2, make([]uint8, 16)))
	assert.Error(t, tex.Reload(), "generated textures have no file")
}
