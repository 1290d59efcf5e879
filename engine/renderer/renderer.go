package renderer

import (
	"errors"
	"fmt"

	"github.com/spaghettifunk/tessera/engine/assets"
	"github.com/spaghettifunk/tessera/engine/core"
	"github.com/spaghettifunk/tessera/engine/math"
)

const DEFAULT_INSTANCE_CAPACITY = 256

type RendererConfig struct {
	Width  int
	Height int
	/** @brief Whether render targets get a stencil attachment. */
	StencilBuffer bool
	/** @brief Upper bound for instanced draws, 0 selects DEFAULT_INSTANCE_CAPACITY. */
	InstanceCapacity int
	/** @brief Resolves and decodes asset files. Nil creates a manager rooted at the working directory. */
	Assets *assets.AssetManager
}

/** @brief Counters for the frame in progress. */
type FrameStats struct {
	DrawCalls int
	Instances int
}

/**
 * @brief The graphics state machine. Every set operation replaces the current
 * value of one axis and stays in effect for all following draws until it is
 * changed again; nothing is restored automatically between frames.
 */
type Renderer struct {
	backend RendererBackend
	config  RendererConfig
	assets  *assets.AssetManager
	limits  BackendLimits

	state   GraphicsState
	scissor *math.Rectangle
	view    math.Mat3

	defaultShader *Shader
	whiteTexture  *Texture
	resources     map[*resource]struct{}
	destroyed     bool

	width, height int
	stats         FrameStats
	frameNumber   uint64
}

func New(backend RendererBackend, config RendererConfig) (*Renderer, error) {
	if config.InstanceCapacity <= 0 {
		config.InstanceCapacity = DEFAULT_INSTANCE_CAPACITY
	}
	if err := backend.Initialize(config.Width, config.Height, config.StencilBuffer); err != nil {
		core.LogError("failed to initialize renderer backend: %s", err)
		return nil, err
	}

	r := &Renderer{
		backend:   backend,
		config:    config,
		assets:    config.Assets,
		limits:    backend.Limits(),
		resources: make(map[*resource]struct{}),
		width:     config.Width,
		height:    config.Height,
		view:      math.NewMat3Identity(),
		state: GraphicsState{
			Stencil:   StencilDisabled(),
			ColorMask: ColorMaskAll,
			Blend:     BlendAlpha,
		},
	}
	if r.assets == nil {
		r.assets = assets.NewAssetManager("")
	}

	if config.StencilBuffer && !r.limits.Stencil {
		_ = backend.Shutdown()
		return nil, fmt.Errorf("backend has no stencil attachment: %w", core.ErrStencilUnavailable)
	}

	var err error
	if r.defaultShader, err = NewShader(r, "", ""); err != nil {
		_ = backend.Shutdown()
		return nil, err
	}
	if r.whiteTexture, err = NewTextureFromData(r, 1, 1, []uint8{255, 255, 255, 255}); err != nil {
		_ = backend.Shutdown()
		return nil, err
	}

	core.LogInfo("renderer initialized (%dx%d, stencil: %t, instance capacity: %d)",
		config.Width, config.Height, config.StencilBuffer, r.InstanceCapacity())
	return r, nil
}

// Shutdown frees every outstanding handle and the backend. Handles used
// afterwards report core.ErrContextDestroyed.
func (r *Renderer) Shutdown() error {
	if r.destroyed {
		return nil
	}
	live := 0
	for res := range r.resources {
		if res != r.defaultShader.resource && res != r.whiteTexture.resource {
			live++
		}
		res.free()
	}
	if live > 0 {
		core.LogDebug("renderer shutdown freed %d outstanding handles", live)
	}
	r.destroyed = true
	r.state = GraphicsState{}
	return r.backend.Shutdown()
}

func (r *Renderer) Destroyed() bool {
	return r.destroyed
}

func (r *Renderer) Backend() RendererBackend {
	return r.backend
}

func (r *Renderer) Assets() *assets.AssetManager {
	return r.assets
}

func (r *Renderer) Limits() BackendLimits {
	return r.limits
}

// StencilBuffer reports whether the renderer was created with a stencil buffer.
func (r *Renderer) StencilBuffer() bool {
	return r.config.StencilBuffer
}

// Size returns the size of the default framebuffer in physical pixels.
func (r *Renderer) Size() (int, int) {
	return r.width, r.height
}

func (r *Renderer) Resized(width, height int) error {
	if r.destroyed {
		return core.ErrContextDestroyed
	}
	r.width, r.height = width, height
	return r.backend.Resized(width, height)
}

func (r *Renderer) BeginFrame() error {
	if r.destroyed {
		return core.ErrContextDestroyed
	}
	r.stats = FrameStats{}
	return r.backend.BeginFrame()
}

func (r *Renderer) EndFrame() error {
	if r.destroyed {
		return core.ErrContextDestroyed
	}
	r.frameNumber++
	return r.backend.EndFrame()
}

// Stats returns the counters of the current frame.
func (r *Renderer) Stats() FrameStats {
	return r.stats
}

func (r *Renderer) FrameNumber() uint64 {
	return r.frameNumber
}

// DefaultShader returns the shader used when no override is set. Its
// u_offsets uniform feeds instanced draws.
func (r *Renderer) DefaultShader() *Shader {
	return r.defaultShader
}

// InstanceCapacity is the largest count an instanced draw with the current
// shader accepts: the smallest of the backend limit, the configured capacity
// and the shader's declared u_offsets size.
func (r *Renderer) InstanceCapacity() int {
	capacity := r.deviceInstanceCapacity()
	if s := r.activeShader(); s != nil && s.capacity > 0 && s.capacity < capacity {
		capacity = s.capacity
	}
	return capacity
}

// deviceInstanceCapacity ignores the shader: it also sizes the default u_offsets.
func (r *Renderer) deviceInstanceCapacity() int {
	if r.limits.MaxInstances > 0 && r.limits.MaxInstances < r.config.InstanceCapacity {
		return r.limits.MaxInstances
	}
	return r.config.InstanceCapacity
}

// State returns a snapshot of the current graphics state.
func (r *Renderer) State() GraphicsState {
	return r.state
}

// SetCanvas redirects subsequent draws and clears to the canvas. A nil canvas
// is the default framebuffer.
func (r *Renderer) SetCanvas(canvas *Canvas) error {
	if canvas == nil {
		r.ResetCanvas()
		return nil
	}
	if err := r.checkHandle(canvas.resource); err != nil {
		return err
	}
	r.state.Canvas = canvas
	return nil
}

// ResetCanvas redirects subsequent draws back to the default framebuffer.
func (r *Renderer) ResetCanvas() {
	r.state.Canvas = nil
}

func (r *Renderer) Canvas() *Canvas {
	return r.state.Canvas
}

// SetShader overrides the default shader for subsequent draws. A nil shader
// restores the default one.
func (r *Renderer) SetShader(shader *Shader) error {
	if shader == nil {
		r.ResetShader()
		return nil
	}
	if err := r.checkHandle(shader.resource); err != nil {
		return err
	}
	r.state.Shader = shader
	return nil
}

func (r *Renderer) ResetShader() {
	r.state.Shader = nil
}

func (r *Renderer) Shader() *Shader {
	return r.state.Shader
}

// SetStencilState configures stencil writing or testing. Anything but
// StencilDisabled fails with core.ErrStencilUnavailable when the renderer has
// no stencil buffer. Writing before reading is up to the caller.
func (r *Renderer) SetStencilState(state StencilState) error {
	if r.destroyed {
		return core.ErrContextDestroyed
	}
	if state.Enabled() && !r.config.StencilBuffer {
		return fmt.Errorf("cannot set stencil state %s: %w", state, core.ErrStencilUnavailable)
	}
	r.state.Stencil = state
	return nil
}

func (r *Renderer) StencilState() StencilState {
	return r.state.Stencil
}

// SetColorMask selects which channels subsequent draws and clears write.
func (r *Renderer) SetColorMask(red, green, blue, alpha bool) {
	r.state.ColorMask = ColorMask{R: red, G: green, B: blue, A: alpha}
}

func (r *Renderer) ColorMask() ColorMask {
	return r.state.ColorMask
}

func (r *Renderer) SetBlendMode(mode BlendMode) {
	r.state.Blend = mode
}

func (r *Renderer) ResetBlendMode() {
	r.state.Blend = BlendAlpha
}

func (r *Renderer) BlendMode() BlendMode {
	return r.state.Blend
}

// SetScissor restricts subsequent draws to rect, in target pixels.
func (r *Renderer) SetScissor(rect math.Rectangle) {
	r.scissor = &rect
}

func (r *Renderer) ResetScissor() {
	r.scissor = nil
}

// SetTransformMatrix sets a transform applied on top of every following draw,
// typically Camera.Matrix.
func (r *Renderer) SetTransformMatrix(m math.Mat3) {
	r.view = m
}

func (r *Renderer) ResetTransformMatrix() {
	r.view = math.NewMat3Identity()
}

func (r *Renderer) TransformMatrix() math.Mat3 {
	return r.view
}

// Clear fills the active target with color, honouring the color mask.
func (r *Renderer) Clear(color math.Color) error {
	if r.destroyed {
		return core.ErrContextDestroyed
	}
	return r.backend.Clear(r.target(), color, r.state.ColorMask)
}

// ClearStencil resets the active target's stencil buffer to value.
func (r *Renderer) ClearStencil(value uint8) error {
	if r.destroyed {
		return core.ErrContextDestroyed
	}
	if !r.config.StencilBuffer {
		return fmt.Errorf("cannot clear stencil buffer: %w", core.ErrStencilUnavailable)
	}
	return r.backend.ClearStencil(r.target(), value)
}

func (r *Renderer) target() CanvasID {
	if r.state.Canvas != nil {
		return r.state.Canvas.backendID
	}
	return DefaultFramebuffer
}

func (r *Renderer) activeShader() *Shader {
	if r.state.Shader != nil {
		return r.state.Shader
	}
	return r.defaultShader
}

// checkHandle rejects handles that are released, torn down or owned by another renderer.
func (r *Renderer) checkHandle(h *resource) error {
	if r.destroyed {
		return core.ErrContextDestroyed
	}
	if err := h.valid(); err != nil {
		return err
	}
	if h.renderer != r {
		return fmt.Errorf("%s belongs to another renderer", h)
	}
	return nil
}

// forget clears the state axes that still reference a freed handle.
func (r *Renderer) forget(h *resource) {
	if r.state.Canvas != nil && r.state.Canvas.resource == h {
		core.LogWarn("active canvas %s was released, drawing to the default framebuffer", h)
		r.state.Canvas = nil
	}
	if r.state.Shader != nil && r.state.Shader.resource == h {
		core.LogWarn("active shader %s was released, using the default shader", h)
		r.state.Shader = nil
	}
}

// submit binds the current graphics state to cmd and hands it to the backend.
func (r *Renderer) submit(cmd *DrawCommand) error {
	if r.destroyed {
		return core.ErrContextDestroyed
	}
	shader := r.activeShader()
	if cmd.Instances < 1 {
		cmd.Instances = 1
	}
	cmd.Transform = r.view.Mul(cmd.Transform)
	cmd.Target = r.target()
	cmd.Shader = shader.backendID
	cmd.Uniforms = shader.uniforms
	cmd.Offsets = shader.offsets(cmd.Instances)
	cmd.Stencil = r.state.Stencil
	cmd.ColorMask = r.state.ColorMask
	cmd.Blend = r.state.Blend
	cmd.Scissor = r.scissor
	if cmd.Texture == 0 {
		cmd.Texture = r.whiteTexture.backendID
	}

	if err := r.backend.Draw(cmd); err != nil {
		return err
	}
	r.stats.DrawCalls++
	r.stats.Instances += cmd.Instances
	return nil
}

// submitInstanced checks count against the instance capacity before anything
// reaches the backend.
func (r *Renderer) submitInstanced(cmd *DrawCommand, count int) error {
	if r.destroyed {
		return core.ErrContextDestroyed
	}
	if count < 0 {
		return errors.New("instance count cannot be negative")
	}
	if capacity := r.InstanceCapacity(); count > capacity {
		return &core.InstanceLimitError{Requested: count, Capacity: capacity}
	}
	if count == 0 {
		return nil
	}
	cmd.Instances = count
	return r.submit(cmd)
}
