package renderer

import (
	"image"

	"github.com/spaghettifunk/tessera/engine/math"
)

// Backend object identifiers. Zero is never a valid allocation.
type (
	TextureID uint32
	ShaderID  uint32
	MeshID    uint32
	CanvasID  uint32
)

/** @brief Render target zero is the window's default framebuffer. */
const DefaultFramebuffer CanvasID = 0

/** @brief A single vertex as uploaded to the GPU. */
type Vertex struct {
	/** @brief Position in local (pre-transform) space. */
	Position math.Vec2
	/** @brief Texture coordinate, (0, 0) is the top left of the texture. */
	UV math.Vec2
	/** @brief Per-vertex colour, multiplied with the draw colour. */
	Color math.Color
}

/** @brief Capabilities reported by a backend after initialization. */
type BackendLimits struct {
	/** @brief Largest instance count a single draw can submit. */
	MaxInstances int
	/** @brief Largest texture or canvas dimension. */
	MaxTextureSize int
	/** @brief Whether render targets carry a stencil attachment. */
	Stencil bool
}

/**
 * @brief One fully resolved draw submission. Everything the backend needs is
 * in the command; backends keep no graphics state between draws.
 */
type DrawCommand struct {
	Target  CanvasID
	Shader  ShaderID
	Texture TextureID
	/** @brief Retained geometry. When zero, Vertices and Indices are drawn instead. */
	Mesh     MeshID
	Vertices []Vertex
	Indices  []uint32
	/** @brief Local to target-pixel transform. */
	Transform math.Mat3
	Color     math.Color
	/** @brief Number of copies to draw, at least 1. */
	Instances int
	/** @brief Per-instance local offsets, len(Offsets) == Instances for instanced draws. */
	Offsets   []math.Vec2
	Uniforms  map[string]interface{}
	Stencil   StencilState
	ColorMask ColorMask
	Blend     BlendMode
	/** @brief Optional scissor rectangle in target pixels. */
	Scissor *math.Rectangle
}

type RendererBackend interface {
	Initialize(width, height int, stencil bool) error
	Shutdown() error
	Resized(width, height int) error
	BeginFrame() error
	EndFrame() error
	Limits() BackendLimits
	TextureCreate(width, height int, pixels []uint8, filter TextureFilter) (TextureID, error)
	TextureWriteData(id TextureID, x, y, width, height int, pixels []uint8) error
	TextureSetFilter(id TextureID, filter TextureFilter) error
	TextureDestroy(id TextureID)
	ShaderCreate(vertexSource, fragmentSource string) (ShaderID, error)
	ShaderDestroy(id ShaderID)
	MeshCreate(vertices []Vertex, indices []uint32) (MeshID, error)
	MeshDestroy(id MeshID)
	CanvasCreate(width, height int, stencil bool) (CanvasID, TextureID, error)
	CanvasDestroy(id CanvasID)
	Clear(target CanvasID, color math.Color, mask ColorMask) error
	ClearStencil(target CanvasID, value uint8) error
	Draw(cmd *DrawCommand) error
	ReadPixels(target CanvasID) (*image.RGBA, error)
}
