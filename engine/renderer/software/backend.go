package software

import (
	"fmt"
	"image"
	"strings"

	"github.com/spaghettifunk/tessera/engine/core"
	"github.com/spaghettifunk/tessera/engine/math"
	"github.com/spaghettifunk/tessera/engine/renderer"
)

type texture struct {
	width, height int
	// straight alpha RGBA, row major from the top left
	pixels []uint8
	filter renderer.TextureFilter
}

type mesh struct {
	vertices []renderer.Vertex
	indices  []uint32
}

type program struct {
	vertexSource   string
	fragmentSource string
}

// target is a colour buffer with an optional stencil buffer.
type target struct {
	color   *texture
	stencil []uint8
}

/**
 * @brief A CPU rasterizer implementing renderer.RendererBackend. It has no
 * window and no shader execution: every program renders with the fixed
 * textured, vertex coloured pipeline the default shader implements, with
 * per-instance offsets, stencil, colour mask, blending and scissor honoured.
 */
type Backend struct {
	// Caps is reported by Limits. Tests lower MaxInstances or clear Stencil
	// before Initialize to emulate smaller devices.
	Caps renderer.BackendLimits

	// Draws and Instances count what reached the rasterizer since creation.
	Draws     int
	Instances int
	// Frames counts EndFrame calls.
	Frames int

	framebuffer *target
	textures    map[renderer.TextureID]*texture
	programs    map[renderer.ShaderID]*program
	meshes      map[renderer.MeshID]*mesh
	canvases    map[renderer.CanvasID]*target
	nextID      uint32
	initialized bool
}

func New() *Backend {
	return &Backend{
		Caps: renderer.BackendLimits{
			MaxInstances:   1024,
			MaxTextureSize: 8192,
			Stencil:        true,
		},
		textures: make(map[renderer.TextureID]*texture),
		programs: make(map[renderer.ShaderID]*program),
		meshes:   make(map[renderer.MeshID]*mesh),
		canvases: make(map[renderer.CanvasID]*target),
	}
}

func (b *Backend) id() uint32 {
	b.nextID++
	return b.nextID
}

func newTarget(width, height int, stencil bool) *target {
	t := &target{color: &texture{width: width, height: height, pixels: make([]uint8, width*height*4)}}
	if stencil {
		t.stencil = make([]uint8, width*height)
	}
	return t
}

func (b *Backend) Initialize(width, height int, stencil bool) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid framebuffer size %dx%d", width, height)
	}
	b.framebuffer = newTarget(width, height, stencil && b.Caps.Stencil)
	b.initialized = true
	core.LogDebug("software backend initialized (%dx%d)", width, height)
	return nil
}

func (b *Backend) Shutdown() error {
	b.textures = make(map[renderer.TextureID]*texture)
	b.programs = make(map[renderer.ShaderID]*program)
	b.meshes = make(map[renderer.MeshID]*mesh)
	b.canvases = make(map[renderer.CanvasID]*target)
	b.initialized = false
	return nil
}

// Resized reallocates the default framebuffer; its contents are lost.
func (b *Backend) Resized(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid framebuffer size %dx%d", width, height)
	}
	b.framebuffer = newTarget(width, height, b.framebuffer.stencil != nil)
	return nil
}

func (b *Backend) BeginFrame() error {
	if !b.initialized {
		return fmt.Errorf("software backend is not initialized")
	}
	return nil
}

func (b *Backend) EndFrame() error {
	b.Frames++
	return nil
}

func (b *Backend) Limits() renderer.BackendLimits {
	return b.Caps
}

func (b *Backend) TextureCreate(width, height int, pixels []uint8, filter renderer.TextureFilter) (renderer.TextureID, error) {
	t := &texture{width: width, height: height, pixels: make([]uint8, width*height*4), filter: filter}
	copy(t.pixels, pixels)
	id := renderer.TextureID(b.id())
	b.textures[id] = t
	return id, nil
}

func (b *Backend) TextureWriteData(id renderer.TextureID, x, y, width, height int, pixels []uint8) error {
	t, ok := b.textures[id]
	if !ok {
		return fmt.Errorf("unknown texture %d", id)
	}
	for row := 0; row < height; row++ {
		dst := ((y+row)*t.width + x) * 4
		copy(t.pixels[dst:dst+width*4], pixels[row*width*4:(row+1)*width*4])
	}
	return nil
}

func (b *Backend) TextureSetFilter(id renderer.TextureID, filter renderer.TextureFilter) error {
	t, ok := b.textures[id]
	if !ok {
		return fmt.Errorf("unknown texture %d", id)
	}
	t.filter = filter
	return nil
}

func (b *Backend) TextureDestroy(id renderer.TextureID) {
	delete(b.textures, id)
}

// ShaderCreate checks both stages declare an entry point; the program is not run.
func (b *Backend) ShaderCreate(vertexSource, fragmentSource string) (renderer.ShaderID, error) {
	if !strings.Contains(vertexSource, "void main") {
		return 0, &core.ShaderCompileError{Stage: "vertex", Log: "missing entry point 'void main'"}
	}
	if !strings.Contains(fragmentSource, "void main") {
		return 0, &core.ShaderCompileError{Stage: "fragment", Log: "missing entry point 'void main'"}
	}
	id := renderer.ShaderID(b.id())
	b.programs[id] = &program{vertexSource: vertexSource, fragmentSource: fragmentSource}
	return id, nil
}

func (b *Backend) ShaderDestroy(id renderer.ShaderID) {
	delete(b.programs, id)
}

func (b *Backend) MeshCreate(vertices []renderer.Vertex, indices []uint32) (renderer.MeshID, error) {
	id := renderer.MeshID(b.id())
	b.meshes[id] = &mesh{
		vertices: append([]renderer.Vertex(nil), vertices...),
		indices:  append([]uint32(nil), indices...),
	}
	return id, nil
}

func (b *Backend) MeshDestroy(id renderer.MeshID) {
	delete(b.meshes, id)
}

// CanvasCreate allocates a target whose colour buffer doubles as a texture.
func (b *Backend) CanvasCreate(width, height int, stencil bool) (renderer.CanvasID, renderer.TextureID, error) {
	t := newTarget(width, height, stencil && b.Caps.Stencil)
	textureID := renderer.TextureID(b.id())
	b.textures[textureID] = t.color
	id := renderer.CanvasID(b.id())
	b.canvases[id] = t
	return id, textureID, nil
}

func (b *Backend) CanvasDestroy(id renderer.CanvasID) {
	t, ok := b.canvases[id]
	if !ok {
		return
	}
	for tid, tex := range b.textures {
		if tex == t.color {
			delete(b.textures, tid)
		}
	}
	delete(b.canvases, id)
}

func (b *Backend) target(id renderer.CanvasID) (*target, error) {
	if id == renderer.DefaultFramebuffer {
		if b.framebuffer == nil {
			return nil, fmt.Errorf("software backend is not initialized")
		}
		return b.framebuffer, nil
	}
	t, ok := b.canvases[id]
	if !ok {
		return nil, fmt.Errorf("unknown canvas %d", id)
	}
	return t, nil
}

func (b *Backend) Clear(id renderer.CanvasID, color math.Color, mask renderer.ColorMask) error {
	t, err := b.target(id)
	if err != nil {
		return err
	}
	c := color.Bytes()
	px := t.color.pixels
	for i := 0; i < len(px); i += 4 {
		writeMasked(px[i:i+4], c, mask)
	}
	return nil
}

func (b *Backend) ClearStencil(id renderer.CanvasID, value uint8) error {
	t, err := b.target(id)
	if err != nil {
		return err
	}
	if t.stencil == nil {
		return core.ErrStencilUnavailable
	}
	for i := range t.stencil {
		t.stencil[i] = value
	}
	return nil
}

// ReadPixels copies a target's colour buffer, top row first.
func (b *Backend) ReadPixels(id renderer.CanvasID) (*image.RGBA, error) {
	t, err := b.target(id)
	if err != nil {
		return nil, err
	}
	img := image.NewRGBA(image.Rect(0, 0, t.color.width, t.color.height))
	copy(img.Pix, t.color.pixels)
	return img, nil
}

// StencilValue returns the stencil value at x, y of the default framebuffer.
func (b *Backend) StencilValue(x, y int) uint8 {
	fb := b.framebuffer
	if fb == nil || fb.stencil == nil || x < 0 || y < 0 || x >= fb.color.width || y >= fb.color.height {
		return 0
	}
	return fb.stencil[y*fb.color.width+x]
}

func (b *Backend) Draw(cmd *renderer.DrawCommand) error {
	t, err := b.target(cmd.Target)
	if err != nil {
		return err
	}
	tex, ok := b.textures[cmd.Texture]
	if !ok {
		return fmt.Errorf("unknown texture %d", cmd.Texture)
	}
	if _, ok := b.programs[cmd.Shader]; !ok {
		return fmt.Errorf("unknown shader %d", cmd.Shader)
	}
	if tex == t.color {
		return fmt.Errorf("cannot sample canvas texture %d while drawing to it", cmd.Texture)
	}
	if cmd.Stencil.Enabled() && t.stencil == nil {
		return core.ErrStencilUnavailable
	}

	vertices, indices := cmd.Vertices, cmd.Indices
	if cmd.Mesh != 0 {
		m, ok := b.meshes[cmd.Mesh]
		if !ok {
			return fmt.Errorf("unknown mesh %d", cmd.Mesh)
		}
		vertices, indices = m.vertices, m.indices
	}

	r := rasterizer{target: t, texture: tex, cmd: cmd}
	r.clip = image.Rect(0, 0, t.color.width, t.color.height)
	if cmd.Scissor != nil {
		s := cmd.Scissor
		r.clip = r.clip.Intersect(image.Rect(int(s.Left()), int(s.Top()), int(s.Right()), int(s.Bottom())))
	}

	instances := cmd.Instances
	if instances < 1 {
		instances = 1
	}
	for i := 0; i < instances; i++ {
		var offset math.Vec2
		if i < len(cmd.Offsets) {
			offset = cmd.Offsets[i]
		}
		for tri := 0; tri+2 < len(indices); tri += 3 {
			r.triangle(
				r.project(vertices[indices[tri]], offset),
				r.project(vertices[indices[tri+1]], offset),
				r.project(vertices[indices[tri+2]], offset),
			)
		}
	}
	b.Draws++
	b.Instances += instances
	return nil
}

func writeMasked(dst []uint8, c [4]uint8, mask renderer.ColorMask) {
	if mask.R {
		dst[0] = c[0]
	}
	if mask.G {
		dst[1] = c[1]
	}
	if mask.B {
		dst[2] = c[2]
	}
	if mask.A {
		dst[3] = c[3]
	}
}
