package opengl

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/spaghettifunk/tessera/engine/core"
	"github.com/spaghettifunk/tessera/engine/math"
	"github.com/spaghettifunk/tessera/engine/renderer"
)

// uniform components kept free for the matrices, colour and sampler
const RESERVED_UNIFORM_COMPONENTS = 64

const vertexStride = int32(unsafe.Sizeof(renderer.Vertex{}))

type texture struct {
	id            uint32
	width, height int
}

type mesh struct {
	vao, vbo, ebo uint32
	count         int32
}

type canvas struct {
	fbo, rbo      uint32
	texture       renderer.TextureID
	width, height int
}

/**
 * @brief OpenGL 3.3 core implementation of renderer.RendererBackend. The GL
 * context must be current on the calling thread for every method.
 */
type Backend struct {
	width, height int
	limits        renderer.BackendLimits

	textures map[renderer.TextureID]*texture
	programs map[renderer.ShaderID]*program
	meshes   map[renderer.MeshID]*mesh
	canvases map[renderer.CanvasID]*canvas
	nextID   uint32

	// streaming geometry for immediate draws
	stream mesh
}

func New() *Backend {
	return &Backend{
		textures: make(map[renderer.TextureID]*texture),
		programs: make(map[renderer.ShaderID]*program),
		meshes:   make(map[renderer.MeshID]*mesh),
		canvases: make(map[renderer.CanvasID]*canvas),
	}
}

func (b *Backend) id() uint32 {
	b.nextID++
	return b.nextID
}

func (b *Backend) Initialize(width, height int, stencil bool) error {
	if err := gl.Init(); err != nil {
		return core.PlatformErrorf("failed to initialize OpenGL: %s", err)
	}
	core.LogInfo("OpenGL version %s, renderer %s",
		gl.GoStr(gl.GetString(gl.VERSION)), gl.GoStr(gl.GetString(gl.RENDERER)))

	var maxTexture, maxComponents, stencilBits int32
	gl.GetIntegerv(gl.MAX_TEXTURE_SIZE, &maxTexture)
	gl.GetIntegerv(gl.MAX_VERTEX_UNIFORM_COMPONENTS, &maxComponents)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.GetFramebufferAttachmentParameteriv(gl.FRAMEBUFFER, gl.STENCIL, gl.FRAMEBUFFER_ATTACHMENT_STENCIL_SIZE, &stencilBits)

	// drivers pad vec2 array elements to a full vec4 slot
	b.limits = renderer.BackendLimits{
		MaxInstances:   int(maxComponents-RESERVED_UNIFORM_COMPONENTS) / 4,
		MaxTextureSize: int(maxTexture),
		Stencil:        stencilBits > 0,
	}
	if stencil && !b.limits.Stencil {
		core.LogWarn("a stencil buffer was requested but the default framebuffer has none")
	}

	b.width, b.height = width, height
	b.stream = newMesh()

	gl.Enable(gl.BLEND)
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	return nil
}

func newMesh() mesh {
	var m mesh
	gl.GenVertexArrays(1, &m.vao)
	gl.GenBuffers(1, &m.vbo)
	gl.GenBuffers(1, &m.ebo)

	gl.BindVertexArray(m.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, vertexStride, 0)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, vertexStride, 8)
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointerWithOffset(2, 4, gl.FLOAT, false, vertexStride, 16)
	gl.BindVertexArray(0)
	return m
}

func (m *mesh) upload(vertices []renderer.Vertex, indices []uint32, usage uint32) {
	gl.BindVertexArray(m.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*int(vertexStride), gl.Ptr(vertices), usage)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), usage)
	m.count = int32(len(indices))
}

func (m *mesh) destroy() {
	gl.DeleteVertexArrays(1, &m.vao)
	gl.DeleteBuffers(1, &m.vbo)
	gl.DeleteBuffers(1, &m.ebo)
}

func (b *Backend) Shutdown() error {
	for id := range b.canvases {
		b.CanvasDestroy(id)
	}
	for id := range b.meshes {
		b.MeshDestroy(id)
	}
	for id := range b.programs {
		b.ShaderDestroy(id)
	}
	for id := range b.textures {
		b.TextureDestroy(id)
	}
	b.stream.destroy()
	return nil
}

func (b *Backend) Resized(width, height int) error {
	b.width, b.height = width, height
	return nil
}

func (b *Backend) BeginFrame() error {
	return nil
}

func (b *Backend) EndFrame() error {
	if errCode := gl.GetError(); errCode != gl.NO_ERROR {
		core.LogWarn("OpenGL error 0x%x during frame", errCode)
	}
	return nil
}

func (b *Backend) Limits() renderer.BackendLimits {
	return b.limits
}

func glFilter(filter renderer.TextureFilter) int32 {
	if filter == renderer.TextureFilterLinear {
		return gl.LINEAR
	}
	return gl.NEAREST
}

func (b *Backend) TextureCreate(width, height int, pixels []uint8, filter renderer.TextureFilter) (renderer.TextureID, error) {
	t := &texture{width: width, height: height}
	gl.GenTextures(1, &t.id)
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, glFilter(filter))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, glFilter(filter))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)

	var data unsafe.Pointer
	if len(pixels) > 0 {
		data = gl.Ptr(pixels)
	}
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, data)

	id := renderer.TextureID(b.id())
	b.textures[id] = t
	return id, nil
}

func (b *Backend) TextureWriteData(id renderer.TextureID, x, y, width, height int, pixels []uint8) error {
	t, ok := b.textures[id]
	if !ok {
		return fmt.Errorf("unknown texture %d", id)
	}
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, int32(x), int32(y), int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return nil
}

func (b *Backend) TextureSetFilter(id renderer.TextureID, filter renderer.TextureFilter) error {
	t, ok := b.textures[id]
	if !ok {
		return fmt.Errorf("unknown texture %d", id)
	}
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, glFilter(filter))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, glFilter(filter))
	return nil
}

func (b *Backend) TextureDestroy(id renderer.TextureID) {
	if t, ok := b.textures[id]; ok {
		gl.DeleteTextures(1, &t.id)
		delete(b.textures, id)
	}
}

func (b *Backend) ShaderCreate(vertexSource, fragmentSource string) (renderer.ShaderID, error) {
	p, err := linkProgram(vertexSource, fragmentSource)
	if err != nil {
		return 0, err
	}
	id := renderer.ShaderID(b.id())
	b.programs[id] = p
	return id, nil
}

func (b *Backend) ShaderDestroy(id renderer.ShaderID) {
	if p, ok := b.programs[id]; ok {
		gl.DeleteProgram(p.id)
		delete(b.programs, id)
	}
}

func (b *Backend) MeshCreate(vertices []renderer.Vertex, indices []uint32) (renderer.MeshID, error) {
	m := newMesh()
	m.upload(vertices, indices, gl.STATIC_DRAW)
	gl.BindVertexArray(0)
	id := renderer.MeshID(b.id())
	b.meshes[id] = &m
	return id, nil
}

func (b *Backend) MeshDestroy(id renderer.MeshID) {
	if m, ok := b.meshes[id]; ok {
		m.destroy()
		delete(b.meshes, id)
	}
}

func (b *Backend) CanvasCreate(width, height int, stencil bool) (renderer.CanvasID, renderer.TextureID, error) {
	textureID, err := b.TextureCreate(width, height, nil, renderer.TextureFilterNearest)
	if err != nil {
		return 0, 0, err
	}
	c := &canvas{texture: textureID, width: width, height: height}
	gl.GenFramebuffers(1, &c.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, c.fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, b.textures[textureID].id, 0)
	if stencil {
		gl.GenRenderbuffers(1, &c.rbo)
		gl.BindRenderbuffer(gl.RENDERBUFFER, c.rbo)
		gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH24_STENCIL8, int32(width), int32(height))
		gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_STENCIL_ATTACHMENT, gl.RENDERBUFFER, c.rbo)
	}
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	if status != gl.FRAMEBUFFER_COMPLETE {
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		b.destroyCanvas(c)
		return 0, 0, fmt.Errorf("incomplete framebuffer (status 0x%x)", status)
	}
	// new canvases start transparent
	gl.ColorMask(true, true, true, true)
	gl.ClearColor(0, 0, 0, 0)
	gl.Clear(gl.COLOR_BUFFER_BIT)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)

	id := renderer.CanvasID(b.id())
	b.canvases[id] = c
	return id, textureID, nil
}

func (b *Backend) destroyCanvas(c *canvas) {
	gl.DeleteFramebuffers(1, &c.fbo)
	if c.rbo != 0 {
		gl.DeleteRenderbuffers(1, &c.rbo)
	}
	b.TextureDestroy(c.texture)
}

func (b *Backend) CanvasDestroy(id renderer.CanvasID) {
	if c, ok := b.canvases[id]; ok {
		b.destroyCanvas(c)
		delete(b.canvases, id)
	}
}

// bindTarget makes the target current and returns its size and projection.
// Canvases are rendered upside down so their texture rows read top first.
func (b *Backend) bindTarget(id renderer.CanvasID) (int, int, math.Mat3, error) {
	if id == renderer.DefaultFramebuffer {
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		gl.Viewport(0, 0, int32(b.width), int32(b.height))
		return b.width, b.height, math.Ortho(float32(b.width), float32(b.height)), nil
	}
	c, ok := b.canvases[id]
	if !ok {
		return 0, 0, math.Mat3{}, fmt.Errorf("unknown canvas %d", id)
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, c.fbo)
	gl.Viewport(0, 0, int32(c.width), int32(c.height))
	projection := math.Ortho(float32(c.width), float32(c.height))
	projection.D, projection.F = -projection.D, -projection.F
	return c.width, c.height, projection, nil
}

func (b *Backend) Clear(target renderer.CanvasID, color math.Color, mask renderer.ColorMask) error {
	if _, _, _, err := b.bindTarget(target); err != nil {
		return err
	}
	gl.Disable(gl.SCISSOR_TEST)
	gl.ColorMask(mask.R, mask.G, mask.B, mask.A)
	gl.ClearColor(color.R, color.G, color.B, color.A)
	gl.Clear(gl.COLOR_BUFFER_BIT)
	return nil
}

func (b *Backend) ClearStencil(target renderer.CanvasID, value uint8) error {
	if target != renderer.DefaultFramebuffer {
		if c, ok := b.canvases[target]; ok && c.rbo == 0 {
			return core.ErrStencilUnavailable
		}
	} else if !b.limits.Stencil {
		return core.ErrStencilUnavailable
	}
	if _, _, _, err := b.bindTarget(target); err != nil {
		return err
	}
	gl.Disable(gl.SCISSOR_TEST)
	gl.StencilMask(0xFF)
	gl.ClearStencil(int32(value))
	gl.Clear(gl.STENCIL_BUFFER_BIT)
	return nil
}

var stencilOps = map[renderer.StencilAction]uint32{
	renderer.StencilActionKeep:          gl.KEEP,
	renderer.StencilActionZero:          gl.ZERO,
	renderer.StencilActionReplace:       gl.REPLACE,
	renderer.StencilActionIncrement:     gl.INCR,
	renderer.StencilActionIncrementWrap: gl.INCR_WRAP,
	renderer.StencilActionDecrement:     gl.DECR,
	renderer.StencilActionDecrementWrap: gl.DECR_WRAP,
	renderer.StencilActionInvert:        gl.INVERT,
}

var stencilFuncs = map[renderer.StencilTest]uint32{
	renderer.StencilTestNever:                gl.NEVER,
	renderer.StencilTestLessThan:             gl.LESS,
	renderer.StencilTestLessThanOrEqualTo:    gl.LEQUAL,
	renderer.StencilTestEqualTo:              gl.EQUAL,
	renderer.StencilTestNotEqualTo:           gl.NOTEQUAL,
	renderer.StencilTestGreaterThan:          gl.GREATER,
	renderer.StencilTestGreaterThanOrEqualTo: gl.GEQUAL,
	renderer.StencilTestAlways:               gl.ALWAYS,
}

func applyStencil(s renderer.StencilState) {
	switch s.Mode {
	case renderer.STENCIL_MODE_WRITE:
		gl.Enable(gl.STENCIL_TEST)
		gl.StencilFunc(gl.ALWAYS, int32(s.Reference), 0xFF)
		gl.StencilOp(gl.KEEP, gl.KEEP, stencilOps[s.Action])
		gl.StencilMask(0xFF)
	case renderer.STENCIL_MODE_READ:
		gl.Enable(gl.STENCIL_TEST)
		gl.StencilFunc(stencilFuncs[s.Test], int32(s.Reference), 0xFF)
		gl.StencilOp(gl.KEEP, gl.KEEP, gl.KEEP)
		gl.StencilMask(0x00)
	default:
		gl.Disable(gl.STENCIL_TEST)
	}
}

func applyBlend(mode renderer.BlendMode) {
	equation := uint32(gl.FUNC_ADD)
	srcRGB, dstRGB, srcA, dstA := uint32(gl.SRC_ALPHA), uint32(gl.ONE_MINUS_SRC_ALPHA), uint32(gl.ONE), uint32(gl.ONE_MINUS_SRC_ALPHA)
	switch mode {
	case renderer.BlendPremultiplied:
		srcRGB = gl.ONE
	case renderer.BlendAdd:
		dstRGB, dstA = gl.ONE, gl.ONE
	case renderer.BlendSubtract:
		equation = gl.FUNC_REVERSE_SUBTRACT
		dstRGB, srcA, dstA = gl.ONE, gl.ZERO, gl.ONE
	case renderer.BlendMultiply:
		srcRGB, dstRGB, srcA, dstA = gl.DST_COLOR, gl.ZERO, gl.DST_ALPHA, gl.ZERO
	case renderer.BlendReplace:
		srcRGB, dstRGB, srcA, dstA = gl.ONE, gl.ZERO, gl.ONE, gl.ZERO
	}
	gl.BlendEquation(equation)
	gl.BlendFuncSeparate(srcRGB, dstRGB, srcA, dstA)
}

func (b *Backend) Draw(cmd *renderer.DrawCommand) error {
	_, height, projection, err := b.bindTarget(cmd.Target)
	if err != nil {
		return err
	}
	p, ok := b.programs[cmd.Shader]
	if !ok {
		return fmt.Errorf("unknown shader %d", cmd.Shader)
	}
	t, ok := b.textures[cmd.Texture]
	if !ok {
		return fmt.Errorf("unknown texture %d", cmd.Texture)
	}

	applyStencil(cmd.Stencil)
	applyBlend(cmd.Blend)
	gl.ColorMask(cmd.ColorMask.R, cmd.ColorMask.G, cmd.ColorMask.B, cmd.ColorMask.A)
	if s := cmd.Scissor; s != nil {
		y := int32(s.Top())
		if cmd.Target == renderer.DefaultFramebuffer {
			y = int32(height) - int32(s.Bottom())
		}
		gl.Enable(gl.SCISSOR_TEST)
		gl.Scissor(int32(s.Left()), y, int32(s.Width), int32(s.Height))
	} else {
		gl.Disable(gl.SCISSOR_TEST)
	}

	p.bind(cmd, projection)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, t.id)

	geometry := &b.stream
	if cmd.Mesh != 0 {
		if geometry, ok = b.meshes[cmd.Mesh]; !ok {
			return fmt.Errorf("unknown mesh %d", cmd.Mesh)
		}
		gl.BindVertexArray(geometry.vao)
	} else {
		if len(cmd.Vertices) == 0 || len(cmd.Indices) == 0 {
			return nil
		}
		geometry.upload(cmd.Vertices, cmd.Indices, gl.STREAM_DRAW)
	}

	instances := int32(cmd.Instances)
	if instances < 1 {
		instances = 1
	}
	gl.DrawElementsInstanced(gl.TRIANGLES, geometry.count, gl.UNSIGNED_INT, nil, instances)
	gl.BindVertexArray(0)
	return nil
}

// ReadPixels returns a target's colour buffer, top row first.
func (b *Backend) ReadPixels(target renderer.CanvasID) (*image.RGBA, error) {
	width, height, _, err := b.bindTarget(target)
	if err != nil {
		return nil, err
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	if target == renderer.DefaultFramebuffer {
		flipRows(img)
	}
	return img, nil
}

func flipRows(img *image.RGBA) {
	stride := img.Stride
	tmp := make([]uint8, stride)
	rows := img.Rect.Dy()
	for top, bottom := 0, rows-1; top < bottom; top, bottom = top+1, bottom-1 {
		a := img.Pix[top*stride : (top+1)*stride]
		c := img.Pix[bottom*stride : (bottom+1)*stride]
		copy(tmp, a)
		copy(a, c)
		copy(c, tmp)
	}
}
