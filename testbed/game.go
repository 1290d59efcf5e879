package testbed

import (
	"fmt"
	"time"

	"github.com/chewxy/math32"
	"github.com/spaghettifunk/tessera/engine"
	"github.com/spaghettifunk/tessera/engine/core"
	"github.com/spaghettifunk/tessera/engine/math"
	"github.com/spaghettifunk/tessera/engine/renderer"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

const (
	CANVAS_SIZE     = 128
	SPRITE_SIZE     = 16
	SPRITE_FRAMES   = 8
	INSTANCE_COUNT  = 12
	PLAYER_SPEED    = 180.0
	FRAME_LENGTH_MS = 100
)

var background = math.RGB8(0x1d, 0x20, 0x2b)

/**
 * @brief Demo state exercising every part of the renderer: an offscreen
 * canvas, a stencil mask, instanced quads, a nine-slice panel, a sprite
 * animation and editable text.
 */
type Testbed struct {
	engine.DefaultState

	canvas    *renderer.Canvas
	panel     *renderer.Texture
	sprites   *renderer.Texture
	animation *renderer.Animation
	instanced *renderer.Shader
	dot       *renderer.Mesh
	mask      *renderer.Mesh
	stripes   *renderer.Mesh
	font      *renderer.Font
	text      *renderer.Text

	player   math.Vec2
	rotation float32
}

// New creates the testbed resources. It is meant to be passed to Context.Run.
func New(ctx *engine.Context) (engine.State, error) {
	r := ctx.Renderer()
	tb := &Testbed{player: math.NewVec2(400, 300)}

	var err error
	if tb.canvas, err = renderer.NewCanvas(r, CANVAS_SIZE, CANVAS_SIZE); err != nil {
		return nil, err
	}
	if tb.panel, err = renderer.NewTextureFromData(r, 12, 12, panelPixels()); err != nil {
		return nil, err
	}
	if tb.sprites, err = renderer.NewTextureFromData(r, SPRITE_SIZE*SPRITE_FRAMES, SPRITE_SIZE, spritePixels()); err != nil {
		return nil, err
	}
	tb.animation = renderer.NewAnimation(tb.sprites,
		renderer.RowFrames(0, 0, SPRITE_SIZE, SPRITE_SIZE, SPRITE_FRAMES),
		FRAME_LENGTH_MS*time.Millisecond)

	if tb.instanced, err = renderer.NewShader(r, "", ""); err != nil {
		return nil, err
	}
	count := INSTANCE_COUNT
	if capacity := r.InstanceCapacity(); capacity < count {
		core.LogWarn("device only fits %d instances", capacity)
		count = capacity
	}
	offsets := make([]math.Vec2, count)
	for i := range offsets {
		offsets[i] = math.NewVec2(float32(i%4)*24, float32(i/4)*24)
	}
	if err := tb.instanced.SetUniform(renderer.UNIFORM_OFFSETS, offsets); err != nil {
		return nil, err
	}

	if tb.dot, err = renderer.NewCircleMesh(r, renderer.Fill, math.NewVec2(0, 0), 8); err != nil {
		return nil, err
	}
	if tb.mask, err = renderer.NewCircleMesh(r, renderer.Fill, math.NewVec2(0, 0), 48); err != nil {
		return nil, err
	}
	builder := renderer.NewGeometryBuilder()
	for i := 0; i < 6; i++ {
		rect := math.NewRectangle(-48, -48+float32(i)*16, 96, 8)
		if _, err := builder.SetColor(stripeColor(i)).Rectangle(renderer.Fill, rect); err != nil {
			return nil, err
		}
	}
	if tb.stripes, err = builder.BuildMesh(r); err != nil {
		return nil, err
	}

	parsed, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, err
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{Size: 18, DPI: 72})
	if err != nil {
		return nil, err
	}
	if tb.font, err = renderer.NewVectorFontFromFace(r, face); err != nil {
		return nil, err
	}
	tb.text = renderer.NewText("Type something: ", tb.font)

	core.LogInfo("testbed ready (instance capacity %d)", r.InstanceCapacity())
	return tb, nil
}

// Text is the line edited through keyboard input.
func (tb *Testbed) Text() *renderer.Text {
	return tb.text
}

func (tb *Testbed) Event(ctx *engine.Context, event core.Event) error {
	switch e := event.(type) {
	case core.TextInput:
		tb.text.PushString(e.Text)
	case core.KeyPressed:
		switch e.Key {
		case core.KEY_BACKSPACE:
			tb.text.Pop()
		case core.KEY_F11:
			if err := ctx.SetFullscreen(!ctx.IsFullscreen()); err != nil {
				core.LogWarn("fullscreen toggle failed: %s", err)
			}
		}
	case core.FileDropped:
		ctx.SetTitle(fmt.Sprintf("tessera testbed - %s", e.Path))
	case core.Resized:
		core.LogDebug("window resized to %dx%d", e.Width, e.Height)
	}
	return nil
}

func (tb *Testbed) Update(ctx *engine.Context) error {
	dt := float32(ctx.DeltaTime().Seconds())

	var direction math.Vec2
	if ctx.IsKeyDown(core.KEY_LEFT) || ctx.IsKeyDown(core.KEY_A) {
		direction.X--
	}
	if ctx.IsKeyDown(core.KEY_RIGHT) || ctx.IsKeyDown(core.KEY_D) {
		direction.X++
	}
	if ctx.IsKeyDown(core.KEY_UP) || ctx.IsKeyDown(core.KEY_W) {
		direction.Y--
	}
	if ctx.IsKeyDown(core.KEY_DOWN) || ctx.IsKeyDown(core.KEY_S) {
		direction.Y++
	}
	tb.player = tb.player.Add(direction.MulScalar(PLAYER_SPEED * dt))

	tb.rotation = math32.Mod(tb.rotation+dt, 2*math32.Pi)
	tb.animation.Advance(ctx.DeltaTime())
	return nil
}

func (tb *Testbed) Draw(ctx *engine.Context) error {
	r := ctx.Renderer()

	// offscreen: spinning sprite on top of the panel
	if err := r.SetCanvas(tb.canvas); err != nil {
		return err
	}
	if err := r.Clear(math.RGBA(0, 0, 0, 0)); err != nil {
		return err
	}
	if err := tb.panel.DrawNineSlice(r, renderer.NewNineSlice(math.NewRectangle(0, 0, 12, 12), 4, 4, 4, 4),
		CANVAS_SIZE, CANVAS_SIZE, renderer.NewDrawParams()); err != nil {
		return err
	}
	half := float32(SPRITE_SIZE) / 2
	sprite := renderer.At(math.NewVec2(CANVAS_SIZE/2, CANVAS_SIZE/2)).
		WithOrigin(math.NewVec2(half, half)).
		WithScale(math.NewVec2(4, 4)).
		WithRotation(tb.rotation)
	if err := tb.animation.Draw(r, sprite); err != nil {
		return err
	}
	r.ResetCanvas()

	if err := r.Clear(background); err != nil {
		return err
	}
	if err := tb.canvas.Draw(r, renderer.At(math.NewVec2(32, 32))); err != nil {
		return err
	}

	if err := tb.drawInstanced(r); err != nil {
		return err
	}
	if err := tb.drawMasked(r); err != nil {
		return err
	}

	if err := tb.animation.Draw(r, renderer.At(tb.player).WithScale(math.NewVec2(2, 2))); err != nil {
		return err
	}
	if err := tb.text.Draw(r, renderer.At(math.NewVec2(32, 200))); err != nil {
		return err
	}
	return nil
}

func (tb *Testbed) drawInstanced(r *renderer.Renderer) error {
	if err := r.SetShader(tb.instanced); err != nil {
		return err
	}
	defer r.ResetShader()
	count := INSTANCE_COUNT
	if capacity := r.InstanceCapacity(); capacity < count {
		count = capacity
	}
	return tb.dot.DrawInstanced(r, count, renderer.At(math.NewVec2(220, 40)).WithColor(math.RGB(0.9, 0.6, 0.2)))
}

// drawMasked draws the stripes through a circular stencil mask.
func (tb *Testbed) drawMasked(r *renderer.Renderer) error {
	if !r.StencilBuffer() {
		return tb.stripes.Draw(r, renderer.At(math.NewVec2(420, 120)))
	}
	if err := r.ClearStencil(0); err != nil {
		return err
	}
	r.SetColorMask(false, false, false, false)
	if err := r.SetStencilState(renderer.StencilWrite(renderer.StencilActionReplace, 1)); err != nil {
		return err
	}
	if err := tb.mask.Draw(r, renderer.At(math.NewVec2(420, 120))); err != nil {
		return err
	}
	r.SetColorMask(true, true, true, true)
	if err := r.SetStencilState(renderer.StencilRead(renderer.StencilTestEqualTo, 1)); err != nil {
		return err
	}
	if err := tb.stripes.Draw(r, renderer.At(math.NewVec2(420, 120)).WithRotation(tb.rotation)); err != nil {
		return err
	}
	return r.SetStencilState(renderer.StencilDisabled())
}

func stripeColor(i int) math.Color {
	if i%2 == 0 {
		return math.RGB8(0xe0, 0x6c, 0x75)
	}
	return math.RGB8(0x61, 0xaf, 0xef)
}

// panelPixels is a 12x12 frame with a 4 pixel border.
func panelPixels() []uint8 {
	pixels := make([]uint8, 12*12*4)
	for y := 0; y < 12; y++ {
		for x := 0; x < 12; x++ {
			i := (y*12 + x) * 4
			border := x < 4 || x >= 8 || y < 4 || y >= 8
			if border {
				copy(pixels[i:], []uint8{0xab, 0xb2, 0xbf, 0xff})
			} else {
				copy(pixels[i:], []uint8{0x28, 0x2c, 0x34, 0xff})
			}
		}
	}
	return pixels
}

// spritePixels draws SPRITE_FRAMES squares that grow from frame to frame.
func spritePixels() []uint8 {
	width := SPRITE_SIZE * SPRITE_FRAMES
	pixels := make([]uint8, width*SPRITE_SIZE*4)
	for frame := 0; frame < SPRITE_FRAMES; frame++ {
		inset := SPRITE_FRAMES - 1 - frame
		for y := inset; y < SPRITE_SIZE-inset; y++ {
			for x := inset; x < SPRITE_SIZE-inset; x++ {
				i := (y*width + frame*SPRITE_SIZE + x) * 4
				copy(pixels[i:], []uint8{0x98, 0xc3, 0x79, 0xff})
			}
		}
	}
	return pixels
}
