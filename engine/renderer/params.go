package renderer

import "github.com/spaghettifunk/tessera/engine/math"

/**
 * @brief Per-draw parameters. DrawParams is a value type: the With* setters
 * return a modified copy, so a base value can be shared between draws.
 * Build it with NewDrawParams or At, the zero value has a zero scale.
 */
type DrawParams struct {
	/** @brief Where the origin point lands on the target. */
	Position math.Vec2
	/** @brief Pivot for scaling and rotation, in local pixels. */
	Origin math.Vec2
	Scale  math.Vec2
	/** @brief Rotation in radians, clockwise on screen. */
	Rotation float32
	/** @brief Tint multiplied with the texture. */
	Color math.Color
	/** @brief Source region of the texture to draw. Nil draws the whole texture. */
	Clip *math.Rectangle
}

func NewDrawParams() DrawParams {
	return DrawParams{
		Scale: math.NewVec2One(),
		Color: math.White,
	}
}

// At returns default parameters placed at position.
func At(position math.Vec2) DrawParams {
	return NewDrawParams().WithPosition(position)
}

func (p DrawParams) WithPosition(position math.Vec2) DrawParams {
	p.Position = position
	return p
}

func (p DrawParams) WithOrigin(origin math.Vec2) DrawParams {
	p.Origin = origin
	return p
}

func (p DrawParams) WithScale(scale math.Vec2) DrawParams {
	p.Scale = scale
	return p
}

func (p DrawParams) WithRotation(radians float32) DrawParams {
	p.Rotation = radians
	return p
}

func (p DrawParams) WithColor(color math.Color) DrawParams {
	p.Color = color
	return p
}

func (p DrawParams) WithClip(clip math.Rectangle) DrawParams {
	p.Clip = &clip
	return p
}

// Transform returns the local to target transform for these parameters.
func (p DrawParams) Transform() math.Mat3 {
	return math.ComposeTransform(p.Position, p.Origin, p.Scale, p.Rotation)
}
