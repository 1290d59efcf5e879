package renderer

import "fmt"

type StencilMode int

const (
	STENCIL_MODE_DISABLED StencilMode = iota
	STENCIL_MODE_WRITE
	STENCIL_MODE_READ
)

/** @brief What happens to the stored stencil value when a pixel is drawn in write mode. */
type StencilAction int

const (
	StencilActionKeep StencilAction = iota
	StencilActionZero
	StencilActionReplace
	StencilActionIncrement
	StencilActionIncrementWrap
	StencilActionDecrement
	StencilActionDecrementWrap
	StencilActionInvert
)

/**
 * @brief Comparison used in read mode. The reference value is on the left
 * hand side: LessThan passes when reference < stored value.
 */
type StencilTest int

const (
	StencilTestNever StencilTest = iota
	StencilTestLessThan
	StencilTestLessThanOrEqualTo
	StencilTestEqualTo
	StencilTestNotEqualTo
	StencilTestGreaterThan
	StencilTestGreaterThanOrEqualTo
	StencilTestAlways
)

// Passes reports whether a pixel with the given stored value passes the test.
func (t StencilTest) Passes(reference, stored uint8) bool {
	switch t {
	case StencilTestNever:
		return false
	case StencilTestLessThan:
		return reference < stored
	case StencilTestLessThanOrEqualTo:
		return reference <= stored
	case StencilTestEqualTo:
		return reference == stored
	case StencilTestNotEqualTo:
		return reference != stored
	case StencilTestGreaterThan:
		return reference > stored
	case StencilTestGreaterThanOrEqualTo:
		return reference >= stored
	default:
		return true
	}
}

// Apply returns the new stored value after a write with the given reference.
func (a StencilAction) Apply(reference, stored uint8) uint8 {
	switch a {
	case StencilActionZero:
		return 0
	case StencilActionReplace:
		return reference
	case StencilActionIncrement:
		if stored == 255 {
			return stored
		}
		return stored + 1
	case StencilActionIncrementWrap:
		return stored + 1
	case StencilActionDecrement:
		if stored == 0 {
			return stored
		}
		return stored - 1
	case StencilActionDecrementWrap:
		return stored - 1
	case StencilActionInvert:
		return ^stored
	default:
		return stored
	}
}

/**
 * @brief Stencil configuration. Exactly one of the three modes is active; use
 * the constructors rather than filling the fields by hand.
 */
type StencilState struct {
	Mode      StencilMode
	Action    StencilAction
	Test      StencilTest
	Reference uint8
}

func StencilDisabled() StencilState {
	return StencilState{Mode: STENCIL_MODE_DISABLED}
}

// StencilWrite makes every drawn pixel update the stencil buffer with action.
func StencilWrite(action StencilAction, reference uint8) StencilState {
	return StencilState{Mode: STENCIL_MODE_WRITE, Action: action, Test: StencilTestAlways, Reference: reference}
}

// StencilRead discards pixels that fail test against the stored value.
func StencilRead(test StencilTest, reference uint8) StencilState {
	return StencilState{Mode: STENCIL_MODE_READ, Action: StencilActionKeep, Test: test, Reference: reference}
}

func (s StencilState) Enabled() bool {
	return s.Mode != STENCIL_MODE_DISABLED
}

func (s StencilState) String() string {
	switch s.Mode {
	case STENCIL_MODE_WRITE:
		return fmt.Sprintf("Write(%d, %d)", s.Action, s.Reference)
	case STENCIL_MODE_READ:
		return fmt.Sprintf("Read(%d, %d)", s.Test, s.Reference)
	default:
		return "Disabled"
	}
}

type ColorMask struct {
	R, G, B, A bool
}

var ColorMaskAll = ColorMask{R: true, G: true, B: true, A: true}

func (m ColorMask) Any() bool {
	return m.R || m.G || m.B || m.A
}

type BlendMode int

const (
	/** @brief Straight alpha blending. The default. */
	BlendAlpha BlendMode = iota
	/** @brief Alpha blending for sources with premultiplied colour. */
	BlendPremultiplied
	BlendAdd
	BlendSubtract
	BlendMultiply
	/** @brief No blending, the source replaces the destination. */
	BlendReplace
)

type TextureFilter int

const (
	TextureFilterNearest TextureFilter = iota
	TextureFilterLinear
)

/**
 * @brief Snapshot of the graphics state machine. Nil canvas and shader mean
 * the default framebuffer and the default shader.
 */
type GraphicsState struct {
	Canvas    *Canvas
	Shader    *Shader
	Stencil   StencilState
	ColorMask ColorMask
	Blend     BlendMode
}
