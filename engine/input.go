package engine

import (
	"github.com/spaghettifunk/tessera/engine/core"
	"github.com/spaghettifunk/tessera/engine/math"
)

// keyboard input
func (c *Context) IsKeyDown(key core.Key) bool {
	return c.input.IsKeyDown(key)
}

func (c *Context) IsKeyUp(key core.Key) bool {
	return c.input.IsKeyUp(key)
}

// IsKeyPressed reports whether the key went down since the last update.
func (c *Context) IsKeyPressed(key core.Key) bool {
	return c.input.IsKeyPressed(key)
}

// IsKeyReleased reports whether the key went up since the last update.
func (c *Context) IsKeyReleased(key core.Key) bool {
	return c.input.IsKeyReleased(key)
}

func (c *Context) KeysPressed() []core.Key {
	return c.input.KeysPressed()
}

func (c *Context) KeysReleased() []core.Key {
	return c.input.KeysReleased()
}

func (c *Context) IsKeyModifierDown(mod core.KeyModifier) bool {
	return c.input.IsKeyModifierDown(mod)
}

// mouse input
func (c *Context) IsMouseButtonDown(button core.Button) bool {
	return c.input.IsButtonDown(button)
}

func (c *Context) IsMouseButtonUp(button core.Button) bool {
	return c.input.IsButtonUp(button)
}

func (c *Context) IsMouseButtonPressed(button core.Button) bool {
	return c.input.IsButtonPressed(button)
}

func (c *Context) IsMouseButtonReleased(button core.Button) bool {
	return c.input.IsButtonReleased(button)
}

func (c *Context) MousePosition() math.Vec2 {
	return c.input.MousePosition()
}

func (c *Context) MouseWheelMovement() math.Vec2 {
	return c.input.MouseWheelMovement()
}

// TextInput returns the text typed since the last update, if any.
func (c *Context) TextInput() (string, bool) {
	return c.input.TextInput()
}
