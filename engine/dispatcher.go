package engine

import (
	"fmt"
	"path/filepath"

	"github.com/spaghettifunk/tessera/engine/core"
	"github.com/spaghettifunk/tessera/engine/math"
	"github.com/spaghettifunk/tessera/engine/platform"
)

// translate turns one platform signal into events, appended to dst in emission
// order, and keeps the input snapshot in sync. Only drops can produce more than
// one event. A framebuffer that cannot follow a resize is an error.
func (c *Context) translate(signal platform.Signal, dst []core.Event) ([]core.Event, error) {
	switch s := signal.(type) {
	case platform.KeySignal:
		switch s.Action {
		case platform.ACTION_REPEAT:
			if !c.keyRepeat {
				return dst, nil
			}
			c.input.ProcessKey(s.Key, true, s.Mods)
			return append(dst, core.KeyPressed{Key: s.Key, Modifiers: s.Mods, Repeat: true}), nil
		case platform.ACTION_PRESS:
			if !c.input.ProcessKey(s.Key, true, s.Mods) {
				return dst, nil
			}
			if c.config.QuitOnEscape && s.Key == core.KEY_ESCAPE {
				core.LogDebug("escape pressed, quitting")
				c.Quit()
			}
			return append(dst, core.KeyPressed{Key: s.Key, Modifiers: s.Mods}), nil
		default:
			if !c.input.ProcessKey(s.Key, false, s.Mods) {
				return dst, nil
			}
			return append(dst, core.KeyReleased{Key: s.Key, Modifiers: s.Mods}), nil
		}

	case platform.CharSignal:
		text := string(s.Char)
		c.input.ProcessText(text)
		return append(dst, core.TextInput{Text: text}), nil

	case platform.ButtonSignal:
		if !c.input.ProcessButton(s.Button, s.Pressed) {
			return dst, nil
		}
		if s.Pressed {
			return append(dst, core.MouseButtonPressed{Button: s.Button}), nil
		}
		return append(dst, core.MouseButtonReleased{Button: s.Button}), nil

	case platform.CursorSignal:
		position := math.NewVec2(s.X, s.Y)
		delta := c.input.ProcessMouseMove(position)
		if s.Relative {
			delta = math.NewVec2(s.DX, s.DY)
		}
		return append(dst, core.MouseMoved{Position: position, Delta: delta}), nil

	case platform.ScrollSignal:
		amount := math.NewVec2(s.X, s.Y)
		c.input.ProcessMouseWheel(amount)
		return append(dst, core.MouseWheelMoved{Amount: amount}), nil

	case platform.ResizeSignal:
		c.isSuspended = s.Width == 0 || s.Height == 0
		if c.isSuspended {
			core.LogDebug("window minimized, suspending")
			return dst, nil
		}
		width, height := c.window.PhysicalSize()
		if err := c.renderer.Resized(width, height); err != nil {
			return dst, fmt.Errorf("failed to resize the default framebuffer to %dx%d: %w", width, height, err)
		}
		return append(dst, core.Resized{Width: s.Width, Height: s.Height}), nil

	case platform.FocusSignal:
		if s.Focused {
			return append(dst, core.FocusGained{}), nil
		}
		return append(dst, core.FocusLost{}), nil

	case platform.DropSignal:
		for _, p := range s.Paths {
			abs, err := filepath.Abs(p)
			if err != nil {
				core.LogWarn("dropped file '%s' has no absolute path: %s", p, err)
				abs = p
			}
			dst = append(dst, core.FileDropped{Path: abs})
		}
		return dst, nil

	case platform.CloseSignal:
		core.LogDebug("window close requested")
		c.Quit()
		return dst, nil
	}

	core.LogWarn("unknown platform signal %T", signal)
	return dst, nil
}
