package platform

import (
	"errors"

	"github.com/spaghettifunk/tessera/engine/core"
)

// WindowConfig holds the options a window is created with.
type WindowConfig struct {
	Title         string
	Width         int
	Height        int
	Resizable     bool
	VSync         bool
	Fullscreen    bool
	HighDPI       bool
	Visible       bool
	Maximized     bool
	Borderless    bool
	StencilBuffer bool
	ScreenSaver   bool
}

// Monitor describes a display connected to the device.
type Monitor struct {
	Name   string
	X, Y   int
	Width  int
	Height int
}

// Window is the narrow view of the windowing layer the runtime depends on.
// Implementations translate OS events into Signals and queue them until
// PollSignals is called; they never block waiting for input.
type Window interface {
	// PollSignals appends every pending signal to dst, in emission order.
	PollSignals(dst []Signal) []Signal
	ShouldClose() bool
	SwapBuffers()
	Close() error

	Title() string
	SetTitle(title string)
	Size() (int, int)
	SetSize(width, height int) error
	PhysicalSize() (int, int)
	DPIScale() float32
	Visible() bool
	SetVisible(visible bool)
	VSync() bool
	SetVSync(vsync bool) error
	Fullscreen() bool
	SetFullscreen(fullscreen bool) error
	MouseVisible() bool
	SetMouseVisible(visible bool) error
	MouseGrabbed() bool
	SetMouseGrabbed(grabbed bool)
	RelativeMouseMode() bool
	SetRelativeMouseMode(relative bool)
	Monitors() ([]Monitor, error)
	CurrentMonitor() (int, error)
	ScreenSaverEnabled() bool
	SetScreenSaverEnabled(enabled bool)
	Clipboard() (string, error)
	SetClipboard(text string) error
}

type Action uint8

const (
	ACTION_RELEASE Action = iota
	ACTION_PRESS
	ACTION_REPEAT
)

// Signal is a raw platform notification, before it is turned into a core.Event.
type Signal interface{}

type KeySignal struct {
	Key    core.Key
	Action Action
	Mods   core.KeyModifier
}

// CharSignal carries a committed unicode character.
type CharSignal struct {
	Char rune
}

type ButtonSignal struct {
	Button  core.Button
	Pressed bool
}

// CursorSignal carries the cursor position in logical pixels. When Relative is
// set the platform already computed DX/DY (relative mouse mode).
type CursorSignal struct {
	X, Y     float32
	DX, DY   float32
	Relative bool
}

type ScrollSignal struct {
	X, Y float32
}

type ResizeSignal struct {
	Width, Height int
}

type FocusSignal struct {
	Focused bool
}

type DropSignal struct {
	Paths []string
}

// CloseSignal is emitted when the user asks the window to close.
type CloseSignal struct{}

// closeOnError releases a window whose setup failed and returns err, joined
// with the close error if there is one.
func closeOnError(w Window, err error) error {
	if closeErr := w.Close(); closeErr != nil {
		return errors.Join(err, closeErr)
	}
	return err
}
