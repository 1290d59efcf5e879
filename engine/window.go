package engine

import (
	"fmt"

	"github.com/spaghettifunk/tessera/engine/core"
	"github.com/spaghettifunk/tessera/engine/platform"
)

// Window exposes the platform window for calls that have no pass-through.
func (c *Context) Window() platform.Window {
	return c.window
}

func (c *Context) Title() string {
	return c.window.Title()
}

func (c *Context) SetTitle(title string) {
	c.window.SetTitle(title)
}

// Size is the logical size of the window.
func (c *Context) Size() (int, int) {
	return c.window.Size()
}

func (c *Context) SetSize(width, height int) error {
	if width <= 0 || height <= 0 {
		return core.DisplayModeErrorf("invalid window size %dx%d", width, height)
	}
	if err := c.window.SetSize(width, height); err != nil {
		return err
	}
	w, h := c.window.PhysicalSize()
	return c.renderer.Resized(w, h)
}

// PhysicalSize is the size of the framebuffer in pixels.
func (c *Context) PhysicalSize() (int, int) {
	return c.window.PhysicalSize()
}

func (c *Context) DPIScale() float32 {
	return c.window.DPIScale()
}

func (c *Context) IsVisible() bool {
	return c.window.Visible()
}

func (c *Context) SetVisible(visible bool) {
	c.window.SetVisible(visible)
}

func (c *Context) IsVSyncEnabled() bool {
	return c.window.VSync()
}

func (c *Context) SetVSync(vsync bool) error {
	return c.window.SetVSync(vsync)
}

func (c *Context) IsFullscreen() bool {
	return c.window.Fullscreen()
}

func (c *Context) SetFullscreen(fullscreen bool) error {
	if err := c.window.SetFullscreen(fullscreen); err != nil {
		return err
	}
	w, h := c.window.PhysicalSize()
	return c.renderer.Resized(w, h)
}

func (c *Context) IsMouseVisible() bool {
	return c.window.MouseVisible()
}

func (c *Context) SetMouseVisible(visible bool) error {
	return c.window.SetMouseVisible(visible)
}

func (c *Context) IsMouseGrabbed() bool {
	return c.window.MouseGrabbed()
}

func (c *Context) SetMouseGrabbed(grabbed bool) {
	c.window.SetMouseGrabbed(grabbed)
}

func (c *Context) IsRelativeMouseMode() bool {
	return c.window.RelativeMouseMode()
}

func (c *Context) SetRelativeMouseMode(relative bool) {
	c.window.SetRelativeMouseMode(relative)
}

func (c *Context) MonitorCount() (int, error) {
	monitors, err := c.window.Monitors()
	if err != nil {
		return 0, err
	}
	return len(monitors), nil
}

func (c *Context) MonitorName(index int) (string, error) {
	m, err := c.monitor(index)
	if err != nil {
		return "", err
	}
	return m.Name, nil
}

func (c *Context) MonitorSize(index int) (int, int, error) {
	m, err := c.monitor(index)
	if err != nil {
		return 0, 0, err
	}
	return m.Width, m.Height, nil
}

// CurrentMonitor is the index of the monitor the window is on.
func (c *Context) CurrentMonitor() (int, error) {
	return c.window.CurrentMonitor()
}

func (c *Context) monitor(index int) (platform.Monitor, error) {
	monitors, err := c.window.Monitors()
	if err != nil {
		return platform.Monitor{}, err
	}
	if index < 0 || index >= len(monitors) {
		return platform.Monitor{}, fmt.Errorf("%w: no monitor at index %d", core.ErrPlatform, index)
	}
	return monitors[index], nil
}

func (c *Context) IsScreenSaverEnabled() bool {
	return c.window.ScreenSaverEnabled()
}

func (c *Context) SetScreenSaverEnabled(enabled bool) {
	c.window.SetScreenSaverEnabled(enabled)
}

func (c *Context) IsKeyRepeatEnabled() bool {
	return c.keyRepeat
}

// SetKeyRepeatEnabled controls whether held keys produce repeated KeyPressed events.
func (c *Context) SetKeyRepeatEnabled(enabled bool) {
	c.keyRepeat = enabled
}

func (c *Context) Clipboard() (string, error) {
	return c.window.Clipboard()
}

func (c *Context) SetClipboard(text string) error {
	return c.window.SetClipboard(text)
}
