package platform

import (
	"github.com/spaghettifunk/tessera/engine/containers"
	"github.com/spaghettifunk/tessera/engine/core"
)

// Headless is a window without an OS surface. Signals are injected with Push
// and handed out by PollSignals, which makes it suitable for offscreen runs and
// tests. The failure knobs let callers exercise the platform error paths.
type Headless struct {
	config  WindowConfig
	pending *containers.RingQueue[Signal]
	closed  bool

	mouseVisible bool
	mouseGrabbed bool
	relative     bool
	clipboard    string
	dpiScale     float32

	// Swaps counts presented frames.
	Swaps int
	// HeadlessMonitors is what Monitors reports.
	HeadlessMonitors []Monitor
	// RejectDisplayModes makes size, vsync and fullscreen changes fail.
	RejectDisplayModes bool
	// PlatformUnavailable makes monitor, cursor and clipboard access fail.
	PlatformUnavailable bool
	// OnPoll runs at the start of every PollSignals call, before the queue is drained.
	OnPoll func(h *Headless)
}

func NewHeadless(config WindowConfig) *Headless {
	return &Headless{
		config:       config,
		pending:      containers.NewRingQueue[Signal](32),
		mouseVisible: true,
		dpiScale:     1,
		HeadlessMonitors: []Monitor{
			{Name: "Headless", Width: 1920, Height: 1080},
		},
	}
}

// Push queues signals to be returned by the next PollSignals.
func (h *Headless) Push(signals ...Signal) {
	for _, s := range signals {
		h.pending.Enqueue(s)
	}
}

func (h *Headless) PollSignals(dst []Signal) []Signal {
	if h.OnPoll != nil {
		h.OnPoll(h)
	}
	for !h.pending.IsEmpty() {
		s, _ := h.pending.Dequeue()
		if _, ok := s.(CloseSignal); ok {
			h.closed = true
		}
		if rs, ok := s.(ResizeSignal); ok {
			h.config.Width, h.config.Height = rs.Width, rs.Height
		}
		dst = append(dst, s)
	}
	return dst
}

func (h *Headless) ShouldClose() bool { return h.closed }
func (h *Headless) SwapBuffers()      { h.Swaps++ }

func (h *Headless) Close() error {
	h.closed = true
	return nil
}

func (h *Headless) Title() string         { return h.config.Title }
func (h *Headless) SetTitle(title string) { h.config.Title = title }

func (h *Headless) Size() (int, int) { return h.config.Width, h.config.Height }

func (h *Headless) SetSize(width, height int) error {
	if h.RejectDisplayModes || width <= 0 || height <= 0 {
		return core.DisplayModeErrorf("cannot resize window to %dx%d", width, height)
	}
	h.config.Width, h.config.Height = width, height
	return nil
}

func (h *Headless) PhysicalSize() (int, int) {
	return int(float32(h.config.Width) * h.dpiScale), int(float32(h.config.Height) * h.dpiScale)
}

// SetDPIScale simulates a high DPI display.
func (h *Headless) SetDPIScale(scale float32) {
	h.dpiScale = scale
}

func (h *Headless) DPIScale() float32 {
	return h.dpiScale
}

func (h *Headless) Visible() bool           { return h.config.Visible }
func (h *Headless) SetVisible(visible bool) { h.config.Visible = visible }

func (h *Headless) VSync() bool { return h.config.VSync }

func (h *Headless) SetVSync(vsync bool) error {
	if h.RejectDisplayModes {
		return core.DisplayModeErrorf("cannot change vsync")
	}
	h.config.VSync = vsync
	return nil
}

func (h *Headless) Fullscreen() bool { return h.config.Fullscreen }

func (h *Headless) SetFullscreen(fullscreen bool) error {
	if h.RejectDisplayModes {
		return core.DisplayModeErrorf("cannot change fullscreen mode")
	}
	h.config.Fullscreen = fullscreen
	return nil
}

func (h *Headless) MouseVisible() bool { return h.mouseVisible }

func (h *Headless) SetMouseVisible(visible bool) error {
	if h.PlatformUnavailable {
		return core.PlatformErrorf("cursor state is inaccessible")
	}
	h.mouseVisible = visible
	return nil
}

func (h *Headless) MouseGrabbed() bool            { return h.mouseGrabbed }
func (h *Headless) SetMouseGrabbed(grabbed bool)  { h.mouseGrabbed = grabbed }
func (h *Headless) RelativeMouseMode() bool       { return h.relative }
func (h *Headless) SetRelativeMouseMode(rel bool) { h.relative = rel }
func (h *Headless) ScreenSaverEnabled() bool      { return h.config.ScreenSaver }
func (h *Headless) SetScreenSaverEnabled(on bool) { h.config.ScreenSaver = on }

func (h *Headless) Monitors() ([]Monitor, error) {
	if h.PlatformUnavailable {
		return nil, core.PlatformErrorf("monitor state is inaccessible")
	}
	return append([]Monitor(nil), h.HeadlessMonitors...), nil
}

func (h *Headless) CurrentMonitor() (int, error) {
	if h.PlatformUnavailable || len(h.HeadlessMonitors) == 0 {
		return 0, core.PlatformErrorf("monitor state is inaccessible")
	}
	return 0, nil
}

func (h *Headless) Clipboard() (string, error) {
	if h.PlatformUnavailable {
		return "", core.PlatformErrorf("clipboard is inaccessible")
	}
	return h.clipboard, nil
}

func (h *Headless) SetClipboard(text string) error {
	if h.PlatformUnavailable {
		return core.PlatformErrorf("clipboard is inaccessible")
	}
	h.clipboard = text
	return nil
}
