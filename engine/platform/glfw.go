package platform

import (
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/spaghettifunk/tessera/engine/containers"
	"github.com/spaghettifunk/tessera/engine/core"
)

func init() {
	// GLFW event handling must run on the main OS thread
	runtime.LockOSThread()
}

// GLFWWindow is the desktop window, backed by GLFW with an OpenGL 3.3 core context.
type GLFWWindow struct {
	Window *glfw.Window

	title        string
	vsync        bool
	fullscreen   bool
	mouseGrabbed bool
	relative     bool
	screenSaver  bool
	pending      *containers.RingQueue[Signal]

	// windowed geometry restored when leaving fullscreen
	savedX, savedY int
	savedW, savedH int
}

// NewGLFWWindow initializes GLFW and opens a window with a current OpenGL context.
func NewGLFWWindow(config WindowConfig) (*GLFWWindow, error) {
	if err := glfw.Init(); err != nil {
		core.LogError("failed to initialize glfw: %s", err)
		return nil, core.PlatformErrorf("failed to initialize glfw: %v", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.Resizable, glfwBool(config.Resizable))
	glfw.WindowHint(glfw.Decorated, glfwBool(!config.Borderless))
	glfw.WindowHint(glfw.Maximized, glfwBool(config.Maximized))
	glfw.WindowHint(glfw.CocoaRetinaFramebuffer, glfwBool(config.HighDPI))
	glfw.WindowHint(glfw.ScaleToMonitor, glfwBool(config.HighDPI))
	if config.StencilBuffer {
		glfw.WindowHint(glfw.StencilBits, 8)
	} else {
		glfw.WindowHint(glfw.StencilBits, 0)
	}

	var monitor *glfw.Monitor
	width, height := config.Width, config.Height
	if config.Fullscreen {
		monitor = glfw.GetPrimaryMonitor()
		if mode := monitor.GetVideoMode(); mode != nil {
			width, height = mode.Width, mode.Height
		}
	}

	window, err := glfw.CreateWindow(width, height, config.Title, monitor, nil)
	if err != nil {
		core.LogError("failed to create window: %s", err)
		glfw.Terminate()
		return nil, core.PlatformErrorf("failed to create window: %v", err)
	}
	window.MakeContextCurrent()

	w := &GLFWWindow{
		Window:      window,
		title:       config.Title,
		fullscreen:  config.Fullscreen,
		screenSaver: config.ScreenSaver,
		pending:     containers.NewRingQueue[Signal](64),
		savedW:      config.Width,
		savedH:      config.Height,
	}

	window.SetKeyCallback(w.keyCallback)
	window.SetCharCallback(w.charCallback)
	window.SetMouseButtonCallback(w.mouseButtonCallback)
	window.SetCursorPosCallback(w.cursorPosCallback)
	window.SetScrollCallback(w.scrollCallback)
	window.SetSizeCallback(w.sizeCallback)
	window.SetFocusCallback(w.focusCallback)
	window.SetDropCallback(w.dropCallback)
	window.SetCloseCallback(w.closeCallback)

	if err := w.SetVSync(config.VSync); err != nil {
		return nil, closeOnError(w, err)
	}
	if config.Visible {
		window.Show()
	}
	return w, nil
}

func (w *GLFWWindow) PollSignals(dst []Signal) []Signal {
	glfw.PollEvents()
	for !w.pending.IsEmpty() {
		s, _ := w.pending.Dequeue()
		dst = append(dst, s)
	}
	return dst
}

func (w *GLFWWindow) ShouldClose() bool {
	return w.Window.ShouldClose()
}

func (w *GLFWWindow) SwapBuffers() {
	w.Window.SwapBuffers()
}

func (w *GLFWWindow) Close() error {
	w.Window.Destroy()
	glfw.Terminate()
	return nil
}

func (w *GLFWWindow) Title() string {
	return w.title
}

func (w *GLFWWindow) SetTitle(title string) {
	w.title = title
	w.Window.SetTitle(title)
}

func (w *GLFWWindow) Size() (int, int) {
	return w.Window.GetSize()
}

func (w *GLFWWindow) SetSize(width, height int) error {
	if width <= 0 || height <= 0 {
		return core.DisplayModeErrorf("cannot resize window to %dx%d", width, height)
	}
	w.Window.SetSize(width, height)
	return nil
}

func (w *GLFWWindow) PhysicalSize() (int, int) {
	return w.Window.GetFramebufferSize()
}

func (w *GLFWWindow) DPIScale() float32 {
	lw, _ := w.Window.GetSize()
	pw, _ := w.Window.GetFramebufferSize()
	if lw == 0 {
		return 1
	}
	return float32(pw) / float32(lw)
}

func (w *GLFWWindow) Visible() bool {
	return w.Window.GetAttrib(glfw.Visible) == glfw.True
}

func (w *GLFWWindow) SetVisible(visible bool) {
	if visible {
		w.Window.Show()
	} else {
		w.Window.Hide()
	}
}

func (w *GLFWWindow) VSync() bool {
	return w.vsync
}

func (w *GLFWWindow) SetVSync(vsync bool) error {
	if glfw.GetCurrentContext() != w.Window {
		return core.DisplayModeErrorf("window context is not current")
	}
	if vsync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
	w.vsync = vsync
	return nil
}

func (w *GLFWWindow) Fullscreen() bool {
	return w.fullscreen
}

func (w *GLFWWindow) SetFullscreen(fullscreen bool) error {
	if fullscreen == w.fullscreen {
		return nil
	}
	if fullscreen {
		monitor := glfw.GetPrimaryMonitor()
		if monitor == nil {
			return core.DisplayModeErrorf("no monitor available for fullscreen")
		}
		mode := monitor.GetVideoMode()
		if mode == nil {
			return core.DisplayModeErrorf("monitor '%s' has no video mode", monitor.GetName())
		}
		w.savedX, w.savedY = w.Window.GetPos()
		w.savedW, w.savedH = w.Window.GetSize()
		w.Window.SetMonitor(monitor, 0, 0, mode.Width, mode.Height, mode.RefreshRate)
	} else {
		w.Window.SetMonitor(nil, w.savedX, w.savedY, w.savedW, w.savedH, 0)
	}
	w.fullscreen = fullscreen
	return nil
}

func (w *GLFWWindow) MouseVisible() bool {
	return w.Window.GetInputMode(glfw.CursorMode) == glfw.CursorNormal
}

func (w *GLFWWindow) SetMouseVisible(visible bool) error {
	if w.relative {
		return core.PlatformErrorf("cursor visibility is locked while relative mouse mode is enabled")
	}
	if visible {
		w.Window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	} else {
		w.Window.SetInputMode(glfw.CursorMode, glfw.CursorHidden)
	}
	return nil
}

// GLFW 3.3 cannot confine the cursor, so grabbing is only recorded.
func (w *GLFWWindow) MouseGrabbed() bool {
	return w.mouseGrabbed
}

func (w *GLFWWindow) SetMouseGrabbed(grabbed bool) {
	if grabbed && !w.mouseGrabbed {
		core.LogWarn("mouse grabbing is not supported by the glfw window, ignoring")
	}
	w.mouseGrabbed = grabbed
}

func (w *GLFWWindow) RelativeMouseMode() bool {
	return w.relative
}

func (w *GLFWWindow) SetRelativeMouseMode(relative bool) {
	w.relative = relative
	if relative {
		w.Window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
		if glfw.RawMouseMotionSupported() {
			w.Window.SetInputMode(glfw.RawMouseMotion, glfw.True)
		}
	} else {
		w.Window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	}
}

func (w *GLFWWindow) Monitors() ([]Monitor, error) {
	monitors := glfw.GetMonitors()
	if len(monitors) == 0 {
		return nil, core.PlatformErrorf("no monitors connected")
	}
	out := make([]Monitor, 0, len(monitors))
	for _, m := range monitors {
		mode := m.GetVideoMode()
		if mode == nil {
			return nil, core.PlatformErrorf("monitor '%s' has no video mode", m.GetName())
		}
		x, y := m.GetPos()
		out = append(out, Monitor{Name: m.GetName(), X: x, Y: y, Width: mode.Width, Height: mode.Height})
	}
	return out, nil
}

// CurrentMonitor picks the monitor containing the centre of the window.
func (w *GLFWWindow) CurrentMonitor() (int, error) {
	monitors, err := w.Monitors()
	if err != nil {
		return 0, err
	}
	x, y := w.Window.GetPos()
	width, height := w.Window.GetSize()
	cx, cy := x+width/2, y+height/2
	for i, m := range monitors {
		if cx >= m.X && cx < m.X+m.Width && cy >= m.Y && cy < m.Y+m.Height {
			return i, nil
		}
	}
	return 0, nil
}

// GLFW has no screen saver control; the flag is kept so callers can query it.
func (w *GLFWWindow) ScreenSaverEnabled() bool {
	return w.screenSaver
}

func (w *GLFWWindow) SetScreenSaverEnabled(enabled bool) {
	w.screenSaver = enabled
}

func (w *GLFWWindow) Clipboard() (string, error) {
	return glfw.GetClipboardString(), nil
}

func (w *GLFWWindow) SetClipboard(text string) error {
	glfw.SetClipboardString(text)
	return nil
}

func (w *GLFWWindow) keyCallback(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, mods glfw.ModifierKey) {
	k := translateKey(key)
	if k == core.KEY_UNKNOWN {
		return
	}
	a := ACTION_PRESS
	switch action {
	case glfw.Release:
		a = ACTION_RELEASE
	case glfw.Repeat:
		a = ACTION_REPEAT
	}
	w.pending.Enqueue(KeySignal{Key: k, Action: a, Mods: translateMods(mods)})
}

func (w *GLFWWindow) charCallback(_ *glfw.Window, char rune) {
	w.pending.Enqueue(CharSignal{Char: char})
}

func (w *GLFWWindow) mouseButtonCallback(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
	var b core.Button
	switch button {
	case glfw.MouseButtonLeft:
		b = core.BUTTON_LEFT
	case glfw.MouseButtonRight:
		b = core.BUTTON_RIGHT
	case glfw.MouseButtonMiddle:
		b = core.BUTTON_MIDDLE
	case glfw.MouseButton4:
		b = core.BUTTON_X1
	case glfw.MouseButton5:
		b = core.BUTTON_X2
	default:
		return
	}
	w.pending.Enqueue(ButtonSignal{Button: b, Pressed: action != glfw.Release})
}

func (w *GLFWWindow) cursorPosCallback(_ *glfw.Window, xpos, ypos float64) {
	w.pending.Enqueue(CursorSignal{X: float32(xpos), Y: float32(ypos)})
}

func (w *GLFWWindow) scrollCallback(_ *glfw.Window, xoff, yoff float64) {
	w.pending.Enqueue(ScrollSignal{X: float32(xoff), Y: float32(yoff)})
}

func (w *GLFWWindow) sizeCallback(_ *glfw.Window, width, height int) {
	w.pending.Enqueue(ResizeSignal{Width: width, Height: height})
}

func (w *GLFWWindow) focusCallback(_ *glfw.Window, focused bool) {
	w.pending.Enqueue(FocusSignal{Focused: focused})
}

func (w *GLFWWindow) dropCallback(_ *glfw.Window, names []string) {
	w.pending.Enqueue(DropSignal{Paths: append([]string(nil), names...)})
}

func (w *GLFWWindow) closeCallback(_ *glfw.Window) {
	w.pending.Enqueue(CloseSignal{})
}

func glfwBool(b bool) int {
	if b {
		return glfw.True
	}
	return glfw.False
}

func translateMods(mods glfw.ModifierKey) core.KeyModifier {
	var m core.KeyModifier
	if mods&glfw.ModShift != 0 {
		m |= core.MOD_SHIFT
	}
	if mods&glfw.ModControl != 0 {
		m |= core.MOD_CTRL
	}
	if mods&glfw.ModAlt != 0 {
		m |= core.MOD_ALT
	}
	if mods&glfw.ModSuper != 0 {
		m |= core.MOD_SUPER
	}
	return m
}

var glfwKeys = map[glfw.Key]core.Key{
	glfw.KeyBackspace:    core.KEY_BACKSPACE,
	glfw.KeyEnter:        core.KEY_ENTER,
	glfw.KeyTab:          core.KEY_TAB,
	glfw.KeyPause:        core.KEY_PAUSE,
	glfw.KeyCapsLock:     core.KEY_CAPITAL,
	glfw.KeyEscape:       core.KEY_ESCAPE,
	glfw.KeySpace:        core.KEY_SPACE,
	glfw.KeyPageUp:       core.KEY_PRIOR,
	glfw.KeyPageDown:     core.KEY_NEXT,
	glfw.KeyEnd:          core.KEY_END,
	glfw.KeyHome:         core.KEY_HOME,
	glfw.KeyLeft:         core.KEY_LEFT,
	glfw.KeyUp:           core.KEY_UP,
	glfw.KeyRight:        core.KEY_RIGHT,
	glfw.KeyDown:         core.KEY_DOWN,
	glfw.KeyPrintScreen:  core.KEY_SNAPSHOT,
	glfw.KeyInsert:       core.KEY_INSERT,
	glfw.KeyDelete:       core.KEY_DELETE,
	glfw.KeyLeftSuper:    core.KEY_LWIN,
	glfw.KeyRightSuper:   core.KEY_RWIN,
	glfw.KeyMenu:         core.KEY_APPS,
	glfw.KeyKPMultiply:   core.KEY_MULTIPLY,
	glfw.KeyKPAdd:        core.KEY_ADD,
	glfw.KeyKPSubtract:   core.KEY_SUBTRACT,
	glfw.KeyKPDecimal:    core.KEY_DECIMAL,
	glfw.KeyKPDivide:     core.KEY_DIVIDE,
	glfw.KeyKPEqual:      core.KEY_NUMPAD_EQUAL,
	glfw.KeyKPEnter:      core.KEY_ENTER,
	glfw.KeyNumLock:      core.KEY_NUMLOCK,
	glfw.KeyScrollLock:   core.KEY_SCROLL,
	glfw.KeyLeftShift:    core.KEY_LSHIFT,
	glfw.KeyRightShift:   core.KEY_RSHIFT,
	glfw.KeyLeftControl:  core.KEY_LCONTROL,
	glfw.KeyRightControl: core.KEY_RCONTROL,
	glfw.KeyLeftAlt:      core.KEY_LMENU,
	glfw.KeyRightAlt:     core.KEY_RMENU,
	glfw.KeySemicolon:    core.KEY_SEMICOLON,
	glfw.KeyEqual:        core.KEY_PLUS,
	glfw.KeyComma:        core.KEY_COMMA,
	glfw.KeyMinus:        core.KEY_MINUS,
	glfw.KeyPeriod:       core.KEY_PERIOD,
	glfw.KeySlash:        core.KEY_SLASH,
	glfw.KeyGraveAccent:  core.KEY_GRAVE,
}

func translateKey(key glfw.Key) core.Key {
	switch {
	case key >= glfw.KeyA && key <= glfw.KeyZ, key >= glfw.Key0 && key <= glfw.Key9:
		// GLFW uses ASCII for letters and digits, as do the engine key codes
		return core.Key(key)
	case key >= glfw.KeyF1 && key <= glfw.KeyF24:
		return core.KEY_F1 + core.Key(key-glfw.KeyF1)
	case key >= glfw.KeyKP0 && key <= glfw.KeyKP9:
		return core.KEY_NUMPAD0 + core.Key(key-glfw.KeyKP0)
	}
	if k, ok := glfwKeys[key]; ok {
		return k
	}
	return core.KEY_UNKNOWN
}
