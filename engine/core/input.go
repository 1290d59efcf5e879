package core

import (
	"fmt"
	"strings"

	"github.com/spaghettifunk/tessera/engine/math"
)

type Button uint16

const (
	BUTTON_LEFT Button = iota
	BUTTON_RIGHT
	BUTTON_MIDDLE
	BUTTON_X1
	BUTTON_X2
	BUTTON_MAX_BUTTONS
)

var buttonNames = [BUTTON_MAX_BUTTONS]string{"Left", "Right", "Middle", "X1", "X2"}

func (b Button) String() string {
	if b < BUTTON_MAX_BUTTONS {
		return buttonNames[b]
	}
	return fmt.Sprintf("Button(%d)", uint16(b))
}

// Key code definitions
type Key uint16

const (
	KEY_UNKNOWN      Key = 0x00
	KEY_BACKSPACE    Key = 0x08
	KEY_ENTER        Key = 0x0D
	KEY_TAB          Key = 0x09
	KEY_SHIFT        Key = 0x10
	KEY_PAUSE        Key = 0x13
	KEY_CAPITAL      Key = 0x14
	KEY_ESCAPE       Key = 0x1B
	KEY_CONVERT      Key = 0x1C
	KEY_NONCONVERT   Key = 0x1D
	KEY_ACCEPT       Key = 0x1E
	KEY_MODECHANGE   Key = 0x1F
	KEY_SPACE        Key = 0x20
	KEY_PRIOR        Key = 0x21
	KEY_NEXT         Key = 0x22
	KEY_END          Key = 0x23
	KEY_HOME         Key = 0x24
	KEY_LEFT         Key = 0x25
	KEY_UP           Key = 0x26
	KEY_RIGHT        Key = 0x27
	KEY_DOWN         Key = 0x28
	KEY_SELECT       Key = 0x29
	KEY_PRINT        Key = 0x2A
	KEY_EXECUTE      Key = 0x2B
	KEY_SNAPSHOT     Key = 0x2C
	KEY_INSERT       Key = 0x2D
	KEY_DELETE       Key = 0x2E
	KEY_HELP         Key = 0x2F
	KEY_0            Key = 0x30
	KEY_1            Key = 0x31
	KEY_2            Key = 0x32
	KEY_3            Key = 0x33
	KEY_4            Key = 0x34
	KEY_5            Key = 0x35
	KEY_6            Key = 0x36
	KEY_7            Key = 0x37
	KEY_8            Key = 0x38
	KEY_9            Key = 0x39
	KEY_A            Key = 0x41
	KEY_B            Key = 0x42
	KEY_C            Key = 0x43
	KEY_D            Key = 0x44
	KEY_E            Key = 0x45
	KEY_F            Key = 0x46
	KEY_G            Key = 0x47
	KEY_H            Key = 0x48
	KEY_I            Key = 0x49
	KEY_J            Key = 0x4A
	KEY_K            Key = 0x4B
	KEY_L            Key = 0x4C
	KEY_M            Key = 0x4D
	KEY_N            Key = 0x4E
	KEY_O            Key = 0x4F
	KEY_P            Key = 0x50
	KEY_Q            Key = 0x51
	KEY_R            Key = 0x52
	KEY_S            Key = 0x53
	KEY_T            Key = 0x54
	KEY_U            Key = 0x55
	KEY_V            Key = 0x56
	KEY_W            Key = 0x57
	KEY_X            Key = 0x58
	KEY_Y            Key = 0x59
	KEY_Z            Key = 0x5A
	KEY_LWIN         Key = 0x5B
	KEY_RWIN         Key = 0x5C
	KEY_APPS         Key = 0x5D
	KEY_SLEEP        Key = 0x5F
	KEY_NUMPAD0      Key = 0x60
	KEY_NUMPAD1      Key = 0x61
	KEY_NUMPAD2      Key = 0x62
	KEY_NUMPAD3      Key = 0x63
	KEY_NUMPAD4      Key = 0x64
	KEY_NUMPAD5      Key = 0x65
	KEY_NUMPAD6      Key = 0x66
	KEY_NUMPAD7      Key = 0x67
	KEY_NUMPAD8      Key = 0x68
	KEY_NUMPAD9      Key = 0x69
	KEY_MULTIPLY     Key = 0x6A
	KEY_ADD          Key = 0x6B
	KEY_SEPARATOR    Key = 0x6C
	KEY_SUBTRACT     Key = 0x6D
	KEY_DECIMAL      Key = 0x6E
	KEY_DIVIDE       Key = 0x6F
	KEY_F1           Key = 0x70
	KEY_F2           Key = 0x71
	KEY_F3           Key = 0x72
	KEY_F4           Key = 0x73
	KEY_F5           Key = 0x74
	KEY_F6           Key = 0x75
	KEY_F7           Key = 0x76
	KEY_F8           Key = 0x77
	KEY_F9           Key = 0x78
	KEY_F10          Key = 0x79
	KEY_F11          Key = 0x7A
	KEY_F12          Key = 0x7B
	KEY_F13          Key = 0x7C
	KEY_F14          Key = 0x7D
	KEY_F15          Key = 0x7E
	KEY_F16          Key = 0x7F
	KEY_F17          Key = 0x80
	KEY_F18          Key = 0x81
	KEY_F19          Key = 0x82
	KEY_F20          Key = 0x83
	KEY_F21          Key = 0x84
	KEY_F22          Key = 0x85
	KEY_F23          Key = 0x86
	KEY_F24          Key = 0x87
	KEY_NUMLOCK      Key = 0x90
	KEY_SCROLL       Key = 0x91
	KEY_NUMPAD_EQUAL Key = 0x92
	KEY_LSHIFT       Key = 0xA0
	KEY_RSHIFT       Key = 0xA1
	KEY_LCONTROL     Key = 0xA2
	KEY_RCONTROL     Key = 0xA3
	KEY_LMENU        Key = 0xA4
	KEY_RMENU        Key = 0xA5
	KEY_SEMICOLON    Key = 0xBA
	KEY_PLUS         Key = 0xBB
	KEY_COMMA        Key = 0xBC
	KEY_MINUS        Key = 0xBD
	KEY_PERIOD       Key = 0xBE
	KEY_SLASH        Key = 0xBF
	KEY_GRAVE        Key = 0xC0
	KEYS_MAX_KEYS    Key = 0x100
)

var keyNames = map[Key]string{
	KEY_0: "0",
	KEY_1: "1",
	KEY_2: "2",
	KEY_3: "3",
	KEY_4: "4",
	KEY_5: "5",
	KEY_6: "6",
	KEY_7: "7",
	KEY_8: "8",
	KEY_9: "9",

	KEY_BACKSPACE:    "BACKSPACE",
	KEY_ENTER:        "ENTER",
	KEY_TAB:          "TAB",
	KEY_SHIFT:        "SHIFT",
	KEY_PAUSE:        "PAUSE",
	KEY_CAPITAL:      "CAPITAL",
	KEY_ESCAPE:       "ESCAPE",
	KEY_CONVERT:      "CONVERT",
	KEY_NONCONVERT:   "NONCONVERT",
	KEY_ACCEPT:       "ACCEPT",
	KEY_MODECHANGE:   "MODECHANGE",
	KEY_SPACE:        "SPACE",
	KEY_PRIOR:        "PRIOR",
	KEY_NEXT:         "NEXT",
	KEY_END:          "END",
	KEY_HOME:         "HOME",
	KEY_LEFT:         "LEFT",
	KEY_UP:           "UP",
	KEY_RIGHT:        "RIGHT",
	KEY_DOWN:         "DOWN",
	KEY_SELECT:       "SELECT",
	KEY_PRINT:        "PRINT",
	KEY_EXECUTE:      "EXECUTE",
	KEY_SNAPSHOT:     "SNAPSHOT",
	KEY_INSERT:       "INSERT",
	KEY_DELETE:       "DELETE",
	KEY_HELP:         "HELP",
	KEY_LWIN:         "LWIN",
	KEY_RWIN:         "RWIN",
	KEY_APPS:         "APPS",
	KEY_SLEEP:        "SLEEP",
	KEY_NUMPAD0:      "NUMPAD0",
	KEY_NUMPAD1:      "NUMPAD1",
	KEY_NUMPAD2:      "NUMPAD2",
	KEY_NUMPAD3:      "NUMPAD3",
	KEY_NUMPAD4:      "NUMPAD4",
	KEY_NUMPAD5:      "NUMPAD5",
	KEY_NUMPAD6:      "NUMPAD6",
	KEY_NUMPAD7:      "NUMPAD7",
	KEY_NUMPAD8:      "NUMPAD8",
	KEY_NUMPAD9:      "NUMPAD9",
	KEY_MULTIPLY:     "MULTIPLY",
	KEY_ADD:          "ADD",
	KEY_SEPARATOR:    "SEPARATOR",
	KEY_SUBTRACT:     "SUBTRACT",
	KEY_DECIMAL:      "DECIMAL",
	KEY_DIVIDE:       "DIVIDE",
	KEY_F1:           "F1",
	KEY_F2:           "F2",
	KEY_F3:           "F3",
	KEY_F4:           "F4",
	KEY_F5:           "F5",
	KEY_F6:           "F6",
	KEY_F7:           "F7",
	KEY_F8:           "F8",
	KEY_F9:           "F9",
	KEY_F10:          "F10",
	KEY_F11:          "F11",
	KEY_F12:          "F12",
	KEY_F13:          "F13",
	KEY_F14:          "F14",
	KEY_F15:          "F15",
	KEY_F16:          "F16",
	KEY_F17:          "F17",
	KEY_F18:          "F18",
	KEY_F19:          "F19",
	KEY_F20:          "F20",
	KEY_F21:          "F21",
	KEY_F22:          "F22",
	KEY_F23:          "F23",
	KEY_F24:          "F24",
	KEY_NUMLOCK:      "NUMLOCK",
	KEY_SCROLL:       "SCROLL",
	KEY_NUMPAD_EQUAL: "NUMPAD_EQUAL",
	KEY_LSHIFT:       "LSHIFT",
	KEY_RSHIFT:       "RSHIFT",
	KEY_LCONTROL:     "LCONTROL",
	KEY_RCONTROL:     "RCONTROL",
	KEY_LMENU:        "LMENU",
	KEY_RMENU:        "RMENU",
	KEY_SEMICOLON:    "SEMICOLON",
	KEY_PLUS:         "PLUS",

	KEY_A: "A",
	KEY_B: "B",
	KEY_C: "C",
	KEY_D: "D",
	KEY_E: "E",
	KEY_F: "F",
	KEY_G: "G",
	KEY_H: "H",
	KEY_I: "I",
	KEY_J: "J",
	KEY_K: "K",
	KEY_L: "L",
	KEY_M: "M",
	KEY_N: "N",
	KEY_O: "O",
	KEY_P: "P",
	KEY_Q: "Q",
	KEY_R: "R",
	KEY_S: "S",
	KEY_T: "T",
	KEY_U: "U",
	KEY_V: "V",
	KEY_W: "W",
	KEY_X: "X",
	KEY_Y: "Y",
	KEY_Z: "Z",

	KEY_COMMA:  "COMMA",
	KEY_MINUS:  "MINUS",
	KEY_PERIOD: "PERIOD",
	KEY_SLASH:  "SLASH",
	KEY_GRAVE:  "GRAVE",
}

func (k Key) String() string {
	if n, ok := keyNames[k]; ok {
		return n
	}
	return fmt.Sprintf("Key(0x%02X)", uint16(k))
}

// KeyModifier is a bit set of held modifier keys.
type KeyModifier uint8

const (
	MOD_SHIFT KeyModifier = 1 << iota
	MOD_CTRL
	MOD_ALT
	MOD_SUPER
)

func (m KeyModifier) String() string {
	if m == 0 {
		return "None"
	}
	parts := []string{}
	for _, f := range []struct {
		flag KeyModifier
		name string
	}{{MOD_SHIFT, "Shift"}, {MOD_CTRL, "Ctrl"}, {MOD_ALT, "Alt"}, {MOD_SUPER, "Super"}} {
		if m&f.flag != 0 {
			parts = append(parts, f.name)
		}
	}
	return strings.Join(parts, "|")
}

// Mouse state structure
type MouseState struct {
	Position math.Vec2
	Buttons  [BUTTON_MAX_BUTTONS]bool // button states (pressed/released)
}

// Keyboard state structure
type KeyboardState struct {
	Keys      [KEYS_MAX_KEYS]bool
	Modifiers KeyModifier
}

// Input holds the keyboard and mouse snapshots for the current and previous
// frame, plus the edges (pressed/released) and text committed since the last
// update tick. It is owned by the Context and only touched by the loop goroutine.
type Input struct {
	KeyboardCurrent  KeyboardState
	KeyboardPrevious KeyboardState
	MouseCurrent     MouseState
	MousePrevious    MouseState

	keysPressed     []Key
	keysReleased    []Key
	buttonsPressed  [BUTTON_MAX_BUTTONS]bool
	buttonsReleased [BUTTON_MAX_BUTTONS]bool
	wheel           math.Vec2
	text            strings.Builder
}

func NewInput() *Input {
	return &Input{}
}

// ClearFrame is called after every update tick: it snapshots the current state
// as previous and forgets the edges and text seen so far.
func (in *Input) ClearFrame() {
	in.KeyboardPrevious = in.KeyboardCurrent
	in.MousePrevious = in.MouseCurrent
	in.keysPressed = in.keysPressed[:0]
	in.keysReleased = in.keysReleased[:0]
	in.buttonsPressed = [BUTTON_MAX_BUTTONS]bool{}
	in.buttonsReleased = [BUTTON_MAX_BUTTONS]bool{}
	in.wheel = math.Vec2{}
	in.text.Reset()
}

// ProcessKey records a key transition and reports whether the state changed.
func (in *Input) ProcessKey(key Key, pressed bool, mods KeyModifier) bool {
	in.KeyboardCurrent.Modifiers = mods
	if key >= KEYS_MAX_KEYS || in.KeyboardCurrent.Keys[key] == pressed {
		return false
	}
	in.KeyboardCurrent.Keys[key] = pressed
	if pressed {
		in.keysPressed = append(in.keysPressed, key)
	} else {
		in.keysReleased = append(in.keysReleased, key)
	}
	return true
}

func (in *Input) ProcessButton(button Button, pressed bool) bool {
	if button >= BUTTON_MAX_BUTTONS || in.MouseCurrent.Buttons[button] == pressed {
		return false
	}
	in.MouseCurrent.Buttons[button] = pressed
	if pressed {
		in.buttonsPressed[button] = true
	} else {
		in.buttonsReleased[button] = true
	}
	return true
}

// ProcessMouseMove stores the new position and returns the delta from the previous one.
func (in *Input) ProcessMouseMove(position math.Vec2) math.Vec2 {
	delta := position.Sub(in.MouseCurrent.Position)
	in.MouseCurrent.Position = position
	return delta
}

func (in *Input) ProcessMouseWheel(amount math.Vec2) {
	in.wheel = in.wheel.Add(amount)
}

func (in *Input) ProcessText(text string) {
	in.text.WriteString(text)
}

// keyboard input
func (in *Input) IsKeyDown(key Key) bool {
	return key < KEYS_MAX_KEYS && in.KeyboardCurrent.Keys[key]
}

func (in *Input) IsKeyUp(key Key) bool {
	return !in.IsKeyDown(key)
}

func (in *Input) WasKeyDown(key Key) bool {
	return key < KEYS_MAX_KEYS && in.KeyboardPrevious.Keys[key]
}

func (in *Input) WasKeyUp(key Key) bool {
	return !in.WasKeyDown(key)
}

// IsKeyPressed reports whether the key went down since the last update tick.
func (in *Input) IsKeyPressed(key Key) bool {
	for _, k := range in.keysPressed {
		if k == key {
			return true
		}
	}
	return false
}

// IsKeyReleased reports whether the key went up since the last update tick.
func (in *Input) IsKeyReleased(key Key) bool {
	for _, k := range in.keysReleased {
		if k == key {
			return true
		}
	}
	return false
}

func (in *Input) KeysPressed() []Key {
	return append([]Key(nil), in.keysPressed...)
}

func (in *Input) KeysReleased() []Key {
	return append([]Key(nil), in.keysReleased...)
}

func (in *Input) IsKeyModifierDown(mod KeyModifier) bool {
	return in.KeyboardCurrent.Modifiers&mod == mod
}

// mouse input
func (in *Input) IsButtonDown(button Button) bool {
	return button < BUTTON_MAX_BUTTONS && in.MouseCurrent.Buttons[button]
}

func (in *Input) IsButtonUp(button Button) bool {
	return !in.IsButtonDown(button)
}

func (in *Input) WasButtonDown(button Button) bool {
	return button < BUTTON_MAX_BUTTONS && in.MousePrevious.Buttons[button]
}

func (in *Input) IsButtonPressed(button Button) bool {
	return button < BUTTON_MAX_BUTTONS && in.buttonsPressed[button]
}

func (in *Input) IsButtonReleased(button Button) bool {
	return button < BUTTON_MAX_BUTTONS && in.buttonsReleased[button]
}

func (in *Input) MousePosition() math.Vec2 {
	return in.MouseCurrent.Position
}

func (in *Input) PreviousMousePosition() math.Vec2 {
	return in.MousePrevious.Position
}

// MouseWheelMovement is the wheel movement accumulated since the last update tick.
func (in *Input) MouseWheelMovement() math.Vec2 {
	return in.wheel
}

// TextInput returns the text committed since the last update tick, if any.
func (in *Input) TextInput() (string, bool) {
	if in.text.Len() == 0 {
		return "", false
	}
	return in.text.String(), true
}
