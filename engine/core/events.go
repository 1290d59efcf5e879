package core

import (
	"fmt"

	"github.com/spaghettifunk/tessera/engine/math"
)

// Event is one of the typed events delivered to a State. The set of variants is
// closed: only the types in this file implement it.
type Event interface {
	isEvent()
	fmt.Stringer
}

// Resized is fired when the window's logical size changes.
type Resized struct {
	Width  int
	Height int
}

type FocusGained struct{}

type FocusLost struct{}

type KeyPressed struct {
	Key       Key
	Modifiers KeyModifier
	// Repeat is true when the event was generated by the platform's key repeat.
	Repeat bool
}

type KeyReleased struct {
	Key       Key
	Modifiers KeyModifier
}

type MouseButtonPressed struct {
	Button Button
}

type MouseButtonReleased struct {
	Button Button
}

// MouseMoved carries the new absolute position and the movement since the
// previous position. In relative mouse mode only Delta is reliable.
type MouseMoved struct {
	Position math.Vec2
	Delta    math.Vec2
}

type MouseWheelMoved struct {
	Amount math.Vec2
}

// TextInput carries committed text, never raw key codes.
type TextInput struct {
	Text string
}

// FileDropped carries the absolute path of a file dropped onto the window.
type FileDropped struct {
	Path string
}

func (Resized) isEvent()             {}
func (FocusGained) isEvent()         {}
func (FocusLost) isEvent()           {}
func (KeyPressed) isEvent()          {}
func (KeyReleased) isEvent()         {}
func (MouseButtonPressed) isEvent()  {}
func (MouseButtonReleased) isEvent() {}
func (MouseMoved) isEvent()          {}
func (MouseWheelMoved) isEvent()     {}
func (TextInput) isEvent()           {}
func (FileDropped) isEvent()         {}

func (e Resized) String() string {
	return fmt.Sprintf("Resized{Width: %d, Height: %d}", e.Width, e.Height)
}
func (FocusGained) String() string { return "FocusGained" }
func (FocusLost) String() string   { return "FocusLost" }
func (e KeyPressed) String() string {
	return fmt.Sprintf("KeyPressed{Key: %s, Modifiers: %s, Repeat: %t}", e.Key, e.Modifiers, e.Repeat)
}
func (e KeyReleased) String() string {
	return fmt.Sprintf("KeyReleased{Key: %s, Modifiers: %s}", e.Key, e.Modifiers)
}
func (e MouseButtonPressed) String() string {
	return fmt.Sprintf("MouseButtonPressed{Button: %s}", e.Button)
}
func (e MouseButtonReleased) String() string {
	return fmt.Sprintf("MouseButtonReleased{Button: %s}", e.Button)
}
func (e MouseMoved) String() string {
	return fmt.Sprintf("MouseMoved{Position: %v, Delta: %v}", e.Position, e.Delta)
}
func (e MouseWheelMoved) String() string { return fmt.Sprintf("MouseWheelMoved{Amount: %v}", e.Amount) }
func (e TextInput) String() string       { return fmt.Sprintf("TextInput{Text: %q}", e.Text) }
func (e FileDropped) String() string     { return fmt.Sprintf("FileDropped{Path: %q}", e.Path) }
