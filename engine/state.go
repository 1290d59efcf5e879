package engine

import "github.com/spaghettifunk/tessera/engine/core"

/**
 * @brief The callbacks the loop drives. Event runs once per event during the
 * pump, Update once per tick and Draw once per iteration. Returning an error
 * stops the loop and makes Run return it.
 */
type State interface {
	Update(ctx *Context) error
	Draw(ctx *Context) error
	Event(ctx *Context, event core.Event) error
}

// DefaultState does nothing. Embed it to implement only some of the callbacks.
type DefaultState struct{}

func (DefaultState) Update(*Context) error            { return nil }
func (DefaultState) Draw(*Context) error              { return nil }
func (DefaultState) Event(*Context, core.Event) error { return nil }
