package renderer

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spaghettifunk/tessera/engine/core"
)

/**
 * @brief Reference counted ownership of one backend allocation. Handles start
 * with one reference; the allocation is freed when the last one is released
 * or when the renderer shuts down, whichever comes first.
 */
type resource struct {
	id       uuid.UUID
	kind     string
	refs     int
	renderer *Renderer
	destroy  func()
	cleanups []func()
}

func (r *Renderer) newResource(kind string, destroy func()) *resource {
	res := &resource{
		id:       uuid.New(),
		kind:     kind,
		refs:     1,
		renderer: r,
		destroy:  destroy,
	}
	r.resources[res] = struct{}{}
	return res
}

// ID uniquely identifies the handle for logging and debugging.
func (h *resource) ID() uuid.UUID {
	return h.id
}

func (h *resource) String() string {
	return fmt.Sprintf("%s(%s)", h.kind, h.id)
}

// RefCount returns the number of live references.
func (h *resource) RefCount() int {
	return h.refs
}

// Retain adds a reference. Every Retain must be paired with a Release.
func (h *resource) Retain() error {
	if err := h.valid(); err != nil {
		return err
	}
	h.refs++
	return nil
}

// Release drops a reference and frees the backend allocation with the last one.
func (h *resource) Release() error {
	if err := h.valid(); err != nil {
		return err
	}
	h.refs--
	if h.refs == 0 {
		h.free()
	}
	return nil
}

// valid reports use after teardown or after the final release.
func (h *resource) valid() error {
	if h.renderer.destroyed {
		return fmt.Errorf("%s: %w", h, core.ErrContextDestroyed)
	}
	if h.refs <= 0 {
		return fmt.Errorf("%s: %w", h, core.ErrHandleReleased)
	}
	return nil
}

// onFree runs fn when the handle is freed, before the backend allocation goes.
func (h *resource) onFree(fn func()) {
	h.cleanups = append(h.cleanups, fn)
}

func (h *resource) free() {
	delete(h.renderer.resources, h)
	h.renderer.forget(h)
	h.refs = 0
	for _, fn := range h.cleanups {
		fn()
	}
	h.cleanups = nil
	if h.destroy != nil {
		h.destroy()
		h.destroy = nil
	}
	core.LogDebug("released %s", h)
}
