package renderer

import (
	"time"

	"github.com/spaghettifunk/tessera/engine/math"
)

/**
 * @brief Cycles through regions of a shared texture at a fixed frame rate.
 * The animation only changes frame inside Advance.
 */
type Animation struct {
	texture     *Texture
	frames      []math.Rectangle
	frameLength time.Duration
	elapsed     time.Duration
	current     int
	/** @brief When false the animation stops on its last frame. */
	Repeating bool
}

// NewAnimation shares texture, the caller keeps ownership of its handle.
func NewAnimation(texture *Texture, frames []math.Rectangle, frameLength time.Duration) *Animation {
	return &Animation{
		texture:     texture,
		frames:      frames,
		frameLength: frameLength,
		Repeating:   true,
	}
}

// NewAnimationOnce builds an animation that does not loop.
func NewAnimationOnce(texture *Texture, frames []math.Rectangle, frameLength time.Duration) *Animation {
	a := NewAnimation(texture, frames, frameLength)
	a.Repeating = false
	return a
}

// RowFrames lays out count frames of width x height left to right, starting at (x, y).
func RowFrames(x, y, width, height float32, count int) []math.Rectangle {
	return math.RectangleRow(x, y, width, height, count)
}

// Advance adds elapsed time and steps one frame for every full frame length
// accumulated, one frame length at a time.
func (a *Animation) Advance(elapsed time.Duration) {
	if len(a.frames) == 0 || a.frameLength <= 0 {
		return
	}
	a.elapsed += elapsed
	for a.elapsed >= a.frameLength {
		a.elapsed -= a.frameLength
		if a.current+1 < len(a.frames) {
			a.current++
		} else if a.Repeating {
			a.current = 0
		} else {
			a.elapsed = 0
			return
		}
	}
}

// Finished reports whether a non repeating animation reached its last frame.
func (a *Animation) Finished() bool {
	return !a.Repeating && a.current == len(a.frames)-1
}

// Restart goes back to the first frame and drops the accumulated time.
func (a *Animation) Restart() {
	a.current = 0
	a.elapsed = 0
}

func (a *Animation) CurrentFrameIndex() int {
	return a.current
}

// SetCurrentFrameIndex jumps to a frame, clamped to the valid range, and
// resets the timer.
func (a *Animation) SetCurrentFrameIndex(index int) {
	a.current = clampFrame(index, len(a.frames))
	a.elapsed = 0
}

func (a *Animation) CurrentFrame() (math.Rectangle, bool) {
	if len(a.frames) == 0 {
		return math.Rectangle{}, false
	}
	return a.frames[a.current], true
}

func (a *Animation) Texture() *Texture {
	return a.texture
}

func (a *Animation) SetTexture(texture *Texture) {
	a.texture = texture
}

func (a *Animation) Frames() []math.Rectangle {
	return a.frames
}

// SetFrames replaces the frames and restarts the animation.
func (a *Animation) SetFrames(frames []math.Rectangle) {
	a.frames = frames
	a.Restart()
}

func (a *Animation) FrameLength() time.Duration {
	return a.frameLength
}

// SetFrameLength changes the frame duration and restarts the animation.
func (a *Animation) SetFrameLength(length time.Duration) {
	a.frameLength = length
	a.Restart()
}

// Draw renders the current frame through Texture.Draw.
func (a *Animation) Draw(r *Renderer, params DrawParams) error {
	frame, ok := a.CurrentFrame()
	if !ok {
		return nil
	}
	return a.texture.Draw(r, params.WithClip(frame))
}

func clampFrame(index, count int) int {
	if count == 0 || index < 0 {
		return 0
	}
	if index >= count {
		return count - 1
	}
	return index
}
