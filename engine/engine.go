package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/spaghettifunk/tessera/engine/assets"
	"github.com/spaghettifunk/tessera/engine/core"
	"github.com/spaghettifunk/tessera/engine/platform"
	"github.com/spaghettifunk/tessera/engine/renderer"
)

type Stage uint8

const (
	// Context was built and is waiting for Run
	STAGE_INITIALIZED Stage = iota
	// Run is executing the user's init function
	STAGE_INITIALIZING
	// Loop is running
	STAGE_RUNNING
	// Teardown in progress
	STAGE_SHUTTING_DOWN
	// Every resource was released; the Context cannot be used anymore
	STAGE_SHUT_DOWN
)

/**
 * @brief The runtime. A Context owns the window, the renderer, the input
 * snapshot and the clock. It is created by a ContextBuilder and lives until Run
 * returns; every handle created from it becomes invalid at that point.
 */
type Context struct {
	currentStage Stage
	config       ContextBuilder

	window   platform.Window
	renderer *renderer.Renderer
	assets   *assets.AssetManager
	input    *core.Input

	clock    *core.Clock
	timestep *core.FixedTimestep
	metrics  *core.Metrics

	isRunning   bool
	isSuspended bool
	keyRepeat   bool
	deltaTime   time.Duration

	signals []platform.Signal
}

// Run calls init, then drives the loop until Quit is called, the window is
// closed or a callback fails. Teardown always runs before Run returns, and the
// first callback error is returned wrapped with the phase it came from.
func (c *Context) Run(init func(*Context) (State, error)) (err error) {
	if c.currentStage != STAGE_INITIALIZED {
		return core.ErrContextDestroyed
	}
	defer func() {
		if shutdownErr := c.shutdown(); shutdownErr != nil {
			err = errors.Join(err, shutdownErr)
		}
	}()

	c.currentStage = STAGE_INITIALIZING
	state, err := init(c)
	if err != nil {
		core.LogError("initialization failed, shutting down: %s", err)
		return fmt.Errorf("init: %w", err)
	}
	if state == nil {
		state = DefaultState{}
	}

	c.currentStage = STAGE_RUNNING
	c.isRunning = true
	c.clock.Start()

	for c.isRunning && !c.window.ShouldClose() {
		if err := c.iterate(state); err != nil {
			core.LogError("%s, shutting down", err)
			return err
		}
	}
	return nil
}

func (c *Context) iterate(state State) error {
	c.clock.Update()
	frameTime := c.clock.Delta()

	if err := c.pump(state); err != nil {
		return fmt.Errorf("event: %w", err)
	}

	if c.isSuspended {
		return nil
	}

	switch c.config.Timestep {
	case TIMESTEP_VARIABLE:
		c.deltaTime = frameTime
		if err := state.Update(c); err != nil {
			return fmt.Errorf("update: %w", err)
		}
		c.input.ClearFrame()
	default:
		c.timestep.Accumulate(frameTime)
		c.deltaTime = c.timestep.Tick()
		for c.timestep.Step() {
			if err := state.Update(c); err != nil {
				return fmt.Errorf("update: %w", err)
			}
			c.input.ClearFrame()
		}
	}

	if err := c.renderer.BeginFrame(); err != nil {
		return fmt.Errorf("draw: %w", err)
	}
	if err := state.Draw(c); err != nil {
		return fmt.Errorf("draw: %w", err)
	}
	if err := c.renderer.EndFrame(); err != nil {
		return fmt.Errorf("draw: %w", err)
	}
	c.window.SwapBuffers()
	c.metrics.Update(frameTime)
	return nil
}

// pump drains the pending platform signals and dispatches each resulting event
// before the next signal is looked at. Reloaded and asynchronously loaded assets
// are handed over afterwards.
func (c *Context) pump(state State) error {
	c.signals = c.window.PollSignals(c.signals[:0])
	var events []core.Event
	for _, s := range c.signals {
		var err error
		events, err = c.translate(s, events[:0])
		if err != nil {
			return err
		}
		for _, e := range events {
			if err := state.Event(c, e); err != nil {
				return err
			}
		}
	}
	if c.assets.HotReloadEnabled() {
		c.assets.ApplyChanges()
	}
	c.assets.ApplyCompletedLoads()
	return nil
}

func (c *Context) shutdown() error {
	if c.currentStage == STAGE_SHUT_DOWN {
		return nil
	}
	c.currentStage = STAGE_SHUTTING_DOWN
	c.isRunning = false
	c.clock.Stop()

	var errs []error
	if err := c.renderer.Shutdown(); err != nil {
		errs = append(errs, fmt.Errorf("renderer shutdown: %w", err))
	}
	if err := c.assets.Close(); err != nil {
		errs = append(errs, fmt.Errorf("asset manager shutdown: %w", err))
	}
	if err := c.window.Close(); err != nil {
		errs = append(errs, fmt.Errorf("window shutdown: %w", err))
	}
	c.currentStage = STAGE_SHUT_DOWN
	core.LogInfo("context shut down")
	return errors.Join(errs...)
}

// Quit stops the loop once the current iteration has finished.
func (c *Context) Quit() {
	c.isRunning = false
}

func (c *Context) IsRunning() bool {
	return c.isRunning
}

func (c *Context) Stage() Stage {
	return c.currentStage
}

// DeltaTime is the length of the update being run: one tick in fixed mode, the
// last frame time in variable mode.
func (c *Context) DeltaTime() time.Duration {
	return c.deltaTime
}

// BlendFactor is how far the loop is between two fixed ticks, in [0, 1).
func (c *Context) BlendFactor() float64 {
	if c.config.Timestep == TIMESTEP_VARIABLE {
		return 0
	}
	return c.timestep.BlendFactor()
}

func (c *Context) FPS() float64 {
	return c.metrics.FPS()
}

// FrameTime is the average frame time in milliseconds.
func (c *Context) FrameTime() float64 {
	return c.metrics.FrameTime()
}

func (c *Context) TickRate() float64 {
	return c.config.TickRate
}

func (c *Context) SetTickRate(tickRate float64) error {
	if tickRate <= 0 {
		return fmt.Errorf("tick rate must be positive, got %v", tickRate)
	}
	c.config.TickRate = tickRate
	c.timestep.SetTickRate(tickRate)
	return nil
}

// DiscardedTime is the total backlog dropped because the loop fell behind.
func (c *Context) DiscardedTime() time.Duration {
	return c.timestep.Discarded()
}

func (c *Context) Renderer() *renderer.Renderer {
	return c.renderer
}

func (c *Context) Assets() *assets.AssetManager {
	return c.assets
}

func (c *Context) Input() *core.Input {
	return c.input
}
