package engine

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spaghettifunk/tessera/engine/assets"
	"github.com/spaghettifunk/tessera/engine/core"
	"github.com/spaghettifunk/tessera/engine/platform"
	"github.com/spaghettifunk/tessera/engine/renderer"
	"github.com/spaghettifunk/tessera/engine/renderer/opengl"
)

type Timestep string

const (
	TIMESTEP_FIXED    Timestep = "fixed"
	TIMESTEP_VARIABLE Timestep = "variable"
)

const (
	DEFAULT_TICK_RATE          = 60.0
	DEFAULT_MAX_CATCH_UP_TICKS = 5
)

/**
 * @brief Everything a Context is created with. NewContextBuilder fills in the
 * defaults; the chained setters and LoadContextBuilder override them.
 */
type ContextBuilder struct {
	Title         string `toml:"title"`
	Width         int    `toml:"width"`
	Height        int    `toml:"height"`
	Resizable     bool   `toml:"resizable"`
	VSync         bool   `toml:"vsync"`
	Fullscreen    bool   `toml:"fullscreen"`
	HighDPI       bool   `toml:"high_dpi"`
	StencilBuffer bool   `toml:"stencil_buffer"`
	QuitOnEscape  bool   `toml:"quit_on_escape"`
	KeyRepeat     bool   `toml:"key_repeat"`
	ScreenSaver   bool   `toml:"screen_saver"`
	Visible       bool   `toml:"visible"`
	Maximized     bool   `toml:"maximized"`
	Borderless    bool   `toml:"borderless"`

	/** @brief Fixed update rate in ticks per second. */
	TickRate float64  `toml:"tick_rate"`
	Timestep Timestep `toml:"timestep"`
	/** @brief Backlog above MaxCatchUpTicks ticks is discarded. */
	MaxCatchUpTicks int `toml:"max_catch_up_ticks"`
	/** @brief Upper bound for instanced draws; the device limit may be lower. */
	InstanceCapacity int `toml:"instance_capacity"`

	LogLevel  string `toml:"log_level"`
	AssetRoot string `toml:"asset_root"`
	HotReload bool   `toml:"hot_reload"`

	timeSource core.TimeSource
}

func NewContextBuilder(title string, width, height int) *ContextBuilder {
	return &ContextBuilder{
		Title:            title,
		Width:            width,
		Height:           height,
		VSync:            true,
		Visible:          true,
		TickRate:         DEFAULT_TICK_RATE,
		Timestep:         TIMESTEP_FIXED,
		MaxCatchUpTicks:  DEFAULT_MAX_CATCH_UP_TICKS,
		InstanceCapacity: renderer.DEFAULT_INSTANCE_CAPACITY,
		LogLevel:         "info",
	}
}

// LoadContextBuilder reads a TOML file on top of the defaults. Keys missing
// from the file keep their default value.
func LoadContextBuilder(path string) (*ContextBuilder, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, core.NewAssetLoadError(path, err)
	}
	b := NewContextBuilder("tessera", 1280, 720)
	if err := toml.Unmarshal(data, b); err != nil {
		return nil, core.NewAssetLoadError(path, err)
	}
	if err := b.validate(); err != nil {
		return nil, fmt.Errorf("invalid context configuration in '%s': %w", path, err)
	}
	return b, nil
}

func (b *ContextBuilder) SetTitle(title string) *ContextBuilder {
	b.Title = title
	return b
}

func (b *ContextBuilder) SetSize(width, height int) *ContextBuilder {
	b.Width, b.Height = width, height
	return b
}

func (b *ContextBuilder) SetResizable(resizable bool) *ContextBuilder {
	b.Resizable = resizable
	return b
}

func (b *ContextBuilder) SetVSync(vsync bool) *ContextBuilder {
	b.VSync = vsync
	return b
}

func (b *ContextBuilder) SetFullscreen(fullscreen bool) *ContextBuilder {
	b.Fullscreen = fullscreen
	return b
}

func (b *ContextBuilder) SetHighDPI(highDPI bool) *ContextBuilder {
	b.HighDPI = highDPI
	return b
}

func (b *ContextBuilder) SetStencilBuffer(stencil bool) *ContextBuilder {
	b.StencilBuffer = stencil
	return b
}

func (b *ContextBuilder) SetQuitOnEscape(quit bool) *ContextBuilder {
	b.QuitOnEscape = quit
	return b
}

func (b *ContextBuilder) SetKeyRepeat(repeat bool) *ContextBuilder {
	b.KeyRepeat = repeat
	return b
}

func (b *ContextBuilder) SetScreenSaver(enabled bool) *ContextBuilder {
	b.ScreenSaver = enabled
	return b
}

func (b *ContextBuilder) SetVisible(visible bool) *ContextBuilder {
	b.Visible = visible
	return b
}

func (b *ContextBuilder) SetMaximized(maximized bool) *ContextBuilder {
	b.Maximized = maximized
	return b
}

func (b *ContextBuilder) SetBorderless(borderless bool) *ContextBuilder {
	b.Borderless = borderless
	return b
}

func (b *ContextBuilder) SetTickRate(tickRate float64) *ContextBuilder {
	b.TickRate = tickRate
	return b
}

func (b *ContextBuilder) SetTimestep(timestep Timestep) *ContextBuilder {
	b.Timestep = timestep
	return b
}

func (b *ContextBuilder) SetMaxCatchUpTicks(ticks int) *ContextBuilder {
	b.MaxCatchUpTicks = ticks
	return b
}

func (b *ContextBuilder) SetInstanceCapacity(capacity int) *ContextBuilder {
	b.InstanceCapacity = capacity
	return b
}

func (b *ContextBuilder) SetLogLevel(level string) *ContextBuilder {
	b.LogLevel = level
	return b
}

func (b *ContextBuilder) SetAssetRoot(root string) *ContextBuilder {
	b.AssetRoot = root
	return b
}

func (b *ContextBuilder) SetHotReload(enabled bool) *ContextBuilder {
	b.HotReload = enabled
	return b
}

// SetTimeSource replaces the wall clock that drives the loop, e.g. for replays.
func (b *ContextBuilder) SetTimeSource(now core.TimeSource) *ContextBuilder {
	b.timeSource = now
	return b
}

func (b *ContextBuilder) validate() error {
	if b.Width <= 0 || b.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", b.Width, b.Height)
	}
	if b.TickRate <= 0 {
		return fmt.Errorf("tick rate must be positive, got %v", b.TickRate)
	}
	if b.Timestep != TIMESTEP_FIXED && b.Timestep != TIMESTEP_VARIABLE {
		return fmt.Errorf("unknown timestep '%s'", b.Timestep)
	}
	if _, err := core.ParseLogLevel(b.LogLevel); err != nil {
		return err
	}
	return nil
}

func (b *ContextBuilder) windowConfig() platform.WindowConfig {
	return platform.WindowConfig{
		Title:         b.Title,
		Width:         b.Width,
		Height:        b.Height,
		Resizable:     b.Resizable,
		VSync:         b.VSync,
		Fullscreen:    b.Fullscreen,
		HighDPI:       b.HighDPI,
		Visible:       b.Visible,
		Maximized:     b.Maximized,
		Borderless:    b.Borderless,
		StencilBuffer: b.StencilBuffer,
		ScreenSaver:   b.ScreenSaver,
	}
}

// Build opens a desktop window with an OpenGL context.
func (b *ContextBuilder) Build() (*Context, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}
	window, err := platform.NewGLFWWindow(b.windowConfig())
	if err != nil {
		return nil, err
	}
	ctx, err := b.BuildWith(window, opengl.New())
	if err != nil {
		_ = window.Close()
		return nil, err
	}
	return ctx, nil
}

// BuildWith creates a Context around an existing window and backend, such as
// platform.Headless and the software renderer.
func (b *ContextBuilder) BuildWith(window platform.Window, backend renderer.RendererBackend) (*Context, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}
	level, _ := core.ParseLogLevel(b.LogLevel)
	core.SetLogLevel(level)

	am := assets.NewAssetManager(b.AssetRoot)
	if b.HotReload {
		if err := am.EnableHotReload(); err != nil {
			core.LogWarn("hot reload unavailable: %s", err)
		}
	}

	width, height := window.PhysicalSize()
	r, err := renderer.New(backend, renderer.RendererConfig{
		Width:            width,
		Height:           height,
		StencilBuffer:    b.StencilBuffer,
		InstanceCapacity: b.InstanceCapacity,
		Assets:           am,
	})
	if err != nil {
		_ = am.Close()
		return nil, err
	}

	clock := core.NewClock()
	if b.timeSource != nil {
		clock = core.NewClockWithSource(b.timeSource)
	}

	ctx := &Context{
		currentStage: STAGE_INITIALIZED,
		config:       *b,
		window:       window,
		renderer:     r,
		assets:       am,
		input:        core.NewInput(),
		clock:        clock,
		timestep:     core.NewFixedTimestep(b.TickRate, b.MaxCatchUpTicks),
		metrics:      core.NewMetrics(),
		keyRepeat:    b.KeyRepeat,
	}
	core.LogInfo("context '%s' created (%dx%d, %s timestep at %v Hz)", b.Title, b.Width, b.Height, b.Timestep, b.TickRate)
	return ctx, nil
}
