package core

import "time"

// TimeSource returns the current time. The runtime uses time.Now; tests inject
// a manual source so that loop timing is deterministic.
type TimeSource func() time.Time

type Clock struct {
	now       TimeSource
	startTime time.Time
	lastTick  time.Time
	elapsed   time.Duration
	delta     time.Duration
	started   bool
}

func NewClock() *Clock {
	return NewClockWithSource(time.Now)
}

func NewClockWithSource(now TimeSource) *Clock {
	return &Clock{now: now}
}

// Updates the provided clock. Should be called just before checking elapsed time.
// Has no effect on non-started clocks.
func (c *Clock) Update() {
	if !c.started {
		return
	}
	t := c.now()
	c.delta = t.Sub(c.lastTick)
	if c.delta < 0 {
		c.delta = 0
	}
	c.lastTick = t
	c.elapsed = t.Sub(c.startTime)
}

// Starts the provided clock. Resets elapsed time.
func (c *Clock) Start() {
	c.startTime = c.now()
	c.lastTick = c.startTime
	c.elapsed = 0
	c.delta = 0
	c.started = true
}

// Stops the provided clock. Does not reset elapsed time.
func (c *Clock) Stop() {
	c.started = false
}

// Elapsed is the time since Start, as of the last Update.
func (c *Clock) Elapsed() time.Duration {
	return c.elapsed
}

// Delta is the time between the last two calls to Update.
func (c *Clock) Delta() time.Duration {
	return c.delta
}

// FixedTimestep accumulates real time and hands it out in constant sized ticks.
type FixedTimestep struct {
	tick        time.Duration
	maxCatchUp  int
	accumulator time.Duration
	discarded   time.Duration
}

// NewFixedTimestep creates an accumulator running at tickRate updates per second.
// At most maxCatchUp ticks of backlog are kept; anything older is discarded so
// that a long stall never turns into an unbounded burst of updates.
func NewFixedTimestep(tickRate float64, maxCatchUp int) *FixedTimestep {
	if maxCatchUp < 1 {
		maxCatchUp = 1
	}
	return &FixedTimestep{
		tick:       TickDuration(tickRate),
		maxCatchUp: maxCatchUp,
	}
}

// TickDuration converts a rate in ticks per second to the length of one tick.
func TickDuration(tickRate float64) time.Duration {
	if tickRate <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / tickRate)
}

// Accumulate adds elapsed time and clamps the backlog.
func (f *FixedTimestep) Accumulate(elapsed time.Duration) {
	f.accumulator += elapsed
	limit := f.tick * time.Duration(f.maxCatchUp)
	if f.accumulator > limit {
		f.discarded += f.accumulator - limit
		f.accumulator = limit
	}
}

// Step consumes one tick if enough time has been accumulated.
func (f *FixedTimestep) Step() bool {
	if f.tick <= 0 || f.accumulator < f.tick {
		return false
	}
	f.accumulator -= f.tick
	return true
}

func (f *FixedTimestep) Tick() time.Duration {
	return f.tick
}

func (f *FixedTimestep) SetTickRate(tickRate float64) {
	f.tick = TickDuration(tickRate)
}

func (f *FixedTimestep) MaxCatchUp() int {
	return f.maxCatchUp
}

// Accumulated is the time still waiting to be consumed by ticks.
func (f *FixedTimestep) Accumulated() time.Duration {
	return f.accumulator
}

// Discarded is the total backlog thrown away since creation.
func (f *FixedTimestep) Discarded() time.Duration {
	return f.discarded
}

// BlendFactor is how far the accumulator is between two ticks, in [0, 1).
// Draw code can use it to interpolate between the last two simulated states.
func (f *FixedTimestep) BlendFactor() float64 {
	if f.tick <= 0 {
		return 0
	}
	return float64(f.accumulator) / float64(f.tick)
}
