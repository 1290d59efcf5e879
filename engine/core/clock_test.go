package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type manualTime struct {
	t time.Time
}

func (m *manualTime) now() time.Time { return m.t }

func TestClockDelta(t *testing.T) {
	mt := &manualTime{t: time.Unix(0, 0)}
	c := NewClockWithSource(mt.now)

	c.Update()
	assert.Zero(t, c.Elapsed(), "non-started clocks ignore updates")

	c.Start()
	mt.t = mt.t.Add(16 * time.Millisecond)
	c.Update()
	assert.Equal(t, 16*time.Millisecond, c.Delta())
	mt.t = mt.t.Add(4 * time.Millisecond)
	c.Update()
	assert.Equal(t, 4*time.Millisecond, c.Delta())
	assert.Equal(t, 20*time.Millisecond, c.Elapsed())
}

func TestFixedTimestepRunsWholeTicks(t *testing.T) {
	f := NewFixedTimestep(10, 5)
	f.Accumulate(250 * time.Millisecond)

	steps := 0
	for f.Step() {
		steps++
	}
	assert.Equal(t, 2, steps)
	assert.Equal(t, 50*time.Millisecond, f.Accumulated())
	assert.InDelta(t, 0.5, f.BlendFactor(), 1e-9)
}

func TestFixedTimestepDiscardsBacklog(t *testing.T) {
	f := NewFixedTimestep(10, 3)
	f.Accumulate(2 * time.Second)

	steps := 0
	for f.Step() {
		steps++
	}
	assert.Equal(t, 3, steps, "catch-up is bounded by the configured maximum")
	assert.Equal(t, 1700*time.Millisecond, f.Discarded())
}

func TestFixedTimestepMinimumCatchUp(t *testing.T) {
	f := NewFixedTimestep(60, 0)
	assert.Equal(t, 1, f.MaxCatchUp())
}
