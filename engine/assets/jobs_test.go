package assets

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJobSystemErrors(t *testing.T) {
	_, err := NewJobSystem(0, 1)
	assert.ErrorIs(t, err, ErrNoWorkers)

	_, err = NewJobSystem(1, -1)
	assert.ErrorIs(t, err, ErrNegativeChannelSize)
}

func TestJobSystemRunsCallbacksOnUpdate(t *testing.T) {
	js, err := NewJobSystem(2, 4)
	require.NoError(t, err)
	defer js.Shutdown()

	var started atomic.Int32
	var results []int
	for i := 1; i <= 3; i++ {
		n := i
		require.NoError(t, js.Submit(JobTask{
			OnStart: func() (interface{}, error) {
				started.Add(1)
				return n * 10, nil
			},
			OnComplete: func(result interface{}) {
				results = append(results, result.(int))
			},
		}))
	}

	require.Eventually(t, func() bool { return started.Load() == 3 }, time.Second, time.Millisecond)
	// nothing is handed back before Update
	assert.Empty(t, results)

	handed := 0
	require.Eventually(t, func() bool {
		handed += js.Update()
		return handed == 3
	}, time.Second, time.Millisecond)
	assert.ElementsMatch(t, []int{10, 20, 30}, results)
	assert.Equal(t, 0, js.Pending())
}

func TestJobSystemFailure(t *testing.T) {
	js, err := NewJobSystem(1, 0)
	require.NoError(t, err)
	defer js.Shutdown()

	boom := errors.New("boom")
	var failed error
	completed := false
	require.NoError(t, js.Submit(JobTask{
		OnStart:    func() (interface{}, error) { return nil, boom },
		OnComplete: func(interface{}) { completed = true },
		OnFailure:  func(err error) { failed = err },
	}))
	assert.Equal(t, 1, js.Pending())

	require.Eventually(t, func() bool { return js.Update() == 1 }, time.Second, time.Millisecond)
	assert.ErrorIs(t, failed, boom)
	assert.False(t, completed)
	assert.Equal(t, 0, js.Pending())
}

func TestJobSystemSubmitErrors(t *testing.T) {
	js, err := NewJobSystem(1, 1)
	require.NoError(t, err)

	assert.Error(t, js.Submit(JobTask{}))

	require.NoError(t, js.Shutdown())
	require.NoError(t, js.Shutdown())
	assert.ErrorIs(t, js.Submit(JobTask{OnStart: func() (interface{}, error) { return nil, nil }}), ErrJobSystemClosed)
}
