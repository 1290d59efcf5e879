package containers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingQueueOrder(t *testing.T) {
	rq := NewRingQueue[int](2)
	_, err := rq.Dequeue()
	assert.ErrorIs(t, err, ErrQueueEmpty)

	rq.Enqueue(1)
	rq.Enqueue(2)
	v, err := rq.Dequeue()
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	// wrap around, then grow while wrapped
	rq.Enqueue(3)
	rq.Enqueue(4)
	rq.Enqueue(5)
	assert.Equal(t, 4, rq.Len())

	for _, want := range []int{2, 3, 4, 5} {
		v, err := rq.Dequeue()
		require.NoError(t, err)
		assert.Equal(t, want, v)
	}
	assert.True(t, rq.IsEmpty())
}

func TestRingQueuePeek(t *testing.T) {
	rq := NewRingQueue[string](0)
	rq.Enqueue("a")
	v, err := rq.Peek()
	require.NoError(t, err)
	assert.Equal(t, "a", v)
	assert.Equal(t, 1, rq.Len())
}
