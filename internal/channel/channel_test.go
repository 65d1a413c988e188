package channel

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuffered_TrySendDropsWhenFull(t *testing.T) {
	b := NewBuffered[int](2)

	assert.True(t, b.TrySend(1))
	assert.True(t, b.TrySend(2))
	assert.False(t, b.TrySend(3))
	assert.Equal(t, 2, b.Len())
	assert.Equal(t, 2, b.Cap())

	assert.Equal(t, 1, <-b.Receive())
	assert.True(t, b.TrySend(4))
	assert.Equal(t, 2, <-b.Receive())
	assert.Equal(t, 4, <-b.Receive())
}

func TestBuffered_MinimumSize(t *testing.T) {
	b := NewBuffered[string](0)
	assert.Equal(t, 1, b.Cap())
}

func TestUnbuffered_TrySendWithoutReceiver(t *testing.T) {
	u := NewUnbuffered[int]()
	assert.False(t, u.TrySend(1))
	assert.Equal(t, 0, u.Len())
}

func TestLatest_KeepsNewest(t *testing.T) {
	l := NewLatest[int]()

	_, ok := l.Take()
	assert.False(t, ok)

	l.Send(1)
	l.Send(2)
	l.Send(3)

	v, ok := l.Take()
	require.True(t, ok)
	assert.Equal(t, 3, v)
	assert.Equal(t, uint64(2), l.Overwritten())

	_, ok = l.Take()
	assert.False(t, ok, "slot is cleared after take")
}

func TestLatest_ConcurrentSenders(t *testing.T) {
	l := NewLatest[int]()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				l.Send(n)
			}
		}(i)
	}
	wg.Wait()

	_, ok := l.Take()
	assert.True(t, ok)
	assert.Equal(t, uint64(799), l.Overwritten())
}
