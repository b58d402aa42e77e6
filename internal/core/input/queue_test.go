package input

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQueue(t *testing.T) {
	t.Run("FIFO drain resets count", func(t *testing.T) {
		q, err := NewQueue(8)
		require.NoError(t, err)

		in := []Event{KeyDown(KeyW), PointerMotion(1, 2), KeyUp(KeyW), KeyDown(KeyLookLeft)}
		for _, e := range in {
			require.True(t, q.Add(e))
		}
		require.Equal(t, 4, q.Len())

		buf := q.NewBuffer()
		n := q.Drain(buf)
		require.Equal(t, 4, n)
		require.Equal(t, in, buf[:n])
		require.Equal(t, 0, q.Len())

		require.Equal(t, 0, q.Drain(buf))
	})

	t.Run("overflow keeps the first capacity events", func(t *testing.T) {
		const capacity = 16
		q, err := NewQueue(capacity)
		require.NoError(t, err)

		for i := 0; i < capacity+5; i++ {
			accepted := q.Add(PointerMotion(float32(i), 0))
			require.Equal(t, i < capacity, accepted)
		}
		require.Equal(t, uint64(5), q.Dropped())

		got := q.DrainAll()
		require.Len(t, got, capacity)
		for i, e := range got {
			require.Equal(t, PointerMotion(float32(i), 0), e)
		}

		// Space is available again after the drain.
		require.True(t, q.Add(KeyDown(KeyA)))
	})

	t.Run("short buffer leaves the tail queued", func(t *testing.T) {
		q, err := NewQueue(4)
		require.NoError(t, err)
		for _, k := range []Key{KeyW, KeyA, KeyS} {
			q.Add(KeyDown(k))
		}

		buf := make([]Event, 2)
		require.Equal(t, 2, q.Drain(buf))
		require.Equal(t, []Event{KeyDown(KeyW), KeyDown(KeyA)}, buf)
		require.Equal(t, []Event{KeyDown(KeyS)}, q.DrainAll())
	})

	t.Run("invalid capacity", func(t *testing.T) {
		_, err := NewQueue(0)
		require.ErrorIs(t, err, ErrInvalidCapacity)
	})

	t.Run("nil event is rejected", func(t *testing.T) {
		q, _ := NewQueue(1)
		require.False(t, q.Add(nil))
		require.Equal(t, 0, q.Len())
		require.Equal(t, uint64(0), q.Dropped())
	})
}

func TestQueueConcurrentProducers(t *testing.T) {
	const (
		producers = 8
		perWorker = 500
	)
	q, err := NewQueue(producers * perWorker)
	require.NoError(t, err)

	var wg sync.WaitGroup
	seen := make(map[Event]struct{})
	dups := 0
	stop := make(chan struct{})
	drained := make(chan struct{})

	// Consumer drains while producers are still adding.
	go func() {
		defer close(drained)
		buf := q.NewBuffer()
		for {
			n := q.Drain(buf)
			for _, e := range buf[:n] {
				if _, dup := seen[e]; dup {
					dups++
				}
				seen[e] = struct{}{}
			}
			select {
			case <-stop:
				if q.Len() == 0 {
					return
				}
			default:
			}
		}
	}()

	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				q.Add(PointerMotion(float32(p), float32(i)))
			}
		}(p)
	}
	wg.Wait()
	close(stop)
	<-drained

	require.Zero(t, dups, "events observed by two drains")
	require.Len(t, seen, producers*perWorker)
	require.Equal(t, uint64(0), q.Dropped())
}

func TestQueuePerProducerOrder(t *testing.T) {
	q, err := NewQueue(1024)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for p := 0; p < 4; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				q.Add(PointerMotion(float32(p), float32(i)))
			}
		}(p)
	}
	wg.Wait()

	last := map[float32]float32{0: -1, 1: -1, 2: -1, 3: -1}
	for _, e := range q.DrainAll() {
		m := e.(PointerMotionEvent)
		require.Greater(t, m.Delta[1], last[m.Delta[0]])
		last[m.Delta[0]] = m.Delta[1]
	}
}
