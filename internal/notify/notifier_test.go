package notify

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNotifier_Watch(t *testing.T) {
	n := New[int](0, nil)

	var got []int
	cancel := n.Watch(func(v int) { got = append(got, v) })
	require.Equal(t, 1, n.Len())

	n.Emit(1)
	n.Emit(2)
	cancel()
	cancel()
	n.Emit(3)

	require.Equal(t, []int{1, 2}, got)
	require.Equal(t, 0, n.Len())
}

func TestNotifier_Subscribe(t *testing.T) {
	t.Run("buffered delivery", func(t *testing.T) {
		n := New[string](2, nil)
		ch, unsubscribe := n.Subscribe()

		n.Emit("a")
		n.Emit("b")

		require.Equal(t, "a", <-ch)
		require.Equal(t, "b", <-ch)

		unsubscribe()
		_, ok := <-ch
		require.False(t, ok)

		// unsubscribing twice is safe
		unsubscribe()
	})

	t.Run("slow subscriber drops events", func(t *testing.T) {
		var dropped atomic.Int32
		n := New[int](1, func() { dropped.Add(1) })
		ch, unsubscribe := n.Subscribe()
		defer unsubscribe()

		n.Emit(1)
		n.Emit(2)
		n.Emit(3)

		require.Equal(t, int32(2), dropped.Load())
		require.Equal(t, 1, <-ch)
	})

	t.Run("close closes channels and removes listeners", func(t *testing.T) {
		n := New[int](1, nil)
		ch, _ := n.Subscribe()
		n.Watch(func(int) {})

		n.Close()

		_, ok := <-ch
		require.False(t, ok)
		require.Equal(t, 0, n.Len())
		require.NotPanics(t, func() { n.Emit(1) })
	})
}
