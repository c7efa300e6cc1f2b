package selection

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/rowlist/types"
)

type sizeRecorder struct {
	sizes []int
}

func (s *sizeRecorder) RecordSelectionSize(size int) {
	s.sizes = append(s.sizes, size)
}

func TestTracker_Toggle(t *testing.T) {
	t.Run("toggle flips membership by id", func(t *testing.T) {
		tr := New()
		row := types.Row{ID: 42}

		require.True(t, tr.Toggle(row))
		require.True(t, tr.IsSelected(42))
		require.False(t, tr.Toggle(row))
		require.False(t, tr.IsSelected(42))
	})

	t.Run("profile row is never selectable", func(t *testing.T) {
		tr := New()
		var changes int
		tr.Watch(func(types.Change) { changes++ })

		require.False(t, tr.Toggle(types.Row{ID: 1, Profile: true}))
		require.False(t, tr.IsSelected(1))
		require.Equal(t, 0, tr.Len())
		require.Zero(t, changes)
	})

	t.Run("negative ids are kept", func(t *testing.T) {
		tr := New()
		tr.ToggleID(-7)
		tr.ToggleID(3)

		require.True(t, tr.IsSelected(-7))
		require.Equal(t, []int64{-7, 3}, tr.Selected())
	})
}

func TestTracker_Mode(t *testing.T) {
	t.Run("entering mode clears stale selection", func(t *testing.T) {
		tr := New()
		tr.ToggleID(5)

		tr.SetActive(true)
		require.True(t, tr.IsActive())
		require.False(t, tr.IsSelected(5))
	})

	t.Run("leaving mode clears everything", func(t *testing.T) {
		tr := New()
		tr.SetActive(true)
		tr.SetAll([]int64{1, 2, 3})

		tr.SetActive(false)
		require.False(t, tr.IsActive())
		require.Equal(t, 0, tr.Len())
		require.Empty(t, tr.Selected())
	})

	t.Run("re-entering the same mode keeps the selection", func(t *testing.T) {
		tr := New()
		tr.SetActive(true)
		tr.ToggleID(9)

		tr.SetActive(true)
		require.True(t, tr.IsSelected(9))
	})
}

func TestTracker_Notifications(t *testing.T) {
	rec := &sizeRecorder{}
	tr := New(WithMetrics(rec))

	var got []types.Change
	cancel := tr.Watch(func(c types.Change) { got = append(got, c) })
	defer cancel()

	tr.SetActive(true)
	tr.ToggleID(1)
	tr.SetAll([]int64{1, 2})
	tr.Clear()
	tr.Clear()

	require.Len(t, got, 4)
	for i, c := range got {
		require.Equal(t, types.ReasonSelection, c.Reason)
		require.Equal(t, uint64(i+1), c.Version)
		require.Equal(t, -1, c.Partition)
	}
	require.Equal(t, []int{0, 1, 2, 0}, rec.sizes)
}

func TestTracker_Persistence(t *testing.T) {
	tr := New()
	tr.SetAll([]int64{10, 20, 30})

	data, err := tr.MarshalBinary()
	require.NoError(t, err)

	restored := New()
	restored.SetActive(true)
	require.NoError(t, restored.UnmarshalBinary(data))
	require.True(t, restored.IsActive())
	require.Equal(t, []int64{10, 20, 30}, restored.Selected())

	require.Error(t, restored.UnmarshalBinary([]byte{0x01}))
	require.Equal(t, 3, restored.Len())
}
