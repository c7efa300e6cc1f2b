package position

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/rowlist/types"
)

func loaded(rows int) Partition {
	return Partition{Loaded: true, Rows: rows}
}

func TestTable_StarredAndContacts(t *testing.T) {
	starred := loaded(2)
	contacts := loaded(5)
	contacts.HasHeader = true

	tbl := Build([]Partition{starred, contacts})

	require.Equal(t, 8, tbl.Count())

	loc := tbl.Locate(2)
	require.Equal(t, types.Location{Partition: 1, Offset: types.HeaderOffset, Slot: types.SlotHeader}, loc)

	loc = tbl.Locate(3)
	require.Equal(t, types.Location{Partition: 1, Offset: 0, Slot: types.SlotRow}, loc)

	require.Equal(t, 0, tbl.PartitionStart(0))
	require.Equal(t, 2, tbl.PartitionStart(1))
	require.Equal(t, 3, tbl.DataStart(1))
}

func TestTable_RoundTrip(t *testing.T) {
	header := func(p Partition) Partition { p.HasHeader = true; return p }

	layouts := map[string][]Partition{
		"headers everywhere": {header(loaded(3)), header(loaded(1)), header(loaded(4))},
		"empty partitions": {
			header(loaded(0)),
			{HasHeader: true, ShowIfEmpty: true, Loaded: true},
			loaded(2),
		},
		"static divider": {loaded(2), {StaticRows: 1}, header(loaded(3))},
		"hidden middle":  {loaded(2), {Hidden: true, Loaded: true, Rows: 9}, loaded(1)},
	}

	for name, parts := range layouts {
		t.Run(name, func(t *testing.T) {
			tbl := Build(parts)
			for p := 0; p < tbl.Count(); p++ {
				loc := tbl.Locate(p)
				require.Equal(t, p, tbl.Position(loc), "position %d", p)
				if loc.Slot != types.SlotHeader {
					require.Equal(t, p, tbl.DataStart(loc.Partition)+loc.Offset)
				}
			}
		})
	}
}

func TestTable_EmptyStates(t *testing.T) {
	t.Run("loaded empty with showIfEmpty has header and placeholder", func(t *testing.T) {
		tbl := Build([]Partition{{HasHeader: true, ShowIfEmpty: true, Loaded: true}})
		require.Equal(t, 2, tbl.Count())
		require.Equal(t, types.SlotHeader, tbl.Locate(0).Slot)
		require.Equal(t, types.Location{Partition: 0, Offset: 0, Slot: types.SlotPlaceholder}, tbl.Locate(1))
		require.True(t, tbl.HasPlaceholder(0))
	})

	t.Run("loaded empty without showIfEmpty is collapsed", func(t *testing.T) {
		tbl := Build([]Partition{{HasHeader: true, Loaded: true}})
		require.Equal(t, 0, tbl.Count())
	})

	t.Run("absent snapshot never shows a placeholder", func(t *testing.T) {
		tbl := Build([]Partition{{HasHeader: true, ShowIfEmpty: true}})
		require.Equal(t, 1, tbl.Count())
		require.False(t, tbl.HasPlaceholder(0))
	})

	t.Run("loading without rows suppresses the placeholder", func(t *testing.T) {
		tbl := Build([]Partition{{ShowIfEmpty: true, Loaded: true, Loading: true}})
		require.Equal(t, 0, tbl.Count())
	})

	t.Run("loading keeps previous rows", func(t *testing.T) {
		tbl := Build([]Partition{{HasHeader: true, Loaded: true, Loading: true, Rows: 3}})
		require.Equal(t, 4, tbl.Count())
	})
}

func TestTable_StaticPartitions(t *testing.T) {
	divider := Partition{StaticRows: 1, CollapseIfNextEmpty: true}

	t.Run("divider shown before rows", func(t *testing.T) {
		tbl := Build([]Partition{loaded(2), divider, loaded(3)})
		require.Equal(t, 6, tbl.Count())
		require.Equal(t, types.Location{Partition: 1, Offset: 0, Slot: types.SlotStatic}, tbl.Locate(2))
	})

	t.Run("divider collapses when next partition is empty", func(t *testing.T) {
		tbl := Build([]Partition{loaded(2), divider, loaded(0)})
		require.Equal(t, 2, tbl.Count())
		require.Equal(t, 0, tbl.Size(1))
	})

	t.Run("divider looks past hidden partitions", func(t *testing.T) {
		hidden := loaded(4)
		hidden.Hidden = true
		tbl := Build([]Partition{divider, hidden, loaded(1)})
		require.Equal(t, 2, tbl.Count())
	})

	t.Run("all rows", func(t *testing.T) {
		require.True(t, Build([]Partition{loaded(2), loaded(1)}).AllRows())
		require.False(t, Build([]Partition{loaded(2), divider, loaded(1)}).AllRows())
	})
}

func TestTable_OutOfRange(t *testing.T) {
	tbl := Build([]Partition{loaded(2)})

	for _, pos := range []int{-1, 2, 100} {
		func() {
			defer func() {
				r := recover()
				require.NotNil(t, r, "position %d", pos)
				err, ok := r.(error)
				require.True(t, ok)
				require.True(t, errors.Is(err, types.ErrPositionOutOfRange))
			}()
			tbl.Locate(pos)
		}()
	}

	require.PanicsWithError(t, "partition 3 of 1: partition table mismatch", func() {
		tbl.PartitionStart(3)
	})
}
