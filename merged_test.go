package rowlist

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/rowlist/internal/metrics"
	"github.com/arloliu/rowlist/internal/notify"
)

// fakeChild is a minimal ListAdapter with a fixed number of rows.
type fakeChild struct {
	count     int
	viewTypes int
	loading   bool
	// ignoreFirst makes position 0 report IgnoreViewType.
	ignoreFirst bool
	idBase      int64
}

func (f *fakeChild) Count() int         { return f.count }
func (f *fakeChild) ViewTypeCount() int { return f.viewTypes }
func (f *fakeChild) IsLoading() bool    { return f.loading }

func (f *fakeChild) ViewType(pos int) int {
	if f.ignoreFirst && pos == 0 {
		return IgnoreViewType
	}

	return pos % f.viewTypes
}

func (f *fakeChild) Item(pos int) Item {
	return Item{
		Location: Location{Offset: pos, Slot: SlotRow},
		Row:      Row{ID: f.idBase + int64(pos), DisplayName: "row"},
	}
}

func (f *fakeChild) ItemID(pos int) int64 { return f.idBase + int64(pos) }
func (f *fakeChild) IsEnabled(int) bool   { return true }

func newTestMerged(t *testing.T, children []ListAdapter, opts ...MergedOption) *Merged {
	t.Helper()

	merged, err := NewMerged(children, opts...)
	require.NoError(t, err)
	t.Cleanup(merged.Close)

	return merged
}

func TestNewMerged_Errors(t *testing.T) {
	_, err := NewMerged(nil)
	require.ErrorIs(t, err, ErrNoChildren)

	child := &fakeChild{count: 1, viewTypes: 1}

	_, err = NewMerged([]ListAdapter{child, nil})
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewMerged([]ListAdapter{child}, WithStaticRow(2, "too far"))
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewMerged([]ListAdapter{child}, WithIndexedChild(1))
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewMerged([]ListAdapter{child}, WithIndexedChild(0))
	require.ErrorIs(t, err, ErrInvalidConfig, "child without a section index")
}

func TestMerged_CountAdditivity(t *testing.T) {
	a := &fakeChild{count: 3, viewTypes: 1}
	b := &fakeChild{count: 4, viewTypes: 1}

	merged := newTestMerged(t, []ListAdapter{a, b})
	require.Equal(t, 7, merged.Count())

	withStatic := newTestMerged(t, []ListAdapter{a, b}, WithStaticRow(1, "Contacts to display"))
	require.Equal(t, 8, withStatic.Count())

	t.Run("loading child counts zero", func(t *testing.T) {
		b.loading = true
		defer func() { b.loading = false }()

		require.Equal(t, 3, merged.Count())
		require.Equal(t, 4, withStatic.Count())
		require.True(t, merged.IsLoading())
		require.Equal(t, 3, withStatic.ChildStart(1))
	})
}

func TestMerged_ViewTypes(t *testing.T) {
	a := &fakeChild{count: 6, viewTypes: 3, ignoreFirst: true}
	b := &fakeChild{count: 4, viewTypes: 2, ignoreFirst: true}
	merged := newTestMerged(t, []ListAdapter{a, b}, WithStaticRow(2, "footer"))

	require.Equal(t, 6, merged.ViewTypeCount())

	// every (child, type) pair maps to its own merged type
	owner := map[int]string{}
	for pos := range merged.Count() {
		loc := merged.Locate(pos)
		vt := merged.ViewType(pos)
		if loc.Child == StaticChild {
			require.Equal(t, 5, vt)
			continue
		}

		child := merged.Child(loc.Child)
		local := child.ViewType(loc.Local)
		if local == IgnoreViewType {
			require.Equal(t, IgnoreViewType, vt)
			continue
		}

		key := string(rune('a'+loc.Child)) + string(rune('0'+local))
		if prev, ok := owner[vt]; ok {
			require.Equal(t, prev, key, "merged type %d is shared", vt)
		}
		owner[vt] = key
		require.GreaterOrEqual(t, vt, 0)
		require.Less(t, vt, merged.ViewTypeCount())
	}
	require.Len(t, owner, 5)
}

func TestMerged_StaticRow(t *testing.T) {
	a := &fakeChild{count: 3, viewTypes: 1, idBase: 100}
	b := &fakeChild{count: 4, viewTypes: 1, idBase: 200}
	merged := newTestMerged(t, []ListAdapter{a, b}, WithStaticRow(1, "Contacts to display"))

	require.Equal(t, MergedLocation{Child: 0, Local: 2}, merged.Locate(2))
	require.Equal(t, MergedLocation{Child: StaticChild}, merged.Locate(3))
	require.Equal(t, MergedLocation{Child: 1, Local: 0}, merged.Locate(4))
	require.Equal(t, 4, merged.ChildStart(1))

	require.Equal(t, NoID, merged.ItemID(3))
	require.False(t, merged.IsEnabled(3))
	require.Equal(t, "Contacts to display", merged.Item(3).Title)
	require.Equal(t, SlotStatic, merged.Item(3).Location.Slot)
	require.Equal(t, RowView{ID: NoID, Slot: SlotStatic, Title: "Contacts to display"}, merged.View(3))

	require.Equal(t, int64(102), merged.ItemID(2))
	require.Equal(t, int64(203), merged.ItemID(7))
	require.True(t, merged.IsEnabled(7))

	view := merged.View(4)
	require.Equal(t, int64(200), view.ID)
	require.Equal(t, "row", view.Title)
	require.True(t, view.Enabled)

	t.Run("static row at the end", func(t *testing.T) {
		merged := newTestMerged(t, []ListAdapter{a, b}, WithStaticRow(2, "footer"))
		require.Equal(t, MergedLocation{Child: StaticChild}, merged.Locate(7))
	})

	t.Run("out of range", func(t *testing.T) {
		requirePanicsWith(t, ErrPositionOutOfRange, func() { merged.Locate(8) })
		requirePanicsWith(t, ErrPositionOutOfRange, func() { merged.ViewType(-1) })
	})
}

func TestMerged_IndexedChild(t *testing.T) {
	favorites := &fakeChild{count: 2, viewTypes: 1, idBase: 500}
	contacts := newTestAdapter(t, DefaultConfig())
	contacts.OnRowsChanged(0, allContacts())

	merged := newTestMerged(t, []ListAdapter{favorites, contacts},
		WithStaticRow(1, "Contacts to display"),
		WithIndexedChild(1),
	)

	require.Equal(t, 8, merged.Count())
	require.Equal(t, 3, merged.ChildStart(1))
	require.Equal(t, contacts.Sections(), merged.Sections())

	require.Equal(t, 3, merged.PositionForSection(0))
	require.Equal(t, 5, merged.PositionForSection(1))
	require.Equal(t, -1, merged.PositionForSection(99))

	require.Equal(t, 0, merged.SectionForPosition(0), "before the indexed child")
	require.Equal(t, 0, merged.SectionForPosition(2), "static row")
	require.Equal(t, 1, merged.SectionForPosition(5))
	require.Equal(t, 2, merged.SectionForPosition(7))
	require.Equal(t, -1, merged.SectionForPosition(8))

	require.False(t, merged.InIndexedRegion(2))
	require.True(t, merged.InIndexedRegion(3))
	require.True(t, merged.InIndexedRegion(7))
	require.False(t, merged.InIndexedRegion(8))

	require.Equal(t, PushedUp, merged.PinnedHeaderState(6).Visibility)
	require.Equal(t, "B", merged.PinnedHeaderState(6).Label)
	require.Equal(t, Gone, merged.PinnedHeaderState(0).Visibility)

	view := merged.View(3)
	require.Equal(t, "Alice", view.Title)
	require.Equal(t, "A", view.SectionHeader)

	// contacts view types start after the favorites child
	require.Equal(t, 1, merged.ViewType(3))
}

func TestMerged_ForwardsChanges(t *testing.T) {
	contacts := newTestAdapter(t, DefaultConfig())
	favorites := &fakeChild{count: 1, viewTypes: 1}

	merged, err := NewMerged([]ListAdapter{favorites, contacts})
	require.NoError(t, err)

	rec := &changeRecorder{}
	merged.Watch(rec.record)

	contacts.OnRowsChanged(0, allContacts())
	contacts.Selection().SetActive(true)

	changes := rec.all()
	require.Len(t, changes, 2)
	require.Equal(t, Change{Version: 1, Reason: ReasonChild, Partition: 1}, changes[0])
	require.Equal(t, uint64(2), changes[1].Version)

	merged.Close()
	contacts.OnRowsChanged(0, nil)
	require.Len(t, rec.all(), 2)
}

// countingChild counts how often its count is read.
type countingChild struct {
	fakeChild

	reads atomic.Int32
}

func (c *countingChild) Count() int {
	c.reads.Add(1)
	return c.fakeChild.Count()
}

func TestMerged_ReadsChildCountsOncePerQuery(t *testing.T) {
	first := &countingChild{fakeChild: fakeChild{count: 2, viewTypes: 1}}
	second := &countingChild{fakeChild: fakeChild{count: 3, viewTypes: 1, idBase: 100}}
	merged := newTestMerged(t, []ListAdapter{first, second}, WithStaticRow(1, "filter"))

	require.Equal(t, MergedLocation{Child: 1, Local: 2}, merged.Locate(5))
	require.Equal(t, int32(1), first.reads.Load())
	require.Equal(t, int32(1), second.reads.Load())

	require.Equal(t, int64(102), merged.ItemID(5))
	require.Equal(t, int32(2), second.reads.Load())

	require.Panics(t, func() { merged.Locate(6) })
	require.Equal(t, int32(3), second.reads.Load(), "the panic message reuses the query counts")
}

type dropCounter struct {
	metrics.NopMetrics

	dropped atomic.Int32
}

func (d *dropCounter) RecordNotificationDropped() {
	d.dropped.Add(1)
}

func TestMerged_DroppedNotificationMetrics(t *testing.T) {
	contacts := newTestAdapter(t, DefaultConfig())
	collector := &dropCounter{}
	merged := newTestMerged(t, []ListAdapter{contacts}, WithMergedMetrics(collector))

	_, unsubscribe := merged.Subscribe()
	defer unsubscribe()

	for i := range notify.DefaultBuffer + 2 {
		contacts.Selection().SetActive(i%2 == 0)
	}

	require.Equal(t, int32(2), collector.dropped.Load())
}
