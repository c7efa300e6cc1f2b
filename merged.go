package rowlist

import (
	"fmt"
	"sync/atomic"

	"github.com/arloliu/rowlist/internal/metrics"
	"github.com/arloliu/rowlist/internal/notify"
	"github.com/arloliu/rowlist/types"
)

// Compile-time assertions that Merged implements the list interfaces.
var (
	_ types.SectionedAdapter = (*Merged)(nil)
	_ types.Viewer           = (*Merged)(nil)
	_ types.Watchable        = (*Merged)(nil)
)

// StaticChild is the Child of a MergedLocation on the static row.
const StaticChild = -1

// MergedLocation addresses a position of a Merged adapter.
type MergedLocation struct {
	// Child is the child index, or StaticChild for the static row.
	Child int

	// Local is the position inside the child (0 for the static row).
	Local int
}

// pinnedSource is implemented by children that compute pinned header state.
type pinnedSource interface {
	PinnedHeaderState(top int) PinnedHeaderState
}

// Merged concatenates child adapters into one list.
//
// A child that reports IsLoading occupies no positions. An optional static row
// can be placed between children, and one child may own the section index.
// View types of each child are shifted past those of the preceding children;
// IgnoreViewType passes through unchanged.
//
// Merged holds no row state of its own. Each query reads every child's count
// once and resolves positions against those counts; a child that changes
// during the query answers its part from its own newer state, so consistency
// is per child.
type Merged struct {
	children []ListAdapter
	// typeBase[i] is the first merged view type of child i.
	typeBase  []int
	typeCount int

	static  bool
	staticK int
	title   string
	indexed int

	version  atomic.Uint64
	notifier *notify.Notifier[Change]
	cancels  []func()
	closed   atomic.Bool
}

// NewMerged creates a merged adapter over children.
//
// Parameters:
//   - children: Child adapters in display order
//   - opts: Optional static row, indexed child and metrics collector
//
// Returns:
//   - *Merged: Merged adapter
//   - error: ErrNoChildren, or an error wrapping ErrInvalidConfig
//
// Example:
//
//	merged, err := rowlist.NewMerged(
//	    []rowlist.ListAdapter{favorites, contacts},
//	    rowlist.WithStaticRow(1, "Contacts to display"),
//	    rowlist.WithIndexedChild(1),
//	)
func NewMerged(children []ListAdapter, opts ...MergedOption) (*Merged, error) {
	if len(children) == 0 {
		return nil, ErrNoChildren
	}

	options := &mergedOptions{indexed: -1, metrics: metrics.NewNop()}
	for _, opt := range opts {
		opt(options)
	}

	for i, c := range children {
		if c == nil {
			return nil, fmt.Errorf("%w: child %d is nil", ErrInvalidConfig, i)
		}
	}
	if options.static && (options.staticK < 0 || options.staticK > len(children)) {
		return nil, fmt.Errorf("%w: static row before child %d of %d", ErrInvalidConfig, options.staticK, len(children))
	}
	if options.indexed >= len(children) {
		return nil, fmt.Errorf("%w: indexed child %d of %d", ErrInvalidConfig, options.indexed, len(children))
	}
	if options.indexed >= 0 {
		if _, ok := children[options.indexed].(SectionedAdapter); !ok {
			return nil, fmt.Errorf("%w: indexed child %d has no section index", ErrInvalidConfig, options.indexed)
		}
	}

	m := &Merged{
		children: append([]ListAdapter(nil), children...),
		typeBase: make([]int, len(children)),
		static:   options.static,
		staticK:  options.staticK,
		title:    options.title,
		indexed:  options.indexed,
		notifier: notify.New[Change](notify.DefaultBuffer, options.metrics.RecordNotificationDropped),
	}
	for i, c := range m.children {
		m.typeBase[i] = m.typeCount
		m.typeCount += c.ViewTypeCount()
	}

	for i, c := range m.children {
		w, ok := c.(types.Watchable)
		if !ok {
			continue
		}
		child := i
		m.cancels = append(m.cancels, w.Watch(func(Change) {
			m.notifier.Emit(Change{
				Version:   m.version.Add(1),
				Reason:    types.ReasonChild,
				Partition: child,
			})
		}))
	}

	return m, nil
}

// Children returns the number of children.
func (m *Merged) Children() int {
	return len(m.children)
}

// Child returns child i.
func (m *Merged) Child(i int) ListAdapter {
	return m.children[i]
}

// loadedCounter is implemented by children that read their loading state and
// count from a single snapshot.
type loadedCounter interface {
	loadedCount() int
}

// layout is the position layout of one query.
type layout struct {
	m *Merged
	// counts[i] is the number of positions child i occupies.
	counts []int
}

// layout reads every child's count once.
func (m *Merged) layout() layout {
	counts := make([]int, len(m.children))
	for i, c := range m.children {
		if lc, ok := c.(loadedCounter); ok {
			counts[i] = lc.loadedCount()
			continue
		}
		if !c.IsLoading() {
			counts[i] = c.Count()
		}
	}

	return layout{m: m, counts: counts}
}

func (l layout) total() int {
	n := 0
	for _, c := range l.counts {
		n += c
	}
	if l.m.static {
		n++
	}

	return n
}

func (l layout) start(i int) int {
	pos := 0
	for j := range i {
		if l.m.static && l.m.staticK == j {
			pos++
		}
		pos += l.counts[j]
	}
	if l.m.static && l.m.staticK == i {
		pos++
	}

	return pos
}

func (l layout) locate(pos int) (MergedLocation, bool) {
	if pos < 0 {
		return MergedLocation{}, false
	}

	off := pos
	for i, n := range l.counts {
		if l.m.static && l.m.staticK == i {
			if off == 0 {
				return MergedLocation{Child: StaticChild}, true
			}
			off--
		}
		if off < n {
			return MergedLocation{Child: i, Local: off}, true
		}
		off -= n
	}
	if l.m.static && l.m.staticK == len(l.counts) && off == 0 {
		return MergedLocation{Child: StaticChild}, true
	}

	return MergedLocation{}, false
}

// inIndexed reports whether pos lies within the indexed child.
func (l layout) inIndexed(pos int) bool {
	if l.m.indexed < 0 {
		return false
	}
	start := l.start(l.m.indexed)

	return pos >= start && pos < start+l.counts[l.m.indexed]
}

// Count returns the sum of the children's counts plus the static row.
func (m *Merged) Count() int {
	return m.layout().total()
}

// ChildStart returns the first merged position of child i.
func (m *Merged) ChildStart(i int) int {
	return m.layout().start(i)
}

// Locate translates pos into a child and a local position.
//
// It panics with an error wrapping ErrPositionOutOfRange when pos is not in
// [0, Count()).
func (m *Merged) Locate(pos int) MergedLocation {
	l := m.layout()
	loc, ok := l.locate(pos)
	if !ok {
		panic(fmt.Errorf("locate %d in merged list of %d: %w", pos, l.total(), ErrPositionOutOfRange))
	}

	return loc
}

// ViewTypeCount returns the sum of the children's view type counts, plus one
// for the static row.
func (m *Merged) ViewTypeCount() int {
	if m.static {
		return m.typeCount + 1
	}

	return m.typeCount
}

// ViewType returns the merged view type of pos.
func (m *Merged) ViewType(pos int) int {
	loc := m.Locate(pos)
	if loc.Child == StaticChild {
		return m.typeCount
	}

	vt := m.children[loc.Child].ViewType(loc.Local)
	if vt == IgnoreViewType {
		return IgnoreViewType
	}

	return m.typeBase[loc.Child] + vt
}

// Item returns the item at pos. The static row is a SlotStatic item carrying
// the static row title.
func (m *Merged) Item(pos int) Item {
	loc := m.Locate(pos)
	if loc.Child == StaticChild {
		return Item{
			Location: Location{Partition: StaticChild, Slot: types.SlotStatic},
			Title:    m.title,
		}
	}

	return m.children[loc.Child].Item(loc.Local)
}

// ItemID returns the child's item id at pos, or NoID for the static row.
func (m *Merged) ItemID(pos int) int64 {
	loc := m.Locate(pos)
	if loc.Child == StaticChild {
		return NoID
	}

	return m.children[loc.Child].ItemID(loc.Local)
}

// IsEnabled reports whether pos is enabled in its child. The static row handles
// its own clicks and is never enabled.
func (m *Merged) IsEnabled(pos int) bool {
	loc := m.Locate(pos)
	if loc.Child == StaticChild {
		return false
	}

	return m.children[loc.Child].IsEnabled(loc.Local)
}

// View binds pos. Children without their own binding produce a view from their
// item.
func (m *Merged) View(pos int) RowView {
	loc := m.Locate(pos)
	if loc.Child == StaticChild {
		return RowView{ID: NoID, Slot: types.SlotStatic, Title: m.title}
	}

	child := m.children[loc.Child]
	if v, ok := child.(types.Viewer); ok {
		return v.View(loc.Local)
	}

	item := child.Item(loc.Local)
	view := RowView{
		ID:      child.ItemID(loc.Local),
		Slot:    item.Location.Slot,
		Title:   item.Title,
		Enabled: child.IsEnabled(loc.Local),
	}
	if item.Location.Slot == types.SlotRow {
		view.Kind = item.Row.Kind
		view.Title = item.Row.DisplayName
		view.Starred = item.Row.Starred
	}

	return view
}

// IsLoading reports whether any child is loading.
func (m *Merged) IsLoading() bool {
	for _, c := range m.children {
		if c.IsLoading() {
			return true
		}
	}

	return false
}

func (m *Merged) indexedChild() SectionedAdapter {
	if m.indexed < 0 {
		return nil
	}

	return m.children[m.indexed].(SectionedAdapter)
}

// Sections returns the sections of the indexed child, or nil.
func (m *Merged) Sections() []string {
	if c := m.indexedChild(); c != nil {
		return c.Sections()
	}

	return nil
}

// PositionForSection returns the merged position of section i of the indexed
// child, or -1.
func (m *Merged) PositionForSection(i int) int {
	c := m.indexedChild()
	if c == nil {
		return -1
	}
	l := m.layout()
	if l.counts[m.indexed] == 0 {
		return -1
	}

	local := c.PositionForSection(i)
	if local < 0 {
		return -1
	}

	return l.start(m.indexed) + local
}

// SectionForPosition returns the section of the indexed child containing pos.
//
// Positions before the indexed child report section 0 and positions after it
// the last section.
//
// Returns:
//   - int: Section index, -1 when pos is out of range or no child is indexed
func (m *Merged) SectionForPosition(pos int) int {
	c := m.indexedChild()
	if c == nil {
		return -1
	}
	l := m.layout()
	if pos < 0 || pos >= l.total() {
		return -1
	}

	start := l.start(m.indexed)
	n := l.counts[m.indexed]
	switch {
	case pos < start:
		return 0
	case pos >= start+n:
		return len(c.Sections()) - 1
	}

	return c.SectionForPosition(pos - start)
}

// InIndexedRegion reports whether pos lies within the indexed child. Hosts use
// it to enable the fast scroller only over indexed rows.
func (m *Merged) InIndexedRegion(pos int) bool {
	return m.layout().inIndexed(pos)
}

// PinnedHeaderState returns the pinned header state of the indexed child for
// the top visible position. It is Gone outside the indexed child.
func (m *Merged) PinnedHeaderState(top int) PinnedHeaderState {
	gone := PinnedHeaderState{Visibility: Gone, Section: -1}
	l := m.layout()
	if !l.inIndexed(top) {
		return gone
	}

	p, ok := m.children[m.indexed].(pinnedSource)
	if !ok {
		return gone
	}

	return p.PinnedHeaderState(top - l.start(m.indexed))
}

// Watch registers fn for change notifications forwarded from the children.
func (m *Merged) Watch(fn func(Change)) (cancel func()) {
	return m.notifier.Watch(fn)
}

// Subscribe returns a buffered channel of forwarded change notifications.
func (m *Merged) Subscribe() (<-chan Change, func()) {
	return m.notifier.Subscribe()
}

// Close detaches from the children and closes subscriber channels. Children
// are not closed.
func (m *Merged) Close() {
	if !m.closed.CompareAndSwap(false, true) {
		return
	}
	for _, cancel := range m.cancels {
		cancel()
	}
	m.notifier.Close()
}
