package rowlist

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/arloliu/rowlist/alphabet"
	"github.com/arloliu/rowlist/binder"
	"github.com/arloliu/rowlist/internal/logging"
	"github.com/arloliu/rowlist/internal/metrics"
	"github.com/arloliu/rowlist/internal/notify"
	"github.com/arloliu/rowlist/internal/pinned"
	"github.com/arloliu/rowlist/internal/position"
	"github.com/arloliu/rowlist/internal/section"
	"github.com/arloliu/rowlist/selection"
	"github.com/arloliu/rowlist/types"
)

// View type layout of an Adapter. Row kinds occupy [0, KindCount); rows of the
// indexed partition that do not start a section occupy [KindCount, 2*KindCount).
const (
	viewTypePlaceholder = 2 * types.KindCount
	viewTypeStatic      = 2*types.KindCount + 1
	viewTypeCount       = 2*types.KindCount + 2
)

// Compile-time assertions that Adapter implements the list interfaces.
var (
	_ types.SectionedAdapter = (*Adapter)(nil)
	_ types.Viewer           = (*Adapter)(nil)
	_ types.Watchable        = (*Adapter)(nil)
)

// partState is the runtime state of one partition.
type partState struct {
	snap    *Snapshot
	loading bool
	hidden  bool
}

// state is one published, immutable version of the list.
type state struct {
	version uint64
	parts   []partState
	table   *position.Table
	// index is nil when no partition is indexed.
	index *section.Index
}

// loading reports whether a visible partition has no rows yet while loading.
func (s *state) loading() bool {
	for _, p := range s.parts {
		if p.loading && !p.hidden && p.snap == nil {
			return true
		}
	}

	return false
}

// Adapter presents a fixed set of partitions as one flat list.
//
// Adapter is the main entry point of the rowlist library. It handles:
//   - Position translation across headers, placeholders and static rows
//   - The alphabetic section index of the indexed partition
//   - Pinned header state for the top visible row
//   - Row binding and the multi-select overlay
//
// Thread Safety:
//   - Queries are lock-free reads of one immutable state
//   - Inbound updates are serialized and published with a single atomic swap
//   - Listeners run after the swap, outside any lock
//
// Positions are only valid for the state they were computed against. Querying
// a position outside [0, Count()) panics with an error wrapping
// ErrPositionOutOfRange.
type Adapter struct {
	cfg     Config
	indexed int

	logger    Logger
	metrics   MetricsCollector
	alphabet  *alphabet.Alphabet
	binders   *binder.Registry
	selection *selection.Tracker

	// col is only used by rebuilds, under mu.
	col *collate.Collator

	mu       sync.Mutex
	state    atomic.Pointer[state]
	notifier *notify.Notifier[Change]

	stopSelection func()
	closed        atomic.Bool
}

// NewAdapter creates an Adapter with the partitions of cfg.
//
// Every partition starts absent: no rows, not loading. Deliver rows with
// OnRowsChanged or ReplaceAll.
//
// Parameters:
//   - cfg: Configuration; missing values are filled with defaults
//   - opts: Optional configuration (logger, metrics, alphabet, binders, selection)
//
// Returns:
//   - *Adapter: Initialized adapter
//   - error: Error wrapping ErrInvalidConfig
//
// Example:
//
//	cfg := rowlist.DefaultConfig()
//	adapter, err := rowlist.NewAdapter(&cfg)
//	if err != nil {
//	    return err
//	}
//	defer adapter.Close()
//	adapter.OnRowsChanged(0, snapshot)
func NewAdapter(cfg *Config, opts ...Option) (*Adapter, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil config", ErrInvalidConfig)
	}

	SetDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	options := &adapterOptions{}
	for _, opt := range opts {
		opt(options)
	}

	metricsCollector := options.metrics
	if metricsCollector == nil {
		metricsCollector = metrics.NewNop()
	}

	loggerInstance := options.logger
	if loggerInstance == nil {
		loggerInstance = logging.NewNop()
	}

	cfg.ValidateWithWarnings(loggerInstance)

	alpha := options.alphabet
	if alpha == nil {
		alpha = alphabet.ForLocale(language.Make(cfg.Locale))
	}

	registry := binder.NewRegistry()
	for kind, fn := range options.binders {
		registry.Register(kind, fn)
	}

	tracker := options.selection
	if tracker == nil {
		tracker = selection.New(selection.WithMetrics(metricsCollector))
	}

	a := &Adapter{
		cfg:       *cfg,
		indexed:   cfg.partitionIndex(cfg.IndexedPartition),
		logger:    loggerInstance,
		metrics:   metricsCollector,
		alphabet:  alpha,
		binders:   registry,
		selection: tracker,
		col:       alpha.NewCollator(),
		notifier:  notify.New[Change](cfg.NotifyBuffer, metricsCollector.RecordNotificationDropped),
	}
	a.cfg.Partitions = slices.Clone(cfg.Partitions)

	parts := make([]partState, len(a.cfg.Partitions))
	for i, p := range a.cfg.Partitions {
		parts[i].hidden = p.Hidden
	}
	initial := &state{parts: parts, table: a.buildTable(parts)}
	if a.indexed >= 0 {
		initial.index = section.Blank(0)
	}
	a.state.Store(initial)

	a.stopSelection = tracker.Watch(func(ch Change) {
		ch.Version = a.state.Load().version
		a.notifier.Emit(ch)
	})

	return a, nil
}

// Config returns a copy of the adapter configuration.
func (a *Adapter) Config() Config {
	cfg := a.cfg
	cfg.Partitions = slices.Clone(a.cfg.Partitions)

	return cfg
}

// Partitions returns the number of partitions.
func (a *Adapter) Partitions() int {
	return len(a.cfg.Partitions)
}

// PartitionIndex returns the index of the partition called name.
//
// Returns:
//   - int: Partition index
//   - error: Error wrapping ErrUnknownPartition
func (a *Adapter) PartitionIndex(name string) (int, error) {
	return a.cfg.PartitionIndex(name)
}

// Version returns the version of the current state.
func (a *Adapter) Version() uint64 {
	return a.state.Load().version
}

// OnRowsChanged replaces the snapshot of one partition.
//
// A nil snapshot clears the partition; it is then treated as absent. The
// loading flag of the partition is reset.
//
// It panics with an error wrapping ErrPartitionMismatch when partition is
// not a configured partition index.
//
// Parameters:
//   - partition: Partition index
//   - snap: New snapshot (nil clears)
func (a *Adapter) OnRowsChanged(partition int, snap *Snapshot) {
	a.checkPartition(partition)
	a.rebuild(types.ReasonRows, partition, partition == a.indexed, func(parts []partState) {
		parts[partition].snap = snap
		parts[partition].loading = false
	})
}

// OnLoadingStateChanged sets the loading flag of one partition.
//
// Rows already delivered stay visible while a partition reloads.
//
// Parameters:
//   - partition: Partition index
//   - loading: New loading flag
func (a *Adapter) OnLoadingStateChanged(partition int, loading bool) {
	a.checkPartition(partition)
	if a.state.Load().parts[partition].loading == loading {
		return
	}
	a.rebuild(types.ReasonLoading, partition, false, func(parts []partState) {
		parts[partition].loading = loading
	})
}

// ReplaceAll replaces the snapshots of all partitions at once.
//
// It panics with an error wrapping ErrPartitionMismatch when len(snaps)
// differs from the number of partitions.
//
// Parameters:
//   - snaps: One snapshot (or nil) per partition, in partition order
func (a *Adapter) ReplaceAll(snaps []*Snapshot) {
	if len(snaps) != len(a.cfg.Partitions) {
		panic(fmt.Errorf("replace %d snapshots in %d partitions: %w",
			len(snaps), len(a.cfg.Partitions), ErrPartitionMismatch))
	}

	a.rebuild(types.ReasonReplace, -1, a.indexed >= 0, func(parts []partState) {
		for i, snap := range snaps {
			parts[i].snap = snap
			parts[i].loading = false
		}
	})
}

// SetPartitionVisible shows or hides one partition. Hidden partitions keep
// their rows but occupy no positions.
//
// Parameters:
//   - partition: Partition index
//   - visible: New visibility
func (a *Adapter) SetPartitionVisible(partition int, visible bool) {
	a.checkPartition(partition)
	if a.state.Load().parts[partition].hidden == !visible {
		return
	}
	a.rebuild(types.ReasonVisibility, partition, false, func(parts []partState) {
		parts[partition].hidden = !visible
	})
}

func (a *Adapter) checkPartition(partition int) {
	if partition < 0 || partition >= len(a.cfg.Partitions) {
		panic(fmt.Errorf("partition %d of %d: %w", partition, len(a.cfg.Partitions), ErrPartitionMismatch))
	}
}

// rebuild applies mutate to a copy of the partition states, publishes the new
// state and notifies listeners.
func (a *Adapter) rebuild(reason types.ChangeReason, partition int, reindex bool, mutate func([]partState)) {
	a.mu.Lock()
	start := time.Now()

	old := a.state.Load()
	parts := slices.Clone(old.parts)
	mutate(parts)

	next := &state{
		version: old.version + 1,
		parts:   parts,
		table:   a.buildTable(parts),
		index:   old.index,
	}
	if reindex {
		next.index = a.buildIndex(parts[a.indexed].snap)
	}
	a.state.Store(next)
	a.mu.Unlock()

	a.metrics.RecordRebuild(reason.String(), time.Since(start).Seconds())
	if partition >= 0 {
		a.recordRows(partition, parts[partition])
	} else {
		for i, p := range parts {
			a.recordRows(i, p)
		}
	}
	if reindex {
		a.metrics.RecordSectionCount(next.index.Len())
	}

	if a.closed.Load() {
		return
	}
	a.notifier.Emit(Change{Version: next.version, Reason: reason, Partition: partition})
}

func (a *Adapter) recordRows(i int, p partState) {
	a.metrics.RecordRowCount(metrics.PartitionLabel(a.cfg.Partitions[i].Name, i), p.snap.Len())
}

func (a *Adapter) buildTable(parts []partState) *position.Table {
	in := make([]position.Partition, len(parts))
	for i, p := range parts {
		pc := a.cfg.Partitions[i]
		in[i] = position.Partition{
			HasHeader:           pc.HasHeader,
			ShowIfEmpty:         pc.ShowIfEmpty,
			StaticRows:          pc.StaticRows,
			CollapseIfNextEmpty: pc.CollapseIfNextEmpty,
			Hidden:              p.hidden,
			Loading:             p.loading,
			Loaded:              p.snap != nil,
			Rows:                p.snap.Len(),
		}
	}

	return position.Build(in)
}

// buildIndex indexes the rows of the indexed partition. Missing or malformed
// section data falls back to the blank index.
func (a *Adapter) buildIndex(snap *Snapshot) *section.Index {
	if snap == nil {
		return section.Blank(0)
	}

	titles, counts := snap.Sections()
	if !snap.HasSections() {
		var err error
		titles, counts, err = section.FromKeys(snap)
		if err != nil {
			return a.fallback(snap, err)
		}
	}

	idx, err := section.Build(section.Meta{
		Titles:  titles,
		Counts:  counts,
		Rows:    snap.Len(),
		Profile: snap.HasProfile(),
	}, section.Options{
		Alphabet:     a.alphabet.Labels(),
		Collator:     a.col,
		ProfileLabel: a.cfg.ProfileLabel,
	})
	if err != nil {
		return a.fallback(snap, err)
	}

	return idx
}

func (a *Adapter) fallback(snap *Snapshot, err error) *section.Index {
	reason := "malformed"
	if errors.Is(err, types.ErrMissingSections) {
		reason = "missing"
	}
	a.metrics.RecordIndexFallback(reason)
	a.logger.Warn("section index unavailable, using blank index",
		"partition", a.cfg.IndexedPartition,
		"rows", snap.Len(),
		"reason", reason,
		"error", err,
	)

	return section.Blank(snap.Len())
}

// Count returns the number of flat positions.
func (a *Adapter) Count() int {
	return a.state.Load().table.Count()
}

// ViewTypeCount returns the number of distinct view types.
func (a *Adapter) ViewTypeCount() int {
	return viewTypeCount
}

// ViewType returns the view type of pos.
//
// Headers return IgnoreViewType. Data rows use their kind; with SectionHeaders
// enabled, rows of the indexed partition that do not start a section are
// offset by KindCount.
func (a *Adapter) ViewType(pos int) int {
	st := a.state.Load()
	loc := st.table.Locate(pos)

	switch loc.Slot {
	case types.SlotHeader:
		return IgnoreViewType
	case types.SlotPlaceholder:
		return viewTypePlaceholder
	case types.SlotStatic:
		return viewTypeStatic
	}

	row := st.parts[loc.Partition].snap.At(loc.Offset)
	vt := 0
	if row.Kind.Valid() {
		vt = int(row.Kind)
	}
	if a.cfg.SectionHeaders && loc.Partition == a.indexed && !st.index.Placement(loc.Offset).FirstInSection {
		vt += types.KindCount
	}

	return vt
}

// Item returns the item at pos.
func (a *Adapter) Item(pos int) Item {
	st := a.state.Load()
	loc := st.table.Locate(pos)

	item := Item{Location: loc}
	switch loc.Slot {
	case types.SlotRow:
		item.Row = st.parts[loc.Partition].snap.At(loc.Offset)
	case types.SlotHeader, types.SlotStatic:
		item.Title = a.cfg.Partitions[loc.Partition].Title
	}

	return item
}

// Row returns the data row at pos. ok is false for headers, placeholders and
// static rows.
func (a *Adapter) Row(pos int) (row Row, ok bool) {
	st := a.state.Load()
	loc := st.table.Locate(pos)
	if loc.Slot != types.SlotRow {
		return Row{}, false
	}

	return st.parts[loc.Partition].snap.At(loc.Offset), true
}

// ItemID returns the row id at pos, or NoID for synthetic rows.
func (a *Adapter) ItemID(pos int) int64 {
	if row, ok := a.Row(pos); ok {
		return row.ID
	}

	return NoID
}

// IsEnabled reports whether pos is a data row.
func (a *Adapter) IsEnabled(pos int) bool {
	return a.state.Load().table.Locate(pos).Slot == types.SlotRow
}

// AreAllItemsEnabled reports whether every position is a data row.
func (a *Adapter) AreAllItemsEnabled() bool {
	return a.state.Load().table.AllRows()
}

// Locate translates pos into partition coordinates.
func (a *Adapter) Locate(pos int) Location {
	return a.state.Load().table.Locate(pos)
}

// Position translates a location back into a flat position.
func (a *Adapter) Position(loc Location) int {
	return a.state.Load().table.Position(loc)
}

// PartitionStart returns the first position of partition i (its header when
// present).
func (a *Adapter) PartitionStart(i int) int {
	return a.state.Load().table.PartitionStart(i)
}

// DataStart returns the first position after the header of partition i.
func (a *Adapter) DataStart(i int) int {
	return a.state.Load().table.DataStart(i)
}

// Sections returns the section labels of the indexed partition, or nil when no
// partition is indexed.
func (a *Adapter) Sections() []string {
	st := a.state.Load()
	if st.index == nil {
		return nil
	}

	return st.index.Sections()
}

// IndexAvailable reports whether the section index was built from real
// section data rather than the blank fallback.
func (a *Adapter) IndexAvailable() bool {
	st := a.state.Load()

	return st.index != nil && st.index.Available()
}

// PositionForSection returns the flat position of the start of section i.
//
// Empty canonical sections navigate to where the next data begins; a position
// past the last row is clamped to the last position.
//
// Returns:
//   - int: Flat position, -1 when i is out of range, no partition is indexed,
//     the indexed partition is hidden or the list is empty
func (a *Adapter) PositionForSection(i int) int {
	st := a.state.Load()
	if st.index == nil || st.parts[a.indexed].hidden || st.table.Count() == 0 {
		return -1
	}

	local := st.index.PositionForSection(i)
	if local < 0 {
		return -1
	}

	return min(st.table.DataStart(a.indexed)+local, st.table.Count()-1)
}

// SectionForPosition returns the section containing pos.
//
// Positions before the indexed rows report the first section and positions
// after them the last one.
//
// Returns:
//   - int: Section index, -1 when pos is out of range or no partition is indexed
func (a *Adapter) SectionForPosition(pos int) int {
	st := a.state.Load()
	if st.index == nil || st.index.Len() == 0 || pos < 0 || pos >= st.table.Count() {
		return -1
	}

	loc := st.table.Locate(pos)
	switch {
	case loc.Partition < a.indexed:
		return 0
	case loc.Partition > a.indexed:
		return st.index.Len() - 1
	case loc.Slot != types.SlotRow:
		return 0
	}

	return max(st.index.SectionForPosition(loc.Offset), 0)
}

// Placement returns the section placement of pos. Positions outside the
// indexed rows have a zero placement.
func (a *Adapter) Placement(pos int) Placement {
	st := a.state.Load()
	loc := st.table.Locate(pos)

	return a.placement(st, loc)
}

func (a *Adapter) placement(st *state, loc Location) Placement {
	if loc.Partition != a.indexed || loc.Slot != types.SlotRow {
		return Placement{}
	}

	return st.index.Placement(loc.Offset)
}

// PinnedHeaderState returns the pinned header state for the top visible
// position, without geometry.
func (a *Adapter) PinnedHeaderState(top int) PinnedHeaderState {
	return a.pinnedHeaderState(top, nil)
}

// PinnedHeaderStateAt returns the pinned header state for the top visible
// position using measured geometry for the fade.
//
// Parameters:
//   - top: Top visible position
//   - geom: Header height and bottom edge of the top row
//
// Returns:
//   - PinnedHeaderState: Derived state; Gone outside the indexed rows
func (a *Adapter) PinnedHeaderStateAt(top int, geom HeaderGeometry) PinnedHeaderState {
	return a.pinnedHeaderState(top, &geom)
}

func (a *Adapter) pinnedHeaderState(top int, geom *HeaderGeometry) PinnedHeaderState {
	gone := PinnedHeaderState{Visibility: Gone, Section: -1}

	st := a.state.Load()
	if st.table.Count() == 0 {
		return gone
	}

	loc := st.table.Locate(top)
	if st.index == nil || loc.Partition != a.indexed || loc.Slot != types.SlotRow {
		return gone
	}

	return pinned.Compute(st.index, loc.Offset, geom)
}

// View binds pos to a row view.
func (a *Adapter) View(pos int) RowView {
	st := a.state.Load()
	loc := st.table.Locate(pos)

	switch loc.Slot {
	case types.SlotHeader, types.SlotPlaceholder, types.SlotStatic:
		return RowView{
			ID:    NoID,
			Slot:  loc.Slot,
			Title: a.cfg.Partitions[loc.Partition].Title,
		}
	}

	row := st.parts[loc.Partition].snap.At(loc.Offset)

	return a.binders.Bind(row, binder.Context{
		Capabilities:    a.cfg.Capabilities,
		Placement:       a.placement(st, loc),
		SelectionActive: a.selection.IsActive(),
		Selected:        row.Selectable() && a.selection.IsSelected(row.ID),
	})
}

// IsLoading reports whether a visible partition is loading without having
// delivered any rows yet.
func (a *Adapter) IsLoading() bool {
	return a.state.Load().loading()
}

// loadedCount returns Count, or 0 while IsLoading, from one state snapshot.
func (a *Adapter) loadedCount() int {
	st := a.state.Load()
	if st.loading() {
		return 0
	}

	return st.table.Count()
}

// IsEmpty reports whether no partition holds data rows.
func (a *Adapter) IsEmpty() bool {
	for _, p := range a.state.Load().parts {
		if p.snap.Len() > 0 {
			return false
		}
	}

	return true
}

// IsSelected reports whether the row at pos is selected. Synthetic and
// unselectable rows are never selected.
func (a *Adapter) IsSelected(pos int) bool {
	row, ok := a.Row(pos)

	return ok && row.Selectable() && a.selection.IsSelected(row.ID)
}

// ToggleSelection flips the selection of the row at pos.
//
// Outside multi-select mode the call is a no-op, so the selection always
// stays empty while the mode is off.
//
// Returns:
//   - bool: New selection state; false for synthetic and unselectable rows and
//     while multi-select mode is off
func (a *Adapter) ToggleSelection(pos int) bool {
	row, ok := a.Row(pos)
	if !ok || !a.selection.IsActive() {
		return false
	}

	return a.selection.Toggle(row)
}

// ToggleID flips the selection of the row with id in the visible partitions.
// Unknown ids and unselectable rows, such as the profile row, are ignored.
//
// Returns:
//   - bool: New selection state; false when the call was ignored
func (a *Adapter) ToggleID(id int64) bool {
	row, ok := a.rowByID(id)
	if !ok || !a.selection.IsActive() {
		return false
	}

	return a.selection.Toggle(row)
}

// IsSelectedID reports whether the row with id is selected. Ids that are not
// a selectable row of a visible partition are never selected.
func (a *Adapter) IsSelectedID(id int64) bool {
	row, ok := a.rowByID(id)

	return ok && row.Selectable() && a.selection.IsSelected(id)
}

func (a *Adapter) rowByID(id int64) (Row, bool) {
	for _, p := range a.state.Load().parts {
		if p.hidden {
			continue
		}
		for _, row := range p.snap.All() {
			if row.ID == id {
				return row, true
			}
		}
	}

	return Row{}, false
}

// SelectAll selects every selectable row of the visible partitions. It is a
// no-op while multi-select mode is off.
func (a *Adapter) SelectAll() {
	if !a.selection.IsActive() {
		return
	}

	var ids []int64
	for _, p := range a.state.Load().parts {
		if p.hidden {
			continue
		}
		for _, row := range p.snap.All() {
			if row.Selectable() {
				ids = append(ids, row.ID)
			}
		}
	}
	a.selection.SetAll(ids)
}

// Selection returns the selection tracker.
func (a *Adapter) Selection() *selection.Tracker {
	return a.selection
}

// Watch registers fn for change notifications and returns a function that
// removes it. fn runs synchronously on the goroutine that caused the change.
func (a *Adapter) Watch(fn func(Change)) (cancel func()) {
	return a.notifier.Watch(fn)
}

// Subscribe returns a buffered channel of change notifications. Slow
// subscribers miss notifications rather than blocking updates.
func (a *Adapter) Subscribe() (<-chan Change, func()) {
	return a.notifier.Subscribe()
}

// Close detaches all listeners and closes subscriber channels. The adapter
// keeps answering queries.
func (a *Adapter) Close() {
	if !a.closed.CompareAndSwap(false, true) {
		return
	}
	a.stopSelection()
	a.notifier.Close()
}
