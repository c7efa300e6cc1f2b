package source

import (
	"context"
	"slices"
	"sync"

	"github.com/arloliu/rowlist/types"
)

// Static implements a row source with a fixed snapshot.
type Static struct {
	mu   sync.RWMutex
	snap *types.Snapshot
}

var _ types.RowSource = (*Static)(nil)

// NewStatic creates a new static row source.
//
// The source returns the same snapshot until Update replaces it. Useful for
// testing and for rows known at startup.
//
// Parameters:
//   - snap: Snapshot to serve (nil serves an empty snapshot)
//
// Returns:
//   - *Static: Initialized static source
//
// Example:
//
//	src := source.NewStatic(source.Build(rows, source.BuildOptions{}))
//	loader, err := source.NewLoader(adapter, source.WithSource("contacts", src))
func NewStatic(snap *types.Snapshot) *Static {
	return &Static{snap: snap}
}

// LoadRows returns the current snapshot.
//
// Returns:
//   - *types.Snapshot: The current snapshot
//   - error: Always nil (never fails)
func (s *Static) LoadRows(_ context.Context) (*types.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.snap == nil {
		return types.NewSnapshot(nil), nil
	}

	return s.snap, nil
}

// Update replaces the snapshot served by the source.
//
// This allows the static source to simulate reloads in tests.
//
// Parameters:
//   - snap: New snapshot
func (s *Static) Update(snap *types.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap = snap
}

// Func adapts a function to a RowSource.
type Func func(ctx context.Context) (*types.Snapshot, error)

var _ types.RowSource = Func(nil)

// LoadRows calls f.
func (f Func) LoadRows(ctx context.Context) (*types.Snapshot, error) {
	return f(ctx)
}

// Filtered derives a source that keeps only the rows of another source
// matching a predicate. The kept rows are rebuilt with Build, so sections and
// the fingerprint describe the filtered rows.
type Filtered struct {
	src  types.RowSource
	keep func(types.Row) bool
	opts BuildOptions
}

var _ types.RowSource = (*Filtered)(nil)

// NewFiltered creates a filtered source.
//
// Parameters:
//   - src: Underlying source
//   - keep: Predicate selecting the rows to keep
//   - opts: Build options for the filtered rows
//
// Returns:
//   - *Filtered: Filtered source
//
// Example:
//
//	starred := source.NewFiltered(contacts, func(r types.Row) bool { return r.Starred }, opts)
func NewFiltered(src types.RowSource, keep func(types.Row) bool, opts BuildOptions) *Filtered {
	return &Filtered{src: src, keep: keep, opts: opts}
}

// LoadRows loads the underlying source and filters its rows.
func (f *Filtered) LoadRows(ctx context.Context) (*types.Snapshot, error) {
	snap, err := f.src.LoadRows(ctx)
	if err != nil {
		return nil, err
	}

	rows := slices.DeleteFunc(snap.Rows(), func(r types.Row) bool { return !f.keep(r) })

	return Build(rows, f.opts), nil
}

// Watch forwards updates of a watchable underlying source through the filter.
// It returns ErrNotWatchable when the underlying source cannot be watched.
func (f *Filtered) Watch(ctx context.Context, deliver func(*types.Snapshot)) error {
	w, ok := f.src.(Watcher)
	if !ok {
		return ErrNotWatchable
	}

	return w.Watch(ctx, func(snap *types.Snapshot) {
		rows := slices.DeleteFunc(snap.Rows(), func(r types.Row) bool { return !f.keep(r) })
		deliver(Build(rows, f.opts))
	})
}
