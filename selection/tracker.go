package selection

import (
	"fmt"
	"slices"
	"sync"

	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/arloliu/rowlist/internal/metrics"
	"github.com/arloliu/rowlist/internal/notify"
	"github.com/arloliu/rowlist/types"
)

// Tracker records which rows are selected.
//
// Tracker is safe for concurrent use. Change notifications carry
// types.ReasonSelection and are emitted after the lock is released.
type Tracker struct {
	mu      sync.RWMutex
	set     *roaring64.Bitmap
	active  bool
	version uint64

	metrics  types.SelectionMetrics
	notifier *notify.Notifier[types.Change]
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithMetrics sets the metrics collector used to report the selection size.
func WithMetrics(m types.SelectionMetrics) Option {
	return func(t *Tracker) {
		if m != nil {
			t.metrics = m
		}
	}
}

// New creates an inactive tracker with an empty selection.
func New(opts ...Option) *Tracker {
	t := &Tracker{
		set:     roaring64.New(),
		metrics: metrics.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.notifier = notify.New[types.Change](0, nil)

	return t
}

// IsActive reports whether multi-select mode is on.
func (t *Tracker) IsActive() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.active
}

// SetActive switches multi-select mode.
//
// Entering the mode from inactive clears any stale selection; leaving it
// clears the selection entirely. Setting the current mode again is a no-op.
func (t *Tracker) SetActive(active bool) {
	t.update(func() bool {
		if t.active == active {
			return false
		}
		t.active = active
		t.set.Clear()

		return true
	})
}

// Toggle flips the selection of row and returns its new state.
//
// Toggling an unselectable row is a silent no-op that returns false.
func (t *Tracker) Toggle(row types.Row) bool {
	if !row.Selectable() {
		return false
	}

	return t.ToggleID(row.ID)
}

// ToggleID flips the selection of id and returns its new state.
//
// The tracker knows nothing about rows, so ToggleID cannot tell a profile id
// from a contact id. Callers that start from ids use rowlist.Adapter.ToggleID, which
// checks the row first.
func (t *Tracker) ToggleID(id int64) bool {
	var selected bool
	t.update(func() bool {
		key := uint64(id) //nolint:gosec // ids are stored bit for bit
		if t.set.CheckedRemove(key) {
			selected = false
		} else {
			t.set.Add(key)
			selected = true
		}

		return true
	})

	return selected
}

// SetAll replaces the selection with ids. Like ToggleID it does not check
// that the ids are selectable rows.
func (t *Tracker) SetAll(ids []int64) {
	t.update(func() bool {
		t.set.Clear()
		for _, id := range ids {
			t.set.Add(uint64(id)) //nolint:gosec // ids are stored bit for bit
		}

		return true
	})
}

// Clear empties the selection without changing the mode.
func (t *Tracker) Clear() {
	t.update(func() bool {
		if t.set.IsEmpty() {
			return false
		}
		t.set.Clear()

		return true
	})
}

// IsSelected reports whether id is selected.
func (t *Tracker) IsSelected(id int64) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.set.Contains(uint64(id)) //nolint:gosec // ids are stored bit for bit
}

// Len returns the number of selected rows.
func (t *Tracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return int(t.set.GetCardinality()) //nolint:gosec // bounded by the number of rows
}

// Selected returns the selected ids in ascending order.
func (t *Tracker) Selected() []int64 {
	t.mu.RLock()
	raw := t.set.ToArray()
	t.mu.RUnlock()

	ids := make([]int64, len(raw))
	for i, v := range raw {
		ids[i] = int64(v) //nolint:gosec // ids are stored bit for bit
	}
	slices.Sort(ids)

	return ids
}

// Watch registers fn for selection changes and returns a function that removes it.
func (t *Tracker) Watch(fn func(types.Change)) func() {
	return t.notifier.Watch(fn)
}

// MarshalBinary encodes the selected ids so the host can persist them.
func (t *Tracker) MarshalBinary() ([]byte, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	data, err := t.set.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("failed to encode selection: %w", err)
	}

	return data, nil
}

// UnmarshalBinary replaces the selection with previously encoded ids.
// The mode is left unchanged.
func (t *Tracker) UnmarshalBinary(data []byte) error {
	restored := roaring64.New()
	if err := restored.UnmarshalBinary(data); err != nil {
		return fmt.Errorf("failed to decode selection: %w", err)
	}

	t.update(func() bool {
		t.set = restored
		return true
	})

	return nil
}

// update runs fn under the write lock and notifies listeners when fn reports a change.
func (t *Tracker) update(fn func() bool) {
	t.mu.Lock()
	changed := fn()
	if changed {
		t.version++
	}
	version := t.version
	size := int(t.set.GetCardinality()) //nolint:gosec // bounded by the number of rows
	t.mu.Unlock()

	if !changed {
		return
	}

	t.metrics.RecordSelectionSize(size)
	t.notifier.Emit(types.Change{Version: version, Reason: types.ReasonSelection, Partition: -1})
}
