package position

import (
	"fmt"
	"sort"

	"github.com/arloliu/rowlist/types"
)

// Partition is the per-partition input of Build.
type Partition struct {
	HasHeader   bool
	ShowIfEmpty bool

	// StaticRows > 0 makes the partition a static partition.
	StaticRows          int
	CollapseIfNextEmpty bool

	Hidden  bool
	Loading bool

	// Loaded is false when no snapshot is present (never loaded or cleared).
	Loaded bool
	Rows   int
}

func (p Partition) static() bool {
	return p.StaticRows > 0
}

// span is the resolved layout of one partition.
type span struct {
	start       int
	header      bool
	rows        int
	placeholder bool
	static      bool
	size        int
}

// Table maps flat positions to partitions and back.
type Table struct {
	spans []span
	// ends[i] is the exclusive end position of partition i.
	ends  []int
	count int
}

// Build resolves the display layout of parts.
//
// Parameters:
//   - parts: Partitions in fixed display order
//
// Returns:
//   - *Table: Immutable translation table
func Build(parts []Partition) *Table {
	t := &Table{
		spans: make([]span, len(parts)),
		ends:  make([]int, len(parts)),
	}

	pos := 0
	for i, p := range parts {
		s := resolve(parts, i)
		s.start = pos
		pos += s.size
		t.spans[i] = s
		t.ends[i] = pos
	}
	t.count = pos

	return t
}

func resolve(parts []Partition, i int) span {
	p := parts[i]
	if p.Hidden {
		return span{static: p.static()}
	}

	if p.static() {
		if p.CollapseIfNextEmpty && nextIsEmpty(parts, i) {
			return span{static: true}
		}

		return span{static: true, rows: p.StaticRows, size: p.StaticRows}
	}

	var s span
	switch {
	case p.Rows > 0:
		s.rows = p.Rows
		s.header = p.HasHeader
	case p.Loaded && !p.Loading:
		s.header = p.HasHeader && p.ShowIfEmpty
		s.placeholder = p.ShowIfEmpty
	default:
		// absent or still loading without rows: never show empty-state rows
		s.header = p.HasHeader && p.ShowIfEmpty
	}

	s.size = s.rows
	if s.header {
		s.size++
	}
	if s.placeholder {
		s.size++
	}

	return s
}

// nextIsEmpty reports whether the first visible sourced partition after i has no rows.
func nextIsEmpty(parts []Partition, i int) bool {
	for _, q := range parts[i+1:] {
		if q.Hidden || q.static() {
			continue
		}

		return q.Rows == 0
	}

	return true
}

// Count returns the total number of flat positions.
func (t *Table) Count() int {
	return t.count
}

// Partitions returns the number of partitions.
func (t *Table) Partitions() int {
	return len(t.spans)
}

// Locate translates pos into partition coordinates.
//
// It panics with an error wrapping types.ErrPositionOutOfRange when pos is not
// in [0, Count()).
//
// Parameters:
//   - pos: Flat list position
//
// Returns:
//   - types.Location: Partition, local offset and slot kind
func (t *Table) Locate(pos int) types.Location {
	if pos < 0 || pos >= t.count {
		panic(fmt.Errorf("locate %d in list of %d: %w", pos, t.count, types.ErrPositionOutOfRange))
	}

	// first partition whose end lies beyond pos; empty partitions are skipped naturally
	i := sort.Search(len(t.ends), func(i int) bool { return t.ends[i] > pos })
	s := t.spans[i]
	off := pos - s.start

	if s.header {
		if off == 0 {
			return types.Location{Partition: i, Offset: types.HeaderOffset, Slot: types.SlotHeader}
		}
		off--
	}

	switch {
	case s.static:
		return types.Location{Partition: i, Offset: off, Slot: types.SlotStatic}
	case s.placeholder:
		return types.Location{Partition: i, Offset: off, Slot: types.SlotPlaceholder}
	default:
		return types.Location{Partition: i, Offset: off, Slot: types.SlotRow}
	}
}

// Position translates a location back into a flat position.
//
// It is the inverse of Locate: Position(Locate(p)) == p for every valid p.
// It panics with types.ErrPartitionMismatch for an unknown partition.
func (t *Table) Position(loc types.Location) int {
	s := t.span(loc.Partition)
	if loc.Slot == types.SlotHeader {
		return s.start
	}

	return t.DataStart(loc.Partition) + loc.Offset
}

// PartitionStart returns the first flat position of partition i (its header
// when present).
func (t *Table) PartitionStart(i int) int {
	return t.span(i).start
}

// DataStart returns the first flat position after the header of partition i.
func (t *Table) DataStart(i int) int {
	s := t.span(i)
	if s.header {
		return s.start + 1
	}

	return s.start
}

// Size returns the number of flat positions occupied by partition i.
func (t *Table) Size(i int) int {
	return t.span(i).size
}

// Rows returns the number of data (or static) rows displayed for partition i.
func (t *Table) Rows(i int) int {
	return t.span(i).rows
}

// HasHeader reports whether partition i currently shows a header slot.
func (t *Table) HasHeader(i int) bool {
	return t.span(i).header
}

// HasPlaceholder reports whether partition i currently shows a placeholder row.
func (t *Table) HasPlaceholder(i int) bool {
	return t.span(i).placeholder
}

// AllRows reports whether every position is a data row.
func (t *Table) AllRows() bool {
	for _, s := range t.spans {
		if s.header || s.placeholder || (s.static && s.size > 0) {
			return false
		}
	}

	return true
}

func (t *Table) span(i int) span {
	if i < 0 || i >= len(t.spans) {
		panic(fmt.Errorf("partition %d of %d: %w", i, len(t.spans), types.ErrPartitionMismatch))
	}

	return t.spans[i]
}
