package types

import (
	"context"
	"iter"
	"slices"
)

// RowSource produces row snapshots for one partition.
//
// Sources are reloadable: every call to LoadRows returns a complete, new
// snapshot. Cancelling an in-flight load is the source's responsibility.
type RowSource interface {
	// LoadRows loads a complete snapshot.
	//
	// Parameters:
	//   - ctx: Context for cancellation
	//
	// Returns:
	//   - *Snapshot: Complete row snapshot (never partially filled)
	//   - error: Load error
	LoadRows(ctx context.Context) (*Snapshot, error)
}

// Snapshot is an immutable, random-access sequence of rows.
//
// A snapshot optionally carries the section metadata reported by its loader:
// parallel slices of section titles and row counts describing consecutive runs
// of rows. A profile row at index 0 is not covered by the counts.
//
// A nil *Snapshot is valid and means "absent" (never loaded or cleared).
type Snapshot struct {
	rows        []Row
	titles      []string
	counts      []int
	fingerprint uint64
}

// NewSnapshot creates a snapshot holding a copy of rows.
//
// Parameters:
//   - rows: Rows in display order
//
// Returns:
//   - *Snapshot: Immutable snapshot without section metadata
func NewSnapshot(rows []Row) *Snapshot {
	return &Snapshot{rows: slices.Clone(rows)}
}

// WithSections returns a copy of the snapshot carrying loader section metadata.
//
// The metadata is stored as given; validation happens when the section index
// is built, so malformed metadata never fails here.
//
// Parameters:
//   - titles: Section titles in display order
//   - counts: Number of rows in each section
//
// Returns:
//   - *Snapshot: New snapshot sharing the same rows
func (s *Snapshot) WithSections(titles []string, counts []int) *Snapshot {
	cp := s.clone()
	cp.titles = slices.Clone(titles)
	cp.counts = slices.Clone(counts)

	return cp
}

// WithFingerprint returns a copy of the snapshot tagged with a content fingerprint.
func (s *Snapshot) WithFingerprint(fp uint64) *Snapshot {
	cp := s.clone()
	cp.fingerprint = fp

	return cp
}

func (s *Snapshot) clone() *Snapshot {
	if s == nil {
		return &Snapshot{}
	}
	cp := *s

	return &cp
}

// Len returns the number of rows (0 for a nil snapshot).
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}

	return len(s.rows)
}

// At returns the row at index i. It panics when i is out of range.
func (s *Snapshot) At(i int) Row {
	return s.rows[i]
}

// All iterates over the rows in order.
func (s *Snapshot) All() iter.Seq2[int, Row] {
	return func(yield func(int, Row) bool) {
		if s == nil {
			return
		}
		for i, r := range s.rows {
			if !yield(i, r) {
				return
			}
		}
	}
}

// Rows returns a copy of all rows.
func (s *Snapshot) Rows() []Row {
	if s == nil {
		return nil
	}

	return slices.Clone(s.rows)
}

// HasSections reports whether the loader supplied section metadata.
func (s *Snapshot) HasSections() bool {
	return s != nil && (s.titles != nil || s.counts != nil)
}

// Sections returns copies of the loader's section titles and counts.
func (s *Snapshot) Sections() ([]string, []int) {
	if s == nil {
		return nil, nil
	}

	return slices.Clone(s.titles), slices.Clone(s.counts)
}

// HasProfile reports whether the first row is the profile row.
func (s *Snapshot) HasProfile() bool {
	return s.Len() > 0 && s.rows[0].Profile
}

// Fingerprint returns the content fingerprint (0 when unknown).
func (s *Snapshot) Fingerprint() uint64 {
	if s == nil {
		return 0
	}

	return s.fingerprint
}
