package section

import (
	"fmt"
	"slices"
	"sort"

	"github.com/bits-and-blooms/bitset"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/arloliu/rowlist/types"
)

// BlankLabel is the label of the placeholder section used when no index is available.
const BlankLabel = " "

// Meta is the loader side input of an index.
type Meta struct {
	// Titles and Counts describe consecutive runs of rows.
	Titles []string
	Counts []int

	// Rows is the total number of rows in the snapshot, profile row included.
	Rows int

	// Leading is the number of unindexed rows between the profile row and the
	// first data section.
	Leading int

	// Profile marks row 0 as the profile row.
	Profile bool
}

// Options controls how loader sections are merged.
type Options struct {
	// Alphabet is the canonical label list, in collation order.
	Alphabet []string

	// Collator compares labels. A loose root collator is used when nil.
	// Collators are not safe for concurrent use; Build uses it only for the
	// duration of the call.
	Collator *collate.Collator

	// ProfileLabel labels the section of the profile row.
	ProfileLabel string
}

// Section is one entry of an index.
type Section struct {
	Label string
	Start int
	Count int

	// Placeholder marks a canonical bucket without rows.
	Placeholder bool
}

// Index is an immutable section index.
type Index struct {
	labels       []string
	starts       []int
	counts       []int
	placeholders *bitset.BitSet
	rows         int
	available    bool
}

// Blank returns the single blank placeholder index used when no section data
// is available.
//
// Parameters:
//   - rows: Number of rows covered by the index
//
// Returns:
//   - *Index: Index with one blank section starting at 0
func Blank(rows int) *Index {
	return &Index{
		labels:       []string{BlankLabel},
		starts:       []int{0},
		counts:       []int{rows},
		placeholders: bitset.New(1).Set(0),
		rows:         rows,
	}
}

type entry struct {
	label       string
	start       int
	count       int
	placeholder bool
}

// Build validates loader metadata and merges it with the canonical alphabet.
//
// Canonical labels missing from the data are inserted before the first data
// section that ranks after them. A data section ranks as the canonical label it
// collates equal to; sections outside the alphabet, such as the overflow
// bucket, rank after every canonical label. The start of an inserted label is
// the end of the preceding entry, so an empty bucket navigates to where the next real data
// begins. Adjacent data sections that collate equal are merged; ties keep
// their encounter order.
//
// Parameters:
//   - meta: Loader section metadata
//   - opts: Alphabet, collator and profile label
//
// Returns:
//   - *Index: Merged index
//   - error: ErrMissingSections or ErrMalformedSections; callers fall back to Blank
func Build(meta Meta, opts Options) (*Index, error) {
	if err := validate(meta); err != nil {
		return nil, err
	}

	col := opts.Collator
	if col == nil {
		col = collate.New(language.Und, collate.Loose)
	}

	shift := 0
	if meta.Profile {
		shift = 1
	}

	data := make([]entry, 0, len(meta.Titles))
	pos := shift + meta.Leading
	for i, title := range meta.Titles {
		n := meta.Counts[i]
		if n == 0 {
			continue
		}
		if last := len(data) - 1; last >= 0 && col.CompareString(data[last].label, title) == 0 {
			data[last].count += n
		} else {
			data = append(data, entry{label: title, start: pos, count: n})
		}
		pos += n
	}

	merged := mergeAlphabet(data, opts.Alphabet, col, shift)

	if meta.Profile {
		merged = slices.Insert(merged, 0, entry{label: opts.ProfileLabel, start: 0, count: 1})
	}

	idx := &Index{
		labels:       make([]string, len(merged)),
		starts:       make([]int, len(merged)),
		counts:       make([]int, len(merged)),
		placeholders: bitset.New(uint(len(merged))),
		rows:         meta.Rows,
		available:    true,
	}
	for i, e := range merged {
		idx.labels[i] = e.label
		idx.starts[i] = e.start
		idx.counts[i] = e.count
		if e.placeholder {
			idx.placeholders.Set(uint(i))
		}
	}

	return idx, nil
}

func validate(meta Meta) error {
	if meta.Titles == nil && meta.Counts == nil {
		return ErrMissing
	}
	if len(meta.Titles) != len(meta.Counts) {
		return fmt.Errorf("%d titles for %d counts: %w", len(meta.Titles), len(meta.Counts), types.ErrMalformedSections)
	}
	if meta.Leading < 0 {
		return fmt.Errorf("negative leading row count %d: %w", meta.Leading, types.ErrMalformedSections)
	}

	total := meta.Leading
	if meta.Profile {
		total++
	}
	for i, n := range meta.Counts {
		if n < 0 {
			return fmt.Errorf("section %q has negative count %d: %w", meta.Titles[i], n, types.ErrMalformedSections)
		}
		total += n
	}
	if total > meta.Rows {
		return fmt.Errorf("sections cover %d rows of %d: %w", total, meta.Rows, types.ErrMalformedSections)
	}

	return nil
}

// ErrMissing is returned by Build for snapshots without section metadata.
var ErrMissing = fmt.Errorf("no titles or counts: %w", types.ErrMissingSections)

// rankOf returns the alphabet index of the first label collating equal to
// label, or len(alphabet) when there is none.
func rankOf(label string, alphabet []string, col *collate.Collator) int {
	for i, l := range alphabet {
		if col.CompareString(l, label) == 0 {
			return i
		}
	}

	return len(alphabet)
}

func mergeAlphabet(data []entry, alphabet []string, col *collate.Collator, first int) []entry {
	ranks := make([]int, len(data))
	for i, e := range data {
		ranks[i] = rankOf(e.label, alphabet, col)
	}

	out := make([]entry, 0, len(data)+len(alphabet))
	d := 0
	for i, label := range alphabet {
		if slices.Contains(ranks, i) {
			continue
		}
		// flush data sections that rank at or before this label
		for d < len(data) && ranks[d] <= i {
			out = append(out, data[d])
			d++
		}

		start := first
		if n := len(out); n > 0 {
			start = out[n-1].start + out[n-1].count
		}
		out = append(out, entry{label: label, start: start, placeholder: true})
	}

	return append(out, data[d:]...)
}

// Available reports whether the index was built from real section data.
func (x *Index) Available() bool {
	return x.available
}

// Len returns the number of sections.
func (x *Index) Len() int {
	return len(x.labels)
}

// Rows returns the number of rows covered by the index.
func (x *Index) Rows() int {
	return x.rows
}

// Sections returns the ordered section labels.
func (x *Index) Sections() []string {
	return slices.Clone(x.labels)
}

// Section returns section i. It panics when i is out of range.
func (x *Index) Section(i int) Section {
	return Section{
		Label:       x.labels[i],
		Start:       x.starts[i],
		Count:       x.counts[i],
		Placeholder: x.placeholders.Test(uint(i)),
	}
}

// IsPlaceholder reports whether section i is a canonical bucket without rows.
func (x *Index) IsPlaceholder(i int) bool {
	if i < 0 || i >= len(x.labels) {
		return false
	}

	return x.placeholders.Test(uint(i))
}

// PositionForSection returns the start row of section i, or -1 when i is out of range.
func (x *Index) PositionForSection(i int) int {
	if i < 0 || i >= len(x.starts) {
		return -1
	}

	return x.starts[i]
}

// SectionForPosition returns the largest section index whose start is <= pos,
// or -1 when pos is outside the indexed rows.
func (x *Index) SectionForPosition(pos int) int {
	if pos < 0 || pos >= x.rows {
		return -1
	}

	return sort.Search(len(x.starts), func(i int) bool { return x.starts[i] > pos }) - 1
}

// Placement returns the position of row pos within its section.
func (x *Index) Placement(pos int) types.Placement {
	sec := x.SectionForPosition(pos)
	if sec < 0 || !x.available {
		return types.Placement{}
	}

	p := types.Placement{
		FirstInSection: x.starts[sec] == pos,
		LastInSection:  x.starts[sec]+x.counts[sec]-1 == pos,
	}
	if p.FirstInSection {
		p.SectionHeader = x.labels[sec]
	}

	return p
}

// FromKeys derives loader section metadata from consecutive runs of row
// section keys. A leading profile row is not counted.
//
// Returns:
//   - []string: Section titles
//   - []int: Row counts per title
//   - error: ErrMissingSections when any indexed row has no section key
func FromKeys(rows *types.Snapshot) ([]string, []int, error) {
	var titles []string
	var counts []int

	for i, r := range rows.All() {
		if i == 0 && r.Profile {
			continue
		}
		if r.SectionKey == "" {
			return nil, nil, fmt.Errorf("row %d (id %d) has no section key: %w", i, r.ID, types.ErrMissingSections)
		}
		if n := len(titles); n > 0 && titles[n-1] == r.SectionKey {
			counts[n-1]++

			continue
		}
		titles = append(titles, r.SectionKey)
		counts = append(counts, 1)
	}

	if titles == nil {
		titles, counts = []string{}, []int{}
	}

	return titles, counts, nil
}
