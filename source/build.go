package source

import (
	"cmp"
	"slices"

	"github.com/arloliu/rowlist/alphabet"
	"github.com/arloliu/rowlist/internal/hash"
	"github.com/arloliu/rowlist/types"
)

// BuildOptions controls how Build orders and sections rows.
type BuildOptions struct {
	// Alphabet buckets and orders rows. Latin when nil.
	Alphabet *alphabet.Alphabet

	// KeepKeys keeps section keys already set on rows. By default every key is
	// recomputed from the display name.
	KeepKeys bool
}

func (o BuildOptions) alphabet() *alphabet.Alphabet {
	if o.Alphabet == nil {
		return alphabet.Latin()
	}

	return o.Alphabet
}

// Build sorts rows into display order and attaches section metadata.
//
// The first profile row is kept at index 0 and is not counted by the sections.
// Other rows are ordered by section rank in the alphabet, then by display name
// under loose collation, then by id. The snapshot carries one section per run
// of equal section keys and an xxh3 content fingerprint.
//
// Parameters:
//   - rows: Rows in any order
//   - opts: Alphabet and key handling
//
// Returns:
//   - *types.Snapshot: Sorted snapshot with sections and fingerprint
//
// Example:
//
//	snap := source.Build(rows, source.BuildOptions{Alphabet: alphabet.Greek()})
//	adapter.OnRowsChanged(0, snap)
func Build(rows []types.Row, opts BuildOptions) *types.Snapshot {
	alpha := opts.alphabet()

	var me *types.Row
	sorted := make([]types.Row, 0, len(rows))
	for _, r := range rows {
		if r.Profile && me == nil {
			me = &r
			continue
		}
		if r.SectionKey == "" || !opts.KeepKeys {
			r.SectionKey = alpha.Bucket(r.DisplayName)
		}
		sorted = append(sorted, r)
	}

	col := alpha.NewCollator()
	slices.SortStableFunc(sorted, func(a, b types.Row) int {
		if c := cmp.Compare(alpha.Rank(a.SectionKey), alpha.Rank(b.SectionKey)); c != 0 {
			return c
		}
		if c := col.CompareString(a.SectionKey, b.SectionKey); c != 0 {
			return c
		}
		if c := col.CompareString(a.DisplayName, b.DisplayName); c != 0 {
			return c
		}

		return cmp.Compare(a.ID, b.ID)
	})

	titles, counts := []string{}, []int{}
	for _, r := range sorted {
		if n := len(titles); n > 0 && titles[n-1] == r.SectionKey {
			counts[n-1]++
			continue
		}
		titles = append(titles, r.SectionKey)
		counts = append(counts, 1)
	}

	out := sorted
	if me != nil {
		out = slices.Insert(sorted, 0, *me)
	}

	return types.NewSnapshot(out).
		WithSections(titles, counts).
		WithFingerprint(hash.Fingerprint(out, titles, counts))
}
