// Package hash computes content fingerprints of row snapshots.
package hash

import (
	"encoding/binary"

	"github.com/zeebo/xxh3"

	"github.com/arloliu/rowlist/types"
)

// Fingerprint returns a 64-bit xxh3 digest of the identity-relevant content of
// rows and their section metadata.
//
// Two snapshots with the same fingerprint render the same list, so loaders can
// skip redundant deliveries. Payloads are not hashed; they are opaque.
//
// Parameters:
//   - rows: Rows in display order
//   - titles: Section titles (may be nil)
//   - counts: Section counts (may be nil)
//
// Returns:
//   - uint64: Content fingerprint
func Fingerprint(rows []types.Row, titles []string, counts []int) uint64 {
	h := xxh3.New()
	var buf [8]byte

	writeInt := func(v int64) {
		binary.LittleEndian.PutUint64(buf[:], uint64(v)) //nolint:gosec // bit pattern only
		_, _ = h.Write(buf[:])
	}
	writeString := func(s string) {
		writeInt(int64(len(s)))
		_, _ = h.WriteString(s)
	}

	writeInt(int64(len(rows)))
	for _, r := range rows {
		writeInt(r.ID)
		writeString(r.SectionKey)
		writeString(r.DisplayName)
		writeInt(int64(r.Kind))

		var flags int64
		if r.Starred {
			flags |= 1
		}
		if r.Profile {
			flags |= 2
		}
		writeInt(flags)
	}

	writeInt(int64(len(titles)))
	for _, title := range titles {
		writeString(title)
	}
	writeInt(int64(len(counts)))
	for _, c := range counts {
		writeInt(int64(c))
	}

	return h.Sum64()
}

// Snapshot returns the fingerprint of s, computing it when s carries none.
func Snapshot(s *types.Snapshot) uint64 {
	if s == nil {
		return 0
	}
	if fp := s.Fingerprint(); fp != 0 {
		return fp
	}
	titles, counts := s.Sections()

	return Fingerprint(s.Rows(), titles, counts)
}
