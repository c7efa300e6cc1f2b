// Package pinned computes the state of the floating section header.
package pinned

import "github.com/arloliu/rowlist/types"

// Index is the part of a section index the pinned header needs.
type Index interface {
	Available() bool
	Len() int
	Rows() int
	Sections() []string
	PositionForSection(i int) int
	SectionForPosition(pos int) int
}

// Compute derives the pinned header state for the row at top.
//
// top is a row offset inside the indexed rows. The header is pushed up when
// the next section starts right after top. With geometry, the fade follows the
// bottom edge of the top row:
//
//	alpha  = 255 * bottom / headerHeight   (bottom < headerHeight)
//	offset = bottom - headerHeight
//
// Without geometry a pushed up header stays fully opaque.
//
// Parameters:
//   - idx: Section index of the indexed partition
//   - top: Row offset of the top visible row
//   - geom: Optional measured geometry (nil for none)
//
// Returns:
//   - types.PinnedHeaderState: Derived state
func Compute(idx Index, top int, geom *types.HeaderGeometry) types.PinnedHeaderState {
	gone := types.PinnedHeaderState{Visibility: types.Gone, Section: -1}
	if idx == nil || !idx.Available() || idx.Len() == 0 || idx.Rows() == 0 {
		return gone
	}

	sec := idx.SectionForPosition(top)
	if sec < 0 {
		return gone
	}

	state := types.PinnedHeaderState{
		Visibility: types.Visible,
		Label:      idx.Sections()[sec],
		Section:    sec,
		Alpha:      types.MaxAlpha,
	}

	if next := idx.PositionForSection(sec + 1); next >= 0 && next == top+1 {
		state.Visibility = types.PushedUp
		state.Alpha, state.Offset = fade(geom)
	}

	return state
}

func fade(geom *types.HeaderGeometry) (alpha, offset int) {
	if geom == nil || geom.HeaderHeight <= 0 {
		return types.MaxAlpha, 0
	}

	bottom := geom.TopRowBottom
	if bottom >= geom.HeaderHeight {
		return types.MaxAlpha, 0
	}

	alpha = types.MaxAlpha * bottom / geom.HeaderHeight

	return min(max(alpha, 0), types.MaxAlpha), bottom - geom.HeaderHeight
}
