package types

// Visibility is the state of the pinned section header.
type Visibility int

const (
	// Gone hides the pinned header.
	Gone Visibility = iota

	// Visible shows the pinned header fully.
	Visible

	// PushedUp shows the pinned header while the next section pushes it off-screen.
	PushedUp
)

// String returns the string representation of the visibility.
func (v Visibility) String() string {
	switch v {
	case Gone:
		return "GONE"
	case Visible:
		return "VISIBLE"
	case PushedUp:
		return "PUSHED_UP"
	default:
		return "UNKNOWN"
	}
}

// MaxAlpha is the fully opaque fade alpha.
const MaxAlpha = 255

// PinnedHeaderState is the derived state of the floating section header.
//
// It has no lifecycle of its own and is recomputed on every query.
type PinnedHeaderState struct {
	Visibility Visibility

	// Label is the section label to display.
	Label string

	// Section is the index of the section, -1 when Gone.
	Section int

	// Alpha is the fade alpha in [0, 255].
	Alpha int

	// Offset is the vertical translation of the header (<= 0 while pushed up).
	Offset int
}

// HeaderGeometry carries the measured heights needed for a height-aware fade.
type HeaderGeometry struct {
	// HeaderHeight is the height of the pinned header view.
	HeaderHeight int

	// TopRowBottom is the distance from the list top to the bottom edge of
	// the top visible row.
	TopRowBottom int
}
