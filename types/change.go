package types

// ChangeReason tells listeners what triggered a change notification.
type ChangeReason int

const (
	// ReasonRows is a new or cleared snapshot in one partition.
	ReasonRows ChangeReason = iota

	// ReasonLoading is a loading flag change.
	ReasonLoading

	// ReasonVisibility is a partition visibility change.
	ReasonVisibility

	// ReasonReplace is a wholesale replacement of all partitions.
	ReasonReplace

	// ReasonSelection is a selection set or selection mode change.
	ReasonSelection

	// ReasonChild is a change forwarded from a child adapter.
	ReasonChild
)

// String returns the string representation of the reason.
func (r ChangeReason) String() string {
	switch r {
	case ReasonRows:
		return "rows"
	case ReasonLoading:
		return "loading"
	case ReasonVisibility:
		return "visibility"
	case ReasonReplace:
		return "replace"
	case ReasonSelection:
		return "selection"
	case ReasonChild:
		return "child"
	default:
		return "unknown"
	}
}

// Change is delivered to listeners after a rebuild completes.
//
// Listeners re-query the adapter lazily; no diff is carried.
type Change struct {
	// Version increases with every published state.
	Version uint64

	Reason ChangeReason

	// Partition is the partition (or child) index involved, -1 when not applicable.
	Partition int
}
