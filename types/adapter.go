package types

// Item is the value exposed for one flat list position.
type Item struct {
	Location Location

	// Row is set for SlotRow items.
	Row Row

	// Title is the header title, or the label of a static row.
	Title string
}

// RowView is the presentation-neutral result of binding one position.
type RowView struct {
	ID   int64
	Kind Kind
	Slot Slot

	Title    string
	Subtitle string

	// PhotoURI is set only when photos are enabled.
	PhotoURI string

	Starred bool

	// SectionHeader is the label shown above the first row of a section.
	SectionHeader string

	// ShowDivider is false for the last row of a section.
	ShowDivider bool

	ShowCheckbox bool
	Checked      bool
	QuickAction  bool
	Enabled      bool
}

// ListAdapter is the read side of a flat, addressable list.
//
// Implementations panic on out-of-range positions.
type ListAdapter interface {
	// Count returns the number of flat positions.
	Count() int

	// ViewTypeCount returns the number of distinct view types.
	ViewTypeCount() int

	// ViewType returns the view type of pos, or IgnoreViewType.
	ViewType(pos int) int

	// Item returns the item at pos.
	Item(pos int) Item

	// ItemID returns the stable id at pos, or NoID for synthetic rows.
	ItemID(pos int) int64

	// IsEnabled reports whether pos reacts to item clicks.
	IsEnabled(pos int) bool

	// IsLoading reports whether the backing data is being (re)loaded.
	IsLoading() bool
}

// SectionedAdapter is a ListAdapter with a section index.
type SectionedAdapter interface {
	ListAdapter

	// Sections returns the ordered section labels.
	Sections() []string

	// PositionForSection returns the flat start position of section i, -1 when unavailable.
	PositionForSection(i int) int

	// SectionForPosition returns the section index containing pos, -1 when none.
	SectionForPosition(pos int) int
}

// Viewer binds positions to row views.
type Viewer interface {
	View(pos int) RowView
}

// Watchable publishes change notifications.
type Watchable interface {
	// Watch registers fn and returns a function that removes it.
	Watch(fn func(Change)) (cancel func())
}
