package types

// HeaderOffset is the local offset reported for a partition header slot.
const HeaderOffset = -1

// IgnoreViewType is the view type of rows whose views must never be recycled.
// Composite adapters pass it through unchanged.
const IgnoreViewType = -1

// PartitionConfig describes one partition of a list.
//
// A partition is either backed by a RowSource (StaticRows == 0) or contributes
// a fixed number of synthetic rows (StaticRows > 0), such as a divider or a
// footer. The order of partitions is fixed when the adapter is constructed.
type PartitionConfig struct {
	// Name identifies the partition (e.g., "starred", "contacts").
	Name string `yaml:"name"`

	// Title is the label of the partition header row.
	Title string `yaml:"title"`

	// HasHeader reserves one header slot before the partition's rows.
	HasHeader bool `yaml:"hasHeader"`

	// ShowIfEmpty keeps the header and adds one placeholder row when a loaded
	// partition has no rows.
	ShowIfEmpty bool `yaml:"showIfEmpty"`

	// StaticRows is the number of synthetic rows of a static partition.
	StaticRows int `yaml:"staticRows"`

	// CollapseIfNextEmpty hides a static partition when the next visible
	// sourced partition has no rows (collapsed divider).
	CollapseIfNextEmpty bool `yaml:"collapseIfNextEmpty"`

	// Hidden starts the partition hidden. Hidden partitions contribute no rows.
	Hidden bool `yaml:"hidden"`
}

// IsStatic reports whether the partition holds synthetic rows only.
func (p PartitionConfig) IsStatic() bool {
	return p.StaticRows > 0
}

// Slot classifies a flat list position.
type Slot int

const (
	// SlotHeader is a partition header row.
	SlotHeader Slot = iota

	// SlotRow is a data row backed by a snapshot row.
	SlotRow

	// SlotPlaceholder is the empty-state row of a loaded, empty partition.
	SlotPlaceholder

	// SlotStatic is a synthetic row of a static partition or an injected row.
	SlotStatic
)

// String returns the string representation of the slot.
func (s Slot) String() string {
	switch s {
	case SlotHeader:
		return "header"
	case SlotRow:
		return "row"
	case SlotPlaceholder:
		return "placeholder"
	case SlotStatic:
		return "static"
	default:
		return "unknown"
	}
}

// Location is the result of translating a flat position.
//
// For SlotHeader the Offset is HeaderOffset. For all other slots the Offset is
// relative to the first non-header slot of the partition.
type Location struct {
	Partition int
	Offset    int
	Slot      Slot
}

// Placement describes where a row sits inside its section.
type Placement struct {
	// FirstInSection is true for the first row of a section.
	FirstInSection bool

	// LastInSection is true for the last row of a section.
	LastInSection bool

	// SectionHeader is the section label, set only on the first row.
	SectionHeader string
}

// Capabilities toggle optional row decorations.
type Capabilities struct {
	Photos      bool `yaml:"photos"`
	Checkboxes  bool `yaml:"checkboxes"`
	QuickAction bool `yaml:"quickAction"`
}
