package rowlist

import "github.com/arloliu/rowlist/types"

// Re-export types from the types package.
//
// This file provides a stable public API for the library's core types and
// interfaces. It uses type aliases to re-export definitions from the `types`
// subpackage, so internal packages can depend on `types` without depending on
// the root `rowlist` package, while users still write `rowlist.Row`,
// `rowlist.Snapshot`, etc.
type (
	Row               = types.Row
	Kind              = types.Kind
	Snapshot          = types.Snapshot
	PartitionConfig   = types.PartitionConfig
	Capabilities      = types.Capabilities
	Location          = types.Location
	Slot              = types.Slot
	Placement         = types.Placement
	Item              = types.Item
	RowView           = types.RowView
	PinnedHeaderState = types.PinnedHeaderState
	HeaderGeometry    = types.HeaderGeometry
	Visibility        = types.Visibility
	Change            = types.Change
	ChangeReason      = types.ChangeReason

	ContactData = types.ContactData
	PhoneData   = types.PhoneData
	EmailData   = types.EmailData
	PostalData  = types.PostalData
)

// Re-export interfaces from the types package for convenience.
type (
	RowSource        = types.RowSource
	ListAdapter      = types.ListAdapter
	SectionedAdapter = types.SectionedAdapter
	MetricsCollector = types.MetricsCollector
	Logger           = types.Logger
	Hooks            = types.Hooks
)

// Re-export constants from the types package.
const (
	KindContact = types.KindContact
	KindPhone   = types.KindPhone
	KindEmail   = types.KindEmail
	KindPostal  = types.KindPostal

	// KindCount is the number of row kinds.
	KindCount = types.KindCount

	SlotHeader      = types.SlotHeader
	SlotRow         = types.SlotRow
	SlotPlaceholder = types.SlotPlaceholder
	SlotStatic      = types.SlotStatic

	Gone     = types.Gone
	Visible  = types.Visible
	PushedUp = types.PushedUp

	ReasonRows       = types.ReasonRows
	ReasonLoading    = types.ReasonLoading
	ReasonVisibility = types.ReasonVisibility
	ReasonReplace    = types.ReasonReplace
	ReasonSelection  = types.ReasonSelection
	ReasonChild      = types.ReasonChild

	HeaderOffset   = types.HeaderOffset
	IgnoreViewType = types.IgnoreViewType
	NoID           = types.NoID
)

// NewSnapshot creates an immutable snapshot holding a copy of rows.
func NewSnapshot(rows []Row) *Snapshot {
	return types.NewSnapshot(rows)
}
