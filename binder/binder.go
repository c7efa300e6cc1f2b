// Package binder turns rows into presentation-neutral row views.
//
// Each row kind has one binder function. Capability flags decide which
// optional decorations (photo, checkbox, quick action) a view carries.
package binder

import (
	"github.com/arloliu/rowlist/types"
)

// Context carries per-position inputs of a binder.
type Context struct {
	Capabilities    types.Capabilities
	Placement       types.Placement
	SelectionActive bool
	Selected        bool
}

// Func binds one row.
type Func func(row types.Row, ctx Context) types.RowView

// Registry selects a binder by row kind.
type Registry struct {
	funcs [types.KindCount]Func
}

// NewRegistry returns a registry with the default binder of every kind.
func NewRegistry() *Registry {
	return &Registry{
		funcs: [types.KindCount]Func{
			types.KindContact: Contact,
			types.KindPhone:   Phone,
			types.KindEmail:   Email,
			types.KindPostal:  Postal,
		},
	}
}

// Register replaces the binder of kind. Invalid kinds and nil functions are ignored.
func (r *Registry) Register(kind types.Kind, fn Func) {
	if !kind.Valid() || fn == nil {
		return
	}
	r.funcs[kind] = fn
}

// Clone returns an independent copy of the registry.
func (r *Registry) Clone() *Registry {
	cp := *r
	return &cp
}

// Bind binds row with the binder of its kind. Rows of unknown kind use Contact.
func (r *Registry) Bind(row types.Row, ctx Context) types.RowView {
	if !row.Kind.Valid() {
		return Contact(row, ctx)
	}

	return r.funcs[row.Kind](row, ctx)
}

// base fills the fields shared by every kind.
func base(row types.Row, ctx Context) types.RowView {
	v := types.RowView{
		ID:          row.ID,
		Kind:        row.Kind,
		Slot:        types.SlotRow,
		Title:       row.DisplayName,
		Starred:     row.Starred,
		ShowDivider: !ctx.Placement.LastInSection,
		Enabled:     true,
	}
	if ctx.Placement.FirstInSection {
		v.SectionHeader = ctx.Placement.SectionHeader
	}
	if ctx.Capabilities.Checkboxes && ctx.SelectionActive && row.Selectable() {
		v.ShowCheckbox = true
		v.Checked = ctx.Selected
	}
	v.QuickAction = ctx.Capabilities.QuickAction && !ctx.SelectionActive

	return v
}

func labeled(label, value string) string {
	if label == "" {
		return value
	}
	if value == "" {
		return label
	}

	return label + ": " + value
}

// Contact binds KindContact rows.
func Contact(row types.Row, ctx Context) types.RowView {
	v := base(row, ctx)
	if data, ok := row.Payload.(types.ContactData); ok {
		v.Subtitle = data.Status
		if ctx.Capabilities.Photos {
			v.PhotoURI = data.PhotoURI
		}
	}

	return v
}

// Phone binds KindPhone rows.
func Phone(row types.Row, ctx Context) types.RowView {
	v := base(row, ctx)
	if data, ok := row.Payload.(types.PhoneData); ok {
		v.Subtitle = labeled(data.Label, data.Number)
		if ctx.Capabilities.Photos {
			v.PhotoURI = data.PhotoURI
		}
	}

	return v
}

// Email binds KindEmail rows.
func Email(row types.Row, ctx Context) types.RowView {
	v := base(row, ctx)
	if data, ok := row.Payload.(types.EmailData); ok {
		v.Subtitle = labeled(data.Label, data.Address)
		if ctx.Capabilities.Photos {
			v.PhotoURI = data.PhotoURI
		}
	}

	return v
}

// Postal binds KindPostal rows. Postal rows never show photos.
func Postal(row types.Row, ctx Context) types.RowView {
	v := base(row, ctx)
	if data, ok := row.Payload.(types.PostalData); ok {
		v.Subtitle = labeled(data.Label, data.Formatted)
	}

	return v
}
