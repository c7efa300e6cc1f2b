package binder

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/rowlist/types"
)

func TestRegistry_Bind(t *testing.T) {
	reg := NewRegistry()
	caps := types.Capabilities{Photos: true, Checkboxes: true, QuickAction: true}

	t.Run("contact with photo and section header", func(t *testing.T) {
		row := types.Row{
			ID:          1,
			DisplayName: "Ann",
			Starred:     true,
			Payload:     types.ContactData{PhotoURI: "photo://1", Status: "busy"},
		}
		v := reg.Bind(row, Context{
			Capabilities: caps,
			Placement:    types.Placement{FirstInSection: true, LastInSection: true, SectionHeader: "A"},
		})

		require.Equal(t, int64(1), v.ID)
		require.Equal(t, "Ann", v.Title)
		require.Equal(t, "busy", v.Subtitle)
		require.Equal(t, "photo://1", v.PhotoURI)
		require.Equal(t, "A", v.SectionHeader)
		require.False(t, v.ShowDivider)
		require.True(t, v.Starred)
		require.True(t, v.QuickAction)
		require.True(t, v.Enabled)
		require.False(t, v.ShowCheckbox)
	})

	t.Run("phone subtitle is labeled", func(t *testing.T) {
		row := types.Row{ID: 2, Kind: types.KindPhone, Payload: types.PhoneData{Number: "555-0100", Label: "Mobile"}}
		v := reg.Bind(row, Context{})
		require.Equal(t, "Mobile: 555-0100", v.Subtitle)
		require.Empty(t, v.PhotoURI)
		require.True(t, v.ShowDivider)
	})

	t.Run("email without label", func(t *testing.T) {
		row := types.Row{ID: 3, Kind: types.KindEmail, Payload: types.EmailData{Address: "a@example.com", PhotoURI: "p"}}
		v := reg.Bind(row, Context{Capabilities: types.Capabilities{Photos: false}})
		require.Equal(t, "a@example.com", v.Subtitle)
		require.Empty(t, v.PhotoURI)
	})

	t.Run("postal never has a photo", func(t *testing.T) {
		row := types.Row{ID: 4, Kind: types.KindPostal, Payload: types.PostalData{Formatted: "1 Main St", Label: "Home"}}
		v := reg.Bind(row, Context{Capabilities: caps})
		require.Equal(t, "Home: 1 Main St", v.Subtitle)
		require.Empty(t, v.PhotoURI)
	})

	t.Run("unknown kind uses contact binder", func(t *testing.T) {
		v := reg.Bind(types.Row{ID: 5, Kind: types.Kind(42), DisplayName: "X"}, Context{})
		require.Equal(t, "X", v.Title)
	})
}

func TestRegistry_Checkboxes(t *testing.T) {
	reg := NewRegistry()
	caps := types.Capabilities{Checkboxes: true, QuickAction: true}

	v := reg.Bind(types.Row{ID: 1}, Context{Capabilities: caps, SelectionActive: true, Selected: true})
	require.True(t, v.ShowCheckbox)
	require.True(t, v.Checked)
	require.False(t, v.QuickAction)

	v = reg.Bind(types.Row{ID: 2, Profile: true}, Context{Capabilities: caps, SelectionActive: true, Selected: true})
	require.False(t, v.ShowCheckbox)
	require.False(t, v.Checked)

	v = reg.Bind(types.Row{ID: 3}, Context{Capabilities: types.Capabilities{}, SelectionActive: true, Selected: true})
	require.False(t, v.ShowCheckbox)
}

func TestRegistry_Register(t *testing.T) {
	reg := NewRegistry()
	custom := func(row types.Row, _ Context) types.RowView {
		return types.RowView{ID: row.ID, Title: "custom"}
	}

	clone := reg.Clone()
	reg.Register(types.KindPhone, custom)
	reg.Register(types.Kind(-1), custom)
	reg.Register(types.KindEmail, nil)

	require.Equal(t, "custom", reg.Bind(types.Row{Kind: types.KindPhone}, Context{}).Title)
	require.Empty(t, clone.Bind(types.Row{Kind: types.KindPhone}, Context{}).Title)
	require.Equal(t, "e", reg.Bind(types.Row{Kind: types.KindEmail, DisplayName: "e"}, Context{}).Title)
}
