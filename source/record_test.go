package source

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/rowlist/types"
)

func TestRecord_Validate(t *testing.T) {
	tests := []struct {
		name    string
		rec     Record
		wantErr bool
	}{
		{"contact", Record{ID: 1, Name: "Alice"}, false},
		{"profile without name", Record{ID: 2, Profile: true}, false},
		{"negative id", Record{ID: -1, Name: "Alice"}, true},
		{"missing name", Record{ID: 3}, true},
		{"unknown kind", Record{ID: 4, Name: "Fax", Kind: types.Kind(9)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rec.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, types.ErrInvalidRecord)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestRecord_Row(t *testing.T) {
	tests := []struct {
		name    string
		rec     Record
		payload any
	}{
		{
			name:    "contact",
			rec:     Record{ID: 1, Name: "Alice", LookupKey: "0r1", PhotoURI: "photo://1", Status: "away"},
			payload: types.ContactData{LookupKey: "0r1", PhotoURI: "photo://1", Status: "away"},
		},
		{
			name:    "phone",
			rec:     Record{ID: 2, Name: "Bob", Kind: types.KindPhone, Value: "+1 555 0100", Label: "mobile"},
			payload: types.PhoneData{Number: "+1 555 0100", Label: "mobile"},
		},
		{
			name:    "email",
			rec:     Record{ID: 3, Name: "Carl", Kind: types.KindEmail, Value: "carl@example.com", Label: "work"},
			payload: types.EmailData{Address: "carl@example.com", Label: "work"},
		},
		{
			name:    "postal",
			rec:     Record{ID: 4, Name: "Dana", Kind: types.KindPostal, Value: "1 Main St", Label: "home"},
			payload: types.PostalData{Formatted: "1 Main St", Label: "home"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := tt.rec.Row()
			require.Equal(t, tt.rec.ID, row.ID)
			require.Equal(t, tt.rec.Name, row.DisplayName)
			require.Equal(t, tt.rec.Kind, row.Kind)
			require.Equal(t, tt.payload, row.Payload)
			require.Empty(t, row.SectionKey)

			require.Equal(t, tt.rec, RecordFromRow(row))
		})
	}
}

func TestDecodeRecord(t *testing.T) {
	rec, err := DecodeRecord([]byte(`{"id":7,"name":"Eve","kind":"email","value":"eve@example.com","starred":true}`))
	require.NoError(t, err)
	require.Equal(t, Record{ID: 7, Name: "Eve", Kind: types.KindEmail, Value: "eve@example.com", Starred: true}, rec)

	_, err = DecodeRecord([]byte(`{"id":8,"name":"Fax","kind":"fax"}`))
	require.ErrorIs(t, err, types.ErrInvalidRecord)

	_, err = DecodeRecord([]byte(`{"id":9}`))
	require.ErrorIs(t, err, types.ErrInvalidRecord)

	_, err = DecodeRecord([]byte(`not json`))
	require.ErrorIs(t, err, types.ErrInvalidRecord)
}

func TestRows(t *testing.T) {
	rows, errs := Rows([]Record{
		{ID: 1, Name: "Alice"},
		{ID: 2},
		{ID: 3, Name: "Carl", Starred: true},
	})

	require.Len(t, rows, 2)
	require.Equal(t, int64(3), rows[1].ID)
	require.True(t, rows[1].Starred)
	require.Len(t, errs, 1)
	require.ErrorIs(t, errs[0], types.ErrInvalidRecord)
}
