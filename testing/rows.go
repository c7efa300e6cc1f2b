package testing

import "github.com/arloliu/rowlist/types"

// Contact returns a selectable contact row.
func Contact(id int64, name string) types.Row {
	return types.Row{
		ID:          id,
		DisplayName: name,
		Kind:        types.KindContact,
		Payload:     types.ContactData{LookupKey: name},
	}
}

// Profile returns the profile row of the device owner.
func Profile(id int64, name string) types.Row {
	row := Contact(id, name)
	row.Profile = true

	return row
}

// Contacts returns contact rows named names, with ids counting up from first.
// SectionKey is left empty.
func Contacts(first int64, names ...string) []types.Row {
	rows := make([]types.Row, len(names))
	for i, name := range names {
		rows[i] = Contact(first+int64(i), name)
	}

	return rows
}
