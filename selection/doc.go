// Package selection tracks the multi-select overlay of a list.
//
// Selection is keyed by row identity, never by position, so it survives
// reloads, resorting and filtering. Rows that are not selectable (the profile
// row) can never be toggled.
//
// Example:
//
//	tr := selection.New()
//	tr.SetActive(true)
//	tr.Toggle(row)
//	if tr.IsSelected(row.ID) { ... }
package selection
