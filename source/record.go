package source

import (
	"encoding/json"
	"fmt"

	"github.com/arloliu/rowlist/types"
)

// Record is the stored form of one contact row, used by the file and KV
// sources.
//
// Value holds the datum of non-contact kinds: the phone number, the email
// address or the formatted postal address.
type Record struct {
	ID        int64      `json:"id" yaml:"id"`
	Name      string     `json:"name" yaml:"name"`
	Kind      types.Kind `json:"kind,omitempty" yaml:"kind,omitempty"`
	Starred   bool       `json:"starred,omitempty" yaml:"starred,omitempty"`
	Profile   bool       `json:"profile,omitempty" yaml:"profile,omitempty"`
	LookupKey string     `json:"lookupKey,omitempty" yaml:"lookupKey,omitempty"`
	PhotoURI  string     `json:"photo,omitempty" yaml:"photo,omitempty"`
	Status    string     `json:"status,omitempty" yaml:"status,omitempty"`
	Value     string     `json:"value,omitempty" yaml:"value,omitempty"`
	Label     string     `json:"label,omitempty" yaml:"label,omitempty"`
}

// Validate checks that the record can become a row.
//
// Returns:
//   - error: Error wrapping types.ErrInvalidRecord
func (r Record) Validate() error {
	if r.ID < 0 {
		return fmt.Errorf("%w: negative id %d", types.ErrInvalidRecord, r.ID)
	}
	if r.Name == "" && !r.Profile {
		return fmt.Errorf("%w: record %d has no name", types.ErrInvalidRecord, r.ID)
	}
	if !r.Kind.Valid() {
		return fmt.Errorf("%w: record %d: %w", types.ErrInvalidRecord, r.ID, types.ErrUnknownKind)
	}

	return nil
}

// Row converts the record into a row with the payload of its kind.
func (r Record) Row() types.Row {
	row := types.Row{
		ID:          r.ID,
		DisplayName: r.Name,
		Starred:     r.Starred,
		Profile:     r.Profile,
		Kind:        r.Kind,
	}

	switch r.Kind {
	case types.KindPhone:
		row.Payload = types.PhoneData{Number: r.Value, Label: r.Label, PhotoURI: r.PhotoURI}
	case types.KindEmail:
		row.Payload = types.EmailData{Address: r.Value, Label: r.Label, PhotoURI: r.PhotoURI}
	case types.KindPostal:
		row.Payload = types.PostalData{Formatted: r.Value, Label: r.Label}
	default:
		row.Payload = types.ContactData{LookupKey: r.LookupKey, PhotoURI: r.PhotoURI, Status: r.Status}
	}

	return row
}

// RecordFromRow converts a row back into its stored form. Unknown payload
// types keep only the row fields.
func RecordFromRow(row types.Row) Record {
	rec := Record{
		ID:      row.ID,
		Name:    row.DisplayName,
		Kind:    row.Kind,
		Starred: row.Starred,
		Profile: row.Profile,
	}

	switch data := row.Payload.(type) {
	case types.ContactData:
		rec.LookupKey, rec.PhotoURI, rec.Status = data.LookupKey, data.PhotoURI, data.Status
	case types.PhoneData:
		rec.Value, rec.Label, rec.PhotoURI = data.Number, data.Label, data.PhotoURI
	case types.EmailData:
		rec.Value, rec.Label, rec.PhotoURI = data.Address, data.Label, data.PhotoURI
	case types.PostalData:
		rec.Value, rec.Label = data.Formatted, data.Label
	}

	return rec
}

// DecodeRecord decodes and validates a JSON record.
//
// Returns:
//   - Record: Decoded record
//   - error: Error wrapping types.ErrInvalidRecord
func DecodeRecord(data []byte) (Record, error) {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("%w: %w", types.ErrInvalidRecord, err)
	}
	if err := rec.Validate(); err != nil {
		return Record{}, err
	}

	return rec, nil
}

// Rows converts records into rows, skipping invalid ones.
//
// Returns:
//   - []types.Row: Rows of the valid records
//   - []error: One error per skipped record
func Rows(records []Record) ([]types.Row, []error) {
	rows := make([]types.Row, 0, len(records))
	var errs []error
	for _, rec := range records {
		if err := rec.Validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		rows = append(rows, rec.Row())
	}

	return rows, errs
}
