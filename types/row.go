package types

import (
	"fmt"
	"strings"
)

// NoID is the item id reported for synthetic rows (headers, placeholders, static rows).
const NoID int64 = -1

// Kind identifies which kind of contact datum a row carries.
//
// The kind selects the row binder and the view type of a row; it never
// affects position translation or section membership.
type Kind int

const (
	// KindContact is an aggregated contact row.
	KindContact Kind = iota

	// KindPhone is a phone number row.
	KindPhone

	// KindEmail is an email address row.
	KindEmail

	// KindPostal is a postal address row.
	KindPostal
)

// KindCount is the number of defined row kinds.
const KindCount = 4

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindContact:
		return "contact"
	case KindPhone:
		return "phone"
	case KindEmail:
		return "email"
	case KindPostal:
		return "postal"
	default:
		return "unknown"
	}
}

// Valid reports whether k is one of the defined kinds.
func (k Kind) Valid() bool {
	return k >= KindContact && k < KindCount
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(k))
	}

	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
//
// An empty value decodes to KindContact.
func (k *Kind) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "", "contact":
		*k = KindContact
	case "phone":
		*k = KindPhone
	case "email":
		*k = KindEmail
	case "postal":
		*k = KindPostal
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, string(text))
	}

	return nil
}

// Row is one immutable list row.
//
// The list core only looks at ID, SectionKey, Starred and Profile. DisplayName
// is used for section bucketing and accessibility; Payload is opaque and is only
// handed to row binders.
type Row struct {
	// ID is the stable identity of the row. Selection is keyed by it.
	ID int64

	// SectionKey is the bucket label of the row ("" when unknown).
	SectionKey string

	// DisplayName is the primary display name.
	DisplayName string

	// Starred marks a favorite contact.
	Starred bool

	// Profile marks the synthetic "me" row. Profile rows are never selectable.
	Profile bool

	// Kind selects the binder used to present the row.
	Kind Kind

	// Payload carries kind specific data (ContactData, PhoneData, ...).
	Payload any
}

// Selectable reports whether the row may take part in multi-select.
func (r Row) Selectable() bool {
	return !r.Profile
}

// ContactData is the payload of KindContact rows.
type ContactData struct {
	LookupKey string
	PhotoURI  string
	Status    string
}

// PhoneData is the payload of KindPhone rows.
type PhoneData struct {
	Number   string
	Label    string
	PhotoURI string
}

// EmailData is the payload of KindEmail rows.
type EmailData struct {
	Address  string
	Label    string
	PhotoURI string
}

// PostalData is the payload of KindPostal rows.
type PostalData struct {
	Formatted string
	Label     string
}
