package udi

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Prefix is the scheme every UDI string starts with.
const Prefix = "umb://"

// Udi is a parsed Uniform Data Identifier.
//
// A Udi is immutable once built. The zero value represents "no identifier"
// and is what JSON null and SQL NULL decode to.
type Udi struct {
	entityType string
	value      string
	hasValue   bool
	set        bool
}

// Parse recognizes a UDI in input.
//
// Only values whose dynamic type is string are considered; anything else,
// including nil, yields nil. Strings that do not start with Prefix also
// yield nil. Unusual but prefixed strings (empty entity type, trailing
// slash) are accepted as-is.
func Parse(input any) *Udi {
	s, ok := input.(string)
	if !ok {
		return nil
	}
	u, ok := ParseString(s)
	if !ok {
		return nil
	}
	return &u
}

// ParseUdi is the name the duplicated parser used to be exported under.
//
// Deprecated: use Parse.
func ParseUdi(input any) *Udi {
	return Parse(input)
}

// ParseString parses s and reports whether it was a UDI.
func ParseString(s string) (Udi, bool) {
	if !strings.HasPrefix(s, Prefix) {
		return Udi{}, false
	}
	rest := s[len(Prefix):]

	i := strings.LastIndex(rest, "/")
	if i < 0 {
		return Udi{entityType: rest, set: true}, true
	}
	return Udi{
		entityType: rest[:i],
		value:      rest[i+1:],
		hasValue:   true,
		set:        true,
	}, true
}

// MustParse parses s, panicking if it is not a UDI.
// This is useful for test fixtures and constants where s is known valid.
func MustParse(s string) Udi {
	u, ok := ParseString(s)
	if !ok {
		panic(fmt.Sprintf("invalid UDI: %q", s))
	}
	return u
}

// Root returns the type-only identifier for entityType, e.g. "umb://media".
func Root(entityType string) Udi {
	return Udi{entityType: entityType, set: true}
}

// FromKey builds a UDI for an existing GUID key.
// The value is the key with its hyphens stripped.
func FromKey(entityType string, key uuid.UUID) Udi {
	return Udi{
		entityType: entityType,
		value:      stripHyphens(key),
		hasValue:   true,
		set:        true,
	}
}

// Format returns the canonical string for entityType and value.
// It does no validation; value must not contain "/" for the result to
// round-trip through Parse.
func Format(entityType, value string) string {
	return Prefix + entityType + "/" + value
}

// EntityType returns the entity type segment, e.g. "document".
func (u Udi) EntityType() string {
	return u.entityType
}

// Value returns the instance segment and whether one is present.
// Type roots such as "umb://document" have no value.
func (u Udi) Value() (string, bool) {
	return u.value, u.hasValue
}

// IsRoot returns true if u names only an entity type.
func (u Udi) IsRoot() bool {
	return u.set && !u.hasValue
}

// IsZero returns true if this is the zero Udi.
func (u Udi) IsZero() bool {
	return !u.set
}

// Equal returns true if both UDIs have the same entity type and value.
func (u Udi) Equal(other Udi) bool {
	return u == other
}

// String returns the canonical form: "umb://type" for roots and
// "umb://type/value" otherwise. The zero Udi formats as "".
func (u Udi) String() string {
	if !u.set {
		return ""
	}
	if !u.hasValue {
		return Prefix + u.entityType
	}
	return Format(u.entityType, u.value)
}

// Key parses the value segment as a GUID.
// Both the stripped 32-character form and the hyphenated form are accepted.
func (u Udi) Key() (uuid.UUID, error) {
	if !u.hasValue {
		return uuid.Nil, fmt.Errorf("UDI %q has no value", u.String())
	}
	k, err := uuid.Parse(u.value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("UDI value is not a GUID: %w", err)
	}
	return k, nil
}

// GetKey returns the GUID key of a UDI string in hyphenated form.
//
// When the value is not a 32-character GUID it is returned unchanged.
// An empty string is returned for input that is not a UDI or is a root.
func GetKey(s string) string {
	u, ok := ParseString(s)
	if !ok || !u.hasValue {
		return ""
	}
	if len(u.value) != 32 {
		return u.value
	}
	k, err := uuid.Parse(u.value)
	if err != nil {
		return u.value
	}
	return k.String()
}

// MarshalJSON implements json.Marshaler.
// UDIs are serialized as strings: "umb://document/0cfa8757..."
func (u Udi) MarshalJSON() ([]byte, error) {
	if u.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(u.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (u *Udi) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*u = Udi{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("UDI must be a string: %w", err)
	}
	if s == "" {
		*u = Udi{}
		return nil
	}
	parsed, ok := ParseString(s)
	if !ok {
		return fmt.Errorf("invalid UDI: %q", s)
	}
	*u = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (u Udi) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (u *Udi) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*u = Udi{}
		return nil
	}
	parsed, ok := ParseString(string(text))
	if !ok {
		return fmt.Errorf("invalid UDI: %q", text)
	}
	*u = parsed
	return nil
}

// NullUdi is a Udi that may be NULL in the database.
type NullUdi struct {
	Udi   Udi
	Valid bool
}

// NewNullUdi wraps u. The zero Udi becomes NULL.
func NewNullUdi(u Udi) NullUdi {
	return NullUdi{Udi: u, Valid: !u.IsZero()}
}

// Scan implements sql.Scanner for database reading.
// Supports string and []byte input from database.
func (n *NullUdi) Scan(value interface{}) error {
	if value == nil {
		*n = NullUdi{}
		return nil
	}

	var s string
	switch v := value.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("cannot scan %T into UDI", value)
	}

	if s == "" {
		*n = NullUdi{}
		return nil
	}
	u, ok := ParseString(s)
	if !ok {
		return fmt.Errorf("cannot scan %q into UDI", s)
	}
	*n = NullUdi{Udi: u, Valid: true}
	return nil
}

// Value implements driver.Valuer for database writing.
// Returns nil for NULL, the canonical string otherwise.
func (n NullUdi) Value() (driver.Value, error) {
	if !n.Valid || n.Udi.IsZero() {
		return nil, nil
	}
	return n.Udi.String(), nil
}

// MarshalJSON implements json.Marshaler.
func (n NullUdi) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return n.Udi.MarshalJSON()
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *NullUdi) UnmarshalJSON(data []byte) error {
	var u Udi
	if err := u.UnmarshalJSON(data); err != nil {
		return err
	}
	*n = NewNullUdi(u)
	return nil
}

func stripHyphens(key uuid.UUID) string {
	return strings.ReplaceAll(key.String(), "-", "")
}
