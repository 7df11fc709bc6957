package udi

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// ErrUnrecognizedReference is returned when a reference is not a UDI, a
// legacy numeric key or a hyphenated GUID key.
var ErrUnrecognizedReference = errors.New("unrecognized entity reference")

const localLinkPrefix = "localLink:"

// Reference points at an entity by UDI, by legacy numeric key, or by the
// bare GUID key of its UDI (the entity type then comes from elsewhere, such
// as a link's type attribute). Exactly one is set for a non-zero Reference.
type Reference struct {
	udi      Udi
	legacyID int64
	legacy   bool
	key      uuid.UUID
	hasKey   bool
}

// UdiReference returns a reference to u.
func UdiReference(u Udi) Reference {
	return Reference{udi: u}
}

// LegacyReference returns a reference to a legacy numeric key.
func LegacyReference(id int64) Reference {
	return Reference{legacyID: id, legacy: true}
}

// KeyReference returns a reference to a GUID key.
func KeyReference(key uuid.UUID) Reference {
	return Reference{key: key, hasKey: true}
}

// ParseReference recognizes s as a UDI, a base-10 legacy key or a
// hyphenated GUID key, in that order. Surrounding whitespace is ignored.
func ParseReference(s string) (Reference, error) {
	s = strings.TrimSpace(s)
	if u, ok := ParseString(s); ok {
		return UdiReference(u), nil
	}
	if id, err := strconv.ParseInt(s, 10, 64); err == nil {
		return LegacyReference(id), nil
	}
	// Only the 36 character form; 32 hex digits are a UDI value, not a key.
	if len(s) == 36 {
		if key, err := uuid.Parse(s); err == nil {
			return KeyReference(key), nil
		}
	}
	return Reference{}, fmt.Errorf("%w: %q", ErrUnrecognizedReference, s)
}

// ParseLocalLink parses the target of a rich text local link, such as
// "{localLink:1234}", "{localLink:umb://document/...}" or
// "{localLink:eed5fc6b-96fd-45a5-a0f1-b1adfb483c2f}". The prefix is matched
// case-insensitively and the braces are optional.
func ParseLocalLink(s string) (Reference, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "{")
	s = strings.TrimSuffix(s, "}")
	if len(s) < len(localLinkPrefix) || !strings.EqualFold(s[:len(localLinkPrefix)], localLinkPrefix) {
		return Reference{}, fmt.Errorf("%w: missing %q prefix", ErrUnrecognizedReference, localLinkPrefix)
	}
	return ParseReference(s[len(localLinkPrefix):])
}

// IsUdi returns true if r refers to a UDI.
func (r Reference) IsUdi() bool {
	return !r.udi.IsZero()
}

// IsLegacy returns true if r refers to a legacy numeric key.
func (r Reference) IsLegacy() bool {
	return r.legacy
}

// IsKey returns true if r refers to a bare GUID key.
func (r Reference) IsKey() bool {
	return r.hasKey
}

// IsZero returns true if r refers to nothing.
func (r Reference) IsZero() bool {
	return !r.IsUdi() && !r.IsLegacy() && !r.IsKey()
}

// Udi returns the referenced UDI, or the zero Udi for legacy references.
func (r Reference) Udi() Udi {
	return r.udi
}

// LegacyID returns the legacy key and whether r is a legacy reference.
func (r Reference) LegacyID() (int64, bool) {
	return r.legacyID, r.legacy
}

// Key returns the GUID key and whether r is a key reference.
func (r Reference) Key() (uuid.UUID, bool) {
	return r.key, r.hasKey
}

// WithEntityType turns a key reference into a UDI reference of the given
// entity type. Other references are returned unchanged.
func (r Reference) WithEntityType(entityType string) Reference {
	if !r.hasKey {
		return r
	}
	return UdiReference(FromKey(entityType, r.key))
}

// String returns the UDI string, the decimal legacy key or the hyphenated
// GUID key.
func (r Reference) String() string {
	switch {
	case r.legacy:
		return strconv.FormatInt(r.legacyID, 10)
	case r.hasKey:
		return r.key.String()
	}
	return r.udi.String()
}
