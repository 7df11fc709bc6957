package udi

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Generator produces fresh values for new UDIs.
type Generator interface {
	// NewValue returns a new unique value. It must not contain "/".
	NewValue() string
}

// GeneratorFunc adapts a plain function to the Generator interface.
type GeneratorFunc func() string

// NewValue calls f.
func (f GeneratorFunc) NewValue() string {
	return f()
}

// UUIDGenerator mints random (v4) GUIDs formatted as 32 lowercase hex
// characters.
type UUIDGenerator struct{}

// NewValue implements Generator.
func (UUIDGenerator) NewValue() string {
	return stripHyphens(uuid.New())
}

// Factory creates new UDIs using its Generator.
type Factory struct {
	gen Generator
}

// NewFactory returns a Factory that draws values from gen.
// A nil gen falls back to UUIDGenerator.
func NewFactory(gen Generator) *Factory {
	if gen == nil {
		gen = UUIDGenerator{}
	}
	return &Factory{gen: gen}
}

// New returns a new UDI of the given entity type.
// The entity type is not checked; an empty one yields a syntactically
// valid but meaningless identifier.
//
// New panics if the generator returns a value containing "/".
func (f *Factory) New(entityType string) Udi {
	value := f.gen.NewValue()
	if strings.Contains(value, "/") {
		panic(fmt.Sprintf("udi: generated value %q for entity type %q contains \"/\"", value, entityType))
	}
	return Udi{
		entityType: entityType,
		value:      value,
		hasValue:   true,
		set:        true,
	}
}

// Create returns a new UDI of the given entity type in string form.
func (f *Factory) Create(entityType string) string {
	return f.New(entityType).String()
}

var defaultFactory = NewFactory(UUIDGenerator{})

// New returns a new UDI with a random GUID value.
func New(entityType string) Udi {
	return defaultFactory.New(entityType)
}

// Create returns a new UDI string with a random GUID value, e.g.
// "umb://media/4fe5b1c3d3f04e0b8d2b3a1e6c9f7a21".
func Create(entityType string) string {
	return defaultFactory.Create(entityType)
}
