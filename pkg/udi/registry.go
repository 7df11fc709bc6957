package udi

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hashicorp/go-multierror"
	"github.com/iancoleman/strcase"
)

var (
	// ErrNotUdi is returned when a string does not start with Prefix.
	ErrNotUdi = errors.New("not a UDI")

	// ErrUnknownEntityType is returned when an entity type is not registered.
	ErrUnknownEntityType = errors.New("unknown entity type")

	// ErrDuplicateEntityType is returned when registering a name twice.
	ErrDuplicateEntityType = errors.New("entity type already registered")

	// ErrMissingValue is returned for a UDI ending in a bare "/".
	ErrMissingValue = errors.New("UDI value is empty")

	// ErrInvalidValue is returned when a value does not match its
	// entity type's kind.
	ErrInvalidValue = errors.New("invalid UDI value")
)

// Kind describes what the value segment of an entity type holds.
type Kind string

const (
	// KindGUID values are 32 lowercase hex characters.
	KindGUID Kind = "guid"

	// KindString values are free-form, such as file paths of scripts and
	// stylesheets.
	KindString Kind = "string"
)

// ValidKinds returns all valid kinds.
func ValidKinds() []Kind {
	return []Kind{KindGUID, KindString}
}

// IsValid returns true if this is a recognized kind.
func (k Kind) IsValid() bool {
	switch k {
	case KindGUID, KindString:
		return true
	default:
		return false
	}
}

func (k Kind) String() string {
	return string(k)
}

var (
	entityTypeNamePattern = regexp.MustCompile(`^[a-z][a-z0-9]*(-[a-z0-9]+)*$`)
	guidValuePattern      = regexp.MustCompile(`^[0-9a-f]{32}$`)
)

// EntityType describes a registered entity type.
type EntityType struct {
	Name        string `json:"name" yaml:"name"`
	Kind        Kind   `json:"kind" yaml:"kind"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Validate checks the definition.
func (e EntityType) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Name,
			validation.Required,
			validation.Match(entityTypeNamePattern).Error("must be lowercase kebab-case"),
		),
		validation.Field(&e.Kind,
			validation.Required,
			validation.In(KindGUID, KindString),
		),
	)
}

// NormalizeEntityTypeName converts a name to the kebab-case form UDIs use,
// e.g. "DocumentType" and "document_type" both become "document-type".
func NormalizeEntityTypeName(name string) string {
	return strcase.ToKebab(strings.TrimSpace(name))
}

// Registry is a set of known entity types.
//
// It is an explicit object rather than a package variable so callers
// control when it is populated and tests get their own instance.
// A Registry is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	types map[string]EntityType
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{types: make(map[string]EntityType)}
}

// NewDefaultRegistry returns a registry populated with the built-in entity
// types.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	if err := r.Populate(DefaultEntityTypes()...); err != nil {
		panic(fmt.Sprintf("invalid built-in entity types: %v", err))
	}
	return r
}

// Register adds def to the registry. The name is normalized first.
func (r *Registry) Register(def EntityType) error {
	def.Name = NormalizeEntityTypeName(def.Name)
	if err := def.Validate(); err != nil {
		return fmt.Errorf("invalid entity type %q: %w", def.Name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.types[def.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateEntityType, def.Name)
	}
	r.types[def.Name] = def
	return nil
}

// Populate registers every definition in defs. All definitions are tried;
// the failures are returned together.
func (r *Registry) Populate(defs ...EntityType) error {
	var result *multierror.Error
	for _, def := range defs {
		if err := r.Register(def); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

// Get looks up an entity type by name.
func (r *Registry) Get(name string) (EntityType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.types[name]
	return def, ok
}

// List returns all registered entity types sorted by name.
func (r *Registry) List() []EntityType {
	r.mu.RLock()
	defs := make([]EntityType, 0, len(r.types))
	for _, def := range r.types {
		defs = append(defs, def)
	}
	r.mu.RUnlock()

	sort.Slice(defs, func(i, j int) bool {
		return defs[i].Name < defs[j].Name
	})
	return defs
}

// Len returns the number of registered entity types.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.types)
}

// Validate applies strict checks on top of Parse: the entity type must be
// registered and a present value must suit the entity type's kind. Type
// roots are valid.
func (r *Registry) Validate(u Udi) error {
	if u.IsZero() {
		return ErrNotUdi
	}

	var result *multierror.Error

	def, ok := r.Get(u.EntityType())
	if !ok {
		result = multierror.Append(result,
			fmt.Errorf("%w: %q", ErrUnknownEntityType, u.EntityType()))
	}

	if value, hasValue := u.Value(); hasValue {
		switch {
		case value == "":
			result = multierror.Append(result, ErrMissingValue)
		case ok && def.Kind == KindGUID && !guidValuePattern.MatchString(value):
			result = multierror.Append(result,
				fmt.Errorf("%w: %q is not a 32 character lowercase hex GUID", ErrInvalidValue, value))
		}
	}

	return result.ErrorOrNil()
}

// ValidateString parses s and validates the result.
func (r *Registry) ValidateString(s string) (Udi, error) {
	u, ok := ParseString(s)
	if !ok {
		return Udi{}, fmt.Errorf("%w: %q", ErrNotUdi, s)
	}
	if err := r.Validate(u); err != nil {
		return Udi{}, err
	}
	return u, nil
}
