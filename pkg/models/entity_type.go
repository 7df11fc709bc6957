package models

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gorm.io/gorm"

	"github.com/hashicorp-forge/udi/pkg/udi"
)

// EntityTypeRecord is a registered entity type stored in the database.
// Built-in types are written on startup; custom types come from HCL config.
type EntityTypeRecord struct {
	gorm.Model

	// Name is the unique kebab-case entity type name.
	Name string `gorm:"uniqueIndex;not null;size:100"`

	// Kind is "guid" or "string".
	Kind string `gorm:"not null;size:20"`

	// Description is an optional description.
	Description *string

	// SourceType indicates where the entity type came from.
	SourceType string `gorm:"not null;default:'builtin';size:20"`
}

// EntityTypeSourceType constants
const (
	EntityTypeSourceBuiltin = "builtin"
	EntityTypeSourceHCLFile = "hcl_file"
)

// TableName returns the table name for GORM.
func (EntityTypeRecord) TableName() string {
	return "entity_types"
}

// NewEntityTypeRecord converts a registry definition to a record.
func NewEntityTypeRecord(def udi.EntityType, sourceType string) *EntityTypeRecord {
	r := &EntityTypeRecord{
		Name:       def.Name,
		Kind:       def.Kind.String(),
		SourceType: sourceType,
	}
	if def.Description != "" {
		r.Description = &def.Description
	}
	return r
}

// EntityType converts the record back to a registry definition.
func (r *EntityTypeRecord) EntityType() udi.EntityType {
	def := udi.EntityType{
		Name: r.Name,
		Kind: udi.Kind(r.Kind),
	}
	if r.Description != nil {
		def.Description = *r.Description
	}
	return def
}

func (r *EntityTypeRecord) validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.Kind, validation.Required,
			validation.In(udi.KindGUID.String(), udi.KindString.String())),
		validation.Field(&r.SourceType, validation.Required,
			validation.In(EntityTypeSourceBuiltin, EntityTypeSourceHCLFile)),
	)
}

// GetByName retrieves an entity type record by name.
func (r *EntityTypeRecord) GetByName(db *gorm.DB, name string) error {
	if err := validation.Validate(name, validation.Required); err != nil {
		return err
	}

	return db.
		Where("name = ?", name).
		First(r).
		Error
}

// Upsert creates or updates an entity type record by name.
func (r *EntityTypeRecord) Upsert(db *gorm.DB) error {
	if err := r.validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	existing := &EntityTypeRecord{}
	err := existing.GetByName(db, r.Name)
	if err == nil {
		r.ID = existing.ID
		r.CreatedAt = existing.CreatedAt
		return db.
			Model(r).
			Select("*").
			Updates(r).
			Error
	} else if err == gorm.ErrRecordNotFound {
		return db.Create(r).Error
	}

	return fmt.Errorf("error checking for existing entity type: %w", err)
}

// GetAllEntityTypeRecords retrieves all entity type records ordered by name.
func GetAllEntityTypeRecords(db *gorm.DB) ([]EntityTypeRecord, error) {
	var records []EntityTypeRecord
	err := db.
		Order("name ASC").
		Find(&records).
		Error
	return records, err
}
