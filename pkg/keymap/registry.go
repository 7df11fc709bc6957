package keymap

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"gorm.io/gorm"

	"github.com/hashicorp-forge/udi/pkg/models"
	"github.com/hashicorp-forge/udi/pkg/udi"
)

// SyncRegistry writes every entity type in reg to the database. Types
// found in builtin are recorded as built-in; the rest as coming from the
// HCL config file.
func SyncRegistry(db *gorm.DB, reg *udi.Registry, builtin []udi.EntityType) error {
	isBuiltin := make(map[string]bool, len(builtin))
	for _, def := range builtin {
		isBuiltin[def.Name] = true
	}

	var result *multierror.Error
	synced := 0
	for _, def := range reg.List() {
		source := models.EntityTypeSourceHCLFile
		if isBuiltin[def.Name] {
			source = models.EntityTypeSourceBuiltin
		}
		if err := models.NewEntityTypeRecord(def, source).Upsert(db); err != nil {
			result = multierror.Append(result, fmt.Errorf("error upserting entity type %q: %w", def.Name, err))
			continue
		}
		synced++
	}

	if err := result.ErrorOrNil(); err != nil {
		return fmt.Errorf("synced %d entity types with errors: %w", synced, err)
	}
	return nil
}

// LoadRegistry builds a registry from the entity types stored in the
// database. This is the explicit initial-population step for processes
// that do not read the config file.
func LoadRegistry(db *gorm.DB) (*udi.Registry, error) {
	records, err := models.GetAllEntityTypeRecords(db)
	if err != nil {
		return nil, fmt.Errorf("error loading entity types: %w", err)
	}

	defs := make([]udi.EntityType, 0, len(records))
	for i := range records {
		defs = append(defs, records[i].EntityType())
	}

	reg := udi.NewRegistry()
	if err := reg.Populate(defs...); err != nil {
		return nil, fmt.Errorf("error populating registry: %w", err)
	}
	return reg, nil
}
