package models

import (
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/hashicorp-forge/udi/pkg/udi"
)

// ErrDuplicateUdi is returned when a UDI is already assigned to another key.
var ErrDuplicateUdi = errors.New("UDI already assigned")

// EntityKey links an entity's legacy numeric key (the primary key) to its
// UDI. Keys created before UDIs existed have a NULL Udi until one is
// assigned.
type EntityKey struct {
	gorm.Model

	// Udi is the portable identifier. Unique when set.
	Udi udi.NullUdi `gorm:"type:varchar(255);uniqueIndex"`

	// EntityType is the entity type name, e.g. "document".
	EntityType string `gorm:"not null;index;size:100"`

	// Name is an optional display name.
	Name string `gorm:"size:255"`
}

// TableName returns the table name for GORM.
func (EntityKey) TableName() string {
	return "entity_keys"
}

// HasUdi returns true if a UDI has been assigned.
func (k *EntityKey) HasUdi() bool {
	return k.Udi.Valid && !k.Udi.Udi.IsZero()
}

// SetUdi assigns u.
func (k *EntityKey) SetUdi(u udi.Udi) {
	k.Udi = udi.NewNullUdi(u)
}

// Reference returns the most portable reference to this key: its UDI when
// assigned, its legacy ID otherwise.
func (k *EntityKey) Reference() udi.Reference {
	if k.HasUdi() {
		return udi.UdiReference(k.Udi.Udi)
	}
	return udi.LegacyReference(int64(k.ID))
}

func (k *EntityKey) validate() error {
	if err := validation.ValidateStruct(k,
		validation.Field(&k.EntityType, validation.Required),
	); err != nil {
		return err
	}

	if !k.HasUdi() {
		return nil
	}
	if k.Udi.Udi.EntityType() != k.EntityType {
		return fmt.Errorf("UDI entity type %q does not match %q",
			k.Udi.Udi.EntityType(), k.EntityType)
	}
	if k.Udi.Udi.IsRoot() {
		return errors.New("UDI must name a single entity")
	}
	return nil
}

// Create creates a new entity key in the database.
func (k *EntityKey) Create(db *gorm.DB) error {
	if err := k.validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if err := db.Create(k).Error; err != nil {
		return k.translateError(err)
	}
	return nil
}

// Get retrieves an entity key by its legacy ID.
func (k *EntityKey) Get(db *gorm.DB, id uint) error {
	if err := validation.Validate(id, validation.Required); err != nil {
		return err
	}

	return db.First(k, id).Error
}

// GetByUdi retrieves an entity key by UDI.
func (k *EntityKey) GetByUdi(db *gorm.DB, u udi.Udi) error {
	if u.IsZero() {
		return fmt.Errorf("UDI is required")
	}

	return db.
		Where("udi = ?", u.String()).
		First(k).
		Error
}

// GetByKey retrieves an entity key by the GUID value of its UDI, whatever
// the entity type.
func (k *EntityKey) GetByKey(db *gorm.DB, key uuid.UUID) error {
	if key == uuid.Nil {
		return fmt.Errorf("key is required")
	}

	pattern := udi.Prefix + "%/" + strings.ReplaceAll(key.String(), "-", "")
	return db.
		Where("LOWER(udi) LIKE ?", pattern).
		Order("id").
		First(k).
		Error
}

// SaveUdi persists the current UDI of an existing key.
func (k *EntityKey) SaveUdi(db *gorm.DB) error {
	if err := validation.ValidateStruct(k,
		validation.Field(&k.ID, validation.Required),
	); err != nil {
		return err
	}
	if err := k.validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if err := db.Model(k).Update("udi", k.Udi).Error; err != nil {
		return k.translateError(err)
	}
	return nil
}

func (k *EntityKey) translateError(err error) error {
	if isUniqueViolation(err) && k.HasUdi() {
		return fmt.Errorf("%w: %s", ErrDuplicateUdi, k.Udi.Udi)
	}
	return err
}

// isUniqueViolation reports whether err is a unique constraint failure, as
// translated by gorm or as raised by PostgreSQL or SQLite.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// CountEntityKeysWithoutUdi returns how many keys still lack a UDI.
func CountEntityKeysWithoutUdi(db *gorm.DB) (int64, error) {
	var count int64
	err := db.
		Model(&EntityKey{}).
		Where("udi IS NULL").
		Count(&count).
		Error
	return count, err
}

// FindEntityKeysWithoutUdi returns up to limit keys lacking a UDI, oldest
// first.
func FindEntityKeysWithoutUdi(db *gorm.DB, limit int) ([]EntityKey, error) {
	var keys []EntityKey
	err := db.
		Where("udi IS NULL").
		Order("id ASC").
		Limit(limit).
		Find(&keys).
		Error
	return keys, err
}

// GetEntityKeysByType returns all keys of an entity type.
func GetEntityKeysByType(db *gorm.DB, entityType string) ([]EntityKey, error) {
	var keys []EntityKey
	err := db.
		Where("entity_type = ?", entityType).
		Order("id ASC").
		Find(&keys).
		Error
	return keys, err
}
