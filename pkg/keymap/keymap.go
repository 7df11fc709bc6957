// Package keymap translates entity references (UDIs, legacy numeric keys or
// bare GUID keys) into stored entity keys.
package keymap

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/go-hclog"
	"gorm.io/gorm"

	"github.com/hashicorp-forge/udi/pkg/models"
	"github.com/hashicorp-forge/udi/pkg/udi"
)

// ErrNotFound is returned when no entity key matches a reference.
var ErrNotFound = errors.New("entity key not found")

// Resolver looks up and assigns entity keys.
type Resolver struct {
	db       *gorm.DB
	registry *udi.Registry
	factory  *udi.Factory
	logger   hclog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithFactory sets the factory used to mint new UDIs.
func WithFactory(f *udi.Factory) Option {
	return func(r *Resolver) {
		r.factory = f
	}
}

// NewResolver creates a resolver backed by db. Entity types are checked
// against registry.
func NewResolver(db *gorm.DB, registry *udi.Registry, logger hclog.Logger, opts ...Option) *Resolver {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	r := &Resolver{
		db:       db,
		registry: registry,
		factory:  udi.NewFactory(nil),
		logger:   logger.Named("keymap"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the entity key a reference points at.
func (r *Resolver) Resolve(ctx context.Context, ref udi.Reference) (*models.EntityKey, error) {
	db := r.db.WithContext(ctx)
	key := &models.EntityKey{}

	var err error
	switch {
	case ref.IsUdi():
		if verr := r.registry.Validate(ref.Udi()); verr != nil {
			return nil, fmt.Errorf("invalid reference %q: %w", ref, verr)
		}
		err = key.GetByUdi(db, ref.Udi())
	case ref.IsLegacy():
		id, _ := ref.LegacyID()
		if id <= 0 {
			return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
		}
		err = key.Get(db, uint(id))
	case ref.IsKey():
		k, _ := ref.Key()
		err = key.GetByKey(db, k)
	default:
		return nil, fmt.Errorf("empty reference")
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, ref)
	}
	if err != nil {
		return nil, fmt.Errorf("error resolving %s: %w", ref, err)
	}

	r.logger.Debug("resolved reference", "reference", ref.String(), "id", key.ID)
	return key, nil
}

// ResolveString parses s as a reference and resolves it.
func (r *Resolver) ResolveString(ctx context.Context, s string) (*models.EntityKey, error) {
	ref, err := udi.ParseReference(s)
	if err != nil {
		return nil, err
	}
	return r.Resolve(ctx, ref)
}

// Register stores a new entity key with a freshly minted UDI.
func (r *Resolver) Register(ctx context.Context, entityType, name string) (*models.EntityKey, error) {
	def, ok := r.registry.Get(entityType)
	if !ok {
		return nil, fmt.Errorf("%w: %q", udi.ErrUnknownEntityType, entityType)
	}
	if def.Kind != udi.KindGUID {
		return nil, fmt.Errorf("entity type %q has %s values and cannot be minted", entityType, def.Kind)
	}

	key := &models.EntityKey{
		EntityType: def.Name,
		Name:       name,
	}
	key.SetUdi(r.factory.New(def.Name))

	if err := key.Create(r.db.WithContext(ctx)); err != nil {
		return nil, fmt.Errorf("error creating entity key: %w", err)
	}

	r.logger.Info("registered entity key",
		"id", key.ID,
		"udi", key.Udi.Udi.String(),
	)
	return key, nil
}

// AssignStats summarizes an AssignMissing run.
type AssignStats struct {
	Total     int64
	Processed int64
	Assigned  int64
	Skipped   int64
	Errors    int64
}

// AssignMissing gives every entity key without a UDI a new one, working
// through the table in batches. In dry-run mode nothing is written.
//
// Keys whose entity type is not registered, or is not a GUID kind, are
// skipped.
func (r *Resolver) AssignMissing(ctx context.Context, batchSize int, dryRun bool) (AssignStats, error) {
	var stats AssignStats
	if batchSize < 1 {
		return stats, fmt.Errorf("batch size must be at least 1")
	}

	db := r.db.WithContext(ctx)

	total, err := models.CountEntityKeysWithoutUdi(db)
	if err != nil {
		return stats, fmt.Errorf("error counting entity keys without UDIs: %w", err)
	}
	stats.Total = total
	if total == 0 {
		return stats, nil
	}

	r.logger.Info("assigning UDIs",
		"total", total,
		"batch_size", batchSize,
		"dry_run", dryRun,
	)

	// Keys that keep a NULL UDI (skipped, failed, or dry run) would be
	// returned again by the next query, so page past them by ID.
	var lastID uint
	for stats.Processed < total {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		var keys []models.EntityKey
		if err := db.
			Where("udi IS NULL AND id > ?", lastID).
			Order("id ASC").
			Limit(batchSize).
			Find(&keys).Error; err != nil {
			return stats, fmt.Errorf("error fetching entity keys after id %d: %w", lastID, err)
		}
		if len(keys) == 0 {
			break
		}

		for i := range keys {
			key := &keys[i]
			lastID = key.ID
			stats.Processed++

			def, ok := r.registry.Get(key.EntityType)
			if !ok || def.Kind != udi.KindGUID {
				r.logger.Warn("skipping entity key",
					"id", key.ID,
					"entity_type", key.EntityType,
				)
				stats.Skipped++
				continue
			}

			u := r.factory.New(key.EntityType)
			r.logger.Debug("assigning UDI", "id", key.ID, "udi", u.String())

			if !dryRun {
				key.SetUdi(u)
				if err := key.SaveUdi(db); err != nil {
					r.logger.Error("error saving entity key", "id", key.ID, "error", err)
					stats.Errors++
					continue
				}
			}
			stats.Assigned++
		}

		r.logger.Info("progress",
			"processed", stats.Processed,
			"total", total,
		)
	}

	if stats.Errors > 0 {
		return stats, fmt.Errorf("%d entity keys could not be updated", stats.Errors)
	}
	return stats, nil
}
