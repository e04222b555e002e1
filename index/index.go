package index

import (
	"context"
	"errors"
	"log/slog"
	"maps"
	"slices"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ardnew/abmeta/log"
	"github.com/ardnew/abmeta/pkg"
	"github.com/ardnew/abmeta/tree"
)

// ErrNotFound is returned when a package is not in the index.
var ErrNotFound = pkg.MakeErrorf("package not found")

// Index is a SQLite database of the packages of a tree.
type Index struct {
	db     *gorm.DB
	logger log.Logger
}

// Option configures [Open].
type Option func(*Index)

// WithLogger sets the logger used to report synchronization.
func WithLogger(logger log.Logger) Option {
	return func(ix *Index) {
		ix.logger = logger
	}
}

// Stats counts the changes made by [Index.Sync].
type Stats struct {
	Added     int `json:"added"     yaml:"added"`
	Updated   int `json:"updated"   yaml:"updated"`
	Unchanged int `json:"unchanged" yaml:"unchanged"`
	Removed   int `json:"removed"   yaml:"removed"`
}

// Open opens the index database at path, creating it if needed.
func Open(path string, opts ...Option) (*Index, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, pkg.ErrIndex.Wrap(err)
	}

	if err := db.AutoMigrate(&Package{}, &Dependency{}); err != nil {
		return nil, pkg.ErrIndex.Wrap(err)
	}

	ix := &Index{db: db}

	for _, opt := range opts {
		if opt != nil {
			opt(ix)
		}
	}

	return ix, nil
}

// Close closes the database.
func (ix *Index) Close() error {
	sqlDB, err := ix.db.DB()
	if err != nil {
		return pkg.ErrIndex.Wrap(err)
	}

	return sqlDB.Close()
}

// Sync makes the index reflect t.
//
// Packages whose digest is unchanged are left alone. Packages that are no
// longer in t are soft-deleted, and restored if they reappear.
func (ix *Index) Sync(ctx context.Context, t *tree.Tree) (Stats, error) {
	var stats Stats

	err := ix.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []Package
		if err := tx.Unscoped().Find(&existing).Error; err != nil {
			return err
		}

		byName := make(map[string]*Package, len(existing))
		for i := range existing {
			byName[existing[i].Name] = &existing[i]
		}

		for _, p := range t.Packages() {
			rec, ok := byName[p.Name]
			delete(byName, p.Name)

			switch {
			case !ok:
				rec = &Package{}
				stats.Added++
			case rec.Deleted == 0 && rec.Digest == p.Digest:
				stats.Unchanged++

				continue
			default:
				stats.Updated++
			}

			if err := ix.store(tx, rec, p); err != nil {
				return err
			}
		}

		for _, rec := range byName {
			if rec.Deleted != 0 {
				continue
			}

			if err := tx.Delete(rec).Error; err != nil {
				return err
			}

			stats.Removed++
		}

		return nil
	})
	if err != nil {
		return stats, pkg.ErrIndex.Wrap(err)
	}

	ix.logger.DebugContext(ctx, "index synchronized",
		slog.Int("added", stats.Added),
		slog.Int("updated", stats.Updated),
		slog.Int("unchanged", stats.Unchanged),
		slog.Int("removed", stats.Removed))

	return stats, nil
}

// store writes p into rec and replaces its dependencies.
func (ix *Index) store(tx *gorm.DB, rec *Package, p *tree.Package) error {
	rec.fill(p)

	if err := tx.Unscoped().Omit("Dependencies").Save(rec).Error; err != nil {
		return err
	}

	if err := tx.Where("package_id = ?", rec.ID).Delete(&Dependency{}).Error; err != nil {
		return err
	}

	deps := dependencies(rec.ID, p)
	if len(deps) == 0 {
		return nil
	}

	return tx.CreateInBatches(deps, 100).Error
}

// Package returns the package with the given name and its dependencies.
func (ix *Index) Package(ctx context.Context, name string) (*Package, error) {
	var rec Package

	err := ix.db.WithContext(ctx).
		Preload("Dependencies").
		Where("name = ?", name).
		First(&rec).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrNotFound.Wrapf("%s", name)
	case err != nil:
		return nil, pkg.ErrIndex.Wrap(err)
	}

	return &rec, nil
}

// Names returns the names of the indexed packages, sorted.
func (ix *Index) Names(ctx context.Context) ([]string, error) {
	var names []string

	err := ix.db.WithContext(ctx).Model(&Package{}).Order("name").Pluck("name", &names).Error
	if err != nil {
		return nil, pkg.ErrIndex.Wrap(err)
	}

	return names, nil
}

// Dependents returns the names of the packages whose field lists name,
// sorted.
func (ix *Index) Dependents(ctx context.Context, field, name string) ([]string, error) {
	var names []string

	err := ix.db.WithContext(ctx).Model(&Package{}).
		Distinct("packages.name").
		Joins("JOIN dependencies ON dependencies.package_id = packages.id").
		Where("dependencies.field = ? AND dependencies.name = ?", field, name).
		Order("packages.name").
		Pluck("packages.name", &names).Error
	if err != nil {
		return nil, pkg.ErrIndex.Wrap(err)
	}

	return names, nil
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
