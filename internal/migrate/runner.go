package migrate

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"kronosphere/internal/logger"

	"gorm.io/gorm"
)

// AppliedMigration is a row of the history table.
type AppliedMigration struct {
	Version       int64  `gorm:"primaryKey;autoIncrement:false"`
	Description   string `gorm:"not null"`
	InstalledOn   int64  `gorm:"not null"`
	Success       bool   `gorm:"not null"`
	Checksum      string `gorm:"not null"`
	ExecutionTime int64  `gorm:"not null"`
}

func (AppliedMigration) TableName() string {
	return "_migrations"
}

// Status reports whether a known up migration has been applied.
type Status struct {
	Version     int64
	Description string
	Applied     bool
	InstalledOn time.Time
}

type Runner struct {
	db    *gorm.DB
	ups   []Migration
	downs map[int64]Migration
	log   logger.Logger
	now   func() time.Time
}

func NewRunner(db *gorm.DB, migrations []Migration, log logger.Logger) (*Runner, error) {
	if err := Validate(migrations); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.NoOpLogger{}
	}

	r := &Runner{
		db:    db,
		downs: make(map[int64]Migration),
		log:   log,
		now:   time.Now,
	}
	for _, m := range migrations {
		if m.Kind == Down {
			r.downs[m.Version] = m
			continue
		}
		r.ups = append(r.ups, m)
	}
	return r, nil
}

// Apply runs every pending up migration in version order. Each migration and
// its history row commit in one transaction. It returns the applied versions.
func (r *Runner) Apply(ctx context.Context) ([]int64, error) {
	applied, err := r.history(ctx)
	if err != nil {
		return nil, err
	}
	if err := r.verify(applied); err != nil {
		return nil, err
	}

	var done []int64
	for _, m := range r.ups {
		if _, ok := applied[m.Version]; ok {
			continue
		}
		if err := r.applyOne(ctx, m); err != nil {
			return done, err
		}
		done = append(done, m.Version)
	}

	r.log.Info("Migrate", "migrations up to date", map[string]interface{}{
		"applied": len(done),
		"known":   len(r.ups),
	})
	return done, nil
}

func (r *Runner) applyOne(ctx context.Context, m Migration) error {
	start := r.now()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(m.SQL).Error; err != nil {
			return err
		}
		return tx.Create(&AppliedMigration{
			Version:       m.Version,
			Description:   m.Description,
			InstalledOn:   start.UnixMilli(),
			Success:       true,
			Checksum:      m.Checksum(),
			ExecutionTime: r.now().Sub(start).Nanoseconds(),
		}).Error
	})
	if err != nil {
		return fmt.Errorf("apply migration %d (%s): %w", m.Version, m.Description, err)
	}

	r.log.Info("Migrate", "migration applied", map[string]interface{}{
		"version":     m.Version,
		"description": m.Description,
	})
	return nil
}

// Revert undoes applied versions greater than target, newest first.
func (r *Runner) Revert(ctx context.Context, target int64) ([]int64, error) {
	applied, err := r.history(ctx)
	if err != nil {
		return nil, err
	}
	if err := r.verify(applied); err != nil {
		return nil, err
	}

	versions := make([]int64, 0, len(applied))
	for v := range applied {
		if v > target {
			versions = append(versions, v)
		}
	}
	sort.Slice(versions, func(i, j int) bool { return versions[i] > versions[j] })

	for _, v := range versions {
		if _, ok := r.downs[v]; !ok {
			return nil, fmt.Errorf("%w: %d", ErrNoDownMigration, v)
		}
	}

	var reverted []int64
	for _, v := range versions {
		down := r.downs[v]
		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(down.SQL).Error; err != nil {
				return err
			}
			return tx.Delete(&AppliedMigration{}, v).Error
		})
		if err != nil {
			return reverted, fmt.Errorf("revert migration %d (%s): %w", v, down.Description, err)
		}
		r.log.Info("Migrate", "migration reverted", map[string]interface{}{"version": v})
		reverted = append(reverted, v)
	}
	return reverted, nil
}

// Status lists every known up migration with its applied state.
func (r *Runner) Status(ctx context.Context) ([]Status, error) {
	applied, err := r.history(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]Status, 0, len(r.ups))
	for _, m := range r.ups {
		s := Status{Version: m.Version, Description: m.Description}
		if row, ok := applied[m.Version]; ok && row.Success {
			s.Applied = true
			s.InstalledOn = time.UnixMilli(row.InstalledOn)
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *Runner) history(ctx context.Context) (map[int64]AppliedMigration, error) {
	db := r.db.WithContext(ctx)
	if err := db.AutoMigrate(&AppliedMigration{}); err != nil {
		return nil, fmt.Errorf("prepare migration history: %w", err)
	}

	var rows []AppliedMigration
	if err := db.Order("version").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("read migration history: %w", err)
	}

	applied := make(map[int64]AppliedMigration, len(rows))
	for _, row := range rows {
		applied[row.Version] = row
	}
	return applied, nil
}

func (r *Runner) verify(applied map[int64]AppliedMigration) error {
	known := make(map[int64]Migration, len(r.ups))
	for _, m := range r.ups {
		known[m.Version] = m
	}

	for version, row := range applied {
		if !row.Success {
			return fmt.Errorf("%w: version %d", ErrDirty, version)
		}
		m, ok := known[version]
		if !ok {
			return fmt.Errorf("%w: version %d", ErrMissingMigration, version)
		}
		if m.Checksum() != row.Checksum {
			return fmt.Errorf("%w: version %d", ErrChecksumMismatch, version)
		}
	}
	return nil
}

// IsMigrationError reports whether err came from history verification.
func IsMigrationError(err error) bool {
	return errors.Is(err, ErrDirty) ||
		errors.Is(err, ErrMissingMigration) ||
		errors.Is(err, ErrChecksumMismatch)
}
