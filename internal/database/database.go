// Package database opens the local SQLite file behind a "sqlite:" connection
// URL and brings its schema up to date before anything else touches it.
package database

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"kronosphere/internal/logger"
	"kronosphere/internal/migrate"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

const (
	scheme = "sqlite:"
	memory = ":memory:"

	pragmas = "_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
)

var ErrUnsupportedURL = errors.New("unsupported database url")

type Options struct {
	DataDir    string
	Logger     logger.Logger
	Migrations []migrate.Migration

	// SkipMigrations leaves the schema untouched; callers drive a
	// migrate.Runner themselves.
	SkipMigrations bool
}

// ResolvePath turns a connection URL into a filesystem path. Relative paths
// resolve against dataDir; "sqlite::memory:" stays in memory.
func ResolvePath(url, dataDir string) (string, error) {
	if !strings.HasPrefix(url, scheme) {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedURL, url)
	}

	path := strings.TrimPrefix(url, scheme)
	path = strings.TrimPrefix(path, "//")
	if path == "" {
		return "", fmt.Errorf("%w: %q has no path", ErrUnsupportedURL, url)
	}
	if path == memory {
		return memory, nil
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}
	return filepath.Join(dataDir, path), nil
}

// Open opens the database named by url and applies opts.Migrations.
func Open(ctx context.Context, url string, opts Options) (*gorm.DB, error) {
	log := opts.Logger
	if log == nil {
		log = logger.NoOpLogger{}
	}

	path, err := ResolvePath(url, opts.DataDir)
	if err != nil {
		return nil, err
	}
	if path != memory {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path+"?"+pragmas), &gorm.Config{
		Logger: NewGormLogger(log),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// One connection serialises writers and keeps ":memory:" a single database.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping %s: %w", path, err)
	}

	log.Info("Database", "database opened", map[string]interface{}{
		"path": path,
	})

	if opts.SkipMigrations {
		return db, nil
	}

	runner, err := migrate.NewRunner(db, opts.Migrations, log)
	if err != nil {
		sqlDB.Close()
		return nil, err
	}
	if _, err := runner.Apply(ctx); err != nil {
		sqlDB.Close()
		return nil, err
	}

	return db, nil
}

// Ping checks that the underlying connection is still usable.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
