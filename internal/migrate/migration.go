// Package migrate applies an ordered list of versioned SQL migrations and
// records each applied version in a history table.
package migrate

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Kind tells whether a migration moves the schema forward or back.
type Kind string

const (
	Up   Kind = "up"
	Down Kind = "down"
)

var (
	ErrInvalidMigrations = errors.New("invalid migration list")
	ErrDirty             = errors.New("database has a partially applied migration")
	ErrMissingMigration  = errors.New("applied migration is missing from the list")
	ErrChecksumMismatch  = errors.New("applied migration was modified")
	ErrNoDownMigration   = errors.New("no down migration for applied version")
)

// Migration is one versioned schema change.
type Migration struct {
	Version     int64  `validate:"gte=1"`
	Description string `validate:"required"`
	SQL         string `validate:"required"`
	Kind        Kind   `validate:"oneof=up down"`
}

// Checksum identifies the SQL text of a migration.
func (m Migration) Checksum() string {
	sum := sha256.Sum256([]byte(m.SQL))
	return hex.EncodeToString(sum[:])
}

var validate = validator.New()

// Validate checks the structural invariants of a migration list: field
// rules, up versions strictly increasing from 1, and one down per up at most.
func Validate(migrations []Migration) error {
	var last int64
	ups := make(map[int64]bool)
	downs := make(map[int64]bool)

	for i, m := range migrations {
		if err := validate.Struct(m); err != nil {
			return fmt.Errorf("%w: migration #%d: %v", ErrInvalidMigrations, i, err)
		}

		switch m.Kind {
		case Up:
			if last == 0 && m.Version != 1 {
				return fmt.Errorf("%w: first version is %d, want 1", ErrInvalidMigrations, m.Version)
			}
			if m.Version <= last {
				return fmt.Errorf("%w: version %d after %d", ErrInvalidMigrations, m.Version, last)
			}
			last = m.Version
			ups[m.Version] = true
		case Down:
			if downs[m.Version] {
				return fmt.Errorf("%w: duplicate down for version %d", ErrInvalidMigrations, m.Version)
			}
			downs[m.Version] = true
		}
	}

	for version := range downs {
		if !ups[version] {
			return fmt.Errorf("%w: down for unknown version %d", ErrInvalidMigrations, version)
		}
	}
	return nil
}
