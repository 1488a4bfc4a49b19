package models

import "kronosphere/internal/migrate"

// Migrations returns the schema history of the notes database, oldest first.
// Versions only ever grow; never edit a shipped entry, append a new one.
func Migrations() []migrate.Migration {
	return []migrate.Migration{
		{
			Version:     1,
			Description: "create notes table",
			SQL: `CREATE TABLE IF NOT EXISTS notes (
				id TEXT PRIMARY KEY,
				content TEXT,
				created_at INTEGER,
				modified_at INTEGER,
				type TEXT,
				tags TEXT,
				properties JSON
			)`,
			Kind: migrate.Up,
		},
	}
}
