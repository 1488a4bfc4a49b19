package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"kronosphere/internal/migrate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var items = []migrate.Migration{{
	Version:     1,
	Description: "create items",
	SQL:         "CREATE TABLE IF NOT EXISTS items (id TEXT PRIMARY KEY)",
	Kind:        migrate.Up,
}}

func TestResolvePath(t *testing.T) {
	abs := filepath.Join(string(filepath.Separator), "var", "lib", "k.db")

	tests := []struct {
		url     string
		dataDir string
		want    string
		wantErr bool
	}{
		{url: "sqlite:kronosphere.db", dataDir: "data", want: filepath.Join("data", "kronosphere.db")},
		{url: "sqlite://kronosphere.db", dataDir: ".", want: "kronosphere.db"},
		{url: "sqlite:" + abs, dataDir: "ignored", want: abs},
		{url: "sqlite::memory:", dataDir: "x", want: ":memory:"},
		{url: "sqlite:", wantErr: true},
		{url: "postgres://localhost/db", wantErr: true},
		{url: "kronosphere.db", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got, err := ResolvePath(tt.url, tt.dataDir)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedURL)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOpen_CreatesDatabaseFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	ctx := context.Background()

	db, err := Open(ctx, "sqlite:kronosphere.db", Options{DataDir: dir, Migrations: items})
	require.NoError(t, err)
	require.NoError(t, Ping(ctx, db))

	var count int64
	require.NoError(t, db.Raw("SELECT count(*) FROM items").Scan(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, Close(db))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "kronosphere.db", entries[0].Name())
}

func TestOpen_ReopenIsNoop(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		db, err := Open(ctx, "sqlite:kronosphere.db", Options{DataDir: dir, Migrations: items})
		require.NoError(t, err)

		var applied int64
		require.NoError(t, db.Table("_migrations").Count(&applied).Error)
		assert.EqualValues(t, 1, applied)
		require.NoError(t, Close(db))
	}
}

func TestOpen_Memory(t *testing.T) {
	db, err := Open(context.Background(), "sqlite::memory:", Options{Migrations: items})
	require.NoError(t, err)
	defer Close(db)

	require.NoError(t, db.Exec("INSERT INTO items (id) VALUES ('a')").Error)
	var count int64
	require.NoError(t, db.Raw("SELECT count(*) FROM items").Scan(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestOpen_RejectsBadInput(t *testing.T) {
	ctx := context.Background()

	_, err := Open(ctx, "mysql://nope", Options{DataDir: t.TempDir()})
	assert.ErrorIs(t, err, ErrUnsupportedURL)

	bad := []migrate.Migration{{Version: 3, Description: "x", SQL: "SELECT 1", Kind: migrate.Up}}
	_, err = Open(ctx, "sqlite:bad.db", Options{DataDir: t.TempDir(), Migrations: bad})
	assert.ErrorIs(t, err, migrate.ErrInvalidMigrations)
}
