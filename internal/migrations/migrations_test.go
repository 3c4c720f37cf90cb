package migrations

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&n)
	require.NoError(t, err)
	return n > 0
}

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "medibook.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestRun_SQLiteCreatesKVTable(t *testing.T) {
	db := openSQLite(t)

	require.NoError(t, Run(context.Background(), db, "sqlite"))

	assert.True(t, tableExists(t, db, "kv"))
	assert.True(t, tableExists(t, db, "goose_db_version"))
}

func TestRun_IsIdempotent(t *testing.T) {
	db := openSQLite(t)
	ctx := context.Background()

	require.NoError(t, Run(ctx, db, "sqlite"))
	require.NoError(t, Run(ctx, db, "sqlite"))

	_, err := db.ExecContext(ctx, `INSERT INTO kv (key, value) VALUES ('k', x'01')`)
	require.NoError(t, err)
}

func TestRun_UnknownDriver(t *testing.T) {
	err := Run(context.Background(), nil, "mysql")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mysql")
}

func TestRun_PostgresUsesPostgresDir(t *testing.T) {
	orig := gooseUpContext
	t.Cleanup(func() { gooseUpContext = orig })

	var gotDir string
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		gotDir = dir
		return errors.New("boom")
	}

	err := Run(context.Background(), nil, "postgres")
	require.Error(t, err)
	assert.Equal(t, "postgres", gotDir)
	assert.Contains(t, err.Error(), "boom")
}

func TestMigrations_EmbedsBothDialects(t *testing.T) {
	for _, dir := range []string{"sqlite", "postgres"} {
		entries, err := Migrations.ReadDir(dir)
		require.NoError(t, err)
		assert.NotEmpty(t, entries, dir)
	}
}
