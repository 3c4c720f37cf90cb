package kv

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_Memory(t *testing.T) {
	s, err := Open(context.Background(), Options{Driver: DriverMemory})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, s)
}

func TestOpen_SQLiteMigrates(t *testing.T) {
	s, err := Open(context.Background(), Options{Driver: DriverSQLite, DSN: filepath.Join(t.TempDir(), "m.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	sqlStore, ok := s.(*SQLStore)
	require.True(t, ok)

	var n int
	require.NoError(t, sqlStore.DB().QueryRow(`SELECT COUNT(*) FROM kv`).Scan(&n))
	assert.Zero(t, n)
}

func TestOpen_MigrationErrorClosesDB(t *testing.T) {
	orig := runMigrations
	t.Cleanup(func() { runMigrations = orig })
	runMigrations = func(ctx context.Context, db *sql.DB, driver string) error {
		return errors.New("migrate boom")
	}

	_, err := Open(context.Background(), Options{Driver: DriverSQLite, DSN: filepath.Join(t.TempDir(), "m.db")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migrate boom")
}

func TestOpen_Redis(t *testing.T) {
	mr := miniredis.RunT(t)

	s, err := Open(context.Background(), Options{Driver: DriverRedis, RedisAddr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.Set(context.Background(), "k", []byte("v")))
	got, err := mr.Get(DefaultNamespace + "k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestOpen_RedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := Open(context.Background(), Options{Driver: DriverRedis, RedisAddr: addr})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis ping")
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), Options{Driver: "cassandra"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cassandra")
}
