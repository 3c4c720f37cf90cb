package kv

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrijs2005/medibook/internal/migrations"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// DefaultNamespace prefixes every Redis key written by MediBook.
const DefaultNamespace = "medibook:"

// Options selects and configures a backend.
type Options struct {
	Driver        string
	DSN           string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// runMigrations is a seam for tests.
var runMigrations = migrations.Run

// Open creates the configured Store. SQL backends are migrated before use and
// Redis is pinged.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case DriverMemory:
		return NewMemory(), nil

	case DriverSQLite:
		db, err := sql.Open("sqlite", opts.DSN)
		if err != nil {
			return nil, fmt.Errorf("db open error: %w", err)
		}
		// SQLite allows a single writer.
		db.SetMaxOpenConns(1)
		if err := runMigrations(ctx, db, DriverSQLite); err != nil {
			_ = db.Close()
			return nil, err
		}
		return NewSQLStore(db, DialectSQLite), nil

	case DriverPostgres:
		db, err := sql.Open("pgx", opts.DSN)
		if err != nil {
			return nil, fmt.Errorf("db open error: %w", err)
		}
		if err := runMigrations(ctx, db, DriverPostgres); err != nil {
			_ = db.Close()
			return nil, err
		}
		return NewSQLStore(db, DialectPostgres), nil

	case DriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     opts.RedisAddr,
			Password: opts.RedisPassword,
			DB:       opts.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("redis ping %s: %w", opts.RedisAddr, err)
		}
		return NewRedisStore(client, DefaultNamespace), nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", opts.Driver)
}
