// Package migrations embeds the goose schema migrations for the SQL
// key-value store and applies them.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"
)

//go:embed sqlite/*.sql postgres/*.sql
var Migrations embed.FS

// goose keeps its base FS and dialect in package globals.
var mu sync.Mutex

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// Run applies all pending migrations for the given driver ("sqlite" or
// "postgres") to db.
func Run(ctx context.Context, db *sql.DB, driver string) error {
	var dialect, dir string
	switch driver {
	case "sqlite":
		dialect, dir = "sqlite3", "sqlite"
	case "postgres":
		dialect, dir = "pgx", "postgres"
	default:
		return fmt.Errorf("no migrations for driver %q", driver)
	}

	mu.Lock()
	defer mu.Unlock()

	goose.SetBaseFS(Migrations)
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	goose.SetLogger(goose.NopLogger())

	if err := gooseUpContext(ctx, db, dir); err != nil {
		return fmt.Errorf("migrate %s: %w", driver, err)
	}
	return nil
}
