package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// Execer is satisfied by *sql.DB, *sqlx.DB and *sqlx.Tx.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// schemaFiles returns the create scripts in apply order.
func schemaFiles() ([]string, error) {
	names, err := fs.Glob(schemaFS, "schema/*.up.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

// CreateSchema creates every table that does not exist yet.
func CreateSchema(ctx context.Context, db Execer) error {
	names, err := schemaFiles()
	if err != nil {
		return fmt.Errorf("list schema files: %w", err)
	}

	for _, name := range names {
		body, err := schemaFS.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		if _, err := db.ExecContext(ctx, string(body)); err != nil {
			return fmt.Errorf("apply %s: %w", strings.TrimPrefix(name, "schema/"), err)
		}
	}
	return nil
}

// DropSchema removes every application table.
func DropSchema(ctx context.Context, db Execer) error {
	body, err := schemaFS.ReadFile("schema/drop.sql")
	if err != nil {
		return fmt.Errorf("read drop script: %w", err)
	}
	if _, err := db.ExecContext(ctx, string(body)); err != nil {
		return fmt.Errorf("drop schema: %w", err)
	}
	return nil
}
