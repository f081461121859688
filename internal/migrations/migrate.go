package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"

	"github.com/pressly/goose/v3"
)

//go:embed sql/*.sql
var embedded embed.FS

// Up runs all pending migrations bundled with the binary.
func Up(db *sql.DB) error {
	fsys, err := fs.Sub(embedded, "sql")
	if err != nil {
		return fmt.Errorf("open embedded migrations: %w", err)
	}
	return up(db, fsys)
}

// UpDir runs all pending SQL migrations found in migrationsDir on disk.
func UpDir(db *sql.DB, migrationsDir string) error {
	return up(db, os.DirFS(migrationsDir))
}

func up(db *sql.DB, fsys fs.FS) error {
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, fsys)
	if err != nil {
		return fmt.Errorf("create goose provider: %w", err)
	}

	if _, err := provider.Up(context.Background()); err != nil {
		return fmt.Errorf("run goose up migrations: %w", err)
	}

	return nil
}
