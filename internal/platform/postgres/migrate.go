package postgres

import (
	"context"
	"database/sql"
	"embed"
	"io/fs"

	"github.com/phrazzld/repeat/internal/platform/migrate"
	"github.com/pressly/goose/v3/database"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

// Migrations returns the schema migrations of this package.
func Migrations() fs.FS {
	sub, err := fs.Sub(embeddedMigrations, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

// Migrate runs cmd against db with the embedded migrations.
func Migrate(ctx context.Context, db *sql.DB, cmd migrate.Command) error {
	return migrate.Run(ctx, cmd, database.DialectPostgres, db, Migrations())
}
