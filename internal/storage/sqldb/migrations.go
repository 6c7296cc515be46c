package sqldb

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"path"

	"github.com/pressly/goose/v3"
)

// migrationsFS holds one directory of goose migrations per dialect. Both
// directories describe the same schema.
//
//go:embed migrations
var migrationsFS embed.FS

func gooseDialect(d Dialect) (goose.Dialect, error) {
	switch d {
	case SQLite:
		return goose.DialectSQLite3, nil
	case Postgres:
		return goose.DialectPostgres, nil
	default:
		return "", fmt.Errorf("unsupported dialect %q", d)
	}
}

// runMigrations applies every pending migration for the dialect.
func runMigrations(ctx context.Context, db *sql.DB, d Dialect) error {
	dialect, err := gooseDialect(d)
	if err != nil {
		return err
	}
	fsys, err := fs.Sub(migrationsFS, path.Join("migrations", string(d)))
	if err != nil {
		return err
	}

	provider, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return fmt.Errorf("failed to create migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return err
	}
	for _, r := range results {
		slog.Info("Migration applied",
			"dialect", d,
			"version", r.Source.Version,
			"duration_ms", r.Duration.Milliseconds(),
		)
	}
	return nil
}

// Migrate opens the database, applies migrations and closes it again.
func Migrate(ctx context.Context, opts Options) error {
	opts.Migrate = true
	s, err := Open(ctx, opts)
	if err != nil {
		return err
	}
	return s.Close()
}
