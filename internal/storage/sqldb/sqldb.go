// Package sqldb provides the SQL implementation of storage.Store for SQLite
// and PostgreSQL. Queries are written once with "?" placeholders and rebound
// for the active driver.
package sqldb

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/pafou/PLANDECH-back/internal/storage"
)

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

// Dialect selects the SQL backend.
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

func (d Dialect) driverName() (string, error) {
	switch d {
	case SQLite:
		return "sqlite", nil
	case Postgres:
		return "pgx", nil
	default:
		return "", fmt.Errorf("unsupported dialect %q", d)
	}
}

// TeamColumnMode controls how Capabilities.EntryTeamColumn is decided.
type TeamColumnMode string

const (
	TeamColumnAuto TeamColumnMode = "auto"
	TeamColumnOn   TeamColumnMode = "on"
	TeamColumnOff  TeamColumnMode = "off"
)

// Options configures Open.
type Options struct {
	Dialect Dialect

	// DSN is a file path for SQLite and a connection URL for PostgreSQL.
	DSN string

	// Migrate applies the embedded schema migrations on open.
	Migrate bool

	// MaxOpenConns bounds the PostgreSQL pool. SQLite always uses one
	// connection so writers never contend for the file lock.
	MaxOpenConns int

	TeamColumn TeamColumnMode
}

// Store implements storage.Store on top of sqlx.
type Store struct {
	writer
	db      *sqlx.DB
	dialect Dialect
	caps    storage.Capabilities
}

// Open connects to the database described by opts, runs migrations when
// asked to, and resolves schema capabilities once.
func Open(ctx context.Context, opts Options) (*Store, error) {
	driver, err := opts.Dialect.driverName()
	if err != nil {
		return nil, err
	}

	dsn := opts.DSN
	if opts.Dialect == SQLite {
		dsn, err = sqliteDSN(opts.DSN)
		if err != nil {
			return nil, err
		}
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if opts.Migrate {
		if err := runMigrations(ctx, db.DB, opts.Dialect); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	s, err := New(ctx, db, opts.Dialect, opts.TeamColumn)
	if err != nil {
		db.Close()
		return nil, err
	}

	if opts.Dialect == SQLite {
		db.SetMaxOpenConns(1)
	} else if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
	}
	return s, nil
}

// New wraps an already opened database. The schema is expected to exist.
func New(ctx context.Context, db *sqlx.DB, dialect Dialect, mode TeamColumnMode) (*Store, error) {
	caps, err := resolveCapabilities(ctx, db, dialect, mode)
	if err != nil {
		return nil, err
	}
	return &Store{
		writer:  writer{conn: db},
		db:      db,
		dialect: dialect,
		caps:    caps,
	}, nil
}

// sqliteDSN creates the parent directory and enables foreign keys and a
// busy timeout on every connection.
func sqliteDSN(path string) (string, error) {
	file, _, _ := strings.Cut(path, "?")
	file = strings.TrimPrefix(file, "file:")
	if file != "" && file != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
			return "", fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", nil
}

// Dialect reports the active backend.
func (s *Store) Dialect() Dialect { return s.dialect }

// Capabilities returns the schema features resolved at open time.
func (s *Store) Capabilities() storage.Capabilities { return s.caps }

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// InTx runs fn inside one transaction. fn must only use the Writer it is
// given; the SQLite pool holds a single connection.
func (s *Store) InTx(ctx context.Context, fn func(storage.Writer) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(writer{conn: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
