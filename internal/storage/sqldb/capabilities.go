package sqldb

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/pafou/PLANDECH-back/internal/storage"
)

// resolveCapabilities decides the optional schema features once, either
// from the configured mode or by reading the catalog.
func resolveCapabilities(ctx context.Context, db *sqlx.DB, d Dialect, mode TeamColumnMode) (storage.Capabilities, error) {
	switch mode {
	case TeamColumnOn:
		return storage.Capabilities{EntryTeamColumn: true}, nil
	case TeamColumnOff:
		return storage.Capabilities{EntryTeamColumn: false}, nil
	case TeamColumnAuto, "":
		has, err := hasColumn(ctx, db, d, "workload_entries", "team_id")
		if err != nil {
			return storage.Capabilities{}, err
		}
		return storage.Capabilities{EntryTeamColumn: has}, nil
	default:
		return storage.Capabilities{}, fmt.Errorf("unsupported team column mode %q", mode)
	}
}

func hasColumn(ctx context.Context, db *sqlx.DB, d Dialect, table, column string) (bool, error) {
	var query string
	switch d {
	case SQLite:
		query = `SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`
	case Postgres:
		query = `SELECT COUNT(*) FROM information_schema.columns
			WHERE table_schema = current_schema() AND table_name = ? AND column_name = ?`
	default:
		return false, fmt.Errorf("unsupported dialect %q", d)
	}

	var n int
	if err := db.GetContext(ctx, &n, db.Rebind(query), table, column); err != nil {
		return false, fmt.Errorf("failed to inspect column %s.%s: %w", table, column, err)
	}
	return n > 0, nil
}
