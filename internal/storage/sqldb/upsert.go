package sqldb

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/pafou/PLANDECH-back/internal/month"
)

// Each upsert is a single conflict-aware statement, so two concurrent
// writers for the same key cannot both insert.
const (
	upsertCommentQuery = `
		INSERT INTO comments (person_id, subject_id, body)
		VALUES (?, ?, ?)
		ON CONFLICT (person_id, subject_id) DO UPDATE SET body = excluded.body
	`

	upsertEntryQuery = `
		INSERT INTO workload_entries (person_id, subject_id, month, load)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (person_id, subject_id, month) DO UPDATE SET load = excluded.load
	`
)

// writer implements storage.Writer over a *sqlx.DB or a *sqlx.Tx.
type writer struct {
	conn sqlx.ExtContext
}

// UpsertComment sets the comment for (personID, subjectID).
func (w writer) UpsertComment(ctx context.Context, personID, subjectID int64, text string) error {
	_, err := w.conn.ExecContext(ctx, w.conn.Rebind(upsertCommentQuery), personID, subjectID, text)
	if err != nil {
		return fmt.Errorf("failed to upsert comment: %w", err)
	}
	return nil
}

// UpsertWorkloadEntry sets the load for (personID, subjectID, m).
func (w writer) UpsertWorkloadEntry(ctx context.Context, personID, subjectID int64, m month.Month, load int) error {
	_, err := w.conn.ExecContext(ctx, w.conn.Rebind(upsertEntryQuery), personID, subjectID, m, load)
	if err != nil {
		return fmt.Errorf("failed to upsert workload entry: %w", err)
	}
	return nil
}
