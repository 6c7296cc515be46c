package sqldb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pafou/PLANDECH-back/internal/models"
	"github.com/pafou/PLANDECH-back/internal/month"
)

const (
	ensureLineQuery = `
		INSERT INTO workload_entries (person_id, subject_id, month, load)
		VALUES (?, ?, ?, 0)
		ON CONFLICT (person_id, subject_id, month) DO NOTHING
	`

	ensureLineWithTeamQuery = `
		INSERT INTO workload_entries (person_id, subject_id, month, load, team_id)
		VALUES (?, ?, ?, 0, (SELECT id FROM teams WHERE label = ?))
		ON CONFLICT (person_id, subject_id, month) DO NOTHING
	`

	lineViewSelect = `
		SELECT
			p.id AS person_id,
			s.id AS subject_id,
			p.name AS name,
			p.firstname AS firstname,
			s.label AS subject,
			st.label AS type,
			c.body AS comment,
			w.month AS month,
			w.load AS load,
			t.label AS team
		FROM workload_entries w
		JOIN persons p ON w.person_id = p.id
		JOIN subjects s ON w.subject_id = s.id
		LEFT JOIN comments c ON w.person_id = c.person_id AND w.subject_id = c.subject_id
		LEFT JOIN teams t ON p.team_id = t.id
		LEFT JOIN subject_types st ON s.subject_type_id = st.id
	`

	workloadRowsQuery = `
		SELECT
			p.name AS name,
			p.firstname AS firstname,
			s.label AS subject,
			st.label AS type,
			c.body AS comment,
			w.month AS month,
			w.load AS load
		FROM workload_entries w
		JOIN persons p ON w.person_id = p.id
		JOIN subjects s ON w.subject_id = s.id
		LEFT JOIN comments c ON w.person_id = c.person_id AND w.subject_id = c.subject_id
		LEFT JOIN subject_types st ON s.subject_type_id = st.id
		ORDER BY p.name, p.firstname, s.label, w.month, w.id
	`
)

// EnsureLine inserts a zero-load entry for the triple unless one exists.
// An existing entry keeps its load.
func (s *Store) EnsureLine(ctx context.Context, personID, subjectID int64, m month.Month, team string) error {
	var err error
	if s.caps.EntryTeamColumn {
		teamLabel := sql.NullString{String: team, Valid: team != ""}
		_, err = s.db.ExecContext(ctx, s.db.Rebind(ensureLineWithTeamQuery), personID, subjectID, m, teamLabel)
	} else {
		_, err = s.db.ExecContext(ctx, s.db.Rebind(ensureLineQuery), personID, subjectID, m)
	}
	if err != nil {
		return fmt.Errorf("failed to ensure workload line: %w", err)
	}
	return nil
}

// LineRows returns the joined view for one (person, subject, month) entry.
func (s *Store) LineRows(ctx context.Context, personID, subjectID int64, m month.Month) ([]models.LineView, error) {
	query := lineViewSelect + ` WHERE w.person_id = ? AND w.subject_id = ? AND w.month = ?`

	rows := []models.LineView{}
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), personID, subjectID, m); err != nil {
		return nil, fmt.Errorf("failed to get workload line: %w", err)
	}
	return rows, nil
}

// WorkloadRows returns every workload entry joined with its labels.
func (s *Store) WorkloadRows(ctx context.Context) ([]models.WorkloadRow, error) {
	rows := []models.WorkloadRow{}
	if err := s.db.SelectContext(ctx, &rows, workloadRowsQuery); err != nil {
		return nil, fmt.Errorf("failed to list workload rows: %w", err)
	}
	return rows, nil
}
