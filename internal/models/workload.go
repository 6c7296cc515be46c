package models

import (
	"database/sql"

	"github.com/pafou/PLANDECH-back/internal/month"
)

// LineView is the joined view of one workload entry returned by the
// line-creation endpoints.
type LineView struct {
	PersonID  int64          `db:"person_id"`
	SubjectID int64          `db:"subject_id"`
	Name      string         `db:"name"`
	Firstname string         `db:"firstname"`
	Subject   string         `db:"subject"`
	Type      sql.NullString `db:"type"`
	Comment   sql.NullString `db:"comment"`
	Month     month.Month    `db:"month"`
	Load      int            `db:"load"`
	Team      sql.NullString `db:"team"`
}

// WorkloadRow is one normalized (person, subject, month, load) row with the
// labels needed by the pivot view.
type WorkloadRow struct {
	Name      string         `db:"name"`
	Firstname string         `db:"firstname"`
	Subject   string         `db:"subject"`
	Type      sql.NullString `db:"type"`
	Comment   sql.NullString `db:"comment"`
	Month     month.Month    `db:"month"`
	Load      int            `db:"load"`
}
