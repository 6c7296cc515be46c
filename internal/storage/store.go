// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/pafou/PLANDECH-back/internal/models"
	"github.com/pafou/PLANDECH-back/internal/month"
)

// ErrNotFound is returned when a natural or surrogate key does not resolve.
// Callers treat it as terminal for the row or request at hand.
var ErrNotFound = errors.New("not found")

// Resolver maps natural keys to surrogate identifiers.
// Lookups are exact and case-sensitive, and never insert anything.
type Resolver interface {
	// ResolvePerson returns the id of the person with this name and firstname.
	ResolvePerson(ctx context.Context, name, firstname string) (int64, error)

	// ResolveSubject returns the subject id and its current type, if any.
	ResolveSubject(ctx context.Context, label string) (models.SubjectRef, error)

	// ResolveSubjectType returns the id of the subject type with this label.
	ResolveSubjectType(ctx context.Context, label string) (int64, error)
}

// Writer holds the idempotent upserts. Each call is one atomic statement.
type Writer interface {
	// UpsertComment sets the comment text for the pair, empty text included.
	UpsertComment(ctx context.Context, personID, subjectID int64, text string) error

	// UpsertWorkloadEntry sets the load for the triple, inserting it if absent.
	UpsertWorkloadEntry(ctx context.Context, personID, subjectID int64, m month.Month, load int) error
}

// Capabilities describes optional schema features, resolved once when the
// store is opened.
type Capabilities struct {
	// EntryTeamColumn is true when workload entries carry a team reference.
	EntryTeamColumn bool
}

// Store defines the interface for workload storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL)
// without changing the service layer.
type Store interface {
	Resolver
	Writer

	// InTx runs fn with a Writer bound to a single transaction.
	InTx(ctx context.Context, fn func(Writer) error) error

	// EnsureLine inserts a zero-load entry for the triple unless one exists.
	// team is only recorded when Capabilities().EntryTeamColumn is set.
	EnsureLine(ctx context.Context, personID, subjectID int64, m month.Month, team string) error

	// LineRows returns the joined view of the entry for the triple.
	LineRows(ctx context.Context, personID, subjectID int64, m month.Month) ([]models.LineView, error)

	// WorkloadRows returns every workload entry with its labels.
	WorkloadRows(ctx context.Context) ([]models.WorkloadRow, error)

	// PersonExists and SubjectExists check surrogate ids.
	PersonExists(ctx context.Context, id int64) (bool, error)
	SubjectExists(ctx context.Context, id int64) (bool, error)

	// Catalog writers for the explicit creation path.
	CreateTeam(ctx context.Context, team *models.Team) error
	CreatePerson(ctx context.Context, person *models.Person) error
	CreateSubjectType(ctx context.Context, st *models.SubjectType) error
	CreateSubject(ctx context.Context, subject *models.Subject) error

	Capabilities() Capabilities

	// Ping checks connectivity.
	Ping(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}
