package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pafou/PLANDECH-back/internal/models"
	"github.com/pafou/PLANDECH-back/internal/storage"
)

// ResolvePerson looks a person up by (name, firstname).
func (s *Store) ResolvePerson(ctx context.Context, name, firstname string) (int64, error) {
	query := `SELECT id FROM persons WHERE name = ? AND firstname = ? ORDER BY id LIMIT 1`

	var id int64
	err := s.db.GetContext(ctx, &id, s.db.Rebind(query), name, firstname)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("person %q %q: %w", name, firstname, storage.ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to resolve person: %w", err)
	}
	return id, nil
}

// ResolveSubject looks a subject up by label and returns its current type.
func (s *Store) ResolveSubject(ctx context.Context, label string) (models.SubjectRef, error) {
	query := `SELECT id, subject_type_id FROM subjects WHERE label = ? ORDER BY id LIMIT 1`

	var (
		id     int64
		typeID sql.NullInt64
	)
	err := s.db.QueryRowxContext(ctx, s.db.Rebind(query), label).Scan(&id, &typeID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.SubjectRef{}, fmt.Errorf("subject %q: %w", label, storage.ErrNotFound)
	}
	if err != nil {
		return models.SubjectRef{}, fmt.Errorf("failed to resolve subject: %w", err)
	}

	ref := models.SubjectRef{ID: id}
	if typeID.Valid {
		ref.TypeID = &typeID.Int64
	}
	return ref, nil
}

// ResolveSubjectType looks a subject type up by label.
func (s *Store) ResolveSubjectType(ctx context.Context, label string) (int64, error) {
	query := `SELECT id FROM subject_types WHERE label = ? ORDER BY id LIMIT 1`

	var id int64
	err := s.db.GetContext(ctx, &id, s.db.Rebind(query), label)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("subject type %q: %w", label, storage.ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to resolve subject type: %w", err)
	}
	return id, nil
}

// PersonExists reports whether a person with this id exists.
func (s *Store) PersonExists(ctx context.Context, id int64) (bool, error) {
	return s.exists(ctx, `SELECT COUNT(*) FROM persons WHERE id = ?`, id)
}

// SubjectExists reports whether a subject with this id exists.
func (s *Store) SubjectExists(ctx context.Context, id int64) (bool, error) {
	return s.exists(ctx, `SELECT COUNT(*) FROM subjects WHERE id = ?`, id)
}

func (s *Store) exists(ctx context.Context, query string, id int64) (bool, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, s.db.Rebind(query), id); err != nil {
		return false, fmt.Errorf("failed to check existence: %w", err)
	}
	return n > 0, nil
}
