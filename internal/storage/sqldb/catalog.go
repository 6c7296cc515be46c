package sqldb

import (
	"context"
	"fmt"

	"github.com/pafou/PLANDECH-back/internal/models"
)

// CreateTeam inserts a team and sets its ID.
func (s *Store) CreateTeam(ctx context.Context, team *models.Team) error {
	query := `INSERT INTO teams (label) VALUES (?) RETURNING id`
	if err := s.db.GetContext(ctx, &team.ID, s.db.Rebind(query), team.Label); err != nil {
		return fmt.Errorf("failed to create team: %w", err)
	}
	return nil
}

// CreatePerson inserts a person and sets its ID.
func (s *Store) CreatePerson(ctx context.Context, person *models.Person) error {
	query := `INSERT INTO persons (name, firstname, team_id) VALUES (?, ?, ?) RETURNING id`
	err := s.db.GetContext(ctx, &person.ID, s.db.Rebind(query),
		person.Name, person.Firstname, person.TeamID,
	)
	if err != nil {
		return fmt.Errorf("failed to create person: %w", err)
	}
	return nil
}

// CreateSubjectType inserts a subject type and sets its ID.
func (s *Store) CreateSubjectType(ctx context.Context, st *models.SubjectType) error {
	query := `INSERT INTO subject_types (label, color_hex) VALUES (?, ?) RETURNING id`
	if err := s.db.GetContext(ctx, &st.ID, s.db.Rebind(query), st.Label, st.ColorHex); err != nil {
		return fmt.Errorf("failed to create subject type: %w", err)
	}
	return nil
}

// CreateSubject inserts a subject and sets its ID.
func (s *Store) CreateSubject(ctx context.Context, subject *models.Subject) error {
	query := `INSERT INTO subjects (label, subject_type_id) VALUES (?, ?) RETURNING id`
	err := s.db.GetContext(ctx, &subject.ID, s.db.Rebind(query), subject.Label, subject.TypeID)
	if err != nil {
		return fmt.Errorf("failed to create subject: %w", err)
	}
	return nil
}
