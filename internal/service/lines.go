package service

import (
	"context"
	"fmt"

	"github.com/pafou/PLANDECH-back/internal/month"
	"github.com/pafou/PLANDECH-back/internal/storage"
)

// addLine resolves the person and subject by natural key. Neither is ever
// created here.
func (s *WorkloadService) addLine(ctx context.Context, req AddLineRequest) ([]LineRow, error) {
	personID, err := s.store.ResolvePerson(ctx, req.Name, req.Firstname)
	if err != nil {
		return nil, err
	}
	subject, err := s.store.ResolveSubject(ctx, req.Subject)
	if err != nil {
		return nil, err
	}
	return s.ensureLine(ctx, personID, subject.ID, req.Team, month.DateCodec)
}

func (s *WorkloadService) addLineByID(ctx context.Context, req AddLineByIDRequest) ([]LineRow, error) {
	if err := s.requirePair(ctx, req.PersonID, req.SubjectID); err != nil {
		return nil, err
	}
	return s.ensureLine(ctx, req.PersonID, req.SubjectID, "", month.KeyCodec)
}

// ensureLine creates the zero-load entry of the current month unless it
// exists, then returns the joined view. The response does not tell the two
// cases apart.
func (s *WorkloadService) ensureLine(ctx context.Context, personID, subjectID int64, team string, codec month.Codec) ([]LineRow, error) {
	current := month.Of(s.now())

	if err := s.store.EnsureLine(ctx, personID, subjectID, current, team); err != nil {
		return nil, err
	}

	views, err := s.store.LineRows(ctx, personID, subjectID, current)
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, fmt.Errorf("line for person %d subject %d in %s: %w", personID, subjectID, current, storage.ErrNotFound)
	}
	return lineRowsFrom(views, codec), nil
}
