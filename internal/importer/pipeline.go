package importer

import (
	"context"
	"errors"
	"fmt"

	"github.com/pafou/PLANDECH-back/internal/storage"
)

// SkipCode identifies the validation rule a row failed.
type SkipCode string

const (
	SkipPersonNotFound  SkipCode = "person_not_found"
	SkipSubjectNotFound SkipCode = "subject_not_found"
	SkipTypeNotFound    SkipCode = "type_not_found"
	SkipTypeMismatch    SkipCode = "type_mismatch"
)

// Reasons reported to clients for each skip code.
const (
	ReasonPersonNotFound  = "Person not found"
	ReasonSubjectNotFound = "Subject not found"
	ReasonTypeNotFound    = "Type not found"
)

// Skip explains why a row was not imported.
type Skip struct {
	Code   SkipCode
	Reason string
}

func typeMismatch(declared string) *Skip {
	return &Skip{
		Code:   SkipTypeMismatch,
		Reason: fmt.Sprintf("Type %s does not match subject's type", declared),
	}
}

// Decision is the outcome of checking one row. Skip is nil for accepted
// rows, which then carry the resolved ids.
type Decision struct {
	Skip *Skip

	PersonID  int64
	SubjectID int64
	TypeID    int64
}

// Accepted reports whether the row passed every check.
func (d Decision) Accepted() bool { return d.Skip == nil }

// Pipeline runs the ordered validation checks of an import row.
type Pipeline struct {
	resolver storage.Resolver
}

// NewPipeline creates a pipeline resolving identities through r.
func NewPipeline(r storage.Resolver) *Pipeline {
	return &Pipeline{resolver: r}
}

// Check applies, in order and stopping at the first failure: person lookup,
// subject lookup, type lookup, and the subject/type consistency check.
// A failed check is a Skip; only storage failures are returned as errors.
func (p *Pipeline) Check(ctx context.Context, row Row) (Decision, error) {
	personID, err := p.resolver.ResolvePerson(ctx, row.Name, row.Firstname)
	if err != nil {
		return skipOn(err, &Skip{Code: SkipPersonNotFound, Reason: ReasonPersonNotFound})
	}

	subject, err := p.resolver.ResolveSubject(ctx, row.Subject)
	if err != nil {
		return skipOn(err, &Skip{Code: SkipSubjectNotFound, Reason: ReasonSubjectNotFound})
	}

	typeID, err := p.resolver.ResolveSubjectType(ctx, row.Type)
	if err != nil {
		return skipOn(err, &Skip{Code: SkipTypeNotFound, Reason: ReasonTypeNotFound})
	}

	if subject.HasType() && *subject.TypeID != typeID {
		return Decision{Skip: typeMismatch(row.Type)}, nil
	}

	return Decision{
		PersonID:  personID,
		SubjectID: subject.ID,
		TypeID:    typeID,
	}, nil
}

func skipOn(err error, skip *Skip) (Decision, error) {
	if errors.Is(err, storage.ErrNotFound) {
		return Decision{Skip: skip}, nil
	}
	return Decision{}, err
}
