package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/go-playground/validator/v10"

	"github.com/pafou/PLANDECH-back/internal/importer"
	"github.com/pafou/PLANDECH-back/internal/metrics"
	"github.com/pafou/PLANDECH-back/internal/month"
	"github.com/pafou/PLANDECH-back/internal/pivot"
	"github.com/pafou/PLANDECH-back/internal/storage"
)

var (
	// ErrInvalidRequest marks request DTOs that fail validation.
	ErrInvalidRequest = errors.New("invalid request")

	errInternal = errors.New("internal server error")
)

// WorkloadService implements workload.v1.WorkloadService and the HTML and
// spreadsheet views.
type WorkloadService struct {
	store    storage.Store
	importer *importer.Importer
	validate *validator.Validate

	// now is the clock used to pick the current month.
	now func() time.Time
}

// NewWorkloadService creates a new WorkloadService with the given storage backend.
func NewWorkloadService(store storage.Store) *WorkloadService {
	return &WorkloadService{
		store:    store,
		importer: importer.New(store),
		validate: validator.New(),
		now:      time.Now,
	}
}

// ImportWorkload reconciles a batch of rows against the store.
func (s *WorkloadService) ImportWorkload(ctx context.Context, req *connect.Request[ImportWorkloadRequest]) (*connect.Response[importer.Summary], error) {
	slog.Info("ImportWorkload request received", "payload_bytes", len(req.Msg.Data))

	rows, err := importer.DecodeRows(req.Msg.Data)
	if err != nil {
		return nil, toConnectError("ImportWorkload", err)
	}

	summary, err := s.importer.Import(ctx, rows)
	if err != nil {
		return nil, toConnectError("ImportWorkload", err)
	}

	return connect.NewResponse(&summary), nil
}

// AddLine ensures the current-month line exists for a person and subject
// given by natural keys. Months are rendered as first-of-month dates.
func (s *WorkloadService) AddLine(ctx context.Context, req *connect.Request[AddLineRequest]) (*connect.Response[AddLineResponse], error) {
	slog.Info("AddLine request received",
		"name", req.Msg.Name,
		"firstname", req.Msg.Firstname,
		"subject", req.Msg.Subject,
	)

	if err := s.check(req.Msg); err != nil {
		return nil, toConnectError("AddLine", err)
	}

	rows, err := s.addLine(ctx, *req.Msg)
	metrics.LineEnsured("natural_key", err)
	if err != nil {
		return nil, toConnectError("AddLine", err)
	}

	return connect.NewResponse(&AddLineResponse{Rows: rows}), nil
}

// AddLineByID is AddLine for surrogate ids. Months are rendered as YYYYMM.
func (s *WorkloadService) AddLineByID(ctx context.Context, req *connect.Request[AddLineByIDRequest]) (*connect.Response[AddLineResponse], error) {
	slog.Info("AddLineByID request received",
		"person_id", req.Msg.PersonID,
		"subject_id", req.Msg.SubjectID,
	)

	if err := s.check(req.Msg); err != nil {
		return nil, toConnectError("AddLineByID", err)
	}

	rows, err := s.addLineByID(ctx, *req.Msg)
	metrics.LineEnsured("surrogate_id", err)
	if err != nil {
		return nil, toConnectError("AddLineByID", err)
	}

	return connect.NewResponse(&AddLineResponse{Rows: rows}), nil
}

// SubmitLoad sets the load of one (person, subject, month) entry.
func (s *WorkloadService) SubmitLoad(ctx context.Context, req *connect.Request[SubmitLoadRequest]) (*connect.Response[MessageResponse], error) {
	slog.Info("SubmitLoad request received",
		"person_id", req.Msg.PersonID,
		"subject_id", req.Msg.SubjectID,
		"month", req.Msg.Month.String(),
		"load", req.Msg.Load,
	)

	if err := s.check(req.Msg); err != nil {
		return nil, toConnectError("SubmitLoad", err)
	}
	if req.Msg.Month.IsZero() {
		return nil, toConnectError("SubmitLoad", fmt.Errorf("%w: month is required", ErrInvalidRequest))
	}
	if err := s.requirePair(ctx, req.Msg.PersonID, req.Msg.SubjectID); err != nil {
		return nil, toConnectError("SubmitLoad", err)
	}

	if err := s.store.UpsertWorkloadEntry(ctx, req.Msg.PersonID, req.Msg.SubjectID, req.Msg.Month, req.Msg.Load); err != nil {
		return nil, toConnectError("SubmitLoad", err)
	}
	metrics.Upsert("entry", "submit")

	return connect.NewResponse(&MessageResponse{Message: "Record saved successfully"}), nil
}

// UpdateComment sets the comment of a (person, subject) pair.
func (s *WorkloadService) UpdateComment(ctx context.Context, req *connect.Request[UpdateCommentRequest]) (*connect.Response[MessageResponse], error) {
	slog.Info("UpdateComment request received",
		"person_id", req.Msg.PersonID,
		"subject_id", req.Msg.SubjectID,
	)

	if err := s.check(req.Msg); err != nil {
		return nil, toConnectError("UpdateComment", err)
	}
	if err := s.requirePair(ctx, req.Msg.PersonID, req.Msg.SubjectID); err != nil {
		return nil, toConnectError("UpdateComment", err)
	}

	if err := s.store.UpsertComment(ctx, req.Msg.PersonID, req.Msg.SubjectID, req.Msg.Comment); err != nil {
		return nil, toConnectError("UpdateComment", err)
	}
	metrics.Upsert("comment", "submit")

	return connect.NewResponse(&MessageResponse{Message: "Comment saved successfully"}), nil
}

// GetPivot returns the dense month matrix of every workload entry.
func (s *WorkloadService) GetPivot(ctx context.Context, req *connect.Request[GetPivotRequest]) (*connect.Response[pivot.Table], error) {
	slog.Info("GetPivot request received")

	table, err := s.buildPivot(ctx)
	if err != nil {
		return nil, toConnectError("GetPivot", err)
	}

	return connect.NewResponse(&table), nil
}

func (s *WorkloadService) buildPivot(ctx context.Context) (pivot.Table, error) {
	rows, err := s.store.WorkloadRows(ctx)
	if err != nil {
		return pivot.Table{}, err
	}
	table := pivot.Build(pivot.FromWorkloadRows(rows))
	metrics.PivotBuilt(len(table.Rows))
	return table, nil
}

func (s *WorkloadService) requirePair(ctx context.Context, personID, subjectID int64) error {
	ok, err := s.store.PersonExists(ctx, personID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("person %d: %w", personID, storage.ErrNotFound)
	}

	ok, err = s.store.SubjectExists(ctx, subjectID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("subject %d: %w", subjectID, storage.ErrNotFound)
	}
	return nil
}

// check validates a request DTO against its struct tags.
func (s *WorkloadService) check(msg any) error {
	err := s.validate.Struct(msg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, len(verrs))
		for i, fe := range verrs {
			fields[i] = fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag())
		}
		return fmt.Errorf("%w: %s", ErrInvalidRequest, strings.Join(fields, ", "))
	}
	return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
}

// toConnectError maps domain errors to Connect codes. Anything unexpected is
// logged and reported as a generic internal error.
func toConnectError(op string, err error) error {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, importer.ErrInvalidPayload),
		errors.Is(err, importer.ErrInvalidRow),
		errors.Is(err, month.ErrMalformedMonth):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	default:
		slog.Error(op+" failed", "error", err)
		return connect.NewError(connect.CodeInternal, errInternal)
	}
}
