package service

import (
	"encoding/json"

	"github.com/pafou/PLANDECH-back/internal/models"
	"github.com/pafou/PLANDECH-back/internal/month"
)

// Procedure names of workload.v1.WorkloadService.
const (
	WorkloadServiceName = "workload.v1.WorkloadService"

	ImportWorkloadProcedure = "/" + WorkloadServiceName + "/ImportWorkload"
	AddLineProcedure        = "/" + WorkloadServiceName + "/AddLine"
	AddLineByIDProcedure    = "/" + WorkloadServiceName + "/AddLineByID"
	SubmitLoadProcedure     = "/" + WorkloadServiceName + "/SubmitLoad"
	UpdateCommentProcedure  = "/" + WorkloadServiceName + "/UpdateComment"
	GetPivotProcedure       = "/" + WorkloadServiceName + "/GetPivot"
)

// ImportWorkloadRequest carries the rows to import. Data must be an array.
type ImportWorkloadRequest struct {
	Data json.RawMessage `json:"data"`
}

// AddLineRequest identifies a line by natural keys. Empty values are matched
// like any other; a key that does not resolve is not_found.
type AddLineRequest struct {
	Name      string `json:"name"`
	Firstname string `json:"firstname"`
	Subject   string `json:"subject"`
	Team      string `json:"team,omitempty"`
}

// AddLineByIDRequest identifies a line by surrogate ids.
type AddLineByIDRequest struct {
	PersonID  int64 `json:"personId" validate:"gt=0"`
	SubjectID int64 `json:"subjectId" validate:"gt=0"`
}

// AddLineResponse is the joined view of the current-month entry.
type AddLineResponse struct {
	Rows []LineRow `json:"rows"`
}

func (r *AddLineResponse) LogAttrs() []any { return []any{"rows", len(r.Rows)} }

// LineRow is one joined workload line. Month is encoded by the codec of the
// entry point that produced it.
type LineRow struct {
	PersonID  int64   `json:"personId"`
	SubjectID int64   `json:"subjectId"`
	Name      string  `json:"name"`
	Firstname string  `json:"firstname"`
	Subject   string  `json:"subject"`
	Type      *string `json:"type"`
	Comment   *string `json:"comment"`
	Month     any     `json:"month"`
	Load      int     `json:"load"`
	Team      *string `json:"team"`
}

func lineRowsFrom(views []models.LineView, codec month.Codec) []LineRow {
	rows := make([]LineRow, len(views))
	for i, v := range views {
		rows[i] = LineRow{
			PersonID:  v.PersonID,
			SubjectID: v.SubjectID,
			Name:      v.Name,
			Firstname: v.Firstname,
			Subject:   v.Subject,
			Month:     codec.Encode(v.Month),
			Load:      v.Load,
		}
		if v.Type.Valid {
			rows[i].Type = &v.Type.String
		}
		if v.Comment.Valid {
			rows[i].Comment = &v.Comment.String
		}
		if v.Team.Valid {
			rows[i].Team = &v.Team.String
		}
	}
	return rows
}

// SubmitLoadRequest sets the load of one entry. Month accepts YYYYMM,
// YYYY-MM or a first-of-month date.
type SubmitLoadRequest struct {
	PersonID  int64       `json:"personId" validate:"gt=0"`
	SubjectID int64       `json:"subjectId" validate:"gt=0"`
	Month     month.Month `json:"month"`
	Load      int         `json:"load"`
}

// UpdateCommentRequest sets the comment of a (person, subject) pair.
type UpdateCommentRequest struct {
	PersonID  int64  `json:"personId" validate:"gt=0"`
	SubjectID int64  `json:"subjectId" validate:"gt=0"`
	Comment   string `json:"comment"`
}

// MessageResponse acknowledges a write.
type MessageResponse struct {
	Message string `json:"message"`
}

// GetPivotRequest has no fields.
type GetPivotRequest struct{}
