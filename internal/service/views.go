package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/pafou/PLANDECH-back/internal/importer"
	"github.com/pafou/PLANDECH-back/internal/month"
	"github.com/pafou/PLANDECH-back/internal/pivot"
	"github.com/pafou/PLANDECH-back/internal/spreadsheet"
)

const (
	maxUploadSize = 32 << 20
	xlsxMediaType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// ListAll renders the pivot as an HTML table.
func (s *WorkloadService) ListAll(w http.ResponseWriter, r *http.Request) {
	table, err := s.buildPivot(r.Context())
	if err != nil {
		slog.Error("ListAll failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	var buf bytes.Buffer
	if err := pivot.RenderHTML(&buf, table); err != nil {
		slog.Error("ListAll failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// ExportXLSX downloads the pivot as a workbook.
func (s *WorkloadService) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	table, err := s.buildPivot(r.Context())
	if err != nil {
		slog.Error("ExportXLSX failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	var buf bytes.Buffer
	if err := spreadsheet.WritePivot(&buf, table); err != nil {
		slog.Error("ExportXLSX failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	w.Header().Set("Content-Type", xlsxMediaType)
	w.Header().Set("Content-Disposition", `attachment; filename="workload.xlsx"`)
	w.Write(buf.Bytes())
}

// ImportXLSX imports the rows of an uploaded workbook ("file" form field).
// The sheet defaults to the first one and can be chosen with ?sheet=.
func (s *WorkloadService) ImportXLSX(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid data format")
		return
	}
	defer file.Close()

	rows, err := spreadsheet.ReadRows(file, r.URL.Query().Get("sheet"))
	if err != nil {
		slog.Warn("ImportXLSX rejected workbook", "error", err)
		msg := "Invalid data format"
		if errors.Is(err, month.ErrMalformedMonth) || errors.Is(err, importer.ErrInvalidRow) {
			msg = err.Error()
		}
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	summary, err := s.importer.Import(r.Context(), rows)
	if err != nil {
		slog.Error("ImportXLSX failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// Healthz reports whether the store is reachable.
func (s *WorkloadService) Healthz(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		slog.Error("Health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
