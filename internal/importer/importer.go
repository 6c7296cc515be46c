// Package importer reconciles bulk workload rows against the store.
//
// Rows are processed strictly in order. Each row is resolved by natural key
// and validated; rows that fail validation are skipped with a reason, and
// accepted rows have their comment and month loads upserted in a single
// transaction. Persons, subjects and types are never created here.
package importer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pafou/PLANDECH-back/internal/metrics"
	"github.com/pafou/PLANDECH-back/internal/storage"
)

// SuccessMessage is the message of every completed import.
const SuccessMessage = "Workload data imported successfully"

// Store is the slice of storage.Store the importer needs.
type Store interface {
	storage.Resolver
	InTx(ctx context.Context, fn func(storage.Writer) error) error
}

// SkippedLine echoes the identity columns of a skipped row.
type SkippedLine struct {
	Name      string `json:"name"`
	Firstname string `json:"firstname"`
	Subject   string `json:"subject"`
	Type      string `json:"type"`
	Reason    string `json:"reason"`
}

// Summary is the result of an import request.
type Summary struct {
	ImportedCount int           `json:"importedCount"`
	Skipped       int           `json:"skipped"`
	SkippedLines  []SkippedLine `json:"skippedLines"`
	Message       string        `json:"message"`
}

// LogAttrs reports the counts of an import.
func (s *Summary) LogAttrs() []any {
	return []any{"imported", s.ImportedCount, "skipped", s.Skipped}
}

// Importer runs rows through the validation pipeline and writes accepted ones.
type Importer struct {
	store    Store
	pipeline *Pipeline
}

// New creates an Importer backed by store.
func New(store Store) *Importer {
	return &Importer{
		store:    store,
		pipeline: NewPipeline(store),
	}
}

// Import processes rows sequentially. ImportedCount counts accepted rows,
// whether or not they changed anything. A storage error aborts the import;
// rows written before it stay written.
func (im *Importer) Import(ctx context.Context, rows []Row) (Summary, error) {
	start := time.Now()
	summary := Summary{SkippedLines: []SkippedLine{}}

	for i, row := range rows {
		decision, err := im.pipeline.Check(ctx, row)
		if err != nil {
			metrics.ImportFinished(false, time.Since(start))
			return Summary{}, fmt.Errorf("failed to check row %d: %w", i+1, err)
		}

		if !decision.Accepted() {
			slog.Debug("Import row skipped",
				"row", i+1,
				"name", row.Name,
				"firstname", row.Firstname,
				"subject", row.Subject,
				"reason", decision.Skip.Reason,
			)
			metrics.ImportRow(false, string(decision.Skip.Code))
			summary.Skipped++
			summary.SkippedLines = append(summary.SkippedLines, SkippedLine{
				Name:      row.Name,
				Firstname: row.Firstname,
				Subject:   row.Subject,
				Type:      row.Type,
				Reason:    decision.Skip.Reason,
			})
			continue
		}

		if err := im.write(ctx, decision, row); err != nil {
			metrics.ImportFinished(false, time.Since(start))
			return Summary{}, fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
		metrics.ImportRow(true, "")
		summary.ImportedCount++
	}

	summary.Message = SuccessMessage
	metrics.ImportFinished(true, time.Since(start))
	slog.Info("Import completed",
		"rows", len(rows),
		"imported", summary.ImportedCount,
		"skipped", summary.Skipped,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return summary, nil
}

// write upserts the comment, then every month load, for an accepted row.
func (im *Importer) write(ctx context.Context, d Decision, row Row) error {
	return im.store.InTx(ctx, func(w storage.Writer) error {
		if err := w.UpsertComment(ctx, d.PersonID, d.SubjectID, row.Comment); err != nil {
			return err
		}
		metrics.Upsert("comment", "import")

		for _, ml := range row.Loads {
			if err := w.UpsertWorkloadEntry(ctx, d.PersonID, d.SubjectID, ml.Month, ml.Load); err != nil {
				return err
			}
			metrics.Upsert("entry", "import")
		}
		return nil
	})
}
