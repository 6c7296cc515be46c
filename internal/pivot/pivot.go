// Package pivot reshapes normalized workload rows into a month-indexed
// matrix.
package pivot

import (
	"slices"

	"github.com/pafou/PLANDECH-back/internal/models"
	"github.com/pafou/PLANDECH-back/internal/month"
)

// NoComment stands in for a missing comment, both in the grouping key and
// in the rendered cell.
const NoComment = "No comment"

// Header lists the fixed leading columns of a pivot table.
var Header = []string{"Name", "Firstname", "Subject", "Type", "Comment"}

// Source is one normalized (person, subject, month, load) row.
type Source struct {
	Name      string
	Firstname string
	Subject   string
	Type      string
	Comment   *string
	Month     month.Month
	Load      int
}

// FromWorkloadRows adapts stored rows to pivot sources.
func FromWorkloadRows(rows []models.WorkloadRow) []Source {
	out := make([]Source, len(rows))
	for i, r := range rows {
		out[i] = Source{
			Name:      r.Name,
			Firstname: r.Firstname,
			Subject:   r.Subject,
			Type:      r.Type.String,
			Month:     r.Month,
			Load:      r.Load,
		}
		if r.Comment.Valid {
			c := r.Comment.String
			out[i].Comment = &c
		}
	}
	return out
}

// Row is one grouped line. Loads is aligned with Table.Months.
type Row struct {
	Name      string `json:"name"`
	Firstname string `json:"firstname"`
	Subject   string `json:"subject"`
	Type      string `json:"type"`
	Comment   string `json:"comment"`
	Loads     []int  `json:"loads"`
}

// Table is a dense pivot: every row has one load per month.
type Table struct {
	Months []month.Month `json:"months"`
	Rows   []Row         `json:"rows"`
}

// LogAttrs reports the size of the table.
func (t *Table) LogAttrs() []any {
	return []any{"rows", len(t.Rows), "months", len(t.Months)}
}

type groupKey struct {
	name, firstname, subject, comment string
}

// Build groups src by (name, firstname, subject, comment), with a missing
// comment grouped as NoComment. Months are the distinct months of all of
// src in ascending order; a month absent from a group reads 0. Groups keep
// the order in which they first appear and take their type from their first
// row. When a group repeats a month the last load wins.
func Build(src []Source) Table {
	var (
		order  []groupKey
		groups = map[groupKey]*Row{}
		loads  = map[groupKey]map[month.Month]int{}
		seen   = map[month.Month]struct{}{}
		months []month.Month
	)

	for _, s := range src {
		comment := NoComment
		if s.Comment != nil {
			comment = *s.Comment
		}
		k := groupKey{s.Name, s.Firstname, s.Subject, comment}

		if _, ok := groups[k]; !ok {
			groups[k] = &Row{
				Name:      s.Name,
				Firstname: s.Firstname,
				Subject:   s.Subject,
				Type:      s.Type,
				Comment:   comment,
			}
			loads[k] = map[month.Month]int{}
			order = append(order, k)
		}
		loads[k][s.Month] = s.Load

		if _, ok := seen[s.Month]; !ok {
			seen[s.Month] = struct{}{}
			months = append(months, s.Month)
		}
	}

	slices.SortFunc(months, month.Month.Compare)

	table := Table{Months: months, Rows: make([]Row, 0, len(order))}
	for _, k := range order {
		row := *groups[k]
		row.Loads = make([]int, len(months))
		for i, m := range months {
			row.Loads[i] = loads[k][m]
		}
		table.Rows = append(table.Rows, row)
	}
	if table.Months == nil {
		table.Months = []month.Month{}
	}
	return table
}

// Columns returns the full header: the fixed columns, then one per month.
func (t Table) Columns() []string {
	cols := slices.Clone(Header)
	for _, m := range t.Months {
		cols = append(cols, m.String())
	}
	return cols
}
