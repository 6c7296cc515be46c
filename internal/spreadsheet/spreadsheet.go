// Package spreadsheet converts between XLSX workbooks and workload data.
package spreadsheet

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/pafou/PLANDECH-back/internal/importer"
	"github.com/pafou/PLANDECH-back/internal/month"
	"github.com/pafou/PLANDECH-back/internal/pivot"
)

// SheetName is the sheet written by WritePivot.
const SheetName = "Workload"

// ErrNoHeader is returned when the sheet has no header line.
var ErrNoHeader = errors.New("sheet has no header row")

// ReadRows reads import rows from sheet, or from the first sheet when sheet
// is empty. The first line is the header: identity columns are matched
// case-insensitively, and month columns may be headed YYYYMM, YYYY-MM or by a
// first-of-month date. Blank lines are skipped.
func ReadRows(r io.Reader, sheet string) ([]importer.Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, ErrNoHeader
		}
		sheet = sheets[0]
	}

	// Raw values keep loads free of number formats and leave date headers as
	// serial numbers.
	lines, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(lines) == 0 {
		return nil, ErrNoHeader
	}

	keys := make([]string, len(lines[0]))
	for i, h := range lines[0] {
		numeric, err := numericCell(f, sheet, i+1)
		if err != nil {
			return nil, err
		}
		if keys[i], err = columnKey(h, numeric); err != nil {
			return nil, fmt.Errorf("header column %d: %w", i+1, err)
		}
	}

	rows := make([]importer.Row, 0, len(lines)-1)
	for n, line := range lines[1:] {
		if blank(line) {
			continue
		}
		fields := make(map[string]any, len(line))
		for i, cell := range line {
			if i < len(keys) && keys[i] != "" {
				fields[keys[i]] = cell
			}
		}
		row, err := importer.FromFields(fields)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n+2, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// numericCell reports whether the header cell in column col holds a number
// rather than text.
func numericCell(f *excelize.File, sheet string, col int) (bool, error) {
	cell, err := excelize.CoordinatesToCellName(col, 1)
	if err != nil {
		return false, err
	}
	typ, err := f.GetCellType(sheet, cell)
	if err != nil {
		return false, fmt.Errorf("failed to read cell type of %s: %w", cell, err)
	}
	return typ == excelize.CellTypeUnset || typ == excelize.CellTypeNumber || typ == excelize.CellTypeDate, nil
}

// columnKey maps a raw header cell to an import field name, or "" to ignore
// it. A numeric header other than YYYYMM is an Excel date serial and must
// fall on the first of a month.
func columnKey(header string, numeric bool) (string, error) {
	h := strings.TrimSpace(header)
	switch strings.ToLower(h) {
	case importer.FieldName, importer.FieldFirstname, importer.FieldSubject, importer.FieldType, importer.FieldComment:
		return strings.ToLower(h), nil
	}
	if importer.IsMonthColumn(h) {
		return h, nil
	}
	if numeric {
		if serial, err := strconv.ParseFloat(h, 64); err == nil {
			return serialKey(serial)
		}
	}
	if len(h) == 7 && h[4] == '-' {
		h += "-01"
	}
	if m, err := month.ParseDate(h); err == nil {
		return strconv.Itoa(m.Key()), nil
	}
	return "", nil
}

func serialKey(serial float64) (string, error) {
	if serial <= 0 {
		return "", fmt.Errorf("%w: date serial %v", month.ErrMalformedMonth, serial)
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return "", fmt.Errorf("%w: date serial %v: %v", month.ErrMalformedMonth, serial, err)
	}
	m, err := month.Parse(t)
	if err != nil {
		return "", err
	}
	return strconv.Itoa(m.Key()), nil
}

func blank(line []string) bool {
	for _, c := range line {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// WritePivot writes t as a single-sheet workbook with a bold header line.
func WritePivot(w io.Writer, t pivot.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]any, 0, len(pivot.Header)+len(t.Months))
	for _, c := range pivot.Header {
		header = append(header, c)
	}
	for _, m := range t.Months {
		header = append(header, m.String())
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetRowStyle(SheetName, 1, 1, bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, row := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []any{row.Name, row.Firstname, row.Subject, row.Type, row.Comment}
		for _, load := range row.Loads {
			values = append(values, load)
		}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("failed to write line %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
