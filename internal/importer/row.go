package importer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/pafou/PLANDECH-back/internal/month"
)

var (
	// ErrInvalidPayload is returned when the import payload is not a list of
	// row objects. Nothing is processed in that case.
	ErrInvalidPayload = errors.New("invalid data format")

	// ErrInvalidRow is returned when a known field has the wrong type.
	ErrInvalidRow = errors.New("invalid row")
)

// Known field names of an import row.
const (
	FieldName      = "name"
	FieldFirstname = "firstname"
	FieldSubject   = "subject"
	FieldType      = "type"
	FieldComment   = "comment"
)

var monthColumnRe = regexp.MustCompile(`^\d{6}$`)

// IsMonthColumn reports whether a field name denotes a month column.
func IsMonthColumn(key string) bool {
	return monthColumnRe.MatchString(key)
}

func isKnownField(key string) bool {
	switch key {
	case FieldName, FieldFirstname, FieldSubject, FieldType, FieldComment:
		return true
	}
	return false
}

// MonthLoad is the load declared for one month column.
type MonthLoad struct {
	Month month.Month
	Load  int
}

// Row is one import line: the identity columns plus its month columns in
// ascending calendar order. Fields that are neither known nor month columns
// are dropped.
type Row struct {
	Name      string
	Firstname string
	Subject   string
	Type      string
	Comment   string
	Loads     []MonthLoad
}

// FromFields builds a Row from a flat record. A six-digit key that is not a
// valid YYYYMM month fails with month.ErrMalformedMonth.
func FromFields(fields map[string]any) (Row, error) {
	var row Row
	for key, value := range fields {
		switch {
		case isKnownField(key):
			s, err := fieldString(key, value)
			if err != nil {
				return Row{}, err
			}
			row.set(key, s)
		case IsMonthColumn(key):
			m, err := month.ParseKey(key)
			if err != nil {
				return Row{}, fmt.Errorf("column %q: %w", key, err)
			}
			row.Loads = append(row.Loads, MonthLoad{Month: m, Load: parseLoad(value)})
		}
	}
	slices.SortFunc(row.Loads, func(a, b MonthLoad) int { return a.Month.Compare(b.Month) })
	return row, nil
}

func (r *Row) set(key, value string) {
	switch key {
	case FieldName:
		r.Name = value
	case FieldFirstname:
		r.Firstname = value
	case FieldSubject:
		r.Subject = value
	case FieldType:
		r.Type = value
	case FieldComment:
		r.Comment = value
	}
}

func fieldString(key string, value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	default:
		return "", fmt.Errorf("%w: field %q must be a string, got %T", ErrInvalidRow, key, value)
	}
}

// UnmarshalJSON decodes a row object through FromFields.
func (r *Row) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRow, err)
	}
	if fields == nil {
		return fmt.Errorf("%w: row is null", ErrInvalidRow)
	}
	row, err := FromFields(fields)
	if err != nil {
		return err
	}
	*r = row
	return nil
}

// DecodeRows parses the import payload, which must be a JSON array of row
// objects. Missing, null and non-array payloads yield ErrInvalidPayload.
func DecodeRows(raw json.RawMessage) ([]Row, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, ErrInvalidPayload
	}

	var rows []Row
	if err := json.Unmarshal(trimmed, &rows); err != nil {
		if errors.Is(err, month.ErrMalformedMonth) || errors.Is(err, ErrInvalidRow) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return rows, nil
}

// parseLoad reads the leading integer of a cell value. Anything that does
// not start with an integer, or falls outside the int32 range of the load
// column, counts as 0.
func parseLoad(value any) int {
	switch v := value.(type) {
	case string:
		return leadingInt(v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return boundedLoad(n)
		}
		if f, err := v.Float64(); err == nil {
			return truncLoad(f)
		}
		return leadingInt(v.String())
	case float64:
		return truncLoad(v)
	case int:
		return boundedLoad(int64(v))
	case int64:
		return boundedLoad(v)
	default:
		return 0
	}
}

func truncLoad(f float64) int {
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt32 {
		return 0
	}
	return int(f)
}

func boundedLoad(n int64) int {
	if n > math.MaxInt32 || n < math.MinInt32 {
		return 0
	}
	return int(n)
}

func leadingInt(s string) int {
	s = strings.TrimLeft(s, " \t\n\r")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0
	}
	return boundedLoad(n)
}
