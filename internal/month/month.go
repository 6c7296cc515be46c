// Package month defines the canonical calendar-month type used across the
// workload planner.
//
// Two external representations exist for the same logical month:
//   - the first-of-month date, "YYYY-MM-01"
//   - the six-digit integer key, YYYYMM
//
// Both are decoded into Month at the boundary and never leak further in.
// The store persists the integer key.
package month

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ErrMalformedMonth is returned for any input that does not denote exactly
// one calendar month.
var ErrMalformedMonth = errors.New("malformed month")

const dateLayout = "2006-01-02"

// Month is a calendar month. The zero value is not a valid month.
type Month struct {
	year  int
	month time.Month
}

// New builds a Month from its parts.
func New(year int, m time.Month) (Month, error) {
	if year < 1 || year > 9999 || m < time.January || m > time.December {
		return Month{}, fmt.Errorf("%w: year %d month %d", ErrMalformedMonth, year, int(m))
	}
	return Month{year: year, month: m}, nil
}

// Of returns the month containing t.
func Of(t time.Time) Month {
	return Month{year: t.Year(), month: t.Month()}
}

// ParseKey parses a six-digit YYYYMM key.
func ParseKey(s string) (Month, error) {
	if len(s) != 6 || !allDigits(s) {
		return Month{}, fmt.Errorf("%w: key %q", ErrMalformedMonth, s)
	}
	year, _ := strconv.Atoi(s[:4])
	m, _ := strconv.Atoi(s[4:])
	out, err := New(year, time.Month(m))
	if err != nil {
		return Month{}, fmt.Errorf("%w: key %q", ErrMalformedMonth, s)
	}
	return out, nil
}

// ParseDate parses a first-of-month date, either "YYYY-MM-DD" or an RFC 3339
// timestamp at midnight. A day other than the first is rejected.
func ParseDate(s string) (Month, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return Month{}, fmt.Errorf("%w: date %q", ErrMalformedMonth, s)
		}
	}
	return fromFirstOfMonth(t)
}

// FromKey converts an integer YYYYMM key.
func FromKey(key int64) (Month, error) {
	if key < 100000 || key > 999999 {
		return Month{}, fmt.Errorf("%w: key %d", ErrMalformedMonth, key)
	}
	return ParseKey(strconv.FormatInt(key, 10))
}

// Parse normalizes any supported representation into a Month.
func Parse(v any) (Month, error) {
	switch x := v.(type) {
	case Month:
		if x.IsZero() {
			return Month{}, fmt.Errorf("%w: zero month", ErrMalformedMonth)
		}
		return x, nil
	case time.Time:
		return fromFirstOfMonth(x)
	case string:
		return parseString(x)
	case []byte:
		return parseString(string(x))
	case int:
		return FromKey(int64(x))
	case int32:
		return FromKey(int64(x))
	case int64:
		return FromKey(x)
	case float64:
		if x != math.Trunc(x) {
			return Month{}, fmt.Errorf("%w: key %v", ErrMalformedMonth, x)
		}
		return FromKey(int64(x))
	case json.Number:
		return parseString(x.String())
	case nil:
		return Month{}, fmt.Errorf("%w: missing", ErrMalformedMonth)
	default:
		return Month{}, fmt.Errorf("%w: unsupported type %T", ErrMalformedMonth, v)
	}
}

func parseString(s string) (Month, error) {
	s = strings.TrimSpace(s)
	if len(s) == 6 && allDigits(s) {
		return ParseKey(s)
	}
	return ParseDate(s)
}

func fromFirstOfMonth(t time.Time) (Month, error) {
	if t.Day() != 1 || t.Hour() != 0 || t.Minute() != 0 || t.Second() != 0 || t.Nanosecond() != 0 {
		return Month{}, fmt.Errorf("%w: %s is not the first of a month", ErrMalformedMonth, t.Format(time.RFC3339))
	}
	return New(t.Year(), t.Month())
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Year returns the calendar year.
func (m Month) Year() int { return m.year }

// Month returns the month of the year.
func (m Month) Month() time.Month { return m.month }

// IsZero reports whether m is the zero value.
func (m Month) IsZero() bool { return m.year == 0 && m.month == 0 }

// Key returns the YYYYMM integer form.
func (m Month) Key() int { return m.year*100 + int(m.month) }

// Date returns the first-of-month date form, "YYYY-MM-01".
func (m Month) Date() string { return m.Time().Format(dateLayout) }

// Time returns midnight UTC on the first day of the month.
func (m Month) Time() time.Time {
	return time.Date(m.year, m.month, 1, 0, 0, 0, 0, time.UTC)
}

// String returns "YYYY-MM".
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.year, int(m.month))
}

// Compare returns -1, 0 or +1 in calendar order.
func (m Month) Compare(o Month) int {
	a, b := m.Key(), o.Key()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Before reports whether m is earlier than o.
func (m Month) Before(o Month) bool { return m.Compare(o) < 0 }

// Scan implements sql.Scanner. Both stored representations are accepted so
// legacy columns holding dates still read back as the same month.
func (m *Month) Scan(src any) error {
	parsed, err := Parse(src)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Value implements driver.Valuer; the integer key is the stored form.
func (m Month) Value() (driver.Value, error) {
	if m.IsZero() {
		return nil, fmt.Errorf("%w: zero month", ErrMalformedMonth)
	}
	return int64(m.Key()), nil
}

// MarshalJSON renders "YYYY-MM".
func (m Month) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON accepts "YYYY-MM", a date, a key string or a key number.
func (m *Month) UnmarshalJSON(data []byte) error {
	var raw any
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedMonth, err)
	}
	if s, ok := raw.(string); ok && len(s) == 7 && s[4] == '-' {
		raw = s + "-01"
	}
	parsed, err := Parse(raw)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
