package month

import (
	"encoding/json"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKey(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "202401", want: 202401},
		{in: "199912", want: 199912},
		{in: "202400", wantErr: true},
		{in: "202413", wantErr: true},
		{in: "20241", wantErr: true},
		{in: "2024-1", wantErr: true},
		{in: "abcdef", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKey(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrMalformedMonth)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Key())
		})
	}
}

func TestParseDate(t *testing.T) {
	m, err := ParseDate("2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, 2024, m.Year())
	assert.Equal(t, time.March, m.Month())
	assert.Equal(t, "2024-03-01", m.Date())

	m, err = ParseDate("2024-03-01T00:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, 202403, m.Key())

	// Day-of-month information must not be dropped silently.
	_, err = ParseDate("2024-03-15")
	require.ErrorIs(t, err, ErrMalformedMonth)

	_, err = ParseDate("2024-03-01T10:30:00Z")
	require.ErrorIs(t, err, ErrMalformedMonth)

	_, err = ParseDate("March 2024")
	require.ErrorIs(t, err, ErrMalformedMonth)
}

func TestParseAcceptsBothRepresentations(t *testing.T) {
	want, err := New(2024, time.January)
	require.NoError(t, err)

	inputs := []any{
		"202401",
		"2024-01-01",
		[]byte("202401"),
		202401,
		int64(202401),
		float64(202401),
		json.Number("202401"),
		time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		want,
	}
	for _, in := range inputs {
		got, err := Parse(in)
		require.NoError(t, err, "input %#v", in)
		assert.Equal(t, want, got, "input %#v", in)
	}

	for _, bad := range []any{nil, 2024.5, int64(42), true, Month{}, "2024-01-31"} {
		_, err := Parse(bad)
		assert.ErrorIs(t, err, ErrMalformedMonth, "input %#v", bad)
	}
}

func TestOfDropsDay(t *testing.T) {
	m := Of(time.Date(2025, time.July, 19, 15, 4, 5, 0, time.UTC))
	assert.Equal(t, 202507, m.Key())
	assert.Equal(t, "2025-07-01", m.Date())
	assert.Equal(t, "2025-07", m.String())
}

func TestCompareSortsByCalendar(t *testing.T) {
	a, _ := ParseKey("202312")
	b, _ := ParseKey("202401")
	c, _ := ParseKey("202402")

	months := []Month{c, a, b}
	slices.SortFunc(months, Month.Compare)
	assert.Equal(t, []Month{a, b, c}, months)
	assert.True(t, a.Before(b))
	assert.False(t, c.Before(b))
	assert.Equal(t, 0, b.Compare(b))
}

func TestCodecs(t *testing.T) {
	m, err := New(2024, time.February)
	require.NoError(t, err)

	assert.Equal(t, "2024-02-01", DateCodec.Encode(m))
	assert.Equal(t, 202402, KeyCodec.Encode(m))

	got, err := DateCodec.Decode("2024-02-01")
	require.NoError(t, err)
	assert.Equal(t, m, got)

	got, err = KeyCodec.Decode("202402")
	require.NoError(t, err)
	assert.Equal(t, m, got)

	// Each codec only accepts its own string form.
	_, err = DateCodec.Decode("202402")
	require.ErrorIs(t, err, ErrMalformedMonth)
	_, err = KeyCodec.Decode("2024-02-01")
	require.ErrorIs(t, err, ErrMalformedMonth)
}

func TestScanValue(t *testing.T) {
	var m Month
	require.NoError(t, m.Scan(int64(202405)))
	assert.Equal(t, 202405, m.Key())

	require.NoError(t, m.Scan("2024-06-01"))
	assert.Equal(t, 202406, m.Key())

	v, err := m.Value()
	require.NoError(t, err)
	assert.Equal(t, int64(202406), v)

	_, err = Month{}.Value()
	require.ErrorIs(t, err, ErrMalformedMonth)

	require.Error(t, m.Scan(nil))
}

func TestJSON(t *testing.T) {
	m, _ := ParseKey("202409")
	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `"2024-09"`, string(data))

	for _, in := range []string{`"2024-09"`, `"2024-09-01"`, `"202409"`, `202409`} {
		var got Month
		require.NoError(t, json.Unmarshal([]byte(in), &got), in)
		assert.Equal(t, m, got, in)
	}

	var bad Month
	require.ErrorIs(t, json.Unmarshal([]byte(`"2024-13"`), &bad), ErrMalformedMonth)
}
