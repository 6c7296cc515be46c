package importer

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pafou/PLANDECH-back/internal/month"
)

func TestIsMonthColumn(t *testing.T) {
	for _, key := range []string{"202401", "000000", "999999"} {
		assert.True(t, IsMonthColumn(key), key)
	}
	for _, key := range []string{"20240", "2024011", "2024-01", "name", "", " 202401", "２０２４０１"} {
		assert.False(t, IsMonthColumn(key), key)
	}
}

func TestParseLoad(t *testing.T) {
	tests := []struct {
		in   any
		want int
	}{
		{"20", 20},
		{" 7", 7},
		{"12abc", 12},
		{"12.7", 12},
		{"-3", -3},
		{"abc", 0},
		{"", 0},
		{nil, 0},
		{true, 0},
		{float64(15), 15},
		{15.9, 15},
		{json.Number("42"), 42},
		{json.Number("4.5"), 4},
		{"99999999999999999999", 0},
		{"3000000000", 0},
		{"2147483647", 2147483647},
		{"-2147483649", 0},
		{json.Number("1e3"), 1000},
		{json.Number("2.5e1"), 25},
		{json.Number("3000000000"), 0},
		{int64(3000000000), 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLoad(tt.in), "input %#v", tt.in)
	}
}

func TestFromFields(t *testing.T) {
	row, err := FromFields(map[string]any{
		"name":      "Doe",
		"firstname": "Jane",
		"subject":   "Math",
		"type":      "Core",
		"comment":   nil,
		"202402":    "5",
		"202312":    "1",
		"202401":    "x",
		"extra":     "ignored",
		"2024":      "ignored",
	})
	require.NoError(t, err)

	assert.Equal(t, "Doe", row.Name)
	assert.Equal(t, "Jane", row.Firstname)
	assert.Equal(t, "Math", row.Subject)
	assert.Equal(t, "Core", row.Type)
	assert.Equal(t, "", row.Comment)

	require.Len(t, row.Loads, 3)
	keys := []int{row.Loads[0].Month.Key(), row.Loads[1].Month.Key(), row.Loads[2].Month.Key()}
	assert.Equal(t, []int{202312, 202401, 202402}, keys)
	assert.Equal(t, []int{1, 0, 5}, []int{row.Loads[0].Load, row.Loads[1].Load, row.Loads[2].Load})
}

func TestFromFieldsRejectsInvalidMonthColumn(t *testing.T) {
	_, err := FromFields(map[string]any{"name": "Doe", "202413": "5"})
	require.ErrorIs(t, err, month.ErrMalformedMonth)
}

func TestFromFieldsRejectsNonStringIdentity(t *testing.T) {
	_, err := FromFields(map[string]any{"name": 12})
	require.ErrorIs(t, err, ErrInvalidRow)
}

func TestDecodeRows(t *testing.T) {
	rows, err := DecodeRows(json.RawMessage(`[
		{"name":"Doe","firstname":"Jane","subject":"Math","type":"Core","202401":"20"},
		{"name":"Roe","firstname":"Rick","subject":"Math","type":"Core","202401":3}
	]`))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 20, rows[0].Loads[0].Load)
	assert.Equal(t, 3, rows[1].Loads[0].Load)

	rows, err = DecodeRows(json.RawMessage(`[]`))
	require.NoError(t, err)
	assert.Empty(t, rows)

	for _, bad := range []string{``, `null`, `{}`, `"rows"`, `42`, `[1, 2]`} {
		_, err := DecodeRows(json.RawMessage(bad))
		assert.Error(t, err, bad)
	}

	_, err = DecodeRows(json.RawMessage(`{"data":[]}`))
	require.ErrorIs(t, err, ErrInvalidPayload)

	_, err = DecodeRows(json.RawMessage(`[{"name":"Doe","209900":"1","202400":"2"}]`))
	require.ErrorIs(t, err, month.ErrMalformedMonth)
}

func TestDecodeRowsExponentLoads(t *testing.T) {
	rows, err := DecodeRows(json.RawMessage(`[{"name":"a","202401":1e3,"202402":2.5e1,"202403":"3000000000"}]`))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Len(t, rows[0].Loads, 3)
	assert.Equal(t, []int{1000, 25, 0}, []int{rows[0].Loads[0].Load, rows[0].Loads[1].Load, rows[0].Loads[2].Load})
}
