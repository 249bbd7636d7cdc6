package csvtable

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_SingleRow(t *testing.T) {
	input := "Date,Description,Amount\n2024-01-01,COSTCO WHSE #1001,1.61\n"

	table, err := Parse(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"Date", "Description", "Amount"}, table.Header)
	require.Equal(t, 1, table.RowCount())
	assert.Equal(t, []string{"2024-01-01", "COSTCO WHSE #1001", "1.61"}, table.Body[0])
}

func TestParse_DiscardsShortRows(t *testing.T) {
	input := strings.Join([]string{
		"Date,Description,Amount",
		"2024-01-01,COSTCO WHSE #1001,1.61",
		"2024-01-02,TRUNCATED ROW",
		"2024-01-03,TARGET 00123,25.00",
	}, "\n")

	table, err := Parse(strings.NewReader(input))
	require.NoError(t, err)

	require.Equal(t, 2, table.RowCount())
	assert.Equal(t, "COSTCO WHSE #1001", table.Body[0][1])
	assert.Equal(t, "TARGET 00123", table.Body[1][1])
}

func TestParse_KeepsLongRows(t *testing.T) {
	input := "A,B\n1,2,3\n"

	table, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Equal(t, 1, table.RowCount())
	assert.Equal(t, []string{"1", "2", "3"}, table.Body[0])
}

func TestParse_HeaderNeverInBody(t *testing.T) {
	input := "Date,Description,Amount\n"

	table, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 0, table.RowCount())
}

func TestParse_Empty(t *testing.T) {
	_, err := Parse(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"2024-01-01", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"01/15/2024", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"1/5/2024", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)},
		{"Jan 2, 2024", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		{" 2024-03-31 ", time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := ParseDate(tt.input)
		require.NoError(t, err, "input %q", tt.input)
		assert.True(t, got.Equal(tt.want), "input %q: got %v", tt.input, got)
	}
}

func TestParseDate_Unrecognized(t *testing.T) {
	_, err := ParseDate("not a date")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a date")
}
