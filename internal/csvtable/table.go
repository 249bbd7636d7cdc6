// Package csvtable parses user-supplied CSV exports into a header row plus
// body rows, without assuming any particular bank's column layout.
package csvtable

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

// ErrEmptyFile is returned when the input contains no rows at all.
var ErrEmptyFile = errors.New("csv file contains no rows")

// Table is a parsed CSV file. Every row in Body has at least len(Header)
// cells; shorter rows are dropped during parsing.
type Table struct {
	Header []string
	Body   [][]string
}

// RowCount returns the number of body rows.
func (t Table) RowCount() int {
	return len(t.Body)
}

// Parse reads an arbitrary CSV export. The first record becomes the header;
// records with fewer cells than the header are discarded as malformed. The
// header itself is never included in the body.
func Parse(r io.Reader) (Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // user exports are ragged; we filter below

	records, err := cr.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("reading CSV: %w", err)
	}
	if len(records) == 0 {
		return Table{}, ErrEmptyFile
	}

	header := records[0]
	var body [][]string
	for _, rec := range records[1:] {
		if len(rec) < len(header) {
			continue
		}
		body = append(body, rec)
	}

	return Table{Header: header, Body: body}, nil
}
