// Package colmap associates semantic transaction fields with CSV column
// indices confirmed by the user.
package colmap

import (
	"fmt"
	"strings"
)

// None marks an unset optional column index.
const None = -1

// FieldMap maps semantic fields to column indices of a parsed table body row.
// Amount, Description, and ClearedAt are mandatory; TransactedAt is None when
// the export has no separate transaction date column.
type FieldMap struct {
	Amount       int
	Description  int
	ClearedAt    int
	TransactedAt int
}

// Validate checks that every mandatory index addresses a column and that
// TransactedAt is either None or in range.
func (m FieldMap) Validate(columns int) error {
	mandatory := []struct {
		name  string
		index int
	}{
		{"amount", m.Amount},
		{"description", m.Description},
		{"cleared_at", m.ClearedAt},
	}
	for _, f := range mandatory {
		if f.index < 0 || f.index >= columns {
			return fmt.Errorf("%s column index %d out of range [0,%d)", f.name, f.index, columns)
		}
	}
	if m.TransactedAt != None && (m.TransactedAt < 0 || m.TransactedAt >= columns) {
		return fmt.Errorf("transacted_at column index %d out of range [0,%d)", m.TransactedAt, columns)
	}
	return nil
}

// HasTransactedAt reports whether a transaction date column is mapped.
func (m FieldMap) HasTransactedAt() bool {
	return m.TransactedAt != None
}

// Guess proposes a FieldMap from common header names. Fields with no matching
// header are left at None; the result still needs user confirmation and
// validation.
func Guess(header []string) FieldMap {
	m := FieldMap{Amount: None, Description: None, ClearedAt: None, TransactedAt: None}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "amount":
			m.Amount = i
		case "description", "payee", "memo":
			if m.Description == None {
				m.Description = i
			}
		case "date", "posted date", "post date", "posting date", "closing date":
			if m.ClearedAt == None {
				m.ClearedAt = i
			}
		case "transaction date", "transacted date":
			m.TransactedAt = i
		}
	}
	return m
}
