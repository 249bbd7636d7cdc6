package colmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	m := FieldMap{Amount: 2, Description: 1, ClearedAt: 0, TransactedAt: None}
	require.NoError(t, m.Validate(3))
	assert.False(t, m.HasTransactedAt())
}

func TestValidate_OutOfRange(t *testing.T) {
	tests := []struct {
		name string
		m    FieldMap
	}{
		{"amount too large", FieldMap{Amount: 3, Description: 1, ClearedAt: 0, TransactedAt: None}},
		{"amount negative", FieldMap{Amount: -1, Description: 1, ClearedAt: 0, TransactedAt: None}},
		{"description missing", FieldMap{Amount: 2, Description: None, ClearedAt: 0, TransactedAt: None}},
		{"cleared_at missing", FieldMap{Amount: 2, Description: 1, ClearedAt: None, TransactedAt: None}},
		{"transacted_at too large", FieldMap{Amount: 2, Description: 1, ClearedAt: 0, TransactedAt: 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.m.Validate(3))
		})
	}
}

func TestValidate_OptionalTransactedAt(t *testing.T) {
	m := FieldMap{Amount: 2, Description: 1, ClearedAt: 0, TransactedAt: 2}
	assert.NoError(t, m.Validate(3))
	assert.True(t, m.HasTransactedAt())
}

func TestGuess(t *testing.T) {
	m := Guess([]string{"Date", "Description", "Amount"})
	assert.Equal(t, FieldMap{Amount: 2, Description: 1, ClearedAt: 0, TransactedAt: None}, m)
}

func TestGuess_TransactionDate(t *testing.T) {
	m := Guess([]string{"Transaction Date", "Posted Date", "Payee", "Amount"})
	assert.Equal(t, 3, m.Amount)
	assert.Equal(t, 2, m.Description)
	assert.Equal(t, 1, m.ClearedAt)
	assert.Equal(t, 0, m.TransactedAt)
}

func TestGuess_NoMatches(t *testing.T) {
	m := Guess([]string{"A", "B", "C"})
	assert.Equal(t, FieldMap{Amount: None, Description: None, ClearedAt: None, TransactedAt: None}, m)
	assert.Error(t, m.Validate(3))
}
