package model

import "time"

// Transaction is a persisted transaction row.
type Transaction struct {
	ID           string
	AccountID    string
	MerchantID   string
	Amount       int64 // integer cents; negative = expense
	Description  string
	PostedAt     time.Time
	TransactedAt *time.Time // nil when the source file has no transaction date
	CreatedAt    time.Time
}

// TransactionDraft is a fully normalized transaction candidate awaiting batch
// creation. A draft is submittable once MerchantID is non-empty.
type TransactionDraft struct {
	AccountID    string
	MerchantID   string
	Amount       int64 // integer cents
	Description  string
	PostedAt     time.Time
	TransactedAt *time.Time
}

// Resolved reports whether the draft has a merchant assigned.
func (d TransactionDraft) Resolved() bool {
	return d.MerchantID != ""
}
