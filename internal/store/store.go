// Package store persists accounts, merchants, and transactions. The wizard
// core depends only on the interfaces here; implementations are injected by
// the process entry point.
package store

import (
	"context"
	"errors"

	"github.com/centsible-dev/centsible/internal/model"
)

var (
	// ErrTitleRequired is returned when a create call is missing a title.
	ErrTitleRequired = errors.New("title is required")
	// ErrUnknownAccount is returned when a draft references a missing account.
	ErrUnknownAccount = errors.New("unknown account")
	// ErrUnknownMerchant is returned when a draft references a missing merchant.
	ErrUnknownMerchant = errors.New("unknown merchant")
	// ErrUnresolvedDraft is returned when a draft has no merchant assigned.
	ErrUnresolvedDraft = errors.New("draft has no merchant")
)

// AccountStore lists and creates destination accounts.
type AccountStore interface {
	ListAccounts(ctx context.Context) ([]model.Account, error)
	CreateAccount(ctx context.Context, params model.NewAccount) (model.Account, error)
}

// MerchantStore lists and creates canonical merchants.
type MerchantStore interface {
	ListMerchants(ctx context.Context) ([]model.Merchant, error)
	CreateMerchant(ctx context.Context, params model.NewMerchant) (model.Merchant, error)
}

// TransactionStore commits transaction batches.
type TransactionStore interface {
	// BulkCreateTransactions inserts all drafts or none of them, returning
	// the number created.
	BulkCreateTransactions(ctx context.Context, drafts []model.TransactionDraft) (int, error)
	ListTransactions(ctx context.Context) ([]model.Transaction, error)
}

// Store combines all storage concerns.
type Store interface {
	AccountStore
	MerchantStore
	TransactionStore
}
