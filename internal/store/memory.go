package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/centsible-dev/centsible/internal/model"
)

// Memory is a mutex-guarded in-memory Store. It backs tests and the CLI,
// where it is loaded from and saved to CSV files (see csv.go).
type Memory struct {
	mu           sync.RWMutex
	accounts     map[string]model.Account
	merchants    map[string]model.Merchant
	transactions []model.Transaction
}

var _ Store = (*Memory)(nil)

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		accounts:  make(map[string]model.Account),
		merchants: make(map[string]model.Merchant),
	}
}

// ListAccounts returns all accounts sorted by title ascending.
func (s *Memory) ListAccounts(ctx context.Context) ([]model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	accounts := make([]model.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		accounts = append(accounts, a)
	}
	sortByTitle(accounts, func(a model.Account) string { return a.Title })
	return accounts, nil
}

// CreateAccount inserts a new account with a generated id.
func (s *Memory) CreateAccount(ctx context.Context, params model.NewAccount) (model.Account, error) {
	if strings.TrimSpace(params.Title) == "" {
		return model.Account{}, fmt.Errorf("creating account: %w", ErrTitleRequired)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	account := model.Account{
		ID:                 uuid.NewString(),
		Title:              params.Title,
		Type:               params.Type,
		AccentColor:        params.AccentColor,
		DateFirstAvailable: params.DateFirstAvailable,
		CreatedAt:          time.Now().UTC(),
	}
	s.accounts[account.ID] = account
	return account, nil
}

// ListMerchants returns all merchants sorted by title ascending.
func (s *Memory) ListMerchants(ctx context.Context) ([]model.Merchant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	merchants := make([]model.Merchant, 0, len(s.merchants))
	for _, m := range s.merchants {
		merchants = append(merchants, m)
	}
	sortByTitle(merchants, func(m model.Merchant) string { return m.Title })
	return merchants, nil
}

// CreateMerchant inserts a new merchant with a generated id.
func (s *Memory) CreateMerchant(ctx context.Context, params model.NewMerchant) (model.Merchant, error) {
	if strings.TrimSpace(params.Title) == "" {
		return model.Merchant{}, fmt.Errorf("creating merchant: %w", ErrTitleRequired)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	merchant := model.Merchant{
		ID:          uuid.NewString(),
		Title:       params.Title,
		Description: params.Description,
		CreatedAt:   time.Now().UTC(),
	}
	s.merchants[merchant.ID] = merchant
	return merchant, nil
}

// BulkCreateTransactions validates every draft before inserting any, so a
// bad row leaves the store untouched.
func (s *Memory) BulkCreateTransactions(ctx context.Context, drafts []model.TransactionDraft) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, d := range drafts {
		if !d.Resolved() {
			return 0, fmt.Errorf("draft %d: %w", i, ErrUnresolvedDraft)
		}
		if _, ok := s.accounts[d.AccountID]; !ok {
			return 0, fmt.Errorf("draft %d: %w: %s", i, ErrUnknownAccount, d.AccountID)
		}
		if _, ok := s.merchants[d.MerchantID]; !ok {
			return 0, fmt.Errorf("draft %d: %w: %s", i, ErrUnknownMerchant, d.MerchantID)
		}
	}

	now := time.Now().UTC()
	for _, d := range drafts {
		s.transactions = append(s.transactions, model.Transaction{
			ID:           uuid.NewString(),
			AccountID:    d.AccountID,
			MerchantID:   d.MerchantID,
			Amount:       d.Amount,
			Description:  d.Description,
			PostedAt:     d.PostedAt,
			TransactedAt: d.TransactedAt,
			CreatedAt:    now,
		})
	}
	return len(drafts), nil
}

// ListTransactions returns all transactions in insertion order.
func (s *Memory) ListTransactions(ctx context.Context) ([]model.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Transaction, len(s.transactions))
	copy(out, s.transactions)
	return out, nil
}

func sortByTitle[T any](items []T, title func(T) string) {
	sort.Slice(items, func(i, j int) bool {
		return strings.ToLower(title(items[i])) < strings.ToLower(title(items[j]))
	})
}
