package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/centsible-dev/centsible/internal/model"
)

// CSV file names inside a data directory.
const (
	AccountsFile     = "accounts.csv"
	MerchantsFile    = "merchants.csv"
	TransactionsFile = "transactions.csv"
)

const (
	accountNumFields = 6
	accountColID     = 0
	accountColTitle  = 1
	accountColType   = 2
	accountColColor  = 3
	accountColFirst  = 4
	accountColCreate = 5
)

const (
	merchantNumFields = 4
	merchantColID     = 0
	merchantColTitle  = 1
	merchantColDesc   = 2
	merchantColCreate = 3
)

const (
	txnNumFields  = 8
	txnColID      = 0
	txnColAccount = 1
	txnColMerch   = 2
	txnColAmount  = 3
	txnColDesc    = 4
	txnColPosted  = 5
	txnColTransed = 6
	txnColCreate  = 7
)

// Load reads a data directory into a Memory store. Missing files yield an
// empty section, so a freshly initialized directory loads cleanly.
func Load(dir string) (*Memory, error) {
	s := NewMemory()

	if err := loadFile(filepath.Join(dir, AccountsFile), func(r io.Reader) error {
		accounts, err := ReadAccounts(r)
		if err != nil {
			return err
		}
		for _, a := range accounts {
			s.accounts[a.ID] = a
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("loading accounts: %w", err)
	}

	if err := loadFile(filepath.Join(dir, MerchantsFile), func(r io.Reader) error {
		merchants, err := ReadMerchants(r)
		if err != nil {
			return err
		}
		for _, m := range merchants {
			s.merchants[m.ID] = m
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("loading merchants: %w", err)
	}

	if err := loadFile(filepath.Join(dir, TransactionsFile), func(r io.Reader) error {
		txns, err := ReadTransactions(r)
		if err != nil {
			return err
		}
		s.transactions = txns
		return nil
	}); err != nil {
		return nil, fmt.Errorf("loading transactions: %w", err)
	}

	return s, nil
}

// Save writes the store's contents back to a data directory.
func (s *Memory) Save(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	accounts := make([]model.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		accounts = append(accounts, a)
	}
	sortByTitle(accounts, func(a model.Account) string { return a.Title })

	merchants := make([]model.Merchant, 0, len(s.merchants))
	for _, m := range s.merchants {
		merchants = append(merchants, m)
	}
	sortByTitle(merchants, func(m model.Merchant) string { return m.Title })

	if err := saveFile(filepath.Join(dir, AccountsFile), func(w io.Writer) error {
		return WriteAccounts(w, accounts)
	}); err != nil {
		return fmt.Errorf("saving accounts: %w", err)
	}
	if err := saveFile(filepath.Join(dir, MerchantsFile), func(w io.Writer) error {
		return WriteMerchants(w, merchants)
	}); err != nil {
		return fmt.Errorf("saving merchants: %w", err)
	}
	if err := saveFile(filepath.Join(dir, TransactionsFile), func(w io.Writer) error {
		return WriteTransactions(w, s.transactions)
	}); err != nil {
		return fmt.Errorf("saving transactions: %w", err)
	}
	return nil
}

func loadFile(path string, read func(io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()
	return read(f)
}

func saveFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return write(f)
}

// ReadAccounts reads accounts.csv.
func ReadAccounts(r io.Reader) ([]model.Account, error) {
	records, err := readRecords(r, accountNumFields)
	if err != nil {
		return nil, err
	}

	var accounts []model.Account
	for i, rec := range records {
		a, err := UnmarshalAccount(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		accounts = append(accounts, a)
	}
	return accounts, nil
}

// WriteAccounts writes accounts.csv.
func WriteAccounts(w io.Writer, accounts []model.Account) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"account_id", "title", "type", "accent_color", "date_first_available", "created_at"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, a := range accounts {
		if err := cw.Write(MarshalAccount(a)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalAccount converts an Account to a CSV row.
func MarshalAccount(a model.Account) []string {
	row := make([]string, accountNumFields)
	row[accountColID] = a.ID
	row[accountColTitle] = a.Title
	row[accountColType] = string(a.Type)
	row[accountColColor] = a.AccentColor
	if a.DateFirstAvailable != nil {
		row[accountColFirst] = a.DateFirstAvailable.Format(time.RFC3339)
	}
	row[accountColCreate] = a.CreatedAt.Format(time.RFC3339)
	return row
}

// UnmarshalAccount converts a CSV row to an Account.
func UnmarshalAccount(record []string) (model.Account, error) {
	if len(record) != accountNumFields {
		return model.Account{}, fmt.Errorf("expected %d fields, got %d", accountNumFields, len(record))
	}

	first, err := parseOptionalTime(record[accountColFirst])
	if err != nil {
		return model.Account{}, fmt.Errorf("parsing date_first_available: %w", err)
	}
	created, err := time.Parse(time.RFC3339, record[accountColCreate])
	if err != nil {
		return model.Account{}, fmt.Errorf("parsing created_at %q: %w", record[accountColCreate], err)
	}

	return model.Account{
		ID:                 record[accountColID],
		Title:              record[accountColTitle],
		Type:               model.AccountType(record[accountColType]),
		AccentColor:        record[accountColColor],
		DateFirstAvailable: first,
		CreatedAt:          created,
	}, nil
}

// ReadMerchants reads merchants.csv.
func ReadMerchants(r io.Reader) ([]model.Merchant, error) {
	records, err := readRecords(r, merchantNumFields)
	if err != nil {
		return nil, err
	}

	var merchants []model.Merchant
	for i, rec := range records {
		m, err := UnmarshalMerchant(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		merchants = append(merchants, m)
	}
	return merchants, nil
}

// WriteMerchants writes merchants.csv.
func WriteMerchants(w io.Writer, merchants []model.Merchant) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"merchant_id", "title", "description", "created_at"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, m := range merchants {
		if err := cw.Write(MarshalMerchant(m)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalMerchant converts a Merchant to a CSV row.
func MarshalMerchant(m model.Merchant) []string {
	row := make([]string, merchantNumFields)
	row[merchantColID] = m.ID
	row[merchantColTitle] = m.Title
	row[merchantColDesc] = m.Description
	row[merchantColCreate] = m.CreatedAt.Format(time.RFC3339)
	return row
}

// UnmarshalMerchant converts a CSV row to a Merchant.
func UnmarshalMerchant(record []string) (model.Merchant, error) {
	if len(record) != merchantNumFields {
		return model.Merchant{}, fmt.Errorf("expected %d fields, got %d", merchantNumFields, len(record))
	}

	created, err := time.Parse(time.RFC3339, record[merchantColCreate])
	if err != nil {
		return model.Merchant{}, fmt.Errorf("parsing created_at %q: %w", record[merchantColCreate], err)
	}

	return model.Merchant{
		ID:          record[merchantColID],
		Title:       record[merchantColTitle],
		Description: record[merchantColDesc],
		CreatedAt:   created,
	}, nil
}

// ReadTransactions reads transactions.csv.
func ReadTransactions(r io.Reader) ([]model.Transaction, error) {
	records, err := readRecords(r, txnNumFields)
	if err != nil {
		return nil, err
	}

	var txns []model.Transaction
	for i, rec := range records {
		t, err := UnmarshalTransaction(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txns = append(txns, t)
	}
	return txns, nil
}

// WriteTransactions writes transactions.csv.
func WriteTransactions(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"transaction_id", "account_id", "merchant_id", "amount_cents", "description", "posted_at", "transacted_at", "created_at"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, t := range txns {
		if err := cw.Write(MarshalTransaction(t)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalTransaction converts a Transaction to a CSV row.
func MarshalTransaction(t model.Transaction) []string {
	row := make([]string, txnNumFields)
	row[txnColID] = t.ID
	row[txnColAccount] = t.AccountID
	row[txnColMerch] = t.MerchantID
	row[txnColAmount] = strconv.FormatInt(t.Amount, 10)
	row[txnColDesc] = t.Description
	row[txnColPosted] = t.PostedAt.Format(time.RFC3339)
	if t.TransactedAt != nil {
		row[txnColTransed] = t.TransactedAt.Format(time.RFC3339)
	}
	row[txnColCreate] = t.CreatedAt.Format(time.RFC3339)
	return row
}

// UnmarshalTransaction converts a CSV row to a Transaction.
func UnmarshalTransaction(record []string) (model.Transaction, error) {
	if len(record) != txnNumFields {
		return model.Transaction{}, fmt.Errorf("expected %d fields, got %d", txnNumFields, len(record))
	}

	amount, err := strconv.ParseInt(record[txnColAmount], 10, 64)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing amount_cents %q: %w", record[txnColAmount], err)
	}
	posted, err := time.Parse(time.RFC3339, record[txnColPosted])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing posted_at %q: %w", record[txnColPosted], err)
	}
	transacted, err := parseOptionalTime(record[txnColTransed])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing transacted_at: %w", err)
	}
	created, err := time.Parse(time.RFC3339, record[txnColCreate])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing created_at %q: %w", record[txnColCreate], err)
	}

	return model.Transaction{
		ID:           record[txnColID],
		AccountID:    record[txnColAccount],
		MerchantID:   record[txnColMerch],
		Amount:       amount,
		Description:  record[txnColDesc],
		PostedAt:     posted,
		TransactedAt: transacted,
		CreatedAt:    created,
	}, nil
}

func readRecords(r io.Reader, numFields int) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[1:], nil
}

func parseOptionalTime(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, fmt.Errorf("parsing time %q: %w", s, err)
	}
	return &t, nil
}
